package tariff

import (
	"time"

	"github.com/ratecompass/ratecompass/pkg/types"
)

// priceMonth runs the shared pricing pipeline for one plan over one calendar
// month of classified readings. The plan's numeric rules live entirely in
// rates; the control flow is identical for all three plans.
//
// Sums stay unrounded: rounding to cents happens only when the wire payload
// is built.
func priceMonth(plan types.RatePlan, rates PlanRates, month time.Time, readings []types.ClassifiedReading, intervalSeconds int) types.MonthlyBill {
	bill := types.MonthlyBill{
		Plan:           plan,
		Month:          month,
		EnergyByPeriod: make(map[types.Period]float64),
		CustomerCharge: rates.CustomerCharge,
	}

	for _, r := range readings {
		bill.EnergyByPeriod[r.Period] += r.EnergyKWH
		bill.TotalKWH += r.EnergyKWH
	}

	if len(rates.Tiers) > 0 {
		bill.EnergyCharge = tieredCharge(bill.TotalKWH, rates.Tiers)
	} else {
		for period, kwh := range bill.EnergyByPeriod {
			bill.EnergyCharge += kwh * rates.Rates[period]
		}
	}

	if rates.DemandCharge {
		bill.PeakDemandKW = peakOnPeakDemandKW(readings, intervalSeconds)
		bill.DemandCharge = bill.PeakDemandKW * rates.DemandRatePerKW
	}

	bill.Cost = bill.CustomerCharge + bill.EnergyCharge + bill.DemandCharge
	return bill
}

// tieredCharge prices total monthly usage against ascending cumulative
// tiers. Each tier's block is priced independently; reaching a higher tier
// never re-prices the energy consumed in lower tiers.
func tieredCharge(totalKWH float64, tiers []Tier) float64 {
	var cost, prev float64
	for _, t := range tiers {
		if t.UpToKWH <= 0 || totalKWH <= t.UpToKWH {
			return cost + (totalKWH-prev)*t.Rate
		}
		cost += (t.UpToKWH - prev) * t.Rate
		prev = t.UpToKWH
	}
	// No unbounded tier configured: the remainder bills at the last tier's rate.
	return cost + (totalKWH-prev)*tiers[len(tiers)-1].Rate
}

// peakOnPeakDemandKW returns the maximum single-interval average power, in
// kW, observed during on-peak intervals. Demand charges bill on peak usage
// during on-peak hours, not the absolute maximum over the month, so months
// with no on-peak usage yield 0.
func peakOnPeakDemandKW(readings []types.ClassifiedReading, intervalSeconds int) float64 {
	hours := float64(intervalSeconds) / 3600
	var peak float64
	for _, r := range readings {
		if r.Period != types.PeriodOnPeak {
			continue
		}
		if kw := r.EnergyKWH / hours; kw > peak {
			peak = kw
		}
	}
	return peak
}
