package tariff

import (
	"math"

	"github.com/ratecompass/ratecompass/pkg/types"
)

var comparePlans = []types.RatePlan{types.PlanStandard, types.PlanTOU, types.PlanTOUEV}

// bestPlanPreference is the tie-break order: on an exact numeric tie the
// first-listed plan wins.
var bestPlanPreference = []types.RatePlan{types.PlanTOUEV, types.PlanTOU, types.PlanStandard}

// Compare runs the full pipeline over an upload's usage data: validate,
// classify, price each month under every plan, aggregate and select the
// cheapest plan. All amounts in the result are unrounded.
func (e *Engine) Compare(data types.UsageData) (types.ComparisonResult, error) {
	readings, err := Validate(data)
	if err != nil {
		return types.ComparisonResult{}, err
	}
	intervalSeconds := data.IntervalSeconds()

	res := types.ComparisonResult{
		AnnualTotals:   make(map[types.RatePlan]float64, len(comparePlans)),
		MonthlyBills:   make(map[types.RatePlan][]types.MonthlyBill, len(comparePlans)),
		UsageBreakdown: make(map[types.RatePlan]map[types.Period]float64, 2),
		UsageKWH:       make(map[types.RatePlan]map[types.Period]float64, 2),
	}

	for _, plan := range comparePlans {
		rates, err := e.schedule.ForPlan(plan)
		if err != nil {
			return types.ComparisonResult{}, &ProcessingError{Op: "pricing", Err: err}
		}
		bills := monthlyBills(plan, rates, readings, e.loc, intervalSeconds)
		res.MonthlyBills[plan] = bills
		res.AnnualTotals[plan] = AnnualTotal(bills)
	}

	var totalKWH float64
	for _, r := range readings {
		totalKWH += r.EnergyKWH
	}
	for _, plan := range []types.RatePlan{types.PlanTOU, types.PlanTOUEV} {
		kwh := make(map[types.Period]float64)
		for _, r := range readings {
			local := r.Timestamp.In(e.loc)
			kwh[Classify(local, plan)] += r.EnergyKWH
		}
		pct := make(map[types.Period]float64, len(kwh))
		if totalKWH > 0 {
			for p, v := range kwh {
				pct[p] = v / totalKWH * 100
			}
		}
		res.UsageKWH[plan] = kwh
		res.UsageBreakdown[plan] = pct
	}

	best := bestPlanPreference[0]
	for _, p := range bestPlanPreference[1:] {
		if res.AnnualTotals[p] < res.AnnualTotals[best] {
			best = p
		}
	}
	res.BestPlan = best

	return res, nil
}

// Report rounds a comparison result into the wire payload the report
// renderer consumes. This is the only place currency values are rounded.
func (e *Engine) Report(data types.UsageData) (types.Report, error) {
	res, err := e.Compare(data)
	if err != nil {
		return types.Report{}, err
	}
	return BuildReport(res), nil
}

// BuildReport converts an unrounded ComparisonResult into the exact payload
// shape of the compare endpoint.
func BuildReport(res types.ComparisonResult) types.Report {
	stdTotal := res.AnnualTotals[types.PlanStandard]
	touTotal := res.AnnualTotals[types.PlanTOU]
	evTotal := res.AnnualTotals[types.PlanTOUEV]

	report := types.Report{
		Success: true,
		BestRate: types.BestRate{
			Name: string(res.BestPlan),
			Cost: round2(res.AnnualTotals[res.BestPlan]),
		},
		Totals: types.PlanTotals{
			Standard: round2(stdTotal),
			TOU:      round2(touTotal),
			TOUEV:    round2(evTotal),
		},
		Savings: types.PlanSavings{
			TOU:        round2(stdTotal - touTotal),
			TOUEV:      round2(stdTotal - evTotal),
			TOUEVVsTOU: round2(touTotal - evTotal),
		},
	}
	if stdTotal > 0 {
		report.Percentages = types.PlanPercentages{
			TOU:   round2((stdTotal - touTotal) / stdTotal * 100),
			TOUEV: round2((stdTotal - evTotal) / stdTotal * 100),
		}
	}

	touKWH := res.UsageKWH[types.PlanTOU]
	touPct := res.UsageBreakdown[types.PlanTOU]
	evKWH := res.UsageKWH[types.PlanTOUEV]
	evPct := res.UsageBreakdown[types.PlanTOUEV]
	report.UsageBreakdown = types.UsageBreakdown{
		TOU: types.TOUBreakdown{
			OnPeakKWH:       round2(touKWH[types.PeriodOnPeak]),
			OffPeakKWH:      round2(touKWH[types.PeriodOffPeak]),
			DiscountKWH:     round2(touKWH[types.PeriodDiscount]),
			OnPeakPct:       round2(touPct[types.PeriodOnPeak]),
			OffPeakPct:      round2(touPct[types.PeriodOffPeak]),
			DiscountPct:     round2(touPct[types.PeriodDiscount]),
			AvgDemandCharge: round2(avgDemandCharge(res.MonthlyBills[types.PlanTOU])),
		},
		TOUEV: types.TOUEVBreakdown{
			DiscountKWH: round2(evKWH[types.PeriodDiscount]),
			StandardKWH: round2(evKWH[types.PeriodStandard]),
			DiscountPct: round2(evPct[types.PeriodDiscount]),
			StandardPct: round2(evPct[types.PeriodStandard]),
		},
	}

	// All plans are billed from the same readings, so their bill slices cover
	// the same months in the same order.
	stdBills := res.MonthlyBills[types.PlanStandard]
	touBills := res.MonthlyBills[types.PlanTOU]
	evBills := res.MonthlyBills[types.PlanTOUEV]
	report.MonthlyData = make([]types.MonthComparison, 0, len(stdBills))
	for i, b := range stdBills {
		mc := types.MonthComparison{
			Month:        b.Month.Format("2006-01"),
			StandardCost: round2(b.Cost),
		}
		if i < len(touBills) {
			mc.TOUCost = round2(touBills[i].Cost)
		}
		if i < len(evBills) {
			mc.TOUEVCost = round2(evBills[i].Cost)
		}
		report.MonthlyData = append(report.MonthlyData, mc)
	}

	return report
}

func avgDemandCharge(bills []types.MonthlyBill) float64 {
	if len(bills) == 0 {
		return 0
	}
	var sum float64
	for _, b := range bills {
		sum += b.DemandCharge
	}
	return sum / float64(len(bills))
}

// round2 rounds to two decimal places. Used only at this presentation
// boundary; all intermediate sums stay unrounded.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
