package tariff

import (
	"math"
	"time"

	"github.com/ratecompass/ratecompass/pkg/types"
)

// AnalyzeRange breaks down the usage inside [start, end] (inclusive) per plan
// and period: energy, share, cost and the demand observed. Range costs cover
// energy and demand only, so the fixed monthly customer charge is excluded
// and the cheapest plan over a range can differ from the annual best plan.
func (e *Engine) AnalyzeRange(data types.UsageData, start, end time.Time) (types.RangeAnalysis, error) {
	readings, err := Validate(data)
	if err != nil {
		return types.RangeAnalysis{}, err
	}
	if end.Before(start) {
		return types.RangeAnalysis{}, &EmptyRangeError{Start: start, End: end}
	}

	var in []types.Reading
	for _, r := range readings {
		if !r.Timestamp.Before(start) && !r.Timestamp.After(end) {
			in = append(in, r)
		}
	}
	if len(in) == 0 {
		return types.RangeAnalysis{}, &EmptyRangeError{Start: start, End: end}
	}

	intervalSeconds := data.IntervalSeconds()
	intervalHours := float64(intervalSeconds) / 3600

	var totalKWH, maxDemandKW float64
	for _, r := range in {
		totalKWH += r.EnergyKWH
		if kw := r.EnergyKWH / intervalHours; kw > maxDemandKW {
			maxDemandKW = kw
		}
	}

	touRates, err := e.schedule.ForPlan(types.PlanTOU)
	if err != nil {
		return types.RangeAnalysis{}, &ProcessingError{Op: "pricing", Err: err}
	}
	evRates, err := e.schedule.ForPlan(types.PlanTOUEV)
	if err != nil {
		return types.RangeAnalysis{}, &ProcessingError{Op: "pricing", Err: err}
	}
	stdRates, err := e.schedule.ForPlan(types.PlanStandard)
	if err != nil {
		return types.RangeAnalysis{}, &ProcessingError{Op: "pricing", Err: err}
	}

	touClassified := make([]types.ClassifiedReading, 0, len(in))
	for _, r := range in {
		touClassified = append(touClassified, types.ClassifiedReading{
			Reading: r,
			Period:  Classify(r.Timestamp.In(e.loc), types.PlanTOU),
		})
	}
	onPeakDemandKW := peakOnPeakDemandKW(touClassified, intervalSeconds)

	tou, touTotal := rangePlanCost(in, types.PlanTOU, touRates, totalKWH, e.loc)
	if touRates.DemandCharge {
		tou.DemandCharge = round2(onPeakDemandKW * touRates.DemandRatePerKW)
		touTotal += onPeakDemandKW * touRates.DemandRatePerKW
		tou.TotalCost = round2(touTotal)
	}
	ev, evTotal := rangePlanCost(in, types.PlanTOUEV, evRates, totalKWH, e.loc)

	stdTotal := tieredCharge(totalKWH, stdRates.Tiers)
	std := types.RangePlanCost{TotalCost: round2(stdTotal)}

	totals := map[types.RatePlan]float64{
		types.PlanStandard: stdTotal,
		types.PlanTOU:      touTotal,
		types.PlanTOUEV:    evTotal,
	}
	cheapest := bestPlanPreference[0]
	for _, p := range bestPlanPreference[1:] {
		if totals[p] < totals[cheapest] {
			cheapest = p
		}
	}

	res := types.RangeAnalysis{
		Success:        true,
		Start:          start.In(e.loc).Format("2006-01-02"),
		End:            end.In(e.loc).Format("2006-01-02"),
		Days:           rangeDays(start, end, e.loc),
		Readings:       len(in),
		TotalKWH:       round2(totalKWH),
		Standard:       std,
		TOU:            tou,
		TOUEV:          ev,
		CheapestPlan:   cheapest,
		OnPeakDemandKW: round2(onPeakDemandKW),
		MaxDemandKW:    round2(maxDemandKW),
		Savings: types.PlanSavings{
			TOU:        round2(stdTotal - touTotal),
			TOUEV:      round2(stdTotal - evTotal),
			TOUEVVsTOU: round2(touTotal - evTotal),
		},
	}
	res.AvgDailyKWH = round2(totalKWH / float64(res.Days))
	return res, nil
}

// rangePlanCost sums a time-differentiated plan's energy per period over the
// filtered readings and prices it. Returns the rounded payload and the
// unrounded total for comparison.
func rangePlanCost(in []types.Reading, plan types.RatePlan, rates PlanRates, totalKWH float64, loc *time.Location) (types.RangePlanCost, float64) {
	kwh := make(map[types.Period]float64)
	for _, r := range in {
		kwh[Classify(r.Timestamp.In(loc), plan)] += r.EnergyKWH
	}

	periods := make(map[types.Period]types.RangePeriodUsage, len(kwh))
	var total float64
	for period, v := range kwh {
		rate := rates.Rates[period]
		cost := v * rate
		total += cost
		u := types.RangePeriodUsage{
			EnergyKWH:       round2(v),
			Cost:            round2(cost),
			RateCentsPerKWH: rate * 100,
		}
		if totalKWH > 0 {
			u.Percentage = round2(v / totalKWH * 100)
		}
		periods[period] = u
	}
	return types.RangePlanCost{Periods: periods, TotalCost: round2(total)}, total
}

// rangeDays counts the inclusive civil days the range spans in loc.
func rangeDays(start, end time.Time, loc *time.Location) int {
	s, e := start.In(loc), end.In(loc)
	sd := time.Date(s.Year(), s.Month(), s.Day(), 0, 0, 0, 0, loc)
	ed := time.Date(e.Year(), e.Month(), e.Day(), 0, 0, 0, 0, loc)
	return int(math.Round(ed.Sub(sd).Hours()/24)) + 1
}
