package tariff

import (
	"sort"
	"time"

	"github.com/ratecompass/ratecompass/pkg/types"
)

// monthStart truncates a local timestamp to the first instant of its
// calendar month, keeping the location.
func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// monthlyBills classifies the readings under one plan, groups them by local
// calendar month and prices each month, returning bills in month order.
// Months with partial data bill only on the readings present.
func monthlyBills(plan types.RatePlan, rates PlanRates, readings []types.Reading, loc *time.Location, intervalSeconds int) []types.MonthlyBill {
	byMonth := make(map[time.Time][]types.ClassifiedReading)
	for _, r := range readings {
		local := r.Timestamp.In(loc)
		cr := types.ClassifiedReading{
			Reading: types.Reading{Timestamp: local, EnergyKWH: r.EnergyKWH},
			Period:  Classify(local, plan),
		}
		key := monthStart(local)
		byMonth[key] = append(byMonth[key], cr)
	}

	months := make([]time.Time, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })

	bills := make([]types.MonthlyBill, 0, len(months))
	for _, m := range months {
		bills = append(bills, priceMonth(plan, rates, m, byMonth[m], intervalSeconds))
	}
	return bills
}

// AnnualTotal sums monthly bill costs. Summation uses the unrounded monthly
// values, so re-aggregating a plan's bills always reproduces its annual
// total exactly.
func AnnualTotal(bills []types.MonthlyBill) float64 {
	var total float64
	for _, b := range bills {
		total += b.Cost
	}
	return total
}
