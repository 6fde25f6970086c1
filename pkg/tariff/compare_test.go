package tariff

import (
	"testing"
	"time"

	"github.com/ratecompass/ratecompass/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nyLoc(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	return loc
}

// uniformUsage builds a 30-minute dataset of constant readings starting at
// start.
func uniformUsage(t *testing.T, start time.Time, days int, kwh float64) types.UsageData {
	t.Helper()
	readings := make([]types.Reading, 0, days*48)
	for i := 0; i < days*48; i++ {
		readings = append(readings, types.Reading{
			Timestamp: start.Add(time.Duration(i) * 30 * time.Minute),
			EnergyKWH: kwh,
		})
	}
	return types.UsageData{Meter: testMeter(), Readings: readings}
}

func TestCompareAnnualTotalsMatchMonthlySums(t *testing.T) {
	e := New(DefaultSchedule(), nyLoc(t))
	data := uniformUsage(t, nyTime(t, 2025, time.January, 1, 0, 0), 90, 0.6)

	res, err := e.Compare(data)
	require.NoError(t, err)

	for _, plan := range []types.RatePlan{types.PlanStandard, types.PlanTOU, types.PlanTOUEV} {
		bills := res.MonthlyBills[plan]
		require.NotEmpty(t, bills, plan)
		// Re-aggregating the monthly bills reproduces the annual total exactly.
		assert.Equal(t, res.AnnualTotals[plan], AnnualTotal(bills), plan)
	}

	// 90 days from January 1st is exactly January through March.
	assert.Len(t, res.MonthlyBills[types.PlanStandard], 3)
	assert.Equal(t, "2025-01", res.MonthlyBills[types.PlanStandard][0].Month.Format("2006-01"))
}

func TestCompareBestPlanExactTie(t *testing.T) {
	// A flat schedule where every plan prices identically: with all usage in
	// the shared overnight discount window, the three annual totals tie
	// exactly and the fixed preference order picks TOU-EV.
	flat := Schedule{
		Standard: PlanRates{CustomerCharge: 5, Tiers: []Tier{{Rate: 0.10}}},
		TOU: PlanRates{CustomerCharge: 5, Rates: map[types.Period]float64{
			types.PeriodOnPeak:   0.20,
			types.PeriodOffPeak:  0.15,
			types.PeriodDiscount: 0.10,
		}},
		TOUEV: PlanRates{CustomerCharge: 5, Rates: map[types.Period]float64{
			types.PeriodDiscount: 0.10,
			types.PeriodStandard: 0.25,
		}},
	}
	e := New(flat, nyLoc(t))

	// 8 readings per night, all between 01:00 and 04:30.
	var readings []types.Reading
	for day := 0; day < 6; day++ {
		base := nyTime(t, 2025, time.March, 17+day, 1, 0)
		for i := 0; i < 8; i++ {
			readings = append(readings, types.Reading{
				Timestamp: base.Add(time.Duration(i) * 30 * time.Minute),
				EnergyKWH: 0.5,
			})
		}
	}
	res, err := e.Compare(types.UsageData{Meter: testMeter(), Readings: readings})
	require.NoError(t, err)

	assert.Equal(t, res.AnnualTotals[types.PlanStandard], res.AnnualTotals[types.PlanTOU])
	assert.Equal(t, res.AnnualTotals[types.PlanTOU], res.AnnualTotals[types.PlanTOUEV])
	assert.Equal(t, types.PlanTOUEV, res.BestPlan)
}

func TestCompareBestPlanCheapestWins(t *testing.T) {
	e := New(DefaultSchedule(), nyLoc(t))

	t.Run("overnight usage favors TOU", func(t *testing.T) {
		// Everything in the discount window: TOU's discount rate is the lowest.
		var readings []types.Reading
		for day := 0; day < 6; day++ {
			base := nyTime(t, 2025, time.March, 17+day, 1, 0)
			for i := 0; i < 8; i++ {
				readings = append(readings, types.Reading{
					Timestamp: base.Add(time.Duration(i) * 30 * time.Minute),
					EnergyKWH: 0.5,
				})
			}
		}
		res, err := e.Compare(types.UsageData{Meter: testMeter(), Readings: readings})
		require.NoError(t, err)
		assert.Equal(t, types.PlanTOU, res.BestPlan)
	})

	t.Run("evening peak usage favors Standard", func(t *testing.T) {
		// Everything during summer weekday on-peak hours: the TOU plans both
		// price above the Standard first tier.
		var readings []types.Reading
		day := nyTime(t, 2025, time.July, 1, 0, 0)
		for len(readings) < 48 {
			if isWeekday(day) {
				readings = append(readings,
					types.Reading{Timestamp: day.Add(18 * time.Hour), EnergyKWH: 0.5},
					types.Reading{Timestamp: day.Add(18*time.Hour + 30*time.Minute), EnergyKWH: 0.5},
				)
			}
			day = day.AddDate(0, 0, 1)
		}
		res, err := e.Compare(types.UsageData{Meter: testMeter(), Readings: readings})
		require.NoError(t, err)
		assert.Equal(t, types.PlanStandard, res.BestPlan)
	})
}

func TestCompareUsageBreakdown(t *testing.T) {
	e := New(DefaultSchedule(), nyLoc(t))
	data := uniformUsage(t, nyTime(t, 2025, time.January, 1, 0, 0), 30, 0.5)

	res, err := e.Compare(data)
	require.NoError(t, err)

	for _, plan := range []types.RatePlan{types.PlanTOU, types.PlanTOUEV} {
		var pctSum float64
		for _, pct := range res.UsageBreakdown[plan] {
			pctSum += pct
		}
		assert.InDelta(t, 100.0, pctSum, 1e-6, plan)
	}

	// Uniform usage: 6 of 24 hours fall in the overnight discount window.
	assert.InDelta(t, 25.0, res.UsageBreakdown[types.PlanTOUEV][types.PeriodDiscount], 0.5)
}

func TestCompareValidationErrorsPropagate(t *testing.T) {
	e := New(DefaultSchedule(), nyLoc(t))

	_, err := e.Compare(types.UsageData{
		Meter:    testMeter(),
		Readings: genReadings(t, nyTime(t, 2025, time.March, 1, 0, 0), 10, 30*time.Minute, 0.5),
	})
	var ierr *InsufficientDataError
	require.ErrorAs(t, err, &ierr)
	assert.Equal(t, 10, ierr.Count)
}

func TestCompareAcrossDSTTransition(t *testing.T) {
	// US spring-forward: 2025-03-09 02:00 EST jumps to 03:00 EDT. The
	// pipeline classifies by civil local time and must come through the
	// transition without error.
	e := New(DefaultSchedule(), nyLoc(t))
	data := uniformUsage(t, nyTime(t, 2025, time.March, 8, 0, 0), 3, 0.5)

	res, err := e.Compare(data)
	require.NoError(t, err)
	require.Len(t, res.MonthlyBills[types.PlanTOU], 1)
	assert.InDelta(t, data.Readings[0].EnergyKWH*float64(len(data.Readings)),
		res.MonthlyBills[types.PlanTOU][0].TotalKWH, 1e-9)
}

func TestBuildReport(t *testing.T) {
	e := New(DefaultSchedule(), nyLoc(t))
	data := uniformUsage(t, nyTime(t, 2025, time.January, 1, 0, 0), 59, 0.5)

	res, err := e.Compare(data)
	require.NoError(t, err)
	report := BuildReport(res)

	assert.True(t, report.Success)
	assert.Empty(t, report.Error)
	assert.Equal(t, string(res.BestPlan), report.BestRate.Name)
	assert.Equal(t, round2(res.AnnualTotals[res.BestPlan]), report.BestRate.Cost)

	assert.Equal(t, round2(res.AnnualTotals[types.PlanStandard]), report.Totals.Standard)
	assert.Equal(t, round2(res.AnnualTotals[types.PlanTOU]), report.Totals.TOU)
	assert.Equal(t, round2(res.AnnualTotals[types.PlanTOUEV]), report.Totals.TOUEV)

	std := res.AnnualTotals[types.PlanStandard]
	assert.Equal(t, round2(std-res.AnnualTotals[types.PlanTOU]), report.Savings.TOU)
	assert.Equal(t, round2(std-res.AnnualTotals[types.PlanTOUEV]), report.Savings.TOUEV)
	assert.Equal(t, round2(res.AnnualTotals[types.PlanTOU]-res.AnnualTotals[types.PlanTOUEV]), report.Savings.TOUEVVsTOU)

	require.Len(t, report.MonthlyData, 2)
	assert.Equal(t, "2025-01", report.MonthlyData[0].Month)
	assert.Equal(t, "2025-02", report.MonthlyData[1].Month)
	for i, mc := range report.MonthlyData {
		assert.Equal(t, round2(res.MonthlyBills[types.PlanStandard][i].Cost), mc.StandardCost)
		assert.Equal(t, round2(res.MonthlyBills[types.PlanTOU][i].Cost), mc.TOUCost)
		assert.Equal(t, round2(res.MonthlyBills[types.PlanTOUEV][i].Cost), mc.TOUEVCost)
	}

	pctSum := report.UsageBreakdown.TOU.OnPeakPct +
		report.UsageBreakdown.TOU.OffPeakPct +
		report.UsageBreakdown.TOU.DiscountPct
	assert.InDelta(t, 100.0, pctSum, 0.05)
}
