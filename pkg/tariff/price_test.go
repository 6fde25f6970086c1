package tariff

import (
	"testing"
	"time"

	"github.com/ratecompass/ratecompass/pkg/types"
	"github.com/stretchr/testify/assert"
)

func TestTieredCharge(t *testing.T) {
	tiers := []Tier{
		{UpToKWH: 1000, Rate: 0.10},
		{UpToKWH: 2000, Rate: 0.12},
		{Rate: 0.15},
	}

	tests := []struct {
		name  string
		total float64
		want  float64
	}{
		{"zero usage", 0, 0},
		{"within first tier", 900, 900 * 0.10},
		{"exactly at first boundary", 1000, 1000 * 0.10},
		{"into second tier", 1500, 1000*0.10 + 500*0.12},
		{"exactly at second boundary", 2000, 1000*0.10 + 1000*0.12},
		{"into unbounded tier", 2500, 1000*0.10 + 1000*0.12 + 500*0.15},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, tieredCharge(tc.total, tiers), 1e-9)
		})
	}
}

func TestTieredChargeNonDecreasing(t *testing.T) {
	tiers := DefaultSchedule().Standard.Tiers
	prev := 0.0
	for kwh := 0.0; kwh <= 3000; kwh += 50 {
		cost := tieredCharge(kwh, tiers)
		assert.GreaterOrEqual(t, cost, prev, "cost dropped at %f kWh", kwh)
		prev = cost
	}
}

func TestPeakOnPeakDemand(t *testing.T) {
	base := nyTime(t, 2025, time.July, 9, 18, 0) // summer weekday, on-peak
	readings := []types.ClassifiedReading{
		{Reading: types.Reading{Timestamp: base, EnergyKWH: 1.0}, Period: types.PeriodOnPeak},
		{Reading: types.Reading{Timestamp: base.Add(30 * time.Minute), EnergyKWH: 2.5}, Period: types.PeriodOnPeak},
		// Bigger interval off-peak must not count towards the demand charge.
		{Reading: types.Reading{Timestamp: base.Add(4 * time.Hour), EnergyKWH: 5.0}, Period: types.PeriodOffPeak},
	}

	// 2.5 kWh over 30 minutes is 5 kW.
	assert.InDelta(t, 5.0, peakOnPeakDemandKW(readings, 1800), 1e-9)

	// At hourly resolution the same energy is only 2.5 kW.
	assert.InDelta(t, 2.5, peakOnPeakDemandKW(readings, 3600), 1e-9)

	// No on-peak usage means zero demand.
	assert.Zero(t, peakOnPeakDemandKW(readings[2:], 1800))
}

func TestPriceMonthTOUOffPeakOnly(t *testing.T) {
	// A month of usage entirely off-peak: cost is energy at the off-peak rate
	// and the demand charge is zero because no on-peak interval exists.
	sched := DefaultSchedule()
	rates := sched.TOU
	rates.CustomerCharge = 0

	month := nyTime(t, 2025, time.January, 1, 0, 0)
	var readings []types.ClassifiedReading
	total := 900.0
	n := 62
	for i := 0; i < n; i++ {
		ts := month.Add(time.Duration(i) * time.Hour)
		readings = append(readings, types.ClassifiedReading{
			Reading: types.Reading{Timestamp: ts, EnergyKWH: total / float64(n)},
			Period:  types.PeriodOffPeak,
		})
	}

	bill := priceMonth(types.PlanTOU, rates, month, readings, 1800)
	assert.InDelta(t, 900*0.06633, bill.Cost, 1e-6)
	assert.Zero(t, bill.DemandCharge)
	assert.Zero(t, bill.PeakDemandKW)
	assert.InDelta(t, 900.0, bill.TotalKWH, 1e-9)
}

func TestPriceMonthTOUDemandCharge(t *testing.T) {
	rates := DefaultSchedule().TOU

	month := nyTime(t, 2025, time.July, 1, 0, 0)
	readings := []types.ClassifiedReading{
		{Reading: types.Reading{Timestamp: nyTime(t, 2025, time.July, 9, 18, 0), EnergyKWH: 2.0}, Period: types.PeriodOnPeak},
		{Reading: types.Reading{Timestamp: nyTime(t, 2025, time.July, 9, 18, 30), EnergyKWH: 1.0}, Period: types.PeriodOnPeak},
		{Reading: types.Reading{Timestamp: nyTime(t, 2025, time.July, 9, 12, 0), EnergyKWH: 3.0}, Period: types.PeriodOffPeak},
	}

	bill := priceMonth(types.PlanTOU, rates, month, readings, 1800)

	// Peak on-peak demand: 2.0 kWh in 30 minutes = 4 kW.
	assert.InDelta(t, 4.0, bill.PeakDemandKW, 1e-9)
	assert.InDelta(t, 4.0*1.99, bill.DemandCharge, 1e-9)

	wantEnergy := 3.0*0.15638 + 3.0*0.06633
	assert.InDelta(t, wantEnergy, bill.EnergyCharge, 1e-9)
	assert.InDelta(t, 14.00+wantEnergy+4.0*1.99, bill.Cost, 1e-9)
}

func TestPriceMonthTOUEVNoDemandCharge(t *testing.T) {
	rates := DefaultSchedule().TOUEV

	month := nyTime(t, 2025, time.July, 1, 0, 0)
	readings := []types.ClassifiedReading{
		{Reading: types.Reading{Timestamp: nyTime(t, 2025, time.July, 9, 23, 30), EnergyKWH: 10.0}, Period: types.PeriodDiscount},
		{Reading: types.Reading{Timestamp: nyTime(t, 2025, time.July, 9, 12, 0), EnergyKWH: 4.0}, Period: types.PeriodStandard},
	}

	bill := priceMonth(types.PlanTOUEV, rates, month, readings, 1800)
	assert.Zero(t, bill.DemandCharge, "TOU-EV never carries a demand charge")
	assert.Zero(t, bill.PeakDemandKW)
	assert.InDelta(t, 14.00+10.0*0.06548+4.0*0.13096, bill.Cost, 1e-9)
}
