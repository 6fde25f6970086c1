package tariff

import (
	"testing"
	"time"

	"github.com/ratecompass/ratecompass/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nyTime(t *testing.T, year int, month time.Month, day, hour, min int) time.Time {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	return time.Date(year, month, day, hour, min, 0, 0, loc)
}

func TestSeasonOf(t *testing.T) {
	assert.Equal(t, types.SeasonSummer, SeasonOf(nyTime(t, 2025, time.June, 1, 12, 0)))
	assert.Equal(t, types.SeasonSummer, SeasonOf(nyTime(t, 2025, time.September, 30, 12, 0)))
	assert.Equal(t, types.SeasonWinter, SeasonOf(nyTime(t, 2025, time.May, 31, 12, 0)))
	assert.Equal(t, types.SeasonWinter, SeasonOf(nyTime(t, 2025, time.October, 1, 12, 0)))
	assert.Equal(t, types.SeasonWinter, SeasonOf(nyTime(t, 2025, time.January, 15, 12, 0)))
}

func TestClassifyDiscountWindow(t *testing.T) {
	// The overnight discount window applies every day, year-round, for both
	// time-differentiated plans.
	discount := []time.Time{
		nyTime(t, 2025, time.July, 9, 23, 0),  // Wednesday
		nyTime(t, 2025, time.July, 10, 2, 0),
		nyTime(t, 2025, time.July, 10, 4, 59),
		nyTime(t, 2025, time.January, 11, 23, 30), // Saturday
	}
	for _, ts := range discount {
		assert.Equal(t, types.PeriodDiscount, Classify(ts, types.PlanTOU), ts)
		assert.Equal(t, types.PeriodDiscount, Classify(ts, types.PlanTOUEV), ts)
	}

	notDiscount := []time.Time{
		nyTime(t, 2025, time.July, 10, 5, 0),
		nyTime(t, 2025, time.July, 9, 22, 59),
	}
	for _, ts := range notDiscount {
		assert.NotEqual(t, types.PeriodDiscount, Classify(ts, types.PlanTOU), ts)
		assert.NotEqual(t, types.PeriodDiscount, Classify(ts, types.PlanTOUEV), ts)
	}
}

func TestClassifyTOU(t *testing.T) {
	tests := []struct {
		name string
		ts   time.Time
		want types.Period
	}{
		{"summer weekday evening on-peak", nyTime(t, 2025, time.July, 9, 18, 0), types.PeriodOnPeak},
		{"summer weekday just before on-peak", nyTime(t, 2025, time.July, 9, 17, 59), types.PeriodOffPeak},
		{"summer weekday at on-peak end", nyTime(t, 2025, time.July, 9, 21, 0), types.PeriodOffPeak},
		{"summer weekend evening is off-peak", nyTime(t, 2025, time.July, 12, 19, 0), types.PeriodOffPeak},
		{"winter weekday morning on-peak", nyTime(t, 2025, time.January, 8, 7, 0), types.PeriodOnPeak},
		{"winter weekday evening is off-peak", nyTime(t, 2025, time.January, 8, 18, 30), types.PeriodOffPeak},
		{"winter weekend morning is off-peak", nyTime(t, 2025, time.January, 12, 7, 0), types.PeriodOffPeak},
		{"weekend overnight still discount", nyTime(t, 2025, time.July, 13, 3, 0), types.PeriodDiscount},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.ts, types.PlanTOU))
		})
	}
}

func TestClassifyTOUEV(t *testing.T) {
	// Binary schedule: no seasonal or weekday distinction.
	assert.Equal(t, types.PeriodStandard, Classify(nyTime(t, 2025, time.July, 9, 18, 30), types.PlanTOUEV))
	assert.Equal(t, types.PeriodStandard, Classify(nyTime(t, 2025, time.January, 12, 7, 0), types.PlanTOUEV))
	assert.Equal(t, types.PeriodDiscount, Classify(nyTime(t, 2025, time.January, 12, 0, 15), types.PlanTOUEV))
}

func TestClassifyStandard(t *testing.T) {
	assert.Equal(t, types.PeriodStandard, Classify(nyTime(t, 2025, time.July, 9, 18, 30), types.PlanStandard))
	assert.Equal(t, types.PeriodStandard, Classify(nyTime(t, 2025, time.July, 10, 2, 0), types.PlanStandard))
}

func TestHourWindowWrap(t *testing.T) {
	w := hourWindow{Start: 23, End: 5}
	assert.True(t, w.contains(23))
	assert.True(t, w.contains(0))
	assert.True(t, w.contains(4))
	assert.False(t, w.contains(5))
	assert.False(t, w.contains(22))

	day := hourWindow{Start: 6, End: 9}
	assert.True(t, day.contains(6))
	assert.False(t, day.contains(9))
}
