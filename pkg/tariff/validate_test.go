package tariff

import (
	"math"
	"testing"
	"time"

	"github.com/ratecompass/ratecompass/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func genReadings(t *testing.T, start time.Time, n int, interval time.Duration, kwh float64) []types.Reading {
	t.Helper()
	readings := make([]types.Reading, 0, n)
	for i := 0; i < n; i++ {
		readings = append(readings, types.Reading{
			Timestamp: start.Add(time.Duration(i) * interval),
			EnergyKWH: kwh,
		})
	}
	return readings
}

func testMeter() types.MeterInfo {
	return types.MeterInfo{SerialNumber: "12345678", SecondsPerInterval: 1800}
}

func TestValidateInsufficientData(t *testing.T) {
	start := nyTime(t, 2025, time.March, 1, 0, 0)

	_, err := Validate(types.UsageData{
		Meter:    testMeter(),
		Readings: genReadings(t, start, 47, 30*time.Minute, 0.5),
	})
	var ierr *InsufficientDataError
	require.ErrorAs(t, err, &ierr)
	assert.Equal(t, 47, ierr.Count)
	assert.Contains(t, ierr.Error(), "47")

	out, err := Validate(types.UsageData{
		Meter:    testMeter(),
		Readings: genReadings(t, start, 48, 30*time.Minute, 0.5),
	})
	require.NoError(t, err)
	assert.Len(t, out, 48)
}

func TestValidateMissingFields(t *testing.T) {
	start := nyTime(t, 2025, time.March, 1, 0, 0)

	t.Run("timestamp", func(t *testing.T) {
		readings := genReadings(t, start, 48, 30*time.Minute, 0.5)
		readings[10].Timestamp = time.Time{}
		_, err := Validate(types.UsageData{Meter: testMeter(), Readings: readings})
		var merr *MissingFieldError
		require.ErrorAs(t, err, &merr)
		assert.Equal(t, "timestamp", merr.Field)
	})

	t.Run("value", func(t *testing.T) {
		readings := genReadings(t, start, 48, 30*time.Minute, 0.5)
		readings[3].EnergyKWH = math.NaN()
		_, err := Validate(types.UsageData{Meter: testMeter(), Readings: readings})
		var merr *MissingFieldError
		require.ErrorAs(t, err, &merr)
		assert.Equal(t, "value", merr.Field)
	})

	t.Run("negative value", func(t *testing.T) {
		readings := genReadings(t, start, 48, 30*time.Minute, 0.5)
		readings[3].EnergyKWH = -1
		_, err := Validate(types.UsageData{Meter: testMeter(), Readings: readings})
		var merr *MissingFieldError
		require.ErrorAs(t, err, &merr)
		assert.Equal(t, "value", merr.Field)
	})

	t.Run("meter identity", func(t *testing.T) {
		_, err := Validate(types.UsageData{
			Readings: genReadings(t, start, 48, 30*time.Minute, 0.5),
		})
		var merr *MissingFieldError
		require.ErrorAs(t, err, &merr)
		assert.Equal(t, "meter identity", merr.Field)
	})
}

func TestValidateOrdering(t *testing.T) {
	start := nyTime(t, 2025, time.March, 1, 0, 0)
	readings := genReadings(t, start, 48, 30*time.Minute, 0.5)
	readings[20].Timestamp = readings[19].Timestamp

	_, err := Validate(types.UsageData{Meter: testMeter(), Readings: readings})
	var perr *ProcessingError
	require.ErrorAs(t, err, &perr)
}

func TestValidateDoesNotMutate(t *testing.T) {
	start := nyTime(t, 2025, time.March, 1, 0, 0)
	readings := genReadings(t, start, 48, 30*time.Minute, 0.5)
	orig := make([]types.Reading, len(readings))
	copy(orig, readings)

	out, err := Validate(types.UsageData{Meter: testMeter(), Readings: readings})
	require.NoError(t, err)
	assert.Equal(t, orig, readings)
	assert.Equal(t, orig, out)
}
