// Package insights derives usage patterns from interval meter data: diurnal
// shape, baseload, weekday/weekend behavior and the highest-draw intervals.
package insights

import (
	"math"
	"sort"
	"time"

	"github.com/ratecompass/ratecompass/pkg/tariff"
	"github.com/ratecompass/ratecompass/pkg/types"
)

// Summary holds the basic statistics for an uploaded dataset.
type Summary struct {
	TotalReadings int       `json:"total_readings"`
	TotalKWH      float64   `json:"total_kwh"`
	AverageKWH    float64   `json:"average_kwh"`
	MinKWH        float64   `json:"min_kwh"`
	MaxKWH        float64   `json:"max_kwh"`
	FirstReading  time.Time `json:"first_reading"`
	LastReading   time.Time `json:"last_reading"`
	Unit          string    `json:"unit"`
}

// Baseload estimates the continuous household power draw from the quietest
// hour of the average day.
type Baseload struct {
	BaseloadKWH         float64 `json:"baseload_kwh"`
	BaseloadHour        int     `json:"baseload_hour"`
	BaseloadPct         float64 `json:"baseload_pct"`
	EstimatedDailyKWH   float64 `json:"estimated_daily_kwh"`
	EstimatedMonthlyKWH float64 `json:"estimated_monthly_kwh"`
}

// WeekdayWeekend compares average interval usage between weekdays and
// weekends.
type WeekdayWeekend struct {
	WeekdayAvgKWH float64 `json:"weekday_avg_kwh"`
	WeekendAvgKWH float64 `json:"weekend_avg_kwh"`
	DifferenceKWH float64 `json:"difference_kwh"`
	DifferencePct float64 `json:"difference_pct"`
}

// TopInterval is one of the highest-usage intervals in the dataset.
type TopInterval struct {
	Timestamp time.Time `json:"timestamp"`
	EnergyKWH float64   `json:"energy_kwh"`
}

// Insights is the payload of the insights endpoint.
type Insights struct {
	Summary             Summary        `json:"summary"`
	HourlyAverages      [24]float64    `json:"hourly_averages"`
	Baseload            Baseload       `json:"baseload"`
	WeekdayWeekend      WeekdayWeekend `json:"weekday_weekend"`
	PeakHour            int            `json:"peak_hour"`
	PeakKWH             float64        `json:"peak_kwh"`
	PeakToBaseloadRatio float64        `json:"peak_to_baseload_ratio"`
	DailyVariabilityStd float64        `json:"daily_variability_std"`
	DailyVariabilityCV  float64        `json:"daily_variability_cv"`
	TopIntervals        []TopInterval  `json:"top_intervals"`
}

const topIntervalCount = 10

// Analyze validates the dataset and computes the full insights payload.
// Hours and weekdays come from civil local time in loc.
func Analyze(data types.UsageData, loc *time.Location) (Insights, error) {
	readings, err := tariff.Validate(data)
	if err != nil {
		return Insights{}, err
	}

	var ins Insights
	ins.Summary = Summarize(data.Meter, readings)
	ins.HourlyAverages = HourlyAverages(readings, loc)
	ins.Baseload = EstimateBaseload(readings, loc)
	ins.WeekdayWeekend = CompareWeekdayWeekend(readings, loc)
	ins.TopIntervals = TopIntervals(readings, topIntervalCount)

	ins.PeakKWH = ins.HourlyAverages[0]
	for hour, avg := range ins.HourlyAverages {
		if avg > ins.PeakKWH {
			ins.PeakKWH = avg
			ins.PeakHour = hour
		}
	}
	if ins.Baseload.BaseloadKWH > 0 {
		ins.PeakToBaseloadRatio = ins.PeakKWH / ins.Baseload.BaseloadKWH
	}

	mean, std := dailyTotalSpread(readings, loc)
	ins.DailyVariabilityStd = std
	if mean > 0 {
		ins.DailyVariabilityCV = std / mean * 100
	}

	return ins, nil
}

// Summarize computes basic statistics over validated readings.
func Summarize(meter types.MeterInfo, readings []types.Reading) Summary {
	s := Summary{
		TotalReadings: len(readings),
		Unit:          meter.UnitOfMeasure,
	}
	if len(readings) == 0 {
		return s
	}
	s.FirstReading = readings[0].Timestamp
	s.LastReading = readings[len(readings)-1].Timestamp
	s.MinKWH = readings[0].EnergyKWH
	s.MaxKWH = readings[0].EnergyKWH
	for _, r := range readings {
		s.TotalKWH += r.EnergyKWH
		if r.EnergyKWH < s.MinKWH {
			s.MinKWH = r.EnergyKWH
		}
		if r.EnergyKWH > s.MaxKWH {
			s.MaxKWH = r.EnergyKWH
		}
	}
	s.AverageKWH = s.TotalKWH / float64(len(readings))
	return s
}

// HourlyAverages computes the diurnal pattern: the average interval usage for
// each hour of the day. Hours with no readings stay zero.
func HourlyAverages(readings []types.Reading, loc *time.Location) [24]float64 {
	var sums, counts [24]float64
	for _, r := range readings {
		h := r.Timestamp.In(loc).Hour()
		sums[h] += r.EnergyKWH
		counts[h]++
	}
	var avgs [24]float64
	for h := range sums {
		if counts[h] > 0 {
			avgs[h] = sums[h] / counts[h]
		}
	}
	return avgs
}

// EstimateBaseload takes the minimum hourly average, usually a nighttime
// hour, as the household's continuous draw.
func EstimateBaseload(readings []types.Reading, loc *time.Location) Baseload {
	avgs := HourlyAverages(readings, loc)

	var b Baseload
	b.BaseloadKWH = avgs[0]
	for hour, avg := range avgs {
		if avg < b.BaseloadKWH {
			b.BaseloadKWH = avg
			b.BaseloadHour = hour
		}
	}
	b.EstimatedDailyKWH = b.BaseloadKWH * 24
	b.EstimatedMonthlyKWH = b.BaseloadKWH * 24 * 30

	var total float64
	for _, r := range readings {
		total += r.EnergyKWH
	}
	if len(readings) > 0 {
		overallAvg := total / float64(len(readings))
		if overallAvg > 0 {
			b.BaseloadPct = b.BaseloadKWH / overallAvg * 100
		}
	}
	return b
}

// CompareWeekdayWeekend splits readings by day type and compares the average
// interval usage of each.
func CompareWeekdayWeekend(readings []types.Reading, loc *time.Location) WeekdayWeekend {
	var wdSum, wdCount, weSum, weCount float64
	for _, r := range readings {
		switch r.Timestamp.In(loc).Weekday() {
		case time.Saturday, time.Sunday:
			weSum += r.EnergyKWH
			weCount++
		default:
			wdSum += r.EnergyKWH
			wdCount++
		}
	}

	var c WeekdayWeekend
	if wdCount > 0 {
		c.WeekdayAvgKWH = wdSum / wdCount
	}
	if weCount > 0 {
		c.WeekendAvgKWH = weSum / weCount
	}
	c.DifferenceKWH = c.WeekendAvgKWH - c.WeekdayAvgKWH
	if c.WeekdayAvgKWH > 0 {
		c.DifferencePct = c.DifferenceKWH / c.WeekdayAvgKWH * 100
	}
	return c
}

// TopIntervals returns the n highest-usage intervals, highest first. Ties
// keep chronological order.
func TopIntervals(readings []types.Reading, n int) []TopInterval {
	sorted := make([]types.Reading, len(readings))
	copy(sorted, readings)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].EnergyKWH > sorted[j].EnergyKWH
	})
	if n > len(sorted) {
		n = len(sorted)
	}
	top := make([]TopInterval, 0, n)
	for _, r := range sorted[:n] {
		top = append(top, TopInterval{Timestamp: r.Timestamp, EnergyKWH: r.EnergyKWH})
	}
	return top
}

// dailyTotalSpread returns the mean and sample standard deviation of the
// per-day usage totals.
func dailyTotalSpread(readings []types.Reading, loc *time.Location) (mean, std float64) {
	totals := make(map[string]float64)
	for _, r := range readings {
		totals[r.Timestamp.In(loc).Format("2006-01-02")] += r.EnergyKWH
	}
	n := float64(len(totals))
	if n == 0 {
		return 0, 0
	}
	var sum float64
	for _, v := range totals {
		sum += v
	}
	mean = sum / n
	if n < 2 {
		return mean, 0
	}
	var sq float64
	for _, v := range totals {
		d := v - mean
		sq += d * d
	}
	std = math.Sqrt(sq / (n - 1))
	return mean, std
}
