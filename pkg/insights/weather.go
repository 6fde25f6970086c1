package insights

import (
	"math"
	"sort"
	"time"

	"github.com/ratecompass/ratecompass/pkg/tariff"
	"github.com/ratecompass/ratecompass/pkg/types"
	"github.com/ratecompass/ratecompass/pkg/weather"
)

// degreeDayBaseF is the balance-point temperature for degree-day math.
const degreeDayBaseF = 65.0

// WeatherCorrelation relates interval usage to hourly weather observations
// matched on the civil hour.
type WeatherCorrelation struct {
	MatchedIntervals     int     `json:"matched_intervals"`
	TemperatureR         float64 `json:"temperature_r"`
	TemperatureSlope     float64 `json:"temperature_slope"`
	TemperatureIntercept float64 `json:"temperature_intercept"`
	TemperatureR2        float64 `json:"temperature_r2"`
	HumidityR            float64 `json:"humidity_r"`
	AvgTemperatureF      float64 `json:"avg_temperature_f"`
	MinTemperatureF      float64 `json:"min_temperature_f"`
	MaxTemperatureF      float64 `json:"max_temperature_f"`
}

// DegreeDay is one calendar day's mean temperature expressed as cooling and
// heating degree days against the balance point.
type DegreeDay struct {
	Date     string  `json:"date"`
	AvgTempF float64 `json:"avg_temp_f"`
	CDD      float64 `json:"cdd"`
	HDD      float64 `json:"hdd"`
}

// DegreeDaySummary aggregates the degree days across the analyzed span.
type DegreeDaySummary struct {
	Days     int     `json:"days"`
	TotalCDD float64 `json:"total_cdd"`
	TotalHDD float64 `json:"total_hdd"`
	BaseF    float64 `json:"base_f"`
}

// DegreeDayCorrelation relates daily energy totals to cooling and heating
// degree days. The regressions only consider days where the respective
// degree-day value is positive.
type DegreeDayCorrelation struct {
	MatchedDays  int     `json:"matched_days"`
	CoolingR     float64 `json:"cooling_r"`
	CoolingSlope float64 `json:"cooling_slope"`
	CoolingR2    float64 `json:"cooling_r2"`
	CoolingDays  int     `json:"cooling_days"`
	HeatingR     float64 `json:"heating_r"`
	HeatingSlope float64 `json:"heating_slope"`
	HeatingR2    float64 `json:"heating_r2"`
	HeatingDays  int     `json:"heating_days"`
}

// WeatherInsights is the payload of the weather insights endpoint.
type WeatherInsights struct {
	Latitude             float64              `json:"latitude"`
	Longitude            float64              `json:"longitude"`
	Correlation          WeatherCorrelation   `json:"correlation"`
	DegreeDays           DegreeDaySummary     `json:"degree_days"`
	DegreeDayCorrelation DegreeDayCorrelation `json:"degree_day_correlation"`
}

// AnalyzeWeather validates the dataset and correlates it against the given
// hourly observations. Hours and days come from civil local time in loc.
func AnalyzeWeather(data types.UsageData, obs []weather.Observation, loc *time.Location) (WeatherInsights, error) {
	readings, err := tariff.Validate(data)
	if err != nil {
		return WeatherInsights{}, err
	}

	var w WeatherInsights
	w.Correlation = CorrelateWeather(readings, obs, loc)

	days := DegreeDays(obs, loc)
	w.DegreeDays = summarizeDegreeDays(days)
	w.DegreeDayCorrelation = CorrelateDegreeDays(readings, days, loc)
	return w, nil
}

// CorrelateWeather matches each reading to the observation for its civil hour
// and computes the usage-vs-temperature and usage-vs-humidity relationships.
func CorrelateWeather(readings []types.Reading, obs []weather.Observation, loc *time.Location) WeatherCorrelation {
	byHour := make(map[string]weather.Observation, len(obs))
	for _, o := range obs {
		byHour[o.Time.In(loc).Format("2006-01-02T15")] = o
	}

	var usage, temps, hums []float64
	for _, r := range readings {
		o, ok := byHour[r.Timestamp.In(loc).Format("2006-01-02T15")]
		if !ok {
			continue
		}
		usage = append(usage, r.EnergyKWH)
		temps = append(temps, o.TemperatureF)
		hums = append(hums, o.RelativeHumidity)
	}

	c := WeatherCorrelation{MatchedIntervals: len(usage)}
	if len(usage) < 2 {
		return c
	}

	c.TemperatureR = pearson(temps, usage)
	c.HumidityR = pearson(hums, usage)
	c.TemperatureSlope, c.TemperatureIntercept, c.TemperatureR2 = linearRegression(temps, usage)

	c.MinTemperatureF = temps[0]
	c.MaxTemperatureF = temps[0]
	var sum float64
	for _, t := range temps {
		sum += t
		if t < c.MinTemperatureF {
			c.MinTemperatureF = t
		}
		if t > c.MaxTemperatureF {
			c.MaxTemperatureF = t
		}
	}
	c.AvgTemperatureF = sum / float64(len(temps))
	return c
}

// DegreeDays reduces hourly observations to per-day cooling and heating
// degree days against the balance point, sorted by date.
func DegreeDays(obs []weather.Observation, loc *time.Location) []DegreeDay {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, o := range obs {
		day := o.Time.In(loc).Format("2006-01-02")
		sums[day] += o.TemperatureF
		counts[day]++
	}

	days := make([]DegreeDay, 0, len(sums))
	for day, sum := range sums {
		avg := sum / float64(counts[day])
		days = append(days, DegreeDay{
			Date:     day,
			AvgTempF: avg,
			CDD:      math.Max(0, avg-degreeDayBaseF),
			HDD:      math.Max(0, degreeDayBaseF-avg),
		})
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })
	return days
}

func summarizeDegreeDays(days []DegreeDay) DegreeDaySummary {
	s := DegreeDaySummary{Days: len(days), BaseF: degreeDayBaseF}
	for _, d := range days {
		s.TotalCDD += d.CDD
		s.TotalHDD += d.HDD
	}
	return s
}

// CorrelateDegreeDays matches daily energy totals to degree days and measures
// how strongly cooling and heating drive consumption.
func CorrelateDegreeDays(readings []types.Reading, days []DegreeDay, loc *time.Location) DegreeDayCorrelation {
	energy := make(map[string]float64)
	for _, r := range readings {
		energy[r.Timestamp.In(loc).Format("2006-01-02")] += r.EnergyKWH
	}

	var allE, allCDD, allHDD []float64
	var coolE, coolCDD, heatE, heatHDD []float64
	for _, d := range days {
		e, ok := energy[d.Date]
		if !ok {
			continue
		}
		allE = append(allE, e)
		allCDD = append(allCDD, d.CDD)
		allHDD = append(allHDD, d.HDD)
		if d.CDD > 0 {
			coolE = append(coolE, e)
			coolCDD = append(coolCDD, d.CDD)
		}
		if d.HDD > 0 {
			heatE = append(heatE, e)
			heatHDD = append(heatHDD, d.HDD)
		}
	}

	c := DegreeDayCorrelation{
		MatchedDays: len(allE),
		CoolingDays: len(coolE),
		HeatingDays: len(heatE),
	}
	if len(allE) >= 2 {
		c.CoolingR = pearson(allCDD, allE)
		c.HeatingR = pearson(allHDD, allE)
	}
	if len(coolE) >= 2 {
		c.CoolingSlope, _, c.CoolingR2 = linearRegression(coolCDD, coolE)
	}
	if len(heatE) >= 2 {
		c.HeatingSlope, _, c.HeatingR2 = linearRegression(heatHDD, heatE)
	}
	return c
}

// pearson returns the Pearson correlation coefficient of the two series, or
// zero when either series has no variance.
func pearson(xs, ys []float64) float64 {
	n := float64(len(xs))
	if n < 2 {
		return 0
	}
	var sumX, sumY float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
	}
	meanX, meanY := sumX/n, sumY/n

	var cov, varX, varY float64
	for i := range xs {
		dx, dy := xs[i]-meanX, ys[i]-meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return 0
	}
	return cov / math.Sqrt(varX*varY)
}

// linearRegression fits y = slope*x + intercept by least squares and returns
// the coefficient of determination.
func linearRegression(xs, ys []float64) (slope, intercept, r2 float64) {
	n := float64(len(xs))
	if n < 2 {
		return 0, 0, 0
	}
	var sumX, sumY float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
	}
	meanX, meanY := sumX/n, sumY/n

	var cov, varX float64
	for i := range xs {
		dx, dy := xs[i]-meanX, ys[i]-meanY
		cov += dx * dy
		varX += dx * dx
	}
	if varX == 0 {
		return 0, meanY, 0
	}
	slope = cov / varX
	intercept = meanY - slope*meanX

	r := pearson(xs, ys)
	return slope, intercept, r * r
}
