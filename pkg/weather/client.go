// Package weather fetches historical hourly weather observations from the
// Open-Meteo archive API for correlating against interval usage data.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/levenlabs/go-lflag"
	"github.com/ratecompass/ratecompass/pkg/common"
	"github.com/ratecompass/ratecompass/pkg/metrics"
)

// Observation is one hourly weather observation.
type Observation struct {
	Time             time.Time `json:"time"`
	TemperatureF     float64   `json:"temperature_f"`
	RelativeHumidity float64   `json:"relative_humidity"`
}

// Client fetches observations from an Open-Meteo compatible archive API.
// The zero value is not usable; construct with New or Configured.
type Client struct {
	http    *http.Client
	baseURL string

	// DefaultLatitude and DefaultLongitude are used when a request doesn't
	// carry its own coordinates.
	DefaultLatitude  float64
	DefaultLongitude float64
}

// New returns a Client against the given archive API base URL.
func New(baseURL string, lat, lon float64) *Client {
	return &Client{
		http:             common.HTTPClient(15 * time.Second),
		baseURL:          baseURL,
		DefaultLatitude:  lat,
		DefaultLongitude: lon,
	}
}

// Configured sets up the Client based on flags.
func Configured() *Client {
	baseURL := lflag.String("weather-api-url", "https://archive-api.open-meteo.com/v1/archive", "Open-Meteo archive API base URL")
	lat := lflag.String("weather-latitude", "35.9101", "Default latitude for weather lookups")
	lon := lflag.String("weather-longitude", "-79.0753", "Default longitude for weather lookups")

	c := &Client{http: common.HTTPClient(15 * time.Second)}
	lflag.Do(func() {
		c.baseURL = *baseURL
		var err error
		if c.DefaultLatitude, err = strconv.ParseFloat(*lat, 64); err != nil {
			panic(fmt.Sprintf("invalid weather-latitude %q: %v", *lat, err))
		}
		if c.DefaultLongitude, err = strconv.ParseFloat(*lon, 64); err != nil {
			panic(fmt.Sprintf("invalid weather-longitude %q: %v", *lon, err))
		}
	})
	return c
}

// openMeteoResponse mirrors the hourly block of an archive API response.
type openMeteoResponse struct {
	Hourly struct {
		Time             []string  `json:"time"`
		Temperature      []float64 `json:"temperature_2m"`
		RelativeHumidity []float64 `json:"relative_humidity_2m"`
	} `json:"hourly"`
}

// FetchHourly returns hourly temperature and humidity observations for the
// date span [start, end], interpreted in loc. Temperatures are Fahrenheit.
func (c *Client) FetchHourly(ctx context.Context, lat, lon float64, start, end time.Time, loc *time.Location) (obs []Observation, err error) {
	defer func() { metrics.ObserveWeatherFetch(err) }()

	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("start_date", start.In(loc).Format("2006-01-02"))
	q.Set("end_date", end.In(loc).Format("2006-01-02"))
	q.Set("hourly", "temperature_2m,relative_humidity_2m")
	q.Set("temperature_unit", "fahrenheit")
	q.Set("timezone", loc.String())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build weather request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather API returned status %d", resp.StatusCode)
	}

	var body openMeteoResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode weather response: %w", err)
	}
	if len(body.Hourly.Time) != len(body.Hourly.Temperature) ||
		len(body.Hourly.Time) != len(body.Hourly.RelativeHumidity) {
		return nil, fmt.Errorf("weather response series lengths disagree")
	}

	obs = make([]Observation, 0, len(body.Hourly.Time))
	for i, raw := range body.Hourly.Time {
		// The API reports local civil times without a zone suffix.
		ts, err := time.ParseInLocation("2006-01-02T15:04", raw, loc)
		if err != nil {
			return nil, fmt.Errorf("failed to parse weather timestamp %q: %w", raw, err)
		}
		obs = append(obs, Observation{
			Time:             ts,
			TemperatureF:     body.Hourly.Temperature[i],
			RelativeHumidity: body.Hourly.RelativeHumidity[i],
		})
	}
	return obs, nil
}
