package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/ratecompass/ratecompass/pkg/insights"
	"github.com/ratecompass/ratecompass/pkg/log"
	"github.com/ratecompass/ratecompass/pkg/metrics"
	"github.com/ratecompass/ratecompass/pkg/tariff"
)

func (s *Server) handleWeatherInsights(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	data, err := s.parseUsageUpload(w, r)
	if err != nil {
		metrics.UploadsTotal.WithLabelValues("rejected").Inc()
		s.handleUploadError(w, r, err)
		return
	}

	// Reject unusable data before making the outbound fetch.
	readings, err := tariff.Validate(data)
	if err != nil {
		metrics.UploadsTotal.WithLabelValues("rejected").Inc()
		s.handleUploadError(w, r, err)
		return
	}

	lat, lon, err := s.parseCoordinates(r)
	if err != nil {
		metrics.UploadsTotal.WithLabelValues("rejected").Inc()
		s.handleUploadError(w, r, err)
		return
	}

	loc := s.engine.Location()
	first := readings[0].Timestamp
	last := readings[len(readings)-1].Timestamp
	obs, err := s.weather.FetchHourly(ctx, lat, lon, first, last, loc)
	if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to fetch weather data", slog.Any("error", err))
		writeJSONError(w, "failed to fetch weather data", http.StatusBadGateway)
		return
	}

	ins, err := insights.AnalyzeWeather(data, obs, loc)
	if err != nil {
		metrics.UploadsTotal.WithLabelValues("rejected").Inc()
		s.handleUploadError(w, r, err)
		return
	}
	ins.Latitude = lat
	ins.Longitude = lon

	metrics.UploadsTotal.WithLabelValues("accepted").Inc()
	metrics.UploadReadings.Observe(float64(len(data.Readings)))

	writeJSON(w, ins, http.StatusOK)
}

// parseCoordinates reads the optional latitude/longitude form fields, falling
// back to the configured defaults.
func (s *Server) parseCoordinates(r *http.Request) (lat, lon float64, err error) {
	lat, err = parseCoordinate(r.FormValue("latitude"), "latitude", s.weather.DefaultLatitude)
	if err != nil {
		return 0, 0, err
	}
	lon, err = parseCoordinate(r.FormValue("longitude"), "longitude", s.weather.DefaultLongitude)
	if err != nil {
		return 0, 0, err
	}
	return lat, lon, nil
}

func parseCoordinate(raw, field string, fallback float64) (float64, error) {
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, &badUploadError{msg: fmt.Sprintf("invalid %q value %q", field, raw)}
	}
	return v, nil
}
