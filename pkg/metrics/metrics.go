package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ratecompass_requests_total",
			Help: "Total number of HTTP requests per path and status code",
		},
		[]string{"path", "code"},
	)

	RequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ratecompass_request_duration_seconds",
			Help:    "HTTP request duration in seconds per path",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path"},
	)

	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ratecompass_uploads_total",
			Help: "Total number of usage file uploads per outcome",
		},
		[]string{"outcome"},
	)

	UploadReadings = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ratecompass_upload_readings",
			Help:    "Number of interval readings per accepted upload",
			Buckets: prometheus.ExponentialBuckets(48, 2, 12),
		},
	)

	ComparisonsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ratecompass_comparisons_total",
			Help: "Total number of completed rate comparisons per winning plan",
		},
		[]string{"plan"},
	)

	StorageOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ratecompass_storage_ops_total",
			Help: "Total number of storage operations per op and outcome",
		},
		[]string{"op", "outcome"},
	)

	WeatherFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ratecompass_weather_fetches_total",
			Help: "Total number of weather archive fetches per outcome",
		},
		[]string{"outcome"},
	)
)

// ObserveRequest records a finished HTTP request.
func ObserveRequest(path string, code string, start time.Time) {
	RequestsTotal.WithLabelValues(path, code).Inc()
	RequestDurationSeconds.WithLabelValues(path).Observe(time.Since(start).Seconds())
}

// ObserveStorageOp records a storage call and whether it succeeded.
func ObserveStorageOp(op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	StorageOpsTotal.WithLabelValues(op, outcome).Inc()
}

// ObserveWeatherFetch records a weather archive fetch and whether it succeeded.
func ObserveWeatherFetch(err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	WeatherFetchesTotal.WithLabelValues(outcome).Inc()
}
