package server

import (
	"net/http"

	"github.com/ratecompass/ratecompass/pkg/insights"
	"github.com/ratecompass/ratecompass/pkg/metrics"
)

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	data, err := s.parseUsageUpload(w, r)
	if err != nil {
		metrics.UploadsTotal.WithLabelValues("rejected").Inc()
		s.handleUploadError(w, r, err)
		return
	}

	ins, err := insights.Analyze(data, s.engine.Location())
	if err != nil {
		metrics.UploadsTotal.WithLabelValues("rejected").Inc()
		s.handleUploadError(w, r, err)
		return
	}

	metrics.UploadsTotal.WithLabelValues("accepted").Inc()
	metrics.UploadReadings.Observe(float64(len(data.Readings)))

	writeJSON(w, ins, http.StatusOK)
}
