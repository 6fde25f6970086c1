package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/ratecompass/ratecompass/pkg/log"
	"github.com/ratecompass/ratecompass/pkg/metrics"
	"github.com/ratecompass/ratecompass/pkg/tariff"
	"github.com/ratecompass/ratecompass/pkg/types"
)

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	data, err := s.parseUsageUpload(w, r)
	if err != nil {
		metrics.UploadsTotal.WithLabelValues("rejected").Inc()
		s.handleUploadError(w, r, err)
		return
	}

	res, err := s.engine.Compare(data)
	if err != nil {
		metrics.UploadsTotal.WithLabelValues("rejected").Inc()
		s.handleUploadError(w, r, err)
		return
	}
	report := tariff.BuildReport(res)

	metrics.UploadsTotal.WithLabelValues("accepted").Inc()
	metrics.UploadReadings.Observe(float64(len(data.Readings)))
	metrics.ComparisonsTotal.WithLabelValues(string(res.BestPlan)).Inc()

	rec := types.AnalysisRecord{
		ID:           uuid.NewString(),
		CreatedAt:    time.Now().UTC(),
		MeterID:      data.Meter.ID(),
		ReadingCount: len(data.Readings),
		FirstReading: data.Readings[0].Timestamp,
		LastReading:  data.Readings[len(data.Readings)-1].Timestamp,
		Report:       report,
	}
	// A storage failure shouldn't cost the client their report.
	if err := s.storage.InsertAnalysis(ctx, rec); err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to persist analysis",
			slog.String("analysisID", rec.ID), slog.Any("error", err))
	}

	writeJSON(w, report, http.StatusOK)
}
