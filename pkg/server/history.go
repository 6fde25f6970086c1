package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/ratecompass/ratecompass/pkg/log"
	"github.com/ratecompass/ratecompass/pkg/storage"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeJSONError(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = min(n, maxHistoryLimit)
	}

	recs, err := s.storage.ListAnalyses(ctx, limit)
	if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to list analyses", slog.Any("error", err))
		writeJSONError(w, "failed to list analyses", http.StatusInternalServerError)
		return
	}

	writeJSON(w, recs, http.StatusOK)
}

func (s *Server) handleHistoryGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	rec, err := s.storage.GetAnalysis(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrAnalysisNotFound) {
			writeJSONError(w, "analysis not found", http.StatusNotFound)
			return
		}
		log.Ctx(ctx).ErrorContext(ctx, "failed to get analysis", slog.String("analysisID", id), slog.Any("error", err))
		writeJSONError(w, "failed to get analysis", http.StatusInternalServerError)
		return
	}

	writeJSON(w, rec, http.StatusOK)
}
