package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/ratecompass/ratecompass/pkg/metrics"
	"github.com/ratecompass/ratecompass/pkg/types"
)

// Memory is an in-process Database for development and tests. Records live
// only for the lifetime of the process.
type Memory struct {
	mu   sync.RWMutex
	recs map[string]types.AnalysisRecord
}

// NewMemory returns an empty in-memory Database.
func NewMemory() *Memory {
	return &Memory{recs: make(map[string]types.AnalysisRecord)}
}

var _ Database = (*Memory)(nil)

// InsertAnalysis stores the record, replacing any existing record with the
// same ID.
func (m *Memory) InsertAnalysis(ctx context.Context, rec types.AnalysisRecord) error {
	metrics.ObserveStorageOp("insert_analysis", nil)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recs[rec.ID] = rec
	return nil
}

// GetAnalysis fetches a single analysis record by ID.
func (m *Memory) GetAnalysis(ctx context.Context, id string) (types.AnalysisRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.recs[id]
	if !ok {
		metrics.ObserveStorageOp("get_analysis", ErrAnalysisNotFound)
		return types.AnalysisRecord{}, ErrAnalysisNotFound
	}
	metrics.ObserveStorageOp("get_analysis", nil)
	return rec, nil
}

// ListAnalyses returns the most recent analysis records, newest first.
func (m *Memory) ListAnalyses(ctx context.Context, limit int) ([]types.AnalysisRecord, error) {
	metrics.ObserveStorageOp("list_analyses", nil)
	m.mu.RLock()
	recs := make([]types.AnalysisRecord, 0, len(m.recs))
	for _, rec := range m.recs {
		recs = append(recs, rec)
	}
	m.mu.RUnlock()

	sort.Slice(recs, func(i, j int) bool {
		return recs[i].CreatedAt.After(recs[j].CreatedAt)
	})
	if limit > 0 && len(recs) > limit {
		recs = recs[:limit]
	}
	return recs, nil
}

// Close is a no-op.
func (m *Memory) Close() error {
	return nil
}
