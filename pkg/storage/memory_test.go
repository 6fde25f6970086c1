package storage

import (
	"context"
	"testing"
	"time"

	"github.com/ratecompass/ratecompass/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func analysisRecord(id string, createdAt time.Time) types.AnalysisRecord {
	return types.AnalysisRecord{
		ID:           id,
		CreatedAt:    createdAt,
		MeterID:      "12345678",
		ReadingCount: 48,
		Report:       types.Report{Success: true},
	}
}

func TestMemoryInsertAndGet(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	rec := analysisRecord("a1", time.Now().UTC())
	require.NoError(t, m.InsertAnalysis(ctx, rec))

	got, err := m.GetAnalysis(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, rec, got)

	_, err = m.GetAnalysis(ctx, "nope")
	assert.ErrorIs(t, err, ErrAnalysisNotFound)
}

func TestMemoryListAnalyses(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	base := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"a1", "a2", "a3"} {
		require.NoError(t, m.InsertAnalysis(ctx, analysisRecord(id, base.Add(time.Duration(i)*time.Hour))))
	}

	recs, err := m.ListAnalyses(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, "a3", recs[0].ID)
	assert.Equal(t, "a2", recs[1].ID)
	assert.Equal(t, "a1", recs[2].ID)

	recs, err = m.ListAnalyses(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "a3", recs[0].ID)
}

func TestMemoryInsertReplaces(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	rec := analysisRecord("a1", time.Now().UTC())
	require.NoError(t, m.InsertAnalysis(ctx, rec))
	rec.ReadingCount = 96
	require.NoError(t, m.InsertAnalysis(ctx, rec))

	got, err := m.GetAnalysis(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, 96, got.ReadingCount)

	recs, err := m.ListAnalyses(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}
