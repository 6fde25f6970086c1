// Package storagemock provides a testify mock of the storage.Database
// interface for use in tests.
package storagemock

import (
	"context"

	"github.com/ratecompass/ratecompass/pkg/storage"
	"github.com/ratecompass/ratecompass/pkg/types"
	"github.com/stretchr/testify/mock"
)

type MockDatabase struct {
	mock.Mock
}

var _ storage.Database = (*MockDatabase)(nil)

func (m *MockDatabase) InsertAnalysis(ctx context.Context, rec types.AnalysisRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockDatabase) GetAnalysis(ctx context.Context, id string) (types.AnalysisRecord, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(types.AnalysisRecord), args.Error(1)
}

func (m *MockDatabase) ListAnalyses(ctx context.Context, limit int) ([]types.AnalysisRecord, error) {
	args := m.Called(ctx, limit)
	if recs, ok := args.Get(0).([]types.AnalysisRecord); ok {
		return recs, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDatabase) Close() error {
	args := m.Called()
	return args.Error(0)
}
