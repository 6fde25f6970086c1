package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/levenlabs/go-lflag"
	"github.com/ratecompass/ratecompass/pkg/types"
)

// ErrAnalysisNotFound is returned when no analysis exists for the given ID.
var ErrAnalysisNotFound = errors.New("analysis not found")

// Database defines the interface for persisting analysis records.
type Database interface {
	// InsertAnalysis stores a completed analysis.
	InsertAnalysis(ctx context.Context, rec types.AnalysisRecord) error
	// GetAnalysis fetches a single analysis by ID.
	GetAnalysis(ctx context.Context, id string) (types.AnalysisRecord, error)
	// ListAnalyses returns the most recent analyses, newest first.
	ListAnalyses(ctx context.Context, limit int) ([]types.AnalysisRecord, error)

	// Lifecycle
	Close() error
}

// Configured sets up the storage provider based on flags.
func Configured() Database {
	provider := lflag.String("storage-provider", "memory", "Storage provider to use (available: firestore, memory)")

	var p struct{ Database }

	fs := configuredFirestore()

	lflag.Do(func() {
		switch *provider {
		case "firestore":
			if err := fs.Validate(); err != nil {
				panic(fmt.Sprintf("firestore validation failed: %v", err))
			}
			p.Database = fs
			if err := fs.Init(context.Background()); err != nil {
				panic(fmt.Sprintf("firestore init failed: %v", err))
			}
		case "memory":
			p.Database = NewMemory()
		default:
			panic(fmt.Sprintf("unknown storage provider: %s", *provider))
		}
	})

	return &p
}
