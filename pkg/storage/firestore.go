package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"cloud.google.com/go/firestore"
	"github.com/levenlabs/go-lflag"
	"github.com/ratecompass/ratecompass/pkg/log"
	"github.com/ratecompass/ratecompass/pkg/metrics"
	"github.com/ratecompass/ratecompass/pkg/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const analysesCollection = "analyses"

// FirestoreProvider implements the Database interface using Google Cloud
// Firestore. Analysis records are stored as JSON blobs in the "analyses"
// collection.
type FirestoreProvider struct {
	client    *firestore.Client
	projectID string
	database  string
}

// configuredFirestore sets up the Firestore provider.
// It registers flags for configuration.
func configuredFirestore() *FirestoreProvider {
	projectID := lflag.String("firestore-project-id", "", "Google Cloud Project ID for Firestore")
	database := lflag.String("firestore-database", "", "Google Cloud Firestore Database")
	emulator := lflag.String("firestore-emulator", "", "Use Firestore emulator")

	f := &FirestoreProvider{}

	lflag.Do(func() {
		f.projectID = *projectID
		f.database = *database

		// set this because that's how firestore client expects it
		if *emulator != "" {
			os.Setenv("FIRESTORE_EMULATOR_HOST", *emulator)
		}
	})

	return f
}

// Validate checks if the provider is properly configured.
func (f *FirestoreProvider) Validate() error {
	// Project ID verification could be here, but we allow empty if inferred.
	return nil
}

// Init initializes the Firestore client.
// This must be called before using the provider methods.
func (f *FirestoreProvider) Init(ctx context.Context) error {
	projectID := f.projectID
	if projectID == "" {
		projectID = firestore.DetectProjectID
	}
	database := f.database
	if database == "" {
		database = firestore.DefaultDatabaseID
	}
	client, err := firestore.NewClientWithDatabase(ctx, projectID, database)
	if err != nil {
		return fmt.Errorf("failed to create firestore client (project=%s, database=%s): %w", projectID, database, err)
	}
	f.client = client
	return nil
}

// Close closes the Firestore client connection.
func (f *FirestoreProvider) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}

// InsertAnalysis stores an analysis record as a JSON blob. The document ID is
// the record's UUID and a timestamp field supports ordered listing.
func (f *FirestoreProvider) InsertAnalysis(ctx context.Context, rec types.AnalysisRecord) (err error) {
	defer func() { metrics.ObserveStorageOp("insert_analysis", err) }()
	if rec.ID == "" {
		return fmt.Errorf("analysis record missing id")
	}
	jsonBytes, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal analysis: %w", err)
	}

	_, err = f.client.Collection(analysesCollection).Doc(rec.ID).Set(ctx, map[string]interface{}{
		"json":      string(jsonBytes),
		"timestamp": rec.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to insert analysis: %w", err)
	}
	return nil
}

// GetAnalysis fetches a single analysis record by ID.
func (f *FirestoreProvider) GetAnalysis(ctx context.Context, id string) (rec types.AnalysisRecord, err error) {
	defer func() { metrics.ObserveStorageOp("get_analysis", err) }()
	doc, err := f.client.Collection(analysesCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return types.AnalysisRecord{}, ErrAnalysisNotFound
		}
		return types.AnalysisRecord{}, fmt.Errorf("failed to fetch analysis doc: %w", err)
	}
	return decodeAnalysisDoc(ctx, doc)
}

// ListAnalyses returns the most recent analysis records, newest first.
func (f *FirestoreProvider) ListAnalyses(ctx context.Context, limit int) (recs []types.AnalysisRecord, err error) {
	defer func() { metrics.ObserveStorageOp("list_analyses", err) }()
	iter := f.client.Collection(analysesCollection).
		OrderBy("timestamp", firestore.Desc).
		Limit(limit).
		Documents(ctx)
	defer iter.Stop()

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error iterating analyses: %w", err)
		}
		rec, err := decodeAnalysisDoc(ctx, doc)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func decodeAnalysisDoc(ctx context.Context, doc *firestore.DocumentSnapshot) (types.AnalysisRecord, error) {
	val, err := doc.DataAt("json")
	if err != nil {
		log.Ctx(ctx).WarnContext(ctx, "analysis doc missing json", slog.String("analysisID", doc.Ref.ID), slog.Any("err", err))
		return types.AnalysisRecord{}, fmt.Errorf("analysis document %s missing 'json' field: %w", doc.Ref.ID, err)
	}
	jsonStr, ok := val.(string)
	if !ok {
		log.Ctx(ctx).WarnContext(ctx, "analysis doc json not string", slog.String("analysisID", doc.Ref.ID))
		return types.AnalysisRecord{}, fmt.Errorf("analysis document %s 'json' field is not string", doc.Ref.ID)
	}

	var rec types.AnalysisRecord
	if err := json.Unmarshal([]byte(jsonStr), &rec); err != nil {
		log.Ctx(ctx).WarnContext(ctx, "failed to unmarshal analysis", slog.String("analysisID", doc.Ref.ID), slog.Any("err", err))
		return types.AnalysisRecord{}, fmt.Errorf("failed to unmarshal analysis (id=%s): %w", doc.Ref.ID, err)
	}
	return rec, nil
}
