package history

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Entry carries the transition facts a caller hands to the Recorder. The
// Recorder fills in the record identity, timestamp, and result.
type Entry struct {
	EntityType  string
	EntityID    string
	Field       string
	FromState   string
	ToState     string
	PerformerID *string
	Reason      string
	Metadata    map[string]any
}

// Recorder writes transition records to storage
type Recorder interface {
	// Record stores a successful transition and returns the record ID.
	Record(ctx context.Context, entry Entry) (string, error)
	// RecordFailure stores a failed transition attempt with its error code
	// and returns the record ID.
	RecordFailure(ctx context.Context, entry Entry, errorCode string) (string, error)
}

type recorder struct {
	storage Storage
}

// NewRecorder creates a new transition recorder
func NewRecorder(storage Storage) Recorder {
	if storage == nil {
		panic("history: storage cannot be nil")
	}
	return &recorder{storage: storage}
}

func (r *recorder) Record(ctx context.Context, entry Entry) (string, error) {
	return r.store(ctx, entry, ResultSuccess, "")
}

func (r *recorder) RecordFailure(ctx context.Context, entry Entry, errorCode string) (string, error) {
	return r.store(ctx, entry, ResultFailed, errorCode)
}

func (r *recorder) store(ctx context.Context, entry Entry, result Result, errorCode string) (string, error) {
	record := Record{
		ID:          uuid.New().String(),
		EntityType:  entry.EntityType,
		EntityID:    entry.EntityID,
		Field:       entry.Field,
		FromState:   entry.FromState,
		ToState:     entry.ToState,
		PerformerID: entry.PerformerID,
		Reason:      entry.Reason,
		Metadata:    entry.Metadata,
		Result:      result,
		ErrorCode:   errorCode,
		CreatedAt:   time.Now(),
	}

	if err := record.Validate(); err != nil {
		return "", err
	}
	if err := r.storage.Store(ctx, record); err != nil {
		return "", err
	}
	return record.ID, nil
}
