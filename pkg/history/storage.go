package history

import (
	"context"
	"time"
)

// Storage persists and retrieves transition records
type Storage interface {
	Store(ctx context.Context, record Record) error
	Query(ctx context.Context, criteria Criteria) ([]Record, error)
}

// StorageCounter is an optional extension for storages with an optimized
// count implementation
type StorageCounter interface {
	Count(ctx context.Context, criteria Criteria) (int64, error)
}

// Criteria filters history queries. Zero-value fields are ignored. Records
// are returned newest first; Cursor continues after the record with that ID.
// Automated selects records without a performer (true) or with one (false);
// nil matches both.
type Criteria struct {
	EntityType  string
	EntityID    string
	Field       string
	FromState   string
	ToState     string
	PerformerID string
	Automated   *bool
	Result      Result
	Since       time.Time
	Until       time.Time
	Limit       int
	Offset      int
	Cursor      string
}

// Matches reports whether a record satisfies the criteria's filters. Limit,
// Offset, and Cursor are pagination concerns and are not evaluated here.
func (c Criteria) Matches(r Record) bool {
	if c.EntityType != "" && r.EntityType != c.EntityType {
		return false
	}
	if c.EntityID != "" && r.EntityID != c.EntityID {
		return false
	}
	if c.Field != "" && r.Field != c.Field {
		return false
	}
	if c.FromState != "" && r.FromState != c.FromState {
		return false
	}
	if c.ToState != "" && r.ToState != c.ToState {
		return false
	}
	if c.PerformerID != "" && (r.PerformerID == nil || *r.PerformerID != c.PerformerID) {
		return false
	}
	if c.Automated != nil && r.Automated() != *c.Automated {
		return false
	}
	if c.Result != "" && r.Result != c.Result {
		return false
	}
	if !c.Since.IsZero() && r.CreatedAt.Before(c.Since) {
		return false
	}
	if !c.Until.IsZero() && r.CreatedAt.After(c.Until) {
		return false
	}
	return true
}
