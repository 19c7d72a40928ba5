package history

import (
	"fmt"
	"time"
)

// Result represents the outcome of a recorded transition
type Result string

const (
	ResultSuccess Result = "success"
	ResultFailed  Result = "failed"
)

// Record is a single entry in an entity's transition trail. PerformerID is
// nil for automated transitions; an empty FromState marks the entity's
// initial transition out of its default state.
type Record struct {
	ID          string         `json:"id"`
	EntityType  string         `json:"entity_type"`
	EntityID    string         `json:"entity_id"`
	Field       string         `json:"field"`
	FromState   string         `json:"from_state"`
	ToState     string         `json:"to_state"`
	PerformerID *string        `json:"performer_id,omitempty"`
	Reason      string         `json:"reason,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	Result      Result         `json:"result"`
	ErrorCode   string         `json:"error_code,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// Validate checks that the record has all required fields
func (r *Record) Validate() error {
	if r.EntityType == "" {
		return fmt.Errorf("%w: entity type is required", ErrRecordValidation)
	}
	if r.EntityID == "" {
		return fmt.Errorf("%w: entity id is required", ErrRecordValidation)
	}
	if r.Field == "" {
		return fmt.Errorf("%w: field is required", ErrRecordValidation)
	}
	if r.ToState == "" {
		return fmt.Errorf("%w: target state is required", ErrRecordValidation)
	}
	if r.Result != ResultSuccess && r.Result != ResultFailed {
		return fmt.Errorf("%w: result must be success or failed", ErrRecordValidation)
	}
	return nil
}

// Automated reports whether the transition ran without a performer.
func (r *Record) Automated() bool {
	return r.PerformerID == nil
}
