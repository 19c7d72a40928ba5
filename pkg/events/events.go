package events

// Lifecycle event names published by the transition executor.
const (
	TransitionPending   = "transition.pending"
	TransitionCompleted = "transition.completed"
	TransitionFailed    = "transition.failed"
)

// Event describes a single transition lifecycle notification. The same
// shape serves all three lifecycle stages; failure-only fields stay empty
// on pending and completed events.
type Event struct {
	Name            string         `json:"name"`
	EntityType      string         `json:"entity_type"`
	EntityID        string         `json:"entity_id"`
	Field           string         `json:"field"`
	FromState       string         `json:"from_state"`
	ToState         string         `json:"to_state"`
	PerformerID     string         `json:"performer_id,omitempty"`
	Reason          string         `json:"reason,omitempty"`
	Metadata        map[string]any `json:"metadata,omitempty"`
	Trace           []string       `json:"trace,omitempty"`
	HistoryRecordID string         `json:"history_record_id,omitempty"`
	ErrorCode       string         `json:"error_code,omitempty"`
	Err             error          `json:"-"`

	cancelled    bool
	cancelReason string
}

// Cancel marks a pending event as cancelled, aborting the transition. Only
// honored on pending events; the executor ignores cancellation on terminal
// events. An empty reason leaves the executor's default in place.
func (e *Event) Cancel(reason string) {
	e.cancelled = true
	e.cancelReason = reason
}

// Cancelled reports whether a listener cancelled the event.
func (e *Event) Cancelled() bool {
	return e.cancelled
}

// CancelReason returns the reason supplied to Cancel, if any.
func (e *Event) CancelReason() string {
	return e.cancelReason
}
