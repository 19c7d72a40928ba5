package transition

import (
	"github.com/dmitrymomot/statekit/pkg/statemachine"
)

// Request describes one attempted transition. Created fresh per call and
// never persisted. A nil Performer means a system transition, which bypasses
// authorization. Force bypasses edge and rule checks but never state name
// resolution. Silent suppresses event emission.
type Request struct {
	Entity    statemachine.Entity
	Field     string
	From      string
	To        string
	Performer statemachine.Performer
	Reason    string
	Metadata  map[string]any
	Force     bool
	Silent    bool
}

// Pipeline stage names recorded on the context's trace as each stage
// completes.
const (
	StageValidating   = "validating"
	StageAuthorizing  = "authorizing"
	StagePreEvent     = "pre_event_fired"
	StageBeforeHook   = "before_hook_run"
	StageMutating     = "mutating"
	StageAfterHook    = "after_hook_run"
	StageSuccessHooks = "success_hooks"
	StageFailureHooks = "failure_hooks"
	StagePostEvent    = "post_event_fired"
)

// Context is the executor's working state for one pipeline run. It carries
// the request plus the resolved state definitions and accumulates the stage
// trace. Discarded when Execute returns.
type Context struct {
	Request  Request
	FromDef  statemachine.StateDefinition
	ToDef    statemachine.StateDefinition
	trace    []string
}

// Mark appends a completed stage to the trace.
func (c *Context) Mark(stage string) {
	c.trace = append(c.trace, stage)
}

// Trace returns the stages completed so far, in order.
func (c *Context) Trace() []string {
	out := make([]string, len(c.trace))
	copy(out, c.trace)
	return out
}

// Result is the outcome of one Execute call. Entity is set only on success;
// ErrorCode and ErrorMessage only on failure.
type Result struct {
	Succeeded       bool                `json:"succeeded"`
	FromState       string              `json:"from_state"`
	ToState         string              `json:"to_state"`
	Entity          statemachine.Entity `json:"-"`
	HistoryRecordID string              `json:"history_record_id,omitempty"`
	ErrorCode       string              `json:"error_code,omitempty"`
	ErrorMessage    string              `json:"error_message,omitempty"`
	Metadata        map[string]any      `json:"metadata,omitempty"`
}
