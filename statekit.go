package statekit

import (
	"context"

	"github.com/dmitrymomot/statekit/pkg/statemachine"
	"github.com/dmitrymomot/statekit/pkg/transition"
)

// Machine bundles a state registry with a transition executor behind a small
// convenience surface. It is a thin wrapper: anything not covered here is
// available through Registry and Executor directly.
type Machine struct {
	registry *statemachine.Registry
	executor transition.Runner
}

// New creates a Machine for the given registry and store. Options are passed
// through to the executor untouched.
func New(registry *statemachine.Registry, store transition.Store, opts ...transition.ExecutorOption) *Machine {
	return NewWithExecutor(registry, transition.NewExecutor(registry, store, opts...))
}

// NewWithExecutor creates a Machine over a custom executor, such as a
// transition.FakeExecutor in tests.
func NewWithExecutor(registry *statemachine.Registry, exec transition.Runner) *Machine {
	if registry == nil {
		panic("statekit: registry cannot be nil")
	}
	if exec == nil {
		panic("statekit: executor cannot be nil")
	}
	return &Machine{registry: registry, executor: exec}
}

// Registry returns the underlying state registry.
func (m *Machine) Registry() *statemachine.Registry {
	return m.registry
}

// Executor returns the underlying transition executor.
func (m *Machine) Executor() transition.Runner {
	return m.executor
}

// TransitionOption customizes a single Transition call.
type TransitionOption func(*transition.Request)

// By sets the performer attempting the transition. Without it the transition
// runs as a system transition, subject to the executor's identity provider.
func By(p statemachine.Performer) TransitionOption {
	return func(req *transition.Request) {
		req.Performer = p
	}
}

// WithReason attaches a human-readable reason, recorded in history and events.
func WithReason(reason string) TransitionOption {
	return func(req *transition.Request) {
		req.Reason = reason
	}
}

// WithMetadata attaches arbitrary metadata, visible to validation rules and
// recorded in history and events.
func WithMetadata(meta map[string]any) TransitionOption {
	return func(req *transition.Request) {
		req.Metadata = meta
	}
}

// Forced bypasses edge and rule checks. The target state must still resolve.
func Forced() TransitionOption {
	return func(req *transition.Request) {
		req.Force = true
	}
}

// Silently suppresses event emission for this transition.
func Silently() TransitionOption {
	return func(req *transition.Request) {
		req.Silent = true
	}
}

// Transition moves the entity to the named state, reading the current state
// from the entity and the field from the registry.
func (m *Machine) Transition(ctx context.Context, e statemachine.Entity, to string, opts ...TransitionOption) (transition.Result, error) {
	req := transition.Request{
		Entity: e,
		Field:  m.registry.Field(),
		To:     to,
	}
	for _, opt := range opts {
		opt(&req)
	}
	return m.executor.Execute(ctx, req)
}

// StateOf returns the entity's current state as a State value.
func (m *Machine) StateOf(e statemachine.Entity) statemachine.State {
	return m.registry.StateOf(e)
}

// AllowedTransitions lists the states the entity may move to from its
// current state.
func (m *Machine) AllowedTransitions(e statemachine.Entity) []statemachine.StateDefinition {
	return m.registry.AllowedTransitions(e.StateName(m.registry.Field()))
}
