package permission

import (
	"context"
	"fmt"

	"github.com/dmitrymomot/statekit/pkg/statemachine"
)

// Checker is the pluggable strategy deciding transition authorization.
// Implementations must be safe for concurrent use.
type Checker interface {
	// Name identifies the checker in denial diagnostics.
	Name() string

	// CanTransition reports whether the performer may move the entity from
	// one state to another.
	CanTransition(ctx context.Context, e statemachine.Entity, from, to statemachine.StateDefinition, p statemachine.Performer) bool

	// DenialReason explains a failed check in human-readable form. It returns
	// an empty string when the checker would allow the transition.
	DenialReason(ctx context.Context, e statemachine.Entity, from, to statemachine.StateDefinition, p statemachine.Performer) string

	// RoleOf resolves the performer's roles, if this checker knows how.
	RoleOf(p statemachine.Performer) []string
}

// Gate is the external authorization collaborator the PolicyChecker consults.
type Gate interface {
	// AbilityRegistered reports whether an ability with the given name exists.
	AbilityRegistered(name string) bool

	// Check evaluates the named ability for a performer and entity.
	Check(ctx context.Context, ability string, p statemachine.Performer, e statemachine.Entity) bool
}

// Denial describes why a permission check failed. It is a diagnostics value,
// not persisted by default.
type Denial struct {
	EntityType  string
	EntityID    string
	Field       string
	FromState   string
	ToState     string
	PerformerID string
	Reason      string
	Checker     string
}

func (d Denial) String() string {
	performer := d.PerformerID
	if performer == "" {
		performer = "<system>"
	}
	return fmt.Sprintf("transition %s -> %s on %s/%s denied for %s by %s: %s",
		d.FromState, d.ToState, d.EntityType, d.EntityID, performer, d.Checker, d.Reason)
}
