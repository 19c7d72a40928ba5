package transition

import (
	"context"
	"errors"

	"github.com/dmitrymomot/statekit/pkg/statemachine"
)

var (
	// ErrEntityNotFound indicates the store has no entity for the reference
	ErrEntityNotFound = errors.New("entity not found")

	// ErrStoreUnavailable indicates the store backend failed
	ErrStoreUnavailable = errors.New("record store is unavailable")
)

// EntityRef identifies an entity in the store
type EntityRef struct {
	EntityType string
	EntityID   string
}

// Store is the record-store collaborator the executor persists entities
// through. WithinTx must run fn atomically: every Save (and any history
// write sharing the transaction) commits or rolls back as one unit. The
// executor runs its whole pipeline inside a single WithinTx call.
type Store interface {
	// Load fetches the entity for the reference.
	Load(ctx context.Context, ref EntityRef) (statemachine.Entity, error)
	// Save persists the entity. Must honor the transactional scope it is
	// invoked under.
	Save(ctx context.Context, e statemachine.Entity) error
	// CurrentStateName reads the persisted state of the entity's field; an
	// empty string means the entity has never transitioned.
	CurrentStateName(ctx context.Context, e statemachine.Entity, field string) (string, error)
	// WithinTx runs fn inside one atomic transaction. A non-nil error from
	// fn rolls every write inside the scope back and is returned unchanged.
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
