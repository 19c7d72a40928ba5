package transition

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrymomot/statekit/pkg/statemachine"
)

// MemoryStore keeps entities and their persisted state names in memory.
// Intended for tests and local development. WithinTx emulates a real
// transaction by snapshotting persisted state and restoring it, including
// the in-memory entities' fields, when the callback fails.
type MemoryStore struct {
	mu       sync.Mutex
	fields   []string
	entities map[EntityRef]statemachine.Entity
	states   map[EntityRef]map[string]string
}

// NewMemoryStore creates a store tracking the given state fields on every
// saved entity. At least one field is required.
func NewMemoryStore(fields ...string) *MemoryStore {
	if len(fields) == 0 {
		panic("transition: memory store requires at least one tracked field")
	}
	return &MemoryStore{
		fields:   fields,
		entities: make(map[EntityRef]statemachine.Entity),
		states:   make(map[EntityRef]map[string]string),
	}
}

// Add registers an entity with the store and persists its current field
// values.
func (s *MemoryStore) Add(e statemachine.Entity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.persist(e)
}

func (s *MemoryStore) Load(ctx context.Context, ref EntityRef) (statemachine.Entity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entities[ref]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrEntityNotFound, ref.EntityType, ref.EntityID)
	}
	return e, nil
}

func (s *MemoryStore) Save(ctx context.Context, e statemachine.Entity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.persist(e)
	return nil
}

func (s *MemoryStore) CurrentStateName(ctx context.Context, e statemachine.Entity, field string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ref := refOf(e)
	fields, ok := s.states[ref]
	if !ok {
		return "", nil
	}
	return fields[field], nil
}

// WithinTx snapshots all persisted state before running fn. On error the
// snapshot is restored and every registered entity's tracked fields are
// reset to their persisted values, undoing in-place mutations fn made.
func (s *MemoryStore) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	s.mu.Lock()
	snapshot := make(map[EntityRef]map[string]string, len(s.states))
	for ref, fields := range s.states {
		copied := make(map[string]string, len(fields))
		for field, name := range fields {
			copied[field] = name
		}
		snapshot[ref] = copied
	}
	s.mu.Unlock()

	if err := fn(ctx); err != nil {
		s.mu.Lock()
		s.states = snapshot
		for ref, e := range s.entities {
			for field, name := range snapshot[ref] {
				e.SetStateName(field, name)
			}
		}
		s.mu.Unlock()
		return err
	}
	return nil
}

// persist requires s.mu to be held.
func (s *MemoryStore) persist(e statemachine.Entity) {
	ref := refOf(e)
	s.entities[ref] = e

	fields, ok := s.states[ref]
	if !ok {
		fields = make(map[string]string, len(s.fields))
		s.states[ref] = fields
	}
	for _, field := range s.fields {
		fields[field] = e.StateName(field)
	}
}

func refOf(e statemachine.Entity) EntityRef {
	return EntityRef{EntityType: e.EntityType(), EntityID: e.EntityID()}
}
