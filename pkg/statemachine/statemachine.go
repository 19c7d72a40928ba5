package statemachine

// Entity is the minimal contract the engine needs from a domain object that
// carries one or more state fields. Implementations are typically thin
// adapters over application models.
type Entity interface {
	// EntityType returns a stable type identifier (e.g. "article").
	EntityType() string
	// EntityID returns the entity's unique identifier within its type.
	EntityID() string
	// StateName returns the current state name held in the given field,
	// or an empty string when the field has never been set.
	StateName(field string) string
	// SetStateName writes a new state name into the given field.
	SetStateName(field, name string)
}

// Performer identifies who is attempting a transition. A nil Performer means
// the transition is system-driven (unattended).
type Performer interface {
	PerformerID() string
}

// Source feeds state and transition declarations into a Registry. Explicit
// registration calls and declarative documents are both expressed as sources;
// all sources call the same Register/Merge/Allow primitives, so edges are
// unioned and singleton metadata fields follow last-writer-wins.
type Source interface {
	Apply(r *Registry) error
}

// SourceFunc adapts a plain function to the Source interface.
type SourceFunc func(r *Registry) error

func (f SourceFunc) Apply(r *Registry) error {
	return f(r)
}

// FromSources applies every source to the registry in order. The first
// failing source aborts the merge.
func FromSources(r *Registry, sources ...Source) error {
	for _, src := range sources {
		if err := src.Apply(r); err != nil {
			return err
		}
	}
	return nil
}
