package statemachine

// Builder provides a fluent API for assembling a registry. Errors are
// collected and surfaced by Build, so call sites stay declarative.
type Builder struct {
	registry *Registry
	err      error
}

// NewBuilder creates a builder for a registry covering the given entity type
// and state field.
func NewBuilder(entityType, field string, opts ...Option) *Builder {
	return &Builder{registry: NewRegistry(entityType, field, opts...)}
}

// State registers a state definition.
func (b *Builder) State(def StateDefinition) *Builder {
	if b.err == nil {
		b.err = b.registry.Register(def)
	}
	return b
}

// Allow registers a directed transition edge.
func (b *Builder) Allow(from, to string, opts ...EdgeOption) *Builder {
	if b.err == nil {
		b.err = b.registry.Allow(from, to, opts...)
	}
	return b
}

// AllowMany registers one edge from the given state to each target.
func (b *Builder) AllowMany(from string, to ...string) *Builder {
	if b.err == nil {
		b.err = b.registry.AllowMany(from, to)
	}
	return b
}

// Source applies a declaration source to the registry being built.
func (b *Builder) Source(src Source) *Builder {
	if b.err == nil {
		b.err = src.Apply(b.registry)
	}
	return b
}

// Build returns the assembled registry, or the first error collected along
// the way.
func (b *Builder) Build() (*Registry, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.registry, nil
}

// MustBuild returns the assembled registry and panics on configuration
// errors, following the fail-fast bootstrap pattern.
func (b *Builder) MustBuild() *Registry {
	r, err := b.Build()
	if err != nil {
		panic("statemachine: " + err.Error())
	}
	return r
}
