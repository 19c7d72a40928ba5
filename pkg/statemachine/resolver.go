package statemachine

// Resolver is a pluggable fallback strategy for resolving state names the
// registry map does not know. The default resolution path is the explicit
// registry lookup; resolvers exist for ergonomics (alias tables, catalogs
// discovered on disk) and are never load-bearing for correctness. Registry
// caches every successful resolution.
type Resolver interface {
	Resolve(name string) (StateDefinition, bool)
}

// ResolverFunc adapts a plain function to the Resolver interface.
type ResolverFunc func(name string) (StateDefinition, bool)

func (f ResolverFunc) Resolve(name string) (StateDefinition, bool) {
	return f(name)
}

// MapResolver resolves names from a static map, useful for alias tables and
// tests.
type MapResolver map[string]StateDefinition

func (m MapResolver) Resolve(name string) (StateDefinition, bool) {
	def, ok := m[name]
	return def, ok
}
