package statemachine

import (
	"sync"
)

// Defaults holds registry-wide fallback values for presentation metadata.
// An empty Title falls back to the state name itself.
type Defaults struct {
	Title       string
	Color       string
	Icon        string
	Description string
}

// Registry owns the set of registered state definitions, the default state,
// and the transition adjacency list for one (entity type, field) pair.
//
// Registries are built once at application bootstrap and treated as
// read-mostly afterwards: mutation methods exist for configuration-time
// registration only, not for request-time use.
type Registry struct {
	entityType string
	field      string

	mu        sync.RWMutex
	defs      map[string]StateDefinition
	order     []string
	edges     map[string]map[string]Edge
	defaults  Defaults
	check     func(StateDefinition) error
	resolvers []Resolver
	resolved  map[string]StateDefinition
}

// Option configures a Registry during construction.
type Option func(*Registry)

// WithDefaults sets registry-wide metadata fallbacks.
func WithDefaults(d Defaults) Option {
	return func(r *Registry) { r.defaults = d }
}

// WithDefinitionCheck installs a validation hook run against every definition
// before it is registered, including implicit registrations made by Allow.
// It is the Go counterpart of "the type must implement the base state
// contract" checks.
func WithDefinitionCheck(check func(StateDefinition) error) Option {
	return func(r *Registry) {
		if check != nil {
			r.check = check
		}
	}
}

// WithResolvers appends fallback resolution strategies consulted, in order,
// when Resolve misses the registry map. Results are cached after the first
// successful resolution.
func WithResolvers(resolvers ...Resolver) Option {
	return func(r *Registry) {
		for _, res := range resolvers {
			if res != nil {
				r.resolvers = append(r.resolvers, res)
			}
		}
	}
}

// NewRegistry creates an empty registry for the given entity type and state
// field.
func NewRegistry(entityType, field string, opts ...Option) *Registry {
	r := &Registry{
		entityType: entityType,
		field:      field,
		defs:       make(map[string]StateDefinition),
		edges:      make(map[string]map[string]Edge),
		resolved:   make(map[string]StateDefinition),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// EntityType returns the entity type this registry describes.
func (r *Registry) EntityType() string {
	return r.entityType
}

// Field returns the entity field holding the current state name.
func (r *Registry) Field() string {
	return r.field
}

// Register adds a state definition. Registering an identical definition again
// is idempotent; registering the same name with a materially different
// definition fails with a configuration error. Use Merge for last-writer-wins
// semantics when combining declaration sources.
func (r *Registry) Register(def StateDefinition) error {
	if def.Name == "" {
		return configErr(ErrBlankStateName)
	}
	if err := r.runCheck(def); err != nil {
		return configErr(NewErrDefinitionRejected(def.Name, err))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.defs[def.Name]; ok {
		if existing.equal(def) {
			return nil
		}
		return configErr(NewErrStateRedeclared(def.Name))
	}

	r.defs[def.Name] = def
	r.order = append(r.order, def.Name)
	return nil
}

// Merge adds or overlays a state definition with union semantics: non-empty
// singleton fields from def win over the stored ones, permitted roles and
// meta entries are unioned. Used by declaration sources.
func (r *Registry) Merge(def StateDefinition) error {
	if def.Name == "" {
		return configErr(ErrBlankStateName)
	}
	if err := r.runCheck(def); err != nil {
		return configErr(NewErrDefinitionRejected(def.Name, err))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.defs[def.Name]; ok {
		r.defs[def.Name] = existing.merge(def)
		return nil
	}
	r.defs[def.Name] = def
	r.order = append(r.order, def.Name)
	return nil
}

// EdgeOption configures a single transition edge.
type EdgeOption func(*Edge)

// WithHandler binds a named custom handler to the edge. The name is resolved
// by the transition executor at execution time.
func WithHandler(name string) EdgeOption {
	return func(e *Edge) { e.Handler = name }
}

// Allow registers the directed edge from -> to. Both states are registered
// implicitly (as bare definitions) if not yet known. Re-declaring an edge
// replaces its handler binding; the edge set itself is a union.
func (r *Registry) Allow(from, to string, opts ...EdgeOption) error {
	if from == "" || to == "" {
		return configErr(ErrEdgeIncomplete)
	}
	for _, name := range []string{from, to} {
		if err := r.ensureRegistered(name); err != nil {
			return err
		}
	}

	edge := Edge{From: from, To: to}
	for _, opt := range opts {
		opt(&edge)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.edges[from]; !ok {
		r.edges[from] = make(map[string]Edge)
	}
	r.edges[from][to] = edge
	return nil
}

// AllowMany registers one edge from the given state to each target.
func (r *Registry) AllowMany(from string, to []string, opts ...EdgeOption) error {
	for _, target := range to {
		if err := r.Allow(from, target, opts...); err != nil {
			return err
		}
	}
	return nil
}

// AllowPairs registers a batch of edges. Any pair missing its from or to
// state fails the whole batch with a configuration error.
func (r *Registry) AllowPairs(pairs []Pair) error {
	for _, p := range pairs {
		if p.From == "" || p.To == "" {
			return configErr(ErrEdgeIncomplete)
		}
	}
	for _, p := range pairs {
		var opts []EdgeOption
		if p.Handler != "" {
			opts = append(opts, WithHandler(p.Handler))
		}
		if err := r.Allow(p.From, p.To, opts...); err != nil {
			return err
		}
	}
	return nil
}

// Resolve looks a state definition up by name. On a registry miss the
// configured resolver strategies are consulted in order; a hit is cached, so
// potentially expensive resolvers (directory scans, remote catalogs) pay
// their cost once per name.
func (r *Registry) Resolve(name string) (StateDefinition, bool) {
	r.mu.RLock()
	if def, ok := r.defs[name]; ok {
		r.mu.RUnlock()
		return def, true
	}
	if def, ok := r.resolved[name]; ok {
		r.mu.RUnlock()
		return def, true
	}
	resolvers := r.resolvers
	r.mu.RUnlock()

	for _, res := range resolvers {
		def, ok := res.Resolve(name)
		if !ok {
			continue
		}
		r.mu.Lock()
		r.resolved[name] = def
		r.mu.Unlock()
		return def, true
	}
	return StateDefinition{}, false
}

// Default returns the initial state definition: the first registered
// definition flagged IsDefault, else the first registered definition. When
// several definitions claim the default flag the first registered wins; this
// mirrors the registration-order behavior callers rely on and is deliberately
// not an error.
func (r *Registry) Default() (StateDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, name := range r.order {
		if r.defs[name].IsDefault {
			return r.defs[name], true
		}
	}
	if len(r.order) > 0 {
		return r.defs[r.order[0]], true
	}
	return StateDefinition{}, false
}

// IsAllowed reports whether a directed edge from -> to is registered.
func (r *Registry) IsAllowed(from, to string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.edges[from][to]
	return ok
}

// HandlerFor returns the handler name bound to the edge, if any.
func (r *Registry) HandlerFor(from, to string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	edge, ok := r.edges[from][to]
	if !ok || edge.Handler == "" {
		return "", false
	}
	return edge.Handler, true
}

// AllowedTransitions returns the definitions reachable from the given state,
// in state registration order.
func (r *Registry) AllowedTransitions(from string) []StateDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	targets := r.edges[from]
	if len(targets) == 0 {
		return nil
	}
	out := make([]StateDefinition, 0, len(targets))
	for _, name := range r.order {
		if _, ok := targets[name]; ok {
			out = append(out, r.defs[name])
		}
	}
	return out
}

// States returns all registered definitions in registration order.
func (r *Registry) States() []StateDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]StateDefinition, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.defs[name])
	}
	return out
}

// Edges returns all registered edges, ordered by source then target
// registration order.
func (r *Registry) Edges() []Edge {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Edge
	for _, from := range r.order {
		targets := r.edges[from]
		if len(targets) == 0 {
			continue
		}
		for _, to := range r.order {
			if edge, ok := targets[to]; ok {
				out = append(out, edge)
			}
		}
	}
	return out
}

func (r *Registry) ensureRegistered(name string) error {
	r.mu.RLock()
	_, ok := r.defs[name]
	r.mu.RUnlock()
	if ok {
		return nil
	}
	if def, found := r.Resolve(name); found {
		return r.Register(def)
	}
	return r.Register(StateDefinition{Name: name})
}

func (r *Registry) runCheck(def StateDefinition) error {
	if r.check == nil {
		return nil
	}
	return r.check(def)
}
