package statemachine

import (
	"maps"
)

// State represents "this entity, in this named state", resolved against a
// registry. It is a cheap value type; copies share the underlying registry.
//
// Presentation metadata resolves through a deterministic priority chain,
// first non-empty wins:
//
//  1. a per-instance override set via WithOverride
//  2. the field declared on the StateDefinition
//  3. the definition's Meta entry under the same key
//  4. the registry-wide default (for Title, the state name itself)
type State struct {
	name      string
	registry  *Registry
	overrides map[string]string
}

// Metadata resolution chain keys.
const (
	metaTitle       = "title"
	metaColor       = "color"
	metaIcon        = "icon"
	metaDescription = "description"
)

// State returns a State value for the given name. The name does not have to
// resolve to a registered definition; unknown states carry their name and
// fall back to registry defaults for metadata.
func (r *Registry) State(name string) State {
	return State{name: name, registry: r}
}

// StateOf returns the entity's current state for this registry's field. An
// entity with no state set yet resolves to the registry default state.
func (r *Registry) StateOf(e Entity) State {
	name := e.StateName(r.field)
	if name == "" {
		if def, ok := r.Default(); ok {
			name = def.Name
		}
	}
	return r.State(name)
}

// Name returns the state's stable identity.
func (s State) Name() string {
	return s.name
}

// Definition returns the registered definition backing this state, if any.
func (s State) Definition() (StateDefinition, bool) {
	return s.registry.Resolve(s.name)
}

// WithOverride returns a copy of the state with a per-instance metadata
// override. Valid keys are "title", "color", "icon" and "description";
// overrides take the highest priority in the resolution chain.
func (s State) WithOverride(key, value string) State {
	overrides := make(map[string]string, len(s.overrides)+1)
	maps.Copy(overrides, s.overrides)
	overrides[key] = value
	s.overrides = overrides
	return s
}

// Title resolves the state's display title through the priority chain.
func (s State) Title() string {
	if v := s.meta(metaTitle, func(d StateDefinition) string { return d.Title }, s.registry.defaults.Title); v != "" {
		return v
	}
	return s.name
}

// Color resolves the state's display color through the priority chain.
func (s State) Color() string {
	return s.meta(metaColor, func(d StateDefinition) string { return d.Color }, s.registry.defaults.Color)
}

// Icon resolves the state's icon through the priority chain.
func (s State) Icon() string {
	return s.meta(metaIcon, func(d StateDefinition) string { return d.Icon }, s.registry.defaults.Icon)
}

// Description resolves the state's description through the priority chain.
func (s State) Description() string {
	return s.meta(metaDescription, func(d StateDefinition) string { return d.Description }, s.registry.defaults.Description)
}

// IsDefault reports whether this state is the registry's default state.
func (s State) IsDefault() bool {
	def, ok := s.registry.Default()
	return ok && def.Name == s.name
}

// Equal reports whether other resolves to the same state name. It accepts a
// name string, a StateDefinition (by value or pointer), or another State.
func (s State) Equal(other any) bool {
	switch v := other.(type) {
	case string:
		return s.name == v
	case State:
		return s.name == v.name
	case *State:
		return v != nil && s.name == v.name
	case StateDefinition:
		return s.name == v.Name
	case *StateDefinition:
		return v != nil && s.name == v.Name
	default:
		return false
	}
}

// CanTransitionTo reports whether an edge from this state to the target is
// registered.
func (s State) CanTransitionTo(target string) bool {
	return s.registry.IsAllowed(s.name, target)
}

// NextStates returns the states reachable from this one, in registration
// order.
func (s State) NextStates() []State {
	defs := s.registry.AllowedTransitions(s.name)
	out := make([]State, len(defs))
	for i, def := range defs {
		out[i] = s.registry.State(def.Name)
	}
	return out
}

// Minimal serializes the state to its smallest form: name and title.
func (s State) Minimal() map[string]any {
	return map[string]any{
		"name":  s.name,
		"title": s.Title(),
	}
}

// UI serializes the state for presentation: the minimal form plus color,
// icon and description.
func (s State) UI() map[string]any {
	m := s.Minimal()
	m["color"] = s.Color()
	m["icon"] = s.Icon()
	m["description"] = s.Description()
	return m
}

// Full serializes the state relative to an entity: the UI form plus
// is_default, is_current, can_transition_to (computed from the entity's
// current state towards this state) and the definition's metadata bag.
func (s State) Full(e Entity) map[string]any {
	m := s.UI()

	current := s.registry.StateOf(e)
	m["is_default"] = s.IsDefault()
	m["is_current"] = current.name == s.name
	m["can_transition_to"] = s.registry.IsAllowed(current.name, s.name)

	meta := map[string]any{}
	if def, ok := s.Definition(); ok && len(def.Meta) > 0 {
		maps.Copy(meta, def.Meta)
	}
	m["metadata"] = meta
	return m
}

func (s State) meta(key string, field func(StateDefinition) string, fallback string) string {
	if v, ok := s.overrides[key]; ok && v != "" {
		return v
	}
	if def, ok := s.registry.Resolve(s.name); ok {
		if v := field(def); v != "" {
			return v
		}
		if v, ok := def.Meta[key].(string); ok && v != "" {
			return v
		}
	}
	return fallback
}
