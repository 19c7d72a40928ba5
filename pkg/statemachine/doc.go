// Package statemachine models named states and the directed transition graph
// between them for arbitrary domain entities.
//
// The package revolves around three pieces: StateDefinition describes one
// state statically (identity, presentation metadata, permitted roles);
// Registry owns the definitions, the default state and the transition
// adjacency list for one (entity type, field) pair; State is the runtime
// value "entity E is currently in state S", resolved against a registry.
//
// Registries are built once at application bootstrap - explicitly, through
// the fluent Builder, or from declarative YAML documents - and are treated as
// read-mostly afterwards. All declaration sources feed the same primitives:
// edges are unioned across sources, singleton metadata fields follow
// last-writer-wins, and the first definition registered with the default flag
// stays the default.
//
// # Usage
//
// Explicit registration:
//
//	reg := statemachine.NewRegistry("article", "status")
//	_ = reg.Register(statemachine.StateDefinition{Name: "draft", IsDefault: true})
//	_ = reg.Register(statemachine.StateDefinition{Name: "review", Title: "In Review"})
//	_ = reg.Allow("draft", "review")
//	_ = reg.Allow("review", "published", statemachine.WithHandler("publish"))
//
// Or fluent:
//
//	reg := statemachine.NewBuilder("article", "status").
//		State(statemachine.StateDefinition{Name: "draft", IsDefault: true}).
//		State(statemachine.StateDefinition{Name: "review"}).
//		Allow("draft", "review").
//		MustBuild()
//
// Querying:
//
//	reg.IsAllowed("draft", "review") // true
//
//	st := reg.StateOf(article)       // resolves empty field to the default state
//	st.Name()                        // "draft"
//	st.CanTransitionTo("review")     // true
//	st.NextStates()                  // [review]
//
// # Serialization forms
//
// State serializes to three strictly nested forms: Minimal (name, title),
// UI (plus color, icon, description) and Full (plus is_default, is_current,
// can_transition_to and the definition's metadata bag, computed relative to
// a supplied entity).
//
// # Metadata resolution
//
// Every presentation accessor resolves through the same deterministic chain,
// first non-empty wins: per-instance override, definition field, definition
// Meta entry, registry default. Title falls back to the state name itself.
package statemachine
