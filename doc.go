// Package statekit provides a state transition engine for Go services.
//
// It manages the lifecycle of domain entities through declared states: a
// registry of state definitions and permitted transitions, an executor that
// runs each transition through a fixed pipeline (validation, authorization,
// cancelable pending event, hooks, mutation, history, completed event),
// pluggable permission checking, an append-only transition history with a
// query and analytics surface, and synchronous in-process events with an
// optional Redis fan-out.
//
// Each concern lives in its own package under pkg/ and can be used on its
// own. The root package offers a small Machine facade for the common case of
// one registry plus one executor:
//
//	registry := statemachine.NewBuilder("article", "status").
//		State(statemachine.StateDefinition{Name: "draft", IsDefault: true}).
//		State(statemachine.StateDefinition{Name: "review"}).
//		State(statemachine.StateDefinition{Name: "published"}).
//		Allow("draft", "review").
//		Allow("review", "published").
//		MustBuild()
//
//	store := transition.NewMemoryStore("status")
//	machine := statekit.New(registry, store)
//
//	result, err := machine.Transition(ctx, article, "review",
//		statekit.By(editor),
//		statekit.WithReason("ready for review"),
//	)
//
// See the package documentation under pkg/statemachine, pkg/transition,
// pkg/permission, pkg/history, pkg/events and pkg/rules for the full surface.
package statekit
