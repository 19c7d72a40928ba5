// Package transition executes state transitions through a fixed pipeline:
// validate, authorize, pre-event, before-hook, mutate, after-hook, then the
// success or failure branch. The Executor orchestrates the pipeline against
// a set of collaborators: a state registry, a record store, an optional
// permission checker, validation rules, a history recorder, and an event
// dispatcher.
//
// The whole pipeline runs inside one transaction supplied by the record
// store, so a failure after mutation rolls the state change and its history
// row back together. Event listeners run synchronously on the calling
// goroutine; a slow listener slows the transition.
//
// # Usage
//
//	store := transition.NewMemoryStore("status")
//	exec := transition.NewExecutor(registry, store,
//	    transition.WithChecker(permission.NewRoleChecker()),
//	    transition.WithRecorder(history.NewRecorder(historyStorage)),
//	    transition.WithDispatcher(dispatcher),
//	)
//
//	result, err := exec.Execute(ctx, transition.Request{
//	    Entity:    article,
//	    From:      "draft",
//	    To:        "review",
//	    Performer: user,
//	    Reason:    "ready for review",
//	})
//
// Concurrent transitions on the same entity are the caller's problem to
// serialize, typically with a row lock taken by the store's transaction.
// The executor contains no retry logic.
package transition
