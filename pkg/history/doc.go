// Package history records every state transition an entity undergoes as an
// append-only trail, enabling compliance review, debugging, and analytics
// over state flow.
//
// The package is a pure utility with pluggable storage backends. A Recorder
// writes records, a Reader queries and aggregates them, and Storage
// implementations persist them: an in-memory store for tests, a PostgreSQL
// store for production, and an async wrapper that batches writes for
// high-throughput paths. All components are goroutine-safe.
//
// # Usage
//
//	import "github.com/dmitrymomot/statekit/pkg/history"
//
//	storage := history.NewMemoryStorage()
//	recorder := history.NewRecorder(storage)
//
//	id, err := recorder.Record(ctx, history.Entry{
//	    EntityType: "article",
//	    EntityID:   "a-123",
//	    Field:      "status",
//	    FromState:  "draft",
//	    ToState:    "review",
//	    Reason:     "ready for review",
//	})
//
//	reader := history.NewReader(storage)
//	records, err := reader.Find(ctx, history.Criteria{
//	    EntityType: "article",
//	    EntityID:   "a-123",
//	})
//
// A nil PerformerID on a record marks an automated transition; reads must
// preserve the distinction between nil and an empty performer.
package history
