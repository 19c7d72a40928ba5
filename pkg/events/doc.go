// Package events carries transition lifecycle notifications between the
// executor and interested listeners.
//
// Three events describe a transition's life: a pending event fired before
// any mutation, a completed event fired after the new state is persisted,
// and a failed event fired when the transition was rejected or its action
// errored. Listeners subscribe to a Dispatcher by event name and run
// synchronously in registration order. A pending listener may cancel the
// transition by calling Cancel on the event; completed and failed events
// are informational and ignore cancellation.
//
// The RedisBroadcaster republishes terminal events onto a Redis channel as
// JSON so out-of-process consumers can follow state changes without polling.
package events
