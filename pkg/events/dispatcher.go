package events

import (
	"context"
	"sync"
)

// Listener handles a dispatched event. Listeners run synchronously on the
// publishing goroutine; a pending listener may call Cancel on the event to
// abort the transition.
type Listener func(ctx context.Context, event *Event)

// Dispatcher routes events to listeners subscribed by event name.
// Listeners for a name run in subscription order. Publishing a name with no
// listeners is a no-op.
type Dispatcher struct {
	mu        sync.RWMutex
	listeners map[string][]Listener
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{listeners: make(map[string][]Listener)}
}

// Subscribe registers a listener for the given event name. Nil listeners
// are ignored.
func (d *Dispatcher) Subscribe(name string, l Listener) {
	if l == nil {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners[name] = append(d.listeners[name], l)
}

// SubscribeAll registers a listener for every lifecycle event.
func (d *Dispatcher) SubscribeAll(l Listener) {
	d.Subscribe(TransitionPending, l)
	d.Subscribe(TransitionCompleted, l)
	d.Subscribe(TransitionFailed, l)
}

// Publish dispatches the event to listeners subscribed under its name, in
// subscription order. For pending events, dispatch stops early once a
// listener cancels the event; later listeners never observe it. Cancel has
// no effect on other event names, so a misplaced Cancel on a completed or
// failed event does not starve later listeners.
func (d *Dispatcher) Publish(ctx context.Context, event *Event) {
	if event == nil {
		return
	}

	d.mu.RLock()
	listeners := d.listeners[event.Name]
	d.mu.RUnlock()

	for _, l := range listeners {
		l(ctx, event)
		if event.Name == TransitionPending && event.Cancelled() {
			return
		}
	}
}
