package transition

import "context"

// Handler customizes a single edge's behavior. Before runs ahead of the
// mutation and may veto the transition by returning false; returning an
// error fails the transition with that error. After runs once the mutation
// succeeded, receives the result so far, and cannot fail the transition.
type Handler interface {
	Before(ctx context.Context, tc *Context) (bool, error)
	After(ctx context.Context, tc *Context, result Result)
}

// Applier is an optional Handler extension that replaces the executor's
// default mutate-and-save behavior for the edge.
type Applier interface {
	Apply(ctx context.Context, tc *Context, store Store) error
}

// BaseHandler is a no-op Handler meant for embedding, so a custom handler
// only overrides the methods it cares about.
type BaseHandler struct{}

func (BaseHandler) Before(ctx context.Context, tc *Context) (bool, error) { return true, nil }

func (BaseHandler) After(ctx context.Context, tc *Context, result Result) {}

// HandlerFuncs adapts plain functions into a Handler. Nil functions default
// to the no-op behavior.
type HandlerFuncs struct {
	BeforeFunc func(ctx context.Context, tc *Context) (bool, error)
	AfterFunc  func(ctx context.Context, tc *Context, result Result)
}

func (h HandlerFuncs) Before(ctx context.Context, tc *Context) (bool, error) {
	if h.BeforeFunc == nil {
		return true, nil
	}
	return h.BeforeFunc(ctx, tc)
}

func (h HandlerFuncs) After(ctx context.Context, tc *Context, result Result) {
	if h.AfterFunc != nil {
		h.AfterFunc(ctx, tc, result)
	}
}
