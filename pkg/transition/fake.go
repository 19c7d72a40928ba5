package transition

import (
	"context"
	"fmt"
	"sync"
)

// FakeExecutor records transition requests without touching a store,
// recorder, or dispatcher. Drop-in test double for code that depends on the
// executor contract: prevented transitions fail the way the real pipeline
// would, everything else succeeds and mutates the entity in memory.
type FakeExecutor struct {
	mu        sync.Mutex
	requests  []Request
	prevented map[edgeKey]string
	forced    *Result
	forcedErr error
}

// NewFakeExecutor creates an empty fake
func NewFakeExecutor() *FakeExecutor {
	return &FakeExecutor{prevented: make(map[edgeKey]string)}
}

// PreventTransition makes matching requests fail with a not-allowed error
// carrying the given reason.
func (f *FakeExecutor) PreventTransition(from, to, reason string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prevented[edgeKey{from: from, to: to}] = reason
}

// ForceResult makes every subsequent Execute return exactly this result and
// error, bypassing the fake's own logic.
func (f *FakeExecutor) ForceResult(result Result, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.forced = &result
	f.forcedErr = err
}

// Execute records the request and applies the fake's configured behavior
func (f *FakeExecutor) Execute(ctx context.Context, req Request) (Result, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	forced := f.forced
	forcedErr := f.forcedErr
	reason, prevented := f.prevented[edgeKey{from: req.From, to: req.To}]
	f.mu.Unlock()

	if forced != nil {
		return *forced, forcedErr
	}

	if prevented {
		err := fmt.Errorf("%w: %s", ErrTransitionNotAllowed, reason)
		return Result{
			Succeeded:    false,
			FromState:    req.From,
			ToState:      req.To,
			ErrorCode:    CodeOf(err),
			ErrorMessage: err.Error(),
		}, err
	}

	if req.Entity != nil && req.Field != "" {
		req.Entity.SetStateName(req.Field, req.To)
	}
	return Result{
		Succeeded: true,
		FromState: req.From,
		ToState:   req.To,
		Entity:    req.Entity,
		Metadata:  req.Metadata,
	}, nil
}

// Requests returns every request seen so far, in order
func (f *FakeExecutor) Requests() []Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Request, len(f.requests))
	copy(out, f.requests)
	return out
}

// Reset clears recorded requests and configured behavior
func (f *FakeExecutor) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = nil
	f.prevented = make(map[edgeKey]string)
	f.forced = nil
	f.forcedErr = nil
}
