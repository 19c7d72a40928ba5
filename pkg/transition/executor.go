package transition

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dmitrymomot/statekit/pkg/events"
	"github.com/dmitrymomot/statekit/pkg/history"
	"github.com/dmitrymomot/statekit/pkg/logger"
	"github.com/dmitrymomot/statekit/pkg/permission"
	"github.com/dmitrymomot/statekit/pkg/rules"
	"github.com/dmitrymomot/statekit/pkg/statemachine"
)

type edgeKey struct {
	from, to string
}

// Runner is the executor contract: anything that can carry a request through
// a transition. Executor is the default implementation; FakeExecutor stands
// in for tests.
type Runner interface {
	Execute(ctx context.Context, req Request) (Result, error)
}

var (
	_ Runner = (*Executor)(nil)
	_ Runner = (*FakeExecutor)(nil)
)

// Executor runs the transition pipeline. All collaborators except the
// registry and store are optional; a missing collaborator disables its
// stage.
type Executor struct {
	registry     *statemachine.Registry
	store        Store
	checker      permission.Checker
	recorder     history.Recorder
	dispatcher   *events.Dispatcher
	rules        *rules.Set
	identity     IdentityProvider
	config       RuntimeConfig
	log          *slog.Logger
	handlers     map[string]Handler
	edgeHandlers map[edgeKey]Handler
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithChecker sets the permission checker consulted for performers.
func WithChecker(c permission.Checker) ExecutorOption {
	return func(e *Executor) { e.checker = c }
}

// WithRecorder sets the history recorder.
func WithRecorder(r history.Recorder) ExecutorOption {
	return func(e *Executor) { e.recorder = r }
}

// WithDispatcher sets the event dispatcher.
func WithDispatcher(d *events.Dispatcher) ExecutorOption {
	return func(e *Executor) { e.dispatcher = d }
}

// WithRules sets the validation rule set run during the validate stage.
func WithRules(s *rules.Set) ExecutorOption {
	return func(e *Executor) { e.rules = s }
}

// WithIdentityProvider sets the fallback performer source for requests that
// omit one.
func WithIdentityProvider(p IdentityProvider) ExecutorOption {
	return func(e *Executor) { e.identity = p }
}

// WithConfig replaces the default runtime configuration.
func WithConfig(c RuntimeConfig) ExecutorOption {
	return func(e *Executor) { e.config = c }
}

// WithLogger sets the logger for best-effort failure reporting.
func WithLogger(log *slog.Logger) ExecutorOption {
	return func(e *Executor) {
		if log != nil {
			e.log = log
		}
	}
}

// WithHandler registers a named handler. Registry edges declared with a
// handler name resolve against these.
func WithHandler(name string, h Handler) ExecutorOption {
	return func(e *Executor) { e.handlers[name] = h }
}

// WithEdgeHandler registers a handler for one specific edge. Takes
// precedence over a handler name declared on the registry edge.
func WithEdgeHandler(from, to string, h Handler) ExecutorOption {
	return func(e *Executor) { e.edgeHandlers[edgeKey{from: from, to: to}] = h }
}

// NewExecutor creates an executor over the given registry and store
func NewExecutor(registry *statemachine.Registry, store Store, opts ...ExecutorOption) *Executor {
	if registry == nil {
		panic("transition: registry cannot be nil")
	}
	if store == nil {
		panic("transition: store cannot be nil")
	}

	e := &Executor{
		registry:     registry,
		store:        store,
		config:       DefaultRuntimeConfig(),
		log:          slog.Default(),
		handlers:     make(map[string]Handler),
		edgeHandlers: make(map[edgeKey]Handler),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs the full pipeline for one request. The pipeline up to and
// including the success branch runs inside a single store transaction, so a
// failure after mutation rolls the state change and its history row back
// together. Failure-side history and events are emitted outside the
// transaction, best effort, and skipped for forced requests.
func (e *Executor) Execute(ctx context.Context, req Request) (Result, error) {
	if req.Entity == nil {
		return Result{}, fmt.Errorf("%w: entity is required", ErrActionFailed)
	}
	if req.Field == "" {
		req.Field = e.registry.Field()
	}
	if req.Performer == nil && e.identity != nil {
		req.Performer = e.identity.CurrentPerformer(ctx)
	}
	if req.From == "" {
		req.From = req.Entity.StateName(req.Field)
	}
	if req.From == "" {
		if def, ok := e.registry.Default(); ok {
			req.From = def.Name
		}
	}

	tc := &Context{Request: req}
	started := time.Now()

	var result Result
	err := e.store.WithinTx(ctx, func(ctx context.Context) error {
		r, err := e.run(ctx, tc)
		if err != nil {
			return err
		}
		result = r
		return nil
	})

	elapsed := time.Since(started).Seconds()
	if err != nil {
		result = Result{
			Succeeded:    false,
			FromState:    req.From,
			ToState:      req.To,
			ErrorCode:    CodeOf(err),
			ErrorMessage: err.Error(),
			Metadata:     req.Metadata,
		}
		observeTransition(req.Entity.EntityType(), req.From, req.To, outcomeFailure, elapsed)
		observeFailure(req.Entity.EntityType(), result.ErrorCode)
		e.recordFailure(ctx, tc, result, err)
		return result, err
	}

	observeTransition(req.Entity.EntityType(), req.From, req.To, outcomeSuccess, elapsed)
	return result, nil
}

// run executes stages one through seven inside the store transaction.
func (e *Executor) run(ctx context.Context, tc *Context) (Result, error) {
	req := tc.Request

	// Validate. Force bypasses the edge and rule checks but never state
	// name resolution.
	toDef, ok := e.registry.Resolve(req.To)
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrInvalidState, req.To)
	}
	tc.ToDef = toDef

	if req.From != "" {
		fromDef, ok := e.registry.Resolve(req.From)
		if !ok {
			return Result{}, fmt.Errorf("%w: %q", ErrInvalidState, req.From)
		}
		tc.FromDef = fromDef
	}

	if !req.Force {
		allowed := e.registry.IsAllowed(req.From, req.To) ||
			(e.config.AllowSameState && req.From == req.To)
		if !allowed {
			return Result{}, fmt.Errorf("%w: %s -> %s", ErrTransitionNotAllowed, req.From, req.To)
		}

		if e.rules != nil && e.rules.Len() > 0 {
			verrs, err := e.rules.Validate(ctx, e.ruleEnv(req))
			if err != nil {
				return Result{}, errors.Join(ErrValidationFailed, err)
			}
			if len(verrs) > 0 {
				return Result{}, errors.Join(ErrValidationFailed, verrs)
			}
		}
	}
	tc.Mark(StageValidating)

	// Authorize. A nil performer is a system transition and always passes.
	if e.config.PermissionEnabled && e.checker != nil && req.Performer != nil {
		if !e.checker.CanTransition(ctx, req.Entity, tc.FromDef, tc.ToDef, req.Performer) {
			reason := e.checker.DenialReason(ctx, req.Entity, tc.FromDef, tc.ToDef, req.Performer)
			return Result{}, fmt.Errorf("%w: %s", ErrUnauthorized, reason)
		}
	}
	tc.Mark(StageAuthorizing)

	// Pre-event, cancelable.
	if e.eventsOn(req) {
		pending := e.eventFor(events.TransitionPending, tc, "", "", nil)
		e.dispatcher.Publish(ctx, pending)
		if pending.Cancelled() {
			reason := pending.CancelReason()
			if reason == "" {
				reason = e.config.DefaultCancelReason
			}
			return Result{}, fmt.Errorf("%w: %s", ErrCancelledByListener, reason)
		}
	}
	tc.Mark(StagePreEvent)

	handler := e.handlerFor(req.From, req.To)

	// Before-hook.
	if handler != nil {
		proceed, err := e.callBefore(ctx, handler, tc)
		if err != nil {
			return Result{}, err
		}
		if !proceed {
			return Result{}, fmt.Errorf("%w: %s -> %s", ErrAbortedByHook, req.From, req.To)
		}
	}
	tc.Mark(StageBeforeHook)

	// Mutate. The only stage with an observable side effect on the entity.
	if err := e.mutate(ctx, handler, tc); err != nil {
		return Result{}, err
	}
	tc.Mark(StageMutating)

	result := Result{
		Succeeded: true,
		FromState: req.From,
		ToState:   req.To,
		Entity:    req.Entity,
		Metadata:  req.Metadata,
	}

	// After-hook observes the outcome and cannot fail the transition.
	if handler != nil {
		e.callAfter(ctx, handler, tc, result)
	}
	tc.Mark(StageAfterHook)

	// History before the completed event so the event can carry the record
	// id. A history failure here rolls the mutation back with it.
	if e.config.HistoryEnabled && e.recorder != nil {
		id, err := e.recorder.Record(ctx, e.historyEntry(req))
		if err != nil {
			return Result{}, err
		}
		result.HistoryRecordID = id
	}
	tc.Mark(StageSuccessHooks)

	if e.eventsOn(req) {
		e.dispatcher.Publish(ctx, e.eventFor(events.TransitionCompleted, tc, result.HistoryRecordID, "", nil))
	}
	tc.Mark(StagePostEvent)

	return result, nil
}

// recordFailure emits the failure-side history record and event. Both are
// best effort: their own failures are logged and never mask the original
// error. Forced requests skip failure bookkeeping entirely.
func (e *Executor) recordFailure(ctx context.Context, tc *Context, result Result, cause error) {
	req := tc.Request
	if req.Force {
		return
	}

	tc.Mark(StageFailureHooks)

	var historyID string
	if e.config.FailureHistoryEnabled && e.recorder != nil {
		id, err := e.recorder.RecordFailure(ctx, e.historyEntry(req), result.ErrorCode)
		if err != nil {
			e.log.WarnContext(ctx, "failed to record failed transition",
				logger.Entity(req.Entity.EntityType(), req.Entity.EntityID()),
				logger.FromState(req.From),
				logger.ToState(req.To),
				logger.Error(err),
			)
		} else {
			historyID = id
		}
	}

	if e.eventsOn(req) {
		e.dispatcher.Publish(ctx, e.eventFor(events.TransitionFailed, tc, historyID, result.ErrorCode, cause))
	}
	tc.Mark(StagePostEvent)
}

// handlerFor resolves the edge's handler: an executor-registered edge
// handler wins over a handler name declared on the registry edge.
func (e *Executor) handlerFor(from, to string) Handler {
	if h, ok := e.edgeHandlers[edgeKey{from: from, to: to}]; ok {
		return h
	}
	if name, ok := e.registry.HandlerFor(from, to); ok {
		if h, ok := e.handlers[name]; ok {
			return h
		}
	}
	return nil
}

// callBefore shields the pipeline from handler panics, surfacing them as
// action failures that keep the message but not the panic value's type.
func (e *Executor) callBefore(ctx context.Context, h Handler, tc *Context) (proceed bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			proceed = false
			err = fmt.Errorf("%w: %v", ErrActionFailed, r)
		}
	}()

	proceed, hookErr := h.Before(ctx, tc)
	if hookErr != nil {
		return false, fmt.Errorf("%w: %s", ErrActionFailed, hookErr.Error())
	}
	return proceed, nil
}

func (e *Executor) callAfter(ctx context.Context, h Handler, tc *Context, result Result) {
	defer func() {
		if r := recover(); r != nil {
			e.log.WarnContext(ctx, "after hook panicked",
				logger.Entity(tc.Request.Entity.EntityType(), tc.Request.Entity.EntityID()),
				slog.Any("error", r),
			)
		}
	}()
	h.After(ctx, tc, result)
}

func (e *Executor) mutate(ctx context.Context, h Handler, tc *Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrActionFailed, r)
		}
	}()

	req := tc.Request
	if applier, ok := h.(Applier); ok {
		if applyErr := applier.Apply(ctx, tc, e.store); applyErr != nil {
			return fmt.Errorf("%w: %s", ErrActionFailed, applyErr.Error())
		}
		return nil
	}

	req.Entity.SetStateName(req.Field, req.To)
	return e.store.Save(ctx, req.Entity)
}

func (e *Executor) eventsOn(req Request) bool {
	return e.config.EventsEnabled && e.dispatcher != nil && !req.Silent
}

func (e *Executor) eventFor(name string, tc *Context, historyID, errorCode string, cause error) *events.Event {
	req := tc.Request
	ev := &events.Event{
		Name:            name,
		EntityType:      req.Entity.EntityType(),
		EntityID:        req.Entity.EntityID(),
		Field:           req.Field,
		FromState:       req.From,
		ToState:         req.To,
		Reason:          req.Reason,
		Metadata:        req.Metadata,
		Trace:           tc.Trace(),
		HistoryRecordID: historyID,
		ErrorCode:       errorCode,
		Err:             cause,
	}
	if req.Performer != nil {
		ev.PerformerID = req.Performer.PerformerID()
	}
	return ev
}

func (e *Executor) historyEntry(req Request) history.Entry {
	entry := history.Entry{
		EntityType: req.Entity.EntityType(),
		EntityID:   req.Entity.EntityID(),
		Field:      req.Field,
		FromState:  req.From,
		ToState:    req.To,
		Reason:     req.Reason,
		Metadata:   req.Metadata,
	}
	if req.Performer != nil {
		id := req.Performer.PerformerID()
		entry.PerformerID = &id
	}
	return entry
}

func (e *Executor) ruleEnv(req Request) rules.Env {
	env := rules.Env{
		EntityType: req.Entity.EntityType(),
		EntityID:   req.Entity.EntityID(),
		Field:      req.Field,
		From:       req.From,
		To:         req.To,
		Metadata:   req.Metadata,
	}
	if req.Performer != nil {
		env.PerformerID = req.Performer.PerformerID()
	}
	return env
}
