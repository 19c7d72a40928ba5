package transition

import "errors"

var (
	// ErrInvalidState indicates an unknown from or to state name
	ErrInvalidState = errors.New("state is not registered")

	// ErrTransitionNotAllowed indicates no edge permits the transition
	ErrTransitionNotAllowed = errors.New("transition is not allowed")

	// ErrValidationFailed indicates field-level validation rules rejected
	// the request
	ErrValidationFailed = errors.New("transition validation failed")

	// ErrUnauthorized indicates the permission checker denied the performer
	ErrUnauthorized = errors.New("performer is not authorized")

	// ErrCancelledByListener indicates a pre-event listener vetoed the
	// transition
	ErrCancelledByListener = errors.New("transition cancelled by listener")

	// ErrAbortedByHook indicates the handler's before hook vetoed the
	// transition
	ErrAbortedByHook = errors.New("transition aborted by hook")

	// ErrActionFailed wraps an unexpected failure inside custom handler code
	ErrActionFailed = errors.New("transition action failed")
)

// Error codes attached to failed results, history records, and events.
const (
	CodeInvalidState        = "invalid_state"
	CodeNotAllowed          = "transition_not_allowed"
	CodeValidationFailed    = "validation_failed"
	CodeUnauthorized        = "unauthorized"
	CodeCancelledByListener = "cancelled_by_listener"
	CodeAbortedByHook       = "aborted_by_hook"
	CodeActionFailed        = "action_failed"
)

// CodeOf maps a pipeline error to its stable error code. Unknown errors map
// to the action-failed code.
func CodeOf(err error) string {
	switch {
	case errors.Is(err, ErrInvalidState):
		return CodeInvalidState
	case errors.Is(err, ErrTransitionNotAllowed):
		return CodeNotAllowed
	case errors.Is(err, ErrValidationFailed):
		return CodeValidationFailed
	case errors.Is(err, ErrUnauthorized):
		return CodeUnauthorized
	case errors.Is(err, ErrCancelledByListener):
		return CodeCancelledByListener
	case errors.Is(err, ErrAbortedByHook):
		return CodeAbortedByHook
	default:
		return CodeActionFailed
	}
}
