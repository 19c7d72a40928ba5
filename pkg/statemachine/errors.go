package statemachine

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration wraps every configuration-time registration failure.
	ErrConfiguration = errors.New("invalid state machine configuration")

	// ErrBlankStateName indicates a state was registered without a name.
	ErrBlankStateName = errors.New("state name cannot be blank")

	// ErrEdgeIncomplete indicates a transition pair is missing its from or to state.
	ErrEdgeIncomplete = errors.New("transition edge requires both from and to states")
)

// ErrStateRedeclared indicates a state name was registered again with a
// materially different definition.
type ErrStateRedeclared struct {
	StateName string
}

func (e *ErrStateRedeclared) Error() string {
	return fmt.Sprintf("state '%s' is already registered with a different definition", e.StateName)
}

func NewErrStateRedeclared(stateName string) *ErrStateRedeclared {
	return &ErrStateRedeclared{StateName: stateName}
}

// ErrDefinitionRejected indicates a definition failed the registry's
// definition check and cannot be registered.
type ErrDefinitionRejected struct {
	StateName string
	Cause     error
}

func (e *ErrDefinitionRejected) Error() string {
	return fmt.Sprintf("state '%s' rejected by definition check: %v", e.StateName, e.Cause)
}

func (e *ErrDefinitionRejected) Unwrap() error {
	return e.Cause
}

func NewErrDefinitionRejected(stateName string, cause error) *ErrDefinitionRejected {
	return &ErrDefinitionRejected{StateName: stateName, Cause: cause}
}

func IsStateRedeclaredError(err error) bool {
	var e *ErrStateRedeclared
	return errors.As(err, &e)
}

func IsDefinitionRejectedError(err error) bool {
	var e *ErrDefinitionRejected
	return errors.As(err, &e)
}

// IsConfigurationError reports whether err originated from configuration-time
// registration rather than runtime resolution.
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

func configErr(err error) error {
	return errors.Join(ErrConfiguration, err)
}
