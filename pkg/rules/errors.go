package rules

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrInvalidExpression indicates an expression rule failed to compile.
	ErrInvalidExpression = errors.New("invalid rule expression")

	// ErrEvaluationFailed indicates a rule errored while evaluating.
	ErrEvaluationFailed = errors.New("rule evaluation failed")
)

// ValidationErrors maps a metadata field to the messages of every rule it
// violated. It implements error so it can travel wrapped inside the
// executor's validation failure.
type ValidationErrors map[string][]string

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}

	fields := make([]string, 0, len(ve))
	for field := range ve {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(ve[field], ", ")))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records a violation message against a field.
func (ve ValidationErrors) Add(field, message string) {
	ve[field] = append(ve[field], message)
}

// Has reports whether the field has any violation recorded.
func (ve ValidationErrors) Has(field string) bool {
	_, ok := ve[field]
	return ok
}

// Fields returns the violated fields in sorted order.
func (ve ValidationErrors) Fields() []string {
	fields := make([]string, 0, len(ve))
	for field := range ve {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}

// AsValidationErrors extracts a ValidationErrors map from an error chain.
func AsValidationErrors(err error) (ValidationErrors, bool) {
	var ve ValidationErrors
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
