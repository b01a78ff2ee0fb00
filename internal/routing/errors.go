package routing

import (
	"errors"
	"fmt"
)

// ErrNoSolution is returned by a Solver when no assignment satisfies the
// model within the search budget.
var ErrNoSolution = errors.New("routing: no solution found")

// ValidationError reports malformed problem input. It is a client error.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

// Invalid builds a ValidationError for field.
func Invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Msg: fmt.Sprintf(format, args...)}
}

// ConfigurationError reports an inconsistency while building the index space.
// Input that passed validation never produces one.
type ConfigurationError struct {
	Msg string
}

func (e *ConfigurationError) Error() string { return "routing configuration: " + e.Msg }

// InfeasibleError reports that the solver found no assignment.
type InfeasibleError struct {
	Reason string
	Err    error
}

func (e *InfeasibleError) Error() string {
	if e.Reason == "" {
		return "no solution found"
	}
	return "no solution found: " + e.Reason
}

func (e *InfeasibleError) Unwrap() error { return e.Err }
