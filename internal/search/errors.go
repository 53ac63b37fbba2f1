package search

import (
	"errors"
	"fmt"
)

// Errors returned by search operations.
var (
	// ErrEmptyPattern indicates an empty search pattern.
	ErrEmptyPattern = errors.New("search pattern is empty")

	// ErrSessionClosed indicates an operation on a closed session.
	ErrSessionClosed = errors.New("search session is closed")
)

// PatternError reports a search pattern that cannot be compiled. It marks bad
// user input, as opposed to internal faults.
type PatternError struct {
	Pattern string
	Err     error
}

// Error implements error.
func (e *PatternError) Error() string {
	if errors.Is(e.Err, ErrEmptyPattern) {
		return e.Err.Error()
	}
	return fmt.Sprintf("invalid search pattern %q: %v", e.Pattern, e.Err)
}

// Unwrap returns the underlying compile error.
func (e *PatternError) Unwrap() error {
	return e.Err
}
