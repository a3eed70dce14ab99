// Package apperr holds the error categories shared by the decision engine.
//
// Every error returned by the hierarchy, judgment, scoring and decision
// packages matches exactly one category via errors.Is, so callers (the HTTP
// layer in particular) can map failures without knowing the concrete type.
package apperr

import (
	"errors"
	"fmt"
)

// Categories.
var (
	// ErrValidation marks malformed structural edits or judgment input.
	// No mutation has happened when it is returned.
	ErrValidation = errors.New("validation error")

	// ErrNotFound marks a reference to a node or group that does not exist.
	// It is a validation error as well.
	ErrNotFound = fmt.Errorf("%w: not found", ErrValidation)

	// ErrNumeric marks a priority computation that did not converge or was
	// handed a non-positive matrix.
	ErrNumeric = errors.New("numeric error")

	// ErrUnsupportedSize marks a sibling group larger than the random index table.
	ErrUnsupportedSize = errors.New("unsupported size")

	// ErrIncompleteData marks an aggregation attempted before every group was judged.
	ErrIncompleteData = errors.New("incomplete data")
)

// Validation returns a validation error with a formatted detail message.
func Validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// NotFound returns a not-found error with a formatted detail message.
func NotFound(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}
