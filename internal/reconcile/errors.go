package reconcile

import (
	"errors"
	"fmt"
)

// ErrInvalidInput indicates that a reconciliation request was malformed.
var ErrInvalidInput = errors.New("invalid input")

// ValidationError describes which argument of a reconciliation request was rejected.
type ValidationError struct {
	Field   string
	Value   string
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s %q: %s", e.Field, e.Value, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

func newValidationError(field, value, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}
