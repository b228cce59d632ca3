package activity

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation indicates a malformed envelope; nothing was written.
	ErrValidation = errors.New("invalid activity envelope")
	// ErrStorage indicates the activity store could not be read or written.
	ErrStorage = errors.New("activity storage unavailable")
	// ErrEntryNotFound indicates the entry doesn't exist.
	ErrEntryNotFound = errors.New("activity entry not found")
)

// ValidationError describes which envelope field was rejected.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrValidation, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func missing(field string) error {
	return &ValidationError{Field: field, Reason: "is required"}
}

func unknown(field, value string) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf("has unknown value %q", value)}
}
