package models

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by every lookup whose key has no row.
	ErrNotFound = errors.New("not found")

	// ErrForbidden is returned when the caller does not own the row
	// it is trying to mutate.
	ErrForbidden = errors.New("forbidden")
)

// ValidationError rejects a write before any row is touched.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Reason)
}

func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
