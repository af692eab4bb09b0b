package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when creating an entity whose identifier is taken.
	ErrConflict = errors.New("already exists")
	// ErrInvalidCredentials covers bad logins and missing, invalid or expired tokens alike.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrValidation marks malformed or out-of-range input.
	ErrValidation = errors.New("validation failed")
)

// ValidationError describes a rejected input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Invalid builds a ValidationError.
func Invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
