package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks malformed or missing input.
	ErrValidation = errors.New("validation failed")
	// ErrConflict marks a uniqueness violation.
	ErrConflict = errors.New("conflict")
	// ErrNotFound is returned by lookups that match nothing.
	ErrNotFound = errors.New("not found")
)

// ValidationError describes a rejected input field.
type ValidationError struct {
	Field   string
	Message string
}

func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// ConflictError describes a uniqueness violation.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// ErrEmailTaken is returned when a user with the same email exists.
var ErrEmailTaken = &ConflictError{Message: "User already exists"}
