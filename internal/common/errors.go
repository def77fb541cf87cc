// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Error taxonomy. Every failure in spendcraft wraps one of these so callers
// can branch with errors.Is.
var (
	// ErrValidation marks user input that was rejected without a state change.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks an operation that referenced an unknown id.
	ErrNotFound = errors.New("not found")
	// ErrParse marks a corrupt blob or a malformed import row.
	ErrParse = errors.New("parse failed")
	// ErrStorage marks a failed read or write of the key-value store.
	ErrStorage = errors.New("storage failed")

	// ErrMissingConfig and ErrInvalidConfig report configuration problems.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// ValidationError describes which field of a user entry was rejected.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError creates a ValidationError for field.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// ParseError locates a parse failure inside an import source.
// Line is 1-based; zero means the whole source.
type ParseError struct {
	Err    error
	Source string
	Line   int
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s line %d: %v", e.Source, e.Line, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() []error {
	return []error{ErrParse, e.Err}
}

// StorageError wraps err as a storage failure while keeping it inspectable.
func StorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
}

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}
