// Package storage provides the key-value persistence layer for spendcraft.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Validation and lookup errors.
var (
	ErrNilContext       = errors.New("context cannot be nil")
	ErrEmptyString      = errors.New("string parameter cannot be empty")
	ErrKeyNotFound      = errors.New("key not found")
	ErrSnapshotNotFound = errors.New("snapshot not found")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}
