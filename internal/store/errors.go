package store

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrStoreUnavailable is returned when the snapshot file cannot be opened
	ErrStoreUnavailable = errors.New("snapshot store unavailable")

	// ErrUnknownTable is returned when introspecting a table that does not exist
	ErrUnknownTable = errors.New("unknown table")

	// ErrCorruptSnapshot is returned when the snapshot opens but its
	// provenance table cannot be read
	ErrCorruptSnapshot = errors.New("corrupt snapshot")

	// ErrStoreClosed is returned when using a store after Close
	ErrStoreClosed = errors.New("store is closed")
)

// StoreError wraps errors with operation context
type StoreError struct {
	Op  string // Operation name
	Err error  // Underlying error
}

func (e *StoreError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("store: %v", e.Err)
	}
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func (e *StoreError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// wrapError wraps an error with operation context
func wrapError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}
