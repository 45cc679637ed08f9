package idregistry

import (
	"errors"
	"fmt"
)

// Sentinel errors for registry operations.
var (
	// ErrNotFound indicates no label is registered for an id.
	ErrNotFound = errors.New("label not found")

	// ErrEmptyLabel indicates an attempt to register an empty label.
	ErrEmptyLabel = errors.New("label must not be empty")

	// ErrClosed indicates the registry has been closed.
	ErrClosed = errors.New("registry closed")

	// ErrUnknownDriver indicates the configured store driver is not supported.
	ErrUnknownDriver = errors.New("unknown store driver")
)

// LookupError reports a failed lookup for a specific id.
type LookupError struct {
	ID  ID
	Err error
}

// Error implements the error interface.
func (e *LookupError) Error() string {
	return fmt.Sprintf("id %d: %v", e.ID, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *LookupError) Unwrap() error {
	return e.Err
}

// RegisterError reports a failed registration for a specific id.
type RegisterError struct {
	ID  ID
	Err error
}

// Error implements the error interface.
func (e *RegisterError) Error() string {
	return fmt.Sprintf("register id %d: %v", e.ID, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *RegisterError) Unwrap() error {
	return e.Err
}
