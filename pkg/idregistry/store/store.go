// Package store provides persistent storage for registry entries.
package store

import (
	"errors"
	"time"
)

// Store persists id/label associations.
// Implementations must be safe for concurrent use.
type Store interface {
	// Save stores the label for an id.
	// Overwrites if the id already exists.
	Save(id int64, label string) error

	// Load retrieves the label for an id.
	// Returns ErrNotFound if the id doesn't exist.
	Load(id int64) (string, error)

	// List returns all records, ordered by id.
	// Returns empty slice (not error) if the store is empty.
	List() ([]Record, error)

	// Close releases any resources (connections, files).
	Close() error
}

// Record is a single stored association.
type Record struct {
	ID        int64
	Label     string
	UpdatedAt time.Time
}

// Sentinel errors for store operations.
var (
	// ErrNotFound indicates an id has no stored label.
	ErrNotFound = errors.New("record not found")

	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("store closed")
)
