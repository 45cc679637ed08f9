package store

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// DefaultBusyTimeout is the lock wait used when WithBusyTimeout is not given.
const DefaultBusyTimeout = 5 * time.Second

// SQLiteStore persists records to SQLite.
// It is suitable for single-process production use.
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
}

// SQLiteOption configures a SQLiteStore.
type SQLiteOption func(*sqliteOptions)

type sqliteOptions struct {
	wal         bool
	busyTimeout time.Duration
}

// WithWAL selects write-ahead logging (the default) or a rollback journal.
func WithWAL(enabled bool) SQLiteOption {
	return func(o *sqliteOptions) {
		o.wal = enabled
	}
}

// WithBusyTimeout sets how long a write waits on a database locked by
// another connection before failing. Zero fails immediately.
func WithBusyTimeout(d time.Duration) SQLiteOption {
	return func(o *sqliteOptions) {
		if d >= 0 {
			o.busyTimeout = d
		}
	}
}

// NewSQLiteStore creates a new SQLite store.
// The path should be a file path (e.g., "./labels.db") or ":memory:" for testing.
func NewSQLiteStore(path string, opts ...SQLiteOption) (*SQLiteStore, error) {
	o := sqliteOptions{wal: true, busyTimeout: DefaultBusyTimeout}
	for _, opt := range opts {
		opt(&o)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// A :memory: database lives per connection.
	db.SetMaxOpenConns(1)

	journal := "DELETE"
	if o.wal {
		journal = "WAL"
	}
	if _, err := db.Exec("PRAGMA journal_mode=" + journal); err != nil {
		db.Close()
		return nil, fmt.Errorf("set journal mode %s: %w", journal, err)
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d", o.busyTimeout.Milliseconds())); err != nil {
		db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS labels (
			id INTEGER PRIMARY KEY,
			label TEXT NOT NULL CHECK (label <> ''),
			updated_at TEXT NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Save implements Store.
func (s *SQLiteStore) Save(id int64, label string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	_, err := s.db.Exec(`
		INSERT INTO labels (id, label, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			label = excluded.label,
			updated_at = excluded.updated_at
	`, id, label, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("save label %d: %w", id, err)
	}
	return nil
}

// Load implements Store.
func (s *SQLiteStore) Load(id int64) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return "", ErrStoreClosed
	}

	var label string
	err := s.db.QueryRow(`SELECT label FROM labels WHERE id = ?`, id).Scan(&label)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("load label %d: %w", id, err)
	}
	return label, nil
}

// List implements Store.
func (s *SQLiteStore) List() ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	rows, err := s.db.Query(`SELECT id, label, updated_at FROM labels ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list labels: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var updatedAt string
		if err := rows.Scan(&rec.ID, &rec.Label, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan label: %w", err)
		}
		rec.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt)
		if err != nil {
			return nil, fmt.Errorf("parse updated_at for label %d: %w", rec.ID, err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate labels: %w", err)
	}
	return records, nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true
	return s.db.Close()
}
