package idregistry

import (
	"context"
	"fmt"
	"time"

	"github.com/randalmurphal/idregistry/pkg/idregistry/config"
	"github.com/randalmurphal/idregistry/pkg/idregistry/observability"
	"github.com/randalmurphal/idregistry/pkg/idregistry/store"
)

// Load sources reported in logs, metrics and spans.
const (
	SourceStore  = "store"
	SourceConfig = "config"
)

// Store drivers accepted by FromConfig.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// Open creates a registry populated from st. Later registrations are
// saved to st, and Close closes it.
func Open(ctx context.Context, st store.Store, opts ...Option) (*Registry, error) {
	r := New(opts...)

	ctx, span := r.spans.StartLoadSpan(ctx, r.instanceID, SourceStore)
	start := time.Now()

	records, err := st.List()
	if err != nil {
		err = fmt.Errorf("load from store: %w", err)
		r.spans.EndSpanWithError(span, err)
		return nil, err
	}

	for _, rec := range records {
		if rec.Label == "" {
			err := &RegisterError{ID: ID(rec.ID), Err: ErrEmptyLabel}
			r.spans.EndSpanWithError(span, err)
			return nil, fmt.Errorf("load from store: %w", err)
		}
		r.entries[ID(rec.ID)] = Label(rec.Label)
	}
	r.store = st

	elapsed := time.Since(start)
	r.metrics.RecordLoad(ctx, SourceStore, len(records), elapsed)
	observability.LogLoaded(r.logger, SourceStore, len(records), elapsed)
	r.spans.EndSpanWithError(span, nil)
	return r, nil
}

// FromConfig opens the store described by the "store" section of cfg and
// registers the seed "entries" on top of what the store already holds.
//
// Recognized keys:
//
//	store:
//	  driver: memory | sqlite   (default memory)
//	  path: labels.db           (required for sqlite)
//	  wal: true                 (sqlite journal mode, default true)
//	  busy_timeout_ms: 5000     (sqlite lock wait)
//	  cache_ttl: 10m            (optional read-through cache)
//	entries:
//	  - id: 1
//	    label: temp-sensor
func FromConfig(ctx context.Context, cfg config.Config, opts ...Option) (*Registry, error) {
	seed, err := cfg.Seed("entries")
	if err != nil {
		return nil, fmt.Errorf("parse seed entries: %w", err)
	}

	st, err := openStore(cfg.Section("store"))
	if err != nil {
		return nil, err
	}

	r, err := Open(ctx, st, opts...)
	if err != nil {
		st.Close()
		return nil, err
	}

	if err := r.seed(ctx, seed); err != nil {
		r.Close()
		return nil, err
	}
	return r, nil
}

func openStore(cfg config.Config) (store.Store, error) {
	var st store.Store

	switch driver := cfg.String("driver", DriverMemory); driver {
	case DriverMemory:
		st = store.NewMemoryStore()
	case DriverSQLite:
		path := cfg.String("path", "")
		if path == "" {
			return nil, fmt.Errorf("store.path is required for driver %q", DriverSQLite)
		}
		s, err := store.NewSQLiteStore(path,
			store.WithWAL(cfg.Bool("wal", true)),
			store.WithBusyTimeout(time.Duration(cfg.Int64("busy_timeout_ms", store.DefaultBusyTimeout.Milliseconds()))*time.Millisecond),
		)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		st = s
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}

	if ttl := cfg.Duration("cache_ttl", 0); ttl > 0 {
		st = store.NewCachedStore(st, ttl)
	}
	return st, nil
}

// seed registers config entries; a later duplicate id wins.
func (r *Registry) seed(ctx context.Context, seed []config.SeedEntry) error {
	if len(seed) == 0 {
		return nil
	}

	ctx, span := r.spans.StartLoadSpan(ctx, r.instanceID, SourceConfig)
	start := time.Now()

	entries := make(map[ID]Label, len(seed))
	for _, e := range seed {
		entries[ID(e.ID)] = Label(e.Label)
	}
	if err := r.RegisterMany(entries); err != nil {
		err = fmt.Errorf("register seed entries: %w", err)
		r.spans.EndSpanWithError(span, err)
		return err
	}

	elapsed := time.Since(start)
	r.metrics.RecordLoad(ctx, SourceConfig, len(entries), elapsed)
	observability.LogLoaded(r.logger, SourceConfig, len(entries), elapsed)
	r.spans.EndSpanWithError(span, nil)
	return nil
}
