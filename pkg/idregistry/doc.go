// Package idregistry maps numeric identifiers to display labels.
//
// A Registry starts empty and answers point lookups by ID. A lookup for an
// unknown ID reports "not found" rather than a default label:
//
//	r := idregistry.New()
//	_ = r.Register(1, "temp-sensor")
//
//	label, ok := r.GetByID(1) // "temp-sensor", true
//	_, ok = r.GetByID(3)      // "", false
//
// Registering an ID that already has a label replaces it. Empty labels are
// rejected, so a present ID always has a real label.
//
// # Persistence
//
// Open populates a registry from a store.Store and saves every later
// registration to it. Lookups of ids missing from memory read through to
// the store, so labels saved by another process show up; set
// store.cache_ttl to put a go-cache read cache in front of it. FromConfig builds the store from a config file and
// applies seed entries:
//
//	cfg, err := config.FromFile("registry.yaml")
//	if err != nil {
//	    return err
//	}
//	r, err := idregistry.FromConfig(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer r.Close()
//
// # Observability
//
// Logging, metrics and tracing are off by default. Enable them with
// WithLogger, WithMetrics and WithSpanManager.
//
// # Thread Safety
//
// All Registry methods are safe for concurrent use. Lookups take a read
// lock; registrations take the write lock.
package idregistry
