package idregistry

import (
	"cmp"
	"context"
	"errors"
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/randalmurphal/idregistry/pkg/idregistry/observability"
	"github.com/randalmurphal/idregistry/pkg/idregistry/store"
)

// ID is the numeric key that addresses an entry.
type ID int64

// String returns the decimal form of the id.
func (id ID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// ParseID parses a decimal id.
func ParseID(s string) (ID, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return ID(n), nil
}

// Label is the display value associated with an ID.
type Label string

// Entry is a single id/label association.
type Entry struct {
	ID    ID
	Label Label
}

// Registry maps IDs to Labels.
// All methods are safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries map[ID]Label
	store   store.Store
	closed  bool

	instanceID string
	logger     *slog.Logger
	metrics    observability.MetricsRecorder
	spans      observability.SpanManager
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	instanceID := uuid.NewString()
	return &Registry{
		entries:    make(map[ID]Label),
		instanceID: instanceID,
		logger:     observability.EnrichLogger(o.logger, instanceID),
		metrics:    o.metrics,
		spans:      o.spans,
	}
}

// InstanceID returns the unique id of this registry instance, as it
// appears in logs and spans.
func (r *Registry) InstanceID() string {
	return r.instanceID
}

// GetByID returns the label for id and whether it was found.
// A missing id yields the empty Label and false.
//
// Ids absent from memory are read through the attached store, so labels
// saved by another writer after Open are visible. Store reads are not
// copied into memory; put a CachedStore in front of a slow store.
func (r *Registry) GetByID(id ID) (Label, bool) {
	return r.get(context.Background(), id)
}

// Lookup is GetByID with tracing. It returns a *LookupError wrapping
// ErrNotFound when id has no label.
func (r *Registry) Lookup(ctx context.Context, id ID) (Label, error) {
	ctx, span := r.spans.StartLookupSpan(ctx, r.instanceID, int64(id))

	label, ok := r.get(ctx, id)
	if !ok {
		err := &LookupError{ID: id, Err: ErrNotFound}
		r.spans.EndSpanWithError(span, err)
		return "", err
	}
	r.spans.EndSpanWithError(span, nil)
	return label, nil
}

func (r *Registry) get(ctx context.Context, id ID) (Label, bool) {
	label, ok := r.find(ctx, id)

	r.metrics.RecordLookup(ctx, ok)
	if !ok {
		observability.LogLookupMiss(r.logger, int64(id))
	}
	return label, ok
}

// find checks memory first, then the store while the registry is open.
func (r *Registry) find(ctx context.Context, id ID) (Label, bool) {
	r.mu.RLock()
	label, ok := r.entries[id]
	st := r.store
	if r.closed {
		st = nil
	}
	r.mu.RUnlock()

	if ok || st == nil {
		return label, ok
	}

	stored, err := st.Load(int64(id))
	switch {
	case err == nil && stored != "":
		observability.AddSpanEvent(ctx, "store.read_through", attribute.Int64("id", int64(id)))
		return Label(stored), true
	case err != nil && !errors.Is(err, store.ErrNotFound) && !errors.Is(err, store.ErrStoreClosed):
		observability.LogStoreError(r.logger, "load", int64(id), err)
	}
	return "", false
}

// Register associates label with id, replacing any previous label.
// When the registry is backed by a store the label is saved there first;
// a failed save leaves the registry unchanged. After Close it returns
// ErrClosed unwrapped, as RegisterMany does.
func (r *Registry) Register(id ID, label Label) error {
	if label == "" {
		return &RegisterError{ID: id, Err: ErrEmptyLabel}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrClosed
	}
	return r.registerLocked(id, label)
}

// RegisterMany registers every entry, in ascending id order.
// Empty labels are rejected before anything is applied. If the store fails
// part way, entries saved before the failure stay registered.
func (r *Registry) RegisterMany(entries map[ID]Label) error {
	for id, label := range entries {
		if label == "" {
			return &RegisterError{ID: id, Err: ErrEmptyLabel}
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrClosed
	}
	for _, id := range slices.Sorted(maps.Keys(entries)) {
		if err := r.registerLocked(id, entries[id]); err != nil {
			return err
		}
	}
	return nil
}

// registerLocked must be called with r.mu held for writing.
func (r *Registry) registerLocked(id ID, label Label) error {
	if r.store != nil {
		if err := r.store.Save(int64(id), string(label)); err != nil {
			observability.LogStoreError(r.logger, "save", int64(id), err)
			return &RegisterError{ID: id, Err: err}
		}
	}

	_, replaced := r.entries[id]
	r.entries[id] = label

	r.metrics.RecordRegister(context.Background(), replaced)
	observability.LogRegister(r.logger, int64(id), string(label), replaced)
	return nil
}

// Has returns true if id has a label, consulting the store like GetByID
// does but without recording a lookup.
func (r *Registry) Has(id ID) bool {
	_, ok := r.find(context.Background(), id)
	return ok
}

// Len returns the number of entries held in memory: those loaded at Open
// and those registered since.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// IDs returns all registered ids in ascending order.
func (r *Registry) IDs() []ID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.entries))
}

// Entries returns a snapshot of all entries ordered by id.
func (r *Registry) Entries() []Entry {
	r.mu.RLock()
	out := make([]Entry, 0, len(r.entries))
	for id, label := range r.entries {
		out = append(out, Entry{ID: id, Label: label})
	}
	r.mu.RUnlock()

	slices.SortFunc(out, func(a, b Entry) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

// Range calls fn for each entry until fn returns false.
//
// Range iterates over a snapshot, so fn may call Register without
// affecting the current iteration. Order is unspecified.
func (r *Registry) Range(fn func(ID, Label) bool) {
	r.mu.RLock()
	snapshot := maps.Clone(r.entries)
	r.mu.RUnlock()

	for id, label := range snapshot {
		if !fn(id, label) {
			return
		}
	}
}

// Close releases the backing store, if any. Lookups keep working on the
// in-memory entries; Register and RegisterMany return ErrClosed.
// Close is idempotent.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true
	if r.store != nil {
		return r.store.Close()
	}
	return nil
}
