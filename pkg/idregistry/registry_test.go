package idregistry

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/idregistry/pkg/idregistry/store"
)

func TestNew(t *testing.T) {
	r := New()
	require.NotNil(t, r)
	assert.Equal(t, 0, r.Len())
	assert.NotEmpty(t, r.InstanceID())
	assert.NotEqual(t, r.InstanceID(), New().InstanceID())
}

func TestGetByID_Empty(t *testing.T) {
	r := New()

	label, ok := r.GetByID(42)
	assert.False(t, ok)
	assert.Equal(t, Label(""), label)
}

func TestGetByID_SensorScenario(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(1, "temp-sensor"))
	require.NoError(t, r.Register(2, "humidity-sensor"))

	label, ok := r.GetByID(1)
	assert.True(t, ok)
	assert.Equal(t, Label("temp-sensor"), label)

	_, ok = r.GetByID(3)
	assert.False(t, ok)
}

func TestRegisterOverwrite(t *testing.T) {
	r := New()

	require.NoError(t, r.Register(7, "old"))
	require.NoError(t, r.Register(7, "new"))

	label, ok := r.GetByID(7)
	assert.True(t, ok)
	assert.Equal(t, Label("new"), label)
	assert.Equal(t, 1, r.Len())
}

func TestRegisterEmptyLabel(t *testing.T) {
	r := New()

	err := r.Register(1, "")
	assert.ErrorIs(t, err, ErrEmptyLabel)

	var regErr *RegisterError
	require.ErrorAs(t, err, &regErr)
	assert.Equal(t, ID(1), regErr.ID)
	assert.False(t, r.Has(1))
}

func TestRegisterMany(t *testing.T) {
	r := New()

	entries := map[ID]Label{1: "one", 2: "two", -3: "minus three"}
	require.NoError(t, r.RegisterMany(entries))
	assert.Equal(t, 3, r.Len())

	for id, want := range entries {
		got, ok := r.GetByID(id)
		assert.True(t, ok)
		assert.Equal(t, want, got)
	}
}

func TestRegisterManyRejectsEmptyLabelAtomically(t *testing.T) {
	r := New()

	err := r.RegisterMany(map[ID]Label{1: "one", 2: ""})
	assert.ErrorIs(t, err, ErrEmptyLabel)
	assert.Equal(t, 0, r.Len())
}

func TestLookup(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(1, "temp-sensor"))

	label, err := r.Lookup(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, Label("temp-sensor"), label)

	_, err = r.Lookup(context.Background(), 9)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.EqualError(t, err, "id 9: label not found")

	var lookupErr *LookupError
	require.ErrorAs(t, err, &lookupErr)
	assert.Equal(t, ID(9), lookupErr.ID)
}

func TestHas(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(0, "zero"))

	assert.True(t, r.Has(0))
	assert.False(t, r.Has(1))
}

func TestIDsAndEntriesSorted(t *testing.T) {
	r := New()
	require.NoError(t, r.RegisterMany(map[ID]Label{30: "c", -1: "a", 2: "b"}))

	assert.Equal(t, []ID{-1, 2, 30}, r.IDs())
	assert.Equal(t, []Entry{{-1, "a"}, {2, "b"}, {30, "c"}}, r.Entries())
}

func TestIDsEmpty(t *testing.T) {
	assert.Empty(t, New().IDs())
	assert.Empty(t, New().Entries())
}

func TestRange(t *testing.T) {
	r := New()
	require.NoError(t, r.RegisterMany(map[ID]Label{1: "one", 2: "two", 3: "three"}))

	visited := make(map[ID]Label)
	r.Range(func(id ID, label Label) bool {
		visited[id] = label
		return true
	})
	assert.Equal(t, map[ID]Label{1: "one", 2: "two", 3: "three"}, visited)
}

func TestRangeEarlyStop(t *testing.T) {
	r := New()
	require.NoError(t, r.RegisterMany(map[ID]Label{1: "one", 2: "two", 3: "three"}))

	count := 0
	r.Range(func(ID, Label) bool {
		count++
		return false
	})
	assert.Equal(t, 1, count)
}

func TestRangeAllowsMutation(t *testing.T) {
	r := New()
	require.NoError(t, r.RegisterMany(map[ID]Label{1: "one", 2: "two"}))

	r.Range(func(id ID, label Label) bool {
		require.NoError(t, r.Register(id+100, label+"-copy"))
		return true
	})

	assert.Equal(t, 4, r.Len())
	label, ok := r.GetByID(101)
	assert.True(t, ok)
	assert.Equal(t, Label("one-copy"), label)
}

func TestParseID(t *testing.T) {
	id, err := ParseID("-42")
	require.NoError(t, err)
	assert.Equal(t, ID(-42), id)
	assert.Equal(t, "-42", id.String())

	_, err = ParseID("forty-two")
	assert.Error(t, err)
}

func TestCloseWithoutStore(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(1, "a"))
	require.NoError(t, r.Close())
	require.NoError(t, r.Close())

	// Both report the closed registry the same way
	assert.Equal(t, ErrClosed, r.Register(2, "b"))
	assert.Equal(t, ErrClosed, r.RegisterMany(map[ID]Label{2: "b"}))

	// Lookups keep serving memory
	label, ok := r.GetByID(1)
	assert.True(t, ok)
	assert.Equal(t, Label("a"), label)
}

// failingStore refuses every save.
type failingStore struct {
	*store.MemoryStore
}

var errDiskFull = errors.New("disk full")

func (failingStore) Save(int64, string) error { return errDiskFull }

func TestRegisterStoreFailureLeavesRegistryUnchanged(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	r, err := Open(context.Background(), failingStore{store.NewMemoryStore()}, WithLogger(logger))
	require.NoError(t, err)
	defer r.Close()

	err = r.Register(1, "a")
	assert.ErrorIs(t, err, errDiskFull)
	assert.False(t, r.Has(1))
	assert.Contains(t, buf.String(), "store operation failed")
	assert.Contains(t, buf.String(), "registry_id="+r.InstanceID())
}

func TestLoggerRecordsRegistrationsAndMisses(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	r := New(WithLogger(logger))
	require.NoError(t, r.Register(1, "a"))
	require.NoError(t, r.Register(1, "b"))
	r.GetByID(5)

	out := buf.String()
	assert.Contains(t, out, "label registered")
	assert.Contains(t, out, "replaced=true")
	assert.Contains(t, out, "label not found")
}

// Thread-safety tests

func TestConcurrentRegister(t *testing.T) {
	r := New()
	var wg sync.WaitGroup
	n := 1000

	for i := range n {
		wg.Add(1)
		go func(id ID) {
			defer wg.Done()
			assert.NoError(t, r.Register(id, Label(id.String())))
		}(ID(i))
	}
	wg.Wait()

	assert.Equal(t, n, r.Len())
	for i := range n {
		label, ok := r.GetByID(ID(i))
		assert.True(t, ok)
		assert.Equal(t, Label(ID(i).String()), label)
	}
}

func TestConcurrentReadWrite(t *testing.T) {
	r := New()
	var wg sync.WaitGroup

	for w := range 10 {
		wg.Add(1)
		go func(writer int) {
			defer wg.Done()
			for j := range 100 {
				_ = r.Register(ID(writer*1000+j), "x")
			}
		}(w)
	}

	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range 100 {
				r.GetByID(ID(j))
				r.IDs()
				r.Len()
			}
		}()
	}

	wg.Wait()
	assert.Equal(t, 1000, r.Len())
}

func BenchmarkGetByID(b *testing.B) {
	r := New()
	for i := range 1000 {
		_ = r.Register(ID(i), "label")
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.GetByID(ID(i % 1000))
	}
}

func BenchmarkConcurrentGetByID(b *testing.B) {
	r := New()
	for i := range 1000 {
		_ = r.Register(ID(i), "label")
	}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			r.GetByID(ID(i % 1000))
			i++
		}
	})
}
