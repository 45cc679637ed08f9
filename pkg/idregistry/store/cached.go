package store

import (
	"strconv"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Default cache timings for CachedStore.
const (
	DefaultCacheExpiration = 10 * time.Minute
	DefaultCleanupInterval = 30 * time.Minute
)

// CachedStore is a read-through cache in front of another Store.
// Loads are served from memory until the entry expires; saves go to the
// backing store first and refresh the cache only when that succeeds.
type CachedStore struct {
	backing Store
	cache   *gocache.Cache
}

// Compile-time interface check.
var _ Store = (*CachedStore)(nil)

// NewCachedStore wraps backing with an in-memory cache.
// A non-positive expiration falls back to DefaultCacheExpiration.
func NewCachedStore(backing Store, expiration time.Duration) *CachedStore {
	if expiration <= 0 {
		expiration = DefaultCacheExpiration
	}
	return &CachedStore{
		backing: backing,
		cache:   gocache.New(expiration, DefaultCleanupInterval),
	}
}

func cacheKey(id int64) string {
	return strconv.FormatInt(id, 10)
}

// Save implements Store.
func (c *CachedStore) Save(id int64, label string) error {
	if err := c.backing.Save(id, label); err != nil {
		return err
	}
	c.cache.SetDefault(cacheKey(id), label)
	return nil
}

// Load implements Store.
// Misses are not cached so a later Save through another writer is seen.
func (c *CachedStore) Load(id int64) (string, error) {
	key := cacheKey(id)
	if v, found := c.cache.Get(key); found {
		if label, ok := v.(string); ok {
			return label, nil
		}
		c.cache.Delete(key)
	}

	label, err := c.backing.Load(id)
	if err != nil {
		return "", err
	}
	c.cache.SetDefault(key, label)
	return label, nil
}

// List implements Store. It always reads the backing store.
func (c *CachedStore) List() ([]Record, error) {
	return c.backing.List()
}

// Close flushes the cache and closes the backing store.
func (c *CachedStore) Close() error {
	c.cache.Flush()
	return c.backing.Close()
}

// Cached reports how many entries are currently held in memory.
func (c *CachedStore) Cached() int {
	return c.cache.ItemCount()
}
