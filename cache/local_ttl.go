package cache

import (
	"sync/atomic"
	"time"

	"github.com/dgraph-io/ristretto"
)

// TTLCacheFactory creates Ristretto-backed local tier instances.
type TTLCacheFactory struct {
	config LocalCacheConfig
}

// NewTTLCacheFactory creates a new Ristretto cache factory.
func NewTTLCacheFactory(config LocalCacheConfig) LocalCacheFactory {
	return &TTLCacheFactory{config: config}
}

// Create creates a new Ristretto cache instance.
func (f *TTLCacheFactory) Create() (LocalCache, error) {
	return NewTTLCache(f.config)
}

// TTLCache is the default local tier: a Ristretto cache storing entries with
// per-entry TTLs.
type TTLCache struct {
	cache     *ristretto.Cache
	hits      int64
	misses    int64
	evictions int64
}

// NewTTLCache creates a new Ristretto-based local tier.
func NewTTLCache(config LocalCacheConfig) (*TTLCache, error) {
	tc := &TTLCache{}
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters:        config.NumCounters,
		MaxCost:            config.MaxCost,
		BufferItems:        config.BufferItems,
		IgnoreInternalCost: config.IgnoreInternalCost,
		OnEvict: func(item *ristretto.Item) {
			atomic.AddInt64(&tc.evictions, 1)
		},
	})
	if err != nil {
		return nil, err
	}
	tc.cache = cache
	return tc, nil
}

// Get retrieves a value from the local tier.
func (tc *TTLCache) Get(key string) (any, bool) {
	value, found := tc.cache.Get(key)
	if found {
		atomic.AddInt64(&tc.hits, 1)
	} else {
		atomic.AddInt64(&tc.misses, 1)
	}
	return value, found
}

// Set stores a value with a per-entry TTL. Ristretto applies sets through a
// buffer, so Wait flushes it to keep a set visible to the next Get.
func (tc *TTLCache) Set(key string, value any, ttl time.Duration) bool {
	ok := tc.cache.SetWithTTL(key, value, 1, ttl)
	tc.cache.Wait()
	return ok
}

// Delete removes a value from the local tier.
func (tc *TTLCache) Delete(key string) {
	tc.cache.Del(key)
}

// Clear removes all values from the local tier.
func (tc *TTLCache) Clear() {
	tc.cache.Clear()
}

// Close closes the local tier.
func (tc *TTLCache) Close() {
	tc.cache.Close()
}

// Metrics returns local tier metrics.
func (tc *TTLCache) Metrics() LocalCacheMetrics {
	return LocalCacheMetrics{
		Hits:      atomic.LoadInt64(&tc.hits),
		Misses:    atomic.LoadInt64(&tc.misses),
		Evictions: atomic.LoadInt64(&tc.evictions),
		Size:      int64(tc.cache.MaxCost()),
	}
}
