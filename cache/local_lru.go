package cache

import (
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// LRUCacheFactory creates LRU cache instances.
type LRUCacheFactory struct {
	maxSize int
}

// NewLRUCacheFactory creates a new LRU cache factory.
func NewLRUCacheFactory(maxSize int) LocalCacheFactory {
	return &LRUCacheFactory{maxSize: maxSize}
}

// Create creates a new LRU cache instance.
func (f *LRUCacheFactory) Create() (LocalCache, error) {
	return NewLRUCache(f.maxSize)
}

type lruEntry struct {
	value    any
	deadline time.Time // zero means no expiry
}

// LRUCache is a bounded local tier built on golang-lru. The library has no
// per-entry TTLs, so entries carry their own deadline and expire lazily on
// Get.
type LRUCache struct {
	cache   *lru.Cache[string, lruEntry]
	hits    int64
	misses  int64
	maxSize int64
}

// NewLRUCache creates a new LRU-based local tier.
func NewLRUCache(maxSize int) (*LRUCache, error) {
	cache, err := lru.New[string, lruEntry](maxSize)
	if err != nil {
		return nil, err
	}
	return &LRUCache{
		cache:   cache,
		maxSize: int64(maxSize),
	}, nil
}

// Get retrieves a value from the local tier. An entry past its deadline is
// removed and reported as a miss.
func (lc *LRUCache) Get(key string) (any, bool) {
	entry, found := lc.cache.Get(key)
	if found && !entry.deadline.IsZero() && time.Now().After(entry.deadline) {
		lc.cache.Remove(key)
		found = false
	}
	if !found {
		atomic.AddInt64(&lc.misses, 1)
		return nil, false
	}
	atomic.AddInt64(&lc.hits, 1)
	return entry.value, true
}

// Set stores a value with a per-entry TTL.
func (lc *LRUCache) Set(key string, value any, ttl time.Duration) bool {
	entry := lruEntry{value: value}
	if ttl > 0 {
		entry.deadline = time.Now().Add(ttl)
	}
	lc.cache.Add(key, entry)
	return true
}

// Delete removes a value from the local tier.
func (lc *LRUCache) Delete(key string) {
	lc.cache.Remove(key)
}

// Clear removes all values from the local tier.
func (lc *LRUCache) Clear() {
	lc.cache.Purge()
}

// Close closes the local tier.
func (lc *LRUCache) Close() {
	lc.cache.Purge()
}

// Metrics returns local tier metrics.
func (lc *LRUCache) Metrics() LocalCacheMetrics {
	return LocalCacheMetrics{
		Hits:   atomic.LoadInt64(&lc.hits),
		Misses: atomic.LoadInt64(&lc.misses),
		Size:   lc.maxSize,
	}
}
