package cache

import (
	"testing"
	"time"
)

func newTestTTLCache(t *testing.T) *TTLCache {
	t.Helper()
	cache, err := NewTTLCache(DefaultLocalCacheConfig())
	if err != nil {
		t.Fatalf("Failed to create cache: %v", err)
	}
	t.Cleanup(cache.Close)
	return cache
}

func TestTTLCacheSetGet(t *testing.T) {
	cache := newTestTTLCache(t)

	if ok := cache.Set("key1", "value1", time.Minute); !ok {
		t.Fatal("Set should succeed")
	}

	// A set must be visible to an immediately following get.
	value, found := cache.Get("key1")
	if !found {
		t.Fatal("Value should be found")
	}
	if value != "value1" {
		t.Fatalf("Expected value1, got %v", value)
	}
}

func TestTTLCacheExpiry(t *testing.T) {
	cache := newTestTTLCache(t)

	cache.Set("key1", "value1", 20*time.Millisecond)
	time.Sleep(60 * time.Millisecond)

	if _, found := cache.Get("key1"); found {
		t.Fatal("Value should have expired")
	}
}

func TestTTLCacheDelete(t *testing.T) {
	cache := newTestTTLCache(t)

	cache.Set("key1", "value1", time.Minute)
	cache.Delete("key1")

	if _, found := cache.Get("key1"); found {
		t.Fatal("Value should not be found after delete")
	}
}

func TestTTLCacheClear(t *testing.T) {
	cache := newTestTTLCache(t)

	cache.Set("key1", "value1", time.Minute)
	cache.Set("key2", "value2", time.Minute)
	cache.Clear()

	if _, found := cache.Get("key1"); found {
		t.Fatal("key1 should be gone after clear")
	}
	if _, found := cache.Get("key2"); found {
		t.Fatal("key2 should be gone after clear")
	}
}

func TestTTLCacheMetrics(t *testing.T) {
	cache := newTestTTLCache(t)

	cache.Set("key1", "value1", time.Minute)
	cache.Get("key1")
	cache.Get("missing")

	metrics := cache.Metrics()
	if metrics.Hits != 1 {
		t.Errorf("Expected 1 hit, got %d", metrics.Hits)
	}
	if metrics.Misses != 1 {
		t.Errorf("Expected 1 miss, got %d", metrics.Misses)
	}
}

func TestTTLCacheFactory(t *testing.T) {
	factory := NewTTLCacheFactory(DefaultLocalCacheConfig())
	cache, err := factory.Create()
	if err != nil {
		t.Fatalf("Factory failed: %v", err)
	}
	defer cache.Close()

	cache.Set("key1", "value1", time.Minute)
	if _, found := cache.Get("key1"); !found {
		t.Fatal("Value should be found")
	}
}
