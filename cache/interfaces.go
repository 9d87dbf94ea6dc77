package cache

import (
	"context"
	"time"
)

// Logger defines the interface for logging in the hybrid cache.
type Logger interface {
	// Debug logs a debug message.
	Debug(msg string, args ...any)

	// Info logs an info message.
	Info(msg string, args ...any)

	// Warn logs a warning message.
	Warn(msg string, args ...any)

	// Error logs an error message.
	Error(msg string, args ...any)
}

// Marshaller defines the interface for value serialization.
type Marshaller interface {
	// Marshal serializes a value to bytes.
	Marshal(v any) ([]byte, error)

	// Unmarshal deserializes a value from bytes.
	Unmarshal(data []byte, v any) error
}

// LocalCache defines the interface for the process-local tier.
// Implementations must be safe for concurrent use: application writes,
// read-miss back-fills and invalidation removals interleave arbitrarily.
// Operations never block on I/O and never fail.
type LocalCache interface {
	// Get retrieves a value from the local tier.
	Get(key string) (any, bool)

	// Set stores a value with a per-entry TTL, overwriting any prior entry.
	// A set must be visible to an immediately following Get in the same
	// process.
	Set(key string, value any, ttl time.Duration) bool

	// Delete removes a value if present, no-op otherwise.
	Delete(key string)

	// Clear removes all values from the local tier.
	Clear()

	// Close releases the local tier's resources.
	Close()

	// Metrics returns local tier metrics.
	Metrics() LocalCacheMetrics
}

// LocalCacheMetrics represents local tier metrics.
type LocalCacheMetrics struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Size      int64
}

// LocalCacheFactory defines the interface for creating local tier instances.
type LocalCacheFactory interface {
	// Create creates a new local tier instance.
	Create() (LocalCache, error)
}

// Store defines the interface for the shared remote tier. Values are opaque
// byte payloads: Get must return exactly the bytes previously passed to Set
// for the same key. A miss and an error are distinct outcomes; transport
// failures are never retried here.
type Store interface {
	// Get returns (value, true, nil) on hit and (nil, false, nil) on miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value with the given TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a key, no-op when absent.
	Delete(ctx context.Context, key string) error

	// TTL returns the remaining lifetime of a key. ok is false when the key
	// is absent or carries no expiry.
	TTL(ctx context.Context, key string) (ttl time.Duration, ok bool, err error)

	// Scan returns all keys starting with prefix.
	Scan(ctx context.Context, prefix string) ([]string, error)

	// Close closes the store connection.
	Close() error
}

// Bus defines the interface for the cross-instance invalidation channel.
type Bus interface {
	// Announce broadcasts that the given fully-qualified keys changed.
	// It does not wait for subscriber processing.
	Announce(ctx context.Context, keys []string) error

	// Subscribe starts the standing subscription. Must be called once,
	// before the first Announce is expected to be observed.
	Subscribe(ctx context.Context) error

	// OnInvalidate registers a callback invoked once per inbound key batch,
	// on the delivery goroutine. Callbacks must not block for long.
	OnInvalidate(callback func(keys []string))

	// Close cancels the subscription. No callbacks fire after Close returns.
	Close() error
}

// Cache is the facade coordinating the local tier, the remote tier and the
// invalidation bus into unified operations, generic over the stored value
// type. Each write-path operation exists in a synchronous form and an async
// form returning an awaitable handle.
type Cache[V any] interface {
	// Get retrieves a value, local tier first. A local hit never touches
	// the remote tier.
	Get(ctx context.Context, key string) (V, bool, error)

	// GetAsync is the non-blocking form of Get.
	GetAsync(ctx context.Context, key string) *Lookup[V]

	// Set writes to the local tier, then the remote tier, then announces
	// the key, using the default TTL.
	Set(ctx context.Context, key string, value V) error

	// SetWithTTL is Set with an explicit TTL.
	SetWithTTL(ctx context.Context, key string, value V, ttl time.Duration) error

	// SetAsync returns after the local write; remote work completes in the
	// background and is observable through the returned handle.
	SetAsync(ctx context.Context, key string, value V) *Result

	// SetWithTTLAsync is SetAsync with an explicit TTL.
	SetWithTTLAsync(ctx context.Context, key string, value V, ttl time.Duration) *Result

	// Remove deletes from the local tier, the remote tier, and announces
	// the key even when the remote delete failed.
	Remove(ctx context.Context, key string) error

	// RemoveAsync is the non-blocking form of Remove.
	RemoveAsync(ctx context.Context, key string) *Result

	// Clear removes every entry belonging to this deployment's namespace
	// from both tiers and announces the removed keys.
	Clear(ctx context.Context) error

	// Stats returns cache statistics.
	Stats() Stats

	// Close cancels the subscription and releases both tiers. Idempotent.
	Close() error
}

// Stats represents cache statistics.
type Stats struct {
	LocalHits     int64
	LocalMisses   int64
	RemoteHits    int64
	RemoteMisses  int64
	Invalidations int64
}
