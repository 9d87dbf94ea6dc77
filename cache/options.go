package cache

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidConfig is returned when options are invalid.
var ErrInvalidConfig = errors.New("invalid cache configuration")

// RemoteErrorPolicy decides what happens when a remote-tier or bus operation
// fails. op names the failed operation ("set", "get", "remove", "clear",
// "announce") and key is the logical key involved, or "*" for clear.
// Returning nil swallows the failure and degrades the operation to
// local-tier-only semantics; returning an error propagates it to the caller
// after the local-tier mutation has already taken effect. Any custom func is
// a valid policy. Serialization errors bypass the policy entirely.
type RemoteErrorPolicy func(op, key string, err error) error

// IgnoreRemoteErrors swallows every remote failure. This is the default.
func IgnoreRemoteErrors(op, key string, err error) error { return nil }

// PropagateRemoteErrors re-raises every remote failure to the caller.
func PropagateRemoteErrors(op, key string, err error) error { return err }

// LocalCacheConfig configures the local tier.
type LocalCacheConfig struct {
	// NumCounters is the number of access counters (Ristretto only).
	// Recommended: 10 * the expected number of entries.
	NumCounters int64

	// MaxCost is the maximum total cost of entries (Ristretto only).
	MaxCost int64

	// BufferItems is the set buffer size (Ristretto only). Recommended: 64.
	BufferItems int64

	// IgnoreInternalCost ignores entry bookkeeping cost (Ristretto only).
	IgnoreInternalCost bool

	// MaxSize is the maximum number of entries (LRU only).
	MaxSize int
}

// Options configures a HybridCache instance.
type Options struct {
	// InstanceID identifies this process instance on the invalidation
	// channel so it can discard its own echoes. Generated (random UUID)
	// when empty; set it explicitly only when tests need determinism.
	InstanceID string

	// Namespace scopes every key of this deployment so that independent
	// deployments can share one remote store. All instances of one
	// deployment must use the same value. When empty it falls back to the
	// generated InstanceID, which isolates this instance from its peers;
	// New logs a warning when that happens.
	Namespace string

	// DefaultTTL is applied to writes without an explicit TTL and used as
	// the back-fill fallback when the remote TTL cannot be determined.
	DefaultTTL time.Duration

	// LocalCacheConfig configures the local tier.
	LocalCacheConfig LocalCacheConfig

	// LocalCacheFactory creates the local tier. Defaults to Ristretto.
	LocalCacheFactory LocalCacheFactory

	// RedisAddr is the Redis server address (e.g., "localhost:6379").
	RedisAddr string

	// RedisPassword is the optional Redis password.
	RedisPassword string

	// RedisDB is the Redis database number.
	RedisDB int

	// SerializationFormat selects the value codec ("json" or "msgpack").
	// Ignored when Marshaller is set. Defaults to "json".
	SerializationFormat string

	// Marshaller overrides the codec selected by SerializationFormat.
	Marshaller Marshaller

	// Logger is the logger for debug logging. Defaults to no-op.
	Logger Logger

	// DebugMode enables debug logging.
	DebugMode bool

	// ContextTimeout bounds background remote operations dispatched by the
	// async write path.
	ContextTimeout time.Duration

	// RemoteErrorPolicy gates every remote-tier and bus failure.
	// Defaults to IgnoreRemoteErrors.
	RemoteErrorPolicy RemoteErrorPolicy

	// OnError observes errors that no caller is positioned to receive
	// (background and subscription failures). May be nil.
	OnError func(error)

	// Store overrides the Redis remote tier. When set, Bus must be set too
	// and RedisAddr is not used. Intended for tests and custom backends.
	Store Store

	// Bus overrides the Redis invalidation bus.
	Bus Bus
}

// DefaultOptions returns default cache options.
func DefaultOptions() Options {
	return Options{
		DefaultTTL:       10 * time.Minute,
		ContextTimeout:   5 * time.Second,
		LocalCacheConfig: DefaultLocalCacheConfig(),
	}
}

// DefaultLocalCacheConfig returns the default local tier configuration.
func DefaultLocalCacheConfig() LocalCacheConfig {
	return LocalCacheConfig{
		NumCounters:        1e7,     // 10 million
		MaxCost:            1 << 30, // 1GB
		BufferItems:        64,
		IgnoreInternalCost: true,
		MaxSize:            10000,
	}
}

// Validate validates the options.
func (o *Options) Validate() error {
	if o.RedisAddr == "" && o.Store == nil {
		return ErrInvalidConfig
	}
	if o.Store != nil && o.Bus == nil {
		return ErrInvalidConfig
	}
	switch o.SerializationFormat {
	case "", "json", "msgpack":
	default:
		return ErrInvalidConfig
	}
	if o.LocalCacheFactory == nil {
		if o.LocalCacheConfig.NumCounters <= 0 || o.LocalCacheConfig.MaxCost <= 0 {
			return ErrInvalidConfig
		}
	}
	return nil
}

// applyDefaults fills generated and defaulted fields in place.
// Returns true when the namespace fell back to the instance identity.
func (o *Options) applyDefaults() (nsFallback bool) {
	if o.InstanceID == "" {
		o.InstanceID = uuid.NewString()
	}
	if o.Namespace == "" {
		o.Namespace = o.InstanceID
		nsFallback = true
	}
	if o.DefaultTTL <= 0 {
		o.DefaultTTL = 10 * time.Minute
	}
	if o.ContextTimeout <= 0 {
		o.ContextTimeout = 5 * time.Second
	}
	if o.Logger == nil {
		o.Logger = NewNoOpLogger()
	}
	if o.RemoteErrorPolicy == nil {
		o.RemoteErrorPolicy = IgnoreRemoteErrors
	}
	if o.LocalCacheFactory == nil {
		o.LocalCacheFactory = NewTTLCacheFactory(o.LocalCacheConfig)
	}
	return nsFallback
}
