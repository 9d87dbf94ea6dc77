package hybridcache

import (
	"time"

	"github.com/nlhoang/hybrid-cache/cache"
)

// Config configures a hybrid cache instance.
type Config struct {
	// InstanceID identifies this process instance on the invalidation
	// channel. Generated when empty.
	InstanceID string

	// Namespace scopes this deployment's keys in the shared store. All
	// instances of one deployment must agree on it. Leaving it empty
	// isolates this instance from its peers (logged as a warning).
	Namespace string

	// DefaultTTL is applied to writes without an explicit TTL.
	DefaultTTL time.Duration

	// LocalCacheConfig configures the local tier.
	LocalCacheConfig LocalCacheConfig

	// LocalCacheFactory is the factory for creating local tier instances.
	// If nil, defaults to Ristretto.
	LocalCacheFactory LocalCacheFactory

	// RedisAddr is the Redis server address (e.g., "localhost:6379").
	RedisAddr string

	// RedisPassword is the optional Redis password.
	RedisPassword string

	// RedisDB is the Redis database number.
	RedisDB int

	// SerializationFormat specifies how values are serialized
	// ("json" or "msgpack").
	SerializationFormat string

	// Marshaller overrides SerializationFormat with a custom codec.
	Marshaller Marshaller

	// Logger is the logger for debug logging. If nil, defaults to no-op.
	Logger Logger

	// DebugMode enables debug logging.
	DebugMode bool

	// ContextTimeout bounds background remote operations.
	ContextTimeout time.Duration

	// RemoteErrorPolicy gates remote-tier and bus failures.
	// Defaults to IgnoreRemoteErrors.
	RemoteErrorPolicy RemoteErrorPolicy

	// OnError is called for errors no caller is positioned to receive.
	OnError func(error)

	// Store overrides the Redis remote tier (requires Bus as well).
	Store Store

	// Bus overrides the Redis invalidation bus.
	Bus Bus
}

// New creates a new hybrid cache instance for values of type V.
// This is the root-level initialization function that allows users to import
// from the root package.
func New[V any](cfg Config) (Cache[V], error) {
	opts := cache.Options{
		InstanceID:          cfg.InstanceID,
		Namespace:           cfg.Namespace,
		DefaultTTL:          cfg.DefaultTTL,
		LocalCacheConfig:    cfg.LocalCacheConfig,
		LocalCacheFactory:   cfg.LocalCacheFactory,
		RedisAddr:           cfg.RedisAddr,
		RedisPassword:       cfg.RedisPassword,
		RedisDB:             cfg.RedisDB,
		SerializationFormat: cfg.SerializationFormat,
		Marshaller:          cfg.Marshaller,
		Logger:              cfg.Logger,
		DebugMode:           cfg.DebugMode,
		ContextTimeout:      cfg.ContextTimeout,
		RemoteErrorPolicy:   cfg.RemoteErrorPolicy,
		OnError:             cfg.OnError,
		Store:               cfg.Store,
		Bus:                 cfg.Bus,
	}

	return cache.New[V](opts)
}

// DefaultConfig returns default cache configuration.
func DefaultConfig() Config {
	return Config{
		RedisAddr:           "localhost:6379",
		RedisDB:             0,
		SerializationFormat: "json",
		DefaultTTL:          10 * time.Minute,
		ContextTimeout:      5 * time.Second,
		LocalCacheConfig:    DefaultLocalCacheConfig(),
	}
}
