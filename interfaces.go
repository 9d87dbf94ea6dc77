package hybridcache

import (
	"github.com/nlhoang/hybrid-cache/cache"
	"github.com/nlhoang/hybrid-cache/types"
)

// Logger is an alias for cache.Logger.
type Logger = cache.Logger

// Marshaller is an alias for cache.Marshaller.
type Marshaller = cache.Marshaller

// LocalCache is an alias for cache.LocalCache.
type LocalCache = cache.LocalCache

// LocalCacheMetrics is an alias for cache.LocalCacheMetrics.
type LocalCacheMetrics = cache.LocalCacheMetrics

// LocalCacheFactory is an alias for cache.LocalCacheFactory.
type LocalCacheFactory = cache.LocalCacheFactory

// LocalCacheConfig is an alias for cache.LocalCacheConfig.
type LocalCacheConfig = cache.LocalCacheConfig

// Store is an alias for cache.Store.
type Store = cache.Store

// Bus is an alias for cache.Bus.
type Bus = cache.Bus

// Cache is an alias for cache.Cache.
type Cache[V any] = cache.Cache[V]

// Result is an alias for cache.Result.
type Result = cache.Result

// Lookup is an alias for cache.Lookup.
type Lookup[V any] = cache.Lookup[V]

// Stats is an alias for cache.Stats.
type Stats = cache.Stats

// Message is an alias for types.Message.
type Message = types.Message

// RemoteErrorPolicy is an alias for cache.RemoteErrorPolicy.
type RemoteErrorPolicy = cache.RemoteErrorPolicy

// IgnoreRemoteErrors is the policy that swallows every remote failure.
var IgnoreRemoteErrors RemoteErrorPolicy = cache.IgnoreRemoteErrors

// PropagateRemoteErrors is the policy that re-raises every remote failure.
var PropagateRemoteErrors RemoteErrorPolicy = cache.PropagateRemoteErrors

// DefaultLocalCacheConfig returns the default Ristretto local tier
// configuration.
func DefaultLocalCacheConfig() LocalCacheConfig {
	return cache.DefaultLocalCacheConfig()
}
