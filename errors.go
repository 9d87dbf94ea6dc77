package hybridcache

import (
	"github.com/nlhoang/hybrid-cache/cache"
	"github.com/nlhoang/hybrid-cache/storage"
)

// ErrCacheClosed is returned when operations are performed on a closed cache.
var ErrCacheClosed = cache.ErrCacheClosed

// ErrInvalidConfig is returned when the cache configuration is invalid.
var ErrInvalidConfig = cache.ErrInvalidConfig

// ErrSerialization is returned when a value cannot be encoded or decoded.
// Never swallowed by the error policy.
var ErrSerialization = cache.ErrSerialization

// ErrRemoteUnavailable is returned (policy permitting) when the remote store
// cannot be reached.
var ErrRemoteUnavailable = storage.ErrRemoteUnavailable

// ErrRemoteTimeout is returned (policy permitting) when a remote operation
// timed out at the transport level.
var ErrRemoteTimeout = storage.ErrRemoteTimeout
