package cache

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/nlhoang/hybrid-cache/storage"
	cachesync "github.com/nlhoang/hybrid-cache/sync"
)

// ErrCacheClosed is returned when operations are performed on a closed cache.
var ErrCacheClosed = errors.New("cache is closed")

// ErrSerialization is returned when a value cannot be encoded or decoded.
// It is never gated by the error policy: a corrupt payload indicates a
// programming or schema error, not a transient remote fault.
var ErrSerialization = errors.New("serialization failed")

// HybridCache is a two-tier read-through/write-through cache: a process-local
// TTL tier in front of a shared remote store, kept coherent across instances
// by broadcasting invalidations for every write and removal. It holds no
// internal lock and is safe for concurrent use.
type HybridCache[V any] struct {
	local      LocalCache
	store      Store
	bus        Bus
	serializer Marshaller
	logger     Logger
	options    Options
	group      singleflight.Group
	closed     int32
	stats      Stats
}

// New creates a new HybridCache instance, connects the remote tier and
// starts the standing invalidation subscription.
func New[V any](opts Options) (*HybridCache[V], error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	nsFallback := opts.applyDefaults()
	if nsFallback {
		opts.Logger.Warn("no namespace configured; falling back to the instance identity — "+
			"remote-tier sharing and cross-instance invalidation are disabled for this instance",
			"instanceID", opts.InstanceID)
	}

	serializer := opts.Marshaller
	if serializer == nil {
		s, err := storage.GetSerializer(opts.SerializationFormat)
		if err != nil {
			return nil, err
		}
		serializer = s
	}

	local, err := opts.LocalCacheFactory.Create()
	if err != nil {
		return nil, err
	}

	store := opts.Store
	bus := opts.Bus
	if store == nil {
		rs, err := storage.NewRedisStore(opts.RedisAddr, opts.RedisPassword, opts.RedisDB)
		if err != nil {
			local.Close()
			return nil, err
		}
		store = rs
		if bus == nil {
			bus = cachesync.NewPubSubBus(rs.Client(), opts.Namespace, opts.InstanceID)
		}
	}

	hc := &HybridCache[V]{
		local:      local,
		store:      store,
		bus:        bus,
		serializer: serializer,
		logger:     opts.Logger,
		options:    opts,
	}

	bus.OnInvalidate(hc.handleInvalidation)

	ctx, cancel := context.WithTimeout(context.Background(), opts.ContextTimeout)
	defer cancel()
	if err := bus.Subscribe(ctx); err != nil {
		hc.Close()
		return nil, err
	}

	return hc, nil
}

// qualify derives the fully-qualified key for a logical key. Deterministic
// and identical across all instances of the same deployment.
func (hc *HybridCache[V]) qualify(key string) string {
	return hc.options.Namespace + ":" + key
}

// Get retrieves a value from the cache, local tier first.
func (hc *HybridCache[V]) Get(ctx context.Context, key string) (V, bool, error) {
	return hc.GetAsync(ctx, key).Wait()
}

// GetAsync retrieves a value without suspending the caller. A local hit
// resolves the returned handle before GetAsync returns; a local miss
// resolves it after the remote round-trip.
func (hc *HybridCache[V]) GetAsync(ctx context.Context, key string) *Lookup[V] {
	l := newLookup[V]()
	var zero V

	if atomic.LoadInt32(&hc.closed) != 0 {
		l.resolve(zero, false, ErrCacheClosed)
		return l
	}

	fq := hc.qualify(key)
	if v, ok := hc.local.Get(fq); ok {
		if typed, ok := v.(V); ok {
			atomic.AddInt64(&hc.stats.LocalHits, 1)
			if hc.options.DebugMode {
				hc.logger.Debug("Get: local tier hit", "key", key)
			}
			l.resolve(typed, true, nil)
			return l
		}
		// foreign entry type; treat as a miss and let the remote copy win
		hc.local.Delete(fq)
	}
	atomic.AddInt64(&hc.stats.LocalMisses, 1)
	if hc.options.DebugMode {
		hc.logger.Debug("Get: local tier miss, checking remote", "key", key)
	}

	go func() {
		l.resolve(hc.fetchRemote(ctx, key, fq))
	}()
	return l
}

// fetchRemote loads a key from the remote tier and back-fills the local tier
// with the entry's remaining TTL. Concurrent fetches for the same key are
// collapsed into one remote round-trip.
func (hc *HybridCache[V]) fetchRemote(ctx context.Context, key, fq string) (V, bool, error) {
	var zero V

	res, err, _ := hc.group.Do(fq, func() (any, error) {
		data, ok, err := hc.store.Get(ctx, fq)
		if err != nil {
			return nil, err
		}
		if !ok {
			atomic.AddInt64(&hc.stats.RemoteMisses, 1)
			return nil, nil
		}
		atomic.AddInt64(&hc.stats.RemoteHits, 1)

		var value V
		if err := hc.serializer.Unmarshal(data, &value); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
		}

		// Back-fill with the remote entry's remaining life so the two
		// tiers' expirations stay approximately aligned.
		ttl := hc.options.DefaultTTL
		if remaining, ok, terr := hc.store.TTL(ctx, fq); terr == nil && ok && remaining > 0 {
			ttl = remaining
		}
		hc.local.Set(fq, value, ttl)
		if hc.options.DebugMode {
			hc.logger.Debug("Get: back-filled local tier", "key", key, "ttl", ttl)
		}
		return value, nil
	})

	if err != nil {
		if errors.Is(err, ErrSerialization) {
			return zero, false, err
		}
		if perr := hc.remoteErr("get", key, err); perr != nil {
			return zero, false, perr
		}
		return zero, false, nil
	}
	if res == nil {
		return zero, false, nil
	}
	return res.(V), true, nil
}

// Set stores a value with the default TTL and waits for the remote write
// and the invalidation announce to complete.
func (hc *HybridCache[V]) Set(ctx context.Context, key string, value V) error {
	return hc.SetAsync(ctx, key, value).Wait()
}

// SetWithTTL is Set with an explicit TTL.
func (hc *HybridCache[V]) SetWithTTL(ctx context.Context, key string, value V, ttl time.Duration) error {
	return hc.SetWithTTLAsync(ctx, key, value, ttl).Wait()
}

// SetAsync writes the local tier synchronously and returns; the remote write
// and the announce run in the background and resolve the returned handle.
// This is the fire-and-forget write path.
func (hc *HybridCache[V]) SetAsync(ctx context.Context, key string, value V) *Result {
	return hc.setAsync(ctx, key, value, hc.options.DefaultTTL)
}

// SetWithTTLAsync is SetAsync with an explicit TTL.
func (hc *HybridCache[V]) SetWithTTLAsync(ctx context.Context, key string, value V, ttl time.Duration) *Result {
	return hc.setAsync(ctx, key, value, ttl)
}

func (hc *HybridCache[V]) setAsync(ctx context.Context, key string, value V, ttl time.Duration) *Result {
	if atomic.LoadInt32(&hc.closed) != 0 {
		return resolvedResult(ErrCacheClosed)
	}
	if ttl <= 0 {
		ttl = hc.options.DefaultTTL
	}
	fq := hc.qualify(key)

	// The local write happens first and is never rolled back: a set
	// followed by a get in the same instance observes the value even when
	// the remote tier is down.
	hc.local.Set(fq, value, ttl)
	if hc.options.DebugMode {
		hc.logger.Debug("Set: stored in local tier", "key", key, "ttl", ttl)
	}

	data, err := hc.serializer.Marshal(value)
	if err != nil {
		return resolvedResult(fmt.Errorf("%w: %v", ErrSerialization, err))
	}

	r := newResult()
	go func() {
		bctx, cancel := hc.backgroundContext(ctx)
		defer cancel()

		var failure error
		if err := hc.store.Set(bctx, fq, data, ttl); err != nil {
			failure = hc.remoteErr("set", key, err)
		}
		// Announce regardless of the remote outcome: peers must drop
		// their copies even when the remote tier is flaky.
		if err := hc.bus.Announce(bctx, []string{fq}); err != nil {
			if perr := hc.remoteErr("announce", key, err); perr != nil && failure == nil {
				failure = perr
			}
		}
		r.resolve(failure)
	}()
	return r
}

// Remove deletes a value from both tiers and waits for completion.
func (hc *HybridCache[V]) Remove(ctx context.Context, key string) error {
	return hc.RemoveAsync(ctx, key).Wait()
}

// RemoveAsync deletes from the local tier synchronously; the remote delete
// and the announce run in the background. The key is announced even when the
// remote delete failed so that peers at least drop their local copies.
func (hc *HybridCache[V]) RemoveAsync(ctx context.Context, key string) *Result {
	if atomic.LoadInt32(&hc.closed) != 0 {
		return resolvedResult(ErrCacheClosed)
	}
	fq := hc.qualify(key)

	hc.local.Delete(fq)
	if hc.options.DebugMode {
		hc.logger.Debug("Remove: removed from local tier", "key", key)
	}

	r := newResult()
	go func() {
		bctx, cancel := hc.backgroundContext(ctx)
		defer cancel()

		var failure error
		if err := hc.store.Delete(bctx, fq); err != nil {
			failure = hc.remoteErr("remove", key, err)
		}
		if err := hc.bus.Announce(bctx, []string{fq}); err != nil {
			if perr := hc.remoteErr("announce", key, err); perr != nil && failure == nil {
				failure = perr
			}
		}
		r.resolve(failure)
	}()
	return r
}

// Clear removes every entry belonging to this deployment's namespace from
// both tiers and announces the removed keys as one batch. Other tenants of
// the remote store are untouched.
func (hc *HybridCache[V]) Clear(ctx context.Context) error {
	if atomic.LoadInt32(&hc.closed) != 0 {
		return ErrCacheClosed
	}

	hc.local.Clear()

	keys, err := hc.store.Scan(ctx, hc.options.Namespace+":")
	if err != nil {
		return hc.remoteErr("clear", "*", err)
	}
	for _, k := range keys {
		if err := hc.store.Delete(ctx, k); err != nil {
			if perr := hc.remoteErr("clear", "*", err); perr != nil {
				return perr
			}
		}
	}
	if len(keys) > 0 {
		if err := hc.bus.Announce(ctx, keys); err != nil {
			if perr := hc.remoteErr("announce", "*", err); perr != nil {
				return perr
			}
		}
	}
	if hc.options.DebugMode {
		hc.logger.Debug("Clear: cleared namespace", "keys", len(keys))
	}
	return nil
}

// Stats returns cache statistics.
func (hc *HybridCache[V]) Stats() Stats {
	return Stats{
		LocalHits:     atomic.LoadInt64(&hc.stats.LocalHits),
		LocalMisses:   atomic.LoadInt64(&hc.stats.LocalMisses),
		RemoteHits:    atomic.LoadInt64(&hc.stats.RemoteHits),
		RemoteMisses:  atomic.LoadInt64(&hc.stats.RemoteMisses),
		Invalidations: atomic.LoadInt64(&hc.stats.Invalidations),
	}
}

// Close cancels the invalidation subscription and releases the remote
// connection and the local tier. Safe to call multiple times.
func (hc *HybridCache[V]) Close() error {
	if !atomic.CompareAndSwapInt32(&hc.closed, 0, 1) {
		return nil
	}

	var errs []error
	if err := hc.bus.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := hc.store.Close(); err != nil {
		errs = append(errs, err)
	}
	hc.local.Close()

	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}

// handleInvalidation runs on the bus delivery goroutine once per inbound key
// batch. The bus has already filtered this instance's own echoes. Only
// local-tier work happens here so delivery of subsequent messages is not
// starved.
func (hc *HybridCache[V]) handleInvalidation(keys []string) {
	for _, k := range keys {
		hc.local.Delete(k)
	}
	atomic.AddInt64(&hc.stats.Invalidations, 1)
	if hc.options.DebugMode {
		hc.logger.Debug("Sync: dropped invalidated keys from local tier", "keys", len(keys))
	}
}

// remoteErr routes a remote-tier or bus failure through the configured
// policy, observing it first.
func (hc *HybridCache[V]) remoteErr(op, key string, err error) error {
	if hc.options.DebugMode {
		hc.logger.Warn("remote tier operation failed", "op", op, "key", key, "error", err)
	}
	if perr := hc.options.RemoteErrorPolicy(op, key, err); perr != nil {
		return perr
	}
	if hc.options.OnError != nil {
		hc.options.OnError(err)
	}
	return nil
}

// backgroundContext detaches the caller's cancellation (async work outlives
// the calling frame) while keeping its values, bounded by ContextTimeout.
func (hc *HybridCache[V]) backgroundContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), hc.options.ContextTimeout)
}
