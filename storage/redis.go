package storage

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrRemoteUnavailable is returned when the remote store cannot be reached
// or the connection failed mid-operation.
var ErrRemoteUnavailable = errors.New("remote store unavailable")

// ErrRemoteTimeout is returned when a remote operation timed out at the
// transport level.
var ErrRemoteTimeout = errors.New("remote store timeout")

// RedisStore is the remote tier client backed by Redis. Failures are
// classified but never retried here; retry and tolerance policy belong to
// the facade.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(addr, password string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, classify(err)
	}

	return &RedisStore{client: client}, nil
}

// Get retrieves a value. A miss is (nil, false, nil), not an error.
func (rs *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := rs.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, classify(err)
	}
	return val, true, nil
}

// Set stores a value with the given TTL. Non-positive TTLs mean no expiry.
func (rs *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	if err := rs.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return classify(err)
	}
	return nil
}

// Delete removes a key, no-op when absent.
func (rs *RedisStore) Delete(ctx context.Context, key string) error {
	if err := rs.client.Del(ctx, key).Err(); err != nil {
		return classify(err)
	}
	return nil
}

// TTL returns the remaining lifetime of a key via PTTL. ok is false for an
// absent key and for a key with no expiry (PTTL -2 and -1).
func (rs *RedisStore) TTL(ctx context.Context, key string) (time.Duration, bool, error) {
	d, err := rs.client.PTTL(ctx, key).Result()
	if err != nil {
		return 0, false, classify(err)
	}
	if d < 0 {
		return 0, false, nil
	}
	return d, true, nil
}

// Scan returns all keys starting with prefix, cursoring through the keyspace
// without blocking the server the way KEYS would.
func (rs *RedisStore) Scan(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	iter := rs.client.Scan(ctx, 0, prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, classify(err)
	}
	return keys, nil
}

// Close closes the Redis connection.
func (rs *RedisStore) Close() error {
	return rs.client.Close()
}

// Client returns the underlying Redis client, shared with the pub/sub bus.
func (rs *RedisStore) Client() *redis.Client {
	return rs.client
}

// classify maps a transport error onto the store's error taxonomy, keeping
// the cause wrapped.
func classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrRemoteTimeout, err)
	}
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return fmt.Errorf("%w: %v", ErrRemoteTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
}
