// Package sync implements the cross-instance invalidation bus on Redis
// pub/sub. It turns "these keys changed" into a deployment-wide broadcast and
// maintains the standing subscription that keeps every instance's local tier
// coherent.
package sync

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/nlhoang/hybrid-cache/types"
)

const channelSuffix = ":invalidate"

// PubSubBus broadcasts and receives invalidation messages on the
// deployment's channel. Messages carrying this instance's own identity are
// discarded on receipt so an instance never evicts an entry it just wrote.
type PubSubBus struct {
	client     *redis.Client
	channel    string
	instanceID string
	pubsub     *redis.PubSub
	callbacks  []func(keys []string)
	mu         sync.RWMutex
	done       chan struct{}
	wg         sync.WaitGroup
}

// NewPubSubBus creates a bus for the given deployment namespace. All
// instances of one deployment share the resulting channel.
func NewPubSubBus(client *redis.Client, namespace, instanceID string) *PubSubBus {
	return &PubSubBus{
		client:     client,
		channel:    namespace + channelSuffix,
		instanceID: instanceID,
		done:       make(chan struct{}),
	}
}

// Channel returns the pub/sub channel name.
func (b *PubSubBus) Channel() string {
	return b.channel
}

// Announce publishes an invalidation message for the given fully-qualified
// keys. Publishing does not wait for subscriber processing.
func (b *PubSubBus) Announce(ctx context.Context, keys []string) error {
	data, err := json.Marshal(types.Message{
		Sender: b.instanceID,
		Keys:   keys,
	})
	if err != nil {
		return err
	}
	return b.client.Publish(ctx, b.channel, data).Err()
}

// Subscribe starts the standing subscription and returns once the server
// confirmed it, so announcements made afterwards are observed.
func (b *PubSubBus) Subscribe(ctx context.Context) error {
	b.pubsub = b.client.Subscribe(ctx, b.channel)

	if _, err := b.pubsub.Receive(ctx); err != nil {
		_ = b.pubsub.Close()
		b.pubsub = nil
		return err
	}

	b.wg.Add(1)
	go b.listen()
	return nil
}

// OnInvalidate registers a callback invoked once per inbound key batch.
func (b *PubSubBus) OnInvalidate(callback func(keys []string)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.callbacks = append(b.callbacks, callback)
}

// Close cancels the subscription and waits for the delivery goroutine to
// drain, so no callback fires after Close returns.
func (b *PubSubBus) Close() error {
	close(b.done)
	b.wg.Wait()

	if b.pubsub != nil {
		return b.pubsub.Close()
	}
	return nil
}

// listen consumes the subscription until Close. A message that cannot be
// decoded is dropped: one corrupt payload must never take down the listener
// for the rest of the process lifetime.
func (b *PubSubBus) listen() {
	defer b.wg.Done()

	ch := b.pubsub.Channel()

	for {
		select {
		case <-b.done:
			return
		case msg := <-ch:
			if msg == nil {
				return
			}

			var m types.Message
			if err := json.Unmarshal([]byte(msg.Payload), &m); err != nil {
				continue
			}

			// Don't invalidate your own writes.
			if m.Sender == b.instanceID {
				continue
			}

			b.mu.RLock()
			callbacks := b.callbacks
			b.mu.RUnlock()

			for _, callback := range callbacks {
				callback(m.Keys)
			}
		}
	}
}
