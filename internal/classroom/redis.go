// Package classroom provides the networked broadcast backend, built on Redis
// pub/sub, for deployments running more than one server instance.
package classroom

import (
	"context"
	"log"
	"strings"

	"github.com/redis/go-redis/v9"
)

// channelPrefix namespaces the Redis pub/sub channels, one channel per room.
const channelPrefix = "classroom:"

// RedisBroadcaster fans envelopes out through Redis pub/sub. Every instance
// publishes to the room's channel and subscribes to all room channels, so a
// broadcast reaches local members of every instance. Publish failures
// degrade to local-only delivery rather than dropping the envelope entirely.
type RedisBroadcaster struct {
	client *redis.Client
	local  *LocalBroadcaster
	pubsub *redis.PubSub
	cancel context.CancelFunc
	done   chan struct{}
}

// NewRedisBroadcaster subscribes to all room channels and starts the
// delivery loop. Close must be called to release the subscription.
func NewRedisBroadcaster(client *redis.Client, registry *Registry) *RedisBroadcaster {
	ctx, cancel := context.WithCancel(context.Background())
	b := &RedisBroadcaster{
		client: client,
		local:  NewLocalBroadcaster(registry),
		pubsub: client.PSubscribe(ctx, channelPrefix+"*"),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go b.run(ctx)
	return b
}

// Broadcast publishes the encoded envelope to the room's channel. Delivery
// to local members happens when the subscription loop receives the message
// back, which keeps ordering identical across instances.
func (b *RedisBroadcaster) Broadcast(room string, env Envelope) {
	data, err := Encode(env)
	if err != nil {
		log.Printf("Error encoding %s envelope for room %q: %v", env.Type, room, err)
		return
	}
	if err := b.client.Publish(context.Background(), channelPrefix+room, data).Err(); err != nil {
		log.Printf("Redis publish failed for room %q, delivering locally: %v", room, err)
		b.local.deliver(room, data)
	}
}

func (b *RedisBroadcaster) run(ctx context.Context) {
	defer close(b.done)

	ch := b.pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			room := strings.TrimPrefix(msg.Channel, channelPrefix)
			b.local.deliver(room, []byte(msg.Payload))
		}
	}
}

// Close tears down the subscription and waits for the delivery loop to stop.
func (b *RedisBroadcaster) Close() error {
	b.cancel()
	err := b.pubsub.Close()
	<-b.done
	return err
}
