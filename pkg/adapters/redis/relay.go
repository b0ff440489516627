// Package redis relays run notifications over Redis Pub/Sub so that every replica of
// the HTTP server streams every run on /events.
package redis

import (
	"context"
	"fmt"

	backend "github.com/redis/go-redis/v9"
)

const defaultChannel = "funchain:runs"

// Relay implements ports.EventBus using Redis Pub/Sub.
// Nothing is written to the keyspace; messages reach current subscribers only.
type Relay struct {
	client  *backend.Client
	channel string
	buffer  int
}

// Option configures a Relay.
type Option func(*Relay)

// WithChannel sets the Pub/Sub channel name.
func WithChannel(channel string) Option {
	return func(r *Relay) {
		r.channel = channel
	}
}

// WithBuffer sets the per-subscriber buffer. Messages beyond it wait for the reader.
func WithBuffer(n int) Option {
	return func(r *Relay) {
		r.buffer = n
	}
}

// New creates a relay from a redis:// URL.
func New(url string, opts ...Option) (*Relay, error) {
	redisOpts, err := backend.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	return NewFromClient(backend.NewClient(redisOpts), opts...), nil
}

// NewFromClient creates a relay from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Relay {
	relay := &Relay{
		client:  client,
		channel: defaultChannel,
		buffer:  10,
	}

	for _, opt := range opts {
		opt(relay)
	}

	return relay
}

// Ping checks the connection.
func (r *Relay) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis unreachable: %w", err)
	}
	return nil
}

// Publish sends payload on the relay channel.
func (r *Relay) Publish(ctx context.Context, payload []byte) error {
	if err := r.client.Publish(ctx, r.channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish to redis: %w", err)
	}
	return nil
}

// Subscribe listens on the relay channel until ctx is done.
// It returns once the subscription is confirmed, so no message published afterwards is missed.
func (r *Relay) Subscribe(ctx context.Context) (<-chan []byte, error) {
	sub := r.client.Subscribe(ctx, r.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("failed to subscribe to redis: %w", err)
	}

	out := make(chan []byte, r.buffer)
	go func() {
		defer close(out)
		defer sub.Close()

		messages := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}
				select {
				case out <- []byte(msg.Payload):
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

// Close closes the redis client.
func (r *Relay) Close() error {
	return r.client.Close()
}
