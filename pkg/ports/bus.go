package ports

import "context"

// EventBus relays run notifications between processes serving the same chain.
// Messages are delivered to current subscribers only and never stored.
type EventBus interface {
	// Publish sends payload to every current subscriber.
	Publish(ctx context.Context, payload []byte) error

	// Subscribe returns a channel of payloads that is closed when ctx is done.
	Subscribe(ctx context.Context) (<-chan []byte, error)
}
