package publishers

import "context"

// Publisher sends events to a downstream sink (webhook, queue, topic).
type Publisher interface {
	ID() string
	Type() string
	Publish(ctx context.Context, evt Event) error
}

// Closer is implemented by publishers holding connections that must be
// released on shutdown.
type Closer interface {
	Close() error
}
