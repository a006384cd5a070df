package assets

import "context"

// Published describes where a publisher stored an asset.
type Published struct {
	Location string
	Size     int64
}

// Publisher moves asset bytes to durable storage.
// Failures are reported as errors; the orchestrator never retries.
type Publisher interface {
	Publish(ctx context.Context, data []byte, filename, contentType string) (*Published, error)
}

// PublisherFunc adapts a function to the Publisher interface.
type PublisherFunc func(ctx context.Context, data []byte, filename, contentType string) (*Published, error)

func (f PublisherFunc) Publish(ctx context.Context, data []byte, filename, contentType string) (*Published, error) {
	return f(ctx, data, filename, contentType)
}
