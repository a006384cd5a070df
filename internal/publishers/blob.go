package publishers

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/amink7/assets-manager/internal/assets"
	"github.com/amink7/assets-manager/pkg/storage"
)

// BlobPrefix is the key prefix under which assets are uploaded.
const BlobPrefix = "assets/"

type blobPublisher struct {
	store  storage.System
	logger *slog.Logger
}

// NewBlob creates a publisher that uploads assets through store.
// The location it reports is the blob URL.
func NewBlob(store storage.System, logger *slog.Logger) assets.Publisher {
	return &blobPublisher{
		store:  store,
		logger: logger.With("publisher", "blob"),
	}
}

func (b *blobPublisher) Publish(ctx context.Context, data []byte, filename, contentType string) (*assets.Published, error) {
	key := BlobPrefix + objectName(filename)

	size, err := b.store.Upload(ctx, key, bytes.NewReader(data), contentType)
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", key, err)
	}

	location, err := b.store.URL(key)
	if err != nil {
		return nil, fmt.Errorf("resolve url of %s: %w", key, err)
	}

	b.logger.Debug("asset uploaded", "key", key, "size", size)
	return &assets.Published{Location: location, Size: size}, nil
}
