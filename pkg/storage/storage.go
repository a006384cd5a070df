// Package storage provides blob storage operations with an Azure Blob Storage implementation.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"

	"github.com/amink7/assets-manager/pkg/lifecycle"
)

// Azure rejects blob names longer than this.
const maxKeyLength = 1024

var (
	ErrEmptyKey   = errors.New("storage key must not be empty")
	ErrInvalidKey = errors.New("storage key contains invalid path segment")
	// ErrNotReady is returned by Ready until the container has been created
	// or found.
	ErrNotReady = errors.New("storage container not ready")
)

// System manages blob storage operations and lifecycle coordination.
type System interface {
	// Start registers a startup hook that creates the container if needed.
	Start(lc *lifecycle.Coordinator) error
	// Ready reports whether the container is usable.
	Ready() error
	// Upload streams reader to the blob at key and returns the bytes written.
	Upload(ctx context.Context, key string, reader io.Reader, contentType string) (int64, error)
	// URL returns the absolute URL of the blob at key.
	URL(key string) (string, error)
}

type azure struct {
	client    *azblob.Client
	container string
	upload    azblob.UploadStreamOptions
	ready     atomic.Bool
	logger    *slog.Logger
}

// New creates a storage system from a finalized configuration.
// A connection string takes precedence; otherwise the service URL is used with
// the default Azure credential chain. No request is made until Start is called.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	client, err := newClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}

	return &azure{
		client:    client,
		container: cfg.ContainerName,
		upload: azblob.UploadStreamOptions{
			BlockSize:   cfg.BlockSizeBytes(),
			Concurrency: cfg.Concurrency,
		},
		logger: logger.With("system", "storage", "container", cfg.ContainerName),
	}, nil
}

func newClient(cfg *Config) (*azblob.Client, error) {
	if cfg.ConnectionString != "" {
		return azblob.NewClientFromConnectionString(cfg.ConnectionString, nil)
	}

	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("default credential: %w", err)
	}
	return azblob.NewClient(cfg.ServiceURL, cred, nil)
}

func (a *azure) Start(lc *lifecycle.Coordinator) error {
	a.logger.Info("starting storage system")

	lc.OnStartup(func() {
		if err := a.ensureContainer(lc.Context()); err != nil {
			a.logger.Error("storage container initialization failed", "error", err)
			return
		}
		a.ready.Store(true)
		a.logger.Info("storage container ready")
	})

	return nil
}

func (a *azure) ensureContainer(ctx context.Context) error {
	_, err := a.client.CreateContainer(ctx, a.container, nil)
	if err == nil || bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
		return nil
	}
	return err
}

func (a *azure) Ready() error {
	if !a.ready.Load() {
		return ErrNotReady
	}
	return nil
}

func (a *azure) Upload(ctx context.Context, key string, reader io.Reader, contentType string) (int64, error) {
	if err := validateKey(key); err != nil {
		return 0, err
	}

	counter := &countingReader{r: reader}
	opts := a.upload
	opts.HTTPHeaders = &blob.HTTPHeaders{BlobContentType: &contentType}

	if _, err := a.client.UploadStream(ctx, a.container, key, counter, &opts); err != nil {
		return 0, fmt.Errorf("upload blob %s: %w", key, err)
	}

	a.logger.Debug("blob uploaded", "key", key, "bytes", counter.n)
	return counter.n, nil
}

func (a *azure) URL(key string) (string, error) {
	if err := validateKey(key); err != nil {
		return "", err
	}

	return a.client.
		ServiceClient().
		NewContainerClient(a.container).
		NewBlobClient(key).
		URL(), nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// validateKey rejects keys that could escape the container's key space:
// parent segments, backslashes, absolute keys and control characters.
func validateKey(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if len(key) > maxKeyLength {
		return fmt.Errorf("%w: longer than %d bytes", ErrInvalidKey, maxKeyLength)
	}
	if strings.Contains(key, "..") || strings.ContainsAny(key, "\\") || strings.HasPrefix(key, "/") {
		return ErrInvalidKey
	}
	for _, r := range key {
		if r < 0x20 || r == 0x7f {
			return ErrInvalidKey
		}
	}
	return nil
}
