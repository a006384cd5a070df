// Package infrastructure provides core service initialization for application startup.
// It assembles common dependencies (logging, database, storage, workers) that domain systems require.
package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/amink7/assets-manager/internal/config"
	"github.com/amink7/assets-manager/pkg/database"
	"github.com/amink7/assets-manager/pkg/lifecycle"
	"github.com/amink7/assets-manager/pkg/storage"
	"github.com/amink7/assets-manager/pkg/workers"
)

// Infrastructure holds the core systems required by all domain modules.
// Database and Storage are nil when the configuration does not select them.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Storage   storage.System
	Workers   *workers.Pool
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	return NewWithLogger(cfg, slog.New(slog.NewTextHandler(os.Stderr, nil)))
}

// NewWithLogger is New with a caller-provided logger.
func NewWithLogger(cfg *config.Config, logger *slog.Logger) (*Infrastructure, error) {
	infra := &Infrastructure{
		Lifecycle: lifecycle.New(),
		Logger:    logger,
		Workers:   workers.New(&cfg.Workers, logger),
	}

	if cfg.Assets.UsesDatabase() {
		db, err := database.New(&cfg.Database, logger)
		if err != nil {
			return nil, fmt.Errorf("database init failed: %w", err)
		}
		infra.Database = db
	}

	if cfg.Assets.UsesStorage() {
		store, err := storage.New(&cfg.Storage, logger)
		if err != nil {
			return nil, fmt.Errorf("storage init failed: %w", err)
		}
		infra.Storage = store
	}

	return infra, nil
}

// Start registers all infrastructure systems with the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	if i.Database != nil {
		if err := i.Database.Start(i.Lifecycle); err != nil {
			return fmt.Errorf("database start failed: %w", err)
		}
	}
	if i.Storage != nil {
		if err := i.Storage.Start(i.Lifecycle); err != nil {
			return fmt.Errorf("storage start failed: %w", err)
		}
	}
	if err := i.Workers.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("workers start failed: %w", err)
	}
	return nil
}

// ErrNotReady is returned by Ready outside the running state.
var ErrNotReady = errors.New("not ready")

// Ready reports whether the service can take traffic: startup has finished,
// a configured database answers a ping and configured blob storage has its
// container.
func (i *Infrastructure) Ready(ctx context.Context) error {
	if state := i.Lifecycle.State(); state != lifecycle.Running {
		return fmt.Errorf("%w: %s", ErrNotReady, state)
	}
	if i.Database != nil {
		if err := i.Database.Ping(ctx); err != nil {
			return fmt.Errorf("database: %w", err)
		}
	}
	if i.Storage != nil {
		if err := i.Storage.Ready(); err != nil {
			return fmt.Errorf("storage: %w", err)
		}
	}
	return nil
}
