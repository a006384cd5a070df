// Package database opens the PostgreSQL pool used by the asset repository
// and ties its lifetime to the lifecycle coordinator.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/amink7/assets-manager/pkg/lifecycle"
)

// Delay between startup connection attempts; doubled after each failure.
const initialRetryDelay = 250 * time.Millisecond

// System owns the connection pool.
type System interface {
	// Connection returns the pool for repositories.
	Connection() *sql.DB
	// Ping checks that the database answers within ctx.
	Ping(ctx context.Context) error
	// Start connects during startup and closes the pool once the lifecycle
	// context is cancelled.
	Start(lc *lifecycle.Coordinator) error
}

type database struct {
	conn        *sql.DB
	logger      *slog.Logger
	connTimeout time.Duration
}

// New opens the pool without connecting. sql.Open only checks the DSN;
// the first connection is made by Start.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	db, err := sql.Open("pgx", cfg.URL())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetimeDuration())

	return &database{
		conn:        db,
		logger:      logger.With("system", "database", "host", cfg.Host, "name", cfg.Name),
		connTimeout: cfg.ConnTimeoutDuration(),
	}, nil
}

func (d *database) Connection() *sql.DB {
	return d.conn
}

func (d *database) Ping(ctx context.Context) error {
	return d.conn.PingContext(ctx)
}

func (d *database) Start(lc *lifecycle.Coordinator) error {
	lc.OnStartup(func() {
		ctx, cancel := context.WithTimeout(lc.Context(), d.connTimeout)
		defer cancel()

		attempts, err := d.connect(ctx)
		if err != nil {
			d.logger.Error("database unreachable", "attempts", attempts, "error", err)
			return
		}
		d.logger.Info("database connection established", "attempts", attempts)
	})

	lc.OnShutdown(func() {
		<-lc.Context().Done()

		stats := d.conn.Stats()
		d.logger.Info("closing database connection", "open", stats.OpenConnections, "in_use", stats.InUse)

		if err := d.conn.Close(); err != nil {
			d.logger.Error("database close failed", "error", err)
			return
		}
		d.logger.Info("database connection closed")
	})

	return nil
}

// connect pings until the database answers or ctx ends, so the service
// can start alongside a database that is still booting.
func (d *database) connect(ctx context.Context) (int, error) {
	delay := initialRetryDelay
	for attempt := 1; ; attempt++ {
		err := d.conn.PingContext(ctx)
		if err == nil {
			return attempt, nil
		}

		d.logger.Warn("database ping failed", "attempt", attempt, "retry_in", delay, "error", err)

		select {
		case <-ctx.Done():
			return attempt, fmt.Errorf("connect: %w", err)
		case <-time.After(delay):
		}
		delay *= 2
	}
}
