package main

import (
	"context"
	"fmt"
	"time"

	"github.com/amink7/assets-manager/internal/config"
	"github.com/amink7/assets-manager/internal/infrastructure"
	"github.com/amink7/assets-manager/pkg/formatting"
)

// Server owns the infrastructure, the mounted modules and the HTTP listener
// for one process.
type Server struct {
	infra           *infrastructure.Infrastructure
	modules         *Modules
	http            *httpServer
	shutdownTimeout time.Duration
}

func NewServer(cfg *config.Config) (*Server, error) {
	infra, err := infrastructure.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("infrastructure: %w", err)
	}

	modules, err := NewModules(infra, cfg)
	if err != nil {
		return nil, fmt.Errorf("modules: %w", err)
	}

	router := buildRouter(infra)
	modules.Mount(router)

	infra.Logger.Info(
		"server initialized",
		"addr", cfg.Server.Addr(),
		"version", cfg.Version,
		"env", cfg.Env(),
		"repository", cfg.Assets.Repository,
		"publisher", cfg.Assets.Publisher.Backend,
		"max_upload_size", formatting.FormatBytes(cfg.API.MaxUploadSizeBytes(), 1),
	)

	return &Server{
		infra:           infra,
		modules:         modules,
		http:            newHTTPServer(&cfg.Server, router, infra.Logger),
		shutdownTimeout: cfg.ShutdownTimeoutDuration(),
	}, nil
}

// Run starts every subsystem, blocks until ctx is done and then shuts the
// process down within the configured shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	if err := s.start(); err != nil {
		return err
	}

	<-ctx.Done()
	s.infra.Logger.Info("shutdown requested", "cause", context.Cause(ctx))

	return s.shutdown()
}

func (s *Server) start() error {
	s.infra.Logger.Info("starting service")

	if err := s.infra.Start(); err != nil {
		return fmt.Errorf("start infrastructure: %w", err)
	}

	if err := s.http.Start(s.infra.Lifecycle); err != nil {
		return fmt.Errorf("start http: %w", err)
	}

	go func() {
		s.infra.Lifecycle.WaitForStartup()
		s.infra.Logger.Info("all subsystems ready")
	}()

	return nil
}

func (s *Server) shutdown() error {
	started := time.Now()
	s.infra.Logger.Info("initiating shutdown", "timeout", s.shutdownTimeout)

	if err := s.infra.Lifecycle.Shutdown(s.shutdownTimeout); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	s.infra.Logger.Info("service stopped", "elapsed", time.Since(started).Round(time.Millisecond))
	return nil
}
