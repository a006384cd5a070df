// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"net/http"

	"github.com/amink7/assets-manager/internal/config"
	"github.com/amink7/assets-manager/internal/infrastructure"
	"github.com/amink7/assets-manager/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)

	domain, err := NewDomain(cfg, runtime)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	if err := registerRoutes(mux, domain, cfg, runtime); err != nil {
		return nil, err
	}

	m := module.New(cfg.API.BasePath, mux)
	for _, fn := range runtime.Middleware() {
		m.Use(fn)
	}

	return m, nil
}
