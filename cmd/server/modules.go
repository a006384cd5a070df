package main

import (
	"context"
	"net/http"
	"time"

	"github.com/amink7/assets-manager/internal/api"
	"github.com/amink7/assets-manager/internal/config"
	"github.com/amink7/assets-manager/internal/infrastructure"
	"github.com/amink7/assets-manager/pkg/handlers"
	"github.com/amink7/assets-manager/pkg/module"
)

const readyTimeout = 2 * time.Second

// Modules are the prefixed handler trees mounted on the root router.
type Modules struct {
	API *module.Module
}

func NewModules(infra *infrastructure.Infrastructure, cfg *config.Config) (*Modules, error) {
	apiModule, err := api.NewModule(cfg, infra)
	if err != nil {
		return nil, err
	}
	return &Modules{API: apiModule}, nil
}

func (m *Modules) Mount(router *module.Router) {
	router.Mount(m.API)
}

type healthStatus struct {
	Status string `json:"status"`
	State  string `json:"state,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// buildRouter serves the liveness and readiness endpoints outside any module
// so they bypass API key checks.
func buildRouter(infra *infrastructure.Infrastructure) *module.Router {
	router := module.NewRouter()

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		handlers.RespondJSON(w, http.StatusOK, healthStatus{
			Status: "ok",
			State:  infra.Lifecycle.State().String(),
		})
	})

	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()

		if err := infra.Ready(ctx); err != nil {
			handlers.RespondJSON(w, http.StatusServiceUnavailable, healthStatus{
				Status: "not ready",
				Reason: err.Error(),
			})
			return
		}
		handlers.RespondJSON(w, http.StatusOK, healthStatus{Status: "ready"})
	})

	return router
}
