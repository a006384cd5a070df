package api

import (
	"github.com/amink7/assets-manager/internal/config"
	"github.com/amink7/assets-manager/internal/infrastructure"
	"github.com/amink7/assets-manager/pkg/middleware"
)

// Runtime is the API's view of the shared infrastructure: the same
// subsystems with an API-scoped logger, plus the request limits and
// middleware settings the handlers need.
type Runtime struct {
	*infrastructure.Infrastructure
	MaxUploadSize int64

	apiKey string
	cors   *middleware.CORSConfig
}

// NewRuntime scopes infra to the API module.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	scoped := *infra
	scoped.Logger = infra.Logger.With("module", "api")

	return &Runtime{
		Infrastructure: &scoped,
		MaxUploadSize:  cfg.API.MaxUploadSizeBytes(),
		apiKey:         cfg.API.APIKey,
		cors:           &cfg.API.CORS,
	}
}

// Middleware returns the chain wrapped around every API route, outermost
// first. CORS runs before authentication so preflight requests never need
// a key.
func (r *Runtime) Middleware() middleware.Chain {
	return middleware.Chain{
		middleware.CORS(r.cors),
		middleware.Logger(r.Logger),
		middleware.APIKey(r.apiKey, r.Logger, SpecPath),
	}
}
