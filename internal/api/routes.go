package api

import (
	"fmt"
	"net/http"

	"github.com/amink7/assets-manager/internal/config"
	"github.com/amink7/assets-manager/pkg/openapi"
	"github.com/amink7/assets-manager/pkg/routes"
)

// SpecPath serves the OpenAPI document and is exempt from API key checks.
const SpecPath = "/openapi.json"

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
	runtime *Runtime,
) error {
	groups := []routes.Group{
		domain.Assets.Handler(runtime.MaxUploadSize).Routes(),
	}

	routes.Register(mux, groups...)

	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	spec.SetDescription(cfg.API.OpenAPI.Description)
	spec.AddServer(cfg.API.OpenAPI.ServerURL(cfg.API.BasePath), "asset management API")
	if cfg.API.APIKey != "" {
		spec.RequireAPIKey()
	}
	routes.Document(spec, groups...)

	specBytes, err := openapi.MarshalJSON(spec)
	if err != nil {
		return fmt.Errorf("marshal openapi spec: %w", err)
	}
	mux.HandleFunc("GET "+SpecPath, openapi.ServeSpec(specBytes))

	return nil
}
