package api

import (
	"fmt"

	"github.com/amink7/assets-manager/internal/assets"
	"github.com/amink7/assets-manager/internal/config"
	"github.com/amink7/assets-manager/internal/publishers"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Assets assets.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(cfg *config.Config, runtime *Runtime) (*Domain, error) {
	var repo assets.Repository
	switch {
	case cfg.Assets.UsesDatabase():
		repo = assets.NewPostgresRepository(runtime.Database.Connection(), runtime.Logger)
	default:
		repo = assets.NewMemoryRepository()
	}

	publisher, err := publishers.New(&cfg.Assets.Publisher, runtime.Storage, runtime.Logger)
	if err != nil {
		return nil, fmt.Errorf("create publisher: %w", err)
	}

	return &Domain{
		Assets: assets.New(repo, publisher, runtime.Workers, runtime.Logger),
	}, nil
}
