package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/amink7/assets-manager/internal/publishers"
)

// Asset repository backends.
const (
	RepositoryPostgres = "postgres"
	RepositoryMemory   = "memory"
)

const EnvAssetsRepository = "ASSETS_REPOSITORY"

var publisherEnv = &publishers.Env{
	Backend:   "ASSETS_PUBLISHER_BACKEND",
	Directory: "ASSETS_PUBLISHER_DIRECTORY",
}

// AssetsConfig selects where asset records are kept and where assets are published.
type AssetsConfig struct {
	Repository string            `toml:"repository"`
	Publisher  publishers.Config `toml:"publisher"`
}

// UsesDatabase reports whether records are kept in PostgreSQL.
func (c *AssetsConfig) UsesDatabase() bool {
	return c.Repository == RepositoryPostgres
}

// UsesStorage reports whether assets are published to blob storage.
func (c *AssetsConfig) UsesStorage() bool {
	return c.Publisher.Backend == publishers.BackendBlob
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *AssetsConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Publisher.Finalize(publisherEnv); err != nil {
		return fmt.Errorf("publisher: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *AssetsConfig) Merge(overlay *AssetsConfig) {
	if overlay.Repository != "" {
		c.Repository = overlay.Repository
	}
	c.Publisher.Merge(&overlay.Publisher)
}

func (c *AssetsConfig) loadDefaults() {
	if c.Repository == "" {
		c.Repository = RepositoryPostgres
	}
}

func (c *AssetsConfig) loadEnv() {
	if v := os.Getenv(EnvAssetsRepository); v != "" {
		c.Repository = strings.ToLower(v)
	}
}

func (c *AssetsConfig) validate() error {
	switch c.Repository {
	case RepositoryPostgres, RepositoryMemory:
		return nil
	}
	return fmt.Errorf("unknown repository %q", c.Repository)
}
