// Package config loads the service configuration from TOML files and
// ASSETS_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"

	"github.com/amink7/assets-manager/pkg/database"
	"github.com/amink7/assets-manager/pkg/storage"
	"github.com/amink7/assets-manager/pkg/workers"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvAssetsEnv             = "ASSETS_ENV"
	EnvAssetsShutdownTimeout = "ASSETS_SHUTDOWN_TIMEOUT"
	EnvAssetsVersion         = "ASSETS_VERSION"
)

// DatabaseEnv maps database settings to ASSETS_DB_* variables.
var DatabaseEnv = &database.Env{
	Host:            "ASSETS_DB_HOST",
	Port:            "ASSETS_DB_PORT",
	Name:            "ASSETS_DB_NAME",
	User:            "ASSETS_DB_USER",
	Password:        "ASSETS_DB_PASSWORD",
	SSLMode:         "ASSETS_DB_SSL_MODE",
	MaxOpenConns:    "ASSETS_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "ASSETS_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "ASSETS_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "ASSETS_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	ContainerName:    "ASSETS_STORAGE_CONTAINER_NAME",
	ConnectionString: "ASSETS_STORAGE_CONNECTION_STRING",
	ServiceURL:       "ASSETS_STORAGE_SERVICE_URL",
	BlockSize:        "ASSETS_STORAGE_BLOCK_SIZE",
	Concurrency:      "ASSETS_STORAGE_CONCURRENCY",
}

var workersEnv = &workers.Env{
	Count:     "ASSETS_WORKERS_COUNT",
	QueueSize: "ASSETS_WORKERS_QUEUE_SIZE",
}

// Config is the root configuration for the assets service.
type Config struct {
	Server          ServerConfig    `toml:"server"`
	Database        database.Config `toml:"database"`
	Storage         storage.Config  `toml:"storage"`
	API             APIConfig       `toml:"api"`
	Assets          AssetsConfig    `toml:"assets"`
	Workers         workers.Config  `toml:"workers"`
	ShutdownTimeout Duration        `toml:"shutdown_timeout"`
	Version         string          `toml:"version"`
}

// Env returns the ASSETS_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvAssetsEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration bounds the whole process shutdown, HTTP drain
// included.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	return c.ShutdownTimeout.Duration()
}

// Load reads configuration from the working directory. See LoadFS.
func Load() (*Config, error) {
	return LoadFS(afero.NewOsFs())
}

// LoadFS reads config.toml from fsys if present, merges the config.<env>.toml
// overlay selected by ASSETS_ENV, and finalizes the result. Unknown keys in
// either file are an error. Without any file, defaults and environment
// variables provide all configuration.
func LoadFS(fsys afero.Fs) (*Config, error) {
	cfg := &Config{}

	if ok, _ := afero.Exists(fsys, BaseConfigFile); ok {
		loaded, err := load(fsys, BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(fsys); path != "" {
		overlay, err := load(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("load overlay: %w", err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != 0 {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.API.Merge(&overlay.API)
	c.Assets.Merge(&overlay.Assets)
	c.Workers.Merge(&overlay.Workers)
}

// Database and storage are only finalized when the assets section selects
// them, so a memory/local deployment needs neither.
func (c *Config) finalize() error {
	c.loadDefaults()
	if err := c.loadEnv(); err != nil {
		return err
	}

	if err := c.validate(); err != nil {
		return err
	}

	sections := []struct {
		name     string
		finalize func() error
		enabled  bool
	}{
		{"server", c.Server.Finalize, true},
		{"api", c.API.Finalize, true},
		{"assets", c.Assets.Finalize, true},
		{"workers", func() error { return c.Workers.Finalize(workersEnv) }, true},
		{"database", func() error { return c.Database.Finalize(DatabaseEnv) }, c.Assets.UsesDatabase()},
		{"storage", func() error { return c.Storage.Finalize(storageEnv) }, c.Assets.UsesStorage()},
	}
	for _, s := range sections {
		if !s.enabled {
			continue
		}
		if err := s.finalize(); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = Duration(30 * time.Second)
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() error {
	if v := os.Getenv(EnvAssetsShutdownTimeout); v != "" {
		if err := c.ShutdownTimeout.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("%s: %w", EnvAssetsShutdownTimeout, err)
		}
	}
	if v := os.Getenv(EnvAssetsVersion); v != "" {
		c.Version = v
	}
	return nil
}

func (c *Config) validate() error {
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown_timeout must be positive, got %s", c.ShutdownTimeout)
	}
	return nil
}

func load(fsys afero.Fs, path string) (*Config, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	defer f.Close()

	var cfg Config
	dec := toml.NewDecoder(f).DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, fmt.Errorf("parse %s: unknown keys:\n%s", path, strict.String())
		}
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return &cfg, nil
}

func overlayPath(fsys afero.Fs) string {
	env := os.Getenv(EnvAssetsEnv)
	if env == "" {
		return ""
	}
	path := fmt.Sprintf(OverlayConfigPattern, env)
	if ok, _ := afero.Exists(fsys, path); ok {
		return path
	}
	return ""
}
