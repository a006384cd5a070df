// Package publishers provides the asset publication backends: a local
// filesystem writer and an Azure Blob Storage uploader.
package publishers

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/amink7/assets-manager/internal/assets"
	"github.com/amink7/assets-manager/pkg/storage"
)

// Backend names a publication target.
type Backend string

const (
	BackendLocal Backend = "local"
	BackendBlob  Backend = "blob"
)

// ErrNoStorage is returned when the blob backend is selected without a storage system.
var ErrNoStorage = errors.New("blob publisher requires a storage system")

var extPattern = regexp.MustCompile(`^\.[A-Za-z0-9]{1,16}$`)

// Config selects the publisher backend.
type Config struct {
	Backend   Backend `toml:"backend"`
	Directory string  `toml:"directory"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Backend   string
	Directory string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Backend != "" {
		c.Backend = overlay.Backend
	}
	if overlay.Directory != "" {
		c.Directory = overlay.Directory
	}
}

func (c *Config) loadDefaults() {
	if c.Backend == "" {
		c.Backend = BackendLocal
	}
	if c.Directory == "" {
		c.Directory = "uploads"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Backend != "" {
		if v := os.Getenv(env.Backend); v != "" {
			c.Backend = Backend(strings.ToLower(v))
		}
	}
	if env.Directory != "" {
		if v := os.Getenv(env.Directory); v != "" {
			c.Directory = v
		}
	}
}

func (c *Config) validate() error {
	switch c.Backend {
	case BackendLocal, BackendBlob:
		return nil
	}
	return fmt.Errorf("unknown publisher backend %q", c.Backend)
}

// New creates the publisher selected by cfg. The local backend writes to the
// OS filesystem; store is only required for the blob backend.
func New(cfg *Config, store storage.System, logger *slog.Logger) (assets.Publisher, error) {
	switch cfg.Backend {
	case BackendBlob:
		if store == nil {
			return nil, ErrNoStorage
		}
		return NewBlob(store, logger), nil
	case BackendLocal:
		return NewLocal(afero.NewOsFs(), cfg.Directory, logger)
	}
	return nil, fmt.Errorf("unknown publisher backend %q", cfg.Backend)
}

// objectName returns a collision-free name that keeps a safe extension of filename.
func objectName(filename string) string {
	ext := filepath.Ext(filename)
	if !extPattern.MatchString(ext) {
		ext = ""
	}
	return uuid.NewString() + ext
}
