package config

import (
	"fmt"
	"os"

	"github.com/amink7/assets-manager/pkg/formatting"
	"github.com/amink7/assets-manager/pkg/middleware"
	"github.com/amink7/assets-manager/pkg/openapi"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "ASSETS_CORS_ENABLED",
	Origins:          "ASSETS_CORS_ORIGINS",
	AllowedMethods:   "ASSETS_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "ASSETS_CORS_ALLOWED_HEADERS",
	ExposedHeaders:   "ASSETS_CORS_EXPOSED_HEADERS",
	AllowCredentials: "ASSETS_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "ASSETS_CORS_MAX_AGE",
}

var openAPIEnv = &openapi.ConfigEnv{
	Title:       "ASSETS_OPENAPI_TITLE",
	Description: "ASSETS_OPENAPI_DESCRIPTION",
	PublicURL:   "ASSETS_OPENAPI_PUBLIC_URL",
}

const (
	EnvAPIBasePath      = "ASSETS_API_BASE_PATH"
	EnvAPIMaxUploadSize = "ASSETS_API_MAX_UPLOAD_SIZE"
	EnvAPIKey           = "ASSETS_API_KEY"
)

// APIConfig holds API routing, authentication, CORS, and OpenAPI settings.
type APIConfig struct {
	BasePath      string                `toml:"base_path"`
	MaxUploadSize string                `toml:"max_upload_size"`
	APIKey        string                `toml:"api_key"`
	CORS          middleware.CORSConfig `toml:"cors"`
	OpenAPI       openapi.Config        `toml:"openapi"`
}

// MaxUploadSizeBytes returns MaxUploadSize in bytes. The value is checked by
// Finalize.
func (c *APIConfig) MaxUploadSizeBytes() int64 {
	size, _ := formatting.ParseBytes(c.MaxUploadSize)
	return size
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested CORS and OpenAPI configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.OpenAPI.Finalize(openAPIEnv); err != nil {
		return fmt.Errorf("openapi: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxUploadSize != "" {
		c.MaxUploadSize = overlay.MaxUploadSize
	}
	if overlay.APIKey != "" {
		c.APIKey = overlay.APIKey
	}

	c.CORS.Merge(&overlay.CORS)
	c.OpenAPI.Merge(&overlay.OpenAPI)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.MaxUploadSize == "" {
		c.MaxUploadSize = "50MB"
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv(EnvAPIBasePath); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv(EnvAPIMaxUploadSize); v != "" {
		c.MaxUploadSize = v
	}
	if v := os.Getenv(EnvAPIKey); v != "" {
		c.APIKey = v
	}
}

func (c *APIConfig) validate() error {
	size, err := formatting.ParseBytes(c.MaxUploadSize)
	if err != nil {
		return fmt.Errorf("invalid max_upload_size: %w", err)
	}
	if size <= 0 {
		return fmt.Errorf("max_upload_size must be positive, got %q", c.MaxUploadSize)
	}
	return nil
}
