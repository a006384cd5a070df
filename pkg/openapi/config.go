package openapi

import (
	"fmt"
	"net/url"
	"os"
	"strings"
)

// Config holds the metadata published in the OpenAPI document.
type Config struct {
	Title       string `toml:"title"`
	Description string `toml:"description"`
	// PublicURL is the externally visible origin (scheme and host) when the
	// service runs behind a proxy. The API base path is appended to it.
	PublicURL string `toml:"public_url"`
}

// ConfigEnv names the environment variables that override Config fields.
type ConfigEnv struct {
	Title       string
	Description string
	PublicURL   string
}

// Finalize applies defaults and environment variable overrides, then checks
// that PublicURL, when set, is an absolute http(s) URL.
func (c *Config) Finalize(env *ConfigEnv) error {
	if c.Title == "" {
		c.Title = "Assets Manager API"
	}
	if c.Description == "" {
		c.Description = "Upload binary assets for asynchronous publication and search their lifecycle records."
	}
	if env != nil {
		for name, dst := range map[string]*string{
			env.Title:       &c.Title,
			env.Description: &c.Description,
			env.PublicURL:   &c.PublicURL,
		} {
			if name == "" {
				continue
			}
			if v := os.Getenv(name); v != "" {
				*dst = v
			}
		}
	}

	if c.PublicURL == "" {
		return nil
	}
	u, err := url.Parse(c.PublicURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("public_url must be an absolute http(s) URL, got %q", c.PublicURL)
	}
	return nil
}

// Merge overwrites non-empty fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Title != "" {
		c.Title = overlay.Title
	}
	if overlay.Description != "" {
		c.Description = overlay.Description
	}
	if overlay.PublicURL != "" {
		c.PublicURL = overlay.PublicURL
	}
}

// ServerURL joins PublicURL and basePath. Without a PublicURL it returns
// basePath, which clients resolve against the document's own origin.
func (c *Config) ServerURL(basePath string) string {
	if c.PublicURL == "" {
		return basePath
	}
	return strings.TrimSuffix(c.PublicURL, "/") + basePath
}
