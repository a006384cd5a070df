package workers

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds worker pool sizing.
type Config struct {
	Count     int `toml:"count"`
	QueueSize int `toml:"queue_size"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Count     string
	QueueSize string
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
	if overlay.Count != 0 {
		c.Count = overlay.Count
	}
	if overlay.QueueSize != 0 {
		c.QueueSize = overlay.QueueSize
	}
}

func (c *Config) loadDefaults() {
	if c.Count == 0 {
		c.Count = 4
	}
	if c.QueueSize == 0 {
		c.QueueSize = 100
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Count != "" {
		if v := os.Getenv(env.Count); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.Count = n
			}
		}
	}
	if env.QueueSize != "" {
		if v := os.Getenv(env.QueueSize); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.QueueSize = n
			}
		}
	}
}

func (c *Config) validate() error {
	if c.Count < 1 {
		return fmt.Errorf("count must be positive, got %d", c.Count)
	}
	if c.QueueSize < 1 {
		return fmt.Errorf("queue_size must be positive, got %d", c.QueueSize)
	}
	return nil
}
