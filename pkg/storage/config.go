package storage

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"

	"github.com/amink7/assets-manager/pkg/formatting"
)

// Azure container names: 3-63 lowercase letters, digits and single hyphens,
// starting and ending with a letter or digit.
var containerName = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9]|-[a-z0-9]){2,62}$`)

// Block limits accepted by the Azure staged upload API.
const (
	minBlockSize = 64 << 10
	maxBlockSize = 4000 << 20
)

// Config holds Azure Blob Storage connection parameters.
// Either ConnectionString or ServiceURL must be set. When only ServiceURL is
// set the client authenticates with the default Azure credential chain.
type Config struct {
	ContainerName    string `toml:"container_name"`
	ConnectionString string `toml:"connection_string"`
	ServiceURL       string `toml:"service_url"`
	// BlockSize is a human readable size such as "4MiB".
	BlockSize   string `toml:"block_size"`
	Concurrency int    `toml:"concurrency"`

	blockSize int64
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	ContainerName    string
	ConnectionString string
	ServiceURL       string
	BlockSize        string
	Concurrency      string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		if err := c.loadEnv(env); err != nil {
			return err
		}
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	for dst, src := range map[*string]string{
		&c.ContainerName:    overlay.ContainerName,
		&c.ConnectionString: overlay.ConnectionString,
		&c.ServiceURL:       overlay.ServiceURL,
		&c.BlockSize:        overlay.BlockSize,
	} {
		if src != "" {
			*dst = src
		}
	}
	if overlay.Concurrency != 0 {
		c.Concurrency = overlay.Concurrency
	}
}

// BlockSizeBytes returns the parsed upload block size. Valid after Finalize.
func (c *Config) BlockSizeBytes() int64 {
	return c.blockSize
}

func (c *Config) loadDefaults() {
	if c.ContainerName == "" {
		c.ContainerName = "assets"
	}
	if c.BlockSize == "" {
		c.BlockSize = "4MiB"
	}
	if c.Concurrency == 0 {
		c.Concurrency = 4
	}
}

func (c *Config) loadEnv(env *Env) error {
	for name, dst := range map[string]*string{
		env.ContainerName:    &c.ContainerName,
		env.ConnectionString: &c.ConnectionString,
		env.ServiceURL:       &c.ServiceURL,
		env.BlockSize:        &c.BlockSize,
	} {
		if v := lookup(name); v != "" {
			*dst = v
		}
	}

	if v := lookup(env.Concurrency); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", env.Concurrency, err)
		}
		c.Concurrency = n
	}
	return nil
}

func lookup(name string) string {
	if name == "" {
		return ""
	}
	return os.Getenv(name)
}

func (c *Config) validate() error {
	if len(c.ContainerName) > 63 || !containerName.MatchString(c.ContainerName) {
		return fmt.Errorf("container_name %q: must be 3-63 lowercase letters, digits or hyphens", c.ContainerName)
	}
	if c.ConnectionString == "" && c.ServiceURL == "" {
		return errors.New("connection_string or service_url required")
	}

	size, err := formatting.ParseBytes(c.BlockSize)
	if err != nil {
		return fmt.Errorf("block_size: %w", err)
	}
	if size < minBlockSize || size > maxBlockSize {
		return fmt.Errorf("block_size %s: must be between %s and %s",
			c.BlockSize,
			formatting.FormatBytes(minBlockSize, 0),
			formatting.FormatBytes(maxBlockSize, 0))
	}
	c.blockSize = size

	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be positive, got %d", c.Concurrency)
	}
	return nil
}
