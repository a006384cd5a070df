package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"time"
)

const (
	EnvServerHost              = "ASSETS_SERVER_HOST"
	EnvServerPort              = "ASSETS_SERVER_PORT"
	EnvServerReadHeaderTimeout = "ASSETS_SERVER_READ_HEADER_TIMEOUT"
	EnvServerReadTimeout       = "ASSETS_SERVER_READ_TIMEOUT"
	EnvServerWriteTimeout      = "ASSETS_SERVER_WRITE_TIMEOUT"
	EnvServerIdleTimeout       = "ASSETS_SERVER_IDLE_TIMEOUT"
	EnvServerShutdownTimeout   = "ASSETS_SERVER_SHUTDOWN_TIMEOUT"
)

// Duration is a time.Duration written as a string ("30s", "15m") in TOML.
type Duration time.Duration

// Duration returns d as a time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// ServerConfig holds HTTP server parameters. Read and write timeouts bound
// a whole request, so they are sized for the largest upload.
type ServerConfig struct {
	Host              string   `toml:"host"`
	Port              int      `toml:"port"`
	ReadHeaderTimeout Duration `toml:"read_header_timeout"`
	ReadTimeout       Duration `toml:"read_timeout"`
	WriteTimeout      Duration `toml:"write_timeout"`
	IdleTimeout       Duration `toml:"idle_timeout"`
	ShutdownTimeout   Duration `toml:"shutdown_timeout"`
}

// Addr returns the host:port listen address.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *ServerConfig) Finalize() error {
	c.loadDefaults()
	if err := c.loadEnv(); err != nil {
		return err
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *ServerConfig) Merge(overlay *ServerConfig) {
	if overlay.Host != "" {
		c.Host = overlay.Host
	}
	if overlay.Port != 0 {
		c.Port = overlay.Port
	}
	for _, f := range c.durations(overlay) {
		if *f.src != 0 {
			*f.dst = *f.src
		}
	}
}

type durationField struct {
	env      string
	dst, src *Duration
	def      time.Duration
}

func (c *ServerConfig) durations(overlay *ServerConfig) []durationField {
	if overlay == nil {
		overlay = &ServerConfig{}
	}
	return []durationField{
		{EnvServerReadHeaderTimeout, &c.ReadHeaderTimeout, &overlay.ReadHeaderTimeout, 10 * time.Second},
		{EnvServerReadTimeout, &c.ReadTimeout, &overlay.ReadTimeout, time.Minute},
		{EnvServerWriteTimeout, &c.WriteTimeout, &overlay.WriteTimeout, 15 * time.Minute},
		{EnvServerIdleTimeout, &c.IdleTimeout, &overlay.IdleTimeout, 2 * time.Minute},
		{EnvServerShutdownTimeout, &c.ShutdownTimeout, &overlay.ShutdownTimeout, 30 * time.Second},
	}
}

func (c *ServerConfig) loadDefaults() {
	if c.Host == "" {
		c.Host = "0.0.0.0"
	}
	if c.Port == 0 {
		c.Port = 8080
	}
	for _, f := range c.durations(nil) {
		if *f.dst == 0 {
			*f.dst = Duration(f.def)
		}
	}
}

func (c *ServerConfig) loadEnv() error {
	if v := os.Getenv(EnvServerHost); v != "" {
		c.Host = v
	}
	if v := os.Getenv(EnvServerPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvServerPort, err)
		}
		c.Port = port
	}
	for _, f := range c.durations(nil) {
		if v := os.Getenv(f.env); v != "" {
			if err := f.dst.UnmarshalText([]byte(v)); err != nil {
				return fmt.Errorf("invalid %s: %w", f.env, err)
			}
		}
	}
	return nil
}

func (c *ServerConfig) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	for _, f := range c.durations(nil) {
		if *f.dst < 0 {
			return fmt.Errorf("%s must not be negative", f.env)
		}
	}
	if c.ReadHeaderTimeout > c.ReadTimeout {
		return fmt.Errorf("read_header_timeout %s exceeds read_timeout %s", c.ReadHeaderTimeout, c.ReadTimeout)
	}
	return nil
}
