package database

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"slices"
	"strconv"
	"time"
)

var sslModes = []string{"disable", "allow", "prefer", "require", "verify-ca", "verify-full"}

// Config holds PostgreSQL connection and pool parameters.
type Config struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	Name            string `toml:"name"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	SSLMode         string `toml:"ssl_mode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime string `toml:"conn_max_lifetime"`
	ConnTimeout     string `toml:"conn_timeout"`
}

// Env names the environment variables that override Config fields.
// Empty names are skipped.
type Env struct {
	Host            string
	Port            string
	Name            string
	User            string
	Password        string
	SSLMode         string
	MaxOpenConns    string
	MaxIdleConns    string
	ConnMaxLifetime string
	ConnTimeout     string
}

// ConnMaxLifetimeDuration returns ConnMaxLifetime as a time.Duration.
func (c *Config) ConnMaxLifetimeDuration() time.Duration {
	d, _ := time.ParseDuration(c.ConnMaxLifetime)
	return d
}

// ConnTimeoutDuration returns ConnTimeout as a time.Duration.
func (c *Config) ConnTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ConnTimeout)
	return d
}

// URL returns the connection as a postgres:// URL. Both the pgx driver and
// the migration tool accept it, and credentials are escaped.
func (c *Config) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:     "/" + c.Name,
		RawQuery: url.Values{"sslmode": {c.SSLMode}}.Encode(),
	}
	return u.String()
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
	merge(&c.Host, overlay.Host)
	merge(&c.Name, overlay.Name)
	merge(&c.User, overlay.User)
	merge(&c.Password, overlay.Password)
	merge(&c.SSLMode, overlay.SSLMode)
	merge(&c.ConnMaxLifetime, overlay.ConnMaxLifetime)
	merge(&c.ConnTimeout, overlay.ConnTimeout)
	merge(&c.Port, overlay.Port)
	merge(&c.MaxOpenConns, overlay.MaxOpenConns)
	merge(&c.MaxIdleConns, overlay.MaxIdleConns)
}

// Pool defaults are sized for a single service instance whose writes come
// from a handful of publish workers.
func (c *Config) loadDefaults() {
	c.Host = pick(c.Host, "localhost")
	c.Port = pick(c.Port, 5432)
	c.SSLMode = pick(c.SSLMode, "disable")
	c.MaxOpenConns = pick(c.MaxOpenConns, 25)
	c.MaxIdleConns = pick(c.MaxIdleConns, 5)
	c.ConnMaxLifetime = pick(c.ConnMaxLifetime, "15m")
	c.ConnTimeout = pick(c.ConnTimeout, "5s")
}

// Unparsable integers leave the current value in place.
func (c *Config) loadEnv(env *Env) {
	for name, dst := range map[string]*string{
		env.Host:            &c.Host,
		env.Name:            &c.Name,
		env.User:            &c.User,
		env.Password:        &c.Password,
		env.SSLMode:         &c.SSLMode,
		env.ConnMaxLifetime: &c.ConnMaxLifetime,
		env.ConnTimeout:     &c.ConnTimeout,
	} {
		if v := lookup(name); v != "" {
			*dst = v
		}
	}
	for name, dst := range map[string]*int{
		env.Port:         &c.Port,
		env.MaxOpenConns: &c.MaxOpenConns,
		env.MaxIdleConns: &c.MaxIdleConns,
	} {
		if n, err := strconv.Atoi(lookup(name)); err == nil {
			*dst = n
		}
	}
}

func (c *Config) validate() error {
	if c.Name == "" {
		return fmt.Errorf("name required")
	}
	if c.User == "" {
		return fmt.Errorf("user required")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if !slices.Contains(sslModes, c.SSLMode) {
		return fmt.Errorf("invalid ssl_mode %q", c.SSLMode)
	}
	if c.MaxIdleConns > c.MaxOpenConns {
		return fmt.Errorf("max_idle_conns %d exceeds max_open_conns %d", c.MaxIdleConns, c.MaxOpenConns)
	}
	if _, err := time.ParseDuration(c.ConnMaxLifetime); err != nil {
		return fmt.Errorf("invalid conn_max_lifetime: %w", err)
	}
	if d, err := time.ParseDuration(c.ConnTimeout); err != nil || d <= 0 {
		return fmt.Errorf("invalid conn_timeout %q", c.ConnTimeout)
	}
	return nil
}

func lookup(name string) string {
	if name == "" {
		return ""
	}
	return os.Getenv(name)
}

func pick[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}

func merge[T comparable](dst *T, v T) {
	*dst = pick(v, *dst)
}
