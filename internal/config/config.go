// Package config loads the curveclean service configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/jungleai/curveclean-go/pkg/curveclean"
	"github.com/jungleai/curveclean-go/pkg/curveclean/figure"
	"github.com/jungleai/curveclean-go/pkg/curveclean/store"
)

// DefaultPath is the config file looked up when none is given.
const DefaultPath = "curveclean.yaml"

// Config holds all curveclean configuration.
type Config struct {
	// Server is the HTTP transport.
	Server ServerConfig `yaml:"server"`
	// Store selects the key-value backend.
	Store store.Config `yaml:"store"`
	// Figure is the plot geometry.
	Figure figure.Geometry `yaml:"figure"`
	// Debug enables on-page diagnostics and debug logging.
	Debug bool `yaml:"debug"`
	// Logging configures the logger.
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr        string   `yaml:"addr"`
	PagePath    string   `yaml:"page_path"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:        ":8050",
			PagePath:    "/dash",
			CORSOrigins: []string{"*"},
		},
		Store: store.Config{
			Backend: store.BackendRedis,
			Redis: store.RedisConfig{
				Addr: "localhost:6379",
			},
			Badger: store.BadgerConfig{
				Dir: "data/badger",
			},
			SQLite: store.SQLiteConfig{
				Path: "data/curveclean.db",
			},
		},
		Figure: figure.DefaultGeometry(),
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Defaults if config file doesn't exist
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Override with environment variables
	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Validate checks values that would break marker sizing.
func (c *Config) Validate() error {
	if c.Figure.Width <= 0 || c.Figure.Height <= 0 {
		return fmt.Errorf("invalid figure size %dx%d", c.Figure.Width, c.Figure.Height)
	}
	if c.Figure.CircleSize <= 0 {
		return fmt.Errorf("invalid circle size %v", c.Figure.CircleSize)
	}
	return nil
}

// ReconcileOptions returns the reconciler options for this configuration.
// Debug switches to verbose mode so the page shows diagnostics.
func (c *Config) ReconcileOptions() curveclean.Options {
	opts := curveclean.DefaultOptions()
	opts.Geometry = c.Figure
	if c.Debug {
		opts.Mode = curveclean.ModeVerbose
	}
	return opts
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() error {
	// Redis connection from environment
	host, port := os.Getenv("REDIS_HOST"), os.Getenv("REDIS_PORT")
	if host != "" || port != "" {
		if host == "" {
			host = "localhost"
		}
		if port == "" {
			port = "6379"
		}
		c.Store.Redis.Addr = host + ":" + port
	}
	if pw := os.Getenv("REDIS_PASSWORD"); pw != "" {
		c.Store.Redis.Password = pw
	}
	if backend := os.Getenv("CURVECLEAN_STORE"); backend != "" {
		c.Store.Backend = backend
	}
	if addr := os.Getenv("CURVECLEAN_ADDR"); addr != "" {
		c.Server.Addr = addr
	}

	// Plot geometry and debug mode
	if err := envInt("WIDTH", &c.Figure.Width); err != nil {
		return err
	}
	if err := envInt("HEIGHT", &c.Figure.Height); err != nil {
		return err
	}
	if v := os.Getenv("DEBUG"); v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid DEBUG value %q: %w", v, err)
		}
		c.Debug = debug
	}
	return nil
}

func envInt(name string, dst *int) error {
	v := os.Getenv(name)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s value %q: %w", name, v, err)
	}
	*dst = n
	return nil
}
