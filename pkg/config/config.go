// Package config loads flowtower settings from a TOML file.
//
// A config file has four sections; every key is optional and missing keys
// keep their defaults:
//
//	[server]
//	addr = ":8420"
//	width = 1280
//	height = 800
//	shutdown_timeout = "5s"
//
//	[diagram]
//	direction = "vertical"
//	node_width = 200
//	fit_to_screen = true
//
//	[export]
//	scale = 2.0
//	backends = ["rsvg", "graphviz"]
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
//	ttl = "24h"
//
// The default location follows XDG: $XDG_CONFIG_HOME/flowtower/config.toml,
// falling back to ~/.config/flowtower/config.toml.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/flowtower/pkg/errors"
	"github.com/matzehuels/flowtower/pkg/workflow"
)

// AppName names the config and cache directories.
const AppName = "flowtower"

// Cache backends.
const (
	CacheNone  = "none"
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheMongo = "mongo"
)

// Export backends, tried in the configured order.
const (
	BackendRSVG     = "rsvg"
	BackendGraphviz = "graphviz"
)

// Config is the complete flowtower configuration.
type Config struct {
	Server  ServerConfig     `toml:"server"`
	Diagram workflow.Options `toml:"diagram"`
	Export  ExportConfig     `toml:"export"`
	Cache   CacheConfig      `toml:"cache"`
}

// ServerConfig configures the host server.
type ServerConfig struct {
	Addr            string        `toml:"addr"`
	Width           float64       `toml:"width"`
	Height          float64       `toml:"height"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`
}

// ExportConfig configures image export.
type ExportConfig struct {
	Scale    float64  `toml:"scale"`
	Backends []string `toml:"backends"`
}

// CacheConfig selects and configures the artifact cache.
type CacheConfig struct {
	Backend         string        `toml:"backend"`
	Dir             string        `toml:"dir"`
	RedisURL        string        `toml:"redis_url"`
	MongoURI        string        `toml:"mongo_uri"`
	MongoDatabase   string        `toml:"mongo_database"`
	MongoCollection string        `toml:"mongo_collection"`
	Prefix          string        `toml:"prefix"`
	TTL             time.Duration `toml:"ttl"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8420",
			Width:           1280,
			Height:          800,
			ShutdownTimeout: 5 * time.Second,
		},
		Diagram: workflow.DefaultOptions(),
		Export: ExportConfig{
			Scale:    2,
			Backends: []string{BackendRSVG, BackendGraphviz},
		},
		Cache: CacheConfig{
			Backend:         CacheFile,
			MongoDatabase:   AppName,
			MongoCollection: "artifacts",
			TTL:             7 * 24 * time.Hour,
		},
	}
}

// Path returns the default config file path.
func Path() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, AppName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName, "config.toml"), nil
}

// Load reads the config file at path on top of the defaults. An empty path
// loads the default location, where a missing file is not an error.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := Path()
		if err != nil {
			return Default(), nil
		}
		path = p
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return Default(), nil
		}
		if os.IsNotExist(err) {
			return Config{}, errors.New(errors.ErrCodeFileNotFound, "config file %s not found", path)
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Decode reads TOML from r on top of the defaults and validates the result.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, errors.New(errors.ErrCodeInvalidInput, "unknown config key %q", undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Encode writes cfg as TOML.
func (c Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	c.Diagram = c.Diagram.WithDefaults()
	if err := c.Diagram.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidOptions, err, "[diagram]")
	}
	if c.Server.Width < 0 || c.Server.Height < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "[server] width and height must not be negative")
	}
	if c.Export.Scale <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "[export] scale must be positive")
	}
	for _, b := range c.Export.Backends {
		if err := errors.ValidateFormat(b, BackendRSVG, BackendGraphviz); err != nil {
			return fmt.Errorf("[export] backends: %w", err)
		}
	}
	if err := errors.ValidateFormat(c.Cache.Backend, CacheNone, CacheFile, CacheRedis, CacheMongo); err != nil {
		return fmt.Errorf("[cache] backend: %w", err)
	}
	switch {
	case c.Cache.Backend == CacheRedis && c.Cache.RedisURL == "":
		return errors.New(errors.ErrCodeInvalidInput, "[cache] redis_url is required for the redis backend")
	case c.Cache.Backend == CacheMongo && c.Cache.MongoURI == "":
		return errors.New(errors.ErrCodeInvalidInput, "[cache] mongo_uri is required for the mongo backend")
	}
	return nil
}
