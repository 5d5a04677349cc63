// Package config loads the user configuration file.
//
// The file is TOML and lives at $XDG_CONFIG_HOME/jsontree/config.toml
// (~/.config/jsontree/config.toml when XDG_CONFIG_HOME is unset):
//
//	[layout]
//	horizontal_gap = 200
//	vertical_gap = 100
//
//	[render]
//	theme = "dark"
//	formats = ["svg", "png"]
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
//
//	[server]
//	addr = ":8080"
//	store = "mongo"
//	document_ttl = "12h"
//
//	[mongo]
//	uri = "mongodb://localhost:27017"
//
// Every field is optional; zero values mean "use the built-in default".
// Command-line flags override the file. JSONTREE_REDIS_URL and
// JSONTREE_MONGO_URI override the corresponding file settings.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Document store backends.
const (
	StoreMemory = "memory"
	StoreMongo  = "mongo"
)

// Config is the parsed configuration file.
type Config struct {
	Layout LayoutConfig `toml:"layout"`
	Render RenderConfig `toml:"render"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
	Mongo  MongoConfig  `toml:"mongo"`

	// Path is the file the config was read from, or "" if none existed.
	Path string `toml:"-"`
	// Unknown lists keys present in the file that no field consumed.
	Unknown []string `toml:"-"`
}

type LayoutConfig struct {
	HorizontalGap float64 `toml:"horizontal_gap"`
	VerticalGap   float64 `toml:"vertical_gap"`
	Margin        float64 `toml:"margin"`
}

type RenderConfig struct {
	Theme      string   `toml:"theme"`
	VizType    string   `toml:"viz_type"`
	Formats    []string `toml:"formats"`
	NodeWidth  float64  `toml:"node_width"`
	NodeHeight float64  `toml:"node_height"`
	Scale      float64  `toml:"scale"`
}

type CacheConfig struct {
	Backend  string `toml:"backend"` // file (default), redis or none
	Dir      string `toml:"dir"`
	RedisURL string `toml:"redis_url"`
	Prefix   string `toml:"prefix"`
}

type ServerConfig struct {
	Addr        string        `toml:"addr"`
	Store       string        `toml:"store"` // memory (default) or mongo
	DocumentTTL time.Duration `toml:"document_ttl"`
	Tracing     bool          `toml:"tracing"`
}

type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// DefaultPath returns the configuration file location.
func DefaultPath() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("locate config dir: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "jsontree", "config.toml"), nil
}

// Load reads the config at path. An empty path means DefaultPath, where a
// missing file yields an empty Config. An explicit path must exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	cfg := &Config{}
	md, err := toml.DecodeFile(path, cfg)
	switch {
	case err == nil:
		cfg.Path = path
		for _, k := range md.Undecoded() {
			cfg.Unknown = append(cfg.Unknown, k.String())
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		// no config file
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("JSONTREE_REDIS_URL"); v != "" {
		c.Cache.RedisURL = v
	}
	if v := os.Getenv("JSONTREE_MONGO_URI"); v != "" {
		c.Mongo.URI = v
	}
}

// Validate checks enumerated settings. Theme, format and gap values are
// validated later by the pipeline, which owns those defaults.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case "", CacheFile, CacheNone:
	case CacheRedis:
		if c.Cache.RedisURL == "" {
			return errors.New("cache backend redis requires cache.redis_url")
		}
	default:
		return fmt.Errorf("unknown cache backend %q (must be file, redis or none)", c.Cache.Backend)
	}

	switch c.Server.Store {
	case "", StoreMemory:
	case StoreMongo:
		if c.Mongo.URI == "" {
			return errors.New("store mongo requires mongo.uri")
		}
	default:
		return fmt.Errorf("unknown store %q (must be memory or mongo)", c.Server.Store)
	}

	if c.Server.DocumentTTL < 0 {
		return errors.New("server.document_ttl must not be negative")
	}
	return nil
}
