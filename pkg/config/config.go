// Package config loads flowlayout configuration files.
//
// A file may be TOML (the default, config.toml) or YAML (.yaml/.yml). Both
// carry the same sections:
//
//	version = 1
//
//	[layout]
//	horizontal_margin = 10
//	extra_sweeps = 2
//
//	[pipeline]
//	expand_flows = true
//
//	[cache]
//	backend = "redis"
//	url = "redis://localhost:6379/0"
//	ttl = "24h"
//
//	[server]
//	addr = ":8080"
//	namespace = "etl"
//
// Values absent from the file keep their compiled defaults; CLI flags are
// applied on top by the caller.
package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/flowlayout/pkg/cache"
	flowerrors "github.com/matzehuels/flowlayout/pkg/errors"
	"github.com/matzehuels/flowlayout/pkg/layout"
)

// CurrentVersion is the only config schema version understood.
const CurrentVersion = 1

const appName = "flowlayout"

// Config is the full configuration file.
type Config struct {
	Version  int            `toml:"version" yaml:"version"`
	Layout   layout.Options `toml:"layout" yaml:"layout"`
	Pipeline Pipeline       `toml:"pipeline" yaml:"pipeline"`
	Cache    Cache          `toml:"cache" yaml:"cache"`
	Server   Server         `toml:"server" yaml:"server"`
}

// Pipeline holds graph preparation switches.
type Pipeline struct {
	AssignLevels bool `toml:"assign_levels" yaml:"assign_levels"`
	BreakCycles  bool `toml:"break_cycles" yaml:"break_cycles"`
	ExpandFlows  bool `toml:"expand_flows" yaml:"expand_flows"`
}

// Cache selects the cache backend.
type Cache struct {
	Backend    string        `toml:"backend" yaml:"backend"`
	Dir        string        `toml:"dir" yaml:"dir"`
	URL        string        `toml:"url" yaml:"url"`
	Database   string        `toml:"database" yaml:"database"`
	Collection string        `toml:"collection" yaml:"collection"`
	TTL        time.Duration `toml:"ttl" yaml:"ttl"`
}

// Server configures `flowlayout serve`.
type Server struct {
	Addr         string        `toml:"addr" yaml:"addr"`
	Namespace    string        `toml:"namespace" yaml:"namespace"`
	MaxBodyBytes int64         `toml:"max_body_bytes" yaml:"max_body_bytes"`
	Timeout      time.Duration `toml:"timeout" yaml:"timeout"`
}

// Defaults.
const (
	DefaultAddr         = ":8080"
	DefaultMaxBodyBytes = 8 << 20
	DefaultTimeout      = 30 * time.Second
)

// Default returns the compiled defaults.
func Default() Config {
	return Config{
		Version: CurrentVersion,
		Layout:  layout.DefaultOptions(),
		Cache: Cache{
			Backend: cache.BackendFile,
			TTL:     cache.LayoutTTL,
		},
		Server: Server{
			Addr:         DefaultAddr,
			MaxBodyBytes: DefaultMaxBodyBytes,
			Timeout:      DefaultTimeout,
		},
	}
}

// Load reads the file at path on top of Default. The format is chosen by
// extension: .yaml and .yml are YAML, anything else TOML.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, flowerrors.Wrap(flowerrors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return Config{}, err
	}
	return Parse(data, formatOf(path))
}

// Format of a config document.
type Format int

const (
	TOML Format = iota
	YAML
)

func formatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML
	default:
		return TOML
	}
}

// Parse decodes data on top of Default and validates the result.
//
// YAML documents must declare version 1. TOML documents may omit the
// version, but a declared version other than 1 is rejected.
func Parse(data []byte, format Format) (Config, error) {
	cfg := Default()
	cfg.Version = 0

	switch format {
	case YAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil {
			return Config{}, flowerrors.Wrap(flowerrors.ErrCodeInvalidConfig, err, "decode yaml config")
		}
		if cfg.Version != CurrentVersion {
			return Config{}, flowerrors.New(flowerrors.ErrCodeInvalidConfig, "unsupported config version: %d", cfg.Version)
		}
	default:
		md, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return Config{}, flowerrors.Wrap(flowerrors.ErrCodeInvalidConfig, err, "decode toml config")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return Config{}, flowerrors.New(flowerrors.ErrCodeInvalidConfig, "unknown config key %q", undecoded[0].String())
		}
		if cfg.Version == 0 {
			cfg.Version = CurrentVersion
		}
		if cfg.Version != CurrentVersion {
			return Config{}, flowerrors.New(flowerrors.ErrCodeInvalidConfig, "unsupported config version: %d", cfg.Version)
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints.
func (c Config) Validate() error {
	if err := c.Layout.Validate(); err != nil {
		return err
	}
	switch c.Cache.Backend {
	case "", cache.BackendFile, cache.BackendNone, cache.BackendRedis, cache.BackendMongo:
	default:
		return flowerrors.New(flowerrors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}
	if c.Cache.TTL < 0 {
		return flowerrors.New(flowerrors.ErrCodeInvalidConfig, "cache ttl must not be negative")
	}
	if c.Server.MaxBodyBytes < 0 || c.Server.Timeout < 0 {
		return flowerrors.New(flowerrors.ErrCodeInvalidConfig, "server limits must not be negative")
	}
	return nil
}

// DefaultPath returns $XDG_CONFIG_HOME/flowlayout/config.toml, falling
// back to ~/.config.
func DefaultPath() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// LoadDefault loads path when non-empty. Otherwise it loads the file at
// DefaultPath if one exists, and returns Default when none does.
func LoadDefault(path string) (Config, error) {
	if path != "" {
		return Load(path)
	}
	def, err := DefaultPath()
	if err != nil {
		return Default(), nil
	}
	if _, err := os.Stat(def); err != nil {
		return Default(), nil
	}
	return Load(def)
}

// CacheOptions converts the cache section into cache.Open options,
// resolving the URL from FLOWLAYOUT_CACHE_URL(_FILE) when the file
// leaves it empty. dir is used when the section names no directory.
func (c Config) CacheOptions(dir string) (cache.Options, error) {
	opts := cache.Options{
		Backend:    c.Cache.Backend,
		Dir:        c.Cache.Dir,
		URL:        c.Cache.URL,
		Database:   c.Cache.Database,
		Collection: c.Cache.Collection,
	}
	if opts.Dir == "" {
		opts.Dir = dir
	}
	if opts.URL == "" {
		url, err := ResolveSecret("FLOWLAYOUT_CACHE_URL")
		if err != nil {
			return cache.Options{}, flowerrors.Wrap(flowerrors.ErrCodeInvalidConfig, err, "resolve cache url")
		}
		opts.URL = url
	}
	if (opts.Backend == cache.BackendRedis || opts.Backend == cache.BackendMongo) && opts.URL == "" {
		return cache.Options{}, flowerrors.New(flowerrors.ErrCodeInvalidConfig, "cache backend %q needs a url", opts.Backend)
	}
	return opts, nil
}
