// Package config loads shadergraph.toml.
//
// Every field has a default, so a missing file is not an error. Command-line
// flags are applied on top of the loaded values by the CLI.
//
//	target = "wgsl"
//	blocks = ["helpers"]
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
//	ttl = "24h"
//
//	[store]
//	backend = "mongo"
//	uri = "mongodb://localhost:27017"
//
//	[server]
//	addr = ":8080"
package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/shadergraph/pkg/errors"
	"github.com/matzehuels/shadergraph/pkg/graph"
)

// FileName is the config file looked up in the working directory.
const FileName = "shadergraph.toml"

// EnvPath overrides the config file location.
const EnvPath = "SHADERGRAPH_CONFIG"

// Cache and store backends.
const (
	BackendNone  = "none"
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
)

// Config is the decoded config file.
type Config struct {
	Target string   `toml:"target"`
	Blocks []string `toml:"blocks"`
	// Graph is the graph file commands operate on when none is given.
	Graph string `toml:"graph"`

	Cache  CacheConfig  `toml:"cache"`
	Store  StoreConfig  `toml:"store"`
	Server ServerConfig `toml:"server"`
}

type CacheConfig struct {
	Backend  string   `toml:"backend"`
	Dir      string   `toml:"dir"`
	RedisURL string   `toml:"redis_url"`
	Addr     string   `toml:"addr"`
	Prefix   string   `toml:"prefix"`
	TTL      Duration `toml:"ttl"`
}

type StoreConfig struct {
	Backend    string `toml:"backend"`
	Dir        string `toml:"dir"`
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

type ServerConfig struct {
	Addr         string   `toml:"addr"`
	ReadTimeout  Duration `toml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout"`
}

// Duration decodes TOML strings such as "90s" or "24h".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "invalid duration %q", text)
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Target: string(graph.TargetBevy),
		Graph:  "shader_graph.json",
		Cache: CacheConfig{
			Backend: BackendFile,
			Prefix:  "shadergraph:",
			TTL:     Duration{7 * 24 * time.Hour},
		},
		Store: StoreConfig{
			Backend:    BackendFile,
			Database:   "shadergraph",
			Collection: "graphs",
		},
		Server: ServerConfig{
			Addr:         "127.0.0.1:8080",
			ReadTimeout:  Duration{15 * time.Second},
			WriteTimeout: Duration{60 * time.Second},
		},
	}
}

// Path returns the config file to load: $SHADERGRAPH_CONFIG if set,
// otherwise FileName in dir.
func Path(dir string) string {
	if p := os.Getenv(EnvPath); p != "" {
		return p
	}
	return filepath.Join(dir, FileName)
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read config %s", path)
	}
	if err := cfg.decode(string(data)); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "config %s", path)
	}
	return cfg, nil
}

// Parse decodes src over the defaults.
func Parse(src string) (*Config, error) {
	cfg := Default()
	if err := cfg.decode(src); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decode(src string) error {
	md, err := toml.Decode(src, c)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode toml")
	}
	if extra := md.Undecoded(); len(extra) > 0 {
		keys := make([]string, len(extra))
		for i, k := range extra {
			keys[i] = k.String()
		}
		return errors.New(errors.ErrCodeInvalidFormat, "unknown keys: %s", strings.Join(keys, ", "))
	}
	return c.Validate()
}

// Validate checks enumerated fields.
func (c *Config) Validate() error {
	if _, err := graph.ParseTarget(c.Target); err != nil {
		return err
	}
	for _, b := range c.Blocks {
		if err := errors.ValidateBlockName(b); err != nil {
			return err
		}
	}
	if !slices.Contains([]string{BackendNone, BackendFile, BackendRedis}, c.Cache.Backend) {
		return errors.New(errors.ErrCodeInvalidInput, "unknown cache backend %q", c.Cache.Backend)
	}
	if c.Cache.Backend == BackendRedis && c.Cache.RedisURL == "" && c.Cache.Addr == "" {
		return errors.New(errors.ErrCodeInvalidInput, "redis cache needs redis_url or addr")
	}
	if !slices.Contains([]string{BackendFile, BackendMongo}, c.Store.Backend) {
		return errors.New(errors.ErrCodeInvalidInput, "unknown store backend %q", c.Store.Backend)
	}
	if c.Store.Backend == BackendMongo && c.Store.URI == "" {
		return errors.New(errors.ErrCodeInvalidInput, "mongo store needs uri")
	}
	return nil
}
