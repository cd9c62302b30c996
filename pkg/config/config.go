// Package config loads honeycomb.toml and HONEYCOMB_* environment
// overrides.
//
// Precedence, lowest first: built-in defaults, the TOML file, environment
// variables, command-line flags (applied by the caller).
//
//	[server]
//	addr = ":8080"
//	origin = "https://styloxis.dev"
//
//	[data]
//	catalog = "data/projects.json"
//	dir = "data/projects"
//	watch = true
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/styloxis/honeycomb/pkg/cache"
	"github.com/styloxis/honeycomb/pkg/catalog"
	"github.com/styloxis/honeycomb/pkg/layout"
	"github.com/styloxis/honeycomb/pkg/session"
)

// DefaultFile is looked up in the working directory when no path is given.
const DefaultFile = "honeycomb.toml"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "HONEYCOMB_"

// Duration is a time.Duration written as a string ("10m", "1.2s").
type Duration struct{ time.Duration }

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// Config is the full configuration.
type Config struct {
	Server  Server  `toml:"server"`
	Data    Data    `toml:"data"`
	Layout  Layout  `toml:"layout"`
	Cache   Cache   `toml:"cache"`
	Session Session `toml:"session"`
	Mongo   Mongo   `toml:"mongo"`
	Log     Log     `toml:"log"`

	// Path is the file the configuration was read from, if any.
	Path string `toml:"-"`
}

type Server struct {
	Addr            string   `toml:"addr"`
	Origin          string   `toml:"origin"`
	Title           string   `toml:"title"`
	ShutdownTimeout Duration `toml:"shutdown_timeout"`
}

type Data struct {
	Catalog string `toml:"catalog"` // path or http(s) URL; empty for the built-in catalog
	Dir     string `toml:"dir"`     // detail documents, <dir>/<id>.json
	Watch   bool   `toml:"watch"`
	Preload bool   `toml:"preload"`
}

type Layout struct {
	DefaultWidth  float64  `toml:"default_width"`
	DefaultHeight float64  `toml:"default_height"`
	AutoExpand    Duration `toml:"auto_expand"`
}

type Cache struct {
	Backend  string   `toml:"backend"`
	Dir      string   `toml:"dir"`
	RedisURL string   `toml:"redis_url"`
	TTL      Duration `toml:"ttl"`
}

type Session struct {
	Backend  string   `toml:"backend"`
	Dir      string   `toml:"dir"`
	RedisURL string   `toml:"redis_url"`
	TTL      Duration `toml:"ttl"`
}

type Mongo struct {
	URI        string   `toml:"uri"`
	Database   string   `toml:"database"`
	Collection string   `toml:"collection"`
	Timeout    Duration `toml:"timeout"`
}

type Log struct {
	Level string `toml:"level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: Server{
			Addr:            ":8080",
			Title:           "Styloxis",
			ShutdownTimeout: Duration{10 * time.Second},
		},
		Layout: Layout{
			DefaultWidth:  layout.DefaultViewport.Width,
			DefaultHeight: layout.DefaultViewport.Height,
			AutoExpand:    Duration{1200 * time.Millisecond},
		},
		Cache:   Cache{Backend: "file", TTL: Duration{cache.TTLArtifact}},
		Session: Session{Backend: session.BackendMemory, TTL: Duration{session.DefaultTTL}},
		Mongo:   Mongo{Database: "portfolio", Collection: "projects", Timeout: Duration{5 * time.Second}},
		Log:     Log{Level: "info"},
	}
}

// Load reads path over the defaults and applies environment overrides. An
// empty path reads DefaultFile when it exists and otherwise uses defaults
// only. Unknown keys are rejected.
func Load(path string) (Config, error) {
	return load(path, os.LookupEnv)
}

func load(path string, lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	if path == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			path = DefaultFile
		}
	}
	if path != "" {
		md, err := toml.DecodeFile(path, &cfg)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return Config{}, fmt.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
		}
		cfg.Path = path
	}

	if err := cfg.applyEnv(lookup); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// applyEnv overrides fields from HONEYCOMB_* variables.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := map[string]*string{
		"ADDR":            &c.Server.Addr,
		"ORIGIN":          &c.Server.Origin,
		"TITLE":           &c.Server.Title,
		"CATALOG":         &c.Data.Catalog,
		"DATA_DIR":        &c.Data.Dir,
		"CACHE_BACKEND":   &c.Cache.Backend,
		"CACHE_DIR":       &c.Cache.Dir,
		"REDIS_URL":       &c.Cache.RedisURL,
		"SESSION_BACKEND": &c.Session.Backend,
		"SESSION_DIR":     &c.Session.Dir,
		"MONGO_URI":       &c.Mongo.URI,
		"LOG_LEVEL":       &c.Log.Level,
	}
	for name, dst := range str {
		if v, ok := lookup(EnvPrefix + name); ok {
			*dst = v
		}
	}

	if v, ok := lookup(EnvPrefix + "WATCH"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sWATCH: %w", EnvPrefix, err)
		}
		c.Data.Watch = b
	}
	if v, ok := lookup(EnvPrefix + "SESSION_TTL"); ok {
		if err := c.Session.TTL.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("%sSESSION_TTL: %w", EnvPrefix, err)
		}
	}
	if c.Session.RedisURL == "" {
		c.Session.RedisURL = c.Cache.RedisURL
	}
	return nil
}

// Validate checks cross-field constraints.
func (c Config) Validate() error {
	var errs []error
	if err := c.Viewport().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("layout: %w", err))
	}
	switch c.Cache.Backend {
	case "", "file", "none", "null":
	case "redis":
		if c.Cache.RedisURL == "" {
			errs = append(errs, errors.New("cache: redis backend needs redis_url"))
		}
	default:
		errs = append(errs, fmt.Errorf("cache: unknown backend %q", c.Cache.Backend))
	}
	switch c.Session.Backend {
	case "", session.BackendMemory, session.BackendFile:
	case session.BackendRedis:
		if c.Session.RedisURL == "" {
			errs = append(errs, errors.New("session: redis backend needs redis_url"))
		}
	default:
		errs = append(errs, fmt.Errorf("session: unknown backend %q", c.Session.Backend))
	}
	if c.Session.TTL.Duration <= 0 {
		errs = append(errs, errors.New("session: ttl must be positive"))
	}
	if c.Data.Watch && (c.Data.Catalog == "" || isURL(c.Data.Catalog)) && c.Data.Dir == "" {
		errs = append(errs, errors.New("data: watch needs a local catalog file or detail dir"))
	}
	return errors.Join(errs...)
}

// Viewport returns the default viewport.
func (c Config) Viewport() layout.Viewport {
	return layout.Viewport{Width: c.Layout.DefaultWidth, Height: c.Layout.DefaultHeight}
}

// CacheOptions returns the cache backend options. The file backend
// defaults to dir/honeycomb under the user cache directory.
func (c Config) CacheOptions() cache.Options {
	dir := c.Cache.Dir
	if dir == "" && (c.Cache.Backend == "" || c.Cache.Backend == "file") {
		if base, err := os.UserCacheDir(); err == nil {
			dir = filepath.Join(base, "honeycomb")
		}
	}
	return cache.Options{Backend: c.Cache.Backend, Dir: dir, RedisURL: c.Cache.RedisURL}
}

// SessionOptions returns the session backend options.
func (c Config) SessionOptions() session.Options {
	return session.Options{Backend: c.Session.Backend, Dir: c.Session.Dir, RedisURL: c.Session.RedisURL}
}

// MongoEnabled reports whether the catalog comes from MongoDB.
func (c Config) MongoEnabled() bool { return c.Mongo.URI != "" }

// MongoSource connects the configured MongoDB catalog source.
func (c Config) MongoSource(ctx context.Context) (*catalog.Mongo, error) {
	return catalog.NewMongo(ctx, catalog.MongoConfig{
		URI:        c.Mongo.URI,
		Database:   c.Mongo.Database,
		Collection: c.Mongo.Collection,
		Timeout:    c.Mongo.Timeout.Duration,
	})
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
