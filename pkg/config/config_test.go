package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func env(vars map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := vars[k]
		return v, ok
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "honeycomb.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if cfg.Layout.AutoExpand.Duration != 1200*time.Millisecond {
		t.Errorf("auto expand = %v", cfg.Layout.AutoExpand)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
[server]
addr = ":9000"
origin = "https://styloxis.dev"

[data]
catalog = "projects.yaml"
dir = "details"
watch = true

[layout]
default_width = 400
default_height = 800
auto_expand = "2s"

[session]
backend = "file"
ttl = "1h"
`)
	cfg, err := load(path, env(nil))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Addr != ":9000" || cfg.Server.Origin != "https://styloxis.dev" {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Viewport().Width != 400 || cfg.Layout.AutoExpand.Duration != 2*time.Second {
		t.Errorf("layout = %+v", cfg.Layout)
	}
	if cfg.Session.Backend != "file" || cfg.Session.TTL.Duration != time.Hour {
		t.Errorf("session = %+v", cfg.Session)
	}
	if cfg.Server.Title != "Styloxis" {
		t.Error("unset keys should keep defaults")
	}
	if cfg.Path != path {
		t.Errorf("Path = %q", cfg.Path)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, "[server]\nport = 80\n")
	_, err := load(path, env(nil))
	if err == nil || !strings.Contains(err.Error(), "server.port") {
		t.Errorf("err = %v", err)
	}
}

func TestEnvOverrides(t *testing.T) {
	path := writeConfig(t, "[server]\naddr = \":9000\"\n")
	cfg, err := load(path, env(map[string]string{
		"HONEYCOMB_ADDR":          ":7000",
		"HONEYCOMB_CACHE_BACKEND": "redis",
		"HONEYCOMB_REDIS_URL":     "redis://localhost:6379/1",
		"HONEYCOMB_SESSION_TTL":   "5m",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Addr != ":7000" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
	if cfg.Cache.Backend != "redis" || cfg.Session.RedisURL != "redis://localhost:6379/1" {
		t.Errorf("redis url not shared: %+v %+v", cfg.Cache, cfg.Session)
	}
	if cfg.Session.TTL.Duration != 5*time.Minute {
		t.Errorf("ttl = %v", cfg.Session.TTL)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"bad viewport", func(c *Config) { c.Layout.DefaultWidth = 0 }, "layout"},
		{"redis cache without url", func(c *Config) { c.Cache.Backend = "redis" }, "redis_url"},
		{"unknown cache", func(c *Config) { c.Cache.Backend = "memcached" }, "unknown backend"},
		{"unknown session", func(c *Config) { c.Session.Backend = "sql" }, "unknown backend"},
		{"zero ttl", func(c *Config) { c.Session.TTL.Duration = 0 }, "ttl"},
		{"watch remote", func(c *Config) { c.Data.Watch = true; c.Data.Catalog = "https://x/p.json" }, "watch"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate() = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestBadEnv(t *testing.T) {
	if _, err := load("", env(map[string]string{"HONEYCOMB_WATCH": "maybe"})); err == nil {
		t.Error("expected error for bad bool")
	}
}

func TestCacheOptions(t *testing.T) {
	cfg := Default()
	cfg.Cache.Dir = "/tmp/hc"
	if got := cfg.CacheOptions(); got.Dir != "/tmp/hc" || got.Backend != "file" {
		t.Errorf("CacheOptions = %+v", got)
	}
}
