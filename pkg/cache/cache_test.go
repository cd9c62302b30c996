package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/styloxis/honeycomb/pkg/observability"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	if err := c.Set(ctx, "layout:a", []byte("plan"), time.Hour); err != nil {
		t.Fatal(err)
	}
	if data, hit, err := c.Get(ctx, "layout:a"); hit || data != nil || err != nil {
		t.Errorf("Get = %q, %v, %v; want a miss", data, hit, err)
	}
	if err := c.Delete(ctx, "layout:a"); err != nil {
		t.Error(err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}

	if err := c.Set(ctx, "layout:abc", []byte(`{"cell":270}`), time.Hour); err != nil {
		t.Fatal(err)
	}
	data, hit, err := c.Get(ctx, "layout:abc")
	if err != nil || !hit || string(data) != `{"cell":270}` {
		t.Fatalf("Get = %q, %v, %v", data, hit, err)
	}
	if _, err := os.Stat(filepath.Join(dir, "layout")); err != nil {
		t.Errorf("entries should be grouped by kind: %v", err)
	}

	if err := c.Set(ctx, "layout:abc", []byte("v2"), 0); err != nil {
		t.Fatal(err)
	}
	if data, _, _ := c.Get(ctx, "layout:abc"); string(data) != "v2" {
		t.Errorf("overwrite = %q", data)
	}

	if err := c.Delete(ctx, "layout:abc"); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "layout:abc"); hit {
		t.Error("entry should be gone after Delete")
	}
	if err := c.Delete(ctx, "layout:abc"); err != nil {
		t.Errorf("Delete of missing key: %v", err)
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	path := c.path("artifact:x")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("abc"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "artifact:x"); hit || err != nil {
		t.Errorf("short entry: hit=%v err=%v", hit, err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("short entry should be removed")
	}
}

func TestNewFileCacheEmptyDir(t *testing.T) {
	if _, err := NewFileCache(""); err == nil {
		t.Error("expected error for empty dir")
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	if err := c.Set(ctx, "layout:k", []byte("v"), time.Minute); err != nil {
		t.Fatal(err)
	}
	now = now.Add(59 * time.Second)
	if _, hit, _ := c.Get(ctx, "layout:k"); !hit {
		t.Error("entry should live until its ttl")
	}
	now = now.Add(2 * time.Second)
	if _, hit, _ := c.Get(ctx, "layout:k"); hit {
		t.Error("expired entry should miss")
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// SHA-256 produces 64 hex chars
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	if got := k.HTTPKey("catalog", "https://example.com/p.json"); got != "http:catalog:https://example.com/p.json" {
		t.Errorf("HTTPKey unexpected: %s", got)
	}

	if k.CatalogKey("file:a.json") == k.CatalogKey("file:b.json") {
		t.Error("Different sources should produce different catalog keys")
	}

	lk1 := k.LayoutKey("hash123", LayoutKeyOpts{Width: 1920, Height: 1080})
	lk2 := k.LayoutKey("hash123", LayoutKeyOpts{Width: 400, Height: 800})
	lk3 := k.LayoutKey("hash123", LayoutKeyOpts{Width: 1920, Height: 1080, Expanded: true})
	if lk1 == lk2 || lk1 == lk3 {
		t.Error("Different LayoutKeyOpts should produce different keys")
	}
	if lk1 != k.LayoutKey("hash123", LayoutKeyOpts{Width: 1920, Height: 1080}) {
		t.Error("LayoutKey should be deterministic")
	}

	ak1 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "svg"})
	ak2 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "png"})
	if ak1 == ak2 {
		t.Error("Different ArtifactKeyOpts should produce different keys")
	}
}

func TestVersionedKeyer(t *testing.T) {
	k := NewVersionedKeyer(nil, "1.2.0")

	if got := k.HTTPKey("catalog", "x"); got != "http:v1.2.0:catalog:x" {
		t.Errorf("HTTPKey = %s", got)
	}
	lk := k.LayoutKey("h", LayoutKeyOpts{})
	if !strings.HasPrefix(lk, "layout:v1.2.0:") {
		t.Errorf("LayoutKey = %s", lk)
	}
	if keyType(lk) != "layout" {
		t.Errorf("keyType = %s", keyType(lk))
	}
	if NewVersionedKeyer(nil, "2.0.0").LayoutKey("h", LayoutKeyOpts{}) == lk {
		t.Error("versions should not share keys")
	}
	if NewVersionedKeyer(nil, "v1.2.0").LayoutKey("h", LayoutKeyOpts{}) != lk {
		t.Error("a leading v should not change the key")
	}
}

type countingHooks struct {
	observability.NoopCacheHooks
	hits, misses, sets int
}

func (h *countingHooks) OnCacheHit(context.Context, string)      { h.hits++ }
func (h *countingHooks) OnCacheMiss(context.Context, string)     { h.misses++ }
func (h *countingHooks) OnCacheSet(context.Context, string, int) { h.sets++ }

func TestInstrumented(t *testing.T) {
	hooks := &countingHooks{}
	observability.SetCacheHooks(hooks)
	defer observability.Reset()

	ctx := context.Background()
	fc, _ := NewFileCache(t.TempDir())
	c := Instrumented(fc)
	if Instrumented(c) != c {
		t.Error("Instrumented should not double wrap")
	}

	_, _, _ = c.Get(ctx, "layout:x")
	_ = c.Set(ctx, "layout:x", []byte("1"), 0)
	_, _, _ = c.Get(ctx, "layout:x")

	if hooks.misses != 1 || hooks.sets != 1 || hooks.hits != 1 {
		t.Errorf("hooks = %+v", hooks)
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	c, err := Open(ctx, Options{Backend: "file", Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("Open(file): %v", err)
	}
	c.Close()

	if _, err := Open(ctx, Options{Backend: "none"}); err != nil {
		t.Errorf("Open(none): %v", err)
	}

	_, err = Open(ctx, Options{Backend: "memcached"})
	if !errors.Is(err, ErrUnknownBackend) {
		t.Errorf("Open(memcached) = %v, want ErrUnknownBackend", err)
	}
}

// TestRedisCache runs against a live server when HONEYCOMB_TEST_REDIS is set.
func TestRedisCache(t *testing.T) {
	url := os.Getenv("HONEYCOMB_TEST_REDIS")
	if url == "" {
		t.Skip("HONEYCOMB_TEST_REDIS not set")
	}
	ctx := context.Background()
	c, err := NewRedisCache(ctx, url, "honeycomb-test:")
	if err != nil {
		t.Fatalf("NewRedisCache: %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || string(data) != "v" {
		t.Errorf("Get = %q, %v, %v", data, hit, err)
	}
	_ = c.Delete(ctx, "k")
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("entry should be gone after Delete")
	}

	_ = c.Set(ctx, "layout:a", []byte("1"), time.Minute)
	_ = c.Set(ctx, "layout:b", []byte("2"), time.Minute)
	_ = c.Set(ctx, "artifact:c", []byte("3"), time.Minute)
	if n, err := c.Clear(ctx, "layout"); err != nil || n != 2 {
		t.Errorf("Clear(layout) = %d, %v; want 2", n, err)
	}
	if _, hit, _ := c.Get(ctx, "artifact:c"); !hit {
		t.Error("Clear(layout) removed an artifact entry")
	}
	_, _ = c.Clear(ctx, "")
}

func TestFileCacheClearAndUsage(t *testing.T) {
	ctx := context.Background()
	fc, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	c := Instrumented(fc)
	for key, val := range map[string]string{
		"layout:a":   "12345",
		"layout:b":   "1",
		"artifact:c": "xyz",
	} {
		if err := c.Set(ctx, key, []byte(val), 0); err != nil {
			t.Fatal(err)
		}
	}

	usage, err := fc.Usage(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := []KindUsage{
		{Kind: "artifact", Entries: 1, Bytes: headerSize + 3},
		{Kind: "layout", Entries: 2, Bytes: 2*headerSize + 6},
	}
	if len(usage) != len(want) || usage[0] != want[0] || usage[1] != want[1] {
		t.Errorf("Usage() = %+v, want %+v", usage, want)
	}

	if n, err := Clear(ctx, c, "layout"); err != nil || n != 2 {
		t.Errorf("Clear(layout) = %d, %v; want 2", n, err)
	}
	if _, hit, _ := c.Get(ctx, "artifact:c"); !hit {
		t.Error("artifact entry should survive Clear(layout)")
	}
	if n, err := Clear(ctx, c, "missing"); err != nil || n != 0 {
		t.Errorf("Clear(missing) = %d, %v", n, err)
	}
	if n, err := Clear(ctx, c, ""); err != nil || n != 1 {
		t.Errorf("Clear(all) = %d, %v; want 1", n, err)
	}
	if _, err := Clear(ctx, c, "../x"); err == nil {
		t.Error("Clear with a path kind should fail")
	}
}

// plainCache hides every method but the Cache interface.
type plainCache struct{ Cache }

func TestClearUnsupported(t *testing.T) {
	if n, err := Clear(context.Background(), NewNullCache(), ""); err != nil || n != 0 {
		t.Errorf("Clear(Null) = %d, %v", n, err)
	}
	if _, err := Clear(context.Background(), plainCache{NewNullCache()}, ""); err == nil {
		t.Error("a cache without Clear should report an error")
	}
}
