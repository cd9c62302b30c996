// Package cache provides byte caches for layout plans and rendered
// snapshots.
//
// Three backends implement [Cache]:
//
//   - [FileCache] stores one file per entry, for the CLI and single servers
//   - [RedisCache] stores entries in Redis, for shared server deployments
//   - [Null] stores nothing, for tests and --no-cache
//
// Keys are produced by a [Keyer] so that every component derives the same
// key from the same inputs:
//
//	keyer := cache.NewDefaultKeyer()
//	key := keyer.LayoutKey(catalogHash, cache.LayoutKeyOpts{Width: 1920, Height: 1080})
package cache

import (
	"context"
	"strings"
	"time"

	"github.com/styloxis/honeycomb/pkg/observability"
)

// Default TTLs per entry kind.
const (
	TTLCatalog  = 10 * time.Minute
	TTLLayout   = 24 * time.Hour
	TTLArtifact = 24 * time.Hour
	TTLHTTP     = time.Hour
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases resources held by the cache.
	Close() error
}

// Keyer derives cache keys.
type Keyer interface {
	HTTPKey(namespace, key string) string
	CatalogKey(source string) string
	LayoutKey(catalogHash string, opts LayoutKeyOpts) string
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts are the inputs that change a layout plan.
type LayoutKeyOpts struct {
	Width    float64 `json:"w"`
	Height   float64 `json:"h"`
	Expanded bool    `json:"x"`
	Filter   string  `json:"f,omitempty"`
	Origin   string  `json:"o,omitempty"`
}

// ArtifactKeyOpts are the inputs that change a rendered snapshot.
type ArtifactKeyOpts struct {
	Format      string  `json:"fmt"`
	Title       string  `json:"title,omitempty"`
	Scale       float64 `json:"scale,omitempty"`
	Interactive bool    `json:"js,omitempty"`
}

// Null stores nothing. Every Get misses.
type Null struct{}

// NewNullCache returns a cache that stores nothing.
func NewNullCache() Cache { return Null{} }

func (Null) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (Null) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (Null) Delete(context.Context, string) error                     { return nil }
func (Null) Close() error                                             { return nil }

// Instrumented reports hits, misses and writes of c to the registered
// observability cache hooks. The key type is the key's prefix up to the
// first colon.
func Instrumented(c Cache) Cache {
	if _, ok := c.(*instrumented); ok {
		return c
	}
	return &instrumented{Cache: c}
}

type instrumented struct {
	Cache
}

func (c *instrumented) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, ok, err := c.Cache.Get(ctx, key)
	if err == nil {
		if ok {
			observability.Cache().OnCacheHit(ctx, keyType(key))
		} else {
			observability.Cache().OnCacheMiss(ctx, keyType(key))
		}
	}
	return data, ok, err
}

func (c *instrumented) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := c.Cache.Set(ctx, key, data, ttl); err != nil {
		return err
	}
	observability.Cache().OnCacheSet(ctx, keyType(key), len(data))
	return nil
}

func keyType(key string) string {
	kind, _, _ := strings.Cut(key, ":")
	return kind
}
