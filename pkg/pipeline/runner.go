package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/styloxis/honeycomb/pkg/cache"
	"github.com/styloxis/honeycomb/pkg/catalog"
	"github.com/styloxis/honeycomb/pkg/observability"
)

// Runner executes the pipeline with caching. The CLI and the server share
// it so caching behaves the same everywhere.
//
// A Runner holds no per-run state; multiple goroutines can use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// Source overrides Options.Source, for sources that are not addressable
	// by a location string (MongoDB).
	Source catalog.Source
}

// NewRunner creates a runner with the given cache and keyer.
// A nil keyer uses DefaultKeyer; a nil cache disables caching.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs load → layout → render.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	loadStart := time.Now()
	c, hash, loadHit, err := r.LoadWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	loadTime := time.Since(loadStart)
	r.Logger.Info("loaded catalog",
		"projects", c.Len(),
		"duration", loadTime)

	result, err := r.layoutAndRender(ctx, c, hash, opts)
	if err != nil {
		return nil, err
	}
	result.Stats.LoadTime = loadTime
	result.CacheInfo.LoadHit = loadHit
	return result, nil
}

// ExecuteCatalog runs layout → render over an already loaded catalog, as
// the server does with its live catalog.
func (r *Runner) ExecuteCatalog(ctx context.Context, c *catalog.Catalog, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if c == nil {
		c = catalog.Empty()
	}
	hash, err := HashCatalog(c)
	if err != nil {
		return nil, err
	}
	return r.layoutAndRender(ctx, c, hash, opts)
}

func (r *Runner) layoutAndRender(ctx context.Context, c *catalog.Catalog, hash string, opts Options) (*Result, error) {
	result := &Result{Catalog: c, CatalogHash: hash}
	result.Stats.Projects = c.Len()

	layoutStart := time.Now()
	l, layoutHit, err := r.GenerateLayoutWithCacheInfo(ctx, c, hash, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Plan = l.Plan
	result.Scene = l.Scene()
	result.Stats.Cards = len(l.Board.Cards)
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	opts.Logger.Debug("computed layout",
		"device", l.Plan.Device,
		"cards", result.Stats.Cards,
		"duration", result.Stats.LayoutTime)

	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, l, c, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	opts.Logger.Debug("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// source returns the runner's source override or the one named by opts.
func (r *Runner) source(opts Options) catalog.Source {
	if r.Source != nil {
		return r.Source
	}
	return SourceFor(opts, nil)
}

// LoadWithCacheInfo loads the catalog with caching and returns its content
// hash and whether it came from the cache. Degraded (empty) catalogs are
// not cached.
func (r *Runner) LoadWithCacheInfo(ctx context.Context, opts Options) (*catalog.Catalog, string, bool, error) {
	r.applyLogger(&opts)
	src := r.source(opts)
	cacheKey := r.Keyer.CatalogKey(src.Name())
	hooks := observability.Pipeline()

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if c, err := unmarshalCatalog(data); err == nil {
				logCatalog(opts.Logger, c, true)
				return c, cache.Hash(data), true, nil
			}
		}
	}

	hooks.OnLoadStart(ctx, src.Name())
	start := time.Now()
	c, err := Load(ctx, src, opts)
	if err != nil {
		hooks.OnLoadComplete(ctx, src.Name(), 0, time.Since(start), err)
		return nil, "", false, err
	}
	hooks.OnLoadComplete(ctx, src.Name(), c.Len(), time.Since(start), nil)

	data, err := marshalCatalog(c)
	if err != nil {
		return nil, "", false, fmt.Errorf("serialize catalog: %w", err)
	}
	if c.Len() > 0 {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLCatalog)
	}
	logCatalog(opts.Logger, c, false)
	return c, cache.Hash(data), false, nil
}

// Load is LoadWithCacheInfo without the hash and cache hit info.
func (r *Runner) Load(ctx context.Context, opts Options) (*catalog.Catalog, error) {
	c, _, _, err := r.LoadWithCacheInfo(ctx, opts)
	return c, err
}

// GenerateLayoutWithCacheInfo lays out c with caching and reports whether
// the layout came from the cache.
func (r *Runner) GenerateLayoutWithCacheInfo(ctx context.Context, c *catalog.Catalog, catalogHash string, opts Options) (Layout, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return Layout{}, false, err
	}

	cacheKey := r.Keyer.LayoutKey(catalogHash, opts.LayoutKeyOpts())
	if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
		if cached, err := unmarshalLayout(data); err == nil {
			return cached, true, nil
		}
	}

	filtered, err := filterCatalog(c, opts.Filter)
	if err != nil {
		return Layout{}, false, err
	}
	l, err := GenerateLayout(ctx, filtered, opts)
	if err != nil {
		return Layout{}, false, err
	}

	if data, err := marshalLayout(l); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout)
	}
	return l, false, nil
}

// RenderWithCacheInfo renders every requested format with caching. The
// hit flag is true only when all formats came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l Layout, c *catalog.Catalog, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	layoutData, err := marshalLayout(l)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)
	hooks := observability.Pipeline()

	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			artifacts[format] = data
			continue
		}
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		return artifacts, true, nil
	}

	sub := opts
	sub.Formats = missing
	hooks.OnRenderStart(ctx, missing)
	start := time.Now()
	rendered, err := Render(ctx, l, c, sub)
	hooks.OnRenderComplete(ctx, missing, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		_ = r.Cache.Set(ctx, key, data, cache.TTLArtifact)
		artifacts[format] = data
	}
	return artifacts, false, nil
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
