package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/styloxis/honeycomb/pkg/cache"
	"github.com/styloxis/honeycomb/pkg/catalog"
	"github.com/styloxis/honeycomb/pkg/httputil"
)

// SourceFor resolves the catalog source of opts. Remote sources keep their
// last good payload in fallback.
func SourceFor(opts Options, fallback *httputil.LastGood) catalog.Source {
	return catalog.SourceFor(opts.Source, fallback)
}

// Load reads a catalog. Unless opts.Strict is set, failures degrade to an
// empty catalog.
func Load(ctx context.Context, src catalog.Source, opts Options) (*catalog.Catalog, error) {
	if opts.Strict {
		return catalog.LoadStrict(ctx, src)
	}
	return catalog.Load(ctx, src, opts.Logger), nil
}

// filterCatalog keeps the center and the outer projects matching expr.
func filterCatalog(c *catalog.Catalog, expr string) (*catalog.Catalog, error) {
	if expr == "" {
		return c, nil
	}
	f, err := catalog.CompileFilter(expr)
	if err != nil {
		return nil, err
	}
	var kept []catalog.Project
	for _, p := range c.Projects() {
		if p.IsCenter() {
			kept = append(kept, p)
			continue
		}
		ok, err := f.Match(p)
		if err != nil {
			return nil, err
		}
		if ok {
			kept = append(kept, p)
		}
	}
	return catalog.New(kept)
}

// HashCatalog returns the content hash used to key layouts of c.
func HashCatalog(c *catalog.Catalog) (string, error) {
	data, err := marshalCatalog(c)
	if err != nil {
		return "", fmt.Errorf("serialize catalog: %w", err)
	}
	return cache.Hash(data), nil
}

func marshalCatalog(c *catalog.Catalog) ([]byte, error) {
	return json.Marshal(c.Projects())
}

func unmarshalCatalog(data []byte) (*catalog.Catalog, error) {
	var projects []catalog.Project
	if err := json.Unmarshal(data, &projects); err != nil {
		return nil, err
	}
	return catalog.New(projects)
}

func logCatalog(l *log.Logger, c *catalog.Catalog, hit bool) {
	l.Debug("catalog ready", "projects", c.Len(), "cached", hit)
}
