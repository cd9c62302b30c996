package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/styloxis/honeycomb/pkg/catalog"
	"github.com/styloxis/honeycomb/pkg/render"
	"github.com/styloxis/honeycomb/pkg/render/page"
	"github.com/styloxis/honeycomb/pkg/render/ringmap"
	"github.com/styloxis/honeycomb/pkg/render/snapshot"
)

// Render generates artifacts in the requested formats. Ring maps are drawn
// from the catalog, everything else from the layout.
func Render(ctx context.Context, l Layout, c *catalog.Catalog, opts Options) (map[string][]byte, error) {
	scene := l.Scene()
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		var (
			data []byte
			err  error
		)
		switch format {
		case FormatSVG:
			data = snapshot.RenderSVG(scene, snapshot.WithTitle(opts.Title))
		case FormatPNG:
			data, err = snapshot.RenderPNG(scene, snapshot.WithScale(opts.Scale))
		case FormatJSON:
			data, err = snapshot.RenderJSON(scene)
		case FormatDOT:
			data = []byte(ringmap.ToDOT(c.Projects(), ringmap.Options{}))
		case FormatRingMap:
			data, err = ringmap.RenderSVG(ctx, ringmap.ToDOT(c.Projects(), ringmap.Options{}))
		case FormatHTML:
			data, err = renderHTML(scene, opts)
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

var pageRenderer = sync.OnceValues(page.New)

func renderHTML(scene render.Scene, opts Options) ([]byte, error) {
	r, err := pageRenderer()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	err = r.RenderHoneycomb(&buf, page.Honeycomb{
		Title:       opts.Title,
		Scene:       scene,
		Interactive: opts.Interactive,
	})
	return buf.Bytes(), err
}
