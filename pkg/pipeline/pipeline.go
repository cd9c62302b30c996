// Package pipeline provides the honeycomb build pipeline.
//
// This package implements the load → cards → layout → render pipeline used
// by the CLI and the HTTP server, so both produce identical output for the
// same inputs.
//
// # Architecture
//
// The pipeline consists of three cached stages:
//
//  1. Load: read the project catalog from its source
//  2. Layout: build the cards and place them for a viewport
//  3. Render: produce output documents (SVG, PNG, JSON, DOT, ring map, HTML)
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Source:  "data/projects.json",
//	    Width:   400,
//	    Height:  800,
//	    Formats: []string{"svg", "html"},
//	})
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/styloxis/honeycomb/pkg/cache"
	"github.com/styloxis/honeycomb/pkg/catalog"
	"github.com/styloxis/honeycomb/pkg/errors"
	"github.com/styloxis/honeycomb/pkg/layout"
	"github.com/styloxis/honeycomb/pkg/render"
)

const (
	// DefaultTitle is the document title of rendered pages.
	DefaultTitle = "Styloxis"

	// DefaultScale is the PNG pixel density.
	DefaultScale = 1.0
	// MaxScale bounds the PNG pixel density.
	MaxScale = 4.0
)

// Output formats.
const (
	FormatSVG     = render.FormatSVG
	FormatPNG     = render.FormatPNG
	FormatJSON    = render.FormatJSON
	FormatDOT     = render.FormatDOT
	FormatHTML    = render.FormatHTML
	FormatRingMap = "ringmap"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:     true,
	FormatPNG:     true,
	FormatJSON:    true,
	FormatDOT:     true,
	FormatHTML:    true,
	FormatRingMap: true,
}

// Options configures a pipeline run.
type Options struct {
	// Load options
	Source  string `json:"source,omitempty"` // "" for the built-in catalog, a path or an http(s) URL
	Strict  bool   `json:"strict,omitempty"` // fail instead of degrading to an empty catalog
	Refresh bool   `json:"refresh,omitempty"`

	// Layout options
	Width    float64 `json:"width,omitempty"`
	Height   float64 `json:"height,omitempty"`
	Expanded bool    `json:"expanded,omitempty"`
	Filter   string  `json:"filter,omitempty"` // expression over outer cards; the center always stays
	Origin   string  `json:"origin,omitempty"` // site origin for classifying visit links

	// Render options
	Formats     []string `json:"formats,omitempty"`
	Title       string   `json:"title,omitempty"`
	Scale       float64  `json:"scale,omitempty"`
	Interactive bool     `json:"interactive,omitempty"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Catalog     *catalog.Catalog
	CatalogHash string
	Plan        layout.Plan
	Scene       render.Scene
	Artifacts   map[string][]byte
	Stats       Stats
	CacheInfo   CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Projects   int
	Cards      int
	LoadTime   time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each stage.
type CacheInfo struct {
	LoadHit   bool
	LayoutHit bool
	RenderHit bool
}

// ValidateFormat checks that a format is supported.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		names := make([]string, 0, len(ValidFormats))
		for f := range ValidFormats {
			names = append(names, f)
		}
		slices.Sort(names)
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)", format, strings.Join(names, ", "))
	}
	return nil
}

// ValidateFormats checks every format.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults checks all options and applies defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetLayoutDefaults fills in the default viewport.
func (o *Options) SetLayoutDefaults() {
	if o.Width == 0 && o.Height == 0 {
		o.Width, o.Height = layout.DefaultViewport.Width, layout.DefaultViewport.Height
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout applies layout defaults and validates the viewport and
// filter.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if err := o.Viewport().Validate(); err != nil {
		return err
	}
	_, err := catalog.CompileFilter(o.Filter)
	return err
}

// SetRenderDefaults fills in render defaults.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Title == "" {
		o.Title = DefaultTitle
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender applies render defaults and validates the formats.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if !(o.Scale > 0 && o.Scale <= MaxScale) {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be in (0, %g], got %g", MaxScale, o.Scale)
	}
	return ValidateFormats(o.Formats)
}

// Viewport returns the requested viewport.
func (o *Options) Viewport() layout.Viewport {
	return layout.Viewport{Width: o.Width, Height: o.Height}
}

// LayoutKeyOpts returns cache key options for the layout stage.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Width:    o.Width,
		Height:   o.Height,
		Expanded: o.Expanded,
		Filter:   o.Filter,
		Origin:   o.Origin,
	}
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case FormatPNG:
		k.Scale = o.Scale
	case FormatSVG:
		k.Title = o.Title
	case FormatHTML:
		k.Title = o.Title
		k.Interactive = o.Interactive
	}
	return k
}
