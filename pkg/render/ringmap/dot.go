package ringmap

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/styloxis/honeycomb/pkg/catalog"
)

// Options configures ring map generation.
type Options struct {
	// Detailed adds ring, angle and tags to node labels.
	Detailed bool
	// Spacing is the distance between rings in inches. Zero means 1.8.
	Spacing float64
}

const defaultSpacing = 1.8

// ToDOT converts projects to Graphviz DOT. Nodes are pinned to their
// polar position: ring r at angle a sits at r*spacing along a, measured
// clockwise from the positive x axis like the honeycomb.
func ToDOT(projects []catalog.Project, opts Options) string {
	spacing := opts.Spacing
	if spacing <= 0 {
		spacing = defaultSpacing
	}

	var buf bytes.Buffer
	buf.WriteString("graph honeycomb {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=hexagon, style=filled, fillcolor=\"#161b22\", fontcolor=white, color=\"#30363d\", fontsize=14, width=1.2, fixedsize=true];\n")
	buf.WriteString("  edge [color=\"#30363d\"];\n")
	buf.WriteString("\n")

	center := ""
	for _, p := range projects {
		x, y := position(p, spacing)
		attrs := []string{
			fmt.Sprintf("label=%q", label(p, opts.Detailed)),
			fmt.Sprintf("pos=\"%s,%s!\"", coord(x), coord(y)),
		}
		if p.IsCenter() {
			center = p.ID
			attrs = append(attrs, "fillcolor=\"#238636\"", "width=1.6")
		}
		if p.URL != "" {
			attrs = append(attrs, fmt.Sprintf("URL=%q", p.URL))
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", p.ID, strings.Join(attrs, ", "))
	}

	if center != "" {
		buf.WriteString("\n")
		for _, p := range projects {
			if !p.IsCenter() {
				fmt.Fprintf(&buf, "  %q -- %q;\n", center, p.ID)
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// position returns DOT coordinates. DOT's y axis points up, so the screen
// y is negated.
func position(p catalog.Project, spacing float64) (x, y float64) {
	rad := p.Angle * math.Pi / 180
	d := float64(p.Ring) * spacing
	return d * math.Cos(rad), -d * math.Sin(rad)
}

func coord(v float64) string {
	v = math.Round(v*1000) / 1000
	if v == 0 {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func label(p catalog.Project, detailed bool) string {
	if !detailed {
		return p.Title
	}
	parts := []string{p.Title, fmt.Sprintf("ring %d @ %g°", p.Ring, p.Angle)}
	if len(p.Tags) > 0 {
		parts = append(parts, strings.Join(p.Tags, ", "))
	}
	return strings.Join(parts, "\n")
}

// RenderSVG renders DOT source to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	gv.SetLayout(graphviz.NEATO)

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based svg header with one that
// scales cleanly when embedded.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}
