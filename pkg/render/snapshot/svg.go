package snapshot

import (
	"bytes"
	"fmt"
	"math"

	svg "github.com/ajstarks/svgo"

	"github.com/styloxis/honeycomb/pkg/card"
	"github.com/styloxis/honeycomb/pkg/render"
)

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	title   string
	ripples bool
	bodyLen int
}

// WithTitle sets the document title element.
func WithTitle(t string) SVGOption { return func(r *svgRenderer) { r.title = t } }

// WithRipples draws the scene's pending ripple effects.
func WithRipples() SVGOption { return func(r *svgRenderer) { r.ripples = true } }

// WithBodyLength caps the characters of body text per card. Zero hides it.
func WithBodyLength(n int) SVGOption { return func(r *svgRenderer) { r.bodyLen = n } }

// RenderSVG draws s as an SVG document.
func RenderSVG(s render.Scene, opts ...SVGOption) []byte {
	r := svgRenderer{bodyLen: 90}
	for _, opt := range opts {
		opt(&r)
	}

	w, h := s.Size()
	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Startview(px(w), px(h), 0, 0, px(w), px(h))
	if r.title != "" {
		canvas.Title(r.title)
	}
	canvas.Rect(0, 0, px(w), px(h), "fill:"+colorBackground)

	canvas.Gid("honeycomb")
	for _, c := range s.Cards {
		r.drawCard(canvas, c)
	}
	canvas.Gend()

	if r.ripples {
		for _, rp := range s.Ripples {
			canvas.Circle(px(rp.X), px(rp.Y), px(s.CellSize/4),
				fmt.Sprintf("fill:none;stroke:%s;stroke-width:2;opacity:0.6", colorRipple))
		}
	}

	canvas.End()
	return buf.Bytes()
}

func (r svgRenderer) drawCard(canvas *svg.SVG, c card.Snapshot) {
	st := c.Style
	size := st.Size * render.Scale(st)
	xs, ys := render.Hexagon(st.X, st.Y, size)

	canvas.Group(fmt.Sprintf(`id="card-%s" opacity="%s"`, c.ID, trim(st.Opacity)))
	canvas.Title(c.AriaLabel)
	canvas.Polygon(ints(xs), ints(ys), fmt.Sprintf("fill:%s;stroke:%s;stroke-width:2", fillFor(c), colorBorder))

	title, body := faceText(c)
	fontSize := math.Max(8, size/10)
	canvas.Text(px(st.X), px(st.Y-fontSize/2), title,
		fmt.Sprintf("fill:%s;font-family:sans-serif;font-size:%dpx;text-anchor:middle;font-weight:bold", colorText, px(fontSize)))
	if r.bodyLen > 0 && body != "" && !st.Collapsed() {
		canvas.Text(px(st.X), px(st.Y+fontSize), truncate(body, r.bodyLen),
			fmt.Sprintf("fill:%s;font-family:sans-serif;font-size:%dpx;text-anchor:middle", colorMuted, px(fontSize*0.6)))
	}
	canvas.Gend()
}

func px(v float64) int { return int(math.Round(v)) }

func ints(vs []float64) []int {
	out := make([]int, len(vs))
	for i, v := range vs {
		out[i] = px(v)
	}
	return out
}

func trim(v float64) string { return fmt.Sprintf("%g", v) }
