package render

import (
	"math"

	"github.com/styloxis/honeycomb/pkg/card"
	"github.com/styloxis/honeycomb/pkg/layout"
)

// Output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatHTML = "html"
)

// Scene is a honeycomb ready to draw.
type Scene struct {
	Viewport    layout.Viewport `json:"viewport"`
	Device      layout.Device   `json:"device"`
	CellSize    float64         `json:"cellSize"`
	Container   card.Container  `json:"container"`
	Cards       []card.Snapshot `json:"cards"`
	Placeholder *card.Style     `json:"placeholder,omitempty"`
	Ripples     []card.Ripple   `json:"ripples,omitempty"`
	Delays      map[string]int  `json:"delaysMs,omitempty"`
}

// NewScene combines a plan with the board it was applied to.
func NewScene(plan layout.Plan, board card.BoardSnapshot) Scene {
	s := Scene{
		Viewport:    plan.Viewport,
		Device:      plan.Device,
		CellSize:    plan.CellSize,
		Container:   board.Container,
		Cards:       board.Cards,
		Placeholder: board.Placeholder,
		Ripples:     board.Ripples,
		Delays:      make(map[string]int, len(plan.Placements)),
	}
	for _, pl := range plan.Placements {
		if !pl.IsCenter() {
			s.Delays[pl.ID] = int(pl.Delay.Milliseconds())
		}
	}
	return s
}

// Size returns the drawing size: the viewport width and the larger of the
// viewport and container heights.
func (s Scene) Size() (w, h float64) {
	return s.Viewport.Width, math.Max(s.Viewport.Height, s.Container.Height)
}

// Hexagon returns the six vertices of a pointy-top hexagon of the given
// size (corner to corner) centered at (cx, cy).
func Hexagon(cx, cy, size float64) (xs, ys []float64) {
	r := size / 2
	xs, ys = make([]float64, 6), make([]float64, 6)
	for i := range 6 {
		theta := (float64(i)*60 - 90) * math.Pi / 180
		xs[i] = cx + r*math.Cos(theta)
		ys[i] = cy + r*math.Sin(theta)
	}
	return xs, ys
}

// Scale returns the visual scale of a style's transform: 0.3 when
// collapsed, 1 otherwise.
func Scale(s card.Style) float64 {
	if s.Collapsed() {
		return 0.3
	}
	return 1
}
