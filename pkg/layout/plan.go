package layout

import (
	"math"
	"time"

	"github.com/styloxis/honeycomb/pkg/card"
)

const (
	mobileCellRatio  = 0.45
	desktopCellRatio = 0.25

	centerScale     = 1.4
	ringSpacing     = 1.3
	mobileCenterX   = 0.65
	mobileCenterY   = 0.8
	mobileLeftX     = 0.3
	mobileRightX    = 0.7
	mobileBaseY     = 2.2
	mobileRowStep   = 0.6
	mobileTailRatio = 0.5
	mobileMargin    = 128.0

	// StaggerStep and StaggerBase define the entrance delay of an outer
	// card: rank·StaggerStep + StaggerBase.
	StaggerStep = 100 * time.Millisecond
	StaggerBase = 200 * time.Millisecond
)

// Slot is the layout input for one card.
type Slot struct {
	ID    string
	Ring  int
	Angle float64
}

// SlotsOf returns the slots of views, in order.
func SlotsOf(views []card.View) []Slot {
	slots := make([]Slot, len(views))
	for i, v := range views {
		slots[i] = Slot{ID: v.ID(), Ring: v.Ring(), Angle: v.Angle()}
	}
	return slots
}

// Point is a container coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Placement is where one card goes.
type Placement struct {
	ID   string `json:"id"`
	Ring int    `json:"ring"`
	// Rank is the 0-based index among outer cards; -1 for the center card.
	Rank int `json:"rank"`
	// Final is the expanded position.
	Final card.Style `json:"final"`
	// Collapsed is the position before expansion. It equals Final for the
	// center card.
	Collapsed card.Style `json:"collapsed"`
	// Delay is the entrance delay of an outer card; zero for the center.
	Delay time.Duration `json:"delay"`
}

// IsCenter reports whether p places the center card.
func (p Placement) IsCenter() bool { return p.Rank < 0 }

// Plan is the full layout of a honeycomb for one viewport.
type Plan struct {
	Viewport     Viewport    `json:"viewport"`
	Device       Device      `json:"device"`
	CellSize     float64     `json:"cellSize"`
	RingDistance float64     `json:"ringDistance"`
	Center       Point       `json:"center"`
	CollapseAt   Point       `json:"collapseAt"`
	Placements   []Placement `json:"placements"`
	Outer        int         `json:"outer"`

	ContainerHeight float64     `json:"containerHeight"`
	Scroll          bool        `json:"scroll"`
	Placeholder     *card.Style `json:"placeholder,omitempty"`
}

// Placement returns the placement for id.
func (p Plan) Placement(id string) (Placement, bool) {
	for _, pl := range p.Placements {
		if pl.ID == id {
			return pl, true
		}
	}
	return Placement{}, false
}

// Compute lays out slots for v. Slots are taken in the given order; outer
// ranks follow that order.
func Compute(v Viewport, slots []Slot) (Plan, error) {
	if err := v.Validate(); err != nil {
		return Plan{}, err
	}

	cell := v.CellSize()
	plan := Plan{
		Viewport:     v,
		Device:       v.Device(),
		CellSize:     cell,
		RingDistance: cell * ringSpacing,
		Center:       Point{X: v.Width / 2, Y: v.Height / 2},
		Placements:   make([]Placement, 0, len(slots)),
	}
	mobile := plan.Device == Mobile
	if mobile {
		plan.CollapseAt = Point{X: v.Width / 2, Y: cell * mobileCenterY}
	} else {
		plan.CollapseAt = plan.Center
	}

	rank := 0
	lastY := 0.0
	for _, s := range slots {
		if s.Ring == 0 {
			plan.Placements = append(plan.Placements, centerPlacement(plan, s))
			continue
		}

		final := card.Style{Size: cell, Transform: card.TransformPinned, Opacity: 1}
		if mobile {
			final.X, final.Y = mobileRow(v, cell, rank)
			lastY = final.Y
		} else {
			theta := s.Angle * math.Pi / 180
			r := float64(s.Ring) * plan.RingDistance
			final.X = plan.Center.X + math.Cos(theta)*r
			final.Y = plan.Center.Y + math.Sin(theta)*r
		}

		plan.Placements = append(plan.Placements, Placement{
			ID:    s.ID,
			Ring:  s.Ring,
			Rank:  rank,
			Final: final,
			Collapsed: card.Style{
				X:         plan.CollapseAt.X,
				Y:         plan.CollapseAt.Y,
				Size:      cell,
				Transform: card.TransformCollapsed,
				Opacity:   1,
			},
			Delay: time.Duration(rank)*StaggerStep + StaggerBase,
		})
		rank++
	}
	plan.Outer = rank

	switch {
	case !mobile:
		plan.ContainerHeight = v.Height
	case rank > 0:
		plan.ContainerHeight = lastY + cell*mobileTailRatio + mobileMargin
		plan.Scroll = true
		// The placeholder takes rank N but always sits in the right column.
		_, py := mobileRow(v, cell, rank)
		plan.Placeholder = &card.Style{
			X:         v.Width * mobileRightX,
			Y:         py,
			Size:      cell,
			Transform: card.TransformPinned,
		}
	default:
		plan.ContainerHeight = v.Height
		plan.Scroll = true
	}
	return plan, nil
}

func centerPlacement(plan Plan, s Slot) Placement {
	style := card.Style{
		Size:      plan.CellSize * centerScale,
		Transform: card.TransformPinned,
		Opacity:   1,
	}
	if plan.Device == Mobile {
		style.X = plan.Viewport.Width * mobileCenterX
		style.Y = plan.CellSize * mobileCenterY
	} else {
		style.X, style.Y = plan.Center.X, plan.Center.Y
	}
	return Placement{ID: s.ID, Ring: s.Ring, Rank: -1, Final: style, Collapsed: style}
}

// mobileRow returns the zigzag position of outer rank k.
func mobileRow(v Viewport, cell float64, k int) (x, y float64) {
	x = v.Width * mobileLeftX
	if k%2 == 1 {
		x = v.Width * mobileRightX
	}
	return x, cell*mobileBaseY + float64(k)*cell*mobileRowStep
}
