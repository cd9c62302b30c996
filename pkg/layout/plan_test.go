package layout

import (
	"math"
	"testing"
	"time"

	"github.com/styloxis/honeycomb/pkg/card"
	"github.com/styloxis/honeycomb/pkg/errors"
)

const eps = 1e-6

func approx(a, b float64) bool { return math.Abs(a-b) < eps }

// honeycombSlots is a center card plus six outer cards at 60° steps.
func honeycombSlots() []Slot {
	slots := []Slot{{ID: "me", Ring: 0}}
	for i, id := range []string{"p1", "p2", "p3", "p4", "p5", "p6"} {
		slots = append(slots, Slot{ID: id, Ring: 1, Angle: float64(i * 60)})
	}
	return slots
}

func TestDevice(t *testing.T) {
	tests := []struct {
		v    Viewport
		want Device
		cell float64
	}{
		{Viewport{1920, 1080}, Desktop, 270},
		{Viewport{400, 800}, Mobile, 180},
		{Viewport{800, 800}, Desktop, 200},
		{Viewport{1000, 600}, Desktop, 150},
	}
	for _, tt := range tests {
		t.Run(tt.v.String(), func(t *testing.T) {
			if got := tt.v.Device(); got != tt.want {
				t.Errorf("Device = %v, want %v", got, tt.want)
			}
			if got := tt.v.CellSize(); !approx(got, tt.cell) {
				t.Errorf("CellSize = %v, want %v", got, tt.cell)
			}
		})
	}
}

func TestComputeRejectsBadViewport(t *testing.T) {
	for _, v := range []Viewport{{0, 100}, {100, -1}, {math.NaN(), 10}, {math.Inf(1), 10}} {
		if _, err := Compute(v, honeycombSlots()); !errors.Is(err, errors.ErrCodeInvalidViewport) {
			t.Errorf("Compute(%v) = %v, want INVALID_VIEWPORT", v, err)
		}
	}
}

func TestComputeDesktop(t *testing.T) {
	plan, err := Compute(Viewport{1920, 1080}, honeycombSlots())
	if err != nil {
		t.Fatal(err)
	}
	if !approx(plan.CellSize, 270) || !approx(plan.RingDistance, 351) {
		t.Fatalf("cell=%v ring=%v", plan.CellSize, plan.RingDistance)
	}
	cx, cy := 960.0, 540.0

	center, _ := plan.Placement("me")
	if !approx(center.Final.X, cx) || !approx(center.Final.Y, cy) || !approx(center.Final.Size, 378) {
		t.Errorf("center = %+v", center.Final)
	}

	tests := []struct {
		id   string
		x, y float64
	}{
		{"p1", cx + 351, cy},
		{"p4", cx - 351, cy},
		{"p2", cx + 351*math.Cos(math.Pi/3), cy + 351*math.Sin(math.Pi/3)},
	}
	for _, tt := range tests {
		pl, ok := plan.Placement(tt.id)
		if !ok {
			t.Fatalf("no placement for %s", tt.id)
		}
		if !approx(pl.Final.X, tt.x) || !approx(pl.Final.Y, tt.y) {
			t.Errorf("%s at (%v,%v), want (%v,%v)", tt.id, pl.Final.X, pl.Final.Y, tt.x, tt.y)
		}
		if !approx(pl.Final.Size, 270) {
			t.Errorf("%s size = %v", tt.id, pl.Final.Size)
		}
	}

	if plan.ContainerHeight != 1080 || plan.Scroll || plan.Placeholder != nil {
		t.Errorf("desktop container = %v scroll=%v placeholder=%v", plan.ContainerHeight, plan.Scroll, plan.Placeholder)
	}
}

func TestComputeDesktopRingOffsets(t *testing.T) {
	v := Viewport{1600, 900}
	cell := v.CellSize()
	for ring := 1; ring <= 3; ring++ {
		for a := 0.0; a < 360; a += 45 {
			plan, err := Compute(v, []Slot{{ID: "c"}, {ID: "x", Ring: ring, Angle: a}})
			if err != nil {
				t.Fatal(err)
			}
			pl, _ := plan.Placement("x")
			r := float64(ring) * 1.3 * cell
			wantX := v.Width/2 + r*math.Cos(a*math.Pi/180)
			wantY := v.Height/2 + r*math.Sin(a*math.Pi/180)
			if !approx(pl.Final.X, wantX) || !approx(pl.Final.Y, wantY) {
				t.Errorf("ring %d angle %v at (%v,%v), want (%v,%v)", ring, a, pl.Final.X, pl.Final.Y, wantX, wantY)
			}
		}
	}
}

func TestComputeMobile(t *testing.T) {
	plan, err := Compute(Viewport{400, 800}, honeycombSlots())
	if err != nil {
		t.Fatal(err)
	}
	if !approx(plan.CellSize, 180) {
		t.Fatalf("cell = %v", plan.CellSize)
	}

	p1, _ := plan.Placement("p1")
	p2, _ := plan.Placement("p2")
	if !approx(p1.Final.X, 120) || !approx(p1.Final.Y, 396) {
		t.Errorf("rank 0 at (%v,%v), want (120,396)", p1.Final.X, p1.Final.Y)
	}
	if !approx(p2.Final.X, 280) || !approx(p2.Final.Y, 504) {
		t.Errorf("rank 1 at (%v,%v), want (280,504)", p2.Final.X, p2.Final.Y)
	}

	for _, pl := range plan.Placements {
		if pl.IsCenter() {
			continue
		}
		wantX := 120.0
		if pl.Rank%2 == 1 {
			wantX = 280
		}
		wantY := 396 + float64(pl.Rank)*108
		if !approx(pl.Final.X, wantX) || !approx(pl.Final.Y, wantY) {
			t.Errorf("rank %d at (%v,%v), want (%v,%v)", pl.Rank, pl.Final.X, pl.Final.Y, wantX, wantY)
		}
	}

	center, _ := plan.Placement("me")
	if !approx(center.Final.X, 260) || !approx(center.Final.Y, 144) || !approx(center.Final.Size, 252) {
		t.Errorf("center = %+v", center.Final)
	}

	// last card y = 396 + 5·108 = 936; + 90 + 128
	if !approx(plan.ContainerHeight, 1154) || !plan.Scroll {
		t.Errorf("container = %v scroll=%v", plan.ContainerHeight, plan.Scroll)
	}
	ph := plan.Placeholder
	if ph == nil {
		t.Fatal("mobile plan should have a placeholder")
	}
	if !approx(ph.X, 280) || !approx(ph.Y, 1044) || ph.Opacity != 0 {
		t.Errorf("placeholder = %+v", *ph)
	}
}

func TestComputeCollapsed(t *testing.T) {
	tests := []struct {
		v    Viewport
		x, y float64
	}{
		{Viewport{1920, 1080}, 960, 540},
		{Viewport{400, 800}, 200, 144},
	}
	for _, tt := range tests {
		plan, _ := Compute(tt.v, honeycombSlots())
		for _, pl := range plan.Placements {
			if pl.IsCenter() {
				if pl.Collapsed != pl.Final {
					t.Errorf("%v: center collapsed differs from final", tt.v)
				}
				continue
			}
			c := pl.Collapsed
			if !approx(c.X, tt.x) || !approx(c.Y, tt.y) || c.Transform != card.TransformCollapsed {
				t.Errorf("%v: %s collapsed = %+v", tt.v, pl.ID, c)
			}
		}
	}
}

func TestComputeStaggerDelays(t *testing.T) {
	plan, _ := Compute(Viewport{1920, 1080}, honeycombSlots())
	for _, pl := range plan.Placements {
		var want time.Duration
		if !pl.IsCenter() {
			want = time.Duration(pl.Rank)*100*time.Millisecond + 200*time.Millisecond
		}
		if pl.Delay != want {
			t.Errorf("%s delay = %v, want %v", pl.ID, pl.Delay, want)
		}
	}
}

func TestComputeEdgeCases(t *testing.T) {
	plan, err := Compute(Viewport{400, 800}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(plan.Placements) != 0 || plan.Placeholder != nil {
		t.Errorf("empty plan = %+v", plan)
	}

	plan, _ = Compute(Viewport{400, 800}, []Slot{{ID: "me"}})
	if plan.Placeholder != nil || plan.Outer != 0 {
		t.Error("center-only mobile plan should have no placeholder")
	}
}
