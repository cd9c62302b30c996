package snapshot

import (
	"bytes"
	"encoding/json"
	"image/png"
	"math"
	"strings"
	"testing"

	"github.com/styloxis/honeycomb/pkg/card"
	"github.com/styloxis/honeycomb/pkg/catalog"
	"github.com/styloxis/honeycomb/pkg/errors"
	"github.com/styloxis/honeycomb/pkg/layout"
	"github.com/styloxis/honeycomb/pkg/render"
)

func scene(t *testing.T, v layout.Viewport, expanded bool) render.Scene {
	t.Helper()
	board := card.NewBoard(card.NewFactory().Build(catalog.Default()))
	plan, err := layout.Compute(v, layout.SlotsOf(board.Views()))
	if err != nil {
		t.Fatal(err)
	}
	for _, pl := range plan.Placements {
		c, _ := board.Card(pl.ID)
		st := pl.Collapsed
		if expanded || pl.IsCenter() {
			st = pl.Final
		}
		c.SetStyle(st)
	}
	board.SetContainer(plan.ContainerHeight, plan.Scroll)
	if p, ok := board.Card("p2"); ok {
		p.SetFlipped(true)
	}
	board.AddRipple(card.Ripple{ID: "r1", X: 10, Y: 20})
	return render.NewScene(plan, board.Snapshot())
}

func TestRenderSVG(t *testing.T) {
	s := scene(t, layout.DefaultViewport, true)
	out := string(RenderSVG(s, WithTitle("Styloxis"), WithRipples()))

	for _, want := range []string{
		`<title>Styloxis</title>`,
		`id="card-me"`,
		`id="card-p6"`,
		`>MMO</text>`,
		"<circle",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("svg missing %q", want)
		}
	}
	if got := strings.Count(out, "<polygon"); got != 7 {
		t.Errorf("polygons = %d, want 7", got)
	}
	if !strings.HasSuffix(strings.TrimSpace(out), "</svg>") {
		t.Error("svg not closed")
	}
}

func TestRenderSVGFlippedShowsBack(t *testing.T) {
	s := scene(t, layout.DefaultViewport, true)
	out := string(RenderSVG(s, WithBodyLength(0)))
	if !strings.Contains(out, ">Undead zone</text>") {
		t.Error("flipped card title missing")
	}
	if strings.Contains(out, "<circle") {
		t.Error("ripples drawn without WithRipples")
	}
}

func TestRenderPNG(t *testing.T) {
	s := scene(t, layout.Viewport{Width: 400, Height: 800}, false)
	data, err := RenderPNG(s, WithScale(0.5))
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	b := img.Bounds()
	_, h := s.Size()
	if b.Dx() != 200 || b.Dy() != int(math.Ceil(h*0.5)) {
		t.Errorf("bounds = %v", b)
	}

	if _, err := RenderPNG(s, WithScale(0)); err == nil {
		t.Error("expected error for zero scale")
	}
	if _, err := RenderPNG(s, WithScale(100)); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("oversized png: err = %v, want INVALID_INPUT", err)
	}
}

func TestRenderJSON(t *testing.T) {
	s := scene(t, layout.DefaultViewport, false)
	data, err := RenderJSON(s)
	if err != nil {
		t.Fatal(err)
	}
	var got struct {
		Device string `json:"device"`
		Cards  []struct {
			ID    string `json:"id"`
			Style struct {
				Transform string `json:"transform"`
			} `json:"style"`
		} `json:"cards"`
	}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got.Device != "desktop" || len(got.Cards) != 7 {
		t.Fatalf("got %+v", got)
	}
	if got.Cards[1].Style.Transform != card.TransformCollapsed {
		t.Errorf("outer card transform = %q", got.Cards[1].Style.Transform)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("abcdef", 4); got != "abc…" {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("abc", 4); got != "abc" {
		t.Errorf("truncate = %q", got)
	}
}
