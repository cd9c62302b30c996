package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/styloxis/honeycomb/pkg/catalog"
	"github.com/styloxis/honeycomb/pkg/interact"
	"github.com/styloxis/honeycomb/pkg/layout"
)

func TestParseScript(t *testing.T) {
	sc, err := parseScript(strings.NewReader(`
viewport: {width: 400, height: 800}
steps:
  - {kind: activate, target: me, source: keyboard}
  - {kind: hover_enter, target: a, after: 300ms}
  - kind: resize
    width: 1280
    height: 720
`))
	if err != nil {
		t.Fatal(err)
	}
	if sc.Viewport == nil || sc.Viewport.Device() != layout.Mobile {
		t.Fatalf("viewport = %+v", sc.Viewport)
	}
	if len(sc.Steps) != 3 {
		t.Fatalf("steps = %d, want 3", len(sc.Steps))
	}
	if sc.Steps[0].Source != interact.Keyboard {
		t.Errorf("source = %q", sc.Steps[0].Source)
	}
	if sc.Steps[1].After != 300*time.Millisecond {
		t.Errorf("after = %v", sc.Steps[1].After)
	}
	if sc.Steps[2].Width != 1280 {
		t.Errorf("resize width = %v", sc.Steps[2].Width)
	}
}

func TestParseScriptJSON(t *testing.T) {
	sc, err := parseScript(strings.NewReader(`{"steps":[{"kind":"escape"}]}`))
	if err != nil {
		t.Fatal(err)
	}
	if len(sc.Steps) != 1 || sc.Steps[0].Kind != interact.Escape {
		t.Errorf("steps = %+v", sc.Steps)
	}
}

func TestParseScriptErrors(t *testing.T) {
	tests := map[string]string{
		"unknown kind":   `steps: [{kind: wiggle}]`,
		"unknown field":  `steps: [{kind: escape, colour: red}]`,
		"negative delay": `steps: [{kind: escape, after: -1s}]`,
		"bad resize":     `steps: [{kind: resize, width: 0, height: 10}]`,
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := parseScript(strings.NewReader(in)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestParseScriptEmpty(t *testing.T) {
	sc, err := parseScript(strings.NewReader(""))
	if err != nil {
		t.Fatal(err)
	}
	if len(sc.Steps) != 0 {
		t.Errorf("steps = %d", len(sc.Steps))
	}
}

func TestSimulationAutoExpand(t *testing.T) {
	sim, err := newSimulation(t.Context(), catalog.Default(), layout.Viewport{Width: 1920, Height: 1080}, 1200*time.Millisecond, "")
	if err != nil {
		t.Fatal(err)
	}
	defer sim.ctrl.Stop()

	sim.sched.Advance(1199 * time.Millisecond)
	if sim.ctrl.Expanded() {
		t.Fatal("expanded before the delay")
	}
	sim.sched.Advance(time.Millisecond)
	if !sim.ctrl.Expanded() {
		t.Fatal("not expanded after the delay")
	}
}

func TestSimulationSingleFlip(t *testing.T) {
	sim, err := newSimulation(t.Context(), catalog.Default(), layout.Viewport{Width: 1920, Height: 1080}, 0, "")
	if err != nil {
		t.Fatal(err)
	}
	defer sim.ctrl.Stop()

	steps := []step{
		{Event: interact.Event{Kind: interact.Activate, Target: "me", Source: interact.Keyboard}},
		{Event: interact.Event{Kind: interact.HoverEnter, Target: "p1"}, After: 2 * time.Second},
		{Event: interact.Event{Kind: interact.HoverEnter, Target: "p2"}},
	}
	for _, st := range steps {
		if _, err := sim.step(t.Context(), st); err != nil {
			t.Fatal(err)
		}
	}
	if got := sim.ctrl.State().Flipped; got != "p2" {
		t.Errorf("flipped = %q, want p2", got)
	}
	n := 0
	for _, cd := range sim.ctrl.Board().Cards() {
		if cd.Flipped() {
			n++
		}
	}
	if n != 1 {
		t.Errorf("%d cards flipped, want 1", n)
	}

	row := sim.row(steps[2], interact.Result{Changed: true})
	if row[1] != "hover_enter" || row[2] != "p2" || row[3] != "true" || row[5] != "p2" {
		t.Errorf("row = %v", row)
	}
}

func TestSimulateCommand(t *testing.T) {
	dir := t.TempDir()
	catalogPath := writeCatalog(t, dir)
	events := writeFile(t, dir, "events.yaml", `
viewport: {width: 1920, height: 1080}
steps:
  - {kind: activate, target: me, source: keyboard}
  - {kind: hover_enter, target: a, after: 2s}
  - {kind: escape, after: 100ms}
`)
	snapPath := filepath.Join(dir, "snapshot.json")

	out, err := runCLI(t, "simulate", catalogPath, "-e", events, "-o", snapPath)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"hover_enter", "escape", "desktop", "expanded", "none"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	data, err := os.ReadFile(snapPath)
	if err != nil {
		t.Fatal(err)
	}
	var snap interact.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		t.Fatal(err)
	}
	if !snap.State.Expanded || snap.State.Flipped != "" {
		t.Errorf("state = %+v", snap.State)
	}
	if len(snap.Board.Cards) != 4 {
		t.Errorf("cards = %d, want 4", len(snap.Board.Cards))
	}
}

func TestSequentialIDs(t *testing.T) {
	next := sequentialIDs("ripple")
	if a, b := next(), next(); a != "ripple-1" || b != "ripple-2" {
		t.Errorf("ids = %s, %s", a, b)
	}
}
