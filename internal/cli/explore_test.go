package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/styloxis/honeycomb/pkg/catalog"
	"github.com/styloxis/honeycomb/pkg/layout"
)

func newTestExplore(t *testing.T) exploreModel {
	t.Helper()
	v := layout.Viewport{Width: 1920, Height: 1080}
	sim, err := newSimulation(t.Context(), catalog.Default(), v, 0, "")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(sim.ctrl.Stop)
	return newExploreModel(t.Context(), sim, v)
}

func press(m exploreModel, keys ...string) exploreModel {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "backspace":
			msg = tea.KeyMsg{Type: tea.KeyBackspace}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		m = next.(exploreModel)
	}
	return m
}

func TestExploreFlip(t *testing.T) {
	m := newTestExplore(t)
	if len(m.visible) != 7 {
		t.Fatalf("visible = %d, want 7", len(m.visible))
	}

	m = press(m, "enter")
	state := m.sim.ctrl.State()
	if !state.Expanded || state.Flipped != "me" {
		t.Fatalf("after enter on center: %+v", state)
	}

	m = press(m, "down", "enter")
	if got := m.sim.ctrl.State().Flipped; got != m.ids[m.visible[1]] {
		t.Errorf("flipped = %q", got)
	}
	if !strings.Contains(m.View(), "back") {
		t.Error("view should show a back face")
	}

	m = press(m, "esc")
	if got := m.sim.ctrl.State().Flipped; got != "" {
		t.Errorf("flipped after esc = %q", got)
	}
}

func TestExploreSearch(t *testing.T) {
	m := newTestExplore(t)
	m = press(m, "/", "p", "o", "k", "e", "r")
	if !m.searching {
		t.Fatal("not in search mode")
	}
	if len(m.visible) == 0 {
		t.Fatal("no match for poker")
	}
	if id, _ := m.selected(); id != "p4" {
		t.Errorf("best match = %q, want p4", id)
	}

	m = press(m, "enter")
	if m.searching || m.query != "poker" {
		t.Errorf("enter should keep the query: searching=%v query=%q", m.searching, m.query)
	}

	m = press(m, "/", "esc")
	if m.query != "" || len(m.visible) != 7 {
		t.Errorf("esc should clear search: query=%q visible=%d", m.query, len(m.visible))
	}
}

func TestExploreSearchBackspace(t *testing.T) {
	m := newTestExplore(t)
	m = press(m, "/", "z", "z", "z")
	if len(m.visible) != 0 {
		t.Fatalf("visible = %d, want 0", len(m.visible))
	}
	if _, ok := m.selected(); ok {
		t.Error("nothing should be selected")
	}
	m = press(m, "backspace", "backspace", "backspace")
	if len(m.visible) != 7 {
		t.Errorf("visible = %d after clearing", len(m.visible))
	}
}

func TestExploreTick(t *testing.T) {
	v := layout.Viewport{Width: 1920, Height: 1080}
	sim, err := newSimulation(t.Context(), catalog.Default(), v, exploreTick, "")
	if err != nil {
		t.Fatal(err)
	}
	defer sim.ctrl.Stop()
	m := newExploreModel(t.Context(), sim, v)

	next, cmd := m.Update(tickMsg{})
	if cmd == nil {
		t.Error("tick should schedule the next tick")
	}
	if !next.(exploreModel).sim.ctrl.Expanded() {
		t.Error("auto-expand should fire on the virtual clock")
	}
}

func TestExploreQuit(t *testing.T) {
	m := newTestExplore(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should return tea.Quit")
	}
}
