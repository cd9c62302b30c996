package interact

import (
	"context"
	"slices"

	"github.com/styloxis/honeycomb/pkg/card"
	"github.com/styloxis/honeycomb/pkg/layout"
)

// State is the serializable interaction state of a honeycomb. Together
// with the catalog it is enough to rebuild a Controller.
type State struct {
	Expanded  bool            `json:"expanded"`
	Viewport  layout.Viewport `json:"viewport"`
	Flipped   string          `json:"flipped,omitempty"`
	Pressed   []string        `json:"pressed,omitempty"`
	Transform string          `json:"transform,omitempty"`
}

// State returns the current interaction state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state()
}

func (c *Controller) state() State {
	st := State{
		Expanded:  c.engine.Expanded(),
		Viewport:  c.engine.State().Viewport,
		Transform: c.board.Container().Transform,
	}
	for _, cd := range c.board.Cards() {
		if cd.Flipped() {
			st.Flipped = cd.ID()
		}
		if cd.Pressed() {
			st.Pressed = append(st.Pressed, cd.ID())
		}
	}
	return st
}

// Restore rebuilds a controller over board from st. The restored controller
// counts as started: no auto-expand timer is armed and an expanded
// honeycomb is laid out at final positions without an entrance.
func Restore(ctx context.Context, board *card.Board, st State, opts ...Option) (*Controller, error) {
	c := New(board, opts...)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.started = true

	engineOpts := []layout.Option{layout.WithScheduler(c.sched)}
	if c.logger != nil {
		engineOpts = append(engineOpts, layout.WithLogger(c.logger))
	}
	if st.Expanded {
		engineOpts = append(engineOpts, layout.WithExpanded())
		board.AddClass(card.ClassExpanded, card.ClassParallax)
		board.SetState(card.StateExpanded)
		board.SetTransform(st.Transform)
	}
	c.engine = layout.NewEngine(engineOpts...)

	if st.Viewport.Validate() == nil {
		if _, err := c.engine.Layout(ctx, board, st.Viewport); err != nil {
			return nil, err
		}
	}
	for _, cd := range board.Cards() {
		cd.SetFlipped(cd.ID() == st.Flipped)
		cd.SetPressed(slices.Contains(st.Pressed, cd.ID()))
	}
	return c, nil
}

// Snapshot is a full, serializable view of a controller.
type Snapshot struct {
	State State              `json:"state"`
	Board card.BoardSnapshot `json:"board"`
	Plan  *layout.Plan       `json:"plan,omitempty"`
}

// Snapshot returns the current state, board and plan.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := Snapshot{State: c.state(), Board: c.board.Snapshot()}
	if plan, ok := c.engine.Plan(); ok {
		s.Plan = &plan
	}
	return s
}
