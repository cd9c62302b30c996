package layout

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/styloxis/honeycomb/pkg/card"
	"github.com/styloxis/honeycomb/pkg/observability"
)

// Surface is the container an Engine lays cards out in.
type Surface interface {
	Views() []card.View
	SetContainer(height float64, scroll bool)
	AddPlaceholder(card.Style)
	RemovePlaceholder()
}

// State is the layout state of one honeycomb.
type State struct {
	// Expanded flips from false to true once and never reverts.
	Expanded bool     `json:"expanded"`
	Viewport Viewport `json:"viewport"`
}

// Engine applies layout plans to a surface and owns the expansion state.
// It is not safe for concurrent use; the owner serializes calls and
// scheduler callbacks (see NewTimerScheduler).
type Engine struct {
	sched  Scheduler
	logger *log.Logger

	state  State
	latest *Plan
}

// Option configures an Engine.
type Option func(*Engine)

// WithScheduler sets the scheduler used for the staggered entrance.
// Defaults to a TimerScheduler with no lock.
func WithScheduler(s Scheduler) Option {
	return func(e *Engine) { e.sched = s }
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithExpanded starts the engine already expanded, skipping the entrance.
func WithExpanded() Option {
	return func(e *Engine) { e.state.Expanded = true }
}

// NewEngine returns an engine in the collapsed state.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	if e.sched == nil {
		e.sched = NewTimerScheduler(nil)
	}
	return e
}

// State returns the current state.
func (e *Engine) State() State { return e.state }

// Expanded reports whether the honeycomb has been expanded.
func (e *Engine) Expanded() bool { return e.state.Expanded }

// Plan returns the most recent plan, if any.
func (e *Engine) Plan() (Plan, bool) {
	if e.latest == nil {
		return Plan{}, false
	}
	return *e.latest, true
}

// Layout computes the plan for v and writes it to s.
//
// Center cards are always pinned. Outer cards are written collapsed before
// expansion and at their final position afterwards; an outer card keeps
// whatever transition it already has. On mobile the placeholder is removed
// and re-added; on desktop it is removed. A surface without cards is left
// untouched.
func (e *Engine) Layout(ctx context.Context, s Surface, v Viewport) (Plan, error) {
	views := s.Views()
	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, v.Device().String(), len(views))
	start := time.Now()

	plan, err := Compute(v, SlotsOf(views))
	hooks.OnLayoutComplete(ctx, v.Device().String(), time.Since(start), err)
	if err != nil {
		return Plan{}, err
	}
	e.state.Viewport = v
	e.latest = &plan

	if len(views) == 0 {
		return plan, nil
	}

	for i, view := range views {
		pl := plan.Placements[i]
		style := pl.Final
		if !pl.IsCenter() {
			if !e.state.Expanded {
				style = pl.Collapsed
			}
			style.Transition = view.Style().Transition
		}
		view.SetStyle(style)
	}

	s.SetContainer(plan.ContainerHeight, plan.Scroll)
	s.RemovePlaceholder()
	if plan.Placeholder != nil {
		s.AddPlaceholder(*plan.Placeholder)
	}

	if e.logger != nil {
		e.logger.Debug("layout", "viewport", v, "device", plan.Device, "cell", plan.CellSize, "expanded", e.state.Expanded)
	}
	return plan, nil
}

// Expand marks the honeycomb expanded and schedules the staggered move of
// every outer card to its final position. It reports false, and does
// nothing, if the honeycomb was already expanded.
//
// Each move reads the latest plan when it fires, so a resize during the
// entrance lands cards at the new positions.
func (e *Engine) Expand(s Surface) bool {
	if e.state.Expanded {
		return false
	}
	e.state.Expanded = true

	views := s.Views()
	rank := 0
	for _, view := range views {
		if view.Ring() == 0 {
			continue
		}
		key := Key{ID: view.ID(), Delay: time.Duration(rank)*StaggerStep + StaggerBase}
		e.sched.Schedule(key, func() { e.moveOut(view) })
		rank++
	}

	if e.logger != nil {
		e.logger.Debug("expand", "cards", rank)
	}
	return true
}

func (e *Engine) moveOut(view card.View) {
	if e.latest == nil {
		return
	}
	pl, ok := e.latest.Placement(view.ID())
	if !ok {
		return
	}
	style := pl.Final
	style.Transition = card.TransitionExpand
	view.SetStyle(style)
}

// Stop cancels pending entrance moves.
func (e *Engine) Stop() { e.sched.Stop() }
