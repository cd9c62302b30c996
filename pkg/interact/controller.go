package interact

import (
	"context"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/styloxis/honeycomb/pkg/card"
	"github.com/styloxis/honeycomb/pkg/layout"
	"github.com/styloxis/honeycomb/pkg/observability"
)

const (
	// AutoExpandDelay is how long after Start the honeycomb expands on its
	// own.
	AutoExpandDelay = 1200 * time.Millisecond
	// RippleLifetime is how long a ripple node stays on the board.
	RippleLifetime = 600 * time.Millisecond

	timerGroup    = "interact"
	autoExpandKey = "auto-expand"
)

// Result describes what an event changed.
type Result struct {
	Changed  bool         `json:"changed"`
	Expanded bool         `json:"expanded"`
	Ripple   *card.Ripple `json:"ripple,omitempty"`
}

// Controller is the interaction state machine of one honeycomb.
//
// Every event and every timer callback runs under one mutex, so at most
// one card is flipped after any of them returns, and the honeycomb expands
// at most once.
type Controller struct {
	mu     sync.Mutex
	board  *card.Board
	engine *layout.Engine
	sched  layout.Scheduler
	logger *log.Logger
	newID  func() string

	autoExpand time.Duration
	started    bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithScheduler sets the scheduler for entrance moves, ripple removal and
// auto-expansion. The default is a TimerScheduler bound to the
// controller's mutex.
func WithScheduler(s layout.Scheduler) Option {
	return func(c *Controller) { c.sched = s }
}

// WithLogger sets the debug logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithAutoExpand sets the auto-expand delay. Zero or negative disables it.
func WithAutoExpand(d time.Duration) Option {
	return func(c *Controller) { c.autoExpand = d }
}

// WithIDGenerator replaces the ripple id generator.
func WithIDGenerator(fn func() string) Option {
	return func(c *Controller) { c.newID = fn }
}

// New returns a controller over board.
func New(board *card.Board, opts ...Option) *Controller {
	c := &Controller{
		board:      board,
		autoExpand: AutoExpandDelay,
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.sched == nil {
		c.sched = layout.NewTimerScheduler(&c.mu)
	}
	engineOpts := []layout.Option{layout.WithScheduler(c.sched)}
	if c.logger != nil {
		engineOpts = append(engineOpts, layout.WithLogger(c.logger))
	}
	c.engine = layout.NewEngine(engineOpts...)
	return c
}

// Board returns the controlled board. Callers must not mutate it while
// events may be in flight.
func (c *Controller) Board() *card.Board { return c.board }

// Start runs the first layout pass and arms the auto-expand timer. Calling
// Start again only re-runs the layout.
func (c *Controller) Start(ctx context.Context, v layout.Viewport) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.engine.Layout(ctx, c.board, v); err != nil {
		return err
	}
	if c.started {
		return nil
	}
	c.started = true
	if c.autoExpand > 0 {
		c.sched.Schedule(layout.Key{Group: timerGroup, ID: autoExpandKey, Delay: c.autoExpand}, func() {
			c.expandOnce(context.Background())
		})
	}
	return nil
}

// Handle applies ev. Malformed events are rejected with INVALID_EVENT;
// events aimed at nothing are accepted and change nothing.
func (c *Controller) Handle(ctx context.Context, ev Event) (Result, error) {
	if err := ev.Validate(); err != nil {
		return Result{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	res, err := c.handle(ctx, ev)
	res.Expanded = c.engine.Expanded()
	observability.Interaction().OnEvent(ctx, string(ev.Kind), res.Changed)
	if c.logger != nil {
		c.logger.Debug("event", "kind", ev.Kind, "target", ev.Target, "changed", res.Changed)
	}
	return res, err
}

func (c *Controller) handle(ctx context.Context, ev Event) (Result, error) {
	mobile := c.engine.State().Viewport.Device() == layout.Mobile

	switch ev.Kind {
	case Activate:
		target, ok := c.board.Card(ev.Target)
		if !ok {
			return Result{}, nil
		}
		if ev.Source == Keyboard {
			return Result{Changed: c.toggle(ctx, target)}, nil
		}
		ripple := c.addRipple(ev.X, ev.Y)
		res := Result{Ripple: &ripple}
		// Desktop pointers flip outer cards by hovering; a click only flips
		// the center card.
		if mobile || target.IsCenter() {
			res.Changed = c.toggle(ctx, target)
		}
		return res, nil

	case HoverEnter, HoverLeave:
		target, ok := c.board.Card(ev.Target)
		if !ok || mobile {
			return Result{}, nil
		}
		return Result{Changed: c.setFlipped(ctx, target, ev.Kind == HoverEnter)}, nil

	case Escape:
		return Result{Changed: c.clearFlips(ctx)}, nil

	case OutsideClick:
		if !mobile {
			return Result{}, nil
		}
		return Result{Changed: c.clearFlips(ctx)}, nil

	case VisitClick:
		return Result{}, nil

	case Resize:
		before := c.board.Snapshot()
		if _, err := c.engine.Layout(ctx, c.board, layout.Viewport{Width: ev.Width, Height: ev.Height}); err != nil {
			return Result{}, err
		}
		return Result{Changed: !sameStyles(before, c.board.Snapshot())}, nil

	case Expand:
		if c.engine.Expanded() {
			return Result{}, nil
		}
		c.expandOnce(ctx)
		return Result{Changed: true}, nil

	case PointerMove:
		v := c.engine.State().Viewport
		if !c.engine.Expanded() || v.Validate() != nil {
			return Result{}, nil
		}
		t := ParallaxTransform(v, ev.X, ev.Y)
		changed := c.board.Container().Transform != t
		c.board.SetTransform(t)
		return Result{Changed: changed}, nil
	}
	return Result{}, nil
}

// toggle flips target. Activating the center card while collapsed expands
// the honeycomb first.
func (c *Controller) toggle(ctx context.Context, target *card.Card) bool {
	if target.IsCenter() {
		c.expandOnce(ctx)
	}
	flipped := !target.Flipped()
	target.SetFlipped(flipped)
	target.SetPressed(flipped)
	observability.Interaction().OnFlip(ctx, target.ID(), flipped)
	if flipped {
		c.clearOthers(ctx, target.ID())
	}
	return true
}

func (c *Controller) setFlipped(ctx context.Context, target *card.Card, flipped bool) bool {
	changed := target.Flipped() != flipped
	if changed {
		target.SetFlipped(flipped)
		observability.Interaction().OnFlip(ctx, target.ID(), flipped)
	}
	if !flipped && target.Pressed() {
		target.SetPressed(false)
		changed = true
	}
	if flipped && c.clearOthers(ctx, target.ID()) {
		changed = true
	}
	return changed
}

func (c *Controller) clearOthers(ctx context.Context, keep string) bool {
	changed := false
	for _, other := range c.board.Cards() {
		if other.ID() == keep {
			continue
		}
		if other.Flipped() {
			other.SetFlipped(false)
			observability.Interaction().OnFlip(ctx, other.ID(), false)
			changed = true
		}
		if other.Pressed() {
			other.SetPressed(false)
			changed = true
		}
	}
	return changed
}

func (c *Controller) clearFlips(ctx context.Context) bool {
	return c.clearOthers(ctx, "")
}

// expandOnce expands the honeycomb the first time it is called. Callers
// hold c.mu.
func (c *Controller) expandOnce(ctx context.Context) {
	if !c.engine.Expand(c.board) {
		return
	}
	c.sched.Cancel(layout.Key{Group: timerGroup, ID: autoExpandKey, Delay: c.autoExpand})
	c.board.AddClass(card.ClassExpanded, card.ClassParallax)
	c.board.SetState(card.StateExpanded)
	observability.Interaction().OnExpand(ctx, len(c.board.Cards()))
}

func (c *Controller) addRipple(x, y float64) card.Ripple {
	r := card.Ripple{ID: c.newID(), X: x, Y: y}
	c.board.AddRipple(r)
	c.sched.Schedule(layout.Key{Group: timerGroup, ID: "ripple/" + r.ID, Delay: RippleLifetime}, func() {
		c.board.RemoveRipple(r.ID)
	})
	return r
}

// Expand expands the honeycomb if it is not already expanded.
func (c *Controller) Expand(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.expandOnce(ctx)
}

// Expanded reports whether the honeycomb has expanded.
func (c *Controller) Expanded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.engine.Expanded()
}

// Plan returns the latest layout plan.
func (c *Controller) Plan() (layout.Plan, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.engine.Plan()
}

// Stop cancels every pending timer.
func (c *Controller) Stop() {
	c.sched.Stop()
}

const parallaxRange = 14

// ParallaxTransform returns the container transform for a pointer at
// (px, py) in viewport v.
func ParallaxTransform(v layout.Viewport, px, py float64) string {
	x := (px/v.Width - .5) * parallaxRange
	y := (py/v.Height - .5) * parallaxRange
	return "translate3d(" + num(x*.6) + "px, " + num(y*.6) + "px, 0) " +
		"rotateX(" + num(-y*.15) + "deg) rotateY(" + num(x*.25) + "deg)"
}

// num formats v with at most three decimals and no negative zero.
func num(v float64) string {
	v = math.Round(v*1000) / 1000
	if v == 0 {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func sameStyles(a, b card.BoardSnapshot) bool {
	if len(a.Cards) != len(b.Cards) {
		return false
	}
	for i := range a.Cards {
		if a.Cards[i].Style != b.Cards[i].Style {
			return false
		}
	}
	return a.Container.Height == b.Container.Height && a.Container.Scroll == b.Container.Scroll
}
