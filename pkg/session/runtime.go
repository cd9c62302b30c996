package session

import (
	"context"
	"hash/fnv"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/styloxis/honeycomb/pkg/card"
	"github.com/styloxis/honeycomb/pkg/catalog"
	"github.com/styloxis/honeycomb/pkg/errors"
	"github.com/styloxis/honeycomb/pkg/interact"
	"github.com/styloxis/honeycomb/pkg/layout"
)

// CatalogProvider returns the current catalog. Implementations may swap
// the catalog between calls.
type CatalogProvider interface {
	Catalog() *catalog.Catalog
}

// StaticCatalog is a CatalogProvider that never changes.
type StaticCatalog struct{ C *catalog.Catalog }

func (s StaticCatalog) Catalog() *catalog.Catalog { return s.C }

// lockStripes bounds the per-session locks.
const lockStripes = 64

// Runtime applies visitor events to stored sessions.
//
// Each call rebuilds the board from the current catalog, restores a
// controller on a manual clock, applies the event and flushes the
// entrance, then stores the new state. Events for the same session are
// serialized within one Runtime.
type Runtime struct {
	catalogs CatalogProvider
	store    Store
	factory  *card.Factory
	ttl      time.Duration
	logger   *log.Logger

	locks [lockStripes]sync.Mutex
}

// RuntimeOption configures a Runtime.
type RuntimeOption func(*Runtime)

// WithTTL sets the session lifetime.
func WithTTL(ttl time.Duration) RuntimeOption { return func(r *Runtime) { r.ttl = ttl } }

// WithFactory sets the card factory.
func WithFactory(f *card.Factory) RuntimeOption { return func(r *Runtime) { r.factory = f } }

// WithLogger sets the logger.
func WithLogger(l *log.Logger) RuntimeOption { return func(r *Runtime) { r.logger = l } }

// NewRuntime returns a Runtime over catalogs and store.
func NewRuntime(catalogs CatalogProvider, store Store, opts ...RuntimeOption) *Runtime {
	r := &Runtime{
		catalogs: catalogs,
		store:    store,
		factory:  card.NewFactory(),
		ttl:      DefaultTTL,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Store returns the backing store.
func (r *Runtime) Store() Store { return r.store }

func (r *Runtime) lock(id string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(id))
	return &r.locks[h.Sum32()%lockStripes]
}

// Create starts a session for viewport v. The honeycomb starts collapsed;
// the visitor's client sends an Expand event when its timer fires.
func (r *Runtime) Create(ctx context.Context, v layout.Viewport) (*Session, interact.Snapshot, error) {
	if err := v.Validate(); err != nil {
		return nil, interact.Snapshot{}, err
	}
	sess := New(v, r.ttl)

	board := r.board()
	sched := layout.NewManualScheduler()
	ctrl := interact.New(board, r.controllerOpts(sched, interact.WithAutoExpand(0))...)
	defer ctrl.Stop()
	if err := ctrl.Start(ctx, v); err != nil {
		return nil, interact.Snapshot{}, err
	}

	snap := ctrl.Snapshot()
	sess.State = snap.State
	if err := r.store.Set(ctx, sess); err != nil {
		return nil, interact.Snapshot{}, errors.Wrap(errors.ErrCodeInternal, err, "store session")
	}
	r.debug("session created", "id", sess.ID, "viewport", v)
	return sess, snap, nil
}

// Get returns the session and a snapshot of its honeycomb.
func (r *Runtime) Get(ctx context.Context, id string) (*Session, interact.Snapshot, error) {
	sess, err := r.load(ctx, id)
	if err != nil {
		return nil, interact.Snapshot{}, err
	}
	ctrl, _, err := r.restore(ctx, sess)
	if err != nil {
		return nil, interact.Snapshot{}, err
	}
	defer ctrl.Stop()
	return sess, ctrl.Snapshot(), nil
}

// Handle applies ev to the session and stores the result. The returned
// snapshot shows the board after every entrance move has landed; a ripple
// created by the event is included even though its lifetime is shorter.
func (r *Runtime) Handle(ctx context.Context, id string, ev interact.Event) (*Session, interact.Snapshot, interact.Result, error) {
	if err := ev.Validate(); err != nil {
		return nil, interact.Snapshot{}, interact.Result{}, err
	}
	mu := r.lock(id)
	mu.Lock()
	defer mu.Unlock()

	sess, err := r.load(ctx, id)
	if err != nil {
		return nil, interact.Snapshot{}, interact.Result{}, err
	}
	ctrl, sched, err := r.restore(ctx, sess)
	if err != nil {
		return nil, interact.Snapshot{}, interact.Result{}, err
	}
	defer ctrl.Stop()

	res, err := ctrl.Handle(ctx, ev)
	if err != nil {
		return nil, interact.Snapshot{}, interact.Result{}, err
	}
	sched.Advance(entranceSpan(len(ctrl.Board().Cards())))

	snap := ctrl.Snapshot()
	if res.Ripple != nil && !slices.ContainsFunc(snap.Board.Ripples, func(rp card.Ripple) bool { return rp.ID == res.Ripple.ID }) {
		snap.Board.Ripples = append(snap.Board.Ripples, *res.Ripple)
	}

	sess.State = snap.State
	sess.Events++
	sess.Touch(r.ttl)
	if err := r.store.Set(ctx, sess); err != nil {
		return nil, interact.Snapshot{}, interact.Result{}, errors.Wrap(errors.ErrCodeInternal, err, "store session")
	}
	r.debug("session event", "id", id, "kind", ev.Kind, "changed", res.Changed)
	return sess, snap, res, nil
}

// Delete ends a session.
func (r *Runtime) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, id)
}

func (r *Runtime) load(ctx context.Context, id string) (*Session, error) {
	sess, err := r.store.Get(ctx, id)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "load session")
	}
	if sess == nil {
		return nil, errors.New(errors.ErrCodeSessionNotFound, "session %q not found", id)
	}
	return sess, nil
}

func (r *Runtime) restore(ctx context.Context, sess *Session) (*interact.Controller, *layout.ManualScheduler, error) {
	sched := layout.NewManualScheduler()
	ctrl, err := interact.Restore(ctx, r.board(), sess.State, r.controllerOpts(sched)...)
	if err != nil {
		return nil, nil, err
	}
	return ctrl, sched, nil
}

func (r *Runtime) board() *card.Board {
	c := r.catalogs.Catalog()
	if c == nil {
		c = catalog.Empty()
	}
	return card.NewBoard(r.factory.Build(c))
}

func (r *Runtime) controllerOpts(sched layout.Scheduler, extra ...interact.Option) []interact.Option {
	opts := []interact.Option{interact.WithScheduler(sched)}
	if r.logger != nil {
		opts = append(opts, interact.WithLogger(r.logger))
	}
	return append(opts, extra...)
}

func (r *Runtime) debug(msg string, kv ...any) {
	if r.logger != nil {
		r.logger.Debug(msg, kv...)
	}
}

// entranceSpan is the time for every staggered move of n cards to land.
func entranceSpan(n int) time.Duration {
	return layout.StaggerBase + time.Duration(n)*layout.StaggerStep
}
