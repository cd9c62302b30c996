// Package watcher reloads the project catalog and detail documents when
// their files change.
//
// Editors often save by writing a temporary file and renaming it, so the
// watcher observes parent directories and filters by path. Bursts of
// events are debounced into a single reload.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/styloxis/honeycomb/pkg/catalog"
)

// Live holds the current catalog and detail store; reloads swap them
// atomically. It satisfies session.CatalogProvider.
type Live struct {
	catalog atomic.Pointer[catalog.Catalog]
	details atomic.Pointer[catalog.MemoryStore]
	version atomic.Uint64
}

// NewLive returns a Live holding c and details (which may be nil).
func NewLive(c *catalog.Catalog, details *catalog.MemoryStore) *Live {
	l := &Live{}
	l.Store(c, details)
	return l
}

// Catalog returns the current catalog.
func (l *Live) Catalog() *catalog.Catalog { return l.catalog.Load() }

// Detail implements catalog.DetailStore over the current preloaded store.
func (l *Live) Detail(ctx context.Context, id string) (*catalog.Detail, error) {
	store := l.details.Load()
	if store == nil {
		store = catalog.NewMemoryStore()
	}
	return store.Detail(ctx, id)
}

// Store swaps in a new catalog and detail store. A nil catalog is stored
// as empty.
func (l *Live) Store(c *catalog.Catalog, details *catalog.MemoryStore) {
	if c == nil {
		c = catalog.Empty()
	}
	l.catalog.Store(c)
	if details != nil {
		l.details.Store(details)
	}
	l.version.Add(1)
}

// Version counts swaps, starting at 1.
func (l *Live) Version() uint64 { return l.version.Load() }

// Watcher calls a reload function when watched files change.
type Watcher struct {
	fs        *fsnotify.Watcher
	debouncer *Debouncer
	files     map[string]bool // exact files
	dirs      map[string]bool // every file below
	reload    func(ctx context.Context) error
	logger    *log.Logger
	reloads   atomic.Uint64
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before a reload.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debouncer = NewDebouncer(d) }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(w *Watcher) { w.logger = l }
}

// New watches files and every JSON file in dirs. Empty entries are
// ignored.
func New(files, dirs []string, reload func(ctx context.Context) error, opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	w := &Watcher{
		fs:        fsw,
		debouncer: NewDebouncer(0),
		files:     map[string]bool{},
		dirs:      map[string]bool{},
		reload:    reload,
		logger:    log.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}

	watched := map[string]bool{}
	add := func(dir string) error {
		if watched[dir] {
			return nil
		}
		watched[dir] = true
		return fsw.Add(dir)
	}
	for _, f := range files {
		if f == "" {
			continue
		}
		abs, err := filepath.Abs(f)
		if err != nil {
			fsw.Close()
			return nil, err
		}
		w.files[abs] = true
		if err := add(filepath.Dir(abs)); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("watch %s: %w", f, err)
		}
	}
	for _, d := range dirs {
		if d == "" {
			continue
		}
		abs, err := filepath.Abs(d)
		if err != nil {
			fsw.Close()
			return nil, err
		}
		w.dirs[abs] = true
		if err := add(abs); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("watch %s: %w", d, err)
		}
	}
	return w, nil
}

// Run processes events until ctx is done. Reload errors are logged and the
// previous state is kept.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.debouncer.Cancel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			w.logger.Debug("file changed", "path", ev.Name, "op", ev.Op.String())
			w.debouncer.Trigger(func() { w.fire(ctx) })
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "err", err)
		}
	}
}

func (w *Watcher) fire(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if err := w.reload(ctx); err != nil {
		w.logger.Warn("reload failed, keeping previous data", "err", err)
		return
	}
	n := w.reloads.Add(1)
	w.logger.Info("reloaded", "count", n)
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if ev.Op == fsnotify.Chmod {
		return false
	}
	name := filepath.Clean(ev.Name)
	if w.files[name] {
		return true
	}
	if strings.HasSuffix(name, ".json") && w.dirs[filepath.Dir(name)] {
		return true
	}
	return false
}

// Reloads returns how many reloads succeeded.
func (w *Watcher) Reloads() uint64 { return w.reloads.Load() }

// Close stops watching.
func (w *Watcher) Close() error {
	w.debouncer.Cancel()
	return w.fs.Close()
}

// Reloader returns a reload function that rebuilds the catalog from src
// and, when details is not nil, preloads detail documents, then swaps
// both into live. Strict loading is used so a broken file keeps the
// previous catalog instead of emptying the site.
func Reloader(live *Live, src catalog.Source, details catalog.DetailStore) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		c, err := catalog.LoadStrict(ctx, src)
		if err != nil {
			return err
		}
		var store *catalog.MemoryStore
		if details != nil {
			store, _, err = catalog.Preload(ctx, c, details)
			if err != nil {
				return err
			}
		}
		live.Store(c, store)
		return nil
	}
}
