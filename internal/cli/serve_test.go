package cli

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/styloxis/honeycomb/pkg/catalog"
	"github.com/styloxis/honeycomb/pkg/config"
	"github.com/styloxis/honeycomb/pkg/watcher"
)

func TestStartWatcherNothingLocal(t *testing.T) {
	c := New(io.Discard, log.InfoLevel)
	live := watcher.NewLive(catalog.Default(), nil)

	w, err := c.startWatcher(t.Context(), live, catalog.Inline(catalog.DefaultProjects), nil)
	if err != nil {
		t.Fatal(err)
	}
	if w != nil {
		t.Error("expected no watcher for an inline catalog")
	}
}

func TestStartWatcherLocal(t *testing.T) {
	dir := t.TempDir()
	path := writeCatalog(t, dir)
	c := New(io.Discard, log.InfoLevel)
	c.cfg.Data.Dir = dir
	live := watcher.NewLive(catalog.Default(), nil)

	w, err := c.startWatcher(t.Context(), live, catalog.File{Path: path}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if w == nil {
		t.Fatal("expected a watcher")
	}
	w.Close()
}

func TestRunServeShutdown(t *testing.T) {
	dir := t.TempDir()
	path := writeCatalog(t, dir)
	writeFile(t, dir, "a.json", testDetail)

	c := New(io.Discard, log.InfoLevel)
	c.cfg = config.Default()
	c.cfg.Server.Addr = "127.0.0.1:0"
	c.cfg.Data.Dir = dir
	c.cfg.Data.Preload = true
	c.cfg.Data.Watch = true

	ctx, cancel := context.WithCancel(withLogger(t.Context(), c.Logger))
	defer cancel()
	time.AfterFunc(200*time.Millisecond, cancel)
	if err := c.runServe(ctx, path, true); err != nil {
		t.Fatalf("runServe() = %v", err)
	}
}
