package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/styloxis/honeycomb/internal/server"
	"github.com/styloxis/honeycomb/pkg/catalog"
	"github.com/styloxis/honeycomb/pkg/observability"
	"github.com/styloxis/honeycomb/pkg/session"
	"github.com/styloxis/honeycomb/pkg/watcher"
)

type serveFlags struct {
	addr    string
	watch   bool
	noCache bool
}

// serveCommand runs the site.
func (c *CLI) serveCommand() *cobra.Command {
	var flags serveFlags

	cmd := &cobra.Command{
		Use:   "serve [catalog]",
		Short: "Serve the honeycomb site and session API",
		Long: `Serve the home page, detail pages, data files, render endpoints and the
session API. The catalog comes from the argument, then the config, then
the built-in catalog. An unreachable catalog serves an empty honeycomb.

With watching enabled, edits to the local catalog file or detail
directory are picked up without a restart.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			arg := ""
			if len(args) == 1 {
				arg = args[0]
			}
			if cmd.Flags().Changed("watch") {
				c.cfg.Data.Watch = flags.watch
			}
			if flags.addr != "" {
				c.cfg.Server.Addr = flags.addr
			}
			return c.runServe(cmd.Context(), arg, flags.noCache)
		},
	}

	cmd.Flags().StringVar(&flags.addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&flags.watch, "watch", false, "reload the catalog and details when files change")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable the layout and render cache")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, arg string, noCache bool) error {
	logger := loggerFromContext(ctx)
	cfg := c.cfg

	src, closeSrc, err := c.catalogSource(ctx, arg)
	if err != nil {
		return err
	}
	defer closeSrc()

	cat := catalog.Load(ctx, src, logger)
	logger.Info("catalog ready", "source", src.Name(), "projects", cat.Len())

	var (
		dirStore catalog.DetailStore
		preload  catalog.DetailStore
		details  *catalog.MemoryStore
	)
	if cfg.Data.Dir != "" {
		dirStore = detailStore(cfg.Data.Dir)
	}
	if dirStore != nil && cfg.Data.Preload {
		preload = dirStore
		var missing []string
		details, missing, err = catalog.Preload(ctx, cat, dirStore)
		if err != nil {
			return err
		}
		logger.Info("details preloaded", "documents", details.Len(), "missing", len(missing))
		if len(missing) > 0 {
			logger.Debug("projects without details", "ids", missing)
		}
	}
	live := watcher.NewLive(cat, details)

	if cfg.Data.Watch {
		w, err := c.startWatcher(ctx, live, src, preload)
		if err != nil {
			return err
		}
		if w != nil {
			defer w.Close()
		}
	}

	sessions, err := session.Open(ctx, cfg.SessionOptions())
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		_ = sessions.Close()
		return err
	}
	defer runner.Close()

	stats := observability.NewStats()
	observability.Install(stats)
	defer observability.Reset()

	opts := server.Options{
		Stats:           stats,
		Title:           cfg.Server.Title,
		Origin:          cfg.Server.Origin,
		Viewport:        cfg.Viewport(),
		Runner:          runner,
		Sessions:        sessions,
		SessionTTL:      cfg.Session.TTL.Duration,
		ShutdownTimeout: cfg.Server.ShutdownTimeout.Duration,
		Logger:          logger,
	}
	if preload == nil && dirStore != nil {
		opts.Details = dirStore
	}
	srv, err := server.New(live, opts)
	if err != nil {
		_ = sessions.Close()
		return err
	}
	return srv.ListenAndServe(ctx, cfg.Server.Addr)
}

// startWatcher watches the local catalog file and detail directory. It
// returns nil when there is nothing local to watch.
func (c *CLI) startWatcher(ctx context.Context, live *watcher.Live, src catalog.Source, details catalog.DetailStore) (*watcher.Watcher, error) {
	logger := loggerFromContext(ctx)

	var files, dirs []string
	if f, ok := src.(catalog.File); ok {
		files = append(files, f.Path)
	}
	if dir := c.cfg.Data.Dir; dir != "" && !isRemote(dir) {
		dirs = append(dirs, dir)
	}
	if len(files) == 0 && len(dirs) == 0 {
		logger.Warn("watch enabled but nothing local to watch", "source", src.Name())
		return nil, nil
	}

	w, err := watcher.New(files, dirs, watcher.Reloader(live, src, details), watcher.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	go func() {
		if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("watcher stopped", "err", err)
		}
	}()
	logger.Info("watching for changes", "files", files, "dirs", dirs)
	return w, nil
}
