// Package server serves the honeycomb site, its data files and the
// session API over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/styloxis/honeycomb/pkg/catalog"
	"github.com/styloxis/honeycomb/pkg/detail"
	"github.com/styloxis/honeycomb/pkg/layout"
	"github.com/styloxis/honeycomb/pkg/observability"
	"github.com/styloxis/honeycomb/pkg/pipeline"
	"github.com/styloxis/honeycomb/pkg/render/page"
	"github.com/styloxis/honeycomb/pkg/session"
	"github.com/styloxis/honeycomb/pkg/watcher"
)

const (
	// DefaultShutdownTimeout bounds graceful shutdown.
	DefaultShutdownTimeout = 10 * time.Second

	cleanupInterval = time.Minute
	requestTimeout  = 30 * time.Second
	maxBodyBytes    = 64 << 10
)

// Options configures a Server. Zero values select defaults.
type Options struct {
	Title    string
	Origin   string
	Viewport layout.Viewport

	// Runner lays out and renders pages. Defaults to an uncached runner.
	Runner *pipeline.Runner
	// Sessions stores visitor sessions. Defaults to memory.
	Sessions   session.Store
	SessionTTL time.Duration
	// Details resolves detail documents. Defaults to the live store.
	Details catalog.DetailStore

	// Stats, when set, is reported on /healthz.
	Stats *observability.Stats

	ShutdownTimeout time.Duration
	Logger          *log.Logger
}

// Server is the HTTP front end.
type Server struct {
	live    *watcher.Live
	opts    Options
	runner  *pipeline.Runner
	runtime *session.Runtime
	details catalog.DetailStore
	builder *detail.Builder
	pages   *page.Renderer
	logger  *log.Logger
	router  chi.Router
}

// New returns a Server over live.
func New(live *watcher.Live, opts Options) (*Server, error) {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Title == "" {
		opts.Title = pipeline.DefaultTitle
	}
	if opts.Viewport == (layout.Viewport{}) {
		opts.Viewport = layout.DefaultViewport
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = DefaultShutdownTimeout
	}
	if opts.Runner == nil {
		opts.Runner = pipeline.NewRunner(nil, nil, opts.Logger)
	}
	if opts.Sessions == nil {
		opts.Sessions = session.NewMemoryStore()
	}
	if opts.Details == nil {
		opts.Details = live
	}

	pages, err := page.New()
	if err != nil {
		return nil, err
	}

	runtimeOpts := []session.RuntimeOption{session.WithLogger(opts.Logger)}
	if opts.SessionTTL > 0 {
		runtimeOpts = append(runtimeOpts, session.WithTTL(opts.SessionTTL))
	}

	s := &Server{
		live:    live,
		opts:    opts,
		runner:  opts.Runner,
		runtime: session.NewRuntime(live, opts.Sessions, runtimeOpts...),
		details: opts.Details,
		builder: detail.NewBuilder(opts.Details, detail.WithOrigin(opts.Origin)),
		pages:   pages,
		logger:  opts.Logger,
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/healthz", s.handleHealth)

	r.Get("/", s.handleHome)
	r.Get("/index.html", s.handleHome)
	r.Get("/project.html", s.handleDetailPage)

	r.Route("/data", func(r chi.Router) {
		r.Get("/projects.json", s.handleCatalog)
		r.Get("/projects/{file}", s.handleDetailJSON)
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/layout", s.handleLayout)
		r.Get("/render.{format}", s.handleRender)

		r.Route("/sessions", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			r.Post("/", s.handleCreateSession)
			r.Get("/{id}", s.handleGetSession)
			r.Delete("/{id}", s.handleDeleteSession)
			r.Post("/{id}/events", s.handleEvent)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, notFound(r.URL.Path))
	})
	return r
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully. Expired sessions are swept while serving.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	go s.sweepSessions(ctx)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return s.opts.Sessions.Close()
}

func (s *Server) sweepSessions(ctx context.Context) {
	t := time.NewTicker(cleanupInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := s.opts.Sessions.Cleanup(ctx); err != nil {
				s.logger.Warn("session cleanup failed", "err", err)
			}
		}
	}
}
