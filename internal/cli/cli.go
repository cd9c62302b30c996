package cli

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/styloxis/honeycomb/pkg/buildinfo"
	"github.com/styloxis/honeycomb/pkg/cache"
	"github.com/styloxis/honeycomb/pkg/catalog"
	"github.com/styloxis/honeycomb/pkg/config"
	"github.com/styloxis/honeycomb/pkg/httputil"
	"github.com/styloxis/honeycomb/pkg/pipeline"
)

const appName = "honeycomb"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	cfg        config.Config
}

// New creates a CLI with a logger writing to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// Config returns the loaded configuration.
func (c *CLI) Config() config.Config { return c.cfg }

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Honeycomb lays out a portfolio as a hexagonal card grid",
		Long: `Honeycomb arranges portfolio projects on concentric rings of hexagonal
flip cards around a center card. It serves the interactive site, renders
static snapshots and explores the catalog from the terminal.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.loadConfig,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ./"+config.DefaultFile+" when present)")

	root.AddCommand(c.serveCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.simulateCommand())
	root.AddCommand(c.catalogCommand())
	root.AddCommand(c.detailCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the configuration and attaches the logger to the
// command context. A level set in the config applies unless main has
// already raised the logger to debug.
func (c *CLI) loadConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg
	if c.Logger.GetLevel() != log.DebugLevel && cfg.Log.Level != "" {
		if level, err := log.ParseLevel(cfg.Log.Level); err == nil {
			c.SetLogLevel(level)
		}
	}
	if cfg.Path != "" {
		c.Logger.Debug("config loaded", "path", cfg.Path)
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(withLogger(ctx, c.Logger))
	return nil
}

// newRunner creates a pipeline runner on the configured cache. Keys carry
// the build version.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	store, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, cache.NewVersionedKeyer(nil, buildinfo.Version), c.Logger), nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	opts := c.cfg.CacheOptions()
	if opts.Backend == "" || opts.Backend == "file" {
		if opts.Dir == "" {
			return cache.NewNullCache(), nil
		}
	}
	return cache.Open(ctx, opts)
}

// catalogSource resolves the catalog location: an argument wins over the
// config, and a configured MongoDB wins over both when no argument is
// given. The returned closer releases the source.
func (c *CLI) catalogSource(ctx context.Context, arg string) (catalog.Source, func(), error) {
	if arg == "" && c.cfg.MongoEnabled() {
		m, err := c.cfg.MongoSource(ctx)
		if err != nil {
			return nil, nil, err
		}
		return m, func() { _ = m.Close(context.Background()) }, nil
	}
	location := arg
	if location == "" {
		location = c.cfg.Data.Catalog
	}
	src := catalog.SourceFor(location, nil)
	if r, ok := src.(catalog.Remote); ok {
		r.Fallback = c.lastGood()
		r.Logger = c.Logger
		src = r
	}
	return src, func() {}, nil
}

// lastGood opens the store of last good remote payloads under the cache
// directory. It returns nil when there is no cache directory.
func (c *CLI) lastGood() *httputil.LastGood {
	dir := c.cfg.CacheOptions().Dir
	if dir == "" {
		return nil
	}
	s, err := httputil.NewLastGood(filepath.Join(dir, "http"), 0)
	if err != nil {
		c.Logger.Debug("last good store unavailable", "err", err)
		return nil
	}
	return s
}

// setCLIDefaults applies config defaults on top of pipeline defaults.
func (c *CLI) setCLIDefaults(opts *pipeline.Options) {
	v := c.cfg.Viewport()
	if opts.Width == 0 {
		opts.Width = v.Width
	}
	if opts.Height == 0 {
		opts.Height = v.Height
	}
	if opts.Origin == "" {
		opts.Origin = c.cfg.Server.Origin
	}
	if opts.Title == "" {
		opts.Title = c.cfg.Server.Title
	}
	opts.Logger = c.Logger
	opts.SetLayoutDefaults()
	opts.SetRenderDefaults()
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
