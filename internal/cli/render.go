package cli

import (
	"context"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/styloxis/honeycomb/pkg/pipeline"
)

const defaultOutputBase = "honeycomb"

type renderFlags struct {
	output  string
	formats string
	noCache bool
}

// renderCommand writes static snapshots of the honeycomb.
func (c *CLI) renderCommand() *cobra.Command {
	var flags renderFlags
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "render [catalog]",
		Short: "Render honeycomb snapshots (svg, png, json, dot, ringmap, html)",
		Long: `Render the honeycomb for a viewport to one or more files.

Formats:
  svg      vector snapshot of the cards
  png      raster snapshot (--scale sets the pixel density)
  json     the scene: positions, styles and entrance delays
  dot      the ring map as Graphviz source
  ringmap  the ring map laid out by Graphviz
  html     a standalone page (--interactive adds the client script)

Files are named <output>.<format>; ringmap writes <output>.ringmap.svg.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.Source = args[0]
			}
			opts.Formats = parseFormats(flags.formats)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), opts, flags)
		},
	}

	addLayoutFlags(cmd, &opts)
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output base path (default "+defaultOutputBase+")")
	cmd.Flags().StringVarP(&flags.formats, "format", "f", "", "output format(s), comma-separated (default svg)")
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&opts.Title, "title", "", "document title (default from config)")
	cmd.Flags().Float64Var(&opts.Scale, "scale", 0, "PNG pixel density")
	cmd.Flags().BoolVar(&opts.Interactive, "interactive", false, "include the client script in html output")
	return cmd
}

func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, flags renderFlags) error {
	c.setCLIDefaults(&opts)

	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	src, closeSrc, err := c.catalogSource(ctx, opts.Source)
	if err != nil {
		return err
	}
	defer closeSrc()
	runner.Source = src

	spin := startSpinner(ctx, os.Stderr, "Rendering honeycomb...")
	res, err := runner.Execute(ctx, opts)
	if err != nil {
		spin.fail("Render failed")
		return err
	}
	spin.stop()
	if ctx.Err() != nil {
		return ctx.Err()
	}

	base := basePath(flags.output)
	if dir := filepath.Dir(base); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	var written []string
	for _, format := range slices.Sorted(maps.Keys(res.Artifacts)) {
		path := outputPath(base, format)
		if err := os.WriteFile(path, res.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}

	printSuccess("Rendered %d file(s)", len(written))
	for _, p := range written {
		printFile(p)
	}
	printStats(res.Stats.Projects, res.Stats.Cards, res.Plan.Device.String(), res.CacheInfo.RenderHit)
	return nil
}

// basePath strips a known format extension from output.
func basePath(output string) string {
	if output == "" {
		return defaultOutputBase
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

func outputPath(base, format string) string {
	if format == pipeline.FormatRingMap {
		return base + ".ringmap.svg"
	}
	return base + "." + format
}
