package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/styloxis/honeycomb/pkg/pipeline"
)

type layoutFlags struct {
	output  string
	noCache bool
}

// layoutCommand computes a layout plan without rendering it.
func (c *CLI) layoutCommand() *cobra.Command {
	var flags layoutFlags
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "layout [catalog]",
		Short: "Compute the layout plan for a viewport",
		Long: `Compute where every card sits for a viewport and write the plan as JSON.

The catalog is a JSON or YAML file, an http(s) URL, or omitted to use the
configured catalog. Plans are cached by catalog content and viewport.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.Source = args[0]
			}
			return c.runLayout(cmd.Context(), opts, flags)
		},
	}

	addLayoutFlags(cmd, &opts)
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable caching")
	return cmd
}

// addLayoutFlags registers the flags shared by layout and render.
func addLayoutFlags(cmd *cobra.Command, opts *pipeline.Options) {
	cmd.Flags().Float64Var(&opts.Width, "width", 0, "viewport width (default from config)")
	cmd.Flags().Float64Var(&opts.Height, "height", 0, "viewport height (default from config)")
	cmd.Flags().BoolVar(&opts.Expanded, "expanded", false, "lay out the expanded honeycomb instead of the entrance")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", `keep outer cards matching an expression, e.g. '"Game" in tags'`)
	cmd.Flags().StringVar(&opts.Origin, "origin", "", "site origin for classifying visit links")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "fail on an unreadable catalog instead of laying out an empty one")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "reload the catalog even when cached")
}

func (c *CLI) runLayout(ctx context.Context, opts pipeline.Options, flags layoutFlags) error {
	c.setCLIDefaults(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return err
	}

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

	done := stopwatch(c.Logger)
	cat, hash, _, err := runner.LoadWithCacheInfo(ctx, opts)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	l, hit, err := runner.GenerateLayoutWithCacheInfo(ctx, cat, hash, opts)
	if err != nil {
		return fmt.Errorf("compute layout: %w", err)
	}
	done("Computed layout", "device", l.Plan.Device, "cached", hit)

	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	if flags.output == "" || flags.output == "-" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(flags.output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", flags.output, err)
	}
	printSuccess("Layout complete")
	printFile(flags.output)
	printStats(cat.Len(), len(l.Board.Cards), l.Plan.Device.String(), hit)
	printNewline()
	printNextStep("Render", appName+" render --width "+num(opts.Width)+" --height "+num(opts.Height))
	return nil
}

func num(v float64) string { return fmt.Sprintf("%g", v) }
