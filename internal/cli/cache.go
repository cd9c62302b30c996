package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/styloxis/honeycomb/pkg/cache"
)

func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the layout and render cache",
		Long: `Inspect and clear cached catalogs, layouts and snapshots.

Entries are grouped by kind: catalog, layout, artifact and http. The file
backend keeps them under the cache directory; the redis backend under the
"honeycomb:" key prefix.`,
	}
	cmd.AddCommand(c.cacheClearCommand(), c.cachePathCommand(), c.cacheStatsCommand())
	return cmd
}

func (c *CLI) cacheClearCommand() *cobra.Command {
	var kind string
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove cached entries",
		Example: `  honeycomb cache clear
  honeycomb cache clear --kind layout`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCacheClear(cmd.Context(), kind)
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "", "only clear one kind (catalog, layout, artifact)")
	return cmd
}

func (c *CLI) runCacheClear(ctx context.Context, kind string) error {
	store, err := cache.Open(ctx, c.cfg.CacheOptions())
	if err != nil {
		return err
	}
	defer store.Close()

	n, err := cache.Clear(ctx, store, kind)
	if err != nil {
		return err
	}
	if n == 0 {
		printInfo("Cache is empty")
		return nil
	}
	printSuccess("Cleared %d cached entries", n)
	if dir, err := c.cacheDir(); err == nil {
		printDetail("Directory: %s", dir)
	}
	return nil
}

func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := c.cacheDir()
			if err != nil {
				return err
			}
			fmt.Fprintln(stdout, dir)
			return nil
		},
	}
}

func (c *CLI) cacheStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cached entries and sizes per kind",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := c.cacheDir()
			if err != nil {
				return err
			}
			fc, err := cache.NewFileCache(dir)
			if err != nil {
				return err
			}
			usage, err := fc.Usage(cmd.Context())
			if err != nil {
				return err
			}
			if len(usage) == 0 {
				printInfo("Cache is empty")
				return nil
			}
			fmt.Fprintln(stdout, usageTable(usage))
			printDetail("Directory: %s", dir)
			return nil
		},
	}
}

func usageTable(usage []cache.KindUsage) *table.Table {
	var entries int
	var size int64
	rows := make([][]string, 0, len(usage)+1)
	for _, u := range usage {
		rows = append(rows, []string{u.Kind, strconv.Itoa(u.Entries), formatBytes(u.Bytes)})
		entries += u.Entries
		size += u.Bytes
	}
	rows = append(rows, []string{"total", strconv.Itoa(entries), formatBytes(size)})

	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(StyleDim).
		Headers("Kind", "Entries", "Size").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return StyleTitle.Padding(0, 1)
			case row == len(rows)-1:
				return StyleValue.Bold(true).Padding(0, 1)
			default:
				return lipgloss.NewStyle().Padding(0, 1)
			}
		})
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGT"[exp])
}

// cacheDir returns the file cache directory. Other backends have none.
func (c *CLI) cacheDir() (string, error) {
	opts := c.cfg.CacheOptions()
	if opts.Backend != "" && opts.Backend != "file" {
		return "", fmt.Errorf("cache backend %q has no local directory", opts.Backend)
	}
	if opts.Dir == "" {
		return "", fmt.Errorf("no cache directory")
	}
	return opts.Dir, nil
}
