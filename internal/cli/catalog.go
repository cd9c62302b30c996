package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/styloxis/honeycomb/pkg/card"
	"github.com/styloxis/honeycomb/pkg/catalog"
)

// catalogCommand groups catalog inspection subcommands.
func (c *CLI) catalogCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect a project catalog",
		Long: `Inspect a project catalog. The catalog argument is a JSON or YAML file or
an http(s) URL; without one the configured catalog is used, and without
that the built-in catalog.`,
	}
	cmd.AddCommand(c.catalogListCommand())
	cmd.AddCommand(c.catalogValidateCommand())
	return cmd
}

func (c *CLI) catalogListCommand() *cobra.Command {
	var filter string
	cmd := &cobra.Command{
		Use:   "list [catalog]",
		Short: "List projects in ring order",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := c.loadCatalog(cmd.Context(), args)
			if err != nil {
				return err
			}
			projects := orderedProjects(cat)
			if filter != "" {
				f, err := catalog.CompileFilter(filter)
				if err != nil {
					return err
				}
				kept, err := f.Apply(cat)
				if err != nil {
					return err
				}
				projects = keepCenter(cat, kept)
			}
			printLine(projectTable(projects, c.cfg.Server.Origin))
			printDetail("%d project(s), tags: %s", len(projects), strings.Join(cat.Tags(), ", "))
			return nil
		},
	}
	cmd.Flags().StringVar(&filter, "filter", "", "expression selecting outer projects (the center is always listed)")
	return cmd
}

func (c *CLI) catalogValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [catalog]",
		Short: "Check that a catalog loads and is well formed",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := c.loadCatalog(cmd.Context(), args)
			if err != nil {
				printError("Catalog is invalid")
				return err
			}
			rings := map[int]int{}
			for _, p := range cat.Projects() {
				rings[p.Ring]++
			}
			printSuccess("Catalog is valid")
			printKeyValue("projects", strconv.Itoa(cat.Len()))
			printKeyValue("rings", strconv.Itoa(len(rings)))
			printKeyValue("tags", strconv.Itoa(len(cat.Tags())))
			return nil
		},
	}
}

func (c *CLI) loadCatalog(ctx context.Context, args []string) (*catalog.Catalog, error) {
	arg := ""
	if len(args) == 1 {
		arg = args[0]
	}
	src, closeSrc, err := c.catalogSource(ctx, arg)
	if err != nil {
		return nil, err
	}
	defer closeSrc()
	return catalog.LoadStrict(ctx, src)
}

// orderedProjects returns the center first, then outer projects by rank.
func orderedProjects(cat *catalog.Catalog) []catalog.Project {
	var out []catalog.Project
	if center, ok := cat.Center(); ok {
		out = append(out, center)
	}
	return append(out, cat.Outer()...)
}

// keepCenter puts the center back in front of a filtered list.
func keepCenter(cat *catalog.Catalog, kept []catalog.Project) []catalog.Project {
	center, ok := cat.Center()
	if !ok {
		return kept
	}
	out := []catalog.Project{center}
	for _, p := range kept {
		if !p.IsCenter() {
			out = append(out, p)
		}
	}
	return out
}

func projectTable(projects []catalog.Project, origin string) string {
	rows := make([][]string, len(projects))
	for i, p := range projects {
		rows[i] = []string{
			p.ID,
			strconv.Itoa(p.Ring),
			strconv.FormatFloat(p.Angle, 'f', -1, 64),
			p.Title,
			strings.Join(p.Tags, ", "),
			linkLabel(p.URL, origin),
		}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Ring", "Angle", "Title", "Tags", "Visit").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case rows[row][1] == "0":
				return lipgloss.NewStyle().Foreground(colorGreen)
			case col == 5:
				return lipgloss.NewStyle().Foreground(colorBlue)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		}).
		Render()
}

// linkLabel describes the visit link a card would get.
func linkLabel(url, origin string) string {
	link, ok := card.ClassifyLink(url, origin)
	if !ok {
		return "-"
	}
	if link.External {
		return fmt.Sprintf("%s (external)", url)
	}
	return url
}
