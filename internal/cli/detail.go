package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/styloxis/honeycomb/pkg/catalog"
	"github.com/styloxis/honeycomb/pkg/detail"
	"github.com/styloxis/honeycomb/pkg/render/page"
)

// defaultDetailDir is used when neither --dir nor the config names one.
const defaultDetailDir = "data/projects"

type detailFlags struct {
	dir    string
	output string
	json   bool
}

// detailCommand previews a project detail page.
func (c *CLI) detailCommand() *cobra.Command {
	var flags detailFlags

	cmd := &cobra.Command{
		Use:   "detail <id>",
		Short: "Preview a project detail page",
		Long: `Build the detail page for a project from its document (<dir>/<id>.json,
or <url>/<id>.json when --dir is an http(s) URL). Paragraph HTML is
sanitized the same way the server does it.`,
		Example: `  honeycomb detail p1
  honeycomb detail p1 --dir ./data/projects -o p1.html
  honeycomb detail p4 --json`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeProjectIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDetail(cmd.Context(), args[0], flags)
		},
	}

	cmd.Flags().StringVar(&flags.dir, "dir", "", "detail directory or base URL (default from config, then "+defaultDetailDir+")")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "write the rendered HTML page to this file")
	cmd.Flags().BoolVar(&flags.json, "json", false, "print the page model as JSON")
	return cmd
}

func (c *CLI) runDetail(ctx context.Context, id string, flags detailFlags) error {
	dir := flags.dir
	if dir == "" {
		dir = c.cfg.Data.Dir
	}
	if dir == "" {
		dir = defaultDetailDir
	}

	b := detail.NewBuilder(detailStore(dir), detail.WithOrigin(c.cfg.Server.Origin))
	p := b.Build(ctx, id)

	switch {
	case flags.json:
		data, err := json.MarshalIndent(p, "", "  ")
		if err != nil {
			return err
		}
		printLine(string(data))
	default:
		printPage(p)
	}

	if flags.output != "" {
		r, err := page.New()
		if err != nil {
			return err
		}
		var buf bytes.Buffer
		if err := r.RenderDetail(&buf, p); err != nil {
			return err
		}
		if err := os.WriteFile(flags.output, buf.Bytes(), 0o644); err != nil {
			return err
		}
		printFile(flags.output)
	}
	return p.Err()
}

func detailStore(dir string) catalog.DetailStore {
	if isRemote(dir) {
		return catalog.RemoteStore{BaseURL: dir}
	}
	return catalog.DirStore{Dir: dir}
}

func isRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

func printPage(p detail.Page) {
	if !p.OK() {
		printError("%s", p.Error)
		printKeyValue("status", string(p.Status))
		return
	}
	printLine(StyleTitle.Render(p.Title))
	printKeyValue("paragraphs", sectionLabel(len(p.Paragraphs), p.ShowParagraphs()))
	printKeyValue("images", sectionLabel(len(p.Images), p.ShowImages()))
	if p.Link != nil {
		label := p.Link.Text + " " + StyleLink.Render(p.Link.URL)
		if p.Link.External {
			label += StyleDim.Render(" (new tab)")
		}
		printKeyValue("link", label)
	}
}

func sectionLabel(n int, shown bool) string {
	if !shown {
		return "hidden"
	}
	return strconv.Itoa(n) + " shown"
}
