package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"

	"github.com/styloxis/honeycomb/pkg/card"
	"github.com/styloxis/honeycomb/pkg/interact"
	"github.com/styloxis/honeycomb/pkg/layout"
)

// exploreTick is how often the virtual clock advances while exploring.
const exploreTick = 100 * time.Millisecond

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	backFaceStyle     = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorCyan).
				Padding(0, 1)
)

// exploreCommand opens the card browser.
func (c *CLI) exploreCommand() *cobra.Command {
	var width, height float64

	cmd := &cobra.Command{
		Use:   "explore [catalog]",
		Short: "Browse and flip the cards in the terminal",
		Long: `Browse the honeycomb in the terminal. The cards run through the same
interaction controller as the site: Enter flips the selected card, Esc
flips everything back, / searches titles and tags. Timers run on a
virtual clock that follows the wall clock.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v := c.cfg.Viewport()
			if width > 0 {
				v.Width = width
			}
			if height > 0 {
				v.Height = height
			}
			cat, err := c.loadCatalog(cmd.Context(), args)
			if err != nil {
				return err
			}
			sim, err := newSimulation(cmd.Context(), cat, v, c.cfg.Layout.AutoExpand.Duration, c.cfg.Server.Origin)
			if err != nil {
				return err
			}
			defer sim.ctrl.Stop()

			m := newExploreModel(cmd.Context(), sim, v)
			_, err = tea.NewProgram(m, tea.WithContext(cmd.Context()), tea.WithAltScreen()).Run()
			return err
		},
	}
	cmd.Flags().Float64Var(&width, "width", 0, "viewport width")
	cmd.Flags().Float64Var(&height, "height", 0, "viewport height")
	return cmd
}

type tickMsg struct{}

// exploreModel is the bubbletea model of the card browser.
type exploreModel struct {
	ctx      context.Context
	sim      *simulation
	viewport layout.Viewport

	ids    []string // every card id in board order
	titles []string // search corpus, parallel to ids

	visible   []int // indexes into ids, in display order
	cursor    int
	searching bool
	query     string
	status    string
}

func newExploreModel(ctx context.Context, sim *simulation, v layout.Viewport) exploreModel {
	m := exploreModel{ctx: ctx, sim: sim, viewport: v}
	for _, cd := range sim.ctrl.Board().Cards() {
		m.ids = append(m.ids, cd.ID())
		m.titles = append(m.titles, cd.Front.Title+" "+strings.Join(cd.Front.Tags, " "))
	}
	m.refilter()
	return m
}

func tick() tea.Cmd {
	return tea.Tick(exploreTick, func(time.Time) tea.Msg { return tickMsg{} })
}

func (m exploreModel) Init() tea.Cmd { return tick() }

func (m exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.sim.sched.Advance(exploreTick)
		return m, tick()
	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m exploreModel) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.visible)-1 {
			m.cursor++
		}
	case "enter", " ":
		if id, ok := m.selected(); ok {
			m.handle(interact.Event{Kind: interact.Activate, Target: id, Source: interact.Keyboard})
		}
	case "esc":
		m.handle(interact.Event{Kind: interact.Escape})
	case "e":
		m.handle(interact.Event{Kind: interact.Expand})
	case "/":
		m.searching = true
	}
	return m, nil
}

func (m exploreModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.searching = false
		m.query = ""
	case tea.KeyEnter:
		m.searching = false
		return m, nil
	case tea.KeyBackspace:
		if len(m.query) > 0 {
			r := []rune(m.query)
			m.query = string(r[:len(r)-1])
		}
	case tea.KeyRunes, tea.KeySpace:
		m.query += string(msg.Runes)
	default:
		return m, nil
	}
	m.refilter()
	return m, nil
}

// refilter ranks cards against the query. An empty query shows every card
// in board order.
func (m *exploreModel) refilter() {
	visible := make([]int, 0, len(m.ids))
	if m.query == "" {
		for i := range m.ids {
			visible = append(visible, i)
		}
	} else {
		for _, match := range fuzzy.Find(m.query, m.titles) {
			visible = append(visible, match.Index)
		}
	}
	m.visible = visible
	if m.cursor >= len(m.visible) {
		m.cursor = max(len(m.visible)-1, 0)
	}
}

func (m exploreModel) selected() (string, bool) {
	if m.cursor >= len(m.visible) {
		return "", false
	}
	return m.ids[m.visible[m.cursor]], true
}

func (m *exploreModel) handle(ev interact.Event) {
	res, err := m.sim.ctrl.Handle(m.ctx, ev)
	switch {
	case err != nil:
		m.status = err.Error()
	case res.Changed:
		m.status = string(ev.Kind) + " " + ev.Target
	default:
		m.status = ""
	}
}

func (m exploreModel) View() string {
	var b strings.Builder
	state := m.sim.ctrl.State()

	b.WriteString(StyleTitle.Render("Honeycomb"))
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %s · %s · %s", m.viewport, m.viewport.Device(), expandLabel(state.Expanded))))
	b.WriteString("\n")
	if m.searching || m.query != "" {
		b.WriteString(listSelectedStyle.Render("/" + m.query))
		if m.searching {
			b.WriteString("▏")
		}
	} else {
		b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ flip  esc unflip  e expand  / search  q quit"))
	}
	b.WriteString("\n\n")

	rows := make([][]string, 0, len(m.visible))
	for i, idx := range m.visible {
		cd, _ := m.sim.ctrl.Board().Card(m.ids[idx])
		rows = append(rows, cardRow(cd.Snapshot(), i == m.cursor))
	}
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "ID", "Title", "Ring", "Face", "Position").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row == m.cursor:
				return listSelectedStyle
			case rows[row][4] == "back":
				return lipgloss.NewStyle().Foreground(colorGreen)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})
	b.WriteString(t.Render())
	b.WriteString("\n")

	if id, ok := m.selected(); ok {
		cd, _ := m.sim.ctrl.Board().Card(id)
		if cd.Flipped() {
			b.WriteString(backFace(cd.Back))
			b.WriteString("\n")
		}
	}
	if m.status != "" {
		b.WriteString(listDimStyle.Render("  " + m.status))
		b.WriteString("\n")
	}
	return b.String()
}

func cardRow(s card.Snapshot, current bool) []string {
	cursor := "  "
	if current {
		cursor = "▸ "
	}
	face := "front"
	if s.Flipped {
		face = "back"
	}
	pos := "collapsed"
	if !s.Style.Collapsed() {
		pos = fmt.Sprintf("%.0f,%.0f", s.Style.X, s.Style.Y)
	}
	return []string{cursor, s.ID, s.Front.Title, fmt.Sprint(s.Ring), face, pos}
}

func backFace(back card.Back) string {
	lines := []string{StyleTitle.Render(back.Title), back.Description}
	if back.Visit != nil {
		label := StyleLink.Render(back.Visit.Href)
		if back.Visit.External {
			label += listDimStyle.Render(" ↗")
		}
		lines = append(lines, "Visit: "+label)
	}
	return backFaceStyle.Render(strings.Join(lines, "\n"))
}

func expandLabel(expanded bool) string {
	if expanded {
		return "expanded"
	}
	return "collapsed"
}
