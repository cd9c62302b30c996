package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/styloxis/honeycomb/pkg/card"
	"github.com/styloxis/honeycomb/pkg/catalog"
	"github.com/styloxis/honeycomb/pkg/interact"
	"github.com/styloxis/honeycomb/pkg/layout"
)

// step is one scripted event. After is virtual time that passes before the
// event is delivered.
type step struct {
	interact.Event `yaml:",inline"`
	After          time.Duration `yaml:"after"`
}

// script is the events file: YAML or JSON.
type script struct {
	Viewport *layout.Viewport `yaml:"viewport"`
	Steps    []step           `yaml:"steps"`
}

// parseScript decodes an events file. Durations use Go syntax ("300ms").
func parseScript(r io.Reader) (script, error) {
	var s script
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && err != io.EOF {
		return script{}, fmt.Errorf("decode events: %w", err)
	}
	for i, st := range s.Steps {
		if err := st.Validate(); err != nil {
			return script{}, fmt.Errorf("step %d: %w", i+1, err)
		}
		if st.After < 0 {
			return script{}, fmt.Errorf("step %d: negative delay %s", i+1, st.After)
		}
	}
	return s, nil
}

type simulateFlags struct {
	events string
	output string
	width  float64
	height float64
	settle time.Duration
}

// simulateCommand replays interaction events on a virtual clock.
func (c *CLI) simulateCommand() *cobra.Command {
	var flags simulateFlags

	cmd := &cobra.Command{
		Use:   "simulate [catalog]",
		Short: "Replay interaction events against a honeycomb",
		Long: `Replay scripted visitor events on a virtual clock and print what each
one changed. The events file is YAML or JSON:

  viewport: {width: 400, height: 800}
  steps:
    - {kind: activate, target: me, source: keyboard}
    - {kind: hover_enter, target: p1, after: 300ms}
    - {kind: escape}

Timers such as the auto-expand and the staggered entrance run on the
virtual clock, so results are deterministic.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			arg := ""
			if len(args) == 1 {
				arg = args[0]
			}
			return c.runSimulate(cmd.Context(), arg, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.events, "events", "e", "", "events file (default: no events, just the entrance)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "write the final snapshot as JSON")
	cmd.Flags().Float64Var(&flags.width, "width", 0, "viewport width (overrides the events file)")
	cmd.Flags().Float64Var(&flags.height, "height", 0, "viewport height (overrides the events file)")
	cmd.Flags().DurationVar(&flags.settle, "settle", 2*time.Second, "virtual time to run after the last event")
	return cmd
}

func (c *CLI) runSimulate(ctx context.Context, arg string, flags simulateFlags) error {
	var sc script
	if flags.events != "" {
		f, err := os.Open(flags.events)
		if err != nil {
			return err
		}
		sc, err = parseScript(f)
		f.Close()
		if err != nil {
			return err
		}
	}

	v := c.cfg.Viewport()
	if sc.Viewport != nil {
		v = *sc.Viewport
	}
	if flags.width > 0 {
		v.Width = flags.width
	}
	if flags.height > 0 {
		v.Height = flags.height
	}

	src, closeSrc, err := c.catalogSource(ctx, arg)
	if err != nil {
		return err
	}
	defer closeSrc()
	cat, err := catalog.LoadStrict(ctx, src)
	if err != nil {
		return err
	}

	sim, err := newSimulation(ctx, cat, v, c.cfg.Layout.AutoExpand.Duration, c.cfg.Server.Origin)
	if err != nil {
		return err
	}
	defer sim.ctrl.Stop()

	rows := make([][]string, 0, len(sc.Steps))
	for _, st := range sc.Steps {
		res, err := sim.step(ctx, st)
		if err != nil {
			return err
		}
		rows = append(rows, sim.row(st, res))
	}
	sim.sched.Advance(flags.settle)

	if len(rows) > 0 {
		printLine(stepTable(rows))
	}
	snap := sim.ctrl.Snapshot()
	printKeyValue("time", sim.sched.Now().String())
	printKeyValue("device", v.Device().String())
	printKeyValue("expanded", strconv.FormatBool(snap.State.Expanded))
	flipped := snap.State.Flipped
	if flipped == "" {
		flipped = "none"
	}
	printKeyValue("flipped", flipped)

	if flags.output != "" {
		data, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(flags.output, append(data, '\n'), 0o644); err != nil {
			return err
		}
		printFile(flags.output)
	}
	return nil
}

// simulation is a controller on a virtual clock.
type simulation struct {
	ctrl  *interact.Controller
	sched *layout.ManualScheduler
}

func newSimulation(ctx context.Context, cat *catalog.Catalog, v layout.Viewport, autoExpand time.Duration, origin string) (*simulation, error) {
	sched := layout.NewManualScheduler()
	board := card.NewBoard(card.NewFactory(card.WithOrigin(origin)).Build(cat))
	ctrl := interact.New(board,
		interact.WithScheduler(sched),
		interact.WithAutoExpand(autoExpand),
		interact.WithIDGenerator(sequentialIDs("ripple")),
	)
	if err := ctrl.Start(ctx, v); err != nil {
		return nil, err
	}
	return &simulation{ctrl: ctrl, sched: sched}, nil
}

func (s *simulation) step(ctx context.Context, st step) (interact.Result, error) {
	s.sched.Advance(st.After)
	return s.ctrl.Handle(ctx, st.Event)
}

func (s *simulation) row(st step, res interact.Result) []string {
	flipped := s.ctrl.State().Flipped
	if flipped == "" {
		flipped = "-"
	}
	target := st.Target
	if target == "" {
		target = "-"
	}
	return []string{
		s.sched.Now().String(),
		string(st.Kind),
		target,
		strconv.FormatBool(res.Changed),
		strconv.FormatBool(res.Expanded),
		flipped,
	}
}

func stepTable(rows [][]string) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Time", "Event", "Target", "Changed", "Expanded", "Flipped").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 3 && rows[row][3] == "true" {
				return lipgloss.NewStyle().Foreground(colorGreen)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		}).
		Render()
}

// sequentialIDs returns deterministic ids prefix-1, prefix-2, ...
func sequentialIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return prefix + "-" + strconv.Itoa(n)
	}
}
