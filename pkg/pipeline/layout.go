package pipeline

import (
	"context"
	"encoding/json"

	"github.com/styloxis/honeycomb/pkg/card"
	"github.com/styloxis/honeycomb/pkg/catalog"
	"github.com/styloxis/honeycomb/pkg/layout"
	"github.com/styloxis/honeycomb/pkg/render"
)

// Layout is the serializable output of the layout stage.
type Layout struct {
	Plan  layout.Plan        `json:"plan"`
	Board card.BoardSnapshot `json:"board"`
}

// Scene returns the renderable scene.
func (l Layout) Scene() render.Scene { return render.NewScene(l.Plan, l.Board) }

// GenerateLayout builds the cards of c and places them for opts. An
// expanded layout shows every card at its final position, a collapsed one
// shows the entrance's starting frame.
func GenerateLayout(ctx context.Context, c *catalog.Catalog, opts Options) (Layout, error) {
	board := card.NewBoard(card.NewFactory(card.WithOrigin(opts.Origin)).Build(c))

	engineOpts := []layout.Option{
		layout.WithScheduler(layout.NewManualScheduler()),
		layout.WithLogger(opts.Logger),
	}
	if opts.Expanded {
		engineOpts = append(engineOpts, layout.WithExpanded())
		board.AddClass(card.ClassExpanded)
		board.SetState(card.StateExpanded)
	}
	engine := layout.NewEngine(engineOpts...)
	defer engine.Stop()

	plan, err := engine.Layout(ctx, board, opts.Viewport())
	if err != nil {
		return Layout{}, err
	}
	return Layout{Plan: plan, Board: board.Snapshot()}, nil
}

func marshalLayout(l Layout) ([]byte, error) { return json.Marshal(l) }

func unmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	err := json.Unmarshal(data, &l)
	return l, err
}
