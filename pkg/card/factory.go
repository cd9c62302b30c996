package card

import (
	"slices"

	"github.com/styloxis/honeycomb/pkg/catalog"
)

// Factory builds cards from catalog projects.
type Factory struct {
	origin string
}

// Option configures a Factory.
type Option func(*Factory)

// WithOrigin sets the site origin (scheme://host[:port]) used to tell
// internal visit links from external ones.
func WithOrigin(origin string) Option {
	return func(f *Factory) { f.origin = origin }
}

// NewFactory returns a Factory.
func NewFactory(opts ...Option) *Factory {
	f := &Factory{}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// New builds the card for p. The card starts unflipped with an opaque,
// unplaced style.
func (f *Factory) New(p catalog.Project) *Card {
	c := &Card{
		id:        p.ID,
		ring:      p.Ring,
		angle:     p.Angle,
		ariaLabel: p.Title + " - flip for more info",
		Front: Front{
			Image: p.Image,
			Title: p.Title,
		},
		Back: Back{
			Title:       p.Title,
			Description: p.Description,
		},
		style: Style{Opacity: 1},
	}
	if p.IsCenter() {
		c.Front.Description = p.Description
	} else {
		c.Front.Tags = slices.Clone(p.Tags)
	}
	if link, ok := ClassifyLink(p.URL, f.origin); ok {
		c.Back.Visit = &link
	}
	return c
}

// Build returns one card per project of c, in catalog order.
func (f *Factory) Build(c *catalog.Catalog) []*Card {
	projects := c.Projects()
	cards := make([]*Card, len(projects))
	for i, p := range projects {
		cards[i] = f.New(p)
	}
	return cards
}
