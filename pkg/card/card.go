package card

import (
	"github.com/styloxis/honeycomb/pkg/catalog"
)

// Front is the face shown before flipping. Center cards show their
// description, outer cards their tags.
type Front struct {
	Image       string   `json:"image"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// Back is the face shown after flipping.
type Back struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Visit       *VisitLink `json:"visit,omitempty"`
}

// Card is one honeycomb cell.
type Card struct {
	id        string
	ring      int
	angle     float64
	ariaLabel string

	Front Front `json:"front"`
	Back  Back  `json:"back"`

	style   Style
	flipped bool
	pressed bool
}

// ID returns the project id.
func (c *Card) ID() string { return c.id }

// Ring returns the project ring.
func (c *Card) Ring() int { return c.ring }

// Angle returns the project angle in degrees.
func (c *Card) Angle() float64 { return c.angle }

// IsCenter reports whether c is the center card.
func (c *Card) IsCenter() bool { return c.ring == catalog.CenterRing }

// AriaLabel returns the accessible name of the card.
func (c *Card) AriaLabel() string { return c.ariaLabel }

func (c *Card) Style() Style      { return c.style }
func (c *Card) SetStyle(s Style)  { c.style = s }
func (c *Card) Flipped() bool     { return c.flipped }
func (c *Card) SetFlipped(f bool) { c.flipped = f }
func (c *Card) Pressed() bool     { return c.pressed }
func (c *Card) SetPressed(p bool) { c.pressed = p }

// Snapshot is a serializable copy of a card's full state.
type Snapshot struct {
	ID        string  `json:"id"`
	Ring      int     `json:"ring"`
	Angle     float64 `json:"angle"`
	AriaLabel string  `json:"ariaLabel"`
	Front     Front   `json:"front"`
	Back      Back    `json:"back"`
	Style     Style   `json:"style"`
	Flipped   bool    `json:"flipped"`
	Pressed   bool    `json:"ariaPressed"`
}

// Snapshot returns the current state of c.
func (c *Card) Snapshot() Snapshot {
	return Snapshot{
		ID:        c.id,
		Ring:      c.ring,
		Angle:     c.angle,
		AriaLabel: c.ariaLabel,
		Front:     c.Front,
		Back:      c.Back,
		Style:     c.style,
		Flipped:   c.flipped,
		Pressed:   c.pressed,
	}
}

var _ View = (*Card)(nil)
