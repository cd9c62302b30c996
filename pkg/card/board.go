package card

import (
	"slices"
)

// Container state classes and attribute values.
const (
	ClassExpanded = "expanded"
	ClassParallax = "parallax"
	StateExpanded = "expanded"
)

// Container is the honeycomb element's own state.
type Container struct {
	Height    float64  `json:"height"`
	Scroll    bool     `json:"scroll"`
	Classes   []string `json:"classes,omitempty"`
	State     string   `json:"state,omitempty"`
	Transform string   `json:"transform,omitempty"`
}

// Ripple is a transient click feedback node at a container coordinate.
type Ripple struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// Board is the honeycomb container and its child nodes. It is not safe for
// concurrent use; callers serialize access.
type Board struct {
	cards        []*Card
	byID         map[string]*Card
	container    Container
	placeholders []Style
	ripples      []Ripple
}

// NewBoard returns a board holding cards in the given order.
func NewBoard(cards []*Card) *Board {
	b := &Board{
		cards: cards,
		byID:  make(map[string]*Card, len(cards)),
	}
	for _, c := range cards {
		b.byID[c.ID()] = c
	}
	return b
}

// Cards returns the cards in creation order.
func (b *Board) Cards() []*Card { return b.cards }

// Views returns the cards as views, in creation order.
func (b *Board) Views() []View {
	views := make([]View, len(b.cards))
	for i, c := range b.cards {
		views[i] = c
	}
	return views
}

// Card looks up a card by id.
func (b *Board) Card(id string) (*Card, bool) {
	c, ok := b.byID[id]
	return c, ok
}

// Container returns a copy of the container state.
func (b *Board) Container() Container {
	c := b.container
	c.Classes = slices.Clone(c.Classes)
	return c
}

// SetContainer sets the container height and whether the page scrolls.
func (b *Board) SetContainer(height float64, scroll bool) {
	b.container.Height = height
	b.container.Scroll = scroll
}

// AddClass adds class names to the container, ignoring ones already set.
func (b *Board) AddClass(names ...string) {
	for _, n := range names {
		if !b.HasClass(n) {
			b.container.Classes = append(b.container.Classes, n)
		}
	}
}

// HasClass reports whether the container has class name.
func (b *Board) HasClass(name string) bool {
	return slices.Contains(b.container.Classes, name)
}

// SetState sets the container data-state attribute.
func (b *Board) SetState(state string) { b.container.State = state }

// SetTransform sets the container CSS transform.
func (b *Board) SetTransform(t string) { b.container.Transform = t }

// AddPlaceholder appends a placeholder node. Callers remove any existing
// placeholder first.
func (b *Board) AddPlaceholder(s Style) {
	b.placeholders = append(b.placeholders, s)
}

// RemovePlaceholder removes the placeholder node if present.
func (b *Board) RemovePlaceholder() {
	if len(b.placeholders) > 0 {
		b.placeholders = b.placeholders[:len(b.placeholders)-1]
	}
}

// Placeholders returns the placeholder nodes currently on the board.
func (b *Board) Placeholders() []Style { return slices.Clone(b.placeholders) }

// Placeholder returns the placeholder node, if any.
func (b *Board) Placeholder() (Style, bool) {
	if len(b.placeholders) == 0 {
		return Style{}, false
	}
	return b.placeholders[len(b.placeholders)-1], true
}

// AddRipple appends a ripple node.
func (b *Board) AddRipple(r Ripple) { b.ripples = append(b.ripples, r) }

// RemoveRipple removes the ripple with the given id.
func (b *Board) RemoveRipple(id string) {
	b.ripples = slices.DeleteFunc(b.ripples, func(r Ripple) bool { return r.ID == id })
}

// Ripples returns the live ripples.
func (b *Board) Ripples() []Ripple { return slices.Clone(b.ripples) }

// FlippedIDs returns the ids of flipped cards.
func (b *Board) FlippedIDs() []string {
	var ids []string
	for _, c := range b.cards {
		if c.Flipped() {
			ids = append(ids, c.ID())
		}
	}
	return ids
}

// BoardSnapshot is a serializable copy of a board.
type BoardSnapshot struct {
	Container   Container  `json:"container"`
	Cards       []Snapshot `json:"cards"`
	Placeholder *Style     `json:"placeholder,omitempty"`
	Ripples     []Ripple   `json:"ripples,omitempty"`
}

// Snapshot returns the current state of b.
func (b *Board) Snapshot() BoardSnapshot {
	s := BoardSnapshot{
		Container: b.Container(),
		Cards:     make([]Snapshot, len(b.cards)),
		Ripples:   b.Ripples(),
	}
	for i, c := range b.cards {
		s.Cards[i] = c.Snapshot()
	}
	if p, ok := b.Placeholder(); ok {
		s.Placeholder = &p
	}
	return s
}
