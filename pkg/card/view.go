package card

// Transforms and transitions written by the layout engine.
const (
	TransformPinned    = "translate(-50%, -50%)"
	TransformCollapsed = "translate(-50%, -50%) scale(0.3)"
	TransitionExpand   = "left 0.8s ease-out, top 0.8s ease-out, transform 0.8s ease-out"
)

// Style is the positional state of a card: its center point in container
// pixels, its square size, and the CSS transform/transition applied to it.
type Style struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Size       float64 `json:"size"`
	Transform  string  `json:"transform"`
	Transition string  `json:"transition,omitempty"`
	Opacity    float64 `json:"opacity"`
}

// Collapsed reports whether s renders the card shrunk at the collapse point.
func (s Style) Collapsed() bool { return s.Transform == TransformCollapsed }

// View is the minimal surface of a card that layout and interaction need.
type View interface {
	ID() string
	Ring() int
	Angle() float64

	Style() Style
	SetStyle(Style)

	Flipped() bool
	SetFlipped(bool)
	// SetPressed updates the aria-pressed state reported to assistive tech.
	SetPressed(bool)
}
