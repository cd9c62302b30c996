package interact

import (
	"github.com/styloxis/honeycomb/pkg/errors"
)

// Kind names an input event.
type Kind string

const (
	Activate     Kind = "activate"
	HoverEnter   Kind = "hover_enter"
	HoverLeave   Kind = "hover_leave"
	Escape       Kind = "escape"
	OutsideClick Kind = "outside_click"
	VisitClick   Kind = "visit_click"
	Resize       Kind = "resize"
	PointerMove  Kind = "pointer_move"
	// Expand stands in for the auto-expand timer when it runs elsewhere.
	Expand Kind = "expand"
)

// Source tells pointer activation from keyboard activation.
type Source string

const (
	Pointer  Source = "pointer"
	Keyboard Source = "keyboard"
)

// Event is one input event delivered to a Controller.
type Event struct {
	Kind Kind `json:"kind"`
	// Target is the id of the card under the event, if any.
	Target string `json:"target,omitempty"`
	// Source applies to Activate; empty means Pointer.
	Source Source `json:"source,omitempty"`
	// X and Y are the pointer position in container pixels.
	X float64 `json:"x,omitempty"`
	Y float64 `json:"y,omitempty"`
	// Width and Height apply to Resize.
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
}

// Validate rejects unknown kinds and resizes without a usable viewport.
// Events aimed at nothing are valid; they are no-ops.
func (e Event) Validate() error {
	switch e.Kind {
	case Activate:
		if e.Source != "" && e.Source != Pointer && e.Source != Keyboard {
			return errors.New(errors.ErrCodeInvalidEvent, "unknown activation source %q", e.Source)
		}
	case HoverEnter, HoverLeave, Escape, OutsideClick, VisitClick, PointerMove, Expand:
	case Resize:
		if err := errors.ValidateViewport(e.Width, e.Height); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidEvent, err, "resize")
		}
	default:
		return errors.New(errors.ErrCodeInvalidEvent, "unknown event kind %q", e.Kind)
	}
	return nil
}

// KeyEvent maps a key name to an event on target: Enter and Space activate,
// Escape clears. Other keys map to nothing.
func KeyEvent(key, target string) (Event, bool) {
	switch key {
	case "Enter", " ", "Space":
		if target == "" {
			return Event{}, false
		}
		return Event{Kind: Activate, Target: target, Source: Keyboard}, true
	case "Escape", "Esc":
		return Event{Kind: Escape}, true
	}
	return Event{}, false
}
