package layout

import (
	"fmt"
	"math"

	"github.com/styloxis/honeycomb/pkg/errors"
)

// Device is the layout class of a viewport.
type Device int

const (
	Desktop Device = iota
	Mobile
)

func (d Device) String() string {
	if d == Mobile {
		return "mobile"
	}
	return "desktop"
}

// MarshalText encodes d as its name.
func (d Device) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// UnmarshalText decodes a device name.
func (d *Device) UnmarshalText(text []byte) error {
	switch string(text) {
	case "desktop":
		*d = Desktop
	case "mobile":
		*d = Mobile
	default:
		return fmt.Errorf("unknown device %q", text)
	}
	return nil
}

// Viewport is the visible area in CSS pixels.
type Viewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// DefaultViewport is used when a caller supplies no dimensions.
var DefaultViewport = Viewport{Width: 1920, Height: 1080}

// Validate rejects non-positive or non-finite dimensions.
func (v Viewport) Validate() error {
	return errors.ValidateViewport(v.Width, v.Height)
}

// Device returns Mobile iff the viewport is narrower than it is tall.
func (v Viewport) Device() Device {
	if v.Width < v.Height {
		return Mobile
	}
	return Desktop
}

// CellSize returns the base card size for v.
func (v Viewport) CellSize() float64 {
	if v.Device() == Mobile {
		return v.Width * mobileCellRatio
	}
	return math.Min(v.Width, v.Height) * desktopCellRatio
}

func (v Viewport) String() string {
	return fmt.Sprintf("%gx%g", v.Width, v.Height)
}
