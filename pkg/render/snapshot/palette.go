package snapshot

import "github.com/styloxis/honeycomb/pkg/card"

// Colors shared by the SVG and PNG renderers.
const (
	colorBackground = "#0d1117"
	colorCard       = "#161b22"
	colorCardBack   = "#21262d"
	colorCenter     = "#238636"
	colorBorder     = "#30363d"
	colorText       = "#ffffff"
	colorMuted      = "#8b949e"
	colorRipple     = "#58a6ff"
)

func fillFor(c card.Snapshot) string {
	switch {
	case c.Flipped:
		return colorCardBack
	case c.Ring == 0:
		return colorCenter
	default:
		return colorCard
	}
}

// faceText returns the title and body of the visible face.
func faceText(c card.Snapshot) (title, body string) {
	if c.Flipped {
		return c.Back.Title, c.Back.Description
	}
	if c.Front.Description != "" {
		return c.Front.Title, c.Front.Description
	}
	return c.Front.Title, joinTags(c.Front.Tags)
}

func joinTags(tags []string) string {
	out := ""
	for i, t := range tags {
		if i > 0 {
			out += " · "
		}
		out += t
	}
	return out
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
