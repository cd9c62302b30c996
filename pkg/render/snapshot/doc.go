// Package snapshot draws static pictures of a honeycomb [render.Scene].
//
// The snapshots show the board exactly as the interaction state left it:
// collapsed cards are drawn at 30% scale on the collapse point, flipped
// cards show their back face, and the invisible mobile placeholder is
// omitted. They are meant for previews, tests and documentation, not as a
// replacement for the live page.
//
//	svg := snapshot.RenderSVG(scene)
//	png, err := snapshot.RenderPNG(scene, snapshot.WithScale(2))
//	data, err := snapshot.RenderJSON(scene)
package snapshot
