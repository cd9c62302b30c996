// Package ringmap renders the ring structure of a catalog as a Graphviz
// diagram.
//
// Each project becomes a hexagon node pinned at its ring/angle position and
// connected to the center card, which makes a quick visual check of a
// catalog possible without a browser:
//
//	dot := ringmap.ToDOT(projects, ringmap.Options{})
//	svg, err := ringmap.RenderSVG(ctx, dot)
//
// Positions are fixed with pos="x,y!" so the neato engine keeps them.
// SVG rendering runs in-process through [github.com/goccy/go-graphviz].
package ringmap
