// Package layout positions honeycomb cards for a viewport.
//
// # Geometry
//
// The device class is mobile when the viewport is taller than it is wide.
// The base unit, cellSize, is 45% of the width on mobile and 25% of the
// smaller viewport side on desktop.
//
// On desktop the center card sits at the viewport center at 1.4×cellSize
// and outer cards sit on rings: ring r, angle a is placed
// r·1.3·cellSize away from the center along a degrees (clockwise, y down).
//
// On mobile the center card sits at 65% width, 0.8·cellSize from the top,
// and outer cards zigzag down two columns (30% and 70% width) in rank
// order, starting 2.2·cellSize from the top and 0.6·cellSize apart. The
// container grows to fit the last card and an invisible placeholder card
// keeps the grid from collapsing.
//
// # Expansion
//
// Until the honeycomb is expanded every outer card is drawn shrunk at the
// collapse point. The first [Engine.Expand] schedules one move per outer
// card, rank·100ms+200ms later, through a [Scheduler]. Every later layout
// pass writes final positions directly; the staggered entrance is never
// replayed.
//
// [Compute] is pure and is what the tests and renderers use; [Engine]
// applies plans to a [Surface] and owns the expansion state.
package layout
