// Package interact is the flip-card interaction state machine.
//
// A [Controller] owns a card board and a layout engine. It accepts input
// [Event]s (activation, hover, escape, outside clicks, visit clicks,
// resizes, pointer moves) and keeps two invariants:
//
//   - at most one card is flipped at any time
//   - the honeycomb expands at most once, on the first activation of the
//     center card or when the auto-expand timer fires, whichever comes
//     first
//
// Desktop and mobile differ: on desktop hovering flips a card and a click
// only flips the center card; on mobile every card flips on click and a
// click outside every card closes the open one. Keyboard activation flips
// any card on both.
//
// Timers (entrance moves, ripple removal, auto-expansion) go through a
// [layout.Scheduler] and run under the controller's mutex. Tests use
// [layout.ManualScheduler] and drive time explicitly.
package interact
