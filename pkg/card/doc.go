// Package card builds the card view models of the honeycomb and the board
// that holds them.
//
// A [Card] is created once per catalog project by a [Factory] and lives for
// the whole visitor session. Its faces are fixed at creation; its [Style]
// and flip flag are rewritten by the layout engine and the interaction
// controller through the [View] interface, which is all those packages
// depend on.
//
// A [Board] is the container the cards sit in: it tracks container sizing,
// the mobile placeholder node, container classes, ripples and the parallax
// transform. Renderers read a board snapshot; they never mutate it.
package card
