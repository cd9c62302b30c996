// Package render turns a laid-out honeycomb into output documents.
//
// A [Scene] is the renderer-neutral input: the viewport, the container and
// every card with its current style. Subpackages produce the outputs:
//
//   - [page]: the server-rendered HTML honeycomb and detail pages
//   - [snapshot]: static SVG, PNG and JSON snapshots of a scene
//   - [ringmap]: a Graphviz diagram of the ring/angle structure
//
// [page]: github.com/styloxis/honeycomb/pkg/render/page
// [snapshot]: github.com/styloxis/honeycomb/pkg/render/snapshot
// [ringmap]: github.com/styloxis/honeycomb/pkg/render/ringmap
package render
