// Package pkg holds the honeycomb libraries.
//
// # Overview
//
// Honeycomb lays a portfolio out as hexagonal flip cards: one center card
// and outer cards on concentric rings. The same code drives the served
// site, static snapshots and the terminal explorer.
//
//	catalog (JSON, YAML, URL, MongoDB)
//	     ↓
//	[card] cards built from projects
//	     ↓
//	[layout] placement plan for a viewport, staggered entrance
//	     ↓
//	[interact] flip and expand state machine
//	     ↓
//	[render] scene → SVG, PNG, JSON, DOT, HTML
//
// # Packages
//
//   - [catalog]: project records, sources, filters, detail documents
//   - [card]: cards, boards, visit links
//   - [layout]: viewports, the placement plan, schedulers, the engine
//   - [interact]: the interaction controller and its events
//   - [detail]: detail page view models
//   - [render]: scenes and the snapshot, ring map and page renderers
//   - [pipeline]: load → layout → render with caching
//   - [session]: visitor sessions and their stores
//   - [watcher]: live catalog reloads
//   - [cache], [httputil], [config], [errors], [observability], [buildinfo]
//
// # Quick Start
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	res, err := runner.Execute(ctx, pipeline.Options{
//	    Source:  "data/projects.json",
//	    Width:   400,
//	    Height:  800,
//	    Formats: []string{"svg"},
//	})
//
// [catalog]: https://pkg.go.dev/github.com/styloxis/honeycomb/pkg/catalog
// [card]: https://pkg.go.dev/github.com/styloxis/honeycomb/pkg/card
// [layout]: https://pkg.go.dev/github.com/styloxis/honeycomb/pkg/layout
// [interact]: https://pkg.go.dev/github.com/styloxis/honeycomb/pkg/interact
// [detail]: https://pkg.go.dev/github.com/styloxis/honeycomb/pkg/detail
// [render]: https://pkg.go.dev/github.com/styloxis/honeycomb/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/styloxis/honeycomb/pkg/pipeline
// [session]: https://pkg.go.dev/github.com/styloxis/honeycomb/pkg/session
// [watcher]: https://pkg.go.dev/github.com/styloxis/honeycomb/pkg/watcher
// [cache]: https://pkg.go.dev/github.com/styloxis/honeycomb/pkg/cache
// [httputil]: https://pkg.go.dev/github.com/styloxis/honeycomb/pkg/httputil
// [config]: https://pkg.go.dev/github.com/styloxis/honeycomb/pkg/config
// [errors]: https://pkg.go.dev/github.com/styloxis/honeycomb/pkg/errors
// [observability]: https://pkg.go.dev/github.com/styloxis/honeycomb/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/styloxis/honeycomb/pkg/buildinfo
package pkg
