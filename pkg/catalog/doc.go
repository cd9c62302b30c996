// Package catalog holds the portfolio project records and their detail
// documents.
//
// # Records
//
// A [Project] places one card in the honeycomb: ring 0 is the center card,
// ring 1 and beyond are the outer cards, positioned by angle. A [Catalog]
// keeps the records sorted by ring then angle; that order is the order
// cards are created in and the order outer ranks are assigned.
//
// # Sources
//
// Records come from a [Source]:
//
//   - [Inline] for a literal slice (the built-in [DefaultProjects])
//   - [File] for a JSON or YAML file on disk
//   - [Remote] for a JSON document over HTTP, with stale fallback
//   - [Mongo] for a MongoDB collection
//
// [Load] never fails: an unreachable or invalid source degrades to an empty
// catalog and a warning, so the page still renders. Use [LoadStrict] when
// the error matters (validation commands, tests).
//
// # Details
//
// Each project may have a [Detail] document, looked up by id through a
// [DetailStore]. [Preload] reads every detail concurrently into a
// [MemoryStore].
//
// # Filters
//
// [CompileFilter] compiles an expr-lang boolean expression over project
// fields (id, ring, angle, title, description, tags, url, center).
package catalog
