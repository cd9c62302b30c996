// Package cli implements the honeycomb command-line interface.
//
// # Commands
//
//   - serve: run the site, data files and session API
//   - layout: compute a layout plan for a viewport
//   - render: write SVG, PNG, JSON, DOT, ring map or HTML snapshots
//   - simulate: replay interaction events against a honeycomb
//   - catalog: list and validate project catalogs
//   - detail: preview a project detail page
//   - explore: browse the cards in a terminal UI
//   - cache: manage the layout and render cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger
// travels in the command's context.Context.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a logger with "HH:MM:SS.ms" timestamps.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// stopwatch starts timing an operation. The returned func logs msg at
// info level with the elapsed time as "took" and any extra key/values.
func stopwatch(l *log.Logger) func(msg string, kv ...any) {
	start := time.Now()
	return func(msg string, kv ...any) {
		l.Info(msg, append(kv, "took", time.Since(start).Round(time.Millisecond))...)
	}
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached to ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
