package observability

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Stats counts events from every hook set. It is safe for concurrent use
// and is what the server reports on /healthz.
type Stats struct {
	loads, loadErrors     atomic.Int64
	layouts, renders      atomic.Int64
	events, changed       atomic.Int64
	expands, flips        atomic.Int64
	cacheHits, cacheMiss  atomic.Int64
	httpCalls, httpErrors atomic.Int64

	mu      sync.Mutex
	lastErr string
}

// StatsSnapshot is a point-in-time copy of Stats.
type StatsSnapshot struct {
	Loads      int64  `json:"loads"`
	LoadErrors int64  `json:"load_errors"`
	Layouts    int64  `json:"layouts"`
	Renders    int64  `json:"renders"`
	Events     int64  `json:"events"`
	Changed    int64  `json:"changed"`
	Expands    int64  `json:"expands"`
	Flips      int64  `json:"flips"`
	CacheHits  int64  `json:"cache_hits"`
	CacheMiss  int64  `json:"cache_misses"`
	HTTPCalls  int64  `json:"http_calls"`
	HTTPErrors int64  `json:"http_errors"`
	LastError  string `json:"last_error,omitempty"`
}

func NewStats() *Stats { return &Stats{} }

// Snapshot copies the counters.
func (s *Stats) Snapshot() StatsSnapshot {
	s.mu.Lock()
	last := s.lastErr
	s.mu.Unlock()
	return StatsSnapshot{
		Loads:      s.loads.Load(),
		LoadErrors: s.loadErrors.Load(),
		Layouts:    s.layouts.Load(),
		Renders:    s.renders.Load(),
		Events:     s.events.Load(),
		Changed:    s.changed.Load(),
		Expands:    s.expands.Load(),
		Flips:      s.flips.Load(),
		CacheHits:  s.cacheHits.Load(),
		CacheMiss:  s.cacheMiss.Load(),
		HTTPCalls:  s.httpCalls.Load(),
		HTTPErrors: s.httpErrors.Load(),
		LastError:  last,
	}
}

func (s *Stats) noteErr(err error) {
	if err == nil {
		return
	}
	s.mu.Lock()
	s.lastErr = err.Error()
	s.mu.Unlock()
}

func (s *Stats) OnLoadStart(context.Context, string) {}

func (s *Stats) OnLoadComplete(_ context.Context, _ string, _ int, _ time.Duration, err error) {
	s.loads.Add(1)
	if err != nil {
		s.loadErrors.Add(1)
		s.noteErr(err)
	}
}

func (s *Stats) OnLayoutStart(context.Context, string, int) {}

func (s *Stats) OnLayoutComplete(_ context.Context, _ string, _ time.Duration, err error) {
	s.layouts.Add(1)
	s.noteErr(err)
}

func (s *Stats) OnRenderStart(context.Context, []string) {}

func (s *Stats) OnRenderComplete(_ context.Context, _ []string, _ time.Duration, err error) {
	s.renders.Add(1)
	s.noteErr(err)
}

func (s *Stats) OnEvent(_ context.Context, _ string, changed bool) {
	s.events.Add(1)
	if changed {
		s.changed.Add(1)
	}
}

func (s *Stats) OnExpand(context.Context, int) { s.expands.Add(1) }

func (s *Stats) OnFlip(_ context.Context, _ string, flipped bool) {
	if flipped {
		s.flips.Add(1)
	}
}

func (s *Stats) OnCacheHit(context.Context, string)      { s.cacheHits.Add(1) }
func (s *Stats) OnCacheMiss(context.Context, string)     { s.cacheMiss.Add(1) }
func (s *Stats) OnCacheSet(context.Context, string, int) {}

func (s *Stats) OnRequest(context.Context, string, string, string) { s.httpCalls.Add(1) }

func (s *Stats) OnResponse(context.Context, string, string, string, int, time.Duration) {}

func (s *Stats) OnError(_ context.Context, _, _, _ string, err error) {
	s.httpErrors.Add(1)
	s.noteErr(err)
}
