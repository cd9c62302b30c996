package observability

import (
	"context"
	"errors"
	"testing"
	"time"
)

type countingFlips struct {
	NoopInteractionHooks
	n int
}

func (c *countingFlips) OnFlip(context.Context, string, bool) { c.n++ }

func TestDefaultsAreNoop(t *testing.T) {
	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Errorf("Pipeline() = %T", Pipeline())
	}
	if _, ok := Interaction().(NoopInteractionHooks); !ok {
		t.Errorf("Interaction() = %T", Interaction())
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Errorf("Cache() = %T", Cache())
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Errorf("HTTP() = %T", HTTP())
	}
}

func TestSetAndReset(t *testing.T) {
	defer Reset()
	h := &countingFlips{}
	SetInteractionHooks(h)
	SetInteractionHooks(nil)

	Interaction().OnFlip(context.Background(), "p1", true)
	if h.n != 1 {
		t.Errorf("custom hook called %d times", h.n)
	}
	Reset()
	Interaction().OnFlip(context.Background(), "p1", true)
	if h.n != 1 {
		t.Error("Reset should detach custom hooks")
	}
}

func TestInstallStats(t *testing.T) {
	defer Reset()
	s := NewStats()
	Install(s)
	ctx := context.Background()

	Pipeline().OnLoadComplete(ctx, "inline", 7, time.Millisecond, nil)
	Pipeline().OnLoadComplete(ctx, "remote:x", 0, time.Millisecond, errors.New("unreachable"))
	Pipeline().OnLayoutComplete(ctx, "mobile", time.Millisecond, nil)
	Interaction().OnEvent(ctx, "activate", true)
	Interaction().OnEvent(ctx, "escape", false)
	Interaction().OnExpand(ctx, 6)
	Interaction().OnFlip(ctx, "p1", true)
	Interaction().OnFlip(ctx, "p1", false)
	Cache().OnCacheHit(ctx, "layout")
	Cache().OnCacheMiss(ctx, "artifact")
	HTTP().OnRequest(ctx, "GET", "example.com", "/p.json")

	got := s.Snapshot()
	want := StatsSnapshot{
		Loads: 2, LoadErrors: 1, Layouts: 1,
		Events: 2, Changed: 1, Expands: 1, Flips: 1,
		CacheHits: 1, CacheMiss: 1, HTTPCalls: 1,
		LastError: "unreachable",
	}
	if got != want {
		t.Errorf("Snapshot() = %+v\nwant %+v", got, want)
	}
}
