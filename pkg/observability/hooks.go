// Package observability lets callers instrument honeycomb without tying it
// to a metrics backend.
//
// Libraries report catalog loads, layout passes, renders, visitor events,
// cache traffic and outgoing HTTP calls through four hook sets. Each set
// starts as a no-op and can be replaced once at startup:
//
//	stats := observability.NewStats()
//	observability.Install(stats)
//
// Library code calls the current hooks unconditionally:
//
//	observability.Pipeline().OnLayoutStart(ctx, "desktop", len(cards))
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// PipelineHooks receives load, layout and render events.
type PipelineHooks interface {
	OnLoadStart(ctx context.Context, source string)
	OnLoadComplete(ctx context.Context, source string, projects int, duration time.Duration, err error)
	OnLayoutStart(ctx context.Context, device string, cards int)
	OnLayoutComplete(ctx context.Context, device string, duration time.Duration, err error)
	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// InteractionHooks receives events applied by interaction controllers.
type InteractionHooks interface {
	// OnEvent is called for every handled event; changed reports whether
	// any state moved.
	OnEvent(ctx context.Context, kind string, changed bool)
	OnExpand(ctx context.Context, cards int)
	OnFlip(ctx context.Context, cardID string, flipped bool)
}

// CacheHooks receives cache traffic. keyType is the key's kind prefix.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks receives outgoing HTTP calls.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, host, path string)
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)
	OnError(ctx context.Context, method, host, path string, err error)
}

type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnLoadStart(context.Context, string)                               {}
func (NoopPipelineHooks) OnLoadComplete(context.Context, string, int, time.Duration, error) {}
func (NoopPipelineHooks) OnLayoutStart(context.Context, string, int)                        {}
func (NoopPipelineHooks) OnLayoutComplete(context.Context, string, time.Duration, error)    {}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                           {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error)  {}

type NoopInteractionHooks struct{}

func (NoopInteractionHooks) OnEvent(context.Context, string, bool) {}
func (NoopInteractionHooks) OnExpand(context.Context, int)         {}
func (NoopInteractionHooks) OnFlip(context.Context, string, bool)  {}

type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// slot holds one hook set. The interface is boxed so atomic.Pointer can
// swap it without a lock on the hot path.
type slot[T any] struct{ p atomic.Pointer[T] }

func (s *slot[T]) get() T  { return *s.p.Load() }
func (s *slot[T]) set(h T) { s.p.Store(&h) }
func newSlot[T any](h T) *slot[T] {
	s := new(slot[T])
	s.set(h)
	return s
}

var (
	pipelineSlot    = newSlot[PipelineHooks](NoopPipelineHooks{})
	interactionSlot = newSlot[InteractionHooks](NoopInteractionHooks{})
	cacheSlot       = newSlot[CacheHooks](NoopCacheHooks{})
	httpSlot        = newSlot[HTTPHooks](NoopHTTPHooks{})
)

// SetPipelineHooks replaces the pipeline hooks. nil is ignored.
func SetPipelineHooks(h PipelineHooks) {
	if h != nil {
		pipelineSlot.set(h)
	}
}

// SetInteractionHooks replaces the interaction hooks. nil is ignored.
func SetInteractionHooks(h InteractionHooks) {
	if h != nil {
		interactionSlot.set(h)
	}
}

// SetCacheHooks replaces the cache hooks. nil is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		cacheSlot.set(h)
	}
}

// SetHTTPHooks replaces the HTTP hooks. nil is ignored.
func SetHTTPHooks(h HTTPHooks) {
	if h != nil {
		httpSlot.set(h)
	}
}

// Install registers h for every hook set it implements.
func Install(h any) {
	if p, ok := h.(PipelineHooks); ok {
		SetPipelineHooks(p)
	}
	if i, ok := h.(InteractionHooks); ok {
		SetInteractionHooks(i)
	}
	if c, ok := h.(CacheHooks); ok {
		SetCacheHooks(c)
	}
	if x, ok := h.(HTTPHooks); ok {
		SetHTTPHooks(x)
	}
}

func Pipeline() PipelineHooks       { return pipelineSlot.get() }
func Interaction() InteractionHooks { return interactionSlot.get() }
func Cache() CacheHooks             { return cacheSlot.get() }
func HTTP() HTTPHooks               { return httpSlot.get() }

// Reset restores the no-op hooks.
func Reset() {
	pipelineSlot.set(NoopPipelineHooks{})
	interactionSlot.set(NoopInteractionHooks{})
	cacheSlot.set(NoopCacheHooks{})
	httpSlot.set(NoopHTTPHooks{})
}
