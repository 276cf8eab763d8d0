// Package observability provides hooks for metrics, tracing and logging.
//
// Libraries emit events through the registered hooks; main decides what
// receives them. Defaults are no-ops, so nothing is recorded unless a hook
// is installed at startup:
//
//	observability.SetGraphHooks(observability.NewLogHooks(logger))
//
// Libraries call hooks around their work:
//
//	observability.Graph().OnCompileStart(ctx, "wgsl", g.Len())
//	code, err := c.Compile(g)
//	observability.Graph().OnCompileComplete(ctx, "wgsl", time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// GraphHooks receives events from graph compilation and evaluation.
type GraphHooks interface {
	OnCompileStart(ctx context.Context, target string, nodeCount int)
	OnCompileComplete(ctx context.Context, target string, duration time.Duration, err error)

	OnEvalStart(ctx context.Context, node string)
	OnEvalComplete(ctx context.Context, node string, duration time.Duration, err error)

	// OnValidate records a shader validation run.
	OnValidate(ctx context.Context, target string, duration time.Duration, err error)
}

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks receives events from the HTTP service.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, route string)
	OnResponse(ctx context.Context, method, route string, status int, duration time.Duration)
}

// NoopGraphHooks ignores all graph events.
type NoopGraphHooks struct{}

func (NoopGraphHooks) OnCompileStart(context.Context, string, int)                      {}
func (NoopGraphHooks) OnCompileComplete(context.Context, string, time.Duration, error) {}
func (NoopGraphHooks) OnEvalStart(context.Context, string)                              {}
func (NoopGraphHooks) OnEvalComplete(context.Context, string, time.Duration, error)    {}
func (NoopGraphHooks) OnValidate(context.Context, string, time.Duration, error)        {}

// NoopCacheHooks ignores all cache events.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks ignores all HTTP events.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                         {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

var (
	graphHooks GraphHooks = NoopGraphHooks{}
	cacheHooks CacheHooks = NoopCacheHooks{}
	httpHooks  HTTPHooks  = NoopHTTPHooks{}
	hooksMu    sync.RWMutex
)

// SetGraphHooks installs h. A nil h is ignored.
func SetGraphHooks(h GraphHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		graphHooks = h
	}
}

// SetCacheHooks installs h. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks installs h. A nil h is ignored.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Graph returns the installed graph hooks.
func Graph() GraphHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return graphHooks
}

// Cache returns the installed cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the installed HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores the no-op defaults.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	graphHooks = NoopGraphHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
