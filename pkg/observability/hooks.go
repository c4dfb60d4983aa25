// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about diagram instances, cache operations, and the host
// server.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, not by libraries, which keeps the engine
// packages free of backend imports.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetDiagramHooks(&myDiagramHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	start := time.Now()
//	levels := layout.Apply(data, opts)
//	observability.Diagram().OnLayout(ctx, id, len(data.Nodes), len(levels), time.Since(start))
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Diagram Hooks
// =============================================================================

// DiagramHooks receives events from diagram instances.
type DiagramHooks interface {
	// Lifecycle events
	OnInit(ctx context.Context, instance string, nodeCount, edgeCount int)
	OnDispose(ctx context.Context, instance string)

	// OnLayout records a layout pass.
	OnLayout(ctx context.Context, instance string, nodeCount, levels int, duration time.Duration)

	// OnRender records a full render.
	OnRender(ctx context.Context, instance string, elements int, duration time.Duration)

	// OnExport records the outcome of one export backend attempt.
	OnExport(ctx context.Context, instance, backend string, size int, duration time.Duration, err error)

	// OnDragCommit records a completed node drag.
	OnDragCommit(ctx context.Context, instance, node string)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// Host Hooks
// =============================================================================

// HostHooks receives events from the host server.
type HostHooks interface {
	// OnRequest records a handled HTTP request.
	OnRequest(ctx context.Context, method, route string, statusCode int, duration time.Duration)

	// OnLiveConnect records a websocket session opening.
	OnLiveConnect(ctx context.Context, instance string)

	// OnLiveDisconnect records a websocket session closing.
	OnLiveDisconnect(ctx context.Context, instance string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopDiagramHooks is a no-op implementation of DiagramHooks.
type NoopDiagramHooks struct{}

func (NoopDiagramHooks) OnInit(context.Context, string, int, int)                  {}
func (NoopDiagramHooks) OnDispose(context.Context, string)                         {}
func (NoopDiagramHooks) OnLayout(context.Context, string, int, int, time.Duration) {}
func (NoopDiagramHooks) OnRender(context.Context, string, int, time.Duration)      {}
func (NoopDiagramHooks) OnDragCommit(context.Context, string, string)              {}
func (NoopDiagramHooks) OnExport(context.Context, string, string, int, time.Duration, error) {
}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHostHooks is a no-op implementation of HostHooks.
type NoopHostHooks struct{}

func (NoopHostHooks) OnRequest(context.Context, string, string, int, time.Duration) {}
func (NoopHostHooks) OnLiveConnect(context.Context, string)                         {}
func (NoopHostHooks) OnLiveDisconnect(context.Context, string, error)               {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	diagramHooks DiagramHooks = NoopDiagramHooks{}
	cacheHooks   CacheHooks   = NoopCacheHooks{}
	hostHooks    HostHooks    = NoopHostHooks{}
	hooksMu      sync.RWMutex
)

// SetDiagramHooks registers custom diagram hooks.
// This should be called once at application startup before any instance is created.
func SetDiagramHooks(h DiagramHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		diagramHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHostHooks registers custom host server hooks.
func SetHostHooks(h HostHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		hostHooks = h
	}
}

// Diagram returns the registered diagram hooks.
func Diagram() DiagramHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return diagramHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Host returns the registered host hooks.
func Host() HostHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return hostHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	diagramHooks = NoopDiagramHooks{}
	cacheHooks = NoopCacheHooks{}
	hostHooks = NoopHostHooks{}
}
