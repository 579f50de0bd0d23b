// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about pipeline stages, comment placement, and shape
// construction.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, not by libraries, so the layout and drawing
// packages never import a metrics backend.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetPipelineHooks(&myPipelineHooks{})
//	    observability.SetLayoutHooks(&myLayoutHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Pipeline().OnLayoutStart(ctx, len(comments))
//	// ... place comments ...
//	observability.Pipeline().OnLayoutComplete(ctx, len(comments), duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the conversion pipeline.
type PipelineHooks interface {
	// Lifetime events
	OnLifetimeComplete(ctx context.Context, records int, duration time.Duration, err error)

	// Layout events
	OnLayoutStart(ctx context.Context, comments int)
	OnLayoutComplete(ctx context.Context, comments int, duration time.Duration, err error)

	// Shape events
	OnShapesStart(ctx context.Context, panels int)
	OnShapesComplete(ctx context.Context, shapes int, duration time.Duration, err error)
}

// =============================================================================
// Layout Hooks
// =============================================================================

// LayoutHooks receives per-comment events from the layout engine.
type LayoutHooks interface {
	// OnPlaced records a comment placed without overflow after shifts
	// collision moves.
	OnPlaced(ctx context.Context, id, mode string, shifts int)

	// OnOverflow records a comment that found no free band.
	OnOverflow(ctx context.Context, id, mode string)
}

// =============================================================================
// Shape Hooks
// =============================================================================

// ShapeHooks receives events from vector shape construction.
type ShapeHooks interface {
	// OnShapeBuilt records a serialized shape and its precision exponent.
	OnShapeBuilt(ctx context.Context, kind string, precision int)

	// OnShapeFailed records a shape whose construction was abandoned.
	OnShapeFailed(ctx context.Context, kind string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnLifetimeComplete(context.Context, int, time.Duration, error) {}
func (NoopPipelineHooks) OnLayoutStart(context.Context, int)                           {}
func (NoopPipelineHooks) OnLayoutComplete(context.Context, int, time.Duration, error)   {}
func (NoopPipelineHooks) OnShapesStart(context.Context, int)                           {}
func (NoopPipelineHooks) OnShapesComplete(context.Context, int, time.Duration, error)   {}

// NoopLayoutHooks is a no-op implementation of LayoutHooks.
type NoopLayoutHooks struct{}

func (NoopLayoutHooks) OnPlaced(context.Context, string, string, int) {}
func (NoopLayoutHooks) OnOverflow(context.Context, string, string)    {}

// NoopShapeHooks is a no-op implementation of ShapeHooks.
type NoopShapeHooks struct{}

func (NoopShapeHooks) OnShapeBuilt(context.Context, string, int)    {}
func (NoopShapeHooks) OnShapeFailed(context.Context, string, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	layoutHooks   LayoutHooks   = NoopLayoutHooks{}
	shapeHooks    ShapeHooks    = NoopShapeHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers custom pipeline hooks.
// This should be called once at application startup before any pipeline operations.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetLayoutHooks registers custom layout hooks.
// This should be called once at application startup before any layout runs.
func SetLayoutHooks(h LayoutHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		layoutHooks = h
	}
}

// SetShapeHooks registers custom shape hooks.
// This should be called once at application startup before any shapes are built.
func SetShapeHooks(h ShapeHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		shapeHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Layout returns the registered layout hooks.
func Layout() LayoutHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return layoutHooks
}

// Shape returns the registered shape hooks.
func Shape() ShapeHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return shapeHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	layoutHooks = NoopLayoutHooks{}
	shapeHooks = NoopShapeHooks{}
}
