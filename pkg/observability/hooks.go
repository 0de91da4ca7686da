// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers register hooks
// at startup to receive events about pipeline stages, the streaming
// classifier, and cache operations.
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetClassifyHooks(metrics.NewClassifyHooks(reg))
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Classify().OnGraphExamined(ctx, source)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives stage events from the pipeline runner. Stages are
// "atlas", "classify", "paginate" and "render".
type PipelineHooks interface {
	OnStageStart(ctx context.Context, stage string)
	OnStageComplete(ctx context.Context, stage string, duration time.Duration, err error)
}

// =============================================================================
// Classify Hooks
// =============================================================================

// Outcome labels passed to [ClassifyHooks.OnGraphSkipped].
const (
	SkipDisconnected  = "disconnected"
	SkipIndeterminate = "indeterminate"
	SkipNotCritical   = "not_critical"
	SkipOversized     = "oversized"
)

// ClassifyHooks receives per-graph events from the streaming classifier.
type ClassifyHooks interface {
	// OnGraphExamined is called once for every graph pulled from a source.
	OnGraphExamined(ctx context.Context, source string)

	// OnGraphAccepted is called when a graph is appended to a bucket.
	OnGraphAccepted(ctx context.Context, source, key string)

	// OnGraphSkipped is called when a graph is examined but not appended.
	OnGraphSkipped(ctx context.Context, source, reason string)

	// OnStreamComplete is called when a source has been consumed or failed.
	OnStreamComplete(ctx context.Context, source string, examined int, duration time.Duration, err error)
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

	// OnCacheError records a failed cache operation. Cache errors are
	// never fatal.
	OnCacheError(ctx context.Context, keyType string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnStageStart(context.Context, string)                          {}
func (NoopPipelineHooks) OnStageComplete(context.Context, string, time.Duration, error) {}

// NoopClassifyHooks is a no-op implementation of ClassifyHooks.
type NoopClassifyHooks struct{}

func (NoopClassifyHooks) OnGraphExamined(context.Context, string)         {}
func (NoopClassifyHooks) OnGraphAccepted(context.Context, string, string) {}
func (NoopClassifyHooks) OnGraphSkipped(context.Context, string, string)  {}
func (NoopClassifyHooks) OnStreamComplete(context.Context, string, int, time.Duration, error) {
}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)          {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)         {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int)     {}
func (NoopCacheHooks) OnCacheError(context.Context, string, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	classifyHooks ClassifyHooks = NoopClassifyHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
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

// SetClassifyHooks registers custom classifier hooks.
func SetClassifyHooks(h ClassifyHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		classifyHooks = h
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

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Classify returns the registered classifier hooks.
func Classify() ClassifyHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return classifyHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	classifyHooks = NoopClassifyHooks{}
	cacheHooks = NoopCacheHooks{}
}
