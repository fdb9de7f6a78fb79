// Package render maps block type tags to renderer functions and dispatches
// with per-block fault isolation: an unknown tag or a failing renderer
// degrades to a placeholder fragment and never aborts the rest of the page.
package render

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/masonrylabs/masonry/internal/logging"
	"github.com/masonrylabs/masonry/pkg/domain"
)

// Func renders one block against an immutable context. Implementations must
// be pure: no shared mutable state, so independent blocks can render
// concurrently with no locking.
type Func func(b domain.Block, rc domain.RenderContext) (Fragment, error)

// FaultHook observes renderer failures (for metrics and lifecycle events).
// The cause is the recovered panic value or returned error.
type FaultHook func(b domain.Block, cause error)

// Registry maps type tags to renderers. It is built once at startup and
// injected into the assembler; there is no package-global registry, so tests
// can substitute fakes freely.
type Registry struct {
	mu        sync.RWMutex
	renderers map[string]Func
	logger    *slog.Logger
	onFault   FaultHook
}

// Option configures the Registry.
type Option func(*Registry)

// WithLogger sets the logger used for fault reports.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithFaultHook registers a callback for unknown types and renderer faults.
func WithFaultHook(hook FaultHook) Option {
	return func(r *Registry) { r.onFault = hook }
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		renderers: make(map[string]Func),
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a renderer for a type tag, overwriting any previous one.
func (r *Registry) Register(blockType string, fn Func) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.renderers[blockType] = fn
}

// Known reports whether a type tag has a registered renderer.
func (r *Registry) Known(blockType string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.renderers[blockType]
	return ok
}

// Types returns the registered type tags.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.renderers))
	for t := range r.renderers {
		out = append(out, t)
	}
	return out
}

// Render dispatches one block. It never fails: a lookup miss, a returned
// error, or a panicking renderer all degrade to a placeholder fragment for
// this block only.
func (r *Registry) Render(b domain.Block, rc domain.RenderContext) (frag Fragment) {
	defer func() {
		if rec := recover(); rec != nil {
			cause := fmt.Errorf("renderer panic: %v", rec)
			r.logger.Error("block renderer fault",
				"block_id", b.ID, "block_type", b.Type, "err", cause)
			r.fault(b, cause)
			frag = Placeholder(b.ID, b.Type)
		}
	}()

	r.mu.RLock()
	fn, ok := r.renderers[b.Type]
	r.mu.RUnlock()

	if !ok {
		r.logger.Warn("unknown block type", "block_id", b.ID, "block_type", b.Type)
		r.fault(b, fmt.Errorf("unknown block type %q", b.Type))
		return Placeholder(b.ID, b.Type)
	}

	frag, err := fn(b, rc)
	if err != nil {
		r.logger.Error("block renderer error",
			"block_id", b.ID, "block_type", b.Type, "err", err)
		r.fault(b, err)
		return Placeholder(b.ID, b.Type)
	}
	frag.BlockID = b.ID
	frag.Type = b.Type
	return frag
}

func (r *Registry) fault(b domain.Block, cause error) {
	if r.onFault != nil {
		r.onFault(b, cause)
	}
}
