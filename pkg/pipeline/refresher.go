package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/matzehuels/shadergraph/pkg/graph"
)

// Refresher owns a graph that is edited over time and keeps its compiled
// code current. All access to the graph goes through the Refresher, which
// serializes edits and compiles.
//
// A compile that fails leaves the last successful result in place; the
// failure is reported separately through [Refresher.Last].
type Refresher struct {
	runner *Runner
	opts   Options

	mu       sync.Mutex
	g        *graph.Graph
	compiled uint64
	dirty    bool
	last     *Result
	lastErr  error

	// OnRefresh, when set, is called after every compile with its outcome.
	OnRefresh func(*Result, error)
}

// NewRefresher wraps g. The first Refresh always compiles.
func NewRefresher(runner *Runner, g *graph.Graph, opts Options) *Refresher {
	return &Refresher{runner: runner, opts: opts, g: g, dirty: true}
}

// Update runs fn with exclusive access to the graph. Changes are picked up
// by the next Refresh.
func (r *Refresher) Update(fn func(*graph.Graph) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn(r.g)
}

// Replace swaps in a new graph, as done after loading a file.
func (r *Refresher) Replace(g *graph.Graph) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.g = g
	r.dirty = true
}

// Refresh recompiles when the graph changed since the last compile. It
// reports whether a compile ran and that compile's error.
func (r *Refresher) Refresh(ctx context.Context) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.dirty && r.g.Changed() == r.compiled {
		return false, nil
	}
	res, err := r.runner.Compile(ctx, r.g, r.opts)
	r.compiled = r.g.Changed()
	r.dirty = false
	r.lastErr = err
	if err == nil {
		r.last = res
	}
	if r.OnRefresh != nil {
		r.OnRefresh(res, err)
	}
	return true, err
}

// Last returns the most recent successful result, nil before the first
// success, and the error of the most recent compile.
func (r *Refresher) Last() (*Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last, r.lastErr
}

// Watch calls Refresh every interval until ctx is cancelled. Compile errors
// are logged and do not stop the loop.
func (r *Refresher) Watch(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if ran, err := r.Refresh(ctx); ran && err != nil {
			r.runner.Logger.Warn("refresh failed", "err", err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
