package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/shadergraph/pkg/cache"
	"github.com/matzehuels/shadergraph/pkg/graph"
	"github.com/matzehuels/shadergraph/pkg/observability"
	"github.com/matzehuels/shadergraph/pkg/render"
	"github.com/matzehuels/shadergraph/pkg/render/nodelink"
)

// RenderOptions configures a diagram render.
type RenderOptions struct {
	Format   render.Format `json:"format,omitempty"`
	Detailed bool          `json:"detailed,omitempty"`
	// Scale applies to PNG output; zero means 2.
	Scale float64 `json:"scale,omitempty"`
}

// Render draws g as a node-link diagram. DOT output is returned directly;
// SVG and the formats converted from it are cached by graph hash.
func (r *Runner) Render(ctx context.Context, g *graph.Graph, opts RenderOptions) ([]byte, bool, error) {
	if opts.Format == "" {
		opts.Format = render.FormatSVG
	}
	if opts.Scale == 0 {
		opts.Scale = 2
	}
	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: opts.Detailed})
	if opts.Format == render.FormatDOT {
		return []byte(dot), false, nil
	}

	hash, err := GraphHash(g)
	if err != nil {
		return nil, false, err
	}
	key := r.Keyer.DiagramKey(hash, cache.DiagramKeyOpts{
		Format:   fmt.Sprintf("%s@%g", opts.Format, opts.Scale),
		Detailed: opts.Detailed,
	})
	if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		observability.Cache().OnCacheHit(ctx, "diagram")
		return data, true, nil
	}
	observability.Cache().OnCacheMiss(ctx, "diagram")

	start := time.Now()
	data, err := renderDOT(ctx, dot, opts)
	if err != nil {
		return nil, false, fmt.Errorf("render %s: %w", opts.Format, err)
	}
	r.Logger.Info("rendered diagram", "format", opts.Format, "bytes", len(data), "duration", time.Since(start))

	if err := r.Cache.Set(ctx, key, data, TTLDiagram); err == nil {
		observability.Cache().OnCacheSet(ctx, "diagram", len(data))
	}
	return data, false, nil
}

func renderDOT(ctx context.Context, dot string, opts RenderOptions) ([]byte, error) {
	svg, err := nodelink.RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	switch opts.Format {
	case render.FormatSVG:
		return svg, nil
	case render.FormatPDF:
		return render.ToPDF(ctx, svg)
	case render.FormatPNG:
		return render.ToPNG(ctx, svg, opts.Scale)
	}
	return nil, fmt.Errorf("unsupported format %q", opts.Format)
}
