// Package render provides diagram rendering for node graphs.
//
// # Overview
//
// The [nodelink] subpackage turns a graph into Graphviz DOT and renders it
// to SVG in-process. This package holds the format conversion shared by
// renderers:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// [ToPDF] and [ToPNG] shell out to rsvg-convert (from librsvg).
//
// [nodelink]: github.com/matzehuels/shadergraph/pkg/render/nodelink
package render
