// Package nodelink renders node graphs as node-link diagrams.
//
// # Overview
//
// Each node becomes a Graphviz record listing its input sockets on the left
// and output sockets on the right. Links run from output ports to input
// ports, so the diagram reads like the node editor it was drawn in. The
// output node is outlined in bold.
//
// # Usage
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output, convert the SVG with [render.ToPDF] or
// [render.ToPNG].
//
// # Options
//
//   - Detailed: include param choices and the literal defaults of
//     unconnected inputs in node labels.
//
// # Dependencies
//
// SVG rendering runs in-process through [github.com/goccy/go-graphviz].
//
// [render.ToPDF]: github.com/matzehuels/shadergraph/pkg/render.ToPDF
// [render.ToPNG]: github.com/matzehuels/shadergraph/pkg/render.ToPNG
package nodelink
