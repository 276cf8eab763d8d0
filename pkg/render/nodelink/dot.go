package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/shadergraph/pkg/graph"
)

// Options configures diagram generation.
type Options struct {
	// Detailed adds param values and unconnected input defaults to labels.
	Detailed bool
}

// ToDOT converts g to Graphviz DOT. Nodes and links are emitted in id order
// so the output is stable.
func ToDOT(g *graph.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=record, style=\"rounded,filled\", fillcolor=white, fontsize=14];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	out, hasOut := g.Output()
	for _, id := range g.Nodes() {
		n, _ := g.Node(id)
		attrs := []string{fmt.Sprintf("label=\"%s\"", recordLabel(g, id, n, opts.Detailed))}
		if hasOut && id == out {
			attrs = append(attrs, "penwidth=2.5", "fillcolor=\"#fff3d6\"")
		}
		fmt.Fprintf(&buf, "  n%d [%s];\n", id, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, l := range g.Links() {
		fmt.Fprintf(&buf, "  n%d:o%d -> n%d:i%d;\n", l.From.Node, l.From.Index, l.To.Node, l.To.Index)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// recordLabel builds {{inputs}|title|{outputs}} with ports i<n> and o<n>.
func recordLabel(g *graph.Graph, id graph.NodeID, n graph.Node, detailed bool) string {
	s := n.Sockets()

	ins := make([]string, len(s.Inputs))
	for i, in := range s.Inputs {
		text := in.Name
		if _, linked := g.Producer(id, i); detailed && !linked {
			text += " = " + in.Default.String()
		}
		ins[i] = fmt.Sprintf("<i%d> %s", i, escape(text))
	}
	outs := make([]string, len(s.Outputs))
	for i, o := range s.Outputs {
		outs[i] = fmt.Sprintf("<o%d> %s", i, escape(o.Name))
	}

	title := fmt.Sprintf("#%d %s", id, n.Type().Name)
	if detailed {
		for _, p := range s.Params {
			if p.IsEnum() {
				title += fmt.Sprintf("\\n%s: %s", p.Name, p.Choice)
			} else {
				title += fmt.Sprintf("\\n%s: %s", p.Name, p.Value)
			}
		}
	}

	parts := make([]string, 0, 3)
	if len(ins) > 0 {
		parts = append(parts, "{"+strings.Join(ins, "|")+"}")
	}
	parts = append(parts, escapeTitle(title))
	if len(outs) > 0 {
		parts = append(parts, "{"+strings.Join(outs, "|")+"}")
	}
	return "{" + strings.Join(parts, "|") + "}"
}

var recordSpecial = strings.NewReplacer(
	`\`, `\\`, `"`, `\"`, `{`, `\{`, `}`, `\}`, `|`, `\|`, `<`, `\<`, `>`, `\>`,
)

func escape(s string) string { return recordSpecial.Replace(s) }

// escapeTitle escapes s but keeps the \n line breaks inserted by recordLabel.
func escapeTitle(s string) string {
	lines := strings.Split(s, "\\n")
	for i, l := range lines {
		lines[i] = escape(l)
	}
	return strings.Join(lines, "\\n")
}

// RenderSVG renders DOT source to SVG using the embedded Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so the SVG scales to its box.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
