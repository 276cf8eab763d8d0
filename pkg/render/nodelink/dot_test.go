package nodelink

import (
	"strings"
	"testing"

	"github.com/matzehuels/shadergraph/pkg/graph"
	"github.com/matzehuels/shadergraph/pkg/nodes"
	"github.com/matzehuels/shadergraph/pkg/value"
)

func sumGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.New()
	sum, _ := nodes.Default().New(nodes.TypeScalarMath)
	out, _ := nodes.Default().New(nodes.TypeFragmentOutput)
	sid, oid := g.Add(sum), g.Add(out)
	_ = g.SetInputDefault(sid, 0, value.Scalar(2))
	if err := g.Connect(sid, 0, oid, 0); err != nil {
		t.Fatal(err)
	}
	_ = g.SetOutput(oid)
	return g
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(sumGraph(t), Options{})
	for _, want := range []string{
		"digraph G {",
		`n1 [label="{{<i0> a|<i1> b}|#1 Scalar Math|{<o0> out}}"];`,
		`n2 [label="{{<i0> color}|#2 Fragment output}", penwidth=2.5`,
		"n1:o0 -> n2:i0;",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q:\n%s", want, dot)
		}
	}
}

func TestToDOTDetailed(t *testing.T) {
	dot := ToDOT(sumGraph(t), Options{Detailed: true})
	if !strings.Contains(dot, `<i0> a = 2|<i1> b = 0`) {
		t.Errorf("detailed label missing input defaults:\n%s", dot)
	}
	if !strings.Contains(dot, `#1 Scalar Math\nop: Add`) {
		t.Errorf("detailed label missing op choice:\n%s", dot)
	}
	if strings.Contains(dot, "color = ") {
		t.Errorf("connected input shows a default:\n%s", dot)
	}
}

func TestEscape(t *testing.T) {
	if got, want := escape(`a|b{c}<d>`), `a\|b\{c\}\<d\>`; got != want {
		t.Errorf("escape() = %q, want %q", got, want)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" height="20pt" viewBox="0.00 0.00 100.00 50.00" xmlns="x"><g/></svg>`)
	got := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.00 50.00" width="100" height="50"><g/></svg>`
	if got != want {
		t.Errorf("normalizeViewBox() = %q, want %q", got, want)
	}
}
