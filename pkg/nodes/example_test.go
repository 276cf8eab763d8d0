package nodes_test

import (
	"fmt"

	"github.com/matzehuels/shadergraph/pkg/graph"
	"github.com/matzehuels/shadergraph/pkg/nodes"
	"github.com/matzehuels/shadergraph/pkg/value"
)

func ExampleNewDefaultGraph() {
	r := nodes.Default()
	g, err := nodes.NewDefaultGraph(r)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	out, _ := g.Output()

	// 2 + 3 feeding the fragment output's color input
	n, _ := r.New(nodes.TypeScalarMath)
	sum := g.Add(n)
	_ = g.SetInputDefault(sum, 0, value.Scalar(2))
	_ = g.SetInputDefault(sum, 1, value.Scalar(3))
	if err := g.Connect(sum, 0, out, 0); err != nil {
		fmt.Println("Error:", err)
		return
	}

	v, _ := graph.Evaluate(g, sum)
	fmt.Println("Sum:", v, value.Equal(v, value.Scalar(5)))

	code, err := nodes.NewCompiler(graph.TargetBevy, nil).Compile(g)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println("Blocks:", code.Names())
	// Output:
	// Sum: 5 true
	// Blocks: [imports bindings main fragment]
}
