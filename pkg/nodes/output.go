package nodes

import (
	"github.com/matzehuels/shadergraph/pkg/graph"
	"github.com/matzehuels/shadergraph/pkg/value"
)

// BlockFragment holds the fragment entry point written by the output node.
const BlockFragment = "fragment"

// materialGroup is the bind group of the material resources in the wgsl target.
const materialGroup = 1

var FragmentOutputType = &graph.NodeType{
	Name:        TypeFragmentOutput,
	Description: "Fragment shader node",
	Category:    []string{"Output"},
	Inputs:      []graph.InputDef{{Name: "color", Kind: value.KindColor, Default: value.Color(1, 1, 1, 1)}},
}

// FragmentOutputNode is the graph sink. It writes the fragment entry point
// and stores its color input as the material base color.
type FragmentOutputNode struct {
	graph.Base
}

func NewFragmentOutput() *FragmentOutputNode {
	return &FragmentOutputNode{Base: graph.NewBase(FragmentOutputType)}
}

// Eval returns the color feeding the output.
func (n *FragmentOutputNode) Eval(ctx *graph.EvalContext, id graph.NodeID) (value.Value, error) {
	return ctx.Input(id, 0)
}

func (n *FragmentOutputNode) Compile(ctx *graph.CompileContext, id graph.NodeID) error {
	t := templatesFor(ctx.Target())
	if err := ctx.AppendOnce(graph.BlockImports, "fragment.imports", t.imports); err != nil {
		return err
	}
	if err := ctx.AppendOnce(graph.BlockBindings, "fragment.material", t.material); err != nil {
		return err
	}

	return ctx.WithBlock(BlockFragment, graph.KeepNamed, func() error {
		if err := ctx.Append(BlockFragment, t.header); err != nil {
			return err
		}
		ctx.Indent()
		color, err := ctx.Input(id, 0)
		if err != nil {
			return err
		}
		ctx.Emit("")
		ctx.Emit("// Color from graph input `color`.")
		ctx.Emit(t.baseColor + " = " + color + ";")
		ctx.Dedent()
		return ctx.Append(BlockFragment, t.footer)
	})
}
