package graph

import (
	"fmt"

	"github.com/matzehuels/shadergraph/pkg/value"
)

// Test node kinds. Counters record how often each instance was evaluated or
// compiled so memoization can be asserted.

var constType = &NodeType{
	Name:     "Const",
	Category: []string{"Input"},
	Outputs:  []OutputDef{{Name: "value", Kind: value.KindScalar}},
	Params:   []ParamDef{{Name: "value", Default: value.Scalar(0)}},
}

type constNode struct {
	Base
	evals, compiles int
}

func newConst(f float64) *constNode {
	n := &constNode{Base: NewBase(constType)}
	n.Sockets().Params[0].Value = value.Scalar(f)
	return n
}

func (n *constNode) Eval(*EvalContext, NodeID) (value.Value, error) {
	n.evals++
	return n.Sockets().Params[0].Value, nil
}

func (n *constNode) Compile(ctx *CompileContext, id NodeID) error {
	n.compiles++
	lit, err := n.Sockets().Params[0].Value.WGSL()
	if err != nil {
		return err
	}
	return ctx.SetOutput(id, 0, lit)
}

var addType = &NodeType{
	Name:     "Add",
	Category: []string{"Math"},
	Inputs: []InputDef{
		{Name: "a", Kind: value.KindScalar, Default: value.Scalar(0)},
		{Name: "b", Kind: value.KindScalar, Default: value.Scalar(0)},
	},
	Outputs: []OutputDef{{Name: "out", Kind: value.KindScalar}},
}

type addNode struct {
	Base
	evals, compiles int
	bind            bool // emit a let binding instead of an inline expression
}

func newAdd() *addNode { return &addNode{Base: NewBase(addType)} }

func (n *addNode) Eval(ctx *EvalContext, id NodeID) (value.Value, error) {
	n.evals++
	a, err := ctx.Input(id, 0)
	if err != nil {
		return value.Value{}, err
	}
	b, err := ctx.Input(id, 1)
	if err != nil {
		return value.Value{}, err
	}
	return value.Add(a, b)
}

func (n *addNode) Compile(ctx *CompileContext, id NodeID) error {
	n.compiles++
	a, err := ctx.Input(id, 0)
	if err != nil {
		return err
	}
	b, err := ctx.Input(id, 1)
	if err != nil {
		return err
	}
	expr := fmt.Sprintf("(%s + %s)", a, b)
	if n.bind {
		_, err := ctx.Bind(id, 0, expr)
		return err
	}
	return ctx.SetOutput(id, 0, expr)
}

var vec3Type = &NodeType{
	Name:    "Vec3 Source",
	Outputs: []OutputDef{{Name: "v", Kind: value.KindVec3}},
}

var vec2SinkType = &NodeType{
	Name:   "Vec2 Sink",
	Inputs: []InputDef{{Name: "uv", Kind: value.KindVec2, Default: value.Zero(value.KindVec2)}},
}

var sampleType = &NodeType{
	Name:    "Sample",
	Outputs: []OutputDef{{Name: "rgba", Kind: value.KindVec4}},
}

// stubNode is a node whose behavior is supplied by closures.
type stubNode struct {
	Base
	eval    func(ctx *EvalContext, id NodeID) (value.Value, error)
	compile func(ctx *CompileContext, id NodeID) error
}

func newStub(t *NodeType) *stubNode { return &stubNode{Base: NewBase(t)} }

func (n *stubNode) Eval(ctx *EvalContext, id NodeID) (value.Value, error) {
	if n.eval == nil {
		return value.Zero(value.KindScalar), nil
	}
	return n.eval(ctx, id)
}

func (n *stubNode) Compile(ctx *CompileContext, id NodeID) error {
	if n.compile == nil {
		for idx := range n.Sockets().Outputs {
			if err := ctx.SetOutput(id, idx, "stub"); err != nil {
				return err
			}
		}
		return nil
	}
	return n.compile(ctx, id)
}

var sinkType = &NodeType{
	Name:     "Sink",
	Category: []string{"Output"},
	Inputs:   []InputDef{{Name: "color", Kind: value.KindColor, Default: value.Color(0, 0, 0, 1)}},
}

// newSink returns an output node that writes its input inside a "body" block
// kept as a named top-level block, the way fragment entry points are built.
func newSink() *stubNode {
	n := newStub(sinkType)
	n.eval = func(ctx *EvalContext, id NodeID) (value.Value, error) { return ctx.Input(id, 0) }
	n.compile = func(ctx *CompileContext, id NodeID) error {
		if err := ctx.AppendOnce(BlockBindings, "sink", "var<private> color: vec4<f32>;"); err != nil {
			return err
		}
		return ctx.WithBlock("body", KeepNamed, func() error {
			ctx.Emit("fn body() {")
			ctx.Indent()
			c, err := ctx.Input(id, 0)
			if err != nil {
				return err
			}
			ctx.Emit("color = " + c + ";")
			ctx.Dedent()
			ctx.Emit("}")
			return nil
		})
	}
	return n
}

func newCompiler() *Compiler {
	c := NewCompiler(TargetWGSL, nil)
	_ = c.DefineBlock(BlockImports)
	_ = c.DefineBlock(BlockBindings)
	return c
}
