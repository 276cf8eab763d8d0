package nodes

import (
	"fmt"

	"github.com/matzehuels/shadergraph/pkg/graph"
	"github.com/matzehuels/shadergraph/pkg/value"
)

var (
	vectorOps = []string{"Add", "Sub", "Mul", "Div"}
	matrixOps = []string{"Add", "Sub", "Mul"}
)

// mathType describes a binary operator node over kind k.
func mathType(name string, k value.Kind, ops []string) *graph.NodeType {
	def := value.Zero(k)
	if k.IsMatrix() {
		def = value.Identity(k)
	}
	return &graph.NodeType{
		Name:        name,
		Description: "Simple math node",
		Category:    []string{"Math", "Basic"},
		Inputs: []graph.InputDef{
			{Name: "a", Kind: k, Default: def},
			{Name: "b", Kind: k, Default: def},
		},
		Outputs: []graph.OutputDef{{Name: "out", Kind: k}},
		Params:  []graph.ParamDef{{Name: "op", Options: ops}},
	}
}

var (
	ScalarMathType = mathType(TypeScalarMath, value.KindScalar, vectorOps)
	Vec2MathType   = mathType(TypeVec2Math, value.KindVec2, vectorOps)
	Vec3MathType   = mathType(TypeVec3Math, value.KindVec3, vectorOps)
	Vec4MathType   = mathType(TypeVec4Math, value.KindVec4, vectorOps)
	Mat2MathType   = mathType(TypeMat2Math, value.KindMat2, matrixOps)
	Mat3MathType   = mathType(TypeMat3Math, value.KindMat3, matrixOps)
	Mat4MathType   = mathType(TypeMat4Math, value.KindMat4, matrixOps)
)

// MathNode applies the operator selected by its "op" param to inputs a and b.
type MathNode struct {
	graph.Base
}

// NewMath returns a math node of type t, one of the *MathType descriptors.
func NewMath(t *graph.NodeType) *MathNode {
	return &MathNode{Base: graph.NewBase(t)}
}

func (n *MathNode) op() (value.Op, error) {
	return value.ParseOp(n.Sockets().Choice("op"))
}

func (n *MathNode) Eval(ctx *graph.EvalContext, id graph.NodeID) (value.Value, error) {
	op, err := n.op()
	if err != nil {
		return value.Value{}, err
	}
	a, err := ctx.Input(id, 0)
	if err != nil {
		return value.Value{}, err
	}
	b, err := ctx.Input(id, 1)
	if err != nil {
		return value.Value{}, err
	}
	return value.Apply(op, a, b)
}

func (n *MathNode) Compile(ctx *graph.CompileContext, id graph.NodeID) error {
	op, err := n.op()
	if err != nil {
		return err
	}
	a, err := ctx.Input(id, 0)
	if err != nil {
		return err
	}
	b, err := ctx.Input(id, 1)
	if err != nil {
		return err
	}
	return ctx.SetOutput(id, 0, fmt.Sprintf("(%s %s %s)", a, op.Symbol(), b))
}

var FractionType = &graph.NodeType{
	Name:        TypeFraction,
	Description: "Fractional part of each component",
	Category:    []string{"Math"},
	Inputs:      []graph.InputDef{{Name: "input", Kind: value.KindVec4, Default: value.Zero(value.KindVec4)}},
	Outputs:     []graph.OutputDef{{Name: "output", Kind: value.KindVec4}},
}

// FractionNode computes x - floor(x) per component.
type FractionNode struct {
	graph.Base
}

func NewFraction() *FractionNode { return &FractionNode{Base: graph.NewBase(FractionType)} }

func (n *FractionNode) Eval(ctx *graph.EvalContext, id graph.NodeID) (value.Value, error) {
	x, err := ctx.Input(id, 0)
	if err != nil {
		return value.Value{}, err
	}
	return value.Fract(x)
}

func (n *FractionNode) Compile(ctx *graph.CompileContext, id graph.NodeID) error {
	x, err := ctx.Input(id, 0)
	if err != nil {
		return err
	}
	return ctx.SetOutput(id, 0, "fract("+x+")")
}
