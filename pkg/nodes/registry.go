package nodes

import (
	"sync"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/shadergraph/pkg/graph"
)

// Registered type names.
const (
	TypeScalarMath     = "Scalar Math"
	TypeVec2Math       = "Vec2 Math"
	TypeVec3Math       = "Vec3 Math"
	TypeVec4Math       = "Vec4 Math"
	TypeMat2Math       = "Mat2 Math"
	TypeMat3Math       = "Mat3 Math"
	TypeMat4Math       = "Mat4 Math"
	TypeFraction       = "Fraction Vec4"
	TypeTextureSample  = "Texture Sample"
	TypeUV             = "UV Node"
	TypeFragmentOutput = "Fragment output"
	TypeScalar         = "Scalar"
	TypeVec2           = "Vec2"
	TypeVec3           = "Vec3"
	TypeColor          = "Color"
)

type entry struct {
	typ     *graph.NodeType
	factory graph.Factory
}

func catalogue() []entry {
	math := func(t *graph.NodeType) entry {
		return entry{t, func() graph.Node { return NewMath(t) }}
	}
	constant := func(t *graph.NodeType) entry {
		return entry{t, func() graph.Node { return NewConst(t) }}
	}
	return []entry{
		math(ScalarMathType),
		math(Vec2MathType),
		math(Vec3MathType),
		math(Vec4MathType),
		math(Mat2MathType),
		math(Mat3MathType),
		math(Mat4MathType),
		{FractionType, func() graph.Node { return NewFraction() }},
		{TextureSampleType, func() graph.Node { return NewTexture() }},
		{UVType, func() graph.Node { return NewUV() }},
		{FragmentOutputType, func() graph.Node { return NewFragmentOutput() }},
		constant(ScalarType),
		constant(Vec2Type),
		constant(Vec3Type),
		constant(ColorType),
	}
}

// Register adds every built-in node type to r.
func Register(r *graph.Registry) error {
	for _, e := range catalogue() {
		if err := r.Register(e.typ, e.factory); err != nil {
			return err
		}
	}
	return nil
}

var defaultRegistry = sync.OnceValue(func() *graph.Registry {
	r := graph.NewRegistry(nil)
	if err := Register(r); err != nil {
		panic(err)
	}
	r.Freeze()
	return r
})

// Default returns the frozen process-wide registry holding the catalogue.
func Default() *graph.Registry { return defaultRegistry() }

// NewDefaultGraph returns the starting graph of a new material: a single
// fragment output node designated as the output.
func NewDefaultGraph(r *graph.Registry) (*graph.Graph, error) {
	n, err := r.New(TypeFragmentOutput)
	if err != nil {
		return nil, err
	}
	g := graph.New()
	if err := g.SetOutput(g.Add(n)); err != nil {
		return nil, err
	}
	return g, nil
}

// NewCompiler returns a compiler for target with the blocks the catalogue
// writes into declared in output order.
func NewCompiler(target graph.Target, logger *log.Logger) *graph.Compiler {
	c := graph.NewCompiler(target, logger)
	for _, name := range []string{graph.BlockImports, graph.BlockBindings} {
		_ = c.DefineBlock(name)
	}
	return c
}
