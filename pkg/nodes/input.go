package nodes

import (
	"fmt"
	"regexp"

	"github.com/soypat/geometry/md2"
	"github.com/soypat/geometry/md3"

	"github.com/matzehuels/shadergraph/pkg/errors"
	"github.com/matzehuels/shadergraph/pkg/graph"
	"github.com/matzehuels/shadergraph/pkg/value"
)

// ===== Constants =====

func constType(name string, def value.Value) *graph.NodeType {
	return &graph.NodeType{
		Name:        name,
		Description: "Constant " + def.Kind().String(),
		Category:    []string{"Input", "Constant"},
		Outputs:     []graph.OutputDef{{Name: "value", Kind: def.Kind()}},
		Params:      []graph.ParamDef{{Name: "value", Default: def}},
	}
}

var (
	ScalarType = constType(TypeScalar, value.Scalar(0))
	Vec2Type   = constType(TypeVec2, value.Vec2(md2.Vec{}))
	Vec3Type   = constType(TypeVec3, value.Vec3(md3.Vec{}))
	ColorType  = constType(TypeColor, value.Color(1, 1, 1, 1))
)

// ConstNode outputs the literal held by its "value" param.
type ConstNode struct {
	graph.Base
}

// NewConst returns a constant node of type t, one of the constant descriptors.
func NewConst(t *graph.NodeType) *ConstNode {
	return &ConstNode{Base: graph.NewBase(t)}
}

func (n *ConstNode) literal() value.Value { return n.Sockets().Param("value").Value }

func (n *ConstNode) Eval(*graph.EvalContext, graph.NodeID) (value.Value, error) {
	return n.literal(), nil
}

func (n *ConstNode) Compile(ctx *graph.CompileContext, id graph.NodeID) error {
	lit, err := n.literal().WGSL()
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidParam, err, "param \"value\" of node %d", id).WithNode(id)
	}
	return ctx.SetOutput(id, 0, lit)
}

// ===== Texture sample =====

// DefaultTexture is the texture handle sampled when none is set.
const DefaultTexture = "base_color"

var TextureSampleType = &graph.NodeType{
	Name:        TypeTextureSample,
	Description: "Texture sampler",
	Category:    []string{"Input"},
	Inputs: []graph.InputDef{
		{Name: "uv", Kind: value.KindVec2, Default: value.Vec2(md2.Vec{})},
		{Name: "tex", Kind: value.KindTexture, Default: value.Texture(DefaultTexture)},
	},
	Outputs: []graph.OutputDef{{Name: "rgba", Kind: value.KindVec4}},
}

var handleRE = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// TextureNode samples a texture at a UV coordinate. It only exists on the GPU.
type TextureNode struct {
	graph.Base
}

func NewTexture() *TextureNode { return &TextureNode{Base: graph.NewBase(TextureSampleType)} }

func (n *TextureNode) Eval(_ *graph.EvalContext, id graph.NodeID) (value.Value, error) {
	return value.Value{}, graph.NotEvaluable(id, n.Type())
}

func (n *TextureNode) Compile(ctx *graph.CompileContext, id graph.NodeID) error {
	uv, err := ctx.Input(id, 0)
	if err != nil {
		return err
	}
	handle, err := ctx.Input(id, 1)
	if err != nil {
		return err
	}
	if !handleRE.MatchString(handle) {
		return errors.New(errors.ErrCodeInvalidInput, "texture input of node %d must be a handle name, got %q", id, handle).WithNode(id)
	}

	var expr string
	switch ctx.Target() {
	case graph.TargetBevy:
		expr = fmt.Sprintf("textureSampleBias(pbr_bindings::%[1]s_texture, pbr_bindings::%[1]s_sampler, %[2]s, view.mip_bias)", handle, uv)
	default:
		slot, fresh := ctx.Slot("texture", handle)
		if fresh {
			if err := ctx.Append(graph.BlockBindings, textureBindings(handle, slot)); err != nil {
				return err
			}
		}
		expr = fmt.Sprintf("textureSample(t_%[1]s, s_%[1]s, %[2]s)", handle, uv)
	}
	_, err = ctx.Bind(id, 0, expr)
	return err
}

// textureBindings declares the texture and sampler of the slot-th handle.
// Binding 0 of the group is the material uniform.
func textureBindings(handle string, slot int) string {
	b := 1 + 2*slot
	return fmt.Sprintf("@group(%[1]d) @binding(%[2]d) var t_%[4]s: texture_2d<f32>;\n@group(%[1]d) @binding(%[3]d) var s_%[4]s: sampler;\n",
		materialGroup, b, b+1, handle)
}

// ===== UV =====

var UVType = &graph.NodeType{
	Name:        TypeUV,
	Description: "Vertex or Fragment UV",
	Category:    []string{"UV"},
	Outputs:     []graph.OutputDef{{Name: "uv", Kind: value.KindVec2}},
	Params:      []graph.ParamDef{{Name: "channel", Options: []string{"UV0", "UV1"}}},
}

// UVNode reads a UV channel of the interpolated vertex output.
type UVNode struct {
	graph.Base
}

func NewUV() *UVNode { return &UVNode{Base: graph.NewBase(UVType)} }

func (n *UVNode) Eval(_ *graph.EvalContext, id graph.NodeID) (value.Value, error) {
	return value.Value{}, graph.NotEvaluable(id, n.Type())
}

func (n *UVNode) Compile(ctx *graph.CompileContext, id graph.NodeID) error {
	field := "uv"
	if n.Sockets().Choice("channel") == "UV1" {
		field = "uv_b"
	}
	return ctx.SetOutput(id, 0, "in."+field)
}
