package nodes

import "github.com/matzehuels/shadergraph/pkg/graph"

// fragmentTemplates is the fixed text around the graph-generated part of a
// fragment shader.
type fragmentTemplates struct {
	imports   string
	material  string
	header    string
	footer    string
	baseColor string // lvalue the color input is assigned to
}

func templatesFor(t graph.Target) fragmentTemplates {
	if t == graph.TargetBevy {
		return bevyTemplates
	}
	return wgslTemplates
}

var bevyTemplates = fragmentTemplates{
	imports: `#import bevy_pbr::{
    pbr_fragment::pbr_input_from_standard_material,
    pbr_functions::alpha_discard,
    pbr_bindings,
    mesh_view_bindings::view,
    mesh_functions,
    skinning,
    view_transformations::position_world_to_clip,
}
#import bevy_render::instance_index::get_instance_index

#ifdef PREPASS_PIPELINE
#import bevy_pbr::{
    prepass_io::{Vertex, VertexOutput, FragmentOutput},
    pbr_deferred_functions::deferred_output,
}
#else
#import bevy_pbr::{
    forward_io::{Vertex, VertexOutput, FragmentOutput},
    pbr_functions::{apply_pbr_lighting, main_pass_post_lighting_processing},
    pbr_types::STANDARD_MATERIAL_FLAGS_UNLIT_BIT,
}
#endif
`,
	material: `struct ShaderGraphMaterialUniform {
    prop_vec4: vec4<f32>,
};

@group(1) @binding(100) var<uniform> material: ShaderGraphMaterialUniform;
`,
	header: `@fragment
fn fragment(
    v_in: VertexOutput,
    @builtin(front_facing) is_front: bool,
) -> FragmentOutput {
    var in = v_in;

    // get PbrInput from StandardMaterial bindings.
    var pbr_input = pbr_input_from_standard_material(in, is_front);
`,
	baseColor: "pbr_input.material.base_color",
	footer: `
    // alpha discard
    pbr_input.material.base_color = alpha_discard(pbr_input.material, pbr_input.material.base_color);

#ifdef PREPASS_PIPELINE
    // No lighting in deferred mode.
    let out = deferred_output(in, pbr_input);
#else
    var out: FragmentOutput;
    if (pbr_input.material.flags & STANDARD_MATERIAL_FLAGS_UNLIT_BIT) == 0u {
        out.color = apply_pbr_lighting(pbr_input);
    } else {
        out.color = pbr_input.material.base_color;
    }

    // Apply PBR post processing.
    out.color = main_pass_post_lighting_processing(pbr_input, out.color);
#endif

    return out;
}
`,
}

var wgslTemplates = fragmentTemplates{
	imports: `struct VertexOutput {
    @builtin(position) position: vec4<f32>,
    @location(0) uv: vec2<f32>,
    @location(1) uv_b: vec2<f32>,
};
`,
	material: `struct ShaderGraphMaterialUniform {
    prop_vec4: vec4<f32>,
};

@group(1) @binding(0) var<uniform> material: ShaderGraphMaterialUniform;
`,
	header: `@fragment
fn fragment(
    v_in: VertexOutput,
    @builtin(front_facing) is_front: bool,
) -> @location(0) vec4<f32> {
    var in = v_in;
    var base_color = material.prop_vec4;
`,
	baseColor: "base_color",
	footer: `
    return base_color;
}
`,
}
