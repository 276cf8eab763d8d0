package shader

import (
	"strings"
	"testing"

	"github.com/matzehuels/shadergraph/pkg/errors"
	"github.com/matzehuels/shadergraph/pkg/graph"
	"github.com/matzehuels/shadergraph/pkg/nodes"
	"github.com/matzehuels/shadergraph/pkg/value"
)

const minimal = `@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return vec4<f32>(1.0, 0.0, 0.0, 1.0);
}
`

func TestAssembleOrder(t *testing.T) {
	code := graph.NewCode(graph.TargetWGSL,
		graph.Block{Name: nodes.BlockFragment, Text: "frag\n"},
		graph.Block{Name: graph.BlockMain, Text: "main\n"},
		graph.Block{Name: "helpers", Text: ""},
		graph.Block{Name: graph.BlockBindings, Text: "bind\n"},
		graph.Block{Name: graph.BlockImports, Text: "imp\n"},
	)
	want := "imp\n\nbind\n\nmain\n\nfrag\n"
	if got := Assemble(code); got != want {
		t.Errorf("Assemble() = %q, want %q", got, want)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr bool
	}{
		{"minimal fragment", minimal, false},
		{"syntax error", "fn broken( {", true},
		{"unknown identifier", "@fragment\nfn fs_main() -> @location(0) vec4<f32> {\n    return missing;\n}\n", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.src)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeShaderInvalid) {
				t.Errorf("Validate() error code = %s, want SHADER_INVALID", errors.GetCode(err))
			}
		})
	}
}

func TestCheckCompiledGraph(t *testing.T) {
	g := graph.New()
	r := nodes.Default()
	sum, _ := r.New(nodes.TypeScalarMath)
	out, _ := r.New(nodes.TypeFragmentOutput)
	sid, oid := g.Add(sum), g.Add(out)
	_ = g.SetInputDefault(sid, 0, value.Scalar(0.25))
	if err := g.Connect(sid, 0, oid, 0); err != nil {
		t.Fatal(err)
	}
	_ = g.SetOutput(oid)

	code, err := nodes.NewCompiler(graph.TargetWGSL, nil).Compile(g)
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}
	src, err := Check(code)
	if err != nil {
		t.Fatalf("Check() error: %v\n%s", err, src)
	}
	if !strings.HasPrefix(src, "struct VertexOutput {") {
		t.Errorf("source does not start with the imports block:\n%s", src)
	}

	bevy, err := nodes.NewCompiler(graph.TargetBevy, nil).Compile(g)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Check(bevy); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("Check(bevy) error = %v, want UNSUPPORTED", err)
	}
}

func TestSPIRV(t *testing.T) {
	bin, err := SPIRV(minimal)
	if err != nil {
		t.Fatalf("SPIRV() error: %v", err)
	}
	// SPIR-V magic number, little endian.
	if len(bin) < 4 || bin[0] != 0x03 || bin[1] != 0x02 || bin[2] != 0x23 || bin[3] != 0x07 {
		t.Errorf("SPIRV() output does not start with the SPIR-V magic number")
	}
	if _, err := SPIRV("fn broken( {"); !errors.Is(err, errors.ErrCodeShaderInvalid) {
		t.Errorf("SPIRV(broken) error = %v, want SHADER_INVALID", err)
	}
}

func TestGLSL(t *testing.T) {
	out, err := GLSL(minimal)
	if err != nil {
		t.Fatalf("GLSL() error: %v", err)
	}
	if !strings.Contains(out, "#version") {
		t.Errorf("GLSL() output has no #version line:\n%s", out)
	}
}
