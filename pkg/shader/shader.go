// Package shader turns compiled graph code into shader source and checks it
// with the naga WGSL front end.
//
// [Assemble] joins the named blocks of a [graph.Code] into one module.
// For the wgsl target the result is a complete WGSL module that [Validate]
// accepts and [SPIRV] and [GLSL] cross compile. The bevy target relies on
// Bevy's #import preprocessor, which plain WGSL front ends reject, so it can
// only be assembled.
package shader

import (
	"slices"
	"strings"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/glsl"
	"github.com/gogpu/naga/ir"

	"github.com/matzehuels/shadergraph/pkg/errors"
	"github.com/matzehuels/shadergraph/pkg/graph"
	"github.com/matzehuels/shadergraph/pkg/nodes"
)

// Assemble joins the blocks of code into a single source: imports, then
// bindings, then every other block in code order, with the fragment entry
// point last. Empty blocks are skipped.
func Assemble(code *graph.Code) string {
	names := code.Names()
	rank := func(name string) int {
		switch name {
		case graph.BlockImports:
			return 0
		case graph.BlockBindings:
			return 1
		case nodes.BlockFragment:
			return 3
		}
		return 2
	}
	slices.SortStableFunc(names, func(a, b string) int { return rank(a) - rank(b) })

	var b strings.Builder
	for _, name := range names {
		text, _ := code.Block(name)
		if strings.TrimSpace(text) == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(text)
	}
	return b.String()
}

// Validate parses, lowers and validates WGSL source. Problems are reported
// as SHADER_INVALID.
func Validate(src string) error {
	_, err := lower(src)
	return err
}

// Check assembles code and validates it. Code for targets other than wgsl
// fails with UNSUPPORTED.
func Check(code *graph.Code) (string, error) {
	src := Assemble(code)
	if code.Target != graph.TargetWGSL {
		return src, errors.New(errors.ErrCodeUnsupported, "validation needs the %s target, got %s", graph.TargetWGSL, code.Target)
	}
	return src, Validate(src)
}

// SPIRV compiles WGSL source to a SPIR-V binary.
func SPIRV(src string) ([]byte, error) {
	if _, err := lower(src); err != nil {
		return nil, err
	}
	bin, err := naga.CompileWithOptions(src, naga.DefaultOptions())
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeShaderInvalid, err, "spir-v")
	}
	return bin, nil
}

// GLSL translates WGSL source to GLSL 3.30.
func GLSL(src string) (string, error) {
	mod, err := lower(src)
	if err != nil {
		return "", err
	}
	out, _, err := glsl.Compile(mod, glsl.DefaultOptions())
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeShaderInvalid, err, "glsl")
	}
	return out, nil
}

func lower(src string) (*ir.Module, error) {
	ast, err := naga.Parse(src)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeShaderInvalid, err, "parse")
	}
	mod, err := naga.LowerWithSource(ast, src)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeShaderInvalid, err, "lower")
	}
	problems, err := naga.Validate(mod)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeShaderInvalid, err, "validate")
	}
	if len(problems) > 0 {
		msgs := make([]string, len(problems))
		for i, p := range problems {
			msgs[i] = p.Error()
		}
		return nil, errors.New(errors.ErrCodeShaderInvalid, "validate: %s", strings.Join(msgs, "; "))
	}
	return mod, nil
}
