package graph

import (
	"encoding/json"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/shadergraph/pkg/errors"
	"github.com/matzehuels/shadergraph/pkg/value"
)

// sinkGraph wires producer into a new sink and makes the sink the output.
func sinkGraph(t *testing.T, g *Graph, producer NodeID) NodeID {
	t.Helper()
	sink := g.Add(newSink())
	mustConnect(t, g, producer, 0, sink, 0)
	if err := g.SetOutput(sink); err != nil {
		t.Fatal(err)
	}
	return sink
}

func TestCompileInlineDiamond(t *testing.T) {
	g := New()
	a := newConst(2)
	b := newAdd()
	ia, ib := g.Add(a), g.Add(b)
	mustConnect(t, g, ia, 0, ib, 0)
	mustConnect(t, g, ia, 0, ib, 1)
	c := g.Add(newAdd())
	mustConnect(t, g, ib, 0, c, 0)
	mustConnect(t, g, ib, 0, c, 1)
	sinkGraph(t, g, c)

	code, err := newCompiler().Compile(g)
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}
	body, _ := code.Block("body")
	want := "color = vec4<f32>(((2.0 + 2.0) + (2.0 + 2.0)));"
	if !strings.Contains(body, want) {
		t.Errorf("body = %q, want it to contain %q", body, want)
	}
	if a.compiles != 1 || b.compiles != 1 {
		t.Errorf("compiles = %d, %d, want 1, 1", a.compiles, b.compiles)
	}
}

func TestCompileBindEmitsOnce(t *testing.T) {
	g := New()
	ia := g.Add(newConst(2))
	b := newAdd()
	b.bind = true
	ib := g.Add(b)
	mustConnect(t, g, ia, 0, ib, 0)
	mustConnect(t, g, ia, 0, ib, 1)
	c := g.Add(newAdd())
	mustConnect(t, g, ib, 0, c, 0)
	mustConnect(t, g, ib, 0, c, 1)
	sinkGraph(t, g, c)

	code, err := newCompiler().Compile(g)
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}
	body, _ := code.Block("body")
	if n := strings.Count(body, "let n2_out = (2.0 + 2.0);"); n != 1 {
		t.Errorf("binding emitted %d times, want 1:\n%s", n, body)
	}
	if !strings.Contains(body, "color = vec4<f32>((n2_out + n2_out));") {
		t.Errorf("body does not reference the binding:\n%s", body)
	}
	// The binding lives inside the function body.
	if strings.Index(body, "fn body() {") > strings.Index(body, "let n2_out") {
		t.Errorf("binding emitted before the block opened:\n%s", body)
	}
}

func TestCompileBlockOrder(t *testing.T) {
	g := New()
	sinkGraph(t, g, g.Add(newConst(1)))

	code, err := newCompiler().Compile(g)
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}
	want := []string{BlockImports, BlockBindings, BlockMain, "body"}
	if got := code.Names(); !slices.Equal(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
	wantText := "var<private> color: vec4<f32>;\n\nfn body() {\n    color = vec4<f32>(1.0);\n}\n"
	if got := code.String(); got != wantText {
		t.Errorf("String() = %q, want %q", got, wantText)
	}
	if code.Result != "" {
		t.Errorf("Result = %q, want empty for a sink", code.Result)
	}
}

func TestCompileResult(t *testing.T) {
	g := New()
	sum := g.Add(newAdd())
	_ = g.SetInputDefault(sum, 0, value.Scalar(1))
	_ = g.SetInputDefault(sum, 1, value.Scalar(2))
	_ = g.SetOutput(sum)

	code, err := newCompiler().Compile(g)
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}
	if want := "(1.0 + 2.0)"; code.Result != want {
		t.Errorf("Result = %q, want %q", code.Result, want)
	}
}

func TestCompileMemoIsPerBlock(t *testing.T) {
	g := New()
	a := newConst(3)
	ia := g.Add(a)
	sink := newStub(sinkType)
	sink.compile = func(ctx *CompileContext, id NodeID) error {
		if _, err := ctx.Input(id, 0); err != nil {
			return err
		}
		return ctx.WithBlock("inner", Splice, func() error {
			expr, err := ctx.Input(id, 0)
			if err != nil {
				return err
			}
			ctx.Emit("inner = " + expr + ";")
			return nil
		})
	}
	is := g.Add(sink)
	mustConnect(t, g, ia, 0, is, 0)
	_ = g.SetOutput(is)

	code, err := newCompiler().Compile(g)
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}
	if a.compiles != 2 {
		t.Errorf("producer compiled %d times, want once per block (2)", a.compiles)
	}
	main, _ := code.Block(BlockMain)
	if !strings.Contains(main, "inner = vec4<f32>(3.0);") {
		t.Errorf("spliced block missing from main:\n%s", main)
	}
	if _, ok := code.Block("inner"); ok {
		t.Error("spliced block stored as a named block")
	}
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name    string
		compile func(ctx *CompileContext, id NodeID) error
		code    errors.Code
		block   string
	}{
		{
			name:    "unbound block",
			compile: func(ctx *CompileContext, id NodeID) error { return ctx.Append("nowhere", "x") },
			code:    errors.ErrCodeUnboundBlock,
			block:   "nowhere",
		},
		{
			name:    "unbound once",
			compile: func(ctx *CompileContext, id NodeID) error { return ctx.AppendOnce("nowhere", "k", "x") },
			code:    errors.ErrCodeUnboundBlock,
			block:   "nowhere",
		},
		{
			name: "left open",
			compile: func(ctx *CompileContext, id NodeID) error {
				return ctx.PushBlock("dangling")
			},
			code:  errors.ErrCodeInternal,
			block: "dangling",
		},
		{
			name:    "pop root",
			compile: func(ctx *CompileContext, id NodeID) error { return ctx.Pop() },
			code:    errors.ErrCodeInternal,
			block:   BlockMain,
		},
		{
			name:    "push main",
			compile: func(ctx *CompileContext, id NodeID) error { return ctx.PushBlock(BlockMain) },
			code:    errors.ErrCodeInvalidInput,
			block:   BlockMain,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New()
			n := newStub(sinkType)
			n.compile = tt.compile
			id := g.Add(n)
			_ = g.SetOutput(id)

			code, err := newCompiler().Compile(g)
			if !errors.Is(err, tt.code) {
				t.Fatalf("Compile() error = %v, want %s", err, tt.code)
			}
			if code != nil {
				t.Error("Compile() returned code alongside an error")
			}
			node, block := errors.Context(err)
			if node != id.String() {
				t.Errorf("error node = %q, want %q", node, id.String())
			}
			if block != tt.block {
				t.Errorf("error block = %q, want %q", block, tt.block)
			}
		})
	}
}

func TestCompileWithBlockPopsOnError(t *testing.T) {
	g := New()
	var current string
	n := newStub(sinkType)
	n.compile = func(ctx *CompileContext, id NodeID) error {
		err := ctx.WithBlock("body", KeepNamed, func() error {
			ctx.Emit("partial")
			return errors.New(errors.ErrCodeInvalidInput, "boom")
		})
		current = ctx.Current()
		return err
	}
	_ = g.SetOutput(g.Add(n))

	if _, err := newCompiler().Compile(g); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Fatalf("Compile() error = %v, want INVALID_INPUT", err)
	}
	if current != BlockMain {
		t.Errorf("current block after WithBlock = %q, want %q", current, BlockMain)
	}
}

func TestCompileMissingOutputExpression(t *testing.T) {
	g := New()
	n := newStub(sampleType)
	n.compile = func(*CompileContext, NodeID) error { return nil }
	_ = g.SetOutput(g.Add(n))

	if _, err := newCompiler().Compile(g); !errors.Is(err, errors.ErrCodeInternal) {
		t.Errorf("Compile() error = %v, want INTERNAL", err)
	}
}

func TestCompileCycle(t *testing.T) {
	g := New()
	a := g.Add(newAdd())
	b := g.Add(newAdd())
	mustConnect(t, g, a, 0, b, 0)
	g.links[Socket{Node: a, Index: 0}] = Socket{Node: b, Index: 0}
	_ = g.SetOutput(b)

	if _, err := newCompiler().Compile(g); !errors.Is(err, errors.ErrCodeCycleDetected) {
		t.Errorf("Compile() error = %v, want CYCLE_DETECTED", err)
	}
}

func TestCompileMissingOutputNode(t *testing.T) {
	g := New()
	g.Add(newConst(1))
	if _, err := newCompiler().Compile(g); !errors.Is(err, errors.ErrCodeMissingOutputNode) {
		t.Errorf("Compile() error = %v, want MISSING_OUTPUT_NODE", err)
	}
}

func TestPopNamedAppends(t *testing.T) {
	g := New()
	n := newStub(sinkType)
	n.compile = func(ctx *CompileContext, id NodeID) error {
		for _, line := range []string{"first", "second"} {
			if err := ctx.PushBlock("extra"); err != nil {
				return err
			}
			ctx.Emit(line)
			if err := ctx.PopNamed(); err != nil {
				return err
			}
		}
		return nil
	}
	_ = g.SetOutput(g.Add(n))

	code, err := newCompiler().Compile(g)
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}
	if got, _ := code.Block("extra"); got != "first\nsecond\n" {
		t.Errorf("Block(extra) = %q, want both pops", got)
	}
	if names := code.Names(); names[len(names)-1] != "extra" {
		t.Errorf("Names() = %v, want extra last", names)
	}
}

func TestIdentAvoidsReserved(t *testing.T) {
	ctx := newCompileContext(New(), newCompiler())
	if got := ctx.Ident("color"); got == "color" {
		t.Errorf("Ident(color) = %q, want a suffixed name", got)
	}
	first, second := ctx.Ident("tint"), ctx.Ident("tint")
	if first != "tint" || second == first {
		t.Errorf("Ident(tint) twice = %q, %q", first, second)
	}
	if got := ctx.Ident("2 Base Color"); got != "v2_base_color" {
		t.Errorf("Ident(2 Base Color) = %q, want v2_base_color", got)
	}
}

func TestDefineBlock(t *testing.T) {
	c := NewCompiler(TargetBevy, nil)
	for _, name := range []string{"imports", "imports", BlockMain, "bindings"} {
		if err := c.DefineBlock(name); err != nil {
			t.Fatalf("DefineBlock(%q) error: %v", name, err)
		}
	}
	if got := c.Blocks(); !slices.Equal(got, []string{"imports", "bindings"}) {
		t.Errorf("Blocks() = %v", got)
	}
	if err := c.DefineBlock("has space"); err == nil {
		t.Error("DefineBlock(has space) succeeded")
	}
}

func TestParseTarget(t *testing.T) {
	tests := []struct {
		in      string
		want    Target
		wantErr bool
	}{
		{"bevy", TargetBevy, false},
		{"WGSL", TargetWGSL, false},
		{"glsl", "", true},
	}
	for _, tt := range tests {
		got, err := ParseTarget(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseTarget(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestCodeJSON(t *testing.T) {
	code := NewCode(TargetWGSL, Block{Name: "a", Text: "x\n"}, Block{Name: "b", Text: "y\n"})
	code.Result = "r"
	data, err := json.Marshal(code)
	if err != nil {
		t.Fatal(err)
	}
	var back Code
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if back.String() != code.String() || back.Result != "r" || back.Target != TargetWGSL {
		t.Errorf("decoded code = %+v, want %+v", back, code)
	}
}

func TestSlot(t *testing.T) {
	ctx := newCompileContext(New(), newCompiler())
	steps := []struct {
		space, key string
		idx        int
		fresh      bool
	}{
		{"texture", "base_color", 0, true},
		{"texture", "normal", 1, true},
		{"texture", "base_color", 0, false},
		{"sampler", "normal", 0, true},
	}
	for _, s := range steps {
		idx, fresh := ctx.Slot(s.space, s.key)
		if idx != s.idx || fresh != s.fresh {
			t.Errorf("Slot(%q, %q) = %d, %v, want %d, %v", s.space, s.key, idx, fresh, s.idx, s.fresh)
		}
	}
}
