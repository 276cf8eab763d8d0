package graph

import (
	stderrors "errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/shadergraph/pkg/errors"
	"github.com/matzehuels/shadergraph/pkg/value"
)

// Target selects the flavour of WGSL the built-in nodes emit.
type Target string

const (
	// TargetBevy emits a fragment shader for Bevy's PBR pipeline, using its
	// #import preprocessor and pbr_* bindings.
	TargetBevy Target = "bevy"
	// TargetWGSL emits self-contained WGSL that plain WGSL front ends accept.
	TargetWGSL Target = "wgsl"
)

// ParseTarget validates a target name.
func ParseTarget(s string) (Target, error) {
	switch t := Target(strings.ToLower(s)); t {
	case TargetBevy, TargetWGSL:
		return t, nil
	}
	return "", errors.New(errors.ErrCodeInvalidInput, "unknown target %q (want %s or %s)", s, TargetBevy, TargetWGSL)
}

// Well-known block names.
const (
	BlockImports  = "imports"
	BlockBindings = "bindings"
	BlockMain     = "main" // module scope; always declared
)

// PopMode selects what happens to a block's text when it is closed.
type PopMode int

const (
	// Splice appends the block's text to the block that was active before it
	// was pushed.
	Splice PopMode = iota
	// KeepNamed stores the block as a top-level named block of the output.
	KeepNamed
)

// Compiler generates code for a graph into named blocks.
type Compiler struct {
	Target Target
	Logger *log.Logger

	blocks []string
}

// NewCompiler returns a compiler for target. A nil logger discards output.
func NewCompiler(target Target, logger *log.Logger) *Compiler {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Compiler{Target: target, Logger: logger}
}

// DefineBlock pre-declares a top-level block. Blocks appear in the output in
// declaration order. Declaring a block twice is a no-op.
func (c *Compiler) DefineBlock(name string) error {
	if err := errors.ValidateBlockName(name); err != nil {
		return err
	}
	if name == BlockMain || slices.Contains(c.blocks, name) {
		return nil
	}
	c.blocks = append(c.blocks, name)
	return nil
}

// Blocks returns the pre-declared block names.
func (c *Compiler) Blocks() []string { return slices.Clone(c.blocks) }

// Compile generates code for everything reachable from the graph's output
// node. It fails with MISSING_OUTPUT_NODE when no output is designated. On
// error no code is returned.
func (c *Compiler) Compile(g *Graph) (*Code, error) {
	out, ok := g.Output()
	if !ok {
		return nil, errors.New(errors.ErrCodeMissingOutputNode, "graph has no output node")
	}
	start := time.Now()

	ctx := newCompileContext(g, c)
	if err := ctx.compile(out); err != nil {
		return nil, err
	}
	if len(ctx.stack) != 1 {
		return nil, errors.New(errors.ErrCodeInternal, "block %q left open", ctx.top().name).WithBlock(ctx.top().name)
	}

	code := ctx.code()
	if n, _ := g.Node(out); len(n.Sockets().Outputs) > 0 {
		code.Result = ctx.stack[0].memo[Socket{Node: out, Index: 0}]
	}
	c.Logger.Debug("compiled graph", "output", out, "nodes", g.Len(), "blocks", len(code.names), "duration", time.Since(start))
	return code, nil
}

type frame struct {
	name   string
	buf    strings.Builder
	indent int
	memo   map[Socket]string // output socket -> expression valid in this block
	done   map[NodeID]bool
}

func newFrame(name string) *frame {
	return &frame{name: name, memo: make(map[Socket]string), done: make(map[NodeID]bool)}
}

// CompileContext is the per-pass state handed to [Node.Compile]. The stack of
// open blocks starts with the module-scope block "main"; the innermost open
// block is the current write target.
type CompileContext struct {
	graph  *Graph
	target Target
	logger *log.Logger

	named    map[string]*strings.Builder
	order    []string
	stack    []*frame
	visiting map[NodeID]bool
	once     map[string]bool
	slots    map[string][]string
	names    *namer
}

func newCompileContext(g *Graph, c *Compiler) *CompileContext {
	ctx := &CompileContext{
		graph:    g,
		target:   c.Target,
		logger:   c.Logger,
		named:    make(map[string]*strings.Builder),
		visiting: make(map[NodeID]bool),
		once:     make(map[string]bool),
		slots:    make(map[string][]string),
		names:    newNamer(),
	}
	for _, name := range c.blocks {
		ctx.named[name] = &strings.Builder{}
		ctx.order = append(ctx.order, name)
	}
	ctx.order = append(ctx.order, BlockMain)
	ctx.stack = []*frame{newFrame(BlockMain)}
	return ctx
}

// Graph returns the graph being compiled.
func (c *CompileContext) Graph() *Graph { return c.graph }

// Target returns the code flavour requested by the caller.
func (c *CompileContext) Target() Target { return c.target }

// Current returns the name of the innermost open block.
func (c *CompileContext) Current() string { return c.top().name }

func (c *CompileContext) top() *frame { return c.stack[len(c.stack)-1] }

// compile runs the compile step of node id in the current block, once per block.
func (c *CompileContext) compile(id NodeID) error {
	f := c.top()
	if f.done[id] {
		return nil
	}
	if c.visiting[id] {
		return errors.New(errors.ErrCodeCycleDetected, "cycle through node %d", id).WithNode(id).WithBlock(f.name)
	}
	n, err := c.graph.lookup(id)
	if err != nil {
		return err
	}

	depth := len(c.stack)
	c.visiting[id] = true
	err = n.Compile(c, id)
	delete(c.visiting, id)

	switch {
	case len(c.stack) > depth:
		name := c.top().name
		c.stack = c.stack[:depth]
		if err == nil {
			err = errors.New(errors.ErrCodeInternal, "node %d left block %q open", id, name).WithBlock(name)
		}
	case len(c.stack) < depth && err == nil:
		err = errors.New(errors.ErrCodeInternal, "node %d closed a block it did not open", id)
	}
	if err != nil {
		return c.annotate(err, id, f.name)
	}

	for idx, out := range n.Sockets().Outputs {
		if _, ok := f.memo[Socket{Node: id, Index: idx}]; !ok {
			return errors.New(errors.ErrCodeInternal, "node %d (%s) registered no expression for output %q",
				id, n.Type().Name, out.Name).WithNode(id).WithBlock(f.name)
		}
	}
	f.done[id] = true
	c.logger.Debug("compiled node", "node", id, "type", n.Type().Name, "block", f.name)
	return nil
}

func (c *CompileContext) annotate(err error, id NodeID, block string) error {
	var e *errors.Error
	if stderrors.As(err, &e) {
		if e.Node == "" {
			e.Node = id.String()
		}
		if e.Block == "" {
			e.Block = block
		}
	}
	return err
}

// Input returns the expression for input idx of node id in the current
// block. A connected producer is compiled on first use and widened to the
// input kind; an unconnected input yields its literal default.
func (c *CompileContext) Input(id NodeID, idx int) (string, error) {
	n, err := c.graph.lookup(id)
	if err != nil {
		return "", err
	}
	in, err := n.Sockets().input(id, idx)
	if err != nil {
		return "", err
	}

	from, ok := c.graph.Producer(id, idx)
	if !ok {
		lit, err := in.Default.WGSL()
		if err != nil {
			return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "input %q of node %d", in.Name, id).WithNode(id)
		}
		return value.CoerceWGSL(lit, in.Default.Kind(), in.Kind)
	}

	if err := c.compile(from.Node); err != nil {
		return "", err
	}
	producer, _ := c.graph.Node(from.Node)
	out, err := producer.Sockets().output(from.Node, from.Index)
	if err != nil {
		return "", err
	}
	return value.CoerceWGSL(c.top().memo[from], out.Kind, in.Kind)
}

// SetOutput records expr as the expression of output idx of node id in the
// current block.
func (c *CompileContext) SetOutput(id NodeID, idx int, expr string) error {
	n, err := c.graph.lookup(id)
	if err != nil {
		return err
	}
	if _, err := n.Sockets().output(id, idx); err != nil {
		return err
	}
	c.top().memo[Socket{Node: id, Index: idx}] = expr
	return nil
}

// Bind emits `let <name> = expr;` into the current block and records the
// fresh identifier as output idx of node id. Use it for expressions that must
// be evaluated once however many consumers reference them.
func (c *CompileContext) Bind(id NodeID, idx int, expr string) (string, error) {
	n, err := c.graph.lookup(id)
	if err != nil {
		return "", err
	}
	out, err := n.Sockets().output(id, idx)
	if err != nil {
		return "", err
	}
	name := c.Ident(fmt.Sprintf("n%d_%s", id, out.Name))
	c.Emit(fmt.Sprintf("let %s = %s;", name, expr))
	return name, c.SetOutput(id, idx, name)
}

// Ident returns an identifier derived from base that is unique in this pass.
func (c *CompileContext) Ident(base string) string { return c.names.call(base) }

// Emit writes one line to the current block at its indentation.
func (c *CompileContext) Emit(line string) {
	f := c.top()
	if line != "" {
		f.buf.WriteString(strings.Repeat("    ", f.indent))
	}
	f.buf.WriteString(line)
	f.buf.WriteByte('\n')
}

// Indent increases the indentation of the current block by one level.
func (c *CompileContext) Indent() { c.top().indent++ }

// Dedent decreases the indentation of the current block by one level.
func (c *CompileContext) Dedent() {
	if f := c.top(); f.indent > 0 {
		f.indent--
	}
}

// Append writes text to the named block, which must be an open block or a
// declared top-level block. It fails with UNBOUND_BLOCK otherwise.
func (c *CompileContext) Append(block, text string) error {
	b, err := c.resolve(block)
	if err != nil {
		return err
	}
	b.WriteString(text)
	if !strings.HasSuffix(text, "\n") {
		b.WriteByte('\n')
	}
	return nil
}

// AppendOnce is like Append but writes text only the first time key is seen
// in this pass, e.g. a binding declaration shared by several nodes.
func (c *CompileContext) AppendOnce(block, key, text string) error {
	if _, err := c.resolve(block); err != nil {
		return err
	}
	if c.once[key] {
		return nil
	}
	c.once[key] = true
	return c.Append(block, text)
}

// Slot returns the index of key among the keys registered under space in
// this pass, allocating the next index on first use. fresh reports whether
// this call allocated it. Nodes use it to number resource bindings.
func (c *CompileContext) Slot(space, key string) (idx int, fresh bool) {
	keys := c.slots[space]
	if i := slices.Index(keys, key); i >= 0 {
		return i, false
	}
	c.slots[space] = append(keys, key)
	return len(keys), true
}

func (c *CompileContext) resolve(block string) (*strings.Builder, error) {
	for i := len(c.stack) - 1; i >= 0; i-- {
		if c.stack[i].name == block {
			return &c.stack[i].buf, nil
		}
	}
	if b, ok := c.named[block]; ok {
		return b, nil
	}
	return nil, errors.New(errors.ErrCodeUnboundBlock, "block %q was never declared or pushed", block).WithBlock(block)
}

// PushBlock opens a new block, which becomes the current write target with
// an empty memo scope. Prefer [CompileContext.WithBlock], which guarantees
// the matching pop.
func (c *CompileContext) PushBlock(name string) error {
	if err := errors.ValidateBlockName(name); err != nil {
		return err
	}
	if name == BlockMain {
		return errors.New(errors.ErrCodeInvalidInput, "block %q cannot be pushed", name).WithBlock(name)
	}
	c.stack = append(c.stack, newFrame(name))
	return nil
}

// Pop closes the current block and splices its text into the enclosing block.
func (c *CompileContext) Pop() error { return c.pop(Splice) }

// PopNamed closes the current block and stores it as a top-level named block.
// Text already stored under that name is kept and the new text appended.
func (c *CompileContext) PopNamed() error { return c.pop(KeepNamed) }

func (c *CompileContext) pop(mode PopMode) error {
	if len(c.stack) < 2 {
		return errors.New(errors.ErrCodeInternal, "pop with no open block").WithBlock(BlockMain)
	}
	f := c.top()
	c.stack = c.stack[:len(c.stack)-1]

	if mode == Splice {
		c.top().buf.WriteString(f.buf.String())
		return nil
	}
	b, ok := c.named[f.name]
	if !ok {
		b = &strings.Builder{}
		c.named[f.name] = b
		c.order = append(c.order, f.name)
	}
	b.WriteString(f.buf.String())
	return nil
}

// WithBlock pushes a block, runs fn with it as the current block and closes
// it according to mode. The block is closed on every exit path, including
// errors and blocks fn left open.
func (c *CompileContext) WithBlock(name string, mode PopMode, fn func() error) (err error) {
	if err := c.PushBlock(name); err != nil {
		return err
	}
	depth := len(c.stack)
	defer func() {
		if len(c.stack) > depth {
			c.stack = c.stack[:depth]
		}
		if len(c.stack) == depth {
			if perr := c.pop(mode); err == nil {
				err = perr
			}
		}
	}()
	return fn()
}

func (c *CompileContext) code() *Code {
	code := &Code{Target: c.target, blocks: make(map[string]string, len(c.order))}
	for _, name := range c.order {
		var text string
		if name == BlockMain {
			text = c.stack[0].buf.String()
		} else {
			text = c.named[name].String()
		}
		code.names = append(code.names, name)
		code.blocks[name] = text
	}
	return code
}
