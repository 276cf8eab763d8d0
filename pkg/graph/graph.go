package graph

import (
	"cmp"
	"maps"
	"math"
	"slices"

	"github.com/matzehuels/shadergraph/pkg/errors"
	"github.com/matzehuels/shadergraph/pkg/value"
)

// Link connects a producer output to a consumer input.
type Link struct {
	From Socket // Producer node and output index
	To   Socket // Consumer node and input index
}

// Graph owns node instances, their connections and the designated output node.
//
// The zero value is not usable - use New to create a Graph.
// Graph is not safe for concurrent use without external synchronization.
type Graph struct {
	nodes   map[NodeID]Node
	links   map[Socket]Socket // consumer input -> producer output
	output  NodeID
	hasOut  bool
	nextID  NodeID
	changed uint64
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes:  make(map[NodeID]Node),
		links:  make(map[Socket]Socket),
		nextID: 1,
	}
}

// Changed returns the change counter. It increments on every successful
// mutation and never decreases.
func (g *Graph) Changed() uint64 { return g.changed }

func (g *Graph) touch() { g.changed++ }

// Add inserts n under a fresh id. Zero, MaxUint64 and ids already in use
// are skipped.
func (g *Graph) Add(n Node) NodeID {
	for g.nextID == 0 || g.nextID == math.MaxUint64 || g.has(g.nextID) {
		g.nextID++
	}
	id := g.nextID
	g.nextID++
	g.nodes[id] = n
	g.touch()
	return id
}

// Insert places n under a caller-chosen id, as done when loading a stored
// graph. Later Add calls never hand out id again.
func (g *Graph) Insert(id NodeID, n Node) error {
	if id == 0 {
		return errors.New(errors.ErrCodeInvalidFormat, "node id must be positive")
	}
	if id == math.MaxUint64 {
		return errors.New(errors.ErrCodeInvalidFormat, "node id %d is out of range", id)
	}
	if _, ok := g.nodes[id]; ok {
		return errors.New(errors.ErrCodeInvalidFormat, "duplicate node id %d", id).WithNode(id)
	}
	g.nodes[id] = n
	if id >= g.nextID {
		g.nextID = id + 1
	}
	g.touch()
	return nil
}

func (g *Graph) has(id NodeID) bool {
	_, ok := g.nodes[id]
	return ok
}

// Remove deletes the node and every connection touching it. Removing an
// absent id is a no-op. If id was the output node, the graph has no output
// afterwards.
func (g *Graph) Remove(id NodeID) {
	if _, ok := g.nodes[id]; !ok {
		return
	}
	delete(g.nodes, id)
	maps.DeleteFunc(g.links, func(to, from Socket) bool {
		return to.Node == id || from.Node == id
	})
	if g.hasOut && g.output == id {
		g.hasOut = false
		g.output = 0
	}
	g.touch()
}

// Node returns the node stored under id.
func (g *Graph) Node(id NodeID) (Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns all node ids in ascending order.
func (g *Graph) Nodes() []NodeID {
	return slices.Sorted(maps.Keys(g.nodes))
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.nodes) }

// Links returns all connections ordered by consumer socket.
func (g *Graph) Links() []Link {
	out := make([]Link, 0, len(g.links))
	for to, from := range g.links {
		out = append(out, Link{From: from, To: to})
	}
	slices.SortFunc(out, func(a, b Link) int {
		if a.To.Node != b.To.Node {
			return cmp.Compare(a.To.Node, b.To.Node)
		}
		return a.To.Index - b.To.Index
	})
	return out
}

// Producer returns the output feeding input idx of node id.
func (g *Graph) Producer(id NodeID, idx int) (Socket, bool) {
	s, ok := g.links[Socket{Node: id, Index: idx}]
	return s, ok
}

func (g *Graph) lookup(id NodeID) (Node, error) {
	n, ok := g.nodes[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeNodeNotFound, "node %d not found", id).WithNode(id)
	}
	return n, nil
}

// Connect feeds output out of src into input in of dst, replacing any
// producer already connected to that input. On error the graph is unchanged.
func (g *Graph) Connect(src NodeID, out int, dst NodeID, in int) error {
	srcNode, err := g.lookup(src)
	if err != nil {
		return err
	}
	dstNode, err := g.lookup(dst)
	if err != nil {
		return err
	}
	o, err := srcNode.Sockets().output(src, out)
	if err != nil {
		return err
	}
	i, err := dstNode.Sockets().input(dst, in)
	if err != nil {
		return err
	}
	if !value.CanCoerce(o.Kind, i.Kind) {
		return errors.New(errors.ErrCodeTypeMismatch, "cannot connect %s output %q of node %d to %s input %q of node %d",
			o.Kind, o.Name, src, i.Kind, i.Name, dst).WithNode(dst)
	}
	if src == dst || g.dependsOn(src, dst) {
		return errors.New(errors.ErrCodeWouldCreateCycle, "connecting node %d to node %d would create a cycle", src, dst).WithNode(dst)
	}

	g.links[Socket{Node: dst, Index: in}] = Socket{Node: src, Index: out}
	g.touch()
	return nil
}

// Disconnect removes the producer of input in of node dst, if any.
func (g *Graph) Disconnect(dst NodeID, in int) {
	key := Socket{Node: dst, Index: in}
	if _, ok := g.links[key]; !ok {
		return
	}
	delete(g.links, key)
	g.touch()
}

// dependsOn reports whether target is reachable from id by walking
// producer links upstream.
func (g *Graph) dependsOn(id, target NodeID) bool {
	seen := map[NodeID]bool{id: true}
	stack := []NodeID{id}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur == target {
			return true
		}
		for _, p := range g.producers(cur) {
			if !seen[p] {
				seen[p] = true
				stack = append(stack, p)
			}
		}
	}
	return false
}

func (g *Graph) producers(id NodeID) []NodeID {
	n, ok := g.nodes[id]
	if !ok {
		return nil
	}
	var out []NodeID
	for idx := range n.Sockets().Inputs {
		if from, ok := g.links[Socket{Node: id, Index: idx}]; ok {
			out = append(out, from.Node)
		}
	}
	return out
}

// SetOutput designates id as the compile and evaluate entry point.
func (g *Graph) SetOutput(id NodeID) error {
	if _, err := g.lookup(id); err != nil {
		return err
	}
	g.output, g.hasOut = id, true
	g.touch()
	return nil
}

// ClearOutput removes the designated output node.
func (g *Graph) ClearOutput() {
	if !g.hasOut {
		return
	}
	g.output, g.hasOut = 0, false
	g.touch()
}

// Output returns the designated output node.
func (g *Graph) Output() (NodeID, bool) {
	return g.output, g.hasOut
}

// SetParam sets a literal param. The value must match the kind of the
// param's default.
func (g *Graph) SetParam(id NodeID, name string, v value.Value) error {
	p, err := g.param(id, name)
	if err != nil {
		return err
	}
	if p.IsEnum() {
		return errors.New(errors.ErrCodeInvalidParam, "param %q of node %d is an enum", name, id).WithNode(id)
	}
	if v.Kind() != p.Value.Kind() {
		return errors.New(errors.ErrCodeTypeMismatch, "param %q of node %d is %s, got %s", name, id, p.Value.Kind(), v.Kind()).WithNode(id)
	}
	p.Value = v
	g.touch()
	return nil
}

// SetChoice selects an option of an enum param.
func (g *Graph) SetChoice(id NodeID, name, choice string) error {
	p, err := g.param(id, name)
	if err != nil {
		return err
	}
	if !slices.Contains(p.Options, choice) {
		return errors.New(errors.ErrCodeInvalidParam, "param %q of node %d has no option %q (options: %v)",
			name, id, choice, p.Options).WithNode(id)
	}
	p.Choice = choice
	g.touch()
	return nil
}

func (g *Graph) param(id NodeID, name string) (*Param, error) {
	n, err := g.lookup(id)
	if err != nil {
		return nil, err
	}
	p := n.Sockets().Param(name)
	if p == nil {
		return nil, errors.New(errors.ErrCodeInvalidParam, "node %d has no param %q", id, name).WithNode(id)
	}
	return p, nil
}

// SetInputDefault replaces the literal used while input idx is unconnected.
// The value is widened to the input kind when the coercion table allows it.
func (g *Graph) SetInputDefault(id NodeID, idx int, v value.Value) error {
	n, err := g.lookup(id)
	if err != nil {
		return err
	}
	in, err := n.Sockets().input(id, idx)
	if err != nil {
		return err
	}
	conv, err := value.Convert(v, in.Kind)
	if err != nil {
		return err
	}
	in.Default = conv
	g.touch()
	return nil
}
