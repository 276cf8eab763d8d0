package graph

import (
	"slices"
	"strconv"

	"github.com/matzehuels/shadergraph/pkg/errors"
	"github.com/matzehuels/shadergraph/pkg/value"
)

// NodeID identifies a node within one Graph. IDs are allocated by the graph
// and never reused after removal.
type NodeID uint64

func (id NodeID) String() string { return strconv.FormatUint(uint64(id), 10) }

// NodeType is the immutable descriptor of a node kind.
type NodeType struct {
	Name        string   // Display name and registry key
	Description string   // One-line help text
	Category    []string // Menu path, e.g. ["Math", "Basic"]

	Inputs  []InputDef
	Outputs []OutputDef
	Params  []ParamDef
}

// InputIndex returns the index of the named input, or -1.
func (t *NodeType) InputIndex(name string) int {
	return slices.IndexFunc(t.Inputs, func(d InputDef) bool { return d.Name == name })
}

// OutputIndex returns the index of the named output, or -1.
func (t *NodeType) OutputIndex(name string) int {
	return slices.IndexFunc(t.Outputs, func(d OutputDef) bool { return d.Name == name })
}

// Node is the capability contract every node kind implements.
//
// Eval returns the node's value for output 0. Compile must register exactly
// one expression per output socket through [CompileContext.SetOutput] or
// [CompileContext.Bind] before returning nil.
type Node interface {
	Type() *NodeType
	Sockets() *Sockets
	Eval(ctx *EvalContext, id NodeID) (value.Value, error)
	Compile(ctx *CompileContext, id NodeID) error
}

// Factory creates a freshly defaulted node instance.
type Factory func() Node

// Base carries the descriptor and socket state of a node. Node kinds embed it
// to satisfy the Type and Sockets methods of [Node].
type Base struct {
	typ     *NodeType
	sockets Sockets
}

// NewBase returns a Base with sockets defaulted from t.
func NewBase(t *NodeType) Base {
	return Base{typ: t, sockets: NewSockets(t)}
}

// Type returns the node's descriptor.
func (b *Base) Type() *NodeType { return b.typ }

// Sockets returns the node's socket state.
func (b *Base) Sockets() *Sockets { return &b.sockets }

// NotEvaluable returns the NOT_EVALUABLE error for node id.
func NotEvaluable(id NodeID, t *NodeType) error {
	return errors.New(errors.ErrCodeNotEvaluable, "node %d (%s) has no host-side value", id, t.Name).WithNode(id)
}
