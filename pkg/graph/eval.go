package graph

import (
	stderrors "errors"

	"github.com/matzehuels/shadergraph/pkg/errors"
	"github.com/matzehuels/shadergraph/pkg/value"
)

// EvalContext holds the state of one evaluation pass: the value memo and the
// set of nodes currently being resolved.
type EvalContext struct {
	graph    *Graph
	memo     map[NodeID]value.Value
	visiting map[NodeID]bool
}

// Evaluate computes the value of node id.
func Evaluate(g *Graph, id NodeID) (value.Value, error) {
	ctx := &EvalContext{
		graph:    g,
		memo:     make(map[NodeID]value.Value),
		visiting: make(map[NodeID]bool),
	}
	return ctx.Eval(id)
}

// EvaluateOutput computes the value of the graph's output node.
func EvaluateOutput(g *Graph) (value.Value, error) {
	id, ok := g.Output()
	if !ok {
		return value.Value{}, errors.New(errors.ErrCodeMissingOutputNode, "graph has no output node")
	}
	return Evaluate(g, id)
}

// Graph returns the graph under evaluation.
func (c *EvalContext) Graph() *Graph { return c.graph }

// Eval resolves node id, reusing the value computed earlier in this pass.
func (c *EvalContext) Eval(id NodeID) (value.Value, error) {
	if v, ok := c.memo[id]; ok {
		return v, nil
	}
	if c.visiting[id] {
		return value.Value{}, errors.New(errors.ErrCodeCycleDetected, "cycle through node %d", id).WithNode(id)
	}
	n, err := c.graph.lookup(id)
	if err != nil {
		return value.Value{}, err
	}

	c.visiting[id] = true
	v, err := n.Eval(c, id)
	delete(c.visiting, id)
	if err != nil {
		return value.Value{}, annotate(err, id)
	}

	if outs := n.Sockets().Outputs; len(outs) > 0 {
		v, err = value.Convert(v, outs[0].Kind)
		if err != nil {
			return value.Value{}, annotate(err, id)
		}
	}
	c.memo[id] = v
	return v, nil
}

// Input resolves input idx of node id: the connected producer's value widened
// to the input kind, or the input's literal default.
func (c *EvalContext) Input(id NodeID, idx int) (value.Value, error) {
	n, err := c.graph.lookup(id)
	if err != nil {
		return value.Value{}, err
	}
	in, err := n.Sockets().input(id, idx)
	if err != nil {
		return value.Value{}, err
	}
	from, ok := c.graph.Producer(id, idx)
	if !ok {
		return in.Default, nil
	}
	if from.Index != 0 {
		return value.Value{}, errors.New(errors.ErrCodeNotEvaluable,
			"node %d: only output 0 of a producer can be evaluated, got output %d of node %d", id, from.Index, from.Node).WithNode(from.Node)
	}
	v, err := c.Eval(from.Node)
	if err != nil {
		return value.Value{}, err
	}
	return value.Convert(v, in.Kind)
}

// annotate records id on err if no node is attached yet.
func annotate(err error, id NodeID) error {
	var e *errors.Error
	if stderrors.As(err, &e) && e.Node == "" {
		e.Node = id.String()
	}
	return err
}
