package io

import (
	"github.com/matzehuels/shadergraph/pkg/errors"
	"github.com/matzehuels/shadergraph/pkg/graph"
	"github.com/matzehuels/shadergraph/pkg/value"
)

// Graph is the serialized form of a [graph.Graph].
type Graph struct {
	Nodes  []Node `json:"nodes"`
	Links  []Link `json:"links"`
	Output uint64 `json:"output,omitempty"`
}

// Node is a serialized node instance.
type Node struct {
	ID      uint64                 `json:"id"`
	Type    string                 `json:"type"`
	Choices map[string]string      `json:"choices,omitempty"`
	Params  map[string]value.Value `json:"params,omitempty"`
	Inputs  map[string]value.Value `json:"inputs,omitempty"`
}

// Link is a serialized connection between named sockets.
type Link struct {
	From   uint64 `json:"from"`
	Output string `json:"output"`
	To     uint64 `json:"to"`
	Input  string `json:"input"`
}

// FromGraph converts g to its serialized form. Nodes and links are ordered
// by id so the output is deterministic.
func FromGraph(g *graph.Graph) Graph {
	out := Graph{Nodes: make([]Node, 0, g.Len())}
	for _, id := range g.Nodes() {
		n, _ := g.Node(id)
		s := n.Sockets()
		nd := Node{ID: uint64(id), Type: n.Type().Name}
		for _, p := range s.Params {
			if p.IsEnum() {
				if nd.Choices == nil {
					nd.Choices = make(map[string]string)
				}
				nd.Choices[p.Name] = p.Choice
				continue
			}
			if nd.Params == nil {
				nd.Params = make(map[string]value.Value)
			}
			nd.Params[p.Name] = p.Value
		}
		for _, in := range s.Inputs {
			if nd.Inputs == nil {
				nd.Inputs = make(map[string]value.Value)
			}
			nd.Inputs[in.Name] = in.Default
		}
		out.Nodes = append(out.Nodes, nd)
	}

	links := g.Links()
	out.Links = make([]Link, len(links))
	for i, l := range links {
		from, _ := g.Node(l.From.Node)
		to, _ := g.Node(l.To.Node)
		out.Links[i] = Link{
			From:   uint64(l.From.Node),
			Output: from.Sockets().Outputs[l.From.Index].Name,
			To:     uint64(l.To.Node),
			Input:  to.Sockets().Inputs[l.To.Index].Name,
		}
	}
	if id, ok := g.Output(); ok {
		out.Output = uint64(id)
	}
	return out
}

// ToGraph rebuilds a graph from data, creating nodes through r.
func ToGraph(data Graph, r *graph.Registry) (*graph.Graph, error) {
	g := graph.New()
	for _, nd := range data.Nodes {
		if err := insertNode(g, r, nd); err != nil {
			return nil, err
		}
	}
	for _, l := range data.Links {
		if err := connect(g, l); err != nil {
			return nil, err
		}
	}
	if data.Output != 0 {
		if err := g.SetOutput(graph.NodeID(data.Output)); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "output")
		}
	}
	return g, nil
}

func insertNode(g *graph.Graph, r *graph.Registry, nd Node) error {
	n, err := r.New(nd.Type)
	if err != nil {
		return errors.Wrap(errors.ErrCodeUnknownNodeType, err, "node %d", nd.ID)
	}
	id := graph.NodeID(nd.ID)
	if err := g.Insert(id, n); err != nil {
		return err
	}
	for name, choice := range nd.Choices {
		if err := g.SetChoice(id, name, choice); err != nil {
			return err
		}
	}
	for name, v := range nd.Params {
		if err := g.SetParam(id, name, v); err != nil {
			return err
		}
	}
	for name, v := range nd.Inputs {
		idx := n.Type().InputIndex(name)
		if idx < 0 {
			return errors.New(errors.ErrCodeInvalidSocket, "node %d (%s) has no input %q", nd.ID, nd.Type, name).WithNode(id)
		}
		if err := g.SetInputDefault(id, idx, v); err != nil {
			return err
		}
	}
	return nil
}

func connect(g *graph.Graph, l Link) error {
	src, dst := graph.NodeID(l.From), graph.NodeID(l.To)
	out, err := socketIndex(g, src, l.Output, (*graph.NodeType).OutputIndex)
	if err != nil {
		return err
	}
	in, err := socketIndex(g, dst, l.Input, (*graph.NodeType).InputIndex)
	if err != nil {
		return err
	}
	return g.Connect(src, out, dst, in)
}

func socketIndex(g *graph.Graph, id graph.NodeID, name string, index func(*graph.NodeType, string) int) (int, error) {
	n, ok := g.Node(id)
	if !ok {
		return 0, errors.New(errors.ErrCodeNodeNotFound, "link references unknown node %d", id).WithNode(id)
	}
	idx := index(n.Type(), name)
	if idx < 0 {
		return 0, errors.New(errors.ErrCodeInvalidSocket, "node %d (%s) has no socket %q", id, n.Type().Name, name).WithNode(id)
	}
	return idx, nil
}
