package io

import (
	"math/big"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/matzehuels/shadergraph/pkg/errors"
	"github.com/matzehuels/shadergraph/pkg/graph"
	"github.com/matzehuels/shadergraph/pkg/value"
)

type hclFile struct {
	Output string    `hcl:"output,optional"`
	Nodes  []hclNode `hcl:"node,block"`
	Links  []hclLink `hcl:"link,block"`
}

type hclNode struct {
	Name   string    `hcl:"name,label"`
	Type   string    `hcl:"type"`
	Params cty.Value `hcl:"params,optional"`
	Inputs cty.Value `hcl:"inputs,optional"`
}

type hclLink struct {
	From string `hcl:"from"`
	To   string `hcl:"to"`
}

// ReadHCLFile loads a graph written in HCL.
func ReadHCLFile(path string, r *graph.Registry) (*graph.Graph, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read %s", path)
	}
	return ReadHCL(src, path, r)
}

// ReadHCL parses src as an HCL graph. filename is used in diagnostics.
// Nodes get ids in declaration order starting at 1.
func ReadHCL(src []byte, filename string, r *graph.Registry) (*graph.Graph, error) {
	file, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, diags, "parse %s", filename)
	}
	var doc hclFile
	if diags := gohcl.DecodeBody(file.Body, nil, &doc); diags.HasErrors() {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, diags, "decode %s", filename)
	}

	g := graph.New()
	ids := make(map[string]graph.NodeID, len(doc.Nodes))
	for _, nd := range doc.Nodes {
		if _, dup := ids[nd.Name]; dup {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "node %q declared twice", nd.Name)
		}
		n, err := r.New(nd.Type)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeUnknownNodeType, err, "node %q", nd.Name)
		}
		id := g.Add(n)
		ids[nd.Name] = id
		if err := applyParams(g, id, n, nd.Params); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidParam, err, "node %q", nd.Name)
		}
		if err := applyInputs(g, id, n, nd.Inputs); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "node %q", nd.Name)
		}
	}

	for _, l := range doc.Links {
		src, out, err := resolveSocket(g, ids, l.From, (*graph.NodeType).OutputIndex)
		if err != nil {
			return nil, err
		}
		dst, in, err := resolveSocket(g, ids, l.To, (*graph.NodeType).InputIndex)
		if err != nil {
			return nil, err
		}
		if err := g.Connect(src, out, dst, in); err != nil {
			return nil, err
		}
	}

	if doc.Output != "" {
		id, ok := ids[doc.Output]
		if !ok {
			return nil, errors.New(errors.ErrCodeNodeNotFound, "output names unknown node %q", doc.Output)
		}
		if err := g.SetOutput(id); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// resolveSocket splits "node.socket" and looks both parts up.
func resolveSocket(g *graph.Graph, ids map[string]graph.NodeID, ref string, index func(*graph.NodeType, string) int) (graph.NodeID, int, error) {
	name, socket, ok := strings.Cut(ref, ".")
	if !ok {
		return 0, 0, errors.New(errors.ErrCodeInvalidFormat, "socket reference %q is not node.socket", ref)
	}
	id, ok := ids[name]
	if !ok {
		return 0, 0, errors.New(errors.ErrCodeNodeNotFound, "link references unknown node %q", name)
	}
	n, _ := g.Node(id)
	idx := index(n.Type(), socket)
	if idx < 0 {
		return 0, 0, errors.New(errors.ErrCodeInvalidSocket, "node %q (%s) has no socket %q", name, n.Type().Name, socket).WithNode(id)
	}
	return id, idx, nil
}

func applyParams(g *graph.Graph, id graph.NodeID, n graph.Node, obj cty.Value) error {
	return eachAttr(obj, func(name string, v cty.Value) error {
		p := n.Sockets().Param(name)
		if p == nil {
			return errors.New(errors.ErrCodeInvalidParam, "no param %q", name)
		}
		if p.IsEnum() {
			if v.Type() != cty.String {
				return errors.New(errors.ErrCodeInvalidParam, "param %q takes one of %v", name, p.Options)
			}
			return g.SetChoice(id, name, v.AsString())
		}
		lit, err := fromCty(v, p.Value.Kind())
		if err != nil {
			return err
		}
		return g.SetParam(id, name, lit)
	})
}

func applyInputs(g *graph.Graph, id graph.NodeID, n graph.Node, obj cty.Value) error {
	return eachAttr(obj, func(name string, v cty.Value) error {
		idx := n.Type().InputIndex(name)
		if idx < 0 {
			return errors.New(errors.ErrCodeInvalidSocket, "no input %q", name)
		}
		lit, err := fromCty(v, n.Sockets().Inputs[idx].Kind)
		if err != nil {
			return err
		}
		return g.SetInputDefault(id, idx, lit)
	})
}

func eachAttr(obj cty.Value, fn func(string, cty.Value) error) error {
	if obj.IsNull() {
		return nil
	}
	if !obj.Type().IsObjectType() && !obj.Type().IsMapType() {
		return errors.New(errors.ErrCodeInvalidFormat, "expected an object, got %s", obj.Type().FriendlyName())
	}
	for it := obj.ElementIterator(); it.Next(); {
		k, v := it.Element()
		if err := fn(k.AsString(), v); err != nil {
			return err
		}
	}
	return nil
}

// fromCty converts an HCL literal to a value of kind k.
func fromCty(v cty.Value, k value.Kind) (value.Value, error) {
	if v.IsNull() || !v.IsKnown() {
		return value.Value{}, errors.New(errors.ErrCodeInvalidFormat, "%s literal is null", k)
	}
	ty := v.Type()
	switch {
	case ty == cty.String:
		if k != value.KindTexture {
			return value.Value{}, errors.New(errors.ErrCodeTypeMismatch, "string given for %s", k)
		}
		return value.Texture(v.AsString()), nil
	case ty == cty.Number:
		return value.Convert(value.Scalar(bigFloat(v.AsBigFloat())), k)
	case ty.IsTupleType() || ty.IsListType():
		comps := make([]float64, 0, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			_, e := it.Element()
			if e.Type() != cty.Number || e.IsNull() {
				return value.Value{}, errors.New(errors.ErrCodeInvalidFormat, "%s components must be numbers", k)
			}
			comps = append(comps, bigFloat(e.AsBigFloat()))
		}
		return value.FromComponents(k, comps)
	}
	return value.Value{}, errors.New(errors.ErrCodeInvalidFormat, "unsupported literal %s for %s", ty.FriendlyName(), k)
}

func bigFloat(f *big.Float) float64 {
	out, _ := f.Float64()
	return out
}
