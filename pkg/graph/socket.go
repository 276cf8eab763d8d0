package graph

import (
	"slices"

	"github.com/matzehuels/shadergraph/pkg/errors"
	"github.com/matzehuels/shadergraph/pkg/value"
)

// InputDef declares an input socket. Default is used while the input is
// unconnected and must be of kind Kind.
type InputDef struct {
	Name    string
	Kind    value.Kind
	Default value.Value
}

// OutputDef declares an output socket.
type OutputDef struct {
	Name string
	Kind value.Kind
}

// ParamDef declares a node-local parameter. A param with Options is an enum
// whose default is Options[0]; otherwise it holds a literal of Default's kind.
type ParamDef struct {
	Name    string
	Options []string
	Default value.Value
}

// Socket addresses one input or output slot of a node.
type Socket struct {
	Node  NodeID
	Index int
}

// Input is the per-instance state of an input socket.
type Input struct {
	Name    string
	Kind    value.Kind
	Default value.Value
}

// Output is the per-instance view of an output socket.
type Output struct {
	Name string
	Kind value.Kind
}

// Param is the per-instance state of a parameter.
type Param struct {
	Name    string
	Options []string
	Choice  string      // Selected option, enums only
	Value   value.Value // Literal, non-enums only
}

// IsEnum reports whether the param selects one of a fixed set of options.
func (p *Param) IsEnum() bool { return len(p.Options) > 0 }

// Sockets holds the socket state of a node instance.
type Sockets struct {
	Inputs  []Input
	Outputs []Output
	Params  []Param
}

// NewSockets instantiates the sockets declared by t with their defaults.
func NewSockets(t *NodeType) Sockets {
	s := Sockets{
		Inputs:  make([]Input, len(t.Inputs)),
		Outputs: make([]Output, len(t.Outputs)),
		Params:  make([]Param, len(t.Params)),
	}
	for i, d := range t.Inputs {
		s.Inputs[i] = Input{Name: d.Name, Kind: d.Kind, Default: d.Default}
	}
	for i, d := range t.Outputs {
		s.Outputs[i] = Output{Name: d.Name, Kind: d.Kind}
	}
	for i, d := range t.Params {
		p := Param{Name: d.Name, Options: d.Options, Value: d.Default}
		if len(d.Options) > 0 {
			p.Choice = d.Options[0]
		}
		s.Params[i] = p
	}
	return s
}

// Param returns the named parameter, or nil.
func (s *Sockets) Param(name string) *Param {
	i := slices.IndexFunc(s.Params, func(p Param) bool { return p.Name == name })
	if i < 0 {
		return nil
	}
	return &s.Params[i]
}

// Choice returns the selected option of the named enum param, or "".
func (s *Sockets) Choice(name string) string {
	if p := s.Param(name); p != nil {
		return p.Choice
	}
	return ""
}

func (s *Sockets) input(id NodeID, idx int) (*Input, error) {
	if idx < 0 || idx >= len(s.Inputs) {
		return nil, errors.New(errors.ErrCodeInvalidSocket, "node %d has no input %d", id, idx).WithNode(id)
	}
	return &s.Inputs[idx], nil
}

func (s *Sockets) output(id NodeID, idx int) (*Output, error) {
	if idx < 0 || idx >= len(s.Outputs) {
		return nil, errors.New(errors.ErrCodeInvalidSocket, "node %d has no output %d", id, idx).WithNode(id)
	}
	return &s.Outputs[idx], nil
}
