package cli

import (
	"testing"

	"github.com/matzehuels/shadergraph/pkg/errors"
	"github.com/matzehuels/shadergraph/pkg/graph"
	"github.com/matzehuels/shadergraph/pkg/nodes"
	"github.com/matzehuels/shadergraph/pkg/value"
)

func TestParseNodeID(t *testing.T) {
	tests := []struct {
		in      string
		want    graph.NodeID
		wantErr bool
	}{
		{"1", 1, false},
		{"#12", 12, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"two", 0, true},
	}
	for _, tt := range tests {
		got, err := parseNodeID(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseNodeID(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseNodeID(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestParseSocketRef(t *testing.T) {
	r := nodes.Default()
	g, err := nodes.NewDefaultGraph(r)
	if err != nil {
		t.Fatal(err)
	}
	n, err := r.New(nodes.TypeVec3Math)
	if err != nil {
		t.Fatal(err)
	}
	math := g.Add(n)

	tests := []struct {
		ref     string
		output  bool
		wantID  graph.NodeID
		wantIdx int
		code    errors.Code
	}{
		{"1", false, 1, 0, ""},
		{"1.color", false, 1, 0, ""},
		{"2.b", false, math, 1, ""},
		{"2.out", true, math, 0, ""},
		{"#2.1", false, math, 1, ""},
		{"2.out", false, 0, 0, errors.ErrCodeInvalidSocket},
		{"7.a", false, 0, 0, errors.ErrCodeNodeNotFound},
		{"x.a", false, 0, 0, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		id, idx, err := parseSocketRef(g, tt.ref, tt.output)
		if tt.code != "" {
			if !errors.Is(err, tt.code) {
				t.Errorf("parseSocketRef(%q) error = %v, want %s", tt.ref, err, tt.code)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseSocketRef(%q) error: %v", tt.ref, err)
			continue
		}
		if id != tt.wantID || idx != tt.wantIdx {
			t.Errorf("parseSocketRef(%q) = %d, %d, want %d, %d", tt.ref, id, idx, tt.wantID, tt.wantIdx)
		}
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		kind value.Kind
		want string
	}{
		{"0.5", value.KindScalar, "0.5"},
		{"2", value.KindVec3, "vec3(2, 2, 2)"},
		{"1, 2", value.KindVec2, "vec2(1, 2)"},
		{"vec3(1, 2, 3)", value.KindVec3, "vec3(1, 2, 3)"},
		{"color(1, 0.5, 0, 1)", value.KindColor, "color(1, 0.5, 0, 1)"},
		{"albedo", value.KindTexture, "texture(albedo)"},
	}
	for _, tt := range tests {
		got, err := parseValue(tt.in, tt.kind)
		if err != nil {
			t.Errorf("parseValue(%q, %s) error: %v", tt.in, tt.kind, err)
			continue
		}
		if got.String() != tt.want {
			t.Errorf("parseValue(%q, %s) = %s, want %s", tt.in, tt.kind, got, tt.want)
		}
	}
}

func TestParseValueErrors(t *testing.T) {
	tests := []struct {
		in   string
		kind value.Kind
		code errors.Code
	}{
		{"abc", value.KindScalar, errors.ErrCodeInvalidInput},
		{"1, x", value.KindVec2, errors.ErrCodeInvalidInput},
		{"2", value.KindMat2, errors.ErrCodeTypeMismatch},
		{"", value.KindTexture, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		if _, err := parseValue(tt.in, tt.kind); !errors.Is(err, tt.code) {
			t.Errorf("parseValue(%q, %s) error = %v, want %s", tt.in, tt.kind, err, tt.code)
		}
	}
}
