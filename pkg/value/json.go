package value

import (
	"encoding/json"
	"math"

	"github.com/matzehuels/shadergraph/pkg/errors"
)

// wire is the persisted shape of a Value:
//
//	{"kind": "vec3", "value": [1, 2, 3]}
//	{"kind": "scalar", "value": 2}
//	{"kind": "texture", "value": "base_color"}
//	{"kind": "vec2", "value": [1, "inf"]}
//
// Non-finite components, which division by zero produces, are written as
// the strings "inf", "-inf" and "nan".
type wire struct {
	Kind  Kind            `json:"kind"`
	Value json.RawMessage `json:"value"`
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	var payload any
	switch v.kind {
	case KindScalar:
		payload = component(v.c[0])
	case KindTexture:
		payload = v.tex
	default:
		comps := v.Components()
		out := make([]component, len(comps))
		for i, c := range comps {
			out[i] = component(c)
		}
		payload = out
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(wire{Kind: v.kind, Value: raw})
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(b []byte) error {
	var w wire
	if err := json.Unmarshal(b, &w); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode value")
	}
	if len(w.Value) == 0 {
		return errors.New(errors.ErrCodeInvalidFormat, "%s value has no payload", w.Kind)
	}
	switch w.Kind {
	case KindScalar:
		var f component
		if err := json.Unmarshal(w.Value, &f); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode scalar")
		}
		*v = Scalar(float64(f))
	case KindTexture:
		var h string
		if err := json.Unmarshal(w.Value, &h); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode texture handle")
		}
		*v = Texture(h)
	default:
		var raw []component
		if err := json.Unmarshal(w.Value, &raw); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode %s", w.Kind)
		}
		comps := make([]float64, len(raw))
		for i, c := range raw {
			comps[i] = float64(c)
		}
		parsed, err := FromComponents(w.Kind, comps)
		if err != nil {
			return err
		}
		*v = parsed
	}
	return nil
}

// component is one float of a Value payload. JSON has no Inf or NaN, so
// those are spelled as strings.
type component float64

func (c component) MarshalJSON() ([]byte, error) {
	f := float64(c)
	switch {
	case math.IsNaN(f):
		return []byte(`"nan"`), nil
	case math.IsInf(f, 1):
		return []byte(`"inf"`), nil
	case math.IsInf(f, -1):
		return []byte(`"-inf"`), nil
	}
	return json.Marshal(f)
}

func (c *component) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		switch s {
		case "nan":
			*c = component(math.NaN())
		case "inf":
			*c = component(math.Inf(1))
		case "-inf":
			*c = component(math.Inf(-1))
		default:
			return errors.New(errors.ErrCodeInvalidFormat, "invalid component %q", s)
		}
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*c = component(f)
	return nil
}
