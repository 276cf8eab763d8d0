package value

import (
	"fmt"

	"github.com/matzehuels/shadergraph/pkg/errors"
)

// CanCoerce reports whether a producer of kind from may feed a socket of kind to.
func CanCoerce(from, to Kind) bool {
	if from == to {
		return true
	}
	switch from {
	case KindScalar:
		return to.IsVector() || to == KindColor
	case KindVec3:
		return to == KindVec4 || to == KindColor
	case KindVec4:
		return to == KindColor
	case KindColor:
		return to == KindVec4
	}
	return false
}

// Convert widens v to kind to. It fails with TYPE_MISMATCH when the pair is
// not in the coercion table.
func Convert(v Value, to Kind) (Value, error) {
	if v.kind == to {
		return v, nil
	}
	if !CanCoerce(v.kind, to) {
		return Value{}, errors.New(errors.ErrCodeTypeMismatch, "cannot convert %s to %s", v.kind, to)
	}
	switch v.kind {
	case KindScalar:
		return splat(v.c[0], to), nil
	case KindVec3:
		out := Value{kind: to}
		copy(out.c[:3], v.c[:3])
		out.c[3] = 1
		return out, nil
	}
	// vec4 <-> color share their layout.
	out := v
	out.kind = to
	return out, nil
}

// CoerceWGSL wraps a WGSL expression of kind from so it has the WGSL type of kind to.
func CoerceWGSL(expr string, from, to Kind) (string, error) {
	if !CanCoerce(from, to) {
		return "", errors.New(errors.ErrCodeTypeMismatch, "cannot convert %s to %s", from, to)
	}
	if from.WGSLType() == to.WGSLType() {
		return expr, nil
	}
	switch from {
	case KindScalar:
		return fmt.Sprintf("%s(%s)", to.WGSLType(), expr), nil
	case KindVec3:
		return fmt.Sprintf("%s(%s, 1.0)", to.WGSLType(), expr), nil
	}
	return expr, nil
}
