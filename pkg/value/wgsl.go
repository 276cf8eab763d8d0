package value

import (
	"bytes"
	"strconv"

	"github.com/chewxy/math32"

	"github.com/matzehuels/shadergraph/pkg/errors"
)

// WGSL renders v as a WGSL literal expression. Float components must be
// representable as finite f32 values.
func (v Value) WGSL() (string, error) {
	b, err := v.AppendWGSL(nil)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// AppendWGSL appends the WGSL literal for v to b.
func (v Value) AppendWGSL(b []byte) ([]byte, error) {
	if v.kind == KindTexture {
		if !isIdent(v.tex) {
			return b, errors.New(errors.ErrCodeInvalidInput, "texture handle %q is not a valid identifier", v.tex)
		}
		return append(b, v.tex...), nil
	}
	for i := 0; i < v.kind.Len(); i++ {
		f := float32(v.c[i])
		if math32.IsNaN(f) || math32.IsInf(f, 0) {
			return b, errors.New(errors.ErrCodeInvalidInput, "%s component %d (%g) is not a finite f32", v.kind, i, v.c[i])
		}
	}
	if v.kind == KindScalar {
		return AppendFloat(b, float32(v.c[0])), nil
	}
	b = append(b, v.kind.WGSLType()...)
	b = append(b, '(')
	for i := 0; i < v.kind.Len(); i++ {
		if i > 0 {
			b = append(b, ", "...)
		}
		b = AppendFloat(b, float32(v.c[i]))
	}
	return append(b, ')'), nil
}

// AppendFloat appends the shortest f32 spelling of f that parses as a WGSL
// float literal, such as "2.0" or "-0.5". Exponent notation is never used.
func AppendFloat(b []byte, f float32) []byte {
	start := len(b)
	b = strconv.AppendFloat(b, float64(f), 'f', -1, 32)
	if bytes.IndexByte(b[start:], '.') < 0 {
		b = append(b, '.', '0')
	}
	return b
}

// isIdent reports whether s is a WGSL identifier.
func isIdent(s string) bool {
	if s == "" || s == "_" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_', 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		case '0' <= c && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
