package value

import (
	"fmt"
	"slices"
	"strings"

	"github.com/soypat/geometry/md2"
	"github.com/soypat/geometry/md3"

	"github.com/matzehuels/shadergraph/pkg/errors"
)

// Kind identifies the variant held by a [Value].
type Kind uint8

const (
	KindScalar Kind = iota
	KindVec2
	KindVec3
	KindVec4
	KindMat2
	KindMat3
	KindMat4
	KindColor
	KindTexture
)

var kindNames = [...]string{
	KindScalar:  "scalar",
	KindVec2:    "vec2",
	KindVec3:    "vec3",
	KindVec4:    "vec4",
	KindMat2:    "mat2",
	KindMat3:    "mat3",
	KindMat4:    "mat4",
	KindColor:   "color",
	KindTexture: "texture",
}

// Kinds lists every kind in declaration order.
var Kinds = []Kind{KindScalar, KindVec2, KindVec3, KindVec4, KindMat2, KindMat3, KindMat4, KindColor, KindTexture}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// ParseKind returns the kind with the given name.
func ParseKind(s string) (Kind, error) {
	i := slices.Index(kindNames[:], strings.ToLower(strings.TrimSpace(s)))
	if i < 0 {
		return 0, errors.New(errors.ErrCodeInvalidFormat, "unknown value kind %q", s)
	}
	return Kind(i), nil
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if int(k) >= len(kindNames) {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "invalid value kind %d", uint8(k))
	}
	return []byte(kindNames[k]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Len returns the number of float components held by the kind.
func (k Kind) Len() int {
	switch k {
	case KindScalar:
		return 1
	case KindVec2:
		return 2
	case KindVec3:
		return 3
	case KindVec4, KindColor, KindMat2:
		return 4
	case KindMat3:
		return 9
	case KindMat4:
		return 16
	}
	return 0
}

// IsMatrix reports whether k is one of the square matrix kinds.
func (k Kind) IsMatrix() bool {
	return k == KindMat2 || k == KindMat3 || k == KindMat4
}

// IsVector reports whether k is a vector kind. Colors are not vectors.
func (k Kind) IsVector() bool {
	return k == KindVec2 || k == KindVec3 || k == KindVec4
}

// Dim returns the row count of a vector or matrix kind.
// Scalars are 1 wide and colors 4 wide.
func (k Kind) Dim() int {
	switch k {
	case KindVec2, KindMat2:
		return 2
	case KindVec3, KindMat3:
		return 3
	case KindVec4, KindMat4, KindColor:
		return 4
	case KindScalar:
		return 1
	}
	return 0
}

// WGSLType returns the WGSL type spelling of the kind.
func (k Kind) WGSLType() string {
	switch k {
	case KindScalar:
		return "f32"
	case KindVec2, KindVec3, KindVec4:
		return fmt.Sprintf("vec%d<f32>", k.Dim())
	case KindColor:
		return "vec4<f32>"
	case KindMat2, KindMat3, KindMat4:
		return fmt.Sprintf("mat%[1]dx%[1]d<f32>", k.Dim())
	case KindTexture:
		return "texture_2d<f32>"
	}
	return "invalid"
}

// Value is a runtime value carried by a socket.
// The zero Value is the scalar 0.
type Value struct {
	kind Kind
	c    [16]float64 // components; matrices are column-major
	tex  string
}

// Scalar returns a scalar value.
func Scalar(f float64) Value {
	v := Value{kind: KindScalar}
	v.c[0] = f
	return v
}

// Vec2 returns a 2-component vector value.
func Vec2(p md2.Vec) Value {
	v := Value{kind: KindVec2}
	v.c[0], v.c[1] = p.X, p.Y
	return v
}

// Vec3 returns a 3-component vector value.
func Vec3(p md3.Vec) Value {
	v := Value{kind: KindVec3}
	v.c[0], v.c[1], v.c[2] = p.X, p.Y, p.Z
	return v
}

// Vec4 returns a 4-component vector value.
func Vec4(x, y, z, w float64) Value {
	v := Value{kind: KindVec4}
	v.c[0], v.c[1], v.c[2], v.c[3] = x, y, z, w
	return v
}

// Color returns a linear RGBA color value.
func Color(r, g, b, a float64) Value {
	v := Value{kind: KindColor}
	v.c[0], v.c[1], v.c[2], v.c[3] = r, g, b, a
	return v
}

// Mat2 returns a 2x2 matrix from column-major components.
func Mat2(m [4]float64) Value {
	v := Value{kind: KindMat2}
	copy(v.c[:], m[:])
	return v
}

// Mat3 returns a 3x3 matrix from column-major components.
func Mat3(m [9]float64) Value {
	v := Value{kind: KindMat3}
	copy(v.c[:], m[:])
	return v
}

// Mat4 returns a 4x4 matrix from column-major components.
func Mat4(m [16]float64) Value {
	v := Value{kind: KindMat4}
	copy(v.c[:], m[:])
	return v
}

// Identity returns the identity matrix of the given matrix kind.
func Identity(k Kind) Value {
	v := Value{kind: k}
	n := k.Dim()
	for i := 0; i < n; i++ {
		v.c[i*n+i] = 1
	}
	return v
}

// Texture returns a texture handle value.
func Texture(handle string) Value {
	return Value{kind: KindTexture, tex: handle}
}

// Zero returns the zero value of kind k.
func Zero(k Kind) Value {
	return Value{kind: k}
}

// FromComponents builds a value of kind k from its float components.
// Matrices take column-major components.
func FromComponents(k Kind, comps []float64) (Value, error) {
	if k == KindTexture || int(k) >= len(kindNames) {
		return Value{}, errors.New(errors.ErrCodeInvalidFormat, "%s has no float components", k)
	}
	if len(comps) != k.Len() {
		return Value{}, errors.New(errors.ErrCodeInvalidFormat, "%s needs %d components, got %d", k, k.Len(), len(comps))
	}
	v := Value{kind: k}
	copy(v.c[:], comps)
	return v, nil
}

// Kind returns the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// Float returns the scalar payload, or the first component for other kinds.
func (v Value) Float() float64 { return v.c[0] }

// XY returns the first two components as a 2D vector.
func (v Value) XY() md2.Vec { return md2.Vec{X: v.c[0], Y: v.c[1]} }

// XYZ returns the first three components as a 3D vector.
func (v Value) XYZ() md3.Vec { return md3.Vec{X: v.c[0], Y: v.c[1], Z: v.c[2]} }

// Components returns a copy of the float components of v.
func (v Value) Components() []float64 {
	return slices.Clone(v.c[:v.kind.Len()])
}

// Handle returns the texture handle of a texture value.
func (v Value) Handle() string { return v.tex }

// Equal reports whether a and b hold the same kind and payload.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	if a.kind == KindTexture {
		return a.tex == b.tex
	}
	return a.c == b.c
}

// String renders v for humans, e.g. "vec3(1, 2, 3)".
func (v Value) String() string {
	switch v.kind {
	case KindScalar:
		return fmt.Sprintf("%g", v.c[0])
	case KindTexture:
		return fmt.Sprintf("texture(%s)", v.tex)
	}
	parts := make([]string, v.kind.Len())
	for i := range parts {
		parts[i] = fmt.Sprintf("%g", v.c[i])
	}
	return fmt.Sprintf("%s(%s)", v.kind, strings.Join(parts, ", "))
}
