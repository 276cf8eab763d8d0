package value

import (
	"math"
	"strings"

	"github.com/soypat/geometry/md2"
	"github.com/soypat/geometry/md3"

	"github.com/matzehuels/shadergraph/pkg/errors"
)

// Op is a binary arithmetic operator.
type Op uint8

const (
	OpAdd Op = iota
	OpSub
	OpMul
	OpDiv
)

var opNames = [...]string{OpAdd: "Add", OpSub: "Sub", OpMul: "Mul", OpDiv: "Div"}

func (o Op) String() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return "Op?"
}

// Symbol returns the infix operator used in generated code.
func (o Op) Symbol() string {
	return [...]string{"+", "-", "*", "/"}[o]
}

// ParseOp parses an operator name case-insensitively.
func ParseOp(s string) (Op, error) {
	for i, name := range opNames {
		if strings.EqualFold(name, s) {
			return Op(i), nil
		}
	}
	return 0, errors.New(errors.ErrCodeInvalidInput, "unknown operator %q", s)
}

// Add returns a + b.
func Add(a, b Value) (Value, error) { return Apply(OpAdd, a, b) }

// Sub returns a - b.
func Sub(a, b Value) (Value, error) { return Apply(OpSub, a, b) }

// Mul returns a * b.
func Mul(a, b Value) (Value, error) { return Apply(OpMul, a, b) }

// Div returns a / b.
func Div(a, b Value) (Value, error) { return Apply(OpDiv, a, b) }

// Apply evaluates a op b following the kind rules documented on the package.
// Division by zero follows IEEE semantics.
func Apply(op Op, a, b Value) (Value, error) {
	if int(op) >= len(opNames) {
		return Value{}, errors.New(errors.ErrCodeInvalidInput, "invalid operator %d", uint8(op))
	}
	if a.kind == KindTexture || b.kind == KindTexture {
		return Value{}, mismatch(op, a, b)
	}

	switch {
	case a.kind == b.kind && a.kind.IsMatrix():
		switch op {
		case OpMul:
			return matMul(a, b), nil
		case OpDiv:
			return Value{}, mismatch(op, a, b)
		}
		return componentwise(op, a, b), nil
	case a.kind == b.kind:
		return componentwise(op, a, b), nil
	case a.kind == KindScalar:
		if b.kind.IsMatrix() && op != OpMul {
			return Value{}, mismatch(op, a, b)
		}
		return componentwise(op, splat(a.c[0], b.kind), b), nil
	case b.kind == KindScalar:
		if a.kind.IsMatrix() && op != OpMul {
			return Value{}, mismatch(op, a, b)
		}
		return componentwise(op, a, splat(b.c[0], a.kind)), nil
	case op == OpMul && a.kind.IsMatrix() && b.kind.IsVector() && a.kind.Dim() == b.kind.Dim():
		return matVec(a, b), nil
	case op == OpMul && a.kind.IsVector() && b.kind.IsMatrix() && a.kind.Dim() == b.kind.Dim():
		return vecMat(a, b), nil
	}
	return Value{}, mismatch(op, a, b)
}

// Fract returns the component-wise fractional part x - floor(x).
func Fract(v Value) (Value, error) {
	if v.kind == KindTexture {
		return Value{}, errors.New(errors.ErrCodeTypeMismatch, "fract is not defined for %s", v.kind)
	}
	out := Value{kind: v.kind}
	for i := 0; i < v.kind.Len(); i++ {
		out.c[i] = v.c[i] - math.Floor(v.c[i])
	}
	return out, nil
}

func mismatch(op Op, a, b Value) error {
	return errors.New(errors.ErrCodeTypeMismatch, "cannot %s %s and %s", strings.ToLower(op.String()), a.kind, b.kind)
}

func splat(f float64, k Kind) Value {
	v := Value{kind: k}
	for i := 0; i < k.Len(); i++ {
		v.c[i] = f
	}
	return v
}

// componentwise assumes a and b share a kind.
func componentwise(op Op, a, b Value) Value {
	switch a.kind {
	case KindVec2:
		return Vec2(apply2(op, a.XY(), b.XY()))
	case KindVec3:
		return Vec3(apply3(op, a.XYZ(), b.XYZ()))
	}
	out := Value{kind: a.kind}
	for i := 0; i < a.kind.Len(); i++ {
		out.c[i] = scalarOp(op, a.c[i], b.c[i])
	}
	return out
}

func apply2(op Op, a, b md2.Vec) md2.Vec {
	switch op {
	case OpAdd:
		return md2.Add(a, b)
	case OpSub:
		return md2.Sub(a, b)
	case OpMul:
		return md2.MulElem(a, b)
	}
	return md2.DivElem(a, b)
}

func apply3(op Op, a, b md3.Vec) md3.Vec {
	switch op {
	case OpAdd:
		return md3.Add(a, b)
	case OpSub:
		return md3.Sub(a, b)
	case OpMul:
		return md3.MulElem(a, b)
	}
	return md3.DivElem(a, b)
}

func scalarOp(op Op, x, y float64) float64 {
	switch op {
	case OpAdd:
		return x + y
	case OpSub:
		return x - y
	case OpMul:
		return x * y
	}
	return x / y
}

func matMul(a, b Value) Value {
	n := a.kind.Dim()
	out := Value{kind: a.kind}
	for col := 0; col < n; col++ {
		for row := 0; row < n; row++ {
			var sum float64
			for k := 0; k < n; k++ {
				sum += a.c[k*n+row] * b.c[col*n+k]
			}
			out.c[col*n+row] = sum
		}
	}
	return out
}

func matVec(m, v Value) Value {
	n := m.kind.Dim()
	out := Value{kind: v.kind}
	for row := 0; row < n; row++ {
		var sum float64
		for k := 0; k < n; k++ {
			sum += m.c[k*n+row] * v.c[k]
		}
		out.c[row] = sum
	}
	return out
}

func vecMat(v, m Value) Value {
	n := m.kind.Dim()
	out := Value{kind: v.kind}
	for col := 0; col < n; col++ {
		out.c[col] = dot(v.c[:n], m.c[col*n:col*n+n])
	}
	return out
}

func dot(a, b []float64) float64 {
	var sum float64
	for i := range min(len(a), len(b)) {
		sum += a[i] * b[i]
	}
	return sum
}
