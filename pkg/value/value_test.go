package value

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/soypat/geometry/md2"
	"github.com/soypat/geometry/md3"

	"github.com/matzehuels/shadergraph/pkg/errors"
)

func TestApply(t *testing.T) {
	tests := []struct {
		name string
		op   Op
		a, b Value
		want Value
	}{
		{"scalar add", OpAdd, Scalar(2), Scalar(3), Scalar(5)},
		{"scalar div", OpDiv, Scalar(1), Scalar(4), Scalar(0.25)},
		{"vec2 sub", OpSub, Vec2(md2.Vec{X: 3, Y: 4}), Vec2(md2.Vec{X: 1, Y: 1}), Vec2(md2.Vec{X: 2, Y: 3})},
		{"vec3 mul", OpMul, Vec3(md3.Vec{X: 1, Y: 2, Z: 3}), Vec3(md3.Vec{X: 2, Y: 2, Z: 2}), Vec3(md3.Vec{X: 2, Y: 4, Z: 6})},
		{"vec4 div", OpDiv, Vec4(2, 4, 6, 8), Vec4(2, 2, 2, 2), Vec4(1, 2, 3, 4)},
		{"color add", OpAdd, Color(0.25, 0, 0, 1), Color(0.25, 0.5, 0, 0), Color(0.5, 0.5, 0, 1)},
		{"scalar broadcast left", OpSub, Scalar(1), Vec2(md2.Vec{X: 0.5, Y: 2}), Vec2(md2.Vec{X: 0.5, Y: -1})},
		{"scalar broadcast right", OpMul, Color(1, 0.5, 0, 1), Scalar(2), Color(2, 1, 0, 2)},
		{"matrix scale", OpMul, Identity(KindMat2), Scalar(3), Mat2([4]float64{3, 0, 0, 3})},
		{"matrix add", OpAdd, Identity(KindMat3), Identity(KindMat3), Mat3([9]float64{2, 0, 0, 0, 2, 0, 0, 0, 2})},
		{
			name: "matrix product",
			op:   OpMul,
			a:    Mat2([4]float64{1, 3, 2, 4}), // [[1 2] [3 4]]
			b:    Mat2([4]float64{5, 7, 6, 8}), // [[5 6] [7 8]]
			want: Mat2([4]float64{19, 43, 22, 50}),
		},
		{
			name: "matrix vector",
			op:   OpMul,
			a:    Mat2([4]float64{1, 3, 2, 4}),
			b:    Vec2(md2.Vec{X: 1, Y: 1}),
			want: Vec2(md2.Vec{X: 3, Y: 7}),
		},
		{
			name: "vector matrix",
			op:   OpMul,
			a:    Vec2(md2.Vec{X: 1, Y: 1}),
			b:    Mat2([4]float64{1, 3, 2, 4}),
			want: Vec2(md2.Vec{X: 4, Y: 6}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Apply(tt.op, tt.a, tt.b)
			if err != nil {
				t.Fatalf("Apply() error: %v", err)
			}
			if !Equal(got, tt.want) {
				t.Errorf("Apply(%v, %v, %v) = %v, want %v", tt.op, tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestApplyTypeMismatch(t *testing.T) {
	tests := []struct {
		name string
		op   Op
		a, b Value
	}{
		{"vec2 and vec3", OpAdd, Zero(KindVec2), Zero(KindVec3)},
		{"vec4 and color", OpAdd, Zero(KindVec4), Zero(KindColor)},
		{"matrix division", OpDiv, Identity(KindMat2), Identity(KindMat2)},
		{"matrix plus scalar", OpAdd, Identity(KindMat3), Scalar(1)},
		{"matrix vector size", OpMul, Identity(KindMat3), Zero(KindVec2)},
		{"texture", OpMul, Texture("albedo"), Scalar(2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Apply(tt.op, tt.a, tt.b)
			if !errors.Is(err, errors.ErrCodeTypeMismatch) {
				t.Errorf("Apply() error = %v, want TYPE_MISMATCH", err)
			}
		})
	}
}

func TestDivideByZero(t *testing.T) {
	got, err := Div(Scalar(1), Scalar(0))
	if err != nil {
		t.Fatalf("Div() error: %v", err)
	}
	if !math.IsInf(got.Float(), 1) {
		t.Errorf("1/0 = %v, want +Inf", got)
	}
}

func TestFract(t *testing.T) {
	got, err := Fract(Vec4(1.25, -0.25, 3, 0.5))
	if err != nil {
		t.Fatalf("Fract() error: %v", err)
	}
	want := Vec4(0.25, 0.75, 0, 0.5)
	if !Equal(got, want) {
		t.Errorf("Fract() = %v, want %v", got, want)
	}

	if _, err := Fract(Texture("t")); !errors.Is(err, errors.ErrCodeTypeMismatch) {
		t.Errorf("Fract(texture) error = %v, want TYPE_MISMATCH", err)
	}
}

func TestParseOp(t *testing.T) {
	for _, name := range []string{"Add", "sub", "MUL", "Div"} {
		if _, err := ParseOp(name); err != nil {
			t.Errorf("ParseOp(%q) error: %v", name, err)
		}
	}
	if _, err := ParseOp("Pow"); err == nil {
		t.Error("ParseOp(Pow) succeeded, want error")
	}
}

func TestKindText(t *testing.T) {
	for _, k := range Kinds {
		b, err := k.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%v) error: %v", k, err)
		}
		var back Kind
		if err := back.UnmarshalText(b); err != nil {
			t.Fatalf("UnmarshalText(%s) error: %v", b, err)
		}
		if back != k {
			t.Errorf("kind %v came back as %v", k, back)
		}
	}
	if _, err := ParseKind("quaternion"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("ParseKind(quaternion) error = %v, want INVALID_FORMAT", err)
	}
}

func TestCanCoerce(t *testing.T) {
	tests := []struct {
		from, to Kind
		want     bool
	}{
		{KindVec3, KindVec3, true},
		{KindScalar, KindColor, true},
		{KindScalar, KindVec2, true},
		{KindVec3, KindVec4, true},
		{KindVec3, KindColor, true},
		{KindVec4, KindColor, true},
		{KindColor, KindVec4, true},
		{KindVec3, KindVec2, false},
		{KindVec2, KindVec3, false},
		{KindColor, KindScalar, false},
		{KindScalar, KindMat2, false},
		{KindMat4, KindVec4, false},
		{KindTexture, KindColor, false},
		{KindScalar, KindTexture, false},
	}

	for _, tt := range tests {
		if got := CanCoerce(tt.from, tt.to); got != tt.want {
			t.Errorf("CanCoerce(%v, %v) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestConvert(t *testing.T) {
	tests := []struct {
		name string
		in   Value
		to   Kind
		want Value
	}{
		{"splat color", Scalar(5), KindColor, Color(5, 5, 5, 5)},
		{"vec3 to color", Vec3(md3.Vec{X: 0.5, Y: 0.25, Z: 1}), KindColor, Color(0.5, 0.25, 1, 1)},
		{"vec3 to vec4", Vec3(md3.Vec{X: 1, Y: 2, Z: 3}), KindVec4, Vec4(1, 2, 3, 1)},
		{"color to vec4", Color(0.1, 0.2, 0.3, 0.4), KindVec4, Vec4(0.1, 0.2, 0.3, 0.4)},
		{"identity", Scalar(2), KindScalar, Scalar(2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Convert(tt.in, tt.to)
			if err != nil {
				t.Fatalf("Convert() error: %v", err)
			}
			if !Equal(got, tt.want) {
				t.Errorf("Convert(%v, %v) = %v, want %v", tt.in, tt.to, got, tt.want)
			}
		})
	}

	if _, err := Convert(Zero(KindVec3), KindVec2); !errors.Is(err, errors.ErrCodeTypeMismatch) {
		t.Errorf("Convert(vec3, vec2) error = %v, want TYPE_MISMATCH", err)
	}
}

func TestCoerceWGSL(t *testing.T) {
	tests := []struct {
		expr     string
		from, to Kind
		want     string
	}{
		{"x", KindScalar, KindScalar, "x"},
		{"(2.0 + 3.0)", KindScalar, KindColor, "vec4<f32>((2.0 + 3.0))"},
		{"n", KindVec3, KindColor, "vec4<f32>(n, 1.0)"},
		{"c", KindColor, KindVec4, "c"},
	}

	for _, tt := range tests {
		got, err := CoerceWGSL(tt.expr, tt.from, tt.to)
		if err != nil {
			t.Fatalf("CoerceWGSL(%q) error: %v", tt.expr, err)
		}
		if got != tt.want {
			t.Errorf("CoerceWGSL(%q, %v, %v) = %q, want %q", tt.expr, tt.from, tt.to, got, tt.want)
		}
	}
}

func TestWGSL(t *testing.T) {
	tests := []struct {
		in   Value
		want string
	}{
		{Scalar(2), "2.0"},
		{Scalar(-0.5), "-0.5"},
		{Scalar(0.1), "0.1"},
		{Vec2(md2.Vec{X: 0, Y: 1}), "vec2<f32>(0.0, 1.0)"},
		{Vec3(md3.Vec{X: 1, Y: 2, Z: 3}), "vec3<f32>(1.0, 2.0, 3.0)"},
		{Color(1, 0.5, 0, 1), "vec4<f32>(1.0, 0.5, 0.0, 1.0)"},
		{Identity(KindMat2), "mat2x2<f32>(1.0, 0.0, 0.0, 1.0)"},
		{Texture("base_color"), "base_color"},
	}

	for _, tt := range tests {
		got, err := tt.in.WGSL()
		if err != nil {
			t.Fatalf("WGSL(%v) error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("WGSL(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWGSLRejectsNonFinite(t *testing.T) {
	for _, v := range []Value{Scalar(math.NaN()), Scalar(1e39), Vec4(0, math.Inf(-1), 0, 0), Texture("bad handle")} {
		if _, err := v.WGSL(); !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("WGSL(%v) error = %v, want INVALID_INPUT", v, err)
		}
	}
}

func TestJSON(t *testing.T) {
	values := []Value{
		Scalar(2.5),
		Vec3(md3.Vec{X: 1, Y: 2, Z: 3}),
		Color(1, 0, 0, 1),
		Identity(KindMat4),
		Texture("base_color"),
	}
	for _, v := range values {
		b, err := json.Marshal(v)
		if err != nil {
			t.Fatalf("Marshal(%v) error: %v", v, err)
		}
		var back Value
		if err := json.Unmarshal(b, &back); err != nil {
			t.Fatalf("Unmarshal(%s) error: %v", b, err)
		}
		if !Equal(back, v) {
			t.Errorf("round trip of %v = %v", v, back)
		}
	}

	var v Value
	if err := json.Unmarshal([]byte(`{"kind":"vec3","value":[1,2]}`), &v); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("short vec3 error = %v, want INVALID_FORMAT", err)
	}
}

func TestJSONNonFinite(t *testing.T) {
	v := Vec4(math.Inf(1), math.Inf(-1), math.NaN(), 1)
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("Marshal(%v) error: %v", v, err)
	}
	if want := `{"kind":"vec4","value":["inf","-inf","nan",1]}`; string(b) != want {
		t.Errorf("Marshal = %s, want %s", b, want)
	}

	var back Value
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("Unmarshal(%s) error: %v", b, err)
	}
	c := back.Components()
	if !math.IsInf(c[0], 1) || !math.IsInf(c[1], -1) || !math.IsNaN(c[2]) || c[3] != 1 {
		t.Errorf("round trip = %v", c)
	}

	b, err = json.Marshal(Scalar(math.Inf(1)))
	if err != nil {
		t.Fatal(err)
	}
	var s Value
	if err := json.Unmarshal(b, &s); err != nil || !math.IsInf(s.Float(), 1) {
		t.Errorf("scalar round trip of %s = %v, %v", b, s, err)
	}

	if err := json.Unmarshal([]byte(`{"kind":"scalar","value":"huge"}`), &s); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("unknown spelling error = %v, want INVALID_FORMAT", err)
	}
}
