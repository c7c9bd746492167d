package geometry

import (
	"math"
	"testing"
)

// floatEquals is a helper for testing scalar float values with epsilon.
func floatEquals(a, b float64) bool {
	return math.Abs(a-b) <= Epsilon
}

func TestNewVector(t *testing.T) {
	v := NewVector(1, 2, 3)
	if v.X != 1 || v.Y != 2 || v.Z != 3 {
		t.Errorf("NewVector(1, 2, 3) = %v; want (1, 2, 3)", v)
	}
}

func TestVector_String(t *testing.T) {
	v := Vector3{1.234, 5.678, -0.006}
	want := "(1.23, 5.68, -0.01)"
	if got := v.String(); got != want {
		t.Errorf("Vector3.String() = %q; want %q", got, want)
	}
}

func TestVector_Arithmetic(t *testing.T) {
	v1 := Vector3{1, 2, 3}
	v2 := Vector3{3, 4, 5}

	tests := []struct {
		name string
		got  Vector3
		want Vector3
	}{
		{"Add", v1.Add(v2), Vector3{4, 6, 8}},
		{"Sub", v1.Sub(v2), Vector3{-2, -2, -2}},
		{"Mul", v1.Mul(2), Vector3{2, 4, 6}},
		{"Div", v1.Div(2), Vector3{0.5, 1, 1.5}},
		{"DivByZero", v1.Div(0), Vector3{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.got.Eq(tt.want) {
				t.Errorf("%s = %v; want %v", tt.name, tt.got, tt.want)
			}
		})
	}
}

func TestVector_Products(t *testing.T) {
	x := Vector3{1, 0, 0}
	y := Vector3{0, 1, 0}

	t.Run("Dot", func(t *testing.T) {
		if got := x.Dot(y); got != 0 {
			t.Errorf("Dot orthogonal = %v; want 0", got)
		}
		if got := x.Dot(Vector3{2, 0, 0}); got != 2 {
			t.Errorf("Dot parallel = %v; want 2", got)
		}
	})

	t.Run("Cross", func(t *testing.T) {
		if got := x.Cross(y); !got.Eq(Vector3{0, 0, 1}) {
			t.Errorf("Cross X,Y = %v; want (0, 0, 1)", got)
		}
		if got := x.Cross(x); !got.IsZero() {
			t.Errorf("Cross self = %v; want zero", got)
		}
	})
}

func TestVector_Magnitude(t *testing.T) {
	v := Vector3{3, 4, 0}

	t.Run("Len", func(t *testing.T) {
		if got := v.Len(); got != 5 {
			t.Errorf("Len = %v; want 5", got)
		}
	})

	t.Run("LenSqr", func(t *testing.T) {
		if got := v.LenSqr(); got != 25 {
			t.Errorf("LenSqr = %v; want 25", got)
		}
	})

	t.Run("Normalize", func(t *testing.T) {
		got := v.Normalize()
		if !got.Eq(Vector3{0.6, 0.8, 0}) {
			t.Errorf("Normalize = %v; want (0.6, 0.8, 0)", got)
		}
		if !floatEquals(got.Len(), 1.0) {
			t.Errorf("Normalize length = %v; want 1", got.Len())
		}
	})

	t.Run("NormalizeZero", func(t *testing.T) {
		got := Zero.Normalize()
		if !got.IsZero() || !got.IsFinite() {
			t.Errorf("Normalize(0,0,0) = %v; want exact zero", got)
		}
	})

	t.Run("NormalizeTiny", func(t *testing.T) {
		got := Vector3{Epsilon / 10, 0, 0}.Normalize()
		if !got.IsZero() {
			t.Errorf("Normalize(tiny) = %v; want zero", got)
		}
	})
}

func TestVector_ClampLen(t *testing.T) {
	tests := []struct {
		name    string
		v       Vector3
		min     float64
		max     float64
		wantLen float64
	}{
		{"below min", Vector3{0.1, 0, 0}, 1, 5, 1},
		{"above max", Vector3{0, 30, 40}, 1, 5, 5},
		{"inside", Vector3{0, 3, 0}, 1, 5, 3},
		{"zero stays zero", Vector3{}, 1, 5, 0},
		{"squared length overflows", Vector3{1e200, 1e200, 0}, 1, 5, 5},
		{"near max float", Vector3{-math.MaxFloat64, 0, math.MaxFloat64}, 1, 5, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.v.ClampLen(tt.min, tt.max)
			if !floatEquals(got.Len(), tt.wantLen) {
				t.Errorf("ClampLen(%v) len = %v; want %v", tt.v, got.Len(), tt.wantLen)
			}
		})
	}
}

func TestVector_LenHugeComponents(t *testing.T) {
	v := Vector3{3e200, 4e200, 0}
	got := v.Len()
	if math.IsInf(got, 0) || math.Abs(got/5e200-1) > 1e-12 {
		t.Errorf("Len(%v) = %v; want 5e200", v, got)
	}
	if n := v.Normalize(); !floatEquals(n.Len(), 1) {
		t.Errorf("Normalize(%v) = %v; want a unit vector", v, n)
	}
	if got := (Vector3{X: math.Inf(1)}).Len(); !math.IsInf(got, 1) {
		t.Errorf("Len(+Inf) = %v; want +Inf", got)
	}
}

func TestVector_Distance(t *testing.T) {
	v1 := Vector3{1, 1, 1}
	v2 := Vector3{4, 5, 1}

	if got := v1.DistanceTo(v2); got != 5 {
		t.Errorf("DistanceTo = %v; want 5", got)
	}
	if got := v1.DistanceSquaredTo(v2); got != 25 {
		t.Errorf("DistanceSquaredTo = %v; want 25", got)
	}
}

func TestVector_Components(t *testing.T) {
	v := Vector3{1, 2, 3}
	for axis, want := range []float64{1, 2, 3} {
		if got := v.Component(axis); got != want {
			t.Errorf("Component(%d) = %v; want %v", axis, got, want)
		}
	}
	if got := v.WithComponent(1, 9); !got.Eq(Vector3{1, 9, 3}) {
		t.Errorf("WithComponent(1, 9) = %v", got)
	}
	if v.Y != 2 {
		t.Error("WithComponent must not mutate the receiver")
	}
}

func TestVector_IsFinite(t *testing.T) {
	if !(Vector3{1, 2, 3}).IsFinite() {
		t.Error("finite vector reported as non-finite")
	}
	if (Vector3{math.NaN(), 0, 0}).IsFinite() {
		t.Error("NaN vector reported as finite")
	}
	if (Vector3{0, math.Inf(-1), 0}).IsFinite() {
		t.Error("Inf vector reported as finite")
	}
}

func TestVector_Lerp(t *testing.T) {
	got := Zero.Lerp(Vector3{10, 10, 10}, 0.5)
	if !got.Eq(Vector3{5, 5, 5}) {
		t.Errorf("Lerp(0.5) = %v; want (5, 5, 5)", got)
	}
}

func TestVector_Eq(t *testing.T) {
	v := Vector3{1, 2, 3}

	if !v.Eq(Vector3{1, 2, 3}) {
		t.Error("Eq exact match failed")
	}
	if !v.Eq(Vector3{1 + Epsilon/2, 2 - Epsilon/2, 3}) {
		t.Error("Eq epsilon match failed")
	}
	if v.Eq(Vector3{1.1, 2, 3}) {
		t.Error("Eq mismatch failed")
	}
}
