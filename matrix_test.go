package canvas

import (
	"math"
	"testing"
)

func TestMatrix_IsTranslationScaleOnly(t *testing.T) {
	tests := []struct {
		name string
		m    Matrix
		want bool
	}{
		{"identity", Identity(), true},
		{"translation", MakeTranslation(Vec3(10, 20, 0)), true},
		{"scale", MakeScale(Vec3(3, 0.5, 1)), true},
		{"negative scale", MakeScale(Vec3(-1, 1, 1)), true},
		{"rotation", MakeRotationZ(Degrees(45)), false},
		{"skew", MakeSkew(0.5, 0), false},
		{"perspective", Matrix{M: [16]float64{1, 0, 0, 0.01, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.IsTranslationScaleOnly(); got != tt.want {
				t.Errorf("IsTranslationScaleOnly() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMatrix_Invert(t *testing.T) {
	tests := []struct {
		name   string
		m      Matrix
		wantOK bool
	}{
		{"identity", Identity(), true},
		{"translation", MakeTranslation(Vec3(3, -4, 5)), true},
		{"rotation", MakeRotationZ(Degrees(33)), true},
		{"composite", MakeTranslation(Vec3(7, 1, 0)).Multiply(MakeScale(Vec3(2, 4, 1))).Multiply(MakeSkew(0.3, 0.1)), true},
		{"singular", MakeScale(Vec3(0, 1, 1)), false},
		{"NaN", Matrix{M: [16]float64{math.NaN()}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv, ok := tt.m.Invert()
			if ok != tt.wantOK {
				t.Fatalf("Invert() ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if got := tt.m.Multiply(inv); !got.Equal(Identity(), 1e-9) {
				t.Errorf("m * Invert(m) = %v, want identity", got)
			}
		})
	}
}

func TestMatrix_MultiplyOrder(t *testing.T) {
	tr := MakeTranslation(Vec3(10, 0, 0))
	sc := MakeScale(Vec3(2, 2, 1))
	p := Pt(1, 1)

	if got := tr.Multiply(sc).TransformPoint(p); got != Pt(12, 2) {
		t.Errorf("(T*S)p = %v, want (12,2)", got)
	}
	if got := sc.Multiply(tr).TransformPoint(p); got != Pt(22, 2) {
		t.Errorf("(S*T)p = %v, want (22,2)", got)
	}
}

func TestMatrix_Accessors(t *testing.T) {
	m := MakeTranslation(Vec3(1, 2, 3)).Multiply(MakeScale(Vec3(4, 5, 1)))
	if got := m.Translation(); got != Vec3(1, 2, 3) {
		t.Errorf("Translation() = %v", got)
	}
	if got := m.MaxBasisLength(); got != 5 {
		t.Errorf("MaxBasisLength() = %v, want 5", got)
	}
	if got := m.Determinant(); !almostEqual(got, 20) {
		t.Errorf("Determinant() = %v, want 20", got)
	}
	if m.HasPerspective() {
		t.Error("HasPerspective() = true")
	}
	if m.IsIdentity() || !Identity().IsIdentity() {
		t.Error("IsIdentity() wrong")
	}
}

func TestMatrix_TransformPointPerspective(t *testing.T) {
	m := Identity()
	m.M[15] = 2
	if got := m.TransformPoint(Pt(4, 6)); got != Pt(2, 3) {
		t.Errorf("TransformPoint() = %v, want (2,3)", got)
	}
	m.M[15] = -1
	if _, ok := MakeXYWH(0, 0, 1, 1).TransformBounds(m); ok {
		t.Error("TransformBounds() behind the camera plane reported ok")
	}
}

func BenchmarkMatrix_Multiply(b *testing.B) {
	m1 := MakeRotationZ(Degrees(10))
	m2 := MakeTranslation(Vec3(1, 2, 0))
	for b.Loop() {
		m1 = m1.Multiply(m2)
	}
	_ = m1
}
