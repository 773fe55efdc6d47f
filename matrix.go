package canvas

import "math"

// Matrix is a 4x4 transformation matrix stored in column-major order:
//
//	| m[0]  m[4]  m[8]   m[12] |
//	| m[1]  m[5]  m[9]   m[13] |
//	| m[2]  m[6]  m[10]  m[14] |
//	| m[3]  m[7]  m[11]  m[15] |
//
// A point (x, y) maps to
//
//	x' = (m[0]*x + m[4]*y + m[12]) / w
//	y' = (m[1]*x + m[5]*y + m[13]) / w
//	w  =  m[3]*x + m[7]*y + m[15]
type Matrix struct {
	M [16]float64
}

// Identity returns the identity matrix.
func Identity() Matrix {
	return Matrix{M: [16]float64{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}}
}

// MakeTranslation creates a translation matrix.
func MakeTranslation(t Vector3) Matrix {
	m := Identity()
	m.M[12] = t.X
	m.M[13] = t.Y
	m.M[14] = t.Z
	return m
}

// MakeScale creates a scaling matrix.
func MakeScale(s Vector3) Matrix {
	m := Identity()
	m.M[0] = s.X
	m.M[5] = s.Y
	m.M[10] = s.Z
	return m
}

// MakeSkew creates a 2D skew matrix.
func MakeSkew(sx, sy float64) Matrix {
	m := Identity()
	m.M[4] = sx
	m.M[1] = sy
	return m
}

// MakeRotationZ creates a rotation about the Z axis.
func MakeRotationZ(r Radians) Matrix {
	sin, cos := math.Sincos(float64(r))
	m := Identity()
	m.M[0] = cos
	m.M[1] = sin
	m.M[4] = -sin
	m.M[5] = cos
	return m
}

// Multiply returns m * o. Applied to a point, o acts first.
func (m Matrix) Multiply(o Matrix) Matrix {
	var r Matrix
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += m.M[k*4+row] * o.M[col*4+k]
			}
			r.M[col*4+row] = sum
		}
	}
	return r
}

// IsIdentity reports whether m is exactly the identity matrix.
func (m Matrix) IsIdentity() bool {
	return m == Identity()
}

// IsTranslationScaleOnly reports whether m maps axis-aligned rectangles to
// axis-aligned rectangles without perspective.
func (m Matrix) IsTranslationScaleOnly() bool {
	return m.M[1] == 0 && m.M[2] == 0 && m.M[3] == 0 &&
		m.M[4] == 0 && m.M[6] == 0 && m.M[7] == 0 &&
		m.M[8] == 0 && m.M[9] == 0 && m.M[11] == 0 &&
		m.M[15] == 1
}

// HasPerspective reports whether m has a non-trivial projective row.
func (m Matrix) HasPerspective() bool {
	return m.M[3] != 0 || m.M[7] != 0 || m.M[11] != 0 || m.M[15] != 1
}

// Translation returns the translation component.
func (m Matrix) Translation() Vector3 {
	return Vector3{X: m.M[12], Y: m.M[13], Z: m.M[14]}
}

// MaxBasisLength returns the length of the longest 2D basis vector,
// an upper bound on how much m can stretch a distance.
func (m Matrix) MaxBasisLength() float64 {
	return math.Max(math.Hypot(m.M[0], m.M[1]), math.Hypot(m.M[4], m.M[5]))
}

// Determinant returns the determinant of m.
func (m Matrix) Determinant() float64 {
	inv := m.cofactors()
	a := &m.M
	return a[0]*inv[0] + a[1]*inv[4] + a[2]*inv[8] + a[3]*inv[12]
}

// Invert returns the inverse of m. The second result is false if m is
// singular.
func (m Matrix) Invert() (Matrix, bool) {
	inv := m.cofactors()
	a := &m.M
	det := a[0]*inv[0] + a[1]*inv[4] + a[2]*inv[8] + a[3]*inv[12]
	if det == 0 || !isFinite(det) {
		return Matrix{}, false
	}
	det = 1 / det
	var r Matrix
	for i := range inv {
		r.M[i] = inv[i] * det
	}
	return r, true
}

// cofactors returns the transposed cofactor matrix (adjugate) of m.
func (m Matrix) cofactors() [16]float64 {
	a := &m.M
	var inv [16]float64

	inv[0] = a[5]*a[10]*a[15] - a[5]*a[11]*a[14] - a[9]*a[6]*a[15] +
		a[9]*a[7]*a[14] + a[13]*a[6]*a[11] - a[13]*a[7]*a[10]
	inv[4] = -a[4]*a[10]*a[15] + a[4]*a[11]*a[14] + a[8]*a[6]*a[15] -
		a[8]*a[7]*a[14] - a[12]*a[6]*a[11] + a[12]*a[7]*a[10]
	inv[8] = a[4]*a[9]*a[15] - a[4]*a[11]*a[13] - a[8]*a[5]*a[15] +
		a[8]*a[7]*a[13] + a[12]*a[5]*a[11] - a[12]*a[7]*a[9]
	inv[12] = -a[4]*a[9]*a[14] + a[4]*a[10]*a[13] + a[8]*a[5]*a[14] -
		a[8]*a[6]*a[13] - a[12]*a[5]*a[10] + a[12]*a[6]*a[9]

	inv[1] = -a[1]*a[10]*a[15] + a[1]*a[11]*a[14] + a[9]*a[2]*a[15] -
		a[9]*a[3]*a[14] - a[13]*a[2]*a[11] + a[13]*a[3]*a[10]
	inv[5] = a[0]*a[10]*a[15] - a[0]*a[11]*a[14] - a[8]*a[2]*a[15] +
		a[8]*a[3]*a[14] + a[12]*a[2]*a[11] - a[12]*a[3]*a[10]
	inv[9] = -a[0]*a[9]*a[15] + a[0]*a[11]*a[13] + a[8]*a[1]*a[15] -
		a[8]*a[3]*a[13] - a[12]*a[1]*a[11] + a[12]*a[3]*a[9]
	inv[13] = a[0]*a[9]*a[14] - a[0]*a[10]*a[13] - a[8]*a[1]*a[14] +
		a[8]*a[2]*a[13] + a[12]*a[1]*a[10] - a[12]*a[2]*a[9]

	inv[2] = a[1]*a[6]*a[15] - a[1]*a[7]*a[14] - a[5]*a[2]*a[15] +
		a[5]*a[3]*a[14] + a[13]*a[2]*a[7] - a[13]*a[3]*a[6]
	inv[6] = -a[0]*a[6]*a[15] + a[0]*a[7]*a[14] + a[4]*a[2]*a[15] -
		a[4]*a[3]*a[14] - a[12]*a[2]*a[7] + a[12]*a[3]*a[6]
	inv[10] = a[0]*a[5]*a[15] - a[0]*a[7]*a[13] - a[4]*a[1]*a[15] +
		a[4]*a[3]*a[13] + a[12]*a[1]*a[7] - a[12]*a[3]*a[5]
	inv[14] = -a[0]*a[5]*a[14] + a[0]*a[6]*a[13] + a[4]*a[1]*a[14] -
		a[4]*a[2]*a[13] - a[12]*a[1]*a[6] + a[12]*a[2]*a[5]

	inv[3] = -a[1]*a[6]*a[11] + a[1]*a[7]*a[10] + a[5]*a[2]*a[11] -
		a[5]*a[3]*a[10] - a[9]*a[2]*a[7] + a[9]*a[3]*a[6]
	inv[7] = a[0]*a[6]*a[11] - a[0]*a[7]*a[10] - a[4]*a[2]*a[11] +
		a[4]*a[3]*a[10] + a[8]*a[2]*a[7] - a[8]*a[3]*a[6]
	inv[11] = -a[0]*a[5]*a[11] + a[0]*a[7]*a[9] + a[4]*a[1]*a[11] -
		a[4]*a[3]*a[9] - a[8]*a[1]*a[7] + a[8]*a[3]*a[5]
	inv[15] = a[0]*a[5]*a[10] - a[0]*a[6]*a[9] - a[4]*a[1]*a[10] +
		a[4]*a[2]*a[9] + a[8]*a[1]*a[6] - a[8]*a[2]*a[5]

	return inv
}

// TransformPoint maps a point through m, including the perspective divide.
// Points that map behind the camera plane are returned unchanged in w.
func (m Matrix) TransformPoint(p Point) Point {
	q, _ := m.transformPoint(p)
	return q
}

func (m Matrix) transformPoint(p Point) (Point, bool) {
	x := m.M[0]*p.X + m.M[4]*p.Y + m.M[12]
	y := m.M[1]*p.X + m.M[5]*p.Y + m.M[13]
	w := m.M[3]*p.X + m.M[7]*p.Y + m.M[15]
	if w <= 0 {
		return Point{X: x, Y: y}, false
	}
	if w != 1 {
		x /= w
		y /= w
	}
	return Point{X: x, Y: y}, true
}

// Equal reports whether m and o differ by at most eps in every element.
func (m Matrix) Equal(o Matrix, eps float64) bool {
	for i := range m.M {
		if math.Abs(m.M[i]-o.M[i]) > eps {
			return false
		}
	}
	return true
}
