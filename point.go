package canvas

import "math"

// Point represents a 2D point or vector with float64 coordinates.
type Point struct {
	X, Y float64
}

// Pt creates a Point from x, y coordinates.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns the sum of two points.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns the difference of two points.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Mul returns the point scaled by s.
func (p Point) Mul(s float64) Point {
	return Point{X: p.X * s, Y: p.Y * s}
}

// IsFinite reports whether both coordinates are finite numbers.
func (p Point) IsFinite() bool {
	return isFinite(p.X) && isFinite(p.Y)
}

// Vector2 is a 2D vector used for scales.
type Vector2 = Point

// Vector3 is a 3D vector used for translations and scales.
type Vector3 struct {
	X, Y, Z float64
}

// Vec3 creates a Vector3.
func Vec3(x, y, z float64) Vector3 {
	return Vector3{X: x, Y: y, Z: z}
}

// Radians is an angle expressed in radians.
type Radians float64

// Degrees converts an angle in degrees to Radians.
func Degrees(deg float64) Radians {
	return Radians(deg * math.Pi / 180)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
