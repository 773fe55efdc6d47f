package canvas

import (
	"math"

	"github.com/gogpu/canvas/render"
)

// Rect is an axis-aligned rectangle with float64 coordinates.
// A rectangle with non-positive width or height is empty.
type Rect struct {
	X, Y float64 // Top-left corner
	W, H float64 // Width and height
}

// MakeXYWH creates a Rect from position and size.
func MakeXYWH(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// MakeLTRB creates a Rect from its edges.
func MakeLTRB(left, top, right, bottom float64) Rect {
	return Rect{X: left, Y: top, W: right - left, H: bottom - top}
}

// MakeSize creates a Rect at the origin covering an integer size.
func MakeSize(size render.ISize) Rect {
	return Rect{W: float64(size.Width), H: float64(size.Height)}
}

// RectFromIRect converts an integer rectangle.
func RectFromIRect(r render.IRect) Rect {
	return Rect{X: float64(r.X), Y: float64(r.Y), W: float64(r.Width), H: float64(r.Height)}
}

// Left returns the left edge x-coordinate.
func (r Rect) Left() float64 { return r.X }

// Top returns the top edge y-coordinate.
func (r Rect) Top() float64 { return r.Y }

// Right returns the right edge x-coordinate.
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns the bottom edge y-coordinate.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Origin returns the top-left corner.
func (r Rect) Origin() Point { return Point{X: r.X, Y: r.Y} }

// IsEmpty returns true if the rectangle has zero area.
func (r Rect) IsEmpty() bool {
	return !(r.W > 0 && r.H > 0)
}

// IsFinite reports whether all components are finite.
func (r Rect) IsFinite() bool {
	return isFinite(r.X) && isFinite(r.Y) && isFinite(r.W) && isFinite(r.H)
}

// Shift returns the rectangle translated by offset.
func (r Rect) Shift(offset Point) Rect {
	return Rect{X: r.X + offset.X, Y: r.Y + offset.Y, W: r.W, H: r.H}
}

// Expand grows the rectangle by dx on the left and right and dy on the
// top and bottom. Negative values shrink it.
func (r Rect) Expand(dx, dy float64) Rect {
	return MakeLTRB(r.Left()-dx, r.Top()-dy, r.Right()+dx, r.Bottom()+dy)
}

// ContainsPoint returns true if p lies inside the rectangle.
// The right and bottom edges are exclusive.
func (r Rect) ContainsPoint(p Point) bool {
	return p.X >= r.Left() && p.X < r.Right() && p.Y >= r.Top() && p.Y < r.Bottom()
}

// Contains returns true if o lies entirely within r.
// An empty o is contained by any non-empty r.
func (r Rect) Contains(o Rect) bool {
	if r.IsEmpty() {
		return false
	}
	if o.IsEmpty() {
		return true
	}
	return o.Left() >= r.Left() && o.Top() >= r.Top() &&
		o.Right() <= r.Right() && o.Bottom() <= r.Bottom()
}

// Intersection returns the overlap of two rectangles.
// The second result is false when they do not overlap.
func (r Rect) Intersection(o Rect) (Rect, bool) {
	l := math.Max(r.Left(), o.Left())
	t := math.Max(r.Top(), o.Top())
	rt := math.Min(r.Right(), o.Right())
	b := math.Min(r.Bottom(), o.Bottom())
	if rt <= l || b <= t {
		return Rect{}, false
	}
	return MakeLTRB(l, t, rt, b), true
}

// IntersectsWith reports whether two rectangles overlap.
func (r Rect) IntersectsWith(o Rect) bool {
	_, ok := r.Intersection(o)
	return ok
}

// Union returns the smallest rectangle containing both.
// Empty operands are ignored.
func (r Rect) Union(o Rect) Rect {
	if r.IsEmpty() {
		return o
	}
	if o.IsEmpty() {
		return r
	}
	return MakeLTRB(
		math.Min(r.Left(), o.Left()),
		math.Min(r.Top(), o.Top()),
		math.Max(r.Right(), o.Right()),
		math.Max(r.Bottom(), o.Bottom()),
	)
}

// Cutout returns a conservative bound of r with o removed.
//
// The result shrinks only when o spans r entirely along one axis and
// overlaps one of its edges; then that band is trimmed. When o contains r
// the result is empty. In every other case r is returned unchanged, since
// the remainder is not representable as a single rectangle.
func (r Rect) Cutout(o Rect) Rect {
	if r.IsEmpty() {
		return Rect{}
	}
	if o.IsEmpty() || !r.IntersectsWith(o) {
		return r
	}
	if o.Contains(r) {
		return Rect{}
	}

	l, t, rt, b := r.Left(), r.Top(), r.Right(), r.Bottom()
	if o.Left() <= l && o.Right() >= rt {
		// o spans the full width: trim from the top or bottom.
		switch {
		case o.Top() <= t:
			return MakeLTRB(l, o.Bottom(), rt, b)
		case o.Bottom() >= b:
			return MakeLTRB(l, t, rt, o.Top())
		}
	}
	if o.Top() <= t && o.Bottom() >= b {
		// o spans the full height: trim from the left or right.
		switch {
		case o.Left() <= l:
			return MakeLTRB(o.Right(), t, rt, b)
		case o.Right() >= rt:
			return MakeLTRB(l, t, o.Left(), b)
		}
	}
	return r
}

// Points returns the four corners in clockwise order starting top-left.
func (r Rect) Points() [4]Point {
	return [4]Point{
		{X: r.Left(), Y: r.Top()},
		{X: r.Right(), Y: r.Top()},
		{X: r.Right(), Y: r.Bottom()},
		{X: r.Left(), Y: r.Bottom()},
	}
}

// TransformBounds returns the axis-aligned bounds of r mapped through m.
// The second result is false if a corner maps behind the camera plane, in
// which case no finite bound exists.
func (r Rect) TransformBounds(m Matrix) (Rect, bool) {
	pts := r.Points()
	return boundsOfPoints(pts[:], m)
}

// RoundOut returns the smallest integer rectangle containing r.
func (r Rect) RoundOut() render.IRect {
	l := math.Floor(r.Left())
	t := math.Floor(r.Top())
	return render.IRect{
		X:      int64(l),
		Y:      int64(t),
		Width:  int64(math.Ceil(r.Right()) - l),
		Height: int64(math.Ceil(r.Bottom()) - t),
	}
}

func boundsOfPoints(points []Point, m Matrix) (Rect, bool) {
	if len(points) == 0 {
		return Rect{}, false
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range points {
		q, ok := m.transformPoint(p)
		if !ok {
			return Rect{}, false
		}
		minX = math.Min(minX, q.X)
		minY = math.Min(minY, q.Y)
		maxX = math.Max(maxX, q.X)
		maxY = math.Max(maxY, q.Y)
	}
	return MakeLTRB(minX, minY, maxX, maxY), true
}
