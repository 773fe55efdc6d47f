package canvas

import "math"

// PathElement represents a single element in a path.
type PathElement interface {
	isPathElement()
}

// MoveTo starts a new contour at a point.
type MoveTo struct {
	Point Point
}

func (MoveTo) isPathElement() {}

// LineTo draws a line to a point.
type LineTo struct {
	Point Point
}

func (LineTo) isPathElement() {}

// QuadTo draws a quadratic Bezier curve.
type QuadTo struct {
	Control Point
	Point   Point
}

func (QuadTo) isPathElement() {}

// CubicTo draws a cubic Bezier curve.
type CubicTo struct {
	Control1 Point
	Control2 Point
	Point    Point
}

func (CubicTo) isPathElement() {}

// Close closes the current contour.
type Close struct{}

func (Close) isPathElement() {}

// FillType specifies how to determine which areas are inside a path.
type FillType uint8

const (
	// FillNonZero uses the non-zero winding rule.
	FillNonZero FillType = iota
	// FillOdd uses the even-odd rule.
	FillOdd
)

// String returns the fill type name.
func (f FillType) String() string {
	if f == FillOdd {
		return "odd"
	}
	return "nonzero"
}

// Convexity is a hint about the shape of a path. Unknown paths are
// treated as possibly concave.
type Convexity uint8

const (
	ConvexityUnknown Convexity = iota
	ConvexityConvex
)

// Path is an immutable vector path built with a PathBuilder.
type Path struct {
	elements  []PathElement
	fill      FillType
	convexity Convexity

	bounds    Rect
	hasBounds bool
}

// Elements returns the path elements. The slice must not be modified.
func (p *Path) Elements() []PathElement {
	if p == nil {
		return nil
	}
	return p.elements
}

// FillType returns the fill rule of the path.
func (p *Path) FillType() FillType { return p.fill }

// Convexity returns the convexity hint of the path.
func (p *Path) Convexity() Convexity { return p.convexity }

// IsConvex reports whether the path is known to be convex.
func (p *Path) IsConvex() bool { return p.convexity == ConvexityConvex }

// IsEmpty reports whether the path has no drawing elements.
func (p *Path) IsEmpty() bool {
	if p == nil {
		return true
	}
	for _, e := range p.elements {
		if _, ok := e.(MoveTo); !ok {
			return false
		}
	}
	return true
}

// Bounds returns the bounding box of the path's points, control points
// included. It returns false for an empty path.
func (p *Path) Bounds() (Rect, bool) {
	if p == nil {
		return Rect{}, false
	}
	return p.bounds, p.hasBounds
}

// TransformedBounds returns the bounds of the path mapped through m.
func (p *Path) TransformedBounds(m Matrix) (Rect, bool) {
	b, ok := p.Bounds()
	if !ok {
		return Rect{}, false
	}
	return b.TransformBounds(m)
}

// Transform returns a copy of the path with every point mapped through m.
// Projective transforms do not preserve convexity, so the copy's
// convexity is only kept for affine m.
func (p *Path) Transform(m Matrix) *Path {
	out := &Path{
		elements: make([]PathElement, 0, len(p.elements)),
		fill:     p.fill,
	}
	if !m.HasPerspective() {
		out.convexity = p.convexity
	}
	for _, elem := range p.elements {
		switch e := elem.(type) {
		case MoveTo:
			out.elements = append(out.elements, MoveTo{Point: m.TransformPoint(e.Point)})
		case LineTo:
			out.elements = append(out.elements, LineTo{Point: m.TransformPoint(e.Point)})
		case QuadTo:
			out.elements = append(out.elements, QuadTo{
				Control: m.TransformPoint(e.Control),
				Point:   m.TransformPoint(e.Point),
			})
		case CubicTo:
			out.elements = append(out.elements, CubicTo{
				Control1: m.TransformPoint(e.Control1),
				Control2: m.TransformPoint(e.Control2),
				Point:    m.TransformPoint(e.Point),
			})
		case Close:
			out.elements = append(out.elements, e)
		}
	}
	out.computeBounds()
	return out
}

// Shift returns a copy of the path translated by offset.
func (p *Path) Shift(offset Point) *Path {
	return p.Transform(MakeTranslation(Vector3{X: offset.X, Y: offset.Y}))
}

// Clone returns a deep copy of the path.
func (p *Path) Clone() *Path {
	out := *p
	out.elements = append([]PathElement(nil), p.elements...)
	return &out
}

func (p *Path) computeBounds() {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	add := func(pt Point) {
		minX = math.Min(minX, pt.X)
		minY = math.Min(minY, pt.Y)
		maxX = math.Max(maxX, pt.X)
		maxY = math.Max(maxY, pt.Y)
	}
	for _, elem := range p.elements {
		switch e := elem.(type) {
		case MoveTo:
			add(e.Point)
		case LineTo:
			add(e.Point)
		case QuadTo:
			add(e.Control)
			add(e.Point)
		case CubicTo:
			add(e.Control1)
			add(e.Control2)
			add(e.Point)
		}
	}
	if minX > maxX {
		p.bounds, p.hasBounds = Rect{}, false
		return
	}
	p.bounds = MakeLTRB(minX, minY, maxX, maxY)
	p.hasBounds = true
}
