// path_builder.go

package canvas

import "math"

// arcMagic is the control point distance, relative to the radius, of a
// cubic approximating a quarter circle.
const arcMagic = 0.551915024494

// RoundingRadii are the per-corner radii of a rounded rectangle. X is the
// horizontal radius and Y the vertical one.
type RoundingRadii struct {
	TopLeft     Point
	TopRight    Point
	BottomLeft  Point
	BottomRight Point
}

// UniformRadii returns radii with the same radius r on every corner.
func UniformRadii(r Point) RoundingRadii {
	return RoundingRadii{TopLeft: r, TopRight: r, BottomLeft: r, BottomRight: r}
}

// AreAllZero reports whether no corner is rounded.
func (r RoundingRadii) AreAllZero() bool {
	return r.TopLeft == (Point{}) && r.TopRight == (Point{}) &&
		r.BottomLeft == (Point{}) && r.BottomRight == (Point{})
}

// fit scales the radii down uniformly so that adjacent corners do not
// overlap within a rectangle of the given size. Negative radii become 0.
func (r RoundingRadii) fit(w, h float64) RoundingRadii {
	clampPt := func(p Point) Point { return Point{X: math.Max(p.X, 0), Y: math.Max(p.Y, 0)} }
	r.TopLeft, r.TopRight = clampPt(r.TopLeft), clampPt(r.TopRight)
	r.BottomLeft, r.BottomRight = clampPt(r.BottomLeft), clampPt(r.BottomRight)

	scale := 1.0
	limit := func(sum, side float64) {
		if sum > side && sum > 0 {
			scale = math.Min(scale, side/sum)
		}
	}
	limit(r.TopLeft.X+r.TopRight.X, w)
	limit(r.BottomLeft.X+r.BottomRight.X, w)
	limit(r.TopLeft.Y+r.BottomLeft.Y, h)
	limit(r.TopRight.Y+r.BottomRight.Y, h)
	if scale < 1 {
		r.TopLeft = r.TopLeft.Mul(scale)
		r.TopRight = r.TopRight.Mul(scale)
		r.BottomLeft = r.BottomLeft.Mul(scale)
		r.BottomRight = r.BottomRight.Mul(scale)
	}
	return r
}

// PathBuilder provides a fluent interface for path construction.
// All methods return the builder for chaining. TakePath hands out the
// finished Path and resets the builder.
type PathBuilder struct {
	elements  []PathElement
	start     Point // start of the current contour
	current   Point
	convexity Convexity
}

// NewPathBuilder starts a new path builder.
func NewPathBuilder() *PathBuilder {
	return &PathBuilder{elements: make([]PathElement, 0, 16)}
}

// CurrentPoint returns the current point.
func (b *PathBuilder) CurrentPoint() Point { return b.current }

// MoveTo starts a new contour at p.
func (b *PathBuilder) MoveTo(p Point) *PathBuilder {
	b.current = p
	b.start = p
	b.elements = append(b.elements, MoveTo{Point: p})
	return b
}

// RelMoveTo starts a new contour at the current point offset by d.
func (b *PathBuilder) RelMoveTo(d Point) *PathBuilder {
	return b.MoveTo(b.current.Add(d))
}

// LineTo draws a line to p.
func (b *PathBuilder) LineTo(p Point) *PathBuilder {
	b.elements = append(b.elements, LineTo{Point: p})
	b.current = p
	return b
}

// RelLineTo draws a line to the current point offset by d.
func (b *PathBuilder) RelLineTo(d Point) *PathBuilder {
	return b.LineTo(b.current.Add(d))
}

// HorizontalLineTo draws a horizontal line to x.
func (b *PathBuilder) HorizontalLineTo(x float64) *PathBuilder {
	return b.LineTo(Point{X: x, Y: b.current.Y})
}

// RelHorizontalLineTo draws a horizontal line of length dx.
func (b *PathBuilder) RelHorizontalLineTo(dx float64) *PathBuilder {
	return b.LineTo(Point{X: b.current.X + dx, Y: b.current.Y})
}

// VerticalLineTo draws a vertical line to y.
func (b *PathBuilder) VerticalLineTo(y float64) *PathBuilder {
	return b.LineTo(Point{X: b.current.X, Y: y})
}

// RelVerticalLineTo draws a vertical line of length dy.
func (b *PathBuilder) RelVerticalLineTo(dy float64) *PathBuilder {
	return b.LineTo(Point{X: b.current.X, Y: b.current.Y + dy})
}

// QuadraticCurveTo draws a quadratic Bezier curve.
func (b *PathBuilder) QuadraticCurveTo(control, p Point) *PathBuilder {
	b.elements = append(b.elements, QuadTo{Control: control, Point: p})
	b.current = p
	return b
}

// RelQuadraticCurveTo is QuadraticCurveTo with both points relative to
// the current point.
func (b *PathBuilder) RelQuadraticCurveTo(control, p Point) *PathBuilder {
	return b.QuadraticCurveTo(b.current.Add(control), b.current.Add(p))
}

// CubicCurveTo draws a cubic Bezier curve.
func (b *PathBuilder) CubicCurveTo(control1, control2, p Point) *PathBuilder {
	b.elements = append(b.elements, CubicTo{Control1: control1, Control2: control2, Point: p})
	b.current = p
	return b
}

// RelCubicCurveTo is CubicCurveTo with all points relative to the current
// point.
func (b *PathBuilder) RelCubicCurveTo(control1, control2, p Point) *PathBuilder {
	c := b.current
	return b.CubicCurveTo(c.Add(control1), c.Add(control2), c.Add(p))
}

// Close draws a line back to the start of the contour and closes it.
func (b *PathBuilder) Close() *PathBuilder {
	b.LineTo(b.start)
	b.elements = append(b.elements, Close{})
	return b
}

// AddRect adds a closed rectangle, clockwise from the top-left corner.
func (b *PathBuilder) AddRect(r Rect) *PathBuilder {
	pts := r.Points()
	b.MoveTo(pts[0])
	b.LineTo(pts[1])
	b.LineTo(pts[2])
	b.LineTo(pts[3])
	return b.Close()
}

// AddRoundedRect adds a closed rectangle with rounded corners. Radii that
// do not fit are scaled down; all-zero radii add a plain rectangle.
func (b *PathBuilder) AddRoundedRect(r Rect, radii RoundingRadii) *PathBuilder {
	radii = radii.fit(r.W, r.H)
	if radii.AreAllZero() {
		return b.AddRect(r)
	}
	l, t, rt, bt := r.Left(), r.Top(), r.Right(), r.Bottom()

	b.MoveTo(Pt(l+radii.TopLeft.X, t))
	b.LineTo(Pt(rt-radii.TopRight.X, t))
	b.corner(Pt(rt-radii.TopRight.X, t+radii.TopRight.Y), radii.TopRight, Pt(0, -1), Pt(1, 0))
	b.LineTo(Pt(rt, bt-radii.BottomRight.Y))
	b.corner(Pt(rt-radii.BottomRight.X, bt-radii.BottomRight.Y), radii.BottomRight, Pt(1, 0), Pt(0, 1))
	b.LineTo(Pt(l+radii.BottomLeft.X, bt))
	b.corner(Pt(l+radii.BottomLeft.X, bt-radii.BottomLeft.Y), radii.BottomLeft, Pt(0, 1), Pt(-1, 0))
	b.LineTo(Pt(l, t+radii.TopLeft.Y))
	b.corner(Pt(l+radii.TopLeft.X, t+radii.TopLeft.Y), radii.TopLeft, Pt(-1, 0), Pt(0, -1))
	return b.Close()
}

// corner adds a quarter ellipse around center from direction from to
// direction to. Both directions are unit axis vectors.
func (b *PathBuilder) corner(center, radius, from, to Point) {
	scale := func(u Point) Point { return Point{X: u.X * radius.X, Y: u.Y * radius.Y} }
	p1 := center.Add(scale(from))
	p2 := center.Add(scale(to))
	if p1 == p2 {
		return
	}
	cp1 := p1.Add(scale(to).Mul(arcMagic))
	cp2 := p2.Add(scale(from).Mul(arcMagic))
	b.CubicCurveTo(cp1, cp2, p2)
}

// AddOval adds a closed ellipse inscribed in r, starting at the top
// center and running clockwise.
func (b *PathBuilder) AddOval(r Rect) *PathBuilder {
	rx, ry := r.W/2, r.H/2
	c := Pt(r.X+rx, r.Y+ry)
	mx, my := rx*arcMagic, ry*arcMagic

	b.MoveTo(Pt(c.X, c.Y-ry))
	b.CubicCurveTo(Pt(c.X+mx, c.Y-ry), Pt(c.X+rx, c.Y-my), Pt(c.X+rx, c.Y))
	b.CubicCurveTo(Pt(c.X+rx, c.Y+my), Pt(c.X+mx, c.Y+ry), Pt(c.X, c.Y+ry))
	b.CubicCurveTo(Pt(c.X-mx, c.Y+ry), Pt(c.X-rx, c.Y+my), Pt(c.X-rx, c.Y))
	b.CubicCurveTo(Pt(c.X-rx, c.Y-my), Pt(c.X-mx, c.Y-ry), Pt(c.X, c.Y-ry))
	return b.Close()
}

// AddCircle adds a closed circle.
func (b *PathBuilder) AddCircle(center Point, radius float64) *PathBuilder {
	return b.AddOval(MakeXYWH(center.X-radius, center.Y-radius, 2*radius, 2*radius))
}

// AddLine adds an open contour with a single segment.
func (b *PathBuilder) AddLine(p1, p2 Point) *PathBuilder {
	return b.MoveTo(p1).LineTo(p2)
}

// AddArc adds an elliptical arc of the oval inscribed in ovalBounds,
// starting at angle start and sweeping sweep radians clockwise. A
// negative sweep runs the other way. With useCenter the arc becomes a
// closed wedge through the center.
func (b *PathBuilder) AddArc(ovalBounds Rect, start, sweep Radians, useCenter bool) *PathBuilder {
	s, sw := float64(start), float64(sweep)
	if sw < 0 {
		s += sw
		sw = -sw
	}
	sw = math.Min(sw, 2*math.Pi)
	s = math.Mod(s, 2*math.Pi)

	radius := Pt(ovalBounds.W/2, ovalBounds.H/2)
	center := Pt(ovalBounds.X+radius.X, ovalBounds.Y+radius.Y)
	onOval := func(u Point) Point { return center.Add(Point{X: u.X * radius.X, Y: u.Y * radius.Y}) }

	sin, cos := math.Sincos(s)
	u1 := Pt(cos, sin)
	if useCenter {
		b.MoveTo(center)
		b.LineTo(onOval(u1))
	} else {
		b.MoveTo(onOval(u1))
	}

	for sw > 0 {
		angle := math.Min(sw, math.Pi/2)
		var u2 Point
		if angle < math.Pi/2 {
			sin, cos = math.Sincos(s + angle)
			u2 = Pt(cos, sin)
		} else {
			u2 = Pt(-u1.Y, u1.X)
		}
		k := angle / (math.Pi / 2) * arcMagic
		p1, p2 := onOval(u1), onOval(u2)
		cp1 := p1.Add(Point{X: -u1.Y * radius.X * k, Y: u1.X * radius.Y * k})
		cp2 := p2.Add(Point{X: u2.Y * radius.X * k, Y: -u2.X * radius.Y * k})
		b.CubicCurveTo(cp1, cp2, p2)

		s += angle
		sw -= angle
		u1 = u2
	}

	if useCenter {
		b.Close()
	}
	return b
}

// AddPath appends the elements of p.
func (b *PathBuilder) AddPath(p *Path) *PathBuilder {
	for _, elem := range p.Elements() {
		switch e := elem.(type) {
		case MoveTo:
			b.MoveTo(e.Point)
		case LineTo:
			b.LineTo(e.Point)
		case QuadTo:
			b.QuadraticCurveTo(e.Control, e.Point)
		case CubicTo:
			b.CubicCurveTo(e.Control1, e.Control2, e.Point)
		case Close:
			b.elements = append(b.elements, e)
		}
	}
	return b
}

// SetConvexity sets the convexity hint of the path being built.
func (b *PathBuilder) SetConvexity(c Convexity) *PathBuilder {
	b.convexity = c
	return b
}

// CopyPath returns the path built so far without resetting the builder.
func (b *PathBuilder) CopyPath(fill FillType) *Path {
	p := &Path{
		elements:  append([]PathElement(nil), b.elements...),
		fill:      fill,
		convexity: b.convexity,
	}
	p.computeBounds()
	return p
}

// TakePath returns the path built so far and resets the builder.
func (b *PathBuilder) TakePath(fill FillType) *Path {
	p := &Path{
		elements:  b.elements,
		fill:      fill,
		convexity: b.convexity,
	}
	p.computeBounds()
	*b = PathBuilder{elements: make([]PathElement, 0, 16)}
	return p
}
