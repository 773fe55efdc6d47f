package canvas

import (
	"errors"
	"fmt"

	"github.com/gogpu/canvas/render"
)

// ErrInvalidGeometry is reported for draws with non-finite coordinates or
// negative radii.
var ErrInvalidGeometry = errors.New("canvas: invalid geometry")

// aaMargin is how far, in device pixels, antialiasing may spill past the
// exact coverage of a draw.
const aaMargin = 1

// addDraw validates a draw and appends it to the current pass unless the
// cull rect proves it invisible.
func (c *Canvas) addDraw(op string, g Geometry, paint Paint, geomErr error) {
	if !c.active(op) {
		return
	}
	if geomErr != nil {
		c.log().Warn("canvas: draw rejected", "op", op, "err", geomErr)
		return
	}
	if err := paint.Validate(); err != nil {
		c.log().Warn("canvas: draw rejected", "op", op, "err", err)
		return
	}

	top := c.top()
	e := &Entity{
		Kind:      EntityDraw,
		Transform: top.Transform,
		Geometry:  g,
		Paint:     paint,
		ClipDepth: top.ClipDepth,
	}
	if cull := top.CullRect; cull != nil {
		if cull.IsEmpty() {
			return
		}
		if cov, ok := e.Coverage(); ok && !cov.Expand(aaMargin, aaMargin).IntersectsWith(*cull) {
			return
		}
	}
	if err := c.tree.addEntity(c.current, e); err != nil {
		c.log().Warn("canvas: draw dropped", "op", op, "err", err)
	}
}

func checkRadius(r float64) error {
	if !isFinite(r) || r < 0 {
		return fmt.Errorf("%w: radius %v", ErrInvalidGeometry, r)
	}
	return nil
}

func checkRect(r Rect) error {
	if !r.IsFinite() {
		return fmt.Errorf("%w: rect %v", ErrInvalidGeometry, r)
	}
	return nil
}

// DrawPath draws a path.
func (c *Canvas) DrawPath(p *Path, paint Paint) {
	if p == nil {
		return
	}
	c.addDraw("DrawPath", PathGeometry{Path: p}, paint, nil)
}

// DrawPaint fills everything the clip leaves visible with paint.
func (c *Canvas) DrawPaint(paint Paint) {
	c.addDraw("DrawPaint", CoverGeometry{}, paint, nil)
}

// DrawLine draws a segment using the paint's stroke settings.
func (c *Canvas) DrawLine(p0, p1 Point, paint Paint) {
	err := paint.validateStroke()
	if !p0.IsFinite() || !p1.IsFinite() {
		err = fmt.Errorf("%w: line %v-%v", ErrInvalidGeometry, p0, p1)
	}
	c.addDraw("DrawLine", LineGeometry{P0: p0, P1: p1}, paint, err)
}

// DrawRect draws a rectangle.
func (c *Canvas) DrawRect(r Rect, paint Paint) {
	c.addDraw("DrawRect", RectGeometry{Rect: r}, paint, checkRect(r))
}

// DrawRRect draws a rectangle with corners rounded by radii. Zero radii
// draw a plain rectangle.
func (c *Canvas) DrawRRect(r Rect, radii Point, paint Paint) {
	if radii.X <= 0 || radii.Y <= 0 {
		c.DrawRect(r, paint)
		return
	}
	err := checkRect(r)
	if err == nil && !radii.IsFinite() {
		err = fmt.Errorf("%w: radii %v", ErrInvalidGeometry, radii)
	}
	c.addDraw("DrawRRect", RRectGeometry{Rect: r, Radius: radii}, paint, err)
}

// DrawCircle draws a circle.
func (c *Canvas) DrawCircle(center Point, radius float64, paint Paint) {
	err := checkRadius(radius)
	if err == nil && !center.IsFinite() {
		err = fmt.Errorf("%w: center %v", ErrInvalidGeometry, center)
	}
	oval := MakeXYWH(center.X-radius, center.Y-radius, 2*radius, 2*radius)
	c.addDraw("DrawCircle", OvalGeometry{Rect: oval}, paint, err)
}

// DrawPoints draws a round or square point of the given radius at each
// point.
func (c *Canvas) DrawPoints(points []Point, radius float64, paint Paint, style PointStyle) {
	if len(points) == 0 {
		return
	}
	pts := append([]Point(nil), points...)
	c.addDraw("DrawPoints", PointsGeometry{Points: pts, Radius: radius, Style: style}, paint, checkRadius(radius))
}

// DrawImage draws image with its top-left corner at offset.
func (c *Canvas) DrawImage(image *Image, offset Point, paint Paint, sampler render.SamplerDescriptor) {
	if image == nil {
		return
	}
	src := image.Bounds()
	c.DrawImageRect(image, src, src.Shift(offset), paint, sampler)
}

// DrawImageRect draws the source rectangle of image into dest.
func (c *Canvas) DrawImageRect(image *Image, source, dest Rect, paint Paint, sampler render.SamplerDescriptor) {
	if image == nil || source.IsEmpty() || dest.IsEmpty() {
		return
	}
	err := checkRect(source)
	if err == nil {
		err = checkRect(dest)
	}
	c.addDraw("DrawImageRect", TextureGeometry{
		Image:   image,
		Source:  source,
		Dest:    dest,
		Sampler: sampler,
	}, paint, err)
}

// DrawTextFrame draws pre-shaped text with its baseline origin at
// position.
func (c *Canvas) DrawTextFrame(frame *TextFrame, position Point, paint Paint) {
	if frame == nil {
		return
	}
	c.addDraw("DrawTextFrame", TextGeometry{Frame: frame, Position: position}, paint, nil)
}

// DrawVertices draws a mesh. Per-vertex colors are blended with the paint
// color using mode.
func (c *Canvas) DrawVertices(vertices *Vertices, mode BlendMode, paint Paint) {
	if vertices == nil || len(vertices.Positions) == 0 {
		return
	}
	var err error
	for _, p := range vertices.Positions {
		if !p.IsFinite() {
			err = fmt.Errorf("%w: vertex %v", ErrInvalidGeometry, p)
			break
		}
	}
	c.addDraw("DrawVertices", VerticesGeometry{Vertices: vertices, BlendMode: mode}, paint, err)
}

// DrawAtlas draws sprites cut from atlas. Sprite i samples texCoords[i],
// is placed by transforms[i] and, when colors is not empty, is blended
// with colors[i] using mode. cullRect, when set, is the local bound of
// all sprites.
func (c *Canvas) DrawAtlas(
	atlas *Image,
	transforms []Matrix,
	texCoords []Rect,
	colors []Color,
	mode BlendMode,
	sampler render.SamplerDescriptor,
	cullRect *Rect,
	paint Paint,
) {
	if atlas == nil || len(texCoords) == 0 {
		return
	}
	var err error
	switch {
	case len(transforms) != len(texCoords):
		err = fmt.Errorf("%w: %d transforms for %d sprites", ErrInvalidGeometry, len(transforms), len(texCoords))
	case len(colors) != 0 && len(colors) != len(texCoords):
		err = fmt.Errorf("%w: %d colors for %d sprites", ErrInvalidGeometry, len(colors), len(texCoords))
	}
	g := AtlasGeometry{
		Atlas:      atlas,
		Transforms: append([]Matrix(nil), transforms...),
		TexCoords:  append([]Rect(nil), texCoords...),
		Colors:     append([]Color(nil), colors...),
		BlendMode:  mode,
		Sampler:    sampler,
	}
	if cullRect != nil {
		r := *cullRect
		g.CullRect = &r
	}
	c.addDraw("DrawAtlas", g, paint, err)
}

// DrawPicture replays picture into the current pass under the current
// transform and clip depth. Clips the picture leaves applied are undone
// when the replay ends.
func (c *Canvas) DrawPicture(picture *Picture) {
	if picture == nil || !c.active("DrawPicture") {
		return
	}
	if cull := c.top().CullRect; cull != nil && cull.IsEmpty() {
		return
	}
	count := c.GetSaveCount()
	c.Save()
	top := c.top()
	if err := c.tree.copyInto(c.current, picture.tree, picture.tree.root, top.Transform, top.ClipDepth); err != nil {
		c.log().Warn("canvas: DrawPicture failed", "err", err)
	}
	if picture.clipDepth > 0 {
		top.ClipDepth += picture.clipDepth
		top.ContainsClips = true
	}
	c.RestoreToCount(count)
}
