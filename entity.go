package canvas

import (
	"math"

	"github.com/gogpu/canvas/render"
)

// ClipOperation selects how a clip shape combines with the active clip.
type ClipOperation uint8

const (
	// ClipIntersect keeps only what lies inside the shape.
	ClipIntersect ClipOperation = iota
	// ClipDifference removes what lies inside the shape.
	ClipDifference
)

// String returns the operation name.
func (op ClipOperation) String() string {
	if op == ClipDifference {
		return "difference"
	}
	return "intersect"
}

// EntityKind identifies what an entity does when replayed.
type EntityKind uint8

const (
	// EntityDraw draws its geometry with its paint.
	EntityDraw EntityKind = iota
	// EntityClip applies its geometry as a clip.
	EntityClip
	// EntityRestoreClip undoes the clips of a closed save scope, back to
	// the entity's clip depth.
	EntityRestoreClip
)

var entityKindNames = [...]string{
	EntityDraw:        "draw",
	EntityClip:        "clip",
	EntityRestoreClip: "restore-clip",
}

// String returns the kind name.
func (k EntityKind) String() string {
	if int(k) < len(entityKindNames) {
		return entityKindNames[k]
	}
	return "unknown"
}

// Geometry is the local-space shape of an entity.
type Geometry interface {
	// Coverage returns the local-space bounds of the geometry. It returns
	// false when the geometry is unbounded.
	Coverage() (Rect, bool)
}

// RectGeometry is an axis-aligned rectangle.
type RectGeometry struct {
	Rect Rect
}

// Coverage returns the rectangle.
func (g RectGeometry) Coverage() (Rect, bool) { return g.Rect, true }

// RRectGeometry is a rectangle with uniformly rounded corners.
type RRectGeometry struct {
	Rect   Rect
	Radius Point
}

// Coverage returns the rectangle.
func (g RRectGeometry) Coverage() (Rect, bool) { return g.Rect, true }

// OvalGeometry is the ellipse inscribed in Rect.
type OvalGeometry struct {
	Rect Rect
}

// Coverage returns the bounding rectangle of the ellipse.
func (g OvalGeometry) Coverage() (Rect, bool) { return g.Rect, true }

// LineGeometry is a single segment, drawn with the paint's stroke.
type LineGeometry struct {
	P0, P1 Point
}

// Coverage returns the bounds of the two end points.
func (g LineGeometry) Coverage() (Rect, bool) {
	return MakeLTRB(
		math.Min(g.P0.X, g.P1.X), math.Min(g.P0.Y, g.P1.Y),
		math.Max(g.P0.X, g.P1.X), math.Max(g.P0.Y, g.P1.Y),
	), true
}

// PathGeometry is an arbitrary path.
type PathGeometry struct {
	Path *Path
}

// Coverage returns the path bounds.
func (g PathGeometry) Coverage() (Rect, bool) { return g.Path.Bounds() }

// CoverGeometry covers everything. It is used by DrawPaint.
type CoverGeometry struct{}

// Coverage reports an unbounded geometry.
func (CoverGeometry) Coverage() (Rect, bool) { return Rect{}, false }

// PointStyle is the shape DrawPoints draws at each point.
type PointStyle uint8

const (
	PointRound PointStyle = iota
	PointSquare
)

// PointsGeometry is a set of round or square points.
type PointsGeometry struct {
	Points []Point
	Radius float64
	Style  PointStyle
}

// Coverage returns the bounds of the points grown by the radius.
func (g PointsGeometry) Coverage() (Rect, bool) {
	b, ok := boundsOfPoints(g.Points, Identity())
	if !ok {
		return Rect{}, false
	}
	return b.Expand(g.Radius, g.Radius), true
}

// Image is a sampled texture drawn by DrawImage, DrawImageRect and
// DrawAtlas. The caller keeps the texture alive while pictures that
// reference it are in use.
type Image struct {
	texture *render.Texture
}

// NewImage wraps a texture.
func NewImage(tex *render.Texture) *Image {
	return &Image{texture: tex}
}

// Texture returns the wrapped texture.
func (i *Image) Texture() *render.Texture { return i.texture }

// Size returns the image size in pixels.
func (i *Image) Size() render.ISize { return i.texture.Size() }

// Bounds returns the image rectangle at the origin.
func (i *Image) Bounds() Rect { return MakeSize(i.Size()) }

// TextureGeometry samples Source of an image into Dest.
type TextureGeometry struct {
	Image   *Image
	Source  Rect
	Dest    Rect
	Sampler render.SamplerDescriptor
}

// Coverage returns the destination rectangle.
func (g TextureGeometry) Coverage() (Rect, bool) { return g.Dest, true }

// TextGeometry is a text frame placed at Position.
type TextGeometry struct {
	Frame    *TextFrame
	Position Point
}

// Coverage returns the frame's ink bounds at the position.
func (g TextGeometry) Coverage() (Rect, bool) {
	return g.Frame.InkBounds().Shift(g.Position), true
}

// VertexMode is the primitive topology of Vertices.
type VertexMode uint8

const (
	VertexTriangles VertexMode = iota
	VertexTriangleStrip
	VertexTriangleFan
)

// Vertices is a user supplied mesh. TexCoords and Colors are either empty
// or parallel to Positions; Indices may be empty.
type Vertices struct {
	Mode      VertexMode
	Positions []Point
	TexCoords []Point
	Colors    []Color
	Indices   []uint16
}

// Coverage returns the bounds of the positions.
func (v *Vertices) Coverage() (Rect, bool) {
	return boundsOfPoints(v.Positions, Identity())
}

// VerticesGeometry draws a mesh, blending per-vertex colors with the
// paint color using BlendMode.
type VerticesGeometry struct {
	Vertices  *Vertices
	BlendMode BlendMode
}

// Coverage returns the mesh bounds.
func (g VerticesGeometry) Coverage() (Rect, bool) { return g.Vertices.Coverage() }

// AtlasGeometry draws sprites from an atlas image. Sprite i samples
// TexCoords[i] and is placed with Transforms[i].
type AtlasGeometry struct {
	Atlas      *Image
	Transforms []Matrix
	TexCoords  []Rect
	Colors     []Color
	BlendMode  BlendMode
	Sampler    render.SamplerDescriptor
	CullRect   *Rect
}

// Coverage returns CullRect if set, else the union of every sprite's
// transformed bounds.
func (g AtlasGeometry) Coverage() (Rect, bool) {
	if g.CullRect != nil {
		return *g.CullRect, true
	}
	var out Rect
	found := false
	for i, tc := range g.TexCoords {
		if i >= len(g.Transforms) {
			break
		}
		b, ok := MakeXYWH(0, 0, tc.W, tc.H).TransformBounds(g.Transforms[i])
		if !ok {
			return Rect{}, false
		}
		if !found {
			out, found = b, true
			continue
		}
		out = out.Union(b)
	}
	return out, found
}

// Entity is one recorded operation of a pass: a draw, a clip, or the end
// of a clip scope.
type Entity struct {
	Kind      EntityKind
	Transform Matrix
	Geometry  Geometry
	Paint     Paint

	// ClipOp is the clip operation of EntityClip entities.
	ClipOp ClipOperation
	// ClipDepth is the stack clip depth the entity was recorded at.
	ClipDepth uint32
}

// Coverage returns the device-space bounds the entity can touch, stroke
// included. It returns false when the entity is unbounded, which includes
// every draw with an image filter.
func (e *Entity) Coverage() (Rect, bool) {
	if e.Geometry == nil || e.Paint.ImageFilter != nil {
		return Rect{}, false
	}
	local, ok := e.Geometry.Coverage()
	if !ok {
		return Rect{}, false
	}
	o := e.Paint.strokeOutset()
	if _, ok := e.Geometry.(LineGeometry); ok {
		o = e.Paint.lineOutset()
	}
	if o > 0 {
		local = local.Expand(o, o)
	}
	return local.TransformBounds(e.Transform)
}
