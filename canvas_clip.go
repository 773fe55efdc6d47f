package canvas

// ClipRect restricts drawing to, or away from, a rectangle in local
// coordinates.
func (c *Canvas) ClipRect(r Rect, op ClipOperation) {
	if !c.active("ClipRect") {
		return
	}
	c.clipGeometry(RectGeometry{Rect: r}, op)
	switch op {
	case ClipIntersect:
		c.intersectCulling(r)
	case ClipDifference:
		c.subtractCulling(r)
	}
}

// ClipRRect clips with a rounded rectangle. Zero radii clip with the plain
// rectangle.
func (c *Canvas) ClipRRect(r Rect, radii Point, op ClipOperation) {
	if radii.X <= 0 || radii.Y <= 0 {
		c.ClipRect(r, op)
		return
	}
	if !c.active("ClipRRect") {
		return
	}
	c.clipGeometry(RRectGeometry{Rect: r, Radius: radii}, op)
	if op == ClipIntersect {
		c.intersectCulling(r)
	}
}

// ClipPath clips with a path.
func (c *Canvas) ClipPath(p *Path, op ClipOperation) {
	if !c.active("ClipPath") {
		return
	}
	c.clipGeometry(PathGeometry{Path: p}, op)
	if op != ClipIntersect {
		return
	}
	if b, ok := p.Bounds(); ok {
		c.intersectCulling(b)
		return
	}
	// Intersecting with an empty path leaves nothing visible.
	c.top().CullRect = &Rect{}
}

// clipGeometry records a clip entity at the current clip depth and moves
// the scope one clip deeper.
func (c *Canvas) clipGeometry(g Geometry, op ClipOperation) {
	top := c.top()
	e := &Entity{
		Kind:      EntityClip,
		Transform: top.Transform,
		Geometry:  g,
		Paint:     NewPaint(),
		ClipOp:    op,
		ClipDepth: top.ClipDepth,
	}
	if err := c.tree.addEntity(c.current, e); err != nil {
		c.log().Warn("canvas: clip dropped", "err", err)
		return
	}
	top.ClipDepth++
	top.ContainsClips = true
}

// restoreClip records that replay must drop every clip deeper than the
// now current scope.
func (c *Canvas) restoreClip() {
	top := c.top()
	e := &Entity{
		Kind:      EntityRestoreClip,
		Transform: top.Transform,
		Geometry:  CoverGeometry{},
		Paint:     NewPaint(),
		ClipDepth: top.ClipDepth,
	}
	if err := c.tree.addEntity(c.current, e); err != nil {
		c.log().Warn("canvas: restore clip dropped", "err", err)
	}
}

// intersectCulling shrinks the cull rect to the device bounds of a local
// rectangle. A bound that cannot be computed leaves the cull rect as is.
func (c *Canvas) intersectCulling(local Rect) {
	top := c.top()
	dev, ok := local.TransformBounds(top.Transform)
	if !ok {
		return
	}
	if top.CullRect == nil {
		top.CullRect = &dev
		return
	}
	r, _ := top.CullRect.Intersection(dev)
	top.CullRect = &r
}

// subtractCulling removes a local rectangle from the cull rect where the
// result is still a rectangle. Only transforms that keep rectangles
// axis-aligned are considered; an unbounded cull rect stays unbounded.
func (c *Canvas) subtractCulling(local Rect) {
	top := c.top()
	if top.CullRect == nil || !top.Transform.IsTranslationScaleOnly() {
		return
	}
	dev, ok := local.TransformBounds(top.Transform)
	if !ok {
		return
	}
	r := top.CullRect.Cutout(dev)
	top.CullRect = &r
}
