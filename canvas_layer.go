package canvas

// SaveLayer saves the state like Save and opens a layer: a subpass that
// collects the following draws until the matching Restore composites it
// into the parent with paint.
//
// The layer renders offscreen when paint needs isolation or a backdrop
// filter is given. bounds, in local coordinates, limits the layer; when
// nil the current cull rect is used. When nothing can be visible (the
// cull rect is empty) SaveLayer degrades to a plain Save.
func (c *Canvas) SaveLayer(paint Paint, bounds *Rect, backdrop ImageFilter) {
	if !c.active("SaveLayer") {
		return
	}
	top := c.top()
	if top.CullRect != nil && top.CullRect.IsEmpty() {
		c.push(RenderingDirect)
		return
	}

	var limit *Rect
	if top.CullRect != nil {
		r := *top.CullRect
		limit = &r
	}
	if bounds != nil {
		if b, ok := bounds.TransformBounds(top.Transform); ok {
			if limit != nil {
				b, _ = b.Intersection(*limit)
			}
			limit = &b
		}
	}

	pass, err := c.tree.addSubpass(c.current)
	if err != nil {
		c.log().Warn("canvas: SaveLayer failed", "err", err)
		c.push(RenderingDirect)
		return
	}
	pass.Delegate = paint
	pass.BackdropFilter = backdrop
	pass.Offscreen = paint.RequiresOffscreen() || backdrop != nil
	pass.ClipDepth = top.ClipDepth
	pass.Bounds = limit

	mode := RenderingOnscreenSubpass
	if pass.Offscreen {
		mode = RenderingOffscreenSubpass
	}
	c.push(mode)
	c.current = pass.id
	c.log().Debug("canvas: layer opened",
		"pass", pass.id, "offscreen", pass.Offscreen, "blend", paint.BlendMode)
}

// closeSubpass seals the current pass and makes its parent current.
func (c *Canvas) closeSubpass() {
	pass, err := c.tree.get(c.current)
	if err != nil {
		c.log().Warn("canvas: closing layer failed", "err", err)
		return
	}
	if err := c.tree.seal(c.current); err != nil {
		c.log().Warn("canvas: closing layer failed", "err", err)
	}
	c.current = pass.parent
}
