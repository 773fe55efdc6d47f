// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

// PassBindingsCache filters redundant state changes within one command
// buffer. Each category remembers the last value set and skips the call
// when asked to set it again.
type PassBindingsCache struct {
	pipeline Pipeline

	viewport    ViewportState
	hasViewport bool

	scissor    IRect
	hasScissor bool

	stencilRef    uint32
	hasStencilRef bool
}

// BindPipeline binds p unless it is already bound.
func (c *PassBindingsCache) BindPipeline(rec CommandRecorder, p Pipeline) {
	if c.pipeline != nil && c.pipeline == p {
		return
	}
	rec.BindPipeline(p)
	c.pipeline = p
}

// SetViewport sets v unless it is already set.
func (c *PassBindingsCache) SetViewport(rec CommandRecorder, v ViewportState) {
	if c.hasViewport && c.viewport == v {
		return
	}
	rec.SetViewport(v)
	c.viewport, c.hasViewport = v, true
}

// SetScissor sets r unless it is already set.
func (c *PassBindingsCache) SetScissor(rec CommandRecorder, r IRect) {
	if c.hasScissor && c.scissor == r {
		return
	}
	rec.SetScissor(r)
	c.scissor, c.hasScissor = r, true
}

// SetStencilReference sets ref unless it is already set.
func (c *PassBindingsCache) SetStencilReference(rec CommandRecorder, ref uint32) {
	if c.hasStencilRef && c.stencilRef == ref {
		return
	}
	rec.SetStencilReference(ref)
	c.stencilRef, c.hasStencilRef = ref, true
}

// Reset forgets all cached state.
func (c *PassBindingsCache) Reset() {
	*c = PassBindingsCache{}
}
