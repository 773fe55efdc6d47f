// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

// Attachment is one slot of a render target.
type Attachment struct {
	// Texture is the image rendered into.
	Texture *Texture

	// ResolveTexture, if set, receives the multisample resolve of Texture.
	ResolveTexture *Texture

	LoadAction  LoadAction
	StoreAction StoreAction
}

// IsValid reports whether the attachment can be used in a pass: it must
// have a live texture, and a resolve texture implies a multisampled primary
// with a single-sampled resolve of the same size and format.
func (a Attachment) IsValid() bool {
	if a.Texture == nil || a.Texture.IsReleased() {
		return false
	}
	if a.ResolveTexture == nil {
		return true
	}
	if a.ResolveTexture.IsReleased() {
		return false
	}
	if !a.Texture.IsMultisampled() || a.ResolveTexture.IsMultisampled() {
		return false
	}
	pd, rd := a.Texture.Descriptor(), a.ResolveTexture.Descriptor()
	return pd.Size == rd.Size && pd.Format == rd.Format
}

// ColorAttachment is a color slot with its clear color.
type ColorAttachment struct {
	Attachment
	ClearColor Color
}

// DepthAttachment is a depth slot with its clear depth.
type DepthAttachment struct {
	Attachment
	ClearDepth float32
}

// StencilAttachment is a stencil slot with its clear value.
type StencilAttachment struct {
	Attachment
	ClearStencil uint32
}

// IndexedColorAttachment pairs a color attachment with its bind index.
type IndexedColorAttachment struct {
	Index      int
	Attachment ColorAttachment
}
