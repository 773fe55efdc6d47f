// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"fmt"
	"slices"

	"github.com/gogpu/gputypes"
)

// RenderTarget is the set of attachments a render pass draws into: color
// attachments addressed by bind index (possibly sparse), plus optional
// depth and stencil attachments. Depth and stencil may share a texture.
//
// A RenderTarget holds a reference on every texture it is given and drops
// it on Release.
type RenderTarget struct {
	colors  map[int]ColorAttachment
	depth   *DepthAttachment
	stencil *StencilAttachment
}

// NewRenderTarget creates a render target with no attachments.
func NewRenderTarget() *RenderTarget {
	return &RenderTarget{colors: make(map[int]ColorAttachment)}
}

// SetColorAttachment places a at bind index, replacing any attachment
// already there.
func (rt *RenderTarget) SetColorAttachment(a ColorAttachment, index int) *RenderTarget {
	if index < 0 {
		Logger().Warn("render: negative color attachment index", "index", index)
		return rt
	}
	retain(a.Attachment)
	if old, ok := rt.colors[index]; ok {
		release(old.Attachment)
	}
	rt.colors[index] = a
	return rt
}

// SetDepthAttachment sets or, with nil, clears the depth attachment.
func (rt *RenderTarget) SetDepthAttachment(a *DepthAttachment) *RenderTarget {
	if a != nil {
		retain(a.Attachment)
	}
	if rt.depth != nil {
		release(rt.depth.Attachment)
	}
	if a != nil {
		cp := *a
		a = &cp
	}
	rt.depth = a
	return rt
}

// SetStencilAttachment sets or, with nil, clears the stencil attachment.
func (rt *RenderTarget) SetStencilAttachment(a *StencilAttachment) *RenderTarget {
	if a != nil {
		retain(a.Attachment)
	}
	if rt.stencil != nil {
		release(rt.stencil.Attachment)
	}
	if a != nil {
		cp := *a
		a = &cp
	}
	rt.stencil = a
	return rt
}

// ColorAttachments returns the color attachments in ascending bind order.
func (rt *RenderTarget) ColorAttachments() []IndexedColorAttachment {
	out := make([]IndexedColorAttachment, 0, len(rt.colors))
	for i, a := range rt.colors {
		out = append(out, IndexedColorAttachment{Index: i, Attachment: a})
	}
	slices.SortFunc(out, func(a, b IndexedColorAttachment) int { return a.Index - b.Index })
	return out
}

// ColorAttachment returns the color attachment at index.
func (rt *RenderTarget) ColorAttachment(index int) (ColorAttachment, bool) {
	a, ok := rt.colors[index]
	return a, ok
}

// MaxColorAttachmentBindIndex returns the highest populated color bind
// index, or -1 when there are none.
func (rt *RenderTarget) MaxColorAttachmentBindIndex() int {
	maxIndex := -1
	for i := range rt.colors {
		maxIndex = max(maxIndex, i)
	}
	return maxIndex
}

// DepthAttachment returns the depth attachment, if any.
func (rt *RenderTarget) DepthAttachment() (DepthAttachment, bool) {
	if rt.depth == nil {
		return DepthAttachment{}, false
	}
	return *rt.depth, true
}

// StencilAttachment returns the stencil attachment, if any.
func (rt *RenderTarget) StencilAttachment() (StencilAttachment, bool) {
	if rt.stencil == nil {
		return StencilAttachment{}, false
	}
	return *rt.stencil, true
}

// IterateAllAttachments calls fn for every attachment in pass order: colors
// by bind index, then depth, then stencil. Iteration stops when fn returns
// false.
func (rt *RenderTarget) IterateAllAttachments(fn func(Attachment) bool) {
	for _, c := range rt.ColorAttachments() {
		if !fn(c.Attachment.Attachment) {
			return
		}
	}
	if rt.depth != nil && !fn(rt.depth.Attachment) {
		return
	}
	if rt.stencil != nil {
		fn(rt.stencil.Attachment)
	}
}

// RenderTargetSize returns the size of the first color attachment, falling
// back to depth and then stencil.
func (rt *RenderTarget) RenderTargetSize() ISize {
	var size ISize
	rt.IterateAllAttachments(func(a Attachment) bool {
		if a.Texture == nil {
			return true
		}
		size = a.Texture.Size()
		return false
	})
	return size
}

// RenderTargetTexture returns the texture holding the final color output:
// the resolve texture of bind index 0 if present, else its texture.
func (rt *RenderTarget) RenderTargetTexture() *Texture {
	c, ok := rt.colors[0]
	if !ok {
		return nil
	}
	if c.ResolveTexture != nil {
		return c.ResolveTexture
	}
	return c.Texture
}

// IsValid checks that the target has at least one attachment, every
// attachment is valid, and all attachment textures share one size.
func (rt *RenderTarget) IsValid() error {
	var (
		err   error
		size  ISize
		first = true
		count int
	)
	rt.IterateAllAttachments(func(a Attachment) bool {
		count++
		if !a.IsValid() {
			err = fmt.Errorf("%w: attachment %d is invalid", ErrInvalidRenderTarget, count-1)
			return false
		}
		if first {
			size, first = a.Texture.Size(), false
		} else if a.Texture.Size() != size {
			err = fmt.Errorf("%w: attachment size %s does not match %s",
				ErrInvalidRenderTarget, a.Texture.Size(), size)
			return false
		}
		return true
	})
	if err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("%w: no attachments", ErrInvalidRenderTarget)
	}
	if size.IsEmpty() {
		return fmt.Errorf("%w: empty size %s", ErrInvalidRenderTarget, size)
	}
	return nil
}

// Release drops the target's references on all attachment textures and
// clears it.
func (rt *RenderTarget) Release() {
	rt.IterateAllAttachments(func(a Attachment) bool {
		release(a)
		return true
	})
	clear(rt.colors)
	rt.depth = nil
	rt.stencil = nil
}

func retain(a Attachment) {
	if a.Texture != nil {
		a.Texture.Retain()
	}
	if a.ResolveTexture != nil {
		a.ResolveTexture.Retain()
	}
}

func release(a Attachment) {
	if a.Texture != nil {
		a.Texture.Release()
	}
	if a.ResolveTexture != nil {
		a.ResolveTexture.Release()
	}
}

// OffscreenConfig configures the attachments created by CreateOffscreen
// and CreateOffscreenMSAA.
type OffscreenConfig struct {
	ColorFormat gputypes.TextureFormat
	ClearColor  Color

	// Stencil adds a transient stencil attachment when set.
	Stencil       bool
	StencilFormat gputypes.TextureFormat

	// SampleCount is used by CreateOffscreenMSAA. Zero means 4.
	SampleCount SampleCount
}

// DefaultOffscreenConfig returns an RGBA8 target with a depth-stencil
// attachment, cleared to transparent.
func DefaultOffscreenConfig() OffscreenConfig {
	return OffscreenConfig{
		ColorFormat:   gputypes.TextureFormatRGBA8Unorm,
		Stencil:       true,
		StencilFormat: gputypes.TextureFormatDepth24PlusStencil8,
		SampleCount:   SampleCount4,
	}
}

// CreateOffscreen allocates a single-sampled render target whose color
// attachment can later be sampled.
func CreateOffscreen(alloc TextureAllocator, size ISize, label string, cfg OffscreenConfig) (*RenderTarget, error) {
	if size.IsEmpty() {
		return nil, fmt.Errorf("%w: offscreen %q has empty size %s", ErrInvalidRenderTarget, label, size)
	}
	color, err := alloc.CreateTexture(TextureDescriptor{
		Label:       label + " color",
		Size:        size,
		Format:      cfg.ColorFormat,
		SampleCount: SampleCount1,
		StorageMode: StorageModeDevicePrivate,
		Usage:       gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageTextureBinding,
	})
	if err != nil {
		return nil, fmt.Errorf("offscreen %q color: %w", label, err)
	}
	defer color.Release()

	rt := NewRenderTarget().SetColorAttachment(ColorAttachment{
		Attachment: Attachment{
			Texture:     color,
			LoadAction:  LoadActionClear,
			StoreAction: StoreActionStore,
		},
		ClearColor: cfg.ClearColor,
	}, 0)

	if err := addOffscreenStencil(rt, alloc, size, label, cfg, SampleCount1); err != nil {
		rt.Release()
		return nil, err
	}
	return rt, nil
}

// CreateOffscreenMSAA allocates a multisampled render target. The
// multisampled color texture is transient and resolves into a
// single-sampled texture that can later be sampled.
func CreateOffscreenMSAA(alloc TextureAllocator, size ISize, label string, cfg OffscreenConfig) (*RenderTarget, error) {
	if size.IsEmpty() {
		return nil, fmt.Errorf("%w: offscreen %q has empty size %s", ErrInvalidRenderTarget, label, size)
	}
	samples := cfg.SampleCount
	if samples <= SampleCount1 {
		samples = SampleCount4
	}
	msaa, err := alloc.CreateTexture(TextureDescriptor{
		Label:       label + " color msaa",
		Size:        size,
		Format:      cfg.ColorFormat,
		SampleCount: samples,
		StorageMode: StorageModeDeviceTransient,
		Usage:       gputypes.TextureUsageRenderAttachment,
	})
	if err != nil {
		return nil, fmt.Errorf("offscreen %q msaa color: %w", label, err)
	}
	defer msaa.Release()

	resolve, err := alloc.CreateTexture(TextureDescriptor{
		Label:       label + " color resolve",
		Size:        size,
		Format:      cfg.ColorFormat,
		SampleCount: SampleCount1,
		StorageMode: StorageModeDevicePrivate,
		Usage:       gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageTextureBinding,
	})
	if err != nil {
		return nil, fmt.Errorf("offscreen %q resolve: %w", label, err)
	}
	defer resolve.Release()

	rt := NewRenderTarget().SetColorAttachment(ColorAttachment{
		Attachment: Attachment{
			Texture:        msaa,
			ResolveTexture: resolve,
			LoadAction:     LoadActionClear,
			StoreAction:    StoreActionDontCare,
		},
		ClearColor: cfg.ClearColor,
	}, 0)

	if err := addOffscreenStencil(rt, alloc, size, label, cfg, samples); err != nil {
		rt.Release()
		return nil, err
	}
	return rt, nil
}

func addOffscreenStencil(rt *RenderTarget, alloc TextureAllocator, size ISize, label string, cfg OffscreenConfig, samples SampleCount) error {
	if !cfg.Stencil {
		return nil
	}
	format := cfg.StencilFormat
	if format == gputypes.TextureFormatUndefined {
		format = gputypes.TextureFormatDepth24PlusStencil8
	}
	tex, err := alloc.CreateTexture(TextureDescriptor{
		Label:       label + " stencil",
		Size:        size,
		Format:      format,
		SampleCount: samples,
		StorageMode: StorageModeDeviceTransient,
		Usage:       gputypes.TextureUsageRenderAttachment,
	})
	if err != nil {
		return fmt.Errorf("offscreen %q stencil: %w", label, err)
	}
	defer tex.Release()

	rt.SetStencilAttachment(&StencilAttachment{
		Attachment: Attachment{
			Texture:     tex,
			LoadAction:  LoadActionClear,
			StoreAction: StoreActionDontCare,
		},
	})
	return nil
}
