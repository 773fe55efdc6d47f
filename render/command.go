// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import "github.com/gogpu/gputypes"

// Pipeline is an opaque handle to a graphics pipeline with a fixed stage
// layout. Backends and producers supply their own implementations; the
// encoder only compares them for identity.
type Pipeline interface {
	Label() string
}

// Viewport maps normalized device coordinates to a region of the target.
type Viewport struct {
	X, Y          float32
	Width, Height float32
	ZNear, ZFar   float32
}

// ViewportState is the viewport as handed to a backend, after the
// encoder's coordinate convention has been applied.
type ViewportState struct {
	X, Y, Width, Height float32
	MinDepth, MaxDepth  float32
}

// SamplerDescriptor describes how a sampled image is filtered and addressed.
type SamplerDescriptor struct {
	Label        string
	MinFilter    gputypes.FilterMode
	MagFilter    gputypes.FilterMode
	AddressModeU gputypes.AddressMode
	AddressModeV gputypes.AddressMode
}

// DefaultSamplerDescriptor returns linear filtering with clamp-to-edge
// addressing.
func DefaultSamplerDescriptor() SamplerDescriptor {
	return SamplerDescriptor{
		MinFilter:    gputypes.FilterModeLinear,
		MagFilter:    gputypes.FilterModeLinear,
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
	}
}

// BufferResource binds a buffer range to a shader slot.
type BufferResource struct {
	Slot uint32
	View BufferView
}

// TextureResource binds a sampled image to a shader slot.
type TextureResource struct {
	Slot    uint32
	Texture *Texture
	Sampler SamplerDescriptor
}

// Bindings are the resources one shader stage reads.
type Bindings struct {
	Buffers       []BufferResource
	SampledImages []TextureResource
}

// VertexBufferView is the geometry of a draw. VertexCount is the index
// count when IndexType is not IndexTypeNone.
type VertexBufferView struct {
	VertexBuffer BufferView
	IndexBuffer  BufferView
	IndexType    IndexType
	VertexCount  uint32
}

// Command is one draw call. Commands are immutable once handed to the
// encoder and are encoded strictly in order.
type Command struct {
	Pipeline     Pipeline
	VertexBuffer VertexBufferView

	VertexBindings   Bindings
	FragmentBindings Bindings

	// Viewport and Scissor default to the whole render target.
	Viewport *Viewport
	Scissor  *IRect

	StencilReference uint32

	// InstanceCount zero draws one instance.
	InstanceCount uint32
	BaseVertex    uint32

	Label string
}

// SampledImages returns the sampled images of both stages, vertex first.
func (c *Command) SampledImages() []TextureResource {
	out := make([]TextureResource, 0, len(c.VertexBindings.SampledImages)+len(c.FragmentBindings.SampledImages))
	out = append(out, c.VertexBindings.SampledImages...)
	return append(out, c.FragmentBindings.SampledImages...)
}

func (c *Command) instances() uint32 {
	if c.InstanceCount == 0 {
		return 1
	}
	return c.InstanceCount
}
