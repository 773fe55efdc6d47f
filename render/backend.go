// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"fmt"
	"strings"

	"github.com/gogpu/gputypes"
)

// AttachmentUnused marks a color bind index with no attachment.
const AttachmentUnused = ^uint32(0)

// RenderPass is a backend render pass object. Values must be comparable;
// backends use pointers.
type RenderPass any

// Framebuffer is a backend framebuffer object.
type Framebuffer any

// ResourceSet is a backend descriptor or bind-group set for one command.
type ResourceSet any

// AttachmentDescription describes one attachment of a render pass.
// For a merged depth-stencil attachment the stencil actions are set too.
type AttachmentDescription struct {
	Format        gputypes.TextureFormat
	SampleCount   SampleCount
	LoadAction    LoadAction
	StoreAction   StoreAction
	StencilLoad   LoadAction
	StencilStore  StoreAction
	InitialLayout Layout
	FinalLayout   Layout
}

// AttachmentReference points a subpass slot at an attachment.
type AttachmentReference struct {
	Attachment uint32
	Layout     Layout
}

// UnusedReference is the reference for an empty slot.
var UnusedReference = AttachmentReference{Attachment: AttachmentUnused, Layout: LayoutUndefined}

// IsUnused reports whether the reference points at no attachment.
func (r AttachmentReference) IsUnused() bool {
	return r.Attachment == AttachmentUnused
}

// RenderPassDescriptor describes a single-subpass render pass.
//
// Attachments are in framebuffer order: colors by bind index, each followed
// by its resolve, then depth-stencil. ColorRefs and ResolveRefs have one
// entry per bind index up to the maximum; gaps are UnusedReference.
type RenderPassDescriptor struct {
	Label           string
	Attachments     []AttachmentDescription
	ColorRefs       []AttachmentReference
	ResolveRefs     []AttachmentReference
	DepthStencilRef AttachmentReference
}

// HasResolve reports whether any color slot resolves.
func (d *RenderPassDescriptor) HasResolve() bool {
	for _, r := range d.ResolveRefs {
		if !r.IsUnused() {
			return true
		}
	}
	return false
}

// Key returns a signature identifying compatible render passes. Two
// descriptors with the same key can share a backend object.
func (d *RenderPassDescriptor) Key() string {
	var b strings.Builder
	for _, a := range d.Attachments {
		fmt.Fprintf(&b, "a%d/%d/%d%d%d%d/%d%d;", a.Format, a.SampleCount,
			a.LoadAction, a.StoreAction, a.StencilLoad, a.StencilStore,
			a.InitialLayout, a.FinalLayout)
	}
	writeRefs := func(tag string, refs []AttachmentReference) {
		b.WriteString(tag)
		for _, r := range refs {
			if r.IsUnused() {
				b.WriteString("-,")
				continue
			}
			fmt.Fprintf(&b, "%d:%d,", r.Attachment, r.Layout)
		}
	}
	writeRefs("c", d.ColorRefs)
	writeRefs("r", d.ResolveRefs)
	writeRefs("d", []AttachmentReference{d.DepthStencilRef})
	return b.String()
}

// FramebufferDescriptor binds textures to a render pass. Attachments are
// in the same order as RenderPassDescriptor.Attachments.
type FramebufferDescriptor struct {
	Label       string
	RenderPass  RenderPass
	Pass        *RenderPassDescriptor
	Attachments []*Texture
	Size        ISize
}

// ClearValue is the clear value of one framebuffer attachment.
type ClearValue struct {
	Color   Color
	Depth   float32
	Stencil uint32
}

// RenderPassBeginInfo starts a render pass on a recorder.
type RenderPassBeginInfo struct {
	Label       string
	RenderPass  RenderPass
	Framebuffer Framebuffer
	Pass        *RenderPassDescriptor
	RenderArea  IRect
	ClearValues []ClearValue
}

// CompletionRecorder is implemented by recorders that can report when
// the recorded work has completed on the device. The encoder uses it to
// keep cached render pass objects alive while a recording uses them;
// recorders without it are treated as complete when Encode returns.
type CompletionRecorder interface {
	// OnComplete registers fn to run once the recording completes or is
	// discarded.
	OnComplete(fn func())
}

// Backend creates the API objects a render pass needs.
type Backend interface {
	CreateRenderPass(desc *RenderPassDescriptor) (RenderPass, error)
	DestroyRenderPass(pass RenderPass)
	CreateFramebuffer(desc *FramebufferDescriptor) (Framebuffer, error)

	// AllocateResourceSets returns one resource set per command.
	AllocateResourceSets(commands []Command) ([]ResourceSet, error)

	// BufferAllocator resolves host buffers to device buffers.
	BufferAllocator() BufferAllocator
}

// CommandRecorder records commands into one command buffer.
type CommandRecorder interface {
	BarrierRecorder

	BeginRenderPass(info *RenderPassBeginInfo)
	EndRenderPass()

	BindResourceSet(pipeline Pipeline, set ResourceSet)
	BindPipeline(pipeline Pipeline)
	SetViewport(v ViewportState)
	SetScissor(r IRect)
	SetStencilReference(ref uint32)
	BindVertexBuffer(buf *DeviceBuffer, offset uint64)
	BindIndexBuffer(buf *DeviceBuffer, offset uint64, t IndexType)
	Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32)
	DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32)

	PushDebugGroup(label string)
	PopDebugGroup()

	// Track keeps resource alive until the recorded work completes.
	// It returns false if the resource cannot be tracked.
	Track(resource any) bool
}
