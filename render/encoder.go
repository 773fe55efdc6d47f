// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"errors"
	"fmt"
)

// EncoderOption configures a RenderPassEncoder.
type EncoderOption func(*encoderOptions)

type encoderOptions struct {
	label       string
	cacheSize   int
	debugGroups bool
}

func defaultEncoderOptions() encoderOptions {
	return encoderOptions{cacheSize: DefaultRenderPassCacheSize}
}

// WithLabel sets the label given to render passes, framebuffers and the
// pass-level debug group.
func WithLabel(label string) EncoderOption {
	return func(o *encoderOptions) {
		o.label = label
	}
}

// WithRenderPassCacheSize sets how many render pass objects are kept for
// reuse. Values below 1 are ignored.
func WithRenderPassCacheSize(n int) EncoderOption {
	return func(o *encoderOptions) {
		if n > 0 {
			o.cacheSize = n
		}
	}
}

// WithDebugGroups wraps the pass and every labelled command in debug groups.
func WithDebugGroups(enabled bool) EncoderOption {
	return func(o *encoderOptions) {
		o.debugGroups = enabled
	}
}

// RenderPassEncoder encodes a render target and an ordered command list
// into one render pass on a CommandRecorder.
//
// Encoding order is fixed:
//
//  1. Every command's buffers are validated and resolved. Nothing has been
//     recorded yet, so a bad command leaves the recorder untouched.
//  2. Sampled images are transitioned to LayoutShaderReadOnly.
//  3. Attachments are described from their tracked layouts, with a
//     barrier to LayoutGeneral where the tracked layout is not usable.
//  4. The render pass and framebuffer are created, in the same attachment
//     order: colors (each followed by its resolve), then depth-stencil.
//  5. Resource sets are allocated, the pass begins, each command binds and
//     draws in order, and the pass ends.
//
// A RenderPassEncoder may be shared between goroutines, provided encodes
// that touch the same texture are serialized by the caller.
type RenderPassEncoder struct {
	backend Backend
	tracker *StateTracker
	passes  *renderPassCache
	opts    encoderOptions
}

// NewRenderPassEncoder creates an encoder. A nil tracker gets a fresh one.
func NewRenderPassEncoder(backend Backend, tracker *StateTracker, opts ...EncoderOption) (*RenderPassEncoder, error) {
	if backend == nil {
		return nil, errors.New("render: nil backend")
	}
	if tracker == nil {
		tracker = NewStateTracker()
	}
	o := defaultEncoderOptions()
	for _, opt := range opts {
		opt(&o)
	}
	passes, err := newRenderPassCache(backend, o.cacheSize)
	if err != nil {
		return nil, err
	}
	return &RenderPassEncoder{
		backend: backend,
		tracker: tracker,
		passes:  passes,
		opts:    o,
	}, nil
}

// Tracker returns the state tracker the encoder consults.
func (e *RenderPassEncoder) Tracker() *StateTracker {
	return e.tracker
}

// CachedRenderPasses returns the number of render pass objects held for reuse.
func (e *RenderPassEncoder) CachedRenderPasses() int {
	return e.passes.len()
}

// RetiredRenderPasses returns the number of evicted render pass objects
// still used by recordings that have not completed.
func (e *RenderPassEncoder) RetiredRenderPasses() int {
	return e.passes.retiredLen()
}

// Close evicts all cached render pass objects. Passes still used by
// in-flight recordings are destroyed when those recordings complete.
func (e *RenderPassEncoder) Close() {
	e.passes.purge()
}

// resolvedDraw holds the device buffers of one command.
type resolvedDraw struct {
	vertex *DeviceBuffer
	index  *DeviceBuffer
}

// plannedAttachment is one framebuffer attachment. The same list drives
// the pass description, the framebuffer and the clear values.
type plannedAttachment struct {
	texture *Texture
	desc    AttachmentDescription
	clear   ClearValue
}

// Encode records target and commands as one render pass on rec.
//
// On failure nothing past the failing step is recorded and the render pass
// is never left open. Layout transitions already recorded stay in effect.
func (e *RenderPassEncoder) Encode(rec CommandRecorder, target *RenderTarget, commands []Command) (err error) {
	if target == nil {
		return fmt.Errorf("%w: nil render target", ErrInvalidRenderTarget)
	}
	if err := target.IsValid(); err != nil {
		return err
	}
	defer func() {
		if err != nil {
			Logger().Warn("render: encode failed", "label", e.opts.label, "commands", len(commands), "err", err)
		}
	}()

	draws, err := e.resolveCommands(commands)
	if err != nil {
		return err
	}

	if e.opts.debugGroups && e.opts.label != "" {
		rec.PushDebugGroup(e.opts.label)
		defer rec.PopDebugGroup()
	}

	for _, d := range draws {
		if !rec.Track(d.vertex) || (d.index != nil && !rec.Track(d.index)) {
			return fmt.Errorf("%w: draw buffers", ErrTrackingFailed)
		}
	}

	if err := e.transitionSampledImages(rec, commands); err != nil {
		return err
	}

	if err := trackAttachments(rec, target); err != nil {
		return err
	}

	plan, desc, err := e.planAttachments(rec, target)
	if err != nil {
		return err
	}

	pass, err := e.passes.get(desc)
	if err != nil {
		return err
	}
	e.passes.hold(pass)
	if cr, ok := rec.(CompletionRecorder); ok {
		cr.OnComplete(func() { e.passes.release(pass) })
	} else {
		defer e.passes.release(pass)
	}

	size := target.RenderTargetSize()
	textures := make([]*Texture, len(plan))
	for i, a := range plan {
		textures[i] = a.texture
	}
	fb, err := e.backend.CreateFramebuffer(&FramebufferDescriptor{
		Label:       e.opts.label,
		RenderPass:  pass,
		Pass:        desc,
		Attachments: textures,
		Size:        size,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFramebufferCreation, err)
	}
	if fb == nil {
		return ErrFramebufferCreation
	}
	if !rec.Track(fb) || !rec.Track(pass) {
		return fmt.Errorf("%w: render pass objects", ErrTrackingFailed)
	}

	clears := make([]ClearValue, len(plan))
	for i, a := range plan {
		clears[i] = a.clear
	}

	sets, err := e.backend.AllocateResourceSets(commands)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrResourceSetAllocation, err)
	}
	if len(sets) != len(commands) {
		return fmt.Errorf("%w: got %d sets for %d commands", ErrResourceSetAllocation, len(sets), len(commands))
	}

	rec.BeginRenderPass(&RenderPassBeginInfo{
		Label:       e.opts.label,
		RenderPass:  pass,
		Framebuffer: fb,
		Pass:        desc,
		RenderArea:  IRectFromSize(size),
		ClearValues: clears,
	})
	var cache PassBindingsCache
	for i := range commands {
		e.encodeCommand(rec, &cache, &commands[i], draws[i], sets[i], size)
	}
	rec.EndRenderPass()

	// The subpass performs the final transitions.
	for _, a := range plan {
		e.tracker.SetLayoutWithoutEncoding(a.texture, a.desc.FinalLayout)
	}
	return nil
}

// resolveCommands validates every command and resolves its buffers
// without recording anything.
func (e *RenderPassEncoder) resolveCommands(commands []Command) ([]resolvedDraw, error) {
	allocator := e.backend.BufferAllocator()
	draws := make([]resolvedDraw, len(commands))
	for i := range commands {
		cmd := &commands[i]
		if cmd.Pipeline == nil {
			return nil, fmt.Errorf("command %d %q: %w", i, cmd.Label, ErrMissingPipeline)
		}
		vb := cmd.VertexBuffer
		if !vb.VertexBuffer.IsValid() {
			return nil, fmt.Errorf("command %d %q: %w", i, cmd.Label, ErrMissingVertexBuffer)
		}
		vertex, err := vb.VertexBuffer.Buffer.GetDeviceBuffer(allocator)
		if err != nil {
			return nil, fmt.Errorf("command %d %q vertex buffer: %w", i, cmd.Label, wrapUnavailable(err))
		}
		if vertex == nil {
			return nil, fmt.Errorf("command %d %q vertex buffer: %w", i, cmd.Label, ErrBufferUnavailable)
		}
		draws[i].vertex = vertex

		if vb.IndexType == IndexTypeNone {
			continue
		}
		if !vb.IndexBuffer.IsValid() {
			return nil, fmt.Errorf("command %d %q: %w", i, cmd.Label, ErrMissingIndexBuffer)
		}
		index, err := vb.IndexBuffer.Buffer.GetDeviceBuffer(allocator)
		if err != nil {
			return nil, fmt.Errorf("command %d %q index buffer: %w", i, cmd.Label, wrapUnavailable(err))
		}
		if index == nil {
			return nil, fmt.Errorf("command %d %q index buffer: %w", i, cmd.Label, ErrBufferUnavailable)
		}
		draws[i].index = index
	}
	return draws, nil
}

func wrapUnavailable(err error) error {
	if errors.Is(err, ErrBufferUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrBufferUnavailable, err)
}

// transitionSampledImages moves every sampled image of every command to
// LayoutShaderReadOnly.
func (e *RenderPassEncoder) transitionSampledImages(rec CommandRecorder, commands []Command) error {
	for i := range commands {
		for _, img := range commands[i].SampledImages() {
			if err := e.tracker.TransitionTo(rec, img.Texture, ShaderReadBarrier); err != nil {
				return fmt.Errorf("command %d %q sampled image slot %d: %w", i, commands[i].Label, img.Slot, err)
			}
			if !rec.Track(img.Texture) {
				return fmt.Errorf("%w: sampled image %s", ErrTrackingFailed, img.Texture)
			}
		}
	}
	return nil
}

func trackAttachments(rec CommandRecorder, target *RenderTarget) error {
	var err error
	target.IterateAllAttachments(func(a Attachment) bool {
		if !rec.Track(a.Texture) || (a.ResolveTexture != nil && !rec.Track(a.ResolveTexture)) {
			err = fmt.Errorf("%w: attachment %s", ErrTrackingFailed, a.Texture)
			return false
		}
		return true
	})
	return err
}

// planAttachments builds the framebuffer attachment list and the matching
// render pass description, applying the load/store and layout policies.
func (e *RenderPassEncoder) planAttachments(rec CommandRecorder, target *RenderTarget) ([]plannedAttachment, *RenderPassDescriptor, error) {
	maxIndex := target.MaxColorAttachmentBindIndex()
	desc := &RenderPassDescriptor{
		Label:           e.opts.label,
		ColorRefs:       make([]AttachmentReference, maxIndex+1),
		ResolveRefs:     make([]AttachmentReference, maxIndex+1),
		DepthStencilRef: UnusedReference,
	}
	for i := range desc.ColorRefs {
		desc.ColorRefs[i] = UnusedReference
		desc.ResolveRefs[i] = UnusedReference
	}

	var plan []plannedAttachment
	add := func(a plannedAttachment) uint32 {
		plan = append(plan, a)
		return uint32(len(plan) - 1)
	}

	for _, c := range target.ColorAttachments() {
		ad, err := e.describe(rec, c.Attachment.Texture, c.Attachment.LoadAction, c.Attachment.StoreAction, false)
		if err != nil {
			return nil, nil, err
		}
		ad.StencilLoad, ad.StencilStore = LoadActionDontCare, StoreActionDontCare
		cv := ClearValue{Color: c.Attachment.ClearColor}
		desc.ColorRefs[c.Index] = AttachmentReference{
			Attachment: add(plannedAttachment{texture: c.Attachment.Texture, desc: ad, clear: cv}),
			Layout:     LayoutColorAttachment,
		}

		if c.Attachment.ResolveTexture == nil {
			continue
		}
		rd, err := e.describe(rec, c.Attachment.ResolveTexture, c.Attachment.LoadAction, c.Attachment.StoreAction, true)
		if err != nil {
			return nil, nil, err
		}
		rd.StencilLoad, rd.StencilStore = LoadActionDontCare, StoreActionDontCare
		desc.ResolveRefs[c.Index] = AttachmentReference{
			Attachment: add(plannedAttachment{texture: c.Attachment.ResolveTexture, desc: rd, clear: cv}),
			Layout:     LayoutGeneral,
		}
	}

	depth, hasDepth := target.DepthAttachment()
	stencil, hasStencil := target.StencilAttachment()
	merged := hasDepth && hasStencil && depth.Texture == stencil.Texture

	if hasDepth {
		dd, err := e.describe(rec, depth.Texture, depth.LoadAction, depth.StoreAction, false)
		if err != nil {
			return nil, nil, err
		}
		dd.StencilLoad, dd.StencilStore = dd.LoadAction, dd.StoreAction
		cv := ClearValue{Depth: depth.ClearDepth}
		if hasStencil {
			cv.Stencil = stencil.ClearStencil
		}
		if merged {
			sd := e.stencilActions(stencil)
			dd.StencilLoad, dd.StencilStore = sd.LoadAction, sd.StoreAction
		}
		desc.DepthStencilRef = AttachmentReference{
			Attachment: add(plannedAttachment{texture: depth.Texture, desc: dd, clear: cv}),
			Layout:     LayoutDepthStencilAttachment,
		}
	}

	if hasStencil && !merged {
		sd, err := e.describe(rec, stencil.Texture, stencil.LoadAction, stencil.StoreAction, false)
		if err != nil {
			return nil, nil, err
		}
		sd.StencilLoad, sd.StencilStore = sd.LoadAction, sd.StoreAction
		cv := ClearValue{Stencil: stencil.ClearStencil}
		if hasDepth {
			cv.Depth = depth.ClearDepth
		}
		desc.DepthStencilRef = AttachmentReference{
			Attachment: add(plannedAttachment{texture: stencil.Texture, desc: sd, clear: cv}),
			Layout:     LayoutDepthStencilAttachment,
		}
	}

	desc.Attachments = make([]AttachmentDescription, len(plan))
	for i, a := range plan {
		desc.Attachments[i] = a.desc
	}
	return plan, desc, nil
}

// describe derives the description of one attachment texture.
//
// An attachment whose contents are undefined is always cleared. A transient
// texture is never stored; a resolve texture always is. A texture in any
// layout other than undefined or present-source is first moved to the
// general layout, which becomes its initial layout in the pass.
func (e *RenderPassEncoder) describe(rec CommandRecorder, tex *Texture, load LoadAction, store StoreAction, resolve bool) (AttachmentDescription, error) {
	td := tex.Descriptor()
	current := e.tracker.CurrentLayout(tex)

	if current == LayoutUndefined {
		load = LoadActionClear
	}
	switch {
	case td.StorageMode == StorageModeDeviceTransient:
		store = StoreActionDontCare
	case resolve:
		store = StoreActionStore
	}

	initial := current
	if current != LayoutUndefined && current != LayoutPresentSrc {
		if err := e.tracker.TransitionTo(rec, tex, GeneralBarrier); err != nil {
			return AttachmentDescription{}, fmt.Errorf("attachment %s: %w", tex, err)
		}
		initial = LayoutGeneral
	}

	return AttachmentDescription{
		Format:        td.Format,
		SampleCount:   td.Samples(),
		LoadAction:    load,
		StoreAction:   store,
		InitialLayout: initial,
		FinalLayout:   LayoutGeneral,
	}, nil
}

// stencilActions applies the load/store policy to the stencil aspect of a
// depth-stencil texture already described through its depth attachment.
func (e *RenderPassEncoder) stencilActions(s StencilAttachment) AttachmentDescription {
	load, store := s.LoadAction, s.StoreAction
	if e.tracker.CurrentLayout(s.Texture) == LayoutUndefined {
		load = LoadActionClear
	}
	if s.Texture.Descriptor().StorageMode == StorageModeDeviceTransient {
		store = StoreActionDontCare
	}
	return AttachmentDescription{LoadAction: load, StoreAction: store}
}

func (e *RenderPassEncoder) encodeCommand(rec CommandRecorder, cache *PassBindingsCache, cmd *Command, draw resolvedDraw, set ResourceSet, size ISize) {
	if e.opts.debugGroups && cmd.Label != "" {
		rec.PushDebugGroup(cmd.Label)
		defer rec.PopDebugGroup()
	}

	rec.BindResourceSet(cmd.Pipeline, set)
	cache.BindPipeline(rec, cmd.Pipeline)

	cache.SetViewport(rec, viewportState(cmd.Viewport, size))
	scissor := IRectFromSize(size)
	if cmd.Scissor != nil {
		scissor = *cmd.Scissor
	}
	cache.SetScissor(rec, scissor)
	cache.SetStencilReference(rec, cmd.StencilReference)

	vb := cmd.VertexBuffer
	rec.BindVertexBuffer(draw.vertex, vb.VertexBuffer.Range.Offset)
	if vb.IndexType != IndexTypeNone {
		rec.BindIndexBuffer(draw.index, vb.IndexBuffer.Range.Offset, vb.IndexType)
		rec.DrawIndexed(vb.VertexCount, cmd.instances(), 0, int32(cmd.BaseVertex), 0) //nolint:gosec // base vertex fits int32
		return
	}
	rec.Draw(vb.VertexCount, cmd.instances(), cmd.BaseVertex, 0)
}

// viewportState applies the bottom-left origin convention: the viewport is
// anchored at its bottom edge with a negative height, so clip-space +Y
// points up on a top-left origin target.
func viewportState(vp *Viewport, size ISize) ViewportState {
	v := Viewport{Width: float32(size.Width), Height: float32(size.Height), ZFar: 1}
	if vp != nil {
		v = *vp
	}
	minDepth, maxDepth := v.ZNear, v.ZFar
	if maxDepth <= minDepth {
		minDepth, maxDepth = 0, 1
	}
	return ViewportState{
		X:        v.X,
		Y:        v.Y + v.Height,
		Width:    v.Width,
		Height:   -v.Height,
		MinDepth: minDepth,
		MaxDepth: maxDepth,
	}
}
