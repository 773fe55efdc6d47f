package wgpu

import (
	"errors"
	"fmt"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/canvas/backend"
	"github.com/gogpu/canvas/render"
)

const (
	// submitTimeout bounds the wait for a submitted command buffer.
	submitTimeout      = 5 * time.Second
	submitPollInterval = 100 * time.Microsecond
)

// Recorder errors.
var (
	ErrRecorderFinished = errors.New("wgpu: recorder already finished")
	ErrRecorderPassOpen = errors.New("wgpu: render pass still open")
	ErrNotFinished      = errors.New("wgpu: recorder not finished")
	ErrSubmitFailed     = errors.New("wgpu: submit failed")
	ErrSubmitTimeout    = errors.New("wgpu: timed out waiting for GPU")
)

// Recorder records encoder output into a HAL command encoder.
//
// Tracked textures are retained, and tracked framebuffers and bound
// resource sets are kept, until Submit or Discard.
type Recorder struct {
	device  *Device
	encoder hal.CommandEncoder
	pass    hal.RenderPassEncoder
	label   string

	cmdBuf   hal.CommandBuffer
	finished bool
	groups   int

	seen         map[any]struct{}
	textures     []*render.Texture
	framebuffers []*Framebuffer
	sets         []*ResourceSet
	onComplete   []func()
}

// usageFor maps an image layout to the WebGPU usage HAL barriers take.
func usageFor(l render.Layout) gputypes.TextureUsage {
	switch l {
	case render.LayoutShaderReadOnly:
		return gputypes.TextureUsageTextureBinding
	case render.LayoutTransferSrc:
		return gputypes.TextureUsageCopySrc
	case render.LayoutTransferDst:
		return gputypes.TextureUsageCopyDst
	case render.LayoutUndefined:
		return 0
	default:
		return gputypes.TextureUsageRenderAttachment
	}
}

// PipelineBarrier transitions the texture between the usages matching the
// barrier's layouts.
func (r *Recorder) PipelineBarrier(b render.ImageBarrier) {
	tex, ok := b.Texture.Native().(hal.Texture)
	if !ok {
		return
	}
	r.encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: tex,
		Usage: hal.TextureUsageTransition{
			OldUsage: usageFor(b.OldLayout),
			NewUsage: usageFor(b.NewLayout),
		},
	}})
}

// BeginRenderPass builds the HAL pass from the render pass template and
// the framebuffer views. Unused color slots are skipped.
func (r *Recorder) BeginRenderPass(info *render.RenderPassBeginInfo) {
	fb, ok := info.Framebuffer.(*Framebuffer)
	if !ok {
		render.Logger().Warn("wgpu: foreign framebuffer", "type", fmt.Sprintf("%T", info.Framebuffer))
		return
	}
	desc := info.Pass
	if desc == nil {
		desc = &fb.Pass.Desc
	}
	clearAt := func(i uint32) render.ClearValue {
		if int(i) < len(info.ClearValues) {
			return info.ClearValues[i]
		}
		return render.ClearValue{}
	}

	rp := &hal.RenderPassDescriptor{Label: info.Label}
	for i, ref := range desc.ColorRefs {
		if ref.IsUnused() {
			continue
		}
		ad := desc.Attachments[ref.Attachment]
		ca := hal.RenderPassColorAttachment{
			View:       fb.Views[ref.Attachment],
			LoadOp:     ad.LoadAction.LoadOp(),
			StoreOp:    ad.StoreAction.StoreOp(),
			ClearValue: clearAt(ref.Attachment).Color.GPU(),
		}
		if i < len(desc.ResolveRefs) && !desc.ResolveRefs[i].IsUnused() {
			ca.ResolveTarget = fb.Views[desc.ResolveRefs[i].Attachment]
		}
		rp.ColorAttachments = append(rp.ColorAttachments, ca)
	}
	if ref := desc.DepthStencilRef; !ref.IsUnused() {
		ad := desc.Attachments[ref.Attachment]
		cv := clearAt(ref.Attachment)
		rp.DepthStencilAttachment = &hal.RenderPassDepthStencilAttachment{
			View:              fb.Views[ref.Attachment],
			DepthLoadOp:       ad.LoadAction.LoadOp(),
			DepthStoreOp:      ad.StoreAction.StoreOp(),
			DepthClearValue:   cv.Depth,
			StencilLoadOp:     ad.StencilLoad.LoadOp(),
			StencilStoreOp:    ad.StencilStore.StoreOp(),
			StencilClearValue: cv.Stencil,
		}
	}
	r.pass = r.encoder.BeginRenderPass(rp)
}

// EndRenderPass ends the HAL pass.
func (r *Recorder) EndRenderPass() {
	if r.pass == nil {
		return
	}
	r.pass.End()
	r.pass = nil
}

// BindResourceSet binds the set's group at index 0.
func (r *Recorder) BindResourceSet(_ render.Pipeline, set render.ResourceSet) {
	s, ok := set.(*ResourceSet)
	if !ok || s == nil {
		return
	}
	r.sets = append(r.sets, s)
	if r.pass != nil && s.Group != nil {
		r.pass.SetBindGroup(0, s.Group, nil)
	}
}

// BindPipeline sets the HAL pipeline.
func (r *Recorder) BindPipeline(p render.Pipeline) {
	wp, ok := p.(*Pipeline)
	if !ok || wp.Native == nil || r.pass == nil {
		return
	}
	r.pass.SetPipeline(wp.Native)
}

// SetViewport undoes the bottom-left flip: WebGPU clip space already has
// +Y up and does not accept negative viewport heights.
func (r *Recorder) SetViewport(v render.ViewportState) {
	if r.pass == nil {
		return
	}
	y, h := v.Y, v.Height
	if h < 0 {
		y, h = y+h, -h
	}
	r.pass.SetViewport(v.X, y, v.Width, h, v.MinDepth, v.MaxDepth)
}

// SetScissor sets the scissor rectangle, clamped to non-negative values.
func (r *Recorder) SetScissor(s render.IRect) {
	if r.pass == nil {
		return
	}
	x, y := max(s.X, 0), max(s.Y, 0)
	w, h := max(s.Width, 0), max(s.Height, 0)
	r.pass.SetScissorRect(uint32(x), uint32(y), uint32(w), uint32(h)) //nolint:gosec // clamped
}

// SetStencilReference sets the stencil reference.
func (r *Recorder) SetStencilReference(ref uint32) {
	if r.pass != nil {
		r.pass.SetStencilReference(ref)
	}
}

// BindVertexBuffer binds buf at vertex slot 0.
func (r *Recorder) BindVertexBuffer(buf *render.DeviceBuffer, offset uint64) {
	hb, ok := buf.Native().(hal.Buffer)
	if !ok || r.pass == nil {
		return
	}
	r.pass.SetVertexBuffer(0, hb, offset)
}

// BindIndexBuffer binds buf as the index buffer.
func (r *Recorder) BindIndexBuffer(buf *render.DeviceBuffer, offset uint64, t render.IndexType) {
	hb, ok := buf.Native().(hal.Buffer)
	if !ok || r.pass == nil {
		return
	}
	r.pass.SetIndexBuffer(hb, t.IndexFormat(), offset)
}

// Draw records a non-indexed draw.
func (r *Recorder) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	if r.pass != nil {
		r.pass.Draw(vertexCount, instanceCount, firstVertex, firstInstance)
	}
}

// DrawIndexed records an indexed draw.
func (r *Recorder) DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32) {
	if r.pass != nil {
		r.pass.DrawIndexed(indexCount, instanceCount, firstIndex, baseVertex, firstInstance)
	}
}

// PushDebugGroup only balances groups; HAL encoders take no markers.
func (r *Recorder) PushDebugGroup(string) { r.groups++ }

// PopDebugGroup closes a debug group.
func (r *Recorder) PopDebugGroup() { r.groups-- }

// Track keeps resource alive until the recording completes. Textures are
// retained; framebuffers are destroyed afterwards.
func (r *Recorder) Track(resource any) bool {
	if r.finished || resource == nil {
		return false
	}
	if _, ok := r.seen[resource]; ok {
		return true
	}
	switch v := resource.(type) {
	case *render.Texture:
		if v.IsReleased() {
			return false
		}
		r.textures = append(r.textures, v.Retain())
	case *Framebuffer:
		r.framebuffers = append(r.framebuffers, v)
	}
	r.seen[resource] = struct{}{}
	return true
}

// Finish ends encoding.
func (r *Recorder) Finish() error {
	if r.finished {
		return ErrRecorderFinished
	}
	if r.pass != nil {
		return ErrRecorderPassOpen
	}
	if r.groups != 0 {
		return fmt.Errorf("wgpu: unbalanced debug groups (depth %d)", r.groups)
	}
	cmdBuf, err := r.encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("wgpu: end encoding: %w", err)
	}
	r.cmdBuf = cmdBuf
	r.finished = true
	return nil
}

// Submit submits the finished recording, waits for it, and releases
// everything the recording kept alive. On ErrSubmitTimeout the recording
// is still in flight and nothing is released.
func (r *Recorder) Submit() error {
	if !r.finished || r.cmdBuf == nil {
		return ErrNotFinished
	}
	index, err := r.device.queue.Submit([]hal.CommandBuffer{r.cmdBuf})
	if err == nil {
		err = r.device.waitForSubmission(index, submitTimeout)
		if errors.Is(err, ErrSubmitTimeout) {
			return err
		}
	} else {
		err = fmt.Errorf("%w: %w", ErrSubmitFailed, err)
	}
	r.device.device.FreeCommandBuffer(r.cmdBuf)
	r.cmdBuf = nil
	r.release()
	return err
}

// waitForSubmission polls the queue until submission index completes or
// timeout passes.
func (d *Device) waitForSubmission(index uint64, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for d.queue.PollCompleted() < index {
		if time.Now().After(deadline) {
			return fmt.Errorf("%w: submission %d after %s", ErrSubmitTimeout, index, timeout)
		}
		time.Sleep(submitPollInterval)
	}
	return nil
}

// Discard abandons the recording and releases what it kept alive.
func (r *Recorder) Discard() {
	if r.pass != nil {
		r.pass.End()
		r.pass = nil
	}
	if r.finished {
		if r.cmdBuf != nil {
			r.device.device.FreeCommandBuffer(r.cmdBuf)
			r.cmdBuf = nil
		}
	} else {
		r.encoder.DiscardEncoding()
		r.finished = true
	}
	r.release()
}

// OnComplete registers fn to run after Submit completes or on Discard.
func (r *Recorder) OnComplete(fn func()) {
	r.onComplete = append(r.onComplete, fn)
}

func (r *Recorder) release() {
	for _, fb := range r.framebuffers {
		r.device.destroyFramebuffer(fb)
	}
	for _, s := range r.sets {
		r.device.destroyResourceSet(s)
	}
	for _, t := range r.textures {
		t.Release()
	}
	r.framebuffers, r.sets, r.textures = nil, nil, nil
	clear(r.seen)
	fns := r.onComplete
	r.onComplete = nil
	for _, fn := range fns {
		fn()
	}
}

// Retained returns the number of textures the recording keeps alive.
func (r *Recorder) Retained() int { return len(r.textures) }

var (
	_ backend.Recorder          = (*Recorder)(nil)
	_ render.CompletionRecorder = (*Recorder)(nil)
)
