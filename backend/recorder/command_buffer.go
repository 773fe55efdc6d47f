package recorder

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gogpu/canvas/render"
)

// Command buffer errors.
var (
	// ErrFinished is returned by Finish when called twice.
	ErrFinished = errors.New("recorder: command buffer already finished")

	// ErrPassOpen is returned by Finish when a render pass was not ended.
	ErrPassOpen = errors.New("recorder: render pass still open")

	// ErrUnbalancedDebugGroups is returned by Finish when debug groups are
	// not balanced.
	ErrUnbalancedDebugGroups = errors.New("recorder: unbalanced debug groups")
)

// CommandBufferOption configures a CommandBuffer.
type CommandBufferOption func(*CommandBuffer)

// WithTrackFailure makes Track refuse every resource.
func WithTrackFailure() CommandBufferOption {
	return func(c *CommandBuffer) { c.failTrack = true }
}

// Submission is a finished recording plus the resources it touched.
type Submission struct {
	Label     string
	Ops       []Op
	Resources []any
}

// CommandBuffer records commands as Ops. It implements
// render.CommandRecorder and backend.Recorder.
//
// A CommandBuffer is NOT safe for concurrent use.
type CommandBuffer struct {
	label     string
	ops       []Op
	tracked   []any
	seen      map[any]struct{}
	failTrack bool

	inPass   bool
	groups   int
	finished bool

	onComplete []func()
}

// NewCommandBuffer creates an empty command buffer.
func NewCommandBuffer(label string, opts ...CommandBufferOption) *CommandBuffer {
	c := &CommandBuffer{label: label, seen: make(map[any]struct{})}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *CommandBuffer) record(op Op) {
	c.ops = append(c.ops, op)
}

// PipelineBarrier records a barrier.
func (c *CommandBuffer) PipelineBarrier(b render.ImageBarrier) {
	c.record(Op{Kind: OpBarrier, Barrier: b})
}

// BeginRenderPass records the start of a render pass.
func (c *CommandBuffer) BeginRenderPass(info *render.RenderPassBeginInfo) {
	cp := *info
	cp.ClearValues = append([]render.ClearValue(nil), info.ClearValues...)
	c.inPass = true
	c.record(Op{Kind: OpBeginRenderPass, Begin: &cp, Label: info.Label})
}

// EndRenderPass records the end of the render pass.
func (c *CommandBuffer) EndRenderPass() {
	c.inPass = false
	c.record(Op{Kind: OpEndRenderPass})
}

// BindResourceSet records a resource set bind.
func (c *CommandBuffer) BindResourceSet(p render.Pipeline, set render.ResourceSet) {
	c.record(Op{Kind: OpBindResourceSet, Pipeline: p, ResourceSet: set})
}

// BindPipeline records a pipeline bind.
func (c *CommandBuffer) BindPipeline(p render.Pipeline) {
	c.record(Op{Kind: OpBindPipeline, Pipeline: p})
}

// SetViewport records a viewport change.
func (c *CommandBuffer) SetViewport(v render.ViewportState) {
	c.record(Op{Kind: OpSetViewport, Viewport: v})
}

// SetScissor records a scissor change.
func (c *CommandBuffer) SetScissor(r render.IRect) {
	c.record(Op{Kind: OpSetScissor, Scissor: r})
}

// SetStencilReference records a stencil reference change.
func (c *CommandBuffer) SetStencilReference(ref uint32) {
	c.record(Op{Kind: OpSetStencilReference, Reference: ref})
}

// BindVertexBuffer records a vertex buffer bind.
func (c *CommandBuffer) BindVertexBuffer(buf *render.DeviceBuffer, offset uint64) {
	c.record(Op{Kind: OpBindVertexBuffer, Buffer: buf, Offset: offset})
}

// BindIndexBuffer records an index buffer bind.
func (c *CommandBuffer) BindIndexBuffer(buf *render.DeviceBuffer, offset uint64, t render.IndexType) {
	c.record(Op{Kind: OpBindIndexBuffer, Buffer: buf, Offset: offset, IndexType: t})
}

// Draw records a non-indexed draw.
func (c *CommandBuffer) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	c.record(Op{Kind: OpDraw, Count: vertexCount, InstanceCount: instanceCount, First: firstVertex})
}

// DrawIndexed records an indexed draw.
func (c *CommandBuffer) DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32) {
	c.record(Op{Kind: OpDrawIndexed, Count: indexCount, InstanceCount: instanceCount, First: firstIndex, BaseVertex: baseVertex})
}

// PushDebugGroup records the start of a debug group.
func (c *CommandBuffer) PushDebugGroup(label string) {
	c.groups++
	c.record(Op{Kind: OpPushDebugGroup, Label: label})
}

// PopDebugGroup records the end of a debug group.
func (c *CommandBuffer) PopDebugGroup() {
	c.groups--
	c.record(Op{Kind: OpPopDebugGroup})
}

// Track adds resource to the submission's resource set. Tracking the same
// resource twice keeps one entry.
func (c *CommandBuffer) Track(resource any) bool {
	if c.failTrack || resource == nil {
		return false
	}
	if _, ok := c.seen[resource]; ok {
		return true
	}
	c.seen[resource] = struct{}{}
	c.tracked = append(c.tracked, resource)
	return true
}

// Finish ends recording.
func (c *CommandBuffer) Finish() error {
	if c.finished {
		return ErrFinished
	}
	if c.inPass {
		return ErrPassOpen
	}
	if c.groups != 0 {
		return fmt.Errorf("%w: depth %d", ErrUnbalancedDebugGroups, c.groups)
	}
	c.finished = true
	return nil
}

// Ops returns the recorded ops.
func (c *CommandBuffer) Ops() []Op {
	return c.ops
}

// Count returns the number of recorded ops of kind k.
func (c *CommandBuffer) Count(k OpKind) int {
	n := 0
	for _, op := range c.ops {
		if op.Kind == k {
			n++
		}
	}
	return n
}

// Kinds returns the kind of every recorded op, in order.
func (c *CommandBuffer) Kinds() []OpKind {
	kinds := make([]OpKind, len(c.ops))
	for i, op := range c.ops {
		kinds[i] = op.Kind
	}
	return kinds
}

// Barriers returns the recorded barriers, in order.
func (c *CommandBuffer) Barriers() []render.ImageBarrier {
	var out []render.ImageBarrier
	for _, op := range c.ops {
		if op.Kind == OpBarrier {
			out = append(out, op.Barrier)
		}
	}
	return out
}

// Tracked returns the tracked resources, in first-tracked order.
func (c *CommandBuffer) Tracked() []any {
	return c.tracked
}

// IsTracked reports whether resource has been tracked.
func (c *CommandBuffer) IsTracked(resource any) bool {
	_, ok := c.seen[resource]
	return ok
}

// Submission returns the recording and its resources.
func (c *CommandBuffer) Submission() Submission {
	return Submission{
		Label:     c.label,
		Ops:       append([]Op(nil), c.ops...),
		Resources: append([]any(nil), c.tracked...),
	}
}

// OnComplete registers fn to run when the buffer completes.
func (c *CommandBuffer) OnComplete(fn func()) {
	c.onComplete = append(c.onComplete, fn)
}

// Complete marks the recorded work as done, as a device would after
// executing a submission, and runs the registered completion callbacks.
func (c *CommandBuffer) Complete() {
	fns := c.onComplete
	c.onComplete = nil
	for _, fn := range fns {
		fn()
	}
}

// Reset completes the recording and clears it for reuse.
func (c *CommandBuffer) Reset() {
	c.Complete()
	c.ops = c.ops[:0]
	c.tracked = c.tracked[:0]
	clear(c.seen)
	c.inPass = false
	c.groups = 0
	c.finished = false
}

// String renders the op stream, one op per line.
func (c *CommandBuffer) String() string {
	var b strings.Builder
	for i, op := range c.ops {
		fmt.Fprintf(&b, "%3d %s\n", i, op)
	}
	return b.String()
}

var _ render.CompletionRecorder = (*CommandBuffer)(nil)
