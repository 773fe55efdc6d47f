package recorder

import (
	"fmt"

	"github.com/gogpu/canvas/render"
)

// OpKind identifies a recorded command.
type OpKind int

const (
	OpBarrier OpKind = iota
	OpBeginRenderPass
	OpEndRenderPass
	OpBindResourceSet
	OpBindPipeline
	OpSetViewport
	OpSetScissor
	OpSetStencilReference
	OpBindVertexBuffer
	OpBindIndexBuffer
	OpDraw
	OpDrawIndexed
	OpPushDebugGroup
	OpPopDebugGroup
)

var opNames = [...]string{
	OpBarrier:             "Barrier",
	OpBeginRenderPass:     "BeginRenderPass",
	OpEndRenderPass:       "EndRenderPass",
	OpBindResourceSet:     "BindResourceSet",
	OpBindPipeline:        "BindPipeline",
	OpSetViewport:         "SetViewport",
	OpSetScissor:          "SetScissor",
	OpSetStencilReference: "SetStencilReference",
	OpBindVertexBuffer:    "BindVertexBuffer",
	OpBindIndexBuffer:     "BindIndexBuffer",
	OpDraw:                "Draw",
	OpDrawIndexed:         "DrawIndexed",
	OpPushDebugGroup:      "PushDebugGroup",
	OpPopDebugGroup:       "PopDebugGroup",
}

// String returns the string representation of OpKind.
func (k OpKind) String() string {
	if k >= 0 && int(k) < len(opNames) {
		return opNames[k]
	}
	return fmt.Sprintf("OpKind(%d)", int(k))
}

// Op is one recorded command. Only the fields relevant to Kind are set.
type Op struct {
	Kind OpKind

	Barrier     render.ImageBarrier
	Begin       *render.RenderPassBeginInfo
	Pipeline    render.Pipeline
	ResourceSet render.ResourceSet
	Viewport    render.ViewportState
	Scissor     render.IRect
	Reference   uint32

	Buffer    *render.DeviceBuffer
	Offset    uint64
	IndexType render.IndexType

	// Draw parameters.
	Count         uint32
	InstanceCount uint32
	First         uint32
	BaseVertex    int32

	Label string
}

// String renders the op on one line.
func (o Op) String() string {
	switch o.Kind {
	case OpBarrier:
		b := o.Barrier
		return fmt.Sprintf("Barrier %s %s -> %s src=%s/%s dst=%s/%s", b.Texture, b.OldLayout, b.NewLayout,
			b.SrcStage, b.SrcAccess, b.DstStage, b.DstAccess)
	case OpBeginRenderPass:
		return fmt.Sprintf("BeginRenderPass %q area=%dx%d clears=%d", o.Begin.Label,
			o.Begin.RenderArea.Width, o.Begin.RenderArea.Height, len(o.Begin.ClearValues))
	case OpBindPipeline:
		return fmt.Sprintf("BindPipeline %q", o.Pipeline.Label())
	case OpBindResourceSet:
		return fmt.Sprintf("BindResourceSet %v", o.ResourceSet)
	case OpSetViewport:
		v := o.Viewport
		return fmt.Sprintf("SetViewport x=%g y=%g w=%g h=%g", v.X, v.Y, v.Width, v.Height)
	case OpSetScissor:
		s := o.Scissor
		return fmt.Sprintf("SetScissor x=%d y=%d w=%d h=%d", s.X, s.Y, s.Width, s.Height)
	case OpSetStencilReference:
		return fmt.Sprintf("SetStencilReference %d", o.Reference)
	case OpBindVertexBuffer:
		return fmt.Sprintf("BindVertexBuffer %s +%d", o.Buffer, o.Offset)
	case OpBindIndexBuffer:
		return fmt.Sprintf("BindIndexBuffer %s +%d %s", o.Buffer, o.Offset, o.IndexType)
	case OpDraw:
		return fmt.Sprintf("Draw vertices=%d instances=%d first=%d", o.Count, o.InstanceCount, o.First)
	case OpDrawIndexed:
		return fmt.Sprintf("DrawIndexed indices=%d instances=%d base=%d", o.Count, o.InstanceCount, o.BaseVertex)
	case OpPushDebugGroup:
		return fmt.Sprintf("PushDebugGroup %q", o.Label)
	default:
		return o.Kind.String()
	}
}
