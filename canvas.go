package canvas

import (
	"errors"
	"log/slog"

	"github.com/gogpu/canvas/render"
)

// ErrRecordingFinished is returned by EndRecordingAsPicture when the
// recording was already finished.
var ErrRecordingFinished = errors.New("canvas: recording already finished")

// RenderingMode records how the scope of a stack entry renders.
type RenderingMode uint8

const (
	// RenderingDirect draws into the pass of the enclosing scope.
	RenderingDirect RenderingMode = iota
	// RenderingOnscreenSubpass draws into a subpass composited without
	// an intermediate target.
	RenderingOnscreenSubpass
	// RenderingOffscreenSubpass draws into a subpass with its own target.
	RenderingOffscreenSubpass
)

// String returns the mode name.
func (m RenderingMode) String() string {
	switch m {
	case RenderingOnscreenSubpass:
		return "onscreen-subpass"
	case RenderingOffscreenSubpass:
		return "offscreen-subpass"
	default:
		return "direct"
	}
}

// IsSubpass reports whether the scope opened a subpass.
func (m RenderingMode) IsSubpass() bool { return m != RenderingDirect }

// StackEntry is the state of one save scope.
type StackEntry struct {
	Transform Matrix
	// CullRect is a conservative device-space bound of what the scope can
	// still make visible. Nil means unbounded.
	CullRect      *Rect
	ClipDepth     uint32
	RenderingMode RenderingMode
	// ContainsClips is set once a clip is applied in this scope.
	ContainsClips bool
}

// Canvas records drawing operations into a tree of passes.
//
// The save stack always holds at least the root scope. Transforms and
// clips apply to the top scope; draws go to the pass of the innermost
// layer. EndRecordingAsPicture finishes the recording, after which the
// canvas only logs warnings.
//
// A Canvas is not safe for concurrent use.
type Canvas struct {
	tree    *passTree
	current PassID
	stack   []StackEntry

	logger   *slog.Logger
	finished bool
}

// New creates a canvas with an identity transform.
func New(opts ...Option) *Canvas {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	c := &Canvas{
		tree:   newPassTree(),
		logger: o.logger,
	}
	c.current = c.tree.root
	entry := StackEntry{Transform: Identity()}
	if o.cullRect != nil {
		r := *o.cullRect
		entry.CullRect = &r
	}
	c.stack = append(make([]StackEntry, 0, 8), entry)
	return c
}

// NewWithCullRect creates a canvas culled to r.
func NewWithCullRect(r Rect, opts ...Option) *Canvas {
	return New(append(opts, WithCullRect(r))...)
}

// NewWithIRect creates a canvas culled to an integer rectangle, usually
// the pixel bounds of the target.
func NewWithIRect(r render.IRect, opts ...Option) *Canvas {
	return NewWithCullRect(RectFromIRect(r), opts...)
}

func (c *Canvas) log() *slog.Logger {
	if c.logger != nil {
		return c.logger
	}
	return Logger()
}

// active reports whether the recording is still open, warning when not.
func (c *Canvas) active(op string) bool {
	if c.finished {
		c.log().Warn("canvas: call after EndRecordingAsPicture ignored", "op", op)
		return false
	}
	return true
}

func (c *Canvas) top() *StackEntry {
	return &c.stack[len(c.stack)-1]
}

// Save pushes a copy of the current state.
func (c *Canvas) Save() {
	if !c.active("Save") {
		return
	}
	c.push(RenderingDirect)
}

func (c *Canvas) push(mode RenderingMode) {
	parent := c.top()
	entry := StackEntry{
		Transform:     parent.Transform,
		ClipDepth:     parent.ClipDepth,
		RenderingMode: mode,
	}
	if parent.CullRect != nil {
		r := *parent.CullRect
		entry.CullRect = &r
	}
	c.stack = append(c.stack, entry)
}

// Restore pops the current state. When the scope opened a layer, the
// layer is sealed and drawing continues in its parent. When the scope
// applied clips, a restore-clip entity is appended so replay drops them.
//
// Restore returns false, and does nothing, at the root scope.
func (c *Canvas) Restore() bool {
	if !c.active("Restore") {
		return false
	}
	if len(c.stack) <= 1 {
		c.log().Warn("canvas: Restore without matching Save")
		return false
	}
	entry := c.stack[len(c.stack)-1]
	if entry.RenderingMode.IsSubpass() {
		c.closeSubpass()
	}
	c.stack = c.stack[:len(c.stack)-1]
	if entry.ContainsClips {
		c.restoreClip()
	}
	return true
}

// RestoreToCount restores until the save count equals count. It does
// nothing when the save count is already at or below count.
func (c *Canvas) RestoreToCount(count int) {
	for c.GetSaveCount() > count {
		if !c.Restore() {
			return
		}
	}
}

// GetSaveCount returns the depth of the save stack, at least 1.
func (c *Canvas) GetSaveCount() int { return len(c.stack) }

// GetCurrentTransform returns the current transform.
func (c *Canvas) GetCurrentTransform() Matrix { return c.top().Transform }

// GetCurrentCullRect returns the device-space cull rect. It returns false
// when the canvas is unbounded.
func (c *Canvas) GetCurrentCullRect() (Rect, bool) {
	if r := c.top().CullRect; r != nil {
		return *r, true
	}
	return Rect{}, false
}

// GetCurrentLocalCullingBounds returns the cull rect mapped back into the
// current local coordinates. It returns false when the canvas is
// unbounded or the transform cannot be inverted.
func (c *Canvas) GetCurrentLocalCullingBounds() (Rect, bool) {
	top := c.top()
	if top.CullRect == nil {
		return Rect{}, false
	}
	if top.CullRect.IsEmpty() {
		return Rect{}, true
	}
	inv, ok := top.Transform.Invert()
	if !ok {
		return Rect{}, false
	}
	return top.CullRect.TransformBounds(inv)
}

// ResetTransform sets the current transform to the identity.
func (c *Canvas) ResetTransform() {
	if c.active("ResetTransform") {
		c.top().Transform = Identity()
	}
}

// Transform concatenates m onto the current transform.
func (c *Canvas) Transform(m Matrix) { c.Concat(m) }

// Concat post-multiplies the current transform by m, so that m applies
// to geometry first.
func (c *Canvas) Concat(m Matrix) {
	if c.active("Concat") {
		top := c.top()
		top.Transform = top.Transform.Multiply(m)
	}
}

// PreConcat pre-multiplies the current transform by m, so that m applies
// after the current transform.
func (c *Canvas) PreConcat(m Matrix) {
	if c.active("PreConcat") {
		top := c.top()
		top.Transform = m.Multiply(top.Transform)
	}
}

// Translate concatenates a translation.
func (c *Canvas) Translate(offset Vector3) { c.Concat(MakeTranslation(offset)) }

// Scale concatenates a 2D scale.
func (c *Canvas) Scale(s Vector2) { c.Concat(MakeScale(Vector3{X: s.X, Y: s.Y, Z: 1})) }

// Scale3 concatenates a 3D scale.
func (c *Canvas) Scale3(s Vector3) { c.Concat(MakeScale(s)) }

// Skew concatenates a skew.
func (c *Canvas) Skew(sx, sy float64) { c.Concat(MakeSkew(sx, sy)) }

// Rotate concatenates a rotation about the Z axis.
func (c *Canvas) Rotate(r Radians) { c.Concat(MakeRotationZ(r)) }

// EndRecordingAsPicture closes every open scope and returns the recorded
// picture. The canvas cannot record afterwards.
func (c *Canvas) EndRecordingAsPicture() (*Picture, error) {
	if c.finished {
		c.log().Warn("canvas: EndRecordingAsPicture called twice")
		return nil, ErrRecordingFinished
	}
	c.RestoreToCount(1)
	if err := c.tree.seal(c.tree.root); err != nil {
		return nil, err
	}
	c.finished = true
	c.log().Debug("canvas: recording finished",
		"passes", len(c.tree.nodes), "clip_depth", c.top().ClipDepth)
	return &Picture{tree: c.tree, clipDepth: c.top().ClipDepth}, nil
}
