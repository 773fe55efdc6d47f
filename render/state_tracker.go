// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"fmt"
	"sync"
)

// Barrier describes a requested layout transition and the execution and
// memory dependencies that must surround it.
type Barrier struct {
	NewLayout Layout
	SrcStage  PipelineStage
	SrcAccess Access
	DstStage  PipelineStage
	DstAccess Access
}

// ImageBarrier is a barrier on one texture, as recorded on a command stream.
type ImageBarrier struct {
	Texture   *Texture
	OldLayout Layout
	NewLayout Layout
	SrcStage  PipelineStage
	SrcAccess Access
	DstStage  PipelineStage
	DstAccess Access
}

// BarrierRecorder receives the barriers a StateTracker emits.
type BarrierRecorder interface {
	PipelineBarrier(b ImageBarrier)
}

// Barriers used by the encoder.
var (
	// GeneralBarrier moves an attachment that may have been sampled into
	// the general layout before it is described to a render pass.
	GeneralBarrier = Barrier{
		NewLayout: LayoutGeneral,
		SrcStage:  PipelineStageFragmentShader,
		SrcAccess: AccessShaderRead,
		DstStage:  PipelineStageColorAttachmentOutput | PipelineStageTransfer,
		DstAccess: AccessColorAttachmentWrite | AccessTransferWrite,
	}

	// ShaderReadBarrier makes prior attachment and transfer writes visible
	// to fragment shader sampling.
	ShaderReadBarrier = Barrier{
		NewLayout: LayoutShaderReadOnly,
		SrcStage:  PipelineStageColorAttachmentOutput | PipelineStageTransfer,
		SrcAccess: AccessColorAttachmentWrite | AccessTransferWrite,
		DstStage:  PipelineStageFragmentShader,
		DstAccess: AccessShaderRead,
	}
)

type trackedLayout struct {
	layout Layout
	hooked bool
}

// StateTracker is the single source of truth for texture layouts.
//
// Entries are keyed by texture identity and dropped automatically when the
// texture's last holder releases it. The map itself is safe for concurrent
// use, but transitions of one texture must be serialized by the caller:
// two encodes that touch the same texture must not run at the same time.
type StateTracker struct {
	mu      sync.Mutex
	layouts map[*Texture]*trackedLayout
}

// NewStateTracker creates an empty tracker. Every texture starts in
// LayoutUndefined.
func NewStateTracker() *StateTracker {
	return &StateTracker{layouts: make(map[*Texture]*trackedLayout)}
}

// CurrentLayout returns the recorded layout of tex.
func (s *StateTracker) CurrentLayout(tex *Texture) Layout {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.layouts[tex]; ok {
		return e.layout
	}
	return LayoutUndefined
}

// TransitionTo records a barrier moving tex into b.NewLayout on rec and
// updates the recorded layout. A transition to the layout tex is already in
// records nothing.
func (s *StateTracker) TransitionTo(rec BarrierRecorder, tex *Texture, b Barrier) error {
	if tex == nil || tex.IsReleased() {
		return fmt.Errorf("transition to %s: %w", b.NewLayout, ErrTextureReleased)
	}
	old := s.CurrentLayout(tex)
	if old == b.NewLayout {
		return nil
	}
	rec.PipelineBarrier(ImageBarrier{
		Texture:   tex,
		OldLayout: old,
		NewLayout: b.NewLayout,
		SrcStage:  b.SrcStage,
		SrcAccess: b.SrcAccess,
		DstStage:  b.DstStage,
		DstAccess: b.DstAccess,
	})
	s.store(tex, b.NewLayout)
	return nil
}

// SetLayoutWithoutEncoding records that tex is now in layout without
// emitting a barrier. Use it when the hardware performs the transition
// itself, such as a render pass final layout.
func (s *StateTracker) SetLayoutWithoutEncoding(tex *Texture, layout Layout) {
	if tex == nil || tex.IsReleased() {
		return
	}
	s.store(tex, layout)
}

// Forget drops the entry for tex. The next query reports LayoutUndefined.
func (s *StateTracker) Forget(tex *Texture) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.layouts, tex)
}

// Len returns the number of tracked textures.
func (s *StateTracker) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.layouts)
}

func (s *StateTracker) store(tex *Texture, layout Layout) {
	s.mu.Lock()
	e, ok := s.layouts[tex]
	if !ok {
		e = &trackedLayout{}
		s.layouts[tex] = e
	}
	e.layout = layout
	needHook := !e.hooked
	e.hooked = true
	s.mu.Unlock()

	if needHook && !tex.onRelease(s.Forget) {
		// Released between the check and the insert.
		s.Forget(tex)
	}
}
