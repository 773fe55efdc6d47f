// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package render turns render targets and ordered draw commands into
// correctly synchronized render passes for explicit graphics APIs.
//
// # Key Principle
//
// Every image resource has exactly one recorded layout, owned by a
// [StateTracker]. The encoder never writes a texture's layout directly; it
// asks the tracker, which records the barrier on the caller's
// [CommandRecorder] and updates its bookkeeping in the same step.
//
// # Core Types
//
//   - Texture: reference-counted image handle with a backend-native slot
//   - StateTracker: per-texture layout bookkeeping and barrier emission
//   - Attachment, RenderTarget: color/depth/stencil slots of a pass
//   - Command: one draw call with its pipeline, buffers and bindings
//   - Backend, CommandRecorder: the seams a graphics API implements
//   - RenderPassEncoder: derives the pass, emits barriers, binds and draws
//
// # Usage
//
//	tracker := render.NewStateTracker()
//	enc, err := render.NewRenderPassEncoder(backend, tracker,
//	    render.WithLabel("frame"))
//	if err != nil {
//	    return err
//	}
//	if err := enc.Encode(recorder, target, commands); err != nil {
//	    return err // nothing was begun on the recorder
//	}
//
// Backends live in sibling packages: backend/recorder keeps an inspectable
// op stream and backend/wgpu drives a gogpu/wgpu HAL device.
package render
