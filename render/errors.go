// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import "errors"

// Encode errors. Each aborts the whole encode; none are retried.
var (
	// ErrMissingVertexBuffer is returned when a command has no vertex buffer.
	ErrMissingVertexBuffer = errors.New("render: command has no vertex buffer")

	// ErrMissingIndexBuffer is returned when a command declares an index type
	// but carries no index buffer.
	ErrMissingIndexBuffer = errors.New("render: indexed command has no index buffer")

	// ErrMissingPipeline is returned when a command has no pipeline.
	ErrMissingPipeline = errors.New("render: command has no pipeline")

	// ErrBufferUnavailable is returned when a buffer view cannot be resolved
	// to a device buffer.
	ErrBufferUnavailable = errors.New("render: device buffer unavailable")

	// ErrRenderPassCreation is returned when the backend rejects a render pass.
	ErrRenderPassCreation = errors.New("render: could not create render pass")

	// ErrFramebufferCreation is returned when the backend rejects a framebuffer.
	ErrFramebufferCreation = errors.New("render: could not create framebuffer")

	// ErrResourceSetAllocation is returned when resource sets cannot be
	// allocated for the command list.
	ErrResourceSetAllocation = errors.New("render: could not allocate resource sets")

	// ErrTextureReleased is returned when a released texture is transitioned.
	ErrTextureReleased = errors.New("render: texture has been released")

	// ErrInvalidRenderTarget is returned for render targets without
	// attachments or with mismatched attachment sizes.
	ErrInvalidRenderTarget = errors.New("render: invalid render target")

	// ErrTrackingFailed is returned when the command recorder refuses to
	// track a resource for the submission.
	ErrTrackingFailed = errors.New("render: recorder could not track resource")
)
