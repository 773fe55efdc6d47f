package backend

import (
	"errors"

	"github.com/gogpu/canvas/render"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not registered.
	ErrBackendNotAvailable = errors.New("backend: not available")

	// ErrClosed is returned when a device is used after Close.
	ErrClosed = errors.New("backend: device closed")
)

// Backend name constants.
const (
	// BackendRecorder is the in-memory backend that records an inspectable
	// op stream.
	BackendRecorder = "recorder"
	// BackendWGPU is the gogpu/wgpu HAL backend on a caller-provided device.
	BackendWGPU = "wgpu"
	// BackendWGPUNoop is the gogpu/wgpu HAL backend on the noop device.
	BackendWGPUNoop = "wgpu-noop"
)

// Device is a graphics device able to run the render pass encoder.
//
// It creates render passes, framebuffers and resource sets for the
// encoder, allocates textures and buffers, and starts command recorders.
type Device interface {
	render.Backend
	render.TextureAllocator

	// Name returns the backend identifier (e.g., "recorder", "wgpu").
	Name() string

	// NewRecorder starts a new command buffer.
	NewRecorder(label string) (Recorder, error)

	// Close releases all device resources.
	// The device must not be used after Close is called.
	Close()
}

// Recorder is a command buffer being recorded.
type Recorder interface {
	render.CommandRecorder

	// Finish ends recording. It fails if a render pass or debug group is
	// still open.
	Finish() error
}
