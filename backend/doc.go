// Package backend provides a pluggable registry of graphics devices for the
// render pass encoder.
//
// # Backend Registration
//
// Backends register a factory from an init() function and are selected at
// runtime by name:
//
//	import (
//	    _ "github.com/gogpu/canvas/backend/recorder"
//	    _ "github.com/gogpu/canvas/backend/wgpu"
//	)
//
//	dev, err := backend.Open(backend.BackendRecorder)
//
// # Backend Selection
//
// OpenDefault tries the registered backends in priority order
// (wgpu, wgpu-noop, recorder) and returns the first that opens.
//
// # Usage with the encoder
//
//	dev, _ := backend.OpenDefault()
//	defer dev.Close()
//
//	enc, _ := render.NewRenderPassEncoder(dev, render.NewStateTracker())
//	rec, _ := dev.NewRecorder("frame")
//	if err := enc.Encode(rec, target, commands); err != nil {
//	    return err
//	}
//	return rec.Finish()
package backend
