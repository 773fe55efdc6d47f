// Package wgpu runs the render pass encoder on a gogpu/wgpu HAL device.
//
// The device can wrap a caller's hal.Device and hal.Queue, a
// gpucontext.DeviceProvider, or open its own device on the HAL noop
// backend:
//
//	dev, err := wgpu.OpenNoop()
//	if err != nil {
//	    return err
//	}
//	defer dev.Close()
//
//	rec, _ := dev.NewCommandRecorder("frame")
//	if err := enc.Encode(rec, target, commands); err != nil {
//	    rec.Discard()
//	    return err
//	}
//	if err := rec.Finish(); err != nil {
//	    return err
//	}
//	return rec.Submit()
//
// Importing the package registers the noop device as
// [backend.BackendWGPUNoop]. RegisterProvider registers a real device as
// [backend.BackendWGPU].
//
// Layouts map onto WebGPU texture usages for HAL barriers: shader
// read-only is texture binding, transfer layouts are copy source and
// destination, and every other defined layout is render attachment.
package wgpu
