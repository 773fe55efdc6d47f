// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"fmt"
	"sync"

	"github.com/gogpu/gputypes"
)

// Range is a byte range within a buffer.
type Range struct {
	Offset, Length uint64
}

// Buffer is anything that can provide device-resident storage for a draw.
// A DeviceBuffer returns itself; a HostBuffer uploads its contents on demand.
type Buffer interface {
	GetDeviceBuffer(allocator BufferAllocator) (*DeviceBuffer, error)
}

// BufferView is a byte range within a buffer.
type BufferView struct {
	Buffer Buffer
	Range  Range
}

// IsValid reports whether the view refers to a buffer.
func (v BufferView) IsValid() bool {
	return v.Buffer != nil
}

// DeviceBufferDescriptor describes a device buffer.
type DeviceBufferDescriptor struct {
	Label       string
	Size        uint64
	StorageMode StorageMode
	Usage       gputypes.BufferUsage
}

// BufferAllocator creates device buffers, optionally initialized with
// contents. Backends implement it.
type BufferAllocator interface {
	CreateBuffer(desc DeviceBufferDescriptor, contents []byte) (*DeviceBuffer, error)
}

// DeviceBuffer is a buffer resident on the device.
type DeviceBuffer struct {
	desc   DeviceBufferDescriptor
	native any
}

// NewDeviceBuffer wraps a backend-native buffer object.
func NewDeviceBuffer(desc DeviceBufferDescriptor, native any) *DeviceBuffer {
	return &DeviceBuffer{desc: desc, native: native}
}

// GetDeviceBuffer returns b.
func (b *DeviceBuffer) GetDeviceBuffer(BufferAllocator) (*DeviceBuffer, error) {
	return b, nil
}

// Descriptor returns the buffer descriptor.
func (b *DeviceBuffer) Descriptor() DeviceBufferDescriptor { return b.desc }

// Native returns the backend-native object.
func (b *DeviceBuffer) Native() any { return b.native }

// String implements fmt.Stringer.
func (b *DeviceBuffer) String() string {
	return fmt.Sprintf("DeviceBuffer(%q %d bytes)", b.desc.Label, b.desc.Size)
}

// HostBuffer accumulates vertex, index and uniform data on the CPU and
// uploads it as one device buffer the first time a draw needs it.
// Emplacing after an upload invalidates the device copy; the next
// GetDeviceBuffer uploads again.
type HostBuffer struct {
	mu     sync.Mutex
	label  string
	usage  gputypes.BufferUsage
	data   []byte
	device *DeviceBuffer
}

// NewHostBuffer creates an empty host buffer.
func NewHostBuffer(label string) *HostBuffer {
	return &HostBuffer{
		label: label,
		usage: gputypes.BufferUsageVertex | gputypes.BufferUsageIndex |
			gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	}
}

// Emplace appends data aligned to align bytes and returns a view of it.
func (h *HostBuffer) Emplace(data []byte, align uint64) BufferView {
	h.mu.Lock()
	defer h.mu.Unlock()
	if align > 1 {
		if pad := uint64(len(h.data)) % align; pad != 0 {
			h.data = append(h.data, make([]byte, align-pad)...)
		}
	}
	offset := uint64(len(h.data))
	h.data = append(h.data, data...)
	h.device = nil
	return BufferView{Buffer: h, Range: Range{Offset: offset, Length: uint64(len(data))}}
}

// Len returns the number of bytes emplaced.
func (h *HostBuffer) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.data)
}

// Reset discards all contents.
func (h *HostBuffer) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.data = h.data[:0]
	h.device = nil
}

// GetDeviceBuffer uploads the contents if needed and returns the device copy.
func (h *HostBuffer) GetDeviceBuffer(allocator BufferAllocator) (*DeviceBuffer, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.device != nil {
		return h.device, nil
	}
	if allocator == nil {
		return nil, fmt.Errorf("host buffer %q: no allocator: %w", h.label, ErrBufferUnavailable)
	}
	if len(h.data) == 0 {
		return nil, fmt.Errorf("host buffer %q: empty: %w", h.label, ErrBufferUnavailable)
	}
	buf, err := allocator.CreateBuffer(DeviceBufferDescriptor{
		Label:       h.label,
		Size:        uint64(len(h.data)),
		StorageMode: StorageModeHostVisible,
		Usage:       h.usage,
	}, h.data)
	if err != nil {
		return nil, fmt.Errorf("host buffer %q: %w: %w", h.label, ErrBufferUnavailable, err)
	}
	h.device = buf
	return buf, nil
}
