// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"fmt"
	"strings"

	"github.com/gogpu/gputypes"
)

// LoadAction specifies what happens to attachment contents when a pass begins.
type LoadAction uint8

const (
	// LoadActionDontCare leaves the previous contents undefined.
	LoadActionDontCare LoadAction = iota
	// LoadActionLoad preserves the previous contents.
	LoadActionLoad
	// LoadActionClear fills the attachment with its clear value.
	LoadActionClear
)

// String returns the string representation of the load action.
func (a LoadAction) String() string {
	switch a {
	case LoadActionDontCare:
		return "DontCare"
	case LoadActionLoad:
		return "Load"
	case LoadActionClear:
		return "Clear"
	default:
		return fmt.Sprintf("LoadAction(%d)", int(a))
	}
}

// LoadOp maps the action onto WebGPU. WebGPU has no don't-care load, so
// it clears, which is the cheapest defined behavior on tiled hardware.
func (a LoadAction) LoadOp() gputypes.LoadOp {
	if a == LoadActionLoad {
		return gputypes.LoadOpLoad
	}
	return gputypes.LoadOpClear
}

// StoreAction specifies what happens to attachment contents when a pass ends.
type StoreAction uint8

const (
	// StoreActionDontCare discards the rendered contents.
	StoreActionDontCare StoreAction = iota
	// StoreActionStore writes the rendered contents back to memory.
	StoreActionStore
)

// String returns the string representation of the store action.
func (a StoreAction) String() string {
	switch a {
	case StoreActionDontCare:
		return "DontCare"
	case StoreActionStore:
		return "Store"
	default:
		return fmt.Sprintf("StoreAction(%d)", int(a))
	}
}

// StoreOp maps the action onto WebGPU.
func (a StoreAction) StoreOp() gputypes.StoreOp {
	if a == StoreActionStore {
		return gputypes.StoreOpStore
	}
	return gputypes.StoreOpDiscard
}

// StorageMode describes where a resource lives.
type StorageMode uint8

const (
	// StorageModeHostVisible resources are mappable by the CPU.
	StorageModeHostVisible StorageMode = iota
	// StorageModeDevicePrivate resources live in device-local memory.
	StorageModeDevicePrivate
	// StorageModeDeviceTransient resources exist only for the duration of a
	// render pass and are never written back to memory.
	StorageModeDeviceTransient
)

// String returns the string representation of the storage mode.
func (m StorageMode) String() string {
	switch m {
	case StorageModeHostVisible:
		return "HostVisible"
	case StorageModeDevicePrivate:
		return "DevicePrivate"
	case StorageModeDeviceTransient:
		return "DeviceTransient"
	default:
		return fmt.Sprintf("StorageMode(%d)", int(m))
	}
}

// SampleCount is the number of samples per pixel.
type SampleCount uint32

const (
	SampleCount1 SampleCount = 1
	SampleCount4 SampleCount = 4
)

// IndexType is the width of the indices in an index buffer.
type IndexType uint8

const (
	// IndexTypeNone means the draw is not indexed.
	IndexTypeNone IndexType = iota
	// IndexTypeUint16 uses 16-bit indices.
	IndexTypeUint16
	// IndexTypeUint32 uses 32-bit indices.
	IndexTypeUint32
)

// String returns the string representation of the index type.
func (t IndexType) String() string {
	switch t {
	case IndexTypeNone:
		return "None"
	case IndexTypeUint16:
		return "Uint16"
	case IndexTypeUint32:
		return "Uint32"
	default:
		return fmt.Sprintf("IndexType(%d)", int(t))
	}
}

// IndexFormat maps the index type onto WebGPU.
// IndexTypeNone maps to Uint16; callers must not bind an index buffer for it.
func (t IndexType) IndexFormat() gputypes.IndexFormat {
	if t == IndexTypeUint32 {
		return gputypes.IndexFormatUint32
	}
	return gputypes.IndexFormatUint16
}

// Size returns the byte size of one index.
func (t IndexType) Size() uint64 {
	switch t {
	case IndexTypeUint16:
		return 2
	case IndexTypeUint32:
		return 4
	default:
		return 0
	}
}

// Layout is the memory arrangement and access mode of an image resource.
type Layout uint8

const (
	// LayoutUndefined means the contents are uninitialized. Every texture
	// starts here.
	LayoutUndefined Layout = iota
	LayoutGeneral
	LayoutColorAttachment
	LayoutDepthStencilAttachment
	LayoutShaderReadOnly
	LayoutTransferSrc
	LayoutTransferDst
	LayoutPresentSrc
)

var layoutNames = [...]string{
	LayoutUndefined:              "Undefined",
	LayoutGeneral:                "General",
	LayoutColorAttachment:        "ColorAttachment",
	LayoutDepthStencilAttachment: "DepthStencilAttachment",
	LayoutShaderReadOnly:         "ShaderReadOnly",
	LayoutTransferSrc:            "TransferSrc",
	LayoutTransferDst:            "TransferDst",
	LayoutPresentSrc:             "PresentSrc",
}

// String returns the string representation of the layout.
func (l Layout) String() string {
	if int(l) < len(layoutNames) {
		return layoutNames[l]
	}
	return fmt.Sprintf("Layout(%d)", int(l))
}

// PipelineStage is a bitmask of pipeline stages used to scope barriers.
type PipelineStage uint32

const (
	PipelineStageTopOfPipe PipelineStage = 1 << iota
	PipelineStageVertexShader
	PipelineStageFragmentShader
	PipelineStageEarlyFragmentTests
	PipelineStageLateFragmentTests
	PipelineStageColorAttachmentOutput
	PipelineStageTransfer
	PipelineStageBottomOfPipe
)

var stageNames = []string{
	"TopOfPipe", "VertexShader", "FragmentShader", "EarlyFragmentTests",
	"LateFragmentTests", "ColorAttachmentOutput", "Transfer", "BottomOfPipe",
}

// String returns the set flags joined by '|'.
func (s PipelineStage) String() string {
	return flagString(uint32(s), stageNames)
}

// Access is a bitmask of memory access kinds used to scope barriers.
type Access uint32

const (
	AccessShaderRead Access = 1 << iota
	AccessShaderWrite
	AccessColorAttachmentRead
	AccessColorAttachmentWrite
	AccessDepthStencilAttachmentRead
	AccessDepthStencilAttachmentWrite
	AccessTransferRead
	AccessTransferWrite
)

var accessNames = []string{
	"ShaderRead", "ShaderWrite", "ColorAttachmentRead", "ColorAttachmentWrite",
	"DepthStencilAttachmentRead", "DepthStencilAttachmentWrite",
	"TransferRead", "TransferWrite",
}

// String returns the set flags joined by '|'.
func (a Access) String() string {
	return flagString(uint32(a), accessNames)
}

func flagString(v uint32, names []string) string {
	if v == 0 {
		return "None"
	}
	var parts []string
	for i, name := range names {
		if v&(1<<i) != 0 {
			parts = append(parts, name)
		}
	}
	return strings.Join(parts, "|")
}
