// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gogpu/gputypes"
)

// TextureDescriptor describes an image resource.
type TextureDescriptor struct {
	// Label is an optional debug label.
	Label string

	// Size is the texture size in pixels.
	Size ISize

	// Format is the pixel format.
	Format gputypes.TextureFormat

	// SampleCount is the number of samples per pixel. Zero means 1.
	SampleCount SampleCount

	// StorageMode says where the texture lives.
	StorageMode StorageMode

	// Usage specifies how the texture may be used.
	Usage gputypes.TextureUsage
}

// Samples returns the effective sample count.
func (d TextureDescriptor) Samples() SampleCount {
	if d.SampleCount == 0 {
		return SampleCount1
	}
	return d.SampleCount
}

// TextureAllocator creates textures. Backends implement it.
type TextureAllocator interface {
	CreateTexture(desc TextureDescriptor) (*Texture, error)
}

var nextTextureID atomic.Uint64

// Texture is a reference-counted handle to an image resource.
//
// A texture is shared by every render target and in-flight submission that
// refers to it. Each holder calls Retain when it takes a reference and
// Release when it drops one; the backend object is destroyed when the last
// holder releases. Textures start with one reference owned by the creator.
//
// The layout of a texture is not stored here. See [StateTracker].
type Texture struct {
	id   uint64
	desc TextureDescriptor

	mu       sync.Mutex
	refs     int32
	released bool
	native   any
	destroy  func(native any)
	hooks    []func(*Texture)
}

// NewTexture wraps a backend-native object. destroy, if non-nil, is called
// with native once the last reference is released.
func NewTexture(desc TextureDescriptor, native any, destroy func(native any)) *Texture {
	t := &Texture{
		id:      nextTextureID.Add(1),
		desc:    desc,
		refs:    1,
		native:  native,
		destroy: destroy,
	}
	return t
}

// ID returns a process-unique identifier, stable for the texture's lifetime.
func (t *Texture) ID() uint64 { return t.id }

// Descriptor returns the texture descriptor.
func (t *Texture) Descriptor() TextureDescriptor { return t.desc }

// Size returns the texture size.
func (t *Texture) Size() ISize { return t.desc.Size }

// Label returns the debug label.
func (t *Texture) Label() string { return t.desc.Label }

// IsMultisampled reports whether the texture has more than one sample.
func (t *Texture) IsMultisampled() bool { return t.desc.Samples() > SampleCount1 }

// Native returns the backend-native object, or nil once released.
func (t *Texture) Native() any {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.native
}

// Retain adds a reference and returns t for chaining.
// Retaining a released texture has no effect.
func (t *Texture) Retain() *Texture {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.released {
		t.refs++
	}
	return t
}

// Release drops a reference. When the last reference goes the release
// hooks run and the backend object is destroyed.
func (t *Texture) Release() {
	t.mu.Lock()
	if t.released {
		t.mu.Unlock()
		return
	}
	t.refs--
	if t.refs > 0 {
		t.mu.Unlock()
		return
	}
	t.released = true
	native, destroy, hooks := t.native, t.destroy, t.hooks
	t.native, t.destroy, t.hooks = nil, nil, nil
	t.mu.Unlock()

	for _, h := range hooks {
		h(t)
	}
	if destroy != nil && native != nil {
		destroy(native)
	}
}

// RefCount returns the number of live references.
func (t *Texture) RefCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return int(t.refs)
}

// IsReleased reports whether the last reference has been dropped.
func (t *Texture) IsReleased() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.released
}

// onRelease registers fn to run when the texture is released.
// It returns false, without registering, if the texture is already released.
func (t *Texture) onRelease(fn func(*Texture)) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.released {
		return false
	}
	t.hooks = append(t.hooks, fn)
	return true
}

// String implements fmt.Stringer.
func (t *Texture) String() string {
	if t.desc.Label != "" {
		return fmt.Sprintf("Texture(%d %q %s)", t.id, t.desc.Label, t.desc.Size)
	}
	return fmt.Sprintf("Texture(%d %s)", t.id, t.desc.Size)
}
