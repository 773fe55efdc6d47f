// Package recorder provides an in-memory device that records every
// barrier, pass, bind and draw as an inspectable op stream.
//
// It behaves like an explicit graphics API: render passes, framebuffers and
// resource sets are real objects with identities, and failures can be
// injected at each creation step. It registers itself as
// [backend.BackendRecorder].
package recorder

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/canvas/backend"
	"github.com/gogpu/canvas/render"
)

func init() {
	backend.Register(backend.BackendRecorder, func() (backend.Device, error) {
		return New(), nil
	})
}

// ErrInjected is the error produced by injected failures created with
// the zero-argument options.
var ErrInjected = errors.New("recorder: injected failure")

// Pipeline is a pipeline handle for use with the recorder backend.
type Pipeline struct {
	label string
}

// NewPipeline creates a pipeline handle.
func NewPipeline(label string) *Pipeline {
	return &Pipeline{label: label}
}

// Label returns the pipeline label.
func (p *Pipeline) Label() string { return p.label }

// RenderPass is a render pass object created by the recorder backend.
type RenderPass struct {
	ID   int
	Desc render.RenderPassDescriptor
}

// Framebuffer is a framebuffer object created by the recorder backend.
type Framebuffer struct {
	ID          int
	RenderPass  *RenderPass
	Attachments []*render.Texture
	Size        render.ISize
}

// ResourceSet is the resource set allocated for one command.
type ResourceSet struct {
	ID      int
	Command string
}

// String implements fmt.Stringer.
func (s *ResourceSet) String() string {
	return fmt.Sprintf("set#%d(%s)", s.ID, s.Command)
}

// Stats counts the objects a Backend has created.
type Stats struct {
	RenderPassesCreated   int
	RenderPassesDestroyed int
	Framebuffers          int
	ResourceSets          int
	Textures              int
	Buffers               int
}

// Option configures a Backend.
type Option func(*Backend)

// WithRenderPassError makes CreateRenderPass fail with err.
func WithRenderPassError(err error) Option {
	return func(b *Backend) { b.passErr = err }
}

// WithFramebufferError makes CreateFramebuffer fail with err.
func WithFramebufferError(err error) Option {
	return func(b *Backend) { b.framebufferErr = err }
}

// WithBufferError makes CreateBuffer fail with err.
func WithBufferError(err error) Option {
	return func(b *Backend) { b.bufferErr = err }
}

// WithResourceSetLimit caps the total number of resource sets the backend
// hands out. Allocation of a command list that would exceed it fails.
func WithResourceSetLimit(n int) Option {
	return func(b *Backend) { b.setLimit = n }
}

// Backend is an in-memory device. It is safe for concurrent use.
type Backend struct {
	mu     sync.Mutex
	nextID int
	stats  Stats
	closed bool

	passErr        error
	framebufferErr error
	bufferErr      error
	setLimit       int
}

// New creates a recorder backend.
func New(opts ...Option) *Backend {
	b := &Backend{setLimit: -1}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Name returns "recorder".
func (b *Backend) Name() string { return backend.BackendRecorder }

func (b *Backend) id() int {
	b.nextID++
	return b.nextID
}

// CreateRenderPass creates a render pass object holding a copy of desc.
func (b *Backend) CreateRenderPass(desc *render.RenderPassDescriptor) (render.RenderPass, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, backend.ErrClosed
	}
	if b.passErr != nil {
		return nil, b.passErr
	}
	b.stats.RenderPassesCreated++
	return &RenderPass{ID: b.id(), Desc: *desc}, nil
}

// DestroyRenderPass counts the destruction of a render pass.
func (b *Backend) DestroyRenderPass(pass render.RenderPass) {
	if _, ok := pass.(*RenderPass); !ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stats.RenderPassesDestroyed++
}

// CreateFramebuffer creates a framebuffer for a pass created by b.
func (b *Backend) CreateFramebuffer(desc *render.FramebufferDescriptor) (render.Framebuffer, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, backend.ErrClosed
	}
	if b.framebufferErr != nil {
		return nil, b.framebufferErr
	}
	pass, ok := desc.RenderPass.(*RenderPass)
	if !ok {
		return nil, fmt.Errorf("recorder: foreign render pass %T", desc.RenderPass)
	}
	if len(desc.Attachments) != len(pass.Desc.Attachments) {
		return nil, fmt.Errorf("recorder: framebuffer has %d attachments, render pass has %d",
			len(desc.Attachments), len(pass.Desc.Attachments))
	}
	for i, tex := range desc.Attachments {
		if tex.Descriptor().Format != pass.Desc.Attachments[i].Format {
			return nil, fmt.Errorf("recorder: framebuffer attachment %d format %v does not match pass %v",
				i, tex.Descriptor().Format, pass.Desc.Attachments[i].Format)
		}
	}
	b.stats.Framebuffers++
	return &Framebuffer{
		ID:          b.id(),
		RenderPass:  pass,
		Attachments: append([]*render.Texture(nil), desc.Attachments...),
		Size:        desc.Size,
	}, nil
}

// AllocateResourceSets allocates one set per command.
func (b *Backend) AllocateResourceSets(commands []render.Command) ([]render.ResourceSet, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, backend.ErrClosed
	}
	if b.setLimit >= 0 && b.stats.ResourceSets+len(commands) > b.setLimit {
		return nil, fmt.Errorf("%w: resource set pool exhausted (%d of %d used, %d requested)",
			ErrInjected, b.stats.ResourceSets, b.setLimit, len(commands))
	}
	sets := make([]render.ResourceSet, len(commands))
	for i := range commands {
		sets[i] = &ResourceSet{ID: b.id(), Command: commands[i].Label}
	}
	b.stats.ResourceSets += len(commands)
	return sets, nil
}

// BufferAllocator returns b.
func (b *Backend) BufferAllocator() render.BufferAllocator { return b }

// CreateBuffer creates a device buffer holding a copy of contents.
func (b *Backend) CreateBuffer(desc render.DeviceBufferDescriptor, contents []byte) (*render.DeviceBuffer, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, backend.ErrClosed
	}
	if b.bufferErr != nil {
		return nil, b.bufferErr
	}
	if desc.Size < uint64(len(contents)) {
		desc.Size = uint64(len(contents))
	}
	data := make([]byte, desc.Size)
	copy(data, contents)
	b.stats.Buffers++
	return render.NewDeviceBuffer(desc, data), nil
}

// CreateTexture creates a texture. Its native object is the texture's
// sequence number within this backend.
func (b *Backend) CreateTexture(desc render.TextureDescriptor) (*render.Texture, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, backend.ErrClosed
	}
	if desc.Size.IsEmpty() {
		return nil, fmt.Errorf("recorder: texture %q has empty size %s", desc.Label, desc.Size)
	}
	b.stats.Textures++
	return render.NewTexture(desc, b.id(), nil), nil
}

// NewRecorder starts a new command buffer.
func (b *Backend) NewRecorder(label string) (backend.Recorder, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, backend.ErrClosed
	}
	return NewCommandBuffer(label), nil
}

// Stats returns a snapshot of the object counters.
func (b *Backend) Stats() Stats {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stats
}

// Close marks the backend closed. Later creation calls fail.
func (b *Backend) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
}

var _ backend.Device = (*Backend)(nil)
