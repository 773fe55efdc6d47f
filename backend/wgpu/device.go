package wgpu

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"

	"github.com/gogpu/canvas/backend"
	"github.com/gogpu/canvas/render"
)

func init() {
	backend.Register(backend.BackendWGPUNoop, func() (backend.Device, error) {
		return OpenNoop()
	})
}

// ErrNotHALProvider is returned by NewFromProvider when the provider does
// not expose a HAL device and queue.
var ErrNotHALProvider = errors.New("wgpu: provider does not expose hal.Device and hal.Queue")

// halProvider is implemented by providers that expose their HAL objects.
type halProvider interface {
	HalDevice() any
	HalQueue() any
}

// Option configures a Device.
type Option func(*Device)

// WithBindGroupFactory sets the factory used to build resource sets.
func WithBindGroupFactory(f BindGroupFactory) Option {
	return func(d *Device) { d.bindGroups = f }
}

// WithName overrides the name reported by Name.
func WithName(name string) Option {
	return func(d *Device) { d.name = name }
}

// Device runs the render pass encoder on a gogpu/wgpu HAL device.
//
// Render pass objects are descriptor templates: WebGPU has no render pass
// object, so the pass is rebuilt from the template at BeginRenderPass.
// Framebuffers are the texture views of the attachments and live until
// the recorder that tracked them is submitted or discarded.
type Device struct {
	mu     sync.Mutex
	device hal.Device
	queue  hal.Queue
	closed bool
	name   string

	// instance and owned are set when the device was opened by this
	// package and must be destroyed on Close.
	instance hal.Instance
	owned    bool

	bindGroups BindGroupFactory
}

// New wraps an existing HAL device and queue. The caller keeps ownership
// of both.
func New(device hal.Device, queue hal.Queue, opts ...Option) (*Device, error) {
	if device == nil || queue == nil {
		return nil, errors.New("wgpu: nil device or queue")
	}
	d := &Device{device: device, queue: queue, name: backend.BackendWGPU}
	for _, opt := range opts {
		opt(d)
	}
	if d.bindGroups == nil {
		d.bindGroups = UniformBindGroups{}
	}
	return d, nil
}

// NewFromProvider wraps the HAL device of a gpucontext provider.
func NewFromProvider(provider gpucontext.DeviceProvider, opts ...Option) (*Device, error) {
	if provider == nil {
		return nil, fmt.Errorf("%w: nil provider", ErrNotHALProvider)
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrNotHALProvider
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice is %T", ErrNotHALProvider, hp.HalDevice())
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: HalQueue is %T", ErrNotHALProvider, hp.HalQueue())
	}
	return New(device, queue, opts...)
}

// RegisterProvider registers provider's device as the "wgpu" backend.
func RegisterProvider(provider gpucontext.DeviceProvider, opts ...Option) {
	backend.Register(backend.BackendWGPU, func() (backend.Device, error) {
		return NewFromProvider(provider, opts...)
	})
}

// OpenNoop opens a device on the HAL noop backend. The device owns its
// instance and destroys it on Close.
func OpenNoop(opts ...Option) (*Device, error) {
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		return nil, fmt.Errorf("wgpu: create noop instance: %w", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, fmt.Errorf("wgpu: %w: no noop adapter", backend.ErrBackendNotAvailable)
	}
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("wgpu: open noop device: %w", err)
	}
	d, err := New(openDev.Device, openDev.Queue, append([]Option{WithName(backend.BackendWGPUNoop)}, opts...)...)
	if err != nil {
		openDev.Device.Destroy()
		instance.Destroy()
		return nil, err
	}
	d.instance = instance
	d.owned = true
	return d, nil
}

// Name returns the backend name.
func (d *Device) Name() string { return d.name }

// HalDevice returns the wrapped HAL device.
func (d *Device) HalDevice() hal.Device { return d.device }

func (d *Device) checkOpen() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return backend.ErrClosed
	}
	return nil
}

// CreateTexture creates a 2D texture. A zero usage defaults to render
// attachment plus texture binding.
func (d *Device) CreateTexture(desc render.TextureDescriptor) (*render.Texture, error) {
	if err := d.checkOpen(); err != nil {
		return nil, err
	}
	if desc.Size.IsEmpty() {
		return nil, fmt.Errorf("wgpu: texture %q has empty size %s", desc.Label, desc.Size)
	}
	usage := desc.Usage
	if usage == 0 {
		usage = gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageTextureBinding
	}
	tex, err := d.device.CreateTexture(&hal.TextureDescriptor{
		Label: desc.Label,
		Size: hal.Extent3D{
			Width:              uint32(desc.Size.Width),  //nolint:gosec // validated non-empty
			Height:             uint32(desc.Size.Height), //nolint:gosec // validated non-empty
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   uint32(desc.Samples()),
		Dimension:     gputypes.TextureDimension2D,
		Format:        desc.Format,
		Usage:         usage,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create texture %q: %w", desc.Label, err)
	}
	device := d.device
	return render.NewTexture(desc, tex, func(native any) {
		device.DestroyTexture(native.(hal.Texture))
	}), nil
}

// BufferAllocator returns d.
func (d *Device) BufferAllocator() render.BufferAllocator { return d }

// CreateBuffer creates a device buffer and uploads contents through the
// queue. Sizes are padded to a multiple of 4 bytes.
func (d *Device) CreateBuffer(desc render.DeviceBufferDescriptor, contents []byte) (*render.DeviceBuffer, error) {
	if err := d.checkOpen(); err != nil {
		return nil, err
	}
	size := max(desc.Size, uint64(len(contents)))
	size = (size + 3) &^ 3
	desc.Size = size
	buf, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: desc.Label,
		Size:  size,
		Usage: desc.Usage | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create buffer %q: %w", desc.Label, err)
	}
	if len(contents) > 0 {
		data := contents
		if uint64(len(data)) != size {
			data = make([]byte, size)
			copy(data, contents)
		}
		if err := d.queue.WriteBuffer(buf, 0, data); err != nil {
			d.device.DestroyBuffer(buf)
			return nil, fmt.Errorf("wgpu: write buffer %q: %w", desc.Label, err)
		}
	}
	return render.NewDeviceBuffer(desc, buf), nil
}

// DestroyBuffer destroys the HAL buffer behind buf.
func (d *Device) DestroyBuffer(buf *render.DeviceBuffer) {
	if hb, ok := buf.Native().(hal.Buffer); ok {
		d.device.DestroyBuffer(hb)
	}
}

// RenderPass is the descriptor template of a render pass.
type RenderPass struct {
	Desc render.RenderPassDescriptor
}

// CreateRenderPass stores a copy of desc.
func (d *Device) CreateRenderPass(desc *render.RenderPassDescriptor) (render.RenderPass, error) {
	if err := d.checkOpen(); err != nil {
		return nil, err
	}
	cp := *desc
	cp.Attachments = append([]render.AttachmentDescription(nil), desc.Attachments...)
	cp.ColorRefs = append([]render.AttachmentReference(nil), desc.ColorRefs...)
	cp.ResolveRefs = append([]render.AttachmentReference(nil), desc.ResolveRefs...)
	return &RenderPass{Desc: cp}, nil
}

// DestroyRenderPass is a no-op: templates hold no GPU objects.
func (d *Device) DestroyRenderPass(render.RenderPass) {}

// Framebuffer holds one texture view per render pass attachment.
type Framebuffer struct {
	Pass  *RenderPass
	Views []hal.TextureView
	Size  render.ISize
}

// CreateFramebuffer creates a view of every attachment texture.
func (d *Device) CreateFramebuffer(desc *render.FramebufferDescriptor) (render.Framebuffer, error) {
	if err := d.checkOpen(); err != nil {
		return nil, err
	}
	pass, ok := desc.RenderPass.(*RenderPass)
	if !ok {
		return nil, fmt.Errorf("wgpu: foreign render pass %T", desc.RenderPass)
	}
	fb := &Framebuffer{Pass: pass, Size: desc.Size}
	for i, tex := range desc.Attachments {
		native, ok := tex.Native().(hal.Texture)
		if !ok {
			d.destroyFramebuffer(fb)
			return nil, fmt.Errorf("wgpu: attachment %d %s is not a HAL texture", i, tex)
		}
		view, err := d.device.CreateTextureView(native, &hal.TextureViewDescriptor{
			Label: tex.Label() + " view",
		})
		if err != nil {
			d.destroyFramebuffer(fb)
			return nil, fmt.Errorf("wgpu: attachment %d view: %w", i, err)
		}
		fb.Views = append(fb.Views, view)
	}
	return fb, nil
}

func (d *Device) destroyFramebuffer(fb *Framebuffer) {
	for _, v := range fb.Views {
		d.device.DestroyTextureView(v)
	}
	fb.Views = nil
}

// AllocateResourceSets builds one resource set per command with the
// device's BindGroupFactory.
func (d *Device) AllocateResourceSets(commands []render.Command) ([]render.ResourceSet, error) {
	if err := d.checkOpen(); err != nil {
		return nil, err
	}
	sets := make([]render.ResourceSet, 0, len(commands))
	for i := range commands {
		set, err := d.bindGroups.CreateResourceSet(d, &commands[i])
		if err != nil {
			for _, s := range sets {
				d.destroyResourceSet(s.(*ResourceSet))
			}
			return nil, fmt.Errorf("wgpu: command %d %q: %w", i, commands[i].Label, err)
		}
		sets = append(sets, set)
	}
	return sets, nil
}

// NewRecorder begins a HAL command encoder.
func (d *Device) NewRecorder(label string) (backend.Recorder, error) {
	return d.NewCommandRecorder(label)
}

// NewCommandRecorder is NewRecorder returning the concrete type.
func (d *Device) NewCommandRecorder(label string) (*Recorder, error) {
	if err := d.checkOpen(); err != nil {
		return nil, err
	}
	enc, err := d.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: label})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create command encoder: %w", err)
	}
	if err := enc.BeginEncoding(label); err != nil {
		return nil, fmt.Errorf("wgpu: begin encoding: %w", err)
	}
	return &Recorder{
		device:  d,
		encoder: enc,
		label:   label,
		seen:    make(map[any]struct{}),
	}, nil
}

// Close marks the device closed and, if it was opened by OpenNoop,
// destroys the device and its instance.
func (d *Device) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.closed = true
	if d.owned {
		d.device.Destroy()
		if d.instance != nil {
			d.instance.Destroy()
		}
	}
}

var _ backend.Device = (*Device)(nil)
