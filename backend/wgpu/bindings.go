package wgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/canvas/render"
)

// Pipeline is a HAL render pipeline together with the layout of its
// bind group 0. A nil Native pipeline is bound as nothing, which is
// enough for encoding tests on the noop device.
type Pipeline struct {
	label  string
	Native hal.RenderPipeline
	Layout hal.BindGroupLayout
}

// NewPipeline wraps a HAL render pipeline.
func NewPipeline(label string, native hal.RenderPipeline, layout hal.BindGroupLayout) *Pipeline {
	return &Pipeline{label: label, Native: native, Layout: layout}
}

// Label returns the pipeline label.
func (p *Pipeline) Label() string { return p.label }

// ResourceSet is the bind group of one command plus the objects created
// for it. It is destroyed when the recorder that bound it completes.
type ResourceSet struct {
	Group    hal.BindGroup
	views    []hal.TextureView
	samplers []hal.Sampler
}

func (d *Device) destroyResourceSet(s *ResourceSet) {
	if s == nil {
		return
	}
	if s.Group != nil {
		d.device.DestroyBindGroup(s.Group)
	}
	for _, v := range s.views {
		d.device.DestroyTextureView(v)
	}
	for _, smp := range s.samplers {
		d.device.DestroySampler(smp)
	}
	*s = ResourceSet{}
}

// BindGroupFactory builds the resource set of one command.
type BindGroupFactory interface {
	CreateResourceSet(d *Device, cmd *render.Command) (*ResourceSet, error)
}

// BindGroupFunc adapts a function to BindGroupFactory.
type BindGroupFunc func(d *Device, cmd *render.Command) (*ResourceSet, error)

// CreateResourceSet calls f.
func (f BindGroupFunc) CreateResourceSet(d *Device, cmd *render.Command) (*ResourceSet, error) {
	return f(d, cmd)
}

// UniformBindGroups is the default BindGroupFactory. It places the
// buffers of both stages, then each sampled image as a texture view
// followed by its sampler, in bind group 0 at their slots. Commands whose
// pipeline has no layout get an empty resource set.
type UniformBindGroups struct{}

// CreateResourceSet implements BindGroupFactory.
func (UniformBindGroups) CreateResourceSet(d *Device, cmd *render.Command) (*ResourceSet, error) {
	p, ok := cmd.Pipeline.(*Pipeline)
	if !ok || p.Layout == nil {
		return &ResourceSet{}, nil
	}

	set := &ResourceSet{}
	var entries []gputypes.BindGroupEntry
	for _, bindings := range []render.Bindings{cmd.VertexBindings, cmd.FragmentBindings} {
		for _, br := range bindings.Buffers {
			db, err := br.View.Buffer.GetDeviceBuffer(d)
			if err != nil {
				d.destroyResourceSet(set)
				return nil, fmt.Errorf("buffer slot %d: %w", br.Slot, err)
			}
			hb, ok := db.Native().(hal.Buffer)
			if !ok {
				d.destroyResourceSet(set)
				return nil, fmt.Errorf("buffer slot %d: %s is not a HAL buffer", br.Slot, db)
			}
			entries = append(entries, gputypes.BindGroupEntry{
				Binding: br.Slot,
				Resource: gputypes.BufferBinding{
					Buffer: hb.NativeHandle(),
					Offset: br.View.Range.Offset,
					Size:   br.View.Range.Length,
				},
			})
		}
	}

	for _, img := range cmd.SampledImages() {
		tex, ok := img.Texture.Native().(hal.Texture)
		if !ok {
			d.destroyResourceSet(set)
			return nil, fmt.Errorf("sampled image slot %d: %s is not a HAL texture", img.Slot, img.Texture)
		}
		view, err := d.device.CreateTextureView(tex, &hal.TextureViewDescriptor{Label: img.Texture.Label() + " sampled"})
		if err != nil {
			d.destroyResourceSet(set)
			return nil, fmt.Errorf("sampled image slot %d view: %w", img.Slot, err)
		}
		set.views = append(set.views, view)

		sd := img.Sampler
		sampler, err := d.device.CreateSampler(&hal.SamplerDescriptor{
			Label:        sd.Label,
			AddressModeU: sd.AddressModeU,
			AddressModeV: sd.AddressModeV,
			AddressModeW: gputypes.AddressModeClampToEdge,
			MagFilter:    sd.MagFilter,
			MinFilter:    sd.MinFilter,
			MipmapFilter: gputypes.FilterModeLinear,
		})
		if err != nil {
			d.destroyResourceSet(set)
			return nil, fmt.Errorf("sampled image slot %d sampler: %w", img.Slot, err)
		}
		set.samplers = append(set.samplers, sampler)

		entries = append(entries,
			gputypes.BindGroupEntry{
				Binding:  img.Slot,
				Resource: gputypes.TextureViewBinding{TextureView: view.NativeHandle()},
			},
			gputypes.BindGroupEntry{
				Binding:  img.Slot + 1,
				Resource: gputypes.SamplerBinding{Sampler: sampler.NativeHandle()},
			},
		)
	}

	group, err := d.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:   cmd.Label,
		Layout:  p.Layout,
		Entries: entries,
	})
	if err != nil {
		d.destroyResourceSet(set)
		return nil, fmt.Errorf("bind group: %w", err)
	}
	set.Group = group
	return set, nil
}
