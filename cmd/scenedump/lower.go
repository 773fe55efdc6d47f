package main

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/canvas"
	"github.com/gogpu/canvas/backend"
	"github.com/gogpu/canvas/render"
)

// vertexStride is the size of one vertex: float32 x, y in normalized
// device coordinates followed by a premultiplied float32 RGBA color.
const vertexStride = 6 * 4

// pipelineFunc returns the pipeline handle for a label. The same label
// must yield the same handle so the encoder can skip redundant binds.
type pipelineFunc func(label string) render.Pipeline

// sceneRenderer lowers a picture into render commands and encodes it.
// Offscreen layers are encoded into their own targets before the pass
// that composites them.
type sceneRenderer struct {
	dev       backend.Device
	enc       *render.RenderPassEncoder
	pipelines map[string]render.Pipeline
	newPipe   pipelineFunc
	size      render.ISize
	host      *render.HostBuffer

	layers  []*render.RenderTarget
	encoded int
}

func newSceneRenderer(dev backend.Device, enc *render.RenderPassEncoder, size render.ISize, newPipe pipelineFunc) *sceneRenderer {
	return &sceneRenderer{
		dev:       dev,
		enc:       enc,
		pipelines: make(map[string]render.Pipeline),
		newPipe:   newPipe,
		size:      size,
		host:      render.NewHostBuffer("scene vertices"),
	}
}

// render encodes pic into target on rec.
func (r *sceneRenderer) render(rec render.CommandRecorder, pic *canvas.Picture, target *render.RenderTarget) error {
	cmds, err := r.lowerPass(rec, pic, pic.Root(), nil)
	if err != nil {
		return err
	}
	if err := r.enc.Encode(rec, target, cmds); err != nil {
		return err
	}
	r.encoded++
	return nil
}

// release drops the layer targets. Call it once the recording has been
// submitted.
func (r *sceneRenderer) release() {
	for _, rt := range r.layers {
		rt.Release()
	}
	r.layers = nil
}

func (r *sceneRenderer) pipeline(label string) render.Pipeline {
	p, ok := r.pipelines[label]
	if !ok {
		p = r.newPipe(label)
		r.pipelines[label] = p
	}
	return p
}

func (r *sceneRenderer) lowerPass(rec render.CommandRecorder, pic *canvas.Picture, pass *canvas.EntityPass, scissor *render.IRect) ([]render.Command, error) {
	var cmds []render.Command
	for _, el := range pass.Elements {
		if !el.IsSubpass() {
			cmd := r.lowerEntity(el.Entity)
			cmd.Scissor = scissor
			cmds = append(cmds, cmd)
			continue
		}
		child, err := pic.Pass(el.Child)
		if err != nil {
			return nil, err
		}
		childScissor := r.scissorFor(child, scissor)
		if !child.Offscreen {
			sub, err := r.lowerPass(rec, pic, child, childScissor)
			if err != nil {
				return nil, err
			}
			cmds = append(cmds, sub...)
			continue
		}
		cmd, err := r.renderLayer(rec, pic, child)
		if err != nil {
			return nil, err
		}
		cmd.Scissor = childScissor
		cmds = append(cmds, cmd)
	}
	return cmds, nil
}

// renderLayer encodes an offscreen pass into a new target and returns
// the command compositing it into the parent.
func (r *sceneRenderer) renderLayer(rec render.CommandRecorder, pic *canvas.Picture, pass *canvas.EntityPass) (render.Command, error) {
	cfg := render.DefaultOffscreenConfig()
	rt, err := render.CreateOffscreen(r.dev, r.size, "layer "+pass.ID().String(), cfg)
	if err != nil {
		return render.Command{}, err
	}
	r.layers = append(r.layers, rt)

	cmds, err := r.lowerPass(rec, pic, pass, nil)
	if err != nil {
		return render.Command{}, err
	}
	if err := r.enc.Encode(rec, rt, cmds); err != nil {
		return render.Command{}, fmt.Errorf("layer %s: %w", pass.ID(), err)
	}
	r.encoded++

	full := canvas.MakeXYWH(0, 0, float64(r.size.Width), float64(r.size.Height))
	label := "composite/" + pass.BlendMode().String()
	if pass.BackdropFilter != nil {
		label = "backdrop/" + pass.BlendMode().String()
	}
	return render.Command{
		Pipeline:     r.pipeline(label),
		VertexBuffer: r.quad(full, pass.Delegate.EffectiveColor()),
		FragmentBindings: render.Bindings{
			SampledImages: []render.TextureResource{{
				Texture: rt.RenderTargetTexture(),
				Sampler: render.DefaultSamplerDescriptor(),
			}},
		},
		StencilReference: pass.ClipDepth,
		Label:            label,
	}, nil
}

func (r *sceneRenderer) scissorFor(pass *canvas.EntityPass, parent *render.IRect) *render.IRect {
	if pass.Bounds == nil {
		return parent
	}
	b := *pass.Bounds
	if parent != nil {
		b, _ = b.Intersection(canvas.RectFromIRect(*parent))
	}
	s := b.RoundOut()
	return &s
}

func (r *sceneRenderer) lowerEntity(e *canvas.Entity) render.Command {
	full := canvas.MakeXYWH(0, 0, float64(r.size.Width), float64(r.size.Height))
	bounds, ok := e.Coverage()
	if !ok {
		bounds = full
	}

	var label string
	switch e.Kind {
	case canvas.EntityClip:
		label = "clip/" + e.ClipOp.String()
	case canvas.EntityRestoreClip:
		label = "clip/restore"
		bounds = full
	default:
		label = geometryName(e.Geometry) + "/" + e.Paint.BlendMode.String()
	}

	cmd := render.Command{
		Pipeline:         r.pipeline(label),
		VertexBuffer:     r.quad(bounds, e.Paint.EffectiveColor()),
		StencilReference: e.ClipDepth,
		Label:            label,
	}
	if img := imageOf(e.Geometry); img != nil && img.Texture() != nil {
		cmd.FragmentBindings.SampledImages = []render.TextureResource{{
			Texture: img.Texture(),
			Sampler: samplerOf(e.Geometry),
		}}
	}
	return cmd
}

// quad emits two triangles covering a device-space rect.
func (r *sceneRenderer) quad(rect canvas.Rect, c canvas.Color) render.VertexBufferView {
	pm := c.Premultiply()
	p := rect.Points()
	order := [6]int{0, 1, 2, 0, 2, 3}
	buf := make([]byte, 0, len(order)*vertexStride)
	w, h := float64(r.size.Width), float64(r.size.Height)
	for _, i := range order {
		q := p[i]
		for _, v := range [6]float64{2*q.X/w - 1, 1 - 2*q.Y/h, pm.R, pm.G, pm.B, pm.A} {
			buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(float32(v)))
		}
	}
	return render.VertexBufferView{
		VertexBuffer: r.host.Emplace(buf, 4),
		VertexCount:  uint32(len(order)),
	}
}

func geometryName(g canvas.Geometry) string {
	switch g.(type) {
	case canvas.RectGeometry:
		return "rect"
	case canvas.RRectGeometry:
		return "rrect"
	case canvas.OvalGeometry:
		return "oval"
	case canvas.LineGeometry:
		return "line"
	case canvas.PathGeometry:
		return "path"
	case canvas.CoverGeometry:
		return "cover"
	case canvas.PointsGeometry:
		return "points"
	case canvas.TextureGeometry:
		return "texture"
	case canvas.TextGeometry:
		return "text"
	case canvas.VerticesGeometry:
		return "vertices"
	case canvas.AtlasGeometry:
		return "atlas"
	default:
		return "unknown"
	}
}

func imageOf(g canvas.Geometry) *canvas.Image {
	switch g := g.(type) {
	case canvas.TextureGeometry:
		return g.Image
	case canvas.AtlasGeometry:
		return g.Atlas
	}
	return nil
}

func samplerOf(g canvas.Geometry) render.SamplerDescriptor {
	switch g := g.(type) {
	case canvas.TextureGeometry:
		return g.Sampler
	case canvas.AtlasGeometry:
		return g.Sampler
	}
	return render.DefaultSamplerDescriptor()
}
