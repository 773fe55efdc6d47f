package main

import (
	"log/slog"

	"github.com/gogpu/canvas"
	"github.com/gogpu/canvas/render"
)

// buildScene records the demo scene: a background, a grid of shapes
// with an optional clip, a translucent layer and a blurred backdrop
// layer.
func buildScene(cfg Config, logger *slog.Logger) (*canvas.Picture, error) {
	bg, err := canvas.ParseHex(cfg.Background)
	if err != nil {
		return nil, err
	}
	accent, err := canvas.ParseHex(cfg.Scene.Accent)
	if err != nil {
		return nil, err
	}

	size := render.ISize{Width: cfg.Width, Height: cfg.Height}
	c := canvas.NewWithIRect(render.IRectFromSize(size), canvas.WithLogger(logger))
	w, h := float64(cfg.Width), float64(cfg.Height)

	paint := canvas.NewPaint()
	paint.Color = bg
	paint.BlendMode = canvas.BlendSource
	c.DrawPaint(paint)

	c.Save()
	if cfg.Scene.Clip {
		c.ClipRRect(canvas.MakeXYWH(8, 8, w-16, h-16), canvas.Pt(12, 12), canvas.ClipIntersect)
	}
	drawGrid(c, cfg.Scene, w, h, accent)
	c.Restore()

	if cfg.Scene.LayerOpacity > 0 {
		layer := canvas.NewPaint()
		layer.Color = canvas.RGBA(1, 1, 1, cfg.Scene.LayerOpacity)
		bounds := canvas.MakeXYWH(w/4, h/4, w/2, h/2)
		c.SaveLayer(layer, &bounds, nil)
		ring := canvas.NewPaint()
		ring.Color = canvas.White
		ring.Style = canvas.StyleStroke
		ring.StrokeWidth = 6
		c.DrawCircle(canvas.Pt(w/2, h/2), w/5, ring)
		c.Restore()
	}

	if cfg.Scene.Blur > 0 {
		c.SaveLayer(canvas.NewPaint(), nil, canvas.BlurImageFilter{SigmaX: cfg.Scene.Blur, SigmaY: cfg.Scene.Blur})
		glass := canvas.NewPaint()
		glass.Color = canvas.RGBA(1, 1, 1, 0.2)
		c.DrawRRect(canvas.MakeXYWH(w/8, h-h/4, w-w/4, h/8), canvas.Pt(6, 6), glass)
		c.Restore()
	}

	return c.EndRecordingAsPicture()
}

func drawGrid(c *canvas.Canvas, cfg SceneConfig, w, h float64, accent canvas.Color) {
	if cfg.Rows == 0 || cfg.Columns == 0 {
		return
	}
	cw := w / float64(cfg.Columns)
	ch := h / float64(cfg.Rows)
	for row := range cfg.Rows {
		for col := range cfg.Columns {
			c.Save()
			c.Translate(canvas.Vec3(float64(col)*cw, float64(row)*ch, 0))
			paint := canvas.NewPaint()
			paint.Color = accent
			if (row+col)%2 == 1 {
				paint.ColorFilter = canvas.BlendColorFilter{Mode: canvas.BlendModulate, Color: canvas.RGB(0.6, 0.6, 0.6)}
			}
			r := canvas.MakeXYWH(cw*0.15, ch*0.15, cw*0.7, ch*0.7)
			switch (row*cfg.Columns + col) % 3 {
			case 0:
				c.DrawRect(r, paint)
			case 1:
				c.DrawCircle(canvas.Pt(cw/2, ch/2), cw*0.35, paint)
			default:
				path := canvas.NewPathBuilder().
					MoveTo(canvas.Pt(r.X+r.W/2, r.Y)).
					LineTo(canvas.Pt(r.X+r.W, r.Y+r.H)).
					LineTo(canvas.Pt(r.X, r.Y+r.H)).
					Close().
					SetConvexity(canvas.ConvexityConvex).
					TakePath(canvas.FillNonZero)
				c.DrawPath(path, paint)
			}
			c.Restore()
		}
	}
}
