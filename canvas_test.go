package canvas

import (
	"bytes"
	"errors"
	"log/slog"
	"math"
	"strings"
	"testing"

	"github.com/gogpu/canvas/render"
)

func newLoggedCanvas(t *testing.T, opts ...Option) (*Canvas, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))
	return New(append(opts, WithLogger(logger))...), &buf
}

func finish(t *testing.T, c *Canvas) *Picture {
	t.Helper()
	pic, err := c.EndRecordingAsPicture()
	if err != nil {
		t.Fatalf("EndRecordingAsPicture() error = %v", err)
	}
	return pic
}

func rootKinds(p *Picture) []string {
	var kinds []string
	for _, el := range p.Root().Elements {
		if el.IsSubpass() {
			kinds = append(kinds, "pass")
			continue
		}
		kinds = append(kinds, el.Entity.Kind.String())
	}
	return kinds
}

func TestCanvas_SaveCount(t *testing.T) {
	c := New()
	if got := c.GetSaveCount(); got != 1 {
		t.Fatalf("initial GetSaveCount() = %d, want 1", got)
	}

	c.Save()
	c.Save()
	c.SaveLayer(NewPaint(), nil, nil)
	if got := c.GetSaveCount(); got != 4 {
		t.Errorf("GetSaveCount() after 3 saves = %d, want 4", got)
	}

	if !c.Restore() {
		t.Error("Restore() = false with open scopes")
	}
	c.RestoreToCount(1)
	if got := c.GetSaveCount(); got != 1 {
		t.Errorf("GetSaveCount() after RestoreToCount(1) = %d, want 1", got)
	}

	if c.Restore() {
		t.Error("Restore() at the root = true, want false")
	}
	c.RestoreToCount(0)
	if got := c.GetSaveCount(); got != 1 {
		t.Errorf("GetSaveCount() = %d, the root scope must survive", got)
	}
}

func TestCanvas_RestoreWithoutSaveWarns(t *testing.T) {
	c, buf := newLoggedCanvas(t)
	c.Restore()
	if !strings.Contains(buf.String(), "Restore without matching Save") {
		t.Errorf("log = %q, want a Restore warning", buf.String())
	}
}

func TestCanvas_NestedClipCullRect(t *testing.T) {
	root := MakeXYWH(0, 0, 100, 100)
	c := NewWithCullRect(root)

	c.Save()
	c.ClipRect(MakeXYWH(10, 10, 50, 50), ClipIntersect)
	outer, _ := c.GetCurrentCullRect()
	if outer != MakeXYWH(10, 10, 50, 50) {
		t.Fatalf("outer cull = %v", outer)
	}

	c.Save()
	c.ClipRect(MakeXYWH(0, 0, 30, 30), ClipIntersect)
	inner, _ := c.GetCurrentCullRect()
	if !outer.Contains(inner) {
		t.Errorf("inner cull %v escapes outer %v", inner, outer)
	}
	if inner != MakeXYWH(10, 10, 20, 20) {
		t.Errorf("inner cull = %v, want (10,10,20,20)", inner)
	}

	c.Restore()
	if got, _ := c.GetCurrentCullRect(); got != outer {
		t.Errorf("cull after inner Restore = %v, want %v", got, outer)
	}
	c.Restore()
	if got, _ := c.GetCurrentCullRect(); got != root {
		t.Errorf("cull after outer Restore = %v, want %v", got, root)
	}
}

func TestCanvas_ClipOnUnboundedCanvas(t *testing.T) {
	c := New()
	if _, ok := c.GetCurrentCullRect(); ok {
		t.Fatal("new canvas has a cull rect")
	}
	c.Translate(Vec3(5, 5, 0))
	c.ClipRect(MakeXYWH(0, 0, 10, 10), ClipIntersect)
	got, ok := c.GetCurrentCullRect()
	if !ok || got != MakeXYWH(5, 5, 10, 10) {
		t.Errorf("GetCurrentCullRect() = %v, %v, want device bounds of the clip", got, ok)
	}
}

func TestCanvas_DifferenceClipCullRect(t *testing.T) {
	tests := []struct {
		name  string
		setup func(c *Canvas)
		clip  Rect
		want  Rect
	}{
		{"TrimTopBand", func(*Canvas) {}, MakeXYWH(0, 0, 100, 40), MakeXYWH(0, 40, 100, 60)},
		{"TrimLeftBand", func(*Canvas) {}, MakeXYWH(-10, -10, 30, 200), MakeXYWH(20, 0, 80, 100)},
		{"HoleKeepsCull", func(*Canvas) {}, MakeXYWH(40, 40, 10, 10), MakeXYWH(0, 0, 100, 100)},
		{"CoverEmpties", func(*Canvas) {}, MakeXYWH(-1, -1, 200, 200), Rect{}},
		{"ScaledTrim", func(c *Canvas) { c.Scale(Pt(2, 2)) }, MakeXYWH(0, 0, 50, 10), MakeXYWH(0, 20, 100, 80)},
		{"RotationKeepsCull", func(c *Canvas) { c.Rotate(Degrees(45)) }, MakeXYWH(-500, -500, 1000, 1000), MakeXYWH(0, 0, 100, 100)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewWithCullRect(MakeXYWH(0, 0, 100, 100))
			tt.setup(c)
			c.ClipRect(tt.clip, ClipDifference)
			got, ok := c.GetCurrentCullRect()
			if !ok {
				t.Fatal("cull rect lost")
			}
			if !rectsAlmostEqual(got, tt.want) {
				t.Errorf("cull = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanvas_DifferenceClipKeepsUnbounded(t *testing.T) {
	c := New()
	c.ClipRect(MakeXYWH(0, 0, 10, 10), ClipDifference)
	if _, ok := c.GetCurrentCullRect(); ok {
		t.Error("difference clip bounded an unbounded canvas")
	}
}

func TestCanvas_ClipRRectAndPath(t *testing.T) {
	t.Run("ZeroRadiiIsRect", func(t *testing.T) {
		c := New()
		c.ClipRRect(MakeXYWH(0, 0, 10, 10), Point{}, ClipIntersect)
		pic := finish(t, c)
		e := pic.Root().Elements[0].Entity
		if _, ok := e.Geometry.(RectGeometry); !ok {
			t.Errorf("geometry = %T, want RectGeometry", e.Geometry)
		}
	})

	t.Run("RRectDifferenceKeepsCull", func(t *testing.T) {
		c := NewWithCullRect(MakeXYWH(0, 0, 100, 100))
		c.ClipRRect(MakeXYWH(0, 0, 100, 40), Pt(5, 5), ClipDifference)
		if got, _ := c.GetCurrentCullRect(); got != MakeXYWH(0, 0, 100, 100) {
			t.Errorf("cull = %v", got)
		}
	})

	t.Run("PathIntersectUsesBounds", func(t *testing.T) {
		c := NewWithCullRect(MakeXYWH(0, 0, 100, 100))
		p := NewPathBuilder().AddCircle(Pt(50, 50), 10).TakePath(FillNonZero)
		c.ClipPath(p, ClipIntersect)
		if got, _ := c.GetCurrentCullRect(); !rectsAlmostEqual(got, MakeXYWH(40, 40, 20, 20)) {
			t.Errorf("cull = %v", got)
		}
	})

	t.Run("EmptyPathEmptiesCull", func(t *testing.T) {
		c := New()
		c.ClipPath(NewPathBuilder().TakePath(FillNonZero), ClipIntersect)
		got, ok := c.GetCurrentCullRect()
		if !ok || !got.IsEmpty() {
			t.Errorf("cull = %v, %v, want empty", got, ok)
		}
	})
}

func TestCanvas_TransformRoundTrip(t *testing.T) {
	c := New()
	c.Translate(Vec3(3, 4, 0))
	before := c.GetCurrentTransform()

	c.Save()
	c.Translate(Vec3(10, 20, 0))
	c.Rotate(Degrees(30))
	c.Scale(Pt(2, 3))
	c.Skew(0.1, 0.2)
	c.Restore()

	if got := c.GetCurrentTransform(); !got.Equal(before, 0) {
		t.Errorf("transform after Restore = %v, want %v", got, before)
	}
}

func TestCanvas_ConcatOrder(t *testing.T) {
	tests := []struct {
		name  string
		apply func(c *Canvas)
		want  Point
	}{
		{"ConcatAppliesFirst", func(c *Canvas) {
			c.Translate(Vec3(10, 0, 0))
			c.Concat(MakeScale(Vec3(2, 2, 1)))
		}, Pt(12, 0)},
		{"PreConcatAppliesLast", func(c *Canvas) {
			c.Translate(Vec3(10, 0, 0))
			c.PreConcat(MakeScale(Vec3(2, 2, 1)))
		}, Pt(22, 0)},
		{"Reset", func(c *Canvas) {
			c.Translate(Vec3(10, 0, 0))
			c.ResetTransform()
		}, Pt(1, 0)},
		{"Scale3", func(c *Canvas) { c.Scale3(Vec3(3, 1, 1)) }, Pt(3, 0)},
		{"Rotate", func(c *Canvas) { c.Rotate(Degrees(90)) }, Pt(0, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			tt.apply(c)
			if got := c.GetCurrentTransform().TransformPoint(Pt(1, 0)); !pointsAlmostEqual(got, tt.want) {
				t.Errorf("(1,0) maps to %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanvas_TransformAssociative(t *testing.T) {
	a := MakeTranslation(Vec3(5, -2, 0))
	b := MakeRotationZ(Degrees(17))
	m := MakeScale(Vec3(1.5, 0.5, 1))

	seq := New()
	seq.Concat(a)
	seq.Concat(b)
	seq.Concat(m)

	once := New()
	once.Concat(a.Multiply(b).Multiply(m))

	if !seq.GetCurrentTransform().Equal(once.GetCurrentTransform(), 1e-9) {
		t.Errorf("sequential %v != combined %v", seq.GetCurrentTransform(), once.GetCurrentTransform())
	}
}

func TestCanvas_LocalCullingBounds(t *testing.T) {
	tests := []struct {
		name   string
		canvas func() *Canvas
		want   Rect
		wantOK bool
	}{
		{"Unbounded", func() *Canvas { return New() }, Rect{}, false},
		{"Identity", func() *Canvas {
			return NewWithCullRect(MakeXYWH(0, 0, 100, 100))
		}, MakeXYWH(0, 0, 100, 100), true},
		{"Scaled", func() *Canvas {
			c := NewWithCullRect(MakeXYWH(0, 0, 100, 100))
			c.Scale(Pt(2, 2))
			return c
		}, MakeXYWH(0, 0, 50, 50), true},
		{"Translated", func() *Canvas {
			c := NewWithCullRect(MakeXYWH(0, 0, 100, 100))
			c.Translate(Vec3(10, 20, 0))
			return c
		}, MakeXYWH(-10, -20, 100, 100), true},
		{"Singular", func() *Canvas {
			c := NewWithCullRect(MakeXYWH(0, 0, 100, 100))
			c.Scale(Pt(0, 1))
			return c
		}, Rect{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.canvas().GetCurrentLocalCullingBounds()
			if ok != tt.wantOK || !rectsAlmostEqual(got, tt.want) {
				t.Errorf("GetCurrentLocalCullingBounds() = %v, %v, want %v, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestCanvas_EmptyCullRecordsNothing(t *testing.T) {
	src := New()
	src.DrawRect(MakeXYWH(0, 0, 10, 10), NewPaint())
	src.ClipRect(MakeXYWH(0, 0, 5, 5), ClipIntersect)
	replayed := finish(t, src)

	c := NewWithCullRect(MakeXYWH(0, 0, 100, 100))
	c.ClipRect(MakeXYWH(200, 200, 10, 10), ClipIntersect)

	paint := NewPaint()
	c.DrawPaint(paint)
	c.DrawRect(MakeXYWH(0, 0, 10, 10), paint)
	c.DrawCircle(Pt(5, 5), 5, paint)
	c.DrawLine(Pt(0, 0), Pt(10, 10), paint)
	c.DrawPath(NewPathBuilder().AddRect(MakeXYWH(0, 0, 1, 1)).TakePath(FillNonZero), paint)
	c.DrawPoints([]Point{{X: 1, Y: 1}}, 1, paint, PointRound)
	c.DrawPicture(replayed)
	c.SaveLayer(paint, nil, nil)
	c.DrawRect(MakeXYWH(0, 0, 10, 10), paint)
	c.Restore()

	pic := finish(t, c)
	if got := pic.PassCount(); got != 1 {
		t.Errorf("PassCount() = %d, want 1 (SaveLayer must degrade to Save)", got)
	}
	if kinds := rootKinds(pic); len(kinds) != 1 || kinds[0] != "clip" {
		t.Errorf("root elements = %v, want only the clip", kinds)
	}
}

func TestCanvas_DrawCulling(t *testing.T) {
	blurred := NewPaint()
	blurred.ImageFilter = BlurImageFilter{SigmaX: 2, SigmaY: 2}

	tests := []struct {
		name     string
		draw     func(c *Canvas)
		recorded bool
	}{
		{"Inside", func(c *Canvas) { c.DrawRect(MakeXYWH(10, 10, 10, 10), NewPaint()) }, true},
		{"Outside", func(c *Canvas) { c.DrawRect(MakeXYWH(102, 0, 10, 10), NewPaint()) }, false},
		{"WithinAAMargin", func(c *Canvas) { c.DrawRect(MakeXYWH(100.5, 0, 10, 10), NewPaint()) }, true},
		{"TranslatedIn", func(c *Canvas) {
			c.Translate(Vec3(-150, 0, 0))
			c.DrawRect(MakeXYWH(150, 0, 10, 10), NewPaint())
		}, true},
		{"StrokeReachesIn", func(c *Canvas) {
			p := NewPaint()
			p.Style = StyleStroke
			p.StrokeWidth = 10
			p.StrokeJoin = JoinRound
			c.DrawRect(MakeXYWH(104, 0, 10, 10), p)
		}, true},
		{"FillStyledLineUsesStrokeWidth", func(c *Canvas) {
			p := NewPaint()
			p.StrokeWidth = 30
			c.DrawLine(Pt(-50, 110), Pt(150, 110), p)
		}, true},
		{"ThinLineOutside", func(c *Canvas) { c.DrawLine(Pt(-50, 110), Pt(150, 110), NewPaint()) }, false},
		{"ImageFilterNotCulled", func(c *Canvas) { c.DrawRect(MakeXYWH(500, 500, 1, 1), blurred) }, true},
		{"Cover", func(c *Canvas) { c.DrawPaint(NewPaint()) }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewWithCullRect(MakeXYWH(0, 0, 100, 100))
			tt.draw(c)
			got := finish(t, c).Entities() == 1
			if got != tt.recorded {
				t.Errorf("recorded = %v, want %v", got, tt.recorded)
			}
		})
	}
}

func TestCanvas_InvalidDrawsRejected(t *testing.T) {
	badStroke := NewPaint()
	badStroke.Style = StyleStroke
	badStroke.StrokeWidth = -1

	tests := []struct {
		name string
		draw func(c *Canvas)
	}{
		{"NegativeRadius", func(c *Canvas) { c.DrawCircle(Pt(0, 0), -1, NewPaint()) }},
		{"NaNRect", func(c *Canvas) { c.DrawRect(MakeXYWH(math.NaN(), 0, 1, 1), NewPaint()) }},
		{"InfiniteLine", func(c *Canvas) { c.DrawLine(Pt(0, 0), Pt(math.Inf(1), 0), NewPaint()) }},
		{"NegativeStroke", func(c *Canvas) { c.DrawRect(MakeXYWH(0, 0, 1, 1), badStroke) }},
		{"FillStyledLineNaNStroke", func(c *Canvas) {
			p := NewPaint()
			p.StrokeWidth = math.NaN()
			c.DrawLine(Pt(0, 0), Pt(1, 1), p)
		}},
		{"AtlasLengthMismatch", func(c *Canvas) {
			img := NewImage(nil)
			c.DrawAtlas(img, nil, []Rect{MakeXYWH(0, 0, 1, 1)}, nil, BlendModulate, render.DefaultSamplerDescriptor(), nil, NewPaint())
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, buf := newLoggedCanvas(t)
			tt.draw(c)
			if n := finish(t, c).Entities(); n != 0 {
				t.Errorf("Entities() = %d, want 0", n)
			}
			if !strings.Contains(buf.String(), "draw rejected") {
				t.Errorf("log = %q, want a rejection warning", buf.String())
			}
		})
	}
}

func TestCanvas_RestoreClipEntity(t *testing.T) {
	c := New()
	c.Save()
	c.ClipRect(MakeXYWH(0, 0, 10, 10), ClipIntersect)
	c.DrawRect(MakeXYWH(0, 0, 5, 5), NewPaint())
	c.Restore()
	c.DrawRect(MakeXYWH(0, 0, 5, 5), NewPaint())

	pic := finish(t, c)
	want := []string{"clip", "draw", "restore-clip", "draw"}
	got := rootKinds(pic)
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("root elements = %v, want %v", got, want)
	}

	depths := []uint32{0, 1, 0, 0}
	for i, el := range pic.Root().Elements {
		if el.Entity.ClipDepth != depths[i] {
			t.Errorf("element %d clip depth = %d, want %d", i, el.Entity.ClipDepth, depths[i])
		}
	}
}

func TestCanvas_SaveWithoutClipAddsNothing(t *testing.T) {
	c := New()
	c.Save()
	c.Translate(Vec3(1, 1, 0))
	c.Restore()
	if n := finish(t, c).Entities(); n != 0 {
		t.Errorf("Entities() = %d, want 0", n)
	}
}

func TestCanvas_SaveLayer(t *testing.T) {
	translucent := NewPaint()
	translucent.Color = RGBA(0, 0, 0, 0.5)
	multiply := NewPaint()
	multiply.BlendMode = BlendMultiply

	tests := []struct {
		name          string
		paint         Paint
		backdrop      ImageFilter
		wantOffscreen bool
	}{
		{"Opaque", NewPaint(), nil, false},
		{"Translucent", translucent, nil, true},
		{"BlendMode", multiply, nil, true},
		{"Backdrop", NewPaint(), BlurImageFilter{SigmaX: 4, SigmaY: 4}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			c.SaveLayer(tt.paint, nil, tt.backdrop)
			wantMode := RenderingOnscreenSubpass
			if tt.wantOffscreen {
				wantMode = RenderingOffscreenSubpass
			}
			if got := c.top().RenderingMode; got != wantMode {
				t.Errorf("RenderingMode = %v, want %v", got, wantMode)
			}
			c.DrawRect(MakeXYWH(0, 0, 1, 1), NewPaint())
			c.Restore()

			pic := finish(t, c)
			if pic.PassCount() != 2 {
				t.Fatalf("PassCount() = %d, want 2", pic.PassCount())
			}
			child, err := pic.Pass(pic.Root().Elements[0].Child)
			if err != nil {
				t.Fatalf("Pass() error = %v", err)
			}
			if child.Offscreen != tt.wantOffscreen {
				t.Errorf("Offscreen = %v, want %v", child.Offscreen, tt.wantOffscreen)
			}
			if child.BlendMode() != tt.paint.BlendMode {
				t.Errorf("BlendMode() = %v, want %v", child.BlendMode(), tt.paint.BlendMode)
			}
			if child.EntityCount() != 1 || !child.IsSealed() {
				t.Errorf("child entities=%d sealed=%v", child.EntityCount(), child.IsSealed())
			}
			if child.Parent() != pic.Root().ID() {
				t.Errorf("Parent() = %v, want root", child.Parent())
			}
		})
	}
}

func TestCanvas_SaveLayerBounds(t *testing.T) {
	c := NewWithCullRect(MakeXYWH(0, 0, 100, 100))
	c.Translate(Vec3(10, 0, 0))
	bounds := MakeXYWH(40, 50, 100, 100)
	c.SaveLayer(NewPaint(), &bounds, nil)
	c.Restore()

	pic := finish(t, c)
	child, _ := pic.Pass(pic.Root().Elements[0].Child)
	if child.Bounds == nil || *child.Bounds != MakeXYWH(50, 50, 50, 50) {
		t.Errorf("layer bounds = %v, want (50,50,50,50)", child.Bounds)
	}
}

func TestCanvas_LayerOrderAndClips(t *testing.T) {
	c := New()
	c.DrawRect(MakeXYWH(0, 0, 1, 1), NewPaint())
	c.SaveLayer(NewPaint(), nil, nil)
	c.ClipRect(MakeXYWH(0, 0, 5, 5), ClipIntersect)
	c.DrawRect(MakeXYWH(0, 0, 2, 2), NewPaint())
	c.Restore()
	c.DrawRect(MakeXYWH(0, 0, 3, 3), NewPaint())

	pic := finish(t, c)
	want := "draw,pass,restore-clip,draw"
	if got := strings.Join(rootKinds(pic), ","); got != want {
		t.Errorf("root elements = %s, want %s", got, want)
	}
	child, _ := pic.Pass(pic.Root().Elements[1].Child)
	if len(child.Elements) != 2 || child.Elements[0].Entity.Kind != EntityClip {
		t.Errorf("layer elements = %+v", child.Elements)
	}
}

func TestCanvas_NestedLayersUnwound(t *testing.T) {
	c := New()
	c.SaveLayer(NewPaint(), nil, nil)
	c.SaveLayer(NewPaint(), nil, nil)
	c.DrawPaint(NewPaint())

	pic := finish(t, c)
	if pic.PassCount() != 3 {
		t.Fatalf("PassCount() = %d, want 3", pic.PassCount())
	}
	var depths []int
	pic.Walk(func(depth int, pass *EntityPass) bool {
		depths = append(depths, depth)
		if !pass.IsSealed() {
			t.Errorf("%v not sealed", pass.ID())
		}
		return true
	})
	if len(depths) != 3 || depths[2] != 2 {
		t.Errorf("walk depths = %v, want [0 1 2]", depths)
	}
}

func TestCanvas_CallsAfterFinish(t *testing.T) {
	c, buf := newLoggedCanvas(t)
	c.DrawRect(MakeXYWH(0, 0, 1, 1), NewPaint())
	pic := finish(t, c)

	c.Save()
	c.DrawRect(MakeXYWH(0, 0, 1, 1), NewPaint())
	c.ClipRect(MakeXYWH(0, 0, 1, 1), ClipIntersect)
	c.Translate(Vec3(1, 1, 0))

	if got := c.GetSaveCount(); got != 1 {
		t.Errorf("GetSaveCount() = %d after finish, want 1", got)
	}
	if got := pic.Entities(); got != 1 {
		t.Errorf("picture changed after finish: %d entities", got)
	}
	if !c.GetCurrentTransform().IsIdentity() {
		t.Error("transform changed after finish")
	}
	if !strings.Contains(buf.String(), "after EndRecordingAsPicture") {
		t.Errorf("log = %q, want warnings", buf.String())
	}

	if _, err := c.EndRecordingAsPicture(); !errors.Is(err, ErrRecordingFinished) {
		t.Errorf("second EndRecordingAsPicture() error = %v, want ErrRecordingFinished", err)
	}
}

func TestCanvas_EndRecordingUnwinds(t *testing.T) {
	c := New()
	c.Save()
	c.ClipRect(MakeXYWH(0, 0, 1, 1), ClipIntersect)
	c.Save()
	pic := finish(t, c)
	if got := strings.Join(rootKinds(pic), ","); got != "clip,restore-clip" {
		t.Errorf("root elements = %s", got)
	}
	if pic.clipDepth != 0 {
		t.Errorf("clipDepth = %d, want 0", pic.clipDepth)
	}
}

func TestCanvas_DrawPicture(t *testing.T) {
	rec := New()
	rec.ClipRect(MakeXYWH(0, 0, 10, 10), ClipIntersect)
	rec.DrawRect(MakeXYWH(0, 0, 10, 10), NewPaint())
	rec.SaveLayer(NewPaint(), nil, nil)
	rec.DrawRect(MakeXYWH(1, 1, 2, 2), NewPaint())
	rec.Restore()
	inner := finish(t, rec)
	if inner.clipDepth != 1 {
		t.Fatalf("inner clipDepth = %d, want 1", inner.clipDepth)
	}

	c := New()
	c.Translate(Vec3(10, 20, 0))
	c.DrawPicture(inner)
	if got := c.GetSaveCount(); got != 1 {
		t.Errorf("GetSaveCount() after DrawPicture = %d, want 1", got)
	}
	outer := finish(t, c)

	want := "clip,draw,pass,restore-clip"
	if got := strings.Join(rootKinds(outer), ","); got != want {
		t.Fatalf("root elements = %s, want %s", got, want)
	}
	draw := outer.Root().Elements[1].Entity
	if !draw.Transform.Equal(MakeTranslation(Vec3(10, 20, 0)), 1e-12) {
		t.Errorf("copied transform = %v", draw.Transform)
	}
	if draw.ClipDepth != 1 {
		t.Errorf("copied clip depth = %d, want 1", draw.ClipDepth)
	}
	if outer.PassCount() != 2 {
		t.Errorf("PassCount() = %d, want 2", outer.PassCount())
	}
	if inner.Entities() != 3 {
		t.Errorf("source picture modified: %d entities", inner.Entities())
	}
}

func TestCanvas_NewWithIRect(t *testing.T) {
	c := NewWithIRect(MakeXYWH(1, 2, 3, 4).RoundOut())
	got, ok := c.GetCurrentCullRect()
	if !ok || got != MakeXYWH(1, 2, 3, 4) {
		t.Errorf("GetCurrentCullRect() = %v, %v", got, ok)
	}
}

func TestRenderingMode_String(t *testing.T) {
	tests := []struct {
		mode RenderingMode
		want string
		sub  bool
	}{
		{RenderingDirect, "direct", false},
		{RenderingOnscreenSubpass, "onscreen-subpass", true},
		{RenderingOffscreenSubpass, "offscreen-subpass", true},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if tt.mode.String() != tt.want || tt.mode.IsSubpass() != tt.sub {
				t.Errorf("%d: String()=%q IsSubpass()=%v", tt.mode, tt.mode.String(), tt.mode.IsSubpass())
			}
		})
	}
}

func BenchmarkCanvas_DrawRect(b *testing.B) {
	paint := NewPaint()
	r := MakeXYWH(10, 10, 20, 20)
	for b.Loop() {
		c := NewWithCullRect(MakeXYWH(0, 0, 800, 600))
		for range 100 {
			c.DrawRect(r, paint)
		}
		_, _ = c.EndRecordingAsPicture()
	}
}
