package canvas

import (
	"math"
	"testing"

	"github.com/gogpu/canvas/render"
)

func TestEntity_Coverage(t *testing.T) {
	stroke := NewPaint()
	stroke.Style = StyleStroke
	stroke.StrokeWidth = 2
	stroke.StrokeJoin = JoinRound

	wideFill := NewPaint()
	wideFill.StrokeWidth = 6

	blur := NewPaint()
	blur.ImageFilter = BlurImageFilter{SigmaX: 1, SigmaY: 1}

	tests := []struct {
		name   string
		e      Entity
		want   Rect
		wantOK bool
	}{
		{"rect", Entity{Transform: Identity(), Geometry: RectGeometry{Rect: MakeXYWH(0, 0, 10, 10)}, Paint: NewPaint()},
			MakeXYWH(0, 0, 10, 10), true},
		{"translated", Entity{Transform: MakeTranslation(Vec3(5, 5, 0)), Geometry: OvalGeometry{Rect: MakeXYWH(0, 0, 10, 10)}, Paint: NewPaint()},
			MakeXYWH(5, 5, 10, 10), true},
		{"stroke outset in local space", Entity{Transform: MakeScale(Vec3(2, 2, 1)), Geometry: LineGeometry{P0: Pt(0, 0), P1: Pt(10, 0)}, Paint: stroke},
			MakeLTRB(-2, -2, 22, 2), true},
		{"line ignores fill style", Entity{Transform: Identity(), Geometry: LineGeometry{P0: Pt(0, 0), P1: Pt(10, 0)}, Paint: wideFill},
			MakeLTRB(-3, -3, 13, 3), true},
		{"points", Entity{Transform: Identity(), Geometry: PointsGeometry{Points: []Point{{X: 0, Y: 0}, {X: 4, Y: 4}}, Radius: 1}, Paint: NewPaint()},
			MakeLTRB(-1, -1, 5, 5), true},
		{"cover", Entity{Transform: Identity(), Geometry: CoverGeometry{}, Paint: NewPaint()}, Rect{}, false},
		{"image filter", Entity{Transform: Identity(), Geometry: RectGeometry{Rect: MakeXYWH(0, 0, 1, 1)}, Paint: blur}, Rect{}, false},
		{"nil geometry", Entity{Transform: Identity(), Paint: NewPaint()}, Rect{}, false},
		{"atlas", Entity{Transform: Identity(), Geometry: AtlasGeometry{
			Transforms: []Matrix{MakeTranslation(Vec3(10, 0, 0)), MakeTranslation(Vec3(0, 10, 0))},
			TexCoords:  []Rect{MakeXYWH(0, 0, 4, 4), MakeXYWH(4, 0, 2, 2)},
		}, Paint: NewPaint()}, MakeLTRB(0, 0, 14, 12), true},
		{"atlas cull rect", Entity{Transform: Identity(), Geometry: AtlasGeometry{
			Transforms: []Matrix{Identity()},
			TexCoords:  []Rect{MakeXYWH(0, 0, 4, 4)},
			CullRect:   &Rect{W: 1, H: 1},
		}, Paint: NewPaint()}, MakeXYWH(0, 0, 1, 1), true},
		{"vertices", Entity{Transform: Identity(), Geometry: VerticesGeometry{Vertices: &Vertices{
			Positions: []Point{{X: 0, Y: 0}, {X: 3, Y: 1}, {X: 1, Y: 2}},
		}}, Paint: NewPaint()}, MakeLTRB(0, 0, 3, 2), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.e.Coverage()
			if ok != tt.wantOK || !rectsAlmostEqual(got, tt.want) {
				t.Errorf("Coverage() = %v, %v, want %v, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestEntityKind_String(t *testing.T) {
	tests := []struct {
		kind EntityKind
		want string
	}{
		{EntityDraw, "draw"},
		{EntityClip, "clip"},
		{EntityRestoreClip, "restore-clip"},
		{EntityKind(9), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
	if ClipDifference.String() != "difference" || ClipIntersect.String() != "intersect" {
		t.Error("ClipOperation.String() wrong")
	}
}

func TestCanvas_DrawRecordsGeometry(t *testing.T) {
	c := New()
	c.DrawRRect(MakeXYWH(0, 0, 10, 10), Pt(0, 2), NewPaint())
	c.DrawRRect(MakeXYWH(0, 0, 10, 10), Pt(2, 2), NewPaint())
	c.DrawCircle(Pt(5, 5), 5, NewPaint())
	c.DrawPoints([]Point{{X: 1, Y: 1}}, 1, NewPaint(), PointSquare)
	c.DrawVertices(&Vertices{Positions: []Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}}}, BlendModulate, NewPaint())
	c.DrawVertices(&Vertices{}, BlendModulate, NewPaint())
	c.DrawPath(nil, NewPaint())
	c.DrawImage(nil, Pt(0, 0), NewPaint(), render.DefaultSamplerDescriptor())

	pic := finish(t, c)
	var got []string
	for _, el := range pic.Root().Elements {
		switch el.Entity.Geometry.(type) {
		case RectGeometry:
			got = append(got, "rect")
		case RRectGeometry:
			got = append(got, "rrect")
		case OvalGeometry:
			got = append(got, "oval")
		case PointsGeometry:
			got = append(got, "points")
		case VerticesGeometry:
			got = append(got, "vertices")
		default:
			got = append(got, "other")
		}
	}
	want := []string{"rect", "rrect", "oval", "points", "vertices"}
	if len(got) != len(want) {
		t.Fatalf("geometries = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("geometry %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestCanvas_DrawPointsCopiesInput(t *testing.T) {
	pts := []Point{{X: 1, Y: 1}}
	c := New()
	c.DrawPoints(pts, 1, NewPaint(), PointRound)
	pts[0] = Pt(math.Inf(1), 0)
	pic := finish(t, c)
	g := pic.Root().Elements[0].Entity.Geometry.(PointsGeometry)
	if g.Points[0] != Pt(1, 1) {
		t.Errorf("recorded point = %v, want (1,1)", g.Points[0])
	}
}
