package canvas

import (
	"testing"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"
)

func shapedRun(size int, advances ...int) shaping.Output {
	out := shaping.Output{
		Size:      fixed.I(size),
		Direction: di.DirectionLTR,
		LineBounds: shaping.Bounds{
			Ascent:  fixed.I(size * 3 / 4),
			Descent: -fixed.I(size / 4),
		},
	}
	for i, a := range advances {
		out.Glyphs = append(out.Glyphs, shaping.Glyph{GlyphID: font.GID(i + 1), Advance: fixed.I(a)})
		out.Advance += fixed.I(a)
	}
	return out
}

func TestNewTextFrame(t *testing.T) {
	frame := NewTextFrame(shapedRun(16, 10, 8), shapedRun(32, 20))

	if got := len(frame.Runs()); got != 2 {
		t.Fatalf("len(Runs()) = %d, want 2", got)
	}
	if got := frame.GlyphCount(); got != 3 {
		t.Errorf("GlyphCount() = %d, want 3", got)
	}

	first := frame.Runs()[0]
	if first.Size != 16 {
		t.Errorf("run 0 Size = %v, want 16", first.Size)
	}
	if first.Glyphs[1].Position != Pt(10, 0) {
		t.Errorf("glyph 1 at %v, want (10,0)", first.Glyphs[1].Position)
	}
	second := frame.Runs()[1]
	if second.Glyphs[0].Position != Pt(18, 0) {
		t.Errorf("second run starts at %v, want (18,0)", second.Glyphs[0].Position)
	}

	want := MakeLTRB(0, -24, 38, 8)
	if got := frame.Bounds(); got != want {
		t.Errorf("Bounds() = %v, want %v", got, want)
	}
}

func TestNewTextFrame_Offsets(t *testing.T) {
	run := shapedRun(16, 10)
	run.Glyphs[0].XOffset = fixed.I(2)
	run.Glyphs[0].YOffset = fixed.I(3)
	frame := NewTextFrame(run)
	if got := frame.Runs()[0].Glyphs[0].Position; got != Pt(2, -3) {
		t.Errorf("offset glyph at %v, want (2,-3)", got)
	}
	if got := frame.Runs()[0].Glyphs[0].ID; got != 1 {
		t.Errorf("glyph ID = %d, want 1", got)
	}
}

func TestNewTextFrame_Empty(t *testing.T) {
	frame := NewTextFrame()
	if frame.GlyphCount() != 0 || !frame.Bounds().IsEmpty() {
		t.Errorf("empty frame: %d glyphs, bounds %v", frame.GlyphCount(), frame.Bounds())
	}
}

func TestCanvas_DrawTextFrame(t *testing.T) {
	frame := NewTextFrame(shapedRun(16, 10, 10))
	c := NewWithCullRect(MakeXYWH(0, 0, 100, 100))
	c.DrawTextFrame(frame, Pt(10, 50), NewPaint())
	c.DrawTextFrame(frame, Pt(10, 500), NewPaint())
	c.DrawTextFrame(nil, Pt(0, 0), NewPaint())

	pic := finish(t, c)
	if n := pic.Entities(); n != 1 {
		t.Fatalf("Entities() = %d, want 1", n)
	}
	cov, _ := pic.Root().Elements[0].Entity.Coverage()
	if cov != MakeLTRB(6, 34, 34, 58) {
		t.Errorf("text coverage = %v", cov)
	}
}

func TestTextFrame_InkBounds(t *testing.T) {
	frame := NewTextFrame(shapedRun(16, 10), shapedRun(40, 10))
	// Line box (0,-30)-(20,10), padded by a quarter of the 40px run.
	if got, want := frame.InkBounds(), MakeLTRB(-10, -40, 30, 20); got != want {
		t.Errorf("InkBounds() = %v, want %v", got, want)
	}

	runs := []TextRun{{Size: 8, Glyphs: []Glyph{{ID: 1}}}}
	manual := NewTextFrameFromRuns(runs, MakeLTRB(0, -6, 5, 2))
	if got, want := manual.InkBounds(), MakeLTRB(-2, -8, 7, 4); got != want {
		t.Errorf("InkBounds() = %v, want %v", got, want)
	}
}

func TestCanvas_DrawTextFrameOverhangNotCulled(t *testing.T) {
	// The line box ends at x=-2, outside the aa margin; an italic
	// overhang can still reach into the canvas.
	frame := NewTextFrame(shapedRun(16, 10, 10))
	c := NewWithCullRect(MakeXYWH(0, 0, 100, 100))
	c.DrawTextFrame(frame, Pt(-22, 50), NewPaint())
	if n := finish(t, c).Entities(); n != 1 {
		t.Errorf("Entities() = %d, want 1", n)
	}
}
