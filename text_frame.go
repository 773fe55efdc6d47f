package canvas

import (
	"math"

	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"
)

// Glyph is one positioned glyph of a text run. Position is the pen
// position on the baseline, relative to the frame origin.
type Glyph struct {
	ID       uint32
	Position Point
}

// TextRun is a sequence of glyphs from one font at one size.
type TextRun struct {
	Size   float64
	Glyphs []Glyph
}

// TextFrame is pre-shaped text ready to be drawn with DrawTextFrame.
// Shaping happens outside the canvas; a frame only carries glyph
// positions and bounds.
type TextFrame struct {
	runs    []TextRun
	bounds  Rect
	maxSize float64
}

// inkOverhang is how far, as a fraction of the run size, glyph ink may
// reach past the line box (italics, swashes, accents).
const inkOverhang = 0.25

// NewTextFrame lays out shaped runs left to right on a single baseline at
// y = 0, each run starting where the previous one ended.
func NewTextFrame(outputs ...shaping.Output) *TextFrame {
	f := &TextFrame{}
	var pen float64
	var ascent, descent float64
	for _, out := range outputs {
		run := TextRun{Size: fixedToFloat(out.Size), Glyphs: make([]Glyph, 0, len(out.Glyphs))}
		vertical := out.Direction.IsVertical()
		x, y := pen, 0.0
		for _, g := range out.Glyphs {
			run.Glyphs = append(run.Glyphs, Glyph{
				ID:       uint32(g.GlyphID),
				Position: Pt(x+fixedToFloat(g.XOffset), y-fixedToFloat(g.YOffset)),
			})
			if vertical {
				y -= fixedToFloat(g.Advance)
			} else {
				x += fixedToFloat(g.Advance)
			}
		}
		if !vertical {
			pen += math.Abs(fixedToFloat(out.Advance))
		}
		ascent = math.Max(ascent, fixedToFloat(out.LineBounds.Ascent))
		descent = math.Max(descent, -fixedToFloat(out.LineBounds.Descent))
		f.runs = append(f.runs, run)
		f.maxSize = math.Max(f.maxSize, run.Size)
	}
	f.bounds = MakeLTRB(0, -ascent, pen, descent)
	return f
}

// NewTextFrameFromRuns builds a frame from already positioned runs with
// the given bounds.
func NewTextFrameFromRuns(runs []TextRun, bounds Rect) *TextFrame {
	f := &TextFrame{runs: runs, bounds: bounds}
	for _, r := range runs {
		f.maxSize = math.Max(f.maxSize, r.Size)
	}
	return f
}

// Runs returns the runs of the frame.
func (f *TextFrame) Runs() []TextRun { return f.runs }

// GlyphCount returns the number of glyphs in all runs.
func (f *TextFrame) GlyphCount() int {
	n := 0
	for _, r := range f.runs {
		n += len(r.Glyphs)
	}
	return n
}

// Bounds returns the frame's line box relative to its origin.
func (f *TextFrame) Bounds() Rect { return f.bounds }

// InkBounds returns Bounds outset by the ink overhang of the largest run.
func (f *TextFrame) InkBounds() Rect {
	if f.GlyphCount() == 0 {
		return f.bounds
	}
	pad := f.maxSize * inkOverhang
	return f.bounds.Expand(pad, pad)
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
