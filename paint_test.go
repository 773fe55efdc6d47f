package canvas

import (
	"errors"
	"math"
	"testing"
)

func TestNewPaint(t *testing.T) {
	p := NewPaint()
	if p.Color != Black {
		t.Errorf("Color = %v, want Black", p.Color)
	}
	if p.Style != StyleFill {
		t.Errorf("Style = %v, want StyleFill", p.Style)
	}
	if p.BlendMode != BlendSourceOver {
		t.Errorf("BlendMode = %v, want SourceOver", p.BlendMode)
	}
	if p.StrokeMiter != 4 {
		t.Errorf("StrokeMiter = %v, want 4", p.StrokeMiter)
	}
	if p.Opacity() != 1 {
		t.Errorf("Opacity() = %v, want 1", p.Opacity())
	}
	if err := p.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestPaint_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(p *Paint)
		want   error
	}{
		{"default", func(*Paint) {}, nil},
		{"NaN color", func(p *Paint) { p.Color.R = math.NaN() }, ErrInvalidColor},
		{"negative width fill ignored", func(p *Paint) { p.StrokeWidth = -1 }, nil},
		{"negative width stroke", func(p *Paint) { p.Style = StyleStroke; p.StrokeWidth = -1 }, ErrInvalidStrokeWidth},
		{"infinite width stroke", func(p *Paint) { p.Style = StyleStroke; p.StrokeWidth = math.Inf(1) }, ErrInvalidStrokeWidth},
		{"hairline stroke", func(p *Paint) { p.Style = StyleStroke }, nil},
		{"negative miter", func(p *Paint) { p.Style = StyleStroke; p.StrokeMiter = -2 }, ErrInvalidMiterLimit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPaint()
			tt.modify(&p)
			err := p.Validate()
			if tt.want == nil && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestPaint_RequiresOffscreen(t *testing.T) {
	tests := []struct {
		name   string
		modify func(p *Paint)
		want   bool
	}{
		{"default", func(*Paint) {}, false},
		{"translucent", func(p *Paint) { p.Color.A = 0.5 }, true},
		{"multiply", func(p *Paint) { p.BlendMode = BlendMultiply }, true},
		{"source", func(p *Paint) { p.BlendMode = BlendSource }, true},
		{"image filter", func(p *Paint) { p.ImageFilter = BlurImageFilter{SigmaX: 1, SigmaY: 1} }, true},
		{"color filter", func(p *Paint) { p.ColorFilter = BlendColorFilter{Mode: BlendModulate, Color: Red} }, true},
		{"stroke", func(p *Paint) { p.Style = StyleStroke; p.StrokeWidth = 3 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPaint()
			tt.modify(&p)
			if got := p.RequiresOffscreen(); got != tt.want {
				t.Errorf("RequiresOffscreen() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPaint_EffectiveColor(t *testing.T) {
	var grayscale MatrixColorFilter
	for row := range 3 {
		grayscale.M[row*5+0] = 1.0 / 3
		grayscale.M[row*5+1] = 1.0 / 3
		grayscale.M[row*5+2] = 1.0 / 3
	}
	grayscale.M[18] = 1

	tests := []struct {
		name   string
		color  Color
		filter ColorFilter
		invert bool
		want   Color
	}{
		{"plain", Red, nil, false, Red},
		{"invert", Red, nil, true, RGB(0, 1, 1)},
		{"modulate", White, BlendColorFilter{Mode: BlendModulate, Color: Blue}, false, Blue},
		{"clear", Red, BlendColorFilter{Mode: BlendClear, Color: Blue}, false, Transparent},
		{"source", Red, BlendColorFilter{Mode: BlendSource, Color: Blue}, false, Blue},
		{"destination", Red, BlendColorFilter{Mode: BlendDestination, Color: Blue}, false, Red},
		{"source over opaque", Red, BlendColorFilter{Mode: BlendSourceOver, Color: Blue}, false, Blue},
		{"source over half", Red, BlendColorFilter{Mode: BlendSourceOver, Color: RGBA(0, 0, 1, 0.5)}, false, RGB(0.5, 0, 0.5)},
		{"destination over opaque", Red, BlendColorFilter{Mode: BlendDestinationOver, Color: Blue}, false, Red},
		{"matrix grayscale", RGB(0.3, 0.6, 0.9), grayscale, false, RGB(0.6, 0.6, 0.6)},
		{"matrix then invert", RGB(0.3, 0.6, 0.9), grayscale, true, RGB(0.4, 0.4, 0.4)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPaint()
			p.Color = tt.color
			p.ColorFilter = tt.filter
			p.InvertColors = tt.invert
			if got := p.EffectiveColor(); !colorsAlmostEqual(got, tt.want) {
				t.Errorf("EffectiveColor() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPaint_StrokeOutset(t *testing.T) {
	tests := []struct {
		name   string
		modify func(p *Paint)
		want   float64
	}{
		{"fill", func(*Paint) {}, 0},
		{"hairline", func(p *Paint) { p.Style = StyleStroke; p.StrokeJoin = JoinBevel }, 0.5},
		{"round", func(p *Paint) { p.Style = StyleStroke; p.StrokeWidth = 4; p.StrokeJoin = JoinRound }, 2},
		{"miter", func(p *Paint) { p.Style = StyleStroke; p.StrokeWidth = 4 }, 8},
		{"miter below sqrt2", func(p *Paint) { p.Style = StyleStroke; p.StrokeWidth = 2; p.StrokeMiter = 1 }, math.Sqrt2},
		{"square cap", func(p *Paint) {
			p.Style = StyleStroke
			p.StrokeWidth = 2
			p.StrokeJoin = JoinBevel
			p.StrokeCap = CapSquare
		}, math.Sqrt2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPaint()
			tt.modify(&p)
			if got := p.strokeOutset(); !almostEqual(got, tt.want) {
				t.Errorf("strokeOutset() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBlendMode_String(t *testing.T) {
	tests := []struct {
		mode     BlendMode
		want     string
		advanced bool
	}{
		{BlendClear, "Clear", false},
		{BlendSourceOver, "SourceOver", false},
		{BlendModulate, "Modulate", false},
		{BlendScreen, "Screen", true},
		{BlendLuminosity, "Luminosity", true},
		{BlendMode(200), "BlendMode(200)", true},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.mode.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
			if got := tt.mode.IsAdvanced(); got != tt.advanced {
				t.Errorf("IsAdvanced() = %v, want %v", got, tt.advanced)
			}
		})
	}
}

func TestImageFilter_OutputBounds(t *testing.T) {
	in := MakeXYWH(10, 10, 10, 10)
	if got := (BlurImageFilter{SigmaX: 1, SigmaY: -2}).OutputBounds(in); got != MakeLTRB(7, 4, 23, 26) {
		t.Errorf("blur OutputBounds() = %v", got)
	}
	m := MatrixImageFilter{Matrix: MakeTranslation(Vec3(5, 0, 0))}
	if got := m.OutputBounds(in); got != MakeXYWH(15, 10, 10, 10) {
		t.Errorf("matrix OutputBounds() = %v", got)
	}
}
