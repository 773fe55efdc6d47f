package canvas

import (
	"errors"
	"fmt"
	"math"
)

// BlendMode specifies how a source is composited onto its destination.
type BlendMode uint8

const (
	// Porter-Duff modes
	BlendClear           BlendMode = iota // 0
	BlendSource                           // S
	BlendDestination                      // D
	BlendSourceOver                       // S + D*(1-Sa)
	BlendDestinationOver                  // S*(1-Da) + D
	BlendSourceIn                         // S*Da
	BlendDestinationIn                    // D*Sa
	BlendSourceOut                        // S*(1-Da)
	BlendDestinationOut                   // D*(1-Sa)
	BlendSourceATop                       // S*Da + D*(1-Sa)
	BlendDestinationATop                  // S*(1-Da) + D*Sa
	BlendXor                              // S*(1-Da) + D*(1-Sa)
	BlendPlus                             // S + D
	BlendModulate                         // S*D

	// Advanced modes
	BlendScreen
	BlendOverlay
	BlendDarken
	BlendLighten
	BlendColorDodge
	BlendColorBurn
	BlendHardLight
	BlendSoftLight
	BlendDifference
	BlendExclusion
	BlendMultiply
	BlendHue
	BlendSaturation
	BlendColor
	BlendLuminosity
)

var blendModeNames = [...]string{
	BlendClear:           "Clear",
	BlendSource:          "Source",
	BlendDestination:     "Destination",
	BlendSourceOver:      "SourceOver",
	BlendDestinationOver: "DestinationOver",
	BlendSourceIn:        "SourceIn",
	BlendDestinationIn:   "DestinationIn",
	BlendSourceOut:       "SourceOut",
	BlendDestinationOut:  "DestinationOut",
	BlendSourceATop:      "SourceATop",
	BlendDestinationATop: "DestinationATop",
	BlendXor:             "Xor",
	BlendPlus:            "Plus",
	BlendModulate:        "Modulate",
	BlendScreen:          "Screen",
	BlendOverlay:         "Overlay",
	BlendDarken:          "Darken",
	BlendLighten:         "Lighten",
	BlendColorDodge:      "ColorDodge",
	BlendColorBurn:       "ColorBurn",
	BlendHardLight:       "HardLight",
	BlendSoftLight:       "SoftLight",
	BlendDifference:      "Difference",
	BlendExclusion:       "Exclusion",
	BlendMultiply:        "Multiply",
	BlendHue:             "Hue",
	BlendSaturation:      "Saturation",
	BlendColor:           "Color",
	BlendLuminosity:      "Luminosity",
}

// String returns the blend mode name.
func (m BlendMode) String() string {
	if int(m) < len(blendModeNames) {
		return blendModeNames[m]
	}
	return fmt.Sprintf("BlendMode(%d)", m)
}

// IsAdvanced reports whether m is not a Porter-Duff operator. Advanced
// modes read the destination and need it in a texture.
func (m BlendMode) IsAdvanced() bool { return m > BlendModulate }

// Style selects between filling and stroking geometry.
type Style uint8

const (
	StyleFill Style = iota
	StyleStroke
)

// Cap specifies the shape of stroke endpoints.
type Cap uint8

const (
	CapButt Cap = iota
	CapRound
	CapSquare
)

// Join specifies the shape of stroke joins.
type Join uint8

const (
	JoinMiter Join = iota
	JoinRound
	JoinBevel
)

// ImageFilter is applied to the rendered contents of a layer or draw.
type ImageFilter interface {
	// OutputBounds returns the region the filter may write when its
	// input covers input.
	OutputBounds(input Rect) Rect
}

// BlurImageFilter is a gaussian blur.
type BlurImageFilter struct {
	SigmaX, SigmaY float64
}

// OutputBounds expands input by three standard deviations.
func (f BlurImageFilter) OutputBounds(input Rect) Rect {
	return input.Expand(3*math.Abs(f.SigmaX), 3*math.Abs(f.SigmaY))
}

// MatrixImageFilter transforms its input.
type MatrixImageFilter struct {
	Matrix Matrix
}

// OutputBounds maps input through the matrix.
func (f MatrixImageFilter) OutputBounds(input Rect) Rect {
	if b, ok := input.TransformBounds(f.Matrix); ok {
		return b
	}
	return input
}

// ColorFilter transforms the color of every pixel a draw produces.
type ColorFilter interface {
	FilterColor(c Color) Color
}

// BlendColorFilter blends a constant color over the input.
type BlendColorFilter struct {
	Mode  BlendMode
	Color Color
}

// FilterColor blends f.Color (source) onto c (destination). Modes other
// than the basic Porter-Duff ones fall back to source-over.
func (f BlendColorFilter) FilterColor(c Color) Color {
	s := f.Color.Premultiply()
	d := c.Premultiply()
	var out Color
	switch f.Mode {
	case BlendClear:
		return Transparent
	case BlendSource:
		return f.Color
	case BlendDestination:
		return c
	case BlendModulate:
		out = Color{R: s.R * d.R, G: s.G * d.G, B: s.B * d.B, A: s.A * d.A}
	case BlendDestinationOver:
		out = lerpPremul(d, s, 1-d.A)
	default:
		out = lerpPremul(s, d, 1-s.A)
	}
	return unpremultiply(out)
}

// lerpPremul returns a + b*k on premultiplied colors.
func lerpPremul(a, b Color, k float64) Color {
	return Color{R: a.R + b.R*k, G: a.G + b.G*k, B: a.B + b.B*k, A: a.A + b.A*k}
}

func unpremultiply(c Color) Color {
	if c.A == 0 {
		return Transparent
	}
	return Color{R: c.R / c.A, G: c.G / c.A, B: c.B / c.A, A: c.A}
}

// MatrixColorFilter multiplies RGBA by a row-major 4x5 matrix whose last
// column is an offset.
type MatrixColorFilter struct {
	M [20]float64
}

// FilterColor applies the matrix and clamps the result to [0, 1].
func (f MatrixColorFilter) FilterColor(c Color) Color {
	in := [4]float64{c.R, c.G, c.B, c.A}
	var out [4]float64
	for row := range 4 {
		m := f.M[row*5 : row*5+5]
		v := m[0]*in[0] + m[1]*in[1] + m[2]*in[2] + m[3]*in[3] + m[4]
		out[row] = math.Min(math.Max(v, 0), 1)
	}
	return Color{R: out[0], G: out[1], B: out[2], A: out[3]}
}

// Paint errors.
var (
	ErrInvalidStrokeWidth = errors.New("canvas: stroke width must be finite and non-negative")
	ErrInvalidMiterLimit  = errors.New("canvas: miter limit must be finite and non-negative")
	ErrInvalidColor       = errors.New("canvas: color components must be finite")
)

// Paint is the styling information of a draw or layer.
type Paint struct {
	Color       Color
	Style       Style
	StrokeWidth float64 // 0 is a hairline
	StrokeCap   Cap
	StrokeJoin  Join
	StrokeMiter float64
	BlendMode   BlendMode

	ImageFilter  ImageFilter
	ColorFilter  ColorFilter
	InvertColors bool
}

// NewPaint returns an opaque black fill with source-over blending.
func NewPaint() Paint {
	return Paint{
		Color:       Black,
		StrokeMiter: 4,
		BlendMode:   BlendSourceOver,
	}
}

// Opacity returns the paint's alpha.
func (p Paint) Opacity() float64 { return p.Color.A }

// Validate reports whether the paint can be drawn with.
func (p Paint) Validate() error {
	c := p.Color
	if !isFinite(c.R) || !isFinite(c.G) || !isFinite(c.B) || !isFinite(c.A) {
		return ErrInvalidColor
	}
	if p.Style == StyleStroke {
		return p.validateStroke()
	}
	return nil
}

// validateStroke checks the stroke settings whatever the paint style.
func (p Paint) validateStroke() error {
	if !isFinite(p.StrokeWidth) || p.StrokeWidth < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidStrokeWidth, p.StrokeWidth)
	}
	if !isFinite(p.StrokeMiter) || p.StrokeMiter < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidMiterLimit, p.StrokeMiter)
	}
	return nil
}

// RequiresOffscreen reports whether a layer drawn with p must be rendered
// to its own target before being composited: any blend mode other than
// source-over, partial opacity, or a filter.
func (p Paint) RequiresOffscreen() bool {
	return p.BlendMode != BlendSourceOver ||
		p.Color.A < 1 ||
		p.ImageFilter != nil ||
		p.ColorFilter != nil
}

// EffectiveColor returns the color a solid draw with p produces: the
// paint color after the color filter and color inversion.
func (p Paint) EffectiveColor() Color {
	c := p.Color
	if p.ColorFilter != nil {
		c = p.ColorFilter.FilterColor(c)
	}
	if p.InvertColors {
		c = Color{R: 1 - c.R, G: 1 - c.G, B: 1 - c.B, A: c.A}
	}
	return c
}

// strokeOutset returns how far, in local units, a stroke with p can reach
// beyond the geometry it strokes. Fills have no outset.
func (p Paint) strokeOutset() float64 {
	if p.Style != StyleStroke {
		return 0
	}
	w := p.StrokeWidth
	if w == 0 {
		w = 1
	}
	r := w / 2
	switch {
	case p.StrokeJoin == JoinMiter:
		r *= math.Max(p.StrokeMiter, math.Sqrt2)
	case p.StrokeCap == CapSquare:
		r *= math.Sqrt2
	}
	return r
}

// lineOutset is strokeOutset for a single segment, which is always
// stroked and has no joins.
func (p Paint) lineOutset() float64 {
	w := p.StrokeWidth
	if w == 0 {
		w = 1
	}
	r := w / 2
	if p.StrokeCap == CapSquare {
		r *= math.Sqrt2
	}
	return r
}
