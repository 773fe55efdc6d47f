package canvas

import (
	"fmt"
	"image/color"

	"github.com/gogpu/canvas/render"
)

// Color is a straight-alpha RGBA color with components in [0, 1].
type Color = render.Color

// Common colors.
var (
	Black       = render.Black
	White       = render.White
	Red         = render.Red
	Green       = render.Green
	Blue        = render.Blue
	Transparent = render.Transparent
)

// RGB creates an opaque color from RGB components.
func RGB(r, g, b float64) Color {
	return Color{R: r, G: g, B: b, A: 1}
}

// RGBA creates a color from RGBA components.
func RGBA(r, g, b, a float64) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// FromColor converts a standard color.Color to Color.
func FromColor(c color.Color) Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Color{
		R: float64(n.R) / 255,
		G: float64(n.G) / 255,
		B: float64(n.B) / 255,
		A: float64(n.A) / 255,
	}
}

// ParseHex parses a color from a hex string.
// Supports formats: "RGB", "RGBA", "RRGGBB", "RRGGBBAA", with or without
// a leading '#'.
func ParseHex(hex string) (Color, error) {
	s := hex
	if s != "" && s[0] == '#' {
		s = s[1:]
	}

	var v [4]uint32
	v[3] = 255
	switch len(s) {
	case 3, 4: // RGB, RGBA
		for i := range len(s) {
			d, ok := hexDigit(s[i])
			if !ok {
				return Color{}, fmt.Errorf("canvas: invalid hex color %q", hex)
			}
			v[i] = d * 17
		}
	case 6, 8: // RRGGBB, RRGGBBAA
		for i := 0; i < len(s); i += 2 {
			hi, ok1 := hexDigit(s[i])
			lo, ok2 := hexDigit(s[i+1])
			if !ok1 || !ok2 {
				return Color{}, fmt.Errorf("canvas: invalid hex color %q", hex)
			}
			v[i/2] = hi<<4 | lo
		}
	default:
		return Color{}, fmt.Errorf("canvas: invalid hex color %q", hex)
	}

	return Color{
		R: float64(v[0]) / 255,
		G: float64(v[1]) / 255,
		B: float64(v[2]) / 255,
		A: float64(v[3]) / 255,
	}, nil
}

func hexDigit(c byte) (uint32, bool) {
	switch {
	case '0' <= c && c <= '9':
		return uint32(c - '0'), true
	case 'a' <= c && c <= 'f':
		return uint32(c - 'a' + 10), true
	case 'A' <= c && c <= 'F':
		return uint32(c - 'A' + 10), true
	}
	return 0, false
}
