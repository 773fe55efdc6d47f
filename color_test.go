package canvas

import (
	"image/color"
	"testing"
)

func colorsAlmostEqual(a, b Color) bool {
	const eps = 1e-6
	d := func(x, y float64) bool { return x-y < eps && y-x < eps }
	return d(a.R, b.R) && d(a.G, b.G) && d(a.B, b.B) && d(a.A, b.A)
}

func TestParseHex(t *testing.T) {
	tests := []struct {
		hex     string
		want    Color
		wantErr bool
	}{
		{"#ff0000", Red, false},
		{"00ff00", Green, false},
		{"#00F", Blue, false},
		{"#fff", White, false},
		{"#0008", RGBA(0, 0, 0, 136.0/255), false},
		{"#00000080", RGBA(0, 0, 0, 128.0/255), false},
		{"#FfFfFf", White, false},
		{"", Color{}, true},
		{"#", Color{}, true},
		{"#12", Color{}, true},
		{"#12345", Color{}, true},
		{"#gg0000", Color{}, true},
		{"#xyz", Color{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.hex, func(t *testing.T) {
			got, err := ParseHex(tt.hex)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseHex(%q) error = %v, wantErr %v", tt.hex, err, tt.wantErr)
			}
			if !tt.wantErr && !colorsAlmostEqual(got, tt.want) {
				t.Errorf("ParseHex(%q) = %v, want %v", tt.hex, got, tt.want)
			}
		})
	}
}

func TestFromColor(t *testing.T) {
	tests := []struct {
		name string
		in   color.Color
		want Color
	}{
		{"opaque red", color.RGBA{R: 255, A: 255}, Red},
		{"white", color.White, White},
		{"transparent", color.Transparent, Transparent},
		{"premultiplied half", color.RGBA{R: 128, A: 128}, RGBA(1, 0, 0, 128.0/255)},
		{"gray16", color.Gray16{Y: 0xffff}, White},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FromColor(tt.in); !colorsAlmostEqual(got, tt.want) {
				t.Errorf("FromColor(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestRGB(t *testing.T) {
	if got := RGB(0.1, 0.2, 0.3); got != RGBA(0.1, 0.2, 0.3, 1) {
		t.Errorf("RGB() = %v", got)
	}
}
