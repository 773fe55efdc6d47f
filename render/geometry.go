// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// ISize is an integer pixel size.
type ISize struct {
	Width, Height int64
}

// IsEmpty reports whether the size covers no pixels.
func (s ISize) IsEmpty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// String implements fmt.Stringer.
func (s ISize) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// IRect is an integer rectangle given by origin and size.
type IRect struct {
	X, Y          int64
	Width, Height int64
}

// IRectFromSize returns the rectangle at the origin covering size.
func IRectFromSize(size ISize) IRect {
	return IRect{Width: size.Width, Height: size.Height}
}

// Size returns the rectangle size.
func (r IRect) Size() ISize {
	return ISize{Width: r.Width, Height: r.Height}
}

// IsEmpty reports whether the rectangle covers no pixels.
func (r IRect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Color is a straight-alpha RGBA color with components in [0, 1].
type Color struct {
	R, G, B, A float64
}

// Common colors.
var (
	Transparent = Color{}
	Black       = Color{A: 1}
	White       = Color{R: 1, G: 1, B: 1, A: 1}
	Red         = Color{R: 1, A: 1}
	Green       = Color{G: 1, A: 1}
	Blue        = Color{B: 1, A: 1}
)

// WithAlpha returns c with its alpha replaced.
func (c Color) WithAlpha(a float64) Color {
	c.A = a
	return c
}

// Premultiply returns c with its color channels scaled by alpha.
func (c Color) Premultiply() Color {
	return Color{R: c.R * c.A, G: c.G * c.A, B: c.B * c.A, A: c.A}
}

// IsOpaque reports whether alpha is 1.
func (c Color) IsOpaque() bool {
	return c.A >= 1
}

// GPU converts c to a WebGPU clear color.
func (c Color) GPU() gputypes.Color {
	return gputypes.Color{R: c.R, G: c.G, B: c.B, A: c.A}
}
