package pdf

import "math"

// Rect is an axis-aligned rectangle in top-down page coordinates (y grows downwards).
type Rect struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

// NewRect builds a rectangle from two corners in any order.
func NewRect(x0, y0, x1, y1 float64) Rect {
	return Rect{
		X0: math.Min(x0, x1),
		Y0: math.Min(y0, y1),
		X1: math.Max(x0, x1),
		Y1: math.Max(y0, y1),
	}
}

// Intersects reports whether r and o overlap on both axes. Touching edges count.
func (r Rect) Intersects(o Rect) bool {
	return r.X0 <= o.X1 && o.X0 <= r.X1 && r.Y0 <= o.Y1 && o.Y0 <= r.Y1
}

// Empty reports whether the rectangle has no area on either axis.
func (r Rect) Empty() bool {
	return r.X1 <= r.X0 || r.Y1 <= r.Y0
}

// Width returns the horizontal extent.
func (r Rect) Width() float64 { return r.X1 - r.X0 }

// Height returns the vertical extent.
func (r Rect) Height() float64 { return r.Y1 - r.Y0 }

// Color is a fill colour with components in [0,1].
type Color struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
}

// HighlightColor decides which fill colours count as highlighter marks.
type HighlightColor struct {
	MinRed   float64
	MinGreen float64
	MaxBlue  float64
}

// DefaultHighlightColor isolates standard yellow highlighter fills while tolerating
// slightly off-white or anti-aliased variants.
var DefaultHighlightColor = HighlightColor{MinRed: 0.8, MinGreen: 0.8, MaxBlue: 0.5}

// Matches reports whether c is a highlighter colour.
func (h HighlightColor) Matches(c Color) bool {
	return c.R > h.MinRed && c.G > h.MinGreen && c.B < h.MaxBlue
}

// matrix is a PDF transformation matrix [a b c d e f].
type matrix [6]float64

var identity = matrix{1, 0, 0, 1, 0, 0}

// mul returns the transform that applies m first and then n.
func (m matrix) mul(n matrix) matrix {
	return matrix{
		m[0]*n[0] + m[1]*n[2],
		m[0]*n[1] + m[1]*n[3],
		m[2]*n[0] + m[3]*n[2],
		m[2]*n[1] + m[3]*n[3],
		m[4]*n[0] + m[5]*n[2] + n[4],
		m[4]*n[1] + m[5]*n[3] + n[5],
	}
}

func (m matrix) apply(x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}
