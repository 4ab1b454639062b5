package pdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRect_NormalizesCorners(t *testing.T) {
	r := NewRect(300, 120, 100, 100)
	assert.Equal(t, Rect{X0: 100, Y0: 100, X1: 300, Y1: 120}, r)
	assert.Equal(t, 200.0, r.Width())
	assert.Equal(t, 20.0, r.Height())
	assert.False(t, r.Empty())
	assert.True(t, NewRect(5, 5, 5, 10).Empty())
}

func TestRect_Intersects(t *testing.T) {
	base := NewRect(0, 0, 10, 10)
	tests := []struct {
		name  string
		other Rect
		want  bool
	}{
		{"overlap", NewRect(5, 5, 15, 15), true},
		{"contained", NewRect(2, 2, 3, 3), true},
		{"touching edge", NewRect(10, 0, 20, 10), true},
		{"touching corner", NewRect(10, 10, 20, 20), true},
		{"left", NewRect(-5, 0, -0.1, 10), false},
		{"below", NewRect(0, 10.5, 10, 20), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, base.Intersects(tt.other))
			assert.Equal(t, tt.want, tt.other.Intersects(base))
		})
	}
}

func TestHighlightColor_Matches(t *testing.T) {
	tests := []struct {
		name  string
		color Color
		want  bool
	}{
		{"pure yellow", Color{1, 1, 0}, true},
		{"pale yellow", Color{1, 0.95, 0.45}, true},
		{"white", Color{1, 1, 1}, false},
		{"orange", Color{1, 0.6, 0}, false},
		{"boundary red", Color{0.8, 1, 0}, false},
		{"boundary blue", Color{1, 1, 0.5}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DefaultHighlightColor.Matches(tt.color))
		})
	}
}

func TestMatrix(t *testing.T) {
	scale := matrix{2, 0, 0, 2, 0, 0}
	shift := matrix{1, 0, 0, 1, 10, 20}

	x, y := scale.mul(shift).apply(1, 1)
	assert.Equal(t, 12.0, x)
	assert.Equal(t, 22.0, y)

	x, y = shift.mul(scale).apply(1, 1)
	assert.Equal(t, 22.0, x)
	assert.Equal(t, 42.0, y)

	x, y = identity.apply(3, 4)
	assert.Equal(t, 3.0, x)
	assert.Equal(t, 4.0, y)
}

func TestCMYK(t *testing.T) {
	assert.Equal(t, Color{R: 1, G: 1, B: 0}, cmyk(0, 0, 1, 0))
	assert.Equal(t, Color{R: 0, G: 0, B: 0}, cmyk(0, 0, 0, 1))
}
