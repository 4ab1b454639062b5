package pdf

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// Span is a run of text drawn with a single font and size on one baseline.
type Span struct {
	Page     int     `json:"page"`
	Text     string  `json:"text"`
	BBox     Rect    `json:"bbox"`
	Baseline float64 `json:"baseline"`
	// Y is the top of the bounding box. Spans on the same visual line share it.
	Y float64 `json:"y"`
}

// spanBuilder accumulates consecutive glyphs that belong to the same span.
type spanBuilder struct {
	font     string
	size     float64
	baseline float64
	x0       float64
	right    float64
	width    float64
	text     strings.Builder
}

func newSpanBuilder(g pdf.Text) *spanBuilder {
	b := &spanBuilder{
		font:     g.Font,
		size:     math.Abs(g.FontSize),
		baseline: g.Y,
		x0:       g.X,
		right:    g.X + g.W,
	}
	b.width = g.W
	b.text.WriteString(g.S)
	return b
}

// accepts reports whether g continues the span: same font and size, same
// baseline, and no large horizontal jump in either direction.
func (b *spanBuilder) accepts(g pdf.Text) bool {
	if g.Font != b.font || math.Abs(math.Abs(g.FontSize)-b.size) > 0.5 {
		return false
	}
	unit := math.Max(b.size, 1)
	if math.Abs(g.Y-b.baseline) > 0.2*unit {
		return false
	}
	gap := g.X - b.right
	return gap <= 1.5*unit && gap >= -unit
}

func (b *spanBuilder) add(g pdf.Text) {
	b.text.WriteString(g.S)
	b.right = math.Max(b.right, g.X+g.W)
	b.width += g.W
}

// span finalises the builder. pageTop flips the user-space baseline into
// top-down page coordinates.
func (b *spanBuilder) span(page int, pageTop float64) Span {
	text := b.text.String()
	x1 := b.right
	if b.width == 0 {
		// Fonts without width tables report zero advances; estimate from the size.
		x1 = b.x0 + 0.5*b.size*float64(utf8.RuneCountInString(text))
	}
	top := pageTop - (b.baseline + 0.8*b.size)
	bottom := pageTop - (b.baseline - 0.2*b.size)
	bbox := NewRect(b.x0, top, x1, bottom)
	return Span{
		Page:     page,
		Text:     strings.TrimSpace(text),
		BBox:     bbox,
		Baseline: pageTop - b.baseline,
		Y:        bbox.Y0,
	}
}

// buildSpans groups the glyphs of a page into spans in content-stream order.
func buildSpans(page int, glyphs []pdf.Text, pageTop float64) []Span {
	var (
		spans []Span
		cur   *spanBuilder
	)
	for _, g := range glyphs {
		if g.S == "" {
			continue
		}
		if cur != nil && cur.accepts(g) {
			cur.add(g)
			continue
		}
		if cur != nil {
			spans = append(spans, cur.span(page, pageTop))
		}
		cur = newSpanBuilder(g)
	}
	if cur != nil {
		spans = append(spans, cur.span(page, pageTop))
	}
	return spans
}

// keepSpan applies the highlight filter: the span must have visible text that is
// not numeric noise and must touch at least one highlight region.
func keepSpan(s Span, regions []Rect) bool {
	if s.Text == "" || IsNumericNoise(s.Text) {
		return false
	}
	for _, r := range regions {
		if s.BBox.Intersects(r) {
			return true
		}
	}
	return false
}
