package pdf

import (
	"math"
	"sort"
)

// DefaultYThreshold is the vertical tolerance, in points, for treating two
// highlighted spans as part of the same visual line.
const DefaultYThreshold = 2.0

// Line is one visual line of highlighted text.
type Line struct {
	Page int     `json:"page"`
	Text string  `json:"text"`
	Y    float64 `json:"y"`
}

// mergeLines orders a page's kept spans top to bottom, left to right, and folds
// spans whose Y lies within threshold of the line's first span into that line.
func mergeLines(spans []Span, threshold float64) []Line {
	if len(spans) == 0 {
		return nil
	}

	sorted := make([]Span, len(spans))
	copy(sorted, spans)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y < sorted[j].Y
		}
		return sorted[i].BBox.X0 < sorted[j].BBox.X0
	})

	lines := make([]Line, 0, len(sorted))
	cur := Line{Page: sorted[0].Page, Text: sorted[0].Text, Y: sorted[0].Y}
	for _, s := range sorted[1:] {
		if math.Abs(s.Y-cur.Y) < threshold {
			cur.Text += " " + s.Text
			continue
		}
		lines = append(lines, cur)
		cur = Line{Page: s.Page, Text: s.Text, Y: s.Y}
	}
	return append(lines, cur)
}

// dedupeLines drops repeated (page, text) pairs, keeping the first occurrence.
func dedupeLines(lines []Line) []Line {
	type key struct {
		page int
		text string
	}
	seen := make(map[key]struct{}, len(lines))
	out := make([]Line, 0, len(lines))
	for _, l := range lines {
		k := key{l.Page, l.Text}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, l)
	}
	return out
}
