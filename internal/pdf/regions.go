package pdf

import (
	"github.com/ledongthuc/pdf"
)

// maxFormDepth bounds recursion into nested form XObjects.
const maxFormDepth = 8

type graphicsState struct {
	ctm  matrix
	fill *Color // nil while a pattern or unknown colour is selected
}

// regionScanner walks a content stream and records the bounding boxes of filled
// subpaths whose fill colour is a highlighter colour. Boxes are in default user space.
type regionScanner struct {
	color   HighlightColor
	gs      graphicsState
	saved   []graphicsState
	path    []Rect
	open    bool // the last subpath can still be extended by l/c/v/y
	regions []Rect
}

func newRegionScanner(color HighlightColor) *regionScanner {
	black := Color{}
	return &regionScanner{
		color: color,
		gs:    graphicsState{ctm: identity, fill: &black},
	}
}

// highlightRegions returns the highlighter rectangles drawn on a page, in top-down
// page coordinates.
func highlightRegions(page pdf.Page, color HighlightColor, box Rect) []Rect {
	s := newRegionScanner(color)
	s.scan(page.V.Key("Contents"), page.Resources(), 0)

	regions := make([]Rect, 0, len(s.regions))
	for _, r := range s.regions {
		regions = append(regions, NewRect(r.X0, box.Y1-r.Y0, r.X1, box.Y1-r.Y1))
	}
	return regions
}

func (s *regionScanner) scan(contents, resources pdf.Value, depth int) {
	if contents.Kind() == pdf.Array {
		for i := 0; i < contents.Len(); i++ {
			s.scan(contents.Index(i), resources, depth)
		}
		return
	}
	if contents.Kind() != pdf.Stream {
		return
	}

	pdf.Interpret(contents, func(stk *pdf.Stack, op string) {
		n := stk.Len()
		args := make([]pdf.Value, n)
		for i := n - 1; i >= 0; i-- {
			args[i] = stk.Pop()
		}
		s.do(op, args, resources, depth)
	})
}

func (s *regionScanner) do(op string, args []pdf.Value, resources pdf.Value, depth int) {
	switch op {
	case "q":
		s.saved = append(s.saved, s.gs)
	case "Q":
		if len(s.saved) > 0 {
			s.gs = s.saved[len(s.saved)-1]
			s.saved = s.saved[:len(s.saved)-1]
		}
	case "cm":
		if len(args) == 6 {
			s.gs.ctm = floats6(args).mul(s.gs.ctm)
		}

	case "g":
		if len(args) == 1 {
			v := args[0].Float64()
			s.setFill(Color{R: v, G: v, B: v})
		}
	case "rg":
		if len(args) == 3 {
			s.setFill(Color{R: args[0].Float64(), G: args[1].Float64(), B: args[2].Float64()})
		}
	case "k":
		if len(args) == 4 {
			s.setFill(cmyk(args[0].Float64(), args[1].Float64(), args[2].Float64(), args[3].Float64()))
		}
	case "cs":
		s.setFill(Color{})
	case "sc", "scn":
		s.setComponents(args)

	case "m":
		if len(args) == 2 {
			s.startSubpath(args[0].Float64(), args[1].Float64())
		}
	case "l":
		if len(args) == 2 {
			s.extend(args[0].Float64(), args[1].Float64())
		}
	case "c":
		if len(args) == 6 {
			for i := 0; i < 6; i += 2 {
				s.extend(args[i].Float64(), args[i+1].Float64())
			}
		}
	case "v", "y":
		if len(args) == 4 {
			s.extend(args[0].Float64(), args[1].Float64())
			s.extend(args[2].Float64(), args[3].Float64())
		}
	case "re":
		if len(args) == 4 {
			s.rectangle(args[0].Float64(), args[1].Float64(), args[2].Float64(), args[3].Float64())
		}

	case "f", "F", "f*", "B", "B*", "b", "b*":
		if s.gs.fill != nil && s.color.Matches(*s.gs.fill) {
			for _, r := range s.path {
				if !r.Empty() {
					s.regions = append(s.regions, r)
				}
			}
		}
		s.endPath()
	case "S", "s", "n":
		s.endPath()

	case "Do":
		if len(args) == 1 && depth < maxFormDepth {
			s.form(resources.Key("XObject").Key(args[0].Name()), resources, depth)
		}
	}
}

func (s *regionScanner) setFill(c Color) {
	s.gs.fill = &c
}

// setComponents handles sc/scn. The component count identifies the colour space;
// a trailing name selects a pattern, which never counts as a highlight.
func (s *regionScanner) setComponents(args []pdf.Value) {
	if len(args) > 0 && args[len(args)-1].Kind() == pdf.Name {
		s.gs.fill = nil
		return
	}
	switch len(args) {
	case 1:
		v := args[0].Float64()
		s.setFill(Color{R: v, G: v, B: v})
	case 3:
		s.setFill(Color{R: args[0].Float64(), G: args[1].Float64(), B: args[2].Float64()})
	case 4:
		s.setFill(cmyk(args[0].Float64(), args[1].Float64(), args[2].Float64(), args[3].Float64()))
	default:
		s.gs.fill = nil
	}
}

func (s *regionScanner) startSubpath(x, y float64) {
	dx, dy := s.gs.ctm.apply(x, y)
	s.path = append(s.path, Rect{X0: dx, Y0: dy, X1: dx, Y1: dy})
	s.open = true
}

func (s *regionScanner) extend(x, y float64) {
	if !s.open {
		s.startSubpath(x, y)
		return
	}
	dx, dy := s.gs.ctm.apply(x, y)
	r := &s.path[len(s.path)-1]
	r.X0 = min(r.X0, dx)
	r.Y0 = min(r.Y0, dy)
	r.X1 = max(r.X1, dx)
	r.Y1 = max(r.Y1, dy)
}

func (s *regionScanner) rectangle(x, y, w, h float64) {
	s.startSubpath(x, y)
	s.extend(x+w, y)
	s.extend(x+w, y+h)
	s.extend(x, y+h)
	s.open = false
}

func (s *regionScanner) endPath() {
	s.path = s.path[:0]
	s.open = false
}

// form descends into a form XObject, applying its /Matrix on top of the current CTM.
func (s *regionScanner) form(xobj, resources pdf.Value, depth int) {
	if xobj.Kind() != pdf.Stream || xobj.Key("Subtype").Name() != "Form" {
		return
	}

	saved := s.gs
	savedStack := len(s.saved)
	savedPath := s.path
	s.path = nil
	s.open = false

	if m := xobj.Key("Matrix"); m.Kind() == pdf.Array && m.Len() == 6 {
		s.gs.ctm = floats6(arrayValues(m)).mul(s.gs.ctm)
	}
	inner := xobj.Key("Resources")
	if inner.IsNull() {
		inner = resources
	}
	s.scan(xobj, inner, depth+1)

	s.gs = saved
	s.saved = s.saved[:savedStack]
	s.path = savedPath
}

func floats6(args []pdf.Value) matrix {
	var m matrix
	for i := 0; i < 6 && i < len(args); i++ {
		m[i] = args[i].Float64()
	}
	return m
}

func arrayValues(v pdf.Value) []pdf.Value {
	out := make([]pdf.Value, v.Len())
	for i := range out {
		out[i] = v.Index(i)
	}
	return out
}

func cmyk(c, m, y, k float64) Color {
	return Color{R: (1 - c) * (1 - k), G: (1 - m) * (1 - k), B: (1 - y) * (1 - k)}
}

// pageBox returns the page's MediaBox in default user space, following inherited
// attributes up the page tree. US Letter is assumed when no box is present.
func pageBox(page pdf.Page) Rect {
	v := page.V
	for i := 0; i < 32 && !v.IsNull(); i++ {
		if box := v.Key("MediaBox"); box.Kind() == pdf.Array && box.Len() == 4 {
			return NewRect(box.Index(0).Float64(), box.Index(1).Float64(),
				box.Index(2).Float64(), box.Index(3).Float64())
		}
		v = v.Key("Parent")
	}
	return Rect{X0: 0, Y0: 0, X1: 612, Y1: 792}
}
