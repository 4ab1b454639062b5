package pdf

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/jung-kurt/gofpdf"
	"github.com/stretchr/testify/require"
)

type box struct {
	x, y, w, h float64
}

type word struct {
	x, y float64
	text string
}

// fixturePage describes one Letter page in top-down points, the way gofpdf draws it.
type fixturePage struct {
	fill       [3]int
	highlights []box
	words      []word
}

func yellowPage(highlights []box, words ...word) fixturePage {
	return fixturePage{fill: [3]int{255, 255, 0}, highlights: highlights, words: words}
}

// buildFixture renders pages with gofpdf: filled rectangles first, then text on top.
func buildFixture(t *testing.T, pages ...fixturePage) []byte {
	t.Helper()

	doc := gofpdf.New("P", "pt", "Letter", "")
	doc.SetFont("Helvetica", "", 12)
	for _, p := range pages {
		doc.AddPage()
		doc.SetFillColor(p.fill[0], p.fill[1], p.fill[2])
		for _, h := range p.highlights {
			doc.Rect(h.x, h.y, h.w, h.h, "F")
		}
		for _, w := range p.words {
			doc.Text(w.x, w.y, w.text)
		}
	}

	var buf bytes.Buffer
	require.NoError(t, doc.Output(&buf))
	return buf.Bytes()
}

// assemblePDF writes an uncompressed document whose object n is objects[n-1].
// Object 1 must be the catalog.
func assemblePDF(objects ...string) []byte {
	var b bytes.Buffer
	b.WriteString("%PDF-1.4\n")

	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = b.Len()
		fmt.Fprintf(&b, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&b, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&b, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return b.Bytes()
}

func streamObject(dict, data string) string {
	return fmt.Sprintf("<< %s /Length %d >>\nstream\n%s\nendstream", dict, len(data), data)
}

const helvetica = "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>"

// singlePagePDF builds a one-page document from a content stream. Extra objects
// are numbered from 5 and can be referenced from resources.
func singlePagePDF(resources, content string, extra ...string) []byte {
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents 4 0 R /Resources " + resources + " >>",
		streamObject("", content),
	}
	return assemblePDF(append(objects, extra...)...)
}
