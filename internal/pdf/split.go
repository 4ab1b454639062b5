package pdf

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// newConfiguration returns a lenient pdfcpu configuration that writes classic
// cross-reference tables, which keeps the output readable by ledongthuc/pdf.
func newConfiguration() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	conf.WriteObjectStream = false
	conf.WriteXRefStream = false
	return conf
}

// PageCount returns the number of pages in doc.
func PageCount(doc []byte) (int, error) {
	ctx, err := api.ReadContext(bytes.NewReader(doc), newConfiguration())
	if err != nil {
		return 0, &DecodeError{Op: "page count", Err: err}
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return 0, &DecodeError{Op: "page count", Err: err}
	}
	return ctx.PageCount, nil
}

// SplitByPages implements Processor. Pages are copied once each in ascending
// order; indices outside the document are ignored.
func (e *Extractor) SplitByPages(doc []byte, pages []int) ([]byte, error) {
	if len(pages) == 0 {
		return nil, ErrNoPages
	}

	count, err := PageCount(doc)
	if err != nil {
		return nil, err
	}

	selected := selectPages(pages, count)
	if len(selected) == 0 {
		return nil, fmt.Errorf("%w: %v outside 0..%d", ErrNoPages, pages, count-1)
	}

	var buf bytes.Buffer
	if err := api.Trim(bytes.NewReader(doc), &buf, selected, newConfiguration()); err != nil {
		return nil, &DecodeError{Op: "split pages", Err: err}
	}
	return buf.Bytes(), nil
}

// selectPages turns 0-indexed page numbers into pdfcpu's 1-based selection,
// sorted and without duplicates.
func selectPages(pages []int, count int) []string {
	seen := make(map[int]struct{}, len(pages))
	keep := make([]int, 0, len(pages))
	for _, p := range pages {
		if p < 0 || p >= count {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		keep = append(keep, p)
	}
	sort.Ints(keep)

	out := make([]string, len(keep))
	for i, p := range keep {
		out[i] = strconv.Itoa(p + 1)
	}
	return out
}
