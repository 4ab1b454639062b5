package pdf

import (
	"bytes"
	"errors"

	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog/log"
)

// Processor is the document-facing half of the recoding pipeline.
type Processor interface {
	// FindPagesWithText returns the 0-indexed pages whose text contains search,
	// compared case-insensitively.
	FindPagesWithText(doc []byte, search string) ([]int, error)
	// ExtractHighlightedStatements returns the highlighted sentences of doc in reading order.
	ExtractHighlightedStatements(doc []byte) ([]Statement, error)
	// SplitByPages returns a new document holding only the given 0-indexed pages.
	SplitByPages(doc []byte, pages []int) ([]byte, error)
}

// Options tunes highlight extraction.
type Options struct {
	// YThreshold is the line-merge tolerance in points.
	YThreshold float64
	// Highlight selects which fill colours count as highlighter.
	Highlight HighlightColor
	// OnPage, when set, is called after every scanned page.
	OnPage func(done, total int)
}

// DefaultOptions returns the standard extraction settings.
func DefaultOptions() Options {
	return Options{
		YThreshold: DefaultYThreshold,
		Highlight:  DefaultHighlightColor,
	}
}

// Extraction is the result of a highlight pass with its diagnostics.
type Extraction struct {
	Pages      int         `json:"pages"`
	Regions    int         `json:"regions"`
	Spans      int         `json:"spans"`
	Lines      []Line      `json:"lines"`
	Statements []Statement `json:"statements"`
}

// Extractor implements Processor on top of ledongthuc/pdf and pdfcpu.
type Extractor struct {
	opts Options
}

var _ Processor = (*Extractor)(nil)

// NewExtractor creates an extractor. Zero option fields take their defaults.
func NewExtractor(opts Options) *Extractor {
	def := DefaultOptions()
	if opts.YThreshold <= 0 {
		opts.YThreshold = def.YThreshold
	}
	if opts.Highlight == (HighlightColor{}) {
		opts.Highlight = def.Highlight
	}
	return &Extractor{opts: opts}
}

// Options returns the effective options.
func (e *Extractor) Options() Options {
	return e.opts
}

// ExtractHighlightedStatements implements Processor.
func (e *Extractor) ExtractHighlightedStatements(doc []byte) ([]Statement, error) {
	ex, err := e.Extract(doc)
	if err != nil {
		return nil, err
	}
	return ex.Statements, nil
}

// Extract runs the highlight pass and keeps the intermediate counts.
func (e *Extractor) Extract(doc []byte) (*Extraction, error) {
	r, err := openReader("extract highlights", doc)
	if err != nil {
		return nil, err
	}

	total := r.NumPage()
	result := &Extraction{Pages: total}
	var lines []Line

	for i := 1; i <= total; i++ {
		spans, regions, err := e.scanPage(r, i)
		if err != nil {
			return nil, err
		}
		result.Regions += regions
		result.Spans += len(spans)
		lines = append(lines, mergeLines(spans, e.opts.YThreshold)...)

		if e.opts.OnPage != nil {
			e.opts.OnPage(i, total)
		}
	}

	result.Lines = dedupeLines(lines)
	result.Statements = splitStatements(result.Lines)
	if result.Statements == nil {
		result.Statements = []Statement{}
	}

	log.Debug().
		Int("pages", result.Pages).
		Int("regions", result.Regions).
		Int("spans", result.Spans).
		Int("statements", len(result.Statements)).
		Msg("highlight extraction finished")

	return result, nil
}

// scanPage returns the kept spans of one page and the number of highlight regions on it.
func (e *Extractor) scanPage(r *pdf.Reader, num int) (kept []Span, regionCount int, err error) {
	defer recoverDecode("extract highlights", num, &err)

	page := r.Page(num)
	if page.V.IsNull() {
		return nil, 0, nil
	}

	box := pageBox(page)
	regions := highlightRegions(page, e.opts.Highlight, box)
	if len(regions) == 0 {
		return nil, 0, nil
	}

	for _, s := range buildSpans(num, page.Content().Text, box.Y1) {
		if keepSpan(s, regions) {
			log.Debug().Int("page", num).Str("text", s.Text).Msg("highlighted span")
			kept = append(kept, s)
		}
	}
	return kept, len(regions), nil
}

// openReader parses doc, turning both errors and library panics into *DecodeError.
func openReader(op string, doc []byte) (r *pdf.Reader, err error) {
	defer recoverDecode(op, 0, &err)

	if len(doc) == 0 {
		return nil, &DecodeError{Op: op, Err: errors.New("empty document")}
	}
	r, err = pdf.NewReader(bytes.NewReader(doc), int64(len(doc)))
	if err != nil {
		return nil, &DecodeError{Op: op, Err: err}
	}
	return r, nil
}
