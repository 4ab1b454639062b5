package pdf

import (
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/cases"
)

// FindPagesWithText implements Processor. A page whose text cannot be
// extracted counts as non-matching.
func (e *Extractor) FindPagesWithText(doc []byte, search string) ([]int, error) {
	r, err := openReader("find pages", doc)
	if err != nil {
		return nil, err
	}

	fold := cases.Fold()
	needle := fold.String(search)

	matches := []int{}
	for i := 1; i <= r.NumPage(); i++ {
		text, ok := pageText(r, i)
		if !ok || text == "" {
			continue
		}
		if strings.Contains(fold.String(text), needle) {
			matches = append(matches, i-1)
		}
	}

	log.Debug().Str("search", search).Ints("pages", matches).Msg("page search finished")
	return matches, nil
}

// PageTexts returns the plain text of every page, empty for pages that fail to decode.
func PageTexts(doc []byte) ([]string, error) {
	r, err := openReader("page text", doc)
	if err != nil {
		return nil, err
	}
	texts := make([]string, r.NumPage())
	for i := range texts {
		texts[i], _ = pageText(r, i+1)
	}
	return texts, nil
}

func pageText(r *pdf.Reader, num int) (text string, ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Debug().Int("page", num).Interface("panic", rec).Msg("page text extraction failed")
			text, ok = "", false
		}
	}()

	page := r.Page(num)
	if page.V.IsNull() {
		return "", false
	}
	text, err := page.GetPlainText(nil)
	if err != nil {
		log.Debug().Int("page", num).Err(err).Msg("page text extraction failed")
		return "", false
	}
	return text, true
}
