package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/a3tai/mcp-highlight-recoder/internal/labels"
	"github.com/a3tai/mcp-highlight-recoder/internal/pdf"
	"github.com/a3tai/mcp-highlight-recoder/internal/recode"
)

// Options carries the analyst's recode choices into Analyze.
type Options struct {
	Overrides map[string]recode.Settings `json:"overrides,omitempty"`
	Neutral   []recode.Selection         `json:"neutral,omitempty"`
}

// Report is the outcome of analysing one case document.
type Report struct {
	ID          string          `json:"id"`
	Case        Case            `json:"case"`
	Pages1      []int           `json:"pages1"`
	Pages2      []int           `json:"pages2"`
	Statements1 []pdf.Statement `json:"statements1"`
	Statements2 []pdf.Statement `json:"statements2"`
	Matches     labels.Result   `json:"matches"`
	General     []labels.Entry  `json:"general"`
	Script      recode.Script   `json:"script"`
	Warnings    []string        `json:"warnings"`
}

// party is the per-side result of page location and extraction.
type party struct {
	pages      []int
	statements []pdf.Statement
	warning    string
}

// Analyze locates each party's argument pages in doc, extracts the highlighted
// statements from them, matches the statements against table and renders the
// recode script. A party whose section is missing contributes no statements and
// a warning. Cancellation is checked between stages.
func Analyze(ctx context.Context, proc pdf.Processor, doc []byte, table labels.Table, c Case, opts Options) (*Report, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := table.Validate(); err != nil {
		return nil, err
	}

	var first, second party
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		first, err = extractParty(gctx, proc, doc, c.Heading1())
		return err
	})
	g.Go(func() (err error) {
		second, err = extractParty(gctx, proc, doc, c.Heading2())
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report := &Report{
		ID:          uuid.New().String(),
		Case:        c,
		Pages1:      first.pages,
		Pages2:      second.pages,
		Statements1: first.statements,
		Statements2: second.statements,
		Warnings:    []string{},
	}
	for _, w := range []string{first.warning, second.warning} {
		if w != "" {
			report.Warnings = append(report.Warnings, w)
		}
	}
	if len(first.pages) == 0 && len(second.pages) == 0 {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("neither %q nor %q found in document", c.Heading1(), c.Heading2()))
	}

	matcher := labels.NewMatcher(table)
	texts1, texts2 := pdf.Texts(first.statements), pdf.Texts(second.statements)
	report.Matches = matcher.MatchAll(c.Name1, texts1, c.Name2, texts2)
	report.General = labels.GeneralQuestions(table, c.Name1, c.Name2)
	report.Script = recode.NewGenerator(c.Name1, c.Name2, matcher).Generate(recode.Request{
		Statements1: texts1,
		Statements2: texts2,
		Neutral:     opts.Neutral,
		Overrides:   opts.Overrides,
	})

	log.Info().
		Str("report", report.ID).
		Int("statements1", len(report.Statements1)).
		Int("statements2", len(report.Statements2)).
		Int("matched", len(report.Matches.Matched)).
		Int("unmatched", len(report.Matches.Unmatched)).
		Msg("case analysed")

	return report, nil
}

// NeutralSelections turns general question columns into recode selections with
// default settings. Columns missing from table keep an empty column so the
// generator reports them as unmatched.
func NeutralSelections(table labels.Table, columns []string) []recode.Selection {
	out := make([]recode.Selection, 0, len(columns))
	for _, col := range columns {
		e, ok := table.Lookup(col)
		if !ok {
			out = append(out, recode.Selection{Label: col})
			continue
		}
		out = append(out, recode.Selection{Column: e.Column, Label: e.LabelText()})
	}
	return out
}

func extractParty(ctx context.Context, proc pdf.Processor, doc []byte, heading string) (party, error) {
	p := party{pages: []int{}, statements: []pdf.Statement{}}

	pages, err := proc.FindPagesWithText(doc, heading)
	if err != nil {
		return p, fmt.Errorf("locate %q: %w", heading, err)
	}
	if len(pages) == 0 {
		p.warning = fmt.Sprintf("no pages found for %q", heading)
		return p, nil
	}
	p.pages = pages

	if err := ctx.Err(); err != nil {
		return p, err
	}
	section, err := proc.SplitByPages(doc, pages)
	if err != nil {
		return p, fmt.Errorf("split %q pages: %w", heading, err)
	}

	if err := ctx.Err(); err != nil {
		return p, err
	}
	statements, err := proc.ExtractHighlightedStatements(section)
	if err != nil {
		return p, fmt.Errorf("extract %q highlights: %w", heading, err)
	}
	if len(statements) == 0 {
		p.warning = fmt.Sprintf("no highlighted text found on %q pages", heading)
	}
	p.statements = statements
	return p, nil
}
