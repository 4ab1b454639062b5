package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/mcp-highlight-recoder/internal/labels"
	"github.com/a3tai/mcp-highlight-recoder/internal/pdf"
	"github.com/a3tai/mcp-highlight-recoder/internal/recode"
)

// stubProcessor serves canned pages and statements keyed by heading.
type stubProcessor struct {
	pages      map[string][]int
	statements map[string][]pdf.Statement
	findErr    error
	extractErr error
}

func (p *stubProcessor) FindPagesWithText(_ []byte, search string) ([]int, error) {
	if p.findErr != nil {
		return nil, p.findErr
	}
	if pages, ok := p.pages[search]; ok {
		return pages, nil
	}
	return []int{}, nil
}

func (p *stubProcessor) SplitByPages(_ []byte, pages []int) ([]byte, error) {
	return []byte(fmt.Sprint(pages)), nil
}

func (p *stubProcessor) ExtractHighlightedStatements(doc []byte) ([]pdf.Statement, error) {
	if p.extractErr != nil {
		return nil, p.extractErr
	}
	if s, ok := p.statements[string(doc)]; ok {
		return s, nil
	}
	return []pdf.Statement{}, nil
}

func caseTable() labels.Table {
	return labels.Table{
		labels.NewEntry("NAME", "Respondent name"),
		labels.NewEntry("AGE", "What is your age?"),
		labels.NewEntry("SMITH1", "Smith acted reasonably.", 1, 2, 3, 4),
		labels.NewEntry("JONES1", "Jones ignored the warnings.", 1, 2, 3, 4),
	}
}

func smithJones() *stubProcessor {
	return &stubProcessor{
		pages: map[string][]int{
			"Smith Arguments": {1},
			"Jones Arguments": {2, 3},
		},
		statements: map[string][]pdf.Statement{
			"[1]": {{Page: 1, Text: "Smith acted reasonably."}},
			"[2 3]": {
				{Page: 1, Text: "Jones ignored the warnings."},
				{Page: 2, Text: "Nobody asked about this."},
			},
		},
	}
}

func TestCase_Validate(t *testing.T) {
	tests := []struct {
		name    string
		c       Case
		wantErr bool
	}{
		{"valid", Case{"Smith", "Jones"}, false},
		{"missing first", Case{"", "Jones"}, true},
		{"blank second", Case{"Smith", "  "}, true},
		{"same name", Case{"Smith", "SMITH"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	assert.ErrorIs(t, Case{"Smith", "smith"}.Validate(), ErrInvalidCase)
	assert.Equal(t, "Smith Arguments", Case{Name1: " Smith "}.Heading1())
	assert.Equal(t, "Jones Arguments", Case{Name2: "Jones"}.Heading2())
}

func TestAnalyze(t *testing.T) {
	c := Case{Name1: "Smith", Name2: "Jones"}

	report, err := Analyze(context.Background(), smithJones(), []byte("doc"), caseTable(), c, Options{})
	require.NoError(t, err)

	_, err = uuid.Parse(report.ID)
	assert.NoError(t, err)
	assert.Equal(t, c, report.Case)
	assert.Equal(t, []int{1}, report.Pages1)
	assert.Equal(t, []int{2, 3}, report.Pages2)
	assert.Len(t, report.Statements1, 1)
	assert.Len(t, report.Statements2, 2)
	assert.Empty(t, report.Warnings)

	assert.Equal(t, []labels.Association{
		{Party: "Smith", Statement: "Smith acted reasonably.", Column: "SMITH1"},
		{Party: "Jones", Statement: "Jones ignored the warnings.", Column: "JONES1"},
	}, report.Matches.Matched)
	assert.Equal(t, []labels.Association{
		{Party: "Jones", Statement: "Nobody asked about this."},
	}, report.Matches.Unmatched)

	require.Len(t, report.General, 1)
	assert.Equal(t, "AGE", report.General[0].Column)

	assert.Contains(t, report.Script.Text, "recode SMITH1 (1 thru 2=1) (3 thru 4=2) into SMITH1r.")
	assert.Contains(t, report.Script.Text, "recode JONES1 (1 thru 2=2) (3 thru 4=1) into JONES1r.")
	assert.Len(t, report.Script.Matched, 2)
}

func TestAnalyze_MissingSection(t *testing.T) {
	proc := smithJones()
	delete(proc.pages, "Jones Arguments")

	report, err := Analyze(context.Background(), proc, []byte("doc"), caseTable(), Case{"Smith", "Jones"}, Options{})
	require.NoError(t, err)

	assert.Equal(t, []int{}, report.Pages2)
	assert.Equal(t, []pdf.Statement{}, report.Statements2)
	assert.Equal(t, []string{`no pages found for "Jones Arguments"`}, report.Warnings)
	assert.Len(t, report.Matches.Matched, 1)
}

func TestAnalyze_NoSections(t *testing.T) {
	report, err := Analyze(context.Background(), &stubProcessor{}, []byte("doc"), caseTable(), Case{"Smith", "Jones"}, Options{})
	require.NoError(t, err)
	assert.Len(t, report.Warnings, 3)
	assert.Empty(t, report.Matches.Matched)
	assert.Empty(t, report.Script.Text)
}

func TestAnalyze_Overrides(t *testing.T) {
	opts := Options{Overrides: map[string]recode.Settings{
		"Smith acted reasonably.": {
			Type: recode.Continuous,
			Comparisons: [2]recode.Comparison{
				{Operator: "<", Value: 30, Becomes: 1},
				{Operator: ">=", Value: 30, Becomes: 2},
			},
		},
	}}

	report, err := Analyze(context.Background(), smithJones(), []byte("doc"), caseTable(), Case{"Smith", "Jones"}, opts)
	require.NoError(t, err)
	assert.Contains(t, report.Script.Text, "if (SMITH1 < 30) SMITH1r = 1.")
}

func TestAnalyze_Errors(t *testing.T) {
	c := Case{"Smith", "Jones"}
	ctx := context.Background()

	_, err := Analyze(ctx, smithJones(), nil, caseTable(), Case{"Smith", ""}, Options{})
	assert.Error(t, err, "invalid case")

	dup := labels.Table{labels.NewEntry("Q1", "a"), labels.NewEntry("Q1", "b")}
	_, err = Analyze(ctx, smithJones(), nil, dup, c, Options{})
	var shape *labels.ShapeError
	assert.True(t, errors.As(err, &shape))

	decode := &pdf.DecodeError{Op: "find pages", Err: errors.New("bad xref")}
	_, err = Analyze(ctx, &stubProcessor{findErr: decode}, nil, caseTable(), c, Options{})
	assert.True(t, pdf.IsDecodeError(err))

	broken := smithJones()
	broken.extractErr = errors.New("boom")
	_, err = Analyze(ctx, broken, nil, caseTable(), c, Options{})
	assert.ErrorContains(t, err, "boom")

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = Analyze(cancelled, smithJones(), nil, caseTable(), c, Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestResolveCase(t *testing.T) {
	defaults := Case{"Smith", "Jones"}

	c, err := ResolveCase("", " Brown ", defaults)
	require.NoError(t, err)
	assert.Equal(t, Case{"Smith", "Brown"}, c)

	c, err = ResolveCase("", "", Case{})
	assert.ErrorIs(t, err, ErrInvalidCase)
	assert.Equal(t, Case{}, c)
}

func TestNeutralSelections(t *testing.T) {
	got := NeutralSelections(caseTable(), []string{"AGE", "MISSING"})
	assert.Equal(t, []recode.Selection{
		{Column: "AGE", Label: "What is your age?"},
		{Label: "MISSING"},
	}, got)

	report, err := Analyze(context.Background(), &stubProcessor{}, nil, caseTable(), Case{"Smith", "Jones"},
		Options{Neutral: got})
	require.NoError(t, err)
	assert.Equal(t, []labels.Association{{Statement: "MISSING"}}, report.Script.Unmatched)
}
