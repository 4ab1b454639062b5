package recode

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/a3tai/mcp-highlight-recoder/internal/labels"
)

// Selection is a general question chosen for recoding alongside the party statements.
type Selection struct {
	Column   string    `json:"column"`
	Label    string    `json:"label"`
	Settings *Settings `json:"settings,omitempty"`
}

// Request collects everything one recode script is generated from.
type Request struct {
	Statements1 []string    `json:"statements1"`
	Statements2 []string    `json:"statements2"`
	Neutral     []Selection `json:"neutral,omitempty"`
	// Overrides replaces the default settings of a statement, keyed by statement text.
	Overrides map[string]Settings `json:"overrides,omitempty"`
}

// Script is generated syntax and the statements it did and did not cover.
type Script struct {
	Text      string               `json:"text"`
	Matched   []labels.Association `json:"matched"`
	Unmatched []labels.Association `json:"unmatched"`
}

// Generator writes SPSS recode syntax for one case.
type Generator struct {
	name1   string
	name2   string
	matcher *labels.Matcher
}

// NewGenerator creates a generator for the two parties, resolving statements with matcher.
func NewGenerator(name1, name2 string, matcher *labels.Matcher) *Generator {
	return &Generator{name1: name1, name2: name2, matcher: matcher}
}

// Generate emits one recode block per statement that matches a column and has
// renderable settings. Everything else is reported as unmatched.
func (g *Generator) Generate(req Request) Script {
	var b strings.Builder
	out := Script{Matched: []labels.Association{}, Unmatched: []labels.Association{}}

	sides := []struct {
		side       Side
		party      string
		statements []string
	}{
		{SideFirst, g.name1, req.Statements1},
		{SideSecond, g.name2, req.Statements2},
	}
	for _, s := range sides {
		for _, stmt := range s.statements {
			a := labels.Association{Party: s.party, Statement: stmt}
			match := g.matcher.FindColumn(stmt)
			if !match.Matched {
				out.Unmatched = append(out.Unmatched, a)
				continue
			}
			a.Column = match.Column

			settings, ok := req.Overrides[stmt]
			if !ok {
				settings = g.defaults(s.side, match.Column)
			}
			if !settings.Renderable() {
				out.Unmatched = append(out.Unmatched, a)
				continue
			}
			g.writeBlock(&b, match.Column, stmt, settings)
			out.Matched = append(out.Matched, a)
		}
	}

	for _, sel := range req.Neutral {
		a := labels.Association{Statement: sel.Label, Column: sel.Column}
		settings := g.defaults(SideNeutral, sel.Column)
		if sel.Settings != nil {
			settings = *sel.Settings
		}
		if sel.Column == "" || !settings.Renderable() {
			out.Unmatched = append(out.Unmatched, a)
			continue
		}
		g.writeBlock(&b, sel.Column, sel.Label, settings)
		out.Matched = append(out.Matched, a)
	}

	out.Text = b.String()
	return out
}

func (g *Generator) defaults(side Side, column string) Settings {
	var values []float64
	if e, ok := g.matcher.Table().Lookup(column); ok {
		values = e.Values
	}
	return DefaultSettings(side, column, values)
}

func (g *Generator) writeBlock(b *strings.Builder, column, label string, s Settings) {
	target := column + "r"

	switch s.Type {
	case Continuous:
		for _, c := range s.Comparisons {
			fmt.Fprintf(b, "if (%s %s %s) %s = %d.\n", column, c.Operator, number(c.Value), target, c.Becomes)
		}
	default:
		r1, r2 := s.Ranges[0], s.Ranges[1]
		fmt.Fprintf(b, "recode %s (%s thru %s=%d) (%s thru %s=%d) into %s.\n",
			column,
			number(r1.Start), number(r1.End), r1.Becomes,
			number(r2.Start), number(r2.End), r2.Becomes,
			target)
	}
	fmt.Fprintf(b, "variable labels %s '%s'.\n", target, quote(label))
	fmt.Fprintf(b, "value labels %s %d '%s' %d '%s'.\n", target, FavorsFirst, quote(g.name1), FavorsSecond, quote(g.name2))
	b.WriteString("execute.\n\n")
}

func number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// quote escapes a value for a single-quoted SPSS string.
func quote(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// ChangedNeutral returns the selections whose settings differ from the defaults
// their column would get.
func ChangedNeutral(selections []Selection, table labels.Table) []Selection {
	out := []Selection{}
	for _, sel := range selections {
		if sel.Settings == nil {
			continue
		}
		var values []float64
		if e, ok := table.Lookup(sel.Column); ok {
			values = e.Values
		}
		if *sel.Settings != DefaultSettings(SideNeutral, sel.Column, values) {
			out = append(out, sel)
		}
	}
	return out
}
