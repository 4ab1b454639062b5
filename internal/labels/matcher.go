package labels

import (
	"regexp"
	"strings"
)

var (
	whitespaceRun   = regexp.MustCompile(`\s+`)
	spaceAfterDash  = regexp.MustCompile(`-\s+`)
	spaceBeforeDash = regexp.MustCompile(`\s+-`)
)

// Normalize collapses whitespace runs and removes whitespace around hyphens.
// Punctuation and case are left untouched.
func Normalize(text string) string {
	text = whitespaceRun.ReplaceAllString(text, " ")
	text = spaceAfterDash.ReplaceAllString(text, "-")
	text = spaceBeforeDash.ReplaceAllString(text, "-")
	return strings.TrimSpace(text)
}

// MatchResult is the column a statement resolved to.
type MatchResult struct {
	Column  string `json:"column,omitempty"`
	Matched bool   `json:"matched"`
	// Exact is set when the statement equals the label verbatim.
	Exact bool `json:"exact,omitempty"`
}

// Unmatched is the result for a statement no label accounts for.
var Unmatched = MatchResult{}

type normalizedLabel struct {
	column string
	label  string
}

// Matcher resolves statements against a label table. It is read-only after
// construction and safe for concurrent use.
type Matcher struct {
	table      Table
	exact      map[string]string
	normalized []normalizedLabel
}

// NewMatcher indexes table. When a label repeats, the first row carrying it wins.
func NewMatcher(table Table) *Matcher {
	m := &Matcher{
		table:      table,
		exact:      make(map[string]string, len(table)),
		normalized: make([]normalizedLabel, 0, len(table)),
	}
	for _, e := range table {
		if e.Label == nil {
			continue
		}
		if _, ok := m.exact[*e.Label]; !ok {
			m.exact[*e.Label] = e.Column
		}
		m.normalized = append(m.normalized, normalizedLabel{column: e.Column, label: Normalize(*e.Label)})
	}
	return m
}

// Table returns the indexed table.
func (m *Matcher) Table() Table {
	return m.table
}

// FindColumn returns the column whose label equals statement, or failing that
// the first column whose normalized label contains the normalized statement.
func (m *Matcher) FindColumn(statement string) MatchResult {
	if strings.TrimSpace(statement) == "" {
		return Unmatched
	}
	if col, ok := m.exact[statement]; ok {
		return MatchResult{Column: col, Matched: true, Exact: true}
	}

	needle := Normalize(statement)
	if needle == "" {
		return Unmatched
	}
	for _, l := range m.normalized {
		if strings.Contains(l.label, needle) {
			return MatchResult{Column: l.column, Matched: true}
		}
	}
	return Unmatched
}

// Association ties a party's statement to the column it resolved to.
type Association struct {
	Party     string `json:"party"`
	Statement string `json:"statement"`
	Column    string `json:"column,omitempty"`
}

// Result splits statements into those that found a column and those that did not.
type Result struct {
	Matched   []Association `json:"matched"`
	Unmatched []Association `json:"unmatched"`
}

// MatchAll resolves the statements of both parties, first party first, keeping
// input order within each party.
func (m *Matcher) MatchAll(name1 string, statements1 []string, name2 string, statements2 []string) Result {
	res := Result{Matched: []Association{}, Unmatched: []Association{}}
	for _, side := range []struct {
		party      string
		statements []string
	}{
		{name1, statements1},
		{name2, statements2},
	} {
		for _, s := range side.statements {
			a := Association{Party: side.party, Statement: s}
			if r := m.FindColumn(s); r.Matched {
				a.Column = r.Column
				res.Matched = append(res.Matched, a)
				continue
			}
			res.Unmatched = append(res.Unmatched, a)
		}
	}
	return res
}
