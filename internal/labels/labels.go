// Package labels resolves free-text survey statements to the columns of a label
// table and enumerates the general questions that precede the party sections.
package labels

import (
	"fmt"
	"strings"
)

// Entry is one variable of the survey file: its column identifier, its question
// label and, when known, the value codes the column takes.
type Entry struct {
	Column string `json:"column" yaml:"column"`
	// Label is nil when the survey metadata has no label for the column. A nil
	// label ends the informative part of the table.
	Label  *string   `json:"label" yaml:"label"`
	Values []float64 `json:"values,omitempty" yaml:"values,omitempty"`
}

// NewEntry builds an entry with a label.
func NewEntry(column, label string, values ...float64) Entry {
	return Entry{Column: column, Label: &label, Values: values}
}

// LabelText returns the label, or "" when it is nil.
func (e Entry) LabelText() string {
	if e.Label == nil {
		return ""
	}
	return *e.Label
}

// Table is the ordered label table of one survey file.
type Table []Entry

// ShapeError reports a malformed label table or input row.
type ShapeError struct {
	Row    int // 0-based row, -1 when the whole input is at fault
	Reason string
}

func (e *ShapeError) Error() string {
	if e.Row < 0 {
		return "label table: " + e.Reason
	}
	return fmt.Sprintf("label table row %d: %s", e.Row, e.Reason)
}

// Validate checks that every row has a column identifier and that column
// identifiers are unique.
func (t Table) Validate() error {
	seen := make(map[string]int, len(t))
	for i, e := range t {
		col := strings.TrimSpace(e.Column)
		if col == "" {
			return &ShapeError{Row: i, Reason: "empty column identifier"}
		}
		if prev, dup := seen[col]; dup {
			return &ShapeError{Row: i, Reason: fmt.Sprintf("duplicate column %q (first at row %d)", col, prev)}
		}
		seen[col] = i
	}
	return nil
}

// Lookup returns the entry for column.
func (t Table) Lookup(column string) (Entry, bool) {
	for _, e := range t {
		if e.Column == column {
			return e, true
		}
	}
	return Entry{}, false
}
