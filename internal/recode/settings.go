// Package recode turns matched statements into SPSS syntax that maps survey
// answers onto a two-party favourability axis.
package recode

import (
	"fmt"
	"sort"
)

// VariableType describes how a survey column is coded.
type VariableType string

const (
	Categorical VariableType = "categorical"
	Continuous  VariableType = "continuous"
	Binary      VariableType = "binary"
	Unknown     VariableType = "unknown"
)

// Side identifies who a statement argues for.
type Side int

const (
	SideFirst Side = iota + 1
	SideSecond
	SideNeutral
)

// Output codes on the recoded axis.
const (
	FavorsFirst  = 1
	FavorsSecond = 2
)

// DefaultThreshold splits continuous 0-100 scales when nothing else is known.
const DefaultThreshold = 50

// Range maps the answers Start..End (inclusive) onto Becomes.
type Range struct {
	Start   float64 `json:"start" yaml:"start"`
	End     float64 `json:"end" yaml:"end"`
	Becomes int     `json:"becomes" yaml:"becomes"`
}

// Comparison maps the answers satisfying "<column> Operator Value" onto Becomes.
type Comparison struct {
	Operator string  `json:"operator" yaml:"operator"`
	Value    float64 `json:"value" yaml:"value"`
	Becomes  int     `json:"becomes" yaml:"becomes"`
}

// Settings is the recode configuration of one statement.
type Settings struct {
	Type        VariableType  `json:"type" yaml:"type"`
	Ranges      [2]Range      `json:"ranges,omitempty" yaml:"ranges,omitempty"`
	Comparisons [2]Comparison `json:"comparisons,omitempty" yaml:"comparisons,omitempty"`
}

var operators = map[string]struct{}{
	"<": {}, "<=": {}, ">": {}, ">=": {}, "=": {}, "~=": {}, "<>": {},
}

// Renderable reports whether syntax can be produced from s.
func (s Settings) Renderable() bool {
	return s.Type != Unknown && s.Type != "" && s.Validate() == nil
}

// Validate checks that the ranges or comparisons are well formed for the type.
func (s Settings) Validate() error {
	switch s.Type {
	case Categorical, Binary:
		for i, r := range s.Ranges {
			if r.Start > r.End {
				return fmt.Errorf("range %d: start %v after end %v", i+1, r.Start, r.End)
			}
			if err := checkBecomes(r.Becomes); err != nil {
				return fmt.Errorf("range %d: %w", i+1, err)
			}
		}
	case Continuous:
		for i, c := range s.Comparisons {
			if _, ok := operators[c.Operator]; !ok {
				return fmt.Errorf("comparison %d: unsupported operator %q", i+1, c.Operator)
			}
			if err := checkBecomes(c.Becomes); err != nil {
				return fmt.Errorf("comparison %d: %w", i+1, err)
			}
		}
	case Unknown:
	default:
		return fmt.Errorf("unknown variable type %q", s.Type)
	}
	return nil
}

// checkBecomes accepts only the codes the value labels define.
func checkBecomes(code int) error {
	if code != FavorsFirst && code != FavorsSecond {
		return fmt.Errorf("becomes must be %d or %d, got %d", FavorsFirst, FavorsSecond, code)
	}
	return nil
}

// DefaultSettings derives the initial configuration of a statement from its
// side, the column it matched (empty if none) and the column's value codes.
//
// Columns without value codes are treated as continuous scales split at 50.
// Four or more codes split into the first two and the next two. Neutral
// questions with two or three codes map the first two codes one to one.
// Anything else is Unknown and needs manual ranges.
func DefaultSettings(side Side, column string, values []float64) Settings {
	favorable, unfavorable := FavorsFirst, FavorsSecond
	if side == SideSecond {
		favorable, unfavorable = FavorsSecond, FavorsFirst
	}

	if column == "" {
		return Settings{Type: Unknown}
	}

	codes := append([]float64(nil), values...)
	sort.Float64s(codes)

	switch {
	case len(codes) == 0:
		return Settings{
			Type: Continuous,
			Comparisons: [2]Comparison{
				{Operator: "<=", Value: DefaultThreshold, Becomes: favorable},
				{Operator: ">", Value: DefaultThreshold, Becomes: unfavorable},
			},
		}
	case len(codes) >= 4:
		return Settings{
			Type: Categorical,
			Ranges: [2]Range{
				{Start: codes[0], End: codes[1], Becomes: favorable},
				{Start: codes[2], End: codes[3], Becomes: unfavorable},
			},
		}
	case len(codes) >= 2 && side == SideNeutral:
		return Settings{
			Type: Categorical,
			Ranges: [2]Range{
				{Start: codes[0], End: codes[0], Becomes: favorable},
				{Start: codes[1], End: codes[1], Becomes: unfavorable},
			},
		}
	}
	return Settings{Type: Unknown}
}

// ManualRanges is the starting point offered for Unknown columns: 1-2 against 3-4.
func ManualRanges(side Side) Settings {
	favorable, unfavorable := FavorsFirst, FavorsSecond
	if side == SideSecond {
		favorable, unfavorable = FavorsSecond, FavorsFirst
	}
	return Settings{
		Type: Categorical,
		Ranges: [2]Range{
			{Start: 1, End: 2, Becomes: favorable},
			{Start: 3, End: 4, Becomes: unfavorable},
		},
	}
}
