package labels

import (
	"strings"

	"golang.org/x/text/cases"
)

// metadataColumns are respondent bookkeeping fields, never recodable questions.
var metadataColumns = map[string]struct{}{
	"name":          {},
	"id":            {},
	"respondent_id": {},
	"respid":        {},
	"final":         {},
	"final_leaning": {},
	"finalleaning":  {},
	"leaning":       {},
	"verdict":       {},
}

// freeTextPatterns mark open-response questions that cannot be split two ways.
var freeTextPatterns = []string{
	"name",
	"address",
	"email",
	"e-mail",
	"phone",
	"comment",
	"explain",
	"describe",
	"why",
	"other (please specify)",
	"zip",
}

// containsFold reports whether needle occurs in haystack ignoring case.
// An empty needle never matches.
func containsFold(haystack, needle string) bool {
	if needle == "" {
		return false
	}
	fold := cases.Fold()
	return strings.Contains(fold.String(haystack), fold.String(needle))
}

// IsMetadataColumn reports whether column is a respondent bookkeeping field.
func IsMetadataColumn(column string) bool {
	_, ok := metadataColumns[cases.Fold().String(strings.TrimSpace(column))]
	return ok
}

// IsFreeText reports whether label asks for an open-ended answer.
func IsFreeText(label string) bool {
	for _, p := range freeTextPatterns {
		if containsFold(label, p) {
			return true
		}
	}
	return false
}

// mentionsParty reports whether the entry names either party in its column or label.
func mentionsParty(e Entry, name1, name2 string) bool {
	for _, name := range []string{strings.TrimSpace(name1), strings.TrimSpace(name2)} {
		if containsFold(e.Column, name) || containsFold(e.LabelText(), name) {
			return true
		}
	}
	return false
}

// GeneralQuestions returns the recodable questions that precede the party
// sections of the table. The walk stops before the first entry mentioning
// either party and before the first entry without a label; metadata columns
// and free-text questions inside that region are skipped.
func GeneralQuestions(table Table, name1, name2 string) []Entry {
	out := []Entry{}
	for _, e := range table {
		if e.Label == nil || mentionsParty(e, name1, name2) {
			break
		}
		if IsMetadataColumn(e.Column) || IsFreeText(*e.Label) {
			continue
		}
		out = append(out, e)
	}
	return out
}
