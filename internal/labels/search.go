package labels

import (
	"strings"
	"unicode/utf8"
)

// partyColumnPrefixes are the conventional column stems of party-specific items.
var partyColumnPrefixes = []string{"plaaffs", "defaffs", "plaintiff", "defense"}

// Search returns the entries whose column or label contains query, ignoring case.
// Queries shorter than two characters return nothing.
func Search(table Table, query string) []Entry {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < 2 {
		return []Entry{}
	}

	out := []Entry{}
	for _, e := range table {
		if containsFold(e.Column, query) || containsFold(e.LabelText(), query) {
			out = append(out, e)
		}
	}
	return out
}

// IsPartyQuestion reports whether the entry belongs to one of the party sections,
// either by naming a party or by carrying a conventional party column prefix.
func IsPartyQuestion(e Entry, name1, name2 string) bool {
	if mentionsParty(e, name1, name2) {
		return true
	}
	col := strings.ToLower(e.Column)
	for _, p := range partyColumnPrefixes {
		if strings.HasPrefix(col, p) {
			return true
		}
	}
	return false
}
