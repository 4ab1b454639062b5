package pdf

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	// A decimal statistic followed by one or more percentages, e.g. "4.5 45% 30%".
	statisticRun   = regexp.MustCompile(`\d+\.\d+\s+(?:\d+\s*%\s*)+`)
	leadingPercent = regexp.MustCompile(`^\d+\s*%\s*`)
	percentToken   = regexp.MustCompile(`\d+\s*%`)
)

// Statement is a sentence of highlighted text and the 1-based page it starts on.
type Statement struct {
	Page int    `json:"page"`
	Text string `json:"text"`
}

// Texts returns the statement strings in order.
func Texts(statements []Statement) []string {
	out := make([]string, len(statements))
	for i, s := range statements {
		out[i] = s.Text
	}
	return out
}

// IsNumericNoise reports whether text is nothing but digits, percentages and
// whitespace, the residue of highlighted survey tables.
func IsNumericNoise(text string) bool {
	rest := percentToken.ReplaceAllString(text, "")
	for _, r := range rest {
		if !unicode.IsDigit(r) && !unicode.IsSpace(r) && r != '%' {
			return false
		}
	}
	return true
}

// splitStatements joins the lines into one text, strips statistic residue and
// splits the result into period-terminated sentences. pages tracks the source
// page of every byte so each sentence keeps the page it begins on.
func splitStatements(lines []Line) []Statement {
	if len(lines) == 0 {
		return nil
	}

	var b strings.Builder
	pages := make([]int, 0)
	for i, l := range lines {
		if i > 0 {
			b.WriteByte(' ')
			pages = append(pages, l.Page)
		}
		b.WriteString(l.Text)
		for range len(l.Text) {
			pages = append(pages, l.Page)
		}
	}

	text := b.String()
	text, pages = removeMatches(statisticRun, text, pages)
	text, pages = removeMatches(leadingPercent, text, pages)

	var out []Statement
	start := 0
	for i := 0; i <= len(text); i++ {
		if i < len(text) && text[i] != '.' {
			continue
		}
		frag := text[start:i]
		if trimmed := strings.TrimSpace(frag); trimmed != "" {
			lead := len(frag) - len(strings.TrimLeftFunc(frag, unicode.IsSpace))
			out = append(out, Statement{Page: pages[start+lead], Text: trimmed + "."})
		}
		start = i + 1
	}
	return out
}

// removeMatches deletes every match of re from text and the parallel page map.
func removeMatches(re *regexp.Regexp, text string, pages []int) (string, []int) {
	locs := re.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return text, pages
	}

	var b strings.Builder
	kept := make([]int, 0, len(pages))
	prev := 0
	for _, loc := range locs {
		b.WriteString(text[prev:loc[0]])
		kept = append(kept, pages[prev:loc[0]]...)
		prev = loc[1]
	}
	b.WriteString(text[prev:])
	kept = append(kept, pages[prev:]...)
	return b.String(), kept
}
