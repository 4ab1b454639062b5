// Package pipeline runs the full recoding workflow for one case: locate each
// party's argument pages, extract their highlighted statements, match them to
// survey columns and generate the recode script.
package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// HeadingSuffix follows a party name in the heading of its argument section.
const HeadingSuffix = " Arguments"

// ErrInvalidCase is wrapped by every Case validation failure.
var ErrInvalidCase = errors.New("invalid case")

// Case names the two opposing parties.
type Case struct {
	Name1 string `json:"name1"`
	Name2 string `json:"name2"`
}

// Heading1 is the text that marks the first party's argument pages.
func (c Case) Heading1() string { return strings.TrimSpace(c.Name1) + HeadingSuffix }

// Heading2 is the text that marks the second party's argument pages.
func (c Case) Heading2() string { return strings.TrimSpace(c.Name2) + HeadingSuffix }

// Validate requires two non-empty, distinct party names.
func (c Case) Validate() error {
	n1, n2 := strings.TrimSpace(c.Name1), strings.TrimSpace(c.Name2)
	if n1 == "" || n2 == "" {
		return fmt.Errorf("%w: both party names are required", ErrInvalidCase)
	}
	fold := cases.Fold()
	if fold.String(n1) == fold.String(n2) {
		return fmt.Errorf("%w: party names must differ: %q", ErrInvalidCase, n1)
	}
	return nil
}

// ResolveCase builds a case from request names, taking each missing name from
// defaults, and validates the result.
func ResolveCase(name1, name2 string, defaults Case) (Case, error) {
	c := Case{Name1: strings.TrimSpace(name1), Name2: strings.TrimSpace(name2)}
	if c.Name1 == "" {
		c.Name1 = defaults.Name1
	}
	if c.Name2 == "" {
		c.Name2 = defaults.Name2
	}
	return c, c.Validate()
}
