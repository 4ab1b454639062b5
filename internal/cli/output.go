package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/a3tai/mcp-highlight-recoder/internal/labels"
	"github.com/a3tai/mcp-highlight-recoder/internal/pdf"
	"github.com/a3tai/mcp-highlight-recoder/internal/pipeline"
	"github.com/a3tai/mcp-highlight-recoder/internal/recode"
)

// emit prints v as indented JSON with --json, otherwise runs text.
func (a *app) emit(cmd *cobra.Command, v any, text func(p *printer)) error {
	out := cmd.OutOrStdout()
	if a.jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	p := &printer{w: out}
	text(p)
	return p.err
}

// printer writes plain-text results and remembers the first write error.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) line(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format+"\n", args...)
}

func (p *printer) pages(pages []int) {
	if len(pages) == 0 {
		p.line("No matching pages")
		return
	}
	parts := make([]string, len(pages))
	for i, n := range pages {
		parts[i] = fmt.Sprint(n)
	}
	p.line("%s", strings.Join(parts, ", "))
}

func (p *printer) statements(statements []pdf.Statement) {
	if len(statements) == 0 {
		p.line("No highlighted text found")
		return
	}
	for i, s := range statements {
		p.line("%3d. [p%d] %s", i+1, s.Page, s.Text)
	}
}

func (p *printer) associations(title string, list []labels.Association) {
	p.line("%s (%d):", title, len(list))
	for _, a := range list {
		party := a.Party
		if party == "" {
			party = "neutral"
		}
		column := a.Column
		if column == "" {
			column = "-"
		}
		p.line("  %-10s %-12s %s", party, column, a.Statement)
	}
}

func (p *printer) entries(entries []labels.Entry) {
	if len(entries) == 0 {
		p.line("No questions found")
		return
	}
	for _, e := range entries {
		p.line("  %-12s %s", e.Column, e.LabelText())
	}
}

func (p *printer) script(script recode.Script) {
	if script.Text != "" && p.err == nil {
		_, p.err = io.WriteString(p.w, script.Text)
	}
	if len(script.Unmatched) > 0 {
		p.associations("Not recoded", script.Unmatched)
	}
}

func (p *printer) report(r *pipeline.Report) {
	p.line("Report %s: %s v %s", r.ID, r.Case.Name1, r.Case.Name2)
	for _, w := range r.Warnings {
		p.line("warning: %s", w)
	}
	p.line("")
	p.line("%s statements:", r.Case.Name1)
	p.statements(r.Statements1)
	p.line("")
	p.line("%s statements:", r.Case.Name2)
	p.statements(r.Statements2)
	p.line("")
	p.line("General questions:")
	p.entries(r.General)
	p.line("")
	p.script(r.Script)
}
