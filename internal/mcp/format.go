package mcp

import (
	"fmt"
	"strings"

	"github.com/a3tai/mcp-highlight-recoder/internal/labels"
	"github.com/a3tai/mcp-highlight-recoder/internal/pdf"
	"github.com/a3tai/mcp-highlight-recoder/internal/pipeline"
	"github.com/a3tai/mcp-highlight-recoder/internal/recode"
	"github.com/a3tai/mcp-highlight-recoder/internal/workspace"
)

func formatFiles(dir, query string, files []workspace.File) string {
	if len(files) == 0 {
		text := fmt.Sprintf("No documents or label tables found in directory: %s", dir)
		if query != "" {
			text += fmt.Sprintf(" (searched for: %s)", query)
		}
		return text
	}

	text := fmt.Sprintf("Found %d file(s) in directory: %s\n", len(files), dir)
	if query != "" {
		text += fmt.Sprintf("Search query: %s\n", query)
	}
	text += "\nFiles:\n"
	for i, f := range files {
		text += fmt.Sprintf("%d. %s [%s]\n", i+1, f.Name, f.Kind)
		text += fmt.Sprintf("   Path: %s\n", f.Path)
		text += fmt.Sprintf("   Size: %d bytes, Modified: %s\n", f.Size, f.ModifiedTime)
	}
	return text
}

func formatValidation(result *pdf.ValidationResult, converted bool) string {
	if !result.Valid {
		return fmt.Sprintf("Document validation failed for %s: %s", result.Name, result.Message)
	}
	text := fmt.Sprintf("Document %s is valid and readable\n", result.Name)
	text += fmt.Sprintf("Pages: %d\nSize: %d bytes\n", result.Pages, result.Size)
	if converted {
		text += "Converted from DOCX\n"
	}
	return text
}

func formatPages(name, search string, pages []int) string {
	if len(pages) == 0 {
		return fmt.Sprintf("No pages of %s contain %q", name, search)
	}
	return fmt.Sprintf("Pages of %s containing %q (0-indexed): %s", name, search, joinInts(pages))
}

func formatStatements(b *strings.Builder, statements []pdf.Statement) {
	for i, s := range statements {
		fmt.Fprintf(b, "%d. [page %d] %s\n", i+1, s.Page, s.Text)
	}
}

func formatExtraction(name string, pages []int, ex *pdf.Extraction) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Highlighted statements from %s", name)
	if len(pages) > 0 {
		fmt.Fprintf(&b, " (pages %s)", joinInts(pages))
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Pages scanned: %d, highlight regions: %d, highlighted spans: %d, lines: %d\n\n",
		ex.Pages, ex.Regions, ex.Spans, len(ex.Lines))

	if len(ex.Statements) == 0 {
		b.WriteString("No highlighted text found.\n")
		return b.String()
	}
	formatStatements(&b, ex.Statements)
	return b.String()
}

func formatAssociations(b *strings.Builder, title string, list []labels.Association) {
	fmt.Fprintf(b, "%s (%d):\n", title, len(list))
	for _, a := range list {
		party := a.Party
		if party == "" {
			party = "neutral"
		}
		if a.Column != "" {
			fmt.Fprintf(b, "  • [%s] %s → %s\n", party, a.Statement, a.Column)
		} else {
			fmt.Fprintf(b, "  • [%s] %s\n", party, a.Statement)
		}
	}
}

func formatMatches(result labels.Result) string {
	var b strings.Builder
	formatAssociations(&b, "Matched", result.Matched)
	b.WriteString("\n")
	formatAssociations(&b, "Unmatched", result.Unmatched)
	return b.String()
}

func formatEntries(title string, entries []labels.Entry) string {
	if len(entries) == 0 {
		return title + ": none found"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%d):\n", title, len(entries))
	for _, e := range entries {
		fmt.Fprintf(&b, "  • %s: %s", e.Column, e.LabelText())
		if len(e.Values) > 0 {
			fmt.Fprintf(&b, " (values: %s)", joinFloats(e.Values))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func formatScript(script recode.Script) string {
	var b strings.Builder
	if script.Text == "" {
		b.WriteString("No recode blocks were generated.\n\n")
	} else {
		b.WriteString(script.Text)
	}
	formatAssociations(&b, "Recoded", script.Matched)
	if len(script.Unmatched) > 0 {
		b.WriteString("\n")
		formatAssociations(&b, "Not recoded (no column or no usable ranges)", script.Unmatched)
	}
	return b.String()
}

func formatReport(name string, r *pipeline.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Case analysis %s for %s: %s v %s\n\n", r.ID, name, r.Case.Name1, r.Case.Name2)

	for _, w := range r.Warnings {
		fmt.Fprintf(&b, "⚠️  %s\n", w)
	}
	if len(r.Warnings) > 0 {
		b.WriteString("\n")
	}

	for _, side := range []struct {
		name       string
		pages      []int
		statements []pdf.Statement
	}{
		{r.Case.Name1, r.Pages1, r.Statements1},
		{r.Case.Name2, r.Pages2, r.Statements2},
	} {
		fmt.Fprintf(&b, "%s: %d statement(s) from pages %s\n", side.name, len(side.statements), joinInts(side.pages))
		formatStatements(&b, side.statements)
		b.WriteString("\n")
	}

	b.WriteString(formatMatches(r.Matches))
	b.WriteString("\n")
	b.WriteString(formatEntries("General questions", r.General))
	b.WriteString("\n\nRecode script:\n")
	b.WriteString(formatScript(r.Script))
	return b.String()
}

func formatServerInfo(info *ServerInfo) string {
	text := fmt.Sprintf("📋 %s v%s - Server Information\n", info.ServerName, info.Version)
	text += fmt.Sprintf("📁 Default Directory: %s\n", info.DefaultDirectory)
	text += fmt.Sprintf("📏 Max File Size: %d MB, Max Pages: %d\n", info.MaxFileSize/(1024*1024), info.MaxPages)
	text += fmt.Sprintf("📐 Line merge threshold: %g pt\n", info.YThreshold)
	if info.Party1 != "" {
		text += fmt.Sprintf("⚖️  Default parties: %s v %s\n", info.Party1, info.Party2)
	}
	text += fmt.Sprintf("📄 DOCX conversion available: %t\n", info.ConverterAvailable)
	text += fmt.Sprintf("🗃️  Extraction cache: %d entries, %d hits, %d misses\n\n",
		info.Cache.Size, info.Cache.Hits, info.Cache.Misses)

	if len(info.DirectoryContents) > 0 {
		text += "📂 Directory Contents:\n"
		for i, f := range info.DirectoryContents {
			if i >= maxListedFiles {
				text += "   ... more files available, use list_documents\n"
				break
			}
			text += fmt.Sprintf("   %d. %s [%s] (%d bytes)\n", i+1, f.Name, f.Kind, f.Size)
		}
		text += "\n"
	} else {
		text += "📂 Directory Contents: no documents or label tables found\n\n"
	}

	text += "🛠️  Available Tools:\n"
	for _, tool := range info.AvailableTools {
		text += fmt.Sprintf("\n• %s\n", tool.Name)
		text += fmt.Sprintf("  Parameters: %s\n", tool.Parameters)
	}

	text += "\n" + info.UsageGuidance
	return text
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, ", ")
}

func joinFloats(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, ", ")
}
