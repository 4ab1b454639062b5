package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/a3tai/mcp-highlight-recoder/internal/labels"
	"github.com/a3tai/mcp-highlight-recoder/internal/pdf"
	"github.com/a3tai/mcp-highlight-recoder/internal/pipeline"
	"github.com/a3tai/mcp-highlight-recoder/internal/recode"
)

func (a *app) pagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pages <document> <text>...",
		Short: "List the 0-indexed pages containing a phrase",
		Example: `  # Pages of the first party's argument section
  recoder pages case.pdf Smith Arguments`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.newService()
			if err != nil {
				return err
			}
			defer svc.Close()

			doc, err := svc.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			text := strings.Join(args[1:], " ")
			pages, err := svc.FindPagesWithText(doc.Data, text)
			if err != nil {
				return err
			}
			return a.emit(cmd, map[string]any{"document": doc.Name, "text": text, "pages": pages}, func(p *printer) {
				p.pages(pages)
			})
		},
	}
}

func (a *app) extractCmd() *cobra.Command {
	var pages []int

	cmd := &cobra.Command{
		Use:   "extract <document>",
		Short: "Extract highlighted statements",
		Example: `  recoder extract case.pdf
  recoder extract case.pdf --pages 3,4 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.newService()
			if err != nil {
				return err
			}
			defer svc.Close()

			doc, err := svc.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			data := doc.Data
			if len(pages) > 0 {
				if data, err = svc.SplitByPages(data, pages); err != nil {
					return err
				}
			}

			ex, err := svc.Extract(data)
			a.progress.finish()
			if err != nil {
				return err
			}
			return a.emit(cmd, ex, func(p *printer) {
				p.statements(ex.Statements)
			})
		},
	}
	cmd.Flags().IntSliceVar(&pages, "pages", nil, "0-indexed pages to restrict extraction to")
	return cmd
}

func (a *app) splitCmd() *cobra.Command {
	var (
		pages  []int
		output string
	)

	cmd := &cobra.Command{
		Use:     "split <document>",
		Short:   "Copy selected pages into a new PDF",
		Example: `  recoder split case.pdf --pages 3,4 --output smith.pdf`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.newService()
			if err != nil {
				return err
			}
			defer svc.Close()

			doc, err := svc.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			section, err := svc.SplitByPages(doc.Data, pages)
			if err != nil {
				return err
			}
			written, err := svc.WriteDocument(output, section)
			if err != nil {
				return err
			}
			count, err := pdf.PageCount(section)
			if err != nil {
				return err
			}
			return a.emit(cmd, map[string]any{"path": written, "pages": count, "size": len(section)}, func(p *printer) {
				p.line("Wrote %d page(s) to %s", count, written)
			})
		},
	}
	cmd.Flags().IntSliceVar(&pages, "pages", nil, "0-indexed pages to keep")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output .pdf path inside --dir")
	_ = cmd.MarkFlagRequired("pages")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

// statementFlags are the statement lists accepted by match and recode.
type statementFlags struct {
	first  []string
	second []string
}

func (f *statementFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&f.first, "statement1", nil, "statement of the first party (repeatable)")
	cmd.Flags().StringArrayVar(&f.second, "statement2", nil, "statement of the second party (repeatable)")
}

func (a *app) matchCmd() *cobra.Command {
	var statements statementFlags

	cmd := &cobra.Command{
		Use:   "match <labels>",
		Short: "Match statements to label table columns",
		Example: `  recoder match labels.yaml --party1 Smith --party2 Jones \
    --statement1 "Smith acted reasonably." --statement2 "Jones ignored the warnings."`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, c, err := a.tableAndCase(args[0])
			if err != nil {
				return err
			}
			result := labels.NewMatcher(table).MatchAll(c.Name1, statements.first, c.Name2, statements.second)
			return a.emit(cmd, result, func(p *printer) {
				p.associations("Matched", result.Matched)
				p.associations("Unmatched", result.Unmatched)
			})
		},
	}
	statements.register(cmd)
	return cmd
}

func (a *app) generalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "general <labels>",
		Short: "List the general questions before the party sections",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, c, err := a.tableAndCase(args[0])
			if err != nil {
				return err
			}
			entries := labels.GeneralQuestions(table, c.Name1, c.Name2)
			return a.emit(cmd, entries, func(p *printer) {
				p.entries(entries)
			})
		},
	}
}

func (a *app) searchCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "search <labels> <query>...",
		Short:   "Find questions whose column or label contains a phrase",
		Example: `  recoder search labels.yaml warnings`,
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.newService()
			if err != nil {
				return err
			}
			defer svc.Close()

			table, err := svc.LoadLabels(args[0])
			if err != nil {
				return err
			}
			entries := labels.Search(table, strings.Join(args[1:], " "))
			return a.emit(cmd, entries, func(p *printer) {
				p.entries(entries)
			})
		},
	}
}

// recodeFlags are the analyst choices accepted by recode and analyze.
type recodeFlags struct {
	neutral   []string
	overrides string
	output    string
}

func (f *recodeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&f.neutral, "neutral", nil, "general question columns to recode as neutral items")
	cmd.Flags().StringVar(&f.overrides, "overrides", "", "YAML file of recode settings keyed by statement text")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "also write the syntax to this file")
}

// loadOverrides reads the overrides file, if any.
func (f *recodeFlags) loadOverrides() (map[string]recode.Settings, error) {
	if f.overrides == "" {
		return nil, nil
	}
	data, err := os.ReadFile(f.overrides)
	if err != nil {
		return nil, fmt.Errorf("failed to read overrides: %w", err)
	}
	var overrides map[string]recode.Settings
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("failed to parse overrides %s: %w", f.overrides, err)
	}
	for stmt, settings := range overrides {
		if err := settings.Validate(); err != nil {
			return nil, fmt.Errorf("override for %q: %w", stmt, err)
		}
	}
	return overrides, nil
}

func (f *recodeFlags) writeScript(script recode.Script) error {
	if f.output == "" {
		return nil
	}
	if err := os.WriteFile(f.output, []byte(script.Text), 0o644); err != nil {
		return fmt.Errorf("failed to write syntax: %w", err)
	}
	return nil
}

func (a *app) recodeCmd() *cobra.Command {
	var (
		statements statementFlags
		flags      recodeFlags
	)

	cmd := &cobra.Command{
		Use:   "recode <labels>",
		Short: "Generate SPSS recode syntax for matched statements",
		Example: `  recoder recode labels.yaml --party1 Smith --party2 Jones \
    --statement1 "Smith acted reasonably." --neutral AGE --output case.sps`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides, err := flags.loadOverrides()
			if err != nil {
				return err
			}
			table, c, err := a.tableAndCase(args[0])
			if err != nil {
				return err
			}

			script := recode.NewGenerator(c.Name1, c.Name2, labels.NewMatcher(table)).Generate(recode.Request{
				Statements1: statements.first,
				Statements2: statements.second,
				Neutral:     pipeline.NeutralSelections(table, flags.neutral),
				Overrides:   overrides,
			})
			if err := flags.writeScript(script); err != nil {
				return err
			}
			return a.emit(cmd, script, func(p *printer) {
				p.script(script)
			})
		},
	}
	statements.register(cmd)
	flags.register(cmd)
	return cmd
}

func (a *app) analyzeCmd() *cobra.Command {
	var flags recodeFlags

	cmd := &cobra.Command{
		Use:   "analyze <document> <labels>",
		Short: "Run the whole pipeline on a case document",
		Example: `  recoder analyze case.pdf labels.yaml --party1 Smith --party2 Jones --output case.sps
  recoder analyze case.docx labels.csv --party1 Smith --party2 Jones --json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides, err := flags.loadOverrides()
			if err != nil {
				return err
			}
			c, err := a.parties()
			if err != nil {
				return err
			}

			svc, err := a.newService()
			if err != nil {
				return err
			}
			defer svc.Close()

			table, err := svc.LoadLabels(args[1])
			if err != nil {
				return err
			}
			doc, err := svc.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			report, err := svc.Analyze(cmd.Context(), doc.Data, table, c, pipeline.Options{
				Overrides: overrides,
				Neutral:   pipeline.NeutralSelections(table, flags.neutral),
			})
			a.progress.finish()
			if err != nil {
				return err
			}
			if err := flags.writeScript(report.Script); err != nil {
				return err
			}
			return a.emit(cmd, report, func(p *printer) {
				p.report(report)
			})
		},
	}
	flags.register(cmd)
	return cmd
}

// tableAndCase loads a label table from --dir and resolves the parties.
func (a *app) tableAndCase(path string) (labels.Table, pipeline.Case, error) {
	c, err := a.parties()
	if err != nil {
		return nil, c, err
	}
	svc, err := a.newService()
	if err != nil {
		return nil, c, err
	}
	defer svc.Close()

	table, err := svc.LoadLabels(path)
	if err != nil {
		return nil, c, err
	}
	return table, c, nil
}
