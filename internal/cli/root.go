// Package cli implements the recoder command line tool, which runs the
// highlight recoding pipeline on local files without an MCP client.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/a3tai/mcp-highlight-recoder/internal/config"
	"github.com/a3tai/mcp-highlight-recoder/internal/logging"
	"github.com/a3tai/mcp-highlight-recoder/internal/pipeline"
)

// app carries state shared by the subcommands of one invocation.
type app struct {
	v        *viper.Viper
	cfg      *config.Config
	jsonOut  bool
	quiet    bool
	progress *pageProgress
}

// NewRootCommand builds the recoder command tree.
func NewRootCommand() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:   "recoder",
		Short: "Extract highlighted case arguments and write SPSS recode syntax",
		Long: `Recoder reads a case document whose argument sections are marked with
"<party> Arguments" headings, extracts the yellow-highlighted statements of each
party, matches them to the questions of a survey label table and generates SPSS
syntax that recodes the answers onto a two-party axis.

Files are resolved against --dir, which defaults to the current directory.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.initConfig,
	}

	config.DefineDocumentFlags(root.PersistentFlags(), config.DefaultConfig())
	root.PersistentFlags().BoolVar(&a.jsonOut, "json", false, "print results as JSON")
	root.PersistentFlags().BoolVarP(&a.quiet, "quiet", "q", false, "hide progress bars")

	root.AddCommand(
		a.pagesCmd(),
		a.extractCmd(),
		a.splitCmd(),
		a.matchCmd(),
		a.generalCmd(),
		a.searchCmd(),
		a.recodeCmd(),
		a.analyzeCmd(),
		versionCmd(),
	)
	return root
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// initConfig reads flags, the config file and RECODER_* variables into a.cfg.
func (a *app) initConfig(cmd *cobra.Command, _ []string) error {
	if err := a.v.BindPFlags(cmd.Root().PersistentFlags()); err != nil {
		return fmt.Errorf("failed to bind flags: %w", err)
	}
	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg

	logging.Setup(cmd.ErrOrStderr(), cfg.LogLevel, false)
	a.progress = newPageProgress(cmd.ErrOrStderr(), a.quiet)
	return nil
}

func (a *app) newService() (*pipeline.Service, error) {
	return pipeline.NewService(pipeline.Config{
		Directory:     a.cfg.DocumentDirectory,
		MaxFileSize:   a.cfg.MaxFileSize,
		MaxPages:      a.cfg.MaxPages,
		YThreshold:    a.cfg.YThreshold,
		CacheSize:     a.cfg.CacheSize,
		CacheTTL:      a.cfg.CacheTTL,
		ConverterPath: a.cfg.ConverterPath,
		OnPage:        a.progress.onPage,
	})
}

// parties returns the case named by --party1 and --party2.
func (a *app) parties() (pipeline.Case, error) {
	c, err := pipeline.ResolveCase(a.cfg.Party1, a.cfg.Party2, pipeline.Case{})
	if err != nil {
		return c, fmt.Errorf("%w (set --party1 and --party2)", err)
	}
	return c, nil
}
