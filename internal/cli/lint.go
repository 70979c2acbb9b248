package cli

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/yaklabco/texhelper/internal/logging"
	"github.com/yaklabco/texhelper/pkg/config"
	"github.com/yaklabco/texhelper/pkg/fsutil"
	"github.com/yaklabco/texhelper/pkg/lint"
	_ "github.com/yaklabco/texhelper/pkg/lint/rules" // Register built-in rules
	"github.com/yaklabco/texhelper/pkg/parser/latex"
	"github.com/yaklabco/texhelper/pkg/reporter"
	"github.com/yaklabco/texhelper/pkg/runner"
)

type lintFlags struct {
	format       string
	ignore       []string
	enable       []string
	disable      []string
	fixRules     []string
	strict       bool
	noContext    bool
	compact      bool
	ruleFormat   string
	summaryOrder string
}

func newLintCommand(globals *globalFlags) *cobra.Command {
	var cfg config.Config
	flags := &lintFlags{}

	cmd := &cobra.Command{
		Use:   "lint [paths...]",
		Short: "Lint LaTeX files",
		Long:  lintLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(cmd, globals, args, &cfg, flags)
		},
	}

	addLintFlags(cmd, &cfg, flags)

	return cmd
}

const lintLongDescription = `Lint LaTeX files for structural and stylistic issues.

By default, lints all .tex, .ltx, .sty and .cls files in the current
directory and subdirectories; hidden directories such as .build are skipped.
Specify paths to lint specific files or directories.

Syntax errors are reported by the syntax-error rule (TEX001) with the same
position and caret as the parse command.

Examples:
  texhelper lint                    # Lint current directory
  texhelper lint chapters/          # Lint a directory
  texhelper lint main.tex           # Lint a single file
  texhelper lint --fix              # Lint and auto-fix issues
  texhelper lint --fix --dry-run    # Show fixes without applying
  texhelper lint --format json      # Output as JSON for CI
  texhelper lint --strict           # Fail on warnings too`

func runLint(cmd *cobra.Command, globals *globalFlags, args []string, cfg *config.Config, flags *lintFlags) error {
	ctx := cmd.Context()
	logger := logging.FromContext(ctx)

	format, err := reporter.ParseFormat(flags.format)
	if err != nil {
		return usageError(err)
	}
	summaryOrder := reporter.SummaryOrder(flags.summaryOrder)
	if !summaryOrder.IsValid() {
		return usageError(fmt.Errorf("invalid summary order %q: must be rules or files", flags.summaryOrder))
	}

	// Only values explicitly set on the command line override the config.
	cfg.Output = format
	if cmd.Flags().Changed("rule-format") {
		cfg.RuleFormat = config.RuleFormat(flags.ruleFormat)
	}
	cfg.Ignore = flags.ignore
	cfg.EnableRules = flags.enable
	cfg.DisableRules = flags.disable
	cfg.FixRules = flags.fixRules

	workDir, err := workingDir()
	if err != nil {
		return err
	}

	finalCfg, err := loadConfig(cmd, globals, workDir, cfg)
	if err != nil {
		return err
	}

	logger.Debug("configuration loaded",
		logging.FieldFix, finalCfg.Fix,
		logging.FieldDryRun, finalCfg.DryRun,
		logging.FieldJobs, finalCfg.Jobs,
	)

	parser := latex.New(latex.Options{MaxDepth: finalCfg.Parser.MaxDepth})
	engine := lint.NewEngine(parser, lint.DefaultRegistry)
	pipeline := lint.NewPipeline(engine, fsutil.OS())
	lintRunner := runner.New(pipeline)

	runOpts := runner.Options{
		Paths:        args,
		WorkingDir:   workDir,
		Extensions:   runner.DefaultExtensions(),
		ExcludeGlobs: finalCfg.Ignore,
		Jobs:         finalCfg.Jobs,
		Config:       finalCfg,
	}

	logger.Debug("starting lint run",
		logging.FieldPaths, runOpts.Paths,
		logging.FieldWorkingDir, runOpts.WorkingDir,
		logging.FieldJobs, runOpts.Jobs,
	)

	result, err := lintRunner.Run(ctx, runOpts)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return usageError(fmt.Errorf("lint: %w", err))
	case err != nil:
		return fmt.Errorf("lint run failed: %w", err)
	}

	ruleFormat := finalCfg.RuleFormat
	if ruleFormat == "" {
		ruleFormat = config.RuleFormatName
	}

	rep, err := reporter.New(reporter.Options{
		Writer:       cmd.OutOrStdout(),
		Format:       format,
		Color:        globals.color,
		ShowContext:  !flags.noContext,
		ShowSummary:  true,
		GroupByFile:  true,
		Compact:      flags.compact,
		RuleFormat:   ruleFormat,
		SummaryOrder: summaryOrder,
		WorkingDir:   workDir,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}

	if _, err := rep.Report(ctx, result); err != nil {
		return fmt.Errorf("report results: %w", err)
	}

	logger.Debug("lint finished",
		logging.FieldFilesDiscovered, result.Stats.FilesDiscovered,
		logging.FieldFilesProcessed, result.Stats.FilesProcessed,
		logging.FieldFilesWithIssues, result.Stats.FilesWithIssues,
		logging.FieldFilesModified, result.Stats.FilesModified,
		logging.FieldDiagnosticsTotal, result.Stats.DiagnosticsTotal,
	)

	if n := result.Stats.RuleErrors; n > 0 {
		logger.Warn("some rules failed and were skipped; run with --debug for details", logging.FieldErrors, n)
	}
	if n := result.Stats.FilesErrored; n > 0 {
		return fmt.Errorf("%d of %d files could not be linted", n, result.Stats.FilesDiscovered)
	}
	if ExitCodeFromResult(result, flags.strict) != ExitSuccess {
		return ErrLintIssuesFound
	}
	return nil
}

func addLintFlags(cmd *cobra.Command, cfg *config.Config, flags *lintFlags) {
	cmd.Flags().BoolVar(&cfg.Fix, "fix", false, "automatically fix issues")
	cmd.Flags().BoolVar(&cfg.DryRun, "dry-run", false, "show fixes without applying them")
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json, diff, summary")
	cmd.Flags().IntVar(&cfg.Jobs, "jobs", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().StringSliceVar(&flags.enable, "enable", nil, "rule IDs or names to enable")
	cmd.Flags().StringSliceVar(&flags.disable, "disable", nil, "rule IDs or names to disable")
	cmd.Flags().StringSliceVar(&flags.fixRules, "fix-rules", nil, "limit auto-fix to specific rules")
	cmd.Flags().BoolVar(&cfg.NoBackups, "no-backups", false, "disable backup creation when fixing")
	cmd.Flags().BoolVar(&flags.strict, "strict", false, "treat warnings and infos as failures for the exit code")
	cmd.Flags().BoolVar(&flags.noContext, "no-context", false, "hide source line context in output")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "use compact output format")
	cmd.Flags().StringVar(&flags.ruleFormat, "rule-format", "name",
		"rule identifier format in output: name, id, or combined")
	cmd.Flags().StringVar(&flags.summaryOrder, "summary-order", "rules",
		"order of tables in summary output: rules, files")
}
