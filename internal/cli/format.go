package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/texhelper/internal/logging"
	"github.com/yaklabco/texhelper/internal/ui/pretty"
	"github.com/yaklabco/texhelper/pkg/config"
	"github.com/yaklabco/texhelper/pkg/fix"
	"github.com/yaklabco/texhelper/pkg/format"
	"github.com/yaklabco/texhelper/pkg/fsutil"
	"github.com/yaklabco/texhelper/pkg/lint"
	"github.com/yaklabco/texhelper/pkg/parser/latex"
)

// formattedSuffix is inserted before the extension of the default output.
const formattedSuffix = ".formatted"

type formatFlags struct {
	inPlace   bool
	outfile   string
	check     bool
	diff      bool
	noBackups bool
	indent    int
	useTabs   bool
}

func newFormatCommand(globals *globalFlags) *cobra.Command {
	flags := &formatFlags{}

	cmd := &cobra.Command{
		Use:   "format TARGET...",
		Short: "Re-indent and normalise whitespace in LaTeX files",
		Long: `Re-indent LaTeX files by environment depth and normalise their whitespace.

Trailing whitespace is removed, runs of spaces outside comments collapse to
one, runs of blank lines are capped (format.max_blank_lines) and every line is
indented to the depth of its enclosing environments. Verbatim environments are
copied unchanged. Files with syntax errors are reported and left alone.

By default TARGET.tex is written to TARGET.formatted.tex.

Examples:
  texhelper format paper.tex                 Write paper.formatted.tex
  texhelper format --in-place chapters/*.tex Rewrite files, keeping backups
  texhelper format --check paper.tex         Exit 1 if paper.tex would change
  texhelper format --diff paper.tex          Show what would change`,
		Args: usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFormat(cmd, globals, flags, args)
		},
	}

	cmd.Flags().BoolVarP(&flags.inPlace, "in-place", "i", false, "rewrite each TARGET, backing the original up first")
	cmd.Flags().StringVarP(&flags.outfile, "outfile", "o", "", "write the result to this file (single TARGET only)")
	cmd.Flags().BoolVar(&flags.check, "check", false, "only report files that would change")
	cmd.Flags().BoolVar(&flags.diff, "diff", false, "print a unified diff instead of writing")
	cmd.Flags().BoolVar(&flags.noBackups, "no-backups", false, "do not back up files rewritten in place")
	cmd.Flags().IntVar(&flags.indent, "indent", 0, "spaces per environment level (default from config, 2)")
	cmd.Flags().BoolVar(&flags.useTabs, "tabs", false, "indent with tabs")

	return cmd
}

// validate rejects combinations of output modes.
func (f *formatFlags) validate(targets int) error {
	modes := 0
	for _, set := range []bool{f.inPlace, f.outfile != "", f.check, f.diff} {
		if set {
			modes++
		}
	}
	if modes > 1 {
		return usageError(errors.New("--in-place, --outfile, --check and --diff are mutually exclusive"))
	}
	if f.outfile != "" && targets != 1 {
		return usageError(errors.New("--outfile needs exactly one TARGET"))
	}
	if f.indent < 0 {
		return usageError(errors.New("--indent must not be negative"))
	}
	return nil
}

// formatter carries the state shared by every target of one run.
type formatter struct {
	flags   *formatFlags
	cfg     *config.Config
	parser  *latex.Parser
	fs      *fsutil.FS
	styles  *pretty.Styles
	out     io.Writer
	errOut  io.Writer
	workDir string
}

func runFormat(cmd *cobra.Command, globals *globalFlags, flags *formatFlags, args []string) error {
	if err := flags.validate(len(args)); err != nil {
		return err
	}

	workDir, err := workingDir()
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd, globals, workDir, &config.Config{
		Format:    config.FormatConfig{IndentWidth: flags.indent, UseTabs: flags.useTabs},
		NoBackups: flags.noBackups,
	})
	if err != nil {
		return err
	}

	f := &formatter{
		flags:   flags,
		cfg:     cfg,
		parser:  latex.New(latex.Options{MaxDepth: cfg.Parser.MaxDepth}),
		fs:      fsutil.OS(),
		styles:  pretty.NewStyles(pretty.IsColorEnabled(globals.color, cmd.ErrOrStderr())),
		out:     cmd.OutOrStdout(),
		errOut:  cmd.ErrOrStderr(),
		workDir: workDir,
	}

	ctx := cmd.Context()
	var syntaxFailed, unformatted bool
	for _, target := range args {
		changed, err := f.formatFile(ctx, absFrom(workDir, target))
		switch {
		case errors.Is(err, format.ErrSyntax):
			syntaxFailed = true
		case err != nil:
			return err
		case changed && flags.check:
			unformatted = true
		}
	}

	var errs []error
	if syntaxFailed {
		errs = append(errs, ErrSyntaxErrors)
	}
	if unformatted {
		errs = append(errs, ErrNotFormatted)
	}
	return errors.Join(errs...)
}

// formatFile formats one file according to the output mode and reports
// whether formatting changes its content.
func (f *formatter) formatFile(ctx context.Context, path string) (bool, error) {
	logger := logging.FromContext(ctx)
	display := relPath(f.workDir, path)

	content, info, err := f.fs.ReadFile(ctx, path)
	if err != nil {
		return false, usageError(fmt.Errorf("read %s: %w", display, err))
	}

	snap, err := f.parser.Parse(ctx, display, content)
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", display, err)
	}
	if snap.HasErrors() {
		fmt.Fprint(f.errOut, f.styles.FormatSyntaxErrors(snap.Errors, latex.Source{Path: display, Text: string(content)}))
		return false, fmt.Errorf("%s: %w", display, format.ErrSyntax)
	}

	formatted, err := format.Format(snap, format.OptionsFromConfig(f.cfg.Format))
	if err != nil {
		return false, fmt.Errorf("format %s: %w", display, err)
	}
	changed := string(formatted) != string(content)

	switch {
	case f.flags.check:
		if changed {
			fmt.Fprintln(f.out, display)
		}
		return changed, nil

	case f.flags.diff:
		fmt.Fprint(f.out, fix.GenerateDiff(display, content, formatted).FullString())
		return changed, nil

	case f.flags.inPlace:
		return changed, f.writeInPlace(ctx, path, formatted, changed, info.Mode.Perm())
	}

	dest := f.flags.outfile
	if dest == "" {
		dest = formattedPath(path)
	}
	dest = absFrom(f.workDir, dest)
	if err := f.fs.WriteAtomic(ctx, dest, formatted, 0); err != nil {
		return changed, fmt.Errorf("write %s: %w", dest, err)
	}
	logger.Info("formatted", logging.FieldInput, display, logging.FieldOutput, relPath(f.workDir, dest))
	return changed, nil
}

func (f *formatter) writeInPlace(ctx context.Context, path string, formatted []byte, changed bool, mode os.FileMode) error {
	logger := logging.FromContext(ctx)
	display := relPath(f.workDir, path)

	if !changed {
		logger.Debug("already formatted", logging.FieldPath, display)
		return nil
	}

	backup := lint.BackupConfigFromConfig(f.cfg)
	created, err := f.fs.CreateBackup(ctx, path, backup)
	if err != nil {
		return fmt.Errorf("back up %s: %w", display, err)
	}
	if created {
		logger.Debug("created backup", logging.FieldPath, fsutil.BackupPath(path, backup.Mode))
	}

	if _, err := f.fs.WriteAtomicIfChanged(ctx, path, formatted, mode); err != nil {
		return fmt.Errorf("write %s: %w", display, err)
	}
	logger.Info("formatted", logging.FieldPath, display)
	return nil
}

// formattedPath returns the default output path: paper.tex becomes
// paper.formatted.tex.
func formattedPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + formattedSuffix + ext
}

// relPath shortens path relative to dir for display.
func relPath(dir, path string) string {
	rel, err := filepath.Rel(dir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}
