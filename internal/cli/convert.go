package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/texhelper/internal/logging"
	"github.com/yaklabco/texhelper/pkg/config"
	"github.com/yaklabco/texhelper/pkg/format"
	"github.com/yaklabco/texhelper/pkg/fsutil"
	"github.com/yaklabco/texhelper/pkg/mdconvert"
	"github.com/yaklabco/texhelper/pkg/parser/latex"
)

type convertFlags struct {
	output     string
	standalone bool
	docClass   string
	raw        bool
}

func newConvertCommand(globals *globalFlags) *cobra.Command {
	flags := &convertFlags{}

	cmd := &cobra.Command{
		Use:   "convert FILE.md",
		Short: "Convert a Markdown document to LaTeX",
		Long: `Convert a Markdown document (CommonMark with GitHub tables, strikethrough
and task lists) to LaTeX.

Headings become sectioning commands, code blocks become lstlisting
environments with a detected language, and $...$ / $$...$$ math is copied
unchanged. LaTeX special characters in text are escaped.

The result is written next to FILE.md with a .tex extension unless -o is
given; "-o -" writes to standard output. It is re-indented with the format
settings unless --raw is set. FILE "-" reads standard input.

Examples:
  texhelper convert notes.md                     Write notes.tex
  texhelper convert notes.md --standalone        Compilable document
  texhelper convert README.md -o - | less        Print the body`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, globals, flags, args[0])
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", `output file, "-" for stdout (default FILE.tex)`)
	cmd.Flags().BoolVar(&flags.standalone, "standalone", false, "wrap the body in a complete document")
	cmd.Flags().StringVar(&flags.docClass, "doc-class", "", "document class of a standalone document (default from config)")
	cmd.Flags().BoolVar(&flags.raw, "raw", false, "do not re-indent the output")

	return cmd
}

func runConvert(cmd *cobra.Command, globals *globalFlags, flags *convertFlags, file string) error {
	ctx := cmd.Context()
	logger := logging.FromContext(ctx)

	if file == stdinName && flags.output == "" {
		flags.output = stdinName
	}

	workDir, err := workingDir()
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd, globals, workDir, nil)
	if err != nil {
		return err
	}

	src, display, err := readSource(cmd, workDir, file)
	if err != nil {
		return err
	}

	docClass := flags.docClass
	if docClass == "" {
		docClass = cfg.Project.DocMode
	}

	out, err := mdconvert.New(mdconvert.Options{
		Standalone: flags.standalone,
		DocClass:   docClass,
	}).Convert(src)
	if errors.Is(err, mdconvert.ErrInvalidUTF8) {
		return usageError(fmt.Errorf("convert %s: %w", display, err))
	}
	if err != nil {
		return fmt.Errorf("convert %s: %w", display, err)
	}

	if !flags.raw {
		out = reindent(ctx, cfg, display, out)
	}

	if flags.output == stdinName {
		if _, err := cmd.OutOrStdout().Write(out); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		return nil
	}

	dest := flags.output
	if dest == "" {
		dest = strings.TrimSuffix(file, filepath.Ext(file)) + ".tex"
	}
	dest = absFrom(workDir, dest)
	if err := fsutil.OS().WriteAtomic(ctx, dest, out, 0); err != nil {
		return fmt.Errorf("write %s: %w", dest, err)
	}

	logger.Info("converted", logging.FieldInput, display, logging.FieldOutput, relPath(workDir, dest))
	return nil
}

// reindent runs converted LaTeX through the formatter. Math and code are
// copied from the Markdown verbatim, so output that does not parse is kept
// as converted.
func reindent(ctx context.Context, cfg *config.Config, display string, out []byte) []byte {
	logger := logging.FromContext(ctx)

	snap, err := latex.New(latex.Options{MaxDepth: cfg.Parser.MaxDepth}).Parse(ctx, display, out)
	if err != nil {
		return out
	}
	if snap.HasErrors() {
		logger.Warn("converted LaTeX has syntax errors; check math and code in the source",
			logging.FieldPath, display,
			logging.FieldErrors, len(snap.Errors),
		)
		return out
	}

	formatted, err := format.Format(snap, format.OptionsFromConfig(cfg.Format))
	if err != nil {
		return out
	}
	return formatted
}
