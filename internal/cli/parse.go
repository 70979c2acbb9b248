package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yaklabco/texhelper/internal/logging"
	"github.com/yaklabco/texhelper/internal/ui/pretty"
	"github.com/yaklabco/texhelper/pkg/config"
	"github.com/yaklabco/texhelper/pkg/fsutil"
	"github.com/yaklabco/texhelper/pkg/parser/latex"
	"github.com/yaklabco/texhelper/pkg/texast"
)

// stdinName is the FILE argument that reads standard input.
const stdinName = "-"

type parseFlags struct {
	tokens   bool
	quiet    bool
	maxDepth int
}

func newParseCommand(globals *globalFlags) *cobra.Command {
	flags := &parseFlags{}

	cmd := &cobra.Command{
		Use:   "parse FILE",
		Short: "Parse a LaTeX file and print its syntax tree",
		Long: `Parse a LaTeX file and print its syntax tree, or its token stream with
--tokens. FILE "-" reads standard input.

Syntax errors are printed to standard error with their position, the source
line and a caret under the offending token; the command then exits with
status 1. The tree printed next to syntax errors is the parser's best effort.

Examples:
  texhelper parse main.tex              Print the syntax tree
  texhelper parse --tokens main.tex     Print the tokens
  texhelper parse -q chapter.tex        Only check for syntax errors`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, globals, flags, args[0])
		},
	}

	cmd.Flags().BoolVar(&flags.tokens, "tokens", false, "print the token stream instead of the tree")
	cmd.Flags().BoolVarP(&flags.quiet, "quiet", "q", false, "print nothing but syntax errors")
	cmd.Flags().IntVar(&flags.maxDepth, "max-depth", 0, "nesting limit (default from config, 256)")

	return cmd
}

func runParse(cmd *cobra.Command, globals *globalFlags, flags *parseFlags, file string) error {
	if flags.maxDepth < 0 {
		return usageError(fmt.Errorf("--max-depth must not be negative, got %d", flags.maxDepth))
	}

	ctx := cmd.Context()
	logger := logging.FromContext(ctx)

	workDir, err := workingDir()
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd, globals, workDir, &config.Config{
		Parser: config.ParserConfig{MaxDepth: flags.maxDepth},
	})
	if err != nil {
		return err
	}

	content, display, err := readSource(cmd, workDir, file)
	if err != nil {
		return err
	}

	snap, err := latex.New(latex.Options{MaxDepth: cfg.Parser.MaxDepth}).Parse(ctx, display, content)
	if err != nil {
		return fmt.Errorf("parse %s: %w", display, err)
	}
	logger.Debug("parsed",
		logging.FieldPath, display,
		logging.FieldTokens, len(snap.Tokens),
		logging.FieldNodes, snap.Tree.Len(),
		logging.FieldErrors, len(snap.Errors),
	)

	if !flags.quiet {
		out := cmd.OutOrStdout()
		if flags.tokens {
			writeTokens(out, snap.Tokens)
		} else {
			fmt.Fprint(out, texast.Dump(snap.Tree))
		}
	}

	if snap.HasErrors() {
		styles := pretty.NewStyles(pretty.IsColorEnabled(globals.color, cmd.ErrOrStderr()))
		fmt.Fprint(cmd.ErrOrStderr(), styles.FormatSyntaxErrors(snap.Errors, latex.Source{
			Path: display,
			Text: string(content),
		}))
		return ErrSyntaxErrors
	}
	return nil
}

// readSource reads FILE, or standard input for "-", and returns the name
// diagnostics should show.
func readSource(cmd *cobra.Command, workDir, file string) ([]byte, string, error) {
	if file == stdinName {
		content, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, "", fmt.Errorf("read stdin: %w", err)
		}
		return content, "<stdin>", nil
	}

	path := absFrom(workDir, file)
	content, _, err := fsutil.OS().ReadFile(cmd.Context(), path)
	if err != nil {
		return nil, "", usageError(fmt.Errorf("read %s: %w", file, err))
	}
	return content, relPath(workDir, path), nil
}

// writeTokens prints one token per line with its 1-based position.
func writeTokens(w io.Writer, tokens []texast.Token) {
	for _, tok := range tokens {
		fmt.Fprintf(w, "%d:%d\t%s\n", tok.Row+1, tok.Col+1, tok)
	}
}
