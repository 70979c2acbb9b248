// Package cli provides the Cobra command structure for texhelper.
package cli

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/texhelper/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// globalFlags are the persistent flags shared by every subcommand.
type globalFlags struct {
	debug      bool
	configPath string
	color      string
}

// NewRootCommand creates the root texhelper command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	globals := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "texhelper",
		Short: "Scaffold, build, format and lint LaTeX projects",
		Long: `texhelper is a command-line companion for LaTeX authors.

It scaffolds new projects from document-class templates, compiles them in an
isolated build directory (optionally on every save), re-indents sources
according to their environment structure, lints them for structural and
stylistic problems, and converts Markdown drafts to LaTeX.

Every command that reads LaTeX uses the same parser, so syntax errors are
reported identically everywhere: file, line and column, the offending line
and a caret under the token.`,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := "info"
			if globals.debug {
				level = "debug"
			}
			logger := logging.NewWithWriter(cmd.ErrOrStderr(), level)
			cmd.SetContext(logging.WithLogger(cmd.Context(), logger))
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&globals.debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&globals.configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&globals.color, "color", "auto",
		"colorize output: auto, always, never")

	// Flag parse errors are usage errors for every subcommand.
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	rootCmd.AddCommand(newInitCommand(globals))
	rootCmd.AddCommand(newCompileCommand(globals))
	rootCmd.AddCommand(newFormatCommand(globals))
	rootCmd.AddCommand(newLintCommand(globals))
	rootCmd.AddCommand(newParseCommand(globals))
	rootCmd.AddCommand(newConvertCommand(globals))
	rootCmd.AddCommand(newRulesCommand(globals))
	rootCmd.AddCommand(newVersionCommand(info))

	// Apply styled help formatting.
	helpFormatter := NewHelpFormatter(colorModeFromArgs(os.Args[1:]), os.Stdout)
	helpFormatter.ApplyToCommand(rootCmd)

	return rootCmd
}

// colorModeFromArgs peeks at --color before cobra parses flags, because the
// help templates are installed while the command tree is being built.
func colorModeFromArgs(args []string) string {
	for i, arg := range args {
		if arg == "--color" && i+1 < len(args) {
			return args[i+1]
		}
		if mode, ok := strings.CutPrefix(arg, "--color="); ok {
			return mode
		}
	}
	return "auto"
}
