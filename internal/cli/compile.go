package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/yaklabco/texhelper/internal/logging"
	"github.com/yaklabco/texhelper/internal/ui/pretty"
	"github.com/yaklabco/texhelper/pkg/compile"
	"github.com/yaklabco/texhelper/pkg/config"
	"github.com/yaklabco/texhelper/pkg/fsutil"
)

type compileFlags struct {
	watch      bool
	binary     string
	buildDir   string
	showOutput bool
}

func newCompileCommand(globals *globalFlags) *cobra.Command {
	flags := &compileFlags{}

	cmd := &cobra.Command{
		Use:   "compile [MAIN]",
		Short: "Build the PDF of a LaTeX project",
		Long: `Build the PDF of a LaTeX project.

MAIN is the main file, or a directory containing it; it defaults to
project.main_file (main.tex) in the current directory. Sources are copied into
the build directory (.build next to MAIN) and compiled there with latexmk, or
pdflatex when latexmk is not installed. The finished PDF is copied next to
MAIN. When the build fails, the LaTeX log is printed.

With --watch the project is rebuilt whenever a .tex or .bib file below MAIN's
directory changes, until interrupted.

Examples:
  texhelper compile                      Build ./main.tex
  texhelper compile thesis               Build thesis/main.tex
  texhelper compile paper.tex --watch    Rebuild on every save
  texhelper compile --binary pdflatex    Force a binary`,
		Args: usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(cmd, globals, flags, args)
		},
	}

	cmd.Flags().BoolVarP(&flags.watch, "watch", "w", false, "rebuild when sources change")
	cmd.Flags().StringVar(&flags.binary, "binary", "", "LaTeX binary to run (default: latexmk, then pdflatex)")
	cmd.Flags().StringVar(&flags.buildDir, "build-dir", "", "build directory relative to MAIN (default .build)")
	cmd.Flags().BoolVar(&flags.showOutput, "show-output", false, "print the LaTeX output of successful builds too")

	return cmd
}

func runCompile(cmd *cobra.Command, globals *globalFlags, flags *compileFlags, args []string) error {
	workDir, err := workingDir()
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd, globals, workDir, &config.Config{
		Project: config.ProjectConfig{
			LatexBinary: flags.binary,
			BuildDir:    flags.buildDir,
		},
	})
	if err != nil {
		return err
	}

	mainFile, err := resolveMainFile(workDir, args, cfg.Project.MainFile)
	if err != nil {
		return err
	}

	compiler, err := compile.New(compile.Options{
		Binary:   cfg.Project.LatexBinary,
		BuildDir: cfg.Project.BuildDir,
	})
	if err != nil {
		return fmt.Errorf("compile: %w", err)
	}

	ctx := cmd.Context()
	logger := logging.FromContext(ctx)
	logger.Debug("using LaTeX binary", logging.FieldBinary, compiler.Binary())

	styles := pretty.NewStyles(pretty.IsColorEnabled(globals.color, cmd.ErrOrStderr()))
	printer := &buildPrinter{
		out:        cmd.ErrOrStderr(),
		styles:     styles,
		showOutput: flags.showOutput,
	}

	if flags.watch {
		return watchProject(ctx, globals, compiler, mainFile, printer)
	}

	logger.Info("compiling", logging.FieldPath, mainFile)
	result, err := compiler.Compile(ctx, mainFile)
	if err != nil {
		return fmt.Errorf("compile: %w", err)
	}
	if !printer.print(logger, mainFile, result) {
		return ErrCompileFailed
	}
	return nil
}

// resolveMainFile picks the file to compile. A directory argument means the
// configured main file inside it.
func resolveMainFile(workDir string, args []string, mainName string) (string, error) {
	mainFile := mainName
	if len(args) == 1 {
		mainFile = args[0]
	}
	mainFile = absFrom(workDir, mainFile)

	if info, err := os.Stat(mainFile); err == nil && info.IsDir() {
		mainFile = filepath.Join(mainFile, mainName)
	}

	if !fsutil.OS().Exists(mainFile) {
		return "", usageError(fmt.Errorf("main file %s: %w", mainFile, fsutil.ErrNotFound))
	}
	return mainFile, nil
}

// watchProject rebuilds until the user interrupts. The watch loop logs
// through a timestamped logger since its output interleaves with editing.
func watchProject(
	ctx context.Context,
	globals *globalFlags,
	compiler *compile.Compiler,
	mainFile string,
	printer *buildPrinter,
) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logging.NewInteractive()
	if globals.debug {
		logger.SetLevel(log.DebugLevel)
	}
	ctx = logging.WithLogger(ctx, logger)

	err := compiler.Watch(ctx, mainFile, func(result *compile.Result, err error) {
		if err != nil {
			logger.Error("build failed", logging.FieldError, err)
			return
		}
		printer.print(logger, mainFile, result)
	})
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}

	logger.Info("stopped watching")
	return nil
}

// buildPrinter reports the outcome of a build.
type buildPrinter struct {
	out        io.Writer
	styles     *pretty.Styles
	showOutput bool
}

// print reports result and returns whether the build succeeded.
func (p *buildPrinter) print(logger *log.Logger, mainFile string, result *compile.Result) bool {
	if result.Success {
		if p.showOutput {
			p.writeOutput(result.Output)
		}
		logger.Info(p.styles.Success.Render("compiled"), logging.FieldPDF, result.PDFPath)
		return true
	}

	p.writeOutput(result.Output)
	logger.Error(p.styles.Failure.Render("compilation failed"), logging.FieldPath, mainFile)
	return false
}

func (p *buildPrinter) writeOutput(output string) {
	if output == "" {
		return
	}
	fmt.Fprint(p.out, p.styles.BuildLog.Render(output))
	if output[len(output)-1] != '\n' {
		fmt.Fprintln(p.out)
	}
}
