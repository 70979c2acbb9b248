// Package compile builds PDFs from LaTeX projects. Sources are copied into
// a build directory next to the main file so auxiliary files never clutter
// the project, and the finished PDF is copied back.
package compile

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/yaklabco/texhelper/internal/logging"
	"github.com/yaklabco/texhelper/pkg/config"
	"github.com/yaklabco/texhelper/pkg/fsutil"
)

// DefaultDebounce is how long Watch waits for edits to settle.
const DefaultDebounce = 300 * time.Millisecond

// Options configures a Compiler.
type Options struct {
	// Binary is the configured LaTeX binary. Empty means discover one.
	Binary string

	// BuildDir is the build directory, relative to the main file's
	// directory unless absolute. Defaults to config.DefaultBuildDir.
	BuildDir string

	// Debounce is the settle delay for Watch.
	Debounce time.Duration

	// FS is the filesystem sources are copied on. Defaults to the OS.
	FS afero.Fs

	// Runner executes the binary. Defaults to ExecRunner.
	Runner CommandRunner

	// LookPath resolves binaries. Defaults to exec.LookPath.
	LookPath LookPathFunc
}

// Result is the outcome of one compilation.
type Result struct {
	// PDFPath is the PDF copied next to the main file; empty on failure.
	PDFPath string

	// Output is the combined output of the LaTeX binary.
	Output string

	// Success reports whether the binary exited cleanly and produced a PDF.
	Success bool
}

// Compiler runs a LaTeX binary in an isolated build directory.
type Compiler struct {
	binary   string
	buildDir string
	debounce time.Duration
	fs       *fsutil.FS
	runner   CommandRunner
}

// New creates a Compiler, resolving the LaTeX binary.
func New(opts Options) (*Compiler, error) {
	binary, err := FindBinary(opts.Binary, opts.LookPath)
	if err != nil {
		return nil, err
	}

	c := &Compiler{
		binary:   binary,
		buildDir: opts.BuildDir,
		debounce: opts.Debounce,
		fs:       fsutil.OS(),
		runner:   opts.Runner,
	}
	if c.buildDir == "" {
		c.buildDir = config.DefaultBuildDir
	}
	if c.debounce <= 0 {
		c.debounce = DefaultDebounce
	}
	if opts.FS != nil {
		c.fs = fsutil.New(opts.FS)
	}
	if c.runner == nil {
		c.runner = ExecRunner{}
	}
	return c, nil
}

// Binary returns the resolved LaTeX binary.
func (c *Compiler) Binary() string {
	return c.binary
}

// BuildDir returns the build directory used for mainFile.
func (c *Compiler) BuildDir(mainFile string) string {
	if filepath.IsAbs(c.buildDir) {
		return c.buildDir
	}
	return filepath.Join(filepath.Dir(mainFile), c.buildDir)
}

// Compile builds mainFile. A LaTeX failure is reported through
// Result.Success with the binary's output; the error is reserved for
// problems running the build at all.
func (c *Compiler) Compile(ctx context.Context, mainFile string) (*Result, error) {
	logger := logging.FromContext(ctx)

	if !c.fs.Exists(mainFile) {
		return nil, fmt.Errorf("main file %s: %w", mainFile, fsutil.ErrNotFound)
	}

	srcDir := filepath.Dir(mainFile)
	buildDir := c.BuildDir(mainFile)
	name := filepath.Base(mainFile)
	pdfName := strings.TrimSuffix(name, filepath.Ext(name)) + ".pdf"

	logger.Debug("preparing build directory", logging.FieldBuildDir, buildDir)
	if err := c.fs.CopyDir(srcDir, buildDir, skipSource(srcDir, buildDir, pdfName)); err != nil {
		return nil, fmt.Errorf("copy sources to %s: %w", buildDir, err)
	}

	logger.Debug("running LaTeX", logging.FieldBinary, c.binary, logging.FieldPath, mainFile)
	output, err := c.runner.Run(ctx, buildDir, c.binary, binaryArgs(c.binary, name)...)
	result := &Result{Output: string(output)}
	switch {
	case errors.Is(err, ErrExitStatus):
		return result, nil
	case err != nil:
		return nil, fmt.Errorf("compile %s: %w", mainFile, err)
	}

	built := filepath.Join(buildDir, pdfName)
	if !c.fs.Exists(built) {
		return result, nil
	}

	target := filepath.Join(srcDir, pdfName)
	if err := c.fs.CopyFile(built, target); err != nil {
		return nil, fmt.Errorf("copy PDF: %w", err)
	}

	result.PDFPath = target
	result.Success = true
	logger.Debug("compiled", logging.FieldPDF, target)
	return result, nil
}

// skipSource leaves hidden entries, the build directory and the previous
// output PDF out of the copy.
func skipSource(srcDir, buildDir, pdfName string) func(string, bool) bool {
	buildRel, err := filepath.Rel(srcDir, buildDir)
	if err != nil {
		buildRel = ""
	}
	return func(rel string, isDir bool) bool {
		if strings.HasPrefix(filepath.Base(rel), ".") {
			return true
		}
		if isDir {
			return rel == buildRel
		}
		return rel == pdfName
	}
}
