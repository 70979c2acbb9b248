package compile

import (
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrNoLatexBinary is returned when no LaTeX binary can be found.
var ErrNoLatexBinary = errors.New("no LaTeX binary found (install latexmk or pdflatex)")

// Binary names probed when none is configured, in order of preference.
const (
	Latexmk  = "latexmk"
	Pdflatex = "pdflatex"
)

// LookPathFunc resolves an executable name to a path, like exec.LookPath.
type LookPathFunc func(file string) (string, error)

// FindBinary returns the LaTeX binary to compile with. A configured binary
// must resolve; otherwise latexmk is preferred over pdflatex.
func FindBinary(configured string, lookPath LookPathFunc) (string, error) {
	if lookPath == nil {
		lookPath = exec.LookPath
	}

	if configured != "" {
		path, err := lookPath(configured)
		if err != nil {
			return "", fmt.Errorf("%w: configured binary %q: %w", ErrNoLatexBinary, configured, err)
		}
		return path, nil
	}

	for _, candidate := range []string{Latexmk, Pdflatex} {
		if path, err := lookPath(candidate); err == nil {
			return path, nil
		}
	}
	return "", ErrNoLatexBinary
}

// binaryArgs returns the command line for compiling mainFile with binary.
func binaryArgs(binary, mainFile string) []string {
	name := strings.TrimSuffix(filepath.Base(binary), ".exe")
	if name == Latexmk {
		return []string{"-pdf", "-interaction=nonstopmode", mainFile}
	}
	return []string{"-interaction=nonstopmode", mainFile}
}
