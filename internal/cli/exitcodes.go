package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/texhelper/internal/configloader"
	"github.com/yaklabco/texhelper/pkg/project"
	"github.com/yaklabco/texhelper/pkg/runner"
)

// Exit codes for texhelper.
const (
	// ExitSuccess indicates successful execution with no issues.
	ExitSuccess = 0

	// ExitIssues indicates the command ran but found problems: lint errors,
	// syntax errors, an unformatted file or a failed LaTeX build.
	ExitIssues = 1

	// ExitUsage indicates invalid command-line usage or configuration.
	ExitUsage = 2

	// ExitInternal indicates an internal or I/O error.
	ExitInternal = 3
)

// Issue sentinels. They carry no message worth logging; the command has
// already written its findings.
var (
	// ErrLintIssuesFound is returned when lint issues are found.
	ErrLintIssuesFound = errors.New("lint issues found")

	// ErrSyntaxErrors is returned when a parsed file has syntax errors.
	ErrSyntaxErrors = errors.New("syntax errors found")

	// ErrNotFormatted is returned by format --check when a file would change.
	ErrNotFormatted = errors.New("file is not formatted")

	// ErrCompileFailed is returned when the LaTeX binary reports a failure.
	ErrCompileFailed = errors.New("compilation failed")
)

// UsageError marks an error caused by how the command was invoked.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string {
	return e.Err.Error()
}

func (e *UsageError) Unwrap() error {
	return e.Err
}

func usageError(err error) error {
	if err == nil {
		return nil
	}
	return &UsageError{Err: err}
}

// usageArgs wraps a positional argument validator so its failures exit with
// ExitUsage.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		return usageError(validate(cmd, args))
	}
}

// IsIssue reports whether err only signals findings already reported to
// the user.
func IsIssue(err error) bool {
	return errors.Is(err, ErrLintIssuesFound) ||
		errors.Is(err, ErrSyntaxErrors) ||
		errors.Is(err, ErrNotFormatted) ||
		errors.Is(err, ErrCompileFailed)
}

// ExitCode maps an error returned by the root command to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	if IsIssue(err) {
		return ExitIssues
	}

	var usage *UsageError
	switch {
	case errors.As(err, &usage),
		errors.Is(err, project.ErrProjectExists),
		errors.Is(err, project.ErrInvalidName),
		errors.Is(err, configloader.ErrConfigExists):
		return ExitUsage
	case strings.HasPrefix(err.Error(), "unknown command"):
		return ExitUsage
	default:
		return ExitInternal
	}
}

// ExitCodeFromResult determines the lint exit code. Errors always fail;
// with strict, warnings and infos fail too.
func ExitCodeFromResult(result *runner.Result, strict bool) int {
	if result == nil {
		return ExitSuccess
	}

	if result.HasFailures() {
		return ExitIssues
	}

	if strict && result.HasIssues() {
		return ExitIssues
	}

	return ExitSuccess
}
