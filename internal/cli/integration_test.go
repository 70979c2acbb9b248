package cli_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/texhelper/internal/cli"
	"github.com/yaklabco/texhelper/pkg/fsutil"
)

// trailingWhitespaceTeX ends its first line in spaces, which TEX006
// (no-trailing-whitespace) reports.
const trailingWhitespaceTeX = "\\section{Intro}   \n\nSome text.\n"

// defaultTestConfig stands in for the project config so that a stray
// .texhelper.yml above the test directory cannot change results.
const defaultTestConfig = "project:\n  doc_mode: article\n"

// writeTeX writes content to name in a fresh temporary directory.
func writeTeX(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// writeConfig writes a config file and returns its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()

	if content == "" {
		content = defaultTestConfig
	}
	return writeTeX(t, ".texhelper.yml", content)
}

// run executes a subcommand with a throwaway config and colors disabled.
func run(t *testing.T, command string, args ...string) (string, string, error) {
	t.Helper()

	full := append([]string{command, "--config", writeConfig(t, ""), "--color", "never"}, args...)
	return execute(t, full...)
}

func TestIntegration_LintRuleFormat(t *testing.T) {
	t.Parallel()

	texFile := writeTeX(t, "paper.tex", trailingWhitespaceTeX)

	tests := []struct {
		ruleFormat     string
		wantContains   []string
		wantNotContain []string
	}{
		{
			ruleFormat:     "name",
			wantContains:   []string{"no-trailing-whitespace"},
			wantNotContain: []string{"TEX006"},
		},
		{
			ruleFormat:     "id",
			wantContains:   []string{"TEX006"},
			wantNotContain: []string{"no-trailing-whitespace"},
		},
		{
			ruleFormat:   "combined",
			wantContains: []string{"TEX006/no-trailing-whitespace"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.ruleFormat, func(t *testing.T) {
			t.Parallel()

			stdout, _, err := run(t, "lint", "--rule-format", tt.ruleFormat, "--no-context", texFile)
			require.NoError(t, err, "warnings alone do not fail lint")

			for _, want := range tt.wantContains {
				assert.Contains(t, stdout, want)
			}
			for _, notWant := range tt.wantNotContain {
				assert.NotContains(t, stdout, notWant)
			}
		})
	}
}

func TestIntegration_LintConfigDisablesRule(t *testing.T) {
	t.Parallel()

	texFile := writeTeX(t, "paper.tex", trailingWhitespaceTeX)

	for _, key := range []string{"no-trailing-whitespace", "TEX006"} {
		t.Run(key, func(t *testing.T) {
			t.Parallel()

			cfg := writeConfig(t, "rules:\n  "+key+":\n    enabled: false\n")
			stdout, _, err := execute(t, "lint", "--config", cfg, "--color", "never", texFile)
			require.NoError(t, err)

			assert.NotContains(t, stdout, "no-trailing-whitespace")
			assert.Contains(t, stdout, "No issues found")
		})
	}
}

func TestIntegration_LintDisableFlag(t *testing.T) {
	t.Parallel()

	texFile := writeTeX(t, "paper.tex", trailingWhitespaceTeX)

	stdout, _, err := run(t, "lint", "--disable", "TEX006", "--strict", texFile)
	require.NoError(t, err)
	assert.Contains(t, stdout, "No issues found")
}

func TestIntegration_LintStrict(t *testing.T) {
	t.Parallel()

	texFile := writeTeX(t, "paper.tex", trailingWhitespaceTeX)

	_, _, err := run(t, "lint", texFile)
	require.NoError(t, err)

	_, _, err = run(t, "lint", "--strict", texFile)
	require.ErrorIs(t, err, cli.ErrLintIssuesFound)
	assert.Equal(t, cli.ExitIssues, cli.ExitCode(err))
}

func TestIntegration_LintSyntaxErrorFails(t *testing.T) {
	t.Parallel()

	texFile := writeTeX(t, "broken.tex", "\\textbf{unclosed\n")

	stdout, _, err := run(t, "lint", "--rule-format", "id", texFile)
	require.ErrorIs(t, err, cli.ErrLintIssuesFound)
	assert.Equal(t, cli.ExitIssues, cli.ExitCode(err))
	assert.Contains(t, stdout, "TEX001")
}

func TestIntegration_LintJSON(t *testing.T) {
	t.Parallel()

	texFile := writeTeX(t, "paper.tex", trailingWhitespaceTeX)

	stdout, _, err := run(t, "lint", "--format", "json", texFile)
	require.NoError(t, err)

	var report struct {
		Diagnostics []struct {
			RuleID    string `json:"ruleId"`
			RuleName  string `json:"ruleName"`
			Severity  string `json:"severity"`
			StartLine int    `json:"startLine"`
			Fixable   bool   `json:"fixable"`
		} `json:"diagnostics"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &report), stdout)
	require.Len(t, report.Diagnostics, 1)

	diag := report.Diagnostics[0]
	assert.Equal(t, "TEX006", diag.RuleID)
	assert.Equal(t, "no-trailing-whitespace", diag.RuleName)
	assert.Equal(t, "warning", diag.Severity)
	assert.Equal(t, 1, diag.StartLine)
	assert.True(t, diag.Fixable)
}

func TestIntegration_LintSummary(t *testing.T) {
	t.Parallel()

	texFile := writeTeX(t, "paper.tex", trailingWhitespaceTeX)

	stdout, _, err := run(t, "lint", "--format", "summary", texFile)
	require.NoError(t, err)
	assert.Contains(t, stdout, "no-trailing-whitespace")
	assert.Contains(t, stdout, "paper.tex")
}

func TestIntegration_LintFix(t *testing.T) {
	t.Parallel()

	texFile := writeTeX(t, "paper.tex", trailingWhitespaceTeX)

	_, _, err := run(t, "lint", "--fix", "--no-backups", texFile)
	require.NoError(t, err)

	fixed, err := os.ReadFile(texFile)
	require.NoError(t, err)
	assert.Equal(t, "\\section{Intro}\n\nSome text.\n", string(fixed))
	assert.NoFileExists(t, fsutil.BackupPath(texFile, fsutil.BackupModeSidecar))
}

func TestIntegration_LintMissingPath(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "nope.tex")

	_, _, err := run(t, "lint", missing)
	require.Error(t, err)
	assert.Equal(t, cli.ExitUsage, cli.ExitCode(err))
}

func TestIntegration_RulesJSON(t *testing.T) {
	t.Parallel()

	stdout, _, err := execute(t, "rules", "--format", "json")
	require.NoError(t, err)

	var rules []map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &rules))
	require.NotEmpty(t, rules)
	for _, rule := range rules {
		assert.Contains(t, rule, "id")
		assert.Contains(t, rule, "name")
	}
}

func TestIntegration_ParseDump(t *testing.T) {
	t.Parallel()

	texFile := writeTeX(t, "doc.tex", "Some \\textbf{bold} text.\n")

	stdout, stderr, err := run(t, "parse", texFile)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Command(textbf)")
	assert.Contains(t, stdout, "Word(bold)")
	assert.Empty(t, stderr)
}

func TestIntegration_ParseTokens(t *testing.T) {
	t.Parallel()

	texFile := writeTeX(t, "doc.tex", "\\emph{x}\n")

	stdout, _, err := run(t, "parse", "--tokens", texFile)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.NotEmpty(t, lines)
	assert.Equal(t, "1:1\tCommand(\"emph\")", lines[0])
}

func TestIntegration_ParseSyntaxError(t *testing.T) {
	t.Parallel()

	texFile := writeTeX(t, "broken.tex", "ok\n\\textbf{unclosed\n")

	_, stderr, err := run(t, "parse", "--quiet", texFile)
	require.ErrorIs(t, err, cli.ErrSyntaxErrors)
	assert.Equal(t, cli.ExitIssues, cli.ExitCode(err))
	assert.Contains(t, stderr, "broken.tex")
	assert.Contains(t, stderr, "^")
}

func TestIntegration_ParseStdin(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testBuildInfo)
	var stdout, stderr strings.Builder
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader("$x^2$\n"))
	cmd.SetArgs([]string{"parse", "--config", writeConfig(t, ""), "--color", "never", "-"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, stdout.String(), "InlineMath")
}

func TestIntegration_ParseMissingFile(t *testing.T) {
	t.Parallel()

	_, _, err := run(t, "parse", filepath.Join(t.TempDir(), "absent.tex"))
	require.Error(t, err)
	assert.Equal(t, cli.ExitUsage, cli.ExitCode(err))
}

const unformattedTeX = "\\begin{itemize}\n\\item one   \n\\end{itemize}\n"

const formattedTeX = "\\begin{itemize}\n  \\item one\n\\end{itemize}\n"

func TestIntegration_FormatDefaultOutput(t *testing.T) {
	t.Parallel()

	texFile := writeTeX(t, "list.tex", unformattedTeX)

	_, _, err := run(t, "format", texFile)
	require.NoError(t, err)

	out, err := os.ReadFile(filepath.Join(filepath.Dir(texFile), "list.formatted.tex"))
	require.NoError(t, err)
	assert.Equal(t, formattedTeX, string(out))

	orig, err := os.ReadFile(texFile)
	require.NoError(t, err)
	assert.Equal(t, unformattedTeX, string(orig), "source is left alone")
}

func TestIntegration_FormatOutfile(t *testing.T) {
	t.Parallel()

	texFile := writeTeX(t, "list.tex", unformattedTeX)
	dest := filepath.Join(t.TempDir(), "out.tex")

	_, _, err := run(t, "format", "--outfile", dest, "--tabs", texFile)
	require.NoError(t, err)

	out, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "\\begin{itemize}\n\t\\item one\n\\end{itemize}\n", string(out))
}

func TestIntegration_FormatInPlace(t *testing.T) {
	t.Parallel()

	texFile := writeTeX(t, "list.tex", unformattedTeX)

	_, _, err := run(t, "format", "--in-place", texFile)
	require.NoError(t, err)

	got, err := os.ReadFile(texFile)
	require.NoError(t, err)
	assert.Equal(t, formattedTeX, string(got))

	backup, err := os.ReadFile(fsutil.BackupPath(texFile, fsutil.BackupModeSidecar))
	require.NoError(t, err)
	assert.Equal(t, unformattedTeX, string(backup))
}

func TestIntegration_FormatCheck(t *testing.T) {
	t.Parallel()

	dirty := writeTeX(t, "dirty.tex", unformattedTeX)
	clean := writeTeX(t, "clean.tex", formattedTeX)

	stdout, _, err := run(t, "format", "--check", dirty, clean)
	require.ErrorIs(t, err, cli.ErrNotFormatted)
	assert.Equal(t, cli.ExitIssues, cli.ExitCode(err))
	assert.Contains(t, stdout, "dirty.tex")
	assert.NotContains(t, stdout, "clean.tex")

	_, _, err = run(t, "format", "--check", clean)
	require.NoError(t, err)
}

func TestIntegration_FormatDiff(t *testing.T) {
	t.Parallel()

	texFile := writeTeX(t, "list.tex", unformattedTeX)

	stdout, _, err := run(t, "format", "--diff", texFile)
	require.NoError(t, err)
	assert.Contains(t, stdout, "-\\item one   ")
	assert.Contains(t, stdout, "+  \\item one")
}

func TestIntegration_FormatSyntaxError(t *testing.T) {
	t.Parallel()

	texFile := writeTeX(t, "broken.tex", "\\textbf{x\n")

	_, stderr, err := run(t, "format", "--in-place", texFile)
	require.ErrorIs(t, err, cli.ErrSyntaxErrors)
	assert.Contains(t, stderr, "broken.tex")

	got, err := os.ReadFile(texFile)
	require.NoError(t, err)
	assert.Equal(t, "\\textbf{x\n", string(got))
}

func TestIntegration_FormatUsageErrors(t *testing.T) {
	t.Parallel()

	texFile := writeTeX(t, "list.tex", unformattedTeX)

	tests := []struct {
		name string
		args []string
	}{
		{name: "no targets", args: nil},
		{name: "exclusive modes", args: []string{"--check", "--diff", texFile}},
		{name: "outfile with two targets", args: []string{"-o", "x.tex", texFile, texFile}},
		{name: "negative indent", args: []string{"--indent", "-1", texFile}},
		{name: "missing target", args: []string{filepath.Join(t.TempDir(), "absent.tex")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, _, err := run(t, "format", tt.args...)
			require.Error(t, err)
			assert.Equal(t, cli.ExitUsage, cli.ExitCode(err))
		})
	}
}

func TestIntegration_Convert(t *testing.T) {
	t.Parallel()

	mdFile := writeTeX(t, "notes.md", "# Title\n\nSome *emphasis* and $x^2$.\n")

	_, _, err := run(t, "convert", mdFile)
	require.NoError(t, err)

	out, err := os.ReadFile(filepath.Join(filepath.Dir(mdFile), "notes.tex"))
	require.NoError(t, err)
	assert.Contains(t, string(out), "\\section{Title}")
	assert.Contains(t, string(out), "$x^2$")
}

func TestIntegration_ConvertStandaloneToStdout(t *testing.T) {
	t.Parallel()

	mdFile := writeTeX(t, "notes.md", "## Part\n\n- one\n- two\n")

	stdout, _, err := run(t, "convert", "--standalone", "--doc-class", "report", "-o", "-", mdFile)
	require.NoError(t, err)
	assert.Contains(t, stdout, "\\documentclass{report}")
	assert.Contains(t, stdout, "\\subsection{Part}")
	assert.Contains(t, stdout, "  \\item one")
	assert.Contains(t, stdout, "\\end{document}")
}

func TestIntegration_ConvertInvalidUTF8(t *testing.T) {
	t.Parallel()

	mdFile := writeTeX(t, "bad.md", "caf\xe9\n")

	_, _, err := run(t, "convert", "-o", "-", mdFile)
	require.Error(t, err)
	assert.Equal(t, cli.ExitUsage, cli.ExitCode(err))
}

func TestIntegration_Init(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "thesis")

	stdout, _, err := run(t, "init", "--doc-mode", "report", "--with-config", dir)
	require.NoError(t, err)

	for _, name := range []string{"main.tex", "references.bib", ".gitignore", ".texhelper.yml"} {
		assert.FileExists(t, filepath.Join(dir, name))
		assert.Contains(t, stdout, filepath.Join(dir, name))
	}

	main, err := os.ReadFile(filepath.Join(dir, "main.tex"))
	require.NoError(t, err)
	assert.Contains(t, string(main), "\\documentclass{report}")
	assert.Contains(t, string(main), "thesis")

	cfg, err := os.ReadFile(filepath.Join(dir, ".texhelper.yml"))
	require.NoError(t, err)
	assert.Contains(t, string(cfg), "doc_mode: report")

	_, _, err = run(t, "init", dir)
	require.Error(t, err, "an existing project is not overwritten")
	assert.Equal(t, cli.ExitUsage, cli.ExitCode(err))
}

func TestIntegration_InitRequiresName(t *testing.T) {
	t.Parallel()

	_, _, err := run(t, "init")
	require.Error(t, err)
	assert.Equal(t, cli.ExitUsage, cli.ExitCode(err))
}

// fakeLatex writes an executable script standing in for a LaTeX binary.
// It prints a line and, when succeed is set, creates the PDF for its last
// argument.
func fakeLatex(t *testing.T, succeed bool) string {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("shell script binaries need a POSIX shell")
	}

	script := "#!/bin/sh\necho \"fake build of $*\"\n"
	if succeed {
		script += "for a; do f=$a; done\ntouch \"${f%.tex}.pdf\"\n"
	} else {
		script += "echo \"! Undefined control sequence.\"\nexit 1\n"
	}

	path := filepath.Join(t.TempDir(), "fakelatex")
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func TestIntegration_Compile(t *testing.T) {
	t.Parallel()

	binary := fakeLatex(t, true)
	mainFile := writeTeX(t, "main.tex", "\\documentclass{article}\n\\begin{document}\nHi\n\\end{document}\n")
	projectDir := filepath.Dir(mainFile)

	_, stderr, err := run(t, "compile", "--binary", binary, projectDir)
	require.NoError(t, err, stderr)

	assert.FileExists(t, filepath.Join(projectDir, "main.pdf"))
	assert.FileExists(t, filepath.Join(projectDir, ".build", "main.tex"))
	assert.Contains(t, stderr, "compiled")
	assert.NotContains(t, stderr, "fake build", "output of successful builds is hidden")
}

func TestIntegration_CompileShowOutput(t *testing.T) {
	t.Parallel()

	binary := fakeLatex(t, true)
	mainFile := writeTeX(t, "paper.tex", "Hi\n")

	_, stderr, err := run(t, "compile", "--binary", binary, "--show-output", mainFile)
	require.NoError(t, err)
	assert.Contains(t, stderr, "fake build of -interaction=nonstopmode paper.tex")
}

func TestIntegration_CompileFailure(t *testing.T) {
	t.Parallel()

	binary := fakeLatex(t, false)
	mainFile := writeTeX(t, "main.tex", "\\undefined\n")

	_, stderr, err := run(t, "compile", "--binary", binary, mainFile)
	require.ErrorIs(t, err, cli.ErrCompileFailed)
	assert.Equal(t, cli.ExitIssues, cli.ExitCode(err))
	assert.Contains(t, stderr, "Undefined control sequence")
	assert.NoFileExists(t, filepath.Join(filepath.Dir(mainFile), "main.pdf"))
}

func TestIntegration_CompileMissingMain(t *testing.T) {
	t.Parallel()

	binary := fakeLatex(t, true)

	_, _, err := run(t, "compile", "--binary", binary, t.TempDir())
	require.Error(t, err)
	assert.Equal(t, cli.ExitUsage, cli.ExitCode(err))
}

func TestIntegration_CompileUnknownBinary(t *testing.T) {
	t.Parallel()

	mainFile := writeTeX(t, "main.tex", "Hi\n")

	_, _, err := run(t, "compile", "--binary", "no-such-latex-binary", mainFile)
	require.Error(t, err)
	assert.Equal(t, cli.ExitInternal, cli.ExitCode(err))
}
