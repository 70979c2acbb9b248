package pretty_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/texhelper/internal/ui/pretty"
	"github.com/yaklabco/texhelper/pkg/config"
	"github.com/yaklabco/texhelper/pkg/lint"
	"github.com/yaklabco/texhelper/pkg/parser/latex"
)

func TestFormatDiagnostic_Basic(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	diag := &lint.Diagnostic{
		RuleID:      "TEX004",
		RuleName:    "no-eqnarray",
		Message:     `Environment "eqnarray" is deprecated`,
		Severity:    config.SeverityWarning,
		FilePath:    "main.tex",
		StartLine:   10,
		StartColumn: 1,
		EndLine:     10,
		EndColumn:   16,
	}

	result := styles.FormatDiagnostic(diag, false, "")

	assert.Equal(t, "  main.tex:10:1  warning  Environment \"eqnarray\" is deprecated  (TEX004)\n", result)
}

func TestFormatDiagnostic_ContextCarets(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	diag := &lint.Diagnostic{
		RuleID:      "TEX003",
		Message:     `Deprecated font command \bf`,
		Severity:    config.SeverityWarning,
		FilePath:    "main.tex",
		StartLine:   1,
		StartColumn: 2,
		EndLine:     1,
		EndColumn:   4,
		Suggestion:  `Use \textbf{...} or the \bfseries declaration`,
	}

	result := styles.FormatDiagnostic(diag, true, "{\\bf x}")

	assert.Contains(t, result, "        {\\bf x}\n         ^^^\n")
	assert.Contains(t, result, "    Suggestion: Use \\textbf{...} or the \\bfseries declaration\n")
}

func TestFormatSourceContext(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)

	tests := []struct {
		name   string
		line   string
		column int
		width  int
		want   string
	}{
		{"start", "abc", 1, 1, "        abc\n        ^\n"},
		{"tab expanded", "\tx = 1", 2, 1, "            x = 1\n            ^\n"},
		{"width clamped", "ab", 2, 10, "        ab\n         ^\n"},
		{"past end", "ab", 9, 1, "        ab\n          ^\n"},
		{"no column", "ab", 0, 1, "        ab\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, styles.FormatSourceContext(tt.line, tt.column, tt.width))
		})
	}
}

func TestFormatDiagnosticWithFormat_RuleFormats(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	diag := &lint.Diagnostic{
		RuleID:      "TEX006",
		RuleName:    "no-trailing-whitespace",
		Message:     "Trailing whitespace",
		Severity:    config.SeverityWarning,
		FilePath:    "a.tex",
		StartLine:   1,
		StartColumn: 1,
	}

	tests := []struct {
		format   config.RuleFormat
		contains string
		excludes string
	}{
		{config.RuleFormatName, "(no-trailing-whitespace)", "(TEX006)"},
		{config.RuleFormatID, "(TEX006)", "(no-trailing-whitespace)"},
		{config.RuleFormatCombined, "(TEX006/no-trailing-whitespace)", ""},
	}

	for _, tt := range tests {
		result := styles.FormatDiagnosticWithFormat(diag, false, "", tt.format)
		assert.Contains(t, result, tt.contains)
		if tt.excludes != "" {
			assert.NotContains(t, result, tt.excludes)
		}
	}
}

func TestFormatSeverity(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	assert.Equal(t, "error", styles.FormatSeverity(config.SeverityError))
	assert.Equal(t, "warning", styles.FormatSeverity(config.SeverityWarning))
	assert.Equal(t, "info", styles.FormatSeverity(config.SeverityInfo))
	assert.Equal(t, "fatal", styles.FormatSeverity("fatal"))
}

func TestFormatSyntaxErrors_MatchesPlainRenderer(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"text }\n",
		"\\begin{itemize}\n  \\item café }\n\\end{itemize}\n",
		"$x + y\n",
		"\\end{document}",
	}

	styles := pretty.NewStyles(false)
	for _, input := range inputs {
		_, errs := latex.ParseString(input)
		require.NotEmpty(t, errs, "input %q should produce diagnostics", input)

		src := latex.Source{Path: "doc.tex", Text: input}
		assert.Equal(t, latex.RenderDiagnostics(errs, src), styles.FormatSyntaxErrors(errs, src), "input %q", input)
	}
}

func TestFormatFileHeader(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	assert.Equal(t, "main.tex (3 issues)", styles.FormatFileHeader("main.tex", 3))
	assert.Equal(t, "main.tex", styles.FormatFileHeader("main.tex", 0))
}
