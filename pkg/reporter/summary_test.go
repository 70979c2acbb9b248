package reporter

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/texhelper/pkg/analysis"
)

func renderSummary(t *testing.T, opts Options, report *analysis.Report) string {
	t.Helper()

	var buf bytes.Buffer
	opts.Writer = &buf
	opts.Color = "never"

	require.NoError(t, NewSummaryRenderer(opts).Render(context.Background(), report))
	return buf.String()
}

func sampleReport() *analysis.Report {
	return &analysis.Report{
		ByRule: []analysis.RuleAnalysis{
			{RuleID: "TEX006", RuleName: "no-trailing-whitespace", Issues: 5, Warnings: 5, Fixable: true},
			{RuleID: "TEX001", RuleName: "syntax-error", Issues: 2, Errors: 2},
		},
		ByFile: []analysis.FileAnalysis{
			{Path: "chapters/intro.tex", Issues: 4, Errors: 1, Warnings: 3},
			{Path: "main.tex", Issues: 3, Errors: 1, Warnings: 2, SyntaxErrors: 1},
		},
		Totals: analysis.Totals{
			Issues: 7, Errors: 2, Warnings: 5, Files: 3, FilesWithIssues: 2,
			FilesUnparsable: 1, SyntaxErrors: 1,
		},
	}
}

func TestSummaryRenderer_NoIssues(t *testing.T) {
	t.Parallel()

	out := renderSummary(t, Options{}, &analysis.Report{})

	assert.Equal(t, "No issues found\n", out)
}

func TestSummaryRenderer_Tables(t *testing.T) {
	t.Parallel()

	out := renderSummary(t, Options{}, sampleReport())

	lines := strings.Split(out, "\n")
	assert.Equal(t, "Rules", lines[0])
	assert.Equal(t, strings.Repeat("-", tableWidth), lines[1])
	assert.Equal(t,
		"Rule                             Count  Errors  Warnings  Fixable", lines[2])
	assert.Equal(t,
		"TEX006 no-trailing-whitespace        5       0         5        +", lines[4])
	assert.Equal(t,
		"TEX001 syntax-error                  2       2         0         ", lines[5])

	assert.Contains(t, out, "Files\n")
	assert.Contains(t, out, "main.tex !")
	assert.Contains(t, out, "Total: 7 issues (2 errors, 5 warnings) in 2 files\n")
	assert.Contains(t, out, "1 file could not be parsed cleanly\n")
	assert.Less(t, strings.Index(out, "Rules\n"), strings.Index(out, "Files\n"))
}

func TestSummaryRenderer_FilesFirst(t *testing.T) {
	t.Parallel()

	out := renderSummary(t, Options{SummaryOrder: SummaryOrderFiles}, sampleReport())

	assert.Less(t, strings.Index(out, "Files\n"), strings.Index(out, "Rules\n"))
}

func TestSummaryRenderer_SyntaxErrorsOnly(t *testing.T) {
	t.Parallel()

	report := &analysis.Report{
		ByFile: []analysis.FileAnalysis{{Path: "broken.tex", SyntaxErrors: 2}},
		Totals: analysis.Totals{Files: 1, FilesUnparsable: 1, SyntaxErrors: 2},
	}

	out := renderSummary(t, Options{}, report)

	assert.NotContains(t, out, "No issues found")
	assert.Contains(t, out, "broken.tex !")
	assert.Contains(t, out, "Total: 0 issues in 0 files")
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		in       string
		width    int
		keepTail bool
		want     string
	}{
		{name: "fits", in: "main.tex", width: 10, want: "main.tex"},
		{name: "head", in: "TEX006 no-trailing-whitespace", width: 12, want: "TEX006 no..."},
		{name: "tail", in: "chapters/appendix/proofs.tex", width: 13, keepTail: true, want: "...proofs.tex"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, truncate(tt.in, tt.width, tt.keepTail))
		})
	}
}

func TestSummaryOrder_IsValid(t *testing.T) {
	t.Parallel()

	assert.True(t, SummaryOrderRules.IsValid())
	assert.True(t, SummaryOrderFiles.IsValid())
	assert.False(t, SummaryOrder("severity").IsValid())
}
