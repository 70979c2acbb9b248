package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/texhelper/pkg/config"
)

func TestTotals(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		totals     Totals
		wantIssues bool
		wantErrors bool
	}{
		{name: "clean", totals: Totals{Files: 3}},
		{name: "warnings only", totals: Totals{Issues: 2, Warnings: 2}, wantIssues: true},
		{name: "infos only", totals: Totals{Issues: 1, Infos: 1}, wantIssues: true},
		{name: "error diagnostic", totals: Totals{Issues: 1, Errors: 1}, wantIssues: true, wantErrors: true},
		{
			name:       "syntax errors with the syntax rule disabled",
			totals:     Totals{SyntaxErrors: 2, FilesUnparsable: 1},
			wantIssues: true,
			wantErrors: true,
		},
		{name: "unreadable file", totals: Totals{FilesErrored: 1}, wantErrors: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.wantIssues, tt.totals.HasIssues(), "HasIssues")
			assert.Equal(t, tt.wantErrors, tt.totals.HasErrors(), "HasErrors")
		})
	}
}

func TestOptions(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()
	assert.True(t, opts.IncludeDiagnostics && opts.IncludeByFile && opts.IncludeByRule)
	assert.Equal(t, SortByCount, opts.SortBy)
	assert.True(t, opts.SortDesc)
	assert.Equal(t, config.RuleFormatName, opts.RuleFormat)
	assert.Empty(t, opts.WorkingDir)
}
