package pretty_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/texhelper/internal/ui/pretty"
	"github.com/yaklabco/texhelper/pkg/runner"
)

func TestFormatSummary(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)

	tests := []struct {
		name     string
		stats    runner.Stats
		contains []string
		excludes []string
	}{
		{
			name: "errors",
			stats: runner.Stats{
				FilesProcessed:        10,
				FilesWithIssues:       3,
				FilesWithSyntaxErrors: 1,
				DiagnosticsTotal:      15,
				DiagnosticsBySeverity: map[string]int{"error": 5, "warning": 10},
			},
			contains: []string{
				"Summary",
				"  Files checked:     10\n",
				"  Files with issues: 3\n",
				"  Unparsable files:  1\n",
				"  Total issues:      15\n",
				"    Errors:          5\n",
				"    Warnings:        10\n",
				"Lint failed with errors",
			},
			excludes: []string{"Info:", "Files modified:"},
		},
		{
			name: "warnings only",
			stats: runner.Stats{
				FilesProcessed:        2,
				FilesWithIssues:       1,
				FilesModified:         1,
				DiagnosticsTotal:      1,
				DiagnosticsBySeverity: map[string]int{"warning": 1},
			},
			contains: []string{"Files modified:    1", "Lint completed with warnings"},
		},
		{
			name:     "clean",
			stats:    runner.Stats{FilesProcessed: 5, DiagnosticsBySeverity: map[string]int{}},
			contains: []string{"Lint passed"},
			excludes: []string{"Files with issues:", "Unparsable files:"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := styles.FormatSummary(tt.stats)
			for _, want := range tt.contains {
				assert.Contains(t, result, want)
			}
			for _, unwanted := range tt.excludes {
				assert.NotContains(t, result, unwanted)
			}
		})
	}
}

func TestFormatSummaryOneLine(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)

	tests := []struct {
		name  string
		stats runner.Stats
		want  string
	}{
		{
			name:  "clean",
			stats: runner.Stats{FilesProcessed: 3},
			want:  "No issues found (3 files checked)\n",
		},
		{
			name:  "clean single file after fixes",
			stats: runner.Stats{FilesProcessed: 1, FilesModified: 1, DiagnosticsFixed: 2},
			want:  "No issues found (1 file checked), 2 fixed in 1 file\n",
		},
		{
			name: "mixed",
			stats: runner.Stats{
				FilesProcessed:        4,
				FilesWithIssues:       2,
				DiagnosticsTotal:      4,
				DiagnosticsFixable:    1,
				DiagnosticsBySeverity: map[string]int{"error": 1, "warning": 2, "info": 1},
			},
			want: "4 issues (1 error, 2 warnings, 1 info) in 2 files, 1 fixable\n",
		},
		{
			name: "single issue",
			stats: runner.Stats{
				FilesProcessed:        1,
				FilesWithIssues:       1,
				DiagnosticsTotal:      1,
				DiagnosticsBySeverity: map[string]int{"warning": 1},
			},
			want: "1 issue (1 warning) in 1 file\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, styles.FormatSummaryOneLine(tt.stats))
		})
	}
}
