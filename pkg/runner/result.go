package runner

import (
	"github.com/yaklabco/texhelper/pkg/config"
	"github.com/yaklabco/texhelper/pkg/lint"
)

// FileOutcome is what happened to one discovered file.
type FileOutcome struct {
	Path string

	// Result is nil when Error is set.
	Result *lint.PipelineResult

	// Error is set when the file could not be read, parsed or written.
	Error error
}

// Stats aggregates a run.
type Stats struct {
	FilesDiscovered int
	FilesProcessed  int
	FilesErrored    int

	// FilesSkipped counts files whose fixes were discarded because the file
	// changed on disk or the fixed text no longer parsed.
	FilesSkipped int

	FilesWithSyntaxErrors int
	FilesWithIssues       int
	FilesModified         int

	// RuleErrors counts rules that failed internally, summed over files.
	RuleErrors int

	DiagnosticsTotal   int
	DiagnosticsFixable int
	DiagnosticsFixed   int

	// DiagnosticsBySeverity is keyed by config.Severity spelled as a string.
	DiagnosticsBySeverity map[string]int
}

// Result is the outcome of a run, with Files sorted by path.
type Result struct {
	Files []FileOutcome
	Stats Stats
}

// HasFailures reports whether the run found anything that fails lint
// regardless of --strict: an error diagnostic or a syntax error.
func (r *Result) HasFailures() bool {
	if r == nil {
		return false
	}
	return r.Stats.DiagnosticsBySeverity[string(config.SeverityError)] > 0 || r.HasSyntaxErrors()
}

// HasSyntaxErrors reports whether any file failed to parse cleanly.
func (r *Result) HasSyntaxErrors() bool {
	return r != nil && r.Stats.FilesWithSyntaxErrors > 0
}

// HasIssues reports whether any diagnostics were found.
func (r *Result) HasIssues() bool {
	return r != nil && r.Stats.DiagnosticsTotal > 0
}

func newStats() Stats {
	return Stats{DiagnosticsBySeverity: make(map[string]int)}
}

// accumulate records outcome in the file list and the stats.
func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)
	r.Stats.add(outcome)
}

func (s *Stats) add(outcome FileOutcome) {
	switch {
	case outcome.Error != nil:
		s.FilesErrored++
		return
	case outcome.Result == nil:
		return
	}

	pr := outcome.Result
	s.FilesProcessed++
	s.DiagnosticsFixed += pr.TotalEditsApplied
	if pr.Skipped {
		s.FilesSkipped++
	}
	if pr.Written {
		s.FilesModified++
	}

	fr := pr.FileResult
	if fr == nil {
		return
	}
	if fr.Snapshot != nil && fr.Snapshot.HasErrors() {
		s.FilesWithSyntaxErrors++
	}
	s.RuleErrors += len(fr.RuleErrors)

	if len(pr.Diagnostics) > 0 {
		s.FilesWithIssues++
	}
	s.DiagnosticsTotal += len(pr.Diagnostics)
	s.DiagnosticsFixable += pr.FixableCount()
	for _, diag := range pr.Diagnostics {
		severity := diag.Severity
		if severity == "" {
			severity = config.SeverityWarning
		}
		s.DiagnosticsBySeverity[string(severity)]++
	}
}
