// Package analysis turns a runner.Result into the Report views shared by
// every output format.
package analysis

import (
	"cmp"
	"path/filepath"
	"slices"
	"time"

	"github.com/yaklabco/texhelper/pkg/config"
	"github.com/yaklabco/texhelper/pkg/lint"
	"github.com/yaklabco/texhelper/pkg/runner"
	"github.com/yaklabco/texhelper/pkg/texast"
)

// ReportVersion is the current report format version.
const ReportVersion = "1.0.0"

// severityCounts is embedded in the per-file and per-rule accumulators.
type severityCounts struct {
	errors, warnings, infos int
}

func (c *severityCounts) add(sev config.Severity) {
	switch sev {
	case config.SeverityError:
		c.errors++
	case config.SeverityWarning:
		c.warnings++
	case config.SeverityInfo:
		c.infos++
	}
}

type fileAcc struct {
	analysis FileAnalysis
	counts   severityCounts
	rules    map[string]struct{}
}

type ruleAcc struct {
	analysis RuleAnalysis
	counts   severityCounts
	files    map[string]struct{}
}

// analyzer holds temporary state for one Analyze call.
type analyzer struct {
	opts   Options
	report *Report
	totals severityCounts
	files  map[string]*fileAcc
	rules  map[string]*ruleAcc
}

// Analyze transforms a runner.Result into a Report in a single pass over
// the diagnostics.
func Analyze(result *runner.Result, opts Options) *Report {
	report := &Report{
		Version:   ReportVersion,
		Timestamp: time.Now(),
	}
	if result == nil {
		return report
	}

	a := &analyzer{
		opts:   opts,
		report: report,
		files:  make(map[string]*fileAcc),
		rules:  make(map[string]*ruleAcc),
	}

	for _, outcome := range result.Files {
		a.addOutcome(outcome)
	}

	report.Totals.Errors = a.totals.errors
	report.Totals.Warnings = a.totals.warnings
	report.Totals.Infos = a.totals.infos

	if opts.IncludeByRule {
		report.ByRule = a.byRule()
	}
	if opts.IncludeByFile {
		report.ByFile = a.byFile()
	}
	return report
}

func (a *analyzer) addOutcome(outcome runner.FileOutcome) {
	a.report.Totals.Files++
	if outcome.Error != nil {
		a.report.Totals.FilesErrored++
		return
	}
	if outcome.Result == nil || outcome.Result.FileResult == nil {
		return
	}

	path := relativePath(outcome.Path, a.opts.WorkingDir)
	file := a.file(path)

	if snapshot := outcome.Result.Snapshot; snapshot != nil && len(snapshot.Errors) > 0 {
		a.report.Totals.FilesUnparsable++
		a.report.Totals.SyntaxErrors += len(snapshot.Errors)
		file.analysis.SyntaxErrors = len(snapshot.Errors)
		for _, syntaxErr := range snapshot.Errors {
			a.report.SyntaxErrors = append(a.report.SyntaxErrors, syntaxErrorEntry(path, syntaxErr))
		}
	}

	diagnostics := outcome.Result.Diagnostics
	if len(diagnostics) > 0 {
		a.report.Totals.FilesWithIssues++
	}

	for i := range diagnostics {
		diag := &diagnostics[i]
		severity := diag.Severity
		if severity == "" {
			severity = config.SeverityWarning
		}

		a.report.Totals.Issues++
		a.totals.add(severity)
		file.analysis.Issues++
		file.counts.add(severity)
		file.rules[diag.RuleID] = struct{}{}

		rule := a.rule(diag.RuleID, diag.RuleName)
		rule.analysis.Issues++
		rule.counts.add(severity)
		rule.files[path] = struct{}{}

		if diag.HasFix() {
			a.report.Totals.Fixable++
			rule.analysis.Fixable = true
		}

		if a.opts.IncludeDiagnostics {
			a.report.Diagnostics = append(a.report.Diagnostics, a.entry(path, severity, diag))
		}
	}
}

func (a *analyzer) file(path string) *fileAcc {
	acc, ok := a.files[path]
	if !ok {
		acc = &fileAcc{analysis: FileAnalysis{Path: path}, rules: make(map[string]struct{})}
		a.files[path] = acc
	}
	return acc
}

func (a *analyzer) rule(id, name string) *ruleAcc {
	acc, ok := a.rules[id]
	if !ok {
		acc = &ruleAcc{analysis: RuleAnalysis{RuleID: id, RuleName: name}, files: make(map[string]struct{})}
		a.rules[id] = acc
	}
	return acc
}

func (a *analyzer) entry(path string, severity config.Severity, diag *lint.Diagnostic) DiagnosticEntry {
	entry := DiagnosticEntry{
		FilePath:    path,
		Rule:        config.FormatRuleID(a.opts.RuleFormat, diag.RuleID, diag.RuleName),
		RuleID:      diag.RuleID,
		RuleName:    diag.RuleName,
		Severity:    string(severity),
		Message:     diag.Message,
		StartLine:   diag.StartLine,
		StartColumn: diag.StartColumn,
		EndLine:     diag.EndLine,
		EndColumn:   diag.EndColumn,
		Suggestion:  diag.Suggestion,
		Fixable:     diag.HasFix(),
	}
	for _, edit := range diag.FixEdits {
		entry.Fixes = append(entry.Fixes, FixEntry{
			StartOffset: edit.StartOffset,
			EndOffset:   edit.EndOffset,
			NewText:     edit.NewText,
		})
	}
	return entry
}

func syntaxErrorEntry(path string, err texast.SyntaxError) SyntaxErrorEntry {
	return SyntaxErrorEntry{
		FilePath: path,
		Line:     err.Token.Row + 1,
		Column:   err.Token.Col + 1,
		Lexeme:   err.Token.Lexeme,
		Message:  err.Message,
	}
}

func (a *analyzer) byRule() []RuleAnalysis {
	out := make([]RuleAnalysis, 0, len(a.rules))
	for _, acc := range a.rules {
		ra := acc.analysis
		ra.Errors, ra.Warnings, ra.Infos = acc.counts.errors, acc.counts.warnings, acc.counts.infos
		ra.Files = sortedKeys(acc.files)
		out = append(out, ra)
	}
	slices.SortFunc(out, func(left, right RuleAnalysis) int {
		return compareEntries(a.opts, left.RuleID, right.RuleID,
			severityCounts{left.Errors, left.Warnings, left.Infos}, left.Issues,
			severityCounts{right.Errors, right.Warnings, right.Infos}, right.Issues)
	})
	return out
}

// byFile lists only files with diagnostics or syntax errors.
func (a *analyzer) byFile() []FileAnalysis {
	var out []FileAnalysis
	for _, acc := range a.files {
		fa := acc.analysis
		if fa.Issues == 0 && fa.SyntaxErrors == 0 {
			continue
		}
		fa.Errors, fa.Warnings, fa.Infos = acc.counts.errors, acc.counts.warnings, acc.counts.infos
		fa.Rules = sortedKeys(acc.rules)
		out = append(out, fa)
	}
	slices.SortFunc(out, func(left, right FileAnalysis) int {
		return compareEntries(a.opts, left.Path, right.Path,
			severityCounts{left.Errors, left.Warnings, left.Infos}, left.Issues,
			severityCounts{right.Errors, right.Warnings, right.Infos}, right.Issues)
	})
	return out
}

// compareEntries orders two aggregates. Ties fall back to the key so the
// output is deterministic regardless of map iteration order.
func compareEntries(opts Options, leftKey, rightKey string, left severityCounts, leftIssues int, right severityCounts, rightIssues int) int {
	var result int
	switch opts.SortBy {
	case SortByAlpha:
		return cmp.Compare(leftKey, rightKey)
	case SortBySeverity:
		result = cmp.Or(
			cmp.Compare(right.errors, left.errors),
			cmp.Compare(right.warnings, left.warnings),
			cmp.Compare(rightIssues, leftIssues),
		)
	default:
		result = cmp.Compare(leftIssues, rightIssues)
		if opts.SortDesc {
			result = -result
		}
	}
	return cmp.Or(result, cmp.Compare(leftKey, rightKey))
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}

// relativePath converts path to be relative to workDir when possible.
func relativePath(path, workDir string) string {
	if workDir == "" {
		return path
	}
	rel, err := filepath.Rel(workDir, path)
	if err != nil {
		return path
	}
	return rel
}
