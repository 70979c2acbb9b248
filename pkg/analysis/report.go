package analysis

import "time"

// Report contains pre-computed views of a lint run. It is computed once by
// Analyze and shared by every renderer.
type Report struct {
	Diagnostics []DiagnosticEntry `json:"diagnostics,omitempty"`

	// SyntaxErrors lists parser diagnostics, which are reported separately
	// from rule output so a broken file is visible even with TEX001 disabled.
	SyntaxErrors []SyntaxErrorEntry `json:"syntaxErrors,omitempty"`

	ByFile []FileAnalysis `json:"byFile,omitempty"`
	ByRule []RuleAnalysis `json:"byRule,omitempty"`

	Totals Totals `json:"summary"`

	// Version is the report format version.
	Version   string    `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

// DiagnosticEntry is a single diagnostic in the report.
type DiagnosticEntry struct {
	FilePath string `json:"filePath"`

	// Rule is the identifier spelled according to Options.RuleFormat.
	Rule        string     `json:"rule"`
	RuleID      string     `json:"ruleId"`
	RuleName    string     `json:"ruleName"`
	Severity    string     `json:"severity"`
	Message     string     `json:"message"`
	StartLine   int        `json:"startLine"`
	StartColumn int        `json:"startColumn"`
	EndLine     int        `json:"endLine"`
	EndColumn   int        `json:"endColumn"`
	Suggestion  string     `json:"suggestion,omitempty"`
	Fixable     bool       `json:"fixable"`
	Fixes       []FixEntry `json:"fixes,omitempty"`
}

// SyntaxErrorEntry is one parser diagnostic. Line and Column are 1-based.
type SyntaxErrorEntry struct {
	FilePath string `json:"filePath"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Lexeme   string `json:"lexeme"`
	Message  string `json:"message"`
}

// FixEntry is a byte-offset text edit.
type FixEntry struct {
	StartOffset int    `json:"startOffset"`
	EndOffset   int    `json:"endOffset"`
	NewText     string `json:"newText"`
}

// Totals contains aggregate statistics for the report.
type Totals struct {
	Files           int `json:"filesChecked"`
	FilesWithIssues int `json:"filesWithIssues"`
	FilesUnparsable int `json:"filesUnparsable"`
	FilesErrored    int `json:"filesErrored"`
	Issues          int `json:"totalIssues"`
	Errors          int `json:"errors"`
	Warnings        int `json:"warnings"`
	Infos           int `json:"infos"`
	Fixable         int `json:"fixable"`
	SyntaxErrors    int `json:"syntaxErrors"`
}

// HasIssues reports whether any diagnostic or syntax error was found.
func (t Totals) HasIssues() bool {
	return t.Issues > 0 || t.SyntaxErrors > 0
}

// HasErrors reports whether anything would fail a lint run: an
// error-severity diagnostic, a syntax error or a file that could not be read.
// Syntax errors count even when the syntax-error rule is disabled.
func (t Totals) HasErrors() bool {
	return t.Errors > 0 || t.SyntaxErrors > 0 || t.FilesErrored > 0
}

// FileAnalysis contains aggregated data for a single file.
type FileAnalysis struct {
	Path         string   `json:"path"`
	Issues       int      `json:"issues"`
	Errors       int      `json:"errors"`
	Warnings     int      `json:"warnings"`
	Infos        int      `json:"infos"`
	SyntaxErrors int      `json:"syntaxErrors,omitempty"`
	Rules        []string `json:"rules,omitempty"`
}

// RuleAnalysis contains aggregated data for a single rule.
type RuleAnalysis struct {
	RuleID   string   `json:"ruleId"`
	RuleName string   `json:"ruleName"`
	Issues   int      `json:"issues"`
	Errors   int      `json:"errors"`
	Warnings int      `json:"warnings"`
	Infos    int      `json:"infos"`
	Fixable  bool     `json:"fixable"`
	Files    []string `json:"files,omitempty"`
}
