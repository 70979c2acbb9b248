// Package lint provides the rule engine, diagnostics and registry for
// texhelper.
package lint

import (
	"github.com/yaklabco/texhelper/pkg/config"
	"github.com/yaklabco/texhelper/pkg/fix"
	"github.com/yaklabco/texhelper/pkg/texast"
)

// Diagnostic is a single lint issue found in a file.
type Diagnostic struct {
	// RuleID is the identifier of the rule that produced this diagnostic.
	RuleID string

	// RuleName is the human-readable rule name (e.g. "no-eqnarray").
	RuleName string

	Message  string
	Severity config.Severity
	FilePath string

	// Positions are 1-based; EndColumn is inclusive.
	StartLine   int
	StartColumn int
	EndLine     int
	EndColumn   int

	// Suggestion is an optional human-readable fix suggestion.
	Suggestion string

	// FixEdits holds the text edits that fix this issue (may be empty).
	FixEdits []fix.TextEdit
}

// HasFix reports whether the diagnostic carries fix edits.
func (d *Diagnostic) HasFix() bool {
	return len(d.FixEdits) > 0
}

// SourcePosition returns the diagnostic span.
func (d *Diagnostic) SourcePosition() texast.SourcePosition {
	return texast.SourcePosition{
		StartLine:   d.StartLine,
		StartColumn: d.StartColumn,
		EndLine:     d.EndLine,
		EndColumn:   d.EndColumn,
	}
}

// Rule is implemented by every lint rule.
type Rule interface {
	// ID returns the unique identifier (e.g. "TEX002").
	ID() string

	// Name returns the human-readable name.
	Name() string

	Description() string
	DefaultEnabled() bool
	DefaultSeverity() config.Severity

	// Tags categorise the rule (e.g. ["math", "style"]).
	Tags() []string

	// CanFix reports whether Apply may attach fix edits.
	CanFix() bool

	// Apply checks one file. Violations are returned as diagnostics; the
	// error is reserved for internal failures. Long-running rules should
	// poll ctx.Cancelled().
	Apply(ctx *RuleContext) ([]Diagnostic, error)
}
