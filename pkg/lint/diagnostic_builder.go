package lint

import (
	"github.com/yaklabco/texhelper/pkg/config"
	"github.com/yaklabco/texhelper/pkg/fix"
	"github.com/yaklabco/texhelper/pkg/texast"
)

// DiagnosticBuilder helps construct Diagnostic values.
type DiagnosticBuilder struct {
	diag Diagnostic
}

// NewDiagnostic starts a diagnostic spanning a node. Synthetic nodes get an
// unknown position.
func NewDiagnostic(ruleID string, file *texast.FileSnapshot, id texast.NodeID, message string) *DiagnosticBuilder {
	var pos texast.SourcePosition
	var path string
	if file != nil {
		pos = file.NodePosition(id)
		path = file.Path
	}
	return NewDiagnosticAt(ruleID, path, pos, message)
}

// NewDiagnosticAtToken starts a diagnostic spanning one token.
func NewDiagnosticAtToken(ruleID string, file *texast.FileSnapshot, tok texast.Token, message string) *DiagnosticBuilder {
	return NewDiagnosticAtRange(ruleID, file, tok.Offset, tok.End, message)
}

// NewDiagnosticAtRange starts a diagnostic spanning the bytes [start, end).
func NewDiagnosticAtRange(ruleID string, file *texast.FileSnapshot, start, end int, message string) *DiagnosticBuilder {
	return NewDiagnosticAt(ruleID, file.Path, file.RangePosition(start, end), message)
}

// NewDiagnosticAt starts a diagnostic at an explicit position.
func NewDiagnosticAt(ruleID, filePath string, pos texast.SourcePosition, message string) *DiagnosticBuilder {
	return &DiagnosticBuilder{
		diag: Diagnostic{
			RuleID:      ruleID,
			Message:     message,
			FilePath:    filePath,
			StartLine:   pos.StartLine,
			StartColumn: pos.StartColumn,
			EndLine:     pos.EndLine,
			EndColumn:   pos.EndColumn,
		},
	}
}

// WithSeverity sets the severity.
func (b *DiagnosticBuilder) WithSeverity(s config.Severity) *DiagnosticBuilder {
	b.diag.Severity = s
	return b
}

// WithSuggestion sets a human-readable fix suggestion.
func (b *DiagnosticBuilder) WithSuggestion(s string) *DiagnosticBuilder {
	b.diag.Suggestion = s
	return b
}

// WithFix adds the edits accumulated in builder.
func (b *DiagnosticBuilder) WithFix(builder *fix.EditBuilder) *DiagnosticBuilder {
	if builder != nil {
		b.diag.FixEdits = append(b.diag.FixEdits, builder.Edits...)
	}
	return b
}

// WithEdit adds a single fix edit.
func (b *DiagnosticBuilder) WithEdit(edit fix.TextEdit) *DiagnosticBuilder {
	b.diag.FixEdits = append(b.diag.FixEdits, edit)
	return b
}

// Build returns the constructed Diagnostic.
func (b *DiagnosticBuilder) Build() Diagnostic {
	return b.diag
}
