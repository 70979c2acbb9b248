package rules

import (
	"fmt"

	"github.com/yaklabco/texhelper/pkg/config"
	"github.com/yaklabco/texhelper/pkg/lint"
)

// SyntaxErrorRule surfaces the parser's syntax errors as diagnostics.
type SyntaxErrorRule struct {
	lint.BaseRule
}

// NewSyntaxErrorRule creates a new syntax error rule.
func NewSyntaxErrorRule() *SyntaxErrorRule {
	return &SyntaxErrorRule{
		BaseRule: lint.NewBaseRule(
			"TEX001",
			"syntax-error",
			"The document must parse without structural errors",
			[]string{"syntax"},
			false,
		),
	}
}

// DefaultSeverity reports syntax errors as errors.
func (r *SyntaxErrorRule) DefaultSeverity() config.Severity {
	return config.SeverityError
}

// Apply reports one diagnostic per syntax error, anchored at its token.
func (r *SyntaxErrorRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	if ctx.File == nil || !ctx.File.HasErrors() {
		return nil, nil
	}

	diags := make([]lint.Diagnostic, 0, len(ctx.File.Errors))
	for _, synErr := range ctx.File.Errors {
		if ctx.Cancelled() {
			return diags, fmt.Errorf("rule cancelled: %w", ctx.Ctx.Err())
		}

		diag := lint.NewDiagnosticAtToken(r.ID(), ctx.File, synErr.Token, synErr.Message).
			WithSeverity(config.SeverityError).
			Build()
		diags = append(diags, diag)
	}
	return diags, nil
}
