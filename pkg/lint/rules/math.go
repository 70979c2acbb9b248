package rules

import (
	"fmt"

	"github.com/yaklabco/texhelper/pkg/config"
	"github.com/yaklabco/texhelper/pkg/fix"
	"github.com/yaklabco/texhelper/pkg/lint"
	"github.com/yaklabco/texhelper/pkg/texast"
)

// DollarDisplayMathRule flags plain TeX $$ ... $$ display math.
type DollarDisplayMathRule struct {
	lint.BaseRule
}

// NewDollarDisplayMathRule creates a new display math delimiter rule.
func NewDollarDisplayMathRule() *DollarDisplayMathRule {
	return &DollarDisplayMathRule{
		BaseRule: lint.NewBaseRule(
			"TEX002",
			"no-dollar-display-math",
			`Display math should use \[ ... \] instead of $$ ... $$`,
			[]string{"math"},
			true,
		),
	}
}

// Apply rewrites both delimiters of every $$ block.
func (r *DollarDisplayMathRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	if ctx.File == nil || ctx.Tree == nil {
		return nil, nil
	}

	var diags []lint.Diagnostic
	for _, id := range ctx.DisplayMath() {
		if ctx.Cancelled() {
			return diags, fmt.Errorf("rule cancelled: %w", ctx.Ctx.Err())
		}

		node := ctx.Tree.Node(id)
		if !node.HasSpan() || node.LastToken >= len(ctx.File.Tokens) {
			continue
		}
		open := ctx.File.Tokens[node.FirstToken]
		closing := ctx.File.Tokens[node.LastToken]
		if open.Kind != texast.TokDoubleDollar || closing.Kind != texast.TokDoubleDollar {
			continue
		}

		builder := fix.NewEditBuilder()
		builder.ReplaceToken(open, `\[`)
		builder.ReplaceToken(closing, `\]`)

		diag := lint.NewDiagnostic(r.ID(), ctx.File, id, "Display math uses $$ delimiters").
			WithSeverity(config.SeverityWarning).
			WithSuggestion(`Use \[ ... \] for display math`).
			WithFix(builder).
			Build()
		diags = append(diags, diag)
	}
	return diags, nil
}

// EqnarrayRule flags eqnarray environments.
type EqnarrayRule struct {
	lint.BaseRule
}

// NewEqnarrayRule creates a new eqnarray rule.
func NewEqnarrayRule() *EqnarrayRule {
	return &EqnarrayRule{
		BaseRule: lint.NewBaseRule(
			"TEX004",
			"no-eqnarray",
			"The eqnarray environment should be replaced by align from amsmath",
			[]string{"math", "environments"},
			false,
		),
	}
}

// Apply reports each eqnarray and eqnarray* environment at its \begin.
func (r *EqnarrayRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	if ctx.File == nil || ctx.Tree == nil {
		return nil, nil
	}

	var diags []lint.Diagnostic
	for _, id := range ctx.Environments() {
		if ctx.Cancelled() {
			return diags, fmt.Errorf("rule cancelled: %w", ctx.Ctx.Err())
		}

		name := ctx.Tree.Lexeme(id)
		if name != "eqnarray" && name != "eqnarray*" {
			continue
		}
		start, end, ok := beginRange(ctx.File, id)
		if !ok {
			continue
		}

		replacement := "align"
		if name == "eqnarray*" {
			replacement = "align*"
		}
		diag := lint.NewDiagnosticAtRange(r.ID(), ctx.File, start, end,
			fmt.Sprintf("Environment %q is deprecated", name)).
			WithSeverity(config.SeverityWarning).
			WithSuggestion(fmt.Sprintf("Use the %s environment from amsmath", replacement)).
			Build()
		diags = append(diags, diag)
	}
	return diags, nil
}
