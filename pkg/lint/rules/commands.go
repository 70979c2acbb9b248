package rules

import (
	"fmt"

	"github.com/yaklabco/texhelper/pkg/config"
	"github.com/yaklabco/texhelper/pkg/lint"
)

// fontReplacement names the declaration and the text command that replace
// an obsolete two-letter font switch.
type fontReplacement struct {
	declaration string
	command     string
}

//nolint:gochecknoglobals // lookup table
var deprecatedFonts = map[string]fontReplacement{
	"bf": {"bfseries", "textbf"},
	"it": {"itshape", "textit"},
	"rm": {"rmfamily", "textrm"},
	"sf": {"sffamily", "textsf"},
	"tt": {"ttfamily", "texttt"},
	"sl": {"slshape", "textsl"},
	"sc": {"scshape", "textsc"},
}

// DeprecatedFontRule flags the LaTeX 2.09 font switches.
type DeprecatedFontRule struct {
	lint.BaseRule
}

// NewDeprecatedFontRule creates a new deprecated font command rule.
func NewDeprecatedFontRule() *DeprecatedFontRule {
	return &DeprecatedFontRule{
		BaseRule: lint.NewBaseRule(
			"TEX003",
			"deprecated-font-command",
			`Obsolete font switches such as \bf should be replaced by \textbf or \bfseries`,
			[]string{"commands"},
			false,
		),
	}
}

// Apply reports each deprecated font switch at the command token.
func (r *DeprecatedFontRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	if ctx.File == nil || ctx.Tree == nil {
		return nil, nil
	}

	var diags []lint.Diagnostic
	for _, id := range ctx.Commands() {
		if ctx.Cancelled() {
			return diags, fmt.Errorf("rule cancelled: %w", ctx.Ctx.Err())
		}

		node := ctx.Tree.Node(id)
		repl, ok := deprecatedFonts[node.Lexeme]
		if !ok || !node.HasSpan() {
			continue
		}

		tok := ctx.File.Tokens[node.FirstToken]
		diag := lint.NewDiagnosticAtToken(r.ID(), ctx.File, tok,
			fmt.Sprintf(`Deprecated font command \%s`, node.Lexeme)).
			WithSeverity(config.SeverityWarning).
			WithSuggestion(fmt.Sprintf(`Use \%s{...} or the \%s declaration`, repl.command, repl.declaration)).
			Build()
		diags = append(diags, diag)
	}
	return diags, nil
}
