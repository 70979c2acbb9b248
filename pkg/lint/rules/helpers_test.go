package rules

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yaklabco/texhelper/pkg/config"
	"github.com/yaklabco/texhelper/pkg/fix"
	"github.com/yaklabco/texhelper/pkg/lint"
	"github.com/yaklabco/texhelper/pkg/parser/latex"
)

// applyRule parses input, runs rule over it and returns the diagnostics
// together with the content after applying every fix edit.
func applyRule(t *testing.T, rule lint.Rule, input string, options map[string]any) ([]lint.Diagnostic, string) {
	t.Helper()

	parser := latex.New(latex.DefaultOptions())
	snapshot, err := parser.Parse(context.Background(), "test.tex", []byte(input))
	require.NoError(t, err)

	ruleCtx := lint.NewRuleContext(context.Background(), snapshot, config.NewConfig(), &config.RuleConfig{Options: options})
	diags, err := rule.Apply(ruleCtx)
	require.NoError(t, err)

	var edits []fix.TextEdit
	for _, d := range diags {
		edits = append(edits, d.FixEdits...)
	}
	result, err := fix.Apply([]byte(input), edits)
	require.NoError(t, err)
	require.Empty(t, result.Skipped, "fix edits of one rule must not conflict")

	return diags, string(result.Content)
}
