package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeprecatedFontRule(t *testing.T) {
	t.Parallel()

	diags, fixed := applyRule(t, NewDeprecatedFontRule(), "{\\bf bold} and \\textbf{ok} \\bfseries{} {\\it x}\n", nil)
	require.Len(t, diags, 2)
	assert.Equal(t, "{\\bf bold} and \\textbf{ok} \\bfseries{} {\\it x}\n", fixed)

	assert.Equal(t, "TEX003", diags[0].RuleID)
	assert.Equal(t, `Deprecated font command \bf`, diags[0].Message)
	assert.Equal(t, `Use \textbf{...} or the \bfseries declaration`, diags[0].Suggestion)
	assert.Equal(t, 1, diags[0].StartLine)
	assert.Equal(t, 2, diags[0].StartColumn)
	assert.Equal(t, 4, diags[0].EndColumn)

	assert.Equal(t, `Deprecated font command \it`, diags[1].Message)
	assert.Equal(t, `Use \textit{...} or the \itshape declaration`, diags[1].Suggestion)
}

func TestDeprecatedFontRule_AllSwitches(t *testing.T) {
	t.Parallel()

	for name, repl := range deprecatedFonts {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			diags, _ := applyRule(t, NewDeprecatedFontRule(), "{\\"+name+" x}\n", nil)
			require.Len(t, diags, 1)
			assert.Contains(t, diags[0].Suggestion, repl.command)
			assert.Contains(t, diags[0].Suggestion, repl.declaration)
		})
	}
}
