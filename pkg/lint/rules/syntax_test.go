package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/texhelper/pkg/config"
)

func TestSyntaxErrorRule(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		wantDiags int
		wantLine  int
		wantCol   int
	}{
		{
			name:      "clean document",
			input:     "\\section{Intro}\nSome $x^2$ text.\n",
			wantDiags: 0,
		},
		{
			name:      "stray closing brace",
			input:     "a } b\n",
			wantDiags: 1,
			wantLine:  1,
			wantCol:   3,
		},
		{
			name:      "unclosed environment",
			input:     "\\begin{itemize}\n\\item x\n",
			wantDiags: 1,
			wantLine:  1,
			wantCol:   1,
		},
		{
			name:      "unmatched dollar on second line",
			input:     "ok\nsee $x\n",
			wantDiags: 1,
			wantLine:  2,
			wantCol:   5,
		},
	}

	rule := NewSyntaxErrorRule()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			diags, fixed := applyRule(t, rule, tt.input, nil)
			require.Len(t, diags, tt.wantDiags)
			assert.Equal(t, tt.input, fixed, "syntax errors have no fix")
			if tt.wantDiags == 0 {
				return
			}
			assert.Equal(t, "TEX001", diags[0].RuleID)
			assert.Equal(t, config.SeverityError, diags[0].Severity)
			assert.Equal(t, tt.wantLine, diags[0].StartLine)
			assert.Equal(t, tt.wantCol, diags[0].StartColumn)
			assert.NotEmpty(t, diags[0].Message)
		})
	}
}

func TestSyntaxErrorRule_DefaultSeverity(t *testing.T) {
	t.Parallel()

	assert.Equal(t, config.SeverityError, NewSyntaxErrorRule().DefaultSeverity())
	assert.False(t, NewSyntaxErrorRule().CanFix())
}
