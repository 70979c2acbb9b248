package pretty_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/texhelper/internal/ui/pretty"
	"github.com/yaklabco/texhelper/pkg/config"
)

func TestRuleTable_Format(t *testing.T) {
	t.Parallel()

	rules := []config.RuleInfo{
		{ID: "TEX001", Name: "syntax-error", Description: "Reports parser diagnostics", Enabled: true, Severity: config.SeverityError},
		{ID: "TEX006", Name: "no-trailing-whitespace", Description: "Disallows trailing whitespace", Enabled: true, Severity: config.SeverityWarning, CanFix: true},
	}

	out := pretty.NewRuleTable(pretty.NewStyles(false), 0).Format(rules)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 5)

	assert.Equal(t, "ID      NAME                    SEVERITY  FIX  DESCRIPTION", lines[0])
	assert.Equal(t, "TEX001  syntax-error            error          Reports parser diagnostics", lines[2])
	assert.Equal(t, "TEX006  no-trailing-whitespace  warning   +    Disallows trailing whitespace", lines[3])
	assert.Contains(t, lines[4], "auto-fixable")
}

func TestRuleTable_TruncatesDescription(t *testing.T) {
	t.Parallel()

	rules := []config.RuleInfo{
		{ID: "TEX008", Name: "line-length", Description: strings.Repeat("long ", 40), Enabled: true, Severity: config.SeverityInfo},
	}

	out := pretty.NewRuleTable(pretty.NewStyles(false), 60).Format(rules)
	row := strings.Split(out, "\n")[2]
	assert.True(t, strings.HasSuffix(row, "..."), "row %q should be truncated", row)
	assert.LessOrEqual(t, len(row), 60)
}

func TestRuleTable_Empty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, pretty.NewRuleTable(pretty.NewStyles(false), 80).Format(nil))
}
