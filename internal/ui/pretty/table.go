package pretty

import (
	"strings"

	"github.com/yaklabco/texhelper/pkg/config"
)

const (
	fixableSymbol     = "+"
	tablePadding      = 2
	minDescription    = 20
	defaultTermWidth  = 100
	ruleTableColumns  = 4 // ID, NAME, SEVERITY, FIX before DESCRIPTION
	fixColumnWidth    = 3
	ellipsis          = "..."
	tableRuleSeparate = "-"
)

// RuleTable renders rule metadata as an aligned table sized to a terminal.
type RuleTable struct {
	styles    *Styles
	termWidth int
}

// NewRuleTable creates a rule table renderer. A non-positive termWidth uses
// a default of 100 columns.
func NewRuleTable(styles *Styles, termWidth int) *RuleTable {
	if termWidth <= 0 {
		termWidth = defaultTermWidth
	}
	return &RuleTable{styles: styles, termWidth: termWidth}
}

// Format renders one row per rule. Disabled rules are dimmed.
func (t *RuleTable) Format(rules []config.RuleInfo) string {
	if len(rules) == 0 {
		return ""
	}

	idWidth, nameWidth, sevWidth := len("ID"), len("NAME"), len("SEVERITY")
	for _, r := range rules {
		idWidth = max(idWidth, len(r.ID))
		nameWidth = max(nameWidth, len(r.Name))
		sevWidth = max(sevWidth, len(r.Severity))
	}
	fixed := idWidth + nameWidth + sevWidth + fixColumnWidth + ruleTableColumns*tablePadding
	descWidth := max(minDescription, t.termWidth-fixed)

	var builder strings.Builder

	header := pad("ID", idWidth) + pad("NAME", nameWidth) + pad("SEVERITY", sevWidth) +
		pad("FIX", fixColumnWidth) + "DESCRIPTION"
	builder.WriteString(t.styles.TableHeader.Render(header) + "\n")
	builder.WriteString(t.styles.TableBorder.Render(strings.Repeat(tableRuleSeparate, fixed+descWidth)) + "\n")

	for _, r := range rules {
		fixMark := ""
		if r.CanFix {
			fixMark = fixableSymbol
		}

		row := pad(r.ID, idWidth) + pad(r.Name, nameWidth)
		severity := pad(string(r.Severity), sevWidth)
		fixCell := pad(fixMark, fixColumnWidth)
		desc := truncate(r.Description, descWidth)

		if !r.Enabled {
			builder.WriteString(t.styles.Dim.Render(row+severity+fixCell+desc) + "\n")
			continue
		}
		builder.WriteString(row + t.severityStyle(r.Severity, severity) +
			t.styles.TableFixable.Render(fixCell) + desc + "\n")
	}

	builder.WriteString(t.styles.TableLegend.Render(fixableSymbol+" = auto-fixable with --fix; dimmed rules are disabled by default") + "\n")
	return builder.String()
}

func (t *RuleTable) severityStyle(sev config.Severity, text string) string {
	switch sev {
	case config.SeverityError:
		return t.styles.Error.Render(text)
	case config.SeverityWarning:
		return t.styles.Warning.Render(text)
	case config.SeverityInfo:
		return t.styles.Info.Render(text)
	default:
		return text
	}
}

// pad left-aligns s in a column of width plus the table padding.
func pad(s string, width int) string {
	return s + strings.Repeat(" ", max(0, width-len(s))+tablePadding)
}

// truncate shortens s to maxLen bytes, marking the cut with an ellipsis.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= len(ellipsis) {
		return s[:maxLen]
	}
	return s[:maxLen-len(ellipsis)] + ellipsis
}
