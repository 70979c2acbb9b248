package pretty

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/yaklabco/texhelper/pkg/config"
	"github.com/yaklabco/texhelper/pkg/lint"
	"github.com/yaklabco/texhelper/pkg/parser/latex"
	"github.com/yaklabco/texhelper/pkg/texast"
)

const (
	// contextIndent aligns source context under the diagnostic line.
	contextIndent = "        "

	// renderedTabWidth is how wide lipgloss renders a tab.
	renderedTabWidth = 4
)

// FormatDiagnostic formats a single diagnostic for terminal output using
// rule IDs.
func (s *Styles) FormatDiagnostic(diag *lint.Diagnostic, showContext bool, sourceLine string) string {
	return s.FormatDiagnosticWithFormat(diag, showContext, sourceLine, config.RuleFormatID)
}

// FormatDiagnosticWithFormat formats a diagnostic with configurable rule identifier format.
func (s *Styles) FormatDiagnosticWithFormat(diag *lint.Diagnostic, showContext bool, sourceLine string, ruleFormat config.RuleFormat) string {
	var builder strings.Builder

	location := fmt.Sprintf("%s:%d:%d",
		s.FilePath.Render(diag.FilePath),
		diag.StartLine,
		diag.StartColumn,
	)

	ruleIdentifier := config.FormatRuleID(ruleFormat, diag.RuleID, diag.RuleName)

	fmt.Fprintf(&builder, "  %s  %s  %s  %s\n",
		location,
		s.FormatSeverity(diag.Severity),
		s.Message.Render(diag.Message),
		s.RuleID.Render("("+ruleIdentifier+")"),
	)

	if showContext && sourceLine != "" {
		width := 1
		if diag.EndLine == diag.StartLine && diag.EndColumn >= diag.StartColumn {
			width = diag.EndColumn - diag.StartColumn + 1
		}
		builder.WriteString(s.FormatSourceContext(sourceLine, diag.StartColumn, width))
	}

	if diag.Suggestion != "" {
		builder.WriteString("    " + s.Dim.Render("Suggestion:") + " " +
			s.Suggestion.Render(diag.Suggestion) + "\n")
	}

	return builder.String()
}

// FormatSeverity returns a styled severity string.
func (s *Styles) FormatSeverity(sev config.Severity) string {
	switch sev {
	case config.SeverityError:
		return s.Error.Render("error")
	case config.SeverityWarning:
		return s.Warning.Render("warning")
	case config.SeverityInfo:
		return s.Info.Render("info")
	default:
		return string(sev)
	}
}

// FormatSourceContext prints line with width carets under the 1-based byte
// column. Columns past the end of the line are clamped.
func (s *Styles) FormatSourceContext(line string, column, width int) string {
	var builder strings.Builder

	builder.WriteString(contextIndent + s.SourceLine.Render(line) + "\n")

	if column > 0 {
		column = min(column, len(line)+1)
		width = max(1, min(width, len(line)-column+1))
		builder.WriteString(contextIndent + padTo(line, column-1))
		builder.WriteString(s.Caret.Render(strings.Repeat("^", width)) + "\n")
	}

	return builder.String()
}

// FormatSyntaxError renders a parser diagnostic in the same layout as
// latex.RenderDiagnostic, with colour. Tabs are expanded, so for lines
// without tabs the plain output is identical.
func (s *Styles) FormatSyntaxError(tok texast.Token, msg string, src latex.Source) string {
	var builder strings.Builder
	line := src.Line(tok.Row)

	builder.WriteString(s.FilePath.Render(src.Path + ":" + strconv.Itoa(tok.Row+1) + ":" + strconv.Itoa(tok.Col+1)))
	builder.WriteString(" " + s.Error.Render("ERROR:") + " " + s.Message.Render(msg) + "\n")
	builder.WriteString(" " + s.SourceLine.Render(line) + "\n")

	prefix := line
	if idx := runeOffset(line, tok.Col); idx >= 0 {
		prefix = line[:idx]
	}
	builder.WriteString(" " + padTo(prefix, len(prefix)) + strings.Repeat(" ", max(0, tok.Col-utf8.RuneCountInString(prefix))))
	builder.WriteString(s.Caret.Render(strings.Repeat("^", max(1, utf8.RuneCountInString(tok.Lexeme)))) + "\n")

	return builder.String()
}

// FormatSyntaxErrors renders every parser diagnostic in order.
func (s *Styles) FormatSyntaxErrors(errs texast.SyntaxErrors, src latex.Source) string {
	var builder strings.Builder
	for _, e := range errs {
		builder.WriteString(s.FormatSyntaxError(e.Token, e.Message, src))
	}
	return builder.String()
}

// FormatFileHeader formats a file header for grouped output.
func (s *Styles) FormatFileHeader(path string, issueCount int) string {
	header := s.FilePath.Render(path)
	if issueCount > 0 {
		header += s.Dim.Render(fmt.Sprintf(" (%d issues)", issueCount))
	}
	return header
}

// padTo returns padding as wide as the first n bytes of line once rendered:
// one column per rune, renderedTabWidth per tab.
func padTo(line string, n int) string {
	n = min(n, len(line))
	var sb strings.Builder
	for _, r := range line[:n] {
		if r == '\t' {
			sb.WriteString(strings.Repeat(" ", renderedTabWidth))
		} else {
			sb.WriteByte(' ')
		}
	}
	return sb.String()
}

// runeOffset returns the byte offset of the col-th rune, or -1 when the line
// is shorter.
func runeOffset(line string, col int) int {
	i := 0
	for idx := range line {
		if i == col {
			return idx
		}
		i++
	}
	if i == col {
		return len(line)
	}
	return -1
}
