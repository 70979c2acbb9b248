// Package pretty renders diagnostics, tables and summaries for a terminal
// with lipgloss.
package pretty

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// ANSI palette indexes. The 16 basic colours follow the user's terminal theme.
const (
	colorLight   = "7"
	colorGray    = "8"
	colorRed     = "9"
	colorGreen   = "10"
	colorYellow  = "11"
	colorBlue    = "12"
	colorCyan    = "14"
	colorDefault = ""
)

// Styles holds one style per visual role. With colour disabled every
// field is the zero style and renders text unchanged.
type Styles struct {
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style

	FilePath   lipgloss.Style
	RuleID     lipgloss.Style
	Message    lipgloss.Style
	Suggestion lipgloss.Style
	SourceLine lipgloss.Style
	Caret      lipgloss.Style

	DiffHeader  lipgloss.Style
	DiffHunk    lipgloss.Style
	DiffAdd     lipgloss.Style
	DiffRemove  lipgloss.Style
	DiffContext lipgloss.Style

	SummaryTitle lipgloss.Style
	SummaryValue lipgloss.Style
	Success      lipgloss.Style
	Failure      lipgloss.Style

	TableHeader  lipgloss.Style
	TableBorder  lipgloss.Style
	TableFixable lipgloss.Style
	TableLegend  lipgloss.Style

	// BuildStep and BuildLog style compile progress and captured engine output.
	BuildStep lipgloss.Style
	BuildLog  lipgloss.Style

	Dim  lipgloss.Style
	Bold lipgloss.Style
}

type attr uint8

const (
	bold attr = 1 << iota
	italic
)

// NewStyles returns the styles for a writer with or without colour.
func NewStyles(colorEnabled bool) *Styles {
	style := func(color string, attrs attr) lipgloss.Style {
		s := lipgloss.NewStyle()
		if !colorEnabled {
			return s
		}
		if color != colorDefault {
			s = s.Foreground(lipgloss.Color(color))
		}
		return s.Bold(attrs&bold != 0).Italic(attrs&italic != 0)
	}

	return &Styles{
		Error:   style(colorRed, bold),
		Warning: style(colorYellow, bold),
		Info:    style(colorBlue, bold),

		FilePath:   style(colorDefault, bold),
		RuleID:     style(colorGray, 0),
		Message:    style(colorDefault, 0),
		Suggestion: style(colorGreen, italic),
		SourceLine: style(colorLight, 0),
		Caret:      style(colorRed, bold),

		DiffHeader:  style(colorDefault, bold),
		DiffHunk:    style(colorCyan, 0),
		DiffAdd:     style(colorGreen, 0),
		DiffRemove:  style(colorRed, 0),
		DiffContext: style(colorGray, 0),

		SummaryTitle: style(colorDefault, bold),
		SummaryValue: style(colorDefault, 0),
		Success:      style(colorGreen, bold),
		Failure:      style(colorRed, bold),

		TableHeader:  style(colorLight, bold),
		TableBorder:  style(colorGray, 0),
		TableFixable: style(colorGreen, 0),
		TableLegend:  style(colorGray, italic),

		BuildStep: style(colorCyan, bold),
		BuildLog:  style(colorGray, 0),

		Dim:  style(colorGray, 0),
		Bold: style(colorDefault, bold),
	}
}

// TerminalWidth returns the column count of the terminal behind w, or
// fallback when w is not a terminal.
func TerminalWidth(w io.Writer, fallback int) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return fallback
	}
	if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
		return width
	}
	return fallback
}

// IsColorEnabled resolves a --color mode of always, never or auto for w.
// Auto honours NO_COLOR and otherwise requires a terminal.
func IsColorEnabled(mode string, w io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}
