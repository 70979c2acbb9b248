// Package format re-indents and normalises whitespace in parsed LaTeX
// sources.
package format

import (
	"bytes"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/yaklabco/texhelper/pkg/config"
	"github.com/yaklabco/texhelper/pkg/parser/latex"
	"github.com/yaklabco/texhelper/pkg/texast"
)

// ErrSyntax is returned when the source has parse diagnostics. Formatting a
// broken tree would move text across environment boundaries.
var ErrSyntax = errors.New("refusing to format a file with syntax errors")

// Options controls the formatter.
type Options struct {
	// IndentWidth is the number of spaces per environment level.
	IndentWidth int

	// UseTabs indents with one tab per level instead of spaces.
	UseTabs bool

	// MaxBlankLines caps runs of blank lines. Zero removes them.
	MaxBlankLines int

	// IndentDocument indents the body of the document environment.
	IndentDocument bool

	// Verbatim lists environments whose bodies are copied unchanged.
	Verbatim []string
}

// DefaultOptions returns the formatter defaults.
func DefaultOptions() Options {
	return OptionsFromConfig(config.NewConfig().Format)
}

// OptionsFromConfig converts the format section of a config.
func OptionsFromConfig(cfg config.FormatConfig) Options {
	return Options{
		IndentWidth:    max(0, cfg.IndentWidth),
		UseTabs:        cfg.UseTabs,
		MaxBlankLines:  max(0, cfg.MaxBlankLines),
		IndentDocument: cfg.IndentDocument,
		Verbatim:       slices.Clone(cfg.Verbatim),
	}
}

// inlineVerbatim commands take an argument whose spacing is significant.
var inlineVerbatim = map[string]bool{ //nolint:gochecknoglobals // lookup table
	"verb":       true,
	"lstinline":  true,
	"mintinline": true,
}

// lineLayout is what the tree says about one source line.
type lineLayout struct {
	depth    int
	verbatim bool

	// commentAt is the byte index of the line's '%', or -1.
	commentAt int

	// keepSpacing is set on lines holding inline verbatim commands.
	keepSpacing bool
}

// Format returns the formatted content of a parsed file:
//   - trailing whitespace is removed
//   - runs of blanks outside comments collapse to one space
//   - blank-line runs are capped at MaxBlankLines
//   - each line is indented to its environment depth
//   - the output ends with exactly one newline
//
// Lines inside verbatim environments are preserved byte for byte. Format is
// idempotent.
func Format(snap *texast.FileSnapshot, opts Options) ([]byte, error) {
	if snap == nil || snap.Tree == nil {
		return nil, errors.New("format: snapshot has not been parsed")
	}
	if len(snap.Errors) > 0 {
		src := latex.Source{Path: snap.Path, Text: string(snap.Content)}
		return nil, fmt.Errorf("%w:\n%s", ErrSyntax, latex.RenderDiagnostics(snap.Errors, src))
	}

	layout := analyze(snap, opts)
	indent := strings.Repeat(" ", opts.IndentWidth)
	if opts.UseTabs {
		indent = "\t"
	}

	var out bytes.Buffer
	out.Grow(len(snap.Content))

	blanks := 0
	pending := 0
	for row := range snap.Lines {
		raw := string(snap.LineContent(row + 1))
		info := layout[row]

		if info.verbatim {
			flushBlanks(&out, &pending)
			blanks = 0
			// A CR left before the line break would read back as CRLF.
			out.WriteString(strings.TrimRight(raw, "\r"))
			out.WriteByte('\n')
			continue
		}

		text := normalizeLine(raw, info)
		if text == "" {
			blanks++
			if out.Len() > 0 && blanks <= opts.MaxBlankLines {
				pending++
			}
			continue
		}

		flushBlanks(&out, &pending)
		blanks = 0
		out.WriteString(strings.Repeat(indent, info.depth))
		out.WriteString(text)
		out.WriteByte('\n')
	}

	return out.Bytes(), nil
}

// flushBlanks writes blank lines held back until more content arrives, so
// trailing blank lines are never emitted.
func flushBlanks(out *bytes.Buffer, pending *int) {
	for ; *pending > 0; *pending-- {
		out.WriteByte('\n')
	}
}

// normalizeLine strips leading and trailing blanks and collapses interior
// runs outside the comment.
func normalizeLine(raw string, info lineLayout) string {
	if info.keepSpacing {
		// A % inside \verb is not a comment, so the line is only trimmed.
		return strings.Trim(raw, lineBlanks)
	}

	code, comment := raw, ""
	if info.commentAt >= 0 && info.commentAt <= len(raw) {
		code, comment = raw[:info.commentAt], raw[info.commentAt:]
	}
	code = collapseBlanks(strings.TrimLeft(code, lineBlanks))
	return strings.TrimRight(code+comment, lineBlanks)
}

// lineBlanks are the characters trimmed from line ends. A lone CR is a
// separator to the scanner, so it counts as a blank here.
const lineBlanks = " \t\r"

func collapseBlanks(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	inRun := false
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\r' {
			if !inRun {
				sb.WriteByte(' ')
			}
			inRun = true
			continue
		}
		inRun = false
		sb.WriteRune(r)
	}
	return sb.String()
}

// analyze derives per-line depth, verbatim and comment positions from the
// tree and token stream.
func analyze(snap *texast.FileSnapshot, opts Options) []lineLayout {
	n := len(snap.Lines)
	layout := make([]lineLayout, n)

	// delta[r] changes the depth from line r on.
	delta := make([]int, n+1)
	for _, id := range texast.FindByKind(snap.Tree, texast.NodeEnvr) {
		node := snap.Tree.Node(id)
		if !node.HasSpan() || node.LastToken >= len(snap.Tokens) {
			continue
		}
		beginRow := snap.Tokens[node.FirstToken].Row
		endRow := min(snap.Tokens[node.LastToken].Row, n)
		if endRow <= beginRow+1 {
			continue
		}

		if isVerbatim(node.Lexeme, opts.Verbatim) {
			for row := beginRow + 1; row < endRow; row++ {
				layout[row].verbatim = true
			}
		}
		if node.Lexeme == "document" && !opts.IndentDocument {
			continue
		}
		delta[beginRow+1]++
		delta[endRow]--
	}

	depth := 0
	for row := range layout {
		depth += delta[row]
		layout[row].depth = depth
		layout[row].commentAt = -1
	}

	for _, tok := range snap.Tokens {
		if tok.Row < 0 || tok.Row >= n {
			continue
		}
		switch tok.Kind {
		case texast.TokComment:
			if layout[tok.Row].commentAt < 0 {
				layout[tok.Row].commentAt = tok.Offset - snap.Lines[tok.Row].StartOffset
			}
		case texast.TokCommand:
			if inlineVerbatim[tok.Lexeme] {
				layout[tok.Row].keepSpacing = true
			}
		}
	}

	return layout
}

func isVerbatim(name string, verbatim []string) bool {
	base := strings.TrimSuffix(name, "*")
	return slices.Contains(verbatim, name) || slices.Contains(verbatim, base)
}
