package latex

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/yaklabco/texhelper/pkg/texast"
)

// Source names the text a diagnostic points into.
type Source struct {
	Path string
	Text string
}

// Line returns the 0-based row of the source without its terminator.
// Rows past the end yield "".
func (s Source) Line(row int) string {
	if row < 0 {
		return ""
	}
	text := s.Text
	for ; row > 0; row-- {
		idx := strings.IndexByte(text, '\n')
		if idx < 0 {
			return ""
		}
		text = text[idx+1:]
	}
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		text = text[:idx]
	}
	return strings.TrimSuffix(text, "\r")
}

// RenderDiagnostic formats one error as three lines:
//
//	path:row:col ERROR: message
//	 <source line>
//	<col spaces><carets under the token>
//
// The source line sits behind a one-column gutter so the caret indent of
// col+1 spaces lines up with the token.
func RenderDiagnostic(tok texast.Token, msg string, src Source) string {
	var sb strings.Builder
	writeDiagnostic(&sb, tok, msg, src)
	return sb.String()
}

// RenderDiagnostics renders every error in order.
func RenderDiagnostics(errs texast.SyntaxErrors, src Source) string {
	var sb strings.Builder
	for _, e := range errs {
		writeDiagnostic(&sb, e.Token, e.Message, src)
	}
	return sb.String()
}

func writeDiagnostic(sb *strings.Builder, tok texast.Token, msg string, src Source) {
	line := src.Line(tok.Row)

	sb.WriteString(src.Path)
	sb.WriteByte(':')
	sb.WriteString(strconv.Itoa(tok.Row + 1))
	sb.WriteByte(':')
	sb.WriteString(strconv.Itoa(tok.Col + 1))
	sb.WriteString(" ERROR: ")
	sb.WriteString(msg)
	sb.WriteByte('\n')

	sb.WriteByte(' ')
	sb.WriteString(line)
	sb.WriteByte('\n')

	sb.WriteString(caretIndent(line, tok.Col))
	sb.WriteString(strings.Repeat("^", max(1, utf8.RuneCountInString(tok.Lexeme))))
	sb.WriteByte('\n')
}

// caretIndent returns col+1 columns of padding. Tabs in the source line are
// copied so the carets stay aligned in a terminal.
func caretIndent(line string, col int) string {
	var sb strings.Builder
	sb.WriteByte(' ')
	i := 0
	for _, r := range line {
		if i >= col {
			break
		}
		if r == '\t' {
			sb.WriteByte('\t')
		} else {
			sb.WriteByte(' ')
		}
		i++
	}
	for ; i < col; i++ {
		sb.WriteByte(' ')
	}
	return sb.String()
}
