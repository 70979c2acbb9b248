package mdconvert

import (
	"bytes"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// KindMath is the node kind of TeX math embedded in Markdown.
var KindMath = ast.NewNodeKind("Math")

// Math is an inline $...$ or display $$...$$ span. Its value is passed
// through to LaTeX untouched.
type Math struct {
	ast.BaseInline

	Display bool
	Value   []byte
}

// Kind implements ast.Node.
func (n *Math) Kind() ast.NodeKind {
	return KindMath
}

// Dump implements ast.Node.
func (n *Math) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Value": string(n.Value)}, nil)
}

// mathParser recognises dollar-delimited math. Inline math follows the
// pandoc rule: the opening $ must not be followed by a space and the
// closing $ must not be preceded by one or followed by a digit, so prices
// like "$5 and $10" stay text. Display math may span lines.
type mathParser struct{}

// Trigger implements parser.InlineParser.
func (mathParser) Trigger() []byte {
	return []byte{'$'}
}

// Parse implements parser.InlineParser.
func (p mathParser) Parse(_ ast.Node, block text.Reader, _ parser.Context) ast.Node {
	line, _ := block.PeekLine()
	if len(line) > 1 && line[1] == '$' {
		return p.parseDisplay(block)
	}

	end := closingDollar(line)
	if end < 0 {
		return nil
	}
	block.Advance(end + 1)
	return &Math{Value: bytes.Clone(line[1:end])}
}

func (mathParser) parseDisplay(block text.Reader) ast.Node {
	savedLine, savedPos := block.Position()
	block.Advance(2)

	var value []byte
	for {
		line, _ := block.PeekLine()
		if line == nil {
			block.SetPosition(savedLine, savedPos)
			return nil
		}
		if idx := bytes.Index(line, []byte("$$")); idx >= 0 {
			value = append(value, line[:idx]...)
			block.Advance(idx + 2)
			if len(bytes.TrimSpace(value)) == 0 {
				block.SetPosition(savedLine, savedPos)
				return nil
			}
			return &Math{Display: true, Value: value}
		}
		value = append(value, line...)
		block.AdvanceLine()
	}
}

// closingDollar returns the index of the $ closing the inline math that
// opens at line[0], or -1.
func closingDollar(line []byte) int {
	if len(line) < 3 || isSpace(line[1]) {
		return -1
	}
	for i := 2; i < len(line); i++ {
		switch line[i] {
		case '\\':
			i++
		case '\n':
			return -1
		case '$':
			if isSpace(line[i-1]) {
				continue
			}
			if i+1 < len(line) && line[i+1] >= '0' && line[i+1] <= '9' {
				continue
			}
			return i
		}
	}
	return -1
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
