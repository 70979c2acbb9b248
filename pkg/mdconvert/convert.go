// Package mdconvert converts Markdown documents to LaTeX by walking the
// goldmark AST.
package mdconvert

import (
	"bytes"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/yaklabco/texhelper/pkg/langdetect"
)

// ErrInvalidUTF8 is returned for input that is not valid UTF-8.
var ErrInvalidUTF8 = errors.New("input is not valid UTF-8")

// mathParserPriority orders the math parser among goldmark's inline
// parsers. None of the built-in ones trigger on $.
const mathParserPriority = 150

// Options configures a Converter.
type Options struct {
	// Standalone wraps the body in a compilable document.
	Standalone bool

	// DocClass is the document class of a standalone document.
	DocClass string
}

// DefaultOptions returns body-only conversion.
func DefaultOptions() Options {
	return Options{DocClass: "article"}
}

// Converter turns Markdown into LaTeX.
type Converter struct {
	opts Options
	md   goldmark.Markdown
}

// New creates a Converter. GitHub flavoured extensions (tables,
// strikethrough, task lists) are enabled.
func New(opts Options) *Converter {
	if opts.DocClass == "" {
		opts.DocClass = "article"
	}
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithInlineParsers(util.Prioritized(mathParser{}, mathParserPriority)),
		),
	)
	return &Converter{opts: opts, md: md}
}

// Convert converts src with the default options.
func Convert(src []byte) ([]byte, error) {
	return New(DefaultOptions()).Convert(src)
}

// Convert converts a Markdown document to LaTeX.
func (c *Converter) Convert(src []byte) ([]byte, error) {
	if !utf8.Valid(src) {
		return nil, ErrInvalidUTF8
	}

	doc := c.md.Parser().Parse(text.NewReader(src))

	w := &writer{source: src}
	if c.opts.Standalone {
		w.preamble(c.opts.DocClass)
	}
	w.blocks(doc)
	if c.opts.Standalone {
		w.closeDocument()
	}
	return w.buf.Bytes(), nil
}

// sectionCommands maps heading levels to sectioning commands.
//
//nolint:gochecknoglobals // read-only lookup table
var sectionCommands = [...]string{
	1: "section",
	2: "subsection",
	3: "subsubsection",
	4: "paragraph",
	5: "subparagraph",
	6: "subparagraph",
}

// writer renders goldmark nodes into a buffer.
type writer struct {
	source []byte
	buf    bytes.Buffer
}

func (w *writer) preamble(docClass string) {
	w.buf.WriteString(`\documentclass{` + docClass + "}\n\n")
	for _, pkg := range []string{`[utf8]{inputenc}`, `{amssymb}`, `{graphicx}`, `{hyperref}`, `{listings}`, `[normalem]{ulem}`} {
		w.buf.WriteString(`\usepackage` + pkg + "\n")
	}
	w.buf.WriteString("\n\\begin{document}\n\n")
}

func (w *writer) closeDocument() {
	if w.buf.Len() > 0 && !bytes.HasSuffix(w.buf.Bytes(), []byte("\n\n")) {
		w.buf.WriteByte('\n')
	}
	w.buf.WriteString("\\end{document}\n")
}

// blocks renders the block children of parent separated by blank lines.
func (w *writer) blocks(parent ast.Node) {
	for child := parent.FirstChild(); child != nil; child = child.NextSibling() {
		if child != parent.FirstChild() {
			w.buf.WriteByte('\n')
		}
		w.block(child)
	}
}

func (w *writer) block(node ast.Node) {
	switch n := node.(type) {
	case *ast.Heading:
		level := min(max(n.Level, 1), len(sectionCommands)-1)
		w.buf.WriteString(`\` + sectionCommands[level] + "{")
		w.inlines(n)
		w.buf.WriteString("}\n")

	case *ast.Paragraph, *ast.TextBlock:
		w.inlines(n)
		w.buf.WriteByte('\n')

	case *ast.List:
		w.list(n)

	case *ast.Blockquote:
		w.buf.WriteString("\\begin{quote}\n")
		w.blocks(n)
		w.buf.WriteString("\\end{quote}\n")

	case *ast.FencedCodeBlock:
		w.listing(n, string(n.Language(w.source)))

	case *ast.CodeBlock:
		w.listing(n, "")

	case *ast.ThematicBreak:
		w.buf.WriteString("\\noindent\\hrulefill\n")

	case *ast.HTMLBlock:
		lines := n.Lines()
		for i := range lines.Len() {
			segment := lines.At(i)
			w.buf.WriteString("% " + strings.TrimRight(string(segment.Value(w.source)), "\r\n") + "\n")
		}

	case *east.Table:
		w.table(n)

	default:
		w.blocks(n)
	}
}

func (w *writer) list(n *ast.List) {
	env := "itemize"
	if n.IsOrdered() {
		env = "enumerate"
	}

	w.buf.WriteString(`\begin{` + env + "}\n")
	for item := n.FirstChild(); item != nil; item = item.NextSibling() {
		w.buf.WriteString(`\item`)
		first := item.FirstChild()
		if first == nil {
			w.buf.WriteByte('\n')
			continue
		}
		w.buf.WriteByte(' ')
		for child := first; child != nil; child = child.NextSibling() {
			if child != first && !n.IsTight {
				w.buf.WriteByte('\n')
			}
			w.block(child)
		}
	}
	w.buf.WriteString(`\end{` + env + "}\n")
}

// listing renders a code block as an lstlisting environment. The language
// comes from the fence info string, or is detected from the code.
func (w *writer) listing(n ast.Node, info string) {
	var code bytes.Buffer
	lines := n.Lines()
	for i := range lines.Len() {
		segment := lines.At(i)
		code.Write(segment.Value(w.source))
	}

	lang, ok := langdetect.FromAlias(info)
	if !ok {
		lang, ok = langdetect.Detect(code.Bytes())
	}

	w.buf.WriteString(`\begin{lstlisting}`)
	if ok {
		w.buf.WriteString("[language=" + lang + "]")
	}
	w.buf.WriteByte('\n')
	w.buf.Write(code.Bytes())
	if code.Len() > 0 && !bytes.HasSuffix(code.Bytes(), []byte("\n")) {
		w.buf.WriteByte('\n')
	}
	w.buf.WriteString("\\end{lstlisting}\n")
}

func (w *writer) table(n *east.Table) {
	cols := make([]byte, 0, len(n.Alignments))
	for _, align := range n.Alignments {
		switch align {
		case east.AlignCenter:
			cols = append(cols, 'c')
		case east.AlignRight:
			cols = append(cols, 'r')
		default:
			cols = append(cols, 'l')
		}
	}

	w.buf.WriteString(`\begin{tabular}{` + string(cols) + "}\n\\hline\n")
	for row := n.FirstChild(); row != nil; row = row.NextSibling() {
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			if cell != row.FirstChild() {
				w.buf.WriteString(" & ")
			}
			w.inlines(cell)
		}
		w.buf.WriteString(" \\\\\n")
		if row.Kind() == east.KindTableHeader {
			w.buf.WriteString("\\hline\n")
		}
	}
	w.buf.WriteString("\\hline\n\\end{tabular}\n")
}

func (w *writer) inlines(parent ast.Node) {
	for child := parent.FirstChild(); child != nil; child = child.NextSibling() {
		w.inline(child)
	}
}

func (w *writer) inline(node ast.Node) {
	switch n := node.(type) {
	case *ast.Text:
		w.buf.WriteString(Escape(string(util.UnescapePunctuations(n.Segment.Value(w.source)))))
		switch {
		case n.HardLineBreak():
			w.buf.WriteString("\\\\\n")
		case n.SoftLineBreak():
			w.buf.WriteByte('\n')
		}

	case *ast.String:
		w.buf.WriteString(Escape(string(n.Value)))

	case *Math:
		delim := "$"
		if n.Display {
			delim = "$$"
		}
		w.buf.WriteString(delim)
		w.buf.Write(n.Value)
		w.buf.WriteString(delim)

	case *ast.Emphasis:
		cmd := `\emph{`
		if n.Level >= 2 {
			cmd = `\textbf{`
		}
		w.buf.WriteString(cmd)
		w.inlines(n)
		w.buf.WriteByte('}')

	case *ast.CodeSpan:
		var code bytes.Buffer
		for child := n.FirstChild(); child != nil; child = child.NextSibling() {
			if t, ok := child.(*ast.Text); ok {
				code.Write(t.Segment.Value(w.source))
			}
		}
		w.buf.WriteString(`\texttt{` + Escape(code.String()) + "}")

	case *ast.Link:
		w.buf.WriteString(`\href{` + escapeURL(string(n.Destination)) + "}{")
		w.inlines(n)
		w.buf.WriteByte('}')

	case *ast.AutoLink:
		url := string(n.URL(w.source))
		if n.AutoLinkType == ast.AutoLinkEmail {
			w.buf.WriteString(`\href{mailto:` + escapeURL(url) + "}{" + Escape(url) + "}")
			return
		}
		w.buf.WriteString(`\url{` + escapeURL(url) + "}")

	case *ast.Image:
		w.buf.WriteString(`\includegraphics{` + escapeURL(string(n.Destination)) + "}")

	case *ast.RawHTML:
		// Inline HTML has no LaTeX equivalent.

	case *east.Strikethrough:
		w.buf.WriteString(`\sout{`)
		w.inlines(n)
		w.buf.WriteByte('}')

	case *east.TaskCheckBox:
		if n.IsChecked {
			w.buf.WriteString(`$\boxtimes$ `)
		} else {
			w.buf.WriteString(`$\square$ `)
		}

	default:
		w.inlines(n)
	}
}

// textReplacer escapes the characters LaTeX reserves.
//
//nolint:gochecknoglobals // read-only replacer
var textReplacer = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`{`, `\{`,
	`}`, `\}`,
	`$`, `\$`,
	`&`, `\&`,
	`#`, `\#`,
	`%`, `\%`,
	`_`, `\_`,
	`^`, `\^{}`,
	`~`, `\~{}`,
)

// urlReplacer escapes the characters that break a URL argument.
//
//nolint:gochecknoglobals // read-only replacer
var urlReplacer = strings.NewReplacer(
	`\`, `/`,
	`%`, `\%`,
	`#`, `\#`,
	`$`, `\$`,
	`{`, `\%7B`,
	`}`, `\%7D`,
)

// Escape escapes LaTeX special characters in running text.
func Escape(s string) string {
	return textReplacer.Replace(s)
}

func escapeURL(s string) string {
	return urlReplacer.Replace(s)
}
