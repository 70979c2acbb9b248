// Package texast defines the LaTeX token model, the arena-based syntax tree,
// a path-stack Walker over it, and the FileSnapshot bundling a parsed file.
package texast

// FileSnapshot is an immutable view of a LaTeX file: raw bytes, line index,
// token stream, syntax tree and the syntax errors found while parsing.
type FileSnapshot struct {
	// Path is the logical file name used in diagnostics (may be empty).
	Path string

	// Content is the full file bytes.
	Content []byte

	// Lines indexes the line boundaries of Content.
	Lines []LineInfo

	// Tokens is the scanner output.
	Tokens []Token

	// Tree is the parsed document. Its root is a Passage.
	Tree *Tree

	// Errors holds every syntax error reported by the parser, in source order
	// of discovery.
	Errors SyntaxErrors
}

// LineInfo holds the byte boundaries of one line.
type LineInfo struct {
	// StartOffset is the first byte of the line.
	StartOffset int

	// NewlineStart is where the line terminator begins ("\n" or "\r\n").
	// It equals EndOffset for a final line without terminator.
	NewlineStart int

	// EndOffset is the byte just after the terminator.
	EndOffset int
}

// NewFileSnapshot indexes content. Tokens and Tree are filled by a parser.
func NewFileSnapshot(path string, content []byte) *FileSnapshot {
	return &FileSnapshot{
		Path:    path,
		Content: content,
		Lines:   BuildLines(content),
	}
}

// HasErrors reports whether parsing produced syntax errors.
func (f *FileSnapshot) HasErrors() bool {
	return len(f.Errors) > 0
}

// NodeRange returns the byte range [start, end) covered by a node's tokens.
// ok is false for synthetic nodes.
func (f *FileSnapshot) NodeRange(id NodeID) (int, int, bool) {
	if f.Tree == nil {
		return 0, 0, false
	}
	node := f.Tree.Node(id)
	if node == nil || !node.HasSpan() || node.LastToken >= len(f.Tokens) {
		return 0, 0, false
	}
	return f.Tokens[node.FirstToken].Offset, f.Tokens[node.LastToken].End, true
}

// NodePosition returns the 1-based source position of a node.
func (f *FileSnapshot) NodePosition(id NodeID) SourcePosition {
	start, end, ok := f.NodeRange(id)
	if !ok {
		return SourcePosition{}
	}
	return f.RangePosition(start, end)
}

// RangePosition converts a byte range into a 1-based source position. The end
// column is inclusive.
func (f *FileSnapshot) RangePosition(start, end int) SourcePosition {
	startLine, startCol := f.LineAt(start)
	last := end - 1
	if last < start {
		last = start
	}
	endLine, endCol := f.LineAt(last)
	return SourcePosition{
		StartLine:   startLine,
		StartColumn: startCol,
		EndLine:     endLine,
		EndColumn:   endCol,
	}
}
