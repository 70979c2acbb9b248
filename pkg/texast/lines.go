package texast

import (
	"bytes"
	"sort"
)

// BuildLines splits content into line records. LF and CRLF terminators are
// recognised; a lone CR is ordinary content.
func BuildLines(content []byte) []LineInfo {
	if len(content) == 0 {
		return []LineInfo{}
	}

	lines := make([]LineInfo, 0, bytes.Count(content, []byte{'\n'})+1)
	start := 0
	for {
		idx := bytes.IndexByte(content[start:], '\n')
		if idx < 0 {
			break
		}
		nl := start + idx
		terminator := nl
		if nl > start && content[nl-1] == '\r' {
			terminator = nl - 1
		}
		lines = append(lines, LineInfo{StartOffset: start, NewlineStart: terminator, EndOffset: nl + 1})
		start = nl + 1
	}

	// The trailing segment is a line even when empty, so offsets at EOF resolve.
	lines = append(lines, LineInfo{StartOffset: start, NewlineStart: len(content), EndOffset: len(content)})
	return lines
}

// LineCount returns the number of indexed lines.
func (f *FileSnapshot) LineCount() int {
	return len(f.Lines)
}

// LineAt maps a byte offset to a 1-based line and byte column.
// It returns (0, 0) for negative offsets or an empty index.
func (f *FileSnapshot) LineAt(offset int) (int, int) {
	if offset < 0 || len(f.Lines) == 0 {
		return 0, 0
	}
	if offset >= len(f.Content) {
		last := f.Lines[len(f.Lines)-1]
		return len(f.Lines), offset - last.StartOffset + 1
	}

	idx := sort.Search(len(f.Lines), func(i int) bool {
		return f.Lines[i].EndOffset > offset
	})
	if idx == len(f.Lines) {
		idx--
	}
	return idx + 1, offset - f.Lines[idx].StartOffset + 1
}

// Offset maps a 1-based line and column back to a byte offset.
func (f *FileSnapshot) Offset(line, col int) (int, bool) {
	if line < 1 || line > len(f.Lines) || col < 1 {
		return 0, false
	}
	info := f.Lines[line-1]
	offset := info.StartOffset + col - 1
	if offset > info.EndOffset {
		return 0, false
	}
	return offset, true
}

// LineContent returns a 1-based line without its terminator, or nil.
func (f *FileSnapshot) LineContent(line int) []byte {
	if line < 1 || line > len(f.Lines) {
		return nil
	}
	info := f.Lines[line-1]
	return f.Content[info.StartOffset:info.NewlineStart]
}
