package lint

import (
	"bytes"
	"slices"
	"unicode/utf8"

	"github.com/yaklabco/texhelper/pkg/texast"
)

// CommandArgs splits the arguments of a Command node into its square and
// curly bracket arguments, each in source order.
func CommandArgs(tree *texast.Tree, cmd texast.NodeID) ([]texast.NodeID, []texast.NodeID) {
	var square, curly []texast.NodeID
	for _, arg := range tree.Children(cmd) {
		switch tree.Kind(arg) {
		case texast.NodeSquareBracketArg:
			square = append(square, arg)
		case texast.NodeCurlyBracketArg:
			curly = append(curly, arg)
		}
	}
	return square, curly
}

// EnvironmentBody returns the Passage child of an Envr node, or NoNode.
func EnvironmentBody(tree *texast.Tree, envr texast.NodeID) texast.NodeID {
	for _, child := range tree.Children(envr) {
		if tree.Kind(child) == texast.NodePassage {
			return child
		}
	}
	return texast.NoNode
}

// EnvironmentOptions finds the optional argument of \begin{name}[opts]. The
// parser leaves it as the first element of the body's first paragraph. It
// returns the SquareBracketArg node and its flattened text.
func EnvironmentOptions(tree *texast.Tree, envr texast.NodeID) (texast.NodeID, string, bool) {
	body := EnvironmentBody(tree, envr)
	para := tree.Child(body, 0)
	if tree.Kind(para) != texast.NodeParagraph {
		return texast.NoNode, "", false
	}
	first := tree.Child(para, 0)
	if first == texast.NoNode || tree.Kind(first) != texast.NodeSquareBracketArg {
		return texast.NoNode, "", false
	}
	return first, tree.Text(first), true
}

// LineContent returns a 1-based line without its terminator.
func LineContent(file *texast.FileSnapshot, lineNum int) []byte {
	return file.LineContent(lineNum)
}

// LineLength returns the length of a line in runes.
func LineLength(file *texast.FileSnapshot, lineNum int) int {
	return utf8.RuneCount(file.LineContent(lineNum))
}

// TrailingWhitespaceRange returns the byte range of trailing spaces and tabs
// on a line. start == end means there is none.
func TrailingWhitespaceRange(file *texast.FileSnapshot, lineNum int) (int, int) {
	if lineNum < 1 || lineNum > len(file.Lines) {
		return 0, 0
	}
	info := file.Lines[lineNum-1]
	end := info.NewlineStart
	start := end
	for start > info.StartOffset && isBlank(file.Content[start-1]) {
		start--
	}
	return start, end
}

// HasTrailingWhitespace reports whether a line ends in spaces or tabs.
func HasTrailingWhitespace(file *texast.FileSnapshot, lineNum int) bool {
	start, end := TrailingWhitespaceRange(file, lineNum)
	return start < end
}

// IsBlankLine reports whether a line holds only spaces and tabs.
func IsBlankLine(file *texast.FileSnapshot, lineNum int) bool {
	return len(bytes.TrimLeft(file.LineContent(lineNum), " \t")) == 0
}

// IsCommentLine reports whether the first non-blank character of a line
// starts a comment.
func IsCommentLine(file *texast.FileSnapshot, lineNum int) bool {
	trimmed := bytes.TrimLeft(file.LineContent(lineNum), " \t")
	return len(trimmed) > 0 && trimmed[0] == '%'
}

// EnvironmentLines returns the 1-based lines covered by environments with
// one of the given names, \begin and \end lines included.
func EnvironmentLines(file *texast.FileSnapshot, names []string) map[int]bool {
	lines := make(map[int]bool)
	if file.Tree == nil || len(names) == 0 {
		return lines
	}
	for _, envr := range texast.FindByKind(file.Tree, texast.NodeEnvr) {
		if !slices.Contains(names, file.Tree.Lexeme(envr)) {
			continue
		}
		start, end, ok := file.NodeRange(envr)
		if !ok {
			continue
		}
		first, _ := file.LineAt(start)
		last, _ := file.LineAt(max(start, end-1))
		for line := first; line <= last; line++ {
			lines[line] = true
		}
	}
	return lines
}

func isBlank(b byte) bool {
	return b == ' ' || b == '\t'
}
