package rules

import (
	"strings"

	"github.com/yaklabco/texhelper/pkg/texast"
)

// nameClose returns the index of the '}' that closes the name argument of an
// environment's \begin, or -1.
func nameClose(file *texast.FileSnapshot, envr texast.NodeID) int {
	node := file.Tree.Node(envr)
	if node == nil || !node.HasSpan() {
		return -1
	}
	for i := node.FirstToken + 1; i <= node.LastToken && i < len(file.Tokens); i++ {
		if file.Tokens[i].Kind == texast.TokRightBrace {
			return i
		}
	}
	return -1
}

// endToken returns the index of the \end token of an environment, or -1
// when the environment was never closed.
func endToken(file *texast.FileSnapshot, envr texast.NodeID) int {
	node := file.Tree.Node(envr)
	if node == nil || !node.HasSpan() || node.LastToken >= len(file.Tokens) {
		return -1
	}
	last := node.LastToken
	if file.Tokens[last].Kind != texast.TokRightBrace {
		return -1
	}

	var name strings.Builder
	open := last - 1
	for open > node.FirstToken && file.Tokens[open].Kind != texast.TokLeftBrace {
		open--
	}
	for i := open + 1; i < last; i++ {
		name.WriteString(file.Tokens[i].Lexeme)
	}
	end := open - 1
	if end <= node.FirstToken || !file.Tokens[end].IsEndEnvr() || name.String() != node.Lexeme {
		return -1
	}
	return end
}

// beginRange returns the byte range of "\begin{name}".
func beginRange(file *texast.FileSnapshot, envr texast.NodeID) (int, int, bool) {
	closeIdx := nameClose(file, envr)
	if closeIdx < 0 {
		return 0, 0, false
	}
	first := file.Tree.Node(envr).FirstToken
	return file.Tokens[first].Offset, file.Tokens[closeIdx].End, true
}
