package texast

import "fmt"

// NodeKind classifies an AST node.
type NodeKind uint16

// Node kinds. Passage and Paragraph are containers, everything else is content.
const (
	// Container nodes. Their lexeme is always empty.
	NodePassage NodeKind = iota
	NodeParagraph

	// Content nodes.
	NodeWord
	NodeOperation
	NodeAmpersand
	NodeDoubleBackSlash
	NodeCommand
	NodeCurlyBracketArg
	NodeSquareBracketArg
	NodeInlineMath
	NodeDisplayMath
	NodeEnvr
	NodeComment
	NodeEscapedChar
)

var nodeKindNames = [...]string{ //nolint:gochecknoglobals // lookup table
	NodePassage:          "Passage",
	NodeParagraph:        "Paragraph",
	NodeWord:             "Word",
	NodeOperation:        "Operation",
	NodeAmpersand:        "Ampersand",
	NodeDoubleBackSlash:  "DoubleBackSlash",
	NodeCommand:          "Command",
	NodeCurlyBracketArg:  "CurlyBracketArg",
	NodeSquareBracketArg: "SquareBracketArg",
	NodeInlineMath:       "InlineMath",
	NodeDisplayMath:      "DisplayMath",
	NodeEnvr:             "Envr",
	NodeComment:          "Comment",
	NodeEscapedChar:      "EscapedChar",
}

// String returns the kind name without the Node prefix.
func (k NodeKind) String() string {
	if int(k) < len(nodeKindNames) {
		return nodeKindNames[k]
	}
	return fmt.Sprintf("NodeKind(%d)", k)
}

// IsContainer reports whether nodes of this kind are structural only.
func (k NodeKind) IsContainer() bool {
	return k == NodePassage || k == NodeParagraph
}

// IsContent reports whether nodes of this kind carry document content.
func (k NodeKind) IsContent() bool {
	return !k.IsContainer()
}

// NodeID addresses a node inside a Tree.
type NodeID int32

// NoNode is returned by lookups that find nothing.
const NoNode NodeID = -1

// Node is a single element of the LaTeX AST.
//
// Lexeme holds the command name for Command, the environment name for Envr,
// the operator character for Operation, and the text for Word, Comment and
// EscapedChar nodes. Children are ordered as in the source.
type Node struct {
	Kind     NodeKind
	Lexeme   string
	Children []NodeID

	// Base is the single character bound as the left operand of an
	// Operation. The preceding Word sibling keeps its full text.
	Base string

	// Token span (indices into the token stream). Both are -1 for
	// synthetic nodes.
	FirstToken int
	LastToken  int
}

// IsContainer reports whether the node is a Passage or a Paragraph.
func (n *Node) IsContainer() bool {
	return n.Kind.IsContainer()
}

// IsContent reports whether the node carries document content.
func (n *Node) IsContent() bool {
	return n.Kind.IsContent()
}

// HasSpan reports whether the node maps back to source tokens.
func (n *Node) HasSpan() bool {
	return n.FirstToken >= 0 && n.LastToken >= n.FirstToken
}
