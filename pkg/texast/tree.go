package texast

import "strings"

// Tree is an arena of nodes addressed by NodeID. Node 0 is always the root
// Passage. A Tree is built by a single parse call and is read-only afterwards.
type Tree struct {
	nodes []Node
}

// NewTree returns a tree holding only an empty root Passage.
func NewTree() *Tree {
	t := &Tree{nodes: make([]Node, 0, 64)}
	t.Add(NodePassage, "")
	return t
}

// Root returns the ID of the root Passage.
func (t *Tree) Root() NodeID {
	return 0
}

// Len returns the number of nodes in the arena.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Add allocates a detached node and returns its ID.
func (t *Tree) Add(kind NodeKind, lexeme string) NodeID {
	t.nodes = append(t.nodes, Node{
		Kind:       kind,
		Lexeme:     lexeme,
		FirstToken: -1,
		LastToken:  -1,
	})
	return NodeID(len(t.nodes) - 1)
}

// AppendChild attaches child as the last child of parent.
func (t *Tree) AppendChild(parent, child NodeID) {
	if !t.valid(parent) || !t.valid(child) {
		return
	}
	t.nodes[parent].Children = append(t.nodes[parent].Children, child)
}

// SetSpan records the token span of a node.
func (t *Tree) SetSpan(id NodeID, first, last int) {
	if !t.valid(id) {
		return
	}
	t.nodes[id].FirstToken = first
	t.nodes[id].LastToken = last
}

// SetBase records the left operand character of an Operation.
func (t *Tree) SetBase(id NodeID, base string) {
	if !t.valid(id) {
		return
	}
	t.nodes[id].Base = base
}

// Node returns the node for id, or nil if id is out of range.
// The pointer is invalidated by the next Add.
func (t *Tree) Node(id NodeID) *Node {
	if !t.valid(id) {
		return nil
	}
	return &t.nodes[id]
}

// Kind returns the kind of id. Out-of-range IDs report NodePassage.
func (t *Tree) Kind(id NodeID) NodeKind {
	if !t.valid(id) {
		return NodePassage
	}
	return t.nodes[id].Kind
}

// Lexeme returns the lexeme of id.
func (t *Tree) Lexeme(id NodeID) string {
	if !t.valid(id) {
		return ""
	}
	return t.nodes[id].Lexeme
}

// Children returns the child IDs of id. The slice must not be modified.
func (t *Tree) Children(id NodeID) []NodeID {
	if !t.valid(id) {
		return nil
	}
	return t.nodes[id].Children
}

// Child returns the index-th child of id, or NoNode.
func (t *Tree) Child(id NodeID, index int) NodeID {
	children := t.Children(id)
	if index < 0 || index >= len(children) {
		return NoNode
	}
	return children[index]
}

// Text concatenates the lexemes of id and all its descendants, depth first.
func (t *Tree) Text(id NodeID) string {
	var sb strings.Builder
	t.appendText(&sb, id)
	return sb.String()
}

func (t *Tree) appendText(sb *strings.Builder, id NodeID) {
	if !t.valid(id) {
		return
	}
	sb.WriteString(t.nodes[id].Lexeme)
	for _, child := range t.nodes[id].Children {
		t.appendText(sb, child)
	}
}

// Parents returns a map from each attached node to its parent. The root maps
// to NoNode.
func (t *Tree) Parents() map[NodeID]NodeID {
	parents := make(map[NodeID]NodeID, len(t.nodes))
	parents[t.Root()] = NoNode
	for id := range t.nodes {
		for _, child := range t.nodes[id].Children {
			parents[child] = NodeID(id)
		}
	}
	return parents
}

func (t *Tree) valid(id NodeID) bool {
	return id >= 0 && int(id) < len(t.nodes)
}
