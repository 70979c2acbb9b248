package texast

// Frame is one step of a Walker path: the cursor sits on (or below) the
// Index-th child of Ancestor.
type Frame struct {
	Ancestor NodeID
	Index    int
}

// Walker is a cursor over a Tree. Its position is a stack of frames
// [(a1,b1) ... (an,bn)]: a2 is the b1-th child of a1, and so on, and the cursor
// sits on the bn-th child of an. An empty stack denotes the root.
//
// Navigation never mutates the tree. Lookups return NoNode when the requested
// node does not exist, and moves report false without changing position.
type Walker struct {
	tree  *Tree
	stack []Frame
}

// NewWalker returns a walker positioned on the root of tree.
func NewWalker(tree *Tree) *Walker {
	return &Walker{tree: tree}
}

// Tree returns the tree being walked.
func (w *Walker) Tree() *Tree {
	return w.tree
}

// Current returns the node under the cursor.
func (w *Walker) Current() NodeID {
	if len(w.stack) == 0 {
		return w.tree.Root()
	}
	top := w.stack[len(w.stack)-1]
	return w.tree.Child(top.Ancestor, top.Index)
}

// Depth returns the number of frames on the path. The root has depth 0.
func (w *Walker) Depth() int {
	return len(w.stack)
}

// Path returns a copy of the frame stack.
func (w *Walker) Path() []Frame {
	path := make([]Frame, len(w.stack))
	copy(path, w.stack)
	return path
}

// Parent returns the parent of the current node, or NoNode at the root.
func (w *Walker) Parent() NodeID {
	if len(w.stack) == 0 {
		return NoNode
	}
	return w.stack[len(w.stack)-1].Ancestor
}

// NextSibling returns the node after the current one under the same parent.
func (w *Walker) NextSibling() NodeID {
	if len(w.stack) == 0 {
		return NoNode
	}
	top := w.stack[len(w.stack)-1]
	return w.tree.Child(top.Ancestor, top.Index+1)
}

// FirstChild returns child 0 of the current node.
func (w *Walker) FirstChild() NodeID {
	return w.tree.Child(w.Current(), 0)
}

// ToNextSibling moves to the next sibling.
func (w *Walker) ToNextSibling() bool {
	if w.NextSibling() == NoNode {
		return false
	}
	w.stack[len(w.stack)-1].Index++
	return true
}

// ToFirstChild descends to child 0 of the current node.
func (w *Walker) ToFirstChild() bool {
	if w.FirstChild() == NoNode {
		return false
	}
	w.stack = append(w.stack, Frame{Ancestor: w.Current(), Index: 0})
	return true
}

// ToParent pops one frame.
func (w *Walker) ToParent() bool {
	if len(w.stack) == 0 {
		return false
	}
	w.stack = w.stack[:len(w.stack)-1]
	return true
}

// Next advances in document (pre-order) order: first child, else next
// sibling, else the next sibling of the nearest ancestor that has one.
// It returns false, leaving the cursor in place, once the walk is exhausted.
func (w *Walker) Next() bool {
	if w.ToFirstChild() {
		return true
	}
	saved := len(w.stack)
	for depth := len(w.stack); depth > 0; depth-- {
		top := w.stack[depth-1]
		if w.tree.Child(top.Ancestor, top.Index+1) != NoNode {
			w.stack = w.stack[:depth]
			w.stack[depth-1].Index++
			return true
		}
	}
	w.stack = w.stack[:saved]
	return false
}

// Reset moves the cursor back to the root.
func (w *Walker) Reset() {
	w.stack = w.stack[:0]
}
