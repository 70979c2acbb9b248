package texast

import "errors"

// errStopWalk is a sentinel used to stop a walk early.
var errStopWalk = errors.New("stop walk")

// WalkFunc is called for each visited node. Return a non-nil error to stop.
type WalkFunc func(t *Tree, id NodeID) error

// Walk performs a pre-order traversal of the subtree rooted at id.
func Walk(t *Tree, id NodeID, fn WalkFunc) error {
	if t == nil || t.Node(id) == nil {
		return nil
	}
	if err := fn(t, id); err != nil {
		return err
	}
	for _, child := range t.Children(id) {
		if err := Walk(t, child, fn); err != nil {
			return err
		}
	}
	return nil
}

// WalkWithContext calls enter before and leave after visiting the children
// of each node. Either callback may be nil.
func WalkWithContext(t *Tree, id NodeID, enter, leave WalkFunc) error {
	if t == nil || t.Node(id) == nil {
		return nil
	}
	if enter != nil {
		if err := enter(t, id); err != nil {
			return err
		}
	}
	for _, child := range t.Children(id) {
		if err := WalkWithContext(t, child, enter, leave); err != nil {
			return err
		}
	}
	if leave != nil {
		if err := leave(t, id); err != nil {
			return err
		}
	}
	return nil
}

// FindAll returns the IDs of all nodes under id matching predicate, in
// document order.
func FindAll(t *Tree, id NodeID, predicate func(n *Node) bool) []NodeID {
	var result []NodeID

	//nolint:errcheck // the callback never fails
	Walk(t, id, func(t *Tree, current NodeID) error {
		if predicate(t.Node(current)) {
			result = append(result, current)
		}
		return nil
	})

	return result
}

// FindFirst returns the first node under id matching predicate, or NoNode.
func FindFirst(t *Tree, id NodeID, predicate func(n *Node) bool) NodeID {
	found := NoNode

	//nolint:errcheck // errStopWalk is expected
	Walk(t, id, func(t *Tree, current NodeID) error {
		if predicate(t.Node(current)) {
			found = current
			return errStopWalk
		}
		return nil
	})

	return found
}

// FindByKind returns all nodes of the given kind under the root.
func FindByKind(t *Tree, kind NodeKind) []NodeID {
	return FindAll(t, t.Root(), func(n *Node) bool {
		return n.Kind == kind
	})
}

// FindEnvironments returns all Envr nodes with the given name.
func FindEnvironments(t *Tree, name string) []NodeID {
	return FindAll(t, t.Root(), func(n *Node) bool {
		return n.Kind == NodeEnvr && n.Lexeme == name
	})
}
