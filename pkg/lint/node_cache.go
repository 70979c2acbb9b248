package lint

import "github.com/yaklabco/texhelper/pkg/texast"

// NodeCache indexes a tree's nodes by kind with a single walk, so rules that
// ask for the same kind share one traversal.
//
// The returned slices are shared between rules. Copy before sorting or
// filtering in place.
//
// A NodeCache is not safe for concurrent use; each file gets its own.
type NodeCache struct {
	byKind  map[texast.NodeKind][]texast.NodeID
	parents map[texast.NodeID]texast.NodeID
	tree    *texast.Tree
}

func newNodeCache() *NodeCache {
	return &NodeCache{byKind: make(map[texast.NodeKind][]texast.NodeID)}
}

func (nc *NodeCache) build(tree *texast.Tree) {
	nc.tree = tree
	if tree == nil {
		return
	}
	// Arena order is creation order, which differs from document order
	// around operations, so walk instead of scanning the arena.
	//nolint:errcheck // the callback never fails
	texast.Walk(tree, tree.Root(), func(t *texast.Tree, id texast.NodeID) error {
		kind := t.Kind(id)
		nc.byKind[kind] = append(nc.byKind[kind], id)
		return nil
	})
}

// ByKind returns all nodes of kind in document order.
func (nc *NodeCache) ByKind(kind texast.NodeKind) []texast.NodeID {
	return nc.byKind[kind]
}

// Count returns the number of nodes of kind.
func (nc *NodeCache) Count(kind texast.NodeKind) int {
	return len(nc.byKind[kind])
}

// Parent returns the parent of id, or NoNode for the root.
func (nc *NodeCache) Parent(id texast.NodeID) texast.NodeID {
	if nc.tree == nil {
		return texast.NoNode
	}
	if nc.parents == nil {
		nc.parents = nc.tree.Parents()
	}
	if p, ok := nc.parents[id]; ok {
		return p
	}
	return texast.NoNode
}

// EnclosingEnvironment returns the nearest Envr ancestor of id, or NoNode.
func (nc *NodeCache) EnclosingEnvironment(id texast.NodeID) texast.NodeID {
	for p := nc.Parent(id); p != texast.NoNode; p = nc.Parent(p) {
		if nc.tree.Kind(p) == texast.NodeEnvr {
			return p
		}
	}
	return texast.NoNode
}
