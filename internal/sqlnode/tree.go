package sqlnode

// NodeID identifies a node inside its Tree. The zero value means "no node".
type NodeID int

// NoNode is the parent of the root and of detached nodes.
const NoNode NodeID = 0

// Tree owns a decoded SQL node hierarchy.
//
// Nodes own their children directly. Parent links are NodeIDs resolved
// through the tree's arena, never pointers back up the hierarchy, so the
// only strong references run from parent to child.
type Tree struct {
	arena []Node // arena[id-1] is the node with that id
	root  Node
}

func newTree() *Tree {
	return &Tree{}
}

// Root returns the root node.
func (t *Tree) Root() Node { return t.root }

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int { return len(t.arena) }

// Node returns the node with the given id, or nil.
func (t *Tree) Node(id NodeID) Node {
	if id <= NoNode || int(id) > len(t.arena) {
		return nil
	}
	return t.arena[id-1]
}

// Parent returns the parent of n, or nil for the root.
func (t *Tree) Parent(n Node) Node {
	if n == nil {
		return nil
	}
	return t.Node(n.ParentID())
}

// Ancestors returns the parents of n from the nearest to the root.
func (t *Tree) Ancestors(n Node) []Node {
	var out []Node
	for p := t.Parent(n); p != nil; p = t.Parent(p) {
		out = append(out, p)
	}
	return out
}

// InsideAggregate reports whether n is nested in an aggregate function call.
func (t *Tree) InsideAggregate(n Node) bool {
	for _, p := range t.Ancestors(n) {
		switch p.(type) {
		case *AggregateFunction, *GroupConcat:
			return true
		}
	}
	return false
}

// Walk visits the tree depth-first, parents before children.
// Returning false from fn skips the children of that node.
func (t *Tree) Walk(fn func(Node) bool) {
	if t.root != nil {
		walk(t.root, fn)
	}
}

func walk(n Node, fn func(Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children() {
		walk(c, fn)
	}
}

// adopt registers n in the arena and points its direct children at it.
// Constructors call it once they hold all children, so parent links are
// consistent by the time a constructor returns.
func (t *Tree) adopt(n Node) {
	t.arena = append(t.arena, n)
	id := NodeID(len(t.arena))
	n.setID(id)
	for _, c := range n.Children() {
		c.setParent(id)
	}
}
