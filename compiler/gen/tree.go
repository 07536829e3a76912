package gen

import (
	ecsact "github.com/ecsact-dev/ecsact-lang-cpp"
	"github.com/ecsact-dev/ecsact-lang-cpp/compiler/meta"
)

// SystemNode is one system-like of a SystemTree.
type SystemNode struct {
	ID       ecsact.ID
	Index    int
	Parent   int // -1 for roots
	Children []int
	Depth    int
}

// SystemTree is an arena of the system-likes of a package, linked by
// index. Roots are the top-level system-likes ordered by id; children keep
// declaration order.
type SystemTree struct {
	Nodes []*SystemNode
	Roots []int
	byID  map[ecsact.ID]int
}

// NewSystemTree builds the tree of a package without recursion.
func NewSystemTree(acc meta.Accessor, pkg ecsact.PackageID) *SystemTree {
	t := &SystemTree{byID: make(map[ecsact.ID]int)}
	type pending struct {
		id     ecsact.ID
		parent int
		depth  int
	}
	var queue []pending
	for _, id := range acc.TopLevelSystemLikeIDs(pkg) {
		queue = append(queue, pending{id, -1, 0})
	}
	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]
		n := &SystemNode{ID: item.id, Index: len(t.Nodes), Parent: item.parent, Depth: item.depth}
		t.Nodes = append(t.Nodes, n)
		t.byID[n.ID] = n.Index
		if n.Parent < 0 {
			t.Roots = append(t.Roots, n.Index)
		} else {
			parent := t.Nodes[n.Parent]
			parent.Children = append(parent.Children, n.Index)
		}
		for _, child := range acc.ChildSystemIDs(item.id) {
			queue = append(queue, pending{child, n.Index, item.depth + 1})
		}
	}
	return t
}

// Node returns the node of a system-like.
func (t *SystemTree) Node(id ecsact.ID) (*SystemNode, bool) {
	i, ok := t.byID[id]
	if !ok {
		return nil, false
	}
	return t.Nodes[i], true
}

// Walk visits the tree depth-first in declaration order. enter is called
// before a node's children and leave after them; either may be nil.
func (t *SystemTree) Walk(enter, leave func(*SystemNode)) {
	type frame struct {
		node  int
		child int
	}
	for _, root := range t.Roots {
		stack := []frame{{node: root}}
		if enter != nil {
			enter(t.Nodes[root])
		}
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			n := t.Nodes[top.node]
			if top.child < len(n.Children) {
				next := n.Children[top.child]
				top.child++
				if enter != nil {
					enter(t.Nodes[next])
				}
				stack = append(stack, frame{node: next})
				continue
			}
			stack = stack[:len(stack)-1]
			if leave != nil {
				leave(n)
			}
		}
	}
}

// PreOrder returns the nodes in the order Walk enters them.
func (t *SystemTree) PreOrder() []*SystemNode {
	out := make([]*SystemNode, 0, len(t.Nodes))
	t.Walk(func(n *SystemNode) { out = append(out, n) }, nil)
	return out
}
