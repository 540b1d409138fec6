package bundle

import "github.com/matzehuels/sgviz/pkg/layout/adjacency"

// Node is a hierarchy node.
//
// Children are owned by the node; Parent is a back-reference. Entry is set on
// leaves built from an adjacency entry. Angle (degrees) and Radius are filled
// in by [Cluster].
type Node struct {
	Name     string
	Children []*Node
	Parent   *Node
	Entry    *adjacency.Entry

	Angle  float64
	Radius float64

	depth int
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

// Depth returns the number of edges between the node and the root.
func (n *Node) Depth() int { return n.depth }

// Ancestors returns the node followed by each parent up to the root.
func (n *Node) Ancestors() []*Node {
	var out []*Node
	for cur := n; cur != nil; cur = cur.Parent {
		out = append(out, cur)
	}
	return out
}

// Path returns the hierarchy route from n up to the lowest common ancestor
// of n and target and back down to target. Both endpoints are included; a
// node's path to itself is the single node.
func (n *Node) Path(target *Node) []*Node {
	lca := commonAncestor(n, target)
	var up []*Node
	for cur := n; cur != lca; cur = cur.Parent {
		up = append(up, cur)
	}
	up = append(up, lca)

	var down []*Node
	for cur := target; cur != lca; cur = cur.Parent {
		down = append(down, cur)
	}
	for i := len(down) - 1; i >= 0; i-- {
		up = append(up, down[i])
	}
	return up
}

func commonAncestor(a, b *Node) *Node {
	seen := make(map[*Node]struct{})
	for cur := a; cur != nil; cur = cur.Parent {
		seen[cur] = struct{}{}
	}
	for cur := b; cur != nil; cur = cur.Parent {
		if _, ok := seen[cur]; ok {
			return cur
		}
	}
	return nil
}

// Hierarchy is a rooted tree over node identifiers.
//
// Identifiers are not split into segments, so every node sits one hop below
// the root and the tree is a star. Internal levels are supported by the
// layout and path code should identifiers ever carry structure.
type Hierarchy struct {
	Root *Node

	byName map[string]*Node
	order  []*Node
}

// BuildHierarchy constructs the tree from an adjacency index.
//
// The first pass inserts one node per entry; the second inserts every egress
// target so nodes that only receive edges still get a slot. Insertion is
// find-or-create, so each identifier maps to exactly one node.
func BuildHierarchy(adj *adjacency.Adjacency) *Hierarchy {
	h := &Hierarchy{
		Root:   &Node{},
		byName: make(map[string]*Node),
	}
	entries := adj.Entries()
	for _, e := range entries {
		h.findOrCreate(e.Name, e)
	}
	for _, e := range entries {
		for _, target := range e.Egress() {
			entry, _ := adj.Get(target)
			h.findOrCreate(target, entry)
		}
	}
	return h
}

func (h *Hierarchy) findOrCreate(name string, entry *adjacency.Entry) *Node {
	if n, ok := h.byName[name]; ok {
		return n
	}
	n := &Node{Name: name, Entry: entry, Parent: h.Root, depth: h.Root.depth + 1}
	h.Root.Children = append(h.Root.Children, n)
	h.byName[name] = n
	h.order = append(h.order, n)
	return n
}

// Find returns the node for name.
func (h *Hierarchy) Find(name string) (*Node, bool) {
	n, ok := h.byName[name]
	return n, ok
}

// Len returns the number of named nodes, excluding the root.
func (h *Hierarchy) Len() int { return len(h.order) }

// Leaves returns the leaves in depth-first order, children in insertion order.
func (h *Hierarchy) Leaves() []*Node {
	var out []*Node
	walk(h.Root, func(n *Node) {
		if n.IsLeaf() && n != h.Root {
			out = append(out, n)
		}
	})
	return out
}

// Descendants returns every node including the root in breadth-first order.
func (h *Hierarchy) Descendants() []*Node {
	out := []*Node{h.Root}
	for i := 0; i < len(out); i++ {
		out = append(out, out[i].Children...)
	}
	return out
}

func walk(n *Node, fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		walk(c, fn)
	}
}
