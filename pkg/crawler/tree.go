// Package crawler walks the live DOM via a page-side JavaScript evaluation,
// builds an in-memory element tree, assigns short external ids to
// interactive elements, and optionally highlights them for the LLM's
// benefit.
package crawler

// Node is one element in a Tree. Parent/child relationships are expressed
// as indices into the owning Tree's Nodes slice rather than Go pointers, so
// the structure has no reference cycles and can be copied/serialized
// freely.
type Node struct {
	InternalID int // long numeric id assigned during traversal, unique per crawl
	ExternalID string // short external id ("1","2",...) assigned to interactive elements only; empty otherwise

	Tag         string
	ClassName   string
	InnerText   string
	ElementType string
	Placeholder string
	Attributes  map[string]string

	Selector string
	XPath    string

	Viewport BoundingBox
	CenterX  float64
	CenterY  float64

	IsVisible     bool
	IsInteractive bool
	IsTopElement  bool
	IsInViewport  bool

	Depth int

	ParentIdx int   // -1 for the root
	ChildIdxs []int // indices into Tree.Nodes
}

// BoundingBox is an element's bounding rectangle relative to the viewport.
type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Tree is an arena of Nodes reachable from index 0 (the root).
type Tree struct {
	Nodes []Node
}

// Root returns the tree's root node.
func (t *Tree) Root() *Node {
	if len(t.Nodes) == 0 {
		return nil
	}
	return &t.Nodes[0]
}

// Children returns the child nodes of n.
func (t *Tree) Children(n *Node) []*Node {
	out := make([]*Node, 0, len(n.ChildIdxs))
	for _, idx := range n.ChildIdxs {
		out = append(out, &t.Nodes[idx])
	}
	return out
}

// PreOrder returns all nodes in pre-order traversal.
func (t *Tree) PreOrder() []*Node {
	if len(t.Nodes) == 0 {
		return nil
	}
	var out []*Node
	var visit func(idx int)
	visit = func(idx int) {
		out = append(out, &t.Nodes[idx])
		for _, c := range t.Nodes[idx].ChildIdxs {
			visit(c)
		}
	}
	visit(0)
	return out
}

// FindByTag returns every node whose Tag equals tag.
func (t *Tree) FindByTag(tag string) []*Node {
	var out []*Node
	for _, n := range t.PreOrder() {
		if n.Tag == tag {
			out = append(out, n)
		}
	}
	return out
}

// FindByInternalID performs a lookup by the long numeric id.
func (t *Tree) FindByInternalID(id int) *Node {
	for i := range t.Nodes {
		if t.Nodes[i].InternalID == id {
			return &t.Nodes[i]
		}
	}
	return nil
}

// CountDepth returns the number of nodes at each depth level.
func (t *Tree) CountDepth() map[int]int {
	counts := make(map[int]int)
	for _, n := range t.PreOrder() {
		counts[n.Depth]++
	}
	return counts
}
