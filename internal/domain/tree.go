package domain

import "slices"

// NodeKind tells what a tree node mirrors
type NodeKind int

const (
	NodeContainer    NodeKind = iota // invisible widget root
	NodeObject                       // a business object
	NodeRelationship                 // a relationship grouping
	NodePlaceholder                  // stands in for children not loaded yet
)

func (k NodeKind) String() string {
	switch k {
	case NodeObject:
		return "Object"
	case NodeRelationship:
		return "Relationship"
	case NodePlaceholder:
		return "Placeholder"
	default:
		return "Container"
	}
}

// PlaceholderText is shown by widgets that render placeholder nodes
const PlaceholderText = "$DUMMY$"

// TreeNode represents a node in the visual tree
type TreeNode struct {
	Kind         NodeKind
	Text         string
	Object       BusinessObject // set for NodeObject
	Relationship Relationship   // set for NodeRelationship
	Children     []*TreeNode
	IsExpanded   bool
	Parent       *TreeNode
}

// NewContainer creates the invisible root a widget hangs top-level nodes on
func NewContainer() *TreeNode {
	return &TreeNode{Kind: NodeContainer, IsExpanded: true}
}

// NewObjectNode creates a node for obj using its display string
func NewObjectNode(obj BusinessObject) *TreeNode {
	return &TreeNode{Kind: NodeObject, Text: obj.String(), Object: obj}
}

// NewRelationshipNode creates a grouping node labeled with the relationship name
func NewRelationshipNode(rel Relationship) *TreeNode {
	return &TreeNode{Kind: NodeRelationship, Text: rel.Name(), Relationship: rel}
}

// NewPlaceholder creates the lazy-loading placeholder
func NewPlaceholder() *TreeNode {
	return &TreeNode{Kind: NodePlaceholder, Text: PlaceholderText}
}

// IsPlaceholder reports whether the node is the lazy-loading placeholder
func (n *TreeNode) IsPlaceholder() bool {
	return n.Kind == NodePlaceholder
}

// HasPlaceholder reports whether the node's only child is the placeholder
func (n *TreeNode) HasPlaceholder() bool {
	return len(n.Children) == 1 && n.Children[0].IsPlaceholder()
}

// Flatten returns all visible nodes in the tree (for list rendering)
func (n *TreeNode) Flatten() []*TreeNode {
	var result []*TreeNode
	n.flattenRecursive(&result)
	return result
}

func (n *TreeNode) flattenRecursive(result *[]*TreeNode) {
	*result = append(*result, n)
	if n.IsExpanded {
		for _, child := range n.Children {
			child.flattenRecursive(result)
		}
	}
}

// Walk visits n and all its descendants, parents before children
func (n *TreeNode) Walk(fn func(*TreeNode)) {
	fn(n)
	for _, child := range n.Children {
		child.Walk(fn)
	}
}

// Depth returns the depth of this node in the tree
func (n *TreeNode) Depth() int {
	depth := 0
	current := n.Parent
	for current != nil {
		depth++
		current = current.Parent
	}
	return depth
}

// IsDescendantOf reports whether n is anc or lies below it
func (n *TreeNode) IsDescendantOf(anc *TreeNode) bool {
	for cur := n; cur != nil; cur = cur.Parent {
		if cur == anc {
			return true
		}
	}
	return false
}

// Toggle expands or collapses the node
func (n *TreeNode) Toggle() {
	n.IsExpanded = !n.IsExpanded
}

// Expand sets the node as expanded
func (n *TreeNode) Expand() {
	n.IsExpanded = true
}

// Collapse sets the node as collapsed
func (n *TreeNode) Collapse() {
	n.IsExpanded = false
}

// Insert attaches child at index i (clamped) and sets its parent
func (n *TreeNode) Insert(i int, child *TreeNode) {
	i = max(0, min(i, len(n.Children)))
	child.Parent = n
	n.Children = slices.Insert(n.Children, i, child)
}

// Append attaches child as the last child
func (n *TreeNode) Append(child *TreeNode) {
	n.Insert(len(n.Children), child)
}

// Remove detaches child and reports whether it was a child of n
func (n *TreeNode) Remove(child *TreeNode) bool {
	i := slices.Index(n.Children, child)
	if i < 0 {
		return false
	}
	n.Children = slices.Delete(n.Children, i, i+1)
	child.Parent = nil
	return true
}

// Detach removes n from its parent, if any
func (n *TreeNode) Detach() {
	if n.Parent != nil {
		n.Parent.Remove(n)
	}
}

// ClearChildren detaches every child
func (n *TreeNode) ClearChildren() {
	for _, c := range n.Children {
		c.Parent = nil
	}
	n.Children = nil
}

// Index returns the position of n among its siblings, or -1
func (n *TreeNode) Index() int {
	if n.Parent == nil {
		return -1
	}
	return slices.Index(n.Parent.Children, n)
}

// Path returns the texts from the top-level node down to n
func (n *TreeNode) Path() []string {
	var path []string
	for cur := n; cur != nil && cur.Kind != NodeContainer; cur = cur.Parent {
		path = append(path, cur.Text)
	}
	slices.Reverse(path)
	return path
}

// Equal compares two subtrees by content: kind, text, mirrored object or
// relationship, expansion state and children, ignoring node identity.
func (n *TreeNode) Equal(o *TreeNode) bool {
	if n == nil || o == nil {
		return n == o
	}
	if n.Kind != o.Kind || n.Text != o.Text || n.Object != o.Object ||
		n.Relationship != o.Relationship || n.IsExpanded != o.IsExpanded ||
		len(n.Children) != len(o.Children) {
		return false
	}
	for i := range n.Children {
		if !n.Children[i].Equal(o.Children[i]) {
			return false
		}
	}
	return true
}
