package ports

import "botree/internal/domain"

// TreeView is the widget the tree controller drives. Implementations own
// an invisible container node whose children are the top-level nodes.
type TreeView interface {
	// Root returns the container holding the top-level nodes
	Root() *domain.TreeNode

	// SelectedNode returns the selected node, or nil
	SelectedNode() *domain.TreeNode

	// SetSelectedNode selects node; nil clears the selection
	SetSelectedNode(node *domain.TreeNode)

	// OnBeforeExpand registers fn to run before a node is shown expanded.
	// The controller uses it to replace placeholders with real children.
	OnBeforeExpand(fn func(node *domain.TreeNode))
}
