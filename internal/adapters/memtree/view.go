// Package memtree is a headless tree widget. It keeps nodes in memory and
// raises the expand notification like an on-screen tree would.
package memtree

import (
	"fmt"
	"io"
	"strings"

	"botree/internal/domain"
	"botree/internal/ports"
)

// View implements ports.TreeView without rendering anything on screen
type View struct {
	root     *domain.TreeNode
	selected *domain.TreeNode
	onExpand []func(*domain.TreeNode)
}

// Ensure View implements TreeView
var _ ports.TreeView = (*View)(nil)

// New creates an empty view
func New() *View {
	return &View{root: domain.NewContainer()}
}

func (v *View) Root() *domain.TreeNode { return v.root }

func (v *View) SelectedNode() *domain.TreeNode { return v.selected }

func (v *View) SetSelectedNode(node *domain.TreeNode) { v.selected = node }

func (v *View) OnBeforeExpand(fn func(*domain.TreeNode)) {
	v.onExpand = append(v.onExpand, fn)
}

// Expand notifies expand handlers and then marks node expanded
func (v *View) Expand(node *domain.TreeNode) {
	for _, fn := range v.onExpand {
		fn(node)
	}
	node.Expand()
}

// ExpandAll expands node and every descendant, loading placeholders on the
// way down until depth levels below node have been expanded. A negative
// depth expands without limit, which never ends on cyclic graphs.
func (v *View) ExpandAll(node *domain.TreeNode, depth int) {
	if depth == 0 || node.IsPlaceholder() {
		return
	}
	v.Expand(node)
	for _, child := range node.Children {
		v.ExpandAll(child, depth-1)
	}
}

// Collapse marks node collapsed
func (v *View) Collapse(node *domain.TreeNode) {
	node.Collapse()
}

// TopLevel returns the top-level nodes
func (v *View) TopLevel() []*domain.TreeNode {
	return v.root.Children
}

// Render writes an indented outline of the tree. Collapsed nodes hide
// their children unless all is set.
func (v *View) Render(w io.Writer, all bool) error {
	for _, n := range v.root.Children {
		if err := render(w, n, 0, all); err != nil {
			return err
		}
	}
	return nil
}

// String renders every node, expanded or not
func (v *View) String() string {
	var sb strings.Builder
	v.Render(&sb, true)
	return sb.String()
}

func render(w io.Writer, n *domain.TreeNode, depth int, all bool) error {
	marker := "  "
	switch {
	case len(n.Children) > 0 && n.IsExpanded:
		marker = "- "
	case len(n.Children) > 0:
		marker = "+ "
	}
	if _, err := fmt.Fprintf(w, "%s%s%s\n", strings.Repeat("  ", depth), marker, n.Text); err != nil {
		return err
	}
	if !n.IsExpanded && !all {
		return nil
	}
	for _, c := range n.Children {
		if err := render(w, c, depth+1, all); err != nil {
			return err
		}
	}
	return nil
}
