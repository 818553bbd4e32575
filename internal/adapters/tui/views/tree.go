package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"botree/internal/adapters/tui/styles"
	"botree/internal/domain"
	"botree/internal/ports"
)

// TreeModel is the terminal tree widget. It owns the node container the
// tree controller fills and keeps the selection as a node, so removing a
// node from the tree never leaves the cursor on a stale row.
type TreeModel struct {
	root     *domain.TreeNode
	selected *domain.TreeNode
	hooks    []func(*domain.TreeNode)
	window   *Window
	width    int
}

// Ensure TreeModel implements TreeView
var _ ports.TreeView = (*TreeModel)(nil)

// NewTreeModel creates an empty tree widget
func NewTreeModel() *TreeModel {
	return &TreeModel{
		root:   domain.NewContainer(),
		window: NewWindow(20),
	}
}

func (m *TreeModel) Root() *domain.TreeNode         { return m.root }
func (m *TreeModel) SelectedNode() *domain.TreeNode { return m.selected }

// SetSelectedNode selects node; nil clears the selection
func (m *TreeModel) SetSelectedNode(node *domain.TreeNode) {
	m.selected = node
}

// OnBeforeExpand registers fn to run before a node is shown expanded
func (m *TreeModel) OnBeforeExpand(fn func(*domain.TreeNode)) {
	m.hooks = append(m.hooks, fn)
}

// SetSize sets the area available to the tree rows
func (m *TreeModel) SetSize(width, height int) {
	m.width = width
	m.window.SetHeight(height)
}

// Rows returns the nodes in screen order: top-level nodes and
// the children of expanded nodes. Placeholders are never shown.
func (m *TreeModel) Rows() []*domain.TreeNode {
	var rows []*domain.TreeNode
	var walk func(n *domain.TreeNode)
	walk = func(n *domain.TreeNode) {
		for _, child := range n.Children {
			if child.IsPlaceholder() {
				continue
			}
			rows = append(rows, child)
			if child.IsExpanded {
				walk(child)
			}
		}
	}
	walk(m.root)
	return rows
}

// Cursor returns the row of the selection, or -1
func (m *TreeModel) Cursor() int {
	if m.selected == nil {
		return -1
	}
	for i, n := range m.Rows() {
		if n == m.selected {
			return i
		}
	}
	return -1
}

// Expand runs the before-expand hooks for node and marks it expanded
func (m *TreeModel) Expand(node *domain.TreeNode) {
	if node == nil || len(node.Children) == 0 {
		return
	}
	for _, fn := range m.hooks {
		fn(node)
	}
	node.Expand()
}

// Collapse hides node's children. A selection inside them moves to node.
func (m *TreeModel) Collapse(node *domain.TreeNode) {
	if node == nil {
		return
	}
	node.Collapse()
	if m.selected != nil && m.selected != node && m.selected.IsDescendantOf(node) {
		m.selected = node
	}
}

// Toggle expands a collapsed node and collapses an expanded one
func (m *TreeModel) Toggle(node *domain.TreeNode) {
	if node == nil {
		return
	}
	if node.IsExpanded {
		m.Collapse(node)
		return
	}
	m.Expand(node)
}

// Up moves the selection one row up; without a selection it picks the
// first row
func (m *TreeModel) Up() {
	m.move(-1)
}

// Down moves the selection one row down; without a selection it picks the
// first row
func (m *TreeModel) Down() {
	m.move(1)
}

func (m *TreeModel) move(delta int) {
	rows := m.Rows()
	if len(rows) == 0 {
		m.selected = nil
		return
	}
	cursor := m.Cursor()
	if cursor < 0 {
		m.selected = rows[0]
		return
	}
	cursor = max(0, min(len(rows)-1, cursor+delta))
	m.selected = rows[cursor]
}

// Parent moves the selection to the parent of the selected node
func (m *TreeModel) Parent() {
	if m.selected == nil || m.selected.Parent == nil || m.selected.Parent == m.root {
		return
	}
	m.selected = m.selected.Parent
}

// Reveal expands every ancestor of node and selects it
func (m *TreeModel) Reveal(node *domain.TreeNode) {
	var chain []*domain.TreeNode
	for cur := node.Parent; cur != nil && cur != m.root; cur = cur.Parent {
		chain = append(chain, cur)
	}
	for i := len(chain) - 1; i >= 0; i-- {
		if !chain[i].IsExpanded {
			m.Expand(chain[i])
		}
	}
	m.selected = node
}

// View renders the visible rows
func (m *TreeModel) View() string {
	rows := m.Rows()
	if len(rows) == 0 {
		return styles.MutedText.Render("(empty tree)")
	}

	cursor := m.Cursor()
	m.window.SetTotal(len(rows))
	m.window.Follow(cursor)
	start, end := m.window.VisibleRange()

	var b strings.Builder
	if above := m.window.Above(); above > 0 {
		b.WriteString(styles.MutedText.Render(fmt.Sprintf("  ↑ %d more", above)))
		b.WriteString("\n")
	}
	for i := start; i < end; i++ {
		b.WriteString(m.renderNode(rows[i], i == cursor))
		b.WriteString("\n")
	}
	if below := m.window.Below(); below > 0 {
		b.WriteString(styles.MutedText.Render(fmt.Sprintf("  ↓ %d more", below)))
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func (m *TreeModel) renderNode(node *domain.TreeNode, selected bool) string {
	// top-level nodes have depth 1 below the container
	indent := strings.Repeat("  ", node.Depth()-1)

	var prefix string
	switch {
	case len(node.Children) == 0:
		prefix = styles.TreeLeaf
	case node.IsExpanded:
		prefix = styles.TreeExpanded
	default:
		prefix = styles.TreeCollapsed
	}

	var style lipgloss.Style
	switch node.Kind {
	case domain.NodeObject:
		style = styles.NodeObject
		if obj, ok := node.Object.(*domain.Object); ok {
			style = style.Foreground(styles.ClassColor(obj.Class))
		}
	case domain.NodeRelationship:
		style = styles.NodeRelationship
	default:
		style = styles.NodePlaceholder
	}

	text := node.Text
	if m.width > 0 {
		text = Truncate(text, m.width-len(indent)-2, "…")
	}
	if selected {
		style = styles.NodeSelected
	}
	return indent + styles.TreeBranch.Render(prefix) + style.Render(text)
}
