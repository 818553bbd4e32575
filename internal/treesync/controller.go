// Package treesync keeps a tree view in step with a live business object
// graph.
//
// A Controller mirrors a root object, a collection of objects or a single
// relationship onto the nodes of a ports.TreeView. Relationship nodes whose
// children are beyond the expand depth carry a placeholder child and are
// filled in when the view expands them. Once a relationship node holds real
// children the controller subscribes to its collection and mirrors every
// addition and removal until the node leaves the tree.
//
// The controller is not safe for concurrent use. Hosts call it from the
// goroutine that owns the view, which is also the goroutine collections
// raise their events on.
package treesync

import (
	"log/slog"
	"slices"

	"botree/internal/domain"
	"botree/internal/logging"
	"botree/internal/ports"
)

// Unlimited disables a depth limit
const Unlimited = -1

// SetupFunc customises a node created for obj, typically its Text
type SetupFunc func(node *domain.TreeNode, obj domain.BusinessObject)

// Option configures a Controller
type Option func(*Controller)

// WithLogger sets the logger used for debug output
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		c.log = l
	}
}

// WithSetupNode registers fn as if passed to OnSetupNode
func WithSetupNode(fn SetupFunc) Option {
	return func(c *Controller) {
		c.setup = append(c.setup, fn)
	}
}

// Controller synchronises a tree view with business objects
type Controller struct {
	view  ports.TreeView
	log   *slog.Logger
	setup []SetupFunc

	expandLevels  int
	displayLevels int
	rootObject    domain.BusinessObject

	objectNodes nodeIndex[domain.BusinessObject]
	relNodes    nodeIndex[domain.Relationship]
	collNodes   nodeIndex[domain.Collection]
	// collection mirrored by each filled node
	attached map[*domain.TreeNode]domain.Collection
	// object level of object nodes; owner level for relationship nodes
	levels  map[*domain.TreeNode]int
	cancels map[*domain.TreeNode][]func()
	hidden  map[domain.BusinessObject]bool
	// expansion state of hidden objects, by the parent each node left
	expansions map[domain.BusinessObject]map[*domain.TreeNode]*expansion
}

// New creates a controller driving view and hooks its expand notification
func New(view ports.TreeView, opts ...Option) *Controller {
	c := &Controller{
		view:          view,
		log:           logging.Discard(),
		expandLevels:  0,
		displayLevels: Unlimited,
		objectNodes:   make(nodeIndex[domain.BusinessObject]),
		relNodes:      make(nodeIndex[domain.Relationship]),
		collNodes:     make(nodeIndex[domain.Collection]),
		attached:      make(map[*domain.TreeNode]domain.Collection),
		levels:        make(map[*domain.TreeNode]int),
		cancels:       make(map[*domain.TreeNode][]func()),
		hidden:        make(map[domain.BusinessObject]bool),
		expansions:    make(map[domain.BusinessObject]map[*domain.TreeNode]*expansion),
	}
	for _, opt := range opts {
		opt(c)
	}
	view.OnBeforeExpand(c.ExpandNode)
	return c
}

// View returns the driven tree view
func (c *Controller) View() ports.TreeView {
	return c.view
}

// OnSetupNode registers fn to run whenever a node is created for an object
// and whenever a mirrored object reports an update. The node's Text is
// reset to the object's display string before the hooks run.
func (c *Controller) OnSetupNode(fn SetupFunc) {
	c.setup = append(c.setup, fn)
}

// Levels returns the expand and display depths of the last load
func (c *Controller) Levels() (expand, display int) {
	return c.expandLevels, c.displayLevels
}

// LoadObject replaces the tree with a node for root and its relationships.
// Relationship children are built eagerly while their object level is
// below expandLevels; relationship nodes are only shown under objects whose
// level is below displayLevels. The root object is level 0.
func (c *Controller) LoadObject(root domain.BusinessObject, expandLevels, displayLevels int) {
	c.Clear()
	c.expandLevels, c.displayLevels = expandLevels, displayLevels
	if root == nil {
		return
	}
	c.rootObject = root
	c.addObjectNode(c.view.Root(), 0, root, 0)
	c.log.Debug("tree loaded", "root", root.String(), "expand", expandLevels, "display", displayLevels)
}

// LoadCollection replaces the tree with one top-level node per object in
// coll and mirrors later changes to coll at the top level.
func (c *Controller) LoadCollection(coll domain.Collection, expandLevels, displayLevels int) {
	c.Clear()
	c.expandLevels, c.displayLevels = expandLevels, displayLevels
	if coll == nil {
		return
	}
	root := c.view.Root()
	c.levels[root] = -1
	c.attachCollection(root, coll)
	c.log.Debug("tree loaded", "objects", coll.Len(), "expand", expandLevels, "display", displayLevels)
}

// LoadRelationship replaces the tree with a single node labeled with the
// relationship name. Its children are level 0.
func (c *Controller) LoadRelationship(rel domain.Relationship, expandLevels, displayLevels int) {
	c.Clear()
	c.expandLevels, c.displayLevels = expandLevels, displayLevels
	if rel == nil {
		return
	}
	c.addRelationshipNode(c.view.Root(), rel, -1, true)
	c.log.Debug("tree loaded", "relationship", rel.Name(), "expand", expandLevels, "display", displayLevels)
}

// Clear removes every node and releases every subscription
func (c *Controller) Clear() {
	root := c.view.Root()
	c.view.SetSelectedNode(nil)
	for _, child := range root.Children {
		c.dispose(child)
	}
	root.ClearChildren()
	c.release(root)
	c.rootObject = nil
	clear(c.hidden)
	clear(c.expansions)
}

// ExpandNode fills a relationship node that still holds the placeholder.
// Other nodes, and relationship nodes already filled, are left alone.
func (c *Controller) ExpandNode(node *domain.TreeNode) {
	if node == nil || node.Kind != domain.NodeRelationship || !node.HasPlaceholder() {
		return
	}
	if _, ok := c.levels[node]; !ok {
		c.log.Debug("expand ignored: node not tracked", "text", node.Text)
		return
	}
	node.ClearChildren()
	c.attachCollection(node, node.Relationship.Collection())
	node.Expand()
	c.log.Debug("node expanded", "relationship", node.Text, "children", len(node.Children))
}

// NodeFor returns the node mirroring obj. When obj is shown more than
// once the oldest surviving node is returned.
func (c *Controller) NodeFor(obj domain.BusinessObject) (*domain.TreeNode, bool) {
	return c.objectNodes.first(obj)
}

// NodesFor returns every node mirroring obj, oldest first
func (c *Controller) NodesFor(obj domain.BusinessObject) []*domain.TreeNode {
	return slices.Clone(c.objectNodes[obj])
}

// Refresh recomputes the text of every node mirroring obj, for changes
// that do not go through a collection
func (c *Controller) Refresh(obj domain.BusinessObject) {
	for _, node := range c.objectNodes[obj] {
		c.applySetup(node, obj)
	}
}

// RelationshipNode returns the node grouping rel, the oldest one when the
// owner is shown more than once
func (c *Controller) RelationshipNode(rel domain.Relationship) (*domain.TreeNode, bool) {
	return c.relNodes.first(rel)
}

// SelectObject selects obj's node, or clears the selection when obj has none
func (c *Controller) SelectObject(obj domain.BusinessObject) {
	node, ok := c.objectNodes.first(obj)
	if !ok {
		c.view.SetSelectedNode(nil)
		return
	}
	c.view.SetSelectedNode(node)
}

// SelectedObject returns the object of the selected node, if any
func (c *Controller) SelectedObject() domain.BusinessObject {
	if n := c.view.SelectedNode(); n != nil && n.Kind == domain.NodeObject {
		return n.Object
	}
	return nil
}

// RootObject returns the object bound to the first top-level node
func (c *Controller) RootObject() domain.BusinessObject {
	top := c.view.Root().Children
	if len(top) == 0 || top[0].Kind != domain.NodeObject {
		return nil
	}
	return top[0].Object
}

// Stats counts what the controller is tracking
type Stats struct {
	Objects       int // object nodes
	Relationships int // relationship nodes
	Collections   int // nodes mirroring a collection
	Subscriptions int
	Hidden        int
}

// Stats returns the sizes of the lookup tables and live subscriptions
func (c *Controller) Stats() Stats {
	s := Stats{
		Objects:       c.objectNodes.count(),
		Relationships: c.relNodes.count(),
		Collections:   len(c.attached),
		Hidden:        len(c.hidden),
	}
	for _, cs := range c.cancels {
		s.Subscriptions += len(cs)
	}
	return s
}
