package treesync

import "botree/internal/domain"

// showsRelationships reports whether objects at level get relationship nodes
func (c *Controller) showsRelationships(level int) bool {
	return c.displayLevels < 0 || level < c.displayLevels
}

// eager reports whether relationships of an object at level are filled
// immediately rather than behind a placeholder
func (c *Controller) eager(level int) bool {
	return c.expandLevels < 0 || level+1 < c.expandLevels
}

// addObjectNode inserts the node for obj under parent at pos, together
// with its relationship nodes.
func (c *Controller) addObjectNode(parent *domain.TreeNode, pos int, obj domain.BusinessObject, level int) *domain.TreeNode {
	node := domain.NewObjectNode(obj)
	c.applySetup(node, obj)
	c.objectNodes.add(obj, node)
	c.levels[node] = level
	parent.Insert(pos, node)

	if n, ok := obj.(domain.Notifier); ok {
		c.own(node, n.OnUpdated(func(domain.BusinessObject) {
			c.applySetup(node, obj)
		}))
	}

	if !c.showsRelationships(level) {
		return node
	}
	// an object that already appears above itself is never filled eagerly,
	// otherwise cyclic graphs would recurse without end
	fill := c.eager(level) && !onPath(parent, obj)
	for _, rel := range obj.Relationships() {
		c.addRelationshipNode(node, rel, level, fill)
	}
	node.IsExpanded = c.expandLevels < 0 || level < c.expandLevels
	return node
}

// addRelationshipNode appends the grouping node for rel to owner, an
// object at ownerLevel. Unless fill is set the node gets the placeholder.
func (c *Controller) addRelationshipNode(owner *domain.TreeNode, rel domain.Relationship, ownerLevel int, fill bool) *domain.TreeNode {
	node := domain.NewRelationshipNode(rel)
	c.relNodes.add(rel, node)
	c.levels[node] = ownerLevel
	owner.Append(node)
	if fill && c.eager(ownerLevel) {
		c.attachCollection(node, rel.Collection())
		node.Expand()
	} else {
		node.Append(domain.NewPlaceholder())
	}
	return node
}

// attachCollection builds object nodes for every visible member of coll
// under parent and starts mirroring coll into parent.
func (c *Controller) attachCollection(parent *domain.TreeNode, coll domain.Collection) {
	c.collNodes.add(coll, parent)
	c.attached[parent] = coll
	c.own(parent, coll.Subscribe(func(ev domain.CollectionEvent) {
		c.handle(parent, ev)
	}))
	level := c.levels[parent] + 1
	for _, obj := range coll.Objects() {
		if c.hidden[obj] {
			continue
		}
		c.addObjectNode(parent, len(parent.Children), obj, level)
	}
}

func (c *Controller) applySetup(node *domain.TreeNode, obj domain.BusinessObject) {
	node.Text = obj.String()
	for _, fn := range c.setup {
		fn(node, obj)
	}
}

// own ties a subscription's lifetime to node
func (c *Controller) own(node *domain.TreeNode, cancel func()) {
	c.cancels[node] = append(c.cancels[node], cancel)
}

// release cancels the subscriptions node owns and forgets the collection
// it mirrors
func (c *Controller) release(node *domain.TreeNode) {
	for _, cancel := range c.cancels[node] {
		cancel()
	}
	delete(c.cancels, node)
	delete(c.levels, node)
	if coll, ok := c.attached[node]; ok {
		c.collNodes.remove(coll, node)
		delete(c.attached, node)
	}
}

// dispose unregisters node and all its descendants. Subscriptions are
// cancelled before descending so no handler fires for a node being torn
// down. The caller detaches node from its parent.
func (c *Controller) dispose(node *domain.TreeNode) {
	c.release(node)
	for _, child := range node.Children {
		c.dispose(child)
	}
	switch node.Kind {
	case domain.NodeObject:
		c.objectNodes.remove(node.Object, node)
	case domain.NodeRelationship:
		c.relNodes.remove(node.Relationship, node)
	}
}

// removeNode disposes node, detaches it and clears a selection inside it
func (c *Controller) removeNode(node *domain.TreeNode) {
	if sel := c.view.SelectedNode(); sel != nil && sel.IsDescendantOf(node) {
		c.view.SetSelectedNode(nil)
	}
	c.dispose(node)
	node.Detach()
}

// childFor returns the node under parent mirroring obj
func (c *Controller) childFor(parent *domain.TreeNode, obj domain.BusinessObject) *domain.TreeNode {
	return c.objectNodes.under(obj, parent)
}

// insertPosition returns where obj's node belongs under parent: after
// every earlier member of coll that currently has a node there.
func (c *Controller) insertPosition(parent *domain.TreeNode, coll domain.Collection, obj domain.BusinessObject) int {
	pos := 0
	for _, o := range coll.Objects() {
		if o == obj {
			break
		}
		if c.childFor(parent, o) != nil {
			pos++
		}
	}
	return pos
}

func onPath(node *domain.TreeNode, obj domain.BusinessObject) bool {
	for cur := node; cur != nil; cur = cur.Parent {
		if cur.Kind == domain.NodeObject && cur.Object == obj {
			return true
		}
	}
	return false
}
