package treesync

import "botree/internal/domain"

// SetVisibility hides or shows obj without touching the collections that
// hold it. Hiding removes every node mirroring obj along with its subtree.
// Showing rebuilds the node wherever a filled relationship node's
// collection contains obj, at the position matching the collection order.
// Hidden objects stay hidden across expansions and additions until shown
// again or the tree is reloaded.
func (c *Controller) SetVisibility(obj domain.BusinessObject, visible bool) {
	if obj == nil {
		return
	}
	if !visible {
		c.hide(obj)
		return
	}
	c.show(obj)
}

// IsHidden reports whether obj was hidden with SetVisibility
func (c *Controller) IsHidden(obj domain.BusinessObject) bool {
	return c.hidden[obj]
}

func (c *Controller) hide(obj domain.BusinessObject) {
	if c.hidden[obj] {
		return
	}
	c.hidden[obj] = true
	// removing a node disposes nested occurrences along with it
	removed := 0
	saved := make(map[*domain.TreeNode]*expansion)
	for {
		node, ok := c.objectNodes.first(obj)
		if !ok {
			break
		}
		saved[node.Parent] = snapshot(node)
		c.removeNode(node)
		removed++
	}
	if removed > 0 {
		c.expansions[obj] = saved
	}
	c.log.Debug("object hidden", "object", obj.String(), "nodes", removed)
}

func (c *Controller) show(obj domain.BusinessObject) {
	if !c.hidden[obj] {
		return
	}
	delete(c.hidden, obj)
	saved := c.expansions[obj]
	delete(c.expansions, obj)

	root := c.view.Root()
	if obj == c.rootObject && c.childFor(root, obj) == nil {
		node := c.addObjectNode(root, 0, obj, 0)
		c.restore(node, saved[root])
	}

	// tree order, so the oldest occurrence stays the first one built
	var parents []*domain.TreeNode
	root.Walk(func(n *domain.TreeNode) {
		if coll, ok := c.attached[n]; ok && coll.IndexOf(obj) >= 0 {
			parents = append(parents, n)
		}
	})
	for _, parent := range parents {
		// an earlier insertion may have added obj below parent already
		coll, ok := c.attached[parent]
		if !ok || c.childFor(parent, obj) != nil {
			continue
		}
		pos := c.insertPosition(parent, coll, obj)
		node := c.addObjectNode(parent, pos, obj, c.levels[parent]+1)
		c.restore(node, saved[parent])
	}
	c.log.Debug("object shown", "object", obj.String(), "parents", len(parents))
}

// expansion records which nodes of a hidden subtree were filled and
// expanded. Children are keyed by the object or relationship they mirror.
type expansion struct {
	expanded bool
	filled   bool
	children map[any]*expansion
}

func snapshot(node *domain.TreeNode) *expansion {
	e := &expansion{
		expanded: node.IsExpanded,
		filled:   !node.HasPlaceholder(),
		children: make(map[any]*expansion),
	}
	for _, child := range node.Children {
		key := nodeKey(child)
		if key == nil {
			continue
		}
		if _, dup := e.children[key]; !dup {
			e.children[key] = snapshot(child)
		}
	}
	return e
}

// restore fills and expands the nodes below node that were filled and
// expanded when the snapshot was taken. Members added since get the
// default state.
func (c *Controller) restore(node *domain.TreeNode, e *expansion) {
	if e == nil {
		return
	}
	if node.Kind == domain.NodeRelationship && e.filled {
		c.ExpandNode(node)
	}
	node.IsExpanded = e.expanded
	for _, child := range node.Children {
		if key := nodeKey(child); key != nil {
			c.restore(child, e.children[key])
		}
	}
}

func nodeKey(node *domain.TreeNode) any {
	switch node.Kind {
	case domain.NodeObject:
		return node.Object
	case domain.NodeRelationship:
		return node.Relationship
	}
	return nil
}
