package treesync

import "botree/internal/domain"

// handle mirrors a change of the collection shown under parent
func (c *Controller) handle(parent *domain.TreeNode, ev domain.CollectionEvent) {
	switch ev.Kind {
	case domain.ObjectAdded:
		c.objectAdded(parent, ev)
	case domain.ObjectRemoved:
		c.objectRemoved(parent, ev)
	}
}

func (c *Controller) objectAdded(parent *domain.TreeNode, ev domain.CollectionEvent) {
	obj := ev.Object
	if obj == nil || c.hidden[obj] || c.childFor(parent, obj) != nil {
		return
	}
	pos := c.insertPosition(parent, ev.Collection, obj)
	node := c.addObjectNode(parent, pos, obj, c.levels[parent]+1)
	c.log.Debug("object added", "object", obj.String(), "under", parent.Text, "index", ev.Index, "position", node.Index())
}

func (c *Controller) objectRemoved(parent *domain.TreeNode, ev domain.CollectionEvent) {
	obj := ev.Object
	if obj == nil {
		return
	}
	node := c.childFor(parent, obj)
	if node == nil {
		return
	}
	c.removeNode(node)
	c.log.Debug("object removed", "object", obj.String(), "from", parent.Text)
}
