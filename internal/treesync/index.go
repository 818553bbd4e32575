package treesync

import (
	"slices"

	"botree/internal/domain"
)

// nodeIndex maps a key to every node currently mirroring it, oldest first.
// An object reachable along several paths has one node per path.
type nodeIndex[K comparable] map[K][]*domain.TreeNode

func (m nodeIndex[K]) add(k K, n *domain.TreeNode) {
	m[k] = append(m[k], n)
}

func (m nodeIndex[K]) remove(k K, n *domain.TreeNode) {
	nodes := slices.DeleteFunc(m[k], func(x *domain.TreeNode) bool { return x == n })
	if len(nodes) == 0 {
		delete(m, k)
		return
	}
	m[k] = nodes
}

func (m nodeIndex[K]) first(k K) (*domain.TreeNode, bool) {
	nodes := m[k]
	if len(nodes) == 0 {
		return nil, false
	}
	return nodes[0], true
}

// under returns the node for k whose parent is parent
func (m nodeIndex[K]) under(k K, parent *domain.TreeNode) *domain.TreeNode {
	for _, n := range m[k] {
		if n.Parent == parent {
			return n
		}
	}
	return nil
}

func (m nodeIndex[K]) count() int {
	n := 0
	for _, nodes := range m {
		n += len(nodes)
	}
	return n
}
