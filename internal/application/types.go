package application

import (
	"fmt"

	"botree/internal/domain"
)

// Re-export domain types for use by adapters
type (
	TreeNode       = domain.TreeNode
	BusinessObject = domain.BusinessObject
	Object         = domain.Object
	Graph          = domain.Graph
)

// FindObject resolves id in g
func FindObject(g *domain.Graph, id string) (*domain.Object, error) {
	obj, ok := g.Find(id)
	if !ok {
		return nil, &NotFoundError{ID: id}
	}
	return obj, nil
}

// FindCollection returns the collection behind owner's relationship rel
func FindCollection(owner *domain.Object, rel string) (*domain.ObjectCollection, error) {
	coll := owner.Children(rel)
	if coll == nil {
		return nil, fmt.Errorf("%s has no relationship %q: %w", owner, rel, ErrNoRelationship)
	}
	return coll, nil
}
