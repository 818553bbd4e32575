package commands

import (
	"context"
	"fmt"

	"botree/internal/application"
	"botree/internal/domain"
)

// RemoveObjectResult contains the result of removing an object
type RemoveObjectResult struct {
	Object  *domain.Object
	Message string
}

// RemoveObjectCommand removes an object from the relationship holding it,
// or from the graph roots
type RemoveObjectCommand struct {
	graph    *domain.Graph
	ObjectID string
}

// NewRemoveObjectCommand creates a new RemoveObjectCommand
func NewRemoveObjectCommand(graph *domain.Graph, objectID string) *RemoveObjectCommand {
	return &RemoveObjectCommand{
		graph:    graph,
		ObjectID: objectID,
	}
}

// Validate checks if the remove operation is valid
func (c *RemoveObjectCommand) Validate() error {
	return application.ValidateRequired("objectID", c.ObjectID)
}

// Execute runs the remove command
func (c *RemoveObjectCommand) Execute(ctx context.Context) (*RemoveObjectResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	obj, err := application.FindObject(c.graph, c.ObjectID)
	if err != nil {
		return nil, err
	}

	if c.graph.IsRoot(obj) {
		c.graph.Roots.Remove(obj)
		return &RemoveObjectResult{Object: obj, Message: fmt.Sprintf("Removed root %s", obj)}, nil
	}

	rel, ok := c.graph.Locate(obj)
	if !ok {
		return nil, fmt.Errorf("%s is not held by any relationship: %w", obj, application.ErrInvalidOperation)
	}
	coll, ok := rel.Collection().(*domain.ObjectCollection)
	if !ok {
		return nil, fmt.Errorf("%s.%s is read-only: %w", rel.Owner(), rel.Name(), application.ErrInvalidOperation)
	}
	coll.Remove(obj)

	return &RemoveObjectResult{
		Object:  obj,
		Message: fmt.Sprintf("Removed %s from %s.%s", obj, rel.Owner(), rel.Name()),
	}, nil
}
