package commands

import (
	"context"
	"fmt"

	"botree/internal/application"
	"botree/internal/domain"
	"botree/internal/treesync"
)

// SetVisibilityResult contains the result of hiding or showing an object
type SetVisibilityResult struct {
	Object  *domain.Object
	Visible bool
	Message string
}

// SetVisibilityCommand hides or shows every node of an object
type SetVisibilityCommand struct {
	graph    *domain.Graph
	tree     *treesync.Controller
	ObjectID string
	Visible  bool
}

// NewSetVisibilityCommand creates a new SetVisibilityCommand
func NewSetVisibilityCommand(graph *domain.Graph, tree *treesync.Controller, objectID string, visible bool) *SetVisibilityCommand {
	return &SetVisibilityCommand{
		graph:    graph,
		tree:     tree,
		ObjectID: objectID,
		Visible:  visible,
	}
}

// Validate checks if the visibility change is valid
func (c *SetVisibilityCommand) Validate() error {
	return application.ValidateRequired("objectID", c.ObjectID)
}

// Execute runs the visibility command
func (c *SetVisibilityCommand) Execute(ctx context.Context) (*SetVisibilityResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	obj, err := application.FindObject(c.graph, c.ObjectID)
	if err != nil {
		return nil, err
	}
	c.tree.SetVisibility(obj, c.Visible)

	verb := "Hid"
	if c.Visible {
		verb = "Showed"
	}
	return &SetVisibilityResult{
		Object:  obj,
		Visible: c.Visible,
		Message: fmt.Sprintf("%s %s", verb, obj),
	}, nil
}
