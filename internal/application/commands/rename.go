package commands

import (
	"context"
	"fmt"

	"botree/internal/application"
	"botree/internal/domain"
)

// RenameObjectResult contains the result of renaming an object
type RenameObjectResult struct {
	Object  *domain.Object
	OldName string
	Message string
}

// RenameObjectCommand sets the display property of an object
type RenameObjectCommand struct {
	graph    *domain.Graph
	ObjectID string
	NewName  string
}

// NewRenameObjectCommand creates a new RenameObjectCommand
func NewRenameObjectCommand(graph *domain.Graph, objectID, newName string) *RenameObjectCommand {
	return &RenameObjectCommand{
		graph:    graph,
		ObjectID: objectID,
		NewName:  newName,
	}
}

// Validate checks if the rename operation is valid
func (c *RenameObjectCommand) Validate() error {
	if err := application.ValidateRequired("objectID", c.ObjectID); err != nil {
		return err
	}
	return application.ValidateRequired("name", c.NewName)
}

// Execute runs the rename command
func (c *RenameObjectCommand) Execute(ctx context.Context) (*RenameObjectResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	obj, err := application.FindObject(c.graph, c.ObjectID)
	if err != nil {
		return nil, err
	}
	old := obj.String()
	obj.Set(obj.DisplayProp, c.NewName)

	return &RenameObjectResult{
		Object:  obj,
		OldName: old,
		Message: fmt.Sprintf("Renamed %s -> %s", old, obj),
	}, nil
}
