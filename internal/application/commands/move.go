package commands

import (
	"context"
	"fmt"

	"botree/internal/application"
	"botree/internal/domain"
)

// MoveObjectResult contains the result of moving an object
type MoveObjectResult struct {
	Object  *domain.Object
	Message string
}

// MoveObjectCommand moves an object into a relationship of another owner
type MoveObjectCommand struct {
	graph        *domain.Graph
	ObjectID     string
	NewOwnerID   string
	Relationship string
	Index        int // -1 appends
}

// NewMoveObjectCommand creates a new MoveObjectCommand that appends
func NewMoveObjectCommand(graph *domain.Graph, objectID, newOwnerID, relationship string) *MoveObjectCommand {
	return &MoveObjectCommand{
		graph:        graph,
		ObjectID:     objectID,
		NewOwnerID:   newOwnerID,
		Relationship: relationship,
		Index:        -1,
	}
}

// Validate checks if the move operation is valid
func (c *MoveObjectCommand) Validate() error {
	if err := application.ValidateRequired("objectID", c.ObjectID); err != nil {
		return err
	}
	if err := application.ValidateRequired("newOwnerID", c.NewOwnerID); err != nil {
		return err
	}
	if err := application.ValidateRequired("relationship", c.Relationship); err != nil {
		return err
	}
	if c.ObjectID == c.NewOwnerID {
		return &application.MoveError{
			SourceID: c.ObjectID,
			DestID:   c.NewOwnerID,
			Reason:   "an object cannot own itself",
		}
	}
	return nil
}

// Execute runs the move command
func (c *MoveObjectCommand) Execute(ctx context.Context) (*MoveObjectResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	obj, err := application.FindObject(c.graph, c.ObjectID)
	if err != nil {
		return nil, err
	}
	owner, err := application.FindObject(c.graph, c.NewOwnerID)
	if err != nil {
		return nil, err
	}
	dest, err := application.FindCollection(owner, c.Relationship)
	if err != nil {
		return nil, err
	}
	if reachable(obj, owner) {
		return nil, &application.MoveError{
			SourceID: c.ObjectID,
			DestID:   c.NewOwnerID,
			Reason:   fmt.Sprintf("%s lies below %s", owner, obj),
		}
	}
	if rel, _ := owner.Relationship(c.Relationship); rel != nil {
		if _, single := rel.(*domain.SingleRelationship); single && dest.Len() > 0 {
			return nil, &application.MoveError{
				SourceID: c.ObjectID,
				DestID:   c.NewOwnerID,
				Reason:   fmt.Sprintf("%s.%s already holds %s", owner, c.Relationship, dest.At(0)),
			}
		}
	}

	if c.graph.IsRoot(obj) {
		c.graph.Roots.Remove(obj)
	} else if rel, ok := c.graph.Locate(obj); ok {
		if src, ok := rel.Collection().(*domain.ObjectCollection); ok {
			src.Remove(obj)
		}
	}
	insert(dest, c.Index, obj)

	return &MoveObjectResult{
		Object:  obj,
		Message: fmt.Sprintf("Moved %s to %s.%s", obj, owner, c.Relationship),
	}, nil
}

// reachable reports whether target can be reached from obj through
// relationships
func reachable(obj, target *domain.Object) bool {
	found := false
	domain.NewGraph(obj).Walk(func(o *domain.Object, _ int) bool {
		if o == target {
			found = true
			return false
		}
		return true
	})
	return found
}
