package commands

import (
	"context"
	"fmt"

	"botree/internal/application"
	"botree/internal/domain"
)

// AddObjectResult contains the result of adding an object
type AddObjectResult struct {
	Object  *domain.Object
	Message string
}

// AddObjectCommand creates an object and adds it to a relationship of an
// existing owner, or as a new root when OwnerID is empty
type AddObjectCommand struct {
	graph        *domain.Graph
	OwnerID      string
	Relationship string
	Class        string
	Name         string
	Index        int // -1 appends

	// Relationships declared on the new object, all multiple
	Relationships []string
}

// NewAddObjectCommand creates a new AddObjectCommand that appends
func NewAddObjectCommand(graph *domain.Graph, ownerID, relationship, class, name string) *AddObjectCommand {
	return &AddObjectCommand{
		graph:        graph,
		OwnerID:      ownerID,
		Relationship: relationship,
		Class:        class,
		Name:         name,
		Index:        -1,
	}
}

// Validate checks if the add operation is valid
func (c *AddObjectCommand) Validate() error {
	if err := application.ValidateRequired("class", c.Class); err != nil {
		return err
	}
	if err := application.ValidateRequired("name", c.Name); err != nil {
		return err
	}
	if c.OwnerID != "" {
		if err := application.ValidateRequired("relationship", c.Relationship); err != nil {
			return err
		}
	}
	for _, name := range c.Relationships {
		if err := application.ValidateRequired("relationship", name); err != nil {
			return err
		}
	}
	return nil
}

// Execute runs the add command
func (c *AddObjectCommand) Execute(ctx context.Context) (*AddObjectResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	obj := domain.NewNamedObject(c.Class, c.Name)
	for _, name := range c.Relationships {
		obj.AddMultiple(name)
	}

	if c.OwnerID == "" {
		insert(c.graph.Roots, c.Index, obj)
		return &AddObjectResult{
			Object:  obj,
			Message: fmt.Sprintf("Added root %s (%s)", obj, obj.ID),
		}, nil
	}

	owner, err := application.FindObject(c.graph, c.OwnerID)
	if err != nil {
		return nil, err
	}
	coll, err := application.FindCollection(owner, c.Relationship)
	if err != nil {
		return nil, err
	}
	rel, _ := owner.Relationship(c.Relationship)
	if single, ok := rel.(*domain.SingleRelationship); ok {
		single.Set(obj)
	} else {
		insert(coll, c.Index, obj)
	}

	return &AddObjectResult{
		Object:  obj,
		Message: fmt.Sprintf("Added %s (%s) to %s.%s", obj, obj.ID, owner, c.Relationship),
	}, nil
}

func insert(coll *domain.ObjectCollection, index int, obj domain.BusinessObject) {
	if index < 0 {
		coll.Add(obj)
		return
	}
	coll.Insert(index, obj)
}
