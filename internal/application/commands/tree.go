package commands

import (
	"context"
	"fmt"

	"botree/internal/application"
	"botree/internal/domain"
	"botree/internal/treesync"
)

// LoadTreeResult contains the result of loading a tree
type LoadTreeResult struct {
	Root    domain.BusinessObject
	Stats   treesync.Stats
	Message string
}

// LoadTreeCommand shows the graph, or one object of it, in a tree
type LoadTreeCommand struct {
	graph         *domain.Graph
	tree          *treesync.Controller
	RootID        string
	ExpandLevels  int
	DisplayLevels int
}

// NewLoadTreeCommand creates a new LoadTreeCommand. An empty rootID loads
// every root of the graph as a top-level node.
func NewLoadTreeCommand(graph *domain.Graph, tree *treesync.Controller, rootID string, expandLevels, displayLevels int) *LoadTreeCommand {
	return &LoadTreeCommand{
		graph:         graph,
		tree:          tree,
		RootID:        rootID,
		ExpandLevels:  expandLevels,
		DisplayLevels: displayLevels,
	}
}

// Validate checks the depth limits
func (c *LoadTreeCommand) Validate() error {
	if err := application.ValidateLevel("expandLevels", c.ExpandLevels); err != nil {
		return err
	}
	return application.ValidateLevel("displayLevels", c.DisplayLevels)
}

// Execute runs the load tree command
func (c *LoadTreeCommand) Execute(ctx context.Context) (*LoadTreeResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	if c.RootID == "" {
		c.tree.LoadCollection(c.graph.Roots, c.ExpandLevels, c.DisplayLevels)
		return &LoadTreeResult{
			Root:    c.tree.RootObject(),
			Stats:   c.tree.Stats(),
			Message: fmt.Sprintf("Loaded %d roots", c.graph.Roots.Len()),
		}, nil
	}

	root, err := application.FindObject(c.graph, c.RootID)
	if err != nil {
		return nil, err
	}
	c.tree.LoadObject(root, c.ExpandLevels, c.DisplayLevels)
	return &LoadTreeResult{
		Root:    root,
		Stats:   c.tree.Stats(),
		Message: fmt.Sprintf("Loaded %s", root),
	}, nil
}
