package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"botree/internal/application"
	"botree/internal/application/commands"
)

// RegisterReadTools adds the tools that load, search and browse the tree.
func RegisterReadTools(s *server.MCPServer, svc *Service) {
	s.AddTool(treeTool(), svc.locked(svc.treeHandler))
	s.AddTool(findTool(), svc.locked(svc.findHandler))
	s.AddTool(expandTool(), svc.locked(svc.expandHandler))
	s.AddTool(hideTool(), svc.locked(svc.visibilityHandler(false)))
	s.AddTool(showTool(), svc.locked(svc.visibilityHandler(true)))
}

// --- tree ---

func treeTool() mcp.Tool {
	return mcp.NewTool("tree",
		mcp.WithDescription("Load the object tree and display it. Without root_id every root object is a top-level node. Reloading forgets hidden objects."),
		mcp.WithString("root_id",
			mcp.Description("ID of the object to show as the single root"),
		),
		mcp.WithNumber("expand",
			mcp.Description("Levels whose relationships are loaded eagerly, -1 for all"),
		),
		mcp.WithNumber("display",
			mcp.Description("Levels that show relationship nodes, -1 for all"),
		),
	)
}

func (svc *Service) treeHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cmd := commands.NewLoadTreeCommand(
		svc.session.Graph,
		svc.session.Tree,
		req.GetString("root_id", ""),
		req.GetInt("expand", svc.defaults.Expand),
		req.GetInt("display", svc.defaults.Display),
	)
	result, err := cmd.Execute(ctx)
	if err != nil {
		return toolError(err)
	}
	return svc.render(result.Message)
}

// --- find ---

func findTool() mcp.Tool {
	return mcp.NewTool("find",
		mcp.WithDescription("Fuzzy search objects by ID, class or property value. Returns IDs with the path from the root."),
		mcp.WithString("query",
			mcp.Description("Search query, at least two characters"),
			mcp.Required(),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results (default 20)"),
		),
	)
}

func (svc *Service) findHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := req.GetString("query", "")
	if query == "" {
		return toolError(fmt.Errorf("query is required"))
	}

	cmd := commands.NewFindObjectsCommand(svc.session.Graph, query)
	cmd.Limit = req.GetInt("limit", 20)
	results, err := cmd.Execute(ctx)
	if err != nil {
		return toolError(err)
	}
	if len(results) == 0 {
		return mcp.NewToolResultText("No results found."), nil
	}

	var sb strings.Builder
	for _, r := range results {
		fmt.Fprintf(&sb, "%s  %s  %s\n", r.Object.ID, r.Object.Class, strings.Join(r.Path, " > "))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// --- expand ---

func expandTool() mcp.Tool {
	return mcp.NewTool("expand",
		mcp.WithDescription("Expand a relationship of an object in the loaded tree, loading its children when needed."),
		mcp.WithString("object_id",
			mcp.Description("ID of the owning object"),
			mcp.Required(),
		),
		mcp.WithString("relationship",
			mcp.Description("Relationship name"),
			mcp.Required(),
		),
	)
}

func (svc *Service) expandHandler(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	objectID := req.GetString("object_id", "")
	relName := req.GetString("relationship", "")
	if err := application.ValidateRequired("objectID", objectID); err != nil {
		return toolError(err)
	}
	if err := application.ValidateRequired("relationship", relName); err != nil {
		return toolError(err)
	}

	obj, err := application.FindObject(svc.session.Graph, objectID)
	if err != nil {
		return toolError(err)
	}
	rel, ok := obj.Relationship(relName)
	if !ok {
		return toolError(fmt.Errorf("%s has no relationship %q: %w", obj, relName, application.ErrNoRelationship))
	}
	node, ok := svc.session.Tree.RelationshipNode(rel)
	if !ok {
		return toolError(fmt.Errorf("%s.%s is not in the tree: %w", obj, relName, application.ErrNotFound))
	}
	svc.view.Expand(node)
	return svc.render(fmt.Sprintf("Expanded %s.%s (%d children)", obj, relName, len(node.Children)))
}

// --- hide / show ---

func hideTool() mcp.Tool {
	return mcp.NewTool("hide",
		mcp.WithDescription("Hide an object in the loaded tree without changing the graph."),
		mcp.WithString("object_id",
			mcp.Description("ID of the object to hide"),
			mcp.Required(),
		),
	)
}

func showTool() mcp.Tool {
	return mcp.NewTool("show",
		mcp.WithDescription("Show an object hidden with the hide tool."),
		mcp.WithString("object_id",
			mcp.Description("ID of the object to show"),
			mcp.Required(),
		),
	)
}

func (svc *Service) visibilityHandler(visible bool) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewSetVisibilityCommand(svc.session.Graph, svc.session.Tree, req.GetString("object_id", ""), visible)
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return svc.render(result.Message)
	}
}
