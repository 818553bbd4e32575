package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"botree/internal/application/commands"
)

// RegisterWriteTools adds the tools that change the graph. Every change is
// saved to the session's store.
func RegisterWriteTools(s *server.MCPServer, svc *Service) {
	s.AddTool(addTool(), svc.locked(svc.addHandler))
	s.AddTool(removeTool(), svc.locked(svc.removeHandler))
	s.AddTool(moveTool(), svc.locked(svc.moveHandler))
	s.AddTool(renameTool(), svc.locked(svc.renameHandler))
}

// --- add ---

func addTool() mcp.Tool {
	return mcp.NewTool("add",
		mcp.WithDescription("Create an object and add it to a relationship of an owner. Without owner_id the object becomes a root."),
		mcp.WithString("owner_id",
			mcp.Description("ID of the owning object. Omit to add a root."),
		),
		mcp.WithString("relationship",
			mcp.Description("Relationship of the owner to add to"),
		),
		mcp.WithString("class",
			mcp.Description("Class of the new object"),
			mcp.Required(),
		),
		mcp.WithString("name",
			mcp.Description("Name of the new object"),
			mcp.Required(),
		),
		mcp.WithArray("relationships",
			mcp.Description("Relationships to declare on the new object"),
			mcp.WithStringItems(),
		),
	)
}

func (svc *Service) addHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cmd := commands.NewAddObjectCommand(
		svc.session.Graph,
		req.GetString("owner_id", ""),
		req.GetString("relationship", ""),
		req.GetString("class", ""),
		req.GetString("name", ""),
	)
	cmd.Relationships = req.GetStringSlice("relationships", nil)
	result, err := cmd.Execute(ctx)
	if err != nil {
		return toolError(err)
	}
	return svc.persist(ctx, result.Message)
}

// --- remove ---

func removeTool() mcp.Tool {
	return mcp.NewTool("remove",
		mcp.WithDescription("Remove an object from the relationship that holds it, or from the roots."),
		mcp.WithString("object_id",
			mcp.Description("ID of the object to remove"),
			mcp.Required(),
		),
	)
}

func (svc *Service) removeHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cmd := commands.NewRemoveObjectCommand(svc.session.Graph, req.GetString("object_id", ""))
	result, err := cmd.Execute(ctx)
	if err != nil {
		return toolError(err)
	}
	return svc.persist(ctx, result.Message)
}

// --- move ---

func moveTool() mcp.Tool {
	return mcp.NewTool("move",
		mcp.WithDescription("Move an object into a relationship of another owner."),
		mcp.WithString("object_id",
			mcp.Description("ID of the object to move"),
			mcp.Required(),
		),
		mcp.WithString("new_owner_id",
			mcp.Description("ID of the new owner"),
			mcp.Required(),
		),
		mcp.WithString("relationship",
			mcp.Description("Relationship of the new owner"),
			mcp.Required(),
		),
	)
}

func (svc *Service) moveHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cmd := commands.NewMoveObjectCommand(
		svc.session.Graph,
		req.GetString("object_id", ""),
		req.GetString("new_owner_id", ""),
		req.GetString("relationship", ""),
	)
	result, err := cmd.Execute(ctx)
	if err != nil {
		return toolError(err)
	}
	return svc.persist(ctx, result.Message)
}

// --- rename ---

func renameTool() mcp.Tool {
	return mcp.NewTool("rename",
		mcp.WithDescription("Change the display value of an object."),
		mcp.WithString("object_id",
			mcp.Description("ID of the object to rename"),
			mcp.Required(),
		),
		mcp.WithString("name",
			mcp.Description("New display value"),
			mcp.Required(),
		),
	)
}

func (svc *Service) renameHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cmd := commands.NewRenameObjectCommand(svc.session.Graph, req.GetString("object_id", ""), req.GetString("name", ""))
	result, err := cmd.Execute(ctx)
	if err != nil {
		return toolError(err)
	}
	svc.session.Tree.Refresh(result.Object)
	return svc.persist(ctx, result.Message)
}
