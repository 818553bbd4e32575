// Package mcp exposes a botree session as MCP tools.
package mcp

import (
	"context"
	"strings"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"botree/internal/adapters/memtree"
	"botree/internal/application"
	"botree/internal/config"
)

// Service serializes tool calls against one session. The tree controller
// is single-threaded, so every handler holds mu while it touches the
// session.
type Service struct {
	mu       sync.Mutex
	session  *application.Session
	view     *memtree.View
	defaults config.TreeConfig
}

// NewService creates a service over session, whose tree must be driven by
// view
func NewService(session *application.Session, view *memtree.View, defaults config.TreeConfig) *Service {
	return &Service{
		session:  session,
		view:     view,
		defaults: defaults,
	}
}

// Register adds every read and write tool to s
func (svc *Service) Register(s *server.MCPServer) {
	RegisterReadTools(s, svc)
	RegisterWriteTools(s, svc)
}

// locked wraps a handler so it runs with the session lock held
func (svc *Service) locked(h server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		svc.mu.Lock()
		defer svc.mu.Unlock()
		return h(ctx, req)
	}
}

// persist saves the graph after a mutation
func (svc *Service) persist(ctx context.Context, message string) (*mcp.CallToolResult, error) {
	if err := svc.session.Save(ctx); err != nil {
		return toolError(err)
	}
	return mcp.NewToolResultText(message), nil
}

// render returns message followed by the expanded part of the tree
func (svc *Service) render(message string) (*mcp.CallToolResult, error) {
	var sb strings.Builder
	if message != "" {
		sb.WriteString(message)
		sb.WriteString("\n\n")
	}
	if len(svc.view.TopLevel()) == 0 {
		sb.WriteString("(empty tree)\n")
		return mcp.NewToolResultText(sb.String()), nil
	}
	if err := svc.view.Render(&sb, false); err != nil {
		return toolError(err)
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}
