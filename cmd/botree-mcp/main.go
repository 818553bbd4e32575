package main

import (
	"context"
	"flag"
	"log"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"botree/internal/adapters/memtree"
	mcpadapter "botree/internal/adapters/mcp"
	"botree/internal/adapters/sqlite"
	"botree/internal/application"
	"botree/internal/config"
	"botree/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("botree-mcp: %v", err)
	}
	dbFlag := flag.String("db", cfg.DBPath(), "path to the database")
	flag.Parse()

	logger := logging.New()
	store := sqlite.NewStore(logger)
	if err := store.Open(*dbFlag); err != nil {
		log.Fatalf("botree-mcp: %v", err)
	}
	defer store.Close()

	view := memtree.New()
	session := application.NewSession(view, store, logger)
	if err := session.Load(context.Background()); err != nil {
		log.Fatalf("botree-mcp: %v", err)
	}

	mcpServer := server.NewMCPServer(
		"botree-mcp",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(
		mcp.NewTool("ping",
			mcp.WithDescription("Health check, returns pong"),
		),
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("pong"), nil
		},
	)

	mcpadapter.NewService(session, view, cfg.Tree).Register(mcpServer)

	if err := server.ServeStdio(mcpServer); err != nil {
		log.Fatalf("botree-mcp: %v", err)
	}
}
