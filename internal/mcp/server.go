// ABOUTME: MCP server setup for the weigh-in leaderboard.
// ABOUTME: Wraps the MCP server around the hybrid data service.
package mcp

import (
	"context"

	"github.com/harperreed/weighin/internal/hybrid"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP server with data service access.
type Server struct {
	mcpServer *mcp.Server
	svc       *hybrid.Service
}

// NewServer creates a new MCP server backed by the given data service.
func NewServer(svc *hybrid.Service) (*Server, error) {
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "weighin",
			Version: "1.0.0",
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		svc:       svc,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
