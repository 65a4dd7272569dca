// ABOUTME: MCP resource implementations for the weigh-in leaderboard.
// ABOUTME: Provides weighin://leaderboard and weighin://status resources.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerResources() {
	// weighin://leaderboard - current standings
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "weighin://leaderboard",
		Name:        "Group Leaderboard",
		Description: "Current standings ranked by progress toward goal weight",
		MIMEType:    "application/json",
	}, s.handleLeaderboardResource)

	// weighin://status - data source mode
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "weighin://status",
		Name:        "Data Source Status",
		Description: "Whether data is served from the remote gateway or local storage",
		MIMEType:    "application/json",
	}, s.handleStatusResource)
}

// Resource handlers

func (s *Server) handleLeaderboardResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	board, err := s.svc.FetchLeaderboard(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch leaderboard: %w", err)
	}

	result := map[string]any{
		"generated_at": time.Now().Format(time.RFC3339),
		"online":       s.svc.Online(),
		"entries":      board,
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      "weighin://leaderboard",
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

func (s *Server) handleStatusResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	mode := "online"
	if !s.svc.Online() {
		mode = "local"
	}

	result := map[string]any{
		"mode":           mode,
		"forced_offline": s.svc.ForcedOffline(),
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      "weighin://status",
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
