// ABOUTME: MCP tool implementations for the weigh-in leaderboard.
// ABOUTME: Provides profile and weight CRUD plus leaderboard queries.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/harperreed/weighin/internal/hybrid"
	"github.com/harperreed/weighin/internal/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	// get_leaderboard
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_leaderboard",
		Description: "Get the group leaderboard ranked by progress toward goal weight",
	}, s.handleGetLeaderboard)

	// add_profile
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_profile",
		Description: "Create a participant profile with baseline and goal weight",
	}, s.handleAddProfile)

	// add_weight
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_weight",
		Description: "Record a weigh-in for a participant",
	}, s.handleAddWeight)

	// get_weight_history
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_weight_history",
		Description: "List a participant's weigh-ins, newest first",
	}, s.handleGetWeightHistory)

	// update_weight
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "update_weight",
		Description: "Correct a recorded weigh-in's value or date",
	}, s.handleUpdateWeight)

	// delete_weight
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_weight",
		Description: "Delete a weigh-in by ID",
	}, s.handleDeleteWeight)

	// delete_profile
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_profile",
		Description: "Delete a participant profile and all their weigh-ins",
	}, s.handleDeleteProfile)
}

// Tool input/output types

type addProfileInput struct {
	Name           string  `json:"name" jsonschema:"Participant name"`
	BaselineWeight float64 `json:"baseline_weight" jsonschema:"Starting weight in kg"`
	GoalWeight     float64 `json:"goal_weight" jsonschema:"Goal weight in kg"`
}

type profileOutput struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

type addWeightInput struct {
	ProfileID  string  `json:"profile_id" jsonschema:"Participant profile ID"`
	Weight     float64 `json:"weight" jsonschema:"Weight in kg"`
	RecordedAt string  `json:"recorded_at,omitempty" jsonschema:"Timestamp (ISO 8601), defaults to now"`
}

type weightOutput struct {
	ID      string  `json:"id"`
	Weight  float64 `json:"weight"`
	Message string  `json:"message"`
}

type historyInput struct {
	ProfileID string `json:"profile_id" jsonschema:"Participant profile ID"`
	Limit     int    `json:"limit,omitempty" jsonschema:"Max results (default 20)"`
}

type updateWeightInput struct {
	ID         string   `json:"id" jsonschema:"Weigh-in ID"`
	Weight     *float64 `json:"weight,omitempty" jsonschema:"New weight in kg"`
	RecordedAt string   `json:"recorded_at,omitempty" jsonschema:"New timestamp (ISO 8601)"`
}

type deleteInput struct {
	ID string `json:"id" jsonschema:"Record ID"`
}

type simpleOutput struct {
	Message string `json:"message"`
}

// Tool handlers

func (s *Server) handleGetLeaderboard(ctx context.Context, req *mcp.CallToolRequest, input struct{}) (*mcp.CallToolResult, any, error) {
	board, err := s.svc.FetchLeaderboard(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch leaderboard: %w", err)
	}

	if len(board) == 0 {
		return nil, map[string]any{"message": "No participants yet."}, nil
	}

	return nil, board, nil
}

func (s *Server) handleAddProfile(ctx context.Context, req *mcp.CallToolRequest, input addProfileInput) (*mcp.CallToolResult, profileOutput, error) {
	p, err := s.svc.AddProfile(ctx, input.Name, input.BaselineWeight, input.GoalWeight)
	if err != nil {
		return nil, profileOutput{}, fmt.Errorf("failed to add profile: %w", err)
	}

	return nil, profileOutput{
		ID:      p.ID,
		Name:    p.Name,
		Message: fmt.Sprintf("Added %s: %.1f kg → %.1f kg goal (ID: %s)", p.Name, p.BaselineWeight, p.GoalWeight, p.ID),
	}, nil
}

func (s *Server) handleAddWeight(ctx context.Context, req *mcp.CallToolRequest, input addWeightInput) (*mcp.CallToolResult, weightOutput, error) {
	var recordedAt time.Time
	if input.RecordedAt != "" {
		t, err := parseTimestamp(input.RecordedAt)
		if err != nil {
			return nil, weightOutput{}, err
		}
		recordedAt = t
	}

	w, err := s.svc.AddWeight(ctx, input.ProfileID, input.Weight, recordedAt)
	if err != nil {
		return nil, weightOutput{}, fmt.Errorf("failed to add weight: %w", err)
	}

	return nil, weightOutput{
		ID:      w.ID,
		Weight:  w.CurrentWeight,
		Message: fmt.Sprintf("Recorded %.1f kg (ID: %s)", w.CurrentWeight, w.ID),
	}, nil
}

func (s *Server) handleGetWeightHistory(ctx context.Context, req *mcp.CallToolRequest, input historyInput) (*mcp.CallToolResult, any, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}

	history, err := s.svc.FetchWeightHistory(ctx, input.ProfileID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch history: %w", err)
	}

	if len(history) == 0 {
		return nil, map[string]any{"message": "No weigh-ins found."}, nil
	}
	if len(history) > input.Limit {
		history = history[:input.Limit]
	}

	return nil, history, nil
}

func (s *Server) handleUpdateWeight(ctx context.Context, req *mcp.CallToolRequest, input updateWeightInput) (*mcp.CallToolResult, simpleOutput, error) {
	upd := models.WeightUpdate{CurrentWeight: input.Weight}
	if input.RecordedAt != "" {
		t, err := parseTimestamp(input.RecordedAt)
		if err != nil {
			return nil, simpleOutput{}, err
		}
		upd.RecordedAt = &t
	}
	if upd.IsZero() {
		return nil, simpleOutput{}, errors.New("nothing to update")
	}

	if err := s.svc.UpdateWeight(ctx, input.ID, upd); err != nil {
		if errors.Is(err, hybrid.ErrNotFound) {
			return nil, simpleOutput{}, fmt.Errorf("weigh-in not found: %s", input.ID)
		}
		return nil, simpleOutput{}, fmt.Errorf("failed to update weight: %w", err)
	}

	return nil, simpleOutput{
		Message: fmt.Sprintf("Updated weigh-in: %s", input.ID),
	}, nil
}

func (s *Server) handleDeleteWeight(ctx context.Context, req *mcp.CallToolRequest, input deleteInput) (*mcp.CallToolResult, simpleOutput, error) {
	if err := s.svc.DeleteWeight(ctx, input.ID); err != nil {
		if errors.Is(err, hybrid.ErrNotFound) {
			return nil, simpleOutput{}, fmt.Errorf("weigh-in not found: %s", input.ID)
		}
		return nil, simpleOutput{}, fmt.Errorf("failed to delete weight: %w", err)
	}

	return nil, simpleOutput{
		Message: fmt.Sprintf("Deleted weigh-in: %s", input.ID),
	}, nil
}

func (s *Server) handleDeleteProfile(ctx context.Context, req *mcp.CallToolRequest, input deleteInput) (*mcp.CallToolResult, simpleOutput, error) {
	if err := s.svc.DeleteProfile(ctx, input.ID); err != nil {
		if errors.Is(err, hybrid.ErrNotFound) {
			return nil, simpleOutput{}, fmt.Errorf("profile not found: %s", input.ID)
		}
		return nil, simpleOutput{}, fmt.Errorf("failed to delete profile: %w", err)
	}

	return nil, simpleOutput{
		Message: fmt.Sprintf("Deleted profile and its weigh-ins: %s", input.ID),
	}, nil
}

func parseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t, err = time.Parse("2006-01-02", s)
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognized timestamp: %q", s)
	}
	return t, nil
}
