// ABOUTME: MCP tool implementations for profiles and measurement records.
// ABOUTME: Each tool maps onto exactly one session controller operation.
package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/harperreed/healthtrack/internal/models"
	"github.com/harperreed/healthtrack/internal/session"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_profiles",
		Description: "List all profiles in creation order, with the currently selected one",
	}, s.handleListProfiles)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "create_profile",
		Description: "Create a new uniquely named profile and select it",
	}, s.handleCreateProfile)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "select_profile",
		Description: "Select the acting profile by name or id",
	}, s.handleSelectProfile)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "clear_selection",
		Description: "Deselect the current profile",
	}, s.handleClearSelection)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "current_profile",
		Description: "Show which profile is currently selected",
	}, s.handleCurrentProfile)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "suggested_weight",
		Description: "Get the selected profile's most recent weight, to prefill a new record",
	}, s.handleSuggestedWeight)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "log_record",
		Description: "Log blood pressure, pulse, and weight for the selected profile",
	}, s.handleLogRecord)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "view_history",
		Description: "List the selected profile's records, newest first",
	}, s.handleViewHistory)
}

// Tool input/output types

type emptyInput struct{}

type listProfilesOutput struct {
	Profiles []models.ProfileSummary `json:"profiles"`
	Current  *session.Selection      `json:"current,omitempty"`
}

type createProfileInput struct {
	Name   string  `json:"name" jsonschema:"unique profile name"`
	Age    *int    `json:"age,omitempty" jsonschema:"age in years"`
	Gender *string `json:"gender,omitempty" jsonschema:"free-form gender"`
}

type profileOutput struct {
	Profile *models.Profile `json:"profile"`
	Message string          `json:"message"`
}

type selectProfileInput struct {
	Profile string `json:"profile" jsonschema:"profile name or numeric id"`
}

type selectionOutput struct {
	Selected  bool            `json:"selected"`
	ProfileID int64           `json:"profile_id,omitempty"`
	Name      string          `json:"name,omitempty"`
	Profile   *models.Profile `json:"profile,omitempty"`
	Message   string          `json:"message"`
}

type suggestedWeightOutput struct {
	Weight  *float64 `json:"weight,omitempty"`
	Message string   `json:"message"`
}

type logRecordInput struct {
	Systolic   int      `json:"systolic" jsonschema:"systolic pressure in mmHg"`
	Diastolic  int      `json:"diastolic" jsonschema:"diastolic pressure in mmHg"`
	Pulse      int      `json:"pulse" jsonschema:"pulse in beats per minute"`
	Weight     *float64 `json:"weight,omitempty" jsonschema:"weight in kg; required, see suggested_weight for a default"`
	MeasuredAt string   `json:"measured_at,omitempty" jsonschema:"measurement time as YYYY-MM-DD HH:MM:SS, defaults to now"`
	Position   *string  `json:"position,omitempty" jsonschema:"measurement posture or location"`
}

type recordOutput struct {
	Record  *models.Record `json:"record"`
	Message string         `json:"message"`
}

type historyOutput struct {
	ProfileID int64            `json:"profile_id"`
	Name      string           `json:"name"`
	Records   []*models.Record `json:"records"`
}

// Tool handlers

func (s *Server) handleListProfiles(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, listProfilesOutput, error) {
	profiles, err := s.session.ListProfiles()
	if err != nil {
		return nil, listProfilesOutput{}, fmt.Errorf("failed to list profiles: %w", err)
	}

	out := listProfilesOutput{Profiles: profiles}
	if sel, ok := s.session.Current(); ok {
		out.Current = &sel
	}
	return nil, out, nil
}

func (s *Server) handleCreateProfile(ctx context.Context, req *mcp.CallToolRequest, input createProfileInput) (*mcp.CallToolResult, profileOutput, error) {
	p, err := s.session.CreateProfile(input.Name, input.Age, input.Gender)
	if err != nil {
		return nil, profileOutput{}, fmt.Errorf("failed to create profile: %w", err)
	}

	return nil, profileOutput{
		Profile: p,
		Message: fmt.Sprintf("Created and selected profile %s (id %d)", p.Name, p.ID),
	}, nil
}

func (s *Server) handleSelectProfile(ctx context.Context, req *mcp.CallToolRequest, input selectProfileInput) (*mcp.CallToolResult, selectionOutput, error) {
	profiles, err := s.session.ListProfiles()
	if err != nil {
		return nil, selectionOutput{}, fmt.Errorf("failed to list profiles: %w", err)
	}

	p, ok := models.FindProfile(profiles, input.Profile)
	if !ok {
		return nil, selectionOutput{}, fmt.Errorf("profile not found: %s", input.Profile)
	}

	s.session.SelectProfile(p.ID, p.Name)
	return nil, selectionOutput{
		Selected:  true,
		ProfileID: p.ID,
		Name:      p.Name,
		Message:   fmt.Sprintf("Selected profile %s", p.Name),
	}, nil
}

func (s *Server) handleClearSelection(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, selectionOutput, error) {
	s.session.ClearSelection()
	return nil, selectionOutput{Message: "No profile selected"}, nil
}

func (s *Server) handleCurrentProfile(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, selectionOutput, error) {
	p, err := s.session.CurrentProfile()
	if errors.Is(err, session.ErrNoProfileSelected) {
		return nil, selectionOutput{Message: "No profile selected"}, nil
	}
	if err != nil {
		return nil, selectionOutput{}, fmt.Errorf("failed to load current profile: %w", err)
	}
	return nil, selectionOutput{
		Selected:  true,
		ProfileID: p.ID,
		Name:      p.Name,
		Profile:   p,
		Message:   fmt.Sprintf("Current profile is %s", p.Name),
	}, nil
}

func (s *Server) handleSuggestedWeight(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, suggestedWeightOutput, error) {
	w, err := s.session.SuggestedWeight()
	if err != nil {
		return nil, suggestedWeightOutput{}, err
	}
	if w == nil {
		return nil, suggestedWeightOutput{Message: "No previous weight; enter one for the first record"}, nil
	}
	return nil, suggestedWeightOutput{Weight: w, Message: fmt.Sprintf("Last weight %.1f kg", *w)}, nil
}

func (s *Server) handleLogRecord(ctx context.Context, req *mcp.CallToolRequest, input logRecordInput) (*mcp.CallToolResult, recordOutput, error) {
	measuredAt := input.MeasuredAt
	if measuredAt == "" {
		measuredAt = models.FormatMeasuredAt(s.now())
	}

	r, err := s.session.LogRecord(session.RecordInput{
		Systolic:   input.Systolic,
		Diastolic:  input.Diastolic,
		Pulse:      input.Pulse,
		Weight:     input.Weight,
		MeasuredAt: measuredAt,
		Position:   input.Position,
	})
	if err != nil {
		if !errors.Is(err, session.ErrNoProfileSelected) && !errors.Is(err, session.ErrMissingRequiredField) {
			s.log.Error("log_record failed", zap.Error(err))
		}
		return nil, recordOutput{}, fmt.Errorf("failed to log record: %w", err)
	}

	return nil, recordOutput{
		Record:  r,
		Message: fmt.Sprintf("Logged %d/%d mmHg, pulse %d, %.1f kg", r.Systolic, r.Diastolic, r.Pulse, r.Weight),
	}, nil
}

func (s *Server) handleViewHistory(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, historyOutput, error) {
	out, err := s.history()
	if err != nil {
		return nil, historyOutput{}, err
	}
	return nil, out, nil
}

// history reads the selected profile and its records as one view.
func (s *Server) history() (historyOutput, error) {
	sel, records, err := s.session.History()
	if err != nil {
		return historyOutput{}, fmt.Errorf("failed to view history: %w", err)
	}
	return historyOutput{ProfileID: sel.ProfileID, Name: sel.Name, Records: records}, nil
}
