// ABOUTME: MCP resource implementations for the health tracker.
// ABOUTME: Provides health://history for the currently selected profile.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const historyURI = "health://history"

func (s *Server) registerResources() {
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         historyURI,
		Name:        "Selected Profile History",
		Description: "All records for the selected profile, newest first",
		MIMEType:    "application/json",
	}, s.handleHistoryResource)
}

func (s *Server) handleHistoryResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	out, err := s.history()
	if err != nil {
		return nil, err
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal history: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      historyURI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
