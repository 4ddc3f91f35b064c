// ABOUTME: MCP server setup for the health tracker.
// ABOUTME: Exposes the session controller's operations over stdio.
package mcp

import (
	"context"
	"time"

	"github.com/harperreed/healthtrack/internal/session"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

// Server wraps the MCP server with a session controller. The selection made
// through select_profile lasts for the life of the server process.
type Server struct {
	mcpServer *mcp.Server
	session   *session.Controller
	log       *zap.Logger
	now       func() time.Time
}

// NewServer creates a new MCP server driving the given session.
func NewServer(sess *session.Controller, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "healthtrack",
			Version: "1.0.0",
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		session:   sess,
		log:       logger.Named("mcp"),
		now:       time.Now,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	s.log.Info("serving MCP over stdio")
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
