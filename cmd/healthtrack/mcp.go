// ABOUTME: CLI command for starting MCP server.
// ABOUTME: Runs stdio-based MCP server for AI assistant integration.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/harperreed/healthtrack/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

The server communicates via stdin/stdout and keeps one profile selection for
its lifetime, starting from --profile or default_profile if set.

CONFIGURATION:

  {
    "mcpServers": {
      "healthtrack": {
        "command": "healthtrack",
        "args": ["mcp"]
      }
    }
  }

AVAILABLE TOOLS:

  list_profiles     List profiles and the current selection
  create_profile    Create and select a profile
  select_profile    Select a profile by name or id
  clear_selection   Deselect the current profile
  current_profile   Show the selected profile
  suggested_weight  Last weight for the selected profile
  log_record        Log a measurement
  view_history      Records for the selected profile

AVAILABLE RESOURCES:

  health://history  Selected profile's records as JSON`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(current.sess, current.log)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Handle shutdown signals
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigChan
			cancel()
		}()

		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
