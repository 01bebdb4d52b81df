package main

import (
	"context"
	"fmt"

	"github.com/couloir/tasklens/internal/mcp"
	"github.com/spf13/cobra"
)

func newMCPServerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp-server",
		Short: "Run tasklens as an MCP (Model Context Protocol) server",
		Long: `Start an MCP server that exposes the enrichment engine over stdio.

AI tools connected to the server can invoke:

  • enrich_task   - Enrich one task directory from its artifacts
  • task_metrics  - Compute extracted metrics without writing
  • list_runs     - Query the enrichment run index

The server communicates via JSON-RPC 2.0 over stdin/stdout, following the
Model Context Protocol specification.

Example usage in an MCP client config:

  {
    "mcpServers": {
      "tasklens": {
        "command": "tasklens",
        "args": ["mcp-server"],
        "cwd": "${workspaceFolder}"
      }
    }
  }
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, _ := cmd.Flags().GetString("root")

			server, err := mcp.NewServer(&mcp.Config{
				Name:    "tasklens",
				Version: version,
				Root:    root,
			})
			if err != nil {
				return fmt.Errorf("failed to create MCP server: %w", err)
			}
			defer server.Close()

			// Run server (blocks until client disconnects or SIGTERM/SIGINT)
			if err := server.Run(context.Background()); err != nil {
				return fmt.Errorf("MCP server error: %w", err)
			}

			return nil
		},
	}

	return cmd
}
