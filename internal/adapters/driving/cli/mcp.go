package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/healthrag/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can ask
healthrag questions and browse stored sessions.

By default, the server communicates over stdio using JSON-RPC.

Use --port to start an HTTP server instead, which enables:
  - Testing with MCP Inspector web UI
  - Remote access via HTTP
  - Prometheus metrics at /metrics

Examples:
  # Stdio mode (default, for desktop assistants)
  healthrag mcp serve

  # HTTP mode
  healthrag mcp serve --port 8080

Desktop assistant configuration:
  {
    "mcpServers": {
      "healthrag": {
        "command": "/path/to/healthrag",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}
	if err := requireAsk(); err != nil {
		return err
	}

	server, err := mcp.NewServer(&mcp.Ports{
		Ask:          askService,
		Conversation: conversationService,
	})
	if err != nil {
		return err
	}

	if port > 0 {
		if metricsHandler != nil {
			server.SetMetricsHandler(metricsHandler)
		}
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
