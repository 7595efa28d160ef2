// ABOUTME: CLI command for starting the MCP server.
// ABOUTME: Runs a stdio MCP server so AI assistants can log and read data.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/birivibe/birivibe/internal/ai"
	"github.com/birivibe/birivibe/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

The server communicates via stdin/stdout, so logs go to stderr.

CLAUDE DESKTOP CONFIGURATION:

  {
    "mcpServers": {
      "birivibe": {
        "command": "birivibe",
        "args": ["mcp"]
      }
    }
  }

AVAILABLE TOOLS:

  log_habit          Mark a habit done for a day
  list_habits        List habits with today's status and streaks
  add_food           Log a food entry
  log_weight         Log body weight
  log_sleep          Log a night of sleep
  log_mood           Log mood and energy
  add_transaction    Record income or an expense
  get_dashboard      Summarize recent days
  ingest_text        Parse a free-text note (requires GEMINI_API_KEY)

AVAILABLE RESOURCES:

  birivibe://today       Everything logged today
  birivibe://dashboard   The default dashboard`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var model ai.Model
		if cfg.AI.Enabled() {
			model = newModel()
		}

		server, err := mcp.NewServer(repo, model, logger, mcp.Options{
			UserEmail: cfg.User.Email,
			UserName:  cfg.User.Name,
		})
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
