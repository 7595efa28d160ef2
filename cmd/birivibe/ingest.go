// ABOUTME: CLI command that records a free-text note through the AI parser.
// ABOUTME: Prints each record created and each entry that was skipped.
package main

import (
	"fmt"
	"strings"

	"github.com/birivibe/birivibe/internal/ai"
	"github.com/birivibe/birivibe/internal/ingest"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <text...>",
	Short: "Record a free-text note",
	Long: `Turn a free-text note into log entries using Gemini.

Requires GEMINI_API_KEY (or ai.api_key in the config file).

EXAMPLES:

  birivibe ingest "slept 11pm to 7am, 2 eggs for breakfast, mood 7"
  birivibe ingest "ran 5k in 28 minutes, spent 12 on lunch"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cfg.AI.Enabled() {
			return fmt.Errorf("AI is not configured: set GEMINI_API_KEY")
		}
		text := strings.TrimSpace(strings.Join(args, " "))
		if text == "" {
			return fmt.Errorf("text is required")
		}

		ctx := cmd.Context()
		u, err := currentUser(ctx)
		if err != nil {
			return err
		}

		svc := ingest.NewService(repo, ai.NewParser(newModel()), logger)
		result, err := svc.Ingest(ctx, u.ID, text)
		if err != nil {
			return fmt.Errorf("ingest failed: %w", err)
		}
		printIngestResult(result)
		return nil
	},
}

func printIngestResult(r *ingest.Result) {
	if len(r.Created) == 0 && len(r.Skipped) == 0 {
		fmt.Println("Nothing to record.")
		return
	}
	for _, c := range r.Created {
		color.Green("✓ %s: %s", c.Type, c.Summary)
	}
	for _, s := range r.Skipped {
		color.Yellow("- skipped %s: %s", s.Entry.Type, s.Reason)
	}
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}
