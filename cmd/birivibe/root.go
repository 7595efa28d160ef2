// ABOUTME: Root Cobra command for the birivibe CLI.
// ABOUTME: Loads config and opens storage via PersistentPre/PostRunE.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/birivibe/birivibe/internal/ai"
	"github.com/birivibe/birivibe/internal/config"
	"github.com/birivibe/birivibe/internal/logging"
	"github.com/birivibe/birivibe/internal/models"
	"github.com/birivibe/birivibe/internal/stats"
	"github.com/birivibe/birivibe/internal/storage"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	cfgPath string

	cfg    *config.Config
	repo   storage.Repository
	logger *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:   "birivibe",
	Short: "Personal life tracker",
	Long: `BiriVibe tracks habits, routines, goals, food, body, mood, money and
workouts in one place, with a web dashboard and an AI note parser.

QUICK START:

  $ birivibe habit add "Meditate"          # Create a habit
  $ birivibe habit done meditate           # Mark it done today
  $ birivibe log weight 81.5               # Log your weight
  $ birivibe food add "oatmeal" 300 --protein 10
  $ birivibe dashboard                     # Today at a glance

AI:

  Set GEMINI_API_KEY to enable food analysis and free-text notes:

  $ birivibe ingest "slept 11pm to 7am, 2 eggs for breakfast, mood 7"

WEB:

  $ birivibe serve                         # JSON API and /report on :3000

MCP INTEGRATION:

  Run 'birivibe mcp' to start the Model Context Protocol server for use with
  Claude Desktop or other MCP-compatible AI assistants:

  {
    "mcpServers": {
      "birivibe": { "command": "birivibe", "args": ["mcp"] }
    }
  }

CONFIGURATION:

  Config is read from $BIRIVIBE_CONFIG or ~/.config/birivibe/config.yaml.
  Any key can be overridden with BIRIVIBE_* variables, and DATABASE_URL
  selects a PostgreSQL database. Data defaults to
  ~/.local/share/birivibe/birivibe.db.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip storage for commands that don't need it
		switch cmd.Name() {
		case "help", "install-skill", "completion":
			return nil
		}

		var err error
		if cfgPath != "" {
			cfg, err = config.LoadFile(cfgPath)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		logger = logging.New(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)

		repo, err = cfg.OpenStorage()
		if err != nil {
			return fmt.Errorf("failed to open storage: %w", err)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if repo != nil {
			err := repo.Close()
			repo = nil
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (default $BIRIVIBE_CONFIG or ~/.config/birivibe/config.yaml)")
}

// currentUser returns the configured user, creating it on first use.
func currentUser(ctx context.Context) (*models.User, error) {
	u, err := repo.EnsureUser(ctx, cfg.User.Email, cfg.User.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return u, nil
}

// newModel returns the configured Gemini client.
func newModel() *ai.GeminiClient {
	return ai.NewGeminiClient(ai.Config{
		APIKey:  cfg.AI.APIKey,
		Model:   cfg.AI.Model,
		BaseURL: cfg.AI.BaseURL,
		Timeout: cfg.AI.Timeout,
	})
}

func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	formats := []string{
		"2006-01-02 15:04",
		"2006-01-02T15:04",
		"2006-01-02",
	}
	for _, f := range formats {
		if t, err := time.ParseInLocation(f, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time format")
}

// parseDayFlag returns today for an empty flag and validates YYYY-MM-DD otherwise.
func parseDayFlag(s string) (string, error) {
	if s == "" {
		return stats.DayKey(time.Now()), nil
	}
	if _, err := stats.ParseDay(s); err != nil {
		return "", fmt.Errorf("invalid date: %s (use YYYY-MM-DD)", s)
	}
	return s, nil
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}

func shortID(id fmt.Stringer) string {
	return id.String()[:8]
}
