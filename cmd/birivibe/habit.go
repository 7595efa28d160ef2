// ABOUTME: CLI commands for habits.
// ABOUTME: Supports add, list, done, undo and rm subcommands.
package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/birivibe/birivibe/internal/models"
	"github.com/birivibe/birivibe/internal/stats"
	"github.com/birivibe/birivibe/internal/storage"
	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	habitDescription string
	habitFrequency   string
	habitListAll     bool
	habitDate        string
	habitNotes       string
)

var habitCmd = &cobra.Command{
	Use:     "habit",
	Aliases: []string{"h"},
	Short:   "Manage habits",
	Long: `Create habits and check them off day by day.

EXAMPLES:

  birivibe habit add "Meditate"                   # Daily habit
  birivibe habit add "Long run" --frequency weekly
  birivibe habit list                             # Today's status and streaks
  birivibe habit done meditate                    # Mark done today
  birivibe habit done meditate --date 2026-01-09  # Backfill a day
  birivibe habit undo meditate                    # Clear today's mark
  birivibe habit rm abc12345                      # Delete a habit`,
}

var habitAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a habit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !models.IsValidFrequency(habitFrequency) {
			return fmt.Errorf("unknown frequency: %s (use daily or weekly)", habitFrequency)
		}
		ctx := cmd.Context()
		u, err := currentUser(ctx)
		if err != nil {
			return err
		}

		h := models.NewHabit(u.ID, args[0]).WithFrequency(models.Frequency(habitFrequency))
		if habitDescription != "" {
			h.WithDescription(habitDescription)
		}
		if err := repo.CreateHabit(ctx, h); err != nil {
			return fmt.Errorf("failed to create habit: %w", err)
		}

		color.Green("✓ Created habit %s", h.Name)
		fmt.Printf("  %s %s\n", color.New(color.Faint).Sprint(shortID(h.ID)), h.Frequency)
		return nil
	},
}

var habitListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List habits with today's status and streaks",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		u, err := currentUser(ctx)
		if err != nil {
			return err
		}
		habits, err := repo.ListHabits(ctx, u.ID, !habitListAll)
		if err != nil {
			return fmt.Errorf("failed to list habits: %w", err)
		}
		if len(habits) == 0 {
			fmt.Println("No habits found.")
			return nil
		}

		now := time.Now()
		done, err := completedDays(ctx, u.ID, now)
		if err != nil {
			return err
		}

		faint := color.New(color.Faint)
		for _, h := range habits {
			days := done[h.ID]
			mark := "○"
			if days[stats.DayKey(now)] {
				mark = color.GreenString("●")
			}
			streak := stats.Streak(func(d string) bool { return days[d] }, now, stats.DefaultStreakWindow)
			status := ""
			if !h.IsActive {
				status = faint.Sprint(" (inactive)")
			}
			fmt.Printf("%s %s %s %s%s\n",
				faint.Sprint(shortID(h.ID)),
				mark,
				padRight(h.Name, 24),
				color.YellowString("%d day streak", streak),
				status)
		}
		return nil
	},
}

var habitDoneCmd = &cobra.Command{
	Use:   "done <name|id>",
	Short: "Mark a habit done for a day",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		day, err := parseDayFlag(habitDate)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		u, err := currentUser(ctx)
		if err != nil {
			return err
		}
		h, err := findHabit(ctx, u.ID, args[0])
		if err != nil {
			return err
		}

		l := models.NewHabitLog(h, day)
		if habitNotes != "" {
			l.WithNotes(habitNotes)
		}
		if _, err := repo.LogHabit(ctx, l); err != nil {
			return fmt.Errorf("failed to log habit: %w", err)
		}

		color.Green("✓ %s done for %s", h.Name, day)
		return nil
	},
}

var habitUndoCmd = &cobra.Command{
	Use:   "undo <name|id>",
	Short: "Clear a habit's mark for a day",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		day, err := parseDayFlag(habitDate)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		u, err := currentUser(ctx)
		if err != nil {
			return err
		}
		h, err := findHabit(ctx, u.ID, args[0])
		if err != nil {
			return err
		}
		if err := repo.DeleteHabitLog(ctx, h.ID, day); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return fmt.Errorf("%s was not done on %s", h.Name, day)
			}
			return fmt.Errorf("failed to undo habit: %w", err)
		}

		color.Green("✓ Cleared %s for %s", h.Name, day)
		return nil
	},
}

var habitRmCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"delete", "del"},
	Short:   "Delete a habit and its history",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		h, err := repo.GetHabit(ctx, args[0])
		if err != nil {
			return fmt.Errorf("habit not found: %s", args[0])
		}
		if err := repo.DeleteHabit(ctx, h.ID.String()); err != nil {
			return fmt.Errorf("failed to delete habit: %w", err)
		}

		color.Green("✓ Deleted habit %s", h.Name)
		return nil
	},
}

// findHabit matches an active habit by name, then falls back to an ID prefix.
func findHabit(ctx context.Context, userID uuid.UUID, ref string) (*models.Habit, error) {
	h, err := repo.FindHabitByName(ctx, userID, ref)
	if err == nil {
		return h, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("failed to find habit: %w", err)
	}
	h, err = repo.GetHabit(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("habit not found: %s", ref)
	}
	return h, nil
}

// completedDays maps each habit to the days it was completed within the
// streak window.
func completedDays(ctx context.Context, userID uuid.UUID, now time.Time) (map[uuid.UUID]map[string]bool, error) {
	since := stats.StartOfDay(now).AddDate(0, 0, -stats.DefaultStreakWindow)
	logs, err := repo.ListUserHabitLogs(ctx, userID, storage.Since(since))
	if err != nil {
		return nil, fmt.Errorf("failed to list habit logs: %w", err)
	}
	done := make(map[uuid.UUID]map[string]bool)
	for _, l := range logs {
		if !l.Completed {
			continue
		}
		if done[l.HabitID] == nil {
			done[l.HabitID] = make(map[string]bool)
		}
		done[l.HabitID][l.Date] = true
	}
	return done, nil
}

func init() {
	habitAddCmd.Flags().StringVarP(&habitDescription, "description", "d", "", "habit description")
	habitAddCmd.Flags().StringVarP(&habitFrequency, "frequency", "f", "daily", "daily or weekly")
	habitListCmd.Flags().BoolVarP(&habitListAll, "all", "a", false, "include inactive habits")
	habitDoneCmd.Flags().StringVar(&habitDate, "date", "", "day to mark (YYYY-MM-DD, default today)")
	habitDoneCmd.Flags().StringVar(&habitNotes, "notes", "", "notes for the day")
	habitUndoCmd.Flags().StringVar(&habitDate, "date", "", "day to clear (YYYY-MM-DD, default today)")

	habitCmd.AddCommand(habitAddCmd, habitListCmd, habitDoneCmd, habitUndoCmd, habitRmCmd)
	rootCmd.AddCommand(habitCmd)
}
