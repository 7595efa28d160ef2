// ABOUTME: CLI commands for body and mind logs.
// ABOUTME: Records weight, sleep and mood entries.
package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/birivibe/birivibe/internal/models"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	logAt      string
	logNotes   string
	logBodyFat float64
	logQuality int
	logEnergy  int
	logTags    []string
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Log weight, sleep or mood",
	Long: `Log body and mind measurements.

EXAMPLES:

  birivibe log weight 81.5
  birivibe log weight 81.5 --body-fat 18 --at "2026-01-10 07:00"
  birivibe log sleep "2026-01-09 23:30" "2026-01-10 07:00" --quality 8
  birivibe log mood 7 --energy 6 --tags work,gym --notes "solid day"`,
}

var logWeightCmd = &cobra.Command{
	Use:   "weight <kg>",
	Short: "Log body weight in kilograms",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kg, err := strconv.ParseFloat(args[0], 64)
		if err != nil || kg <= 0 {
			return fmt.Errorf("invalid weight: %s", args[0])
		}
		if logBodyFat < 0 || logBodyFat > 100 {
			return fmt.Errorf("body fat must be between 0 and 100")
		}
		at, err := logTime()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		u, err := currentUser(ctx)
		if err != nil {
			return err
		}

		w := models.NewWeightLog(u.ID, kg).WithRecordedAt(at)
		if logBodyFat > 0 {
			bf := logBodyFat
			w.BodyFat = &bf
		}
		if logNotes != "" {
			notes := logNotes
			w.Notes = &notes
		}
		if err := repo.CreateWeightLog(ctx, w); err != nil {
			return fmt.Errorf("failed to log weight: %w", err)
		}

		color.Green("✓ Logged weight")
		fmt.Printf("  %s %.1f kg\n", color.New(color.Faint).Sprint(shortID(w.ID)), w.WeightKg)
		return nil
	},
}

var logSleepCmd = &cobra.Command{
	Use:   "sleep <bed-time> <wake-time>",
	Short: "Log a night of sleep",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		bed, err := parseTime(args[0])
		if err != nil {
			return fmt.Errorf("invalid bed time: %s", args[0])
		}
		wake, err := parseTime(args[1])
		if err != nil {
			return fmt.Errorf("invalid wake time: %s", args[1])
		}
		if err := models.CheckSleepSpan(bed, wake); err != nil {
			return err
		}
		ctx := cmd.Context()
		u, err := currentUser(ctx)
		if err != nil {
			return err
		}

		s := models.NewSleepLog(u.ID, bed, wake)
		if logQuality != 0 {
			s.WithQuality(logQuality)
		}
		if logNotes != "" {
			notes := logNotes
			s.Notes = &notes
		}
		if err := repo.CreateSleepLog(ctx, s); err != nil {
			return fmt.Errorf("failed to log sleep: %w", err)
		}

		color.Green("✓ Logged sleep")
		fmt.Printf("  %s %.1f hours\n", color.New(color.Faint).Sprint(shortID(s.ID)), s.DurationHours)
		return nil
	},
}

var logMoodCmd = &cobra.Command{
	Use:   "mood <1-10>",
	Short: "Log a mood check-in",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mood, err := strconv.Atoi(args[0])
		if err != nil || mood < 1 || mood > 10 {
			return fmt.Errorf("mood must be a number from 1 to 10")
		}
		at, err := logTime()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		u, err := currentUser(ctx)
		if err != nil {
			return err
		}

		m := models.NewMoodLog(u.ID, mood)
		m.RecordedAt = at
		if logEnergy != 0 {
			m.WithEnergy(logEnergy)
		}
		for _, tag := range logTags {
			if tag = strings.TrimSpace(tag); tag != "" {
				m.Tags = append(m.Tags, tag)
			}
		}
		if logNotes != "" {
			notes := logNotes
			m.Notes = &notes
		}
		if err := repo.CreateMoodLog(ctx, m); err != nil {
			return fmt.Errorf("failed to log mood: %w", err)
		}

		color.Green("✓ Logged mood")
		fmt.Printf("  %s %d/10\n", color.New(color.Faint).Sprint(shortID(m.ID)), m.Mood)
		return nil
	},
}

func logTime() (time.Time, error) {
	if logAt == "" {
		return time.Now(), nil
	}
	t, err := parseTime(logAt)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp: %s", logAt)
	}
	return t, nil
}

func init() {
	logCmd.PersistentFlags().StringVar(&logNotes, "notes", "", "notes for the entry")
	logWeightCmd.Flags().StringVar(&logAt, "at", "", "timestamp (YYYY-MM-DD HH:MM)")
	logWeightCmd.Flags().Float64Var(&logBodyFat, "body-fat", 0, "body fat percentage")
	logSleepCmd.Flags().IntVarP(&logQuality, "quality", "q", 0, "sleep quality 1-10")
	logMoodCmd.Flags().StringVar(&logAt, "at", "", "timestamp (YYYY-MM-DD HH:MM)")
	logMoodCmd.Flags().IntVarP(&logEnergy, "energy", "e", 0, "energy 1-10")
	logMoodCmd.Flags().StringSliceVar(&logTags, "tags", nil, "comma-separated tags")

	logCmd.AddCommand(logWeightCmd, logSleepCmd, logMoodCmd)
	rootCmd.AddCommand(logCmd)
}
