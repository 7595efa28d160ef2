// ABOUTME: CLI command that prints the dashboard.
// ABOUTME: Shows habits, nutrition, body, money and workouts for recent days.
package main

import (
	"fmt"
	"time"

	"github.com/birivibe/birivibe/internal/dashboard"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var dashboardDays int

var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Aliases: []string{"dash", "today"},
	Short:   "Show today at a glance",
	Long: `Show today's habits and nutrition with averages over recent days.

EXAMPLES:

  birivibe dashboard             # Last 7 days
  birivibe dashboard --days 30   # Last 30 days`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if dashboardDays < 0 {
			return fmt.Errorf("days must not be negative")
		}
		ctx := cmd.Context()
		u, err := currentUser(ctx)
		if err != nil {
			return err
		}

		d, err := dashboard.NewService(repo).Build(ctx, u.ID, time.Now(), dashboardDays)
		if err != nil {
			return fmt.Errorf("failed to build dashboard: %w", err)
		}
		printDashboard(d)
		return nil
	},
}

func printDashboard(d *dashboard.Dashboard) {
	bold := color.New(color.Bold)
	faint := color.New(color.Faint)

	bold.Printf("BiriVibe %s", d.Date)
	faint.Printf("  (last %d days)\n\n", d.Days)

	fmt.Printf("%s %d/%d done (%.0f%%)\n", padRight("Habits", 10), d.Habits.Done, d.Habits.Total, d.Habits.Percent)

	n := d.Nutrition
	if n.Goal != nil {
		fmt.Printf("%s %.0f/%.0f kcal (%.0f%%)  %.0f/%.0f g protein",
			padRight("Food", 10), n.Today.Calories, n.Goal.Calories, n.CaloriesPercent,
			n.Today.Protein, n.Goal.Protein)
	} else {
		fmt.Printf("%s %.0f kcal  %.0f g protein", padRight("Food", 10), n.Today.Calories, n.Today.Protein)
	}
	if n.Streak > 0 {
		color.New(color.FgYellow).Printf("  🔥 %d", n.Streak)
	}
	fmt.Println()

	if d.Weight.Latest != nil {
		fmt.Printf("%s %.1f kg", padRight("Weight", 10), d.Weight.Latest.WeightKg)
		if d.Weight.Change != nil {
			c := *d.Weight.Change
			switch {
			case c > 0:
				color.New(color.FgRed).Printf("  +%.1f", c)
			case c < 0:
				color.New(color.FgGreen).Printf("  %.1f", c)
			}
		}
		fmt.Println()
	}
	if d.Sleep.Nights > 0 {
		fmt.Printf("%s %.1f h avg over %d nights\n", padRight("Sleep", 10), d.Sleep.AverageHours, d.Sleep.Nights)
	}
	if d.Mood.Entries > 0 {
		fmt.Printf("%s %.1f/10 mood  %.1f/10 energy\n", padRight("Mood", 10), d.Mood.Average, d.Mood.EnergyAverage)
	}
	if d.Finance.Income != 0 || d.Finance.Expense != 0 {
		fmt.Printf("%s +%.2f -%.2f = %.2f\n", padRight("Money", 10), d.Finance.Income, d.Finance.Expense, d.Finance.Net)
	}
	if d.Goals.Active > 0 || d.Goals.Completed > 0 {
		fmt.Printf("%s %d active, %d completed (%.0f%% avg)\n", padRight("Goals", 10), d.Goals.Active, d.Goals.Completed, d.Goals.AverageProgress)
	}
	if d.Workouts.Count > 0 {
		fmt.Printf("%s %d sessions, %d min\n", padRight("Workouts", 10), d.Workouts.Count, d.Workouts.TotalMinutes)
	}
}

func init() {
	dashboardCmd.Flags().IntVar(&dashboardDays, "days", dashboard.DefaultDays, "days to average over")
	rootCmd.AddCommand(dashboardCmd)
}
