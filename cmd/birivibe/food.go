// ABOUTME: CLI commands for food logs and nutrition goals.
// ABOUTME: Supports add, list and goal subcommands.
package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/birivibe/birivibe/internal/models"
	"github.com/birivibe/birivibe/internal/stats"
	"github.com/birivibe/birivibe/internal/storage"
	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	foodProtein  float64
	foodCarbs    float64
	foodFat      float64
	foodMeal     string
	foodAt       string
	foodQuantity string
	foodDate     string

	goalCalories float64
	goalProtein  float64
	goalCarbs    float64
	goalFat      float64
	goalWater    float64
)

var foodCmd = &cobra.Command{
	Use:     "food",
	Aliases: []string{"f"},
	Short:   "Log food and manage nutrition goals",
	Long: `Log what you eat and track it against your nutrition goal.

EXAMPLES:

  birivibe food add "oatmeal" 300 --protein 10 --carbs 54 --fat 5
  birivibe food add "pasta" 700 --meal dinner --at "2026-01-10 19:30"
  birivibe food list                    # Today's food and totals
  birivibe food list --date 2026-01-09
  birivibe food goal                    # Show the active goal
  birivibe food goal --calories 2200 --protein 160`,
}

var foodAddCmd = &cobra.Command{
	Use:   "add <name> <calories>",
	Short: "Log a food item",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		calories, err := strconv.ParseFloat(args[1], 64)
		if err != nil || calories < 0 {
			return fmt.Errorf("invalid calories: %s", args[1])
		}
		if foodProtein < 0 || foodCarbs < 0 || foodFat < 0 {
			return fmt.Errorf("macros must not be negative")
		}
		eatenAt := time.Now()
		if foodAt != "" {
			if eatenAt, err = parseTime(foodAt); err != nil {
				return fmt.Errorf("invalid timestamp: %s", foodAt)
			}
		}
		ctx := cmd.Context()
		u, err := currentUser(ctx)
		if err != nil {
			return err
		}

		f := models.NewFoodLog(u.ID, args[0], calories).
			WithMacros(foodProtein, foodCarbs, foodFat).
			WithEatenAt(eatenAt)
		f.MealType = models.MealTypeAt(eatenAt)
		if foodMeal != "" {
			if !models.IsValidMealType(foodMeal) {
				return fmt.Errorf("unknown meal type: %s (use breakfast, lunch, dinner or snack)", foodMeal)
			}
			f.MealType = models.MealType(foodMeal)
		}
		f.Quantity = foodQuantity
		if err := repo.CreateFoodLog(ctx, f); err != nil {
			return fmt.Errorf("failed to log food: %w", err)
		}

		color.Green("✓ Logged %s", f.Name)
		fmt.Printf("  %s %s %.0f kcal\n", color.New(color.Faint).Sprint(shortID(f.ID)), f.MealType, f.Calories)
		return nil
	},
}

var foodListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List a day's food with totals",
	RunE: func(cmd *cobra.Command, args []string) error {
		dayKey, err := parseDayFlag(foodDate)
		if err != nil {
			return err
		}
		day, _ := stats.ParseDay(dayKey)
		ctx := cmd.Context()
		u, err := currentUser(ctx)
		if err != nil {
			return err
		}

		logs, err := repo.ListFoodLogs(ctx, u.ID, storage.Between(day, day.AddDate(0, 0, 1)))
		if err != nil {
			return fmt.Errorf("failed to list food: %w", err)
		}
		if len(logs) == 0 {
			fmt.Printf("No food logged on %s.\n", dayKey)
			return nil
		}

		faint := color.New(color.Faint)
		var total models.NutritionTotals
		for _, f := range logs {
			fmt.Printf("%s %s %s %s %6.0f kcal  P%.0f C%.0f F%.0f\n",
				faint.Sprint(shortID(f.ID)),
				faint.Sprint(f.EatenAt.Format("15:04")),
				padRight(string(f.MealType), 10),
				padRight(truncate(f.Name, 24), 24),
				f.Calories, f.Protein, f.Carbs, f.Fat)
			total.Calories += f.Calories
			total.Protein += f.Protein
			total.Carbs += f.Carbs
			total.Fat += f.Fat
		}

		goal, err := activeNutritionGoal(ctx, u.ID)
		if err != nil {
			return err
		}
		fmt.Println()
		fmt.Printf("%s %.0f / %.0f kcal (%.0f%%), protein %.0f / %.0f g\n",
			color.New(color.Bold).Sprint("Total:"),
			total.Calories, goal.Calories, stats.Percent(total.Calories, goal.Calories),
			total.Protein, goal.Protein)
		return nil
	},
}

var foodGoalCmd = &cobra.Command{
	Use:   "goal",
	Short: "Show or set the nutrition goal",
	Long: `Show the active nutrition goal, or set a new one with flags.
Flags you leave out keep their current values.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		u, err := currentUser(ctx)
		if err != nil {
			return err
		}
		cur, err := activeNutritionGoal(ctx, u.ID)
		if err != nil {
			return err
		}

		g := models.NewNutritionGoal(u.ID, cur.Calories, cur.Protein)
		g.Carbs, g.Fat, g.WaterML = cur.Carbs, cur.Fat, cur.WaterML
		changed := false
		for _, up := range []struct {
			src float64
			dst *float64
		}{
			{goalCalories, &g.Calories},
			{goalProtein, &g.Protein},
			{goalCarbs, &g.Carbs},
			{goalFat, &g.Fat},
			{goalWater, &g.WaterML},
		} {
			// Negative means the flag was not given.
			if up.src >= 0 {
				*up.dst = up.src
				changed = true
			}
		}
		if !changed {
			printGoal(cur)
			return nil
		}

		if err := repo.SetNutritionGoal(ctx, g); err != nil {
			return fmt.Errorf("failed to set goal: %w", err)
		}

		color.Green("✓ Updated nutrition goal")
		printGoal(g)
		return nil
	},
}

// activeNutritionGoal returns the active goal or the defaults.
func activeNutritionGoal(ctx context.Context, userID uuid.UUID) (*models.NutritionGoal, error) {
	g, err := repo.GetActiveNutritionGoal(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return models.DefaultNutritionGoal(userID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load goal: %w", err)
	}
	return g, nil
}

func printGoal(g *models.NutritionGoal) {
	fmt.Printf("  calories %.0f kcal\n", g.Calories)
	fmt.Printf("  protein  %.0f g\n", g.Protein)
	fmt.Printf("  carbs    %.0f g\n", g.Carbs)
	fmt.Printf("  fat      %.0f g\n", g.Fat)
	fmt.Printf("  water    %.0f ml\n", g.WaterML)
}

func init() {
	foodAddCmd.Flags().Float64VarP(&foodProtein, "protein", "p", 0, "protein in grams")
	foodAddCmd.Flags().Float64VarP(&foodCarbs, "carbs", "c", 0, "carbohydrates in grams")
	foodAddCmd.Flags().Float64VarP(&foodFat, "fat", "f", 0, "fat in grams")
	foodAddCmd.Flags().StringVarP(&foodMeal, "meal", "m", "", "breakfast, lunch, dinner or snack (default from time)")
	foodAddCmd.Flags().StringVar(&foodAt, "at", "", "timestamp (YYYY-MM-DD HH:MM)")
	foodAddCmd.Flags().StringVarP(&foodQuantity, "quantity", "q", "", "portion description")
	foodListCmd.Flags().StringVar(&foodDate, "date", "", "day to list (YYYY-MM-DD, default today)")
	foodGoalCmd.Flags().Float64Var(&goalCalories, "calories", -1, "daily calories")
	foodGoalCmd.Flags().Float64Var(&goalProtein, "protein", -1, "daily protein in grams")
	foodGoalCmd.Flags().Float64Var(&goalCarbs, "carbs", -1, "daily carbohydrates in grams")
	foodGoalCmd.Flags().Float64Var(&goalFat, "fat", -1, "daily fat in grams")
	foodGoalCmd.Flags().Float64Var(&goalWater, "water", -1, "daily water in ml")

	foodCmd.AddCommand(foodAddCmd, foodListCmd, foodGoalCmd)
	rootCmd.AddCommand(foodCmd)
}
