// ABOUTME: CLI commands for managing workouts.
// ABOUTME: Supports add, list, show, exercise and rm subcommands.
package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/birivibe/birivibe/internal/models"
	"github.com/birivibe/birivibe/internal/storage"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	workoutDuration int
	workoutCalories float64
	workoutNotes    string
	workoutAt       string
	workoutType     string
	workoutLimit    int

	exerciseSets    int
	exerciseReps    int
	exerciseWeight  float64
	exerciseSeconds int
	exerciseKm      float64
)

var workoutCmd = &cobra.Command{
	Use:     "workout",
	Aliases: []string{"w"},
	Short:   "Manage workouts",
	Long: `Track workout sessions and the exercises in them.

WORKFLOW:

  1. Create a workout:     birivibe workout add strength --duration 45
  2. Add exercises to it:  birivibe workout exercise abc123 squat --sets 5 --reps 5 --weight 100
  3. View workout details: birivibe workout show abc123

COMMANDS:

  add       Create a new workout session
  list      List recent workouts
  show      View a workout with its exercises
  exercise  Add an exercise to an existing workout
  rm        Delete a workout

The workout type is freeform: run, strength, swim, cycle, yoga, hiit, walk, etc.`,
}

var workoutAddCmd = &cobra.Command{
	Use:   "add <type>",
	Short: "Add a new workout",
	Long: `Add a new workout session.

Examples:
  birivibe workout add run --duration 45 --calories 420
  birivibe workout add strength --notes "Leg day"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind := strings.TrimSpace(args[0])
		if kind == "" {
			return fmt.Errorf("workout type is required")
		}
		if workoutDuration < 0 {
			return fmt.Errorf("duration must not be negative")
		}
		started := time.Now()
		if workoutAt != "" {
			var err error
			if started, err = parseTime(workoutAt); err != nil {
				return fmt.Errorf("invalid timestamp: %s", workoutAt)
			}
		}
		ctx := cmd.Context()
		u, err := currentUser(ctx)
		if err != nil {
			return err
		}

		w := models.NewWorkout(u.ID, kind).WithStartedAt(started)
		if workoutDuration > 0 {
			w.WithDuration(workoutDuration)
		}
		if workoutCalories > 0 {
			kcal := workoutCalories
			w.CaloriesBurned = &kcal
		}
		if workoutNotes != "" {
			w.WithNotes(workoutNotes)
		}

		if err := repo.CreateWorkout(ctx, w); err != nil {
			return fmt.Errorf("failed to create workout: %w", err)
		}

		color.Green("✓ Added %s workout", kind)
		fmt.Printf("  ID: %s\n", shortID(w.ID))
		if w.DurationMinutes != nil {
			fmt.Printf("  Duration: %d min\n", *w.DurationMinutes)
		}
		return nil
	},
}

var workoutListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List workouts",
	RunE: func(cmd *cobra.Command, args []string) error {
		var wType *string
		if workoutType != "" {
			wType = &workoutType
		}
		ctx := cmd.Context()
		u, err := currentUser(ctx)
		if err != nil {
			return err
		}

		workouts, err := repo.ListWorkouts(ctx, u.ID, wType, storage.ListOptions{Limit: workoutLimit})
		if err != nil {
			return fmt.Errorf("failed to list workouts: %w", err)
		}
		if len(workouts) == 0 {
			fmt.Println("No workouts found.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, w := range workouts {
			duration := ""
			if w.DurationMinutes != nil {
				duration = fmt.Sprintf("%d min", *w.DurationMinutes)
			}
			fmt.Printf("%s %s %s %s\n",
				faint.Sprint(shortID(w.ID)),
				faint.Sprint(w.StartedAt.Format("2006-01-02 15:04")),
				padRight(w.WorkoutType, 12),
				duration)
		}
		return nil
	},
}

var workoutShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show workout details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := repo.GetWorkout(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to get workout: %w", err)
		}

		fmt.Printf("Workout: %s\n", shortID(w.ID))
		fmt.Printf("Type: %s\n", w.WorkoutType)
		fmt.Printf("Started: %s\n", w.StartedAt.Format("2006-01-02 15:04"))
		if w.DurationMinutes != nil {
			fmt.Printf("Duration: %d min\n", *w.DurationMinutes)
		}
		if w.CaloriesBurned != nil {
			fmt.Printf("Calories: %.0f kcal\n", *w.CaloriesBurned)
		}
		if w.Notes != nil {
			fmt.Printf("Notes: %s\n", *w.Notes)
		}

		if len(w.Exercises) > 0 {
			fmt.Println("\nExercises:")
			for _, e := range w.Exercises {
				fmt.Printf("  %s %s\n", padRight(e.Name, 20), describeExercise(&e))
			}
		}
		return nil
	},
}

var workoutExerciseCmd = &cobra.Command{
	Use:   "exercise <workout-id> <name>",
	Short: "Add an exercise to a workout",
	Long: `Add an exercise to an existing workout.

Examples:
  birivibe workout exercise abc123 squat --sets 5 --reps 5 --weight 100
  birivibe workout exercise abc123 plank --seconds 60
  birivibe workout exercise abc123 row --km 2`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if exerciseSets < 0 || exerciseReps < 0 || exerciseSeconds < 0 {
			return fmt.Errorf("sets, reps and seconds must not be negative")
		}
		ctx := cmd.Context()
		w, err := repo.GetWorkout(ctx, args[0])
		if err != nil {
			return fmt.Errorf("workout not found: %s", args[0])
		}

		e := models.NewExercise(w.ID, args[1])
		if exerciseSets > 0 {
			sets := exerciseSets
			e.Sets = &sets
		}
		if exerciseReps > 0 {
			reps := exerciseReps
			e.Reps = &reps
		}
		if exerciseWeight > 0 {
			kg := exerciseWeight
			e.WeightKg = &kg
		}
		if exerciseSeconds > 0 {
			secs := exerciseSeconds
			e.DurationSeconds = &secs
		}
		if exerciseKm > 0 {
			km := exerciseKm
			e.DistanceKm = &km
		}
		if err := repo.AddExercise(ctx, e); err != nil {
			return fmt.Errorf("failed to add exercise: %w", err)
		}

		color.Green("✓ Added %s to workout", e.Name)
		if d := describeExercise(e); d != "" {
			fmt.Printf("  %s\n", d)
		}
		return nil
	},
}

var workoutRmCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"delete", "del"},
	Short:   "Delete a workout and its exercises",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := repo.DeleteWorkout(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("failed to delete workout: %w", err)
		}
		color.Green("✓ Deleted workout %s", args[0])
		return nil
	},
}

func describeExercise(e *models.Exercise) string {
	var parts []string
	if e.Sets != nil && e.Reps != nil {
		parts = append(parts, fmt.Sprintf("%dx%d", *e.Sets, *e.Reps))
	} else if e.Sets != nil {
		parts = append(parts, fmt.Sprintf("%d sets", *e.Sets))
	} else if e.Reps != nil {
		parts = append(parts, fmt.Sprintf("%d reps", *e.Reps))
	}
	if e.WeightKg != nil {
		parts = append(parts, fmt.Sprintf("@ %.1f kg", *e.WeightKg))
	}
	if e.DurationSeconds != nil {
		parts = append(parts, fmt.Sprintf("%ds", *e.DurationSeconds))
	}
	if e.DistanceKm != nil {
		parts = append(parts, fmt.Sprintf("%.2f km", *e.DistanceKm))
	}
	return strings.Join(parts, " ")
}

func init() {
	workoutAddCmd.Flags().IntVarP(&workoutDuration, "duration", "d", 0, "duration in minutes")
	workoutAddCmd.Flags().Float64Var(&workoutCalories, "calories", 0, "calories burned")
	workoutAddCmd.Flags().StringVarP(&workoutNotes, "notes", "n", "", "workout notes")
	workoutAddCmd.Flags().StringVar(&workoutAt, "at", "", "start time (YYYY-MM-DD HH:MM)")

	workoutListCmd.Flags().StringVarP(&workoutType, "type", "t", "", "filter by workout type")
	workoutListCmd.Flags().IntVarP(&workoutLimit, "limit", "n", 20, "max number of results")

	workoutExerciseCmd.Flags().IntVar(&exerciseSets, "sets", 0, "number of sets")
	workoutExerciseCmd.Flags().IntVar(&exerciseReps, "reps", 0, "reps per set")
	workoutExerciseCmd.Flags().Float64Var(&exerciseWeight, "weight", 0, "weight in kg")
	workoutExerciseCmd.Flags().IntVar(&exerciseSeconds, "seconds", 0, "duration in seconds")
	workoutExerciseCmd.Flags().Float64Var(&exerciseKm, "km", 0, "distance in km")

	workoutCmd.AddCommand(workoutAddCmd, workoutListCmd, workoutShowCmd, workoutExerciseCmd, workoutRmCmd)
	rootCmd.AddCommand(workoutCmd)
}
