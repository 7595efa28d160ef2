// ABOUTME: Export and import functionality for BiriVibe data.
// ABOUTME: Supports JSON, YAML, and Markdown export formats.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/birivibe/birivibe/internal/models"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// ExportData represents the full export format for BiriVibe data.
type ExportData struct {
	Version        string                  `json:"version" yaml:"version"`
	ExportedAt     time.Time               `json:"exported_at" yaml:"exported_at"`
	Tool           string                  `json:"tool" yaml:"tool"`
	Users          []*models.User          `json:"users" yaml:"users"`
	Habits         []*models.Habit         `json:"habits" yaml:"habits"`
	HabitLogs      []*models.HabitLog      `json:"habit_logs" yaml:"habit_logs"`
	Routines       []*models.Routine       `json:"routines" yaml:"routines"`
	RoutineLogs    []*models.RoutineLog    `json:"routine_logs" yaml:"routine_logs"`
	Goals          []*models.Goal          `json:"goals" yaml:"goals"`
	FoodLogs       []*models.FoodLog       `json:"food_logs" yaml:"food_logs"`
	NutritionGoals []*models.NutritionGoal `json:"nutrition_goals" yaml:"nutrition_goals"`
	WeightLogs     []*models.WeightLog     `json:"weight_logs" yaml:"weight_logs"`
	SleepLogs      []*models.SleepLog      `json:"sleep_logs" yaml:"sleep_logs"`
	MoodLogs       []*models.MoodLog       `json:"mood_logs" yaml:"mood_logs"`
	Transactions   []*models.Transaction   `json:"transactions" yaml:"transactions"`
	Workouts       []*models.Workout       `json:"workouts" yaml:"workouts"`
	Rituals        []*models.Ritual        `json:"rituals" yaml:"rituals"`
	Contexts       []*models.Context       `json:"contexts" yaml:"contexts"`
	Automations    []*models.Automation    `json:"automations" yaml:"automations"`
}

// GetAllData retrieves all data for export.
//
//nolint:gocognit,gocyclo // One linear pass per entity.
func (d *DB) GetAllData(ctx context.Context) (*ExportData, error) {
	users, err := d.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	data := &ExportData{
		Version:    "1.0",
		ExportedAt: time.Now(),
		Tool:       "birivibe",
		Users:      users,
	}

	for _, u := range users {
		habits, err := d.ListHabits(ctx, u.ID, false)
		if err != nil {
			return nil, err
		}
		data.Habits = append(data.Habits, habits...)

		habitLogs, err := d.ListUserHabitLogs(ctx, u.ID, ListOptions{})
		if err != nil {
			return nil, err
		}
		data.HabitLogs = append(data.HabitLogs, habitLogs...)

		routines, err := d.ListRoutines(ctx, u.ID, false)
		if err != nil {
			return nil, err
		}
		data.Routines = append(data.Routines, routines...)
		for _, r := range routines {
			logs, err := d.ListRoutineLogs(ctx, r.ID, ListOptions{})
			if err != nil {
				return nil, err
			}
			data.RoutineLogs = append(data.RoutineLogs, logs...)
		}

		goals, err := d.ListGoals(ctx, u.ID, nil)
		if err != nil {
			return nil, err
		}
		data.Goals = append(data.Goals, parentsFirst(goals)...)

		foodLogs, err := d.ListFoodLogs(ctx, u.ID, ListOptions{})
		if err != nil {
			return nil, err
		}
		data.FoodLogs = append(data.FoodLogs, foodLogs...)

		nutritionGoals, err := d.ListNutritionGoals(ctx, u.ID)
		if err != nil {
			return nil, err
		}
		data.NutritionGoals = append(data.NutritionGoals, nutritionGoals...)

		weights, err := d.ListWeightLogs(ctx, u.ID, ListOptions{})
		if err != nil {
			return nil, err
		}
		data.WeightLogs = append(data.WeightLogs, weights...)

		sleeps, err := d.ListSleepLogs(ctx, u.ID, ListOptions{})
		if err != nil {
			return nil, err
		}
		data.SleepLogs = append(data.SleepLogs, sleeps...)

		moods, err := d.ListMoodLogs(ctx, u.ID, ListOptions{})
		if err != nil {
			return nil, err
		}
		data.MoodLogs = append(data.MoodLogs, moods...)

		txns, err := d.ListTransactions(ctx, u.ID, nil, ListOptions{})
		if err != nil {
			return nil, err
		}
		data.Transactions = append(data.Transactions, txns...)

		workouts, err := d.ListWorkouts(ctx, u.ID, nil, ListOptions{})
		if err != nil {
			return nil, err
		}
		// Populate exercises
		for _, w := range workouts {
			exercises, err := d.ListExercises(ctx, w.ID)
			if err != nil {
				return nil, err
			}
			for _, e := range exercises {
				w.Exercises = append(w.Exercises, *e)
			}
		}
		data.Workouts = append(data.Workouts, workouts...)

		rituals, err := d.ListRituals(ctx, u.ID)
		if err != nil {
			return nil, err
		}
		data.Rituals = append(data.Rituals, rituals...)

		contexts, err := d.ListContexts(ctx, u.ID)
		if err != nil {
			return nil, err
		}
		data.Contexts = append(data.Contexts, contexts...)

		automations, err := d.ListAutomations(ctx, u.ID)
		if err != nil {
			return nil, err
		}
		data.Automations = append(data.Automations, automations...)
	}

	return data, nil
}

// parentsFirst orders goals so every parent precedes its children.
func parentsFirst(goals []*models.Goal) []*models.Goal {
	out := make([]*models.Goal, 0, len(goals))
	var walk func(nodes []*models.GoalNode)
	walk = func(nodes []*models.GoalNode) {
		for _, n := range nodes {
			out = append(out, n.Goal)
			walk(n.Children)
		}
	}
	walk(models.BuildGoalTree(goals))
	return out
}

// ImportData imports an export in one transaction. Users that already exist
// by email are reused and the imported records are reassigned to them.
//
//nolint:gocognit,gocyclo // One linear pass per entity.
func (d *DB) ImportData(ctx context.Context, data *ExportData) error {
	return d.withTx(ctx, func(tx *DB) error {
		userIDs := make(map[uuid.UUID]uuid.UUID, len(data.Users))
		for _, u := range data.Users {
			existing, err := scanUser(tx.queryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, u.Email))
			if err == nil {
				userIDs[u.ID] = existing.ID
				continue
			}
			if err := tx.CreateUser(ctx, u); err != nil {
				return fmt.Errorf("import user: %w", err)
			}
			userIDs[u.ID] = u.ID
		}
		owner := func(id uuid.UUID) uuid.UUID {
			if mapped, ok := userIDs[id]; ok {
				return mapped
			}
			return id
		}

		for _, h := range data.Habits {
			h.UserID = owner(h.UserID)
			if err := tx.CreateHabit(ctx, h); err != nil {
				return fmt.Errorf("import habit: %w", err)
			}
		}
		for _, l := range data.HabitLogs {
			l.UserID = owner(l.UserID)
			if _, err := tx.LogHabit(ctx, l); err != nil {
				return fmt.Errorf("import habit log: %w", err)
			}
		}
		for _, r := range data.Routines {
			r.UserID = owner(r.UserID)
			if err := tx.CreateRoutine(ctx, r); err != nil {
				return fmt.Errorf("import routine: %w", err)
			}
		}
		for _, l := range data.RoutineLogs {
			l.UserID = owner(l.UserID)
			if err := tx.CreateRoutineLog(ctx, l); err != nil {
				return fmt.Errorf("import routine log: %w", err)
			}
		}
		for _, g := range parentsFirst(data.Goals) {
			g.UserID = owner(g.UserID)
			if err := tx.CreateGoal(ctx, g); err != nil {
				return fmt.Errorf("import goal: %w", err)
			}
		}
		for _, f := range data.FoodLogs {
			f.UserID = owner(f.UserID)
			if err := tx.CreateFoodLog(ctx, f); err != nil {
				return fmt.Errorf("import food log: %w", err)
			}
		}
		for _, g := range data.NutritionGoals {
			g.UserID = owner(g.UserID)
			if g.IsActive {
				if err := tx.deactivateNutritionGoals(ctx, g.UserID); err != nil {
					return fmt.Errorf("import nutrition goal: %w", err)
				}
			}
			if err := tx.insertNutritionGoal(ctx, g); err != nil {
				return fmt.Errorf("import nutrition goal: %w", err)
			}
		}
		for _, w := range data.WeightLogs {
			w.UserID = owner(w.UserID)
			if err := tx.CreateWeightLog(ctx, w); err != nil {
				return fmt.Errorf("import weight log: %w", err)
			}
		}
		for _, s := range data.SleepLogs {
			s.UserID = owner(s.UserID)
			if err := tx.CreateSleepLog(ctx, s); err != nil {
				return fmt.Errorf("import sleep log: %w", err)
			}
		}
		for _, m := range data.MoodLogs {
			m.UserID = owner(m.UserID)
			if err := tx.CreateMoodLog(ctx, m); err != nil {
				return fmt.Errorf("import mood log: %w", err)
			}
		}
		for _, t := range data.Transactions {
			t.UserID = owner(t.UserID)
			if err := tx.CreateTransaction(ctx, t); err != nil {
				return fmt.Errorf("import transaction: %w", err)
			}
		}
		for _, w := range data.Workouts {
			w.UserID = owner(w.UserID)
			if err := tx.CreateWorkout(ctx, w); err != nil {
				return fmt.Errorf("import workout: %w", err)
			}
		}
		for _, r := range data.Rituals {
			r.UserID = owner(r.UserID)
			if err := tx.CreateRitual(ctx, r); err != nil {
				return fmt.Errorf("import ritual: %w", err)
			}
		}
		for _, c := range data.Contexts {
			c.UserID = owner(c.UserID)
			if err := tx.CreateContext(ctx, c); err != nil {
				return fmt.Errorf("import context: %w", err)
			}
		}
		for _, a := range data.Automations {
			a.UserID = owner(a.UserID)
			if err := tx.CreateAutomation(ctx, a); err != nil {
				return fmt.Errorf("import automation: %w", err)
			}
		}
		return nil
	})
}

// ExportJSON exports all data as JSON.
func ExportJSON(ctx context.Context, r Repository) ([]byte, error) {
	data, err := r.GetAllData(ctx)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(data, "", "  ")
}

// ExportYAML exports all data as YAML.
func ExportYAML(ctx context.Context, r Repository) ([]byte, error) {
	data, err := r.GetAllData(ctx)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(data)
}

// ImportJSON imports data from JSON bytes.
func ImportJSON(ctx context.Context, r Repository, raw []byte) error {
	var data ExportData
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("unmarshal JSON: %w", err)
	}
	return r.ImportData(ctx, &data)
}

// ExportMarkdown exports data as Markdown, optionally limited to records on
// or after since.
func ExportMarkdown(ctx context.Context, r Repository, since *time.Time) (string, error) {
	data, err := r.GetAllData(ctx)
	if err != nil {
		return "", err
	}
	return RenderMarkdown(data, since, time.Now()), nil
}

// RenderMarkdown renders an export as Markdown tables.
//
//nolint:gocognit,gocyclo // This function has clear, linear logic despite complexity metrics.
func RenderMarkdown(data *ExportData, since *time.Time, now time.Time) string {
	keep := func(t time.Time) bool {
		return since == nil || !t.Before(*since)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# BiriVibe Export - %s\n\n", now.Format("2006-01-02")))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", now.Format(time.RFC3339)))

	if len(data.Habits) > 0 {
		completions := make(map[uuid.UUID]int)
		for _, l := range data.HabitLogs {
			day, err := time.ParseInLocation("2006-01-02", l.Date, time.Local)
			if l.Completed && err == nil && keep(day) {
				completions[l.HabitID]++
			}
		}
		sb.WriteString("## Habits\n\n")
		sb.WriteString("| Habit | Frequency | Completions | Active |\n")
		sb.WriteString("|-------|-----------|-------------|--------|\n")
		for _, h := range data.Habits {
			sb.WriteString(fmt.Sprintf("| %s | %s | %d | %s |\n",
				h.Name, h.Frequency, completions[h.ID], yesNo(h.IsActive)))
		}
		sb.WriteString("\n")
	}

	if len(data.Goals) > 0 {
		sb.WriteString("## Goals\n\n")
		var walk func(nodes []*models.GoalNode, depth int)
		walk = func(nodes []*models.GoalNode, depth int) {
			for _, n := range nodes {
				sb.WriteString(fmt.Sprintf("%s- %s (%s, %d%%)\n",
					strings.Repeat("  ", depth), n.Title, n.Status, n.Progress))
				walk(n.Children, depth+1)
			}
		}
		walk(models.BuildGoalTree(data.Goals), 0)
		sb.WriteString("\n")
	}

	var food []*models.FoodLog
	for _, f := range data.FoodLogs {
		if keep(f.EatenAt) {
			food = append(food, f)
		}
	}
	if len(food) > 0 {
		sb.WriteString("## Food\n\n")
		sb.WriteString("| Date | Meal | Food | Calories | Protein |\n")
		sb.WriteString("|------|------|------|----------|---------|\n")
		for _, f := range food {
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %.0f | %.1f g |\n",
				f.EatenAt.Format("2006-01-02 15:04"), f.MealType, f.Name, f.Calories, f.Protein))
		}
		sb.WriteString("\n")
	}

	var weights []*models.WeightLog
	for _, w := range data.WeightLogs {
		if keep(w.RecordedAt) {
			weights = append(weights, w)
		}
	}
	if len(weights) > 0 {
		sb.WriteString("## Weight\n\n")
		sb.WriteString("| Date | Weight | Notes |\n")
		sb.WriteString("|------|--------|-------|\n")
		for _, w := range weights {
			sb.WriteString(fmt.Sprintf("| %s | %.1f kg | %s |\n",
				w.RecordedAt.Format("2006-01-02 15:04"), w.WeightKg, deref(w.Notes)))
		}
		sb.WriteString("\n")
	}

	var sleeps []*models.SleepLog
	for _, s := range data.SleepLogs {
		if keep(s.WakeTime) {
			sleeps = append(sleeps, s)
		}
	}
	if len(sleeps) > 0 {
		sb.WriteString("## Sleep\n\n")
		sb.WriteString("| Woke | Hours | Quality |\n")
		sb.WriteString("|------|-------|---------|\n")
		for _, s := range sleeps {
			quality := ""
			if s.Quality != nil {
				quality = fmt.Sprintf("%d/10", *s.Quality)
			}
			sb.WriteString(fmt.Sprintf("| %s | %.1f | %s |\n",
				s.WakeTime.Format("2006-01-02 15:04"), s.DurationHours, quality))
		}
		sb.WriteString("\n")
	}

	var moods []*models.MoodLog
	for _, m := range data.MoodLogs {
		if keep(m.RecordedAt) {
			moods = append(moods, m)
		}
	}
	if len(moods) > 0 {
		sb.WriteString("## Mood\n\n")
		sb.WriteString("| Date | Mood | Energy | Tags |\n")
		sb.WriteString("|------|------|--------|------|\n")
		for _, m := range moods {
			energy := ""
			if m.Energy != nil {
				energy = fmt.Sprintf("%d/10", *m.Energy)
			}
			sb.WriteString(fmt.Sprintf("| %s | %d/10 | %s | %s |\n",
				m.RecordedAt.Format("2006-01-02 15:04"), m.Mood, energy, strings.Join(m.Tags, ", ")))
		}
		sb.WriteString("\n")
	}

	var txns []*models.Transaction
	for _, t := range data.Transactions {
		if keep(t.OccurredAt) {
			txns = append(txns, t)
		}
	}
	if len(txns) > 0 {
		sb.WriteString("## Finance\n\n")
		sb.WriteString("| Date | Kind | Category | Amount | Description |\n")
		sb.WriteString("|------|------|----------|--------|-------------|\n")
		for _, t := range txns {
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %.2f | %s |\n",
				t.OccurredAt.Format("2006-01-02"), t.Kind, t.Category, t.Amount, t.Description))
		}
		sb.WriteString("\n")
	}

	var workouts []*models.Workout
	for _, w := range data.Workouts {
		if keep(w.StartedAt) {
			workouts = append(workouts, w)
		}
	}
	if len(workouts) > 0 {
		sb.WriteString("## Workouts\n\n")
		sb.WriteString("| Date | Type | Duration | Exercises | Notes |\n")
		sb.WriteString("|------|------|----------|-----------|-------|\n")
		for _, w := range workouts {
			duration := ""
			if w.DurationMinutes != nil {
				duration = fmt.Sprintf("%d min", *w.DurationMinutes)
			}
			names := make([]string, 0, len(w.Exercises))
			for _, e := range w.Exercises {
				names = append(names, e.Name)
			}
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s |\n",
				w.StartedAt.Format("2006-01-02 15:04"), w.WorkoutType, duration,
				strings.Join(names, ", "), deref(w.Notes)))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
