// ABOUTME: Aggregates a user's recent data into the dashboard and per-day series.
// ABOUTME: Independent repository reads run concurrently under one errgroup.

package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/birivibe/birivibe/internal/models"
	"github.com/birivibe/birivibe/internal/stats"
	"github.com/birivibe/birivibe/internal/storage"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// DefaultDays is the window used when a caller asks for zero days.
const DefaultDays = 7

// MaxDays caps the window a caller can ask for.
const MaxDays = 365

// HabitSummary reports today's habit completion.
type HabitSummary struct {
	Done    int     `json:"done"`
	Total   int     `json:"total"`
	Percent float64 `json:"percent"`
}

// NutritionSummary compares today's intake with the active goal.
type NutritionSummary struct {
	Today           models.NutritionTotals `json:"today"`
	Goal            *models.NutritionGoal  `json:"goal"`
	CaloriesPercent float64                `json:"calories_percent"`
	ProteinPercent  float64                `json:"protein_percent"`
	Streak          int                    `json:"streak"`
}

// WeightSummary holds the latest weight and its change over the window.
type WeightSummary struct {
	Latest *models.WeightLog `json:"latest"`
	Change *float64          `json:"change"`
}

// SleepSummary averages sleep over the window.
type SleepSummary struct {
	AverageHours float64 `json:"average_hours"`
	Nights       int     `json:"nights"`
}

// MoodSummary averages mood and energy over the window.
type MoodSummary struct {
	Average       float64 `json:"average"`
	EnergyAverage float64 `json:"energy_average"`
	Entries       int     `json:"entries"`
}

// GoalSummary counts open goals and their mean progress.
type GoalSummary struct {
	Active          int     `json:"active"`
	Completed       int     `json:"completed"`
	AverageProgress float64 `json:"average_progress"`
}

// WorkoutSummary counts workouts in the window.
type WorkoutSummary struct {
	Count        int     `json:"count"`
	TotalMinutes int     `json:"total_minutes"`
	Calories     float64 `json:"calories"`
}

// Dashboard is the overview for one user on one day.
type Dashboard struct {
	Date      string                `json:"date"`
	Days      int                   `json:"days"`
	Habits    HabitSummary          `json:"habits"`
	Nutrition NutritionSummary      `json:"nutrition"`
	Weight    WeightSummary         `json:"weight"`
	Sleep     SleepSummary          `json:"sleep"`
	Mood      MoodSummary           `json:"mood"`
	Finance   models.FinanceSummary `json:"finance"`
	Goals     GoalSummary           `json:"goals"`
	Workouts  WorkoutSummary        `json:"workouts"`
}

// Series holds per-day values for charting, oldest day first.
type Series struct {
	Days             []string         `json:"days"`
	Calories         []stats.DayValue `json:"calories"`
	Protein          []stats.DayValue `json:"protein"`
	SleepHours       []stats.DayValue `json:"sleep_hours"`
	Mood             []stats.DayValue `json:"mood"`
	Weight           []stats.DayValue `json:"weight"`
	HabitCompletions []stats.DayValue `json:"habit_completions"`
	Expenses         []stats.DayValue `json:"expenses"`
}

// Service builds dashboards from a repository.
type Service struct {
	repo storage.Repository
}

// NewService creates a dashboard service.
func NewService(repo storage.Repository) *Service {
	return &Service{repo: repo}
}

// ClampDays bounds a requested window to 1..MaxDays, defaulting zero.
func ClampDays(days int) int {
	switch {
	case days <= 0:
		return DefaultDays
	case days > MaxDays:
		return MaxDays
	}
	return days
}

// window returns [start of the first day, start of tomorrow).
func window(now time.Time, days int) (time.Time, time.Time) {
	today := stats.StartOfDay(now)
	return today.AddDate(0, 0, -(days - 1)), today.AddDate(0, 0, 1)
}

// Build reads everything the dashboard needs concurrently and summarizes it.
func (s *Service) Build(ctx context.Context, userID uuid.UUID, now time.Time, days int) (*Dashboard, error) {
	days = ClampDays(days)
	today := stats.StartOfDay(now)
	tomorrow := today.AddDate(0, 0, 1)
	from, to := window(now, days)
	span := storage.Between(from, to)

	var (
		habits     []*models.Habit
		habitLogs  []*models.HabitLog
		totals     *models.NutritionTotals
		goal       *models.NutritionGoal
		latest     *models.WeightLog
		weights    []*models.WeightLog
		sleeps     []*models.SleepLog
		moods      []*models.MoodLog
		finance    *models.FinanceSummary
		goals      []*models.Goal
		workouts   []*models.Workout
		foodRecent []*models.FoodLog
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		habits, err = s.repo.ListHabits(gctx, userID, true)
		return err
	})
	g.Go(func() (err error) {
		habitLogs, err = s.repo.ListUserHabitLogs(gctx, userID, storage.Between(today, tomorrow))
		return err
	})
	g.Go(func() (err error) {
		totals, err = s.repo.SumNutrition(gctx, userID, today, tomorrow)
		return err
	})
	g.Go(func() (err error) {
		goal, err = s.repo.GetActiveNutritionGoal(gctx, userID)
		if errors.Is(err, storage.ErrNotFound) {
			goal, err = models.DefaultNutritionGoal(userID), nil
		}
		return err
	})
	g.Go(func() (err error) {
		latest, err = s.repo.GetLatestWeight(gctx, userID)
		if errors.Is(err, storage.ErrNotFound) {
			latest, err = nil, nil
		}
		return err
	})
	g.Go(func() (err error) {
		weights, err = s.repo.ListWeightLogs(gctx, userID, span)
		return err
	})
	g.Go(func() (err error) {
		sleeps, err = s.repo.ListSleepLogs(gctx, userID, span)
		return err
	})
	g.Go(func() (err error) {
		moods, err = s.repo.ListMoodLogs(gctx, userID, span)
		return err
	})
	g.Go(func() (err error) {
		finance, err = s.repo.SummarizeTransactions(gctx, userID, span)
		return err
	})
	g.Go(func() (err error) {
		goals, err = s.repo.ListGoals(gctx, userID, nil)
		return err
	})
	g.Go(func() (err error) {
		workouts, err = s.repo.ListWorkouts(gctx, userID, nil, span)
		return err
	})
	g.Go(func() (err error) {
		since := today.AddDate(0, 0, -stats.DefaultStreakWindow)
		foodRecent, err = s.repo.ListFoodLogs(gctx, userID, storage.Between(since, tomorrow))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("build dashboard: %w", err)
	}

	d := &Dashboard{
		Date:    stats.DayKey(today),
		Days:    days,
		Finance: *finance,
	}

	d.Habits = summarizeHabits(habits, habitLogs)

	d.Nutrition = NutritionSummary{
		Today:           *totals,
		Goal:            goal,
		CaloriesPercent: stats.Percent(totals.Calories, goal.Calories),
		ProteinPercent:  stats.Percent(totals.Protein, goal.Protein),
	}
	eaten := make([]time.Time, len(foodRecent))
	for i, f := range foodRecent {
		eaten[i] = f.EatenAt
	}
	daySet := stats.DaySet(eaten)
	d.Nutrition.Streak = stats.Streak(func(day string) bool { return daySet[day] }, now, stats.DefaultStreakWindow)

	d.Weight.Latest = latest
	if len(weights) >= 2 {
		// Lists are newest first.
		change := stats.Round1(weights[0].WeightKg - weights[len(weights)-1].WeightKg)
		d.Weight.Change = &change
	}

	hours := make([]float64, len(sleeps))
	for i, sl := range sleeps {
		hours[i] = sl.DurationHours
	}
	d.Sleep = SleepSummary{AverageHours: stats.Round1(stats.Mean(hours)), Nights: len(sleeps)}

	d.Mood = summarizeMood(moods)
	d.Goals = summarizeGoals(goals)
	d.Workouts = summarizeWorkouts(workouts)
	return d, nil
}

func summarizeHabits(habits []*models.Habit, logs []*models.HabitLog) HabitSummary {
	done := make(map[uuid.UUID]bool, len(logs))
	for _, l := range logs {
		if l.Completed {
			done[l.HabitID] = true
		}
	}
	s := HabitSummary{Total: len(habits)}
	for _, h := range habits {
		if done[h.ID] {
			s.Done++
		}
	}
	s.Percent = stats.Percent(float64(s.Done), float64(s.Total))
	return s
}

func summarizeMood(moods []*models.MoodLog) MoodSummary {
	var mood, energy []float64
	for _, m := range moods {
		mood = append(mood, float64(m.Mood))
		if m.Energy != nil {
			energy = append(energy, float64(*m.Energy))
		}
	}
	return MoodSummary{
		Average:       stats.Round1(stats.Mean(mood)),
		EnergyAverage: stats.Round1(stats.Mean(energy)),
		Entries:       len(moods),
	}
}

func summarizeGoals(goals []*models.Goal) GoalSummary {
	var s GoalSummary
	var progress []float64
	for _, g := range goals {
		switch g.Status {
		case models.GoalCompleted:
			s.Completed++
		case models.GoalNotStarted, models.GoalInProgress:
			s.Active++
			progress = append(progress, float64(g.Progress))
		}
	}
	s.AverageProgress = stats.Round1(stats.Mean(progress))
	return s
}

func summarizeWorkouts(workouts []*models.Workout) WorkoutSummary {
	s := WorkoutSummary{Count: len(workouts)}
	for _, w := range workouts {
		if w.DurationMinutes != nil {
			s.TotalMinutes += *w.DurationMinutes
		}
		if w.CaloriesBurned != nil {
			s.Calories += *w.CaloriesBurned
		}
	}
	return s
}

// Series returns per-day values over the days ending at now.
func (s *Service) Series(ctx context.Context, userID uuid.UUID, now time.Time, days int) (*Series, error) {
	days = ClampDays(days)
	from, to := window(now, days)
	span := storage.Between(from, to)

	var (
		food      []*models.FoodLog
		sleeps    []*models.SleepLog
		moods     []*models.MoodLog
		weights   []*models.WeightLog
		habitLogs []*models.HabitLog
		expenses  []*models.Transaction
	)
	expense := models.KindExpense

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		food, err = s.repo.ListFoodLogs(gctx, userID, span)
		return err
	})
	g.Go(func() (err error) {
		sleeps, err = s.repo.ListSleepLogs(gctx, userID, span)
		return err
	})
	g.Go(func() (err error) {
		moods, err = s.repo.ListMoodLogs(gctx, userID, span)
		return err
	})
	g.Go(func() (err error) {
		weights, err = s.repo.ListWeightLogs(gctx, userID, span)
		return err
	})
	g.Go(func() (err error) {
		habitLogs, err = s.repo.ListUserHabitLogs(gctx, userID, span)
		return err
	})
	g.Go(func() (err error) {
		expenses, err = s.repo.ListTransactions(gctx, userID, &expense, span)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("build series: %w", err)
	}

	var calories, protein []stats.Point
	for _, f := range food {
		calories = append(calories, stats.Point{At: f.EatenAt, Value: f.Calories})
		protein = append(protein, stats.Point{At: f.EatenAt, Value: f.Protein})
	}
	sleepPts := make([]stats.Point, len(sleeps))
	for i, sl := range sleeps {
		sleepPts[i] = stats.Point{At: sl.WakeTime, Value: sl.DurationHours}
	}
	moodPts := make([]stats.Point, len(moods))
	for i, m := range moods {
		moodPts[i] = stats.Point{At: m.RecordedAt, Value: float64(m.Mood)}
	}
	weightPts := make([]stats.Point, len(weights))
	for i, w := range weights {
		weightPts[i] = stats.Point{At: w.RecordedAt, Value: w.WeightKg}
	}
	var habitPts []stats.Point
	for _, l := range habitLogs {
		if !l.Completed {
			continue
		}
		day, err := stats.ParseDay(l.Date)
		if err != nil {
			continue
		}
		habitPts = append(habitPts, stats.Point{At: day, Value: 1})
	}
	expensePts := make([]stats.Point, len(expenses))
	for i, t := range expenses {
		expensePts[i] = stats.Point{At: t.OccurredAt, Value: t.Amount}
	}

	return &Series{
		Days:             stats.Days(now, days),
		Calories:         stats.SumByDay(calories, now, days),
		Protein:          stats.SumByDay(protein, now, days),
		SleepHours:       stats.SumByDay(sleepPts, now, days),
		Mood:             stats.AverageByDay(moodPts, now, days),
		Weight:           stats.LastByDay(weightPts, now, days),
		HabitCompletions: stats.SumByDay(habitPts, now, days),
		Expenses:         stats.SumByDay(expensePts, now, days),
	}, nil
}
