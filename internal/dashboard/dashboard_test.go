// ABOUTME: Tests that dashboard and series numbers add up over seeded data.
package dashboard

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/birivibe/birivibe/internal/models"
	"github.com/birivibe/birivibe/internal/stats"
	"github.com/birivibe/birivibe/internal/storage"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(day, hour int) time.Time {
	return time.Date(2026, 1, day, hour, 0, 0, 0, time.Local)
}

var now = at(10, 20)

func setup(t *testing.T) (*storage.DB, uuid.UUID) {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "birivibe.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	u, err := db.EnsureUser(context.Background(), "test@example.com", "Test User")
	require.NoError(t, err)
	return db, u.ID
}

func seed(t *testing.T, db *storage.DB, userID uuid.UUID) {
	t.Helper()
	ctx := context.Background()

	read := models.NewHabit(userID, "Read")
	walk := models.NewHabit(userID, "Walk")
	require.NoError(t, db.CreateHabit(ctx, read))
	require.NoError(t, db.CreateHabit(ctx, walk))
	for _, day := range []string{"2026-01-08", "2026-01-09", "2026-01-10"} {
		_, err := db.LogHabit(ctx, models.NewHabitLog(read, day))
		require.NoError(t, err)
	}

	// Food on the 8th, 9th and 10th gives a three day diet streak.
	for _, f := range []*models.FoodLog{
		models.NewFoodLog(userID, "eggs", 200).WithMacros(20, 0, 10).WithEatenAt(at(10, 8)),
		models.NewFoodLog(userID, "chicken", 500).WithMacros(55, 10, 20).WithEatenAt(at(10, 13)),
		models.NewFoodLog(userID, "pasta", 700).WithMacros(25, 100, 15).WithEatenAt(at(9, 19)),
		models.NewFoodLog(userID, "apple", 100).WithEatenAt(at(8, 15)),
	} {
		require.NoError(t, db.CreateFoodLog(ctx, f))
	}

	require.NoError(t, db.SetNutritionGoal(ctx, models.NewNutritionGoal(userID, 2800, 200)))

	for _, w := range []*models.WeightLog{
		models.NewWeightLog(userID, 82.0).WithRecordedAt(at(4, 7)),
		models.NewWeightLog(userID, 81.0).WithRecordedAt(at(7, 7)),
		models.NewWeightLog(userID, 80.5).WithRecordedAt(at(10, 7)),
	} {
		require.NoError(t, db.CreateWeightLog(ctx, w))
	}

	require.NoError(t, db.CreateSleepLog(ctx, models.NewSleepLog(userID, at(8, 23), at(9, 7))))
	require.NoError(t, db.CreateSleepLog(ctx, models.NewSleepLog(userID, at(9, 23), at(10, 6))))

	m1 := models.NewMoodLog(userID, 6).WithEnergy(4)
	m1.RecordedAt = at(9, 12)
	m2 := models.NewMoodLog(userID, 8).WithEnergy(8)
	m2.RecordedAt = at(10, 12)
	require.NoError(t, db.CreateMoodLog(ctx, m1))
	require.NoError(t, db.CreateMoodLog(ctx, m2))

	salary := models.NewTransaction(userID, models.KindIncome, 1000, "salary")
	salary.OccurredAt = at(5, 9)
	rent := models.NewTransaction(userID, models.KindExpense, 400, "rent")
	rent.OccurredAt = at(6, 9)
	coffee := models.NewTransaction(userID, models.KindExpense, 5, "coffee")
	coffee.OccurredAt = at(10, 9)
	old := models.NewTransaction(userID, models.KindExpense, 999, "old")
	old.OccurredAt = at(1, 9)
	for _, tx := range []*models.Transaction{salary, rent, coffee, old} {
		require.NoError(t, db.CreateTransaction(ctx, tx))
	}

	g1 := models.NewGoal(userID, "Run a marathon")
	g1.Status = models.GoalInProgress
	g1.Progress = 40
	g2 := models.NewGoal(userID, "Learn Go")
	g2.Progress = 20
	g3 := models.NewGoal(userID, "Done thing")
	g3.Status = models.GoalCompleted
	g3.Progress = 100
	for _, g := range []*models.Goal{g1, g2, g3} {
		require.NoError(t, db.CreateGoal(ctx, g))
	}

	require.NoError(t, db.CreateWorkout(ctx, models.NewWorkout(userID, "run").WithDuration(30).WithStartedAt(at(9, 7))))
	require.NoError(t, db.CreateWorkout(ctx, models.NewWorkout(userID, "lift").WithDuration(45).WithStartedAt(at(10, 18))))
}

func TestBuild(t *testing.T) {
	db, userID := setup(t)
	seed(t, db, userID)

	d, err := NewService(db).Build(context.Background(), userID, now, 7)
	require.NoError(t, err)

	assert.Equal(t, "2026-01-10", d.Date)
	assert.Equal(t, 7, d.Days)

	assert.Equal(t, HabitSummary{Done: 1, Total: 2, Percent: 50}, d.Habits)

	assert.Equal(t, 700.0, d.Nutrition.Today.Calories)
	assert.Equal(t, 75.0, d.Nutrition.Today.Protein)
	assert.Equal(t, 2, d.Nutrition.Today.Entries)
	assert.Equal(t, 2800.0, d.Nutrition.Goal.Calories)
	assert.Equal(t, 25.0, d.Nutrition.CaloriesPercent)
	assert.Equal(t, 37.5, d.Nutrition.ProteinPercent)
	assert.Equal(t, 3, d.Nutrition.Streak)

	require.NotNil(t, d.Weight.Latest)
	assert.Equal(t, 80.5, d.Weight.Latest.WeightKg)
	require.NotNil(t, d.Weight.Change)
	assert.Equal(t, -1.5, *d.Weight.Change)

	assert.Equal(t, 2, d.Sleep.Nights)
	assert.Equal(t, 7.5, d.Sleep.AverageHours)

	assert.Equal(t, 7.0, d.Mood.Average)
	assert.Equal(t, 6.0, d.Mood.EnergyAverage)

	assert.Equal(t, 1000.0, d.Finance.Income)
	assert.Equal(t, 405.0, d.Finance.Expense)
	assert.Equal(t, 595.0, d.Finance.Net)

	assert.Equal(t, GoalSummary{Active: 2, Completed: 1, AverageProgress: 30}, d.Goals)
	assert.Equal(t, 2, d.Workouts.Count)
	assert.Equal(t, 75, d.Workouts.TotalMinutes)
}

func TestBuildEmpty(t *testing.T) {
	db, userID := setup(t)

	d, err := NewService(db).Build(context.Background(), userID, now, 0)
	require.NoError(t, err)

	assert.Equal(t, DefaultDays, d.Days)
	assert.Equal(t, HabitSummary{}, d.Habits)
	assert.Equal(t, float64(models.DefaultCalories), d.Nutrition.Goal.Calories)
	assert.Equal(t, float64(models.DefaultProtein), d.Nutrition.Goal.Protein)
	assert.Nil(t, d.Weight.Latest)
	assert.Nil(t, d.Weight.Change)
	assert.Zero(t, d.Nutrition.Streak)
}

func TestSeries(t *testing.T) {
	db, userID := setup(t)
	seed(t, db, userID)

	s, err := NewService(db).Series(context.Background(), userID, now, 7)
	require.NoError(t, err)

	assert.Equal(t, stats.Days(now, 7), s.Days)
	require.Len(t, s.Calories, 7)

	last := len(s.Days) - 1
	assert.Equal(t, stats.DayValue{Day: "2026-01-10", Value: 700}, s.Calories[last])
	assert.Equal(t, 700.0, s.Calories[last-1].Value)
	assert.Equal(t, 100.0, s.Calories[last-2].Value)
	assert.Equal(t, 0.0, s.Calories[0].Value)

	assert.Equal(t, 7.0, s.SleepHours[last].Value)
	assert.Equal(t, 8.0, s.SleepHours[last-1].Value)
	assert.Equal(t, 8.0, s.Mood[last].Value)
	assert.Equal(t, 82.0, s.Weight[0].Value)
	assert.Equal(t, 80.5, s.Weight[last].Value)
	assert.Equal(t, 1.0, s.HabitCompletions[last].Value)
	assert.Equal(t, 5.0, s.Expenses[last].Value)
	assert.Equal(t, 400.0, s.Expenses[2].Value)

	var total float64
	for _, v := range s.Expenses {
		total += v.Value
	}
	assert.Equal(t, 405.0, total)
}

func TestClampDays(t *testing.T) {
	assert.Equal(t, DefaultDays, ClampDays(0))
	assert.Equal(t, DefaultDays, ClampDays(-3))
	assert.Equal(t, 30, ClampDays(30))
	assert.Equal(t, MaxDays, ClampDays(10000))
}
