// ABOUTME: Repository interface for life-tracking data storage.
// ABOUTME: Defines the CRUD contract shared by the API, MCP server and CLI.
package storage

import (
	"context"
	"time"

	"github.com/birivibe/birivibe/internal/models"
	"github.com/google/uuid"
)

// ListOptions narrows list queries to a time range. Zero From/To are unbounded
// and a zero Limit returns everything.
type ListOptions struct {
	From  time.Time
	To    time.Time
	Limit int
}

// Since returns options covering from onward.
func Since(from time.Time) ListOptions {
	return ListOptions{From: from}
}

// Between returns options covering [from, to).
func Between(from, to time.Time) ListOptions {
	return ListOptions{From: from, To: to}
}

// rangeClause appends the range conditions for col to where and args.
// format converts the bound to the column's stored text form.
func (o ListOptions) rangeClause(col string, format func(time.Time) string, where []string, args []any) ([]string, []any) {
	if !o.From.IsZero() {
		where = append(where, col+" >= ?")
		args = append(args, format(o.From))
	}
	if !o.To.IsZero() {
		where = append(where, col+" < ?")
		args = append(args, format(o.To))
	}
	return where, args
}

// Repository defines the storage interface for BiriVibe data.
// This interface allows swapping implementations (e.g., for testing).
type Repository interface {
	// Users
	EnsureUser(ctx context.Context, email, name string) (*models.User, error)
	CreateUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)

	// Habits
	CreateHabit(ctx context.Context, h *models.Habit) error
	GetHabit(ctx context.Context, idOrPrefix string) (*models.Habit, error)
	FindHabitByName(ctx context.Context, userID uuid.UUID, name string) (*models.Habit, error)
	ListHabits(ctx context.Context, userID uuid.UUID, activeOnly bool) ([]*models.Habit, error)
	UpdateHabit(ctx context.Context, h *models.Habit) error
	DeleteHabit(ctx context.Context, idOrPrefix string) error
	LogHabit(ctx context.Context, l *models.HabitLog) (*models.HabitLog, error)
	DeleteHabitLog(ctx context.Context, habitID uuid.UUID, day string) error
	ListHabitLogs(ctx context.Context, habitID uuid.UUID, opts ListOptions) ([]*models.HabitLog, error)
	ListUserHabitLogs(ctx context.Context, userID uuid.UUID, opts ListOptions) ([]*models.HabitLog, error)

	// Routines
	CreateRoutine(ctx context.Context, r *models.Routine) error
	GetRoutine(ctx context.Context, idOrPrefix string) (*models.Routine, error)
	ListRoutines(ctx context.Context, userID uuid.UUID, activeOnly bool) ([]*models.Routine, error)
	UpdateRoutine(ctx context.Context, r *models.Routine) error
	DeactivateRoutine(ctx context.Context, idOrPrefix string) error
	CreateRoutineLog(ctx context.Context, l *models.RoutineLog) error
	GetRoutineLog(ctx context.Context, idOrPrefix string) (*models.RoutineLog, error)
	UpdateRoutineLog(ctx context.Context, l *models.RoutineLog) error
	ListRoutineLogs(ctx context.Context, routineID uuid.UUID, opts ListOptions) ([]*models.RoutineLog, error)

	// Goals
	CreateGoal(ctx context.Context, g *models.Goal) error
	GetGoal(ctx context.Context, idOrPrefix string) (*models.Goal, error)
	ListGoals(ctx context.Context, userID uuid.UUID, status *models.GoalStatus) ([]*models.Goal, error)
	UpdateGoal(ctx context.Context, g *models.Goal) error
	DeleteGoal(ctx context.Context, idOrPrefix string) error

	// Diet
	CreateFoodLog(ctx context.Context, f *models.FoodLog) error
	GetFoodLog(ctx context.Context, idOrPrefix string) (*models.FoodLog, error)
	ListFoodLogs(ctx context.Context, userID uuid.UUID, opts ListOptions) ([]*models.FoodLog, error)
	UpdateFoodLog(ctx context.Context, f *models.FoodLog) error
	DeleteFoodLog(ctx context.Context, idOrPrefix string) error
	SumNutrition(ctx context.Context, userID uuid.UUID, from, to time.Time) (*models.NutritionTotals, error)
	GetActiveNutritionGoal(ctx context.Context, userID uuid.UUID) (*models.NutritionGoal, error)
	SetNutritionGoal(ctx context.Context, g *models.NutritionGoal) error
	ListNutritionGoals(ctx context.Context, userID uuid.UUID) ([]*models.NutritionGoal, error)

	// Body and mind logs
	CreateWeightLog(ctx context.Context, w *models.WeightLog) error
	ListWeightLogs(ctx context.Context, userID uuid.UUID, opts ListOptions) ([]*models.WeightLog, error)
	GetLatestWeight(ctx context.Context, userID uuid.UUID) (*models.WeightLog, error)
	DeleteWeightLog(ctx context.Context, idOrPrefix string) error
	CreateSleepLog(ctx context.Context, s *models.SleepLog) error
	ListSleepLogs(ctx context.Context, userID uuid.UUID, opts ListOptions) ([]*models.SleepLog, error)
	DeleteSleepLog(ctx context.Context, idOrPrefix string) error
	CreateMoodLog(ctx context.Context, m *models.MoodLog) error
	ListMoodLogs(ctx context.Context, userID uuid.UUID, opts ListOptions) ([]*models.MoodLog, error)
	DeleteMoodLog(ctx context.Context, idOrPrefix string) error

	// Finance
	CreateTransaction(ctx context.Context, t *models.Transaction) error
	GetTransaction(ctx context.Context, idOrPrefix string) (*models.Transaction, error)
	ListTransactions(ctx context.Context, userID uuid.UUID, kind *models.TransactionKind, opts ListOptions) ([]*models.Transaction, error)
	UpdateTransaction(ctx context.Context, t *models.Transaction) error
	DeleteTransaction(ctx context.Context, idOrPrefix string) error
	SummarizeTransactions(ctx context.Context, userID uuid.UUID, opts ListOptions) (*models.FinanceSummary, error)

	// Workouts
	CreateWorkout(ctx context.Context, w *models.Workout) error
	GetWorkout(ctx context.Context, idOrPrefix string) (*models.Workout, error)
	ListWorkouts(ctx context.Context, userID uuid.UUID, workoutType *string, opts ListOptions) ([]*models.Workout, error)
	DeleteWorkout(ctx context.Context, idOrPrefix string) error
	AddExercise(ctx context.Context, e *models.Exercise) error
	ListExercises(ctx context.Context, workoutID uuid.UUID) ([]*models.Exercise, error)
	DeleteExercise(ctx context.Context, workoutID uuid.UUID, idOrPrefix string) error

	// Rituals
	CreateRitual(ctx context.Context, r *models.Ritual) error
	GetRitual(ctx context.Context, idOrPrefix string) (*models.Ritual, error)
	ListRituals(ctx context.Context, userID uuid.UUID) ([]*models.Ritual, error)
	UpdateRitual(ctx context.Context, r *models.Ritual) error
	DeleteRitual(ctx context.Context, idOrPrefix string) error
	CompleteRitual(ctx context.Context, idOrPrefix string, at time.Time) (*models.Ritual, error)

	// Contexts
	CreateContext(ctx context.Context, c *models.Context) error
	GetContext(ctx context.Context, idOrPrefix string) (*models.Context, error)
	ListContexts(ctx context.Context, userID uuid.UUID) ([]*models.Context, error)
	UpdateContext(ctx context.Context, c *models.Context) error
	DeleteContext(ctx context.Context, idOrPrefix string) error

	// Automations
	CreateAutomation(ctx context.Context, a *models.Automation) error
	GetAutomation(ctx context.Context, idOrPrefix string) (*models.Automation, error)
	ListAutomations(ctx context.Context, userID uuid.UUID) ([]*models.Automation, error)
	UpdateAutomation(ctx context.Context, a *models.Automation) error
	DeleteAutomation(ctx context.Context, idOrPrefix string) error
	MarkAutomationRun(ctx context.Context, idOrPrefix string, at time.Time) (*models.Automation, error)

	// Export/Import
	GetAllData(ctx context.Context) (*ExportData, error)
	ImportData(ctx context.Context, data *ExportData) error

	// Lifecycle
	Ping(ctx context.Context) error
	Close() error
}

var _ Repository = (*DB)(nil)
