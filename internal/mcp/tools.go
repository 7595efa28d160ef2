// ABOUTME: MCP tool implementations for BiriVibe.
// ABOUTME: Logging tools for habits, food, body, mood and money plus the dashboard.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/birivibe/birivibe/internal/models"
	"github.com/birivibe/birivibe/internal/stats"
	"github.com/birivibe/birivibe/internal/storage"
	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "log_habit",
		Description: "Mark a habit done for a day (defaults to today)",
	}, s.handleLogHabit)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_habits",
		Description: "List habits with today's completion and current streak",
	}, s.handleListHabits)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_food",
		Description: "Log a food item with calories and macros",
	}, s.handleAddFood)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "log_weight",
		Description: "Record body weight in kilograms",
	}, s.handleLogWeight)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "log_sleep",
		Description: "Record a night of sleep from bed and wake times",
	}, s.handleLogSleep)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "log_mood",
		Description: "Record a mood check-in on a 1-10 scale",
	}, s.handleLogMood)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_transaction",
		Description: "Record an income or expense",
	}, s.handleAddTransaction)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_dashboard",
		Description: "Get today's dashboard with habit, nutrition, body, mood and finance summaries",
	}, s.handleGetDashboard)

	if s.ingest != nil {
		mcp.AddTool(s.mcpServer, &mcp.Tool{
			Name:        "ingest_text",
			Description: "Turn a free-text note into food, weight, sleep, mood, habit, money and workout entries",
		}, s.handleIngestText)
	}
}

// Tool input/output types

type logHabitInput struct {
	Habit string  `json:"habit" jsonschema:"habit name or ID prefix"`
	Date  string  `json:"date,omitempty" jsonschema:"day as YYYY-MM-DD, defaults to today"`
	Value float64 `json:"value,omitempty" jsonschema:"optional measured value"`
	Notes string  `json:"notes,omitempty" jsonschema:"optional notes"`
}

type habitLogOutput struct {
	ID      string `json:"id"`
	Habit   string `json:"habit"`
	Date    string `json:"date"`
	Streak  int    `json:"streak"`
	Message string `json:"message"`
}

type listHabitsInput struct {
	IncludeInactive bool `json:"include_inactive,omitempty" jsonschema:"include deactivated habits"`
}

type habitSummary struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Frequency      string `json:"frequency"`
	Active         bool   `json:"active"`
	CompletedToday bool   `json:"completed_today"`
	Streak         int    `json:"streak"`
}

type listHabitsOutput struct {
	Habits []habitSummary `json:"habits"`
}

type addFoodInput struct {
	Name     string  `json:"name" jsonschema:"what was eaten"`
	Calories float64 `json:"calories" jsonschema:"energy in kcal"`
	Protein  float64 `json:"protein,omitempty" jsonschema:"protein in grams"`
	Carbs    float64 `json:"carbs,omitempty" jsonschema:"carbohydrates in grams"`
	Fat      float64 `json:"fat,omitempty" jsonschema:"fat in grams"`
	Quantity string  `json:"quantity,omitempty" jsonschema:"portion description"`
	MealType string  `json:"meal_type,omitempty" jsonschema:"breakfast, lunch, dinner or snack; inferred from the time when omitted"`
	EatenAt  string  `json:"eaten_at,omitempty" jsonschema:"timestamp (ISO 8601), defaults to now"`
}

type recordOutput struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

type logWeightInput struct {
	WeightKg   float64 `json:"weight_kg" jsonschema:"body weight in kilograms"`
	BodyFat    float64 `json:"body_fat,omitempty" jsonschema:"body fat percentage"`
	RecordedAt string  `json:"recorded_at,omitempty" jsonschema:"timestamp (ISO 8601), defaults to now"`
	Notes      string  `json:"notes,omitempty" jsonschema:"optional notes"`
}

type logSleepInput struct {
	BedTime  string `json:"bed_time" jsonschema:"when you went to bed (ISO 8601)"`
	WakeTime string `json:"wake_time" jsonschema:"when you woke up (ISO 8601)"`
	Quality  int    `json:"quality,omitempty" jsonschema:"sleep quality 1-10"`
	Notes    string `json:"notes,omitempty" jsonschema:"optional notes"`
}

type logMoodInput struct {
	Mood   int      `json:"mood" jsonschema:"mood 1-10"`
	Energy int      `json:"energy,omitempty" jsonschema:"energy 1-10"`
	Tags   []string `json:"tags,omitempty" jsonschema:"free-form tags"`
	Notes  string   `json:"notes,omitempty" jsonschema:"optional notes"`
}

type addTransactionInput struct {
	Kind        string  `json:"kind" jsonschema:"income or expense"`
	Amount      float64 `json:"amount" jsonschema:"positive amount"`
	Category    string  `json:"category" jsonschema:"category such as groceries or salary"`
	Description string  `json:"description,omitempty" jsonschema:"optional description"`
	OccurredAt  string  `json:"occurred_at,omitempty" jsonschema:"timestamp (ISO 8601), defaults to now"`
}

type getDashboardInput struct {
	Days int `json:"days,omitempty" jsonschema:"window in days for averages (default 7)"`
}

type ingestTextInput struct {
	Text string `json:"text" jsonschema:"free-text note describing what happened"`
}

// Tool handlers

func (s *Server) handleLogHabit(ctx context.Context, req *mcp.CallToolRequest, input logHabitInput) (*mcp.CallToolResult, habitLogOutput, error) {
	u, err := s.user(ctx)
	if err != nil {
		return nil, habitLogOutput{}, err
	}
	h, err := s.findHabit(ctx, u.ID, input.Habit)
	if err != nil {
		return nil, habitLogOutput{}, err
	}

	now := s.now()
	day := stats.DayKey(now)
	if input.Date != "" {
		if _, err := stats.ParseDay(input.Date); err != nil {
			return nil, habitLogOutput{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", input.Date)
		}
		day = input.Date
	}

	l := models.NewHabitLog(h, day)
	if input.Value != 0 {
		l.WithValue(input.Value)
	}
	if input.Notes != "" {
		l.WithNotes(input.Notes)
	}
	if _, err := s.repo.LogHabit(ctx, l); err != nil {
		return nil, habitLogOutput{}, fmt.Errorf("failed to log habit: %w", err)
	}

	done, err := s.completedDays(ctx, u.ID, now)
	if err != nil {
		return nil, habitLogOutput{}, err
	}
	streak := stats.Streak(func(d string) bool { return done[h.ID][d] }, now, stats.DefaultStreakWindow)

	return nil, habitLogOutput{
		ID:      h.ID.String()[:8],
		Habit:   h.Name,
		Date:    day,
		Streak:  streak,
		Message: fmt.Sprintf("Logged %s for %s (streak: %d)", h.Name, day, streak),
	}, nil
}

// findHabit matches a habit by name, then falls back to an ID prefix.
func (s *Server) findHabit(ctx context.Context, userID uuid.UUID, ref string) (*models.Habit, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("habit is required")
	}
	h, err := s.repo.FindHabitByName(ctx, userID, ref)
	if err == nil {
		return h, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("failed to find habit: %w", err)
	}
	h, err = s.repo.GetHabit(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("habit not found: %s", ref)
	}
	return h, nil
}

// completedDays maps each habit to the days it was completed within the
// streak window.
func (s *Server) completedDays(ctx context.Context, userID uuid.UUID, now time.Time) (map[uuid.UUID]map[string]bool, error) {
	since := stats.StartOfDay(now).AddDate(0, 0, -stats.DefaultStreakWindow)
	logs, err := s.repo.ListUserHabitLogs(ctx, userID, storage.Since(since))
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

func (s *Server) handleListHabits(ctx context.Context, req *mcp.CallToolRequest, input listHabitsInput) (*mcp.CallToolResult, listHabitsOutput, error) {
	u, err := s.user(ctx)
	if err != nil {
		return nil, listHabitsOutput{}, err
	}
	habits, err := s.repo.ListHabits(ctx, u.ID, !input.IncludeInactive)
	if err != nil {
		return nil, listHabitsOutput{}, fmt.Errorf("failed to list habits: %w", err)
	}
	now := s.now()
	done, err := s.completedDays(ctx, u.ID, now)
	if err != nil {
		return nil, listHabitsOutput{}, err
	}

	out := listHabitsOutput{Habits: make([]habitSummary, 0, len(habits))}
	for _, h := range habits {
		days := done[h.ID]
		out.Habits = append(out.Habits, habitSummary{
			ID:             h.ID.String()[:8],
			Name:           h.Name,
			Frequency:      string(h.Frequency),
			Active:         h.IsActive,
			CompletedToday: days[stats.DayKey(now)],
			Streak:         stats.Streak(func(d string) bool { return days[d] }, now, stats.DefaultStreakWindow),
		})
	}
	return nil, out, nil
}

func (s *Server) handleAddFood(ctx context.Context, req *mcp.CallToolRequest, input addFoodInput) (*mcp.CallToolResult, recordOutput, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, recordOutput{}, fmt.Errorf("name is required")
	}
	if input.Calories < 0 || input.Protein < 0 || input.Carbs < 0 || input.Fat < 0 {
		return nil, recordOutput{}, fmt.Errorf("calories and macros must not be negative")
	}
	u, err := s.user(ctx)
	if err != nil {
		return nil, recordOutput{}, err
	}
	eatenAt, err := s.parseWhen(input.EatenAt)
	if err != nil {
		return nil, recordOutput{}, err
	}

	f := models.NewFoodLog(u.ID, name, input.Calories).
		WithMacros(input.Protein, input.Carbs, input.Fat).
		WithEatenAt(eatenAt)
	f.Quantity = input.Quantity
	f.MealType = models.MealTypeAt(eatenAt)
	if input.MealType != "" {
		if !models.IsValidMealType(input.MealType) {
			return nil, recordOutput{}, fmt.Errorf("unknown meal type: %s", input.MealType)
		}
		f.MealType = models.MealType(input.MealType)
	}
	if err := s.repo.CreateFoodLog(ctx, f); err != nil {
		return nil, recordOutput{}, fmt.Errorf("failed to add food: %w", err)
	}

	return nil, recordOutput{
		ID:      f.ID.String()[:8],
		Message: fmt.Sprintf("Added %s (%s): %.0f kcal, %.0fg protein", f.Name, f.MealType, f.Calories, f.Protein),
	}, nil
}

func (s *Server) handleLogWeight(ctx context.Context, req *mcp.CallToolRequest, input logWeightInput) (*mcp.CallToolResult, recordOutput, error) {
	if input.WeightKg <= 0 {
		return nil, recordOutput{}, fmt.Errorf("weight_kg must be positive")
	}
	if input.BodyFat < 0 || input.BodyFat > 100 {
		return nil, recordOutput{}, fmt.Errorf("body_fat must be between 0 and 100")
	}
	u, err := s.user(ctx)
	if err != nil {
		return nil, recordOutput{}, err
	}
	at, err := s.parseWhen(input.RecordedAt)
	if err != nil {
		return nil, recordOutput{}, err
	}

	w := models.NewWeightLog(u.ID, input.WeightKg).WithRecordedAt(at)
	if input.BodyFat > 0 {
		w.BodyFat = &input.BodyFat
	}
	if input.Notes != "" {
		w.Notes = &input.Notes
	}
	if err := s.repo.CreateWeightLog(ctx, w); err != nil {
		return nil, recordOutput{}, fmt.Errorf("failed to log weight: %w", err)
	}

	return nil, recordOutput{
		ID:      w.ID.String()[:8],
		Message: fmt.Sprintf("Logged weight: %.1f kg", w.WeightKg),
	}, nil
}

func (s *Server) handleLogSleep(ctx context.Context, req *mcp.CallToolRequest, input logSleepInput) (*mcp.CallToolResult, recordOutput, error) {
	if input.BedTime == "" || input.WakeTime == "" {
		return nil, recordOutput{}, fmt.Errorf("bed_time and wake_time are required")
	}
	bed, err := s.parseWhen(input.BedTime)
	if err != nil {
		return nil, recordOutput{}, err
	}
	wake, err := s.parseWhen(input.WakeTime)
	if err != nil {
		return nil, recordOutput{}, err
	}
	if err := models.CheckSleepSpan(bed, wake); err != nil {
		return nil, recordOutput{}, err
	}
	u, err := s.user(ctx)
	if err != nil {
		return nil, recordOutput{}, err
	}

	sl := models.NewSleepLog(u.ID, bed, wake)
	if input.Quality != 0 {
		sl.WithQuality(input.Quality)
	}
	if input.Notes != "" {
		sl.Notes = &input.Notes
	}
	if err := s.repo.CreateSleepLog(ctx, sl); err != nil {
		return nil, recordOutput{}, fmt.Errorf("failed to log sleep: %w", err)
	}

	return nil, recordOutput{
		ID:      sl.ID.String()[:8],
		Message: fmt.Sprintf("Logged sleep: %.1f hours", sl.DurationHours),
	}, nil
}

func (s *Server) handleLogMood(ctx context.Context, req *mcp.CallToolRequest, input logMoodInput) (*mcp.CallToolResult, recordOutput, error) {
	if input.Mood < 1 || input.Mood > 10 {
		return nil, recordOutput{}, fmt.Errorf("mood must be between 1 and 10")
	}
	u, err := s.user(ctx)
	if err != nil {
		return nil, recordOutput{}, err
	}

	m := models.NewMoodLog(u.ID, input.Mood)
	m.RecordedAt = s.now()
	if input.Energy != 0 {
		m.WithEnergy(input.Energy)
	}
	m.Tags = input.Tags
	if input.Notes != "" {
		m.Notes = &input.Notes
	}
	if err := s.repo.CreateMoodLog(ctx, m); err != nil {
		return nil, recordOutput{}, fmt.Errorf("failed to log mood: %w", err)
	}

	return nil, recordOutput{
		ID:      m.ID.String()[:8],
		Message: fmt.Sprintf("Logged mood: %d/10", m.Mood),
	}, nil
}

func (s *Server) handleAddTransaction(ctx context.Context, req *mcp.CallToolRequest, input addTransactionInput) (*mcp.CallToolResult, recordOutput, error) {
	if !models.IsValidTransactionKind(input.Kind) {
		return nil, recordOutput{}, fmt.Errorf("unknown transaction kind: %s", input.Kind)
	}
	if input.Amount <= 0 {
		return nil, recordOutput{}, fmt.Errorf("amount must be positive")
	}
	category := strings.TrimSpace(input.Category)
	if category == "" {
		return nil, recordOutput{}, fmt.Errorf("category is required")
	}
	u, err := s.user(ctx)
	if err != nil {
		return nil, recordOutput{}, err
	}
	at, err := s.parseWhen(input.OccurredAt)
	if err != nil {
		return nil, recordOutput{}, err
	}

	t := models.NewTransaction(u.ID, models.TransactionKind(input.Kind), input.Amount, category)
	t.Description = input.Description
	t.OccurredAt = at
	if err := s.repo.CreateTransaction(ctx, t); err != nil {
		return nil, recordOutput{}, fmt.Errorf("failed to add transaction: %w", err)
	}

	return nil, recordOutput{
		ID:      t.ID.String()[:8],
		Message: fmt.Sprintf("Added %s: %.2f (%s)", t.Kind, t.Amount, t.Category),
	}, nil
}

func (s *Server) handleGetDashboard(ctx context.Context, req *mcp.CallToolRequest, input getDashboardInput) (*mcp.CallToolResult, any, error) {
	if input.Days < 0 {
		return nil, nil, fmt.Errorf("days must not be negative")
	}
	u, err := s.user(ctx)
	if err != nil {
		return nil, nil, err
	}
	d, err := s.dash.Build(ctx, u.ID, s.now(), input.Days)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build dashboard: %w", err)
	}
	return nil, d, nil
}

func (s *Server) handleIngestText(ctx context.Context, req *mcp.CallToolRequest, input ingestTextInput) (*mcp.CallToolResult, any, error) {
	u, err := s.user(ctx)
	if err != nil {
		return nil, nil, err
	}
	res, err := s.ingest.Ingest(ctx, u.ID, input.Text)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to ingest text: %w", err)
	}
	return nil, res, nil
}

// parseWhen accepts RFC3339, "YYYY-MM-DD HH:MM" or a bare day in local
// time. Empty means now.
func (s *Server) parseWhen(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return s.now(), nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02 15:04", v, time.Local); err == nil {
		return t, nil
	}
	if t, err := stats.ParseDay(v); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", v)
}
