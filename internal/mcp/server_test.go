// ABOUTME: Tests for MCP server, tools, and resources.
// ABOUTME: Covers NewServer, tool handlers, and resource handlers.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/birivibe/birivibe/internal/ingest"
	"github.com/birivibe/birivibe/internal/logging"
	"github.com/birivibe/birivibe/internal/models"
	"github.com/birivibe/birivibe/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var testNow = time.Date(2026, 1, 10, 12, 0, 0, 0, time.Local)

type stubModel struct {
	reply string
}

func (m *stubModel) Generate(context.Context, string) (string, error) {
	return m.reply, nil
}

// setupTestDB creates a test database in a temp directory.
func setupTestDB(t *testing.T) *storage.DB {
	t.Helper()

	db, err := storage.Open(filepath.Join(t.TempDir(), "birivibe.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func setupServer(t *testing.T, model *stubModel) (*Server, *storage.DB) {
	t.Helper()

	db := setupTestDB(t)
	var server *Server
	var err error
	if model != nil {
		server, err = NewServer(db, model, logging.Discard(), Options{UserEmail: "me@example.com", UserName: "Me"})
	} else {
		server, err = NewServer(db, nil, logging.Discard(), Options{UserEmail: "me@example.com", UserName: "Me"})
	}
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	server.now = func() time.Time { return testNow }
	return server, db
}

func testUser(t *testing.T, db *storage.DB) *models.User {
	t.Helper()
	u, err := db.EnsureUser(context.Background(), "me@example.com", "Me")
	if err != nil {
		t.Fatalf("EnsureUser failed: %v", err)
	}
	return u
}

func TestNewServer(t *testing.T) {
	server, _ := setupServer(t, nil)

	if server.mcpServer == nil {
		t.Error("Expected non-nil mcpServer")
	}
	if server.repo == nil {
		t.Error("Expected non-nil repo")
	}
	if server.ingest != nil {
		t.Error("Expected no ingest service without a model")
	}

	if _, err := NewServer(setupTestDB(t), nil, logging.Discard(), Options{}); err == nil {
		t.Error("Expected error without a user email")
	}
}

func TestNewServerWithModel(t *testing.T) {
	server, _ := setupServer(t, &stubModel{})
	if server.ingest == nil {
		t.Error("Expected ingest service with a model")
	}
}

func TestHandleLogHabit(t *testing.T) {
	server, db := setupServer(t, nil)
	ctx := context.Background()
	h := models.NewHabit(testUser(t, db).ID, "Meditate")
	if err := db.CreateHabit(ctx, h); err != nil {
		t.Fatalf("CreateHabit failed: %v", err)
	}

	tests := []struct {
		name       string
		input      logHabitInput
		wantDate   string
		wantStreak int
		wantErr    string
	}{
		{"yesterday by name", logHabitInput{Habit: "meditate", Date: "2026-01-09"}, "2026-01-09", 1, ""},
		{"today by id prefix", logHabitInput{Habit: h.ID.String()[:8]}, "2026-01-10", 2, ""},
		{"unknown habit", logHabitInput{Habit: "juggle"}, "", 0, "habit not found"},
		{"empty habit", logHabitInput{}, "", 0, "habit is required"},
		{"bad date", logHabitInput{Habit: "Meditate", Date: "01/09/2026"}, "", 0, "invalid date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, output, err := server.handleLogHabit(ctx, &mcp.CallToolRequest{}, tt.input)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("error = %v, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if output.Date != tt.wantDate {
				t.Errorf("Date = %s, want %s", output.Date, tt.wantDate)
			}
			if output.Streak != tt.wantStreak {
				t.Errorf("Streak = %d, want %d", output.Streak, tt.wantStreak)
			}
			if output.Habit != "Meditate" {
				t.Errorf("Habit = %s, want Meditate", output.Habit)
			}
		})
	}
}

func TestHandleListHabits(t *testing.T) {
	server, db := setupServer(t, nil)
	ctx := context.Background()
	u := testUser(t, db)

	read := models.NewHabit(u.ID, "Read")
	old := models.NewHabit(u.ID, "Old")
	old.IsActive = false
	for _, h := range []*models.Habit{read, old} {
		if err := db.CreateHabit(ctx, h); err != nil {
			t.Fatalf("CreateHabit failed: %v", err)
		}
	}
	if _, err := db.LogHabit(ctx, models.NewHabitLog(read, "2026-01-10")); err != nil {
		t.Fatalf("LogHabit failed: %v", err)
	}

	_, output, err := server.handleListHabits(ctx, &mcp.CallToolRequest{}, listHabitsInput{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(output.Habits) != 1 {
		t.Fatalf("got %d habits, want 1", len(output.Habits))
	}
	if !output.Habits[0].CompletedToday || output.Habits[0].Streak != 1 {
		t.Errorf("got %+v, want completed today with streak 1", output.Habits[0])
	}

	_, output, err = server.handleListHabits(ctx, &mcp.CallToolRequest{}, listHabitsInput{IncludeInactive: true})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(output.Habits) != 2 {
		t.Errorf("got %d habits, want 2", len(output.Habits))
	}
}

func TestHandleAddFood(t *testing.T) {
	server, db := setupServer(t, nil)
	ctx := context.Background()

	tests := []struct {
		name     string
		input    addFoodInput
		wantMeal models.MealType
		wantErr  bool
	}{
		{"meal inferred from now", addFoodInput{Name: "salad", Calories: 350, Protein: 12}, models.MealLunch, false},
		{"explicit meal", addFoodInput{Name: "toast", Calories: 200, MealType: "breakfast"}, models.MealBreakfast, false},
		{"evening timestamp", addFoodInput{Name: "pasta", Calories: 700, EatenAt: "2026-01-10 19:30"}, models.MealDinner, false},
		{"missing name", addFoodInput{Calories: 100}, "", true},
		{"negative calories", addFoodInput{Name: "x", Calories: -1}, "", true},
		{"bad meal", addFoodInput{Name: "x", MealType: "brunch"}, "", true},
		{"bad timestamp", addFoodInput{Name: "x", EatenAt: "yesterday"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, output, err := server.handleAddFood(ctx, &mcp.CallToolRequest{}, tt.input)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			f, err := db.GetFoodLog(ctx, output.ID)
			if err != nil {
				t.Fatalf("GetFoodLog failed: %v", err)
			}
			if f.MealType != tt.wantMeal {
				t.Errorf("MealType = %s, want %s", f.MealType, tt.wantMeal)
			}
			if f.Source != models.SourceManual {
				t.Errorf("Source = %s, want manual", f.Source)
			}
		})
	}
}

func TestHandleBodyAndMoodTools(t *testing.T) {
	server, db := setupServer(t, nil)
	ctx := context.Background()
	u := testUser(t, db)

	if _, _, err := server.handleLogWeight(ctx, &mcp.CallToolRequest{}, logWeightInput{WeightKg: 80.5, BodyFat: 20}); err != nil {
		t.Fatalf("log weight: %v", err)
	}
	if _, _, err := server.handleLogWeight(ctx, &mcp.CallToolRequest{}, logWeightInput{WeightKg: -1}); err == nil {
		t.Error("Expected error for negative weight")
	}

	_, out, err := server.handleLogSleep(ctx, &mcp.CallToolRequest{}, logSleepInput{
		BedTime: "2026-01-09 23:00", WakeTime: "2026-01-10 06:30", Quality: 8,
	})
	if err != nil {
		t.Fatalf("log sleep: %v", err)
	}
	if !strings.Contains(out.Message, "7.5 hours") {
		t.Errorf("Message = %q, want 7.5 hours", out.Message)
	}
	if _, _, err := server.handleLogSleep(ctx, &mcp.CallToolRequest{}, logSleepInput{BedTime: "2026-01-09 23:00"}); err == nil {
		t.Error("Expected error without wake time")
	}
	if _, _, err := server.handleLogSleep(ctx, &mcp.CallToolRequest{}, logSleepInput{
		BedTime: "2026-01-09 23:00", WakeTime: "2026-01-07 07:00",
	}); !errors.Is(err, models.ErrSleepSpan) {
		t.Errorf("Expected ErrSleepSpan, got %v", err)
	}

	if _, _, err := server.handleLogMood(ctx, &mcp.CallToolRequest{}, logMoodInput{Mood: 7, Energy: 6, Tags: []string{"calm"}}); err != nil {
		t.Fatalf("log mood: %v", err)
	}
	if _, _, err := server.handleLogMood(ctx, &mcp.CallToolRequest{}, logMoodInput{Mood: 0}); err == nil {
		t.Error("Expected error for mood 0")
	}

	weights, err := db.ListWeightLogs(ctx, u.ID, storage.ListOptions{})
	if err != nil || len(weights) != 1 {
		t.Fatalf("weights = %d, err = %v; want 1", len(weights), err)
	}
	if weights[0].BodyFat == nil || *weights[0].BodyFat != 20 {
		t.Errorf("BodyFat = %v, want 20", weights[0].BodyFat)
	}
	moods, err := db.ListMoodLogs(ctx, u.ID, storage.ListOptions{})
	if err != nil || len(moods) != 1 {
		t.Fatalf("moods = %d, err = %v; want 1", len(moods), err)
	}
	if moods[0].Energy == nil || *moods[0].Energy != 6 {
		t.Errorf("Energy = %v, want 6", moods[0].Energy)
	}
}

func TestHandleAddTransaction(t *testing.T) {
	server, db := setupServer(t, nil)
	ctx := context.Background()

	tests := []struct {
		name    string
		input   addTransactionInput
		wantErr bool
	}{
		{"expense", addTransactionInput{Kind: "expense", Amount: 12.5, Category: "coffee"}, false},
		{"income", addTransactionInput{Kind: "income", Amount: 1000, Category: "salary", OccurredAt: "2026-01-01"}, false},
		{"bad kind", addTransactionInput{Kind: "gift", Amount: 1, Category: "x"}, true},
		{"zero amount", addTransactionInput{Kind: "expense", Category: "x"}, true},
		{"no category", addTransactionInput{Kind: "expense", Amount: 1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := server.handleAddTransaction(ctx, &mcp.CallToolRequest{}, tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	summary, err := db.SummarizeTransactions(ctx, testUser(t, db).ID, storage.ListOptions{})
	if err != nil {
		t.Fatalf("SummarizeTransactions failed: %v", err)
	}
	if summary.Net != 987.5 {
		t.Errorf("Net = %v, want 987.5", summary.Net)
	}
}

func TestHandleGetDashboard(t *testing.T) {
	server, db := setupServer(t, nil)
	ctx := context.Background()
	u := testUser(t, db)

	f := models.NewFoodLog(u.ID, "rice", 500).WithEatenAt(testNow)
	if err := db.CreateFoodLog(ctx, f); err != nil {
		t.Fatalf("CreateFoodLog failed: %v", err)
	}

	_, out, err := server.handleGetDashboard(ctx, &mcp.CallToolRequest{}, getDashboardInput{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	raw, err := json.Marshal(out)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var d struct {
		Date      string `json:"date"`
		Nutrition struct {
			CaloriesPercent float64 `json:"calories_percent"`
		} `json:"nutrition"`
	}
	if err := json.Unmarshal(raw, &d); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if d.Date != "2026-01-10" {
		t.Errorf("Date = %s, want 2026-01-10", d.Date)
	}
	if d.Nutrition.CaloriesPercent != 25 {
		t.Errorf("CaloriesPercent = %v, want 25", d.Nutrition.CaloriesPercent)
	}

	if _, _, err := server.handleGetDashboard(ctx, &mcp.CallToolRequest{}, getDashboardInput{Days: -1}); err == nil {
		t.Error("Expected error for negative days")
	}
}

func TestHandleIngestText(t *testing.T) {
	model := &stubModel{reply: `{"entries":[{"type":"mood","mood":6},{"type":"weight","weight_kg":79}]}`}
	server, db := setupServer(t, model)
	ctx := context.Background()

	_, out, err := server.handleIngestText(ctx, &mcp.CallToolRequest{}, ingestTextInput{Text: "feeling ok, 79kg"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	res, ok := out.(*ingest.Result)
	if !ok {
		t.Fatalf("output type = %T, want *ingest.Result", out)
	}
	if len(res.Created) != 2 || len(res.Skipped) != 0 {
		t.Errorf("created %d skipped %d, want 2 and 0", len(res.Created), len(res.Skipped))
	}

	latest, err := db.GetLatestWeight(ctx, testUser(t, db).ID)
	if err != nil {
		t.Fatalf("GetLatestWeight failed: %v", err)
	}
	if latest.WeightKg != 79 {
		t.Errorf("WeightKg = %v, want 79", latest.WeightKg)
	}
}

func TestHandleTodayResource(t *testing.T) {
	server, db := setupServer(t, nil)
	ctx := context.Background()
	u := testUser(t, db)

	h := models.NewHabit(u.ID, "Stretch")
	if err := db.CreateHabit(ctx, h); err != nil {
		t.Fatalf("CreateHabit failed: %v", err)
	}
	if _, err := db.LogHabit(ctx, models.NewHabitLog(h, "2026-01-10")); err != nil {
		t.Fatalf("LogHabit failed: %v", err)
	}
	today := models.NewFoodLog(u.ID, "apple", 95).WithEatenAt(testNow)
	yesterday := models.NewFoodLog(u.ID, "pizza", 900).WithEatenAt(testNow.AddDate(0, 0, -1))
	for _, f := range []*models.FoodLog{today, yesterday} {
		if err := db.CreateFoodLog(ctx, f); err != nil {
			t.Fatalf("CreateFoodLog failed: %v", err)
		}
	}

	result, err := server.handleTodayResource(ctx, &mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(result.Contents) != 1 {
		t.Fatalf("got %d contents, want 1", len(result.Contents))
	}
	c := result.Contents[0]
	if c.URI != "birivibe://today" {
		t.Errorf("URI = %s, want birivibe://today", c.URI)
	}
	if c.MIMEType != "application/json" {
		t.Errorf("MIMEType = %s, want application/json", c.MIMEType)
	}

	var data todayData
	if err := json.Unmarshal([]byte(c.Text), &data); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(data.Food) != 1 || data.Food[0].Name != "apple" {
		t.Errorf("Food = %+v, want only apple", data.Food)
	}
	if data.Nutrition == nil || data.Nutrition.Calories != 95 {
		t.Errorf("Nutrition = %+v, want 95 kcal", data.Nutrition)
	}
	if len(data.HabitsDone) != 1 || data.HabitsDone[0] != "Stretch" {
		t.Errorf("HabitsDone = %v, want [Stretch]", data.HabitsDone)
	}
}

func TestHandleDashboardResource(t *testing.T) {
	server, _ := setupServer(t, nil)

	result, err := server.handleDashboardResource(context.Background(), &mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Contents[0].URI != "birivibe://dashboard" {
		t.Errorf("URI = %s, want birivibe://dashboard", result.Contents[0].URI)
	}
	if !strings.Contains(result.Contents[0].Text, `"nutrition"`) {
		t.Error("Expected nutrition section in dashboard")
	}
}

func TestParseWhen(t *testing.T) {
	server, _ := setupServer(t, nil)

	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{"", testNow, false},
		{"2026-01-09T08:00:00Z", time.Date(2026, 1, 9, 8, 0, 0, 0, time.UTC), false},
		{"2026-01-09 08:15", time.Date(2026, 1, 9, 8, 15, 0, 0, time.Local), false},
		{"2026-01-09", time.Date(2026, 1, 9, 0, 0, 0, 0, time.Local), false},
		{"last tuesday", time.Time{}, true},
	}
	for _, tt := range tests {
		got, err := server.parseWhen(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseWhen(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("parseWhen(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
