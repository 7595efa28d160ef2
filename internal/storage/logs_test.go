// ABOUTME: Tests for weight, sleep, mood, finance, workout, ritual,
// ABOUTME: context and automation storage.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/birivibe/birivibe/internal/models"
)

func TestWeightLogs(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	u := setupTestUser(t, db)

	for i, kg := range []float64{82.0, 81.5, 81.2} {
		w := models.NewWeightLog(u.ID, kg).WithRecordedAt(at(i+1, 7))
		if err := db.CreateWeightLog(ctx, w); err != nil {
			t.Fatalf("CreateWeightLog failed: %v", err)
		}
	}

	latest, err := db.GetLatestWeight(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetLatestWeight failed: %v", err)
	}
	if latest.WeightKg != 81.2 {
		t.Errorf("WeightKg = %v, want 81.2", latest.WeightKg)
	}

	logs, _ := db.ListWeightLogs(ctx, u.ID, Since(at(2, 0)))
	if len(logs) != 2 {
		t.Errorf("Expected 2 logs since day 2, got %d", len(logs))
	}

	if err := db.DeleteWeightLog(ctx, latest.ID.String()[:8]); err != nil {
		t.Fatalf("DeleteWeightLog failed: %v", err)
	}
	latest, _ = db.GetLatestWeight(ctx, u.ID)
	if latest.WeightKg != 81.5 {
		t.Errorf("WeightKg after delete = %v, want 81.5", latest.WeightKg)
	}
}

func TestGetLatestWeightNotFound(t *testing.T) {
	db := setupTestDB(t)
	u := setupTestUser(t, db)
	if _, err := db.GetLatestWeight(context.Background(), u.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestSleepLogDurationWraps(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	u := setupTestUser(t, db)

	s := models.NewSleepLog(u.ID, at(5, 23), at(5, 7)).WithQuality(8)
	if err := db.CreateSleepLog(ctx, s); err != nil {
		t.Fatalf("CreateSleepLog failed: %v", err)
	}

	logs, err := db.ListSleepLogs(ctx, u.ID, ListOptions{})
	if err != nil {
		t.Fatalf("ListSleepLogs failed: %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("Expected 1 sleep log, got %d", len(logs))
	}
	if logs[0].DurationHours != 8 {
		t.Errorf("DurationHours = %v, want 8", logs[0].DurationHours)
	}
	if !logs[0].WakeTime.Equal(at(6, 7)) {
		t.Errorf("WakeTime = %v, want next morning", logs[0].WakeTime)
	}
	if logs[0].Quality == nil || *logs[0].Quality != 8 {
		t.Error("expected quality 8")
	}

	if err := db.DeleteSleepLog(ctx, s.ID.String()); err != nil {
		t.Fatalf("DeleteSleepLog failed: %v", err)
	}
}

func TestSleepLogRejectsLongSpan(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	u := setupTestUser(t, db)

	s := models.NewSleepLog(u.ID, at(5, 23), at(6, 7))
	s.WakeTime = at(7, 7)
	if err := db.CreateSleepLog(ctx, s); !errors.Is(err, models.ErrSleepSpan) {
		t.Fatalf("expected ErrSleepSpan, got %v", err)
	}

	logs, err := db.ListSleepLogs(ctx, u.ID, ListOptions{})
	if err != nil {
		t.Fatalf("ListSleepLogs failed: %v", err)
	}
	if len(logs) != 0 {
		t.Errorf("expected no sleep logs, got %d", len(logs))
	}
}

func TestMoodLogTags(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	u := setupTestUser(t, db)

	m := models.NewMoodLog(u.ID, 7).WithEnergy(6)
	m.Tags = []string{"work", "sunny"}
	if err := db.CreateMoodLog(ctx, m); err != nil {
		t.Fatalf("CreateMoodLog failed: %v", err)
	}
	bare := models.NewMoodLog(u.ID, 4)
	if err := db.CreateMoodLog(ctx, bare); err != nil {
		t.Fatalf("CreateMoodLog failed: %v", err)
	}

	logs, err := db.ListMoodLogs(ctx, u.ID, ListOptions{})
	if err != nil {
		t.Fatalf("ListMoodLogs failed: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("Expected 2 mood logs, got %d", len(logs))
	}
	var tagged *models.MoodLog
	for _, l := range logs {
		if l.ID == m.ID {
			tagged = l
		}
	}
	if tagged == nil || len(tagged.Tags) != 2 || tagged.Tags[1] != "sunny" {
		t.Errorf("unexpected tags: %+v", tagged)
	}
	if tagged.Energy == nil || *tagged.Energy != 6 {
		t.Error("expected energy 6")
	}

	if err := db.DeleteMoodLog(ctx, bare.ID.String()); err != nil {
		t.Fatalf("DeleteMoodLog failed: %v", err)
	}
}

func TestTransactionsAndSummary(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	u := setupTestUser(t, db)

	txns := []*models.Transaction{
		models.NewTransaction(u.ID, models.KindIncome, 3000, "salary"),
		models.NewTransaction(u.ID, models.KindExpense, 50, "food"),
		models.NewTransaction(u.ID, models.KindExpense, 25.5, "food"),
		models.NewTransaction(u.ID, models.KindExpense, 100, "transport"),
	}
	for i, txn := range txns {
		txn.OccurredAt = at(i+1, 12)
		if err := db.CreateTransaction(ctx, txn); err != nil {
			t.Fatalf("CreateTransaction failed: %v", err)
		}
	}

	summary, err := db.SummarizeTransactions(ctx, u.ID, ListOptions{})
	if err != nil {
		t.Fatalf("SummarizeTransactions failed: %v", err)
	}
	if summary.Income != 3000 || summary.Expense != 175.5 || summary.Net != 2824.5 {
		t.Errorf("unexpected summary: %+v", summary)
	}
	if summary.ByCategory["food"] != 75.5 {
		t.Errorf("food = %v, want 75.5", summary.ByCategory["food"])
	}

	expense := models.KindExpense
	expenses, _ := db.ListTransactions(ctx, u.ID, &expense, ListOptions{})
	if len(expenses) != 3 {
		t.Errorf("Expected 3 expenses, got %d", len(expenses))
	}

	txns[1].Amount = 60
	if err := db.UpdateTransaction(ctx, txns[1]); err != nil {
		t.Fatalf("UpdateTransaction failed: %v", err)
	}
	got, _ := db.GetTransaction(ctx, txns[1].ID.String())
	if got.Amount != 60 {
		t.Errorf("Amount = %v, want 60", got.Amount)
	}

	if err := db.DeleteTransaction(ctx, txns[0].ID.String()); err != nil {
		t.Fatalf("DeleteTransaction failed: %v", err)
	}
	summary, _ = db.SummarizeTransactions(ctx, u.ID, Since(at(2, 0)))
	if summary.Income != 0 || summary.Expense != 185.5 {
		t.Errorf("unexpected summary after delete: %+v", summary)
	}
}

func TestWorkoutWithExercises(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	u := setupTestUser(t, db)

	w := models.NewWorkout(u.ID, "Strength").WithDuration(45).WithStartedAt(at(8, 18))
	w.Exercises = []models.Exercise{
		*models.NewExercise(w.ID, "Squat").WithSetsReps(5, 5, 100),
	}
	if err := db.CreateWorkout(ctx, w); err != nil {
		t.Fatalf("CreateWorkout failed: %v", err)
	}

	e := models.NewExercise(w.ID, "Bench").WithSetsReps(3, 8, 70)
	if err := db.AddExercise(ctx, e); err != nil {
		t.Fatalf("AddExercise failed: %v", err)
	}
	if e.Position != 1 {
		t.Errorf("Position = %d, want 1", e.Position)
	}

	got, err := db.GetWorkout(ctx, w.ID.String()[:8])
	if err != nil {
		t.Fatalf("GetWorkout failed: %v", err)
	}
	if len(got.Exercises) != 2 || got.Exercises[1].Name != "Bench" {
		t.Fatalf("unexpected exercises: %+v", got.Exercises)
	}
	if got.DurationMinutes == nil || *got.DurationMinutes != 45 {
		t.Error("expected duration 45")
	}

	strength := "strength"
	filtered, _ := db.ListWorkouts(ctx, u.ID, &strength, ListOptions{})
	if len(filtered) != 1 {
		t.Errorf("Expected case-insensitive type filter to match, got %d", len(filtered))
	}

	if err := db.DeleteExercise(ctx, w.ID, e.ID.String()); err != nil {
		t.Fatalf("DeleteExercise failed: %v", err)
	}

	if err := db.DeleteWorkout(ctx, w.ID.String()); err != nil {
		t.Fatalf("DeleteWorkout failed: %v", err)
	}
	remaining, _ := db.ListExercises(ctx, w.ID)
	if len(remaining) != 0 {
		t.Errorf("Expected exercises to cascade, got %d", len(remaining))
	}
}

func TestAddExerciseMissingWorkout(t *testing.T) {
	db := setupTestDB(t)
	e := models.NewExercise(models.NewWorkout(setupTestUser(t, db).ID, "run").ID, "Sprint")
	if err := db.AddExercise(context.Background(), e); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestCompleteRitual(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	u := setupTestUser(t, db)

	r := models.NewRitual(u.ID, "Monthly finances", models.RitualMonthly)
	r.Checklist = []string{"Reconcile accounts", "Review budget"}
	if err := db.CreateRitual(ctx, r); err != nil {
		t.Fatalf("CreateRitual failed: %v", err)
	}

	done, err := db.CompleteRitual(ctx, r.ID.String()[:8], at(15, 10))
	if err != nil {
		t.Fatalf("CompleteRitual failed: %v", err)
	}
	want := at(15, 10).AddDate(0, 1, 0)
	if !done.NextDueAt.Equal(want) {
		t.Errorf("NextDueAt = %v, want %v", done.NextDueAt, want)
	}

	got, _ := db.GetRitual(ctx, r.ID.String())
	if got.LastCompletedAt == nil || !got.LastCompletedAt.Equal(at(15, 10)) {
		t.Errorf("LastCompletedAt = %v", got.LastCompletedAt)
	}
	if len(got.Checklist) != 2 {
		t.Errorf("Expected 2 checklist items, got %d", len(got.Checklist))
	}

	got.Name = "Money review"
	if err := db.UpdateRitual(ctx, got); err != nil {
		t.Fatalf("UpdateRitual failed: %v", err)
	}
	list, _ := db.ListRituals(ctx, u.ID)
	if len(list) != 1 || list[0].Name != "Money review" {
		t.Errorf("unexpected rituals: %+v", list)
	}
	if err := db.DeleteRitual(ctx, r.ID.String()); err != nil {
		t.Fatalf("DeleteRitual failed: %v", err)
	}
}

func TestContextsAndAutomations(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	u := setupTestUser(t, db)

	c := models.NewContext(u.ID, "Home")
	if err := db.CreateContext(ctx, c); err != nil {
		t.Fatalf("CreateContext failed: %v", err)
	}
	c.Color = "#00ff00"
	if err := db.UpdateContext(ctx, c); err != nil {
		t.Fatalf("UpdateContext failed: %v", err)
	}
	contexts, _ := db.ListContexts(ctx, u.ID)
	if len(contexts) != 1 || contexts[0].Color != "#00ff00" {
		t.Errorf("unexpected contexts: %+v", contexts)
	}

	a := models.NewAutomation(u.ID, "Evening nudge", "time", "notify")
	a.TriggerConfig = json.RawMessage(`{"at":"21:00"}`)
	if err := db.CreateAutomation(ctx, a); err != nil {
		t.Fatalf("CreateAutomation failed: %v", err)
	}

	ran, err := db.MarkAutomationRun(ctx, a.ID.String()[:8], at(9, 21))
	if err != nil {
		t.Fatalf("MarkAutomationRun failed: %v", err)
	}
	if ran.LastRunAt == nil || !ran.LastRunAt.Equal(at(9, 21)) {
		t.Errorf("LastRunAt = %v", ran.LastRunAt)
	}
	if string(ran.TriggerConfig) != `{"at":"21:00"}` {
		t.Errorf("TriggerConfig = %s", ran.TriggerConfig)
	}

	a.IsActive = false
	if err := db.UpdateAutomation(ctx, a); err != nil {
		t.Fatalf("UpdateAutomation failed: %v", err)
	}
	if err := db.DeleteAutomation(ctx, a.ID.String()); err != nil {
		t.Fatalf("DeleteAutomation failed: %v", err)
	}
	if err := db.DeleteContext(ctx, c.ID.String()); err != nil {
		t.Fatalf("DeleteContext failed: %v", err)
	}
}
