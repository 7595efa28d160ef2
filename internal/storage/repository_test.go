// ABOUTME: Tests for Repository implementations of users, habits, routines and goals.
// ABOUTME: Verifies CRUD operations, prefix resolution and cascades using SQLite.
package storage

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/birivibe/birivibe/internal/models"
	"github.com/google/uuid"
)

func TestEnsureUserIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	u1, err := db.EnsureUser(ctx, "me@example.com", "Me")
	if err != nil {
		t.Fatalf("EnsureUser failed: %v", err)
	}
	u2, err := db.EnsureUser(ctx, "me@example.com", "Someone Else")
	if err != nil {
		t.Fatalf("EnsureUser failed: %v", err)
	}
	if u1.ID != u2.ID {
		t.Errorf("expected same user, got %v and %v", u1.ID, u2.ID)
	}
	if u2.Name != "Me" {
		t.Errorf("Name = %q, want original name", u2.Name)
	}

	users, err := db.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers failed: %v", err)
	}
	if len(users) != 1 {
		t.Errorf("Expected 1 user, got %d", len(users))
	}
}

func TestCreateAndListHabit(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	u := setupTestUser(t, db)

	h := models.NewHabit(u.ID, "Read").WithDescription("20 pages")
	if err := db.CreateHabit(ctx, h); err != nil {
		t.Fatalf("CreateHabit failed: %v", err)
	}

	habits, err := db.ListHabits(ctx, u.ID, true)
	if err != nil {
		t.Fatalf("ListHabits failed: %v", err)
	}
	if len(habits) != 1 {
		t.Fatalf("Expected exactly 1 habit, got %d", len(habits))
	}
	if habits[0].ID != h.ID || habits[0].Description != "20 pages" || !habits[0].IsActive {
		t.Errorf("unexpected habit: %+v", habits[0])
	}

	// Retrieve by 8-char prefix
	got, err := db.GetHabit(ctx, h.ID.String()[:8])
	if err != nil {
		t.Fatalf("GetHabit by prefix failed: %v", err)
	}
	if got.ID != h.ID {
		t.Errorf("ID mismatch: got %v, want %v", got.ID, h.ID)
	}
}

func TestUpdateHabitAndActiveFilter(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	u := setupTestUser(t, db)

	h := models.NewHabit(u.ID, "Floss")
	if err := db.CreateHabit(ctx, h); err != nil {
		t.Fatalf("CreateHabit failed: %v", err)
	}
	h.IsActive = false
	h.Frequency = models.FrequencyWeekly
	if err := db.UpdateHabit(ctx, h); err != nil {
		t.Fatalf("UpdateHabit failed: %v", err)
	}

	active, _ := db.ListHabits(ctx, u.ID, true)
	if len(active) != 0 {
		t.Errorf("Expected 0 active habits, got %d", len(active))
	}
	all, _ := db.ListHabits(ctx, u.ID, false)
	if len(all) != 1 || all[0].Frequency != models.FrequencyWeekly {
		t.Errorf("unexpected habits: %+v", all)
	}
}

func TestFindHabitByName(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	u := setupTestUser(t, db)

	h := models.NewHabit(u.ID, "Morning Run")
	if err := db.CreateHabit(ctx, h); err != nil {
		t.Fatalf("CreateHabit failed: %v", err)
	}

	got, err := db.FindHabitByName(ctx, u.ID, "  morning run ")
	if err != nil {
		t.Fatalf("FindHabitByName failed: %v", err)
	}
	if got.ID != h.ID {
		t.Errorf("ID mismatch")
	}

	_, err = db.FindHabitByName(ctx, u.ID, "swim")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestLogHabitUpsert(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	u := setupTestUser(t, db)

	h := models.NewHabit(u.ID, "Meditate")
	if err := db.CreateHabit(ctx, h); err != nil {
		t.Fatalf("CreateHabit failed: %v", err)
	}

	first, err := db.LogHabit(ctx, models.NewHabitLog(h, "2026-01-10"))
	if err != nil {
		t.Fatalf("LogHabit failed: %v", err)
	}
	second, err := db.LogHabit(ctx, models.NewHabitLog(h, "2026-01-10").WithNotes("again"))
	if err != nil {
		t.Fatalf("LogHabit failed: %v", err)
	}
	if first.ID != second.ID {
		t.Error("expected upsert to keep the original log ID")
	}
	if second.Notes == nil || *second.Notes != "again" {
		t.Error("expected notes to be updated")
	}

	if _, err := db.LogHabit(ctx, models.NewHabitLog(h, "2026-01-09")); err != nil {
		t.Fatalf("LogHabit failed: %v", err)
	}

	logs, err := db.ListHabitLogs(ctx, h.ID, ListOptions{})
	if err != nil {
		t.Fatalf("ListHabitLogs failed: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("Expected 2 logs, got %d", len(logs))
	}
	if logs[0].Date != "2026-01-10" {
		t.Errorf("Expected newest day first, got %s", logs[0].Date)
	}

	ranged, err := db.ListUserHabitLogs(ctx, u.ID, Between(at(10, 0), at(11, 0)))
	if err != nil {
		t.Fatalf("ListUserHabitLogs failed: %v", err)
	}
	if len(ranged) != 1 {
		t.Errorf("Expected 1 log in range, got %d", len(ranged))
	}

	if err := db.DeleteHabitLog(ctx, h.ID, "2026-01-10"); err != nil {
		t.Fatalf("DeleteHabitLog failed: %v", err)
	}
	if err := db.DeleteHabitLog(ctx, h.ID, "2026-01-10"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound on second delete, got %v", err)
	}
}

func TestDeleteHabitCascadesLogs(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	u := setupTestUser(t, db)

	h := models.NewHabit(u.ID, "Stretch")
	if err := db.CreateHabit(ctx, h); err != nil {
		t.Fatalf("CreateHabit failed: %v", err)
	}
	if _, err := db.LogHabit(ctx, models.NewHabitLog(h, "2026-01-01")); err != nil {
		t.Fatalf("LogHabit failed: %v", err)
	}

	if err := db.DeleteHabit(ctx, h.ID.String()); err != nil {
		t.Fatalf("DeleteHabit failed: %v", err)
	}

	logs, err := db.ListUserHabitLogs(ctx, u.ID, ListOptions{})
	if err != nil {
		t.Fatalf("ListUserHabitLogs failed: %v", err)
	}
	if len(logs) != 0 {
		t.Errorf("Expected logs to cascade, got %d", len(logs))
	}

	_, err = db.GetHabit(ctx, h.ID.String())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestAmbiguousPrefixError(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	u := setupTestUser(t, db)

	h1 := models.NewHabit(u.ID, "one")
	h1.ID = uuid.MustParse("aaaaaaaa-0000-4000-8000-000000000001")
	h2 := models.NewHabit(u.ID, "two")
	h2.ID = uuid.MustParse("aaaaaaaa-1111-4000-8000-000000000002")
	for _, h := range []*models.Habit{h1, h2} {
		if err := db.CreateHabit(ctx, h); err != nil {
			t.Fatalf("CreateHabit failed: %v", err)
		}
	}

	_, err := db.GetHabit(ctx, "aaaa")
	if err == nil || !strings.Contains(err.Error(), "ambiguous prefix") {
		t.Errorf("Expected ambiguous prefix error, got %v", err)
	}

	got, err := db.GetHabit(ctx, "aaaaaaaa-0")
	if err != nil {
		t.Fatalf("GetHabit by longer prefix failed: %v", err)
	}
	if got.ID != h1.ID {
		t.Errorf("ID mismatch: got %v, want %v", got.ID, h1.ID)
	}

	_, err = db.GetHabit(ctx, "ffff")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestPrefixWildcardsDoNotMatch(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	u := setupTestUser(t, db)

	h := models.NewHabit(u.ID, "only")
	h.ID = uuid.MustParse("abcdef01-0000-4000-8000-000000000001")
	if err := db.CreateHabit(ctx, h); err != nil {
		t.Fatalf("CreateHabit failed: %v", err)
	}

	for _, ref := range []string{"%", "_", "a_c", "ab%", "abcdef01-0000-4000-8000-00000000000_", "only"} {
		if _, err := db.GetHabit(ctx, ref); !errors.Is(err, ErrNotFound) {
			t.Errorf("GetHabit(%q): expected ErrNotFound, got %v", ref, err)
		}
	}

	got, err := db.GetHabit(ctx, "ABCDEF01")
	if err != nil {
		t.Fatalf("GetHabit by upper-case prefix failed: %v", err)
	}
	if got.ID != h.ID {
		t.Errorf("ID mismatch: got %v, want %v", got.ID, h.ID)
	}
	if _, err := db.GetHabit(ctx, strings.ToUpper(h.ID.String())); err != nil {
		t.Errorf("GetHabit by upper-case full ID failed: %v", err)
	}
}

func TestUpdateKeepsCallerTimestamp(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	u := setupTestUser(t, db)
	stamp := at(20, 9)

	h := models.NewHabit(u.ID, "Journal")
	if err := db.CreateHabit(ctx, h); err != nil {
		t.Fatalf("CreateHabit failed: %v", err)
	}
	h.UpdatedAt = stamp
	if err := db.UpdateHabit(ctx, h); err != nil {
		t.Fatalf("UpdateHabit failed: %v", err)
	}
	gotHabit, err := db.GetHabit(ctx, h.ID.String())
	if err != nil {
		t.Fatalf("GetHabit failed: %v", err)
	}
	if !gotHabit.UpdatedAt.Equal(stamp) {
		t.Errorf("habit UpdatedAt = %v, want %v", gotHabit.UpdatedAt, stamp)
	}

	g := models.NewGoal(u.ID, "Read 12 books")
	if err := db.CreateGoal(ctx, g); err != nil {
		t.Fatalf("CreateGoal failed: %v", err)
	}
	g.UpdatedAt = stamp
	if err := db.UpdateGoal(ctx, g); err != nil {
		t.Fatalf("UpdateGoal failed: %v", err)
	}
	gotGoal, err := db.GetGoal(ctx, g.ID.String())
	if err != nil {
		t.Fatalf("GetGoal failed: %v", err)
	}
	if !gotGoal.UpdatedAt.Equal(stamp) {
		t.Errorf("goal UpdatedAt = %v, want %v", gotGoal.UpdatedAt, stamp)
	}

	r := models.NewRoutine(u.ID, "Evening").AddStep("Tea", 5)
	if err := db.CreateRoutine(ctx, r); err != nil {
		t.Fatalf("CreateRoutine failed: %v", err)
	}
	r.UpdatedAt = stamp
	if err := db.UpdateRoutine(ctx, r); err != nil {
		t.Fatalf("UpdateRoutine failed: %v", err)
	}
	gotRoutine, err := db.GetRoutine(ctx, r.ID.String())
	if err != nil {
		t.Fatalf("GetRoutine failed: %v", err)
	}
	if !gotRoutine.UpdatedAt.Equal(stamp) {
		t.Errorf("routine UpdatedAt = %v, want %v", gotRoutine.UpdatedAt, stamp)
	}
}

func TestRoutineLifecycle(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	u := setupTestUser(t, db)

	r := models.NewRoutine(u.ID, "Morning").AddStep("Water", 1).AddStep("Stretch", 10)
	if err := db.CreateRoutine(ctx, r); err != nil {
		t.Fatalf("CreateRoutine failed: %v", err)
	}

	got, err := db.GetRoutine(ctx, r.ID.String()[:8])
	if err != nil {
		t.Fatalf("GetRoutine failed: %v", err)
	}
	if len(got.Steps) != 2 || got.Steps[1].Title != "Stretch" {
		t.Fatalf("unexpected steps: %+v", got.Steps)
	}

	got.Steps = []models.RoutineStep{{Title: "Coffee", DurationMinutes: 5}}
	got.Name = "Slow morning"
	if err := db.UpdateRoutine(ctx, got); err != nil {
		t.Fatalf("UpdateRoutine failed: %v", err)
	}
	updated, _ := db.GetRoutine(ctx, r.ID.String())
	if updated.Name != "Slow morning" || len(updated.Steps) != 1 || updated.Steps[0].Title != "Coffee" {
		t.Errorf("unexpected routine after update: %+v", updated)
	}

	if err := db.DeactivateRoutine(ctx, r.ID.String()); err != nil {
		t.Fatalf("DeactivateRoutine failed: %v", err)
	}

	// The row is kept, only marked inactive.
	kept, err := db.GetRoutine(ctx, r.ID.String())
	if err != nil {
		t.Fatalf("GetRoutine after deactivate failed: %v", err)
	}
	if kept.IsActive {
		t.Error("Expected routine to be inactive")
	}
	active, _ := db.ListRoutines(ctx, u.ID, true)
	if len(active) != 0 {
		t.Errorf("Expected 0 active routines, got %d", len(active))
	}
	all, _ := db.ListRoutines(ctx, u.ID, false)
	if len(all) != 1 {
		t.Errorf("Expected 1 routine, got %d", len(all))
	}
}

func TestRoutineLogProgress(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	u := setupTestUser(t, db)

	r := models.NewRoutine(u.ID, "Evening").AddStep("Tidy", 5).AddStep("Read", 20)
	if err := db.CreateRoutine(ctx, r); err != nil {
		t.Fatalf("CreateRoutine failed: %v", err)
	}

	l := models.NewRoutineLog(r)
	if err := db.CreateRoutineLog(ctx, l); err != nil {
		t.Fatalf("CreateRoutineLog failed: %v", err)
	}

	l.CurrentStep = 1
	l.CompletedSteps = 1
	if err := db.UpdateRoutineLog(ctx, l); err != nil {
		t.Fatalf("UpdateRoutineLog failed: %v", err)
	}
	l.Finish(models.RoutineCompleted, at(5, 21))
	if err := db.UpdateRoutineLog(ctx, l); err != nil {
		t.Fatalf("UpdateRoutineLog failed: %v", err)
	}

	got, err := db.GetRoutineLog(ctx, l.ID.String())
	if err != nil {
		t.Fatalf("GetRoutineLog failed: %v", err)
	}
	if got.Status != models.RoutineCompleted || got.CompletedSteps != 2 {
		t.Errorf("unexpected log: %+v", got)
	}
	if got.CompletedAt == nil || !got.CompletedAt.Equal(at(5, 21)) {
		t.Errorf("CompletedAt = %v", got.CompletedAt)
	}

	logs, err := db.ListRoutineLogs(ctx, r.ID, ListOptions{})
	if err != nil {
		t.Fatalf("ListRoutineLogs failed: %v", err)
	}
	if len(logs) != 1 {
		t.Errorf("Expected 1 routine log, got %d", len(logs))
	}
}

func TestGoalTreeAndCascade(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	u := setupTestUser(t, db)

	root := models.NewGoal(u.ID, "Get fit")
	child := models.NewGoal(u.ID, "Run 5k").WithParent(root.ID)
	grandchild := models.NewGoal(u.ID, "Buy shoes").WithParent(child.ID)
	other := models.NewGoal(u.ID, "Save money")
	for _, g := range []*models.Goal{root, child, grandchild, other} {
		if err := db.CreateGoal(ctx, g); err != nil {
			t.Fatalf("CreateGoal failed: %v", err)
		}
	}

	child.Progress = 40
	child.Status = models.GoalInProgress
	if err := db.UpdateGoal(ctx, child); err != nil {
		t.Fatalf("UpdateGoal failed: %v", err)
	}
	got, _ := db.GetGoal(ctx, child.ID.String())
	if got.Progress != 40 || got.ParentID == nil || *got.ParentID != root.ID {
		t.Errorf("unexpected goal: %+v", got)
	}

	inProgress := models.GoalInProgress
	filtered, _ := db.ListGoals(ctx, u.ID, &inProgress)
	if len(filtered) != 1 {
		t.Errorf("Expected 1 in-progress goal, got %d", len(filtered))
	}

	if err := db.DeleteGoal(ctx, root.ID.String()); err != nil {
		t.Fatalf("DeleteGoal failed: %v", err)
	}
	remaining, err := db.ListGoals(ctx, u.ID, nil)
	if err != nil {
		t.Fatalf("ListGoals failed: %v", err)
	}
	if len(remaining) != 1 || remaining[0].ID != other.ID {
		t.Errorf("Expected only the unrelated goal to remain, got %d goals", len(remaining))
	}
}

func TestGetNotFound(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	missing := uuid.New().String()

	tests := []struct {
		name string
		fn   func() error
	}{
		{"habit", func() error { _, err := db.GetHabit(ctx, missing); return err }},
		{"routine", func() error { _, err := db.GetRoutine(ctx, missing); return err }},
		{"goal", func() error { _, err := db.GetGoal(ctx, missing); return err }},
		{"food log", func() error { _, err := db.GetFoodLog(ctx, missing); return err }},
		{"transaction", func() error { _, err := db.GetTransaction(ctx, missing); return err }},
		{"workout", func() error { _, err := db.GetWorkout(ctx, missing); return err }},
		{"ritual", func() error { _, err := db.GetRitual(ctx, missing); return err }},
		{"context", func() error { _, err := db.GetContext(ctx, missing); return err }},
		{"automation", func() error { _, err := db.GetAutomation(ctx, missing); return err }},
		{"delete habit", func() error { return db.DeleteHabit(ctx, missing) }},
		{"delete weight", func() error { return db.DeleteWeightLog(ctx, missing) }},
		{"deactivate routine", func() error { return db.DeactivateRoutine(ctx, missing) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.fn(); !errors.Is(err, ErrNotFound) {
				t.Errorf("Expected ErrNotFound, got %v", err)
			}
		})
	}
}

func TestRebind(t *testing.T) {
	sqlite := &DB{dialect: dialectSQLite}
	pg := &DB{dialect: dialectPostgres}
	q := "SELECT id FROM habits WHERE user_id = ? AND is_active = ? LIMIT ?"

	if got := sqlite.rebind(q); got != q {
		t.Errorf("sqlite rebind changed query: %s", got)
	}
	want := "SELECT id FROM habits WHERE user_id = $1 AND is_active = $2 LIMIT $3"
	if got := pg.rebind(q); got != want {
		t.Errorf("postgres rebind = %s, want %s", got, want)
	}
}

func TestIsPostgresURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"postgres://u:p@localhost/db", true},
		{"postgresql://localhost/db", true},
		{"/var/lib/birivibe.db", false},
		{"file:dev.db", false},
	}
	for _, tt := range tests {
		if got := IsPostgresURL(tt.url); got != tt.want {
			t.Errorf("IsPostgresURL(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}

func TestDBCloseNilDB(t *testing.T) {
	// Test closing a DB bound to a transaction
	d := &DB{db: nil}
	if err := d.Close(); err != nil {
		t.Errorf("Close on nil db should not error: %v", err)
	}
}
