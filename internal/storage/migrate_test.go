// ABOUTME: Tests for data migration between storage backends.
// ABOUTME: Covers sqlite-to-sqlite copies and an optional postgres target.
package storage

import (
	"context"
	"os"
	"testing"
)

func TestMigrateData(t *testing.T) {
	ctx := context.Background()
	src := setupTestDB(t)
	seedExportData(t, src)
	dst := setupTestDB(t)

	summary, err := MigrateData(ctx, src, dst)
	if err != nil {
		t.Fatalf("MigrateData failed: %v", err)
	}

	if summary.Users != 1 || summary.Habits != 1 || summary.Goals != 2 {
		t.Errorf("unexpected summary: %+v", summary)
	}
	if summary.Workouts != 1 || summary.Exercises != 1 {
		t.Errorf("Expected 1 workout with 1 exercise, got %d/%d", summary.Workouts, summary.Exercises)
	}

	u, err := dst.EnsureUser(ctx, "test@example.com", "ignored")
	if err != nil {
		t.Fatalf("EnsureUser failed: %v", err)
	}
	goal, err := dst.GetActiveNutritionGoal(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetActiveNutritionGoal failed: %v", err)
	}
	if goal.Calories != 2100 {
		t.Errorf("Calories = %v, want 2100", goal.Calories)
	}
}

func TestMigrateDataEmptySource(t *testing.T) {
	ctx := context.Background()
	summary, err := MigrateData(ctx, setupTestDB(t), setupTestDB(t))
	if err != nil {
		t.Fatalf("MigrateData failed: %v", err)
	}
	if *summary != (MigrateSummary{}) {
		t.Errorf("Expected empty summary, got %+v", summary)
	}
}

func TestMigrateDataToPostgres(t *testing.T) {
	dsn := os.Getenv("BIRIVIBE_TEST_POSTGRES_URL")
	if dsn == "" {
		t.Skip("BIRIVIBE_TEST_POSTGRES_URL not set")
	}

	ctx := context.Background()
	src := setupTestDB(t)
	seedExportData(t, src)

	dst, err := OpenPostgres(dsn)
	if err != nil {
		t.Fatalf("OpenPostgres failed: %v", err)
	}
	defer dst.Close()

	if _, err := MigrateData(ctx, src, dst); err != nil {
		t.Fatalf("MigrateData failed: %v", err)
	}
	data, err := dst.GetAllData(ctx)
	if err != nil {
		t.Fatalf("GetAllData failed: %v", err)
	}
	if len(data.Habits) == 0 {
		t.Error("Expected habits in postgres")
	}
}
