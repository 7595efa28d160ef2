// ABOUTME: Shared helpers for storage tests.
// ABOUTME: Each test gets a fresh SQLite database and a default user.
package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/birivibe/birivibe/internal/models"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "birivibe.db")
	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}

func setupTestUser(t *testing.T, db *DB) *models.User {
	t.Helper()

	u, err := db.EnsureUser(context.Background(), "test@example.com", "Test User")
	if err != nil {
		t.Fatalf("EnsureUser failed: %v", err)
	}
	return u
}

// at returns a second-precision local time on 2026-01-<day>.
func at(day, hour int) time.Time {
	return time.Date(2026, 1, day, hour, 0, 0, 0, time.Local)
}
