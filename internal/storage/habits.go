// ABOUTME: Habit and HabitLog CRUD operations.
// ABOUTME: Habit logs are upserted per (habit, day) and cascade with their habit.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/birivibe/birivibe/internal/models"
	"github.com/birivibe/birivibe/internal/stats"
	"github.com/google/uuid"
)

const habitColumns = `id, user_id, name, description, frequency, target_per_period,
	color, icon, is_active, created_at, updated_at`

// CreateHabit stores a new habit.
func (d *DB) CreateHabit(ctx context.Context, h *models.Habit) error {
	_, err := d.exec(ctx,
		`INSERT INTO habits (`+habitColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		h.ID.String(), h.UserID.String(), h.Name, h.Description, string(h.Frequency),
		h.TargetPerPeriod, h.Color, h.Icon, h.IsActive,
		fmtTime(h.CreatedAt), fmtTime(h.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("create habit: %w", err)
	}
	return nil
}

// GetHabit retrieves a habit by ID or ID prefix.
func (d *DB) GetHabit(ctx context.Context, idOrPrefix string) (*models.Habit, error) {
	id, err := d.resolveID(ctx, "habits", idOrPrefix)
	if err != nil {
		return nil, err
	}
	return scanHabit(d.queryRow(ctx, `SELECT `+habitColumns+` FROM habits WHERE id = ?`, id))
}

// FindHabitByName finds an active habit by case-insensitive name.
func (d *DB) FindHabitByName(ctx context.Context, userID uuid.UUID, name string) (*models.Habit, error) {
	return scanHabit(d.queryRow(ctx,
		`SELECT `+habitColumns+` FROM habits
		WHERE user_id = ? AND is_active = ? AND LOWER(name) = LOWER(?)
		ORDER BY created_at LIMIT 1`,
		userID.String(), true, strings.TrimSpace(name),
	))
}

// ListHabits returns a user's habits ordered by creation time.
func (d *DB) ListHabits(ctx context.Context, userID uuid.UUID, activeOnly bool) ([]*models.Habit, error) {
	query := `SELECT ` + habitColumns + ` FROM habits WHERE user_id = ?`
	args := []any{userID.String()}
	if activeOnly {
		query += " AND is_active = ?"
		args = append(args, true)
	}
	query += " ORDER BY created_at"

	rows, err := d.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}
	defer rows.Close()

	var habits []*models.Habit
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

// UpdateHabit saves changes to a habit's editable fields. The caller sets UpdatedAt.
func (d *DB) UpdateHabit(ctx context.Context, h *models.Habit) error {
	return d.execAffected(ctx, "update habit",
		`UPDATE habits SET name = ?, description = ?, frequency = ?, target_per_period = ?,
			color = ?, icon = ?, is_active = ?, updated_at = ?
		WHERE id = ?`,
		h.Name, h.Description, string(h.Frequency), h.TargetPerPeriod,
		h.Color, h.Icon, h.IsActive, fmtTime(h.UpdatedAt), h.ID.String(),
	)
}

// DeleteHabit removes a habit and all its logs (cascade delete).
func (d *DB) DeleteHabit(ctx context.Context, idOrPrefix string) error {
	id, err := d.resolveID(ctx, "habits", idOrPrefix)
	if err != nil {
		return fmt.Errorf("delete habit: %w", err)
	}
	return d.execAffected(ctx, "delete habit", "DELETE FROM habits WHERE id = ?", id)
}

const habitLogColumns = "id, habit_id, user_id, date, completed, value, notes, created_at"

// LogHabit records a habit for a day, replacing any existing log for that day.
// It returns the stored row, which keeps the original ID on conflict.
func (d *DB) LogHabit(ctx context.Context, l *models.HabitLog) (*models.HabitLog, error) {
	_, err := d.exec(ctx,
		`INSERT INTO habit_logs (`+habitLogColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (habit_id, date) DO UPDATE SET
			completed = excluded.completed, value = excluded.value, notes = excluded.notes`,
		l.ID.String(), l.HabitID.String(), l.UserID.String(), l.Date, l.Completed,
		l.Value, l.Notes, fmtTime(l.CreatedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("log habit: %w", err)
	}
	return scanHabitLog(d.queryRow(ctx,
		`SELECT `+habitLogColumns+` FROM habit_logs WHERE habit_id = ? AND date = ?`,
		l.HabitID.String(), l.Date,
	))
}

// DeleteHabitLog removes the log for a habit on a day.
func (d *DB) DeleteHabitLog(ctx context.Context, habitID uuid.UUID, day string) error {
	return d.execAffected(ctx, "delete habit log",
		"DELETE FROM habit_logs WHERE habit_id = ? AND date = ?", habitID.String(), day)
}

// ListHabitLogs returns a habit's logs, newest day first.
func (d *DB) ListHabitLogs(ctx context.Context, habitID uuid.UUID, opts ListOptions) ([]*models.HabitLog, error) {
	return d.listHabitLogs(ctx, "habit_id", habitID, opts)
}

// ListUserHabitLogs returns logs across all of a user's habits, newest day first.
func (d *DB) ListUserHabitLogs(ctx context.Context, userID uuid.UUID, opts ListOptions) ([]*models.HabitLog, error) {
	return d.listHabitLogs(ctx, "user_id", userID, opts)
}

func (d *DB) listHabitLogs(ctx context.Context, col string, id uuid.UUID, opts ListOptions) ([]*models.HabitLog, error) {
	where := []string{col + " = ?"}
	args := []any{id.String()}
	where, args = opts.rangeClause("date", stats.DayKey, where, args)

	query := `SELECT ` + habitLogColumns + ` FROM habit_logs WHERE ` +
		strings.Join(where, " AND ") + ` ORDER BY date DESC`
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := d.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list habit logs: %w", err)
	}
	defer rows.Close()

	var logs []*models.HabitLog
	for rows.Next() {
		l, err := scanHabitLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

func scanHabit(row rowScanner) (*models.Habit, error) {
	var h models.Habit
	var idStr, userID, frequency, createdAt, updatedAt string
	err := row.Scan(&idStr, &userID, &h.Name, &h.Description, &frequency, &h.TargetPerPeriod,
		&h.Color, &h.Icon, &h.IsActive, &createdAt, &updatedAt)
	if err != nil {
		return nil, scanOne("habit", err)
	}
	h.ID, _ = uuid.Parse(idStr)
	h.UserID, _ = uuid.Parse(userID)
	h.Frequency = models.Frequency(frequency)
	h.CreatedAt = parseTime(createdAt)
	h.UpdatedAt = parseTime(updatedAt)
	return &h, nil
}

func scanHabitLog(row rowScanner) (*models.HabitLog, error) {
	var l models.HabitLog
	var idStr, habitID, userID, createdAt string
	var value sql.NullFloat64
	var notes sql.NullString
	err := row.Scan(&idStr, &habitID, &userID, &l.Date, &l.Completed, &value, &notes, &createdAt)
	if err != nil {
		return nil, scanOne("habit log", err)
	}
	l.ID, _ = uuid.Parse(idStr)
	l.HabitID, _ = uuid.Parse(habitID)
	l.UserID, _ = uuid.Parse(userID)
	l.Value = nullFloatPtr(value)
	l.Notes = nullStringPtr(notes)
	l.CreatedAt = parseTime(createdAt)
	return &l, nil
}
