// ABOUTME: Weight, sleep and mood log storage operations.
// ABOUTME: Mood tags are stored as a JSON array in a text column.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/birivibe/birivibe/internal/models"
	"github.com/google/uuid"
)

// listQuery builds a user-scoped, range-filtered, newest-first select.
func listQuery(columns, table, timeCol string, userID uuid.UUID, opts ListOptions) (string, []any) {
	where := []string{"user_id = ?"}
	args := []any{userID.String()}
	where, args = opts.rangeClause(timeCol, fmtTime, where, args)

	query := `SELECT ` + columns + ` FROM ` + table + ` WHERE ` +
		strings.Join(where, " AND ") + ` ORDER BY ` + timeCol + ` DESC`
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}
	return query, args
}

const weightLogColumns = "id, user_id, weight_kg, body_fat, recorded_at, notes"

// CreateWeightLog stores a weight measurement.
func (d *DB) CreateWeightLog(ctx context.Context, w *models.WeightLog) error {
	_, err := d.exec(ctx,
		`INSERT INTO weight_logs (`+weightLogColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		w.ID.String(), w.UserID.String(), w.WeightKg, w.BodyFat, fmtTime(w.RecordedAt), w.Notes,
	)
	if err != nil {
		return fmt.Errorf("create weight log: %w", err)
	}
	return nil
}

// ListWeightLogs returns weight logs, most recent first.
func (d *DB) ListWeightLogs(ctx context.Context, userID uuid.UUID, opts ListOptions) ([]*models.WeightLog, error) {
	query, args := listQuery(weightLogColumns, "weight_logs", "recorded_at", userID, opts)
	rows, err := d.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list weight logs: %w", err)
	}
	defer rows.Close()

	var logs []*models.WeightLog
	for rows.Next() {
		w, err := scanWeightLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, w)
	}
	return logs, rows.Err()
}

// GetLatestWeight returns the most recent weight log, or ErrNotFound.
func (d *DB) GetLatestWeight(ctx context.Context, userID uuid.UUID) (*models.WeightLog, error) {
	return scanWeightLog(d.queryRow(ctx,
		`SELECT `+weightLogColumns+` FROM weight_logs WHERE user_id = ?
		ORDER BY recorded_at DESC LIMIT 1`, userID.String()))
}

// DeleteWeightLog removes a weight log by ID or prefix.
func (d *DB) DeleteWeightLog(ctx context.Context, idOrPrefix string) error {
	return d.deleteByID(ctx, "weight_logs", "delete weight log", idOrPrefix)
}

const sleepLogColumns = "id, user_id, bed_time, wake_time, duration_hours, quality, notes"

// CreateSleepLog stores a sleep log. Duration is recomputed from bed and wake times.
func (d *DB) CreateSleepLog(ctx context.Context, s *models.SleepLog) error {
	if err := models.CheckSleepSpan(s.BedTime, s.WakeTime); err != nil {
		return fmt.Errorf("create sleep log: %w", err)
	}
	s.ComputeDuration()
	_, err := d.exec(ctx,
		`INSERT INTO sleep_logs (`+sleepLogColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.ID.String(), s.UserID.String(), fmtTime(s.BedTime), fmtTime(s.WakeTime),
		s.DurationHours, s.Quality, s.Notes,
	)
	if err != nil {
		return fmt.Errorf("create sleep log: %w", err)
	}
	return nil
}

// ListSleepLogs returns sleep logs by wake time, most recent first.
func (d *DB) ListSleepLogs(ctx context.Context, userID uuid.UUID, opts ListOptions) ([]*models.SleepLog, error) {
	query, args := listQuery(sleepLogColumns, "sleep_logs", "wake_time", userID, opts)
	rows, err := d.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sleep logs: %w", err)
	}
	defer rows.Close()

	var logs []*models.SleepLog
	for rows.Next() {
		var s models.SleepLog
		var idStr, uid, bed, wake string
		var quality sql.NullInt64
		var notes sql.NullString
		if err := rows.Scan(&idStr, &uid, &bed, &wake, &s.DurationHours, &quality, &notes); err != nil {
			return nil, fmt.Errorf("scan sleep log: %w", err)
		}
		s.ID, _ = uuid.Parse(idStr)
		s.UserID, _ = uuid.Parse(uid)
		s.BedTime = parseTime(bed)
		s.WakeTime = parseTime(wake)
		s.Quality = nullIntPtr(quality)
		s.Notes = nullStringPtr(notes)
		logs = append(logs, &s)
	}
	return logs, rows.Err()
}

// DeleteSleepLog removes a sleep log by ID or prefix.
func (d *DB) DeleteSleepLog(ctx context.Context, idOrPrefix string) error {
	return d.deleteByID(ctx, "sleep_logs", "delete sleep log", idOrPrefix)
}

const moodLogColumns = "id, user_id, mood, energy, tags, notes, recorded_at"

// CreateMoodLog stores a mood check-in.
func (d *DB) CreateMoodLog(ctx context.Context, m *models.MoodLog) error {
	tags := m.Tags
	if tags == nil {
		tags = []string{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return fmt.Errorf("marshal mood tags: %w", err)
	}
	_, err = d.exec(ctx,
		`INSERT INTO mood_logs (`+moodLogColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.ID.String(), m.UserID.String(), m.Mood, m.Energy, string(tagsJSON), m.Notes,
		fmtTime(m.RecordedAt),
	)
	if err != nil {
		return fmt.Errorf("create mood log: %w", err)
	}
	return nil
}

// ListMoodLogs returns mood logs, most recent first.
func (d *DB) ListMoodLogs(ctx context.Context, userID uuid.UUID, opts ListOptions) ([]*models.MoodLog, error) {
	query, args := listQuery(moodLogColumns, "mood_logs", "recorded_at", userID, opts)
	rows, err := d.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list mood logs: %w", err)
	}
	defer rows.Close()

	var logs []*models.MoodLog
	for rows.Next() {
		var m models.MoodLog
		var idStr, uid, tags, recordedAt string
		var energy sql.NullInt64
		var notes sql.NullString
		if err := rows.Scan(&idStr, &uid, &m.Mood, &energy, &tags, &notes, &recordedAt); err != nil {
			return nil, fmt.Errorf("scan mood log: %w", err)
		}
		m.ID, _ = uuid.Parse(idStr)
		m.UserID, _ = uuid.Parse(uid)
		m.Energy = nullIntPtr(energy)
		if err := json.Unmarshal([]byte(tags), &m.Tags); err != nil {
			return nil, fmt.Errorf("decode mood tags: %w", err)
		}
		m.Notes = nullStringPtr(notes)
		m.RecordedAt = parseTime(recordedAt)
		logs = append(logs, &m)
	}
	return logs, rows.Err()
}

// DeleteMoodLog removes a mood log by ID or prefix.
func (d *DB) DeleteMoodLog(ctx context.Context, idOrPrefix string) error {
	return d.deleteByID(ctx, "mood_logs", "delete mood log", idOrPrefix)
}

// deleteByID resolves idOrPrefix in table and deletes the row.
func (d *DB) deleteByID(ctx context.Context, table, what, idOrPrefix string) error {
	id, err := d.resolveID(ctx, table, idOrPrefix)
	if err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}
	return d.execAffected(ctx, what, "DELETE FROM "+table+" WHERE id = ?", id)
}

func scanWeightLog(row rowScanner) (*models.WeightLog, error) {
	var w models.WeightLog
	var idStr, userID, recordedAt string
	var bodyFat sql.NullFloat64
	var notes sql.NullString
	if err := row.Scan(&idStr, &userID, &w.WeightKg, &bodyFat, &recordedAt, &notes); err != nil {
		return nil, scanOne("weight log", err)
	}
	w.ID, _ = uuid.Parse(idStr)
	w.UserID, _ = uuid.Parse(userID)
	w.BodyFat = nullFloatPtr(bodyFat)
	w.RecordedAt = parseTime(recordedAt)
	w.Notes = nullStringPtr(notes)
	return &w, nil
}
