// ABOUTME: Routine, RoutineStep and RoutineLog CRUD operations.
// ABOUTME: Steps are written with their routine in one transaction; deleting a routine deactivates it.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/birivibe/birivibe/internal/models"
	"github.com/google/uuid"
)

const routineColumns = "id, user_id, name, description, time_of_day, is_active, created_at, updated_at"

// CreateRoutine stores a routine and its steps.
func (d *DB) CreateRoutine(ctx context.Context, r *models.Routine) error {
	r.NormalizeSteps()
	return d.withTx(ctx, func(tx *DB) error {
		_, err := tx.exec(ctx,
			`INSERT INTO routines (`+routineColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			r.ID.String(), r.UserID.String(), r.Name, r.Description, r.TimeOfDay,
			r.IsActive, fmtTime(r.CreatedAt), fmtTime(r.UpdatedAt),
		)
		if err != nil {
			return fmt.Errorf("create routine: %w", err)
		}
		return tx.insertRoutineSteps(ctx, r.Steps)
	})
}

// GetRoutine retrieves a routine with its ordered steps.
func (d *DB) GetRoutine(ctx context.Context, idOrPrefix string) (*models.Routine, error) {
	id, err := d.resolveID(ctx, "routines", idOrPrefix)
	if err != nil {
		return nil, err
	}
	r, err := scanRoutine(d.queryRow(ctx, `SELECT `+routineColumns+` FROM routines WHERE id = ?`, id))
	if err != nil {
		return nil, err
	}
	if r.Steps, err = d.listRoutineSteps(ctx, r.ID); err != nil {
		return nil, err
	}
	return r, nil
}

// ListRoutines returns a user's routines with their steps.
func (d *DB) ListRoutines(ctx context.Context, userID uuid.UUID, activeOnly bool) ([]*models.Routine, error) {
	query := `SELECT ` + routineColumns + ` FROM routines WHERE user_id = ?`
	args := []any{userID.String()}
	if activeOnly {
		query += " AND is_active = ?"
		args = append(args, true)
	}
	query += " ORDER BY created_at"

	rows, err := d.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list routines: %w", err)
	}
	var routines []*models.Routine
	for rows.Next() {
		r, err := scanRoutine(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		routines = append(routines, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list routines: %w", err)
	}

	for _, r := range routines {
		if r.Steps, err = d.listRoutineSteps(ctx, r.ID); err != nil {
			return nil, err
		}
	}
	return routines, nil
}

// UpdateRoutine saves a routine and replaces its steps. The caller sets UpdatedAt.
func (d *DB) UpdateRoutine(ctx context.Context, r *models.Routine) error {
	r.NormalizeSteps()
	return d.withTx(ctx, func(tx *DB) error {
		err := tx.execAffected(ctx, "update routine",
			`UPDATE routines SET name = ?, description = ?, time_of_day = ?, is_active = ?, updated_at = ?
			WHERE id = ?`,
			r.Name, r.Description, r.TimeOfDay, r.IsActive, fmtTime(r.UpdatedAt), r.ID.String(),
		)
		if err != nil {
			return err
		}
		if _, err := tx.exec(ctx, "DELETE FROM routine_steps WHERE routine_id = ?", r.ID.String()); err != nil {
			return fmt.Errorf("replace routine steps: %w", err)
		}
		return tx.insertRoutineSteps(ctx, r.Steps)
	})
}

// DeactivateRoutine marks a routine inactive. Its steps and logs are kept.
func (d *DB) DeactivateRoutine(ctx context.Context, idOrPrefix string) error {
	id, err := d.resolveID(ctx, "routines", idOrPrefix)
	if err != nil {
		return fmt.Errorf("deactivate routine: %w", err)
	}
	return d.execAffected(ctx, "deactivate routine",
		"UPDATE routines SET is_active = ?, updated_at = ? WHERE id = ?",
		false, fmtTime(time.Now()), id)
}

func (d *DB) insertRoutineSteps(ctx context.Context, steps []models.RoutineStep) error {
	for _, s := range steps {
		_, err := d.exec(ctx,
			`INSERT INTO routine_steps (id, routine_id, position, title, duration_minutes, notes)
			VALUES (?, ?, ?, ?, ?, ?)`,
			s.ID.String(), s.RoutineID.String(), s.Position, s.Title, s.DurationMinutes, s.Notes,
		)
		if err != nil {
			return fmt.Errorf("create routine step: %w", err)
		}
	}
	return nil
}

func (d *DB) listRoutineSteps(ctx context.Context, routineID uuid.UUID) ([]models.RoutineStep, error) {
	rows, err := d.query(ctx,
		`SELECT id, routine_id, position, title, duration_minutes, notes
		FROM routine_steps WHERE routine_id = ? ORDER BY position`, routineID.String())
	if err != nil {
		return nil, fmt.Errorf("list routine steps: %w", err)
	}
	defer rows.Close()

	steps := []models.RoutineStep{}
	for rows.Next() {
		var s models.RoutineStep
		var idStr, rid string
		if err := rows.Scan(&idStr, &rid, &s.Position, &s.Title, &s.DurationMinutes, &s.Notes); err != nil {
			return nil, fmt.Errorf("scan routine step: %w", err)
		}
		s.ID, _ = uuid.Parse(idStr)
		s.RoutineID, _ = uuid.Parse(rid)
		steps = append(steps, s)
	}
	return steps, rows.Err()
}

const routineLogColumns = `id, routine_id, user_id, started_at, completed_at,
	current_step, completed_steps, total_steps, status, notes`

// CreateRoutineLog starts a run of a routine.
func (d *DB) CreateRoutineLog(ctx context.Context, l *models.RoutineLog) error {
	_, err := d.exec(ctx,
		`INSERT INTO routine_logs (`+routineLogColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID.String(), l.RoutineID.String(), l.UserID.String(), fmtTime(l.StartedAt),
		fmtTimePtr(l.CompletedAt), l.CurrentStep, l.CompletedSteps, l.TotalSteps,
		string(l.Status), l.Notes,
	)
	if err != nil {
		return fmt.Errorf("create routine log: %w", err)
	}
	return nil
}

// GetRoutineLog retrieves a routine log by ID or ID prefix.
func (d *DB) GetRoutineLog(ctx context.Context, idOrPrefix string) (*models.RoutineLog, error) {
	id, err := d.resolveID(ctx, "routine_logs", idOrPrefix)
	if err != nil {
		return nil, err
	}
	return scanRoutineLog(d.queryRow(ctx, `SELECT `+routineLogColumns+` FROM routine_logs WHERE id = ?`, id))
}

// UpdateRoutineLog saves player progress on a routine run.
func (d *DB) UpdateRoutineLog(ctx context.Context, l *models.RoutineLog) error {
	return d.execAffected(ctx, "update routine log",
		`UPDATE routine_logs SET completed_at = ?, current_step = ?, completed_steps = ?,
			status = ?, notes = ?
		WHERE id = ?`,
		fmtTimePtr(l.CompletedAt), l.CurrentStep, l.CompletedSteps, string(l.Status), l.Notes,
		l.ID.String(),
	)
}

// ListRoutineLogs returns runs of a routine, newest first.
func (d *DB) ListRoutineLogs(ctx context.Context, routineID uuid.UUID, opts ListOptions) ([]*models.RoutineLog, error) {
	where := []string{"routine_id = ?"}
	args := []any{routineID.String()}
	where, args = opts.rangeClause("started_at", fmtTime, where, args)

	query := `SELECT ` + routineLogColumns + ` FROM routine_logs WHERE ` +
		strings.Join(where, " AND ") + ` ORDER BY started_at DESC`
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := d.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list routine logs: %w", err)
	}
	defer rows.Close()

	var logs []*models.RoutineLog
	for rows.Next() {
		l, err := scanRoutineLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

func scanRoutine(row rowScanner) (*models.Routine, error) {
	var r models.Routine
	var idStr, userID, createdAt, updatedAt string
	err := row.Scan(&idStr, &userID, &r.Name, &r.Description, &r.TimeOfDay, &r.IsActive, &createdAt, &updatedAt)
	if err != nil {
		return nil, scanOne("routine", err)
	}
	r.ID, _ = uuid.Parse(idStr)
	r.UserID, _ = uuid.Parse(userID)
	r.CreatedAt = parseTime(createdAt)
	r.UpdatedAt = parseTime(updatedAt)
	return &r, nil
}

func scanRoutineLog(row rowScanner) (*models.RoutineLog, error) {
	var l models.RoutineLog
	var idStr, routineID, userID, startedAt, status string
	var completedAt, notes sql.NullString
	err := row.Scan(&idStr, &routineID, &userID, &startedAt, &completedAt,
		&l.CurrentStep, &l.CompletedSteps, &l.TotalSteps, &status, &notes)
	if err != nil {
		return nil, scanOne("routine log", err)
	}
	l.ID, _ = uuid.Parse(idStr)
	l.RoutineID, _ = uuid.Parse(routineID)
	l.UserID, _ = uuid.Parse(userID)
	l.StartedAt = parseTime(startedAt)
	l.CompletedAt = parseNullTime(completedAt)
	l.Status = models.RoutineLogStatus(status)
	l.Notes = nullStringPtr(notes)
	return &l, nil
}
