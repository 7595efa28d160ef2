// ABOUTME: Ritual storage operations.
// ABOUTME: Checklists are stored as JSON text; completion advances the due date.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/birivibe/birivibe/internal/models"
	"github.com/google/uuid"
)

const ritualColumns = `id, user_id, name, description, frequency, checklist,
	last_completed_at, next_due_at, is_active, created_at`

// CreateRitual stores a new ritual.
func (d *DB) CreateRitual(ctx context.Context, r *models.Ritual) error {
	checklist, err := marshalChecklist(r.Checklist)
	if err != nil {
		return fmt.Errorf("create ritual: %w", err)
	}
	_, err = d.exec(ctx,
		`INSERT INTO rituals (`+ritualColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID.String(), r.UserID.String(), r.Name, r.Description, string(r.Frequency), checklist,
		fmtTimePtr(r.LastCompletedAt), fmtTimePtr(r.NextDueAt), r.IsActive, fmtTime(r.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("create ritual: %w", err)
	}
	return nil
}

// GetRitual retrieves a ritual by ID or ID prefix.
func (d *DB) GetRitual(ctx context.Context, idOrPrefix string) (*models.Ritual, error) {
	id, err := d.resolveID(ctx, "rituals", idOrPrefix)
	if err != nil {
		return nil, err
	}
	return scanRitual(d.queryRow(ctx, `SELECT `+ritualColumns+` FROM rituals WHERE id = ?`, id))
}

// ListRituals returns a user's rituals, soonest due first.
func (d *DB) ListRituals(ctx context.Context, userID uuid.UUID) ([]*models.Ritual, error) {
	rows, err := d.query(ctx,
		`SELECT `+ritualColumns+` FROM rituals WHERE user_id = ?
		ORDER BY next_due_at, created_at`, userID.String())
	if err != nil {
		return nil, fmt.Errorf("list rituals: %w", err)
	}
	defer rows.Close()

	var rituals []*models.Ritual
	for rows.Next() {
		r, err := scanRitual(rows)
		if err != nil {
			return nil, err
		}
		rituals = append(rituals, r)
	}
	return rituals, rows.Err()
}

// UpdateRitual saves changes to a ritual.
func (d *DB) UpdateRitual(ctx context.Context, r *models.Ritual) error {
	checklist, err := marshalChecklist(r.Checklist)
	if err != nil {
		return fmt.Errorf("update ritual: %w", err)
	}
	return d.execAffected(ctx, "update ritual",
		`UPDATE rituals SET name = ?, description = ?, frequency = ?, checklist = ?,
			last_completed_at = ?, next_due_at = ?, is_active = ?
		WHERE id = ?`,
		r.Name, r.Description, string(r.Frequency), checklist,
		fmtTimePtr(r.LastCompletedAt), fmtTimePtr(r.NextDueAt), r.IsActive, r.ID.String(),
	)
}

// DeleteRitual removes a ritual by ID or prefix.
func (d *DB) DeleteRitual(ctx context.Context, idOrPrefix string) error {
	return d.deleteByID(ctx, "rituals", "delete ritual", idOrPrefix)
}

// CompleteRitual records a completion at the given time and schedules the next one.
func (d *DB) CompleteRitual(ctx context.Context, idOrPrefix string, at time.Time) (*models.Ritual, error) {
	r, err := d.GetRitual(ctx, idOrPrefix)
	if err != nil {
		return nil, fmt.Errorf("complete ritual: %w", err)
	}
	r.Complete(at)
	err = d.execAffected(ctx, "complete ritual",
		"UPDATE rituals SET last_completed_at = ?, next_due_at = ? WHERE id = ?",
		fmtTimePtr(r.LastCompletedAt), fmtTimePtr(r.NextDueAt), r.ID.String())
	if err != nil {
		return nil, err
	}
	return r, nil
}

func marshalChecklist(items []string) (string, error) {
	if items == nil {
		items = []string{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("marshal checklist: %w", err)
	}
	return string(b), nil
}

func scanRitual(row rowScanner) (*models.Ritual, error) {
	var r models.Ritual
	var idStr, userID, frequency, checklist, createdAt string
	var lastCompleted, nextDue sql.NullString
	err := row.Scan(&idStr, &userID, &r.Name, &r.Description, &frequency, &checklist,
		&lastCompleted, &nextDue, &r.IsActive, &createdAt)
	if err != nil {
		return nil, scanOne("ritual", err)
	}
	r.ID, _ = uuid.Parse(idStr)
	r.UserID, _ = uuid.Parse(userID)
	r.Frequency = models.RitualFrequency(frequency)
	if err := json.Unmarshal([]byte(checklist), &r.Checklist); err != nil {
		return nil, fmt.Errorf("decode ritual checklist: %w", err)
	}
	r.LastCompletedAt = parseNullTime(lastCompleted)
	r.NextDueAt = parseNullTime(nextDue)
	r.CreatedAt = parseTime(createdAt)
	return &r, nil
}
