// ABOUTME: Goal CRUD operations.
// ABOUTME: Deleting a goal removes its whole subtree through the parent_id cascade.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/birivibe/birivibe/internal/models"
	"github.com/google/uuid"
)

const goalColumns = `id, user_id, parent_id, title, description, category, status,
	progress, target_date, created_at, updated_at`

// CreateGoal stores a new goal.
func (d *DB) CreateGoal(ctx context.Context, g *models.Goal) error {
	_, err := d.exec(ctx,
		`INSERT INTO goals (`+goalColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID.String(), g.UserID.String(), uuidPtrArg(g.ParentID), g.Title, g.Description,
		g.Category, string(g.Status), g.Progress, g.TargetDate,
		fmtTime(g.CreatedAt), fmtTime(g.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("create goal: %w", err)
	}
	return nil
}

// GetGoal retrieves a goal by ID or ID prefix.
func (d *DB) GetGoal(ctx context.Context, idOrPrefix string) (*models.Goal, error) {
	id, err := d.resolveID(ctx, "goals", idOrPrefix)
	if err != nil {
		return nil, err
	}
	return scanGoal(d.queryRow(ctx, `SELECT `+goalColumns+` FROM goals WHERE id = ?`, id))
}

// ListGoals returns a user's goals ordered by creation time, optionally by status.
func (d *DB) ListGoals(ctx context.Context, userID uuid.UUID, status *models.GoalStatus) ([]*models.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals WHERE user_id = ?`
	args := []any{userID.String()}
	if status != nil {
		query += " AND status = ?"
		args = append(args, string(*status))
	}
	query += " ORDER BY created_at"

	rows, err := d.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var goals []*models.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

// UpdateGoal saves changes to a goal. The caller sets UpdatedAt.
func (d *DB) UpdateGoal(ctx context.Context, g *models.Goal) error {
	return d.execAffected(ctx, "update goal",
		`UPDATE goals SET parent_id = ?, title = ?, description = ?, category = ?, status = ?,
			progress = ?, target_date = ?, updated_at = ?
		WHERE id = ?`,
		uuidPtrArg(g.ParentID), g.Title, g.Description, g.Category, string(g.Status),
		g.Progress, g.TargetDate, fmtTime(g.UpdatedAt), g.ID.String(),
	)
}

// DeleteGoal removes a goal and all of its descendants.
func (d *DB) DeleteGoal(ctx context.Context, idOrPrefix string) error {
	id, err := d.resolveID(ctx, "goals", idOrPrefix)
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	return d.execAffected(ctx, "delete goal", "DELETE FROM goals WHERE id = ?", id)
}

func uuidPtrArg(id *uuid.UUID) any {
	if id == nil {
		return nil
	}
	return id.String()
}

func scanGoal(row rowScanner) (*models.Goal, error) {
	var g models.Goal
	var idStr, userID, status, createdAt, updatedAt string
	var parentID, targetDate sql.NullString
	err := row.Scan(&idStr, &userID, &parentID, &g.Title, &g.Description, &g.Category, &status,
		&g.Progress, &targetDate, &createdAt, &updatedAt)
	if err != nil {
		return nil, scanOne("goal", err)
	}
	g.ID, _ = uuid.Parse(idStr)
	g.UserID, _ = uuid.Parse(userID)
	if parentID.Valid {
		if pid, err := uuid.Parse(parentID.String); err == nil {
			g.ParentID = &pid
		}
	}
	g.Status = models.GoalStatus(status)
	g.TargetDate = nullStringPtr(targetDate)
	g.CreatedAt = parseTime(createdAt)
	g.UpdatedAt = parseTime(updatedAt)
	return &g, nil
}
