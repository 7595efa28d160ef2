// ABOUTME: Automation storage operations.
// ABOUTME: Trigger and action configs are stored verbatim as JSON text.
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

const automationColumns = `id, user_id, name, trigger_type, trigger_config, action_type,
	action_config, is_active, last_run_at, created_at`

// CreateAutomation stores a new automation.
func (d *DB) CreateAutomation(ctx context.Context, a *models.Automation) error {
	_, err := d.exec(ctx,
		`INSERT INTO automations (`+automationColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID.String(), a.UserID.String(), a.Name, a.TriggerType, rawJSON(a.TriggerConfig),
		a.ActionType, rawJSON(a.ActionConfig), a.IsActive, fmtTimePtr(a.LastRunAt),
		fmtTime(a.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("create automation: %w", err)
	}
	return nil
}

// GetAutomation retrieves an automation by ID or ID prefix.
func (d *DB) GetAutomation(ctx context.Context, idOrPrefix string) (*models.Automation, error) {
	id, err := d.resolveID(ctx, "automations", idOrPrefix)
	if err != nil {
		return nil, err
	}
	return scanAutomation(d.queryRow(ctx, `SELECT `+automationColumns+` FROM automations WHERE id = ?`, id))
}

// ListAutomations returns a user's automations ordered by creation time.
func (d *DB) ListAutomations(ctx context.Context, userID uuid.UUID) ([]*models.Automation, error) {
	rows, err := d.query(ctx,
		`SELECT `+automationColumns+` FROM automations WHERE user_id = ? ORDER BY created_at`,
		userID.String())
	if err != nil {
		return nil, fmt.Errorf("list automations: %w", err)
	}
	defer rows.Close()

	var automations []*models.Automation
	for rows.Next() {
		a, err := scanAutomation(rows)
		if err != nil {
			return nil, err
		}
		automations = append(automations, a)
	}
	return automations, rows.Err()
}

// UpdateAutomation saves changes to an automation.
func (d *DB) UpdateAutomation(ctx context.Context, a *models.Automation) error {
	return d.execAffected(ctx, "update automation",
		`UPDATE automations SET name = ?, trigger_type = ?, trigger_config = ?, action_type = ?,
			action_config = ?, is_active = ?
		WHERE id = ?`,
		a.Name, a.TriggerType, rawJSON(a.TriggerConfig), a.ActionType, rawJSON(a.ActionConfig),
		a.IsActive, a.ID.String(),
	)
}

// DeleteAutomation removes an automation by ID or prefix.
func (d *DB) DeleteAutomation(ctx context.Context, idOrPrefix string) error {
	return d.deleteByID(ctx, "automations", "delete automation", idOrPrefix)
}

// MarkAutomationRun records that an automation ran at the given time.
func (d *DB) MarkAutomationRun(ctx context.Context, idOrPrefix string, at time.Time) (*models.Automation, error) {
	id, err := d.resolveID(ctx, "automations", idOrPrefix)
	if err != nil {
		return nil, fmt.Errorf("mark automation run: %w", err)
	}
	err = d.execAffected(ctx, "mark automation run",
		"UPDATE automations SET last_run_at = ? WHERE id = ?", fmtTime(at), id)
	if err != nil {
		return nil, err
	}
	return d.GetAutomation(ctx, id)
}

func rawJSON(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "{}"
	}
	return string(raw)
}

func scanAutomation(row rowScanner) (*models.Automation, error) {
	var a models.Automation
	var idStr, userID, triggerConfig, actionConfig, createdAt string
	var lastRun sql.NullString
	err := row.Scan(&idStr, &userID, &a.Name, &a.TriggerType, &triggerConfig, &a.ActionType,
		&actionConfig, &a.IsActive, &lastRun, &createdAt)
	if err != nil {
		return nil, scanOne("automation", err)
	}
	a.ID, _ = uuid.Parse(idStr)
	a.UserID, _ = uuid.Parse(userID)
	a.TriggerConfig = json.RawMessage(triggerConfig)
	a.ActionConfig = json.RawMessage(actionConfig)
	a.LastRunAt = parseNullTime(lastRun)
	a.CreatedAt = parseTime(createdAt)
	return &a, nil
}
