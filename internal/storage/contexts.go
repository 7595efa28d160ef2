// ABOUTME: Context storage operations.
package storage

import (
	"context"
	"fmt"

	"github.com/birivibe/birivibe/internal/models"
	"github.com/google/uuid"
)

const contextColumns = "id, user_id, name, description, color, created_at"

// CreateContext stores a new context.
func (d *DB) CreateContext(ctx context.Context, c *models.Context) error {
	_, err := d.exec(ctx,
		`INSERT INTO contexts (`+contextColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID.String(), c.UserID.String(), c.Name, c.Description, c.Color, fmtTime(c.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("create context: %w", err)
	}
	return nil
}

// GetContext retrieves a context by ID or ID prefix.
func (d *DB) GetContext(ctx context.Context, idOrPrefix string) (*models.Context, error) {
	id, err := d.resolveID(ctx, "contexts", idOrPrefix)
	if err != nil {
		return nil, err
	}
	return scanContext(d.queryRow(ctx, `SELECT `+contextColumns+` FROM contexts WHERE id = ?`, id))
}

// ListContexts returns a user's contexts by name.
func (d *DB) ListContexts(ctx context.Context, userID uuid.UUID) ([]*models.Context, error) {
	rows, err := d.query(ctx,
		`SELECT `+contextColumns+` FROM contexts WHERE user_id = ? ORDER BY name`, userID.String())
	if err != nil {
		return nil, fmt.Errorf("list contexts: %w", err)
	}
	defer rows.Close()

	var contexts []*models.Context
	for rows.Next() {
		c, err := scanContext(rows)
		if err != nil {
			return nil, err
		}
		contexts = append(contexts, c)
	}
	return contexts, rows.Err()
}

// UpdateContext saves changes to a context.
func (d *DB) UpdateContext(ctx context.Context, c *models.Context) error {
	return d.execAffected(ctx, "update context",
		"UPDATE contexts SET name = ?, description = ?, color = ? WHERE id = ?",
		c.Name, c.Description, c.Color, c.ID.String())
}

// DeleteContext removes a context by ID or prefix.
func (d *DB) DeleteContext(ctx context.Context, idOrPrefix string) error {
	return d.deleteByID(ctx, "contexts", "delete context", idOrPrefix)
}

func scanContext(row rowScanner) (*models.Context, error) {
	var c models.Context
	var idStr, userID, createdAt string
	if err := row.Scan(&idStr, &userID, &c.Name, &c.Description, &c.Color, &createdAt); err != nil {
		return nil, scanOne("context", err)
	}
	c.ID, _ = uuid.Parse(idStr)
	c.UserID, _ = uuid.Parse(userID)
	c.CreatedAt = parseTime(createdAt)
	return &c, nil
}
