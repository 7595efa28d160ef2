// ABOUTME: User CRUD operations.
// ABOUTME: EnsureUser lazily creates the configured default user.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/birivibe/birivibe/internal/models"
	"github.com/google/uuid"
)

const userColumns = "id, email, name, created_at"

// CreateUser stores a new user.
func (d *DB) CreateUser(ctx context.Context, u *models.User) error {
	_, err := d.exec(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?)`,
		u.ID.String(), u.Email, u.Name, fmtTime(u.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// GetUser retrieves a user by ID.
func (d *DB) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return scanUser(d.queryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id.String()))
}

// EnsureUser returns the user with the given email, creating it on first use.
func (d *DB) EnsureUser(ctx context.Context, email, name string) (*models.User, error) {
	u, err := scanUser(d.queryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email))
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("ensure user: %w", err)
	}

	u = models.NewUser(email, name)
	_, err = d.exec(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?) ON CONFLICT (email) DO NOTHING`,
		u.ID.String(), u.Email, u.Name, fmtTime(u.CreatedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("ensure user: %w", err)
	}

	// A concurrent request may have won the insert; read back whichever row exists.
	u, err = scanUser(d.queryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email))
	if err != nil {
		return nil, fmt.Errorf("ensure user: %w", err)
	}
	return u, nil
}

// ListUsers returns all users ordered by creation time.
func (d *DB) ListUsers(ctx context.Context) ([]*models.User, error) {
	rows, err := d.query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func scanUser(row rowScanner) (*models.User, error) {
	var u models.User
	var idStr, createdAt string
	if err := row.Scan(&idStr, &u.Email, &u.Name, &createdAt); err != nil {
		return nil, scanOne("user", err)
	}
	u.ID, _ = uuid.Parse(idStr)
	u.CreatedAt = parseTime(createdAt)
	return &u, nil
}
