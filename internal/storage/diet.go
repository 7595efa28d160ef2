// ABOUTME: FoodLog and NutritionGoal storage operations.
// ABOUTME: Switching nutrition goals deactivates the old goal and inserts the new one atomically.
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

const foodLogColumns = `id, user_id, name, meal_type, quantity, calories, protein, carbs, fat,
	source, eaten_at, notes, created_at`

// CreateFoodLog stores a new food log.
func (d *DB) CreateFoodLog(ctx context.Context, f *models.FoodLog) error {
	_, err := d.exec(ctx,
		`INSERT INTO food_logs (`+foodLogColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		f.ID.String(), f.UserID.String(), f.Name, string(f.MealType), f.Quantity,
		f.Calories, f.Protein, f.Carbs, f.Fat, f.Source,
		fmtTime(f.EatenAt), f.Notes, fmtTime(f.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("create food log: %w", err)
	}
	return nil
}

// GetFoodLog retrieves a food log by ID or ID prefix.
func (d *DB) GetFoodLog(ctx context.Context, idOrPrefix string) (*models.FoodLog, error) {
	id, err := d.resolveID(ctx, "food_logs", idOrPrefix)
	if err != nil {
		return nil, err
	}
	return scanFoodLog(d.queryRow(ctx, `SELECT `+foodLogColumns+` FROM food_logs WHERE id = ?`, id))
}

// ListFoodLogs returns a user's food logs, most recent first.
func (d *DB) ListFoodLogs(ctx context.Context, userID uuid.UUID, opts ListOptions) ([]*models.FoodLog, error) {
	where := []string{"user_id = ?"}
	args := []any{userID.String()}
	where, args = opts.rangeClause("eaten_at", fmtTime, where, args)

	query := `SELECT ` + foodLogColumns + ` FROM food_logs WHERE ` +
		strings.Join(where, " AND ") + ` ORDER BY eaten_at DESC`
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := d.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list food logs: %w", err)
	}
	defer rows.Close()

	var logs []*models.FoodLog
	for rows.Next() {
		f, err := scanFoodLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, f)
	}
	return logs, rows.Err()
}

// UpdateFoodLog saves changes to a food log.
func (d *DB) UpdateFoodLog(ctx context.Context, f *models.FoodLog) error {
	return d.execAffected(ctx, "update food log",
		`UPDATE food_logs SET name = ?, meal_type = ?, quantity = ?, calories = ?, protein = ?,
			carbs = ?, fat = ?, eaten_at = ?, notes = ?
		WHERE id = ?`,
		f.Name, string(f.MealType), f.Quantity, f.Calories, f.Protein,
		f.Carbs, f.Fat, fmtTime(f.EatenAt), f.Notes, f.ID.String(),
	)
}

// DeleteFoodLog removes a food log by ID or prefix.
func (d *DB) DeleteFoodLog(ctx context.Context, idOrPrefix string) error {
	id, err := d.resolveID(ctx, "food_logs", idOrPrefix)
	if err != nil {
		return fmt.Errorf("delete food log: %w", err)
	}
	return d.execAffected(ctx, "delete food log", "DELETE FROM food_logs WHERE id = ?", id)
}

// SumNutrition totals a user's food logs eaten in [from, to).
func (d *DB) SumNutrition(ctx context.Context, userID uuid.UUID, from, to time.Time) (*models.NutritionTotals, error) {
	var t models.NutritionTotals
	err := d.queryRow(ctx,
		`SELECT COALESCE(SUM(calories), 0), COALESCE(SUM(protein), 0),
			COALESCE(SUM(carbs), 0), COALESCE(SUM(fat), 0), COUNT(*)
		FROM food_logs WHERE user_id = ? AND eaten_at >= ? AND eaten_at < ?`,
		userID.String(), fmtTime(from), fmtTime(to),
	).Scan(&t.Calories, &t.Protein, &t.Carbs, &t.Fat, &t.Entries)
	if err != nil {
		return nil, fmt.Errorf("sum nutrition: %w", err)
	}
	return &t, nil
}

const nutritionGoalColumns = "id, user_id, calories, protein, carbs, fat, water_ml, is_active, created_at"

// GetActiveNutritionGoal returns the user's active goal, or ErrNotFound.
func (d *DB) GetActiveNutritionGoal(ctx context.Context, userID uuid.UUID) (*models.NutritionGoal, error) {
	return scanNutritionGoal(d.queryRow(ctx,
		`SELECT `+nutritionGoalColumns+` FROM nutrition_goals
		WHERE user_id = ? AND is_active = ?
		ORDER BY created_at DESC LIMIT 1`,
		userID.String(), true,
	))
}

// SetNutritionGoal makes g the user's only active goal.
func (d *DB) SetNutritionGoal(ctx context.Context, g *models.NutritionGoal) error {
	g.IsActive = true
	return d.withTx(ctx, func(tx *DB) error {
		if err := tx.deactivateNutritionGoals(ctx, g.UserID); err != nil {
			return err
		}
		return tx.insertNutritionGoal(ctx, g)
	})
}

// deactivateNutritionGoals must run inside a transaction. On postgres the
// user row is locked first so concurrent writers queue behind each other;
// SQLite already serializes writers.
func (d *DB) deactivateNutritionGoals(ctx context.Context, userID uuid.UUID) error {
	if d.dialect == dialectPostgres {
		var id string
		if err := d.queryRow(ctx, "SELECT id FROM users WHERE id = ? FOR UPDATE", userID.String()).Scan(&id); err != nil {
			return fmt.Errorf("lock user: %w", err)
		}
	}
	_, err := d.exec(ctx,
		"UPDATE nutrition_goals SET is_active = ? WHERE user_id = ? AND is_active = ?",
		false, userID.String(), true)
	if err != nil {
		return fmt.Errorf("deactivate nutrition goals: %w", err)
	}
	return nil
}

func (d *DB) insertNutritionGoal(ctx context.Context, g *models.NutritionGoal) error {
	_, err := d.exec(ctx,
		`INSERT INTO nutrition_goals (`+nutritionGoalColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID.String(), g.UserID.String(), g.Calories, g.Protein, g.Carbs, g.Fat, g.WaterML,
		g.IsActive, fmtTime(g.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("create nutrition goal: %w", err)
	}
	return nil
}

// ListNutritionGoals returns every goal the user has set, newest first.
func (d *DB) ListNutritionGoals(ctx context.Context, userID uuid.UUID) ([]*models.NutritionGoal, error) {
	rows, err := d.query(ctx,
		`SELECT `+nutritionGoalColumns+` FROM nutrition_goals WHERE user_id = ? ORDER BY created_at DESC`,
		userID.String())
	if err != nil {
		return nil, fmt.Errorf("list nutrition goals: %w", err)
	}
	defer rows.Close()

	var goals []*models.NutritionGoal
	for rows.Next() {
		g, err := scanNutritionGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

func scanFoodLog(row rowScanner) (*models.FoodLog, error) {
	var f models.FoodLog
	var idStr, userID, mealType, eatenAt, createdAt string
	var notes sql.NullString
	err := row.Scan(&idStr, &userID, &f.Name, &mealType, &f.Quantity, &f.Calories, &f.Protein,
		&f.Carbs, &f.Fat, &f.Source, &eatenAt, &notes, &createdAt)
	if err != nil {
		return nil, scanOne("food log", err)
	}
	f.ID, _ = uuid.Parse(idStr)
	f.UserID, _ = uuid.Parse(userID)
	f.MealType = models.MealType(mealType)
	f.EatenAt = parseTime(eatenAt)
	f.Notes = nullStringPtr(notes)
	f.CreatedAt = parseTime(createdAt)
	return &f, nil
}

func scanNutritionGoal(row rowScanner) (*models.NutritionGoal, error) {
	var g models.NutritionGoal
	var idStr, userID, createdAt string
	err := row.Scan(&idStr, &userID, &g.Calories, &g.Protein, &g.Carbs, &g.Fat, &g.WaterML,
		&g.IsActive, &createdAt)
	if err != nil {
		return nil, scanOne("nutrition goal", err)
	}
	g.ID, _ = uuid.Parse(idStr)
	g.UserID, _ = uuid.Parse(userID)
	g.CreatedAt = parseTime(createdAt)
	return &g, nil
}
