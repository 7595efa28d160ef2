// ABOUTME: Workout and Exercise storage operations.
// ABOUTME: Exercises are written with their workout and cascade on delete.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/birivibe/birivibe/internal/models"
	"github.com/google/uuid"
)

const workoutColumns = `id, user_id, workout_type, started_at, duration_minutes, calories_burned,
	notes, created_at`

// CreateWorkout stores a workout together with any exercises it carries.
func (d *DB) CreateWorkout(ctx context.Context, w *models.Workout) error {
	return d.withTx(ctx, func(tx *DB) error {
		_, err := tx.exec(ctx,
			`INSERT INTO workouts (`+workoutColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			w.ID.String(), w.UserID.String(), w.WorkoutType, fmtTime(w.StartedAt),
			w.DurationMinutes, w.CaloriesBurned, w.Notes, fmtTime(w.CreatedAt),
		)
		if err != nil {
			return fmt.Errorf("create workout: %w", err)
		}
		for i := range w.Exercises {
			e := &w.Exercises[i]
			if e.ID == uuid.Nil {
				e.ID = uuid.New()
			}
			e.WorkoutID = w.ID
			e.Position = i
			if err := tx.insertExercise(ctx, e); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetWorkout retrieves a workout with its exercises.
func (d *DB) GetWorkout(ctx context.Context, idOrPrefix string) (*models.Workout, error) {
	id, err := d.resolveID(ctx, "workouts", idOrPrefix)
	if err != nil {
		return nil, err
	}
	w, err := scanWorkout(d.queryRow(ctx, `SELECT `+workoutColumns+` FROM workouts WHERE id = ?`, id))
	if err != nil {
		return nil, err
	}
	exercises, err := d.ListExercises(ctx, w.ID)
	if err != nil {
		return nil, err
	}
	for _, e := range exercises {
		w.Exercises = append(w.Exercises, *e)
	}
	return w, nil
}

// ListWorkouts retrieves workouts with optional filtering by type.
// Results are sorted by StartedAt descending and carry no exercises.
func (d *DB) ListWorkouts(ctx context.Context, userID uuid.UUID, workoutType *string, opts ListOptions) ([]*models.Workout, error) {
	where := []string{"user_id = ?"}
	args := []any{userID.String()}
	if workoutType != nil {
		where = append(where, "LOWER(workout_type) = LOWER(?)")
		args = append(args, *workoutType)
	}
	where, args = opts.rangeClause("started_at", fmtTime, where, args)

	query := `SELECT ` + workoutColumns + ` FROM workouts WHERE ` +
		strings.Join(where, " AND ") + ` ORDER BY started_at DESC`
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := d.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}
	defer rows.Close()

	var workouts []*models.Workout
	for rows.Next() {
		w, err := scanWorkout(rows)
		if err != nil {
			return nil, err
		}
		workouts = append(workouts, w)
	}
	return workouts, rows.Err()
}

// DeleteWorkout removes a workout and all its exercises (cascade delete).
func (d *DB) DeleteWorkout(ctx context.Context, idOrPrefix string) error {
	return d.deleteByID(ctx, "workouts", "delete workout", idOrPrefix)
}

const exerciseColumns = `id, workout_id, position, name, sets, reps, weight_kg,
	duration_seconds, distance_km`

// AddExercise appends an exercise to its workout.
func (d *DB) AddExercise(ctx context.Context, e *models.Exercise) error {
	return d.withTx(ctx, func(tx *DB) error {
		var count int
		err := tx.queryRow(ctx, "SELECT COUNT(*) FROM workouts WHERE id = ?", e.WorkoutID.String()).Scan(&count)
		if err != nil {
			return fmt.Errorf("add exercise: %w", err)
		}
		if count == 0 {
			return fmt.Errorf("add exercise: workout %w", ErrNotFound)
		}

		var next int
		err = tx.queryRow(ctx,
			"SELECT COALESCE(MAX(position) + 1, 0) FROM exercises WHERE workout_id = ?",
			e.WorkoutID.String()).Scan(&next)
		if err != nil {
			return fmt.Errorf("add exercise: %w", err)
		}
		e.Position = next
		return tx.insertExercise(ctx, e)
	})
}

func (d *DB) insertExercise(ctx context.Context, e *models.Exercise) error {
	_, err := d.exec(ctx,
		`INSERT INTO exercises (`+exerciseColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID.String(), e.WorkoutID.String(), e.Position, e.Name, e.Sets, e.Reps,
		e.WeightKg, e.DurationSeconds, e.DistanceKm,
	)
	if err != nil {
		return fmt.Errorf("create exercise: %w", err)
	}
	return nil
}

// ListExercises returns a workout's exercises in order.
func (d *DB) ListExercises(ctx context.Context, workoutID uuid.UUID) ([]*models.Exercise, error) {
	rows, err := d.query(ctx,
		`SELECT `+exerciseColumns+` FROM exercises WHERE workout_id = ? ORDER BY position`,
		workoutID.String())
	if err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}
	defer rows.Close()

	var exercises []*models.Exercise
	for rows.Next() {
		var e models.Exercise
		var idStr, wid string
		var sets, reps, durationSeconds sql.NullInt64
		var weight, distance sql.NullFloat64
		err := rows.Scan(&idStr, &wid, &e.Position, &e.Name, &sets, &reps, &weight,
			&durationSeconds, &distance)
		if err != nil {
			return nil, fmt.Errorf("scan exercise: %w", err)
		}
		e.ID, _ = uuid.Parse(idStr)
		e.WorkoutID, _ = uuid.Parse(wid)
		e.Sets = nullIntPtr(sets)
		e.Reps = nullIntPtr(reps)
		e.WeightKg = nullFloatPtr(weight)
		e.DurationSeconds = nullIntPtr(durationSeconds)
		e.DistanceKm = nullFloatPtr(distance)
		exercises = append(exercises, &e)
	}
	return exercises, rows.Err()
}

// DeleteExercise removes an exercise from a workout.
func (d *DB) DeleteExercise(ctx context.Context, workoutID uuid.UUID, idOrPrefix string) error {
	id, err := d.resolveID(ctx, "exercises", idOrPrefix)
	if err != nil {
		return fmt.Errorf("delete exercise: %w", err)
	}
	return d.execAffected(ctx, "delete exercise",
		"DELETE FROM exercises WHERE id = ? AND workout_id = ?", id, workoutID.String())
}

func scanWorkout(row rowScanner) (*models.Workout, error) {
	var w models.Workout
	var idStr, userID, startedAt, createdAt string
	var duration sql.NullInt64
	var calories sql.NullFloat64
	var notes sql.NullString
	err := row.Scan(&idStr, &userID, &w.WorkoutType, &startedAt, &duration, &calories, &notes, &createdAt)
	if err != nil {
		return nil, scanOne("workout", err)
	}
	w.ID, _ = uuid.Parse(idStr)
	w.UserID, _ = uuid.Parse(userID)
	w.StartedAt = parseTime(startedAt)
	w.DurationMinutes = nullIntPtr(duration)
	w.CaloriesBurned = nullFloatPtr(calories)
	w.Notes = nullStringPtr(notes)
	w.CreatedAt = parseTime(createdAt)
	return &w, nil
}
