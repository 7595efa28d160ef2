// ABOUTME: Workout and Exercise models for exercise tracking.
// ABOUTME: Workouts contain ordered exercises with sets, reps, weight or distance.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Workout represents an exercise session.
type Workout struct {
	ID              uuid.UUID  `json:"id" yaml:"id"`
	UserID          uuid.UUID  `json:"user_id" yaml:"user_id"`
	WorkoutType     string     `json:"workout_type" yaml:"workout_type"`
	StartedAt       time.Time  `json:"started_at" yaml:"started_at"`
	DurationMinutes *int       `json:"duration_minutes,omitempty" yaml:"duration_minutes,omitempty"`
	CaloriesBurned  *float64   `json:"calories_burned,omitempty" yaml:"calories_burned,omitempty"`
	Notes           *string    `json:"notes,omitempty" yaml:"notes,omitempty"`
	CreatedAt       time.Time  `json:"created_at" yaml:"created_at"`
	Exercises       []Exercise `json:"exercises" yaml:"exercises"` // Populated when fetching full workout
}

// NewWorkout creates a new Workout with generated UUID and current timestamp.
func NewWorkout(userID uuid.UUID, workoutType string) *Workout {
	now := time.Now()
	return &Workout{
		ID:          uuid.New(),
		UserID:      userID,
		WorkoutType: workoutType,
		StartedAt:   now,
		CreatedAt:   now,
	}
}

// WithDuration sets the duration in minutes.
func (w *Workout) WithDuration(minutes int) *Workout {
	w.DurationMinutes = &minutes
	return w
}

// WithNotes sets notes on the workout.
func (w *Workout) WithNotes(notes string) *Workout {
	w.Notes = &notes
	return w
}

// WithStartedAt sets a custom start timestamp.
func (w *Workout) WithStartedAt(t time.Time) *Workout {
	w.StartedAt = t
	return w
}

// Exercise is one movement within a workout.
type Exercise struct {
	ID              uuid.UUID `json:"id" yaml:"id"`
	WorkoutID       uuid.UUID `json:"workout_id" yaml:"workout_id"`
	Position        int       `json:"position" yaml:"position"`
	Name            string    `json:"name" yaml:"name"`
	Sets            *int      `json:"sets,omitempty" yaml:"sets,omitempty"`
	Reps            *int      `json:"reps,omitempty" yaml:"reps,omitempty"`
	WeightKg        *float64  `json:"weight_kg,omitempty" yaml:"weight_kg,omitempty"`
	DurationSeconds *int      `json:"duration_seconds,omitempty" yaml:"duration_seconds,omitempty"`
	DistanceKm      *float64  `json:"distance_km,omitempty" yaml:"distance_km,omitempty"`
}

// NewExercise creates an exercise for the workout.
func NewExercise(workoutID uuid.UUID, name string) *Exercise {
	return &Exercise{
		ID:        uuid.New(),
		WorkoutID: workoutID,
		Name:      name,
	}
}

// WithSetsReps sets sets, reps and optional load.
func (e *Exercise) WithSetsReps(sets, reps int, weightKg float64) *Exercise {
	e.Sets = &sets
	e.Reps = &reps
	if weightKg > 0 {
		e.WeightKg = &weightKg
	}
	return e
}

// Volume returns sets × reps × weight, or 0 when any is missing.
func (e *Exercise) Volume() float64 {
	if e.Sets == nil || e.Reps == nil || e.WeightKg == nil {
		return 0
	}
	return float64(*e.Sets) * float64(*e.Reps) * *e.WeightKg
}
