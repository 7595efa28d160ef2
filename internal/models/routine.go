// ABOUTME: Routine, RoutineStep and RoutineLog models.
// ABOUTME: A routine is an ordered step list; logs record each run of the player.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Routine is an ordered sequence of steps executed together.
type Routine struct {
	ID          uuid.UUID     `json:"id" yaml:"id"`
	UserID      uuid.UUID     `json:"user_id" yaml:"user_id"`
	Name        string        `json:"name" yaml:"name"`
	Description string        `json:"description,omitempty" yaml:"description,omitempty"`
	TimeOfDay   string        `json:"time_of_day,omitempty" yaml:"time_of_day,omitempty"`
	IsActive    bool          `json:"is_active" yaml:"is_active"`
	CreatedAt   time.Time     `json:"created_at" yaml:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at" yaml:"updated_at"`
	Steps       []RoutineStep `json:"steps" yaml:"steps"`
}

// NewRoutine creates an active routine with no steps.
func NewRoutine(userID uuid.UUID, name string) *Routine {
	now := time.Now()
	return &Routine{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      name,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AddStep appends a step at the next position.
func (r *Routine) AddStep(title string, durationMinutes int) *Routine {
	r.Steps = append(r.Steps, RoutineStep{
		ID:              uuid.New(),
		RoutineID:       r.ID,
		Position:        len(r.Steps),
		Title:           title,
		DurationMinutes: durationMinutes,
	})
	return r
}

// TotalMinutes sums the durations of all steps.
func (r *Routine) TotalMinutes() int {
	total := 0
	for _, s := range r.Steps {
		total += s.DurationMinutes
	}
	return total
}

// NormalizeSteps assigns IDs, routine ownership and contiguous positions.
func (r *Routine) NormalizeSteps() {
	for i := range r.Steps {
		if r.Steps[i].ID == uuid.Nil {
			r.Steps[i].ID = uuid.New()
		}
		r.Steps[i].RoutineID = r.ID
		r.Steps[i].Position = i
	}
}

// RoutineStep is one step in a routine.
type RoutineStep struct {
	ID              uuid.UUID `json:"id" yaml:"id"`
	RoutineID       uuid.UUID `json:"routine_id" yaml:"routine_id"`
	Position        int       `json:"position" yaml:"position"`
	Title           string    `json:"title" yaml:"title"`
	DurationMinutes int       `json:"duration_minutes" yaml:"duration_minutes"`
	Notes           string    `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// RoutineLogStatus is the status of a routine run.
type RoutineLogStatus string

const (
	RoutineInProgress RoutineLogStatus = "in_progress"
	RoutineCompleted  RoutineLogStatus = "completed"
	RoutineAbandoned  RoutineLogStatus = "abandoned"
)

// IsValidRoutineLogStatus checks if a string is a valid routine log status.
func IsValidRoutineLogStatus(s string) bool {
	switch RoutineLogStatus(s) {
	case RoutineInProgress, RoutineCompleted, RoutineAbandoned:
		return true
	}
	return false
}

// RoutineLog records one execution of a routine.
type RoutineLog struct {
	ID             uuid.UUID        `json:"id" yaml:"id"`
	RoutineID      uuid.UUID        `json:"routine_id" yaml:"routine_id"`
	UserID         uuid.UUID        `json:"user_id" yaml:"user_id"`
	StartedAt      time.Time        `json:"started_at" yaml:"started_at"`
	CompletedAt    *time.Time       `json:"completed_at,omitempty" yaml:"completed_at,omitempty"`
	CurrentStep    int              `json:"current_step" yaml:"current_step"`
	CompletedSteps int              `json:"completed_steps" yaml:"completed_steps"`
	TotalSteps     int              `json:"total_steps" yaml:"total_steps"`
	Status         RoutineLogStatus `json:"status" yaml:"status"`
	Notes          *string          `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// NewRoutineLog starts a run of the routine.
func NewRoutineLog(r *Routine) *RoutineLog {
	return &RoutineLog{
		ID:         uuid.New(),
		RoutineID:  r.ID,
		UserID:     r.UserID,
		StartedAt:  time.Now(),
		TotalSteps: len(r.Steps),
		Status:     RoutineInProgress,
	}
}

// Finish marks the run with a terminal status at the given time.
// Completing a run counts every step as done.
func (l *RoutineLog) Finish(status RoutineLogStatus, at time.Time) {
	l.Status = status
	l.CompletedAt = &at
	if status == RoutineCompleted {
		l.CompletedSteps = l.TotalSteps
		l.CurrentStep = l.TotalSteps
	}
}
