// ABOUTME: Habit and HabitLog models for recurring activity tracking.
// ABOUTME: A habit log is keyed by calendar day, one per habit per day.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Frequency is how often a habit is expected to be completed.
type Frequency string

const (
	FrequencyDaily  Frequency = "daily"
	FrequencyWeekly Frequency = "weekly"
)

// IsValidFrequency checks if a string is a valid habit frequency.
func IsValidFrequency(s string) bool {
	return s == string(FrequencyDaily) || s == string(FrequencyWeekly)
}

// Habit is a user-defined recurring activity.
type Habit struct {
	ID              uuid.UUID `json:"id" yaml:"id"`
	UserID          uuid.UUID `json:"user_id" yaml:"user_id"`
	Name            string    `json:"name" yaml:"name"`
	Description     string    `json:"description,omitempty" yaml:"description,omitempty"`
	Frequency       Frequency `json:"frequency" yaml:"frequency"`
	TargetPerPeriod int       `json:"target_per_period" yaml:"target_per_period"`
	Color           string    `json:"color,omitempty" yaml:"color,omitempty"`
	Icon            string    `json:"icon,omitempty" yaml:"icon,omitempty"`
	IsActive        bool      `json:"is_active" yaml:"is_active"`
	CreatedAt       time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" yaml:"updated_at"`
}

// NewHabit creates an active daily habit with a target of one completion.
func NewHabit(userID uuid.UUID, name string) *Habit {
	now := time.Now()
	return &Habit{
		ID:              uuid.New(),
		UserID:          userID,
		Name:            name,
		Frequency:       FrequencyDaily,
		TargetPerPeriod: 1,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// WithDescription sets the habit description.
func (h *Habit) WithDescription(desc string) *Habit {
	h.Description = desc
	return h
}

// WithFrequency sets the habit frequency.
func (h *Habit) WithFrequency(f Frequency) *Habit {
	h.Frequency = f
	return h
}

// HabitLog records completion of a habit on one calendar day.
type HabitLog struct {
	ID        uuid.UUID `json:"id" yaml:"id"`
	HabitID   uuid.UUID `json:"habit_id" yaml:"habit_id"`
	UserID    uuid.UUID `json:"user_id" yaml:"user_id"`
	Date      string    `json:"date" yaml:"date"` // YYYY-MM-DD
	Completed bool      `json:"completed" yaml:"completed"`
	Value     *float64  `json:"value,omitempty" yaml:"value,omitempty"`
	Notes     *string   `json:"notes,omitempty" yaml:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// NewHabitLog creates a completed log for the given day.
func NewHabitLog(habit *Habit, day string) *HabitLog {
	return &HabitLog{
		ID:        uuid.New(),
		HabitID:   habit.ID,
		UserID:    habit.UserID,
		Date:      day,
		Completed: true,
		CreatedAt: time.Now(),
	}
}

// WithNotes sets notes on the log.
func (l *HabitLog) WithNotes(notes string) *HabitLog {
	l.Notes = &notes
	return l
}

// WithValue sets a numeric value on the log (pages read, glasses of water).
func (l *HabitLog) WithValue(v float64) *HabitLog {
	l.Value = &v
	return l
}
