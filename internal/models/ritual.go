// ABOUTME: Ritual model for low-frequency review activities.
// ABOUTME: Completing a ritual schedules the next due date by its frequency.
package models

import (
	"time"

	"github.com/google/uuid"
)

// RitualFrequency is how often a ritual recurs.
type RitualFrequency string

const (
	RitualWeekly    RitualFrequency = "weekly"
	RitualBiweekly  RitualFrequency = "biweekly"
	RitualMonthly   RitualFrequency = "monthly"
	RitualQuarterly RitualFrequency = "quarterly"
	RitualYearly    RitualFrequency = "yearly"
)

// IsValidRitualFrequency checks if a string is a valid ritual frequency.
func IsValidRitualFrequency(s string) bool {
	switch RitualFrequency(s) {
	case RitualWeekly, RitualBiweekly, RitualMonthly, RitualQuarterly, RitualYearly:
		return true
	}
	return false
}

// Next returns t advanced by one period.
func (f RitualFrequency) Next(t time.Time) time.Time {
	switch f {
	case RitualBiweekly:
		return t.AddDate(0, 0, 14)
	case RitualMonthly:
		return t.AddDate(0, 1, 0)
	case RitualQuarterly:
		return t.AddDate(0, 3, 0)
	case RitualYearly:
		return t.AddDate(1, 0, 0)
	default:
		return t.AddDate(0, 0, 7)
	}
}

// Ritual is a recurring review (weekly review, monthly finances) with a checklist.
type Ritual struct {
	ID              uuid.UUID       `json:"id" yaml:"id"`
	UserID          uuid.UUID       `json:"user_id" yaml:"user_id"`
	Name            string          `json:"name" yaml:"name"`
	Description     string          `json:"description,omitempty" yaml:"description,omitempty"`
	Frequency       RitualFrequency `json:"frequency" yaml:"frequency"`
	Checklist       []string        `json:"checklist" yaml:"checklist"`
	LastCompletedAt *time.Time      `json:"last_completed_at,omitempty" yaml:"last_completed_at,omitempty"`
	NextDueAt       *time.Time      `json:"next_due_at,omitempty" yaml:"next_due_at,omitempty"`
	IsActive        bool            `json:"is_active" yaml:"is_active"`
	CreatedAt       time.Time       `json:"created_at" yaml:"created_at"`
}

// NewRitual creates an active ritual due one period from now.
func NewRitual(userID uuid.UUID, name string, freq RitualFrequency) *Ritual {
	now := time.Now()
	next := freq.Next(now)
	return &Ritual{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      name,
		Frequency: freq,
		Checklist: []string{},
		NextDueAt: &next,
		IsActive:  true,
		CreatedAt: now,
	}
}

// Complete records a completion and schedules the next one.
func (r *Ritual) Complete(at time.Time) {
	next := r.Frequency.Next(at)
	r.LastCompletedAt = &at
	r.NextDueAt = &next
}

// IsDue reports whether the ritual is due at now.
func (r *Ritual) IsDue(now time.Time) bool {
	return r.IsActive && r.NextDueAt != nil && !r.NextDueAt.After(now)
}
