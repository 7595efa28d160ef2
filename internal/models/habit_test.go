// ABOUTME: Tests for Habit, HabitLog and Routine models.
// ABOUTME: Covers defaults, frequency validation and routine step handling.
package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewHabit(t *testing.T) {
	uid := uuid.New()
	h := NewHabit(uid, "Read").WithDescription("20 pages")

	if h.ID == uuid.Nil {
		t.Error("expected UUID to be set")
	}
	if h.Frequency != FrequencyDaily {
		t.Errorf("Frequency = %s, want daily", h.Frequency)
	}
	if h.TargetPerPeriod != 1 {
		t.Errorf("TargetPerPeriod = %d, want 1", h.TargetPerPeriod)
	}
	if !h.IsActive {
		t.Error("expected new habit to be active")
	}
	if h.Description != "20 pages" {
		t.Errorf("Description = %q", h.Description)
	}
}

func TestIsValidFrequency(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"daily", true},
		{"weekly", true},
		{"monthly", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsValidFrequency(tt.in); got != tt.want {
			t.Errorf("IsValidFrequency(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewHabitLog(t *testing.T) {
	h := NewHabit(uuid.New(), "Meditate")
	l := NewHabitLog(h, "2026-01-15").WithNotes("calm").WithValue(10)

	if l.HabitID != h.ID || l.UserID != h.UserID {
		t.Error("expected log to reference habit and its user")
	}
	if !l.Completed {
		t.Error("expected log to be completed")
	}
	if l.Notes == nil || *l.Notes != "calm" {
		t.Error("expected notes to be set")
	}
	if l.Value == nil || *l.Value != 10 {
		t.Error("expected value to be 10")
	}
}

func TestRoutineSteps(t *testing.T) {
	r := NewRoutine(uuid.New(), "Morning").
		AddStep("Stretch", 5).
		AddStep("Journal", 10)

	if len(r.Steps) != 2 {
		t.Fatalf("got %d steps, want 2", len(r.Steps))
	}
	if r.Steps[1].Position != 1 {
		t.Errorf("Position = %d, want 1", r.Steps[1].Position)
	}
	if r.TotalMinutes() != 15 {
		t.Errorf("TotalMinutes() = %d, want 15", r.TotalMinutes())
	}

	r.Steps = []RoutineStep{{Title: "Coffee"}, r.Steps[0]}
	r.NormalizeSteps()
	for i, s := range r.Steps {
		if s.Position != i {
			t.Errorf("step %d Position = %d", i, s.Position)
		}
		if s.ID == uuid.Nil {
			t.Errorf("step %d has no ID", i)
		}
		if s.RoutineID != r.ID {
			t.Errorf("step %d RoutineID mismatch", i)
		}
	}
}

func TestRoutineLogFinish(t *testing.T) {
	r := NewRoutine(uuid.New(), "Evening").AddStep("Read", 20).AddStep("Lights out", 1)
	l := NewRoutineLog(r)

	if l.TotalSteps != 2 || l.Status != RoutineInProgress {
		t.Fatalf("unexpected new log: %+v", l)
	}

	at := time.Date(2026, 1, 15, 22, 0, 0, 0, time.UTC)
	l.Finish(RoutineCompleted, at)
	if l.CompletedSteps != 2 || l.CurrentStep != 2 {
		t.Errorf("completed log steps = %d/%d, want 2/2", l.CompletedSteps, l.CurrentStep)
	}
	if l.CompletedAt == nil || !l.CompletedAt.Equal(at) {
		t.Error("expected CompletedAt to be set")
	}

	l2 := NewRoutineLog(r)
	l2.CompletedSteps = 1
	l2.Finish(RoutineAbandoned, at)
	if l2.CompletedSteps != 1 {
		t.Errorf("abandoned CompletedSteps = %d, want 1", l2.CompletedSteps)
	}
	if !IsValidRoutineLogStatus("abandoned") || IsValidRoutineLogStatus("paused") {
		t.Error("IsValidRoutineLogStatus mismatch")
	}
}
