// ABOUTME: Writes the entries of a parsed free-text note through the repository.
// ABOUTME: Entries that cannot be recorded are reported as skipped, not failed.

package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/birivibe/birivibe/internal/ai"
	"github.com/birivibe/birivibe/internal/models"
	"github.com/birivibe/birivibe/internal/stats"
	"github.com/birivibe/birivibe/internal/storage"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Planner turns a note into entries. *ai.Parser implements it.
type Planner interface {
	Parse(ctx context.Context, text string, now time.Time) (*ai.IngestPlan, error)
}

// Created describes one record written for an entry.
type Created struct {
	Type    string    `json:"type"`
	ID      uuid.UUID `json:"id"`
	Summary string    `json:"summary"`
}

// Skipped is an entry that was not written and why.
type Skipped struct {
	Entry  ai.Entry `json:"entry"`
	Reason string   `json:"reason"`
}

// Result is the outcome of ingesting one note.
type Result struct {
	Created []Created `json:"created"`
	Skipped []Skipped `json:"skipped"`
}

// Service records parsed notes.
type Service struct {
	repo    storage.Repository
	planner Planner
	log     logrus.FieldLogger
	now     func() time.Time
}

// NewService creates an ingest service.
func NewService(repo storage.Repository, planner Planner, log logrus.FieldLogger) *Service {
	return &Service{repo: repo, planner: planner, log: log, now: time.Now}
}

// errSkip marks an entry that is not recordable.
type errSkip string

func (e errSkip) Error() string { return string(e) }

// Ingest parses text and writes each entry for userID. Storage failures
// abort the run; the records created before the failure remain.
func (s *Service) Ingest(ctx context.Context, userID uuid.UUID, text string) (*Result, error) {
	now := s.now()
	plan, err := s.planner.Parse(ctx, text, now)
	if err != nil {
		return nil, err
	}

	res := &Result{Created: []Created{}, Skipped: []Skipped{}}
	for _, e := range plan.Entries {
		c, err := s.record(ctx, userID, e, now)
		var skip errSkip
		switch {
		case errors.As(err, &skip):
			res.Skipped = append(res.Skipped, Skipped{Entry: e, Reason: string(skip)})
		case err != nil:
			return res, fmt.Errorf("ingest %s entry: %w", e.Type, err)
		default:
			res.Created = append(res.Created, *c)
		}
	}

	s.log.WithFields(logrus.Fields{
		"user":    userID,
		"created": len(res.Created),
		"skipped": len(res.Skipped),
	}).Info("ingested note")
	return res, nil
}

func (s *Service) record(ctx context.Context, userID uuid.UUID, e ai.Entry, now time.Time) (*Created, error) {
	switch e.Type {
	case ai.EntryFood:
		return s.recordFood(ctx, userID, e, now)
	case ai.EntryWeight:
		if e.WeightKg <= 0 {
			return nil, errSkip("weight_kg must be positive")
		}
		w := models.NewWeightLog(userID, e.WeightKg).WithRecordedAt(now)
		w.Notes = optional(e.Notes)
		if err := s.repo.CreateWeightLog(ctx, w); err != nil {
			return nil, err
		}
		return &Created{Type: e.Type, ID: w.ID, Summary: fmt.Sprintf("%.1f kg", w.WeightKg)}, nil
	case ai.EntrySleep:
		return s.recordSleep(ctx, userID, e, now)
	case ai.EntryMood:
		if e.Mood <= 0 {
			return nil, errSkip("mood rating missing")
		}
		m := models.NewMoodLog(userID, e.Mood)
		m.RecordedAt = now
		if e.Energy > 0 {
			m.WithEnergy(e.Energy)
		}
		m.Tags = e.Tags
		m.Notes = optional(e.Notes)
		if err := s.repo.CreateMoodLog(ctx, m); err != nil {
			return nil, err
		}
		return &Created{Type: e.Type, ID: m.ID, Summary: fmt.Sprintf("mood %d/10", m.Mood)}, nil
	case ai.EntryHabit:
		return s.recordHabit(ctx, userID, e, now)
	case ai.EntryTransaction:
		if !models.IsValidTransactionKind(e.Kind) {
			return nil, errSkip(fmt.Sprintf("invalid transaction kind %q", e.Kind))
		}
		if e.Amount <= 0 {
			return nil, errSkip("amount must be positive")
		}
		category := e.Category
		if category == "" {
			category = "other"
		}
		t := models.NewTransaction(userID, models.TransactionKind(e.Kind), e.Amount, category)
		t.Description = e.Description
		t.OccurredAt = now
		if err := s.repo.CreateTransaction(ctx, t); err != nil {
			return nil, err
		}
		return &Created{Type: e.Type, ID: t.ID, Summary: fmt.Sprintf("%s %.2f (%s)", t.Kind, t.Amount, t.Category)}, nil
	case ai.EntryWorkout:
		if strings.TrimSpace(e.WorkoutType) == "" {
			return nil, errSkip("workout_type missing")
		}
		w := models.NewWorkout(userID, e.WorkoutType).WithStartedAt(now)
		if e.DurationMinutes > 0 {
			w.WithDuration(e.DurationMinutes)
		}
		if e.CaloriesBurned > 0 {
			cal := e.CaloriesBurned
			w.CaloriesBurned = &cal
		}
		w.Notes = optional(e.Notes)
		if err := s.repo.CreateWorkout(ctx, w); err != nil {
			return nil, err
		}
		return &Created{Type: e.Type, ID: w.ID, Summary: w.WorkoutType}, nil
	default:
		return nil, errSkip(fmt.Sprintf("unknown entry type %q", e.Type))
	}
}

func (s *Service) recordFood(ctx context.Context, userID uuid.UUID, e ai.Entry, now time.Time) (*Created, error) {
	if strings.TrimSpace(e.Name) == "" {
		return nil, errSkip("food name missing")
	}
	f := models.NewFoodLog(userID, e.Name, e.Calories).
		WithMacros(e.Protein, e.Carbs, e.Fat).
		WithEatenAt(now)
	if models.IsValidMealType(e.MealType) {
		f.MealType = models.MealType(e.MealType)
	} else {
		f.MealType = models.MealTypeAt(now)
	}
	f.Quantity = e.Quantity
	f.Source = models.SourceAI
	f.Notes = optional(e.Notes)
	if err := s.repo.CreateFoodLog(ctx, f); err != nil {
		return nil, err
	}
	return &Created{Type: e.Type, ID: f.ID, Summary: fmt.Sprintf("%s (%.0f kcal)", f.Name, f.Calories)}, nil
}

func (s *Service) recordSleep(ctx context.Context, userID uuid.UUID, e ai.Entry, now time.Time) (*Created, error) {
	var bed, wake time.Time
	switch {
	case e.BedTime != "" && e.WakeTime != "":
		var err error
		if bed, err = clockOn(now, e.BedTime); err != nil {
			return nil, errSkip("invalid bed_time")
		}
		if wake, err = clockOn(now, e.WakeTime); err != nil {
			return nil, errSkip("invalid wake_time")
		}
		if bed.After(wake) {
			bed = bed.AddDate(0, 0, -1)
		}
	case e.Hours > 0:
		wake = now
		bed = now.Add(-time.Duration(e.Hours * float64(time.Hour)))
	default:
		return nil, errSkip("sleep needs bed_time and wake_time or hours")
	}

	if err := models.CheckSleepSpan(bed, wake); err != nil {
		return nil, errSkip("sleep longer than 24 hours")
	}
	sl := models.NewSleepLog(userID, bed, wake)
	if e.Quality > 0 {
		sl.WithQuality(e.Quality)
	}
	sl.Notes = optional(e.Notes)
	if err := s.repo.CreateSleepLog(ctx, sl); err != nil {
		return nil, err
	}
	return &Created{Type: e.Type, ID: sl.ID, Summary: fmt.Sprintf("%.1f h", sl.DurationHours)}, nil
}

func (s *Service) recordHabit(ctx context.Context, userID uuid.UUID, e ai.Entry, now time.Time) (*Created, error) {
	name := e.Habit
	if name == "" {
		name = e.Name
	}
	if strings.TrimSpace(name) == "" {
		return nil, errSkip("habit name missing")
	}

	habit, err := s.repo.FindHabitByName(ctx, userID, name)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, errSkip(fmt.Sprintf("no active habit named %q", name))
	}
	if err != nil {
		return nil, err
	}

	l := models.NewHabitLog(habit, stats.DayKey(now))
	l.Notes = optional(e.Notes)
	logged, err := s.repo.LogHabit(ctx, l)
	if err != nil {
		return nil, err
	}
	return &Created{Type: e.Type, ID: logged.ID, Summary: habit.Name}, nil
}

// clockOn returns the HH:MM clock time on day's date.
func clockOn(day time.Time, clock string) (time.Time, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(clock))
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := day.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, day.Location()), nil
}

func optional(s string) *string {
	if s = strings.TrimSpace(s); s == "" {
		return nil
	}
	return &s
}
