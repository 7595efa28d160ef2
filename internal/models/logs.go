// ABOUTME: Body and mind log models: weight, sleep and mood.
// ABOUTME: Sleep duration is derived from bed and wake times.
package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ClampScale bounds a 1..10 rating.
func ClampScale(v int) int {
	if v < 1 {
		return 1
	}
	if v > 10 {
		return 10
	}
	return v
}

// WeightLog is one body weight measurement.
type WeightLog struct {
	ID         uuid.UUID `json:"id" yaml:"id"`
	UserID     uuid.UUID `json:"user_id" yaml:"user_id"`
	WeightKg   float64   `json:"weight_kg" yaml:"weight_kg"`
	BodyFat    *float64  `json:"body_fat,omitempty" yaml:"body_fat,omitempty"`
	RecordedAt time.Time `json:"recorded_at" yaml:"recorded_at"`
	Notes      *string   `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// NewWeightLog creates a weight log recorded now.
func NewWeightLog(userID uuid.UUID, kg float64) *WeightLog {
	return &WeightLog{
		ID:         uuid.New(),
		UserID:     userID,
		WeightKg:   kg,
		RecordedAt: time.Now(),
	}
}

// WithRecordedAt sets a custom recorded_at timestamp.
func (w *WeightLog) WithRecordedAt(t time.Time) *WeightLog {
	w.RecordedAt = t
	return w
}

// SleepLog is one night of sleep.
type SleepLog struct {
	ID            uuid.UUID `json:"id" yaml:"id"`
	UserID        uuid.UUID `json:"user_id" yaml:"user_id"`
	BedTime       time.Time `json:"bed_time" yaml:"bed_time"`
	WakeTime      time.Time `json:"wake_time" yaml:"wake_time"`
	DurationHours float64   `json:"duration_hours" yaml:"duration_hours"`
	Quality       *int      `json:"quality,omitempty" yaml:"quality,omitempty"`
	Notes         *string   `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// MaxSleepSpan bounds how far apart bed and wake times may be.
const MaxSleepSpan = 24 * time.Hour

// ErrSleepSpan is returned for bed and wake times more than a day apart.
var ErrSleepSpan = errors.New("wake_time must be within 24 hours of bed_time")

// CheckSleepSpan rejects bed and wake times that cannot describe one sleep.
// A wake time up to a day before the bed time is read as the next morning.
func CheckSleepSpan(bed, wake time.Time) error {
	d := wake.Sub(bed)
	if d <= -MaxSleepSpan || d > MaxSleepSpan {
		return ErrSleepSpan
	}
	return nil
}

// NewSleepLog creates a sleep log and derives its duration. A wake time
// before the bed time is moved to the following day.
func NewSleepLog(userID uuid.UUID, bed, wake time.Time) *SleepLog {
	if wake.Before(bed) {
		wake = wake.Add(24 * time.Hour)
	}
	s := &SleepLog{
		ID:       uuid.New(),
		UserID:   userID,
		BedTime:  bed,
		WakeTime: wake,
	}
	s.ComputeDuration()
	return s
}

// ComputeDuration sets DurationHours from bed and wake times, wrapping a
// wake time before the bed time by one day. Bed and wake are left as is.
func (s *SleepLog) ComputeDuration() {
	d := s.WakeTime.Sub(s.BedTime)
	if d < 0 {
		d += 24 * time.Hour
	}
	s.DurationHours = float64(d.Round(time.Minute)) / float64(time.Hour)
}

// WithQuality sets a 1..10 sleep quality rating.
func (s *SleepLog) WithQuality(q int) *SleepLog {
	q = ClampScale(q)
	s.Quality = &q
	return s
}

// MoodLog is a point-in-time mood and energy check-in.
type MoodLog struct {
	ID         uuid.UUID `json:"id" yaml:"id"`
	UserID     uuid.UUID `json:"user_id" yaml:"user_id"`
	Mood       int       `json:"mood" yaml:"mood"`
	Energy     *int      `json:"energy,omitempty" yaml:"energy,omitempty"`
	Tags       []string  `json:"tags,omitempty" yaml:"tags,omitempty"`
	Notes      *string   `json:"notes,omitempty" yaml:"notes,omitempty"`
	RecordedAt time.Time `json:"recorded_at" yaml:"recorded_at"`
}

// NewMoodLog creates a mood log recorded now with the mood clamped to 1..10.
func NewMoodLog(userID uuid.UUID, mood int) *MoodLog {
	return &MoodLog{
		ID:         uuid.New(),
		UserID:     userID,
		Mood:       ClampScale(mood),
		RecordedAt: time.Now(),
	}
}

// WithEnergy sets a 1..10 energy rating.
func (m *MoodLog) WithEnergy(e int) *MoodLog {
	e = ClampScale(e)
	m.Energy = &e
	return m
}
