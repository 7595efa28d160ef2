// ABOUTME: Data migration between storage backends.
// ABOUTME: Copies every entity from a source repository into a destination.
package storage

import (
	"context"
	"fmt"
)

// MigrateSummary holds counts of migrated entities.
type MigrateSummary struct {
	Users        int `json:"users"`
	Habits       int `json:"habits"`
	HabitLogs    int `json:"habit_logs"`
	Routines     int `json:"routines"`
	RoutineLogs  int `json:"routine_logs"`
	Goals        int `json:"goals"`
	FoodLogs     int `json:"food_logs"`
	WeightLogs   int `json:"weight_logs"`
	SleepLogs    int `json:"sleep_logs"`
	MoodLogs     int `json:"mood_logs"`
	Transactions int `json:"transactions"`
	Workouts     int `json:"workouts"`
	Exercises    int `json:"exercises"`
	Rituals      int `json:"rituals"`
	Contexts     int `json:"contexts"`
	Automations  int `json:"automations"`
}

// Summary counts the records in an export.
func (e *ExportData) Summary() *MigrateSummary {
	summary := &MigrateSummary{
		Users:        len(e.Users),
		Habits:       len(e.Habits),
		HabitLogs:    len(e.HabitLogs),
		Routines:     len(e.Routines),
		RoutineLogs:  len(e.RoutineLogs),
		Goals:        len(e.Goals),
		FoodLogs:     len(e.FoodLogs),
		WeightLogs:   len(e.WeightLogs),
		SleepLogs:    len(e.SleepLogs),
		MoodLogs:     len(e.MoodLogs),
		Transactions: len(e.Transactions),
		Workouts:     len(e.Workouts),
		Rituals:      len(e.Rituals),
		Contexts:     len(e.Contexts),
		Automations:  len(e.Automations),
	}
	for _, w := range e.Workouts {
		summary.Exercises += len(w.Exercises)
	}
	return summary
}

// MigrateData copies all data from src to dst storage. The destination
// import runs in one transaction, so a failed migration leaves dst unchanged.
func MigrateData(ctx context.Context, src, dst Repository) (*MigrateSummary, error) {
	data, err := src.GetAllData(ctx)
	if err != nil {
		return nil, fmt.Errorf("read source data: %w", err)
	}

	if err := dst.ImportData(ctx, data); err != nil {
		return nil, fmt.Errorf("write destination data: %w", err)
	}
	return data.Summary(), nil
}
