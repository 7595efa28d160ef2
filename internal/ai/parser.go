// ABOUTME: Parses a free-text journal note into typed entries to record.
// ABOUTME: The plan is data only; writing it is the ingest package's job.

package ai

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Entry types a plan can contain.
const (
	EntryFood        = "food"
	EntryWeight      = "weight"
	EntrySleep       = "sleep"
	EntryMood        = "mood"
	EntryHabit       = "habit"
	EntryTransaction = "transaction"
	EntryWorkout     = "workout"
)

const ingestPrompt = `You extract life-tracking records from a personal note.
Today is %s (%s). Respond with JSON only, no prose, in this shape:
{"entries":[{"type":"food|weight|sleep|mood|habit|transaction|workout", ...}]}

Fields per type:
- food: name, quantity, meal_type (breakfast|lunch|dinner|snack), calories, protein, carbs, fat
- weight: weight_kg
- sleep: bed_time and wake_time as HH:MM, or hours; quality 1-10
- mood: mood 1-10, energy 1-10, tags
- habit: habit (the habit name)
- transaction: kind (income|expense), amount, category, description
- workout: workout_type, duration_minutes, calories_burned
Any entry may carry notes. Omit anything the note does not mention.

Note: %s`

// Entry is one record the model extracted. Only the fields for Type are set.
type Entry struct {
	Type  string `json:"type"`
	Notes string `json:"notes,omitempty"`

	Name     string  `json:"name,omitempty"`
	Quantity string  `json:"quantity,omitempty"`
	MealType string  `json:"meal_type,omitempty"`
	Calories float64 `json:"calories,omitempty"`
	Protein  float64 `json:"protein,omitempty"`
	Carbs    float64 `json:"carbs,omitempty"`
	Fat      float64 `json:"fat,omitempty"`

	WeightKg float64 `json:"weight_kg,omitempty"`

	BedTime  string  `json:"bed_time,omitempty"`
	WakeTime string  `json:"wake_time,omitempty"`
	Hours    float64 `json:"hours,omitempty"`
	Quality  int     `json:"quality,omitempty"`

	Mood   int      `json:"mood,omitempty"`
	Energy int      `json:"energy,omitempty"`
	Tags   []string `json:"tags,omitempty"`

	Habit string `json:"habit,omitempty"`

	Kind        string  `json:"kind,omitempty"`
	Amount      float64 `json:"amount,omitempty"`
	Category    string  `json:"category,omitempty"`
	Description string  `json:"description,omitempty"`

	WorkoutType     string  `json:"workout_type,omitempty"`
	DurationMinutes int     `json:"duration_minutes,omitempty"`
	CaloriesBurned  float64 `json:"calories_burned,omitempty"`
}

// IngestPlan is the ordered list of entries extracted from one note.
type IngestPlan struct {
	Entries []Entry `json:"entries"`
}

// Parser extracts an IngestPlan from free text with a Model.
type Parser struct {
	model Model
}

// NewParser creates a parser backed by model.
func NewParser(model Model) *Parser {
	return &Parser{model: model}
}

// Parse asks the model to extract entries from text. Entry types are
// normalized to lower case; now anchors relative dates in the prompt.
func (p *Parser) Parse(ctx context.Context, text string, now time.Time) (*IngestPlan, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyInput
	}

	prompt := fmt.Sprintf(ingestPrompt, now.Format("2006-01-02"), now.Weekday(), text)
	out, err := p.model.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("parse note: %w", err)
	}

	var plan IngestPlan
	if err := DecodeJSON(out, &plan); err != nil {
		return nil, fmt.Errorf("parse note: %w", err)
	}
	for i := range plan.Entries {
		plan.Entries[i].Type = strings.ToLower(strings.TrimSpace(plan.Entries[i].Type))
	}
	return &plan, nil
}
