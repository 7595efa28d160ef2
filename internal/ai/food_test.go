// ABOUTME: Tests for meal analysis and note parsing with a stub model.
package ai

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/birivibe/birivibe/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubModel struct {
	reply   string
	err     error
	prompts []string
}

func (s *stubModel) Generate(_ context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	return s.reply, s.err
}

func TestAnalyzeFoodFenced(t *testing.T) {
	model := &stubModel{reply: "```json\n" + `{
		"items": [
			{"name": "eggs", "quantity": "2", "calories": 140, "protein": 12, "carbs": 1, "fat": 10},
			{"name": "toast", "quantity": "1 slice", "calories": 80, "protein": 3, "carbs": 15, "fat": 1}
		],
		"meal_type": "breakfast"
	}` + "\n```"}

	analysis, err := NewFoodAnalyzer(model).AnalyzeFood(context.Background(), "two eggs and toast")
	require.NoError(t, err)
	require.Len(t, analysis.Items, 2)
	assert.Equal(t, 220.0, analysis.Total.Calories)
	assert.Equal(t, 15.0, analysis.Total.Protein)
	assert.Equal(t, 16.0, analysis.Total.Carbs)
	assert.Equal(t, 11.0, analysis.Total.Fat)
	assert.Contains(t, model.prompts[0], "two eggs and toast")
}

func TestAnalyzeFoodKeepsModelTotals(t *testing.T) {
	model := &stubModel{reply: `{"items":[{"name":"apple","calories":95}],"total":{"calories":100}}`}

	analysis, err := NewFoodAnalyzer(model).AnalyzeFood(context.Background(), "an apple")
	require.NoError(t, err)
	assert.Equal(t, 100.0, analysis.Total.Calories)
}

func TestAnalyzeFoodMalformed(t *testing.T) {
	model := &stubModel{reply: "Sorry, I can't help with that."}

	_, err := NewFoodAnalyzer(model).AnalyzeFood(context.Background(), "mystery")
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestAnalyzeFoodEmpty(t *testing.T) {
	model := &stubModel{}
	_, err := NewFoodAnalyzer(model).AnalyzeFood(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyInput)
	assert.Empty(t, model.prompts)
}

func TestAnalyzeFoodModelError(t *testing.T) {
	model := &stubModel{err: ErrNoAPIKey}
	_, err := NewFoodAnalyzer(model).AnalyzeFood(context.Background(), "rice")
	assert.True(t, errors.Is(err, ErrNoAPIKey))
}

func TestFoodLogs(t *testing.T) {
	userID := uuid.New()
	at := time.Date(2026, 1, 10, 13, 0, 0, 0, time.Local)
	analysis := &FoodAnalysis{Items: []FoodItem{
		{Name: "rice", Quantity: "1 cup", Calories: 200, Carbs: 45},
		{Name: "chicken", Calories: 250, Protein: 40},
	}}

	logs := analysis.FoodLogs(userID, at)
	require.Len(t, logs, 2)
	for _, l := range logs {
		assert.Equal(t, userID, l.UserID)
		assert.Equal(t, models.SourceAI, l.Source)
		assert.Equal(t, models.MealLunch, l.MealType)
		assert.True(t, l.EatenAt.Equal(at))
	}
	assert.Equal(t, "1 cup", logs[0].Quantity)
	assert.Equal(t, 40.0, logs[1].Protein)
}

func TestParse(t *testing.T) {
	model := &stubModel{reply: `{"entries":[
		{"type":"Weight","weight_kg":81.2},
		{"type":"habit","habit":"Meditate"},
		{"type":"transaction","kind":"expense","amount":12.5,"category":"food"}
	]}`}
	now := time.Date(2026, 1, 10, 9, 0, 0, 0, time.Local)

	plan, err := NewParser(model).Parse(context.Background(), "weighed 81.2, meditated, lunch 12.50", now)
	require.NoError(t, err)
	require.Len(t, plan.Entries, 3)
	assert.Equal(t, EntryWeight, plan.Entries[0].Type)
	assert.Equal(t, 81.2, plan.Entries[0].WeightKg)
	assert.Equal(t, "Meditate", plan.Entries[1].Habit)
	assert.Equal(t, 12.5, plan.Entries[2].Amount)
	assert.Contains(t, model.prompts[0], "2026-01-10")
}

func TestParseMalformed(t *testing.T) {
	model := &stubModel{reply: "entries: none"}
	_, err := NewParser(model).Parse(context.Background(), "hello", time.Now())
	assert.ErrorIs(t, err, ErrMalformedResponse)
}
