// ABOUTME: Turns a free-text meal description into itemized nutrition estimates.

package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/birivibe/birivibe/internal/models"
	"github.com/google/uuid"
)

const foodPrompt = `You are a nutrition assistant. Estimate the nutrition of the meal below.
Respond with JSON only, no prose, in this shape:
{"items":[{"name":"","quantity":"","calories":0,"protein":0,"carbs":0,"fat":0}],
 "total":{"calories":0,"protein":0,"carbs":0,"fat":0},
 "meal_type":"breakfast|lunch|dinner|snack"}
Protein, carbs and fat are grams.

Meal: %s`

// FoodItem is one estimated food in a meal.
type FoodItem struct {
	Name     string  `json:"name"`
	Quantity string  `json:"quantity,omitempty"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// Macros is a calorie and macronutrient total.
type Macros struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

func (m Macros) isZero() bool {
	return m.Calories == 0 && m.Protein == 0 && m.Carbs == 0 && m.Fat == 0
}

// FoodAnalysis is the model's breakdown of a meal.
type FoodAnalysis struct {
	Items    []FoodItem `json:"items"`
	Total    Macros     `json:"total"`
	MealType string     `json:"meal_type,omitempty"`
}

// Recompute sums item macros into Total.
func (a *FoodAnalysis) Recompute() {
	var t Macros
	for _, it := range a.Items {
		t.Calories += it.Calories
		t.Protein += it.Protein
		t.Carbs += it.Carbs
		t.Fat += it.Fat
	}
	a.Total = t
}

// FoodLogs converts each item into an AI-sourced food log eaten at at.
func (a *FoodAnalysis) FoodLogs(userID uuid.UUID, at time.Time) []*models.FoodLog {
	meal := models.MealType(a.MealType)
	if !models.IsValidMealType(a.MealType) {
		meal = models.MealTypeAt(at)
	}

	logs := make([]*models.FoodLog, 0, len(a.Items))
	for _, it := range a.Items {
		f := models.NewFoodLog(userID, it.Name, it.Calories).
			WithMacros(it.Protein, it.Carbs, it.Fat).
			WithEatenAt(at)
		f.MealType = meal
		f.Quantity = it.Quantity
		f.Source = models.SourceAI
		logs = append(logs, f)
	}
	return logs
}

// FoodAnalyzer estimates nutrition with a Model.
type FoodAnalyzer struct {
	model Model
}

// NewFoodAnalyzer creates an analyzer backed by model.
func NewFoodAnalyzer(model Model) *FoodAnalyzer {
	return &FoodAnalyzer{model: model}
}

// AnalyzeFood asks the model for an itemized estimate of description.
// Totals are recomputed from the items when the model omits them.
func (a *FoodAnalyzer) AnalyzeFood(ctx context.Context, description string) (*FoodAnalysis, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, ErrEmptyInput
	}

	text, err := a.model.Generate(ctx, fmt.Sprintf(foodPrompt, description))
	if err != nil {
		return nil, fmt.Errorf("analyze food: %w", err)
	}

	var analysis FoodAnalysis
	if err := DecodeJSON(text, &analysis); err != nil {
		return nil, fmt.Errorf("analyze food: %w", err)
	}
	if analysis.Total.isZero() {
		analysis.Recompute()
	}
	return &analysis, nil
}
