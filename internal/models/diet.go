// ABOUTME: FoodLog and NutritionGoal models for diet tracking.
// ABOUTME: Includes meal types and the default goal used when none is set.
package models

import (
	"time"

	"github.com/google/uuid"
)

// MealType classifies a food log entry.
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
)

// AllMealTypes lists valid meal types in display order.
var AllMealTypes = []MealType{MealBreakfast, MealLunch, MealDinner, MealSnack}

// IsValidMealType checks if a string is a valid meal type.
func IsValidMealType(s string) bool {
	for _, mt := range AllMealTypes {
		if string(mt) == s {
			return true
		}
	}
	return false
}

// MealTypeAt guesses a meal type from the hour of day.
func MealTypeAt(t time.Time) MealType {
	switch h := t.Hour(); {
	case h >= 4 && h < 11:
		return MealBreakfast
	case h >= 11 && h < 16:
		return MealLunch
	case h >= 17 && h < 22:
		return MealDinner
	default:
		return MealSnack
	}
}

// Food log sources.
const (
	SourceManual = "manual"
	SourceAI     = "ai"
)

// FoodLog is one eaten item with its macronutrients.
type FoodLog struct {
	ID        uuid.UUID `json:"id" yaml:"id"`
	UserID    uuid.UUID `json:"user_id" yaml:"user_id"`
	Name      string    `json:"name" yaml:"name"`
	MealType  MealType  `json:"meal_type" yaml:"meal_type"`
	Quantity  string    `json:"quantity,omitempty" yaml:"quantity,omitempty"`
	Calories  float64   `json:"calories" yaml:"calories"`
	Protein   float64   `json:"protein" yaml:"protein"`
	Carbs     float64   `json:"carbs" yaml:"carbs"`
	Fat       float64   `json:"fat" yaml:"fat"`
	Source    string    `json:"source" yaml:"source"`
	EatenAt   time.Time `json:"eaten_at" yaml:"eaten_at"`
	Notes     *string   `json:"notes,omitempty" yaml:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// NewFoodLog creates a manual food log eaten now.
func NewFoodLog(userID uuid.UUID, name string, calories float64) *FoodLog {
	now := time.Now()
	return &FoodLog{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      name,
		MealType:  MealTypeAt(now),
		Calories:  calories,
		Source:    SourceManual,
		EatenAt:   now,
		CreatedAt: now,
	}
}

// WithMacros sets protein, carbs and fat in grams.
func (f *FoodLog) WithMacros(protein, carbs, fat float64) *FoodLog {
	f.Protein = protein
	f.Carbs = carbs
	f.Fat = fat
	return f
}

// WithEatenAt sets a custom eaten_at timestamp.
func (f *FoodLog) WithEatenAt(t time.Time) *FoodLog {
	f.EatenAt = t
	return f
}

// Default nutrition targets used when the user has not set a goal.
const (
	DefaultCalories = 2000
	DefaultProtein  = 150
	DefaultCarbs    = 250
	DefaultFat      = 65
	DefaultWaterML  = 2500
)

// NutritionGoal holds daily macro targets. Only one is active per user.
type NutritionGoal struct {
	ID        uuid.UUID `json:"id" yaml:"id"`
	UserID    uuid.UUID `json:"user_id" yaml:"user_id"`
	Calories  float64   `json:"calories" yaml:"calories"`
	Protein   float64   `json:"protein" yaml:"protein"`
	Carbs     float64   `json:"carbs" yaml:"carbs"`
	Fat       float64   `json:"fat" yaml:"fat"`
	WaterML   float64   `json:"water_ml" yaml:"water_ml"`
	IsActive  bool      `json:"is_active" yaml:"is_active"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// NewNutritionGoal creates an active goal.
func NewNutritionGoal(userID uuid.UUID, calories, protein float64) *NutritionGoal {
	return &NutritionGoal{
		ID:        uuid.New(),
		UserID:    userID,
		Calories:  calories,
		Protein:   protein,
		Carbs:     DefaultCarbs,
		Fat:       DefaultFat,
		WaterML:   DefaultWaterML,
		IsActive:  true,
		CreatedAt: time.Now(),
	}
}

// DefaultNutritionGoal returns the unsaved goal reported when none exists.
func DefaultNutritionGoal(userID uuid.UUID) *NutritionGoal {
	return &NutritionGoal{
		UserID:   userID,
		Calories: DefaultCalories,
		Protein:  DefaultProtein,
		Carbs:    DefaultCarbs,
		Fat:      DefaultFat,
		WaterML:  DefaultWaterML,
		IsActive: true,
	}
}

// NutritionTotals is the sum of food logs over a period.
type NutritionTotals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Entries  int     `json:"entries"`
}

// Add accumulates a food log into the totals.
func (n *NutritionTotals) Add(f *FoodLog) {
	n.Calories += f.Calories
	n.Protein += f.Protein
	n.Carbs += f.Carbs
	n.Fat += f.Fat
	n.Entries++
}
