// ABOUTME: Food log, nutrition goal, daily summary and AI food analysis handlers.

package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/birivibe/birivibe/internal/models"
	"github.com/birivibe/birivibe/internal/stats"
	"github.com/birivibe/birivibe/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type foodLogRequest struct {
	Name     *string  `json:"name"`
	MealType *string  `json:"meal_type"`
	Quantity *string  `json:"quantity"`
	Calories *float64 `json:"calories"`
	Protein  *float64 `json:"protein"`
	Carbs    *float64 `json:"carbs"`
	Fat      *float64 `json:"fat"`
	Source   *string  `json:"source"`
	EatenAt  *string  `json:"eaten_at"`
	Notes    *string  `json:"notes"`
}

func (r foodLogRequest) apply(f *models.FoodLog) error {
	if r.Name != nil {
		f.Name = strings.TrimSpace(*r.Name)
	}
	if f.Name == "" {
		return invalid("name is required")
	}
	if r.EatenAt != nil {
		t, err := parseTime("eaten_at", *r.EatenAt)
		if err != nil {
			return err
		}
		f.EatenAt = t
		if r.MealType == nil {
			f.MealType = models.MealTypeAt(t)
		}
	}
	if r.MealType != nil {
		if !models.IsValidMealType(*r.MealType) {
			return invalid("meal_type must be breakfast, lunch, dinner or snack")
		}
		f.MealType = models.MealType(*r.MealType)
	}
	if r.Quantity != nil {
		f.Quantity = *r.Quantity
	}
	for _, m := range []struct {
		name string
		src  *float64
		dst  *float64
	}{
		{"calories", r.Calories, &f.Calories},
		{"protein", r.Protein, &f.Protein},
		{"carbs", r.Carbs, &f.Carbs},
		{"fat", r.Fat, &f.Fat},
	} {
		if m.src == nil {
			continue
		}
		if *m.src < 0 {
			return invalid("%s must not be negative", m.name)
		}
		*m.dst = *m.src
	}
	if r.Source != nil {
		if *r.Source != models.SourceManual && *r.Source != models.SourceAI {
			return invalid("source must be manual or ai")
		}
		f.Source = *r.Source
	}
	if r.Notes != nil {
		f.Notes = r.Notes
	}
	return nil
}

func (s *Server) handleListFoodLogs(c *gin.Context) {
	opts, err := listOptions(c, s.now())
	if err != nil {
		s.fail(c, err)
		return
	}
	logs, err := s.repo.ListFoodLogs(c.Request.Context(), currentUser(c).ID, opts)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(logs))
}

func (s *Server) handleCreateFoodLog(c *gin.Context) {
	var req foodLogRequest
	if err := bind(c, &req); err != nil {
		s.fail(c, err)
		return
	}
	f := models.NewFoodLog(currentUser(c).ID, "", 0).WithEatenAt(s.now())
	f.MealType = models.MealTypeAt(f.EatenAt)
	if err := req.apply(f); err != nil {
		s.fail(c, err)
		return
	}
	if err := s.repo.CreateFoodLog(c.Request.Context(), f); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, f)
}

func (s *Server) handleUpdateFoodLog(c *gin.Context) {
	var req foodLogRequest
	if err := bind(c, &req); err != nil {
		s.fail(c, err)
		return
	}
	ctx := c.Request.Context()
	f, err := s.repo.GetFoodLog(ctx, c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	if err := req.apply(f); err != nil {
		s.fail(c, err)
		return
	}
	if err := s.repo.UpdateFoodLog(ctx, f); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

func (s *Server) handleDeleteFoodLog(c *gin.Context) {
	if err := s.repo.DeleteFoodLog(c.Request.Context(), c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// activeGoal returns the user's active nutrition goal or the defaults.
func (s *Server) activeGoal(c *gin.Context, userID uuid.UUID) (*models.NutritionGoal, error) {
	g, err := s.repo.GetActiveNutritionGoal(c.Request.Context(), userID)
	if errors.Is(err, storage.ErrNotFound) {
		return models.DefaultNutritionGoal(userID), nil
	}
	return g, err
}

func (s *Server) handleGetNutritionGoal(c *gin.Context) {
	g, err := s.activeGoal(c, currentUser(c).ID)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

type nutritionGoalRequest struct {
	Calories *float64 `json:"calories"`
	Protein  *float64 `json:"protein"`
	Carbs    *float64 `json:"carbs"`
	Fat      *float64 `json:"fat"`
	WaterML  *float64 `json:"water_ml"`
}

// handleSetNutritionGoal replaces the active goal. Omitted fields keep the
// current goal's values.
func (s *Server) handleSetNutritionGoal(c *gin.Context) {
	var req nutritionGoalRequest
	if err := bind(c, &req); err != nil {
		s.fail(c, err)
		return
	}
	user := currentUser(c)
	cur, err := s.activeGoal(c, user.ID)
	if err != nil {
		s.fail(c, err)
		return
	}

	g := models.NewNutritionGoal(user.ID, cur.Calories, cur.Protein)
	g.Carbs, g.Fat, g.WaterML = cur.Carbs, cur.Fat, cur.WaterML
	g.CreatedAt = s.now()
	for _, m := range []struct {
		name string
		src  *float64
		dst  *float64
	}{
		{"calories", req.Calories, &g.Calories},
		{"protein", req.Protein, &g.Protein},
		{"carbs", req.Carbs, &g.Carbs},
		{"fat", req.Fat, &g.Fat},
		{"water_ml", req.WaterML, &g.WaterML},
	} {
		if m.src == nil {
			continue
		}
		if *m.src < 0 {
			s.fail(c, invalid("%s must not be negative", m.name))
			return
		}
		*m.dst = *m.src
	}

	if err := s.repo.SetNutritionGoal(c.Request.Context(), g); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

func (s *Server) handleDietSummary(c *gin.Context) {
	user := currentUser(c)
	ctx := c.Request.Context()

	day := stats.StartOfDay(s.now())
	if d := c.Query("date"); d != "" {
		var err error
		if day, err = parseDay("date", d); err != nil {
			s.fail(c, err)
			return
		}
	}

	totals, err := s.repo.SumNutrition(ctx, user.ID, day, day.AddDate(0, 0, 1))
	if err != nil {
		s.fail(c, err)
		return
	}
	goal, err := s.activeGoal(c, user.ID)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":   stats.DayKey(day),
		"totals": totals,
		"goal":   goal,
		"percent": gin.H{
			"calories": stats.Percent(totals.Calories, goal.Calories),
			"protein":  stats.Percent(totals.Protein, goal.Protein),
			"carbs":    stats.Percent(totals.Carbs, goal.Carbs),
			"fat":      stats.Percent(totals.Fat, goal.Fat),
		},
		"remaining": gin.H{
			"calories": goal.Calories - totals.Calories,
			"protein":  goal.Protein - totals.Protein,
		},
	})
}

type analyzeFoodRequest struct {
	Description string  `json:"description"`
	Save        bool    `json:"save"`
	EatenAt     *string `json:"eaten_at"`
}

func (s *Server) handleAnalyzeFood(c *gin.Context) {
	var req analyzeFoodRequest
	if err := bind(c, &req); err != nil {
		s.fail(c, err)
		return
	}
	eatenAt, err := timeOr("eaten_at", req.EatenAt, s.now())
	if err != nil {
		s.fail(c, err)
		return
	}

	ctx := c.Request.Context()
	analysis, err := s.analyzer.AnalyzeFood(ctx, req.Description)
	if err != nil {
		s.fail(c, err)
		return
	}
	if !req.Save {
		c.JSON(http.StatusOK, analysis)
		return
	}

	logs := analysis.FoodLogs(currentUser(c).ID, eatenAt)
	for _, f := range logs {
		if err := s.repo.CreateFoodLog(ctx, f); err != nil {
			s.fail(c, err)
			return
		}
	}
	c.JSON(http.StatusCreated, gin.H{"analysis": analysis, "logs": logs})
}
