// ABOUTME: Workout and exercise handlers.

package api

import (
	"net/http"
	"strings"

	"github.com/birivibe/birivibe/internal/models"
	"github.com/gin-gonic/gin"
)

type exerciseRequest struct {
	Name            string   `json:"name"`
	Sets            *int     `json:"sets"`
	Reps            *int     `json:"reps"`
	WeightKg        *float64 `json:"weight_kg"`
	DurationSeconds *int     `json:"duration_seconds"`
	DistanceKm      *float64 `json:"distance_km"`
}

func (r exerciseRequest) toExercise(w *models.Workout) (*models.Exercise, error) {
	if strings.TrimSpace(r.Name) == "" {
		return nil, invalid("exercise name is required")
	}
	for _, v := range []*int{r.Sets, r.Reps, r.DurationSeconds} {
		if v != nil && *v < 0 {
			return nil, invalid("exercise counts must not be negative")
		}
	}
	e := models.NewExercise(w.ID, strings.TrimSpace(r.Name))
	e.Sets = r.Sets
	e.Reps = r.Reps
	e.WeightKg = r.WeightKg
	e.DurationSeconds = r.DurationSeconds
	e.DistanceKm = r.DistanceKm
	return e, nil
}

type workoutRequest struct {
	WorkoutType     string            `json:"workout_type"`
	StartedAt       *string           `json:"started_at"`
	DurationMinutes *int              `json:"duration_minutes"`
	CaloriesBurned  *float64          `json:"calories_burned"`
	Notes           *string           `json:"notes"`
	Exercises       []exerciseRequest `json:"exercises"`
}

func (s *Server) handleListWorkouts(c *gin.Context) {
	var workoutType *string
	if t := c.Query("type"); t != "" {
		workoutType = &t
	}
	opts, err := listOptions(c, s.now())
	if err != nil {
		s.fail(c, err)
		return
	}
	workouts, err := s.repo.ListWorkouts(c.Request.Context(), currentUser(c).ID, workoutType, opts)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(workouts))
}

func (s *Server) handleCreateWorkout(c *gin.Context) {
	var req workoutRequest
	if err := bind(c, &req); err != nil {
		s.fail(c, err)
		return
	}
	if strings.TrimSpace(req.WorkoutType) == "" {
		s.fail(c, invalid("workout_type is required"))
		return
	}
	started, err := timeOr("started_at", req.StartedAt, s.now())
	if err != nil {
		s.fail(c, err)
		return
	}
	if req.DurationMinutes != nil && *req.DurationMinutes < 0 {
		s.fail(c, invalid("duration_minutes must not be negative"))
		return
	}

	w := models.NewWorkout(currentUser(c).ID, strings.TrimSpace(req.WorkoutType)).WithStartedAt(started)
	w.DurationMinutes = req.DurationMinutes
	w.CaloriesBurned = req.CaloriesBurned
	w.Notes = req.Notes
	for _, er := range req.Exercises {
		e, err := er.toExercise(w)
		if err != nil {
			s.fail(c, err)
			return
		}
		w.Exercises = append(w.Exercises, *e)
	}

	if err := s.repo.CreateWorkout(c.Request.Context(), w); err != nil {
		s.fail(c, err)
		return
	}
	if w.Exercises == nil {
		w.Exercises = []models.Exercise{}
	}
	c.JSON(http.StatusCreated, w)
}

func (s *Server) handleGetWorkout(c *gin.Context) {
	w, err := s.repo.GetWorkout(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, w)
}

func (s *Server) handleDeleteWorkout(c *gin.Context) {
	if err := s.repo.DeleteWorkout(c.Request.Context(), c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleAddExercise(c *gin.Context) {
	var req exerciseRequest
	if err := bind(c, &req); err != nil {
		s.fail(c, err)
		return
	}
	ctx := c.Request.Context()
	w, err := s.repo.GetWorkout(ctx, c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	e, err := req.toExercise(w)
	if err != nil {
		s.fail(c, err)
		return
	}
	if err := s.repo.AddExercise(ctx, e); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, e)
}

func (s *Server) handleDeleteExercise(c *gin.Context) {
	ctx := c.Request.Context()
	w, err := s.repo.GetWorkout(ctx, c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	if err := s.repo.DeleteExercise(ctx, w.ID, c.Param("exerciseId")); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
