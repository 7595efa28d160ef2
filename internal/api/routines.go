// ABOUTME: Routine handlers and the routine player's progress logs.

package api

import (
	"net/http"
	"strings"

	"github.com/birivibe/birivibe/internal/models"
	"github.com/gin-gonic/gin"
)

type routineStepRequest struct {
	Title           string `json:"title"`
	DurationMinutes int    `json:"duration_minutes"`
	Notes           string `json:"notes"`
}

type routineRequest struct {
	Name        *string              `json:"name"`
	Description *string              `json:"description"`
	TimeOfDay   *string              `json:"time_of_day"`
	IsActive    *bool                `json:"is_active"`
	Steps       []routineStepRequest `json:"steps"`
}

// apply copies the set fields onto r. A non-nil Steps replaces every step.
func (req routineRequest) apply(r *models.Routine) error {
	if req.Name != nil {
		r.Name = strings.TrimSpace(*req.Name)
	}
	if r.Name == "" {
		return invalid("name is required")
	}
	if req.Description != nil {
		r.Description = *req.Description
	}
	if req.TimeOfDay != nil {
		r.TimeOfDay = *req.TimeOfDay
	}
	if req.IsActive != nil {
		r.IsActive = *req.IsActive
	}
	if req.Steps != nil {
		r.Steps = nil
		for i, st := range req.Steps {
			if strings.TrimSpace(st.Title) == "" {
				return invalid("steps[%d].title is required", i)
			}
			if st.DurationMinutes < 0 {
				return invalid("steps[%d].duration_minutes must not be negative", i)
			}
			r.AddStep(st.Title, st.DurationMinutes)
			r.Steps[len(r.Steps)-1].Notes = st.Notes
		}
	}
	return nil
}

func (s *Server) handleListRoutines(c *gin.Context) {
	routines, err := s.repo.ListRoutines(c.Request.Context(), currentUser(c).ID, c.Query("all") != "true")
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(routines))
}

func (s *Server) handleCreateRoutine(c *gin.Context) {
	var req routineRequest
	if err := bind(c, &req); err != nil {
		s.fail(c, err)
		return
	}
	r := models.NewRoutine(currentUser(c).ID, "")
	if err := req.apply(r); err != nil {
		s.fail(c, err)
		return
	}
	if err := s.repo.CreateRoutine(c.Request.Context(), r); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, r)
}

func (s *Server) handleGetRoutine(c *gin.Context) {
	r, err := s.repo.GetRoutine(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (s *Server) handleUpdateRoutine(c *gin.Context) {
	var req routineRequest
	if err := bind(c, &req); err != nil {
		s.fail(c, err)
		return
	}
	ctx := c.Request.Context()
	r, err := s.repo.GetRoutine(ctx, c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	if err := req.apply(r); err != nil {
		s.fail(c, err)
		return
	}
	r.UpdatedAt = s.now()
	if err := s.repo.UpdateRoutine(ctx, r); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// handleDeleteRoutine deactivates the routine; its rows and logs are kept.
func (s *Server) handleDeleteRoutine(c *gin.Context) {
	if err := s.repo.DeactivateRoutine(c.Request.Context(), c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleListRoutineLogs(c *gin.Context) {
	ctx := c.Request.Context()
	r, err := s.repo.GetRoutine(ctx, c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	opts, err := listOptions(c, s.now())
	if err != nil {
		s.fail(c, err)
		return
	}
	logs, err := s.repo.ListRoutineLogs(ctx, r.ID, opts)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(logs))
}

func (s *Server) handleStartRoutine(c *gin.Context) {
	ctx := c.Request.Context()
	r, err := s.repo.GetRoutine(ctx, c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	l := models.NewRoutineLog(r)
	l.StartedAt = s.now()
	if err := s.repo.CreateRoutineLog(ctx, l); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, l)
}

type routineLogRequest struct {
	CurrentStep    *int    `json:"current_step"`
	CompletedSteps *int    `json:"completed_steps"`
	Status         *string `json:"status"`
	Notes          *string `json:"notes"`
}

// handleUpdateRoutineLog records player progress. Steps may be skipped or
// revisited; only the bounds are checked.
func (s *Server) handleUpdateRoutineLog(c *gin.Context) {
	var req routineLogRequest
	if err := bind(c, &req); err != nil {
		s.fail(c, err)
		return
	}

	ctx := c.Request.Context()
	r, err := s.repo.GetRoutine(ctx, c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	l, err := s.repo.GetRoutineLog(ctx, c.Param("logId"))
	if err != nil {
		s.fail(c, err)
		return
	}
	if l.RoutineID != r.ID {
		s.fail(c, invalid("log does not belong to this routine"))
		return
	}

	if req.CurrentStep != nil {
		if *req.CurrentStep < 0 || *req.CurrentStep > l.TotalSteps {
			s.fail(c, invalid("current_step must be between 0 and %d", l.TotalSteps))
			return
		}
		l.CurrentStep = *req.CurrentStep
	}
	if req.CompletedSteps != nil {
		if *req.CompletedSteps < 0 || *req.CompletedSteps > l.TotalSteps {
			s.fail(c, invalid("completed_steps must be between 0 and %d", l.TotalSteps))
			return
		}
		l.CompletedSteps = *req.CompletedSteps
	}
	if req.Notes != nil {
		l.Notes = req.Notes
	}
	if req.Status != nil {
		if !models.IsValidRoutineLogStatus(*req.Status) {
			s.fail(c, invalid("invalid status %q", *req.Status))
			return
		}
		status := models.RoutineLogStatus(*req.Status)
		if status == models.RoutineInProgress {
			l.Status = status
			l.CompletedAt = nil
		} else if l.Status != status {
			l.Finish(status, s.now())
		}
	}

	if err := s.repo.UpdateRoutineLog(ctx, l); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, l)
}
