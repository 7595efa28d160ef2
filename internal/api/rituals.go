// ABOUTME: Ritual handlers, including completion which schedules the next due date.

package api

import (
	"net/http"
	"strings"

	"github.com/birivibe/birivibe/internal/models"
	"github.com/gin-gonic/gin"
)

type ritualRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Frequency   *string  `json:"frequency"`
	Checklist   []string `json:"checklist"`
	NextDueAt   *string  `json:"next_due_at"`
	IsActive    *bool    `json:"is_active"`
}

func (r ritualRequest) apply(rt *models.Ritual) error {
	if r.Name != nil {
		rt.Name = strings.TrimSpace(*r.Name)
	}
	if rt.Name == "" {
		return invalid("name is required")
	}
	if r.Description != nil {
		rt.Description = *r.Description
	}
	if r.Frequency != nil {
		if !models.IsValidRitualFrequency(*r.Frequency) {
			return invalid("frequency must be weekly, biweekly, monthly, quarterly or yearly")
		}
		rt.Frequency = models.RitualFrequency(*r.Frequency)
	}
	if r.Checklist != nil {
		rt.Checklist = r.Checklist
	}
	if r.NextDueAt != nil {
		t, err := parseTime("next_due_at", *r.NextDueAt)
		if err != nil {
			return err
		}
		rt.NextDueAt = &t
	}
	if r.IsActive != nil {
		rt.IsActive = *r.IsActive
	}
	return nil
}

// ritualView adds whether the ritual is due now.
type ritualView struct {
	*models.Ritual
	Due bool `json:"due"`
}

func (s *Server) handleListRituals(c *gin.Context) {
	rituals, err := s.repo.ListRituals(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		s.fail(c, err)
		return
	}
	now := s.now()
	views := make([]ritualView, 0, len(rituals))
	for _, r := range rituals {
		views = append(views, ritualView{Ritual: r, Due: r.IsDue(now)})
	}
	c.JSON(http.StatusOK, views)
}

func (s *Server) handleCreateRitual(c *gin.Context) {
	var req ritualRequest
	if err := bind(c, &req); err != nil {
		s.fail(c, err)
		return
	}
	if req.Frequency == nil {
		weekly := string(models.RitualWeekly)
		req.Frequency = &weekly
	}
	r := models.NewRitual(currentUser(c).ID, "", models.RitualFrequency(*req.Frequency))
	if err := req.apply(r); err != nil {
		s.fail(c, err)
		return
	}
	if req.NextDueAt == nil {
		next := r.Frequency.Next(s.now())
		r.NextDueAt = &next
	}
	if err := s.repo.CreateRitual(c.Request.Context(), r); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, r)
}

func (s *Server) handleGetRitual(c *gin.Context) {
	r, err := s.repo.GetRitual(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ritualView{Ritual: r, Due: r.IsDue(s.now())})
}

func (s *Server) handleUpdateRitual(c *gin.Context) {
	var req ritualRequest
	if err := bind(c, &req); err != nil {
		s.fail(c, err)
		return
	}
	ctx := c.Request.Context()
	r, err := s.repo.GetRitual(ctx, c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	if err := req.apply(r); err != nil {
		s.fail(c, err)
		return
	}
	if err := s.repo.UpdateRitual(ctx, r); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (s *Server) handleDeleteRitual(c *gin.Context) {
	if err := s.repo.DeleteRitual(c.Request.Context(), c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleCompleteRitual(c *gin.Context) {
	r, err := s.repo.CompleteRitual(c.Request.Context(), c.Param("id"), s.now())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}
