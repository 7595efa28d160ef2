// ABOUTME: Automation handlers. Actions are stored data; running one only
// ABOUTME: records the run time.

package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/birivibe/birivibe/internal/models"
	"github.com/gin-gonic/gin"
)

type automationRequest struct {
	Name          *string         `json:"name"`
	TriggerType   *string         `json:"trigger_type"`
	TriggerConfig json.RawMessage `json:"trigger_config"`
	ActionType    *string         `json:"action_type"`
	ActionConfig  json.RawMessage `json:"action_config"`
	IsActive      *bool           `json:"is_active"`
}

func (r automationRequest) apply(a *models.Automation) error {
	if r.Name != nil {
		a.Name = strings.TrimSpace(*r.Name)
	}
	if r.TriggerType != nil {
		a.TriggerType = strings.TrimSpace(*r.TriggerType)
	}
	if r.ActionType != nil {
		a.ActionType = strings.TrimSpace(*r.ActionType)
	}
	switch {
	case a.Name == "":
		return invalid("name is required")
	case a.TriggerType == "":
		return invalid("trigger_type is required")
	case a.ActionType == "":
		return invalid("action_type is required")
	}
	if len(r.TriggerConfig) > 0 && string(r.TriggerConfig) != "null" {
		a.TriggerConfig = r.TriggerConfig
	}
	if len(r.ActionConfig) > 0 && string(r.ActionConfig) != "null" {
		a.ActionConfig = r.ActionConfig
	}
	if r.IsActive != nil {
		a.IsActive = *r.IsActive
	}
	return nil
}

func (s *Server) handleListAutomations(c *gin.Context) {
	autos, err := s.repo.ListAutomations(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(autos))
}

func (s *Server) handleCreateAutomation(c *gin.Context) {
	var req automationRequest
	if err := bind(c, &req); err != nil {
		s.fail(c, err)
		return
	}
	a := models.NewAutomation(currentUser(c).ID, "", "", "")
	if err := req.apply(a); err != nil {
		s.fail(c, err)
		return
	}
	if err := s.repo.CreateAutomation(c.Request.Context(), a); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

func (s *Server) handleUpdateAutomation(c *gin.Context) {
	var req automationRequest
	if err := bind(c, &req); err != nil {
		s.fail(c, err)
		return
	}
	ctx := c.Request.Context()
	a, err := s.repo.GetAutomation(ctx, c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	if err := req.apply(a); err != nil {
		s.fail(c, err)
		return
	}
	if err := s.repo.UpdateAutomation(ctx, a); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (s *Server) handleDeleteAutomation(c *gin.Context) {
	if err := s.repo.DeleteAutomation(c.Request.Context(), c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleRunAutomation(c *gin.Context) {
	ctx := c.Request.Context()
	a, err := s.repo.GetAutomation(ctx, c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	if !a.IsActive {
		s.fail(c, invalid("automation is inactive"))
		return
	}
	a, err = s.repo.MarkAutomationRun(ctx, a.ID.String(), s.now())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}
