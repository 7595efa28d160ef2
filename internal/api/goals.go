// ABOUTME: Goal handlers with optional tree output.

package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/birivibe/birivibe/internal/models"
	"github.com/birivibe/birivibe/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type goalRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	Status      *string `json:"status"`
	Progress    *int    `json:"progress"`
	TargetDate  *string `json:"target_date"`
	ParentID    *string `json:"parent_id"`
}

func (s *Server) applyGoal(ctx context.Context, req goalRequest, g *models.Goal) error {
	if req.Title != nil {
		g.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		g.Description = *req.Description
	}
	if req.Category != nil {
		g.Category = *req.Category
	}
	if req.Status != nil {
		g.Status = models.GoalStatus(*req.Status)
	}
	if req.Progress != nil {
		g.Progress = *req.Progress
	}
	if req.TargetDate != nil {
		if *req.TargetDate == "" {
			g.TargetDate = nil
		} else {
			if _, err := parseDay("target_date", *req.TargetDate); err != nil {
				return err
			}
			td := *req.TargetDate
			g.TargetDate = &td
		}
	}
	if req.ParentID != nil {
		if *req.ParentID == "" {
			g.ParentID = nil
		} else {
			parent, err := s.repo.GetGoal(ctx, *req.ParentID)
			if errors.Is(err, storage.ErrNotFound) {
				return invalid("parent goal %s not found", *req.ParentID)
			}
			if err != nil {
				return err
			}
			if err := s.checkNoCycle(ctx, g.ID, parent); err != nil {
				return err
			}
			g.ParentID = &parent.ID
		}
	}
	if err := g.Validate(); err != nil {
		return invalid("%s", err.Error())
	}
	return nil
}

// checkNoCycle rejects a parent that is id itself or one of its descendants.
func (s *Server) checkNoCycle(ctx context.Context, id uuid.UUID, parent *models.Goal) error {
	seen := map[uuid.UUID]bool{}
	for cur := parent; cur != nil; {
		if cur.ID == id {
			return invalid("goal cannot be nested under itself or a descendant")
		}
		if cur.ParentID == nil || seen[cur.ID] {
			return nil
		}
		seen[cur.ID] = true
		next, err := s.repo.GetGoal(ctx, cur.ParentID.String())
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		cur = next
	}
	return nil
}

func (s *Server) handleListGoals(c *gin.Context) {
	var status *models.GoalStatus
	if st := c.Query("status"); st != "" {
		if !models.IsValidGoalStatus(st) {
			s.fail(c, invalid("invalid status %q", st))
			return
		}
		gs := models.GoalStatus(st)
		status = &gs
	}

	goals, err := s.repo.ListGoals(c.Request.Context(), currentUser(c).ID, status)
	if err != nil {
		s.fail(c, err)
		return
	}
	if c.Query("tree") == "true" {
		c.JSON(http.StatusOK, nonNil(models.BuildGoalTree(goals)))
		return
	}
	c.JSON(http.StatusOK, nonNil(goals))
}

func (s *Server) handleCreateGoal(c *gin.Context) {
	var req goalRequest
	if err := bind(c, &req); err != nil {
		s.fail(c, err)
		return
	}
	g := models.NewGoal(currentUser(c).ID, "")
	if err := s.applyGoal(c.Request.Context(), req, g); err != nil {
		s.fail(c, err)
		return
	}
	if err := s.repo.CreateGoal(c.Request.Context(), g); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, g)
}

func (s *Server) handleGetGoal(c *gin.Context) {
	g, err := s.repo.GetGoal(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

func (s *Server) handleUpdateGoal(c *gin.Context) {
	var req goalRequest
	if err := bind(c, &req); err != nil {
		s.fail(c, err)
		return
	}
	ctx := c.Request.Context()
	g, err := s.repo.GetGoal(ctx, c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	if err := s.applyGoal(ctx, req, g); err != nil {
		s.fail(c, err)
		return
	}
	g.UpdatedAt = s.now()
	if err := s.repo.UpdateGoal(ctx, g); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

// handleDeleteGoal removes the goal and its whole subtree.
func (s *Server) handleDeleteGoal(c *gin.Context) {
	if err := s.repo.DeleteGoal(c.Request.Context(), c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
