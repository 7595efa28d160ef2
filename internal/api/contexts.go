// ABOUTME: Context (life area) handlers.

package api

import (
	"net/http"
	"strings"

	"github.com/birivibe/birivibe/internal/models"
	"github.com/gin-gonic/gin"
)

type contextRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Color       *string `json:"color"`
}

func (r contextRequest) apply(ctx *models.Context) error {
	if r.Name != nil {
		ctx.Name = strings.TrimSpace(*r.Name)
	}
	if ctx.Name == "" {
		return invalid("name is required")
	}
	if r.Description != nil {
		ctx.Description = *r.Description
	}
	if r.Color != nil {
		ctx.Color = *r.Color
	}
	return nil
}

func (s *Server) handleListContexts(c *gin.Context) {
	contexts, err := s.repo.ListContexts(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(contexts))
}

func (s *Server) handleCreateContext(c *gin.Context) {
	var req contextRequest
	if err := bind(c, &req); err != nil {
		s.fail(c, err)
		return
	}
	lc := models.NewContext(currentUser(c).ID, "")
	if err := req.apply(lc); err != nil {
		s.fail(c, err)
		return
	}
	if err := s.repo.CreateContext(c.Request.Context(), lc); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, lc)
}

func (s *Server) handleUpdateContext(c *gin.Context) {
	var req contextRequest
	if err := bind(c, &req); err != nil {
		s.fail(c, err)
		return
	}
	ctx := c.Request.Context()
	lc, err := s.repo.GetContext(ctx, c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	if err := req.apply(lc); err != nil {
		s.fail(c, err)
		return
	}
	if err := s.repo.UpdateContext(ctx, lc); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, lc)
}

func (s *Server) handleDeleteContext(c *gin.Context) {
	if err := s.repo.DeleteContext(c.Request.Context(), c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
