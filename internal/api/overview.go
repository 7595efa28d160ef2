// ABOUTME: Dashboard, per-day log summary and free-text ingest handlers.

package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) daysParam(c *gin.Context) (int, error) {
	days, err := queryInt(c, "days", 0)
	if err != nil {
		return 0, err
	}
	if days < 0 {
		return 0, invalid("days must not be negative")
	}
	return days, nil
}

func (s *Server) handleDashboard(c *gin.Context) {
	days, err := s.daysParam(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	d, err := s.dash.Build(c.Request.Context(), currentUser(c).ID, s.now(), days)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (s *Server) handleLogsSummary(c *gin.Context) {
	days, err := s.daysParam(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	series, err := s.dash.Series(c.Request.Context(), currentUser(c).ID, s.now(), days)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, series)
}

type ingestRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleIngest(c *gin.Context) {
	var req ingestRequest
	if err := bind(c, &req); err != nil {
		s.fail(c, err)
		return
	}
	res, err := s.ingest.Ingest(c.Request.Context(), currentUser(c).ID, req.Text)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
