// ABOUTME: Weight, sleep and mood log handlers.

package api

import (
	"net/http"

	"github.com/birivibe/birivibe/internal/models"
	"github.com/gin-gonic/gin"
)

type weightRequest struct {
	WeightKg   float64  `json:"weight_kg"`
	BodyFat    *float64 `json:"body_fat"`
	RecordedAt *string  `json:"recorded_at"`
	Notes      *string  `json:"notes"`
}

func (s *Server) handleListWeight(c *gin.Context) {
	opts, err := listOptions(c, s.now())
	if err != nil {
		s.fail(c, err)
		return
	}
	logs, err := s.repo.ListWeightLogs(c.Request.Context(), currentUser(c).ID, opts)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(logs))
}

func (s *Server) handleCreateWeight(c *gin.Context) {
	var req weightRequest
	if err := bind(c, &req); err != nil {
		s.fail(c, err)
		return
	}
	if req.WeightKg <= 0 {
		s.fail(c, invalid("weight_kg must be positive"))
		return
	}
	if req.BodyFat != nil && (*req.BodyFat < 0 || *req.BodyFat > 100) {
		s.fail(c, invalid("body_fat must be between 0 and 100"))
		return
	}
	recorded, err := timeOr("recorded_at", req.RecordedAt, s.now())
	if err != nil {
		s.fail(c, err)
		return
	}

	w := models.NewWeightLog(currentUser(c).ID, req.WeightKg).WithRecordedAt(recorded)
	w.BodyFat = req.BodyFat
	w.Notes = req.Notes
	if err := s.repo.CreateWeightLog(c.Request.Context(), w); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, w)
}

func (s *Server) handleDeleteWeight(c *gin.Context) {
	if err := s.repo.DeleteWeightLog(c.Request.Context(), c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type sleepRequest struct {
	BedTime  string  `json:"bed_time"`
	WakeTime string  `json:"wake_time"`
	Quality  *int    `json:"quality"`
	Notes    *string `json:"notes"`
}

func (s *Server) handleListSleep(c *gin.Context) {
	opts, err := listOptions(c, s.now())
	if err != nil {
		s.fail(c, err)
		return
	}
	logs, err := s.repo.ListSleepLogs(c.Request.Context(), currentUser(c).ID, opts)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(logs))
}

func (s *Server) handleCreateSleep(c *gin.Context) {
	var req sleepRequest
	if err := bind(c, &req); err != nil {
		s.fail(c, err)
		return
	}
	if req.BedTime == "" || req.WakeTime == "" {
		s.fail(c, invalid("bed_time and wake_time are required"))
		return
	}
	bed, err := parseTime("bed_time", req.BedTime)
	if err != nil {
		s.fail(c, err)
		return
	}
	wake, err := parseTime("wake_time", req.WakeTime)
	if err != nil {
		s.fail(c, err)
		return
	}

	if err := models.CheckSleepSpan(bed, wake); err != nil {
		s.fail(c, invalid("%v", err))
		return
	}

	sl := models.NewSleepLog(currentUser(c).ID, bed, wake)
	if req.Quality != nil {
		sl.WithQuality(*req.Quality)
	}
	sl.Notes = req.Notes
	if err := s.repo.CreateSleepLog(c.Request.Context(), sl); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, sl)
}

func (s *Server) handleDeleteSleep(c *gin.Context) {
	if err := s.repo.DeleteSleepLog(c.Request.Context(), c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type moodRequest struct {
	Mood       int      `json:"mood"`
	Energy     *int     `json:"energy"`
	Tags       []string `json:"tags"`
	Notes      *string  `json:"notes"`
	RecordedAt *string  `json:"recorded_at"`
}

func (s *Server) handleListMood(c *gin.Context) {
	opts, err := listOptions(c, s.now())
	if err != nil {
		s.fail(c, err)
		return
	}
	logs, err := s.repo.ListMoodLogs(c.Request.Context(), currentUser(c).ID, opts)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(logs))
}

func (s *Server) handleCreateMood(c *gin.Context) {
	var req moodRequest
	if err := bind(c, &req); err != nil {
		s.fail(c, err)
		return
	}
	if req.Mood < 1 || req.Mood > 10 {
		s.fail(c, invalid("mood must be between 1 and 10"))
		return
	}
	recorded, err := timeOr("recorded_at", req.RecordedAt, s.now())
	if err != nil {
		s.fail(c, err)
		return
	}

	m := models.NewMoodLog(currentUser(c).ID, req.Mood)
	m.RecordedAt = recorded
	if req.Energy != nil {
		m.WithEnergy(*req.Energy)
	}
	m.Tags = req.Tags
	m.Notes = req.Notes
	if err := s.repo.CreateMoodLog(c.Request.Context(), m); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

func (s *Server) handleDeleteMood(c *gin.Context) {
	if err := s.repo.DeleteMoodLog(c.Request.Context(), c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
