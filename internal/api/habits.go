// ABOUTME: Habit and habit log handlers, including streaks.

package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/birivibe/birivibe/internal/models"
	"github.com/birivibe/birivibe/internal/stats"
	"github.com/birivibe/birivibe/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type habitRequest struct {
	Name            *string `json:"name"`
	Description     *string `json:"description"`
	Frequency       *string `json:"frequency"`
	TargetPerPeriod *int    `json:"target_per_period"`
	Color           *string `json:"color"`
	Icon            *string `json:"icon"`
	IsActive        *bool   `json:"is_active"`
}

func (r habitRequest) apply(h *models.Habit) error {
	if r.Name != nil {
		h.Name = strings.TrimSpace(*r.Name)
	}
	if h.Name == "" {
		return invalid("name is required")
	}
	if r.Description != nil {
		h.Description = *r.Description
	}
	if r.Frequency != nil {
		if !models.IsValidFrequency(*r.Frequency) {
			return invalid("frequency must be daily or weekly")
		}
		h.Frequency = models.Frequency(*r.Frequency)
	}
	if r.TargetPerPeriod != nil {
		if *r.TargetPerPeriod < 1 {
			return invalid("target_per_period must be at least 1")
		}
		h.TargetPerPeriod = *r.TargetPerPeriod
	}
	if r.Color != nil {
		h.Color = *r.Color
	}
	if r.Icon != nil {
		h.Icon = *r.Icon
	}
	if r.IsActive != nil {
		h.IsActive = *r.IsActive
	}
	return nil
}

// habitView is a habit with today's status and current streak.
type habitView struct {
	*models.Habit
	CompletedToday bool `json:"completed_today"`
	Streak         int  `json:"streak"`
}

// completedDays maps each habit to the set of days it was completed within
// the streak window.
func (s *Server) completedDays(c *gin.Context, userID uuid.UUID, now time.Time) (map[uuid.UUID]map[string]bool, error) {
	since := stats.StartOfDay(now).AddDate(0, 0, -stats.DefaultStreakWindow)
	logs, err := s.repo.ListUserHabitLogs(c.Request.Context(), userID, storage.Since(since))
	if err != nil {
		return nil, err
	}
	done := make(map[uuid.UUID]map[string]bool)
	for _, l := range logs {
		if !l.Completed {
			continue
		}
		if done[l.HabitID] == nil {
			done[l.HabitID] = make(map[string]bool)
		}
		done[l.HabitID][l.Date] = true
	}
	return done, nil
}

func newHabitView(h *models.Habit, days map[string]bool, now time.Time) habitView {
	return habitView{
		Habit:          h,
		CompletedToday: days[stats.DayKey(now)],
		Streak:         stats.Streak(func(d string) bool { return days[d] }, now, stats.DefaultStreakWindow),
	}
}

func (s *Server) handleListHabits(c *gin.Context) {
	user := currentUser(c)
	now := s.now()

	habits, err := s.repo.ListHabits(c.Request.Context(), user.ID, c.Query("all") != "true")
	if err != nil {
		s.fail(c, err)
		return
	}
	done, err := s.completedDays(c, user.ID, now)
	if err != nil {
		s.fail(c, err)
		return
	}

	views := make([]habitView, 0, len(habits))
	for _, h := range habits {
		views = append(views, newHabitView(h, done[h.ID], now))
	}
	c.JSON(http.StatusOK, views)
}

func (s *Server) handleCreateHabit(c *gin.Context) {
	var req habitRequest
	if err := bind(c, &req); err != nil {
		s.fail(c, err)
		return
	}

	h := models.NewHabit(currentUser(c).ID, "")
	if err := req.apply(h); err != nil {
		s.fail(c, err)
		return
	}
	if err := s.repo.CreateHabit(c.Request.Context(), h); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, h)
}

func (s *Server) handleGetHabit(c *gin.Context) {
	h, err := s.repo.GetHabit(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	now := s.now()
	done, err := s.completedDays(c, h.UserID, now)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newHabitView(h, done[h.ID], now))
}

func (s *Server) handleUpdateHabit(c *gin.Context) {
	var req habitRequest
	if err := bind(c, &req); err != nil {
		s.fail(c, err)
		return
	}

	ctx := c.Request.Context()
	h, err := s.repo.GetHabit(ctx, c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	if err := req.apply(h); err != nil {
		s.fail(c, err)
		return
	}
	h.UpdatedAt = s.now()
	if err := s.repo.UpdateHabit(ctx, h); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, h)
}

func (s *Server) handleDeleteHabit(c *gin.Context) {
	if err := s.repo.DeleteHabit(c.Request.Context(), c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleListHabitLogs(c *gin.Context) {
	ctx := c.Request.Context()
	h, err := s.repo.GetHabit(ctx, c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	opts, err := listOptions(c, s.now())
	if err != nil {
		s.fail(c, err)
		return
	}
	logs, err := s.repo.ListHabitLogs(ctx, h.ID, opts)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(logs))
}

type habitLogRequest struct {
	Date      string   `json:"date"`
	Completed *bool    `json:"completed"`
	Value     *float64 `json:"value"`
	Notes     *string  `json:"notes"`
}

func (s *Server) handleLogHabit(c *gin.Context) {
	var req habitLogRequest
	if err := bind(c, &req); err != nil {
		s.fail(c, err)
		return
	}

	day := stats.DayKey(s.now())
	if req.Date != "" {
		if _, err := parseDay("date", req.Date); err != nil {
			s.fail(c, err)
			return
		}
		day = req.Date
	}

	ctx := c.Request.Context()
	h, err := s.repo.GetHabit(ctx, c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}

	l := models.NewHabitLog(h, day)
	if req.Completed != nil {
		l.Completed = *req.Completed
	}
	l.Value = req.Value
	l.Notes = req.Notes

	logged, err := s.repo.LogHabit(ctx, l)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, logged)
}

func (s *Server) handleDeleteHabitLog(c *gin.Context) {
	if _, err := parseDay("date", c.Param("date")); err != nil {
		s.fail(c, err)
		return
	}
	ctx := c.Request.Context()
	h, err := s.repo.GetHabit(ctx, c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	if err := s.repo.DeleteHabitLog(ctx, h.ID, c.Param("date")); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleHabitStreak(c *gin.Context) {
	h, err := s.repo.GetHabit(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	now := s.now()
	done, err := s.completedDays(c, h.UserID, now)
	if err != nil {
		s.fail(c, err)
		return
	}
	v := newHabitView(h, done[h.ID], now)
	c.JSON(http.StatusOK, gin.H{
		"habit_id":        h.ID,
		"streak":          v.Streak,
		"completed_today": v.CompletedToday,
	})
}

// nonNil turns a nil slice into an empty one so it encodes as [].
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
