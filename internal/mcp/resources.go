// ABOUTME: MCP resource implementations for BiriVibe.
// ABOUTME: Provides birivibe://today and birivibe://dashboard resources.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/birivibe/birivibe/internal/models"
	"github.com/birivibe/birivibe/internal/stats"
	"github.com/birivibe/birivibe/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"golang.org/x/sync/errgroup"
)

const (
	todayURI     = "birivibe://today"
	dashboardURI = "birivibe://dashboard"
)

func (s *Server) registerResources() {
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         todayURI,
		Name:        "Today's Entries",
		Description: "Everything logged today: habits, food, body, mood, money and workouts",
		MIMEType:    "application/json",
	}, s.handleTodayResource)

	s.mcpServer.AddResource(&mcp.Resource{
		URI:         dashboardURI,
		Name:        "Dashboard",
		Description: "Today's dashboard with 7-day averages",
		MIMEType:    "application/json",
	}, s.handleDashboardResource)
}

// todayData is the body of the today resource.
type todayData struct {
	Date         string                  `json:"date"`
	HabitsDone   []string                `json:"habits_done"`
	Nutrition    *models.NutritionTotals `json:"nutrition"`
	Food         []*models.FoodLog       `json:"food"`
	Weight       []*models.WeightLog     `json:"weight"`
	Sleep        []*models.SleepLog      `json:"sleep"`
	Mood         []*models.MoodLog       `json:"mood"`
	Transactions []*models.Transaction   `json:"transactions"`
	Workouts     []*models.Workout       `json:"workouts"`
}

func (s *Server) handleTodayResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	u, err := s.user(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	start := stats.StartOfDay(now)
	end := start.AddDate(0, 0, 1)
	today := storage.Between(start, end)
	out := todayData{Date: stats.DayKey(now)}

	var habitLogs []*models.HabitLog
	var habits []*models.Habit
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		habits, err = s.repo.ListHabits(gctx, u.ID, false)
		return err
	})
	g.Go(func() (err error) {
		habitLogs, err = s.repo.ListUserHabitLogs(gctx, u.ID, today)
		return err
	})
	g.Go(func() (err error) {
		out.Nutrition, err = s.repo.SumNutrition(gctx, u.ID, start, end)
		return err
	})
	g.Go(func() (err error) {
		out.Food, err = s.repo.ListFoodLogs(gctx, u.ID, today)
		return err
	})
	g.Go(func() (err error) {
		out.Weight, err = s.repo.ListWeightLogs(gctx, u.ID, today)
		return err
	})
	g.Go(func() (err error) {
		out.Sleep, err = s.repo.ListSleepLogs(gctx, u.ID, today)
		return err
	})
	g.Go(func() (err error) {
		out.Mood, err = s.repo.ListMoodLogs(gctx, u.ID, today)
		return err
	})
	g.Go(func() (err error) {
		out.Transactions, err = s.repo.ListTransactions(gctx, u.ID, nil, today)
		return err
	})
	g.Go(func() (err error) {
		out.Workouts, err = s.repo.ListWorkouts(gctx, u.ID, nil, today)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load today: %w", err)
	}

	names := make(map[string]string, len(habits))
	for _, h := range habits {
		names[h.ID.String()] = h.Name
	}
	out.HabitsDone = []string{}
	for _, l := range habitLogs {
		if l.Completed {
			out.HabitsDone = append(out.HabitsDone, names[l.HabitID.String()])
		}
	}

	return jsonResource(todayURI, out)
}

func (s *Server) handleDashboardResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	u, err := s.user(ctx)
	if err != nil {
		return nil, err
	}
	d, err := s.dash.Build(ctx, u.ID, s.now(), 0)
	if err != nil {
		return nil, fmt.Errorf("failed to build dashboard: %w", err)
	}
	return jsonResource(dashboardURI, d)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
