// ABOUTME: gin HTTP server exposing the BiriVibe JSON API and report page.
// ABOUTME: Run serves until the context is cancelled, then shuts down gracefully.

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/birivibe/birivibe/internal/ai"
	"github.com/birivibe/birivibe/internal/dashboard"
	"github.com/birivibe/birivibe/internal/ingest"
	"github.com/birivibe/birivibe/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const shutdownTimeout = 5 * time.Second

// Options configures a Server.
type Options struct {
	Addr              string
	ReadHeaderTimeout time.Duration

	// UserEmail and UserName identify the default user every request acts as.
	UserEmail string
	UserName  string
}

// Server is the BiriVibe HTTP server.
type Server struct {
	repo     storage.Repository
	dash     *dashboard.Service
	analyzer *ai.FoodAnalyzer
	ingest   *ingest.Service
	log      *logrus.Logger
	opts     Options
	router   *gin.Engine
	now      func() time.Time
}

// NewServer creates a server over repo. model backs the AI endpoints; a
// model without credentials makes them answer 503.
func NewServer(repo storage.Repository, model ai.Model, log *logrus.Logger, opts Options) *Server {
	if opts.Addr == "" {
		opts.Addr = ":3000"
	}
	if opts.ReadHeaderTimeout <= 0 {
		opts.ReadHeaderTimeout = 10 * time.Second
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	s := &Server{
		repo:     repo,
		dash:     dashboard.NewService(repo),
		analyzer: ai.NewFoodAnalyzer(model),
		ingest:   ingest.NewService(repo, ai.NewParser(model), log),
		log:      log,
		opts:     opts,
		router:   router,
		now:      time.Now,
	}

	router.Use(gin.Recovery(), s.requestLogger())
	router.GET("/health", s.handleHealth)

	withUser := router.Group("/", s.defaultUser())
	withUser.GET("/report", s.handleReport)

	api := withUser.Group("/api")
	{
		api.GET("/habits", s.handleListHabits)
		api.POST("/habits", s.handleCreateHabit)
		api.GET("/habits/:id", s.handleGetHabit)
		api.PUT("/habits/:id", s.handleUpdateHabit)
		api.DELETE("/habits/:id", s.handleDeleteHabit)
		api.GET("/habits/:id/logs", s.handleListHabitLogs)
		api.POST("/habits/:id/logs", s.handleLogHabit)
		api.DELETE("/habits/:id/logs/:date", s.handleDeleteHabitLog)
		api.GET("/habits/:id/streak", s.handleHabitStreak)

		api.GET("/routines", s.handleListRoutines)
		api.POST("/routines", s.handleCreateRoutine)
		api.GET("/routines/:id", s.handleGetRoutine)
		api.PUT("/routines/:id", s.handleUpdateRoutine)
		api.DELETE("/routines/:id", s.handleDeleteRoutine)
		api.GET("/routines/:id/logs", s.handleListRoutineLogs)
		api.POST("/routines/:id/logs", s.handleStartRoutine)
		api.PUT("/routines/:id/logs/:logId", s.handleUpdateRoutineLog)

		api.GET("/goals", s.handleListGoals)
		api.POST("/goals", s.handleCreateGoal)
		api.GET("/goals/:id", s.handleGetGoal)
		api.PUT("/goals/:id", s.handleUpdateGoal)
		api.DELETE("/goals/:id", s.handleDeleteGoal)

		api.GET("/diet/logs", s.handleListFoodLogs)
		api.POST("/diet/logs", s.handleCreateFoodLog)
		api.PUT("/diet/logs/:id", s.handleUpdateFoodLog)
		api.DELETE("/diet/logs/:id", s.handleDeleteFoodLog)
		api.GET("/diet/goals", s.handleGetNutritionGoal)
		api.PUT("/diet/goals", s.handleSetNutritionGoal)
		api.GET("/diet/summary", s.handleDietSummary)
		api.POST("/diet/analyze-food", s.handleAnalyzeFood)

		api.GET("/weight", s.handleListWeight)
		api.POST("/weight", s.handleCreateWeight)
		api.DELETE("/weight/:id", s.handleDeleteWeight)
		api.GET("/sleep", s.handleListSleep)
		api.POST("/sleep", s.handleCreateSleep)
		api.DELETE("/sleep/:id", s.handleDeleteSleep)
		api.GET("/mood", s.handleListMood)
		api.POST("/mood", s.handleCreateMood)
		api.DELETE("/mood/:id", s.handleDeleteMood)

		api.GET("/finance/transactions", s.handleListTransactions)
		api.POST("/finance/transactions", s.handleCreateTransaction)
		api.PUT("/finance/transactions/:id", s.handleUpdateTransaction)
		api.DELETE("/finance/transactions/:id", s.handleDeleteTransaction)
		api.GET("/finance/summary", s.handleFinanceSummary)

		api.GET("/workouts", s.handleListWorkouts)
		api.POST("/workouts", s.handleCreateWorkout)
		api.GET("/workouts/:id", s.handleGetWorkout)
		api.DELETE("/workouts/:id", s.handleDeleteWorkout)
		api.POST("/workouts/:id/exercises", s.handleAddExercise)
		api.DELETE("/workouts/:id/exercises/:exerciseId", s.handleDeleteExercise)

		api.GET("/rituals", s.handleListRituals)
		api.POST("/rituals", s.handleCreateRitual)
		api.GET("/rituals/:id", s.handleGetRitual)
		api.PUT("/rituals/:id", s.handleUpdateRitual)
		api.DELETE("/rituals/:id", s.handleDeleteRitual)
		api.POST("/rituals/:id/complete", s.handleCompleteRitual)

		api.GET("/contexts", s.handleListContexts)
		api.POST("/contexts", s.handleCreateContext)
		api.PUT("/contexts/:id", s.handleUpdateContext)
		api.DELETE("/contexts/:id", s.handleDeleteContext)

		api.GET("/automations", s.handleListAutomations)
		api.POST("/automations", s.handleCreateAutomation)
		api.PUT("/automations/:id", s.handleUpdateAutomation)
		api.DELETE("/automations/:id", s.handleDeleteAutomation)
		api.POST("/automations/:id/run", s.handleRunAutomation)

		api.GET("/dashboard", s.handleDashboard)
		api.GET("/logs/summary", s.handleLogsSummary)
		api.POST("/ingest", s.handleIngest)

		api.GET("/export", s.handleExport)
		api.POST("/import", s.handleImport)
	}

	return s
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: s.opts.ReadHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", s.opts.Addr).Info("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serve http: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http: %w", err)
	}
	return nil
}

func (s *Server) handleHealth(c *gin.Context) {
	status := "ok"
	code := http.StatusOK
	if err := s.repo.Ping(c.Request.Context()); err != nil {
		s.log.WithError(err).Warn("health check failed")
		status = "unavailable"
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{"status": status, "time": s.now().UTC()})
}
