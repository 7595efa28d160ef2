// ABOUTME: Tests for workouts, rituals, contexts and automations endpoints.
package api

import (
	"net/http"
	"testing"

	"github.com/birivibe/birivibe/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkoutWithExercises(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/workouts", map[string]any{
		"workout_type":     "strength",
		"duration_minutes": 45,
		"exercises": []map[string]any{
			{"name": "squat", "sets": 5, "reps": 5, "weight_kg": 100},
			{"name": "bench", "sets": 3, "reps": 8},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	w := decode[models.Workout](t, rec)
	require.Len(t, w.Exercises, 2)

	rec = env.do(t, http.MethodPost, "/api/workouts/"+w.ID.String()+"/exercises", map[string]any{"name": "plank", "duration_seconds": 60})
	require.Equal(t, http.StatusCreated, rec.Code)
	plank := decode[models.Exercise](t, rec)

	rec = env.do(t, http.MethodGet, "/api/workouts/"+w.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[models.Workout](t, rec)
	require.Len(t, got.Exercises, 3)
	assert.Equal(t, "squat", got.Exercises[0].Name)
	assert.Equal(t, "plank", got.Exercises[2].Name)

	rec = env.do(t, http.MethodDelete, "/api/workouts/"+w.ID.String()+"/exercises/"+plank.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/workouts", map[string]any{"workout_type": "run", "duration_minutes": 30})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/workouts?type=run", nil)
	assert.Len(t, decode[[]models.Workout](t, rec), 1)
	rec = env.do(t, http.MethodGet, "/api/workouts", nil)
	assert.Len(t, decode[[]models.Workout](t, rec), 2)

	rec = env.do(t, http.MethodPost, "/api/workouts", map[string]any{"workout_type": " "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = env.do(t, http.MethodPost, "/api/workouts/"+w.ID.String()+"/exercises", map[string]any{"name": "row", "sets": -1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodDelete, "/api/workouts/"+w.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = env.do(t, http.MethodGet, "/api/workouts/"+w.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRitualComplete(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/rituals", map[string]any{
		"name": "weekly review", "checklist": []string{"inbox", "calendar"}, "next_due_at": "2026-01-05",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	r := decode[models.Ritual](t, rec)
	assert.Equal(t, models.RitualWeekly, r.Frequency)

	rec = env.do(t, http.MethodGet, "/api/rituals/"+r.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decode[map[string]any](t, rec)["due"])

	rec = env.do(t, http.MethodPost, "/api/rituals/"+r.ID.String()+"/complete", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	done := decode[models.Ritual](t, rec)
	require.NotNil(t, done.LastCompletedAt)
	require.NotNil(t, done.NextDueAt)
	assert.True(t, done.NextDueAt.Equal(testNow.AddDate(0, 0, 7)))

	rec = env.do(t, http.MethodGet, "/api/rituals", nil)
	views := decode[[]map[string]any](t, rec)
	require.Len(t, views, 1)
	assert.Equal(t, false, views[0]["due"])

	rec = env.do(t, http.MethodPost, "/api/rituals", map[string]any{"name": "x", "frequency": "daily"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPut, "/api/rituals/"+r.ID.String(), map[string]any{"frequency": "monthly"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.RitualMonthly, decode[models.Ritual](t, rec).Frequency)

	rec = env.do(t, http.MethodDelete, "/api/rituals/"+r.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestContexts(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/contexts", map[string]any{"name": "work", "color": "#ff0000"})
	require.Equal(t, http.StatusCreated, rec.Code)
	ctx := decode[models.Context](t, rec)

	rec = env.do(t, http.MethodPut, "/api/contexts/"+ctx.ID.String(), map[string]any{"description": "day job"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "day job", decode[models.Context](t, rec).Description)

	rec = env.do(t, http.MethodPost, "/api/contexts", map[string]any{"name": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/contexts", nil)
	assert.Len(t, decode[[]models.Context](t, rec), 1)

	rec = env.do(t, http.MethodDelete, "/api/contexts/"+ctx.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = env.do(t, http.MethodGet, "/api/contexts", nil)
	assert.Empty(t, decode[[]models.Context](t, rec))
}

func TestAutomationRun(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/automations", map[string]any{
		"name": "morning nudge", "trigger_type": "schedule", "trigger_config": map[string]any{"cron": "0 7 * * *"},
		"action_type": "notify",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	a := decode[models.Automation](t, rec)
	assert.True(t, a.IsActive)
	assert.Nil(t, a.LastRunAt)

	rec = env.do(t, http.MethodPost, "/api/automations/"+a.ID.String()+"/run", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	ran := decode[models.Automation](t, rec)
	require.NotNil(t, ran.LastRunAt)
	assert.True(t, ran.LastRunAt.Equal(testNow))
	assert.JSONEq(t, `{"cron":"0 7 * * *"}`, string(ran.TriggerConfig))

	rec = env.do(t, http.MethodPut, "/api/automations/"+a.ID.String(), map[string]any{"is_active": false})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = env.do(t, http.MethodPost, "/api/automations/"+a.ID.String()+"/run", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/automations", map[string]any{"name": "x", "trigger_type": "schedule"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodDelete, "/api/automations/"+a.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = env.do(t, http.MethodGet, "/api/automations", nil)
	assert.Empty(t, decode[[]models.Automation](t, rec))
}
