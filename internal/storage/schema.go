// ABOUTME: Portable schema definition and initialization.
// ABOUTME: The same DDL runs on SQLite and PostgreSQL, one statement at a time.
package storage

import (
	"context"
	"fmt"
	"strings"
)

// Column types are chosen to mean the same thing in both dialects: times are
// RFC3339 TEXT, days are YYYY-MM-DD TEXT, IDs are UUID TEXT.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	email TEXT NOT NULL UNIQUE,
	name TEXT NOT NULL,
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS habits (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	name TEXT NOT NULL,
	description TEXT NOT NULL,
	frequency TEXT NOT NULL,
	target_per_period INTEGER NOT NULL,
	color TEXT NOT NULL,
	icon TEXT NOT NULL,
	is_active BOOLEAN NOT NULL,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS habit_logs (
	id TEXT PRIMARY KEY,
	habit_id TEXT NOT NULL REFERENCES habits(id) ON DELETE CASCADE,
	user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	date TEXT NOT NULL,
	completed BOOLEAN NOT NULL,
	value DOUBLE PRECISION,
	notes TEXT,
	created_at TEXT NOT NULL,
	UNIQUE (habit_id, date)
);

CREATE TABLE IF NOT EXISTS routines (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	name TEXT NOT NULL,
	description TEXT NOT NULL,
	time_of_day TEXT NOT NULL,
	is_active BOOLEAN NOT NULL,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS routine_steps (
	id TEXT PRIMARY KEY,
	routine_id TEXT NOT NULL REFERENCES routines(id) ON DELETE CASCADE,
	position INTEGER NOT NULL,
	title TEXT NOT NULL,
	duration_minutes INTEGER NOT NULL,
	notes TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS routine_logs (
	id TEXT PRIMARY KEY,
	routine_id TEXT NOT NULL REFERENCES routines(id) ON DELETE CASCADE,
	user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	started_at TEXT NOT NULL,
	completed_at TEXT,
	current_step INTEGER NOT NULL,
	completed_steps INTEGER NOT NULL,
	total_steps INTEGER NOT NULL,
	status TEXT NOT NULL,
	notes TEXT
);

CREATE TABLE IF NOT EXISTS goals (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	parent_id TEXT REFERENCES goals(id) ON DELETE CASCADE,
	title TEXT NOT NULL,
	description TEXT NOT NULL,
	category TEXT NOT NULL,
	status TEXT NOT NULL,
	progress INTEGER NOT NULL,
	target_date TEXT,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS food_logs (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	name TEXT NOT NULL,
	meal_type TEXT NOT NULL,
	quantity TEXT NOT NULL,
	calories DOUBLE PRECISION NOT NULL,
	protein DOUBLE PRECISION NOT NULL,
	carbs DOUBLE PRECISION NOT NULL,
	fat DOUBLE PRECISION NOT NULL,
	source TEXT NOT NULL,
	eaten_at TEXT NOT NULL,
	notes TEXT,
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS nutrition_goals (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	calories DOUBLE PRECISION NOT NULL,
	protein DOUBLE PRECISION NOT NULL,
	carbs DOUBLE PRECISION NOT NULL,
	fat DOUBLE PRECISION NOT NULL,
	water_ml DOUBLE PRECISION NOT NULL,
	is_active BOOLEAN NOT NULL,
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS weight_logs (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	weight_kg DOUBLE PRECISION NOT NULL,
	body_fat DOUBLE PRECISION,
	recorded_at TEXT NOT NULL,
	notes TEXT
);

CREATE TABLE IF NOT EXISTS sleep_logs (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	bed_time TEXT NOT NULL,
	wake_time TEXT NOT NULL,
	duration_hours DOUBLE PRECISION NOT NULL,
	quality INTEGER,
	notes TEXT
);

CREATE TABLE IF NOT EXISTS mood_logs (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	mood INTEGER NOT NULL,
	energy INTEGER,
	tags TEXT NOT NULL,
	notes TEXT,
	recorded_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS transactions (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	kind TEXT NOT NULL,
	amount DOUBLE PRECISION NOT NULL,
	category TEXT NOT NULL,
	description TEXT NOT NULL,
	occurred_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS workouts (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	workout_type TEXT NOT NULL,
	started_at TEXT NOT NULL,
	duration_minutes INTEGER,
	calories_burned DOUBLE PRECISION,
	notes TEXT,
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS exercises (
	id TEXT PRIMARY KEY,
	workout_id TEXT NOT NULL REFERENCES workouts(id) ON DELETE CASCADE,
	position INTEGER NOT NULL,
	name TEXT NOT NULL,
	sets INTEGER,
	reps INTEGER,
	weight_kg DOUBLE PRECISION,
	duration_seconds INTEGER,
	distance_km DOUBLE PRECISION
);

CREATE TABLE IF NOT EXISTS rituals (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	name TEXT NOT NULL,
	description TEXT NOT NULL,
	frequency TEXT NOT NULL,
	checklist TEXT NOT NULL,
	last_completed_at TEXT,
	next_due_at TEXT,
	is_active BOOLEAN NOT NULL,
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS contexts (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	name TEXT NOT NULL,
	description TEXT NOT NULL,
	color TEXT NOT NULL,
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS automations (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	name TEXT NOT NULL,
	trigger_type TEXT NOT NULL,
	trigger_config TEXT NOT NULL,
	action_type TEXT NOT NULL,
	action_config TEXT NOT NULL,
	is_active BOOLEAN NOT NULL,
	last_run_at TEXT,
	created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_habits_user ON habits(user_id);
CREATE INDEX IF NOT EXISTS idx_habit_logs_user_date ON habit_logs(user_id, date);
CREATE INDEX IF NOT EXISTS idx_routine_steps_routine ON routine_steps(routine_id, position);
CREATE INDEX IF NOT EXISTS idx_routine_logs_routine ON routine_logs(routine_id, started_at);
CREATE INDEX IF NOT EXISTS idx_goals_user ON goals(user_id);
CREATE INDEX IF NOT EXISTS idx_goals_parent ON goals(parent_id);
CREATE INDEX IF NOT EXISTS idx_food_logs_user_eaten ON food_logs(user_id, eaten_at);
CREATE INDEX IF NOT EXISTS idx_nutrition_goals_user ON nutrition_goals(user_id, is_active);
CREATE UNIQUE INDEX IF NOT EXISTS idx_nutrition_goals_active ON nutrition_goals(user_id) WHERE is_active;
CREATE INDEX IF NOT EXISTS idx_weight_logs_user ON weight_logs(user_id, recorded_at);
CREATE INDEX IF NOT EXISTS idx_sleep_logs_user ON sleep_logs(user_id, wake_time);
CREATE INDEX IF NOT EXISTS idx_mood_logs_user ON mood_logs(user_id, recorded_at);
CREATE INDEX IF NOT EXISTS idx_transactions_user ON transactions(user_id, occurred_at);
CREATE INDEX IF NOT EXISTS idx_workouts_user_started ON workouts(user_id, started_at);
CREATE INDEX IF NOT EXISTS idx_exercises_workout ON exercises(workout_id, position);
CREATE INDEX IF NOT EXISTS idx_rituals_user ON rituals(user_id);
CREATE INDEX IF NOT EXISTS idx_contexts_user ON contexts(user_id);
CREATE INDEX IF NOT EXISTS idx_automations_user ON automations(user_id)
`

// initSchema creates or updates the database schema.
func (d *DB) initSchema(ctx context.Context) error {
	for _, stmt := range strings.Split(schema, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := d.exec(ctx, stmt); err != nil {
			return fmt.Errorf("execute schema statement: %w", err)
		}
	}
	return nil
}
