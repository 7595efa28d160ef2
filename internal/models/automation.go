// ABOUTME: Automation model pairing a trigger with an action.
// ABOUTME: Trigger and action configs are opaque JSON documents.
package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Automation is a stored trigger/action pair. The service records runs but
// does not schedule them.
type Automation struct {
	ID            uuid.UUID       `json:"id" yaml:"id"`
	UserID        uuid.UUID       `json:"user_id" yaml:"user_id"`
	Name          string          `json:"name" yaml:"name"`
	TriggerType   string          `json:"trigger_type" yaml:"trigger_type"`
	TriggerConfig json.RawMessage `json:"trigger_config,omitempty" yaml:"-"`
	ActionType    string          `json:"action_type" yaml:"action_type"`
	ActionConfig  json.RawMessage `json:"action_config,omitempty" yaml:"-"`
	IsActive      bool            `json:"is_active" yaml:"is_active"`
	LastRunAt     *time.Time      `json:"last_run_at,omitempty" yaml:"last_run_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at" yaml:"created_at"`
}

// NewAutomation creates an active automation with empty configs.
func NewAutomation(userID uuid.UUID, name, triggerType, actionType string) *Automation {
	return &Automation{
		ID:            uuid.New(),
		UserID:        userID,
		Name:          name,
		TriggerType:   triggerType,
		TriggerConfig: json.RawMessage(`{}`),
		ActionType:    actionType,
		ActionConfig:  json.RawMessage(`{}`),
		IsActive:      true,
		CreatedAt:     time.Now(),
	}
}
