// ABOUTME: Context model: a named life area (work, home, errands) used to group items.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Context is a user-defined life area.
type Context struct {
	ID          uuid.UUID `json:"id" yaml:"id"`
	UserID      uuid.UUID `json:"user_id" yaml:"user_id"`
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Color       string    `json:"color,omitempty" yaml:"color,omitempty"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
}

// NewContext creates a Context.
func NewContext(userID uuid.UUID, name string) *Context {
	return &Context{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      name,
		CreatedAt: time.Now(),
	}
}
