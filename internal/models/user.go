// ABOUTME: User model, the owner of every tracked record.
// ABOUTME: A single default user is created lazily on first request.
package models

import (
	"time"

	"github.com/google/uuid"
)

// User owns habits, logs, goals and everything else in the system.
type User struct {
	ID        uuid.UUID `json:"id" yaml:"id"`
	Email     string    `json:"email" yaml:"email"`
	Name      string    `json:"name" yaml:"name"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// NewUser creates a User with a generated UUID.
func NewUser(email, name string) *User {
	return &User{
		ID:        uuid.New(),
		Email:     email,
		Name:      name,
		CreatedAt: time.Now(),
	}
}
