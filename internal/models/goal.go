// ABOUTME: Goal model with self-referential parent/child hierarchy.
// ABOUTME: BuildGoalTree assembles a flat goal list into nested nodes.
package models

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// GoalStatus is the lifecycle status of a goal.
type GoalStatus string

const (
	GoalNotStarted GoalStatus = "not_started"
	GoalInProgress GoalStatus = "in_progress"
	GoalCompleted  GoalStatus = "completed"
	GoalAbandoned  GoalStatus = "abandoned"
)

// IsValidGoalStatus checks if a string is a valid goal status.
func IsValidGoalStatus(s string) bool {
	switch GoalStatus(s) {
	case GoalNotStarted, GoalInProgress, GoalCompleted, GoalAbandoned:
		return true
	}
	return false
}

// Goal is a target with progress, optionally nested under a parent goal.
type Goal struct {
	ID          uuid.UUID  `json:"id" yaml:"id"`
	UserID      uuid.UUID  `json:"user_id" yaml:"user_id"`
	ParentID    *uuid.UUID `json:"parent_id,omitempty" yaml:"parent_id,omitempty"`
	Title       string     `json:"title" yaml:"title"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Category    string     `json:"category,omitempty" yaml:"category,omitempty"`
	Status      GoalStatus `json:"status" yaml:"status"`
	Progress    int        `json:"progress" yaml:"progress"`
	TargetDate  *string    `json:"target_date,omitempty" yaml:"target_date,omitempty"` // YYYY-MM-DD
	CreatedAt   time.Time  `json:"created_at" yaml:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" yaml:"updated_at"`
}

// NewGoal creates a not-started root goal.
func NewGoal(userID uuid.UUID, title string) *Goal {
	now := time.Now()
	return &Goal{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     title,
		Status:    GoalNotStarted,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// WithParent nests the goal under parent.
func (g *Goal) WithParent(parent uuid.UUID) *Goal {
	g.ParentID = &parent
	return g
}

// Validate checks progress bounds, status and self-parenting.
func (g *Goal) Validate() error {
	if g.Title == "" {
		return fmt.Errorf("title is required")
	}
	if g.Progress < 0 || g.Progress > 100 {
		return fmt.Errorf("progress must be between 0 and 100, got %d", g.Progress)
	}
	if !IsValidGoalStatus(string(g.Status)) {
		return fmt.Errorf("invalid goal status: %s", g.Status)
	}
	if g.ParentID != nil && *g.ParentID == g.ID {
		return fmt.Errorf("goal cannot be its own parent")
	}
	return nil
}

// GoalNode is a goal with its children attached.
type GoalNode struct {
	*Goal
	Children []*GoalNode `json:"children"`
}

// BuildGoalTree nests goals by ParentID. Goals whose parent is not in the
// list are returned as roots. Siblings are ordered by CreatedAt.
func BuildGoalTree(goals []*Goal) []*GoalNode {
	nodes := make(map[uuid.UUID]*GoalNode, len(goals))
	for _, g := range goals {
		nodes[g.ID] = &GoalNode{Goal: g, Children: []*GoalNode{}}
	}

	var roots []*GoalNode
	for _, g := range goals {
		n := nodes[g.ID]
		if g.ParentID != nil {
			if parent, ok := nodes[*g.ParentID]; ok && parent != n {
				parent.Children = append(parent.Children, n)
				continue
			}
		}
		roots = append(roots, n)
	}

	sortGoalNodes(roots)
	return roots
}

func sortGoalNodes(nodes []*GoalNode) {
	sort.SliceStable(nodes, func(i, j int) bool {
		return nodes[i].CreatedAt.Before(nodes[j].CreatedAt)
	})
	for _, n := range nodes {
		sortGoalNodes(n.Children)
	}
}
