package domain

import (
	"time"

	"github.com/google/uuid"
)

// Task is a top-level unit of work owned by exactly one User.
// Ownership never transfers.
type Task struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// OwnedBy reports whether u owns the task.
func (t Task) OwnedBy(u User) bool {
	return t.UserID == u.ID
}

// Subtask belongs to exactly one Task.
type Subtask struct {
	ID          uuid.UUID
	TaskID      uuid.UUID
	Name        string
	Description string
	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TaskPatch lists the fields of a Task that may be changed by an update.
// A nil field is left unchanged.
type TaskPatch struct {
	Name        *string
	Description *string
	CompletedAt *time.Time
}

// IsEmpty reports whether the patch changes nothing.
func (p TaskPatch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.CompletedAt == nil
}

// Apply merges the set fields of p into t and returns the result. t is not modified.
func (p TaskPatch) Apply(t Task) Task {
	out := t
	if p.Name != nil {
		out.Name = *p.Name
	}
	if p.Description != nil {
		out.Description = *p.Description
	}
	if p.CompletedAt != nil {
		at := *p.CompletedAt
		out.CompletedAt = &at
	}
	return out
}
