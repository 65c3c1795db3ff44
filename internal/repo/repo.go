package repo

import (
	"context"
	"errors"

	dom "tasktracker/internal/domain"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no row matches the lookup.
var ErrNotFound = errors.New("record not found")

// UserRepo provides user persistence.
type UserRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (dom.User, error)
	GetByEmail(ctx context.Context, email string) (dom.User, error)
	// Create inserts a credentials user. A duplicate email surfaces as a unique violation.
	Create(ctx context.Context, u dom.User) (dom.User, error)
	// Upsert returns the user with the given email, creating it on first sign-in.
	Upsert(ctx context.Context, u dom.User) (dom.User, error)
}

// TaskRepo provides task and subtask persistence.
type TaskRepo interface {
	CreateTask(ctx context.Context, t dom.Task) (dom.Task, error)
	GetTask(ctx context.Context, id uuid.UUID) (dom.Task, error)
	ListTasksByUser(ctx context.Context, userID uuid.UUID) ([]dom.Task, error)
	UpdateTask(ctx context.Context, t dom.Task) (dom.Task, error)
	// DeleteTask removes the task owned by userID together with its subtasks,
	// atomically. It returns the deleted task.
	DeleteTask(ctx context.Context, id, userID uuid.UUID) (dom.Task, error)

	CreateSubtask(ctx context.Context, s dom.Subtask) (dom.Subtask, error)
	ListSubtasks(ctx context.Context, taskID uuid.UUID) ([]dom.Subtask, error)
}
