package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	dom "tasktracker/internal/domain"
	"tasktracker/internal/repo"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"tasktracker/internal/cache"
)

const (
	maxNameLen        = 120
	maxDescriptionLen = 1000
)

// TaskService enforces task ownership and keeps related writes consistent.
type TaskService struct {
	repo  repo.TaskRepo
	users repo.UserRepo
	cache *cache.TaskCache
	sf    singleflight.Group
}

// NewTaskService creates a TaskService. If c is nil, caching is disabled.
func NewTaskService(r repo.TaskRepo, users repo.UserRepo, c *cache.TaskCache) *TaskService {
	return &TaskService{repo: r, users: users, cache: c}
}

func (s *TaskService) Create(ctx context.Context, caller *dom.User, name, desc string) (dom.Task, error) {
	if caller == nil {
		return dom.Task{}, ErrUnauthenticated
	}
	name, desc = strings.TrimSpace(name), strings.TrimSpace(desc)
	if err := validateText(name, desc); err != nil {
		return dom.Task{}, err
	}
	t, err := s.repo.CreateTask(ctx, dom.Task{
		ID:          uuid.New(),
		UserID:      caller.ID,
		Name:        name,
		Description: desc,
	})
	if err != nil {
		return dom.Task{}, fmt.Errorf("create task: %w", err)
	}
	s.invalidateCache(ctx, caller.ID)
	return t, nil
}

// Update applies only the fields set in patch.
func (s *TaskService) Update(ctx context.Context, caller *dom.User, id uuid.UUID, patch dom.TaskPatch) (dom.Task, error) {
	existing, err := s.owned(ctx, caller, id)
	if err != nil {
		return dom.Task{}, err
	}
	if patch.Name != nil {
		v := strings.TrimSpace(*patch.Name)
		patch.Name = &v
	}
	if patch.Description != nil {
		v := strings.TrimSpace(*patch.Description)
		patch.Description = &v
	}
	updated := patch.Apply(existing)
	if err := validateText(updated.Name, updated.Description); err != nil {
		return dom.Task{}, err
	}
	if patch.IsEmpty() {
		return existing, nil
	}
	t, err := s.repo.UpdateTask(ctx, updated)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return dom.Task{}, ErrNotFound
		}
		return dom.Task{}, fmt.Errorf("update task: %w", err)
	}
	s.invalidateCache(ctx, caller.ID)
	return t, nil
}

// Delete removes the task and all of its subtasks in one transaction.
func (s *TaskService) Delete(ctx context.Context, caller *dom.User, id uuid.UUID) (dom.Task, error) {
	if _, err := s.owned(ctx, caller, id); err != nil {
		return dom.Task{}, err
	}
	t, err := s.repo.DeleteTask(ctx, id, caller.ID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return dom.Task{}, ErrNotFound
		}
		return dom.Task{}, fmt.Errorf("delete task: %w", err)
	}
	s.invalidateCache(ctx, caller.ID)
	return t, nil
}

func (s *TaskService) CreateSubtask(ctx context.Context, caller *dom.User, taskID uuid.UUID, name, desc string) (dom.Subtask, error) {
	if _, err := s.owned(ctx, caller, taskID); err != nil {
		return dom.Subtask{}, err
	}
	name, desc = strings.TrimSpace(name), strings.TrimSpace(desc)
	if err := validateText(name, desc); err != nil {
		return dom.Subtask{}, err
	}
	st, err := s.repo.CreateSubtask(ctx, dom.Subtask{
		ID:          uuid.New(),
		TaskID:      taskID,
		Name:        name,
		Description: desc,
	})
	if err != nil {
		return dom.Subtask{}, fmt.Errorf("create subtask: %w", err)
	}
	return st, nil
}

// ListForUser returns the caller's tasks, newest first.
func (s *TaskService) ListForUser(ctx context.Context, caller *dom.User) ([]dom.Task, error) {
	if caller == nil {
		return nil, ErrUnauthenticated
	}
	userID := caller.ID
	if s.cache == nil {
		return s.repo.ListTasksByUser(ctx, userID)
	}
	// The generation is read before the database so a write that lands in
	// between keeps the list it made stale out of the cache.
	gen, err := s.cache.Generation(ctx, userID)
	if err != nil {
		return s.repo.ListTasksByUser(ctx, userID)
	}
	key := fmt.Sprintf("list:%s:%d", userID, gen)
	// Shared by every caller in the flight, so it must outlive the first one.
	fetchCtx := context.WithoutCancel(ctx)
	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		if list, err := s.cache.GetList(fetchCtx, userID); err == nil && list != nil {
			return list, nil
		}
		list, err := s.repo.ListTasksByUser(fetchCtx, userID)
		if err != nil {
			return nil, err
		}
		_, _ = s.cache.SetListIfCurrent(fetchCtx, userID, gen, list)
		return list, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]dom.Task), nil
}

// Subtasks lists a task's subtasks, oldest first. taskID must come from a task
// already returned to caller by this service.
func (s *TaskService) Subtasks(ctx context.Context, caller *dom.User, taskID uuid.UUID) ([]dom.Subtask, error) {
	if caller == nil {
		return nil, ErrUnauthenticated
	}
	return s.repo.ListSubtasks(ctx, taskID)
}

// Owner returns the user that owns t.
func (s *TaskService) Owner(ctx context.Context, t dom.Task) (dom.User, error) {
	u, err := s.users.GetByID(ctx, t.UserID)
	if errors.Is(err, repo.ErrNotFound) {
		return dom.User{}, ErrNotFound
	}
	return u, err
}

// owned runs the ownership check: caller, then existence, then owner.
// Existence is checked first so a missing id never says more than "not found".
func (s *TaskService) owned(ctx context.Context, caller *dom.User, id uuid.UUID) (dom.Task, error) {
	if caller == nil {
		return dom.Task{}, ErrUnauthenticated
	}
	t, err := s.repo.GetTask(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return dom.Task{}, ErrNotFound
		}
		return dom.Task{}, err
	}
	if !t.OwnedBy(*caller) {
		return dom.Task{}, ErrUnauthorized
	}
	return t, nil
}

func (s *TaskService) invalidateCache(ctx context.Context, userID uuid.UUID) {
	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, userID)
	}
}

func validateText(name, desc string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	case desc == "":
		return fmt.Errorf("%w: description is required", ErrInvalidInput)
	case utf8.RuneCountInString(name) > maxNameLen:
		return fmt.Errorf("%w: name is longer than %d characters", ErrInvalidInput, maxNameLen)
	case utf8.RuneCountInString(desc) > maxDescriptionLen:
		return fmt.Errorf("%w: description is longer than %d characters", ErrInvalidInput, maxDescriptionLen)
	}
	return nil
}
