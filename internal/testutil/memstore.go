// Package testutil holds in-memory fakes shared by package tests.
package testutil

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	dom "tasktracker/internal/domain"
	"tasktracker/internal/repo"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// MemStore implements repo.UserRepo and repo.TaskRepo in memory.
// All methods are safe for concurrent use; DeleteTask is atomic under the store lock.
type MemStore struct {
	mu       sync.RWMutex
	users    map[uuid.UUID]dom.User
	tasks    map[uuid.UUID]dom.Task
	subtasks map[uuid.UUID]dom.Subtask

	// Now stamps rows; override for deterministic timestamps.
	Now func() time.Time
	// FailSubtaskDelete makes the next DeleteTask fail after it has removed
	// the subtasks, to exercise rollback.
	FailSubtaskDelete error
}

var (
	_ repo.UserRepo = (*MemStore)(nil)
	_ repo.TaskRepo = (*MemStore)(nil)
)

func NewMemStore() *MemStore {
	return &MemStore{
		users:    map[uuid.UUID]dom.User{},
		tasks:    map[uuid.UUID]dom.Task{},
		subtasks: map[uuid.UUID]dom.Subtask{},
		Now:      func() time.Time { return time.Now().UTC() },
	}
}

// AddUser inserts a user directly and returns it.
func (s *MemStore) AddUser(email string) dom.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := dom.User{ID: uuid.New(), Email: email, CreatedAt: s.Now()}
	s.users[u.ID] = u
	return u
}

// TaskCount returns the number of stored tasks.
func (s *MemStore) TaskCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

// SubtaskCount returns the number of stored subtasks.
func (s *MemStore) SubtaskCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subtasks)
}

func (s *MemStore) GetByID(_ context.Context, id uuid.UUID) (dom.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return dom.User{}, repo.ErrNotFound
	}
	return u, nil
}

func (s *MemStore) GetByEmail(_ context.Context, email string) (dom.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return dom.User{}, repo.ErrNotFound
}

func (s *MemStore) Create(_ context.Context, u dom.User) (dom.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return dom.User{}, &pgconn.PgError{Code: "23505", Message: "duplicate key value"}
		}
	}
	u.CreatedAt = s.Now()
	s.users[u.ID] = u
	return u, nil
}

func (s *MemStore) Upsert(_ context.Context, u dom.User) (dom.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, existing := range s.users {
		if existing.Email == u.Email {
			if u.Name != "" {
				existing.Name = u.Name
				s.users[id] = existing
			}
			return existing, nil
		}
	}
	u.CreatedAt = s.Now()
	s.users[u.ID] = u
	return u, nil
}

func (s *MemStore) CreateTask(_ context.Context, t dom.Task) (dom.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[t.UserID]; !ok {
		return dom.Task{}, errors.New("tasks_user_id_fkey violation")
	}
	now := s.Now()
	t.CreatedAt, t.UpdatedAt = now, now
	s.tasks[t.ID] = t
	return t, nil
}

func (s *MemStore) GetTask(_ context.Context, id uuid.UUID) (dom.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tasks[id]
	if !ok {
		return dom.Task{}, repo.ErrNotFound
	}
	return t, nil
}

func (s *MemStore) ListTasksByUser(_ context.Context, userID uuid.UUID) ([]dom.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := []dom.Task{}
	for _, t := range s.tasks {
		if t.UserID == userID {
			list = append(list, t)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID.String() < list[j].ID.String()
	})
	return list, nil
}

func (s *MemStore) UpdateTask(_ context.Context, t dom.Task) (dom.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.tasks[t.ID]
	if !ok || cur.UserID != t.UserID {
		return dom.Task{}, repo.ErrNotFound
	}
	cur.Name = t.Name
	cur.Description = t.Description
	cur.CompletedAt = t.CompletedAt
	cur.UpdatedAt = s.Now()
	s.tasks[t.ID] = cur
	return cur, nil
}

func (s *MemStore) DeleteTask(_ context.Context, id, userID uuid.UUID) (dom.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok || t.UserID != userID {
		return dom.Task{}, repo.ErrNotFound
	}

	removed := map[uuid.UUID]dom.Subtask{}
	for sid, st := range s.subtasks {
		if st.TaskID == id {
			removed[sid] = st
			delete(s.subtasks, sid)
		}
	}
	if err := s.FailSubtaskDelete; err != nil {
		s.FailSubtaskDelete = nil
		for sid, st := range removed {
			s.subtasks[sid] = st
		}
		return dom.Task{}, err
	}
	delete(s.tasks, id)
	return t, nil
}

func (s *MemStore) CreateSubtask(_ context.Context, st dom.Subtask) (dom.Subtask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[st.TaskID]; !ok {
		return dom.Subtask{}, errors.New("subtasks_task_id_fkey violation")
	}
	now := s.Now()
	st.CreatedAt, st.UpdatedAt = now, now
	s.subtasks[st.ID] = st
	return st, nil
}

// GetSubtask lets tests look up a subtask directly; it is not part of repo.TaskRepo.
func (s *MemStore) GetSubtask(_ context.Context, id uuid.UUID) (dom.Subtask, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.subtasks[id]
	if !ok {
		return dom.Subtask{}, repo.ErrNotFound
	}
	return st, nil
}

func (s *MemStore) ListSubtasks(_ context.Context, taskID uuid.UUID) ([]dom.Subtask, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := []dom.Subtask{}
	for _, st := range s.subtasks {
		if st.TaskID == taskID {
			list = append(list, st)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.Before(list[j].CreatedAt)
		}
		return list[i].ID.String() < list[j].ID.String()
	})
	return list, nil
}
