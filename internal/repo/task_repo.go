package repo

import (
	"context"
	"errors"
	"fmt"

	dom "tasktracker/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	taskColumns    = `id, user_id, name, description, completed_at, created_at, updated_at`
	subtaskColumns = `id, task_id, name, description, completed_at, created_at, updated_at`
)

type PGTaskRepo struct {
	db *pgxpool.Pool
}

func NewPGTaskRepo(db *pgxpool.Pool) *PGTaskRepo {
	return &PGTaskRepo{db: db}
}

// CreateTask stamps created_at and updated_at with the same NOW().
func (r *PGTaskRepo) CreateTask(ctx context.Context, t dom.Task) (dom.Task, error) {
	query := `
		INSERT INTO tasks (id, user_id, name, description, completed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING ` + taskColumns
	return scanTask(r.db.QueryRow(ctx, query, t.ID, t.UserID, t.Name, t.Description, t.CompletedAt))
}

func (r *PGTaskRepo) GetTask(ctx context.Context, id uuid.UUID) (dom.Task, error) {
	return scanTask(r.db.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id))
}

func (r *PGTaskRepo) ListTasksByUser(ctx context.Context, userID uuid.UUID) ([]dom.Task, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE user_id = $1 ORDER BY created_at DESC, id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := []dom.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func (r *PGTaskRepo) UpdateTask(ctx context.Context, t dom.Task) (dom.Task, error) {
	query := `
		UPDATE tasks SET name = $2, description = $3, completed_at = $4, updated_at = NOW()
		WHERE id = $1 AND user_id = $5
		RETURNING ` + taskColumns
	return scanTask(r.db.QueryRow(ctx, query, t.ID, t.Name, t.Description, t.CompletedAt, t.UserID))
}

// DeleteTask runs both deletes inside one transaction callback, so a failure
// in either rolls back the other.
func (r *PGTaskRepo) DeleteTask(ctx context.Context, id, userID uuid.UUID) (dom.Task, error) {
	var out dom.Task
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`DELETE FROM subtasks WHERE task_id IN (SELECT id FROM tasks WHERE id = $1 AND user_id = $2)`,
			id, userID); err != nil {
			return fmt.Errorf("delete subtasks: %w", err)
		}
		t, err := scanTask(tx.QueryRow(ctx,
			`DELETE FROM tasks WHERE id = $1 AND user_id = $2 RETURNING `+taskColumns, id, userID))
		if err != nil {
			return err
		}
		out = t
		return nil
	})
	if err != nil {
		return dom.Task{}, err
	}
	return out, nil
}

func (r *PGTaskRepo) CreateSubtask(ctx context.Context, s dom.Subtask) (dom.Subtask, error) {
	query := `
		INSERT INTO subtasks (id, task_id, name, description, completed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING ` + subtaskColumns
	return scanSubtask(r.db.QueryRow(ctx, query, s.ID, s.TaskID, s.Name, s.Description, s.CompletedAt))
}

func (r *PGTaskRepo) ListSubtasks(ctx context.Context, taskID uuid.UUID) ([]dom.Subtask, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+subtaskColumns+` FROM subtasks WHERE task_id = $1 ORDER BY created_at, id`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := []dom.Subtask{}
	for rows.Next() {
		s, err := scanSubtask(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func scanTask(row pgx.Row) (dom.Task, error) {
	var t dom.Task
	err := row.Scan(&t.ID, &t.UserID, &t.Name, &t.Description, &t.CompletedAt, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return dom.Task{}, ErrNotFound
	}
	return t, err
}

func scanSubtask(row pgx.Row) (dom.Subtask, error) {
	var s dom.Subtask
	err := row.Scan(&s.ID, &s.TaskID, &s.Name, &s.Description, &s.CompletedAt, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return dom.Subtask{}, ErrNotFound
	}
	return s, err
}
