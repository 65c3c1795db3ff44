package graph

import (
	"context"

	dom "tasktracker/internal/domain"

	graphql "github.com/graph-gophers/graphql-go"
)

type UserResolver struct {
	user dom.User
}

func (u *UserResolver) ID() graphql.ID { return graphql.ID(u.user.ID.String()) }

func (u *UserResolver) Email() *string {
	if u.user.Email == "" {
		return nil
	}
	e := u.user.Email
	return &e
}

// Tasks only resolves for the viewer; other users' lists are never exposed.
func (u *UserResolver) Tasks(ctx context.Context) ([]*TaskResolver, error) {
	rc := RequestContextFrom(ctx)
	if rc.Caller == nil || rc.Caller.ID != u.user.ID {
		return []*TaskResolver{}, nil
	}
	list, err := rc.Tasks.ListForUser(ctx, rc.Caller)
	if err != nil {
		return nil, toGraphQLError(ctx, err)
	}
	out := make([]*TaskResolver, len(list))
	for i := range list {
		out[i] = &TaskResolver{task: list[i]}
	}
	return out, nil
}

type TaskResolver struct {
	task dom.Task
	// deleted tasks have no subtasks left to load.
	deleted bool
}

func (t *TaskResolver) ID() graphql.ID { return graphql.ID(t.task.ID.String()) }

func (t *TaskResolver) Name() string { return t.task.Name }

func (t *TaskResolver) Description() string { return t.task.Description }

func (t *TaskResolver) CompletedAt() *Date { return newDatePtr(t.task.CompletedAt) }

func (t *TaskResolver) CreatedAt() Date { return newDate(t.task.CreatedAt) }

func (t *TaskResolver) UpdatedAt() Date { return newDate(t.task.UpdatedAt) }

func (t *TaskResolver) User(ctx context.Context) (*UserResolver, error) {
	rc := RequestContextFrom(ctx)
	if rc.Caller != nil && rc.Caller.ID == t.task.UserID {
		return &UserResolver{user: *rc.Caller}, nil
	}
	u, err := rc.Tasks.Owner(ctx, t.task)
	if err != nil {
		return nil, toGraphQLError(ctx, err)
	}
	return &UserResolver{user: u}, nil
}

func (t *TaskResolver) Subtasks(ctx context.Context) ([]*SubtaskResolver, error) {
	if t.deleted {
		return []*SubtaskResolver{}, nil
	}
	rc := RequestContextFrom(ctx)
	list, err := rc.Tasks.Subtasks(ctx, rc.Caller, t.task.ID)
	if err != nil {
		return nil, toGraphQLError(ctx, err)
	}
	out := make([]*SubtaskResolver, len(list))
	for i := range list {
		out[i] = &SubtaskResolver{subtask: list[i]}
	}
	return out, nil
}

type SubtaskResolver struct {
	subtask dom.Subtask
}

func (s *SubtaskResolver) ID() graphql.ID { return graphql.ID(s.subtask.ID.String()) }

func (s *SubtaskResolver) Name() string { return s.subtask.Name }

func (s *SubtaskResolver) Description() string { return s.subtask.Description }

func (s *SubtaskResolver) CompletedAt() *Date { return newDatePtr(s.subtask.CompletedAt) }

func (s *SubtaskResolver) CreatedAt() Date { return newDate(s.subtask.CreatedAt) }

func (s *SubtaskResolver) UpdatedAt() Date { return newDate(s.subtask.UpdatedAt) }
