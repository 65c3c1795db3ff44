package graph

import (
	"context"

	dom "tasktracker/internal/domain"

	"github.com/google/uuid"
	graphql "github.com/graph-gophers/graphql-go"
)

// Resolver is the root resolver for both Query and Mutation. It holds no
// state; everything per-request comes from RequestContext.
type Resolver struct{}

func (r *Resolver) Viewer(ctx context.Context) (*UserResolver, error) {
	rc := RequestContextFrom(ctx)
	if rc.Caller == nil {
		return nil, nil
	}
	return &UserResolver{user: *rc.Caller}, nil
}

type createTaskArgs struct {
	Name        string
	Description string
}

func (r *Resolver) CreateTask(ctx context.Context, args createTaskArgs) (*TaskResolver, error) {
	rc := RequestContextFrom(ctx)
	t, err := rc.Tasks.Create(ctx, rc.Caller, args.Name, args.Description)
	if err != nil {
		return nil, toGraphQLError(ctx, err)
	}
	return &TaskResolver{task: t}, nil
}

type updateTaskArgs struct {
	ID          graphql.ID
	Name        *string
	Description *string
	CompletedAt *Date
}

func (r *Resolver) UpdateTask(ctx context.Context, args updateTaskArgs) (*TaskResolver, error) {
	rc := RequestContextFrom(ctx)
	patch := dom.TaskPatch{Name: args.Name, Description: args.Description}
	if args.CompletedAt != nil {
		at := args.CompletedAt.Time
		patch.CompletedAt = &at
	}
	t, err := rc.Tasks.Update(ctx, rc.Caller, parseID(args.ID), patch)
	if err != nil {
		return nil, toGraphQLError(ctx, err)
	}
	return &TaskResolver{task: t}, nil
}

type deleteTaskArgs struct {
	ID graphql.ID
}

func (r *Resolver) DeleteTask(ctx context.Context, args deleteTaskArgs) (*TaskResolver, error) {
	rc := RequestContextFrom(ctx)
	t, err := rc.Tasks.Delete(ctx, rc.Caller, parseID(args.ID))
	if err != nil {
		return nil, toGraphQLError(ctx, err)
	}
	return &TaskResolver{task: t, deleted: true}, nil
}

type createSubtaskArgs struct {
	Name        string
	Description string
	TaskID      graphql.ID
}

func (r *Resolver) CreateSubtask(ctx context.Context, args createSubtaskArgs) (*SubtaskResolver, error) {
	rc := RequestContextFrom(ctx)
	st, err := rc.Tasks.CreateSubtask(ctx, rc.Caller, parseID(args.TaskID), args.Name, args.Description)
	if err != nil {
		return nil, toGraphQLError(ctx, err)
	}
	return &SubtaskResolver{subtask: st}, nil
}

// parseID maps malformed ids to uuid.Nil, which never exists.
func parseID(id graphql.ID) uuid.UUID {
	v, err := uuid.Parse(string(id))
	if err != nil {
		return uuid.Nil
	}
	return v
}
