package client

import (
	"context"
	"fmt"
	"time"
)

const taskFields = `id name description completedAt createdAt updatedAt
	subtasks { id name description completedAt createdAt updatedAt }`

const (
	viewerQuery = `query CurrentUser { viewer { id email } }`

	tasksQuery = `query Tasks { viewer { id tasks { ` + taskFields + ` } } }`

	createTaskMutation = `mutation CreateTask($name: String!, $description: String!) {
	createTask(name: $name, description: $description) { ` + taskFields + ` }
}`

	updateTaskMutation = `mutation UpdateTask($id: ID!, $name: String, $description: String, $completedAt: Date) {
	updateTask(id: $id, name: $name, description: $description, completedAt: $completedAt) { ` + taskFields + ` }
}`

	deleteTaskMutation = `mutation DeleteTask($id: ID!) { deleteTask(id: $id) { id } }`

	createSubtaskMutation = `mutation CreateSubtask($name: String!, $description: String!, $taskId: ID!) {
	createSubtask(name: $name, description: $description, taskId: $taskId) { id name description completedAt createdAt updatedAt }
}`
)

// Viewer returns the signed-in user, or nil when the session is anonymous.
func (c *Client) Viewer(ctx context.Context) (*User, error) {
	var out struct {
		Viewer *User `json:"viewer"`
	}
	if err := c.do(ctx, viewerQuery, nil, &out); err != nil {
		return nil, err
	}
	return out.Viewer, nil
}

// Tasks returns the viewer's tasks, from cache when present.
func (c *Client) Tasks(ctx context.Context, viewer User) ([]Task, error) {
	key := TaskListKey(viewer.ID)
	if list, ok := c.cache.Get(key); ok {
		return list, nil
	}
	var out struct {
		Viewer *struct {
			ID    string `json:"id"`
			Tasks []Task `json:"tasks"`
		} `json:"viewer"`
	}
	if err := c.do(ctx, tasksQuery, nil, &out); err != nil {
		return nil, err
	}
	if out.Viewer == nil || out.Viewer.ID != viewer.ID {
		return nil, &ResponseError{Errors: []GraphQLError{unauthenticated()}}
	}
	c.cache.Set(key, out.Viewer.Tasks)
	return out.Viewer.Tasks, nil
}

// CreateTask creates a task. The cached list is dropped so the next Tasks
// call refetches it.
func (c *Client) CreateTask(ctx context.Context, viewer User, name, description string) (Task, error) {
	var out struct {
		CreateTask *Task `json:"createTask"`
	}
	vars := map[string]interface{}{"name": name, "description": description}
	if err := c.do(ctx, createTaskMutation, vars, &out); err != nil {
		return Task{}, err
	}
	if out.CreateTask == nil || out.CreateTask.ID == "" {
		return Task{}, fmt.Errorf("createTask: response has no id")
	}
	c.cache.Invalidate(TaskListKey(viewer.ID))
	return *out.CreateTask, nil
}

// UpdateTask sends only the fields set in in and replaces the cached entry.
func (c *Client) UpdateTask(ctx context.Context, viewer User, id string, in UpdateTaskInput) (Task, error) {
	vars := map[string]interface{}{"id": id}
	if in.Name != nil {
		vars["name"] = *in.Name
	}
	if in.Description != nil {
		vars["description"] = *in.Description
	}
	if in.CompletedAt != nil {
		vars["completedAt"] = in.CompletedAt.UTC().Format(time.RFC3339Nano)
	}
	var out struct {
		UpdateTask *Task `json:"updateTask"`
	}
	if err := c.do(ctx, updateTaskMutation, vars, &out); err != nil {
		return Task{}, err
	}
	if out.UpdateTask == nil || out.UpdateTask.ID != id {
		return Task{}, fmt.Errorf("updateTask: response has no id")
	}
	updated := *out.UpdateTask
	c.cache.Modify(TaskListKey(viewer.ID), func(list []Task) []Task {
		for i := range list {
			if list[i].ID == updated.ID {
				list[i] = updated
			}
		}
		return list
	})
	return updated, nil
}

// DeleteTask deletes a task and evicts exactly that entry from the cached
// list, without refetching.
func (c *Client) DeleteTask(ctx context.Context, viewer User, id string) error {
	var out struct {
		DeleteTask *struct {
			ID string `json:"id"`
		} `json:"deleteTask"`
	}
	if err := c.do(ctx, deleteTaskMutation, map[string]interface{}{"id": id}, &out); err != nil {
		return err
	}
	if out.DeleteTask == nil || out.DeleteTask.ID != id {
		return fmt.Errorf("deleteTask: response has no id")
	}
	c.cache.Evict(TaskListKey(viewer.ID), ByID(id))
	return nil
}

// CreateSubtask adds a subtask and appends it to the cached parent entry.
func (c *Client) CreateSubtask(ctx context.Context, viewer User, taskID, name, description string) (Subtask, error) {
	var out struct {
		CreateSubtask *Subtask `json:"createSubtask"`
	}
	vars := map[string]interface{}{"name": name, "description": description, "taskId": taskID}
	if err := c.do(ctx, createSubtaskMutation, vars, &out); err != nil {
		return Subtask{}, err
	}
	if out.CreateSubtask == nil || out.CreateSubtask.ID == "" {
		return Subtask{}, fmt.Errorf("createSubtask: response has no id")
	}
	st := *out.CreateSubtask
	c.cache.Modify(TaskListKey(viewer.ID), func(list []Task) []Task {
		for i := range list {
			if list[i].ID == taskID {
				list[i].Subtasks = append(append([]Subtask(nil), list[i].Subtasks...), st)
			}
		}
		return list
	})
	return st, nil
}

func unauthenticated() GraphQLError {
	var e GraphQLError
	e.Message = "You must be signed in"
	e.Extensions.Code = "UNAUTHENTICATED"
	return e
}
