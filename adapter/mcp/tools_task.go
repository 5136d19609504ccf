package mcp

import (
	"context"
	"errors"
	"strconv"

	"github.com/felixgeelhaar/mcp-go"

	"github.com/felixgeelhaar/tasklane/adapter/cli"
	"github.com/felixgeelhaar/tasklane/internal/productivity/application/commands"
	"github.com/felixgeelhaar/tasklane/internal/productivity/application/queries"
)

type taskWriteInput struct {
	Title       string  `json:"title" jsonschema:"required"`
	Description *string `json:"description,omitempty"`
	Status      string  `json:"status,omitempty"`
	Priority    string  `json:"priority,omitempty"`
	UserID      int64   `json:"user_id" jsonschema:"required"`
	DueDate     *string `json:"due_date,omitempty"`
}

func (in taskWriteInput) command() commands.CreateTaskCommand {
	return commands.CreateTaskCommand{
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
		Priority:    in.Priority,
		UserID:      in.UserID,
		DueDate:     in.DueDate,
	}
}

type taskUpdateInput struct {
	TaskID      int64   `json:"task_id" jsonschema:"required"`
	Title       string  `json:"title" jsonschema:"required"`
	Description *string `json:"description,omitempty"`
	Status      string  `json:"status,omitempty"`
	Priority    string  `json:"priority,omitempty"`
	UserID      int64   `json:"user_id" jsonschema:"required"`
	DueDate     *string `json:"due_date,omitempty"`
}

type taskListInput struct {
	UserID   int64  `json:"user_id,omitempty"`
	Status   string `json:"status,omitempty"`
	Priority string `json:"priority,omitempty"`
}

type taskIDInput struct {
	TaskID int64 `json:"task_id" jsonschema:"required"`
}

var errTaskIDRequired = errors.New("task_id is required")

type taskTools struct {
	app *cli.App
}

func registerTaskTools(srv *mcp.Server, deps ToolDependencies) error {
	tools := taskTools{app: deps.App}

	srv.Tool("task.list").
		Description("List tasks, optionally filtered by user_id, status and priority").
		Handler(tools.list)

	srv.Tool("task.get").
		Description("Get a task with its owner's name and email").
		Handler(tools.get)

	srv.Tool("task.create").
		Description("Create a task; status defaults to pending and priority to medium").
		Handler(tools.create)

	srv.Tool("task.update").
		Description("Replace every writable field of a task").
		Handler(tools.update)

	srv.Tool("task.delete").
		Description("Delete a task").
		Handler(tools.delete)

	return nil
}

func (t taskTools) list(ctx context.Context, input taskListInput) ([]queries.TaskDTO, error) {
	if t.app.ListTasksHandler == nil {
		return nil, cli.ErrNotInitialized
	}
	query := queries.ListTasksQuery{
		Status:   input.Status,
		Priority: input.Priority,
	}
	if input.UserID != 0 {
		query.UserID = strconv.FormatInt(input.UserID, 10)
	}
	return t.app.ListTasksHandler.Handle(ctx, query)
}

func (t taskTools) get(ctx context.Context, input taskIDInput) (*queries.TaskDTO, error) {
	if t.app.GetTaskHandler == nil {
		return nil, cli.ErrNotInitialized
	}
	if input.TaskID <= 0 {
		return nil, errTaskIDRequired
	}
	return t.app.GetTaskHandler.Handle(ctx, queries.GetTaskQuery{TaskID: input.TaskID})
}

func (t taskTools) create(ctx context.Context, input taskWriteInput) (*queries.TaskDTO, error) {
	if t.app.CreateTaskHandler == nil {
		return nil, cli.ErrNotInitialized
	}
	return t.app.CreateTaskHandler.Handle(ctx, input.command())
}

func (t taskTools) update(ctx context.Context, input taskUpdateInput) (*queries.TaskDTO, error) {
	if t.app.UpdateTaskHandler == nil {
		return nil, cli.ErrNotInitialized
	}
	if input.TaskID <= 0 {
		return nil, errTaskIDRequired
	}
	return t.app.UpdateTaskHandler.Handle(ctx, commands.UpdateTaskCommand{
		TaskID: input.TaskID,
		CreateTaskCommand: taskWriteInput{
			Title:       input.Title,
			Description: input.Description,
			Status:      input.Status,
			Priority:    input.Priority,
			UserID:      input.UserID,
			DueDate:     input.DueDate,
		}.command(),
	})
}

func (t taskTools) delete(ctx context.Context, input taskIDInput) (*deleteResult, error) {
	if t.app.DeleteTaskHandler == nil {
		return nil, cli.ErrNotInitialized
	}
	if input.TaskID <= 0 {
		return nil, errTaskIDRequired
	}
	result, err := t.app.DeleteTaskHandler.Handle(ctx, commands.DeleteTaskCommand{TaskID: input.TaskID})
	if err != nil {
		return nil, err
	}
	return &deleteResult{Message: "Task deleted successfully", DeletedID: result.DeletedID}, nil
}
