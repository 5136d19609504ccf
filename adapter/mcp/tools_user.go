package mcp

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/mcp-go"

	"github.com/felixgeelhaar/tasklane/adapter/cli"
	"github.com/felixgeelhaar/tasklane/internal/identity/application/commands"
	"github.com/felixgeelhaar/tasklane/internal/identity/application/queries"
)

type userIDInput struct {
	UserID int64 `json:"user_id" jsonschema:"required"`
}

type userCreateInput struct {
	Name  string `json:"name" jsonschema:"required"`
	Email string `json:"email" jsonschema:"required"`
}

type userUpdateInput struct {
	UserID int64  `json:"user_id" jsonschema:"required"`
	Name   string `json:"name" jsonschema:"required"`
	Email  string `json:"email" jsonschema:"required"`
}

var errUserIDRequired = errors.New("user_id is required")

type userTools struct {
	app *cli.App
}

func registerUserTools(srv *mcp.Server, deps ToolDependencies) error {
	tools := userTools{app: deps.App}

	srv.Tool("user.list").
		Description("List all users, newest first").
		Handler(tools.list)

	srv.Tool("user.get").
		Description("Get a user by id").
		Handler(tools.get)

	srv.Tool("user.create").
		Description("Create a user with a unique email").
		Handler(tools.create)

	srv.Tool("user.update").
		Description("Replace a user's name and email").
		Handler(tools.update)

	srv.Tool("user.delete").
		Description("Delete a user and all of their tasks").
		Handler(tools.delete)

	return nil
}

func (t userTools) list(ctx context.Context, _ struct{}) ([]queries.UserDTO, error) {
	if t.app.ListUsersHandler == nil {
		return nil, cli.ErrNotInitialized
	}
	return t.app.ListUsersHandler.Handle(ctx)
}

func (t userTools) get(ctx context.Context, input userIDInput) (*queries.UserDTO, error) {
	if t.app.GetUserHandler == nil {
		return nil, cli.ErrNotInitialized
	}
	if input.UserID <= 0 {
		return nil, errUserIDRequired
	}
	return t.app.GetUserHandler.Handle(ctx, queries.GetUserQuery{UserID: input.UserID})
}

func (t userTools) create(ctx context.Context, input userCreateInput) (*queries.UserDTO, error) {
	if t.app.CreateUserHandler == nil {
		return nil, cli.ErrNotInitialized
	}
	return t.app.CreateUserHandler.Handle(ctx, commands.CreateUserCommand{
		Name:  input.Name,
		Email: input.Email,
	})
}

func (t userTools) update(ctx context.Context, input userUpdateInput) (*queries.UserDTO, error) {
	if t.app.UpdateUserHandler == nil {
		return nil, cli.ErrNotInitialized
	}
	if input.UserID <= 0 {
		return nil, errUserIDRequired
	}
	return t.app.UpdateUserHandler.Handle(ctx, commands.UpdateUserCommand{
		UserID: input.UserID,
		Name:   input.Name,
		Email:  input.Email,
	})
}

func (t userTools) delete(ctx context.Context, input userIDInput) (*deleteResult, error) {
	if t.app.DeleteUserHandler == nil {
		return nil, cli.ErrNotInitialized
	}
	if input.UserID <= 0 {
		return nil, errUserIDRequired
	}
	result, err := t.app.DeleteUserHandler.Handle(ctx, commands.DeleteUserCommand{UserID: input.UserID})
	if err != nil {
		return nil, err
	}
	return &deleteResult{Message: "User deleted successfully", DeletedID: result.DeletedID}, nil
}
