package cli

import (
	"errors"

	internalApp "github.com/felixgeelhaar/tasklane/internal/app"
	identityCommands "github.com/felixgeelhaar/tasklane/internal/identity/application/commands"
	identityQueries "github.com/felixgeelhaar/tasklane/internal/identity/application/queries"
	"github.com/felixgeelhaar/tasklane/internal/productivity/application/commands"
	"github.com/felixgeelhaar/tasklane/internal/productivity/application/queries"
)

// ErrNotInitialized is returned by commands that need the store when the
// container could not be built.
var ErrNotInitialized = errors.New("application not initialized - database connection required")

// App holds the CLI application dependencies.
type App struct {
	Container *internalApp.Container

	// User Handlers
	ListUsersHandler  *identityQueries.ListUsersHandler
	GetUserHandler    *identityQueries.GetUserHandler
	CreateUserHandler *identityCommands.CreateUserHandler
	UpdateUserHandler *identityCommands.UpdateUserHandler
	DeleteUserHandler *identityCommands.DeleteUserHandler

	// Task Handlers
	ListTasksHandler   *queries.ListTasksHandler
	GetTaskHandler     *queries.GetTaskHandler
	ExportTasksHandler *queries.ExportTasksHandler
	CreateTaskHandler  *commands.CreateTaskHandler
	UpdateTaskHandler  *commands.UpdateTaskHandler
	DeleteTaskHandler  *commands.DeleteTaskHandler
}

// NewApp creates a CLI application backed by the container's handlers.
func NewApp(container *internalApp.Container) *App {
	return &App{
		Container:          container,
		ListUsersHandler:   container.ListUsersHandler,
		GetUserHandler:     container.GetUserHandler,
		CreateUserHandler:  container.CreateUserHandler,
		UpdateUserHandler:  container.UpdateUserHandler,
		DeleteUserHandler:  container.DeleteUserHandler,
		ListTasksHandler:   container.ListTasksHandler,
		GetTaskHandler:     container.GetTaskHandler,
		ExportTasksHandler: container.ExportTasksHandler,
		CreateTaskHandler:  container.CreateTaskHandler,
		UpdateTaskHandler:  container.UpdateTaskHandler,
		DeleteTaskHandler:  container.DeleteTaskHandler,
	}
}

// app is the global CLI application instance
var app *App

// SetApp sets the global CLI application instance.
func SetApp(a *App) {
	app = a
}

// GetApp returns the global CLI application instance.
func GetApp() *App {
	return app
}

// RequireApp returns the global application or ErrNotInitialized.
func RequireApp() (*App, error) {
	if app == nil || app.Container == nil {
		return nil, ErrNotInitialized
	}
	return app, nil
}
