package task

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/tasklane/adapter/cli"
	internalApp "github.com/felixgeelhaar/tasklane/internal/app"
	identityCommands "github.com/felixgeelhaar/tasklane/internal/identity/application/commands"
	"github.com/felixgeelhaar/tasklane/internal/productivity/application/queries"
	sharedDomain "github.com/felixgeelhaar/tasklane/internal/shared/domain"
	"github.com/felixgeelhaar/tasklane/pkg/config"
)

// setupTestApp creates a CLI app on a fresh SQLite store with one user.
func setupTestApp(t *testing.T) (*cli.App, int64) {
	t.Helper()

	cfg := &config.Config{
		AppEnv:                  "test",
		DataDir:                 filepath.Join(t.TempDir(), "data"),
		OutboxBatchSize:         10,
		OutboxMaxRetries:        3,
		BreakerFailureThreshold: 5,
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	ctx := context.Background()
	container, err := internalApp.NewContainer(ctx, cfg, logger)
	require.NoError(t, err)

	owner, err := container.CreateUserHandler.Handle(ctx, identityCommands.CreateUserCommand{
		Name:  "Ann",
		Email: "ann@example.com",
	})
	require.NoError(t, err)

	app := cli.NewApp(container)
	cli.SetApp(app)
	t.Cleanup(func() {
		cli.SetApp(nil)
		container.Close()
	})
	return app, owner.ID
}

func resetFlags(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
}

// run executes cmd with only the given flags set.
func run(t *testing.T, cmd *cobra.Command, flags map[string]string, args ...string) (string, error) {
	t.Helper()

	resetFlags(cmd)
	t.Cleanup(func() { resetFlags(cmd) })
	for name, value := range flags {
		require.NoError(t, cmd.Flags().Set(name, value))
	}

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetContext(context.Background())
	err := cmd.RunE(cmd, args)
	return out.String(), err
}

func TestCreateCmd_CreatesTaskWithDefaults(t *testing.T) {
	app, ownerID := setupTestApp(t)

	out, err := run(t, createCmd, map[string]string{"user": "1"}, "Write report")
	require.NoError(t, err)
	assert.Contains(t, out, "Task created: 1")
	assert.Contains(t, out, "Ann <ann@example.com>")

	tasks, err := app.ListTasksHandler.Handle(context.Background(), queries.ListTasksQuery{})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Write report", tasks[0].Title)
	assert.Equal(t, ownerID, tasks[0].UserID)
	assert.Equal(t, "pending", tasks[0].Status)
	assert.Equal(t, "medium", tasks[0].Priority)
	assert.Nil(t, tasks[0].Description)
}

func TestCreateCmd_Validation(t *testing.T) {
	setupTestApp(t)

	_, err := run(t, createCmd, map[string]string{"user": "1", "priority": "urgent"}, "T")
	require.Error(t, err)
	assert.True(t, sharedDomain.IsValidation(err))

	_, err = run(t, createCmd, map[string]string{"user": "99"}, "T")
	require.Error(t, err)
	assert.True(t, sharedDomain.IsNotFound(err))
}

func TestListCmd_Filters(t *testing.T) {
	setupTestApp(t)

	_, err := run(t, createCmd, map[string]string{"user": "1", "priority": "high"}, "Urgent thing")
	require.NoError(t, err)
	_, err = run(t, createCmd, map[string]string{"user": "1", "priority": "low"}, "Someday thing")
	require.NoError(t, err)

	out, err := run(t, listCmd, map[string]string{"priority": "high"})
	require.NoError(t, err)
	assert.Contains(t, out, "Tasks (1):")
	assert.Contains(t, out, "Urgent thing (!)")
	assert.NotContains(t, out, "Someday thing")

	out, err = run(t, listCmd, map[string]string{"status": "completed"})
	require.NoError(t, err)
	assert.Contains(t, out, "No tasks found.")

	_, err = run(t, listCmd, map[string]string{"status": "done"})
	assert.True(t, sharedDomain.IsValidation(err))
}

func TestUpdateCmd_KeepsUnchangedFields(t *testing.T) {
	app, _ := setupTestApp(t)

	_, err := run(t, createCmd, map[string]string{
		"user":        "1",
		"priority":    "high",
		"description": "draft",
		"due":         "2030-01-31",
	}, "Write report")
	require.NoError(t, err)

	out, err := run(t, updateCmd, map[string]string{"status": "completed"}, "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Task updated.")

	got, err := app.GetTaskHandler.Handle(context.Background(), queries.GetTaskQuery{TaskID: 1})
	require.NoError(t, err)
	assert.Equal(t, "completed", got.Status)
	assert.Equal(t, "high", got.Priority)
	require.NotNil(t, got.Description)
	assert.Equal(t, "draft", *got.Description)
	require.NotNil(t, got.DueDate)
	assert.Equal(t, "2030-01-31", *got.DueDate)

	_, err = run(t, updateCmd, map[string]string{"clear-due": "true"}, "1")
	require.NoError(t, err)
	got, err = app.GetTaskHandler.Handle(context.Background(), queries.GetTaskQuery{TaskID: 1})
	require.NoError(t, err)
	assert.Nil(t, got.DueDate)
}

func TestDeleteCmd(t *testing.T) {
	setupTestApp(t)

	_, err := run(t, createCmd, map[string]string{"user": "1"}, "Temp")
	require.NoError(t, err)

	out, err := run(t, deleteCmd, nil, "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Task deleted: 1")

	_, err = run(t, deleteCmd, nil, "1")
	assert.True(t, sharedDomain.IsNotFound(err))

	_, err = run(t, showCmd, nil, "x")
	assert.ErrorContains(t, err, "invalid task id")
}

func TestExportCmd(t *testing.T) {
	setupTestApp(t)

	_, err := run(t, createCmd, map[string]string{"user": "1"}, "Write report")
	require.NoError(t, err)

	out, err := run(t, exportCmd, map[string]string{"format": "csv"})
	require.NoError(t, err)
	assert.Contains(t, out, "id,title,description,status,priority")
	assert.Contains(t, out, "Write report")

	path := filepath.Join(t.TempDir(), "tasks.pdf")
	_, err = run(t, exportCmd, map[string]string{"format": "pdf", "output": path})
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))

	_, err = run(t, exportCmd, map[string]string{"format": "xml"})
	assert.True(t, sharedDomain.IsValidation(err))
}
