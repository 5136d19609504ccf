package commands

import (
	"context"
	"testing"
	"time"

	identityPersistence "github.com/felixgeelhaar/tasklane/internal/identity/infrastructure/persistence"
	"github.com/felixgeelhaar/tasklane/internal/productivity/domain/task"
	"github.com/felixgeelhaar/tasklane/internal/productivity/domain/value_objects"
	"github.com/felixgeelhaar/tasklane/internal/productivity/infrastructure/persistence"
	sharedDomain "github.com/felixgeelhaar/tasklane/internal/shared/domain"
	"github.com/felixgeelhaar/tasklane/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/tasklane/internal/shared/infrastructure/database/dbtest"
	"github.com/felixgeelhaar/tasklane/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/tasklane/pkg/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	conn    database.Connection
	tasks   *persistence.TaskRepository
	outbox  *outbox.SQLRepository
	metrics *observability.InMemoryMetrics
	create  *CreateTaskHandler
	update  *UpdateTaskHandler
	delete  *DeleteTaskHandler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	conn := dbtest.NewSQLite(t)
	tasks := persistence.NewTaskRepository(conn)
	users := identityPersistence.NewUserRepository(conn)
	outboxRepo := outbox.NewSQLRepository(conn)
	uow := database.NewUnitOfWork(conn)
	metrics := observability.NewInMemoryMetrics()

	return &fixture{
		conn:    conn,
		tasks:   tasks,
		outbox:  outboxRepo,
		metrics: metrics,
		create:  NewCreateTaskHandler(tasks, users, outboxRepo, uow, metrics),
		update:  NewUpdateTaskHandler(tasks, users, outboxRepo, uow),
		delete:  NewDeleteTaskHandler(tasks, outboxRepo, uow, metrics),
	}
}

func (f *fixture) addUser(t *testing.T, name, email string) int64 {
	t.Helper()
	var id int64
	now := database.FormatTimestamp(time.Now())
	err := f.conn.QueryRow(context.Background(),
		`INSERT INTO users (name, email, created_at, updated_at) VALUES (?, ?, ?, ?) RETURNING id`,
		name, email, now, now).Scan(&id)
	require.NoError(t, err)
	return id
}

func (f *fixture) routingKeys(t *testing.T) []string {
	t.Helper()
	msgs, err := f.outbox.GetUnpublished(context.Background(), 100)
	require.NoError(t, err)
	keys := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		keys = append(keys, msg.RoutingKey)
	}
	return keys
}

func strPtr(s string) *string { return &s }

func TestCreateTaskHandler_Defaults(t *testing.T) {
	f := newFixture(t)
	userID := f.addUser(t, "Ann", "ann@x.com")

	dto, err := f.create.Handle(context.Background(), CreateTaskCommand{Title: "T1", UserID: userID})
	require.NoError(t, err)

	assert.Equal(t, int64(1), dto.ID)
	assert.Equal(t, "pending", dto.Status)
	assert.Equal(t, "medium", dto.Priority)
	assert.Nil(t, dto.Description)
	assert.Nil(t, dto.DueDate)
	assert.Equal(t, "Ann", dto.UserName)
	assert.Equal(t, "ann@x.com", dto.UserEmail)
	assert.Equal(t, []string{task.RoutingKeyCreated}, f.routingKeys(t))
	assert.Equal(t, int64(1), f.metrics.GetCounter(observability.MetricTasksCreated, observability.T("priority", "medium")))
}

func TestCreateTaskHandler_Errors(t *testing.T) {
	f := newFixture(t)
	userID := f.addUser(t, "Ann", "ann@x.com")
	ctx := context.Background()

	_, err := f.create.Handle(ctx, CreateTaskCommand{UserID: userID})
	assert.ErrorIs(t, err, task.ErrTitleAndUserRequired)

	_, err = f.create.Handle(ctx, CreateTaskCommand{Title: "T", UserID: userID, Status: "done"})
	assert.EqualError(t, err, "Invalid status value")

	_, err = f.create.Handle(ctx, CreateTaskCommand{Title: "T", UserID: userID, Priority: "urgent"})
	assert.EqualError(t, err, "Invalid priority value")

	_, err = f.create.Handle(ctx, CreateTaskCommand{Title: "T", UserID: 999})
	assert.True(t, sharedDomain.IsNotFound(err))
	assert.EqualError(t, err, "User not found")

	tasks, err := f.tasks.Find(ctx, task.Filter{})
	require.NoError(t, err)
	assert.Empty(t, tasks)
	assert.Empty(t, f.routingKeys(t))
}

func TestUpdateTaskHandler_FullReplace(t *testing.T) {
	f := newFixture(t)
	ann := f.addUser(t, "Ann", "ann@x.com")
	bob := f.addUser(t, "Bob", "bob@x.com")
	ctx := context.Background()

	created, err := f.create.Handle(ctx, CreateTaskCommand{
		Title: "T", UserID: ann, Priority: "high", Description: strPtr("d"), DueDate: strPtr("2024-12-31"),
	})
	require.NoError(t, err)

	updated, err := f.update.Handle(ctx, UpdateTaskCommand{
		TaskID:            created.ID,
		CreateTaskCommand: CreateTaskCommand{Title: "T2", UserID: bob, Status: "completed"},
	})
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "T2", updated.Title)
	assert.Equal(t, "completed", updated.Status)
	assert.Equal(t, "medium", updated.Priority, "omitted priority resets to the default")
	assert.Nil(t, updated.Description)
	assert.Nil(t, updated.DueDate)
	assert.Equal(t, "Bob", updated.UserName)
	assert.True(t, updated.CreatedAt.Equal(created.CreatedAt))
	assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))
	assert.Equal(t, []string{task.RoutingKeyCreated, task.RoutingKeyUpdated}, f.routingKeys(t))
}

func TestUpdateTaskHandler_Idempotent(t *testing.T) {
	f := newFixture(t)
	ann := f.addUser(t, "Ann", "ann@x.com")
	ctx := context.Background()

	created, err := f.create.Handle(ctx, CreateTaskCommand{Title: "T", UserID: ann})
	require.NoError(t, err)

	cmd := UpdateTaskCommand{TaskID: created.ID, CreateTaskCommand: CreateTaskCommand{Title: "Same", UserID: ann, Status: "in_progress", Priority: "low"}}
	first, err := f.update.Handle(ctx, cmd)
	require.NoError(t, err)
	second, err := f.update.Handle(ctx, cmd)
	require.NoError(t, err)

	assert.Equal(t, first.Title, second.Title)
	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, first.Priority, second.Priority)
	assert.Equal(t, first.UserID, second.UserID)
}

func TestUpdateTaskHandler_CheckOrder(t *testing.T) {
	f := newFixture(t)
	ann := f.addUser(t, "Ann", "ann@x.com")
	ctx := context.Background()

	created, err := f.create.Handle(ctx, CreateTaskCommand{Title: "T", UserID: ann})
	require.NoError(t, err)

	_, err = f.update.Handle(ctx, UpdateTaskCommand{TaskID: 404, CreateTaskCommand: CreateTaskCommand{Title: ""}})
	assert.ErrorIs(t, err, task.ErrTitleAndUserRequired, "validation before existence")

	_, err = f.update.Handle(ctx, UpdateTaskCommand{TaskID: 404, CreateTaskCommand: CreateTaskCommand{Title: "T", UserID: 999}})
	assert.EqualError(t, err, "Task not found", "task before owner")

	_, err = f.update.Handle(ctx, UpdateTaskCommand{TaskID: created.ID, CreateTaskCommand: CreateTaskCommand{Title: "T", UserID: 999}})
	assert.EqualError(t, err, "User not found")

	stored, err := f.tasks.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, ann, stored.UserID())
}

func TestDeleteTaskHandler_Handle(t *testing.T) {
	f := newFixture(t)
	ann := f.addUser(t, "Ann", "ann@x.com")
	ctx := context.Background()

	created, err := f.create.Handle(ctx, CreateTaskCommand{Title: "T", UserID: ann, Priority: "low"})
	require.NoError(t, err)

	result, err := f.delete.Handle(ctx, DeleteTaskCommand{TaskID: created.ID})
	require.NoError(t, err)
	assert.Equal(t, created.ID, result.DeletedID)

	_, err = f.delete.Handle(ctx, DeleteTaskCommand{TaskID: created.ID})
	assert.ErrorIs(t, err, task.ErrTaskNotFound)

	assert.Equal(t, []string{task.RoutingKeyCreated, task.RoutingKeyDeleted}, f.routingKeys(t))
	assert.Equal(t, int64(1), f.metrics.GetCounter(observability.MetricTasksDeleted))
}

func TestCreateTaskHandler_StoresAllFields(t *testing.T) {
	f := newFixture(t)
	ann := f.addUser(t, "Ann", "ann@x.com")

	dto, err := f.create.Handle(context.Background(), CreateTaskCommand{
		Title: "Test", Description: strPtr("desc"), Status: "in_progress", Priority: "high", UserID: ann, DueDate: strPtr("2024-12-31"),
	})
	require.NoError(t, err)

	stored, err := f.tasks.FindByID(context.Background(), dto.ID)
	require.NoError(t, err)
	assert.Equal(t, task.StatusInProgress, stored.Status())
	assert.Equal(t, value_objects.PriorityHigh, stored.Priority())
	require.NotNil(t, dto.DueDate)
	assert.Equal(t, "2024-12-31", *dto.DueDate)
	require.NotNil(t, dto.Description)
	assert.Equal(t, "desc", *dto.Description)
}
