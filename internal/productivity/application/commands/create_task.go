package commands

import (
	"context"

	"github.com/felixgeelhaar/tasklane/internal/productivity/application/queries"
	"github.com/felixgeelhaar/tasklane/internal/productivity/domain/task"
	sharedApplication "github.com/felixgeelhaar/tasklane/internal/shared/application"
	"github.com/felixgeelhaar/tasklane/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/tasklane/pkg/observability"
)

// CreateTaskCommand contains the data needed to create a task.
type CreateTaskCommand struct {
	Title       string
	Description *string
	Status      string
	Priority    string
	UserID      int64
	DueDate     *string
}

func (c CreateTaskCommand) input() task.Input {
	return task.Input{
		Title:       c.Title,
		Description: c.Description,
		Status:      c.Status,
		Priority:    c.Priority,
		UserID:      c.UserID,
		DueDate:     c.DueDate,
	}
}

// CreateTaskHandler handles the CreateTaskCommand.
type CreateTaskHandler struct {
	taskRepo   task.Repository
	owners     task.OwnerDirectory
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
	metrics    observability.Metrics
}

// NewCreateTaskHandler creates a new CreateTaskHandler.
func NewCreateTaskHandler(
	taskRepo task.Repository,
	owners task.OwnerDirectory,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	metrics observability.Metrics,
) *CreateTaskHandler {
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &CreateTaskHandler{
		taskRepo:   taskRepo,
		owners:     owners,
		outboxRepo: outboxRepo,
		uow:        uow,
		metrics:    metrics,
	}
}

// Handle validates the command, checks the owner and stores the task in a
// single transaction. It returns the stored task with its owner joined in.
func (h *CreateTaskHandler) Handle(ctx context.Context, cmd CreateTaskCommand) (*queries.TaskDTO, error) {
	details, err := task.ParseInput(cmd.input())
	if err != nil {
		return nil, err
	}

	dto, err := sharedApplication.WithUnitOfWorkResult(ctx, h.uow, func(txCtx context.Context) (*queries.TaskDTO, error) {
		if err := requireOwner(txCtx, h.owners, details.UserID); err != nil {
			return nil, err
		}

		t := task.NewTask(details)
		if err := h.taskRepo.Create(txCtx, t); err != nil {
			return nil, err
		}

		if err := outbox.Record(txCtx, h.outboxRepo, task.NewTaskCreated(t)); err != nil {
			return nil, err
		}

		stored, err := h.taskRepo.FindByID(txCtx, t.ID())
		if err != nil {
			return nil, err
		}
		result := queries.ToTaskDTO(stored)
		return &result, nil
	})
	if err != nil {
		return nil, err
	}

	h.metrics.Counter(observability.MetricTasksCreated, 1, observability.T("priority", dto.Priority))
	return dto, nil
}

func requireOwner(ctx context.Context, owners task.OwnerDirectory, userID int64) error {
	exists, err := owners.Exists(ctx, userID)
	if err != nil {
		return err
	}
	if !exists {
		return task.ErrOwnerNotFound
	}
	return nil
}
