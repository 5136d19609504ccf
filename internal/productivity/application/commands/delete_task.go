package commands

import (
	"context"

	"github.com/felixgeelhaar/tasklane/internal/productivity/domain/task"
	sharedApplication "github.com/felixgeelhaar/tasklane/internal/shared/application"
	"github.com/felixgeelhaar/tasklane/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/tasklane/pkg/observability"
)

// DeleteTaskCommand identifies the task to remove.
type DeleteTaskCommand struct {
	TaskID int64
}

// DeleteTaskResult contains the result of deleting a task.
type DeleteTaskResult struct {
	DeletedID int64
}

// DeleteTaskHandler handles the DeleteTaskCommand.
type DeleteTaskHandler struct {
	taskRepo   task.Repository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
	metrics    observability.Metrics
}

// NewDeleteTaskHandler creates a new DeleteTaskHandler.
func NewDeleteTaskHandler(taskRepo task.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork, metrics observability.Metrics) *DeleteTaskHandler {
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &DeleteTaskHandler{
		taskRepo:   taskRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
		metrics:    metrics,
	}
}

// Handle executes the DeleteTaskCommand.
func (h *DeleteTaskHandler) Handle(ctx context.Context, cmd DeleteTaskCommand) (*DeleteTaskResult, error) {
	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		t, err := h.taskRepo.FindByID(txCtx, cmd.TaskID)
		if err != nil {
			return err
		}
		if err := h.taskRepo.Delete(txCtx, t.ID()); err != nil {
			return err
		}
		return outbox.Record(txCtx, h.outboxRepo, task.NewTaskDeleted(t))
	})
	if err != nil {
		return nil, err
	}

	h.metrics.Counter(observability.MetricTasksDeleted, 1)
	return &DeleteTaskResult{DeletedID: cmd.TaskID}, nil
}
