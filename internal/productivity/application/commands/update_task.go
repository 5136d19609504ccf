package commands

import (
	"context"

	"github.com/felixgeelhaar/tasklane/internal/productivity/application/queries"
	"github.com/felixgeelhaar/tasklane/internal/productivity/domain/task"
	sharedApplication "github.com/felixgeelhaar/tasklane/internal/shared/application"
	"github.com/felixgeelhaar/tasklane/internal/shared/infrastructure/outbox"
)

// UpdateTaskCommand replaces every writable field of a task. Omitted status
// and priority reset to their defaults.
type UpdateTaskCommand struct {
	TaskID int64
	CreateTaskCommand
}

// UpdateTaskHandler handles the UpdateTaskCommand.
type UpdateTaskHandler struct {
	taskRepo   task.Repository
	owners     task.OwnerDirectory
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
}

// NewUpdateTaskHandler creates a new UpdateTaskHandler.
func NewUpdateTaskHandler(taskRepo task.Repository, owners task.OwnerDirectory, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *UpdateTaskHandler {
	return &UpdateTaskHandler{
		taskRepo:   taskRepo,
		owners:     owners,
		outboxRepo: outboxRepo,
		uow:        uow,
	}
}

// Handle executes the UpdateTaskCommand. Input is validated before the
// task is looked up, and the task before the new owner.
func (h *UpdateTaskHandler) Handle(ctx context.Context, cmd UpdateTaskCommand) (*queries.TaskDTO, error) {
	details, err := task.ParseInput(cmd.input())
	if err != nil {
		return nil, err
	}

	return sharedApplication.WithUnitOfWorkResult(ctx, h.uow, func(txCtx context.Context) (*queries.TaskDTO, error) {
		t, err := h.taskRepo.FindByID(txCtx, cmd.TaskID)
		if err != nil {
			return nil, err
		}
		if err := requireOwner(txCtx, h.owners, details.UserID); err != nil {
			return nil, err
		}

		previous := t.Status()
		t.Replace(details)
		if err := h.taskRepo.Update(txCtx, t); err != nil {
			return nil, err
		}

		if err := outbox.Record(txCtx, h.outboxRepo, task.NewTaskUpdated(t, previous)); err != nil {
			return nil, err
		}

		stored, err := h.taskRepo.FindByID(txCtx, t.ID())
		if err != nil {
			return nil, err
		}
		result := queries.ToTaskDTO(stored)
		return &result, nil
	})
}
