package commands

import (
	"context"

	"github.com/felixgeelhaar/tasklane/internal/identity/domain"
	sharedApplication "github.com/felixgeelhaar/tasklane/internal/shared/application"
	"github.com/felixgeelhaar/tasklane/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/tasklane/pkg/observability"
)

// DeleteUserCommand identifies the user to remove. Their tasks are removed
// with them.
type DeleteUserCommand struct {
	UserID int64
}

// DeleteUserResult contains the result of deleting a user.
type DeleteUserResult struct {
	DeletedID int64
}

// DeleteUserHandler handles the DeleteUserCommand.
type DeleteUserHandler struct {
	userRepo   domain.UserRepository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
	cache      domain.UserCache
	metrics    observability.Metrics
}

// NewDeleteUserHandler creates a new DeleteUserHandler. cache may be nil.
func NewDeleteUserHandler(
	userRepo domain.UserRepository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	cache domain.UserCache,
	metrics observability.Metrics,
) *DeleteUserHandler {
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &DeleteUserHandler{
		userRepo:   userRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
		cache:      cache,
		metrics:    metrics,
	}
}

// Handle executes the DeleteUserCommand.
func (h *DeleteUserHandler) Handle(ctx context.Context, cmd DeleteUserCommand) (*DeleteUserResult, error) {
	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		user, err := h.userRepo.FindByID(txCtx, cmd.UserID)
		if err != nil {
			return err
		}
		if err := h.userRepo.Delete(txCtx, user.ID()); err != nil {
			return err
		}
		return outbox.Record(txCtx, h.outboxRepo, domain.NewUserDeleted(user))
	})
	if err != nil {
		return nil, err
	}

	if h.cache != nil {
		h.cache.Invalidate(ctx, cmd.UserID)
	}
	h.metrics.Counter(observability.MetricUsersDeleted, 1)
	return &DeleteUserResult{DeletedID: cmd.UserID}, nil
}
