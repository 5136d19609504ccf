package commands

import (
	"context"

	"github.com/felixgeelhaar/tasklane/internal/identity/application/queries"
	"github.com/felixgeelhaar/tasklane/internal/identity/domain"
	sharedApplication "github.com/felixgeelhaar/tasklane/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/tasklane/internal/shared/domain"
	"github.com/felixgeelhaar/tasklane/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/tasklane/pkg/observability"
)

// CreateUserCommand contains the data needed to create a user.
type CreateUserCommand struct {
	Name  string
	Email string
}

// CreateUserHandler handles the CreateUserCommand.
type CreateUserHandler struct {
	userRepo   domain.UserRepository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
	metrics    observability.Metrics
}

// NewCreateUserHandler creates a new CreateUserHandler.
func NewCreateUserHandler(userRepo domain.UserRepository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork, metrics observability.Metrics) *CreateUserHandler {
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &CreateUserHandler{
		userRepo:   userRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
		metrics:    metrics,
	}
}

// Handle executes the CreateUserCommand.
func (h *CreateUserHandler) Handle(ctx context.Context, cmd CreateUserCommand) (*queries.UserDTO, error) {
	name, email, err := domain.ParseProfile(cmd.Name, cmd.Email)
	if err != nil {
		return nil, err
	}

	dto, err := sharedApplication.WithUnitOfWorkResult(ctx, h.uow, func(txCtx context.Context) (*queries.UserDTO, error) {
		if err := ensureEmailFree(txCtx, h.userRepo, email, 0); err != nil {
			return nil, err
		}

		user := domain.NewUser(name, email)
		if err := h.userRepo.Create(txCtx, user); err != nil {
			return nil, err
		}
		if err := outbox.Record(txCtx, h.outboxRepo, domain.NewUserCreated(user)); err != nil {
			return nil, err
		}

		result := queries.ToUserDTO(user)
		return &result, nil
	})
	if err != nil {
		return nil, err
	}

	h.metrics.Counter(observability.MetricUsersCreated, 1)
	return dto, nil
}

// ensureEmailFree fails with ErrEmailTaken when a user other than ownerID
// already has the address.
func ensureEmailFree(ctx context.Context, repo domain.UserRepository, email domain.Email, ownerID int64) error {
	existing, err := repo.FindByEmail(ctx, email)
	if err != nil {
		if sharedDomain.IsNotFound(err) {
			return nil
		}
		return err
	}
	if existing.ID() != ownerID {
		return domain.ErrEmailTaken
	}
	return nil
}
