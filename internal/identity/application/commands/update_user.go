package commands

import (
	"context"

	"github.com/felixgeelhaar/tasklane/internal/identity/application/queries"
	"github.com/felixgeelhaar/tasklane/internal/identity/domain"
	sharedApplication "github.com/felixgeelhaar/tasklane/internal/shared/application"
	"github.com/felixgeelhaar/tasklane/internal/shared/infrastructure/outbox"
)

// UpdateUserCommand replaces a user's name and email.
type UpdateUserCommand struct {
	UserID int64
	Name   string
	Email  string
}

// UpdateUserHandler handles the UpdateUserCommand.
type UpdateUserHandler struct {
	userRepo   domain.UserRepository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
	cache      domain.UserCache
}

// NewUpdateUserHandler creates a new UpdateUserHandler. cache may be nil.
func NewUpdateUserHandler(userRepo domain.UserRepository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork, cache domain.UserCache) *UpdateUserHandler {
	return &UpdateUserHandler{
		userRepo:   userRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
		cache:      cache,
	}
}

// Handle validates the input before touching the store, then checks that
// the user exists and the email is not used by someone else.
func (h *UpdateUserHandler) Handle(ctx context.Context, cmd UpdateUserCommand) (*queries.UserDTO, error) {
	name, email, err := domain.ParseProfile(cmd.Name, cmd.Email)
	if err != nil {
		return nil, err
	}

	dto, err := sharedApplication.WithUnitOfWorkResult(ctx, h.uow, func(txCtx context.Context) (*queries.UserDTO, error) {
		user, err := h.userRepo.FindByID(txCtx, cmd.UserID)
		if err != nil {
			return nil, err
		}
		if err := ensureEmailFree(txCtx, h.userRepo, email, user.ID()); err != nil {
			return nil, err
		}

		user.ChangeProfile(name, email)
		if err := h.userRepo.Update(txCtx, user); err != nil {
			return nil, err
		}
		if err := outbox.Record(txCtx, h.outboxRepo, domain.NewUserUpdated(user)); err != nil {
			return nil, err
		}

		result := queries.ToUserDTO(user)
		return &result, nil
	})
	if err != nil {
		return nil, err
	}

	if h.cache != nil {
		h.cache.Invalidate(ctx, cmd.UserID)
	}
	return dto, nil
}
