package queries

import (
	"context"

	"github.com/felixgeelhaar/tasklane/internal/identity/domain"
)

// GetUserQuery contains the parameters for getting a single user.
type GetUserQuery struct {
	UserID int64
}

// GetUserHandler reads through the user cache when one is configured.
type GetUserHandler struct {
	userRepo domain.UserRepository
	cache    domain.UserCache
}

// NewGetUserHandler creates a new GetUserHandler. cache may be nil.
func NewGetUserHandler(userRepo domain.UserRepository, cache domain.UserCache) *GetUserHandler {
	return &GetUserHandler{userRepo: userRepo, cache: cache}
}

// Handle executes the GetUserQuery.
func (h *GetUserHandler) Handle(ctx context.Context, query GetUserQuery) (*UserDTO, error) {
	if h.cache != nil {
		if user, ok := h.cache.Get(ctx, query.UserID); ok {
			dto := ToUserDTO(user)
			return &dto, nil
		}
	}

	user, err := h.userRepo.FindByID(ctx, query.UserID)
	if err != nil {
		return nil, err
	}
	if h.cache != nil {
		h.cache.Set(ctx, user)
	}

	dto := ToUserDTO(user)
	return &dto, nil
}
