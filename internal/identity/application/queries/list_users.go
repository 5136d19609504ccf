package queries

import (
	"context"

	"github.com/felixgeelhaar/tasklane/internal/identity/domain"
)

// ListUsersHandler returns every user, newest first.
type ListUsersHandler struct {
	userRepo domain.UserRepository
}

// NewListUsersHandler creates a new ListUsersHandler.
func NewListUsersHandler(userRepo domain.UserRepository) *ListUsersHandler {
	return &ListUsersHandler{userRepo: userRepo}
}

func (h *ListUsersHandler) Handle(ctx context.Context) ([]UserDTO, error) {
	users, err := h.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	dtos := make([]UserDTO, 0, len(users))
	for _, u := range users {
		dtos = append(dtos, ToUserDTO(u))
	}
	return dtos, nil
}
