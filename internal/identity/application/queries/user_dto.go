package queries

import (
	"time"

	"github.com/felixgeelhaar/tasklane/internal/identity/domain"
)

// UserDTO is a user as returned to clients.
type UserDTO struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToUserDTO converts a user into its DTO.
func ToUserDTO(u *domain.User) UserDTO {
	return UserDTO{
		ID:        u.ID(),
		Name:      u.Name().String(),
		Email:     u.Email().String(),
		CreatedAt: u.CreatedAt(),
		UpdatedAt: u.UpdatedAt(),
	}
}
