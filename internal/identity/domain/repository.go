package domain

import (
	"context"

	sharedDomain "github.com/felixgeelhaar/tasklane/internal/shared/domain"
)

var (
	ErrUserNotFound = &sharedDomain.NotFoundError{Resource: "User"}
	ErrEmailTaken   = &sharedDomain.ConflictError{Message: "Email already exists"}
)

// UserRepository defines the interface for user persistence.
type UserRepository interface {
	// List returns every user, newest first.
	List(ctx context.Context) ([]*User, error)
	// FindByID returns ErrUserNotFound when no user has the id.
	FindByID(ctx context.Context, id int64) (*User, error)
	// FindByEmail returns ErrUserNotFound when the address is unused.
	FindByEmail(ctx context.Context, email Email) (*User, error)
	// Create stores a new user and assigns its id.
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
	// Delete removes the user; their tasks go with them.
	Delete(ctx context.Context, id int64) error
	Exists(ctx context.Context, id int64) (bool, error)
}

// UserCache keeps recently read users close to the API. Implementations
// must treat every failure as a miss.
type UserCache interface {
	Get(ctx context.Context, id int64) (*User, bool)
	Set(ctx context.Context, user *User)
	Invalidate(ctx context.Context, id int64)
}
