package domain

import (
	sharedDomain "github.com/felixgeelhaar/tasklane/internal/shared/domain"
)

const (
	AggregateType = "user"

	RoutingKeyUserCreated = "tasklane.user.created"
	RoutingKeyUserUpdated = "tasklane.user.updated"
	RoutingKeyUserDeleted = "tasklane.user.deleted"
)

// UserCreated is emitted when a new user is stored.
type UserCreated struct {
	sharedDomain.BaseEvent
	Name  string `json:"name"`
	Email string `json:"email"`
}

// NewUserCreated creates a UserCreated event.
func NewUserCreated(u *User) *UserCreated {
	return &UserCreated{
		BaseEvent: sharedDomain.NewBaseEvent(u.ID(), AggregateType, RoutingKeyUserCreated),
		Name:      u.Name().String(),
		Email:     u.Email().String(),
	}
}

// UserUpdated is emitted after a profile change.
type UserUpdated struct {
	sharedDomain.BaseEvent
	Name  string `json:"name"`
	Email string `json:"email"`
}

// NewUserUpdated creates a UserUpdated event.
func NewUserUpdated(u *User) *UserUpdated {
	return &UserUpdated{
		BaseEvent: sharedDomain.NewBaseEvent(u.ID(), AggregateType, RoutingKeyUserUpdated),
		Name:      u.Name().String(),
		Email:     u.Email().String(),
	}
}

// UserDeleted is emitted when a user and their tasks are removed.
type UserDeleted struct {
	sharedDomain.BaseEvent
	Email string `json:"email"`
}

// NewUserDeleted creates a UserDeleted event.
func NewUserDeleted(u *User) *UserDeleted {
	return &UserDeleted{
		BaseEvent: sharedDomain.NewBaseEvent(u.ID(), AggregateType, RoutingKeyUserDeleted),
		Email:     u.Email().String(),
	}
}
