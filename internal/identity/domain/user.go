package domain

import (
	"time"

	sharedDomain "github.com/felixgeelhaar/tasklane/internal/shared/domain"
)

// User represents a person who owns tasks.
type User struct {
	sharedDomain.BaseEntity
	name  Name
	email Email
}

// NewUser creates an unsaved user.
func NewUser(name Name, email Email) *User {
	return &User{
		BaseEntity: sharedDomain.NewBaseEntity(),
		name:       name,
		email:      email,
	}
}

// RehydrateUser recreates a user from persisted state without validating it.
func RehydrateUser(id int64, name, email string, createdAt, updatedAt time.Time) *User {
	return &User{
		BaseEntity: sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt),
		name:       Name{value: name},
		email:      Email{value: email},
	}
}

func (u *User) Name() Name   { return u.name }
func (u *User) Email() Email { return u.email }

// ChangeProfile replaces name and email and refreshes updatedAt, even when
// nothing changed.
func (u *User) ChangeProfile(name Name, email Email) {
	u.name = name
	u.email = email
	u.Touch()
}
