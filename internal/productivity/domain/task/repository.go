package task

import (
	"context"

	"github.com/felixgeelhaar/tasklane/internal/productivity/domain/value_objects"
	sharedDomain "github.com/felixgeelhaar/tasklane/internal/shared/domain"
)

var (
	ErrTaskNotFound  = &sharedDomain.NotFoundError{Resource: "Task"}
	ErrOwnerNotFound = &sharedDomain.NotFoundError{Resource: "User"}
)

// Filter narrows a task listing. Nil fields are not applied; set fields are
// combined with AND.
type Filter struct {
	UserID   *int64
	Status   *Status
	Priority *value_objects.Priority
}

// Repository defines the interface for task persistence. Reads return tasks
// with their owner joined in.
type Repository interface {
	// Find returns matching tasks, newest first.
	Find(ctx context.Context, filter Filter) ([]*Task, error)
	// FindByID returns ErrTaskNotFound when no task has the id.
	FindByID(ctx context.Context, id int64) (*Task, error)
	// Create stores the task and assigns its id. A missing owner yields
	// ErrOwnerNotFound.
	Create(ctx context.Context, t *Task) error
	Update(ctx context.Context, t *Task) error
	Delete(ctx context.Context, id int64) error
}

// OwnerDirectory answers whether a user can own tasks.
type OwnerDirectory interface {
	Exists(ctx context.Context, userID int64) (bool, error)
}
