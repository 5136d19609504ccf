package queries

import (
	"context"
	"strings"

	"github.com/felixgeelhaar/tasklane/internal/productivity/domain/task"
	"github.com/felixgeelhaar/tasklane/internal/productivity/domain/value_objects"
	sharedDomain "github.com/felixgeelhaar/tasklane/internal/shared/domain"
	"github.com/felixgeelhaar/tasklane/internal/shared/infrastructure/convert"
)

// ErrInvalidUserFilter is returned when userId is not a positive integer.
var ErrInvalidUserFilter = &sharedDomain.ValidationError{Message: "Invalid userId value"}

// ListTasksQuery holds the raw filter values a client sent. Empty values
// are ignored.
type ListTasksQuery struct {
	UserID   string
	Status   string
	Priority string
}

// Filter validates the query and converts it into a repository filter.
func (q ListTasksQuery) Filter() (task.Filter, error) {
	var filter task.Filter

	if userID := strings.TrimSpace(q.UserID); userID != "" {
		id, err := convert.ParseID(userID)
		if err != nil {
			return task.Filter{}, ErrInvalidUserFilter
		}
		filter.UserID = &id
	}

	if q.Status != "" {
		status, err := task.ParseStatus(q.Status)
		if err != nil {
			return task.Filter{}, err
		}
		filter.Status = &status
	}

	if q.Priority != "" {
		priority, err := value_objects.ParsePriority(q.Priority)
		if err != nil {
			return task.Filter{}, err
		}
		filter.Priority = &priority
	}

	return filter, nil
}

// ListTasksHandler handles the ListTasksQuery.
type ListTasksHandler struct {
	taskRepo task.Repository
}

// NewListTasksHandler creates a new ListTasksHandler.
func NewListTasksHandler(taskRepo task.Repository) *ListTasksHandler {
	return &ListTasksHandler{taskRepo: taskRepo}
}

// Handle executes the ListTasksQuery. Results are newest first.
func (h *ListTasksHandler) Handle(ctx context.Context, query ListTasksQuery) ([]TaskDTO, error) {
	filter, err := query.Filter()
	if err != nil {
		return nil, err
	}

	tasks, err := h.taskRepo.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	return toTaskDTOs(tasks), nil
}
