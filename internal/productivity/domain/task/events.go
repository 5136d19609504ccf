package task

import (
	sharedDomain "github.com/felixgeelhaar/tasklane/internal/shared/domain"
)

const (
	AggregateType = "task"

	RoutingKeyCreated = "tasklane.task.created"
	RoutingKeyUpdated = "tasklane.task.updated"
	RoutingKeyDeleted = "tasklane.task.deleted"
)

// TaskCreated is emitted when a new task is stored.
type TaskCreated struct {
	sharedDomain.BaseEvent
	UserID   int64  `json:"user_id"`
	Title    string `json:"title"`
	Status   string `json:"status"`
	Priority string `json:"priority"`
}

// NewTaskCreated creates a TaskCreated event.
func NewTaskCreated(t *Task) *TaskCreated {
	return &TaskCreated{
		BaseEvent: sharedDomain.NewBaseEvent(t.ID(), AggregateType, RoutingKeyCreated),
		UserID:    t.UserID(),
		Title:     t.Title(),
		Status:    t.Status().String(),
		Priority:  t.Priority().String(),
	}
}

// TaskUpdated is emitted after a full replace.
type TaskUpdated struct {
	sharedDomain.BaseEvent
	UserID         int64  `json:"user_id"`
	Title          string `json:"title"`
	Status         string `json:"status"`
	PreviousStatus string `json:"previous_status"`
	Priority       string `json:"priority"`
}

// NewTaskUpdated creates a TaskUpdated event.
func NewTaskUpdated(t *Task, previous Status) *TaskUpdated {
	return &TaskUpdated{
		BaseEvent:      sharedDomain.NewBaseEvent(t.ID(), AggregateType, RoutingKeyUpdated),
		UserID:         t.UserID(),
		Title:          t.Title(),
		Status:         t.Status().String(),
		PreviousStatus: previous.String(),
		Priority:       t.Priority().String(),
	}
}

// TaskDeleted is emitted when a task is removed.
type TaskDeleted struct {
	sharedDomain.BaseEvent
	UserID int64 `json:"user_id"`
}

// NewTaskDeleted creates a TaskDeleted event.
func NewTaskDeleted(t *Task) *TaskDeleted {
	return &TaskDeleted{
		BaseEvent: sharedDomain.NewBaseEvent(t.ID(), AggregateType, RoutingKeyDeleted),
		UserID:    t.UserID(),
	}
}
