package task

import (
	sharedDomain "github.com/felixgeelhaar/tasklane/internal/shared/domain"
)

// Status represents the task lifecycle state. Any status may follow any
// other.
type Status int

const (
	StatusPending Status = iota + 1
	StatusInProgress
	StatusCompleted
)

// DefaultStatus is used when a task is stored without one.
const DefaultStatus = StatusPending

var ErrInvalidStatus = &sharedDomain.ValidationError{Message: "Invalid status value"}

// ParseStatus creates a Status from its stored name.
func ParseStatus(s string) (Status, error) {
	switch s {
	case "pending":
		return StatusPending, nil
	case "in_progress":
		return StatusInProgress, nil
	case "completed":
		return StatusCompleted, nil
	default:
		return 0, ErrInvalidStatus
	}
}

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusInProgress:
		return "in_progress"
	case StatusCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

func (s Status) IsValid() bool {
	return s >= StatusPending && s <= StatusCompleted
}

// Statuses lists every valid status.
func Statuses() []Status {
	return []Status{StatusPending, StatusInProgress, StatusCompleted}
}
