package queries

import (
	"time"

	"github.com/felixgeelhaar/tasklane/internal/productivity/domain/task"
)

// TaskDTO is a task joined with its owner, as returned to clients.
type TaskDTO struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Status      string    `json:"status"`
	Priority    string    `json:"priority"`
	UserID      int64     `json:"user_id"`
	DueDate     *string   `json:"due_date"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	UserName    string    `json:"user_name"`
	UserEmail   string    `json:"user_email"`
}

// ToTaskDTO converts a task into its DTO.
func ToTaskDTO(t *task.Task) TaskDTO {
	var dueDate *string
	if d := t.DueDate(); d != nil {
		formatted := d.Format(time.DateOnly)
		dueDate = &formatted
	}

	return TaskDTO{
		ID:          t.ID(),
		Title:       t.Title(),
		Description: t.Description(),
		Status:      t.Status().String(),
		Priority:    t.Priority().String(),
		UserID:      t.UserID(),
		DueDate:     dueDate,
		CreatedAt:   t.CreatedAt(),
		UpdatedAt:   t.UpdatedAt(),
		UserName:    t.Owner().Name,
		UserEmail:   t.Owner().Email,
	}
}

func toTaskDTOs(tasks []*task.Task) []TaskDTO {
	dtos := make([]TaskDTO, 0, len(tasks))
	for _, t := range tasks {
		dtos = append(dtos, ToTaskDTO(t))
	}
	return dtos
}
