package task

import (
	"strings"
	"time"

	"github.com/felixgeelhaar/tasklane/internal/productivity/domain/value_objects"
	sharedDomain "github.com/felixgeelhaar/tasklane/internal/shared/domain"
)

var (
	ErrTitleAndUserRequired = &sharedDomain.ValidationError{Message: "Title and user_id are required"}
	ErrInvalidDueDate       = &sharedDomain.ValidationError{Message: "Invalid due_date value, expected YYYY-MM-DD"}
)

// Input is a task as submitted by a client. Empty strings mean "not
// supplied".
type Input struct {
	Title       string
	Description *string
	Status      string
	Priority    string
	UserID      int64
	DueDate     *string
}

// Details holds the validated, writable fields of a task.
type Details struct {
	Title       string
	Description *string
	Status      Status
	Priority    value_objects.Priority
	UserID      int64
	DueDate     *time.Time
}

// ParseInput validates client input. Missing status and priority take their
// defaults, so the result always describes a complete task.
func ParseInput(in Input) (Details, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" || in.UserID <= 0 {
		return Details{}, ErrTitleAndUserRequired
	}

	status := DefaultStatus
	if in.Status != "" {
		s, err := ParseStatus(in.Status)
		if err != nil {
			return Details{}, err
		}
		status = s
	}

	priority := value_objects.DefaultPriority
	if in.Priority != "" {
		p, err := value_objects.ParsePriority(in.Priority)
		if err != nil {
			return Details{}, err
		}
		priority = p
	}

	dueDate, err := parseDueDate(in.DueDate)
	if err != nil {
		return Details{}, err
	}

	return Details{
		Title:       title,
		Description: normalizeDescription(in.Description),
		Status:      status,
		Priority:    priority,
		UserID:      in.UserID,
		DueDate:     dueDate,
	}, nil
}

func parseDueDate(value *string) (*time.Time, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	d, err := time.Parse(time.DateOnly, strings.TrimSpace(*value))
	if err != nil {
		return nil, ErrInvalidDueDate
	}
	return &d, nil
}

func normalizeDescription(value *string) *string {
	if value == nil || *value == "" {
		return nil
	}
	d := *value
	return &d
}

// Owner is the user a task belongs to, as joined on read.
type Owner struct {
	Name  string
	Email string
}

// Task represents a unit of work assigned to a user.
type Task struct {
	sharedDomain.BaseEntity
	details Details
	owner   Owner
}

// NewTask creates an unsaved task.
func NewTask(details Details) *Task {
	return &Task{
		BaseEntity: sharedDomain.NewBaseEntity(),
		details:    details,
	}
}

// RehydrateTask recreates a task from persisted state.
func RehydrateTask(id int64, details Details, owner Owner, createdAt, updatedAt time.Time) *Task {
	return &Task{
		BaseEntity: sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt),
		details:    details,
		owner:      owner,
	}
}

func (t *Task) Title() string                    { return t.details.Title }
func (t *Task) Description() *string             { return t.details.Description }
func (t *Task) Status() Status                   { return t.details.Status }
func (t *Task) Priority() value_objects.Priority { return t.details.Priority }
func (t *Task) UserID() int64                    { return t.details.UserID }
func (t *Task) DueDate() *time.Time              { return t.details.DueDate }
func (t *Task) Details() Details                 { return t.details }
func (t *Task) Owner() Owner                     { return t.owner }

// Replace overwrites every writable field and refreshes updatedAt.
func (t *Task) Replace(details Details) {
	t.details = details
	t.Touch()
}

// SetOwner records the joined owner fields.
func (t *Task) SetOwner(owner Owner) {
	t.owner = owner
}
