package persistence

import (
	"context"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/tasklane/internal/productivity/domain/task"
	"github.com/felixgeelhaar/tasklane/internal/productivity/domain/value_objects"
	"github.com/felixgeelhaar/tasklane/internal/shared/infrastructure/database"
)

const taskSelect = `SELECT t.id, t.title, t.description, t.status, t.priority, t.user_id, t.due_date,
	t.created_at, t.updated_at, u.name, u.email
	FROM tasks t
	JOIN users u ON u.id = t.user_id`

// TaskRepository implements task.Repository for SQLite and PostgreSQL.
type TaskRepository struct {
	conn database.Connection
}

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(conn database.Connection) *TaskRepository {
	return &TaskRepository{conn: conn}
}

func (r *TaskRepository) executor(ctx context.Context) database.Executor {
	return database.ExecutorFromContext(ctx, r.conn)
}

// Find returns tasks matching every set filter field, newest first.
func (r *TaskRepository) Find(ctx context.Context, filter task.Filter) ([]*task.Task, error) {
	var (
		where []string
		args  []any
	)
	if filter.UserID != nil {
		where = append(where, "t.user_id = ?")
		args = append(args, *filter.UserID)
	}
	if filter.Status != nil {
		where = append(where, "t.status = ?")
		args = append(args, filter.Status.String())
	}
	if filter.Priority != nil {
		where = append(where, "t.priority = ?")
		args = append(args, filter.Priority.String())
	}

	query := taskSelect
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY t.created_at DESC, t.id DESC"

	rows, err := r.executor(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]*task.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// FindByID retrieves a task and its owner.
func (r *TaskRepository) FindByID(ctx context.Context, id int64) (*task.Task, error) {
	t, err := scanTask(r.executor(ctx).QueryRow(ctx, taskSelect+" WHERE t.id = ?", id))
	if err != nil {
		if database.IsNoRows(err) {
			return nil, task.ErrTaskNotFound
		}
		return nil, fmt.Errorf("get task %d: %w", id, err)
	}
	return t, nil
}

// Create inserts the task and assigns the generated id.
func (r *TaskRepository) Create(ctx context.Context, t *task.Task) error {
	var id int64
	err := r.executor(ctx).QueryRow(ctx,
		`INSERT INTO tasks (title, description, status, priority, user_id, due_date, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`,
		t.Title(),
		t.Description(),
		t.Status().String(),
		t.Priority().String(),
		t.UserID(),
		database.FormatDate(t.DueDate()),
		database.FormatTimestamp(t.CreatedAt()),
		database.FormatTimestamp(t.UpdatedAt()),
	).Scan(&id)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return task.ErrOwnerNotFound
		}
		return fmt.Errorf("insert task: %w", err)
	}

	t.AssignID(id)
	return nil
}

// Update replaces every writable column.
func (r *TaskRepository) Update(ctx context.Context, t *task.Task) error {
	result, err := r.executor(ctx).Exec(ctx,
		`UPDATE tasks
		 SET title = ?, description = ?, status = ?, priority = ?, user_id = ?, due_date = ?, updated_at = ?
		 WHERE id = ?`,
		t.Title(),
		t.Description(),
		t.Status().String(),
		t.Priority().String(),
		t.UserID(),
		database.FormatDate(t.DueDate()),
		database.FormatTimestamp(t.UpdatedAt()),
		t.ID(),
	)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return task.ErrOwnerNotFound
		}
		return fmt.Errorf("update task %d: %w", t.ID(), err)
	}
	return requireAffected(result)
}

// Delete removes a task.
func (r *TaskRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.executor(ctx).Exec(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	return requireAffected(result)
}

func scanTask(row database.Row) (*task.Task, error) {
	var (
		id, userID           int64
		title                string
		description          *string
		status, priority     string
		dueDate              database.Date
		createdAt, updatedAt database.Timestamp
		owner                task.Owner
	)
	err := row.Scan(&id, &title, &description, &status, &priority, &userID, &dueDate,
		&createdAt, &updatedAt, &owner.Name, &owner.Email)
	if err != nil {
		return nil, err
	}

	parsedStatus, err := task.ParseStatus(status)
	if err != nil {
		return nil, fmt.Errorf("task %d: stored status %q: %w", id, status, err)
	}
	parsedPriority, err := value_objects.ParsePriority(priority)
	if err != nil {
		return nil, fmt.Errorf("task %d: stored priority %q: %w", id, priority, err)
	}

	return task.RehydrateTask(id, task.Details{
		Title:       title,
		Description: description,
		Status:      parsedStatus,
		Priority:    parsedPriority,
		UserID:      userID,
		DueDate:     dueDate.Ptr(),
	}, owner, createdAt.Time, updatedAt.Time), nil
}

func requireAffected(result database.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return task.ErrTaskNotFound
	}
	return nil
}

var _ task.Repository = (*TaskRepository)(nil)
