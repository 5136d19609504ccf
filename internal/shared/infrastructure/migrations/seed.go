package migrations

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/tasklane/internal/shared/infrastructure/database"
)

type sampleUser struct {
	name  string
	email string
}

type sampleTask struct {
	title       string
	description string
	status      string
	priority    string
	userIndex   int
	dueDate     string
}

var sampleUsers = []sampleUser{
	{name: "John Doe", email: "john@example.com"},
	{name: "Jane Smith", email: "jane@example.com"},
	{name: "Bob Johnson", email: "bob@example.com"},
}

var sampleTasks = []sampleTask{
	{"Complete project proposal", "Write and submit the Q4 project proposal", "pending", "high", 0, "2024-12-01"},
	{"Review code changes", "Review the latest pull requests", "in_progress", "medium", 0, "2024-11-25"},
	{"Update documentation", "Update the API documentation", "completed", "low", 1, "2024-11-20"},
	{"Fix bug in login system", "Resolve authentication issues", "pending", "high", 1, "2024-11-28"},
	{"Plan team meeting", "Organize next sprint planning meeting", "pending", "medium", 2, "2024-11-30"},
}

// Seed inserts the sample users and tasks when the users table is empty.
// It reports whether anything was inserted.
func Seed(ctx context.Context, conn database.Connection) (bool, error) {
	var count int64
	if err := conn.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	tx, err := conn.BeginTx(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	now := database.FormatTimestamp(time.Now())

	userIDs := make([]int64, len(sampleUsers))
	for i, u := range sampleUsers {
		err := tx.QueryRow(ctx,
			`INSERT INTO users (name, email, created_at, updated_at) VALUES (?, ?, ?, ?) RETURNING id`,
			u.name, u.email, now, now,
		).Scan(&userIDs[i])
		if err != nil {
			return false, fmt.Errorf("failed to seed user %s: %w", u.email, err)
		}
	}

	for _, t := range sampleTasks {
		_, err := tx.Exec(ctx,
			`INSERT INTO tasks (title, description, status, priority, user_id, due_date, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			t.title, t.description, t.status, t.priority, userIDs[t.userIndex], t.dueDate, now, now,
		)
		if err != nil {
			return false, fmt.Errorf("failed to seed task %q: %w", t.title, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("failed to commit seed data: %w", err)
	}
	return true, nil
}
