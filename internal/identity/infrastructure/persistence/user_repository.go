package persistence

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/tasklane/internal/identity/domain"
	"github.com/felixgeelhaar/tasklane/internal/shared/infrastructure/database"
)

const userColumns = `id, name, email, created_at, updated_at`

// UserRepository implements domain.UserRepository for SQLite and
// PostgreSQL.
type UserRepository struct {
	conn database.Connection
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(conn database.Connection) *UserRepository {
	return &UserRepository{conn: conn}
}

func (r *UserRepository) executor(ctx context.Context) database.Executor {
	return database.ExecutorFromContext(ctx, r.conn)
}

// List returns all users ordered newest first.
func (r *UserRepository) List(ctx context.Context) ([]*domain.User, error) {
	rows, err := r.executor(ctx).Query(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]*domain.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// FindByID retrieves a user by id.
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	row := r.executor(ctx).QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return r.scanOne(row)
}

// FindByEmail retrieves a user by exact email match.
func (r *UserRepository) FindByEmail(ctx context.Context, email domain.Email) (*domain.User, error) {
	row := r.executor(ctx).QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email.String())
	return r.scanOne(row)
}

// Exists reports whether a user with the id is stored.
func (r *UserRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.executor(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE id = ?`, id).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check user %d: %w", id, err)
	}
	return count > 0, nil
}

// Create inserts the user and assigns the generated id.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	var id int64
	err := r.executor(ctx).QueryRow(ctx,
		`INSERT INTO users (name, email, created_at, updated_at) VALUES (?, ?, ?, ?) RETURNING id`,
		user.Name().String(),
		user.Email().String(),
		database.FormatTimestamp(user.CreatedAt()),
		database.FormatTimestamp(user.UpdatedAt()),
	).Scan(&id)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}

	user.AssignID(id)
	return nil
}

// Update writes name, email and updated_at.
func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	result, err := r.executor(ctx).Exec(ctx,
		`UPDATE users SET name = ?, email = ?, updated_at = ? WHERE id = ?`,
		user.Name().String(),
		user.Email().String(),
		database.FormatTimestamp(user.UpdatedAt()),
		user.ID(),
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("update user %d: %w", user.ID(), err)
	}
	return requireAffected(result)
}

// Delete removes the user. Tasks are removed by the foreign key cascade.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.executor(ctx).Exec(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	return requireAffected(result)
}

func (r *UserRepository) scanOne(row database.Row) (*domain.User, error) {
	user, err := scanUser(row)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return user, nil
}

func scanUser(row database.Row) (*domain.User, error) {
	var (
		id          int64
		name, email string
		createdAt   database.Timestamp
		updatedAt   database.Timestamp
	)
	if err := row.Scan(&id, &name, &email, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	return domain.RehydrateUser(id, name, email, createdAt.Time, updatedAt.Time), nil
}

func requireAffected(result database.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

var _ domain.UserRepository = (*UserRepository)(nil)
