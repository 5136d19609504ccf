package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/tasklane/internal/shared/infrastructure/database"
)

func openTestConnection(t *testing.T) database.Connection {
	t.Helper()

	conn, err := database.NewConnection(context.Background(), database.Config{
		Driver:     database.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "nested", "app.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	_, err = conn.Exec(context.Background(), `
		CREATE TABLE owners (id INTEGER PRIMARY KEY AUTOINCREMENT, email TEXT NOT NULL UNIQUE);
		CREATE TABLE items (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			owner_id INTEGER NOT NULL REFERENCES owners(id) ON DELETE CASCADE
		);`)
	require.NoError(t, err)
	return conn
}

func TestNewConnection_CreatesDirectory(t *testing.T) {
	conn := openTestConnection(t)

	assert.NoError(t, conn.Ping(context.Background()))
	assert.Equal(t, database.DriverSQLite, conn.Driver())
}

func TestConnection_ReturningID(t *testing.T) {
	ctx := context.Background()
	conn := openTestConnection(t)

	var first, second int64
	require.NoError(t, conn.QueryRow(ctx, `INSERT INTO owners (email) VALUES (?) RETURNING id`, "a@example.com").Scan(&first))
	require.NoError(t, conn.QueryRow(ctx, `INSERT INTO owners (email) VALUES (?) RETURNING id`, "b@example.com").Scan(&second))

	assert.Equal(t, int64(1), first)
	assert.Equal(t, int64(2), second)

	rows, err := conn.Query(ctx, `SELECT email FROM owners ORDER BY id`)
	require.NoError(t, err)
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var email string
		require.NoError(t, rows.Scan(&email))
		emails = append(emails, email)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, emails)
}

func TestConnection_ConstraintErrors(t *testing.T) {
	ctx := context.Background()
	conn := openTestConnection(t)

	_, err := conn.Exec(ctx, `INSERT INTO owners (email) VALUES (?)`, "dup@example.com")
	require.NoError(t, err)

	_, err = conn.Exec(ctx, `INSERT INTO owners (email) VALUES (?)`, "dup@example.com")
	require.Error(t, err)
	assert.True(t, database.IsUniqueViolation(err))
	assert.False(t, database.IsForeignKeyViolation(err))

	_, err = conn.Exec(ctx, `INSERT INTO items (owner_id) VALUES (?)`, 999)
	require.Error(t, err)
	assert.True(t, database.IsForeignKeyViolation(err))

	assert.False(t, database.IsUniqueViolation(errors.New("UNIQUE constraint failed")))
}

func TestConnection_CascadeDelete(t *testing.T) {
	ctx := context.Background()
	conn := openTestConnection(t)

	_, err := conn.Exec(ctx, `INSERT INTO owners (email) VALUES ('x@example.com')`)
	require.NoError(t, err)
	_, err = conn.Exec(ctx, `INSERT INTO items (owner_id) VALUES (1), (1)`)
	require.NoError(t, err)

	_, err = conn.Exec(ctx, `DELETE FROM owners WHERE id = 1`)
	require.NoError(t, err)

	var count int
	require.NoError(t, conn.QueryRow(ctx, `SELECT COUNT(*) FROM items`).Scan(&count))
	assert.Zero(t, count)
}

func TestUnitOfWork(t *testing.T) {
	ctx := context.Background()
	conn := openTestConnection(t)
	uow := database.NewUnitOfWork(conn)

	t.Run("commit persists", func(t *testing.T) {
		txCtx, err := uow.Begin(ctx)
		require.NoError(t, err)

		_, err = database.ExecutorFromContext(txCtx, conn).Exec(txCtx, `INSERT INTO owners (email) VALUES ('kept@example.com')`)
		require.NoError(t, err)
		require.NoError(t, uow.Commit(txCtx))

		var count int
		require.NoError(t, conn.QueryRow(ctx, `SELECT COUNT(*) FROM owners WHERE email = 'kept@example.com'`).Scan(&count))
		assert.Equal(t, 1, count)
	})

	t.Run("rollback discards", func(t *testing.T) {
		txCtx, err := uow.Begin(ctx)
		require.NoError(t, err)

		_, err = database.ExecutorFromContext(txCtx, conn).Exec(txCtx, `INSERT INTO owners (email) VALUES ('gone@example.com')`)
		require.NoError(t, err)
		require.NoError(t, uow.Rollback(txCtx))

		var count int
		require.NoError(t, conn.QueryRow(ctx, `SELECT COUNT(*) FROM owners WHERE email = 'gone@example.com'`).Scan(&count))
		assert.Zero(t, count)
	})

	t.Run("nested begin joins the outer transaction", func(t *testing.T) {
		outer, err := uow.Begin(ctx)
		require.NoError(t, err)

		inner, err := uow.Begin(outer)
		require.NoError(t, err)
		require.NoError(t, uow.Commit(inner))

		info, ok := database.TxInfoFromContext(inner)
		require.True(t, ok)
		assert.False(t, info.Owned)

		require.NoError(t, uow.Rollback(outer))
	})

	t.Run("commit without begin", func(t *testing.T) {
		assert.ErrorIs(t, uow.Commit(ctx), database.ErrNoTransaction)
	})
}
