// Package dbtest opens throwaway databases for tests.
package dbtest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/tasklane/internal/shared/infrastructure/database"
	_ "github.com/felixgeelhaar/tasklane/internal/shared/infrastructure/database/sqlite"
	"github.com/felixgeelhaar/tasklane/internal/shared/infrastructure/migrations"
)

// NewSQLite returns a migrated, empty SQLite database in a temp directory.
// The connection is closed when the test ends.
func NewSQLite(t testing.TB) database.Connection {
	t.Helper()

	ctx := context.Background()
	conn, err := database.NewConnection(ctx, database.Config{
		Driver:     database.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "app.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, migrations.Run(ctx, conn))
	return conn
}
