package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_SQLiteCreatesSchema(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "schema.db")

	dbh, err := Open(ctx, DriverSQLite, path)
	require.NoError(t, err)
	for _, table := range []string{"assessment_results", "students", "classrooms", "assessments", "users", "event_log"} {
		var n int
		require.NoError(t, dbh.QueryRowContext(ctx,
			`SELECT count(*) FROM sqlite_master WHERE type='table' AND name=$1`, table).Scan(&n))
		assert.Equal(t, 1, n, table)
	}
	require.NoError(t, dbh.Close())

	// reopening an existing database is fine
	dbh, err = Open(ctx, DriverSQLite, path)
	require.NoError(t, err)
	require.NoError(t, dbh.Close())
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), Driver("oracle"), "")
	assert.Error(t, err)
}
