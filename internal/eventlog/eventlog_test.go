package eventlog

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mind-engage/cognitrack/internal/db"
)

func exerciseLog(t *testing.T, l Log) {
	ctx := context.Background()
	for _, key := range []string{"r-1", "r-2", "r-3"} {
		require.NoError(t, l.Append(ctx, Event{Type: TypeResultSubmitted, Key: key, Data: `{"id":"` + key + `"}`}))
	}

	all, err := l.List(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "r-1", all[0].Key)
	assert.Equal(t, "local", all[0].SiteID)
	assert.Less(t, all[0].Seq, all[1].Seq)
	assert.NotZero(t, all[2].CreatedAt)

	page, err := l.List(ctx, all[0].Seq, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "r-2", page[0].Key)

	rest, err := l.List(ctx, all[2].Seq, 10)
	require.NoError(t, err)
	assert.Empty(t, rest)
}

func TestMemoryLog(t *testing.T) {
	exerciseLog(t, NewMemoryLog())
}

func TestSQLLog_SQLite(t *testing.T) {
	dbh, err := db.Open(context.Background(), db.DriverSQLite, filepath.Join(t.TempDir(), "events.db"))
	require.NoError(t, err)
	defer dbh.Close()
	exerciseLog(t, NewSQLLog(dbh))
}
