package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *HistoryDB {
	t.Helper()
	db, err := OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpenInMemory_Migrates(t *testing.T) {
	db := openTestDB(t)

	v, err := db.SchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, len(migrations), v)
	assert.Equal(t, ":memory:", db.Path())
}

func TestOpenPath_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.db")

	db, err := OpenPath(path)
	require.NoError(t, err)
	_, err = db.LogOperation(Operation{Mode: "HARDLINK", Kind: "VID", SourcePath: "/src/a.mkv", RequestedPath: "/lib/a.mkv", FinalPath: "/lib/a.mkv", Success: true, ExecutedBy: ExecCLI})
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = OpenPath(path)
	require.NoError(t, err)
	defer db.Close()

	ops, err := db.RecentOperations(10)
	require.NoError(t, err)
	require.Len(t, ops, 1)
	assert.Equal(t, "/src/a.mkv", ops[0].SourcePath)
}

func TestLogOperation_RecentOrder(t *testing.T) {
	db := openTestDB(t)
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	for i, src := range []string{"/src/1.mkv", "/src/2.mkv", "/src/3.mkv"} {
		errMsg := ""
		if i == 1 {
			errMsg = "boom"
		}
		id, err := db.LogOperation(Operation{
			Mode:          "MOVE",
			Kind:          "VID",
			SeriesKey:     "Show",
			SourcePath:    src,
			RequestedPath: "/lib/x.mkv",
			FinalPath:     "/lib/x.mkv",
			Bytes:         int64(100 * (i + 1)),
			Success:       i != 1,
			Error:         errMsg,
			ExecutedBy:    ExecWatch,
			ExecutedAt:    base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
		assert.Positive(t, id)
	}

	ops, err := db.RecentOperations(2)
	require.NoError(t, err)
	require.Len(t, ops, 2)
	assert.Equal(t, "/src/3.mkv", ops[0].SourcePath)
	assert.Equal(t, "/src/2.mkv", ops[1].SourcePath)
	assert.False(t, ops[1].Success)
	assert.Equal(t, "boom", ops[1].Error)
	assert.Equal(t, ExecWatch, ops[0].ExecutedBy)
	assert.True(t, ops[0].ExecutedAt.Equal(base.Add(2*time.Minute)))

	stats, err := db.Stats()
	require.NoError(t, err)
	assert.Equal(t, OperationStats{Total: 3, Succeeded: 2, Failed: 1, Bytes: 400}, stats)
}

func TestWasPlaced(t *testing.T) {
	db := openTestDB(t)

	_, err := db.LogOperation(Operation{Mode: "MOVE", Kind: "VID", SourcePath: "/src/failed.mkv", RequestedPath: "/lib/a.mkv", Success: false, Error: "x", ExecutedBy: ExecCLI})
	require.NoError(t, err)
	_, err = db.LogOperation(Operation{Mode: "MOVE", Kind: "VID", SourcePath: "/src/ok.mkv", RequestedPath: "/lib/b.mkv", FinalPath: "/lib/b.mkv", Success: true, ExecutedBy: ExecCLI})
	require.NoError(t, err)

	placed, err := db.WasPlaced("/src/ok.mkv")
	require.NoError(t, err)
	assert.True(t, placed)

	placed, err = db.WasPlaced("/src/failed.mkv")
	require.NoError(t, err)
	assert.False(t, placed)

	placed, err = db.WasPlaced("/src/unknown.mkv")
	require.NoError(t, err)
	assert.False(t, placed)
}
