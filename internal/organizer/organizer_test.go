package organizer

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nomadcxx/aniarr/internal/database"
	"github.com/Nomadcxx/aniarr/internal/extras"
	"github.com/Nomadcxx/aniarr/internal/logging"
	"github.com/Nomadcxx/aniarr/internal/plans"
	"github.com/Nomadcxx/aniarr/internal/transfer"
)

func buildPlan(t *testing.T, names ...string) (*plans.Plan, string) {
	t.Helper()
	src, dst := t.TempDir(), t.TempDir()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(src, name), []byte(name), 0644))
	}
	plan, err := plans.Build(src, plans.Options{
		Destination:   dst,
		ExtrasEnabled: true,
		Scope:         extras.ScopeSeries,
	}, nil)
	require.NoError(t, err)
	return plan, dst
}

func TestExecute_Hardlink(t *testing.T) {
	plan, dst := buildPlan(t,
		"[Group] Show S01E02.mkv",
		"[Group] Show.S01E02.chs.ass",
		"[Group] Show NCOP.mkv",
	)

	var reported []OrganizationResult
	org := NewOrganizer(transfer.ModeHardlink)
	sum := org.Execute(context.Background(), plan, func(r OrganizationResult) {
		reported = append(reported, r)
	})

	assert.Equal(t, 3, sum.OK)
	assert.False(t, sum.HasFailures())
	require.Len(t, reported, 3)
	assert.FileExists(t, filepath.Join(dst, "Show", "Season 01", "Show S01E02 - [Group].mkv"))
	assert.FileExists(t, filepath.Join(dst, "Show", "Season 01", "Show S01E02 - [Group].zh-CN.ass"))
	assert.FileExists(t, filepath.Join(dst, "Show", "clips", "NCOP.mkv"))
	for _, r := range reported {
		assert.FileExists(t, r.SourcePath)
		assert.Equal(t, r.TargetPath, r.FinalPath)
	}
	assert.Equal(t, int64(len("[Group] Show S01E02.mkv")+len("[Group] Show.S01E02.chs.ass")+len("[Group] Show NCOP.mkv")), sum.Bytes)
}

func TestExecute_FailureDoesNotStopBatch(t *testing.T) {
	plan, _ := buildPlan(t, "[G] Show 01.mkv", "[G] Show 02.mkv", "[G] Show 03.mkv")
	require.NoError(t, os.Remove(plan.Items[1].Source))

	var buf bytes.Buffer
	org := NewOrganizer(transfer.ModeMove, WithLogger(logging.NewWriter(&buf, "error")))

	var results []OrganizationResult
	sum := org.Execute(context.Background(), plan, func(r OrganizationResult) {
		results = append(results, r)
	})

	assert.Equal(t, 2, sum.OK)
	assert.Equal(t, 1, sum.Failed)
	assert.True(t, sum.HasFailures())
	require.Len(t, results, 3)
	assert.True(t, results[0].Success)
	assert.False(t, results[1].Success)
	assert.ErrorIs(t, results[1].Error, transfer.ErrSourceNotFound)
	assert.True(t, results[2].Success)
	assert.Contains(t, buf.String(), "[executor] place failed")
}

func TestExecute_CollisionGetsSuffix(t *testing.T) {
	plan, dst := buildPlan(t, "[G] Show SP1.mkv", "[G] Show SP1 [v2].mkv")
	org := NewOrganizer(transfer.ModeHardlink)

	var finals []string
	sum := org.Execute(context.Background(), plan, func(r OrganizationResult) {
		finals = append(finals, r.FinalPath)
	})

	require.Equal(t, 2, sum.OK)
	assert.ElementsMatch(t, []string{
		filepath.Join(dst, "Show", "shorts", "SP1.mkv"),
		filepath.Join(dst, "Show", "shorts", "SP1_1.mkv"),
	}, finals)
}

func TestExecute_HistoryAndSkipPlaced(t *testing.T) {
	db, err := database.OpenInMemory()
	require.NoError(t, err)
	defer db.Close()

	plan, _ := buildPlan(t, "[G] Show 01.mkv", "[G] Show 02.mkv")

	first := NewOrganizer(transfer.ModeHardlink, WithHistory(db, database.ExecWatch), WithSkipPlaced(true))
	sum := first.Execute(context.Background(), plan, nil)
	assert.Equal(t, 2, sum.OK)

	ops, err := db.RecentOperations(10)
	require.NoError(t, err)
	require.Len(t, ops, 2)
	for _, op := range ops {
		assert.True(t, op.Success)
		assert.Equal(t, "HARDLINK", op.Mode)
		assert.Equal(t, "VID", op.Kind)
		assert.Equal(t, "Show", op.SeriesKey)
		assert.Equal(t, database.ExecWatch, op.ExecutedBy)
	}

	sum = first.Execute(context.Background(), plan, nil)
	assert.Equal(t, 0, sum.OK)
	assert.Equal(t, 2, sum.Skipped)

	ops, err = db.RecentOperations(10)
	require.NoError(t, err)
	assert.Len(t, ops, 2)
}
