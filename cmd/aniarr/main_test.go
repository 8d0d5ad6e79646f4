package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nomadcxx/aniarr/internal/config"
	"github.com/Nomadcxx/aniarr/internal/database"
	"github.com/Nomadcxx/aniarr/internal/extras"
	"github.com/Nomadcxx/aniarr/internal/plans"
	"github.com/Nomadcxx/aniarr/internal/transfer"
	"github.com/Nomadcxx/aniarr/internal/ui"
)

func init() {
	ui.DisableColors()
}

// setupHome isolates config, logs and history under a temporary HOME.
func setupHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("SUDO_USER", "")
	cfgFile, verbose, noColor = "", false, false
	return home
}

func sourceDir(t *testing.T, names ...string) string {
	t.Helper()
	src := t.TempDir()
	for _, name := range names {
		path := filepath.Join(src, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(name), 0644))
	}
	return src
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, exitCode(nil))
	assert.Equal(t, 1, exitCode(errors.New("usage")))
	assert.Equal(t, 2, exitCode(&exitError{code: exitFailure}))
	assert.Equal(t, 1, exitCode(&exitError{code: exitUsage, err: plans.ErrInvalidSource}))
}

func TestResolveRoots(t *testing.T) {
	src := t.TempDir()

	s, d, err := resolveRoots([]string{src})
	require.NoError(t, err)
	assert.Equal(t, src, s)
	assert.Equal(t, filepath.Join(src, "organized"), d)

	_, d, err = resolveRoots([]string{src, "/lib"})
	require.NoError(t, err)
	assert.Equal(t, "/lib", d)

	_, _, err = resolveRoots([]string{filepath.Join(src, "missing")})
	assert.ErrorIs(t, err, plans.ErrInvalidSource)

	file := filepath.Join(src, "a.mkv")
	require.NoError(t, os.WriteFile(file, nil, 0644))
	_, _, err = resolveRoots([]string{file})
	assert.ErrorIs(t, err, plans.ErrInvalidSource)
}

func TestPlanFlagsOptions(t *testing.T) {
	cfg := config.DefaultConfig()

	f := planFlags{title: "T", year: "2024", season: 2, noExtras: true, extrasScope: "Season"}
	opts, err := f.options(cfg, "/lib")
	require.NoError(t, err)
	assert.Equal(t, "/lib", opts.Destination)
	assert.Equal(t, "T", opts.Overrides.Title)
	assert.Equal(t, 2, opts.Overrides.Season)
	assert.False(t, opts.ExtrasEnabled)
	assert.Equal(t, extras.ScopeSeason, opts.Scope)
	assert.NotNil(t, opts.Classifier)

	cfg.ExtrasScope = "series"
	opts, err = f.options(cfg, "/lib")
	require.NoError(t, err)
	assert.Equal(t, extras.ScopeSeries, opts.Scope)

	_, err = (&planFlags{extrasScope: "episode"}).options(cfg, "/lib")
	assert.Error(t, err)
	_, err = (&planFlags{extrasScope: "series", season: -1}).options(cfg, "/lib")
	assert.Error(t, err)
}

func TestRoot_InvalidSource(t *testing.T) {
	setupHome(t)
	_, err := run(t, "", "-y", filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, plans.ErrInvalidSource)
	assert.Equal(t, 1, exitCode(err))
}

func TestRoot_NonInteractiveHardlink(t *testing.T) {
	home := setupHome(t)
	src := sourceDir(t, "[Group] Show S01E02.mkv", "[Group] Show.S01E02.chs.ass", "[Group] Show NCOP.mkv", "notes.txt")
	dst := filepath.Join(t.TempDir(), "Anime")

	out, err := run(t, "", "-y", src, dst)
	require.NoError(t, err)

	assert.Contains(t, out, "Mode        : HARDLINK")
	assert.Contains(t, out, "[EXTRA/clips] -> "+filepath.Join("Show", "clips", "NCOP.mkv"))
	assert.Contains(t, out, "unrecognized extension (1):")
	assert.Contains(t, out, "Done. OK=3  FAIL=0")
	assert.FileExists(t, filepath.Join(dst, "Show", "Season 01", "Show S01E02 - [Group].mkv"))
	assert.FileExists(t, filepath.Join(dst, "Show", "Season 01", "Show S01E02 - [Group].zh-CN.ass"))
	assert.FileExists(t, filepath.Join(src, "[Group] Show S01E02.mkv"))

	db, err := database.OpenPath(filepath.Join(home, ".config", "aniarr", "history.db"))
	require.NoError(t, err)
	defer db.Close()
	ops, err := db.RecentOperations(10)
	require.NoError(t, err)
	assert.Len(t, ops, 3)
}

func TestRoot_DefaultDestinationAndMove(t *testing.T) {
	setupHome(t)
	src := sourceDir(t, "[G] Show - 01.mkv")

	_, err := run(t, "", "-y", "-m", src)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(src, "organized", "Show", "Season 01", "Show S01E01 - [G].mkv"))
	assert.NoFileExists(t, filepath.Join(src, "[G] Show - 01.mkv"))
}

func TestRoot_InteractiveConfirm(t *testing.T) {
	setupHome(t)
	src := sourceDir(t, "[G] Show - 01.mkv")
	dst := t.TempDir()

	out, err := run(t, "t\nRenamed\n\n\n", src, dst)
	require.NoError(t, err)
	assert.Contains(t, out, "[Confirm 2/2] Execute HARDLINK?")
	assert.FileExists(t, filepath.Join(dst, "Renamed", "Season 01", "Renamed S01E01 - [G].mkv"))
}

func TestRoot_InteractiveQuit(t *testing.T) {
	setupHome(t)
	src := sourceDir(t, "[G] Show - 01.mkv")
	dst := t.TempDir()

	out, err := run(t, "q\n", src, dst)
	require.NoError(t, err)
	assert.Contains(t, out, "Aborted.")
	assert.NoDirExists(t, filepath.Join(dst, "Show"))
}

func TestDryRunSavePlanThenApply(t *testing.T) {
	setupHome(t)
	src := sourceDir(t, "[G] Show - 01.mkv", "[G] Show - 02.mkv")
	dst := t.TempDir()
	planFile := filepath.Join(t.TempDir(), "plan.json")

	out, err := run(t, "", "-y", "-d", "--save-plan", planFile, src, dst)
	require.NoError(t, err)
	assert.Contains(t, out, "Mode        : DRY-RUN")
	assert.Contains(t, out, "Summary: dry-run only.")
	assert.FileExists(t, planFile)
	assert.NoDirExists(t, filepath.Join(dst, "Show"))

	require.NoError(t, os.Remove(filepath.Join(src, "[G] Show - 02.mkv")))

	out, err = run(t, "", "apply", planFile)
	assert.Equal(t, exitFailure, exitCode(err))
	assert.Contains(t, out, "Done. OK=1  FAIL=1")
	assert.Contains(t, out, "[FAIL] [G] Show - 02.mkv :: ")
	assert.FileExists(t, filepath.Join(dst, "Show", "Season 01", "Show S01E01 - [G].mkv"))
}

func TestSavePlanByNameKeepsMode(t *testing.T) {
	home := setupHome(t)
	src := sourceDir(t, "[G] Show - 01.mkv")
	dst := t.TempDir()

	out, err := run(t, "", "-y", "-d", "-m", "--save-plan", "last", src, dst)
	require.NoError(t, err)
	planFile := filepath.Join(home, ".config", "aniarr", "plans", "last.json")
	assert.Contains(t, out, "Plan saved to "+planFile)

	saved, err := plans.Load(planFile)
	require.NoError(t, err)
	assert.Equal(t, "MOVE", saved.Mode)

	out, err = run(t, "", "apply", "last")
	require.NoError(t, err)
	assert.Contains(t, out, "[MOVED]")
	assert.FileExists(t, filepath.Join(dst, "Show", "Season 01", "Show S01E01 - [G].mkv"))
	assert.NoFileExists(t, filepath.Join(src, "[G] Show - 01.mkv"))
}

func TestResolvePlanPath(t *testing.T) {
	home := setupHome(t)

	tests := []struct {
		arg  string
		want string
	}{
		{"last", filepath.Join(home, ".config", "aniarr", "plans", "last.json")},
		{"plan.json", "plan.json"},
		{filepath.Join("dir", "plan"), filepath.Join("dir", "plan")},
	}
	for _, tt := range tests {
		got, err := resolvePlanPath(tt.arg)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.arg)
	}
}

func TestApplyMode(t *testing.T) {
	tests := []struct {
		name    string
		saved   string
		move    bool
		want    transfer.Mode
		wantErr bool
	}{
		{"unrecorded defaults to hardlink", "", false, transfer.ModeHardlink, false},
		{"recorded move", "MOVE", false, transfer.ModeMove, false},
		{"flag forces move", "HARDLINK", true, transfer.ModeMove, false},
		{"unknown mode", "COPY", false, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := applyMode(&plans.Plan{Mode: tt.saved}, tt.move)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHistoryCmd(t *testing.T) {
	home := setupHome(t)

	out, err := run(t, "", "history")
	require.NoError(t, err)
	assert.Contains(t, out, "No operations recorded.")

	db, err := database.OpenPath(filepath.Join(home, ".config", "aniarr", "history.db"))
	require.NoError(t, err)
	_, err = db.LogOperation(database.Operation{
		Mode: "MOVE", Kind: "VID", SeriesKey: "Show", SourcePath: "/in/a.mkv",
		RequestedPath: "/lib/a.mkv", FinalPath: "/lib/a.mkv", Bytes: 2048, Success: true,
		ExecutedBy: database.ExecCLI, ExecutedAt: time.Now(),
	})
	require.NoError(t, err)
	require.NoError(t, db.Close())

	out, err = run(t, "", "history", "-n", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "/lib/a.mkv")
	assert.Contains(t, out, "Total: 1  OK: 1  FAIL: 0")
}

func TestConfigWarningsReportedOnce(t *testing.T) {
	home := setupHome(t)
	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("extras_scope = \"episode\"\n"), 0644))
	src := sourceDir(t, "[G] Show - 01.mkv")

	out, err := run(t, "", "--config", cfgPath, "-y", "-d", src, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, `unknown extras_scope "episode"`))

	logData, err := os.ReadFile(filepath.Join(home, ".config", "aniarr", "logs", "aniarr.log"))
	require.NoError(t, err)
	assert.NotContains(t, string(logData), "extras_scope")
}

func TestConfigInitShowPath(t *testing.T) {
	home := setupHome(t)
	want := filepath.Join(home, ".config", "aniarr", "config.toml")

	out, err := run(t, "", "config", "path")
	require.NoError(t, err)
	assert.Contains(t, out, "not created")

	_, err = run(t, "", "config", "init")
	require.NoError(t, err)
	assert.FileExists(t, want)

	_, err = run(t, "", "config", "init")
	assert.Error(t, err)

	out, err = run(t, "", "config", "path")
	require.NoError(t, err)
	assert.Equal(t, want+"\n", out)

	out, err = run(t, "", "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Config source: "+want)
	assert.Contains(t, out, "[[rules]]")
}

func TestHistoryRows(t *testing.T) {
	rows := historyRows([]database.Operation{
		{Mode: "HARDLINK", Kind: "SUB", Success: false, SourcePath: "/in/x.ass", Error: "boom", ExecutedBy: database.ExecWatch},
	})
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"watch", "HARDLINK", "SUB", "FAIL", "x.ass :: boom"}, rows[0][1:])
}
