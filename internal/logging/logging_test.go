package logging

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, LevelWarn, ParseLevel("warning"))
	assert.Equal(t, LevelError, ParseLevel("error"))
	assert.Equal(t, LevelInfo, ParseLevel("nonsense"))
}

func TestLogger_LineFormat(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, "debug")

	l.Error("executor", "place failed", errors.New("boom"), F("src", "a.mkv"), F("n", 2))

	line := buf.String()
	assert.Contains(t, line, "[ERROR] [executor] place failed | error=boom | src=a.mkv | n=2")
	assert.True(t, strings.HasSuffix(line, "\n"))
}

func TestLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, "warn")

	l.Info("planner", "hidden")
	l.Debug("planner", "hidden")
	assert.Empty(t, buf.String())

	l.Warn("config", "shown")
	assert.Contains(t, buf.String(), "[WARN] [config] shown")

	buf.Reset()
	l.SetLevel(LevelDebug)
	l.Debug("planner", "now shown")
	assert.Contains(t, buf.String(), "now shown")
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Error("x", "y", errors.New("z"))
	assert.NoError(t, l.Close())
	assert.Empty(t, l.FilePath())
}

func TestNew_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "aniarr.log")
	l, err := New(Config{Level: "info", File: path})
	require.NoError(t, err)

	l.console = nil
	l.Info("history", "recorded", F("id", 7))
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[INFO] [history] recorded | id=7")
}

func TestRotateFiles(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "aniarr.log")
	write := func(name, body string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0644))
	}
	write("aniarr.log", "live")
	write("aniarr.1.log", "one")
	write("aniarr.2.log", "two")

	require.NoError(t, rotateFiles(base, 2))

	read := func(name string) string {
		data, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err)
		return string(data)
	}
	assert.Equal(t, "live", read("aniarr.1.log"))
	assert.Equal(t, "one", read("aniarr.2.log"))
	assert.NoFileExists(t, base)
	assert.NoFileExists(t, filepath.Join(dir, "aniarr.3.log"))
}
