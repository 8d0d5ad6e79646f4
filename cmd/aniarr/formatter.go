package main

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Nomadcxx/aniarr/internal/config"
	"github.com/Nomadcxx/aniarr/internal/database"
	"github.com/Nomadcxx/aniarr/internal/logging"
	"github.com/Nomadcxx/aniarr/internal/ui"
)

//go:embed assets/header.txt
var asciiHeader string

const (
	exitUsage   = 1
	exitFailure = 2
)

// exitError carries a process exit code. A nil err means the problem was
// already reported.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

// exitCode maps an error returned by a command to the process exit code.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitUsage
}

// printHeader displays the ASCII header with version info
func printHeader(version string) {
	fmt.Println(asciiHeader)
	fmt.Printf("Version: %s\n\n", version)
}

// loadConfig loads the config and reports its warnings on w. This is the
// only place config warnings are shown.
func loadConfig(w io.Writer) *config.Config {
	cfg := config.Load(cfgFile)
	for _, warning := range cfg.Warnings {
		ui.WarningMsg(w, "config: %s", warning)
	}
	return cfg
}

// newLogger builds the logger from config. If the log file cannot be
// opened, logging continues on stderr only.
func newLogger(cfg *config.Config) *logging.Logger {
	lc := cfg.Logging
	if verbose {
		lc.Level = "debug"
	}
	logger, err := logging.New(lc)
	if err != nil {
		logger = logging.NewWriter(os.Stderr, lc.Level)
		logger.Warn("logging", "log file unavailable, logging to stderr only", logging.F("error", err))
	}
	return logger
}

// openHistory opens the history database when enabled. Failure is reported
// and yields nil, so placement still runs without a record.
func openHistory(cfg *config.Config, logger *logging.Logger) *database.HistoryDB {
	if !cfg.History.Enabled {
		return nil
	}
	db, err := openHistoryRequired(cfg)
	if err != nil {
		logger.Error("history", "history unavailable", err)
		ui.WarningMsg(os.Stderr, "history disabled: %v", err)
		return nil
	}
	return db
}

func openHistoryRequired(cfg *config.Config) (*database.HistoryDB, error) {
	path, err := cfg.HistoryPath()
	if err != nil {
		return nil, err
	}
	return database.OpenPath(path)
}
