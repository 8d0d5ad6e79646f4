// Package logging provides component-tagged structured logging to the
// console and a size-rotated log file.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/Nomadcxx/aniarr/internal/paths"
)

// Level represents a logging level
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts a string to a Level. Unknown strings map to info.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Field represents a key-value pair for structured logging
type Field struct {
	Key   string
	Value interface{}
}

// F creates a new Field
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Config holds logger configuration
type Config struct {
	Level      string `mapstructure:"level" toml:"level" json:"level"`
	File       string `mapstructure:"file" toml:"file" json:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" toml:"max_size_mb" json:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups" toml:"max_backups" json:"max_backups"`
}

const (
	defaultMaxSizeMB  = 10
	defaultMaxBackups = 5
)

// DefaultConfig returns default logging configuration. An empty File means
// ~/.config/aniarr/logs/aniarr.log.
func DefaultConfig() Config {
	return Config{
		Level:      "warn",
		MaxSizeMB:  defaultMaxSizeMB,
		MaxBackups: defaultMaxBackups,
	}
}

// Logger writes one line per entry to the console and, when configured, to a
// rotating file.
type Logger struct {
	level      Level
	mu         sync.Mutex
	console    io.Writer
	file       *os.File
	filePath   string
	maxSize    int64
	maxBackups int
}

// New creates a Logger that writes to stderr and the configured file.
func New(cfg Config) (*Logger, error) {
	l := NewWriter(os.Stderr, cfg.Level)
	l.maxSize = int64(cfg.MaxSizeMB) * 1024 * 1024
	l.maxBackups = cfg.MaxBackups
	if l.maxSize <= 0 {
		l.maxSize = defaultMaxSizeMB * 1024 * 1024
	}
	if l.maxBackups <= 0 {
		l.maxBackups = defaultMaxBackups
	}

	path, err := resolveFile(cfg.File)
	if err != nil {
		return nil, err
	}
	l.filePath = path

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("unable to create log directory: %w", err)
	}
	if err := l.openFile(); err != nil {
		return nil, err
	}
	return l, nil
}

// NewWriter creates a console-only Logger writing to w.
func NewWriter(w io.Writer, level string) *Logger {
	return &Logger{
		level:   ParseLevel(level),
		console: w,
	}
}

func resolveFile(file string) (string, error) {
	if file == "" {
		return paths.LogPath()
	}
	if strings.HasPrefix(file, "~") {
		home, err := paths.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("unable to get home dir: %w", err)
		}
		return filepath.Join(home, file[1:]), nil
	}
	return file, nil
}

func (l *Logger) openFile() error {
	f, err := os.OpenFile(l.filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("unable to open log file: %w", err)
	}
	l.file = f
	return nil
}

func (l *Logger) rotateIfNeeded() error {
	if l.file == nil {
		return nil
	}
	info, err := l.file.Stat()
	if err != nil {
		return err
	}
	if info.Size() < l.maxSize {
		return nil
	}

	l.file.Close()
	l.file = nil
	if err := rotateFiles(l.filePath, l.maxBackups); err != nil {
		return err
	}
	return l.openFile()
}

func formatLine(level Level, component, msg string, err error, fields []Field) string {
	var sb strings.Builder
	sb.WriteString(time.Now().Format(time.RFC3339))
	fmt.Fprintf(&sb, " [%s] [%s] %s", level, component, msg)
	if err != nil {
		sb.WriteString(" | error=")
		sb.WriteString(err.Error())
	}
	for _, f := range fields {
		fmt.Fprintf(&sb, " | %s=%v", f.Key, f.Value)
	}
	sb.WriteByte('\n')
	return sb.String()
}

func (l *Logger) log(level Level, component, msg string, err error, fields ...Field) {
	if l == nil || level < l.level {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if rotErr := l.rotateIfNeeded(); rotErr != nil {
		fmt.Fprintf(os.Stderr, "log rotation error: %v\n", rotErr)
	}

	line := formatLine(level, component, msg, err, fields)
	if l.console != nil {
		io.WriteString(l.console, line)
	}
	if l.file != nil {
		l.file.WriteString(line)
	}
}

// Debug logs a debug message
func (l *Logger) Debug(component, msg string, fields ...Field) {
	l.log(LevelDebug, component, msg, nil, fields...)
}

// Info logs an info message
func (l *Logger) Info(component, msg string, fields ...Field) {
	l.log(LevelInfo, component, msg, nil, fields...)
}

// Warn logs a warning message
func (l *Logger) Warn(component, msg string, fields ...Field) {
	l.log(LevelWarn, component, msg, nil, fields...)
}

// Error logs an error message with an error
func (l *Logger) Error(component, msg string, err error, fields ...Field) {
	l.log(LevelError, component, msg, err, fields...)
}

// Close closes the log file
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}

// SetLevel sets the log level
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// FilePath returns the log file path, "" for console-only loggers.
func (l *Logger) FilePath() string {
	return l.filePath
}

// Nop returns a logger that discards all output
func Nop() *Logger {
	return &Logger{level: LevelError + 1}
}
