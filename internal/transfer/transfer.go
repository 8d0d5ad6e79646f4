// Package transfer places files into a library by hardlinking or moving them,
// never overwriting an existing destination.
package transfer

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Common errors returned by transfer operations
var (
	// ErrSourceNotFound is returned when the source file doesn't exist
	ErrSourceNotFound = errors.New("source file not found")

	// ErrDestinationNotWritable is returned when the destination directory
	// cannot be created
	ErrDestinationNotWritable = errors.New("destination not writable")

	// ErrCrossDevice is returned when a hardlink would cross filesystems
	ErrCrossDevice = errors.New("cannot hardlink across devices")

	// ErrNoFreeName is returned when every collision suffix is taken
	ErrNoFreeName = errors.New("no free destination name")

	// ErrTransferFailed is returned when a transfer fails for unspecified reasons
	ErrTransferFailed = errors.New("transfer failed")
)

// Mode is how a file reaches its destination.
type Mode string

const (
	ModeHardlink Mode = "HARDLINK"
	ModeMove     Mode = "MOVE"
)

// ParseMode accepts "hardlink"/"link" and "move" in any case.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hardlink", "link":
		return ModeHardlink, nil
	case "move":
		return ModeMove, nil
	}
	return "", fmt.Errorf("unknown transfer mode %q", s)
}

// Tag is the fixed-width status shown for a successful placement.
func (m Mode) Tag() string {
	if m == ModeMove {
		return "MOVED"
	}
	return "LINK "
}

// Method records which mechanism actually placed the file.
type Method string

const (
	MethodLink   Method = "link"
	MethodRename Method = "rename"
	MethodCopy   Method = "copy"
)

// Result describes one placement.
type Result struct {
	Success bool
	Mode    Mode
	Method  Method
	Source  string
	// Requested is the planned destination; Final is the path actually
	// used, which differs when a collision suffix was added. On failure
	// Final equals Requested.
	Requested string
	Final     string
	Bytes     int64
	Duration  time.Duration
	// SourceRemoved is set for moves whose source no longer exists.
	SourceRemoved bool
	Error         error
}
