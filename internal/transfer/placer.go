package transfer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"
	"time"
)

// Placer hardlinks or moves single files into place. It is safe for
// concurrent use.
type Placer struct {
	mode       Mode
	bufferSize int

	// link is os.Link; tests swap it to simulate other filesystems.
	link func(oldname, newname string) error
}

// NewPlacer creates a Placer for mode.
func NewPlacer(mode Mode) *Placer {
	return &Placer{
		mode:       mode,
		bufferSize: defaultBufferSize,
		link:       os.Link,
	}
}

// Mode returns the placement mode.
func (p *Placer) Mode() Mode {
	return p.mode
}

// Place puts src at dst, or at the first free "<stem>_<n>" variant when dst
// is taken. An existing file is never overwritten. Failures are reported in
// the Result, never by panicking, and leave src in place.
func (p *Placer) Place(ctx context.Context, src, dst string) Result {
	start := time.Now()
	res := Result{Mode: p.mode, Source: src, Requested: dst, Final: dst}
	done := func(err error) Result {
		res.Duration = time.Since(start)
		res.Error = err
		res.Success = err == nil
		return res
	}

	info, err := os.Stat(src)
	if err != nil {
		return done(fmt.Errorf("%w: %v", ErrSourceNotFound, err))
	}
	if !info.Mode().IsRegular() {
		return done(fmt.Errorf("%w: %s is not a regular file", ErrSourceNotFound, src))
	}
	res.Bytes = info.Size()

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return done(fmt.Errorf("%w: %v", ErrDestinationNotWritable, err))
	}

	for n := 0; n <= maxSuffix; n++ {
		if err := ctx.Err(); err != nil {
			return done(err)
		}
		cand := CandidatePath(dst, n)
		method, err := p.placeOnce(ctx, src, cand, info)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return done(err)
		}
		res.Final = cand
		res.Method = method
		res.SourceRemoved = p.mode == ModeMove
		return done(nil)
	}
	return done(fmt.Errorf("%w: %s", ErrNoFreeName, dst))
}

// placeOnce tries exactly one destination name. It returns an error matching
// fs.ErrExist when the name is taken.
func (p *Placer) placeOnce(ctx context.Context, src, dst string, info fs.FileInfo) (Method, error) {
	err := p.link(src, dst)
	switch {
	case err == nil:
		if p.mode == ModeMove {
			if rmErr := os.Remove(src); rmErr != nil {
				os.Remove(dst)
				return "", fmt.Errorf("%w: remove source: %v", ErrTransferFailed, rmErr)
			}
		}
		return MethodLink, nil

	case errors.Is(err, fs.ErrExist):
		return "", err

	case isCrossDevice(err):
		if p.mode == ModeHardlink {
			return "", fmt.Errorf("%w: %v", ErrCrossDevice, err)
		}
		return p.copyAndRemove(ctx, src, dst, info)

	case linkUnsupported(err):
		if p.mode == ModeHardlink {
			return "", fmt.Errorf("%w: %v", ErrTransferFailed, err)
		}
		return p.rename(ctx, src, dst, info)

	case errors.Is(err, fs.ErrPermission):
		return "", fmt.Errorf("%w: %v", ErrDestinationNotWritable, err)

	default:
		return "", fmt.Errorf("%w: %v", ErrTransferFailed, err)
	}
}

// rename moves src for filesystems without hardlinks. The existence check
// and the rename are not atomic.
func (p *Placer) rename(ctx context.Context, src, dst string, info fs.FileInfo) (Method, error) {
	if _, err := os.Lstat(dst); err == nil {
		return "", &fs.PathError{Op: "rename", Path: dst, Err: fs.ErrExist}
	}
	err := os.Rename(src, dst)
	switch {
	case err == nil:
		return MethodRename, nil
	case isCrossDevice(err):
		return p.copyAndRemove(ctx, src, dst, info)
	default:
		return "", fmt.Errorf("%w: %v", ErrTransferFailed, err)
	}
}

// copyAndRemove moves src across filesystems. The copy is removed again if
// the source cannot be deleted, so a failed move leaves exactly one file.
func (p *Placer) copyAndRemove(ctx context.Context, src, dst string, info fs.FileInfo) (Method, error) {
	if _, err := copyFile(ctx, src, dst, info.Mode().Perm(), p.bufferSize); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return "", err
		}
		return "", fmt.Errorf("%w: copy: %v", ErrTransferFailed, err)
	}
	if err := os.Remove(src); err != nil {
		os.Remove(dst)
		return "", fmt.Errorf("%w: remove source: %v", ErrTransferFailed, err)
	}
	return MethodCopy, nil
}

func isCrossDevice(err error) bool {
	return errors.Is(err, syscall.EXDEV)
}

func linkUnsupported(err error) bool {
	return errors.Is(err, errors.ErrUnsupported) || errors.Is(err, syscall.EPERM)
}
