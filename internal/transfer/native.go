package transfer

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
)

const defaultBufferSize = 4 * 1024 * 1024

// copyFile copies src to a new file at dst. dst must not exist; the
// exclusive create fails with fs.ErrExist otherwise. A partial copy is
// removed on error.
func copyFile(ctx context.Context, src, dst string, perm fs.FileMode, bufferSize int) (n int64, err error) {
	srcFile, err := os.Open(src)
	if err != nil {
		return 0, fmt.Errorf("failed to open source: %w", err)
	}
	defer srcFile.Close()

	dstFile, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return 0, err
	}
	defer func() {
		if cerr := dstFile.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close error: %w", cerr)
		}
		if err != nil {
			os.Remove(dst)
		}
	}()

	buf := make([]byte, bufferSize)
	for {
		if err := ctx.Err(); err != nil {
			return n, err
		}

		nr, readErr := srcFile.Read(buf)
		if nr > 0 {
			nw, writeErr := dstFile.Write(buf[:nr])
			n += int64(nw)
			if writeErr != nil {
				return n, fmt.Errorf("write error: %w", writeErr)
			}
			if nr != nw {
				return n, fmt.Errorf("short write: %d != %d", nr, nw)
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return n, fmt.Errorf("read error: %w", readErr)
		}
	}

	if err := dstFile.Sync(); err != nil {
		return n, fmt.Errorf("sync error: %w", err)
	}
	return n, nil
}
