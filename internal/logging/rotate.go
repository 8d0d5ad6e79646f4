package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
)

// rotateFiles shifts name.N.ext to name.N+1.ext, drops anything past
// maxBackups, and moves the live file to name.1.ext.
func rotateFiles(basePath string, maxBackups int) error {
	dir := filepath.Dir(basePath)
	ext := filepath.Ext(basePath)
	name := strings.TrimSuffix(filepath.Base(basePath), ext)
	backup := func(n int) string {
		return filepath.Join(dir, name+"."+strconv.Itoa(n)+ext)
	}

	nums, err := backupNumbers(dir, name, ext)
	if err != nil {
		return err
	}
	slices.Sort(nums)
	slices.Reverse(nums)

	for _, n := range nums {
		if n >= maxBackups {
			os.Remove(backup(n))
			continue
		}
		if err := os.Rename(backup(n), backup(n+1)); err != nil {
			return fmt.Errorf("failed to rotate %s: %w", backup(n), err)
		}
	}

	if _, err := os.Stat(basePath); err == nil {
		if err := os.Rename(basePath, backup(1)); err != nil {
			return fmt.Errorf("failed to rotate current log: %w", err)
		}
	}
	return nil
}

func backupNumbers(dir, name, ext string) ([]int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var nums []int
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		mid, ok := strings.CutPrefix(entry.Name(), name+".")
		if !ok {
			continue
		}
		mid, ok = strings.CutSuffix(mid, ext)
		if !ok {
			continue
		}
		if n, err := strconv.Atoi(mid); err == nil {
			nums = append(nums, n)
		}
	}
	return nums, nil
}
