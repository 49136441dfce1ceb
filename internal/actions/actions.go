// Package actions resolves destination paths for rule actions and executes
// them against the filesystem: move, copy, rename, and external PDF
// compression, with collision-safe naming and best-effort chaining.
package actions

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Move renames src to dest. If the rename fails due to a cross-device link,
// it falls back to copy then delete.
func Move(src, dest string) error {
	if err := os.Rename(src, dest); err == nil {
		return nil
	}
	if err := copyFile(src, dest); err != nil {
		return fmt.Errorf("move: copy fallback: %w", err)
	}
	if err := os.Remove(src); err != nil {
		return fmt.Errorf("move: remove src after copy: %w", err)
	}
	return nil
}

// Copy duplicates src at dest byte for byte; the source is left intact.
func Copy(src, dest string) error {
	info, err := os.Lstat(src)
	if err != nil {
		return fmt.Errorf("copy: lstat src: %w", err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("copy: source is not a regular file: %s", src)
	}
	return copyFile(src, dest)
}

func copyFile(src, dst string) (err error) {
	sf, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open src: %w", err)
	}
	defer sf.Close()

	df, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create dst: %w", err)
	}
	defer func() {
		if cerr := df.Close(); cerr != nil && err == nil {
			err = cerr
		}
		if err != nil {
			_ = os.Remove(dst)
		}
	}()

	if _, err := io.Copy(df, sf); err != nil {
		return fmt.Errorf("copy data: %w", err)
	}
	if err := df.Sync(); err != nil {
		return fmt.Errorf("sync dst: %w", err)
	}
	return nil
}

// archiveDir returns the Originals subfolder next to path, used when a
// compress action keeps the uncompressed original.
func archiveDir(path string) string {
	return filepath.Join(filepath.Dir(path), "Originals")
}

// ensureDir creates dir, tolerating pre-existence.
func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0o755)
}
