package recent

import (
	"fmt"
	"os"
)

// EnsureDirectory creates dir, and its parents, if it does not exist.
func EnsureDirectory(dir string, mode os.FileMode) error {
	if IsDirectory(dir) {
		return nil
	}

	if err := os.MkdirAll(dir, mode); err != nil {
		return fmt.Errorf("making data dir: %w", err)
	}

	return nil
}

// IsFile returns true if path exists and is a regular file.
func IsFile(path string) bool {
	stat, err := os.Stat(path)
	return err == nil && stat.Mode().IsRegular()
}

// IsDirectory returns true if path exists and is a directory.
func IsDirectory(path string) bool {
	stat, err := os.Stat(path)
	return err == nil && stat.IsDir()
}
