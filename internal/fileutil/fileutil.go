// Package fileutil provides file and path utility functions.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Sentinel errors for file utility operations.
var (
	ErrFileNameEmpty     = errors.New("file name cannot be empty")
	ErrFileNameTraversal = errors.New("file name contains path separator or null byte")
)

// filePerm is the mode of written artifacts.
const filePerm = 0o644

// WriteFileAtomic writes data to a temporary file next to path and renames it
// into place, so readers never observe a partial file.
func WriteFileAtomic(path string, data []byte) error {
	dir, name := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	if err := ValidateFileName(name); err != nil {
		return err
	}

	tmpFile, err := os.CreateTemp(dir, "."+name+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }

	if _, writeErr := tmpFile.Write(data); writeErr != nil {
		_ = tmpFile.Close()
		cleanup()
		return fmt.Errorf("writing %s: %w", path, writeErr)
	}
	if closeErr := tmpFile.Close(); closeErr != nil {
		cleanup()
		return fmt.Errorf("closing %s: %w", path, closeErr)
	}
	if err := os.Chmod(tmpPath, filePerm); err != nil {
		cleanup()
		return fmt.Errorf("setting permissions on %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		cleanup()
		return fmt.Errorf("renaming into %s: %w", path, err)
	}
	return nil
}

// ValidateFileName checks that name is a single path element.
func ValidateFileName(name string) error {
	if name == "" || name == "." || name == ".." {
		return fmt.Errorf("%w: %q", ErrFileNameEmpty, name)
	}
	if strings.ContainsAny(name, "/\\\x00") {
		return fmt.Errorf("%w: %q", ErrFileNameTraversal, name)
	}
	return nil
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// IsFilePath returns true if the string looks like a file path rather than a name.
// A string containing path separators (/, \) is treated as a path.
//
// Examples:
//   - "work" -> false (name)
//   - "./work.yaml" -> true (relative path)
//   - "/etc/docassist/work.yaml" -> true (absolute)
//   - "C:\config\work.yaml" -> true (Windows)
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}
