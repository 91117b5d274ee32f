package validation

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrEmptyPath     = errors.New("path cannot be empty")
	ErrUnsafePath    = errors.New("path contains unsafe characters")
	ErrPathTraversal = errors.New("directory traversal not allowed")
	ErrNotAFile      = errors.New("path is a directory, not a file")
)

// FilePathValidator checks the local files flik writes: the embedded
// store and the log file.
type FilePathValidator struct {
	// MaxPathLength is the maximum allowed path length
	MaxPathLength int
}

func NewFilePathValidator() *FilePathValidator {
	return &FilePathValidator{MaxPathLength: 4096}
}

// ValidateFile expands a leading ~/, makes path absolute and rejects
// control characters, ".." components and existing directories.
func (v *FilePathValidator) ValidateFile(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", ErrEmptyPath
	}
	if v.MaxPathLength > 0 && len(path) > v.MaxPathLength {
		return "", fmt.Errorf("path too long (max %d characters)", v.MaxPathLength)
	}
	for _, r := range path {
		if r == 0 || (r < 32 && r != '\t') {
			return "", ErrUnsafePath
		}
	}
	for _, part := range strings.FieldsFunc(path, func(r rune) bool { return r == '/' || r == '\\' }) {
		if part == ".." {
			return "", ErrPathTraversal
		}
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	} else if strings.HasPrefix(path, "~") {
		return "", fmt.Errorf("%w: unsupported tilde form", ErrUnsafePath)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("cannot make path absolute: %w", err)
	}

	if info, statErr := os.Stat(abs); statErr == nil && info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrNotAFile, abs)
	}
	return abs, nil
}
