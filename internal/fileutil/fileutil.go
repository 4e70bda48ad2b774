// Package fileutil provides file and path utility functions.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// MaxReadSize bounds single-file reads (default 16MB). Imported documents
// and inlined images run through ReadBounded, so one oversized file cannot
// exhaust memory during a render.
var MaxReadSize int64 = 16 << 20

// Sentinel errors for file utility operations.
var (
	ErrFileTooLarge = errors.New("file exceeds maximum read size")
)

// ReadBounded reads a file whole, rejecting files larger than MaxReadSize.
func ReadBounded(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.Size() > MaxReadSize {
		return nil, fmt.Errorf("%w: %s (%d bytes, max %d)", ErrFileTooLarge, path, info.Size(), MaxReadSize)
	}
	data, err := os.ReadFile(path) // #nosec G304 -- paths come from the document author's own imports
	if err != nil {
		return nil, err
	}
	return data, nil
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// IsURL returns true if the string looks like a URL.
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// Ext returns the lowercase file extension without the leading dot.
func Ext(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}

// Resolve makes path absolute relative to the directory of base.
// Absolute paths are returned cleaned but otherwise untouched.
func Resolve(base, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Clean(filepath.Join(filepath.Dir(base), path))
}
