package fileutil_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alnah/go-mdpreview/internal/fileutil"
)

func TestReadBounded(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "doc.md")
	if err := os.WriteFile(path, []byte("# content"), 0o644); err != nil {
		t.Fatal(err)
	}

	data, err := fileutil.ReadBounded(path)
	if err != nil {
		t.Fatalf("ReadBounded() error = %v", err)
	}
	if string(data) != "# content" {
		t.Errorf("ReadBounded() = %q, want %q", data, "# content")
	}

	if _, err := fileutil.ReadBounded(filepath.Join(dir, "absent.md")); err == nil {
		t.Error("ReadBounded() on missing file must error")
	}
}

func TestReadBoundedSizeLimit(t *testing.T) {
	// Mutates the package-level limit; not parallel.
	orig := fileutil.MaxReadSize
	fileutil.MaxReadSize = 8
	defer func() { fileutil.MaxReadSize = orig }()

	path := filepath.Join(t.TempDir(), "big.md")
	if err := os.WriteFile(path, []byte("way more than eight bytes"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := fileutil.ReadBounded(path); !errors.Is(err, fileutil.ErrFileTooLarge) {
		t.Errorf("errors.Is(err, ErrFileTooLarge) = false, got: %v", err)
	}
}

func TestFileExists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "f.txt")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if !fileutil.FileExists(path) {
		t.Error("FileExists() = false for regular file")
	}
	if fileutil.FileExists(dir) {
		t.Error("FileExists() = true for directory")
	}
	if fileutil.FileExists(filepath.Join(dir, "absent")) {
		t.Error("FileExists() = true for missing path")
	}
}

func TestIsURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{"http", "http://example.com/a.png", true},
		{"https", "https://example.com", true},
		{"relative path", "images/a.png", false},
		{"scheme-less host", "example.com/a.png", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := fileutil.IsURL(tt.input); got != tt.expected {
				t.Errorf("IsURL(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestExt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"markdown", "notes/readme.md", "md"},
		{"uppercase normalized", "chart.PNG", "png"},
		{"no extension", "Makefile", ""},
		{"dotfile", ".gitignore", "gitignore"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := fileutil.Ext(tt.input); got != tt.expected {
				t.Errorf("Ext(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		base     string
		path     string
		expected string
	}{
		{"sibling", "/docs/main.md", "part.md", "/docs/part.md"},
		{"subdirectory", "/docs/main.md", "inc/part.md", "/docs/inc/part.md"},
		{"parent traversal", "/docs/sub/main.md", "../part.md", "/docs/part.md"},
		{"absolute untouched", "/docs/main.md", "/other/part.md", "/other/part.md"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := fileutil.Resolve(tt.base, tt.path); got != tt.expected {
				t.Errorf("Resolve(%q, %q) = %q, want %q", tt.base, tt.path, got, tt.expected)
			}
		})
	}
}
