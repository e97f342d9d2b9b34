// Package sink provides the destinations generated artifacts are written to.
package sink

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// OutputSink receives generated file content. Paths are slash separated and
// relative to the sink's root.
type OutputSink interface {
	WriteFile(ctx context.Context, path string, content []byte) error
}

// FilesystemSink writes artifacts under a root directory
type FilesystemSink struct {
	Root string
	Mode os.FileMode
}

// NewFilesystemSink creates a sink rooted at dir
func NewFilesystemSink(root string) *FilesystemSink {
	return &FilesystemSink{Root: root, Mode: 0644}
}

// WriteFile replaces the file at path with content through a temp file and a
// rename. A file whose content already matches is left untouched.
func (s *FilesystemSink) WriteFile(ctx context.Context, name string, content []byte) error {
	if err := ValidatePath(name); err != nil {
		return fmt.Errorf("invalid path %q: %w", name, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	full := filepath.Join(s.Root, filepath.FromSlash(name))
	if existing, err := os.ReadFile(full); err == nil && bytes.Equal(existing, content) {
		return nil
	}

	dir := filepath.Dir(full)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}

	mode := s.Mode
	if mode == 0 {
		mode = 0644
	}

	tmp, err := os.CreateTemp(dir, ".wsgen-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	_, writeErr := tmp.Write(content)
	closeErr := tmp.Close()
	if err := errors.Join(writeErr, closeErr); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to set file mode: %w", err)
	}
	if err := os.Rename(tmpPath, full); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// MemorySink keeps written files in memory. It is safe for concurrent use.
type MemorySink struct {
	mu    sync.RWMutex
	files map[string][]byte
}

// NewMemorySink creates an empty MemorySink
func NewMemorySink() *MemorySink {
	return &MemorySink{files: make(map[string][]byte)}
}

// WriteFile stores a copy of content under path
func (s *MemorySink) WriteFile(ctx context.Context, name string, content []byte) error {
	if err := ValidatePath(name); err != nil {
		return fmt.Errorf("invalid path %q: %w", name, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[name] = bytes.Clone(content)
	return nil
}

// Get returns the content stored at path, or nil
func (s *MemorySink) Get(name string) []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return bytes.Clone(s.files[name])
}

// Paths returns the stored paths in sorted order
func (s *MemorySink) Paths() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	paths := make([]string, 0, len(s.files))
	for p := range s.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Reset drops every stored file
func (s *MemorySink) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files = make(map[string][]byte)
}

// ValidatePath accepts clean, relative, slash separated paths that stay
// inside the sink root
func ValidatePath(name string) error {
	if name == "" {
		return errors.New("path is empty")
	}
	if strings.HasPrefix(name, "/") || filepath.IsAbs(name) || filepath.VolumeName(name) != "" {
		return errors.New("absolute paths not allowed")
	}
	if strings.Contains(name, `\`) {
		return errors.New("path must use forward slashes")
	}
	if cleaned := path.Clean(name); cleaned != name {
		if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
			return errors.New("path traversal not allowed")
		}
		return fmt.Errorf("path is not clean (expected %q)", cleaned)
	}
	if name == ".." || strings.HasPrefix(name, "../") {
		return errors.New("path traversal not allowed")
	}
	return nil
}
