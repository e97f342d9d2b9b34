package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/wsgen/internal/generator"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestCleaner_Clean(t *testing.T) {
	root := t.TempDir()
	generated := "// " + generator.Header + "\n\npackage chat\n"

	writeFile(t, filepath.Join(root, "chat", "chat_dispatcher_gen.go"), generated)
	writeFile(t, filepath.Join(root, "chat", "renamed.go"), generated)
	writeFile(t, filepath.Join(root, "chat", "chat.go"), "package chat\n")
	writeFile(t, filepath.Join(root, "chat", "other_gen.go"), "// Code generated by stringer. DO NOT EDIT.\n\npackage chat\n")
	writeFile(t, filepath.Join(root, "chat", "room", "room_dispatcher_gen.go"), generated)
	writeFile(t, filepath.Join(root, "vendor", "x", "x_dispatcher_gen.go"), generated)
	writeFile(t, filepath.Join(root, "testdata", "t_dispatcher_gen.go"), generated)

	t.Run("single directory", func(t *testing.T) {
		removed, err := NewCleaner().Clean([]string{filepath.Join(root, "chat")})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{
			filepath.Join(root, "chat", "chat_dispatcher_gen.go"),
			filepath.Join(root, "chat", "renamed.go"),
		}, removed)
		assert.FileExists(t, filepath.Join(root, "chat", "room", "room_dispatcher_gen.go"))
		assert.FileExists(t, filepath.Join(root, "chat", "chat.go"))
		assert.FileExists(t, filepath.Join(root, "chat", "other_gen.go"))
	})

	t.Run("recursive", func(t *testing.T) {
		removed, err := NewCleaner().Clean([]string{filepath.ToSlash(root) + "/..."})
		require.NoError(t, err)
		require.Len(t, removed, 1)
		assert.NoFileExists(t, filepath.Join(root, "chat", "room", "room_dispatcher_gen.go"))
		assert.FileExists(t, filepath.Join(root, "vendor", "x", "x_dispatcher_gen.go"))
		assert.FileExists(t, filepath.Join(root, "testdata", "t_dispatcher_gen.go"))
	})

	t.Run("missing directory", func(t *testing.T) {
		removed, err := NewCleaner().Clean([]string{filepath.Join(root, "gone")})
		require.NoError(t, err)
		assert.Empty(t, removed)
	})
}
