package sink

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr string
	}{
		{name: "file", path: "user_dispatcher_gen.go"},
		{name: "nested", path: "internal/user/user_dispatcher_gen.go"},
		{name: "empty", path: "", wantErr: "empty"},
		{name: "absolute", path: "/etc/passwd", wantErr: "absolute"},
		{name: "parent", path: "../x.go", wantErr: "traversal"},
		{name: "inner parent", path: "a/../../x.go", wantErr: "traversal"},
		{name: "unclean", path: "a//b.go", wantErr: "not clean"},
		{name: "dot prefix", path: "./a.go", wantErr: "not clean"},
		{name: "backslash", path: `a\b.go`, wantErr: "forward slashes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.path)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestFilesystemSink_WritesAtomically(t *testing.T) {
	root := t.TempDir()
	s := NewFilesystemSink(root)

	require.NoError(t, s.WriteFile(context.Background(), "internal/user/a_gen.go", []byte("package user\n")))

	data, err := os.ReadFile(filepath.Join(root, "internal", "user", "a_gen.go"))
	require.NoError(t, err)
	assert.Equal(t, "package user\n", string(data))

	leftovers, err := filepath.Glob(filepath.Join(root, "internal", "user", ".wsgen-*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestFilesystemSink_UnchangedContentKeepsFile(t *testing.T) {
	root := t.TempDir()
	s := NewFilesystemSink(root)
	ctx := context.Background()
	full := filepath.Join(root, "a_gen.go")

	require.NoError(t, s.WriteFile(ctx, "a_gen.go", []byte("x")))
	past := time.Now().Add(-time.Hour).Truncate(time.Second)
	require.NoError(t, os.Chtimes(full, past, past))

	require.NoError(t, s.WriteFile(ctx, "a_gen.go", []byte("x")))
	info, err := os.Stat(full)
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(past))

	require.NoError(t, s.WriteFile(ctx, "a_gen.go", []byte("y")))
	data, err := os.ReadFile(full)
	require.NoError(t, err)
	assert.Equal(t, "y", string(data))
}

func TestFilesystemSink_RejectsBadInput(t *testing.T) {
	s := NewFilesystemSink(t.TempDir())
	assert.Error(t, s.WriteFile(context.Background(), "../escape.go", nil))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.WriteFile(ctx, "a.go", nil), context.Canceled)
}

func TestMemorySink(t *testing.T) {
	s := NewMemorySink()
	ctx := context.Background()

	content := []byte("one")
	require.NoError(t, s.WriteFile(ctx, "b.go", content))
	require.NoError(t, s.WriteFile(ctx, "a.go", []byte("two")))
	content[0] = 'X'

	assert.Equal(t, "one", string(s.Get("b.go")))
	assert.Nil(t, s.Get("missing.go"))
	assert.Equal(t, []string{"a.go", "b.go"}, s.Paths())

	s.Reset()
	assert.Empty(t, s.Paths())
}
