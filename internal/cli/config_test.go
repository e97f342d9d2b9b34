package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/wsgen/internal/models"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(NewViper(t.TempDir()))
	require.NoError(t, err)

	assert.Equal(t, []string{"./..."}, cfg.Patterns)
	assert.Equal(t, models.DefaultRuntimePackage, cfg.RuntimePackage)
	assert.Equal(t, models.DefaultRuntimePackage, cfg.SessionPackage())
	assert.Equal(t, "Session", cfg.Session.Type)
	assert.Equal(t, "DispatcherRegistry", cfg.Registry.Type)
	assert.Equal(t, "wsgen_registry_gen.go", cfg.Registry.File)
	assert.Equal(t, "Dispatcher", cfg.Dispatcher.Suffix)
	assert.Equal(t, "_dispatcher_gen.go", cfg.Dispatcher.FileSuffix)
	assert.Equal(t, "ignore", cfg.Unmatched)
	assert.False(t, cfg.DryRun)
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := `patterns:
  - ./internal/...
unmatched: error
session:
  package: example.com/app/ws
  type: Conn
registry:
  dir: internal/wiring
  type: Routes
dispatcher:
  suffix: Router
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "wsgen.yaml"), []byte(yaml), 0o644))
	t.Setenv("WSGEN_REGISTRY_TYPE", "Endpoints")
	t.Setenv("WSGEN_DRY_RUN", "true")

	cfg, err := LoadConfig(NewViper(dir))
	require.NoError(t, err)

	assert.Equal(t, []string{"./internal/..."}, cfg.Patterns)
	assert.Equal(t, "error", cfg.Unmatched)
	assert.Equal(t, "example.com/app/ws", cfg.SessionPackage())
	assert.Equal(t, "Conn", cfg.Session.Type)
	assert.Equal(t, "internal/wiring", cfg.Registry.Dir)
	assert.Equal(t, "Endpoints", cfg.Registry.Type, "environment wins over the file")
	assert.Equal(t, "Router", cfg.Dispatcher.Suffix)
	assert.Equal(t, "_dispatcher_gen.go", cfg.Dispatcher.FileSuffix)
	assert.True(t, cfg.DryRun)
}

func TestLoadConfig_BrokenFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "wsgen.yaml"), []byte("patterns: [\n"), 0o644))

	_, err := LoadConfig(NewViper(dir))
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		cfg, err := LoadConfig(NewViper(t.TempDir()))
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"verbose and quiet", func(c *Config) { c.Verbose, c.Quiet = true, true }, "verbose"},
		{"no patterns", func(c *Config) { c.Patterns = nil }, "patterns"},
		{"bad policy", func(c *Config) { c.Unmatched = "drop" }, "unmatched"},
		{"no runtime", func(c *Config) { c.RuntimePackage = "" }, "runtime_package"},
		{"no session type", func(c *Config) { c.Session.Type = "" }, "session.type"},
		{"no dispatcher suffix", func(c *Config) { c.Dispatcher.Suffix = "" }, "dispatcher.suffix"},
		{"no file suffix", func(c *Config) { c.Dispatcher.FileSuffix = "" }, "file_suffix"},
		{"bare go file suffix", func(c *Config) { c.Dispatcher.FileSuffix = ".go" }, "file_suffix"},
		{"no suffixes", func(c *Config) { c.Dispatcher.Suffix, c.Dispatcher.FileSuffix = "", "" }, "dispatcher"},
		{"file suffix not go", func(c *Config) { c.Dispatcher.FileSuffix = "_gen.txt" }, "file_suffix"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.field)
		})
	}

	assert.NoError(t, valid().Validate())
}
