package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 0.5, cfg.MoveThreshold)
	assert.Equal(t, "text", cfg.OutputFormat)
	assert.NoError(t, cfg.Validate())
	assert.False(t, cfg.InWorkspace())
}

func TestInitializeAndFind(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Initialize(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, WorkspaceDir), cfg.Path())
	assert.Equal(t, filepath.Join(dir, WorkspaceDir, DatabaseFile), cfg.DatabasePath())
	assert.FileExists(t, filepath.Join(dir, WorkspaceDir, ConfigFile))

	_, err = Initialize(dir)
	assert.Error(t, err, "second initialize fails")

	nested := filepath.Join(dir, "surveys", "2026")
	require.NoError(t, os.MkdirAll(nested, 0755))
	root, err := FindRootFrom(nested)
	require.NoError(t, err)
	assert.Equal(t, cfg.Path(), root)
}

func TestFindRootFrom_NoWorkspace(t *testing.T) {
	_, err := FindRootFrom(t.TempDir())
	assert.ErrorIs(t, err, ErrNoWorkspace)
}

func TestSaveAndLoadFile(t *testing.T) {
	cfg, err := Initialize(t.TempDir())
	require.NoError(t, err)

	cfg.MoveThreshold = 1.25
	cfg.OutputFormat = "json"
	cfg.MetricsFile = "/tmp/apdiff.prom"
	cfg.Tracing = true
	require.NoError(t, cfg.Save())

	loaded, err := LoadFile(filepath.Join(cfg.Path(), ConfigFile))
	require.NoError(t, err)
	assert.Equal(t, 1.25, loaded.MoveThreshold)
	assert.Equal(t, "json", loaded.OutputFormat)
	assert.Equal(t, "/tmp/apdiff.prom", loaded.MetricsFile)
	assert.True(t, loaded.Tracing)
}

func TestLoadFile_PartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "apdiff.toml")
	require.NoError(t, os.WriteFile(path, []byte("output_format = \"csv\"\n"), 0644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "csv", cfg.OutputFormat)
	assert.Equal(t, DefaultMoveThreshold, cfg.MoveThreshold)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
}

func TestLoadFile_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"zero threshold", "move_threshold_m = 0.0\n"},
		{"negative threshold", "move_threshold_m = -1.0\n"},
		{"unknown format", "output_format = \"yaml\"\n"},
		{"malformed", "move_threshold_m = [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))
			_, err := LoadFile(path)
			assert.Error(t, err)
		})
	}
}

func TestSave_Detached(t *testing.T) {
	assert.Error(t, Default().Save())
}

func TestResolveFrom(t *testing.T) {
	t.Run("defaults outside a workspace", func(t *testing.T) {
		cfg, err := ResolveFrom(t.TempDir(), "")
		require.NoError(t, err)
		assert.Equal(t, DefaultMoveThreshold, cfg.MoveThreshold)
		assert.False(t, cfg.InWorkspace())
	})

	t.Run("workspace config", func(t *testing.T) {
		dir := t.TempDir()
		ws, err := Initialize(dir)
		require.NoError(t, err)
		ws.MoveThreshold = 2
		require.NoError(t, ws.Save())

		cfg, err := ResolveFrom(dir, "")
		require.NoError(t, err)
		assert.Equal(t, 2.0, cfg.MoveThreshold)
		assert.Equal(t, ws.Path(), cfg.Path())
	})

	t.Run("explicit file wins but keeps workspace", func(t *testing.T) {
		dir := t.TempDir()
		ws, err := Initialize(dir)
		require.NoError(t, err)

		explicit := filepath.Join(t.TempDir(), "ci.toml")
		require.NoError(t, os.WriteFile(explicit, []byte("move_threshold_m = 3.0\n"), 0644))

		cfg, err := ResolveFrom(dir, explicit)
		require.NoError(t, err)
		assert.Equal(t, 3.0, cfg.MoveThreshold)
		assert.Equal(t, ws.Path(), cfg.Path())
	})

	t.Run("missing explicit file", func(t *testing.T) {
		_, err := ResolveFrom(t.TempDir(), filepath.Join(t.TempDir(), "nope.toml"))
		assert.Error(t, err)
	})
}
