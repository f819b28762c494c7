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
	assert.Positive(t, cfg.Import.Workers)
	assert.Equal(t, 512, cfg.Render.Width)
	assert.Equal(t, "dvr", cfg.Render.Mode)
	assert.Equal(t, 0.004, cfg.Render.StepSize)
	assert.True(t, cfg.Render.Shading)
	assert.Equal(t, "INFO", cfg.Log.Level)
}

func TestLoad_MissingFileKeepsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_EmptyPathKeepsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_Overlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "medview.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
render:
  width: 1024
  mode: mip
log:
  level: DEBUG
  json: true
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 1024, cfg.Render.Width)
	assert.Equal(t, "mip", cfg.Render.Mode)
	assert.Equal(t, "DEBUG", cfg.Log.Level)
	assert.True(t, cfg.Log.JSON)

	// Untouched keys keep defaults
	assert.Equal(t, 512, cfg.Render.Height)
	assert.Equal(t, 1024, cfg.Render.MaxSteps)
}

func TestLoad_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("render: ["), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoad_ZeroWorkersFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "medview.yaml")
	require.NoError(t, os.WriteFile(path, []byte("import:\n  workers: 0\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Positive(t, cfg.Import.Workers)
}
