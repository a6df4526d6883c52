package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/katalvlaran/usgflow/config"
)

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	t.Setenv(config.EnvLogLevel, "")
	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	cfg, err = config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoad_OverlaysFile(t *testing.T) {
	t.Setenv(config.EnvLogLevel, "")
	path := filepath.Join(t.TempDir(), "usgflow.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
binary:
  byte_order: big
  precision: single
grid:
  ordering: ascending
  parallel: 4
`), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "big", cfg.Binary.ByteOrder)
	assert.Equal(t, "single", cfg.Binary.Precision)
	assert.Equal(t, "ascending", cfg.Grid.Ordering)
	assert.Equal(t, 4, cfg.Grid.Parallel)
	assert.Equal(t, config.Default().Grid.AreaTolerance, cfg.Grid.AreaTolerance, "unset keys keep defaults")
	assert.Len(t, cfg.BinaryOptions(), 2)
	assert.Len(t, cfg.BuildOptions(), 3)
	assert.Len(t, cfg.GridOptions(), 1)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv(config.EnvLogLevel, "debug")
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, zapcore.DebugLevel, cfg.Level())
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv(config.EnvLogLevel, "")
	cases := map[string]string{
		"byte order": "binary: {byte_order: middle}",
		"precision":  "binary: {precision: quad}",
		"ordering":   "grid: {ordering: random}",
		"vertex tol": "grid: {vertex_tolerance: 0}",
		"area tol":   "grid: {area_tolerance: 1.5}",
		"log level":  "logging: {level: loud}",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "c.yaml")
			require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
			_, err := config.Load(path)
			assert.ErrorIs(t, err, config.ErrInvalid)
		})
	}

	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("grid: [unclosed"), 0o644))
	_, err := config.Load(path)
	assert.Error(t, err)
}

func TestSave_RoundTrip(t *testing.T) {
	t.Setenv(config.EnvLogLevel, "")
	cfg := config.Default()
	cfg.Grid.Parallel = 8
	cfg.Logging.Level = "warn"
	path := filepath.Join(t.TempDir(), "nested", "usgflow.yaml")
	require.NoError(t, cfg.Save(path))

	got, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
	assert.Equal(t, zapcore.WarnLevel, got.Level())
}
