package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "deadclick", cfg.Name)
	assert.NoError(t, cfg.Validate())
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
store:
  database_path: /tmp/custom.db
watch:
  debounce: 2s
logging:
  debug_mode: true
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom.db", cfg.Store.DatabasePath)
	assert.Equal(t, 2.0, cfg.WatchDebounce().Seconds())
	assert.True(t, cfg.Logging.DebugMode)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// Untouched sections keep defaults.
	assert.NotEmpty(t, cfg.Artifacts.ExpectationsPath)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("DEADCLICK_DB_PATH", "/var/lib/deadclick/findings.db")
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: deadclick\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/deadclick/findings.db", cfg.Store.DatabasePath)
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Store.DatabasePath = "custom.db"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "custom.db", loaded.Store.DatabasePath)
}

func TestValidateRejectsBadDebounce(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Watch.Debounce = "soon"
	assert.Error(t, cfg.Validate())
}
