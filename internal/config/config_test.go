package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(New(), "")
	require.NoError(t, err)

	assert.Equal(t, "~/.patientdb/patients.db", cfg.DB.Path)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 300*time.Millisecond, cfg.Hover.Delay)
	assert.False(t, cfg.Query.ReadOnly)
	assert.Equal(t, 50, cfg.Query.HistorySize)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("PATIENTDB_DB_PATH", "/tmp/env.db")
	t.Setenv("PATIENTDB_QUERY_READ_ONLY", "true")
	t.Setenv("PATIENTDB_HOVER_DELAY", "1s")

	cfg, err := Load(New(), "")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/env.db", cfg.DB.Path)
	assert.True(t, cfg.Query.ReadOnly)
	assert.Equal(t, time.Second, cfg.Hover.Delay)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patientdb.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"db:\n  path: none\nlog:\n  format: json\nquery:\n  history_size: 5\n"), 0o600))

	cfg, err := Load(New(), path)
	require.NoError(t, err)
	assert.Equal(t, "none", cfg.DB.Path)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 5, cfg.Query.HistorySize)
	assert.Equal(t, "info", cfg.Log.Level, "unset keys keep defaults")
}

func TestLoad_Override(t *testing.T) {
	v := New()
	v.Set(KeyDBPath, ":memory:")

	cfg, err := Load(v, "")
	require.NoError(t, err)
	assert.Equal(t, ":memory:", cfg.DB.Path)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(New(), filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	v := New()
	v.Set(KeyQueryHistorySize, 0)
	_, err := Load(v, "")
	assert.Error(t, err)
}
