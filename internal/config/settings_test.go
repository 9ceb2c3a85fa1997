package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettingsDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	s, err := LoadSettings("")
	require.NoError(t, err)
	assert.Equal(t, ":8080", s.Server.Addr)
	assert.Equal(t, 100000, s.Server.MaxIterations)
	assert.Equal(t, 1000, s.Simulation.Iterations)
	assert.False(t, s.Storage.Enabled)
	assert.Equal(t, "json", s.Logging.Format)
	assert.Equal(t, "template", s.Narrative.Provider)
}

func TestLoadSettingsFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "risklab.yaml")
	content := "server:\n  addr: \":9000\"\n  max_iterations: 5000\n" +
		"storage:\n  enabled: true\n  path: /tmp/runs.db\n" +
		"logging:\n  format: console\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	t.Setenv("RISKLAB_SERVER_ADDR", ":7000")
	t.Setenv("RISKLAB_SIMULATION_WORKERS", "8")

	s, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, ":7000", s.Server.Addr, "env overrides file")
	assert.Equal(t, 5000, s.Server.MaxIterations)
	assert.Equal(t, 8, s.Simulation.Workers)
	assert.True(t, s.Storage.Enabled)
	assert.Equal(t, "/tmp/runs.db", s.Storage.Path)
	assert.Equal(t, "console", s.Logging.Format)
}

func TestLoadSettingsExplicitFileMissing(t *testing.T) {
	_, err := LoadSettings(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadSettingsInvalid(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("RISKLAB_NARRATIVE_PROVIDER", "oracle")

	_, err := LoadSettings("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "narrative.provider")
}
