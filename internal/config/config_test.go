package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pointConfigAway(t *testing.T) {
	t.Helper()
	// Keep a config.yaml in the working directory from leaking into tests.
	t.Setenv("SALESPULSE_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
}

func TestLoad_Defaults(t *testing.T) {
	pointConfigAway(t)

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.True(t, cfg.Security.RateLimit.Enabled)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 3, cfg.Dashboard.DefaultWindow)
	assert.True(t, cfg.Dashboard.UseSample)
	assert.Equal(t, int64(10485760), cfg.Dashboard.MaxUploadBytes)
}

func TestLoad_EnvOverrides(t *testing.T) {
	pointConfigAway(t)
	t.Setenv("SALESPULSE_SERVER_PORT", "9090")
	t.Setenv("SALESPULSE_DASHBOARD_DEFAULT_WINDOW", "6")
	t.Setenv("SALESPULSE_DASHBOARD_USE_SAMPLE", "false")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 6, cfg.Dashboard.DefaultWindow)
	assert.False(t, cfg.Dashboard.UseSample)
}

func TestLoad_FileFillsUnsetFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 7070
dashboard:
  default_window: 4
`), 0o644))
	t.Setenv("SALESPULSE_CONFIG", path)

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, 4, cfg.Dashboard.DefaultWindow)
}

func TestLoad_EnvWinsOverFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 7070\n"), 0o644))
	t.Setenv("SALESPULSE_CONFIG", path)
	t.Setenv("SALESPULSE_SERVER_PORT", "9090")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestLoad_ValidationFailures(t *testing.T) {
	tests := []struct {
		name  string
		env   map[string]string
		wants string
	}{
		{
			name:  "window too small",
			env:   map[string]string{"SALESPULSE_DASHBOARD_DEFAULT_WINDOW": "1"},
			wants: "default window",
		},
		{
			name:  "window too large",
			env:   map[string]string{"SALESPULSE_DASHBOARD_DEFAULT_WINDOW": "13"},
			wants: "default window",
		},
		{
			name:  "bad port",
			env:   map[string]string{"SALESPULSE_SERVER_PORT": "70000"},
			wants: "invalid server port",
		},
		{
			name:  "zero upload limit",
			env:   map[string]string{"SALESPULSE_DASHBOARD_MAX_UPLOAD_BYTES": "0"},
			wants: "max upload bytes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pointConfigAway(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wants)
		})
	}
}
