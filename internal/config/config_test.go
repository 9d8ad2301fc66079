package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"RUBBERDUCK_ADDR", "RUBBERDUCK_DB", "RUBBERDUCK_SCORING", "RUBBERDUCK_LOG_LEVEL",
		"RUBBERDUCK_RETENTION", "RUBBERDUCK_IDLE_TIMEOUT", "RUBBERDUCK_JANITOR_INTERVAL",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	lvl, err := cfg.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, lvl)
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("RUBBERDUCK_ADDR", "127.0.0.1:9999")
	t.Setenv("RUBBERDUCK_DB", "/tmp/duck.db")
	t.Setenv("RUBBERDUCK_SCORING", "LLM")
	t.Setenv("RUBBERDUCK_LOG_LEVEL", "debug")
	t.Setenv("RUBBERDUCK_RETENTION", "30s")
	t.Setenv("RUBBERDUCK_IDLE_TIMEOUT", "0")
	t.Setenv("RUBBERDUCK_JANITOR_INTERVAL", "5m")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9999", cfg.Addr)
	assert.Equal(t, "/tmp/duck.db", cfg.DBPath)
	assert.Equal(t, ScoringLLM, cfg.Scoring)
	assert.Equal(t, 30*time.Second, cfg.Retention)
	assert.Equal(t, time.Duration(0), cfg.IdleTimeout)
	assert.Equal(t, 5*time.Minute, cfg.JanitorInterval)

	lvl, err := cfg.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, lvl)
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		key, value, want string
	}{
		{"RUBBERDUCK_RETENTION", "soon", "RUBBERDUCK_RETENTION"},
		{"RUBBERDUCK_IDLE_TIMEOUT", "-1m", "RUBBERDUCK_IDLE_TIMEOUT"},
		{"RUBBERDUCK_SCORING", "vibes", "RUBBERDUCK_SCORING"},
		{"RUBBERDUCK_LOG_LEVEL", "loud", "RUBBERDUCK_LOG_LEVEL"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidateEmptyAddr(t *testing.T) {
	cfg := Default()
	cfg.Addr = ""
	assert.Error(t, cfg.Validate())
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("RUBBERDUCK_SCORING=llm\n"), 0o600))
	t.Chdir(dir)

	// godotenv does not override variables that are already set.
	require.NoError(t, os.Unsetenv("RUBBERDUCK_SCORING"))
	t.Cleanup(func() { os.Unsetenv("RUBBERDUCK_SCORING") })

	LoadDotEnv()
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ScoringLLM, cfg.Scoring)
}
