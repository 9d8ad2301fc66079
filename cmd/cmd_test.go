package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/rubberduck/internal/duck"
	"github.com/abhisek/rubberduck/internal/session"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"RUBBERDUCK_ADDR", "RUBBERDUCK_DB", "RUBBERDUCK_SCORING", "RUBBERDUCK_LOG_LEVEL",
		"RUBBERDUCK_RETENTION", "RUBBERDUCK_IDLE_TIMEOUT", "RUBBERDUCK_JANITOR_INTERVAL",
		"RUBBERDUCK_LLM_PROVIDER", "GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY",
		"OPENROUTER_API_KEY", "OLLAMA_HOST",
	} {
		t.Setenv(k, "")
	}
}

func testCmd(t *testing.T, flags map[string]string) *cobra.Command {
	t.Helper()
	c := &cobra.Command{Use: "test"}
	c.Flags().String("db", filepath.Join(t.TempDir(), "duck.db"), "")
	c.Flags().String("provider", "", "")
	c.Flags().String("scoring", "", "")
	c.Flags().String("addr", "", "")
	for k, v := range flags {
		require.NoError(t, c.Flags().Set(k, v))
	}
	c.SetContext(context.Background())
	return c
}

func TestLoadConfig_FlagOverrides(t *testing.T) {
	clearEnv(t)
	cfg, err := loadConfig(testCmd(t, map[string]string{"scoring": "LLM", "addr": ":9999"}))
	require.NoError(t, err)
	assert.Equal(t, "llm", cfg.Scoring)
	assert.Equal(t, ":9999", cfg.Addr)
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := loadConfig(testCmd(t, nil))
	require.NoError(t, err)
	assert.Equal(t, "rules", cfg.Scoring)
	assert.Equal(t, ":8080", cfg.Addr)
}

func TestLoadConfig_RejectsUnknownScoring(t *testing.T) {
	clearEnv(t)
	_, err := loadConfig(testCmd(t, map[string]string{"scoring": "vibes"}))
	assert.Error(t, err)
}

func TestBuildCollaborator(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		offline  bool
		wantErr  bool
	}{
		{name: "nothing configured", offline: true},
		{name: "mock provider", provider: "mock", offline: true},
		{name: "unknown provider", provider: "carrier-pigeon", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			c := testCmd(t, map[string]string{"provider": tt.provider})
			collab, err := buildCollaborator(context.Background(), c, nil)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			_, isOffline := collab.(*duck.OfflineCollaborator)
			assert.Equal(t, tt.offline, isOffline)
		})
	}
}

func TestBuildRuntime_RunsASession(t *testing.T) {
	clearEnv(t)
	t.Setenv("RUBBERDUCK_RETENTION", "0s")
	c := testCmd(t, nil)
	cfg, err := loadConfig(c)
	require.NoError(t, err)

	rt, err := buildRuntime(c, cfg)
	require.NoError(t, err)
	defer rt.Close()

	ctx := context.Background()
	started, err := rt.service.Start(ctx, "tide pools")
	require.NoError(t, err)
	_, err = rt.service.End(ctx, started.SessionID)
	require.NoError(t, err)

	archived, err := rt.store.ArchiveRepo().Get(ctx, started.SessionID)
	require.NoError(t, err)
	require.NotNil(t, archived)
	assert.Equal(t, "tide pools", archived.Topic)

	_, err = rt.service.Get(ctx, started.SessionID)
	assert.ErrorIs(t, err, session.ErrNotFound, "zero retention evicts ended sessions")
}

func TestVersionCmd(t *testing.T) {
	var buf bytes.Buffer
	versionCmd.SetOut(&buf)
	versionCmd.Run(versionCmd, nil)
	assert.True(t, strings.HasPrefix(buf.String(), "rubberduck "))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
	assert.Equal(t, "héllo", truncate("héllo", 5))
}
