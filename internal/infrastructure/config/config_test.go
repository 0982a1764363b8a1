package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "127.0.0.1:3030", cfg.Server.Addr())
	assert.Equal(t, "xterm-256color", cfg.Shell.Term)
	assert.Equal(t, 5*time.Second, cfg.Client.RetryInterval)
	assert.True(t, cfg.RateLimit.Enabled)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("TERMBRIDGE_PORT", "4040")
	t.Setenv("TERMBRIDGE_SHELL_CMD", "/bin/zsh")
	t.Setenv("TERMBRIDGE_RETRY_INTERVAL", "250ms")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "4040", cfg.Server.Port)
	assert.Equal(t, "/bin/zsh", cfg.Shell.Command)
	assert.Equal(t, 250*time.Millisecond, cfg.Client.RetryInterval)
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Setenv("TERMBRIDGE_HEALTH_TIMEOUT", "not-a-duration")

	_, err := Load()
	assert.Error(t, err)
}
