package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vishakhaja/Transaction-Minimiser-proj/internal/settle"
)

var keys = []string{
	"DISCORD_TOKEN", "DISCORD_CLIENT_ID", "DISCORD_CLIENT_SECRET", "DISCORD_REDIRECT_URI",
	"WEB_BIND", "JWT_SECRET", "LOG_LEVEL", "SETTLE_ORDER", "REMINDER_TICK",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:3000", cfg.WebBind)
	assert.Equal(t, "http://localhost:3000", cfg.WebUIBaseURL)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, settle.OrderRegistration, cfg.SettleOrder)
	assert.Equal(t, time.Minute, cfg.ReminderTick)
	assert.False(t, cfg.OAuthEnabled())
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DISCORD_CLIENT_ID", "id")
	t.Setenv("DISCORD_CLIENT_SECRET", "secret")
	t.Setenv("DISCORD_REDIRECT_URI", "https://settle.example.com/api/auth/callback")
	t.Setenv("SETTLE_ORDER", "largest")
	t.Setenv("REMINDER_TICK", "30s")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.OAuthEnabled())
	assert.Equal(t, "https://settle.example.com", cfg.WebUIBaseURL)
	assert.Equal(t, settle.OrderLargestFirst, cfg.SettleOrder)
	assert.Equal(t, 30*time.Second, cfg.ReminderTick)
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "client id without secret", env: map[string]string{"DISCORD_CLIENT_ID": "id"}},
		{name: "bad log level", env: map[string]string{"LOG_LEVEL": "chatty"}},
		{name: "bad order", env: map[string]string{"SETTLE_ORDER": "random"}},
		{name: "bad tick", env: map[string]string{"REMINDER_TICK": "soon"}},
		{name: "negative tick", env: map[string]string{"REMINDER_TICK": "-1s"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
