package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
telegram:
  token: "123:abc"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, RunModeLongpoll, cfg.Telegram.RunMode)
	assert.Equal(t, "gemini-1.5-flash", cfg.Gemini.Model)
	assert.InDelta(t, 1.1, cfg.Gemini.Temperature, 0.001)
	assert.InDelta(t, 0.95, cfg.Gemini.TopP, 0.001)
	assert.Equal(t, int32(100), cfg.Gemini.MaxOutputTokens)
	assert.Equal(t, 9*time.Second, cfg.Gemini.RequestTimeout())
	assert.Equal(t, SessionsBackendPostgres, cfg.Sessions.Backend)
}

func TestLoadRequiresToken(t *testing.T) {
	path := writeConfig(t, `
telegram:
  run_mode: longpoll
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token")
}

func TestNormalizeRunModeAlias(t *testing.T) {
	cfg := &Config{}
	cfg.Telegram.Token = "123:abc"
	cfg.Telegram.RunMode = "polling"

	require.NoError(t, Normalize(cfg))
	assert.Equal(t, RunModeLongpoll, cfg.Telegram.RunMode)
}

func TestNormalizeRejectsUnknownRunMode(t *testing.T) {
	cfg := &Config{}
	cfg.Telegram.Token = "123:abc"
	cfg.Telegram.RunMode = "carrier-pigeon"

	require.Error(t, Normalize(cfg))
}

func TestNormalizeWebhookRequiresEndpoint(t *testing.T) {
	cfg := &Config{}
	cfg.Telegram.Token = "123:abc"
	cfg.Telegram.RunMode = RunModeWebhook

	require.Error(t, Normalize(cfg))

	cfg.Webhook.URL = "https://bot.example.com/hook"
	cfg.Webhook.Listen = "0.0.0.0"
	cfg.Webhook.Port = 8443
	require.NoError(t, Normalize(cfg))
}

func TestNormalizeSessionsBackend(t *testing.T) {
	cfg := &Config{}
	cfg.Telegram.Token = "123:abc"
	cfg.Sessions.Backend = "redis"

	require.Error(t, Normalize(cfg), "redis backend needs a url")

	cfg.Sessions.RedisURL = "redis://localhost:6379/0"
	cfg.Sessions.TTLMinutes = 30
	require.NoError(t, Normalize(cfg))
	assert.Equal(t, 30*time.Minute, cfg.Sessions.TTL())

	cfg.Sessions.Backend = "etcd"
	require.Error(t, Normalize(cfg))
}
