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
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yml"), []byte(body), 0o600))
	return dir
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	t.Setenv("OVEN_AUTH_SIGNING_KEY", "k")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "app.db", cfg.DB.Path)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 100*time.Millisecond, cfg.Oven.Tick)
	assert.True(t, cfg.Oven.Simulated)
	assert.Equal(t, "", cfg.MQTT.Broker)
	assert.Equal(t, "reflow/oven", cfg.MQTT.TopicPrefix)
	assert.Equal(t, 12*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 27.0, cfg.Sim.AmbientC)
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	dir := writeConfig(t, `
port: "9000"
db:
  path: "oven.db"
log:
  level: DEBUG
oven:
  tick: 50ms
mqtt:
  broker: "tcp://localhost:1883"
auth:
  signing_key: "from-file"
  token_ttl: 1h
`)
	t.Setenv("OVEN_PORT", "9100")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "9100", cfg.Port)
	assert.Equal(t, "oven.db", cfg.DB.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 50*time.Millisecond, cfg.Oven.Tick)
	assert.Equal(t, "tcp://localhost:1883", cfg.MQTT.Broker)
	assert.Equal(t, "from-file", cfg.Auth.SigningKey)
	assert.Equal(t, time.Hour, cfg.Auth.TokenTTL)
}

func TestLoad_Invalid(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"missing_signing_key", "port: \"8080\"\n"},
		{"tick_too_slow", "auth:\n  signing_key: k\noven:\n  tick: 2s\n"},
		{"tick_zero", "auth:\n  signing_key: k\noven:\n  tick: 0s\n"},
		{"no_hardware", "auth:\n  signing_key: k\noven:\n  simulated: false\n"},
		{"malformed_yaml", "auth: [\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.body))
			assert.Error(t, err)
		})
	}
}
