package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultValues(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "airship.log", cfg.Log.File)
	assert.Equal(t, ":3001", cfg.Relay.Addr)
	assert.Equal(t, "/ws", cfg.Relay.Path)
	assert.Equal(t, 64, cfg.Relay.SendQueue)
	assert.Equal(t, int64(1<<20), cfg.Relay.ReadLimit)
	assert.Equal(t, 25*time.Second, cfg.Relay.PingInterval)
	assert.Equal(t, "ws://localhost:3001/ws", cfg.Client.Server)
	assert.Equal(t, 60, cfg.Client.PhysicsHz)
	assert.Equal(t, 5, cfg.Client.MaxSubSteps)
	assert.Equal(t, SendPolicyStep, cfg.Client.SendPolicy)
	assert.Equal(t, 3, cfg.Client.SendEvery)
	assert.False(t, cfg.Client.DropStale)
	assert.Equal(t, 100*time.Millisecond, cfg.Client.HoldWindow)
}

func TestLoad_WithValidConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "airship.json")
	body := `{
		"log": { "level": "debug" },
		"relay": { "addr": ":4000" },
		"client": { "sendPolicy": "input", "holdWindow": "250ms", "dropStale": true }
	}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, ":4000", cfg.Relay.Addr)
	assert.Equal(t, "/ws", cfg.Relay.Path)
	assert.Equal(t, SendPolicyInput, cfg.Client.SendPolicy)
	assert.Equal(t, 250*time.Millisecond, cfg.Client.HoldWindow)
	assert.True(t, cfg.Client.DropStale)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("AIRSHIP_RELAY_ADDR", ":5555")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":5555", cfg.Relay.Addr)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoad_InvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"client":{"sendPolicy":"sometimes","physicsHz":0}}`), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sendPolicy")
	assert.Contains(t, err.Error(), "physicsHz")
}

func TestDefault_IgnoresEnv(t *testing.T) {
	t.Setenv("AIRSHIP_CLIENT_PHYSICSHZ", "0")
	t.Setenv("AIRSHIP_RELAY_ADDR", ":5555")

	cfg := Default()
	assert.Equal(t, 60, cfg.Client.PhysicsHz)
	assert.Equal(t, ":3001", cfg.Relay.Addr)

	_, err := Load("")
	assert.Error(t, err, "env still applies to Load")
}
