package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "relay.log")
	log, err := New(Options{FilePath: path, Level: "info"})
	require.NoError(t, err)

	log.Infow("peer connected", "handle", "abc")
	log.Debug("filtered out")
	Sync(log)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "peer connected")
	assert.Contains(t, string(b), "INFO")
	assert.NotContains(t, string(b), "filtered out")
}

func TestNewRejectsBadLevel(t *testing.T) {
	_, err := New(Options{Level: "loud"})
	assert.Error(t, err)
}

func TestNewWithoutSinksIsNop(t *testing.T) {
	log, err := New(Options{Level: "debug"})
	require.NoError(t, err)
	log.Info("nowhere")
	Sync(log)
}
