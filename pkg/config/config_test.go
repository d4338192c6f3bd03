package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{EnvAddr, EnvCORSOrigin, EnvLogLevel, EnvGraphFile, EnvCanvasWidth, EnvCanvasHeight, EnvMaxConcurrent, EnvTimeout} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	assert.Equal(t, Default(), FromEnv())
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv(EnvAddr, ":9090")
	t.Setenv(EnvCanvasWidth, "1024")
	t.Setenv(EnvCanvasHeight, "not-a-number")
	t.Setenv(EnvMaxConcurrent, "3")
	t.Setenv(EnvTimeout, "250ms")

	c := FromEnv()
	assert.Equal(t, ":9090", c.Addr)
	assert.Equal(t, 1024.0, c.CanvasWidth)
	assert.Equal(t, 600.0, c.CanvasHeight)
	assert.Equal(t, 3, c.MaxConcurrent)
	assert.Equal(t, 250*time.Millisecond, c.RequestTimeout)
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("GRAPH_ROUTER_GRAPH_FILE=graph.yaml\nGRAPH_ROUTER_LOG_LEVEL=debug\n"), 0o644))

	t.Setenv(EnvLogLevel, "warn") // already set: wins over the file
	t.Setenv(EnvGraphFile, "")
	os.Unsetenv(EnvGraphFile)
	t.Cleanup(func() { os.Unsetenv(EnvGraphFile) })

	// A missing file ahead of a real one is skipped.
	c, err := Load(filepath.Join(t.TempDir(), "missing.env"), path)
	require.NoError(t, err)
	assert.Equal(t, "graph.yaml", c.GraphFile)
	assert.Equal(t, "warn", c.LogLevel)
}

func TestLoadMalformedDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.env")
	require.NoError(t, os.WriteFile(path, []byte("GRAPH-ROUTER-ADDR=:1\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
}
