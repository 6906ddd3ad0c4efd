package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := NewFromViper(NewEmptyViper())

	server, err := cfg.GetServer()
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:8080", server.ListenAddress)
	assert.Equal(t, 10*time.Second, server.ShutdownTimeout)

	analysis, err := cfg.GetAnalysis()
	require.NoError(t, err)
	assert.Equal(t, "mock", analysis.Provider)
	assert.Equal(t, 30*time.Second, analysis.Timeout)
	assert.Equal(t, 1<<20, analysis.MaxContentBytes)
	assert.Empty(t, analysis.TrustedDomains)

	mock, err := cfg.GetMock()
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, mock.Delay)
	assert.Equal(t, 92, mock.Score)

	tool, err := cfg.GetTool()
	require.NoError(t, err)
	assert.Equal(t, time.Second, tool.RefreshInterval)

	cache, err := cfg.GetCache()
	require.NoError(t, err)
	assert.False(t, cache.Enabled)
	assert.Equal(t, "memory", cache.Type)

	smtp := cfg.GetSMTP()
	assert.False(t, smtp.Enabled)
	assert.Equal(t, "X-Legitim-Verdict", smtp.VerdictHeader)
	assert.Equal(t, 10026, smtp.RelayPort)
}

func TestNewFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
analysis:
  provider: openai
  trusted_domains:
    - example.com
mock:
  delay: 10ms
openai:
  model_name: gpt-test
`), 0o600))

	cfg, err := NewFromFile(path)
	require.NoError(t, err)

	analysis, err := cfg.GetAnalysis()
	require.NoError(t, err)
	assert.Equal(t, "openai", analysis.Provider)
	assert.Equal(t, []string{"example.com"}, analysis.TrustedDomains)
	assert.Equal(t, "gpt-test", cfg.GetOpenAI().ModelName)

	mock, err := cfg.GetMock()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Millisecond, mock.Delay)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("LEGITIM_SERVER_LISTEN_ADDRESS", "127.0.0.1:9999")
	t.Setenv("LEGITIM_MOCK_SCORE", "50")

	cfg, err := New()
	require.NoError(t, err)

	server, err := cfg.GetServer()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9999", server.ListenAddress)

	mock, err := cfg.GetMock()
	require.NoError(t, err)
	assert.Equal(t, 50, mock.Score)
}

func TestInvalidDuration(t *testing.T) {
	v := NewEmptyViper()
	v.Set("analysis.timeout", "soon")

	_, err := NewFromViper(v).GetAnalysis()
	assert.ErrorContains(t, err, "analysis.timeout")
}
