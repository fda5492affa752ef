package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"topicbus/internal/broadcast"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestConfigurationLoading(t *testing.T) {
	path := writeConfig(t, `
log_level: debug

channel:
  capacity: 128
  overflow_policy: drop_oldest
  history_size: 32

publish:
  topics: ["orders", "payments", "audit"]
  interval: 250ms

metrics:
  enabled: true
  listen_addr: ":9100"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 128, cfg.Channel.Capacity)
	assert.Equal(t, 32, cfg.Channel.HistorySize)

	policy, err := cfg.Channel.Policy()
	require.NoError(t, err)
	assert.Equal(t, broadcast.DropOldest, policy)

	assert.Equal(t, []string{"orders", "payments", "audit"}, cfg.Publish.Topics)
	assert.Equal(t, 250*time.Millisecond, cfg.Publish.Interval)

	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, ":9100", cfg.Metrics.ListenAddr)
}

func TestConfigurationDefaults(t *testing.T) {
	path := writeConfig(t, `
channel:
  capacity: 16
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	def := Default()
	assert.Equal(t, def.LogLevel, cfg.LogLevel)
	assert.Equal(t, def.Publish.Topics, cfg.Publish.Topics)
	assert.Equal(t, def.Publish.Interval, cfg.Publish.Interval)
	assert.Equal(t, def.Metrics.ListenAddr, cfg.Metrics.ListenAddr)

	policy, err := cfg.Channel.Policy()
	require.NoError(t, err)
	assert.Equal(t, broadcast.Block, policy)
}

func TestConfigurationRejectsBadCapacity(t *testing.T) {
	for _, capacity := range []string{"0", "-3"} {
		path := writeConfig(t, `
channel:
  capacity: `+capacity+`
`)
		_, err := Load(path)
		assert.Error(t, err, "capacity %s", capacity)
	}
}

func TestConfigurationRejectsUnknownPolicy(t *testing.T) {
	path := writeConfig(t, `
channel:
  capacity: 8
  overflow_policy: reject_newest
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "overflow_policy")
}

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}
