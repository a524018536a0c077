package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfreeman451/meshbot/pkg/models"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "meshbot.yaml", `
meshtastic:
  address: 192.168.1.20
  reconnect_initial: 2s
  max_reconnect_attempts: 5
admin_nodes:
  - "!0000abcd"
  - 1234
router:
  daily_reset_at: "03:30"
data:
  dir: /var/lib/meshbot
  node_store: sqlite
storage:
  enabled: true
  base_url: http://storage.local/
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	tc := cfg.TransportConfig()
	assert.Equal(t, "192.168.1.20:4403", tc.Address)
	assert.Equal(t, 2*time.Second, tc.Backoff.Initial)
	assert.Equal(t, 5*time.Minute, tc.Backoff.Max)
	assert.Equal(t, 5, tc.MaxAttempts)

	assert.Equal(t, []models.NodeID{"!0000abcd", "!00001234"}, cfg.Admins())
	assert.Equal(t, "03:30", cfg.RouterConfig().DailyResetAt)
	assert.Equal(t, NodeStoreSQLite, cfg.Data.NodeStore)
	assert.Equal(t, "/var/lib/meshbot/meshbot.db", cfg.Data.Path(cfg.Data.Database))
	assert.Equal(t, "/var/lib/meshbot/failed_packets", cfg.StorageConfig().FailedPacketsDir)
	assert.Equal(t, 720*time.Hour, cfg.Data.Retention)
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, "meshbot.json", `{
		"meshtastic": {"address": "radio:4000", "heartbeat_interval": "1m"},
		"api": {"enabled": true, "listen_addr": "127.0.0.1:9000"}
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "radio:4000", cfg.TransportConfig().Address)
	assert.Equal(t, time.Minute, cfg.Meshtastic.HeartbeatInterval)
	assert.True(t, cfg.API.Enabled)
	assert.Equal(t, "127.0.0.1:9000", cfg.API.ListenAddr)
	assert.Equal(t, NodeStoreMemory, cfg.Data.NodeStore)
}

func TestEnvironmentOverrides(t *testing.T) {
	path := writeFile(t, "meshbot.yaml", "router:\n  queue_size: 10\n")

	t.Setenv("MESHTASTIC_IP", "10.0.0.5")
	t.Setenv("ADMIN_NODES", "!00000001,!00000002")
	t.Setenv("MESHBOT_ROUTER_QUEUE_SIZE", "64")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "10.0.0.5:4403", cfg.TransportConfig().Address)
	assert.Equal(t, []models.NodeID{"!00000001", "!00000002"}, cfg.Admins())
	assert.Equal(t, 64, cfg.RouterConfig().QueueSize)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, errReadConfig)

	tests := []struct {
		name string
		body string
	}{
		{"no address", "data:\n  node_store: memory\n"},
		{"bad store", "meshtastic:\n  address: radio\ndata:\n  node_store: redis\n"},
		{"bad admin", "meshtastic:\n  address: radio\nadmin_nodes: [\"!xyz\"]\n"},
		{"storage without url", "meshtastic:\n  address: radio\nstorage:\n  enabled: true\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, "meshbot.yaml", tt.body))
			require.ErrorIs(t, err, errInvalidConfig)
		})
	}
}

func TestDataPath(t *testing.T) {
	d := DataConfig{Dir: "data"}

	assert.Equal(t, filepath.Join("data", "nodes.json"), d.Path("nodes.json"))
	assert.Equal(t, "/abs/nodes.json", d.Path("/abs/nodes.json"))
	assert.Empty(t, d.Path(""))
}
