package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/mfreeman451/meshbot/pkg/models"
	"github.com/mfreeman451/meshbot/pkg/router"
	"github.com/mfreeman451/meshbot/pkg/storage"
	"github.com/mfreeman451/meshbot/pkg/transport"
)

const (
	NodeStoreMemory = "memory"
	NodeStoreSQLite = "sqlite"

	defaultMeshtasticPort = "4403"
)

// Config is the bot's full configuration.
type Config struct {
	Meshtastic MeshtasticConfig `mapstructure:"meshtastic"`
	AdminNodes []string         `mapstructure:"admin_nodes"`
	Router     RouterConfig     `mapstructure:"router"`
	Data       DataConfig       `mapstructure:"data"`
	Storage    StorageConfig    `mapstructure:"storage"`
	API        ListenConfig     `mapstructure:"api"`
	Health     ListenConfig     `mapstructure:"health"`
}

// MeshtasticConfig describes the radio link.
type MeshtasticConfig struct {
	Address              string        `mapstructure:"address"`
	HeartbeatInterval    time.Duration `mapstructure:"heartbeat_interval"`
	ReconnectInitial     time.Duration `mapstructure:"reconnect_initial"`
	ReconnectMax         time.Duration `mapstructure:"reconnect_max"`
	ReconnectMultiplier  float64       `mapstructure:"reconnect_multiplier"`
	MaxReconnectAttempts int           `mapstructure:"max_reconnect_attempts"`
	MaxBuffered          int           `mapstructure:"max_buffered"`
	ReplayRate           float64       `mapstructure:"replay_rate"`
}

type RouterConfig struct {
	DailyResetAt    string        `mapstructure:"daily_reset_at"`
	QueueSize       int           `mapstructure:"queue_size"`
	HandlerTimeout  time.Duration `mapstructure:"handler_timeout"`
	MirrorQueueSize int           `mapstructure:"mirror_queue_size"`
	OnlineThreshold time.Duration `mapstructure:"online_threshold"`
}

// DataConfig locates persisted state. Relative file names resolve against Dir.
type DataConfig struct {
	Dir               string        `mapstructure:"dir"`
	NodeStore         string        `mapstructure:"node_store"`
	Database          string        `mapstructure:"database"`
	NodesSnapshot     string        `mapstructure:"nodes_snapshot"`
	TelemetrySnapshot string        `mapstructure:"telemetry_snapshot"`
	SnapshotInterval  time.Duration `mapstructure:"snapshot_interval"`
	Retention         time.Duration `mapstructure:"retention"`
	TemplatesFile     string        `mapstructure:"templates_file"`
}

type StorageConfig struct {
	Enabled           bool          `mapstructure:"enabled"`
	BaseURL           string        `mapstructure:"base_url"`
	Token             string        `mapstructure:"token"`
	FailedPacketsDir  string        `mapstructure:"failed_packets_dir"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
}

type ListenConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	ListenAddr string `mapstructure:"listen_addr"`
}

var _ Validator = (*Config)(nil)

func (c *Config) Validate() error {
	if c.Meshtastic.Address == "" {
		return fmt.Errorf("%w: meshtastic.address (or MESHTASTIC_IP) is required", errInvalidConfig)
	}

	switch c.Data.NodeStore {
	case NodeStoreMemory, NodeStoreSQLite:
	default:
		return fmt.Errorf("%w: data.node_store must be %q or %q, got %q",
			errInvalidConfig, NodeStoreMemory, NodeStoreSQLite, c.Data.NodeStore)
	}

	for _, id := range c.AdminNodes {
		if _, err := models.ParseNodeID(strings.TrimSpace(id)); err != nil {
			return fmt.Errorf("%w: admin_nodes: %w", errInvalidConfig, err)
		}
	}

	if c.Storage.Enabled && c.Storage.BaseURL == "" {
		return fmt.Errorf("%w: storage.base_url is required when storage is enabled", errInvalidConfig)
	}

	if c.API.Enabled && c.API.ListenAddr == "" {
		return fmt.Errorf("%w: api.listen_addr is required when the API is enabled", errInvalidConfig)
	}

	return nil
}

// Admins returns the configured admin ids in canonical "!xxxxxxxx" form.
// Entries are checked by Validate, so unparsable ones are skipped here.
func (c *Config) Admins() []models.NodeID {
	out := make([]models.NodeID, 0, len(c.AdminNodes))

	for _, id := range c.AdminNodes {
		num, err := models.ParseNodeID(strings.TrimSpace(id))
		if err != nil {
			continue
		}

		out = append(out, models.FormatNodeID(num))
	}

	return out
}

// TransportConfig adds the default Meshtastic TCP port when none is given.
func (c *Config) TransportConfig() transport.Config {
	m := c.Meshtastic

	addr := m.Address
	if !strings.Contains(addr, ":") {
		addr += ":" + defaultMeshtasticPort
	}

	return transport.Config{
		Address:           addr,
		HeartbeatInterval: m.HeartbeatInterval,
		Backoff: transport.Backoff{
			Initial:    m.ReconnectInitial,
			Max:        m.ReconnectMax,
			Multiplier: m.ReconnectMultiplier,
		},
		MaxAttempts: m.MaxReconnectAttempts,
		MaxBuffered: m.MaxBuffered,
		ReplayRate:  m.ReplayRate,
	}
}

func (c *Config) RouterConfig() router.Config {
	return router.Config{
		DailyResetAt:    c.Router.DailyResetAt,
		QueueSize:       c.Router.QueueSize,
		HandlerTimeout:  c.Router.HandlerTimeout,
		MirrorQueueSize: c.Router.MirrorQueueSize,
	}
}

func (c *Config) StorageConfig() storage.Config {
	return storage.Config{
		BaseURL:           c.Storage.BaseURL,
		Token:             c.Storage.Token,
		FailedPacketsDir:  c.Data.Path(c.Storage.FailedPacketsDir),
		Timeout:           c.Storage.Timeout,
		RequestsPerSecond: c.Storage.RequestsPerSecond,
	}
}

// Path resolves name against Dir; absolute and empty names are returned as is.
func (d DataConfig) Path(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}

	return filepath.Join(d.Dir, name)
}
