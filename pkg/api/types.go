package api

import (
	"time"

	"github.com/mfreeman451/meshbot/pkg/models"
)

type SystemStatus struct {
	MyID             models.NodeID `json:"my_id"`
	InitComplete     bool          `json:"init_complete"`
	Connection       string        `json:"connection"`
	BufferedPackets  int           `json:"buffered_packets"`
	TotalNodes       int           `json:"total_nodes"`
	OnlineNodes      int           `json:"online_nodes"`
	OfflineNodes     int           `json:"offline_nodes"`
	PacketsToday     int           `json:"packets_today"`
	CounterResetTime time.Time     `json:"counter_reset_time"`
	LastUpdate       time.Time     `json:"last_update"`
}

// NodeStatus is a directory snapshot enriched with today's telemetry.
type NodeStatus struct {
	models.NodeSnapshot
	PacketBreakdown map[string]int `json:"packet_breakdown_today,omitempty"`
}
