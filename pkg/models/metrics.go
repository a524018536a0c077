// Package models pkg/models/metrics.go
package models

import "time"

// Position is one location report for a node. LoggedTime is when it was
// recorded locally, ReportedTime is the device's own timestamp.
type Position struct {
	Latitude       float64   `json:"latitude"`
	Longitude      float64   `json:"longitude"`
	Altitude       int32     `json:"altitude"`
	LocationSource string    `json:"location_source"`
	ReportedTime   time.Time `json:"reported_time"`
	LoggedTime     time.Time `json:"logged_time"`
}

// DeviceMetrics is one device telemetry report for a node.
type DeviceMetrics struct {
	BatteryLevel       uint32    `json:"battery_level"`
	Voltage            float32   `json:"voltage"`
	ChannelUtilization float32   `json:"channel_utilization"`
	AirUtilTx          float32   `json:"air_util_tx"`
	UptimeSeconds      uint32    `json:"uptime_seconds"`
	LoggedTime         time.Time `json:"logged_time"`
}

// NodeSnapshot is the directory view of a node with its latest samples.
type NodeSnapshot struct {
	User         User           `json:"user"`
	LastPosition *Position      `json:"last_position,omitempty"`
	LastMetrics  *DeviceMetrics `json:"last_device_metrics,omitempty"`
	FirstSeen    time.Time      `json:"first_seen"`
	LastUpdated  time.Time      `json:"last_updated"`
	LastHeard    time.Time      `json:"last_heard,omitempty"`
	PacketsToday int            `json:"packets_today"`
	IsOnline     bool           `json:"is_online"`
}
