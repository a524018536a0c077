// Package nodes pkg/nodes/interfaces.go
package nodes

import (
	"time"

	"github.com/mfreeman451/meshbot/pkg/models"
)

//go:generate mockgen -destination=mock_nodes.go -package=nodes github.com/mfreeman451/meshbot/pkg/nodes Directory

// Directory stores node identities and their position and device metrics
// history. Identities are never deleted.
type Directory interface {
	// Upsert creates or updates user and appends the optional samples. It
	// reports whether the node was seen for the first time.
	Upsert(user *models.User, pos *models.Position, metrics *models.DeviceMetrics) (bool, error)

	GetByID(id models.NodeID) (*models.User, error)

	// GetByShortName matches case-insensitively; the first node in insertion
	// order wins.
	GetByShortName(name string) (*models.User, error)

	List() ([]*models.User, error)

	// Snapshot returns the node with its latest samples and directory
	// timestamps. Telemetry fields are left for the caller to fill.
	Snapshot(id models.NodeID) (*models.NodeSnapshot, error)

	// PositionLog and DeviceMetricsLog return samples whose logged time lies
	// in [start, end], oldest first. A zero bound is open.
	PositionLog(id models.NodeID, start, end time.Time) ([]models.Position, error)
	DeviceMetricsLog(id models.NodeID, start, end time.Time) ([]models.DeviceMetrics, error)

	LastPosition(id models.NodeID) (*models.Position, error)
	LastDeviceMetrics(id models.NodeID) (*models.DeviceMetrics, error)
}
