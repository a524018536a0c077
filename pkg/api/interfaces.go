package api

import (
	"github.com/mfreeman451/meshbot/pkg/models"
	"github.com/mfreeman451/meshbot/pkg/transport"
)

//go:generate mockgen -destination=mock_api.go -package=api github.com/mfreeman451/meshbot/pkg/api BotStatus,LinkStatus

// BotStatus reports the router's view of the local node.
type BotStatus interface {
	MyID() models.NodeID
	InitComplete() bool
}

// LinkStatus reports the transport's connection.
type LinkStatus interface {
	State() transport.State
	Buffered() int
}
