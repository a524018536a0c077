// Package transport pkg/transport/interfaces.go
package transport

import (
	"context"

	"github.com/mfreeman451/meshbot/pkg/meshtastic"
	"github.com/mfreeman451/meshbot/pkg/models"
)

//go:generate mockgen -destination=mock_transport.go -package=transport github.com/mfreeman451/meshbot/pkg/transport Client,Dialer,Observer

// Client is one established session with the radio.
type Client interface {
	SendPacket(ctx context.Context, pkt *models.OutboundPacket) (uint32, error)
	SendHeartbeat(ctx context.Context) error
	MyNodeNum() uint32
	// Done is closed when the session's reader stops.
	Done() <-chan struct{}
	Err() error
	Close() error
}

// Dialer opens Client sessions. Inbound traffic for the session is delivered
// to handler.
type Dialer interface {
	Dial(ctx context.Context, address string, handler meshtastic.Handler) (Client, error)
}

// Observer receives transport events. Calls are made from the reader
// goroutine and should return quickly.
type Observer interface {
	OnConnectionEstablished(myID models.NodeID)
	OnPacketReceived(pkt *models.Packet)
	OnNodeUpdated(info *models.NodeInfo)
}
