package transport

import (
	"context"

	"github.com/mfreeman451/meshbot/pkg/meshtastic"
)

// TCPDialer opens sessions over the radio's TCP stream API.
type TCPDialer struct {
	Options meshtastic.Options
}

func (d TCPDialer) Dial(ctx context.Context, address string, handler meshtastic.Handler) (Client, error) {
	c, err := meshtastic.Dial(ctx, address, handler, d.Options)
	if err != nil {
		return nil, err
	}

	return c, nil
}
