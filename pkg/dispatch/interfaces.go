// Package dispatch pkg/dispatch/interfaces.go defines the contracts between the
// event router and the command, responder, logging and storage components.
package dispatch

import (
	"context"

	"github.com/mfreeman451/meshbot/pkg/models"
)

//go:generate mockgen -destination=mock_dispatch.go -package=dispatch github.com/mfreeman451/meshbot/pkg/dispatch Command,CommandFactory,Responder,ResponderFactory,CommandLogger,StorageMirror,Sender

// Command handles a private message whose first token names it.
type Command interface {
	Name() string
	HandlePacket(ctx context.Context, pkt *models.Packet) error
	// DescribeForLogging splits message into the base command, its
	// subcommands and remaining arguments.
	DescribeForLogging(message string) (base string, subcommands []string, args string)
}

// CommandFactory resolves the first token of a message, including its
// leading "!", to a Command. Matching is case-sensitive.
type CommandFactory interface {
	Resolve(token string) (Command, bool)
}

// Responder handles public messages matched by pattern. It reports whether
// it substantively handled the message.
type Responder interface {
	Name() string
	HandlePacket(ctx context.Context, pkt *models.Packet) (bool, error)
}

type ResponderFactory interface {
	Match(text string) (Responder, bool)
}

// CommandLogger records command history.
type CommandLogger interface {
	LogCommand(senderID models.NodeID, cmd Command, message string) error
	LogUnknownRequest(senderID models.NodeID, message string) error
	LogResponderHandled(senderID models.NodeID, responder Responder, message string) error
}

// StorageMirror copies packets and nodes to an external store.
type StorageMirror interface {
	StoreRawPacket(ctx context.Context, pkt *models.Packet) error
	StoreNode(ctx context.Context, user *models.User) error
}

// Sender is the outbound half of the transport used by handlers.
type Sender interface {
	SendText(text string, target models.Target, wantAck bool)
	SendReaction(emoji string, replyID uint32, target models.Target)
}
