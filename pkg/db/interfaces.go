// Package db pkg/db/interfaces.go
package db

import (
	"time"

	"github.com/mfreeman451/meshbot/pkg/dispatch"
	"github.com/mfreeman451/meshbot/pkg/models"
	"github.com/mfreeman451/meshbot/pkg/nodes"
	"github.com/mfreeman451/meshbot/pkg/prefs"
)

// Service represents all database operations.
type Service interface {
	// Command history.

	dispatch.CommandLogger
	CommandHistory(since time.Time, senderID models.NodeID) ([]CommandLogEntry, error)
	UnknownRequestHistory(since time.Time, senderID models.NodeID) ([]UnknownRequestEntry, error)
	ResponderHistory(since time.Time, senderID models.NodeID) ([]ResponderLogEntry, error)

	// Node directory and user preferences.

	nodes.Directory
	prefs.Store

	// Maintenance operations.

	CleanOldData(retentionPeriod time.Duration) error
	Close() error
}

// CommandLogEntry is one resolved command invocation.
type CommandLogEntry struct {
	SenderID    models.NodeID `json:"sender_id"`
	BaseCommand string        `json:"base_command"`
	SubCommands []string      `json:"sub_commands,omitempty"`
	Args        string        `json:"args,omitempty"`
	Handler     string        `json:"handler"`
	Timestamp   time.Time     `json:"timestamp"`
}

// UnknownRequestEntry is a private message that named no command.
type UnknownRequestEntry struct {
	SenderID  models.NodeID `json:"sender_id"`
	Message   string        `json:"message"`
	Timestamp time.Time     `json:"timestamp"`
}

// ResponderLogEntry is a public message a responder acted on.
type ResponderLogEntry struct {
	SenderID  models.NodeID `json:"sender_id"`
	Message   string        `json:"message"`
	Responder string        `json:"responder"`
	Timestamp time.Time     `json:"timestamp"`
}
