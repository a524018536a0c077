package commands

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"
	"strings"

	"github.com/mfreeman451/meshbot/pkg/dispatch"
	"github.com/mfreeman451/meshbot/pkg/models"
	"github.com/mfreeman451/meshbot/pkg/nodes"
)

// base carries what every command shares.
type base struct {
	name  string
	token string
	deps  *Deps
}

func (b *base) Name() string {
	return b.name
}

func (b *base) DescribeForLogging(message string) (string, []string, string) {
	return dispatch.DescribeMessage(message)
}

// reply sends text to the sender as a direct message.
func (b *base) reply(pkt *models.Packet, text string) {
	log.Printf("Sending response to %s: %q", pkt.From, text)

	b.deps.Sender.SendText(text, models.DirectTarget(pkt.From), false)
}

// sender looks up the packet's sender; a missing entry is not an error.
func (b *base) sender(pkt *models.Packet) (*models.User, error) {
	u, err := b.deps.Nodes.GetByID(pkt.From)
	if errors.Is(err, nodes.ErrNodeNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("%w: %w", errSenderUnknown, err)
	}

	return u, nil
}

// longName falls back to the node id for senders the directory lacks.
func longName(u *models.User, id models.NodeID) string {
	if u == nil || u.LongName == "" {
		return string(id)
	}

	return u.LongName
}

func shortName(u *models.User, id models.NodeID) string {
	if u == nil || u.ShortName == "" {
		return string(id)
	}

	return u.ShortName
}

// args returns the words after the command token.
func args(pkt *models.Packet) []string {
	fields := strings.Fields(pkt.Text)
	if len(fields) < 2 {
		return nil
	}

	return fields[1:]
}

type subHandler func(ctx context.Context, pkt *models.Packet, sub string, args []string) error

// subcommands routes "!cmd <sub> <args...>" to per-subcommand handlers.
// "help" is always routed to the help handler. Unknown subcommands either
// fall through to the base handler or get an error reply.
type subcommands struct {
	base
	subs           map[string]subHandler
	order          []string
	baseHandler    func(ctx context.Context, pkt *models.Packet, args []string) error
	help           func(ctx context.Context, pkt *models.Packet) error
	errorOnUnknown bool
}

func (s *subcommands) add(name string, h subHandler) {
	if s.subs == nil {
		s.subs = make(map[string]subHandler)
	}

	s.subs[name] = h
	s.order = append(s.order, name)
}

func (s *subcommands) HandlePacket(ctx context.Context, pkt *models.Packet) error {
	words := args(pkt)
	if len(words) == 0 {
		return s.baseHandler(ctx, pkt, nil)
	}

	sub := strings.ToLower(strings.TrimPrefix(words[0], "!"))

	if sub == "help" {
		return s.help(ctx, pkt)
	}

	if h, ok := s.subs[sub]; ok {
		return h(ctx, pkt, sub, words[1:])
	}

	if s.errorOnUnknown {
		s.reply(pkt, fmt.Sprintf("Unknown command '%s'", words[0]))

		return nil
	}

	return s.baseHandler(ctx, pkt, words)
}

func (s *subcommands) DescribeForLogging(message string) (string, []string, string) {
	known := slices.Clone(s.order)
	known = append(known, "help")

	cmd, rest := dispatch.SplitMessage(message)
	if rest == "" {
		return cmd, nil, ""
	}

	tok, tail := dispatch.SplitMessage(rest)
	if slices.Contains(known, strings.ToLower(strings.TrimPrefix(tok, "!"))) {
		return cmd, []string{tok}, tail
	}

	return cmd, nil, rest
}
