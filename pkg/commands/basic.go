package commands

import (
	"context"
	"fmt"

	"github.com/mfreeman451/meshbot/pkg/dispatch"
	"github.com/mfreeman451/meshbot/pkg/models"
)

type pingCommand struct {
	base
}

func newPing(deps *Deps) dispatch.Command {
	return &pingCommand{base{name: "PingCommand", token: "!ping", deps: deps}}
}

// HandlePacket answers "!pong", echoing any text after the token, and the
// number of hops the ping traveled.
func (c *pingCommand) HandlePacket(_ context.Context, pkt *models.Packet) error {
	_, extra := dispatch.SplitMessage(pkt.Text)

	response := "!pong"
	if extra != "" {
		response += ": " + extra
	}

	response += fmt.Sprintf(" (ping took %d hops)", pkt.HopsAway())

	c.reply(pkt, response)

	return nil
}

type helloCommand struct {
	base
}

func newHello(deps *Deps) dispatch.Command {
	return &helloCommand{base{name: "HelloCommand", token: "!hello", deps: deps}}
}

func (c *helloCommand) HandlePacket(_ context.Context, pkt *models.Packet) error {
	u, err := c.sender(pkt)
	if err != nil {
		return err
	}

	c.reply(pkt, fmt.Sprintf("Hello, %s! How can I help you? (tip: try !help)", longName(u, pkt.From)))

	return nil
}

type helpCommand struct {
	subcommands
}

func newHelp(deps *Deps) dispatch.Command {
	c := &helpCommand{}
	c.subcommands = subcommands{
		base:           base{name: "HelpCommand", token: "!help", deps: deps},
		errorOnUnknown: true,
	}

	c.baseHandler = func(_ context.Context, pkt *models.Packet, _ []string) error {
		c.reply(pkt, "Valid commands are: !ping, !hello, !help, !nodes")

		return nil
	}

	c.help = func(_ context.Context, pkt *models.Packet) error {
		c.reply(pkt, "!help: show this help message")

		return nil
	}

	c.add("hello", c.fixed("!hello: responds with a greeting"))
	c.add("ping", c.fixed("!ping (+ optional correlation message): responds with a pong"))
	c.add("nodes", c.fixed("!nodes: details about the nodes this device has seen"))

	return c
}

func (c *helpCommand) fixed(text string) subHandler {
	return func(_ context.Context, pkt *models.Packet, _ string, _ []string) error {
		c.reply(pkt, text)

		return nil
	}
}
