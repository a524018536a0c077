package commands

import (
	"context"
	"fmt"
	"slices"

	"github.com/mfreeman451/meshbot/pkg/dispatch"
	"github.com/mfreeman451/meshbot/pkg/models"
)

type adminCommand struct {
	base
}

func newAdmin(deps *Deps) dispatch.Command {
	return &adminCommand{base{name: "AdminCommand", token: "!admin", deps: deps}}
}

func (c *adminCommand) isAdmin(id models.NodeID) bool {
	return slices.Contains(c.deps.Admins, id)
}

func (c *adminCommand) HandlePacket(_ context.Context, pkt *models.Packet) error {
	if !c.isAdmin(pkt.From) {
		u, err := c.sender(pkt)
		if err != nil {
			return err
		}

		c.reply(pkt, fmt.Sprintf("Sorry %s, you are not authorized to use this command", longName(u, pkt.From)))

		return nil
	}

	words := args(pkt)
	if len(words) == 0 {
		c.reply(pkt, "Invalid command format - expected !admin <command> <args>")

		return nil
	}

	var response string

	switch words[0] {
	case "reset":
		response = c.reset(words[1:])
	case "help":
		response = "Available commands:\n" +
			"reset packets - Reset the packet counter\n" +
			"help - Show this help message\n"
	default:
		response = fmt.Sprintf("Unknown command '%s'", words[0])
	}

	c.reply(pkt, response)

	return nil
}

func (c *adminCommand) reset(words []string) string {
	switch {
	case len(words) == 0:
		return "reset: Missing argument"
	case words[0] != "packets":
		return fmt.Sprintf("reset: Unknown argument '%s'", words[0])
	}

	if c.deps.ResetCounters != nil {
		c.deps.ResetCounters()
	} else {
		c.deps.Telemetry.ResetDaily()
	}

	return "Packet counter reset"
}

func (*adminCommand) DescribeForLogging(message string) (string, []string, string) {
	return dispatch.DescribeMessage(message, "reset", "help", "packets")
}
