package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/mfreeman451/meshbot/pkg/dispatch"
	"github.com/mfreeman451/meshbot/pkg/models"
)

func enabled(b bool) string {
	if b {
		return "enabled"
	}

	return "disabled"
}

type prefsCommand struct {
	subcommands
}

func newPrefs(deps *Deps) dispatch.Command {
	c := &prefsCommand{}
	c.subcommands = subcommands{
		base: base{name: "PrefsCommand", token: "!prefs", deps: deps},
	}

	c.baseHandler = c.show
	c.help = c.showHelp
	c.add("testing", c.setTesting)

	return c
}

func (c *prefsCommand) show(_ context.Context, pkt *models.Packet, _ []string) error {
	p, err := c.deps.Prefs.Get(pkt.From)
	if err != nil {
		return err
	}

	c.reply(pkt, fmt.Sprintf("Your preferences:\nRespond to 'testing': %s\n", enabled(p.RespondToTesting)))

	return nil
}

func (c *prefsCommand) showHelp(_ context.Context, pkt *models.Packet) error {
	c.reply(pkt, "!prefs: configure bot settings related to your node:\n"+
		"!prefs testing enable/disable: bot will like your msg if you say 'test' or 'testing'\n")

	return nil
}

func (c *prefsCommand) setTesting(ctx context.Context, pkt *models.Packet, sub string, words []string) error {
	if len(words) == 0 {
		return c.showHelp(ctx, pkt)
	}

	mode := strings.ToLower(words[0])
	if mode != "enable" && mode != "disable" {
		c.reply(pkt, fmt.Sprintf("Invalid mode for '%s'. Please specify 'enable' or 'disable'.", sub))

		return nil
	}

	p, err := c.deps.Prefs.Get(pkt.From)
	if err != nil {
		return err
	}

	p.RespondToTesting = mode == "enable"

	if err := c.deps.Prefs.Put(p); err != nil {
		return err
	}

	c.reply(pkt, fmt.Sprintf("You've %s bot responses to 'test' or 'testing' in public channels.",
		enabled(p.RespondToTesting)))

	return nil
}

// enrollCommand backs both !enroll and !leave; enroll selects the value
// written.
type enrollCommand struct {
	subcommands
	enroll bool
}

func newEnroll(deps *Deps) dispatch.Command {
	return newEnrollment(deps, "EnrollCommand", "!enroll", true)
}

func newLeave(deps *Deps) dispatch.Command {
	return newEnrollment(deps, "LeaveCommand", "!leave", false)
}

func newEnrollment(deps *Deps, name, token string, enroll bool) dispatch.Command {
	c := &enrollCommand{enroll: enroll}
	c.subcommands = subcommands{
		base: base{name: name, token: token, deps: deps},
	}

	c.help = func(_ context.Context, pkt *models.Packet) error {
		c.reply(pkt, "!enroll: (or !leave) bot responds to you in public channels:\n"+
			"!enroll testing: bot will like your msg if you say 'test' or 'testing'\n")

		return nil
	}

	c.baseHandler = func(ctx context.Context, pkt *models.Packet, _ []string) error {
		return c.help(ctx, pkt)
	}

	c.add("testing", c.testing)

	return c
}

func (c *enrollCommand) testing(_ context.Context, pkt *models.Packet, _ string, _ []string) error {
	p, err := c.deps.Prefs.Get(pkt.From)
	if err != nil {
		return err
	}

	p.RespondToTesting = c.enroll

	if err := c.deps.Prefs.Put(p); err != nil {
		return err
	}

	verb := "unenrolled"
	if c.enroll {
		verb = "enrolled"
	}

	c.reply(pkt, fmt.Sprintf("You've been %s from responses to 'test' or 'testing' in public channels.", verb))

	return nil
}
