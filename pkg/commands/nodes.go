package commands

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mfreeman451/meshbot/pkg/dispatch"
	"github.com/mfreeman451/meshbot/pkg/models"
	"github.com/mfreeman451/meshbot/pkg/telemetry"
)

const listedNodes = 5

type nodesCommand struct {
	subcommands
}

func newNodes(deps *Deps) dispatch.Command {
	c := &nodesCommand{}
	c.subcommands = subcommands{
		base:           base{name: "NodesCommand", token: "!nodes", deps: deps},
		errorOnUnknown: true,
	}

	c.baseHandler = c.summary
	c.help = func(_ context.Context, pkt *models.Packet) error {
		c.reply(pkt, "!nodes: details about the nodes this device has seen\n"+
			"!nodes recent: most recently heard nodes\n"+
			"!nodes busy [detailed|<short name>]: packets received today\n")

		return nil
	}

	c.add("recent", c.recent)
	c.add("busy", c.busy)

	return c
}

func (c *nodesCommand) shortNameOf(id models.NodeID) string {
	u, err := c.deps.Nodes.GetByID(id)
	if err != nil {
		return string(id)
	}

	return shortName(u, id)
}

// summary reports node counts and the busiest nodes today.
func (c *nodesCommand) summary(_ context.Context, pkt *models.Packet, _ []string) error {
	all, err := c.deps.Nodes.List()
	if err != nil {
		return err
	}

	store := c.deps.Telemetry

	var b strings.Builder

	fmt.Fprintf(&b, "Nodes: %d (%d online, %d offline). ", len(all), len(store.Online()), len(store.Offline()))
	b.WriteString("\n\nBusy nodes:\n")

	for _, nc := range store.Busiest(listedNodes) {
		fmt.Fprintf(&b, "- %s (%d packets)\n", c.shortNameOf(nc.ID), nc.Count)
	}

	fmt.Fprintf(&b, "(last reset at %s)", store.CounterResetTime().Format("15:04:05"))

	c.reply(pkt, b.String())

	return nil
}

// recent lists the most recently heard nodes, newest first.
func (c *nodesCommand) recent(_ context.Context, pkt *models.Packet, _ string, _ []string) error {
	all, err := c.deps.Nodes.List()
	if err != nil {
		return err
	}

	type heardNode struct {
		user  *models.User
		heard time.Time
	}

	store := c.deps.Telemetry

	heard := make([]heardNode, 0, len(all))

	for _, u := range all {
		if t, ok := store.LastHeard(u.ID); ok {
			heard = append(heard, heardNode{user: u, heard: t})
		}
	}

	sort.SliceStable(heard, func(i, j int) bool { return heard[i].heard.After(heard[j].heard) })

	var b strings.Builder

	fmt.Fprintf(&b, "%d nodes online, %d offline.\nRecent nodes:\n", len(store.Online()), len(store.Offline()))

	now := store.Now()

	for i, h := range heard {
		if i == listedNodes {
			break
		}

		fmt.Fprintf(&b, "- %s (%s)\n", shortName(h.user, h.user.ID), telemetry.FormatAgo(h.heard, now))
	}

	c.reply(pkt, b.String())

	return nil
}

// busy lists the busiest nodes today. "detailed" adds one breakdown message
// per listed node; any other argument is looked up as a short name.
func (c *nodesCommand) busy(_ context.Context, pkt *models.Packet, _ string, words []string) error {
	store := c.deps.Telemetry
	busiest := store.Busiest(listedNodes)

	if len(words) > 0 && !strings.EqualFold(words[0], "detailed") {
		u, err := c.deps.Nodes.GetByShortName(words[0])
		if err != nil {
			c.reply(pkt, fmt.Sprintf("Node '%s' not found", words[0]))

			return nil
		}

		c.reply(pkt, c.breakdown(u))

		return nil
	}

	var b strings.Builder

	fmt.Fprintf(&b, "%d nodes online.\nBusy nodes:\n", len(store.Online()))

	for _, nc := range busiest {
		fmt.Fprintf(&b, "- %s (%d pkts)\n", c.shortNameOf(nc.ID), nc.Count)
	}

	fmt.Fprintf(&b, "(last reset at %s)", store.CounterResetTime().Format("15:04:05"))

	c.reply(pkt, b.String())

	if len(words) == 0 {
		return nil
	}

	for _, nc := range busiest {
		u, err := c.deps.Nodes.GetByID(nc.ID)
		if err != nil {
			u = &models.User{ID: nc.ID}
		}

		c.reply(pkt, c.breakdown(u))
	}

	return nil
}

// breakdown describes one node's traffic today by port, busiest port first.
func (c *nodesCommand) breakdown(u *models.User) string {
	store := c.deps.Telemetry

	var b strings.Builder

	fmt.Fprintf(&b, "%s (%s)\n", longName(u, u.ID), shortName(u, u.ID))

	if t, ok := store.LastHeard(u.ID); ok {
		fmt.Fprintf(&b, "Last heard: %s\n", telemetry.FormatAgo(t, store.Now()))
	} else {
		b.WriteString("Last heard: never\n")
	}

	fmt.Fprintf(&b, "Pkts today: %d\n", store.PacketsToday(u.ID))

	ports := store.BreakdownToday(u.ID)

	names := make([]string, 0, len(ports))
	for name := range ports {
		names = append(names, name)
	}

	sort.Slice(names, func(i, j int) bool {
		if ports[names[i]] != ports[names[j]] {
			return ports[names[i]] > ports[names[j]]
		}

		return names[i] < names[j]
	})

	for _, name := range names {
		fmt.Fprintf(&b, "- %s: %d\n", name, ports[name])
	}

	return b.String()
}
