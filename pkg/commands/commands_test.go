package commands

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/mfreeman451/meshbot/pkg/dispatch"
	"github.com/mfreeman451/meshbot/pkg/models"
	"github.com/mfreeman451/meshbot/pkg/nodes"
	"github.com/mfreeman451/meshbot/pkg/prefs"
	"github.com/mfreeman451/meshbot/pkg/telemetry"
)

const (
	myID    models.NodeID = "!0000beef"
	alice   models.NodeID = "!00000001"
	bob     models.NodeID = "!00000002"
	carol   models.NodeID = "!00000003"
	unknown models.NodeID = "!0000ffff"
)

var base0 = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

type sent struct {
	text   string
	target models.Target
}

// recordingSender captures outbound texts.
type recordingSender struct {
	texts []sent
}

func (s *recordingSender) SendText(text string, target models.Target, _ bool) {
	s.texts = append(s.texts, sent{text: text, target: target})
}

func (*recordingSender) SendReaction(string, uint32, models.Target) {}

func (s *recordingSender) last(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, s.texts)

	return s.texts[len(s.texts)-1].text
}

type harness struct {
	sender *recordingSender
	nodes  *nodes.Memory
	store  *telemetry.Store
	prefs  *prefs.Memory
	reg    *Registry
	resets int
	now    time.Time
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	h := &harness{
		sender: &recordingSender{},
		prefs:  prefs.NewMemory(),
		now:    base0,
	}

	clock := func() time.Time { return h.now }

	h.nodes = nodes.NewMemory(nodes.WithClock(clock))
	h.store = telemetry.NewStore(2*time.Hour, telemetry.WithClock(clock))

	for _, u := range []*models.User{
		{ID: alice, ShortName: "AAA", LongName: "Alice"},
		{ID: bob, ShortName: "BBB", LongName: "Bob"},
		{ID: carol, ShortName: "CCC", LongName: "Carol"},
	} {
		_, err := h.nodes.Upsert(u, nil, nil)
		require.NoError(t, err)
	}

	h.reg = NewDefaultRegistry(&Deps{
		Sender:        h.sender,
		Nodes:         h.nodes,
		Telemetry:     h.store,
		Prefs:         h.prefs,
		Admins:        []models.NodeID{alice},
		ResetCounters: func() { h.resets++ },
	})

	return h
}

func (h *harness) run(t *testing.T, from models.NodeID, text string) error {
	t.Helper()

	token, _ := dispatch.SplitMessage(text)

	cmd, ok := h.reg.Resolve(token)
	require.True(t, ok, "token %s not registered", token)

	return cmd.HandlePacket(context.Background(), &models.Packet{
		From:     from,
		To:       myID,
		PortNum:  models.PortTextMessage,
		Text:     text,
		HopStart: 3,
		HopLimit: 3,
	})
}

func TestPingReportsHops(t *testing.T) {
	ctrl := gomock.NewController(t)
	sender := dispatch.NewMockSender(ctrl)

	reg := NewDefaultRegistry(&Deps{Sender: sender, Nodes: nodes.NewMemory()})

	sender.EXPECT().SendText("!pong (ping took 1 hops)", models.DirectTarget(alice), false)

	cmd, ok := reg.Resolve("!ping")
	require.True(t, ok)

	err := cmd.HandlePacket(context.Background(), &models.Packet{
		From: alice, To: myID, Text: "!ping", HopStart: 3, HopLimit: 2,
	})
	require.NoError(t, err)
}

func TestPingEchoesCorrelationText(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run(t, alice, "!ping  hello there "))
	assert.Equal(t, "!pong: hello there (ping took 0 hops)", h.sender.last(t))
	assert.Equal(t, models.DirectTarget(alice), h.sender.texts[0].target)
}

func TestHello(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run(t, bob, "!hello"))
	assert.Equal(t, "Hello, Bob! How can I help you? (tip: try !help)", h.sender.last(t))

	require.NoError(t, h.run(t, unknown, "!hello"))
	assert.Equal(t, "Hello, !0000ffff! How can I help you? (tip: try !help)", h.sender.last(t))
}

func TestHelp(t *testing.T) {
	tests := []struct {
		message string
		want    string
	}{
		{"!help", "Valid commands are: !ping, !hello, !help, !nodes"},
		{"!help hello", "!hello: responds with a greeting"},
		{"!help ping", "!ping (+ optional correlation message): responds with a pong"},
		{"!help !ping", "!ping (+ optional correlation message): responds with a pong"},
		{"!help nodes", "!nodes: details about the nodes this device has seen"},
		{"!help help", "!help: show this help message"},
		{"!help unknown", "Unknown command 'unknown'"},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			h := newHarness(t)

			require.NoError(t, h.run(t, alice, tt.message))
			require.Len(t, h.sender.texts, 1)
			assert.Equal(t, tt.want, h.sender.last(t))
		})
	}
}

func seedTraffic(h *harness) {
	h.store.Touch(carol, base0.Add(-3*time.Hour))

	h.store.RecordPacket(alice, models.PortTextMessage)
	h.store.RecordPacket(alice, models.PortTextMessage)
	h.store.RecordPacket(alice, models.PortPosition)

	h.now = h.now.Add(time.Minute)
	h.store.RecordPacket(bob, models.PortTelemetry)
}

func TestNodesSummary(t *testing.T) {
	h := newHarness(t)
	seedTraffic(h)

	require.NoError(t, h.run(t, alice, "!nodes"))
	assert.Equal(t,
		"Nodes: 3 (2 online, 1 offline). \n\nBusy nodes:\n- AAA (3 packets)\n- BBB (1 packets)\n(last reset at 12:00:00)",
		h.sender.last(t))
}

func TestNodesRecent(t *testing.T) {
	h := newHarness(t)
	seedTraffic(h)

	require.NoError(t, h.run(t, alice, "!nodes recent"))
	assert.Equal(t,
		"2 nodes online, 1 offline.\nRecent nodes:\n- BBB (0s ago)\n- AAA (1m ago)\n- CCC (3h ago)\n",
		h.sender.last(t))
}

func TestNodesBusy(t *testing.T) {
	h := newHarness(t)
	seedTraffic(h)

	require.NoError(t, h.run(t, alice, "!nodes busy"))
	assert.Equal(t,
		"2 nodes online.\nBusy nodes:\n- AAA (3 pkts)\n- BBB (1 pkts)\n(last reset at 12:00:00)",
		h.sender.last(t))

	require.NoError(t, h.run(t, alice, "!nodes busy aaa"))
	assert.Equal(t,
		"Alice (AAA)\nLast heard: 1m ago\nPkts today: 3\n- TEXT_MESSAGE_APP: 2\n- POSITION_APP: 1\n",
		h.sender.last(t))

	require.NoError(t, h.run(t, alice, "!nodes busy ZZZ"))
	assert.Equal(t, "Node 'ZZZ' not found", h.sender.last(t))

	h.sender.texts = nil

	require.NoError(t, h.run(t, alice, "!nodes busy detailed"))
	assert.Len(t, h.sender.texts, 3)
}

func TestAdmin(t *testing.T) {
	tests := []struct {
		name    string
		from    models.NodeID
		message string
		want    string
		resets  int
	}{
		{"not authorized", bob, "!admin reset packets", "Sorry Bob, you are not authorized to use this command", 0},
		{"missing command", alice, "!admin", "Invalid command format - expected !admin <command> <args>", 0},
		{"reset packets", alice, "!admin reset packets", "Packet counter reset", 1},
		{"reset missing argument", alice, "!admin reset", "reset: Missing argument", 0},
		{"reset unknown argument", alice, "!admin reset nodes", "reset: Unknown argument 'nodes'", 0},
		{"unknown command", alice, "!admin reboot", "Unknown command 'reboot'", 0},
		{
			"help", alice, "!admin help",
			"Available commands:\nreset packets - Reset the packet counter\nhelp - Show this help message\n", 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)

			require.NoError(t, h.run(t, tt.from, tt.message))
			assert.Equal(t, tt.want, h.sender.last(t))
			assert.Equal(t, tt.resets, h.resets)
		})
	}
}

func TestPrefs(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run(t, bob, "!prefs"))
	assert.Equal(t, "Your preferences:\nRespond to 'testing': disabled\n", h.sender.last(t))

	require.NoError(t, h.run(t, bob, "!prefs testing enable"))
	assert.Equal(t, "You've enabled bot responses to 'test' or 'testing' in public channels.", h.sender.last(t))

	p, err := h.prefs.Get(bob)
	require.NoError(t, err)
	assert.True(t, p.RespondToTesting)

	require.NoError(t, h.run(t, bob, "!prefs testing maybe"))
	assert.Equal(t, "Invalid mode for 'testing'. Please specify 'enable' or 'disable'.", h.sender.last(t))

	require.NoError(t, h.run(t, bob, "!prefs testing"))
	assert.Contains(t, h.sender.last(t), "!prefs testing enable/disable")

	require.NoError(t, h.run(t, bob, "!prefs whatever"))
	assert.Equal(t, "Your preferences:\nRespond to 'testing': enabled\n", h.sender.last(t))
}

func TestEnrollAndLeave(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run(t, carol, "!enroll testing"))
	assert.Equal(t, "You've been enrolled from responses to 'test' or 'testing' in public channels.", h.sender.last(t))

	p, err := h.prefs.Get(carol)
	require.NoError(t, err)
	assert.True(t, p.RespondToTesting)

	require.NoError(t, h.run(t, carol, "!leave testing"))
	assert.Equal(t, "You've been unenrolled from responses to 'test' or 'testing' in public channels.", h.sender.last(t))

	p, err = h.prefs.Get(carol)
	require.NoError(t, err)
	assert.False(t, p.RespondToTesting)

	require.NoError(t, h.run(t, carol, "!enroll"))
	assert.Contains(t, h.sender.last(t), "!enroll: (or !leave)")
}

func TestPrefsStoreFailureIsSilent(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := prefs.NewMockStore(ctrl)
	sender := &recordingSender{}

	store.EXPECT().Get(alice).Return(nil, errors.New("disk full"))

	reg := NewDefaultRegistry(&Deps{Sender: sender, Nodes: nodes.NewMemory(), Prefs: store})

	cmd, ok := reg.Resolve("!enroll")
	require.True(t, ok)

	err := cmd.HandlePacket(context.Background(), &models.Packet{From: alice, To: myID, Text: "!enroll testing"})
	require.Error(t, err)
	assert.Empty(t, sender.texts)
}

func TestWhoAmI(t *testing.T) {
	h := newHarness(t)

	cmd, ok := h.reg.Resolve("!whoami")
	require.True(t, ok)

	err := cmd.HandlePacket(context.Background(), &models.Packet{
		From: alice, To: myID, Text: "!whoami", HopStart: 5, HopLimit: 3,
	})
	require.NoError(t, err)
	assert.Equal(t,
		"Hi !00000001. You are Alice [AAA]. You are 2 hops away from me. Send !prefs for your user prefs.",
		h.sender.last(t))
}

func TestTemplatesFromFile(t *testing.T) {
	h := newHarness(t)
	path := filepath.Join(t.TempDir(), "templates.yaml")

	require.NoError(t, os.WriteFile(path, []byte(`
commands:
  - command: "!status"
    name: StatusCommand
    template: "{{.NodeCount}} nodes known. You said '{{.Args}}'."
  - command: "!testing"
    template: "{{if .UserPrefs.RespondToTesting}}yes{{else}}no{{end}}"
`), 0o600))

	defs, err := LoadTemplates(path)
	require.NoError(t, err)
	require.Len(t, defs, 2)
	require.NoError(t, h.reg.RegisterTemplates(defs))

	require.NoError(t, h.run(t, bob, "!status all good"))
	assert.Equal(t, "3 nodes known. You said 'all good'.", h.sender.last(t))

	require.NoError(t, h.run(t, bob, "!testing"))
	assert.Equal(t, "no", h.sender.last(t))

	cmd, _ := h.reg.Resolve("!status")
	assert.Equal(t, "StatusCommand", cmd.Name())
}

func TestTemplateErrors(t *testing.T) {
	h := newHarness(t)

	err := h.reg.RegisterTemplates([]TemplateDef{
		{Command: "!good", Template: "ok"},
		{Command: "!bad", Template: "{{.Broken"},
	})
	require.ErrorIs(t, err, errTemplateParse)

	_, ok := h.reg.Resolve("!good")
	assert.False(t, ok)

	_, err = LoadTemplates(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, errTemplateRead)
}

func TestRegister(t *testing.T) {
	reg := NewRegistry(&Deps{})

	require.ErrorIs(t, reg.Register("ping", newPing), errInvalidToken)
	require.NoError(t, reg.Register("!ping", newPing))
	require.ErrorIs(t, reg.Register("!ping", newPing), errDuplicateCommand)

	_, ok := reg.Resolve("!PING")
	assert.False(t, ok)

	assert.Equal(t, []string{"!ping"}, reg.Tokens())
}

func TestDescribeForLogging(t *testing.T) {
	reg := NewDefaultRegistry(&Deps{})

	tests := []struct {
		message  string
		wantBase string
		wantSubs []string
		wantArgs string
	}{
		{"!ping foo bar", "!ping", nil, "foo bar"},
		{"!help ping", "!help", []string{"ping"}, ""},
		{"!help bogus", "!help", nil, "bogus"},
		{"!admin reset packets", "!admin", []string{"reset", "packets"}, ""},
		{"!prefs testing enable", "!prefs", []string{"testing"}, "enable"},
		{"!nodes busy AAA", "!nodes", []string{"busy"}, "AAA"},
		{"!whoami", "!whoami", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			token, _ := dispatch.SplitMessage(tt.message)

			cmd, ok := reg.Resolve(token)
			require.True(t, ok)

			gotBase, gotSubs, gotArgs := cmd.DescribeForLogging(tt.message)
			assert.Equal(t, tt.wantBase, gotBase)
			assert.Equal(t, tt.wantSubs, gotSubs)
			assert.Equal(t, tt.wantArgs, gotArgs)
		})
	}
}
