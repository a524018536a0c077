package bot

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfreeman451/meshbot/pkg/config"
	"github.com/mfreeman451/meshbot/pkg/meshtastic"
	"github.com/mfreeman451/meshbot/pkg/models"
	"github.com/mfreeman451/meshbot/pkg/transport"
)

const (
	waitFor = 2 * time.Second
	myNum   = 0x0000beef
)

type fakeClient struct {
	mu   sync.Mutex
	sent []*models.OutboundPacket

	done      chan struct{}
	closeOnce sync.Once
}

func (c *fakeClient) SendPacket(_ context.Context, pkt *models.OutboundPacket) (uint32, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sent = append(c.sent, pkt)

	return uint32(len(c.sent)), nil
}

func (*fakeClient) SendHeartbeat(context.Context) error { return nil }

func (*fakeClient) MyNodeNum() uint32 { return myNum }

func (c *fakeClient) Done() <-chan struct{} { return c.done }

func (*fakeClient) Err() error { return nil }

func (c *fakeClient) Close() error {
	c.closeOnce.Do(func() { close(c.done) })

	return nil
}

func (c *fakeClient) texts() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]string, 0, len(c.sent))
	for _, pkt := range c.sent {
		out = append(out, string(pkt.Payload))
	}

	return out
}

type fakeDialer struct {
	mu      sync.Mutex
	client  *fakeClient
	handler meshtastic.Handler
}

func (d *fakeDialer) Dial(_ context.Context, _ string, h meshtastic.Handler) (transport.Client, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.client = &fakeClient{done: make(chan struct{})}
	d.handler = h

	return d.client, nil
}

func (d *fakeDialer) session() (*fakeClient, meshtastic.Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.client, d.handler
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	return &config.Config{
		Meshtastic: config.MeshtasticConfig{Address: "radio"},
		AdminNodes: []string{"!00000001"},
		Router:     config.RouterConfig{DailyResetAt: "off"},
		Data: config.DataConfig{
			Dir:               filepath.Join(t.TempDir(), "data"),
			NodeStore:         config.NodeStoreMemory,
			Database:          "meshbot.db",
			NodesSnapshot:     "nodes.json",
			TelemetrySnapshot: "telemetry.json",
			Retention:         24 * time.Hour,
		},
	}
}

type running struct {
	bot    *Bot
	dialer *fakeDialer
	cancel context.CancelFunc
	done   chan error
}

func start(t *testing.T, cfg *config.Config) *running {
	t.Helper()

	d := &fakeDialer{}

	b, err := New(cfg, WithDialer(d))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	r := &running{bot: b, dialer: d, cancel: cancel, done: make(chan error, 1)}

	go func() { r.done <- b.Start(ctx) }()

	require.Eventually(t, func() bool { return b.router.InitComplete() }, waitFor, 5*time.Millisecond)

	return r
}

func (r *running) stop(t *testing.T) {
	t.Helper()

	r.cancel()

	select {
	case err := <-r.done:
		require.NoError(t, err)
	case <-time.After(waitFor):
		t.Fatal("Start did not return")
	}

	require.NoError(t, r.bot.Stop(context.Background()))
}

func announce(h meshtastic.Handler) {
	h.HandleNodeInfo(&models.NodeInfo{
		Num:       1,
		User:      &models.User{ID: "!00000001", ShortName: "AAA", LongName: "Alice"},
		LastHeard: time.Now(),
	})
}

func TestPingRoundTrip(t *testing.T) {
	r := start(t, testConfig(t))

	client, h := r.dialer.session()
	announce(h)

	h.HandlePacket(&models.Packet{
		ID:       10,
		From:     "!00000001",
		To:       models.FormatNodeID(myNum),
		PortNum:  models.PortTextMessage,
		Text:     "!ping",
		HopStart: 3,
		HopLimit: 2,
	})

	require.Eventually(t, func() bool {
		for _, text := range client.texts() {
			if strings.HasPrefix(text, "!pong") {
				return true
			}
		}

		return false
	}, waitFor, 5*time.Millisecond)

	r.stop(t)
}

func TestSnapshotsSurviveRestart(t *testing.T) {
	cfg := testConfig(t)

	r := start(t, cfg)
	_, h := r.dialer.session()
	announce(h)

	require.Eventually(t, func() bool {
		_, err := r.bot.nodes.GetByID("!00000001")
		return err == nil
	}, waitFor, 5*time.Millisecond)

	r.stop(t)

	_, err := os.Stat(cfg.Data.Path(cfg.Data.NodesSnapshot))
	require.NoError(t, err)

	_, err = os.Stat(cfg.Data.Path(cfg.Data.TelemetrySnapshot))
	require.NoError(t, err)

	r = start(t, cfg)
	defer r.stop(t)

	u, err := r.bot.nodes.GetByID("!00000001")
	require.NoError(t, err)
	assert.Equal(t, "Alice", u.LongName)
}

func TestHealthFollowsLink(t *testing.T) {
	cfg := testConfig(t)
	d := &fakeDialer{}

	b, err := New(cfg, WithDialer(d))
	require.NoError(t, err)

	var (
		mu      sync.Mutex
		serving []bool
	)

	b.SetHealthHook(func(s bool) {
		mu.Lock()
		defer mu.Unlock()

		serving = append(serving, s)
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() { done <- b.Start(ctx) }()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()

		return len(serving) > 0 && serving[len(serving)-1]
	}, waitFor, 5*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
	require.NoError(t, b.Stop(context.Background()))
}

func TestStartAfterStop(t *testing.T) {
	d := &fakeDialer{}

	b, err := New(testConfig(t), WithDialer(d))
	require.NoError(t, err)

	require.NoError(t, b.Stop(context.Background()))
	require.ErrorIs(t, b.Start(context.Background()), errStopped)

	c, _ := d.session()
	assert.Nil(t, c, "no radio session after stop")
}

// Shutdown can race a Start that is still connecting.
func TestStopDuringStart(t *testing.T) {
	b, err := New(testConfig(t), WithDialer(&fakeDialer{}))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan error, 1)

	go func() { done <- b.Start(ctx) }()

	require.NoError(t, b.Stop(context.Background()))

	select {
	case <-done:
	case <-time.After(waitFor):
		t.Fatal("Start did not return")
	}
}

func TestNewRejectsBadTemplates(t *testing.T) {
	cfg := testConfig(t)
	cfg.Data.TemplatesFile = filepath.Join(t.TempDir(), "missing.yaml")

	_, err := New(cfg)
	require.Error(t, err)
}

func TestSQLiteNodeStore(t *testing.T) {
	cfg := testConfig(t)
	cfg.Data.NodeStore = config.NodeStoreSQLite

	r := start(t, cfg)
	defer r.stop(t)

	assert.Nil(t, r.bot.memory)
	assert.Same(t, r.bot.db, r.bot.nodes)
}
