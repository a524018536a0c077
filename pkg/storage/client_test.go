package storage

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfreeman451/meshbot/pkg/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, failedDir string) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(Config{
		BaseURL:           srv.URL + "/",
		Token:             "secret",
		FailedPacketsDir:  failedDir,
		RequestsPerSecond: 1000,
	})
	require.NoError(t, err)

	c.now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }

	return c
}

func TestNewRequiresBaseURL(t *testing.T) {
	_, err := New(Config{})
	require.ErrorIs(t, err, errMissingBaseURL)
}

func TestStoreRawPacket(t *testing.T) {
	var got map[string]interface{}

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/raw-packet/", r.URL.Path)
		assert.Equal(t, "Token secret", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.NoError(t, json.Unmarshal(body, &got))

		w.WriteHeader(http.StatusCreated)
	}, "")

	err := c.StoreRawPacket(context.Background(), &models.Packet{
		ID:      7,
		From:    "!00000001",
		Channel: 2,
		Payload: []byte("hi"),
		Raw:     []byte{0x01, 0x02},
	})
	require.NoError(t, err)

	assert.Equal(t, "aGk=", got["payload"])
	assert.InDelta(t, 2, got["channel"], 0)
	assert.NotContains(t, got, "Raw")
	assert.NotContains(t, got, "raw")
}

func TestStoreRawPacketDumpsFailures(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "failed")

	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad packet", http.StatusBadRequest)
	}, dir)

	err := c.StoreRawPacket(context.Background(), &models.Packet{ID: 9, From: "!00000001"})
	require.ErrorIs(t, err, errStatus)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusBadRequest, statusErr.StatusCode)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	data, err := os.ReadFile(filepath.Join(dir, "failed_packet_20240601120000_9.json"))
	require.NoError(t, err)

	var pkt models.Packet
	require.NoError(t, json.Unmarshal(data, &pkt))
	assert.Equal(t, models.NodeID("!00000001"), pkt.From)

	data, err = os.ReadFile(filepath.Join(dir, "failed_packet_20240601120000_9_error.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "bad packet")
}

func TestStoreNodeUsesAPILayout(t *testing.T) {
	var got apiNode

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/nodes/", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}, "")

	err := c.StoreNode(context.Background(), &models.User{
		ID: "!00000001", ShortName: "AAA", LongName: "Alice", HwModel: "TBEAM",
	})
	require.NoError(t, err)

	assert.Equal(t, models.NodeID("!00000001"), got.ID)
	assert.Equal(t, "Alice", got.User.LongName)
	assert.Equal(t, "AAA", got.User.ShortName)
	assert.Equal(t, "TBEAM", got.HwModel)
}

func TestListAndGetNodes(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/nodes/":
			_, _ = w.Write([]byte(`[{"id":"!00000001","hw_model":"TBEAM","user":{"long_name":"Alice","short_name":"AAA"}}]`))
		case "/api/nodes/!00000001":
			_, _ = w.Write([]byte(`{"id":"!00000001","user":{"long_name":"Alice","short_name":"AAA"}}`))
		default:
			http.NotFound(w, r)
		}
	}, "")

	users, err := c.ListNodes(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Alice", users[0].LongName)
	assert.Equal(t, "TBEAM", users[0].HwModel)

	u, err := c.GetNode(context.Background(), "!00000001")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "AAA", u.ShortName)

	u, err = c.GetNode(context.Background(), "!0000ffff")
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestCanceledContext(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}, "")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.StoreNode(ctx, &models.User{ID: "!00000001"})
	require.Error(t, err)
}
