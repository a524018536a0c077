// Package storage mirrors packets and node identities to a remote storage API.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/mfreeman451/meshbot/pkg/dispatch"
	"github.com/mfreeman451/meshbot/pkg/models"
)

const (
	defaultTimeout = 10 * time.Second
	defaultRate    = 10
)

type Config struct {
	BaseURL          string
	Token            string
	FailedPacketsDir string
	Timeout          time.Duration
	// RequestsPerSecond paces outgoing requests; zero uses a default.
	RequestsPerSecond float64
}

// Client is safe for concurrent use.
type Client struct {
	baseURL    string
	token      string
	failedDir  string
	httpClient *http.Client
	limiter    *rate.Limiter
	now        func() time.Time
}

var _ dispatch.StorageMirror = (*Client)(nil)

// StatusError carries a non-2xx response.
type StatusError struct {
	StatusCode int
	Body       string
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%v: status=%d url=%s body=%s", errStatus, e.StatusCode, e.URL, e.Body)
}

func (*StatusError) Unwrap() error {
	return errStatus
}

func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errMissingBaseURL
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = defaultRate
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		token:      cfg.Token,
		failedDir:  cfg.FailedPacketsDir,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		now:        time.Now,
	}, nil
}

type apiUser struct {
	LongName  string `json:"long_name"`
	ShortName string `json:"short_name"`
}

// apiNode is the remote API's node layout; names sit under "user".
type apiNode struct {
	ID        models.NodeID `json:"id"`
	MacAddr   []byte        `json:"macaddr"`
	HwModel   string        `json:"hw_model"`
	PublicKey []byte        `json:"public_key"`
	User      apiUser       `json:"user"`
}

func toAPINode(u *models.User) *apiNode {
	return &apiNode{
		ID:        u.ID,
		MacAddr:   u.MacAddr,
		HwModel:   u.HwModel,
		PublicKey: u.PublicKey,
		User:      apiUser{LongName: u.LongName, ShortName: u.ShortName},
	}
}

func (n *apiNode) toUser() *models.User {
	return &models.User{
		ID:        n.ID,
		ShortName: n.User.ShortName,
		LongName:  n.User.LongName,
		MacAddr:   n.MacAddr,
		HwModel:   n.HwModel,
		PublicKey: n.PublicKey,
	}
}

// StoreRawPacket posts pkt; byte fields are sent base64-encoded. A rejected
// packet is dumped to the failed packets directory when one is configured.
func (c *Client) StoreRawPacket(ctx context.Context, pkt *models.Packet) error {
	err := c.do(ctx, http.MethodPost, "/api/raw-packet/", pkt, nil)
	if err == nil {
		return nil
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) && c.failedDir != "" {
		c.dumpFailedPacket(pkt, statusErr)
	}

	return err
}

func (c *Client) StoreNode(ctx context.Context, user *models.User) error {
	return c.do(ctx, http.MethodPost, "/api/nodes/", toAPINode(user), nil)
}

// ListNodes returns the identities the remote store knows about.
func (c *Client) ListNodes(ctx context.Context) ([]*models.User, error) {
	var nodes []apiNode
	if err := c.do(ctx, http.MethodGet, "/api/nodes/", nil, &nodes); err != nil {
		return nil, err
	}

	users := make([]*models.User, 0, len(nodes))
	for i := range nodes {
		users = append(users, nodes[i].toUser())
	}

	return users, nil
}

// GetNode fetches one node; a missing node is (nil, nil).
func (c *Client) GetNode(ctx context.Context, id models.NodeID) (*models.User, error) {
	var node *apiNode

	err := c.do(ctx, http.MethodGet, "/api/nodes/"+url.PathEscape(string(id)), nil, &node)

	var statusErr *StatusError
	if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	if node == nil {
		return nil, nil
	}

	return node.toUser(), nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	var reader io.Reader

	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: %w", errEncode, err)
		}

		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%w: %w", errRequest, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if c.token != "" {
		req.Header.Set("Authorization", "Token "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", errSend, err)
	}
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			log.Printf("Failed to close response body: %v", err)
		}
	}(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

		return &StatusError{StatusCode: resp.StatusCode, Body: string(text), URL: req.URL.String()}
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %w", errDecode, err)
	}

	return nil
}

type failureInfo struct {
	StatusCode int    `json:"status_code"`
	Text       string `json:"text"`
	URL        string `json:"url"`
}

// dumpFailedPacket writes the packet and the error response next to each
// other, named by timestamp.
func (c *Client) dumpFailedPacket(pkt *models.Packet, statusErr *StatusError) {
	if err := os.MkdirAll(c.failedDir, 0o755); err != nil {
		log.Printf("Failed to create failed packets dir %s: %v", c.failedDir, err)

		return
	}

	stamp := c.now().Format("20060102150405")

	files := []struct {
		suffix string
		v      interface{}
	}{
		{"_error", failureInfo{StatusCode: statusErr.StatusCode, Text: statusErr.Body, URL: statusErr.URL}},
		{"", pkt},
	}

	for _, f := range files {
		name := filepath.Join(c.failedDir, fmt.Sprintf("failed_packet_%s_%d%s.json", stamp, pkt.ID, f.suffix))

		data, err := json.MarshalIndent(f.v, "", "    ")
		if err != nil {
			log.Printf("Failed to encode %s: %v", name, err)

			continue
		}

		if err := os.WriteFile(name, data, 0o600); err != nil {
			log.Printf("Failed to dump %s: %v", name, err)

			continue
		}

		log.Printf("Dumped failed packet to %s", name)
	}
}
