// Package wsclient connects a drawing engine to a relay: it dials the
// WebSocket endpoint, pumps frames in both directions and fetches a room's
// history over HTTP for hydration.
package wsclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/coder/websocket"

	"github.com/artdeck/artdeck-go/internal/protocol"
	"github.com/artdeck/artdeck-go/internal/store"
)

const (
	writeWait  = 10 * time.Second
	maxMsgSize = 64 * 1024
)

// Client is one relay connection. Send may be called from any goroutine.
type Client struct {
	conn *websocket.Conn
}

// Dial connects to the relay at baseURL ("http://host:port" or
// "ws://host:port") with token in the query string, which is how browsers
// authenticate too.
func Dial(ctx context.Context, baseURL, token string) (*Client, error) {
	u, err := endpoint(baseURL, "/ws")
	if err != nil {
		return nil, err
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()

	conn, _, err := websocket.Dial(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("dial relay: %w", err)
	}
	conn.SetReadLimit(maxMsgSize)
	return &Client{conn: conn}, nil
}

// Send writes one envelope.
func (c *Client) Send(ctx context.Context, env protocol.Envelope) error {
	data, err := env.Encode()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, writeWait)
	defer cancel()
	if err := c.conn.Write(ctx, websocket.MessageText, data); err != nil {
		return fmt.Errorf("write %s: %w", env.Type, err)
	}
	return nil
}

func (c *Client) Join(ctx context.Context, roomID int64) error {
	return c.Send(ctx, protocol.NewJoin(roomID))
}

func (c *Client) Leave(ctx context.Context, roomID int64) error {
	return c.Send(ctx, protocol.NewLeave(roomID))
}

// Run reads frames until the connection closes or ctx ends and hands each
// one to handle, in order, on the calling goroutine. A normal close returns
// nil.
func (c *Client) Run(ctx context.Context, handle func([]byte)) error {
	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				return nil
			case websocket.StatusPolicyViolation:
				return fmt.Errorf("relay rejected connection: %w", err)
			}
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return fmt.Errorf("read relay: %w", err)
		}
		handle(data)
	}
}

func (c *Client) Close() error {
	return c.conn.Close(websocket.StatusNormalClosure, "")
}

type historyResponse struct {
	Messages []store.Entry `json:"messages"`
}

// FetchHistory returns up to limit of the room's most recent log entries,
// newest first. A zero limit uses the server default.
func FetchHistory(ctx context.Context, hc *http.Client, baseURL, token string, roomID int64, limit int) ([]store.Entry, error) {
	if hc == nil {
		hc = http.DefaultClient
	}
	u, err := endpoint(baseURL, "/rooms/"+strconv.FormatInt(roomID, 10)+"/events")
	if err != nil {
		return nil, err
	}
	switch u.Scheme {
	case "ws":
		u.Scheme = "http"
	case "wss":
		u.Scheme = "https"
	}
	if limit > 0 {
		q := u.Query()
		q.Set("limit", strconv.Itoa(limit))
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build history request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch history: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch history: unexpected status %s", resp.Status)
	}

	var body historyResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	slog.Debug("fetched room history", "room", roomID, "entries", len(body.Messages))
	return body.Messages, nil
}

func endpoint(baseURL, path string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	u.Path += path
	return u, nil
}
