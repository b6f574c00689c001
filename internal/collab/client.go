package collab

import (
	"context"
	"log/slog"
	"time"

	"github.com/coder/websocket"

	"github.com/artdeck/artdeck-go/internal/typeid"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
	maxMsgSize = 64 * 1024
	sendBuffer = 256

	inboundBuffer = 64
)

// Client is one authenticated connection. rooms and the send channel's
// lifetime are guarded by the hub's lock.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
	rooms    map[int64]struct{}
	UserID   string
	ClientID string
}

// NewClient binds conn to userID. conn may be nil for a client that is driven
// directly through the hub.
func NewClient(hub *Hub, conn *websocket.Conn, userID string) *Client {
	return &Client{
		hub:      hub,
		conn:     conn,
		send:     make(chan []byte, sendBuffer),
		rooms:    make(map[int64]struct{}),
		UserID:   userID,
		ClientID: typeid.NewConnectionID(),
	}
}

// ReadPump reads frames until the connection fails or ctx ends, then
// unregisters the client at once. Frames are handled in arrival order by a
// single worker, so a slow persist never delays noticing the close; frames
// already read are still relayed to the remaining members.
func (c *Client) ReadPump(ctx context.Context) {
	inbound := make(chan []byte, inboundBuffer)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for data := range inbound {
			c.hub.HandleMessage(ctx, c, data)
		}
	}()

	defer func() {
		c.hub.Unregister(c)
		c.conn.Close(websocket.StatusNormalClosure, "")
		close(inbound)
		<-done
	}()

	c.conn.SetReadLimit(maxMsgSize)

	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure ||
				websocket.CloseStatus(err) == websocket.StatusGoingAway {
				return
			}
			slog.Debug("read error", "error", err, "user", c.UserID)
			return
		}

		select {
		case inbound <- data:
		case <-ctx.Done():
			return
		}
	}
}

// WritePump drains the send channel and keeps the connection alive with
// pings. It returns when the hub closes the channel.
func (c *Client) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				return
			}

			writeCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Write(writeCtx, websocket.MessageText, message)
			cancel()
			if err != nil {
				slog.Debug("write error", "error", err, "user", c.UserID)
				return
			}

		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Ping(pingCtx)
			cancel()
			if err != nil {
				return
			}

		case <-ctx.Done():
			return
		}
	}
}

// Send queues data without blocking. A full buffer drops the frame. Callers
// must hold the hub lock.
func (c *Client) Send(data []byte) bool {
	select {
	case c.send <- data:
		return true
	default:
		slog.Warn("client send buffer full, dropping message", "user", c.UserID)
		return false
	}
}
