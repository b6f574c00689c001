// Package collab is the server side of room collaboration: the connection
// registry, room membership, and the relay that persists edit events before
// fanning them out to every member of the room.
package collab

import (
	"log/slog"
	"sync"
	"time"

	"github.com/artdeck/artdeck-go/internal/store"
)

const defaultPersistTimeout = 10 * time.Second

// Room is the live membership of one room. Its lock serializes the
// persist-then-broadcast sequence so members see events in log order.
type Room struct {
	id      int64
	clients map[string]*Client // clientID -> client, guarded by Hub.mu
	relayMu sync.Mutex
}

func newRoom(id int64) *Room {
	return &Room{
		id:      id,
		clients: make(map[string]*Client),
	}
}

// Hub owns the connection registry. Registry mutations take mu exclusively;
// broadcasts hold it shared for the duration of the fan-out, so a client is
// never sent to after it has been unregistered.
type Hub struct {
	events         store.EventLog
	persistTimeout time.Duration

	mu      sync.RWMutex
	clients map[string]*Client
	rooms   map[int64]*Room
	stopped bool
}

// NewHub returns a hub persisting to events. A non-positive persistTimeout
// falls back to 10s.
func NewHub(events store.EventLog, persistTimeout time.Duration) *Hub {
	if persistTimeout <= 0 {
		persistTimeout = defaultPersistTimeout
	}
	return &Hub{
		events:         events,
		persistTimeout: persistTimeout,
		clients:        make(map[string]*Client),
		rooms:          make(map[int64]*Room),
	}
}

// Register adds an authenticated client with no room memberships. It reports
// false once the hub has been stopped.
func (h *Hub) Register(client *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopped {
		return false
	}
	h.clients[client.ClientID] = client
	slog.Info("client connected", "user", client.UserID, "client", client.ClientID)
	return true
}

// Unregister removes the client and every membership it held. It is safe to
// call more than once.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(client)
}

func (h *Hub) removeLocked(client *Client) {
	if _, ok := h.clients[client.ClientID]; !ok {
		return
	}
	delete(h.clients, client.ClientID)
	for roomID := range client.rooms {
		if room, ok := h.rooms[roomID]; ok {
			delete(room.clients, client.ClientID)
		}
	}
	client.rooms = nil
	close(client.send)

	slog.Info("client disconnected", "user", client.UserID, "client", client.ClientID)
}

// Join adds the client to a room. Joining twice is a no-op.
func (h *Hub) Join(client *Client, roomID int64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client.ClientID]; !ok {
		return
	}
	room := h.roomLocked(roomID)
	room.clients[client.ClientID] = client
	client.rooms[roomID] = struct{}{}

	slog.Debug("client joined room", "user", client.UserID, "room", roomID)
}

// Leave removes the client from a room. Leaving a room never joined is a
// no-op.
func (h *Hub) Leave(client *Client, roomID int64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if room, ok := h.rooms[roomID]; ok {
		delete(room.clients, client.ClientID)
	}
	delete(client.rooms, roomID)

	slog.Debug("client left room", "user", client.UserID, "room", roomID)
}

// Broadcast queues data for every client joined to roomID and returns how
// many clients it was queued for.
func (h *Hub) Broadcast(roomID int64, data []byte) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	room, ok := h.rooms[roomID]
	if !ok {
		return 0
	}
	sent := 0
	for _, c := range room.clients {
		if c.Send(data) {
			sent++
		}
	}
	return sent
}

// Members returns the number of clients joined to roomID.
func (h *Hub) Members(roomID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if room, ok := h.rooms[roomID]; ok {
		return len(room.clients)
	}
	return 0
}

// Stop unregisters every client, which ends their write pumps, and rejects
// further registrations.
func (h *Hub) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stopped = true
	for _, c := range h.clients {
		h.removeLocked(c)
	}
}

// room returns the room, creating it on first use. Rooms are kept for the
// life of the hub so their relay locks stay stable.
func (h *Hub) room(roomID int64) *Room {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.roomLocked(roomID)
}

func (h *Hub) roomLocked(roomID int64) *Room {
	room, ok := h.rooms[roomID]
	if !ok {
		room = newRoom(roomID)
		h.rooms[roomID] = room
	}
	return room
}
