// Package realtime pushes studio activity to connected admin dashboards
// over WebSockets: payments landing, memberships starting or lapsing, new
// bookings.
package realtime

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"
)

// Message is one feed entry broadcast to all connected clients.
type Message struct {
	Kind string    `json:"kind"`
	Data any       `json:"data,omitempty"`
	At   time.Time `json:"at"`
}

// Hub maintains the set of active WebSocket clients and broadcasts messages.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	logger  *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		logger:  logger.With("component", "realtime"),
	}
}

// Register adds a client to the hub.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

// Unregister removes a client from the hub and closes its send channel.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

// Publish broadcasts a feed entry to all connected clients. Slow clients
// have the message dropped rather than blocking the publisher.
func (h *Hub) Publish(kind string, data any) {
	msg := Message{Kind: kind, Data: data, At: time.Now().UTC()}
	payload, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("marshal feed message", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		select {
		case c.send <- payload:
		default:
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
