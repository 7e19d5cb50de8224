package realtime

import (
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Message is the websocket envelope sent to dashboard clients.
type Message struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Hub tracks connected dashboard clients and fans out messages to them.
// The most recent broadcast is replayed to clients that join later.
type Hub struct {
	clients   map[string]*Client
	latest    *Message
	onRefresh func()
	mu        sync.RWMutex
	logger    *zap.Logger
}

// NewHub creates an empty hub.
func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{clients: make(map[string]*Client), logger: logger}
}

// SetRefreshHandler registers the callback invoked when a client asks for a fresh snapshot.
func (h *Hub) SetRefreshHandler(fn func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onRefresh = fn
}

// Register adds a client and replays the latest broadcast to it.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c.ID] = c
	if h.latest != nil {
		c.enqueue(*h.latest)
	}
	count := len(h.clients)
	h.mu.Unlock()

	h.logger.Debug("dashboard client joined", zap.String("client_id", c.ID), zap.Int("clients", count))
}

// Unregister removes a client and closes its outbound queue.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c.ID]; ok {
		delete(h.clients, c.ID)
		c.closeSend()
	}
	count := len(h.clients)
	h.mu.Unlock()
	h.logger.Debug("dashboard client left", zap.String("client_id", c.ID), zap.Int("clients", count))
}

// Broadcast sends an event to every client and returns how many were connected.
// Sends never block; slow clients whose buffers are full miss the message.
func (h *Hub) Broadcast(event string, payload interface{}) (int, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("encode %s: %w", event, err)
	}
	msg := Message{Event: event, Data: data}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.latest = &msg
	for _, c := range h.clients {
		if !c.enqueue(msg) {
			h.logger.Warn("dashboard client buffer full, message dropped", zap.String("client_id", c.ID))
		}
	}
	return len(h.clients), nil
}

// RequestRefresh forwards a client's refresh request to the registered handler.
func (h *Hub) RequestRefresh() {
	h.mu.RLock()
	fn := h.onRefresh
	h.mu.RUnlock()
	if fn != nil {
		fn()
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.clients {
		c.closeSend()
		delete(h.clients, id)
	}
}
