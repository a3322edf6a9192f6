package ws

import (
	"sync"

	"geolog/internal/metrics"

	"github.com/goccy/go-json"
)

// Client represents a single WebSocket connection with user context.
type Client struct {
	UserID     string
	CanViewAll bool
	Send       chan []byte
	Hub        *Hub // set by Register so Close can unregister
	mu         sync.Mutex
	closed     bool
}

func NewClient(userID string, canViewAll bool) *Client {
	return &Client{UserID: userID, CanViewAll: canViewAll, Send: make(chan []byte, 256)}
}

func (c *Client) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.Send)
	c.mu.Unlock()
	if c.Hub != nil {
		c.Hub.unregister(c)
	}
}

// trySend drops the message when the buffer is full or the client is gone.
func (c *Client) trySend(data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.Send <- data:
		return true
	default:
		return false
	}
}

// Hub maintains the set of active clients and broadcasts to them.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	// userID -> clients (one user can have multiple connections)
	byUser map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		byUser:  make(map[string]map[*Client]struct{}),
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c.Hub = h
	h.clients[c] = struct{}{}
	if h.byUser[c.UserID] == nil {
		h.byUser[c.UserID] = make(map[*Client]struct{})
	}
	h.byUser[c.UserID][c] = struct{}{}
	metrics.LiveFeedClients.Inc()
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	if m := h.byUser[c.UserID]; m != nil {
		delete(m, c)
		if len(m) == 0 {
			delete(h.byUser, c.UserID)
		}
	}
	metrics.LiveFeedClients.Dec()
}

// Broadcast sends payload to every client accepted by filter (nil means all).
func (h *Hub) Broadcast(payload interface{}, filter func(*Client) bool) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		if filter == nil || filter(c) {
			clients = append(clients, c)
		}
	}
	h.mu.RUnlock()
	for _, c := range clients {
		c.trySend(data)
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
