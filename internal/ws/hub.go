package ws

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"
)

const (
	defaultPongWait = 60 * time.Second
	writeWait       = 10 * time.Second
	maxMessageSize  = 512
)

// Client is one websocket connection belonging to a user.
type Client struct {
	UserID string
	Send   chan []byte
	hub    *Hub
	mu     sync.Mutex
	closed bool
}

func NewClient(userID string) *Client {
	return &Client{UserID: userID, Send: make(chan []byte, 256)}
}

func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	if c.hub != nil {
		c.hub.unregister(c)
	}
	close(c.Send)
}

// Hub tracks open connections by user and fans events out to them.
type Hub struct {
	mu     sync.RWMutex
	byUser map[string]map[*Client]struct{}
	log    *slog.Logger

	// A peer that sends nothing, not even a pong, for pongWait is dropped.
	// Pings go out at half that interval.
	pongWait time.Duration
}

func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		byUser:   make(map[string]map[*Client]struct{}),
		log:      log,
		pongWait: defaultPongWait,
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c.hub = h
	if h.byUser[c.UserID] == nil {
		h.byUser[c.UserID] = make(map[*Client]struct{})
	}
	h.byUser[c.UserID][c] = struct{}{}
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if m := h.byUser[c.UserID]; m != nil {
		delete(m, c)
		if len(m) == 0 {
			delete(h.byUser, c.UserID)
		}
	}
}

// BroadcastToUser sends payload to every connection of userID. Slow clients
// with a full buffer miss the event.
func (h *Hub) BroadcastToUser(userID string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.log.Error("ws: encode event", "user_id", userID, "error", err)
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.byUser[userID] {
		select {
		case c.Send <- data:
		default:
			h.log.Warn("ws: client buffer full, dropping event", "user_id", userID)
		}
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, m := range h.byUser {
		n += len(m)
	}
	return n
}
