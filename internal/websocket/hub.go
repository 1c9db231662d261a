package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// Frame is one instruction pushed to every connected browser.
type Frame struct {
	Type    string `json:"type"`
	Target  string `json:"target,omitempty"`
	Payload any    `json:"payload,omitempty"`
}

// NewFrame builds a frame of kind typ aimed at target.
func NewFrame(typ, target string, payload any) Frame {
	return Frame{Type: typ, Target: target, Payload: payload}
}

func (f Frame) key() string {
	return f.Type + ":" + f.Target
}

// Hub fans frames out to connected clients. Retained frames are also kept,
// one per type and target, and replayed to clients that connect later so a
// newly opened tab shows the current state.
type Hub struct {
	mu       sync.RWMutex
	clients  map[*Client]struct{}
	retained map[string][]byte
	order    []string
	logger   *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients:  make(map[*Client]struct{}),
		retained: make(map[string][]byte),
		logger:   logger,
	}
}

// Register adds a client and queues the retained frames for it.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
	for _, k := range h.order {
		select {
		case c.send <- h.retained[k]:
		default:
		}
	}
}

// Unregister removes a client and closes its send channel.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

// Broadcast sends f to every client without retaining it.
func (h *Hub) Broadcast(f Frame) {
	h.send(f, false)
}

// Retain sends f to every client and keeps it for later ones, replacing any
// earlier frame with the same type and target.
func (h *Hub) Retain(f Frame) {
	h.send(f, true)
}

// Reset forgets every retained frame.
func (h *Hub) Reset() {
	h.mu.Lock()
	h.retained = make(map[string][]byte)
	h.order = nil
	h.mu.Unlock()
}

func (h *Hub) send(f Frame, retain bool) {
	data, err := json.Marshal(f)
	if err != nil {
		h.logger.Error("marshal frame", "type", f.Type, "error", err)
		return
	}

	var lock sync.Locker = h.mu.RLocker()
	if retain {
		lock = &h.mu
	}
	lock.Lock()
	defer lock.Unlock()

	if retain {
		k := f.key()
		if _, ok := h.retained[k]; !ok {
			h.order = append(h.order, k)
		}
		h.retained[k] = data
	}

	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			h.logger.Warn("client buffer full, dropping frame", "type", f.Type)
		}
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
