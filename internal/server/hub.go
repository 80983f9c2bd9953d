package server

import (
	"sync"

	"github.com/gofiber/websocket/v2"
)

// hub tracks connected WebSocket clients and fans state snapshots out to them.
type hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

func newHub() *hub {
	return &hub{clients: make(map[*websocket.Conn]struct{})}
}

func (h *hub) add(c *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
}

func (h *hub) remove(c *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, c)
}

// broadcast writes v as JSON to every client, dropping clients whose
// connection fails.
func (h *hub) broadcast(v interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		if err := c.WriteJSON(v); err != nil {
			c.Close()
			delete(h.clients, c)
		}
	}
}
