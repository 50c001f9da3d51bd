// Package dev hosts the development asset server: it serves the shell
// page and static assets over chi and pushes live-reload messages to
// connected browsers over a websocket.
package dev

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// ReloadMessage is pushed to browsers over the reload websocket.
type ReloadMessage struct {
	Type string `json:"type"` // "reload" or "error"
	Err  string `json:"error,omitempty"`
}

// ReloadHub fans reload messages out to every connected browser.
type ReloadHub struct {
	mu       sync.RWMutex
	clients  map[*websocket.Conn]struct{}
	upgrader websocket.Upgrader
}

// NewReloadHub creates an empty hub.
func NewReloadHub() *ReloadHub {
	return &ReloadHub{
		clients: make(map[*websocket.Conn]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Dev-only endpoint; any origin may connect.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// ServeHTTP upgrades the connection and keeps it registered until the
// browser goes away.
func (h *ReloadHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	h.mu.Lock()
	h.clients[conn] = struct{}{}
	h.mu.Unlock()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
	conn.Close()
}

// NotifyReload asks every connected browser to do a full reload.
func (h *ReloadHub) NotifyReload() {
	h.broadcast(ReloadMessage{Type: "reload"})
}

// NotifyError shows an error overlay in every connected browser.
func (h *ReloadHub) NotifyError(msg string) {
	h.broadcast(ReloadMessage{Type: "error", Err: msg})
}

// Clients returns the number of connected browsers.
func (h *ReloadHub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *ReloadHub) broadcast(msg ReloadMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for conn := range h.clients {
		// A failed write means the reader loop will reap the client.
		_ = conn.WriteJSON(msg)
	}
}
