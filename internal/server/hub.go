package server

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/shved/plantwatch/internal/alerts"
	"github.com/shved/plantwatch/internal/equipment"
)

// Hub maintains the set of active WebSocket clients and broadcasts
// snapshot and alert messages to all of them.
type Hub struct {
	clients    map[*client]bool
	broadcast  chan []byte
	register   chan *client
	unregister chan *client
	log        *slog.Logger
}

// MachineAlerts pairs a machine id with its classified alerts, for the
// /api/alerts response and the WebSocket alert feed.
type MachineAlerts struct {
	Machine string         `json:"machine"`
	Alerts  []alerts.Alert `json:"alerts"`
}

func newHub(log *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*client]bool),
		broadcast:  make(chan []byte, 16),
		register:   make(chan *client),
		unregister: make(chan *client),
		log:        log,
	}
}

// Run owns the client set until ctx is cancelled. Only this goroutine
// touches the map, so no locking is needed.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				close(c.send)
				delete(h.clients, c)
			}
			return

		case c := <-h.register:
			h.clients[c] = true
			h.log.Debug("websocket client registered", "remote", c.conn.RemoteAddr())

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
				h.log.Debug("websocket client unregistered", "remote", c.conn.RemoteAddr())
			}

		case message := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- message:
				default:
					// Client can't keep up; drop it.
					h.log.Warn("websocket client send buffer full, removing", "remote", c.conn.RemoteAddr())
					close(c.send)
					delete(h.clients, c)
				}
			}
		}
	}
}

// BroadcastSnapshot sends a fleet snapshot to all clients.
func (h *Hub) BroadcastSnapshot(readings []equipment.Reading) {
	h.send("snapshot", readings)
}

// BroadcastAlerts sends the classified alerts of a snapshot to all clients.
func (h *Hub) BroadcastAlerts(list []MachineAlerts) {
	h.send("alerts", list)
}

func (h *Hub) send(msgType string, payload interface{}) {
	messageBytes, err := json.Marshal(map[string]interface{}{
		"type":    msgType,
		"payload": payload,
	})
	if err != nil {
		h.log.Error("marshal broadcast", "type", msgType, "err", err)
		return
	}
	select {
	case h.broadcast <- messageBytes:
	default:
		h.log.Warn("broadcast channel full, dropping message", "type", msgType)
	}
}
