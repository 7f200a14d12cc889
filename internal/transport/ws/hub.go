// Package ws streams discussion events to connected clients. A client
// subscribes to the drugs whose threads it is viewing and receives
// created/deleted events as they happen.
package ws

import (
	"encoding/json"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Hub owns all active clients. All client-set mutation happens on the Run
// loop, so no lock is needed around the map.
type Hub struct {
	clients map[uuid.UUID]*Client

	register   chan *Client
	unregister chan *Client
	broadcast  chan *broadcastMsg

	logger *zap.Logger
}

type broadcastMsg struct {
	drugID uuid.UUID
	data   []byte
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *broadcastMsg, 256),
		logger:     logger,
	}
}

// Run starts the Hub's event loop. Call this in a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client.userID] = client
			h.logger.Debug("ws client connected", zap.Stringer("user_id", client.userID), zap.Int("total", len(h.clients)))

		case client := <-h.unregister:
			if _, ok := h.clients[client.userID]; ok {
				delete(h.clients, client.userID)
				close(client.send)
				close(client.done)
				h.logger.Debug("ws client disconnected", zap.Stringer("user_id", client.userID), zap.Int("total", len(h.clients)))
			}

		case msg := <-h.broadcast:
			for _, client := range h.clients {
				if !client.IsSubscribed(msg.drugID) {
					continue
				}
				select {
				case client.send <- msg.data:
				default:
					// Client buffer full - disconnect
					delete(h.clients, client.userID)
					close(client.send)
					close(client.done)
				}
			}
		}
	}
}

// BroadcastToDrug sends an event to all subscribers of a drug's thread.
func (h *Hub) BroadcastToDrug(drugID uuid.UUID, event *Event) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("ws marshal error", zap.Error(err))
		return
	}
	h.broadcast <- &broadcastMsg{drugID: drugID, data: data}
}
