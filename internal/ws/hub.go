package ws

import (
	"encoding/json"
	"sync"

	"go-fleet-ws/internal/notify"

	"github.com/apex/log"
	"github.com/gofiber/contrib/websocket"
)

// Hub tracks connected websocket clients and broadcasts transfer events to them.
type Hub struct {
	Clients    map[*websocket.Conn]bool
	Register   chan *websocket.Conn
	Unregister chan *websocket.Conn
	Broadcast  chan []byte
	mutex      sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[*websocket.Conn]bool),
		Register:   make(chan *websocket.Conn),
		Unregister: make(chan *websocket.Conn),
		Broadcast:  make(chan []byte, 64),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case conn := <-h.Register:
			h.mutex.Lock()
			h.Clients[conn] = true
			h.mutex.Unlock()
			log.WithField("clients", h.ClientCount()).Info("websocket client connected")

		case conn := <-h.Unregister:
			h.mutex.Lock()
			if _, ok := h.Clients[conn]; ok {
				delete(h.Clients, conn)
				conn.Close()
			}
			h.mutex.Unlock()

		case message := <-h.Broadcast:
			h.mutex.Lock()
			for conn := range h.Clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					conn.Close()
					delete(h.Clients, conn)
				}
			}
			h.mutex.Unlock()
		}
	}
}

func (h *Hub) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.Clients)
}

// Notify queues ev for broadcast without blocking the caller.
func (h *Hub) Notify(ev notify.Event) {
	msg, err := json.Marshal(ev)
	if err != nil {
		log.WithError(err).Warn("cannot encode websocket event")
		return
	}
	select {
	case h.Broadcast <- msg:
	default:
		log.WithField("type", ev.Type).Warn("websocket broadcast queue full, event dropped")
	}
}
