package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/rafa3lsilva/Sistema-Inventario/internal/events"
)

// Hub maintains the set of connected dashboards and fans ledger and
// catalog events out to all of them.
type Hub struct {
	// Registered clients map: ClientID -> Client
	clients map[string]*Client

	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte

	// done is closed when Run returns
	done chan struct{}

	mu sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 256),
		done:       make(chan struct{}),
		clients:    make(map[string]*Client),
	}
}

// Run starts the hub's main loop. It returns when ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.mu.Lock()
			for id, c := range h.clients {
				c.closeSend()
				delete(h.clients, id)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			// Same client id connecting again replaces the old connection
			if old, ok := h.clients[client.ID]; ok && old != client {
				old.closeSend()
			}
			h.clients[client.ID] = client
			h.mu.Unlock()
			log.Printf("📺 Client connected: %s (%s)", client.ID, client.Username)

		case client := <-h.unregister:
			h.mu.Lock()
			if cur, ok := h.clients[client.ID]; ok && cur == client {
				delete(h.clients, client.ID)
				client.closeSend()
				log.Printf("📴 Client disconnected: %s", client.ID)
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.mu.Lock()
			for id, c := range h.clients {
				select {
				case c.send <- message:
				default:
					// Slow consumer, drop it
					c.closeSend()
					delete(h.clients, id)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Clients returns the number of connected clients
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast queues a message for every client. It never blocks; when the
// queue is full the message is dropped.
func (h *Hub) Broadcast(message interface{}) bool {
	jsonMsg, err := json.Marshal(message)
	if err != nil {
		log.Printf("Error marshaling message: %v", err)
		return false
	}

	select {
	case h.broadcast <- jsonMsg:
		return true
	default:
		log.Printf("⚠️ Broadcast queue full, dropping message")
		return false
	}
}

// Publish implements events.Publisher so dashboards see counts live.
func (h *Hub) Publish(_ context.Context, ev events.Event) {
	h.Broadcast(ev)
}
