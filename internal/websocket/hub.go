package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/usav/inventory-backend/pkg/logger"
)

// Event names pushed to dashboard subscribers.
const (
	EventIdentityCreated  = "identity.created"
	EventVariantCreated   = "variant.created"
	EventVariantUpdated   = "variant.updated"
	EventListingSynced    = "listing.synced"
	EventListingError     = "listing.error"
	EventInventoryChanged = "inventory.changed"
)

// Event is the wire format for one dashboard notification.
type Event struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// Client is one connected dashboard session.
type Client struct {
	Hub  *Hub
	Conn *Conn
	Send chan []byte
}

// Hub fans domain events out to every connected client. The feed is
// one-way: inbound frames are read only to keep the connection alive.
type Hub struct {
	clients map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte

	mu sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client, 256),
		unregister: make(chan *Client, 256),
		broadcast:  make(chan []byte, 1024),
	}
}

// Run processes registrations and broadcasts until the process exits.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()
			logger.Info("WebSocket client registered", map[string]interface{}{
				"total_clients": total,
			})

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			total := len(h.clients)
			h.mu.Unlock()
			logger.Info("WebSocket client unregistered", map[string]interface{}{
				"total_clients": total,
			})

		case message := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					// Slow consumer, drop the frame rather than block the hub.
					logger.Debug("Dropping event for slow websocket client", nil)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register queues a new client.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Publish serializes an event and broadcasts it to all clients.
func (h *Hub) Publish(eventType string, payload interface{}) {
	event := Event{
		Type:      eventType,
		Payload:   payload,
		Timestamp: time.Now(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		logger.Error("Failed to marshal websocket event", err, map[string]interface{}{
			"type": eventType,
		})
		return
	}

	select {
	case h.broadcast <- data:
	default:
		logger.Debug("Event hub backlog full, dropping event", map[string]interface{}{
			"type": eventType,
		})
	}
}

var (
	defaultHub     *Hub
	defaultHubOnce sync.Once
)

// DefaultHub returns the process-wide hub, starting it on first use.
func DefaultHub() *Hub {
	defaultHubOnce.Do(func() {
		defaultHub = NewHub()
		go defaultHub.Run()
	})
	return defaultHub
}

// Publish sends an event through the default hub.
func Publish(eventType string, payload interface{}) {
	DefaultHub().Publish(eventType, payload)
}
