package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/usav/inventory-backend/internal/middleware"
	ws "github.com/usav/inventory-backend/internal/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Dashboard feed carries no credentials, any origin may subscribe.
		return true
	},
}

// EventController exposes the live domain-event feed used by warehouse
// dashboards.
type EventController struct {
	hub *ws.Hub
}

func NewEventController(hub *ws.Hub) *EventController {
	return &EventController{
		hub: hub,
	}
}

// Subscribe upgrades the connection and streams domain events
// GET /api/v1/events/ws
func (ctrl *EventController) Subscribe(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("Failed to upgrade to WebSocket", err)
		return
	}

	client := &ws.Client{
		Hub:  ctrl.hub,
		Conn: &ws.Conn{Conn: conn},
		Send: make(chan []byte, 256),
	}

	ctrl.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()

	log.Info("Event feed subscriber connected", nil)
}
