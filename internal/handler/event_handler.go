package handler

import (
	"kelly-ai-client/internal/pkg/logger"
	internalWS "kelly-ai-client/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// EventHandler serves the live conversation event stream to UI clients.
type EventHandler struct {
	hub    *internalWS.Hub
	logger logger.ILogger
}

func NewEventHandler(hub *internalWS.Hub, log logger.ILogger) *EventHandler {
	return &EventHandler{
		hub:    hub,
		logger: log,
	}
}

// ServeWs upgrades the request and streams events until the peer leaves.
func (h *EventHandler) ServeWs(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	return websocket.New(func(conn *websocket.Conn) {
		h.logger.Info("EventHandler", "Starting WebSocket session", map[string]interface{}{"remote": conn.RemoteAddr().String()})
		internalWS.ServeWs(h.hub, conn)
		h.logger.Info("EventHandler", "WebSocket session ended", nil)
	})(c)
}

func (h *EventHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/ws/events", h.ServeWs)
}
