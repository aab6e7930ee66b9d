package handlers

import (
	"github.com/shashibhushan21/Chat-App32/internal/ws"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

// WebSocketHandler owns the live-connection endpoint
type WebSocketHandler struct {
	hub *ws.Hub
}

// NewWebSocketHandler creates a websocket handler on the given hub
func NewWebSocketHandler(hub *ws.Hub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

// Upgrade checks if the request should be upgraded to WebSocket
func (h *WebSocketHandler) Upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}

	return c.Status(fiber.StatusUpgradeRequired).JSON(fiber.Map{
		"success": false,
		"error":   "websocket upgrade required",
	})
}

// Handle runs one client connection: register with the hub, pump frames
// until the connection closes, then unregister.
func (h *WebSocketHandler) Handle(c *websocket.Conn) {
	userID := c.Locals("userID").(string)

	client := ws.NewClient(userID, c, h.hub)
	h.hub.Register <- client

	go client.WritePump()
	client.ReadPump() // blocks until connection closes
}

// Stats returns live connection statistics
func (h *WebSocketHandler) Stats(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"onlineUsers": h.hub.OnlineUserIDs(),
			"connections": h.hub.ConnectionCount(),
		},
	})
}
