package handlers

import (
	"hotelparadise/internal/websockets"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// WebSocketHandler upgrades /ws. Sockets authenticate in-band after connecting.
func WebSocketHandler(router fiber.Router, wsManager *websockets.Manager) {
	router.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	router.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsManager.HandleWebSocket(c)
	}))
}
