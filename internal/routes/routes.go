package routes

import (
	"github.com/shashibhushan21/Chat-App32/internal/handlers"
	"github.com/shashibhushan21/Chat-App32/internal/middleware"
	"github.com/shashibhushan21/Chat-App32/internal/utils"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

// Handlers bundles everything the router mounts
type Handlers struct {
	Auth      *handlers.AuthHandler
	Contacts  *handlers.ContactHandler
	Messages  *handlers.MessageHandler
	WebSocket *handlers.WebSocketHandler
	Tokens    *utils.TokenManager
}

// Setup configures all application routes
func Setup(app *fiber.App, h Handlers) {
	api := app.Group("/api")

	// Health check (public)
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	auth := middleware.Auth(h.Tokens)

	// Auth routes
	authGroup := api.Group("/auth")
	authGroup.Post("/signup", middleware.AuthRateLimiter(), h.Auth.Signup)
	authGroup.Post("/login", middleware.AuthRateLimiter(), h.Auth.Login)
	authGroup.Post("/refresh", middleware.AuthRateLimiter(), h.Auth.RefreshToken)
	authGroup.Post("/logout", auth, h.Auth.Logout)
	authGroup.Get("/check", auth, h.Auth.Me)
	authGroup.Put("/update-profile", auth, middleware.UploadRateLimiter(), h.Auth.UpdateProfile)

	// Contact routes (protected)
	contacts := api.Group("/contacts", auth)
	contacts.Get("/", h.Contacts.GetContacts)
	contacts.Post("/", h.Contacts.AddContact)

	// Message routes (protected)
	messages := api.Group("/messages", auth)
	messages.Get("/:counterpartId", h.Messages.GetMessages)
	messages.Post("/:counterpartId", middleware.UploadRateLimiter(), h.Messages.SendMessage)
	messages.Put("/read", h.Messages.MarkManyAsRead)
	messages.Put("/:messageId/read", h.Messages.MarkAsRead)

	// WebSocket route (protected)
	api.Get("/ws", auth, h.WebSocket.Upgrade, websocket.New(h.WebSocket.Handle))
	api.Get("/ws/stats", auth, h.WebSocket.Stats)
}
