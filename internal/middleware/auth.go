package middleware

import (
	"github.com/shashibhushan21/Chat-App32/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// Auth validates the JWT access token from the cookie and stores the
// authenticated identity on the request context. Everything downstream
// trusts c.Locals("userID") without re-verifying.
func Auth(tokens *utils.TokenManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := c.Cookies("token")
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "unauthorized - no token provided",
			})
		}

		claims, err := tokens.ValidateToken(tokenString)
		if err != nil || claims.Type != "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "unauthorized - invalid token",
			})
		}

		c.Locals("userID", claims.UserID)
		c.Locals("email", claims.Email)

		return c.Next()
	}
}

// GetUserID gets user ID from context
func GetUserID(c *fiber.Ctx) string {
	userID, ok := c.Locals("userID").(string)
	if !ok {
		return ""
	}
	return userID
}
