package handlers

import (
	"github.com/shashibhushan21/Chat-App32/internal/apperr"

	"github.com/gofiber/fiber/v2"
)

// respondError maps a classified error onto the standard error response
// shape. Unclassified errors become opaque 500s.
func respondError(c *fiber.Ctx, err error) error {
	return c.Status(apperr.HTTPStatus(err)).JSON(fiber.Map{
		"success": false,
		"error":   apperr.Message(err),
	})
}
