package handlers

import (
	"github.com/shashibhushan21/Chat-App32/internal/apperr"
	"github.com/shashibhushan21/Chat-App32/internal/models"
	"github.com/shashibhushan21/Chat-App32/internal/store"
	"github.com/shashibhushan21/Chat-App32/internal/utils"
	"github.com/shashibhushan21/Chat-App32/internal/ws"

	"github.com/gofiber/fiber/v2"
)

// AddContactRequest represents add contact request body
type AddContactRequest struct {
	ContactNumber string `json:"contactNumber"`
}

// ContactHandler handles the contact list endpoints
type ContactHandler struct {
	users *store.UserStore
	hub   *ws.Hub
}

// NewContactHandler creates a contact handler
func NewContactHandler(users *store.UserStore, hub *ws.Hub) *ContactHandler {
	return &ContactHandler{users: users, hub: hub}
}

// AddContact adds another user, looked up by contact number, to the
// caller's contact list.
func (h *ContactHandler) AddContact(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	var req AddContactRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperr.Validation("invalid request body"))
	}
	if req.ContactNumber == "" {
		return respondError(c, apperr.Validation("contact number is required"))
	}

	contact, err := h.users.GetByContactNumber(c.Context(), utils.NormalizeContactNumber(req.ContactNumber))
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return respondError(c, apperr.NotFound("no user found with this contact number"))
		}
		return respondError(c, err)
	}

	if err := h.users.AddContact(c.Context(), userID, contact.ID); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    contact.ToResponse(),
	})
}

// GetContacts returns the caller's contact list with live presence
func (h *ContactHandler) GetContacts(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	contacts, err := h.users.ListContacts(c.Context(), userID)
	if err != nil {
		return respondError(c, err)
	}

	out := make([]models.ContactWithUser, 0, len(contacts))
	for _, u := range contacts {
		out = append(out, models.ContactWithUser{
			Contact:  u.ToResponse(),
			IsOnline: h.hub.IsOnline(u.ID),
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    out,
	})
}
