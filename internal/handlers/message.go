package handlers

import (
	"github.com/shashibhushan21/Chat-App32/internal/apperr"
	"github.com/shashibhushan21/Chat-App32/internal/chat"
	"github.com/shashibhushan21/Chat-App32/internal/storage"

	"github.com/gofiber/fiber/v2"
)

// SendMessageRequest represents send message request body. Images arrive as
// base64 data URIs and are uploaded to attachment storage before persisting.
type SendMessageRequest struct {
	Text   string   `json:"text"`
	Images []string `json:"images"`
}

// MarkManyReadRequest represents batch mark-read request body
type MarkManyReadRequest struct {
	MessageIDs []string `json:"messageIds"`
}

// MessageHandler handles the conversation endpoints
type MessageHandler struct {
	svc      *chat.Service
	uploader *storage.Uploader
}

// NewMessageHandler creates a message handler
func NewMessageHandler(svc *chat.Service, uploader *storage.Uploader) *MessageHandler {
	return &MessageHandler{svc: svc, uploader: uploader}
}

// SendMessage sends a direct message to the counterpart in the URL
func (h *MessageHandler) SendMessage(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	receiverID := c.Params("counterpartId")

	var req SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperr.Validation("invalid request body"))
	}

	var imageURLs []string
	if len(req.Images) > 0 {
		urls, err := h.uploader.UploadImages(c.Context(), "messages/"+userID, req.Images)
		if err != nil {
			return respondError(c, apperr.Validation(err.Error()))
		}
		imageURLs = urls
	}

	msg, err := h.svc.Send(c.Context(), userID, receiverID, req.Text, imageURLs)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    msg,
	})
}

// GetMessages returns the full conversation with the counterpart in the URL
func (h *MessageHandler) GetMessages(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	counterpartID := c.Params("counterpartId")

	messages, err := h.svc.Conversation(c.Context(), userID, counterpartID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    messages,
	})
}

// MarkAsRead marks a single message read on behalf of its receiver
func (h *MessageHandler) MarkAsRead(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	messageID := c.Params("messageId")

	msg, err := h.svc.MarkRead(c.Context(), messageID, userID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    msg,
	})
}

// MarkManyAsRead marks a batch of messages read in one request
func (h *MessageHandler) MarkManyAsRead(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	var req MarkManyReadRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperr.Validation("invalid request body"))
	}
	if len(req.MessageIDs) == 0 {
		return respondError(c, apperr.Validation("messageIds is required"))
	}

	updated, err := h.svc.MarkManyRead(c.Context(), req.MessageIDs, userID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"updatedCount": len(updated),
			"messages":     updated,
		},
	})
}
